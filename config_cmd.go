package main

import (
	"encoding/json"
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/tonimelisma/outlook-mcp/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		RunE:  runConfigPath,
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE:  runConfigShow,
	})

	return cmd
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if flagConfigPath != "" {
		path = flagConfigPath
	}

	fmt.Fprintln(cmd.OutOrStdout(), path)

	return nil
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if flagJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")

		return enc.Encode(resolvedCfg)
	}

	return toml.NewEncoder(cmd.OutOrStdout()).Encode(resolvedCfg)
}
