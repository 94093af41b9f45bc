package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/tonimelisma/outlook-mcp/internal/deltastore"
	"github.com/tonimelisma/outlook-mcp/internal/graph"
	"github.com/tonimelisma/outlook-mcp/internal/tokencache"
	"github.com/tonimelisma/outlook-mcp/internal/tools/calendar_tools"
	"github.com/tonimelisma/outlook-mcp/internal/tools/common"
	"github.com/tonimelisma/outlook-mcp/internal/tools/contact_tools"
	"github.com/tonimelisma/outlook-mcp/internal/tools/mail_tools"
	"github.com/tonimelisma/outlook-mcp/internal/tools/settings_tools"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server on stdio",
		RunE:  runServe,
	}
}

func runServe(_ *cobra.Command, _ []string) error {
	logger := buildLogger()

	if err := requireClientID(); err != nil {
		return err
	}

	ctx := shutdownContext(context.Background(), logger)

	oauthCfg := graph.OAuthConfig(resolvedCfg.Auth.ClientID, resolvedCfg.Auth.TenantID)
	cache := tokencache.New(resolvedCfg.Auth.TokenPath, oauthCfg, logger)

	// Pick up logins and logouts performed by the CLI while serving.
	go func() {
		if err := cache.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn("token file watcher stopped", "error", err)
		}
	}()

	client := graph.NewClient(graph.BaseURL, defaultHTTPClient(), cache, logger)

	store, err := deltastore.Open(resolvedCfg.Delta.DBPath, logger)
	if err != nil {
		return fmt.Errorf("opening delta state database: %w", err)
	}
	defer store.Close()

	deps := &common.Deps{Client: client, Delta: store, Logger: logger}

	s := mcpserver.NewMCPServer("outlook-mcp", version)

	mail_tools.RegisterTools(s, deps)
	calendar_tools.RegisterTools(s, deps)
	contact_tools.RegisterTools(s, deps)
	settings_tools.RegisterTools(s, deps)

	logger.Info("MCP server starting on stdio")

	serverDone := make(chan error, 1)

	go func() {
		serverDone <- mcpserver.ServeStdio(s)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
		return nil
	case err := <-serverDone:
		if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("MCP server: %w", err)
		}

		return nil
	}
}
