package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/tonimelisma/outlook-mcp/internal/graph"
	"github.com/tonimelisma/outlook-mcp/internal/tokencache"
)

var flagBrowser bool

func newLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate with Microsoft using the device code flow",
		RunE:  runLogin,
	}

	cmd.Flags().BoolVar(&flagBrowser, "browser", false, "use the browser flow (authorization code + PKCE) instead of a device code")

	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the saved authentication token",
		RunE:  runLogout,
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Display the signed-in account",
		RunE:  runWhoami,
	}
}

func runLogin(_ *cobra.Command, _ []string) error {
	logger := buildLogger()
	ctx := context.Background()

	if err := requireClientID(); err != nil {
		return err
	}

	oauthCfg := graph.OAuthConfig(resolvedCfg.Auth.ClientID, resolvedCfg.Auth.TenantID)
	tokenPath := resolvedCfg.Auth.TokenPath

	var err error
	if flagBrowser {
		_, err = graph.LoginWithBrowser(ctx, tokenPath, oauthCfg, openBrowser, logger)
	} else {
		_, err = graph.Login(ctx, tokenPath, oauthCfg, func(da graph.DeviceAuth) {
			// Device code prompts must always be visible, not suppressed by --quiet.
			fmt.Fprintf(os.Stderr, "To sign in, visit: %s\n", da.VerificationURI)
			fmt.Fprintf(os.Stderr, "Enter code: %s\n", da.UserCode)
		}, logger)
	}

	if err != nil {
		return err
	}

	// Record who signed in so whoami works offline.
	if metaErr := saveAccountMeta(ctx, tokenPath); metaErr != nil {
		logger.Warn("could not record account metadata", "error", metaErr)
	}

	statusf("Login successful.\n")

	return nil
}

// saveAccountMeta fetches the signed-in profile and stores identifying
// fields next to the token.
func saveAccountMeta(ctx context.Context, tokenPath string) error {
	profile, err := fetchProfile(ctx)
	if err != nil {
		return err
	}

	username := profile.Mail
	if username == "" {
		username = profile.UserPrincipalName
	}

	return graph.SaveTokenMeta(tokenPath, map[string]string{
		"user_id":      profile.ID,
		"username":     username,
		"display_name": profile.DisplayName,
	})
}

func runLogout(_ *cobra.Command, _ []string) error {
	logger := buildLogger()

	if err := graph.Logout(resolvedCfg.Auth.TokenPath, logger); err != nil {
		return err
	}

	statusf("Logged out.\n")

	return nil
}

// profile holds the user fields displayed by whoami.
type profile struct {
	ID                string `json:"id"`
	DisplayName       string `json:"displayName"`
	Mail              string `json:"mail"`
	UserPrincipalName string `json:"userPrincipalName"`
}

func fetchProfile(ctx context.Context) (*profile, error) {
	logger := buildLogger()

	oauthCfg := graph.OAuthConfig(resolvedCfg.Auth.ClientID, resolvedCfg.Auth.TenantID)
	cache := tokencache.New(resolvedCfg.Auth.TokenPath, oauthCfg, logger)
	client := graph.NewClient(graph.BaseURL, defaultHTTPClient(), cache, logger)

	resp, err := client.Get(ctx, "/me", nil)
	if err != nil {
		return nil, err
	}

	var p profile
	if err := resp.Decode(&p); err != nil {
		return nil, err
	}

	return &p, nil
}

func runWhoami(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	if err := requireClientID(); err != nil {
		return err
	}

	p, err := fetchProfile(ctx)
	if err != nil {
		if errors.Is(err, graph.ErrNotAuthenticated) || errors.Is(err, graph.ErrReauthRequired) {
			return fmt.Errorf("not logged in, run 'outlook-mcp login' first")
		}

		return fmt.Errorf("fetching profile: %w", err)
	}

	email := p.Mail
	if email == "" {
		email = p.UserPrincipalName
	}

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")

		return enc.Encode(map[string]string{
			"id":           p.ID,
			"display_name": p.DisplayName,
			"email":        email,
		})
	}

	fmt.Printf("User:  %s (%s)\n", p.DisplayName, email)
	fmt.Printf("ID:    %s\n", p.ID)

	return nil
}

// openBrowser launches the platform's default browser.
func openBrowser(authURL string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", authURL).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", authURL).Start()
	default:
		return exec.Command("xdg-open", authURL).Start()
	}
}
