package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/drake/drivecast/internal/adapter"
	"github.com/drake/drivecast/internal/library"
	"github.com/drake/drivecast/internal/service"
)

var (
	cfg    *adapter.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:     "drivecast",
	Short:   "Browse and track media stored in a remote Drive hierarchy",
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = adapter.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logger, err = adapter.SetupLogger(&cfg.Logging)
		if err != nil {
			// Fall back to null logger if file logging fails
			logger = adapter.NullLogger()
		}
		slog.SetDefault(logger)
		return nil
	},
	SilenceUsage: true,
}

// openSession restores the authenticated session; commands needing the
// remote store call this.
func openSession() (*service.Session, *service.Browser, error) {
	sess, err := service.Open(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return sess, service.NewBrowser(sess, cfg.Scan.FanOut), nil
}

// openLibrary opens just the library store, for commands that never touch
// the remote side.
func openLibrary() (*library.Store, error) {
	return library.Open(adapter.DataDirPath(), logger)
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store the server URL and access token",
	RunE: func(cmd *cobra.Command, args []string) error {
		url, _ := cmd.Flags().GetString("url")
		token, _ := cmd.Flags().GetString("token")
		expiresIn, _ := cmd.Flags().GetInt64("expires-in")

		if url != "" {
			cfg.Server.URL = url
		}
		if token == "" {
			return fmt.Errorf("--token is required")
		}
		cfg.Server.Token = token
		if expiresIn > 0 {
			cfg.Server.ExpireAt = time.Now().Unix() + expiresIn
		}

		if err := adapter.SaveConfig(cfg); err != nil {
			return err
		}
		fmt.Println("Credentials saved.")
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored access token",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := adapter.ClearCredentials(); err != nil {
			return err
		}
		fmt.Println("Signed out.")
		return nil
	},
}

func init() {
	loginCmd.Flags().String("url", "", "API base URL (kept when omitted)")
	loginCmd.Flags().String("token", "", "access token")
	loginCmd.Flags().Int64("expires-in", 0, "token lifetime in seconds")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
}
