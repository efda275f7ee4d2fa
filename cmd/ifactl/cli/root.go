// Package cli implements the ifactl operator commands.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/SscSPs/invoice_flow_app/internal/app"
	"github.com/SscSPs/invoice_flow_app/internal/platform/config"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "ifactl",
	Short: "Operator tooling for the invoice flow backend",
	Long: `ifactl runs maintenance tasks against the invoice database:
schema migrations, the recurring invoice sweep, the overdue marker
and invoice register exports.

Configuration is read from the same environment variables as the API.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	logger := app.NewLogger(cfg).With(slog.String("component", "ifactl"))
	slog.SetDefault(logger)
	return cfg, logger, nil
}

func bootstrap(ctx context.Context) (*app.Runtime, error) {
	cfg, logger, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return app.Bootstrap(ctx, cfg, logger, app.Options{})
}
