package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mamadbah2/herdbook/internal/app"
	"github.com/mamadbah2/herdbook/internal/config"
	"github.com/mamadbah2/herdbook/pkg/logger"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:           "herdctl",
	Short:         "herdctl runs maintenance tasks against the herdbook database",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", "", "Path to a .env file")
}

// openApp loads the configuration and opens the migrated database. The caller
// closes the returned app.
func openApp(ctx context.Context) (*app.App, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, err
	}
	base, err := logger.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return app.Open(ctx, cfg, base.Named("herdctl"))
}

func closeApp(ctx context.Context, a *app.App) {
	if err := a.Close(ctx); err != nil {
		a.Logger.Warn("failed to close connections", zap.Error(err))
	}
	_ = a.Logger.Sync()
}
