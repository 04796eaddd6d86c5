package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"jrc-server/internal/config"
	"jrc-server/internal/logger"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:           "jrc-server",
	Short:         "JRC plan generator: soccer reduced/conditioned games from a language model",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Path to .env file (ignored if missing)")

	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateVersionCmd)
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bootstrap загружает конфигурацию и поднимает глобальный логгер.
func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig(envFile)
	if err != nil {
		return nil, nil, err
	}

	log, err := logger.New(logger.Config{
		Level:    cfg.LogLevel,
		Encoding: cfg.LogEncoding,
		Output:   cfg.LogOutput,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	zap.ReplaceGlobals(log)
	log.Info("Configuration loaded",
		zap.String("env", cfg.Env),
		zap.String("ai_client_type", cfg.AIClientType),
		zap.String("state_backend", cfg.StateBackend))
	return cfg, log, nil
}
