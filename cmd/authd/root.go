package main

import (
	"errors"
	"fmt"
	"io/fs"
	"runtime/debug"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/stockhub/auth-service/internal/infrastructure/config"
	"github.com/stockhub/auth-service/pkg/logger"
)

const serviceName = "auth-service"

var (
	// Version is set via ldflags when building.
	Version = ""

	envFile string

	rootCmd = &cobra.Command{
		Use:               "authd",
		Short:             "Credential and session token service",
		Long:              "authd registers users, verifies passwords and issues the signed tokens that gate the platform's APIs.",
		SilenceUsage:      true,
		PersistentPreRunE: loadEnvFile,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	rootCmd.AddCommand(serveCmd, migrateCmd)
	rootCmd.CompletionOptions.HiddenDefaultCmd = true

	if Version == "" {
		if info, ok := debug.ReadBuildInfo(); ok && info.Main.Sum != "" {
			Version = info.Main.Version
		} else {
			Version = "unknown (built from source)"
		}
	}
	rootCmd.Version = Version
}

// loadEnvFile applies envFile without overriding variables already set. A
// missing file is not an error.
func loadEnvFile(*cobra.Command, []string) error {
	if envFile == "" {
		return nil
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", envFile, err)
	}
	return nil
}

// setup loads configuration and initialises the process logger.
func setup(cmd *cobra.Command) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(cmd.Context())
	if err != nil {
		return nil, zerolog.Logger{}, err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: serviceName,
		Version: Version,
	})
	return cfg, log, nil
}
