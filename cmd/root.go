// Package cmd is the command line of the backend: the HTTP server and a few
// maintenance commands.
package cmd

import (
	"context"
	"fmt"
	"os"

	"erp-project/backend/config"
	"erp-project/backend/logging"
	"erp-project/backend/store"

	"github.com/spf13/cobra"
)

const systemName = "projectflow-backend"

var envFile string

var rootCmd = &cobra.Command{
	Use:           "projectflow",
	Short:         "Project management and lightweight ERP backend",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	rootCmd.AddCommand(serveCmd, usersCmd, tokenCmd, versionCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// setup loads the configuration and starts the logger.
func setup() (*config.Config, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, err
	}
	logging.InitLogger(logging.Options{SystemName: systemName, File: cfg.LogFile, Level: cfg.LogLevel})
	return cfg, nil
}

// openStores connects the configured store. The returned func releases it.
func openStores(ctx context.Context, cfg *config.Config) (*store.Stores, func(context.Context) error, error) {
	if cfg.StoreDriver == config.DriverMemory {
		logging.Logger.Warn("Event ID: STORE_MEMORY, Description: Using the in-memory store; data is lost on exit")
		return store.NewMemoryStores(), func(context.Context) error { return nil }, nil
	}
	stores, disconnect, err := store.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		return nil, nil, err
	}
	logging.Logger.Infof("Event ID: DB_CONNECTED, Description: Connected to MongoDB database %s", cfg.MongoDBName)
	return stores, disconnect, nil
}
