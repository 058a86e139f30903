package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"erp-project/backend/auth"
	"erp-project/backend/logging"
	"erp-project/backend/router"
	"erp-project/backend/services"
	"erp-project/backend/utils"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		stores, closeStores, err := openStores(ctx, cfg)
		if err != nil {
			logging.Logger.Errorf("Event ID: DB_CONNECTION_FAILED, Description: %v", err)
			return err
		}
		defer func() {
			if err := closeStores(context.Background()); err != nil {
				logging.Logger.Warnf("Event ID: DB_DISCONNECT_FAILED, Description: %v", err)
			}
		}()

		keys, err := utils.NewTokenKeys(cfg.ClerkJWTKey, cfg.ClerkJWTSecret)
		if err != nil {
			return err
		}
		clerk := auth.NewClerkClient(keys, cfg.ClerkAPIURL, cfg.ClerkSecretKey, utils.NewHTTPClient())
		resolver := auth.NewResolver(clerk, stores.Users, cfg.SuperuserEmail)
		if cfg.SuperuserEmail == "" {
			logging.Logger.Warn("Event ID: SUPERUSER_NOT_SET, Description: SUPERUSER_EMAIL is empty; access depends on user records only")
		}

		server := &http.Server{
			Addr:              fmt.Sprintf(":%s", cfg.ServerPort),
			Handler:           router.New(cfg, resolver, services.New(stores, cfg.Dashboard)),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			logging.Logger.Infof("Event ID: SERVER_START_INFO, Description: Server running on http://localhost%s", server.Addr)
			errCh <- server.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				logging.Logger.Errorf("Event ID: SERVER_FATAL_ERROR, Description: Server failed: %v", err)
				return err
			}
			return nil
		case <-ctx.Done():
		}

		logging.Logger.Info("Event ID: SERVER_SHUTDOWN, Description: Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	},
}
