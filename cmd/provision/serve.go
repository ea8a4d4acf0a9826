package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/warp/provision-engine/api"
	"github.com/warp/provision-engine/config"
	"github.com/warp/provision-engine/logger"
	"github.com/warp/provision-engine/provision"
	"github.com/warp/provision-engine/store/postgres"
)

// newServeCommand starts the HTTP report API with graceful shutdown.
func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the provision report API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log := logger.Init(cfg.Logger.Level, cfg.Logger.Format)

			store, err := postgres.New(&cfg.Database, log)
			if err != nil {
				return err
			}
			defer store.Close()

			handler := api.NewHandler(store, provision.NewEngine(store))
			server := &http.Server{
				Addr:         cfg.Server.Addr(),
				Handler:      api.NewRouter(handler),
				ReadTimeout:  15 * time.Second,
				WriteTimeout: 15 * time.Second,
				IdleTimeout:  60 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				log.Info("server starting", "addr", server.Addr)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-errCh:
				return err
			case <-quit:
			}

			log.Info("shutting down server")
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := server.Shutdown(ctx); err != nil {
				return err
			}
			log.Info("server stopped")
			return nil
		},
	}
}
