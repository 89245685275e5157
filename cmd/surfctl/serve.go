package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/deppfellow/surf-tools/internal/database"
	"github.com/deppfellow/surf-tools/internal/handler"
	"github.com/deppfellow/surf-tools/internal/repository"
	"github.com/deppfellow/surf-tools/internal/router"
	"github.com/deppfellow/surf-tools/internal/server"
	"github.com/deppfellow/surf-tools/internal/service"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 30 * time.Second

func newServeCommand(root *rootOptions) *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve /api/test-db and /status against DATABASE_URL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := root.load()
			if err != nil {
				return err
			}
			defer rt.close()

			if err := rt.cfg.ValidateServer(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if migrate {
				if err := database.Migrate(ctx, rt.logger, rt.cfg); err != nil {
					return err
				}
			}

			srv, err := server.New(rt.cfg, rt.logger, rt.loggerService)
			if err != nil {
				return err
			}

			services := service.NewServices(repository.NewRepositories(srv.DB.Pool))
			srv.SetupHTTPServer(router.NewRouter(srv, handler.NewHandlers(srv, services)))

			serveErr := make(chan error, 1)
			go func() {
				serveErr <- srv.Start()
			}()

			select {
			case err := <-serveErr:
				if !errors.Is(err, http.ErrServerClosed) {
					_ = srv.Shutdown(context.Background())
					return err
				}
				return nil
			case <-ctx.Done():
			}

			rt.logger.Info().Msg("shutting down server")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				return err
			}

			rt.logger.Info().Msg("server stopped")
			return nil
		},
	}

	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply pending migrations before serving")

	return cmd
}
