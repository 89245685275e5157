package main

import (
	"context"
	"fmt"

	"github.com/deppfellow/surf-tools/internal/appclient"
	"github.com/deppfellow/surf-tools/internal/conntest"
	"github.com/deppfellow/surf-tools/internal/database"
	"github.com/deppfellow/surf-tools/internal/repository"
	"github.com/deppfellow/surf-tools/internal/supabase"
	"github.com/deppfellow/surf-tools/internal/weather"
	"github.com/spf13/cobra"
)

const (
	backendSupabase = "supabase"
	backendPostgres = "postgres"
)

func newConnTestCommand(root *rootOptions) *cobra.Command {
	var (
		anon    bool
		backend string
		appURL  string
	)

	cmd := &cobra.Command{
		Use:   "conntest",
		Short: "Check env vars, the database, the WillyWeather API and the deployed app",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if backend != backendSupabase && backend != backendPostgres {
				return fmt.Errorf("unknown backend %q (must be %s or %s)", backend, backendSupabase, backendPostgres)
			}

			rt, err := root.load()
			if err != nil {
				return err
			}
			defer rt.close()

			if err := rt.cfg.ValidateConnTest(); err != nil {
				return err
			}

			runner := conntest.NewRunner(conntest.Options{
				Config:    rt.cfg,
				Logger:    rt.logger,
				Anon:      anon,
				OpenStore: rt.storeOpener(backend, anon),
				Weather:   weather.NewClient(rt.cfg.Weather, rt.cfg.HTTP.Timeout),
				App:       appclient.NewClient(rt.cfg.App.HealthPath, rt.cfg.HTTP.Timeout),
				AppURL:    appURL,
				Out:       cmd.OutOrStdout(),
				In:        cmd.InOrStdin(),
			})

			if report := runner.Run(cmd.Context()); !report.AllPassed() {
				return errChecksFailed
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&anon, "anon", false, "use the restricted anon key instead of the service key")
	cmd.Flags().StringVar(&backend, "backend", backendSupabase, "database backend: supabase or postgres")
	cmd.Flags().StringVar(&appURL, "app-url", "", "deployed app host (defaults to SURFCHECK_APP__URL)")

	return cmd
}

func (r *runtime) storeOpener(backend string, anon bool) conntest.StoreOpener {
	if backend == backendPostgres {
		return func(context.Context) (conntest.Store, func(), error) {
			if err := r.cfg.ValidateDatabase(); err != nil {
				return nil, nil, err
			}

			db, err := database.New(r.cfg, r.logger, r.loggerService)
			if err != nil {
				return nil, nil, err
			}
			return repository.NewRepositories(db.Pool), func() { _ = db.Close() }, nil
		}
	}

	return func(context.Context) (conntest.Store, func(), error) {
		key, _ := r.cfg.DatabaseKey(anon)
		store := supabase.NewStore(supabase.NewClient(r.cfg.Supabase.URL, key, r.cfg.HTTP.Timeout))
		return store, store.Close, nil
	}
}
