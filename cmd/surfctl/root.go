package main

import (
	"errors"

	"github.com/deppfellow/surf-tools/internal/config"
	"github.com/deppfellow/surf-tools/internal/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// errChecksFailed makes the process exit 1 after a report was printed.
var errChecksFailed = errors.New("some checks failed")

type rootOptions struct {
	envFiles []string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "surfctl",
		Short:         "Maintenance tools for the surf forecast app",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringSliceVar(&opts.envFiles, "env-file", config.DefaultEnvFiles,
		"env files loaded before reading the environment")

	cmd.AddCommand(
		newCleanupCommand(opts),
		newConnTestCommand(opts),
		newServeCommand(opts),
		newMigrateCommand(opts),
	)

	return cmd
}

// runtime is what every command needs after config is loaded.
type runtime struct {
	cfg           *config.Config
	logger        *zerolog.Logger
	loggerService *logger.LoggerService
}

func (o *rootOptions) load() (*runtime, error) {
	cfg, err := config.Load(o.envFiles...)
	if err != nil {
		return nil, err
	}

	loggerService := logger.NewLoggerService(cfg.Observability)
	log := logger.NewLoggerWithService(cfg.Observability, loggerService)

	return &runtime{cfg: cfg, logger: &log, loggerService: loggerService}, nil
}

func (r *runtime) close() {
	r.loggerService.Shutdown()
}
