package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/hperssn/reflex/internal/config"
	"github.com/hperssn/reflex/internal/observability"
	"github.com/hperssn/reflex/internal/runner"
	"github.com/hperssn/reflex/internal/storage"
)

type app struct {
	cfgFile string
	v       *viper.Viper
	cfg     *config.Config
}

func NewRootCommand() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:           "reflex",
		Short:         "Reaction time tester",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.v, a.cfgFile)
			if err != nil {
				// fall back to a console logger so execute can report err
				observability.InitializeLogger(config.LoggerConfig{Level: "info", Format: "console", ServiceName: "reflex"})
				return err
			}
			a.cfg = cfg

			observability.InitializeLogger(cfg.Logger)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			observability.Sync()
		},
	}

	root.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "", "config file (default is ./config.yaml)")
	root.PersistentFlags().String("store", "", "best score store driver: memory, sqlite or postgres")
	root.PersistentFlags().String("dsn", "", "store data source (sqlite path or postgres URL)")
	_ = a.v.BindPFlag("store.driver", root.PersistentFlags().Lookup("store"))
	_ = a.v.BindPFlag("store.dsn", root.PersistentFlags().Lookup("dsn"))

	root.AddCommand(newServeCommand(a), newPlayCommand(a))
	return root
}

// openController opens the configured store and builds a controller over it.
// The returned cleanup closes both.
func (a *app) openController(ctx context.Context, opts ...runner.Option) (*runner.Controller, func(), error) {
	logger := observability.GetLogger()

	repo, err := storage.Open(a.cfg.Store)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}

	opts = append([]runner.Option{runner.WithLogger(logger)}, opts...)
	ctrl := runner.NewController(ctx, repo, opts...)

	cleanup := func() {
		ctrl.Close()
		if err := repo.Close(); err != nil {
			logger.Warn("closing store", zap.Error(err))
		}
	}
	return ctrl, cleanup, nil
}
