package main

import (
	"context"
	"fmt"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/config"
	"github.com/spec-kit/helpdesk/internal/observability"
	"github.com/spec-kit/helpdesk/internal/persistence"
)

const dsnFlag = "dsn"

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "helpdeskctl",
		Short:         "Operate the helpdesk ticket store",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newMigrateCommand())
	root.AddCommand(newSeedCommand())
	root.AddCommand(newExportCommand())
	return root
}

// connectionFlags returns a fresh flag set so every command owns its values.
func connectionFlags() map[string]cobraflags.Flag {
	return map[string]cobraflags.Flag{
		dsnFlag: &cobraflags.StringFlag{
			Name:  dsnFlag,
			Value: "",
			Usage: "Postgres connection string (defaults to POSTGRES_DSN)",
		},
	}
}

// cliEnv holds what every command needs once connected.
type cliEnv struct {
	cfg    *config.Config
	logger *zap.Logger
	pg     *persistence.Postgres
}

func (r *cliEnv) Close() {
	r.pg.Close()
	_ = r.logger.Sync()
}

func connect(ctx context.Context, flags map[string]cobraflags.Flag) (*cliEnv, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if dsn := flags[dsnFlag].GetString(); dsn != "" {
		cfg.Postgres.DSN = dsn
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &cliEnv{cfg: cfg, logger: logger, pg: pg}, nil
}
