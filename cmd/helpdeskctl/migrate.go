package main

import (
	"fmt"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"

	"github.com/spec-kit/helpdesk/internal/persistence"
)

func newMigrateCommand() *cobra.Command {
	flags := connectionFlags()
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the embedded schema migrations",
		Long: `Apply every embedded SQL migration in order. Migrations are idempotent,
so running the command against an up to date store changes nothing.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := connect(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer rt.Close()

			if err := persistence.RunMigrations(cmd.Context(), rt.pg.PoolHandle(), rt.logger); err != nil {
				return err
			}
			names, err := persistence.MigrationNames()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "applied %d migrations\n", len(names))
			return nil
		},
	}
	cobraflags.RegisterMap(cmd, flags)
	return cmd
}
