package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/repository"
	"github.com/spec-kit/helpdesk/internal/service"
)

func newSeedCommand() *cobra.Command {
	flags := connectionFlags()
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed the registration roster if it is empty and print it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := connect(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer rt.Close()

			roster := service.NewRosterService(repository.NewRosterRepository(rt.pg.PoolHandle()), rt.logger)
			inserted, err := roster.SeedIfEmpty(cmd.Context())
			if err != nil {
				return err
			}
			entries, err := roster.List(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if inserted > 0 {
				fmt.Fprintf(out, "seeded %d roster entries\n", inserted)
			} else {
				fmt.Fprintln(out, "roster already seeded")
			}
			return printRoster(out, entries)
		},
	}
	cobraflags.RegisterMap(cmd, flags)
	return cmd
}

func printRoster(w io.Writer, entries []domain.RosterEntry) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CODE\tROLE")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\n", e.Code, e.Role)
	}
	return tw.Flush()
}
