package main

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/observability"
	"github.com/spec-kit/helpdesk/internal/report"
	"github.com/spec-kit/helpdesk/internal/repository"
	"github.com/spec-kit/helpdesk/internal/service"
)

const (
	outFlag         = "out"
	requesterIDFlag = "requester-id"
)

func newExportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [csv|pdf]",
		Short: "Export tickets as CSV or PDF",
		Long: `Export tickets newest first. With --requester-id only that requester's
tickets are included; the output layout is the same either way.

Examples:
  helpdeskctl export csv --out tickets.csv
  helpdeskctl export pdf --requester-id 12`,
	}
	cmd.AddCommand(newExportFormatCommand(service.ExportFormatCSV))
	cmd.AddCommand(newExportFormatCommand(service.ExportFormatPDF))
	return cmd
}

func newExportFormatCommand(format service.ExportFormat) *cobra.Command {
	flags := connectionFlags()
	flags[outFlag] = &cobraflags.StringFlag{
		Name:  outFlag,
		Value: "",
		Usage: fmt.Sprintf("Destination file (defaults to REPORT_OUTPUT_DIR/tickets.%s)", format),
	}
	flags[requesterIDFlag] = &cobraflags.StringFlag{
		Name:  requesterIDFlag,
		Value: "",
		Usage: "Only export tickets created by this account id",
	}

	cmd := &cobra.Command{
		Use:   string(format),
		Short: fmt.Sprintf("Export tickets as %s", format),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			scope, err := parseScope(flags[requesterIDFlag].GetString())
			if err != nil {
				return err
			}

			rt, err := connect(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer rt.Close()

			path := flags[outFlag].GetString()
			if path == "" {
				path = filepath.Join(rt.cfg.Report.OutputDir, "tickets."+string(format))
			}

			reports := service.NewReportService(service.ReportDependencies{
				TicketRepo: repository.NewTicketRepository(rt.pg.PoolHandle()),
				Renderer:   report.NewPDFRenderer(rt.cfg.Report.Title, rt.cfg.Report.Author),
				Metrics:    observability.NewMetrics(),
				Logger:     rt.logger,
			})
			if err := reports.ExportToFile(cmd.Context(), format, path, scope); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
	cobraflags.RegisterMap(cmd, flags)
	return cmd
}

// parseScope turns the requester id flag into a filter; empty means every requester.
func parseScope(raw string) (*int64, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil, fmt.Errorf("%w: invalid --%s %q", domain.ErrValidation, requesterIDFlag, raw)
	}
	return &id, nil
}
