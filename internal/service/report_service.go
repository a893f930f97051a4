package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/observability"
	"github.com/spec-kit/helpdesk/internal/report"
	"github.com/spec-kit/helpdesk/internal/repository"
)

// ExportFormat selects the report encoding.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

// ParseExportFormat accepts "csv" or "pdf" in any case.
func ParseExportFormat(raw string) (ExportFormat, error) {
	switch ExportFormat(strings.ToLower(strings.TrimSpace(raw))) {
	case ExportFormatCSV:
		return ExportFormatCSV, nil
	case ExportFormatPDF:
		return ExportFormatPDF, nil
	}
	return "", fmt.Errorf("%w: unknown export format %q", domain.ErrValidation, raw)
}

// ContentType returns the MIME type of the format.
func (f ExportFormat) ContentType() string {
	if f == ExportFormatPDF {
		return "application/pdf"
	}
	return "text/csv; charset=utf-8"
}

// ReportService exports ticket collections.
type ReportService struct {
	tickets repository.TicketRepository
	pdf     *report.PDFRenderer
	metrics *observability.Metrics
	events  events.Dispatcher
	logger  *zap.Logger
	now     func() time.Time
}

// ReportDependencies bundles collaborators for the report service.
type ReportDependencies struct {
	TicketRepo repository.TicketRepository
	Renderer   *report.PDFRenderer
	Metrics    *observability.Metrics
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewReportService constructs the service.
func NewReportService(deps ReportDependencies) *ReportService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	renderer := deps.Renderer
	if renderer == nil {
		renderer = report.NewPDFRenderer("", "")
	}
	return &ReportService{
		tickets: deps.TicketRepo,
		pdf:     renderer,
		metrics: deps.Metrics,
		events:  deps.Dispatcher,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Tickets loads the export set, newest first. A non-nil scope keeps only that requester's tickets.
func (s *ReportService) Tickets(ctx context.Context, scope *int64) ([]domain.Ticket, error) {
	return s.tickets.List(ctx, repository.TicketFilter{CreatedBy: scope})
}

// ExportCSV writes the CSV report to w.
func (s *ReportService) ExportCSV(ctx context.Context, w io.Writer, scope *int64) error {
	return s.Export(ctx, ExportFormatCSV, w, scope)
}

// ExportPDF writes the PDF report to w.
func (s *ReportService) ExportPDF(ctx context.Context, w io.Writer, scope *int64) error {
	return s.Export(ctx, ExportFormatPDF, w, scope)
}

// Export renders the report in format and writes it to w. Rendering and write
// failures wrap domain.ErrExportFailure.
func (s *ReportService) Export(ctx context.Context, format ExportFormat, w io.Writer, scope *int64) error {
	if _, err := ParseExportFormat(string(format)); err != nil {
		return err
	}
	tickets, err := s.Tickets(ctx, scope)
	if err != nil {
		return err
	}
	err = s.render(format, w, tickets)
	s.metrics.RecordExport(string(format), err == nil)
	if err != nil {
		s.logger.Error("export failed", zap.String("format", string(format)), zap.Error(err))
		return fmt.Errorf("%w: %w", domain.ErrExportFailure, err)
	}
	s.logger.Info("export written", zap.String("format", string(format)), zap.Int("tickets", len(tickets)))
	publish(ctx, s.events, s.logger, events.New(events.EventReportExported, events.ReportExportedPayload{
		Format:  string(format),
		Scope:   scope,
		Tickets: len(tickets),
	}))
	return nil
}

// ExportToFile writes the report to path. The file only appears once fully written.
func (s *ReportService) ExportToFile(ctx context.Context, format ExportFormat, path string, scope *int64) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrExportFailure, err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = s.Export(ctx, format, tmp, scope); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrExportFailure, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrExportFailure, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrExportFailure, err)
	}
	return nil
}

func (s *ReportService) render(format ExportFormat, w io.Writer, tickets []domain.Ticket) error {
	switch format {
	case ExportFormatCSV:
		var buf bytes.Buffer
		if err := report.WriteCSV(&buf, tickets); err != nil {
			return err
		}
		_, err := w.Write(buf.Bytes())
		return err
	case ExportFormatPDF:
		doc, err := s.pdf.Render(tickets, s.now())
		if err != nil {
			return err
		}
		_, err = w.Write(doc)
		return err
	}
	return fmt.Errorf("unknown export format %q", format)
}
