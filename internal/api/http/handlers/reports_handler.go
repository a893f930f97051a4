package handlers

import (
	"bytes"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/service"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// ReportsHandler streams ticket exports.
type ReportsHandler struct {
	reports *service.ReportService
}

// NewReportsHandler constructs handler.
func NewReportsHandler(reportService *service.ReportService) *ReportsHandler {
	return &ReportsHandler{reports: reportService}
}

// CSV GET /reports/tickets.csv.
func (h *ReportsHandler) CSV(c *fiber.Ctx) error {
	return h.export(c, service.ExportFormatCSV)
}

// PDF GET /reports/tickets.pdf.
func (h *ReportsHandler) PDF(c *fiber.Ctx) error {
	return h.export(c, service.ExportFormatPDF)
}

// export buffers the whole document so a failed render never sends a partial body.
// Requesters are always scoped to their own tickets.
func (h *ReportsHandler) export(c *fiber.Ctx, format service.ExportFormat) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var scope *int64
	if principal.Account.IsTechnician() {
		requested, err := parseOptionalID(c, "requester_id")
		if err != nil {
			return err
		}
		scope = requested
	} else {
		own := principal.Account.ID
		scope = &own
	}

	var buf bytes.Buffer
	if err := h.reports.Export(c.UserContext(), format, &buf, scope); err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, format.ContentType())
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="tickets.%s"`, format))
	return c.Send(buf.Bytes())
}
