// Package report renders ticket collections to CSV and PDF.
package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// CreatedAtLayout formats ticket creation times (always UTC) in CSV output.
const CreatedAtLayout = "2006-01-02T15:04:05"

// CSVHeader is consumed by external tools; order and names are fixed.
var CSVHeader = []string{
	"id",
	"title",
	"description",
	"status",
	"created_at",
	"resolution",
	"creator_name",
	"creator_email",
}

// WriteCSV writes the header followed by one row per ticket, CRLF terminated.
func WriteCSV(w io.Writer, tickets []domain.Ticket) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, t := range tickets {
		record := []string{
			strconv.FormatInt(t.ID, 10),
			t.Title,
			t.Description,
			string(t.Status),
			t.CreatedAt.UTC().Format(CreatedAtLayout),
			t.Resolution,
			t.CreatorName,
			t.CreatorEmail,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
