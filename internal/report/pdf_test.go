package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk/internal/domain"
)

func TestColumnsOrderAndProportions(t *testing.T) {
	titles := make([]string, 0, len(Columns))
	total := 0
	for _, c := range Columns {
		titles = append(titles, c.Title)
		total += c.Size
		assert.Positive(t, c.Size, c.Title)
	}
	assert.Equal(t, []string{"ID", "Title", "Description", "Status", "Creator", "Date", "Resolution"}, titles)
	assert.Equal(t, gridSize, total)

	desc := Columns[2].Size
	for i, c := range Columns {
		if i != 2 {
			assert.LessOrEqual(t, c.Size, desc, c.Title)
		}
	}
	assert.Equal(t, 1, Columns[0].Size)
}

func TestLayoutRowsSplitsNewlines(t *testing.T) {
	tickets := []domain.Ticket{{
		ID:          7,
		Title:       "VPN",
		Description: "cannot connect\r\nerror 809\nsince monday",
		Status:      domain.TicketStatusResolved,
		CreatorName: "Bob",
		CreatedAt:   time.Date(2024, 5, 2, 13, 4, 0, 0, time.UTC),
		Resolution:  "reset profile",
	}}

	rows := LayoutRows(tickets)
	require.Len(t, rows, 3)

	assert.True(t, rows[0].First)
	assert.Equal(t, []string{"7", "VPN", "cannot connect", "Resolved", "Bob", "2024-05-02 13:04", "reset profile"}, rows[0].Cells)
	assert.False(t, rows[1].First)
	assert.Equal(t, "error 809", rows[1].Cells[2])
	assert.Equal(t, " ", rows[1].Cells[6])
	assert.Equal(t, " ", rows[1].Cells[0])
	assert.Equal(t, "since monday", rows[2].Cells[2])
	for _, r := range rows {
		assert.Equal(t, int64(7), r.TicketID)
		for _, cell := range r.Cells {
			assert.NotContains(t, cell, "\n")
			assert.NotContains(t, cell, "\\n")
		}
	}
}

func TestLayoutRowsKeepsEmptyTicketOnOneRow(t *testing.T) {
	rows := LayoutRows([]domain.Ticket{{ID: 1, Title: "x", Status: domain.TicketStatusOpen}})
	require.Len(t, rows, 1)
	assert.Equal(t, " ", rows[0].Cells[2])
	assert.Equal(t, "Open", rows[0].Cells[3])
}

func TestRenderProducesPDF(t *testing.T) {
	renderer := NewPDFRenderer("Ticket Report", "Helpdesk")
	tickets := []domain.Ticket{
		{
			ID:          1,
			Title:       "Laptop does not boot",
			Description: "Long description that should wrap inside the widest column rather than being truncated at the cell edge.\nSecond paragraph.",
			Status:      domain.TicketStatusInProgress,
			CreatorName: "Ana",
			CreatedAt:   time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC),
		},
		{
			ID:          2,
			Title:       "Mouse",
			Description: "broken",
			Status:      domain.TicketStatusOpen,
			CreatorName: "Bob",
			CreatedAt:   time.Date(2024, 1, 2, 8, 0, 0, 0, time.UTC),
		},
	}

	out, err := renderer.Render(tickets, time.Date(2024, 1, 3, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestRenderEmptyCollection(t *testing.T) {
	out, err := NewPDFRenderer("", "").Render(nil, time.Now())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}
