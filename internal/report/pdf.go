package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/spec-kit/helpdesk/internal/domain"
)

const (
	// IssuedAtLayout formats the report timestamp.
	IssuedAtLayout = "2006-01-02 15:04:05"
	dateLayout     = "2006-01-02 15:04"
	gridSize       = 12
	fontSize       = 7.0
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 85, Blue: 255}
	colorGray    = &props.Color{Red: 128, Green: 128, Blue: 128}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// Column is one table column and its share of the 12 unit grid.
type Column struct {
	Title string
	Size  int
}

// Columns in render order. Resolution takes whatever the others leave.
var Columns = func() []Column {
	cols := []Column{
		{Title: "ID", Size: 1},
		{Title: "Title", Size: 2},
		{Title: "Description", Size: 3},
		{Title: "Status", Size: 1},
		{Title: "Creator", Size: 2},
		{Title: "Date", Size: 1},
	}
	used := 0
	for _, c := range cols {
		used += c.Size
	}
	return append(cols, Column{Title: "Resolution", Size: gridSize - used})
}()

// TableRow holds one rendered line of the ticket table. A ticket whose
// description or resolution contains newlines spans several rows; only
// the first carries the single-line fields.
type TableRow struct {
	Cells    []string
	TicketID int64
	First    bool
}

// LayoutRows converts tickets into table rows, turning embedded newlines into row breaks.
func LayoutRows(tickets []domain.Ticket) []TableRow {
	rows := make([]TableRow, 0, len(tickets))
	for _, t := range tickets {
		desc := splitLines(t.Description)
		res := splitLines(t.Resolution)
		n := max(len(desc), len(res), 1)
		for i := 0; i < n; i++ {
			cells := make([]string, len(Columns))
			for c := range cells {
				cells[c] = " "
			}
			if i == 0 {
				cells[0] = strconv.FormatInt(t.ID, 10)
				cells[1] = singleLine(t.Title)
				cells[3] = t.Status.Label()
				cells[4] = singleLine(t.CreatorName)
				cells[5] = t.CreatedAt.UTC().Format(dateLayout)
			}
			cells[2] = lineAt(desc, i)
			cells[6] = lineAt(res, i)
			rows = append(rows, TableRow{Cells: cells, TicketID: t.ID, First: i == 0})
		}
	}
	return rows
}

// PDFRenderer renders the ticket table as an A4 document.
type PDFRenderer struct {
	title  string
	author string
}

// NewPDFRenderer builds a renderer with the given document title and author.
func NewPDFRenderer(title, author string) *PDFRenderer {
	if strings.TrimSpace(title) == "" {
		title = "Ticket Report"
	}
	return &PDFRenderer{title: title, author: author}
}

// Render produces the PDF bytes. issuedAt is printed in UTC.
func (r *PDFRenderer) Render(tickets []domain.Ticket, issuedAt time.Time) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: fontSize}).
		WithTitle(r.title, true).
		WithAuthor(r.author, true).
		Build()

	m := maroto.New(cfg)

	// Registered header rows repeat on every page.
	if err := m.RegisterHeader(
		titleRow(r.title),
		issuedRow(issuedAt),
		tableHeaderRow(),
	); err != nil {
		return nil, fmt.Errorf("pdf: register header: %w", err)
	}

	layout := LayoutRows(tickets)
	if len(layout) == 0 {
		m.AddRows(row.New(8).Add(col.New(gridSize).Add(
			text.New("No tickets.", props.Text{Size: fontSize + 1, Top: 2, Color: colorGray}),
		)))
	}
	for i, tr := range layout {
		if tr.First && i > 0 {
			m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.2}))
		}
		m.AddRows(tableRow(tr))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generate document: %w", err)
	}
	return doc.GetBytes(), nil
}

func titleRow(title string) core.Row {
	return row.New(10).Add(col.New(gridSize).Add(
		text.New(title, props.Text{Style: fontstyle.Bold, Size: 16, Color: colorPrimary}),
	))
}

func issuedRow(issuedAt time.Time) core.Row {
	return row.New(7).Add(col.New(gridSize).Add(
		text.New(fmt.Sprintf("Issued at: %s (UTC)", issuedAt.UTC().Format(IssuedAtLayout)), props.Text{
			Size: fontSize + 1, Color: colorGray, Top: 1,
		}),
	))
}

func tableHeaderRow() core.Row {
	cols := make([]core.Col, 0, len(Columns))
	for _, c := range Columns {
		cols = append(cols, col.New(c.Size).Add(text.New(c.Title, props.Text{
			Style: fontstyle.Bold, Size: fontSize + 1, Color: colorWhite,
			Top: 1.5, Left: 1, Right: 1,
		})))
	}
	return row.New(7).WithStyle(&props.Cell{BackgroundColor: colorPrimary}).Add(cols...)
}

// tableRow uses an auto-height row so long text wraps instead of being cut.
func tableRow(tr TableRow) core.Row {
	cols := make([]core.Col, 0, len(Columns))
	for i, c := range Columns {
		a := align.Left
		if i == 0 {
			a = align.Center
		}
		cols = append(cols, col.New(c.Size).Add(text.New(tr.Cells[i], props.Text{
			Size: fontSize, Align: a, Top: 1, Left: 1, Right: 1,
		})))
	}
	return row.New().Add(cols...)
}

func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// lineAt returns line i, or a single space so empty lines keep their height.
func lineAt(lines []string, i int) string {
	if i < len(lines) && strings.TrimSpace(lines[i]) != "" {
		return lines[i]
	}
	return " "
}

func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
