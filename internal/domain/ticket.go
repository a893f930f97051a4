package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen               TicketStatus = "Open"
	TicketStatusAwaitingTechnician TicketStatus = "AwaitingTechnician"
	TicketStatusInProgress         TicketStatus = "InProgress"
	TicketStatusResolved           TicketStatus = "Resolved"
)

// TicketStatuses lists every persisted status in lifecycle order.
var TicketStatuses = []TicketStatus{
	TicketStatusOpen,
	TicketStatusAwaitingTechnician,
	TicketStatusInProgress,
	TicketStatusResolved,
}

var statusLabels = map[TicketStatus]string{
	TicketStatusOpen:               "Open",
	TicketStatusAwaitingTechnician: "Awaiting Technician",
	TicketStatusInProgress:         "In Progress",
	TicketStatusResolved:           "Resolved",
}

// Legacy labels were written by the desktop client this service replaces.
var legacyStatusLabels = map[TicketStatus]string{
	TicketStatusOpen:               "Aberto",
	TicketStatusAwaitingTechnician: "Aguardando Técnico",
	TicketStatusInProgress:         "Em Atendimento",
	TicketStatusResolved:           "Finalizado",
}

var statusByKey = func() map[string]TicketStatus {
	m := make(map[string]TicketStatus, len(TicketStatuses)*3)
	for _, s := range TicketStatuses {
		m[labelKey(string(s))] = s
		m[labelKey(statusLabels[s])] = s
		m[labelKey(legacyStatusLabels[s])] = s
	}
	return m
}()

// Valid reports whether s is one of the four persisted statuses.
func (s TicketStatus) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// Label returns the human readable name of the status.
func (s TicketStatus) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

// ParseStatus resolves canonical values, display labels and legacy labels,
// ignoring case, accents, spaces, underscores and hyphens.
func ParseStatus(raw string) (TicketStatus, error) {
	if s, ok := statusByKey[labelKey(raw)]; ok {
		return s, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
}

// StatusFilter narrows technician ticket listings. StatusFilterAll disables narrowing.
type StatusFilter string

const StatusFilterAll StatusFilter = "All"

// ParseStatusFilter accepts everything ParseStatus does plus "", "All" and "Todos".
func ParseStatusFilter(raw string) (StatusFilter, error) {
	switch labelKey(raw) {
	case "", "all", "todos":
		return StatusFilterAll, nil
	}
	status, err := ParseStatus(raw)
	if err != nil {
		return "", err
	}
	return StatusFilter(status), nil
}

// Status returns the status to narrow by, or false when the filter is All.
func (f StatusFilter) Status() (TicketStatus, bool) {
	if f == "" || f == StatusFilterAll {
		return "", false
	}
	return TicketStatus(f), true
}

func labelKey(raw string) string {
	stripped, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), raw)
	if err != nil {
		stripped = raw
	}
	// Casers keep state, so each call gets its own.
	folded := cases.Fold().String(stripped)
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '_' || r == '-' {
			return -1
		}
		return r
	}, folded)
}

// Ticket is a support request filed by a requester.
type Ticket struct {
	ID          int64
	Title       string
	Description string
	Status      TicketStatus
	CreatedBy   int64
	CreatedAt   time.Time
	Resolution  string

	// Joined from the creating account on reads.
	CreatorName  string
	CreatorEmail string
}
