package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventAccountRegistered   EventType = "account_registered"
	EventProfileUpdated      EventType = "profile_updated"
	EventPasswordRecovered   EventType = "password_recovered"
	EventTicketCreated       EventType = "ticket_created"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventReportExported      EventType = "report_exported"
)

// AllEventTypes lists every event a service may publish.
var AllEventTypes = []EventType{
	EventAccountRegistered,
	EventProfileUpdated,
	EventPasswordRecovered,
	EventTicketCreated,
	EventTicketStatusChanged,
	EventReportExported,
}

// Event represents a domain event emitted by services. TicketID and
// AccountID are zero when they do not apply.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	TicketID  int64     `json:"ticket_id,omitempty"`
	AccountID int64     `json:"account_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload,omitempty"`
}

// New stamps an event with a fresh id and the current UTC time.
func New(eventType EventType, payload any) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// AccountRegisteredPayload payload.
type AccountRegisteredPayload struct {
	Role domain.Role `json:"role"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Title string `json:"title"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	NewStatus         domain.TicketStatus `json:"new_status"`
	ResolutionWritten bool                `json:"resolution_written"`
}

// ReportExportedPayload payload. Scope is nil for an unscoped export.
type ReportExportedPayload struct {
	Format  string `json:"format"`
	Scope   *int64 `json:"scope,omitempty"`
	Tickets int    `json:"tickets"`
}
