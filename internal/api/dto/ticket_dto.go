package dto

import (
	"time"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// UpdateStatusRequest payload. Status accepts canonical values and display labels.
type UpdateStatusRequest struct {
	Status     string  `json:"status"`
	Resolution *string `json:"resolution"`
}

// ResolutionRequest payload for POST /tickets/:id/resolution.
type ResolutionRequest struct {
	Resolution string `json:"resolution"`
}

// TicketCreator is the joined author of a ticket.
type TicketCreator struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// TicketSummary response.
type TicketSummary struct {
	ID          int64               `json:"id"`
	Title       string              `json:"title"`
	Status      domain.TicketStatus `json:"status"`
	StatusLabel string              `json:"status_label"`
	Creator     TicketCreator       `json:"creator"`
	CreatedAt   time.Time           `json:"created_at"`
}

// TicketDetailResponse provides full ticket info.
type TicketDetailResponse struct {
	TicketSummary
	Description string `json:"description"`
	Resolution  string `json:"resolution"`
}

// NewTicketSummary maps a domain ticket.
func NewTicketSummary(t *domain.Ticket) TicketSummary {
	return TicketSummary{
		ID:          t.ID,
		Title:       t.Title,
		Status:      t.Status,
		StatusLabel: t.Status.Label(),
		Creator: TicketCreator{
			ID:    t.CreatedBy,
			Name:  t.CreatorName,
			Email: t.CreatorEmail,
		},
		CreatedAt: t.CreatedAt,
	}
}

// NewTicketDetail maps a domain ticket including its long fields.
func NewTicketDetail(t *domain.Ticket) TicketDetailResponse {
	return TicketDetailResponse{
		TicketSummary: NewTicketSummary(t),
		Description:   t.Description,
		Resolution:    t.Resolution,
	}
}
