package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/repository"
)

// TicketService coordinates ticket workflows.
type TicketService struct {
	tickets repository.TicketRepository
	events  events.Dispatcher
	logger  *zap.Logger
	now     func() time.Time
}

// TicketDependencies bundles repositories for ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TicketService{
		tickets: deps.TicketRepo,
		events:  deps.Dispatcher,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Create opens a ticket owned by requesterID.
func (s *TicketService) Create(ctx context.Context, requesterID int64, title, description string) (*domain.Ticket, error) {
	title = strings.TrimSpace(title)
	if err := requireFields(map[string]string{"title": title, "description": description}); err != nil {
		return nil, err
	}

	ticket := &domain.Ticket{
		Title:       title,
		Description: description,
		Status:      domain.TicketStatusOpen,
		CreatedBy:   requesterID,
		CreatedAt:   s.now(),
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}
	s.logger.Info("ticket created", zap.Int64("ticket_id", ticket.ID), zap.Int64("requester_id", requesterID))
	ev := events.New(events.EventTicketCreated, events.TicketCreatedPayload{Title: ticket.Title})
	ev.TicketID = ticket.ID
	ev.AccountID = requesterID
	publish(ctx, s.events, s.logger, ev)
	return ticket, nil
}

// ListFor returns the tickets visible to viewer, newest first. Technicians see
// every ticket narrowed by filter; requesters see their own and filter is ignored.
func (s *TicketService) ListFor(ctx context.Context, viewer *domain.Account, filter domain.StatusFilter) ([]domain.Ticket, error) {
	if viewer == nil {
		return nil, domain.ErrForbidden
	}
	var f repository.TicketFilter
	if viewer.IsTechnician() {
		if status, ok := filter.Status(); ok {
			f.Status = &status
		}
	} else {
		id := viewer.ID
		f.CreatedBy = &id
	}
	return s.tickets.List(ctx, f)
}

// Get loads a ticket with its creator joined.
func (s *TicketService) Get(ctx context.Context, id int64) (*domain.Ticket, error) {
	return s.tickets.GetByID(ctx, id)
}

// GetFor loads a ticket the viewer is allowed to read.
func (s *TicketService) GetFor(ctx context.Context, viewer *domain.Account, id int64) (*domain.Ticket, error) {
	if viewer == nil {
		return nil, domain.ErrForbidden
	}
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !viewer.IsTechnician() && ticket.CreatedBy != viewer.ID {
		return nil, domain.ErrForbidden
	}
	return ticket, nil
}

// SetStatus moves a ticket to status. Any status may follow any other. When
// resolution is nil the stored resolution is left as is.
func (s *TicketService) SetStatus(ctx context.Context, id int64, status domain.TicketStatus, resolution *string) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidStatus, status)
	}
	if err := s.tickets.UpdateStatus(ctx, id, status, resolution); err != nil {
		return err
	}
	s.logger.Info("ticket status changed",
		zap.Int64("ticket_id", id),
		zap.String("status", string(status)),
		zap.Bool("resolution_written", resolution != nil),
	)
	ev := events.New(events.EventTicketStatusChanged, events.TicketStatusChangedPayload{
		NewStatus:         status,
		ResolutionWritten: resolution != nil,
	})
	ev.TicketID = id
	publish(ctx, s.events, s.logger, ev)
	return nil
}

// ProposeResolution resolves the ticket and stores text in one write.
// A caller that never calls it leaves the ticket untouched.
func (s *TicketService) ProposeResolution(ctx context.Context, id int64, text string) error {
	if strings.TrimSpace(text) == "" {
		return domain.ErrResolutionRequired
	}
	return s.SetStatus(ctx, id, domain.TicketStatusResolved, &text)
}
