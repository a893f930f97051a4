package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/dto"
	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/service"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// TicketsHandler manages ticket endpoints for both roles.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if missing := blankFields(map[string]string{
		"title":       req.Title,
		"description": req.Description,
	}); len(missing) > 0 {
		return apperrors.NewValidationError("required fields missing", map[string]any{"fields": missing})
	}

	ticket, err := h.service.Create(c.UserContext(), principal.Account.ID, req.Title, req.Description)
	if err != nil {
		return err
	}
	ticket.CreatorName = principal.Account.DisplayName
	ticket.CreatorEmail = principal.Account.Email
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewTicketDetail(ticket)})
}

// ListTickets GET /tickets. Requesters always get their own tickets; status is ignored for them.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	filter, err := domain.ParseStatusFilter(c.Query("status"))
	if err != nil {
		return err
	}
	tickets, err := h.service.ListFor(c.UserContext(), principal.Account, filter)
	if err != nil {
		return err
	}
	items := make([]dto.TicketSummary, 0, len(tickets))
	for i := range tickets {
		items = append(items, dto.NewTicketSummary(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ticket, err := h.service.GetFor(c.UserContext(), principal.Account, id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketDetail(ticket)})
}

// UpdateStatus PATCH /tickets/:id/status. A Resolved target needs resolution text.
func (h *TicketsHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	status, err := domain.ParseStatus(req.Status)
	if err != nil {
		return err
	}

	if status == domain.TicketStatusResolved {
		if req.Resolution == nil {
			return domain.ErrResolutionRequired
		}
		err = h.service.ProposeResolution(c.UserContext(), id, *req.Resolution)
	} else {
		err = h.service.SetStatus(c.UserContext(), id, status, req.Resolution)
	}
	if err != nil {
		return err
	}
	return h.respondWithTicket(c, id)
}

// Resolve POST /tickets/:id/resolution.
func (h *TicketsHandler) Resolve(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.ResolutionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.service.ProposeResolution(c.UserContext(), id, req.Resolution); err != nil {
		return err
	}
	return h.respondWithTicket(c, id)
}

func (h *TicketsHandler) respondWithTicket(c *fiber.Ctx, id int64) error {
	ticket, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketDetail(ticket)})
}
