package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/deskhub/helpdesk/internal/api/dto"
	"github.com/deskhub/helpdesk/internal/auth"
	"github.com/deskhub/helpdesk/internal/domain"
	"github.com/deskhub/helpdesk/internal/policy"
	"github.com/deskhub/helpdesk/internal/service"
	apperrors "github.com/deskhub/helpdesk/pkg/util"
)

// TicketsHandler serves the ticket lifecycle endpoints plus the tenant
// summary.
type TicketsHandler struct {
	tickets  *service.TicketService
	comments *service.CommentService
	summary  *service.SummaryService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(tickets *service.TicketService, comments *service.CommentService, summary *service.SummaryService) *TicketsHandler {
	return &TicketsHandler{tickets: tickets, comments: comments, summary: summary}
}

func requirePrincipal(c *fiber.Ctx) (policy.Principal, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return policy.Principal{}, apperrors.NewUnauthorized("authentication required")
	}
	return principal, nil
}

// Create POST /tickets.
func (h *TicketsHandler) Create(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	view, err := h.tickets.Create(c.Context(), principal, service.CreateTicketInput{
		Subject:     req.Subject,
		Description: req.Description,
		Priority:    domain.TicketPriority(req.Priority),
		DueOption:   domain.DueOption(req.DueOption),
		DueDate:     req.DueDate,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"success": true, "data": dto.TicketFromView(view)})
}

// List GET /tickets.
func (h *TicketsHandler) List(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	limit, err := parseIntQuery(c, "limit", 50)
	if err != nil {
		return err
	}
	offset, err := parseIntQuery(c, "offset", 0)
	if err != nil {
		return err
	}

	input := service.ListTicketsInput{
		Limit:  limit,
		Offset: offset,
		Mine:   c.Query("mine") == "true",
	}
	if status := c.Query("status"); status != "" {
		input.Status = &status
	}
	if raw := c.Query("priority"); raw != "" {
		priority := domain.TicketPriority(raw)
		if !domain.ValidPriority(priority) {
			return apperrors.NewValidationError("unknown priority", map[string]any{"priority": raw})
		}
		input.Priority = &priority
	}

	views, err := h.tickets.List(c.Context(), principal, input)
	if err != nil {
		return err
	}
	items := make([]dto.TicketResponse, 0, len(views))
	for i := range views {
		items = append(items, dto.TicketFromView(&views[i]))
	}
	return c.JSON(fiber.Map{"success": true, "data": items})
}

// Get GET /tickets/:id.
func (h *TicketsHandler) Get(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	view, err := h.tickets.Get(c.Context(), principal, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": dto.TicketFromView(view)})
}

// Update PATCH /tickets/:id.
func (h *TicketsHandler) Update(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	input := service.EditTicketInput{
		Subject:     req.Subject,
		Description: req.Description,
		DueDate:     req.DueDate,
	}
	if req.Priority != nil {
		priority := domain.TicketPriority(*req.Priority)
		input.Priority = &priority
	}
	if req.DueOption != nil {
		option := domain.DueOption(*req.DueOption)
		input.DueOption = &option
	}

	view, err := h.tickets.Edit(c.Context(), principal, c.Params("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": dto.TicketFromView(view)})
}

// ChangeStatus PUT /tickets/:id/status.
func (h *TicketsHandler) ChangeStatus(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.ChangeStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	view, err := h.tickets.ChangeStatus(c.Context(), principal, c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": dto.TicketFromView(view)})
}

// Assign PUT /tickets/:id/assign.
func (h *TicketsHandler) Assign(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.AssignRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	view, err := h.tickets.Assign(c.Context(), principal, c.Params("id"), req.AssigneeID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": dto.TicketFromView(view)})
}

// SelfAssign POST /tickets/:id/self-assign.
func (h *TicketsHandler) SelfAssign(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	view, err := h.tickets.SelfAssign(c.Context(), principal, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": dto.TicketFromView(view)})
}

// Discard POST /tickets/:id/discard.
func (h *TicketsHandler) Discard(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	view, err := h.tickets.Discard(c.Context(), principal, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": dto.TicketFromView(view)})
}

// Archive POST /tickets/:id/archive.
func (h *TicketsHandler) Archive(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	view, err := h.tickets.Archive(c.Context(), principal, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": dto.TicketFromView(view)})
}

// AddComment POST /tickets/:id/comments.
func (h *TicketsHandler) AddComment(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	comment, err := h.comments.Add(c.Context(), principal, c.Params("id"), req.Body)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"success": true, "data": dto.CommentFromDomain(comment)})
}

// ListComments GET /tickets/:id/comments.
func (h *TicketsHandler) ListComments(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	comments, err := h.comments.List(c.Context(), principal, c.Params("id"))
	if err != nil {
		return err
	}
	items := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		items = append(items, dto.CommentFromDomain(&comments[i]))
	}
	return c.JSON(fiber.Map{"success": true, "data": items})
}

// EditComment PUT /tickets/:id/comments/:commentID.
func (h *TicketsHandler) EditComment(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	comment, err := h.comments.Edit(c.Context(), principal, c.Params("commentID"), req.Body)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": dto.CommentFromDomain(comment)})
}

// Summary GET /summary.
func (h *TicketsHandler) Summary(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	summary, err := h.summary.ClientSummary(c.Context(), principal)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": summary})
}

func parseIntQuery(c *fiber.Ctx, key string, fallback int) (int, error) {
	return parsePagingValue(key, c.Query(key), fallback)
}

// parsePagingValue rejects malformed paging input rather than silently
// applying the fallback.
func parsePagingValue(key, raw string, fallback int) (int, error) {
	if raw == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.NewValidationError("invalid "+key, map[string]any{key: raw})
	}
	return parsed, nil
}
