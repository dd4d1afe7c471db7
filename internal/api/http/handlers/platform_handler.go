package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/deskhub/helpdesk/internal/api/dto"
	"github.com/deskhub/helpdesk/internal/auth"
	"github.com/deskhub/helpdesk/internal/domain"
	"github.com/deskhub/helpdesk/internal/observability"
	"github.com/deskhub/helpdesk/internal/service"
	apperrors "github.com/deskhub/helpdesk/pkg/util"
)

// PlatformHandler serves the platform operator's provisioning surface.
type PlatformHandler struct {
	directory *service.DirectoryService
	metrics   *observability.Metrics
}

// NewPlatformHandler constructs handler.
func NewPlatformHandler(directory *service.DirectoryService, metrics *observability.Metrics) *PlatformHandler {
	return &PlatformHandler{directory: directory, metrics: metrics}
}

// CreateClient POST /platform/clients.
func (h *PlatformHandler) CreateClient(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateClientRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	client, err := h.directory.CreateClient(c.Context(), principal, service.CreateClientInput{
		Name:         req.Name,
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"success": true, "data": dto.ClientFromDomain(client)})
}

// ListClients GET /platform/clients.
func (h *PlatformHandler) ListClients(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	clients, err := h.directory.ListClients(c.Context(), principal)
	if err != nil {
		return err
	}
	items := make([]dto.ClientResponse, 0, len(clients))
	for i := range clients {
		items = append(items, dto.ClientFromDomain(&clients[i]))
	}
	return c.JSON(fiber.Map{"success": true, "data": items})
}

// CreateAdmin POST /platform/admins.
func (h *PlatformHandler) CreateAdmin(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateAdminRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, err := h.directory.CreateAdmin(c.Context(), principal, service.CreateAdminInput{
		ClientID:  req.ClientID,
		Email:     req.Email,
		Username:  req.Username,
		Password:  req.Password,
		AdminType: domain.StaffScope(req.AdminType),
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"success": true, "data": dto.UserFromDomain(user)})
}

// Stats GET /platform/stats.
func (h *PlatformHandler) Stats(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	stats, err := h.directory.Stats(c.Context(), principal)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": stats})
}

// Metrics GET /platform/metrics. Per-route request aggregates.
func (h *PlatformHandler) Metrics(c *fiber.Ctx) error {
	if _, ok := auth.PrincipalFromContext(c); !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	return c.JSON(fiber.Map{"success": true, "data": h.metrics.Snapshot()})
}
