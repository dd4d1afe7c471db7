package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/deskhub/helpdesk/internal/api/dto"
	"github.com/deskhub/helpdesk/internal/auth"
	"github.com/deskhub/helpdesk/internal/presence"
	"github.com/deskhub/helpdesk/internal/service"
	apperrors "github.com/deskhub/helpdesk/pkg/util"
)

// AuthHandler serves login, password rotation and presence heartbeats.
type AuthHandler struct {
	authService *service.AuthService
	presence    *presence.Tracker
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, tracker *presence.Tracker) *AuthHandler {
	return &AuthHandler{authService: authService, presence: tracker}
}

// Login POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	result, err := h.authService.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": dto.LoginResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		User:      dto.UserFromDomain(result.User),
	}})
}

// ChangePassword POST /auth/password/change.
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	if err := h.authService.ChangePassword(c.Context(), principal.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

// ChangeEmail POST /auth/email/change.
func (h *AuthHandler) ChangeEmail(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.ChangeEmailRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	if err := h.authService.ChangeEmail(c.Context(), principal.UserID, req.Password, req.NewEmail); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

// Ping POST /presence/ping. Best-effort heartbeat; always succeeds for
// an authenticated caller.
func (h *AuthHandler) Ping(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	h.presence.Ping(c.Context(), principal.UserID)
	return c.Status(http.StatusAccepted).JSON(fiber.Map{"success": true})
}
