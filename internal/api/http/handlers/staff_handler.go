package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/deskhub/helpdesk/internal/api/dto"
	"github.com/deskhub/helpdesk/internal/auth"
	"github.com/deskhub/helpdesk/internal/domain"
	"github.com/deskhub/helpdesk/internal/service"
	apperrors "github.com/deskhub/helpdesk/pkg/util"
)

// StaffHandler serves the tenant staff directory.
type StaffHandler struct {
	directory *service.DirectoryService
}

// NewStaffHandler constructs handler.
func NewStaffHandler(directory *service.DirectoryService) *StaffHandler {
	return &StaffHandler{directory: directory}
}

// CreateManager POST /staff/managers.
func (h *StaffHandler) CreateManager(c *fiber.Ctx) error {
	return h.createStaff(c, domain.RoleManager)
}

// CreateEmployee POST /staff/employees.
func (h *StaffHandler) CreateEmployee(c *fiber.Ctx) error {
	return h.createStaff(c, domain.RoleEmployee)
}

func (h *StaffHandler) createStaff(c *fiber.Ctx, role domain.Role) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateStaffRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, employee, err := h.directory.CreateStaff(c.Context(), principal, service.CreateStaffInput{
		Role:          role,
		Email:         req.Email,
		Username:      req.Username,
		Password:      req.Password,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Position:      req.Position,
		ManagerID:     req.ManagerID,
		DateOfJoining: req.DateOfJoining,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"success": true, "data": fiber.Map{
		"user":     dto.UserFromDomain(user),
		"employee": dto.EmployeeFromDomain(employee),
	}})
}

// ListManagers GET /staff/managers.
func (h *StaffHandler) ListManagers(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	views, err := h.directory.ListManagers(c.Context(), principal)
	if err != nil {
		return err
	}
	return renderStaffViews(c, views)
}

// ListAssignees GET /staff/assignees.
func (h *StaffHandler) ListAssignees(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	views, err := h.directory.ListAssignees(c.Context(), principal)
	if err != nil {
		return err
	}
	return renderStaffViews(c, views)
}

// ListTeam GET /staff/team.
func (h *StaffHandler) ListTeam(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	views, err := h.directory.ListTeam(c.Context(), principal)
	if err != nil {
		return err
	}
	return renderStaffViews(c, views)
}

func renderStaffViews(c *fiber.Ctx, views []service.StaffView) error {
	items := make([]dto.StaffViewResponse, 0, len(views))
	for _, view := range views {
		items = append(items, dto.StaffViewFromService(view))
	}
	return c.JSON(fiber.Map{"success": true, "data": items})
}

// GetEmployee GET /staff/employees/:id.
func (h *StaffHandler) GetEmployee(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	employee, err := h.directory.GetEmployee(c.Context(), principal, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": dto.EmployeeFromDomain(employee)})
}

// UpdateProfile PUT /staff/employees/:id/profile.
func (h *StaffHandler) UpdateProfile(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	employee, err := h.directory.UpdateEmployeeProfile(c.Context(), principal, c.Params("id"), service.UpdateProfileInput{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Position:      req.Position,
		DateOfJoining: req.DateOfJoining,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": dto.EmployeeFromDomain(employee)})
}

// ResetPassword POST /staff/employees/:id/reset-password.
func (h *StaffHandler) ResetPassword(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	if err := h.directory.ResetPassword(c.Context(), principal, c.Params("id"), req.NewPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}
