package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/deskhub/helpdesk/internal/auth"
	"github.com/deskhub/helpdesk/internal/domain"
	"github.com/deskhub/helpdesk/internal/policy"
	"github.com/deskhub/helpdesk/internal/presence"
	"github.com/deskhub/helpdesk/internal/repository"
	apperrors "github.com/deskhub/helpdesk/pkg/util"
)

// DirectoryService provisions tenants and staff and serves the staff
// directory views.
type DirectoryService struct {
	clients   repository.ClientRepository
	users     repository.UserRepository
	employees repository.EmployeeRepository
	tickets   repository.TicketRepository
	presence  *presence.Tracker
	bcrypt    int
	logger    *zap.Logger
}

// NewDirectoryService creates the service.
func NewDirectoryService(
	clients repository.ClientRepository,
	users repository.UserRepository,
	employees repository.EmployeeRepository,
	tickets repository.TicketRepository,
	tracker *presence.Tracker,
	bcryptCost int,
	logger *zap.Logger,
) *DirectoryService {
	return &DirectoryService{
		clients:   clients,
		users:     users,
		employees: employees,
		tickets:   tickets,
		presence:  tracker,
		bcrypt:    bcryptCost,
		logger:    logger,
	}
}

// CreateClientInput carries tenant creation fields.
type CreateClientInput struct {
	Name         string
	ContactEmail string
	ContactPhone *string
}

// CreateClient provisions a new tenant. Platform operator only.
func (s *DirectoryService) CreateClient(ctx context.Context, p policy.Principal, input CreateClientInput) (*domain.Client, error) {
	if d := policy.Evaluate(p, policy.ActionCreateClient, policy.Resource{Kind: policy.ResourcePlatform}); !d.Allowed {
		return nil, apperrors.NewForbidden(d.Reason)
	}

	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return nil, apperrors.NewValidationError("client name is required", nil)
	}
	if strings.TrimSpace(input.ContactEmail) == "" {
		return nil, apperrors.NewValidationError("contact email is required", nil)
	}

	client := &domain.Client{
		Name:         input.Name,
		ContactEmail: input.ContactEmail,
		ContactPhone: input.ContactPhone,
	}
	if err := s.clients.Create(ctx, client); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.logger.Info("client created", zap.String("client_id", client.ID), zap.String("name", client.Name))
	return client, nil
}

// ListClients returns all tenants. Platform operator only.
func (s *DirectoryService) ListClients(ctx context.Context, p policy.Principal) ([]domain.Client, error) {
	if d := policy.Evaluate(p, policy.ActionViewStats, policy.Resource{Kind: policy.ResourcePlatform}); !d.Allowed {
		return nil, apperrors.NewForbidden(d.Reason)
	}
	clients, err := s.clients.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return clients, nil
}

// CreateAdminInput carries tenant admin creation fields.
type CreateAdminInput struct {
	ClientID  string
	Email     string
	Username  *string
	Password  string
	AdminType domain.StaffScope
}

// CreateAdmin provisions a tenant admin bound to one staff pool.
// Platform operator only.
func (s *DirectoryService) CreateAdmin(ctx context.Context, p policy.Principal, input CreateAdminInput) (*domain.User, error) {
	if d := policy.Evaluate(p, policy.ActionCreateAdmin, policy.Resource{Kind: policy.ResourcePlatform}); !d.Allowed {
		return nil, apperrors.NewForbidden(d.Reason)
	}

	if !domain.ValidScope(input.AdminType) {
		return nil, apperrors.NewValidationError("unknown admin type", map[string]any{"admin_type": input.AdminType})
	}
	if err := validateCredentials(input.Email, input.Password); err != nil {
		return nil, err
	}
	if _, err := s.clients.GetByID(ctx, input.ClientID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("client", nil)
		}
		return nil, apperrors.MapError(err)
	}

	hashed, err := auth.HashPassword(input.Password, s.bcrypt)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	adminType := input.AdminType
	user := &domain.User{
		ClientID:     &input.ClientID,
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hashed,
		Role:         domain.RoleAdmin,
		AdminType:    &adminType,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.logger.Info("admin created",
		zap.String("user_id", user.ID),
		zap.String("client_id", input.ClientID),
		zap.String("admin_type", string(adminType)))
	return user, nil
}

// PlatformStats is the operator's cross-tenant dashboard.
type PlatformStats struct {
	Clients  int                         `json:"clients"`
	Tickets  map[domain.TicketStatus]int `json:"tickets"`
	Staffing []repository.StaffingCount  `json:"staffing"`
}

// Stats aggregates platform-wide counts. Platform operator only.
func (s *DirectoryService) Stats(ctx context.Context, p policy.Principal) (*PlatformStats, error) {
	if d := policy.Evaluate(p, policy.ActionViewStats, policy.Resource{Kind: policy.ResourcePlatform}); !d.Allowed {
		return nil, apperrors.NewForbidden(d.Reason)
	}

	clientCount, err := s.clients.Count(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	ticketCounts, err := s.tickets.CountByStatus(ctx, nil)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	staffing, err := s.employees.StaffingCounts(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	return &PlatformStats{Clients: clientCount, Tickets: ticketCounts, Staffing: staffing}, nil
}

// CreateStaffInput carries manager/employee creation fields. The new
// account always lands in the caller's tenant and pool.
type CreateStaffInput struct {
	Role          domain.Role
	Email         string
	Username      *string
	Password      string
	FirstName     *string
	LastName      *string
	Position      *string
	ManagerID     *string
	DateOfJoining *time.Time
}

// CreateStaff provisions a manager or employee. Admins create into their
// own pool; managers create employees into their own team only.
func (s *DirectoryService) CreateStaff(ctx context.Context, p policy.Principal, input CreateStaffInput) (*domain.User, *domain.Employee, error) {
	var action policy.Action
	switch input.Role {
	case domain.RoleManager:
		action = policy.ActionCreateManager
	case domain.RoleEmployee:
		action = policy.ActionCreateEmployee
	default:
		return nil, nil, apperrors.NewValidationError("role must be manager or employee", map[string]any{"role": input.Role})
	}

	// Managers always create into their own team.
	if p.Kind == policy.KindManager {
		input.ManagerID = &p.EmployeeID
	}

	resource := policy.Resource{
		Kind:     policy.ResourceEmployee,
		ClientID: p.ClientID,
		Pool:     p.Scope,
	}
	if input.ManagerID != nil {
		resource.ManagerID = *input.ManagerID
	}
	if d := policy.Evaluate(p, action, resource); !d.Allowed {
		return nil, nil, apperrors.NewForbidden(d.Reason)
	}

	if err := validateCredentials(input.Email, input.Password); err != nil {
		return nil, nil, err
	}

	if input.ManagerID != nil {
		manager, err := s.employees.ResolveAssignee(ctx, *input.ManagerID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, nil, apperrors.NewNotFound("manager", nil)
			}
			return nil, nil, apperrors.MapError(err)
		}
		if manager.ClientID == nil || *manager.ClientID != p.ClientID || manager.EmploymentType != p.Scope {
			return nil, nil, apperrors.NewNotFound("manager", nil)
		}
	}

	hashed, err := auth.HashPassword(input.Password, s.bcrypt)
	if err != nil {
		return nil, nil, apperrors.NewInternalError(err)
	}

	clientID := p.ClientID
	user := &domain.User{
		ClientID:     &clientID,
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hashed,
		Role:         input.Role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, nil, apperrors.MapError(err)
	}

	employee := &domain.Employee{
		UserID:         user.ID,
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		Position:       input.Position,
		ManagerID:      input.ManagerID,
		EmploymentType: p.Scope,
		DateOfJoining:  input.DateOfJoining,
	}
	if err := s.employees.Create(ctx, employee); err != nil {
		return nil, nil, apperrors.MapError(err)
	}

	s.logger.Info("staff created",
		zap.String("user_id", user.ID),
		zap.String("employee_id", employee.ID),
		zap.String("role", string(input.Role)),
		zap.String("pool", string(p.Scope)))
	return user, employee, nil
}

// StaffView is a directory row with presence and workload.
type StaffView struct {
	Employee    domain.Employee `json:"employee"`
	UserID      string          `json:"user_id"`
	Email       string          `json:"email"`
	Username    *string         `json:"username,omitempty"`
	Role        domain.Role     `json:"role"`
	Online      bool            `json:"online"`
	OpenTickets int             `json:"open_tickets"`
}

// ListManagers lists the managers of the caller's tenant and pool.
func (s *DirectoryService) ListManagers(ctx context.Context, p policy.Principal) ([]StaffView, error) {
	if d := policy.Evaluate(p, policy.ActionViewEmployee, policy.Resource{
		Kind: policy.ResourceEmployee, ClientID: p.ClientID, Pool: p.Scope, ManagerID: p.EmployeeID,
	}); !d.Allowed {
		return nil, policyError(d, "managers")
	}
	role := domain.RoleManager
	return s.listStaff(ctx, p, repository.EmployeeFilter{
		ClientID:       &p.ClientID,
		EmploymentType: &p.Scope,
		Role:           &role,
	})
}

// ListAssignees lists the staff the caller could assign tickets to: the
// caller's tenant and pool, managers and employees alike.
func (s *DirectoryService) ListAssignees(ctx context.Context, p policy.Principal) ([]StaffView, error) {
	if p.Kind != policy.KindAdmin && p.Kind != policy.KindManager {
		return nil, apperrors.NewForbidden("only admins and managers list assignees")
	}
	return s.listStaff(ctx, p, repository.EmployeeFilter{
		ClientID:       &p.ClientID,
		EmploymentType: &p.Scope,
	})
}

// ListTeam lists the caller's direct reports with workload. Managers only.
func (s *DirectoryService) ListTeam(ctx context.Context, p policy.Principal) ([]StaffView, error) {
	if p.Kind != policy.KindManager {
		return nil, apperrors.NewForbidden("only managers have a team")
	}
	return s.listStaff(ctx, p, repository.EmployeeFilter{
		ClientID:       &p.ClientID,
		EmploymentType: &p.Scope,
		ManagerID:      &p.EmployeeID,
	})
}

func (s *DirectoryService) listStaff(ctx context.Context, p policy.Principal, filter repository.EmployeeFilter) ([]StaffView, error) {
	rows, err := s.employees.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	userIDs := make([]string, 0, len(rows))
	for _, row := range rows {
		userIDs = append(userIDs, row.UserID)
	}
	now := time.Now()
	online := s.presence.OnlineSet(ctx, userIDs, now)

	workload, err := s.tickets.CountLiveByAssignee(ctx, p.ClientID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	views := make([]StaffView, 0, len(rows))
	for _, row := range rows {
		views = append(views, StaffView{
			Employee:    row.Employee,
			UserID:      row.UserID,
			Email:       row.Email,
			Username:    row.Username,
			Role:        row.Role,
			Online:      online[row.UserID],
			OpenTickets: workload[row.Employee.ID],
		})
	}
	return views, nil
}

// GetEmployee returns one staff profile inside the caller's scope.
func (s *DirectoryService) GetEmployee(ctx context.Context, p policy.Principal, employeeID string) (*domain.Employee, error) {
	employee, clientID, err := s.loadEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if d := policy.Evaluate(p, policy.ActionViewEmployee, policy.EmployeeResource(clientID, employee)); !d.Allowed {
		return nil, policyError(d, "employee")
	}
	return employee, nil
}

// UpdateProfileInput carries editable profile fields.
type UpdateProfileInput struct {
	FirstName     *string
	LastName      *string
	Position      *string
	DateOfJoining *time.Time
}

// UpdateEmployeeProfile edits a staff profile inside the caller's scope.
func (s *DirectoryService) UpdateEmployeeProfile(ctx context.Context, p policy.Principal, employeeID string, input UpdateProfileInput) (*domain.Employee, error) {
	employee, clientID, err := s.loadEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if d := policy.Evaluate(p, policy.ActionManageEmployee, policy.EmployeeResource(clientID, employee)); !d.Allowed {
		return nil, policyError(d, "employee")
	}

	if input.FirstName != nil {
		employee.FirstName = input.FirstName
	}
	if input.LastName != nil {
		employee.LastName = input.LastName
	}
	if input.Position != nil {
		employee.Position = input.Position
	}
	if input.DateOfJoining != nil {
		employee.DateOfJoining = input.DateOfJoining
	}

	if err := s.employees.UpdateProfile(ctx, employee); err != nil {
		return nil, apperrors.MapError(err)
	}
	return employee, nil
}

// ResetPassword sets a new password on a staff account inside the
// caller's scope.
func (s *DirectoryService) ResetPassword(ctx context.Context, p policy.Principal, employeeID, newPassword string) error {
	if len(newPassword) < 8 {
		return apperrors.NewValidationError("password must be at least 8 characters", nil)
	}

	employee, clientID, err := s.loadEmployee(ctx, employeeID)
	if err != nil {
		return err
	}
	if d := policy.Evaluate(p, policy.ActionResetPassword, policy.EmployeeResource(clientID, employee)); !d.Allowed {
		return policyError(d, "employee")
	}

	hashed, err := auth.HashPassword(newPassword, s.bcrypt)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if err := s.users.UpdatePassword(ctx, employee.UserID, hashed); err != nil {
		return apperrors.MapError(err)
	}

	s.logger.Info("password reset", zap.String("employee_id", employeeID), zap.String("by", p.UserID))
	return nil
}

func (s *DirectoryService) loadEmployee(ctx context.Context, employeeID string) (*domain.Employee, string, error) {
	employee, err := s.employees.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", apperrors.NewNotFound("employee", nil)
		}
		return nil, "", apperrors.MapError(err)
	}
	owner, err := s.users.GetByID(ctx, employee.UserID)
	if err != nil {
		return nil, "", apperrors.MapError(err)
	}
	clientID := ""
	if owner.ClientID != nil {
		clientID = *owner.ClientID
	}
	return employee, clientID, nil
}

func validateCredentials(email, password string) error {
	if strings.TrimSpace(email) == "" {
		return apperrors.NewValidationError("email is required", nil)
	}
	if len(password) < 8 {
		return apperrors.NewValidationError("password must be at least 8 characters", nil)
	}
	return nil
}
