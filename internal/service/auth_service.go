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

// AuthService handles login and credential maintenance.
type AuthService struct {
	users     repository.UserRepository
	employees repository.EmployeeRepository
	tokens    *auth.TokenManager
	presence  *presence.Tracker
	bcrypt    int
	logger    *zap.Logger
}

// NewAuthService creates the service.
func NewAuthService(
	users repository.UserRepository,
	employees repository.EmployeeRepository,
	tokens *auth.TokenManager,
	tracker *presence.Tracker,
	bcryptCost int,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		employees: employees,
		tokens:    tokens,
		presence:  tracker,
		bcrypt:    bcryptCost,
		logger:    logger,
	}
}

// LoginResult is the issued credential plus the resolved caller.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
	Employee  *domain.Employee
}

// Login verifies credentials and issues a token carrying the caller's
// full scoping identity. Managers and employees must have a staff
// profile; accounts without one cannot authenticate.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, apperrors.MapError(err)
	}

	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}

	identity := policy.Identity{
		UserID:    user.ID,
		ClientID:  user.ClientID,
		Role:      user.Role,
		AdminType: user.AdminType,
	}

	var employee *domain.Employee
	if user.Role == domain.RoleManager || user.Role == domain.RoleEmployee {
		employee, err = s.employees.GetByUserID(ctx, user.ID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				s.logger.Warn("staff user without employee profile", zap.String("user_id", user.ID))
				return nil, apperrors.NewUnauthorized("account has no staff profile")
			}
			return nil, apperrors.MapError(err)
		}
		identity.EmploymentType = &employee.EmploymentType
		identity.EmployeeID = &employee.ID
	}

	if _, err := policy.PrincipalFromIdentity(identity); err != nil {
		s.logger.Warn("rejecting malformed identity at login", zap.String("user_id", user.ID), zap.Error(err))
		return nil, apperrors.NewUnauthorized("account is misconfigured")
	}

	token, expiresAt, err := s.tokens.GenerateToken(identity)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	// Login counts as a heartbeat.
	s.presence.Ping(ctx, user.ID)

	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: user, Employee: employee}, nil
}

// ChangePassword rotates the caller's own password after verifying the
// current one.
func (s *AuthService) ChangePassword(ctx context.Context, userID, current, next string) error {
	if len(next) < 8 {
		return apperrors.NewValidationError("password must be at least 8 characters", nil)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return apperrors.MapError(err)
	}

	if err := auth.ComparePassword(user.PasswordHash, current); err != nil {
		return apperrors.NewUnauthorized("current password is incorrect")
	}

	hashed, err := auth.HashPassword(next, s.bcrypt)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if err := s.users.UpdatePassword(ctx, userID, hashed); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// ChangeEmail replaces the caller's login email after verifying the
// password. The email must stay unique; duplicates surface as conflicts.
func (s *AuthService) ChangeEmail(ctx context.Context, userID, password, newEmail string) error {
	newEmail = strings.TrimSpace(newEmail)
	if newEmail == "" || !strings.Contains(newEmail, "@") {
		return apperrors.NewValidationError("a valid email is required", nil)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return apperrors.MapError(err)
	}

	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return apperrors.NewUnauthorized("password is incorrect")
	}

	if err := s.users.UpdateEmail(ctx, userID, newEmail); err != nil {
		return apperrors.MapError(err)
	}
	s.logger.Info("email changed", zap.String("user_id", userID))
	return nil
}
