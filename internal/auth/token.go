package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/deskhub/helpdesk/internal/domain"
	"github.com/deskhub/helpdesk/internal/policy"
)

// TokenManager handles issuing and validating JWT tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret string, ttlMinutes int) *TokenManager {
	if ttlMinutes <= 0 {
		ttlMinutes = 60
	}
	return &TokenManager{secret: []byte(secret), ttl: time.Duration(ttlMinutes) * time.Minute}
}

// Claims describes the JWT payload. The scoping fields are resolved from
// the user and employee rows at login and trusted for the token lifetime.
type Claims struct {
	UserID         string             `json:"sub"`
	ClientID       *string            `json:"client_id,omitempty"`
	Role           domain.Role        `json:"role"`
	AdminType      *domain.StaffScope `json:"admin_type,omitempty"`
	EmploymentType *domain.StaffScope `json:"employment_type,omitempty"`
	EmployeeID     *string            `json:"employee_id,omitempty"`
	jwt.RegisteredClaims
}

// Identity converts validated claims into the evaluator's input.
func (c *Claims) Identity() policy.Identity {
	return policy.Identity{
		UserID:         c.UserID,
		ClientID:       c.ClientID,
		Role:           c.Role,
		AdminType:      c.AdminType,
		EmploymentType: c.EmploymentType,
		EmployeeID:     c.EmployeeID,
	}
}

// GenerateToken builds and signs a JWT for the identity.
func (tm *TokenManager) GenerateToken(id policy.Identity) (string, time.Time, error) {
	expiresAt := time.Now().Add(tm.ttl)
	claims := &Claims{
		UserID:         id.UserID,
		ClientID:       id.ClientID,
		Role:           id.Role,
		AdminType:      id.AdminType,
		EmploymentType: id.EmploymentType,
		EmployeeID:     id.EmployeeID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseToken validates and returns claims.
func (tm *TokenManager) ParseToken(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
