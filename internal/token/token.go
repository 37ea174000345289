package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"lakshmikitchen/internal/apperr"
	"lakshmikitchen/internal/model"
)

// Claims tag every token with the audience that issued it, so verification
// picks the matching secret from the tag instead of trial-decoding against
// both.
type Claims struct {
	Kind     model.PrincipalKind `json:"kind"`
	ID       int64               `json:"id"`
	Email    string              `json:"email"`
	Role     string              `json:"role,omitempty"`
	Username string              `json:"username,omitempty"`
	Elevated bool                `json:"elevated,omitempty"`
	jwt.RegisteredClaims
}

// Manager issues and resolves bearer tokens for both audiences. Customer
// and staff tokens are signed with independent secrets and are not
// interchangeable.
type Manager struct {
	customerSecret []byte
	staffSecret    []byte
	ttl            time.Duration
}

func NewManager(customerSecret, staffSecret string) *Manager {
	return &Manager{
		customerSecret: []byte(customerSecret),
		staffSecret:    []byte(staffSecret),
		ttl:            24 * time.Hour,
	}
}

func (m *Manager) IssueCustomer(c *model.Customer) (string, error) {
	claims := Claims{
		Kind:  model.PrincipalCustomer,
		ID:    c.ID,
		Email: c.Email,
		Role:  c.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.customerSecret)
}

func (m *Manager) IssueStaff(s *model.Staff, elevated bool) (string, error) {
	claims := Claims{
		Kind:     model.PrincipalStaff,
		ID:       s.ID,
		Email:    s.Email,
		Username: s.Username,
		Elevated: elevated,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.staffSecret)
}

// IssueElevated grants staff access to a customer whose account carries the
// admin role. The elevated flag exempts the token from the staff directory
// check, since no staff row exists for it.
func (m *Manager) IssueElevated(c *model.Customer) (string, error) {
	claims := Claims{
		Kind:     model.PrincipalStaff,
		ID:       c.ID,
		Email:    c.Email,
		Role:     c.Role,
		Elevated: true,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.staffSecret)
}

func (m *Manager) keyFor(t *jwt.Token) (any, error) {
	if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, errors.New("unexpected signing method")
	}
	claims, ok := t.Claims.(*Claims)
	if !ok {
		return nil, errors.New("unexpected claims type")
	}
	switch claims.Kind {
	case model.PrincipalCustomer:
		return m.customerSecret, nil
	case model.PrincipalStaff:
		return m.staffSecret, nil
	}
	return nil, errors.New("unknown token audience")
}

// Resolve verifies a bearer token and returns the principal it names.
func (m *Manager) Resolve(tokenString string) (model.Principal, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, m.keyFor)
	if err != nil || !parsed.Valid {
		return model.Principal{}, apperr.Wrap(apperr.KindUnauthenticated, "invalid or expired token", err)
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return model.Principal{}, apperr.New(apperr.KindUnauthenticated, "invalid token claims")
	}
	return model.Principal{
		Kind:     claims.Kind,
		ID:       claims.ID,
		Email:    claims.Email,
		Role:     claims.Role,
		Username: claims.Username,
		Elevated: claims.Elevated,
	}, nil
}
