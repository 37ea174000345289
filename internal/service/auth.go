package service

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"lakshmikitchen/internal/apperr"
	"lakshmikitchen/internal/model"
	"lakshmikitchen/internal/token"
)

// AccountDirectory is the durable account store shared by login and the
// OTP provisioning workflow.
type AccountDirectory interface {
	CustomerByEmail(ctx context.Context, email string) (*model.Customer, error)
	StaffByEmail(ctx context.Context, email string) (*model.Staff, error)
	CustomerEmailExists(ctx context.Context, email string) (bool, error)
	StaffEmailExists(ctx context.Context, email string) (bool, error)
	InsertCustomer(ctx context.Context, c *model.Customer) error
	InsertStaff(ctx context.Context, s *model.Staff) error
}

type AuthService struct {
	accounts AccountDirectory
	tokens   *token.Manager
}

func NewAuthService(accounts AccountDirectory, tokens *token.Manager) *AuthService {
	return &AuthService{accounts: accounts, tokens: tokens}
}

type LoginResult struct {
	Token    string          `json:"token"`
	UserType string          `json:"userType"`
	Customer *model.Customer `json:"user,omitempty"`
	Staff    *model.Staff    `json:"admin,omitempty"`
}

// Login checks the staff directory first, then the customer directory, and
// issues a token tagged with the matching audience.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if email == "" || password == "" {
		return nil, apperr.New(apperr.KindInvalidRequest, "email and password required")
	}

	staff, err := s.accounts.StaffByEmail(ctx, email)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "storage failure", err)
	}
	if staff != nil {
		if bcrypt.CompareHashAndPassword(staff.PasswordHash, []byte(password)) != nil {
			return nil, apperr.New(apperr.KindUnauthenticated, "invalid credentials")
		}
		tok, err := s.tokens.IssueStaff(staff, false)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindInternal, "token generation failed", err)
		}
		return &LoginResult{Token: tok, UserType: "admin", Staff: staff}, nil
	}

	customer, err := s.accounts.CustomerByEmail(ctx, email)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "storage failure", err)
	}
	if customer == nil {
		return nil, apperr.New(apperr.KindUnauthenticated, "invalid credentials")
	}
	if bcrypt.CompareHashAndPassword(customer.PasswordHash, []byte(password)) != nil {
		return nil, apperr.New(apperr.KindUnauthenticated, "invalid credentials")
	}
	if customer.Role == "admin" {
		tok, err := s.tokens.IssueElevated(customer)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindInternal, "token generation failed", err)
		}
		return &LoginResult{Token: tok, UserType: "admin", Customer: customer}, nil
	}
	tok, err := s.tokens.IssueCustomer(customer)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "token generation failed", err)
	}
	return &LoginResult{Token: tok, UserType: "user", Customer: customer}, nil
}
