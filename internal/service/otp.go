package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"golang.org/x/crypto/bcrypt"

	"lakshmikitchen/internal/apperr"
	"lakshmikitchen/internal/mailer"
	"lakshmikitchen/internal/model"
	"lakshmikitchen/internal/otp"
)

// OTPService runs the two-phase account creation: no durable account row is
// written before possession of the email address is proven with a code.
type OTPService struct {
	accounts AccountDirectory
	store    otp.Store
	mail     mailer.Mailer
	ttl      time.Duration
	now      func() time.Time
}

func NewOTPService(accounts AccountDirectory, store otp.Store, mail mailer.Mailer, ttl time.Duration) *OTPService {
	return &OTPService{
		accounts: accounts,
		store:    store,
		mail:     mail,
		ttl:      ttl,
		now:      time.Now,
	}
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// IssueCustomerCode stores a fresh code for a pending customer account and
// mails it. A prior unconsumed code for the same address is superseded.
func (s *OTPService) IssueCustomerCode(ctx context.Context, p otp.Pending) error {
	if p.Name == "" || p.Email == "" || p.Password == "" {
		return apperr.New(apperr.KindInvalidRequest, "name, email and password required")
	}
	exists, err := s.accounts.CustomerEmailExists(ctx, p.Email)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "storage failure", err)
	}
	if exists {
		return apperr.New(apperr.KindConflict, "email already registered")
	}
	if p.Role == "" {
		p.Role = "user"
	}
	return s.issue(p.Email, otp.KindCustomer, p)
}

// IssueStaffCode stores a fresh code for a pending staff account and mails
// it.
func (s *OTPService) IssueStaffCode(ctx context.Context, p otp.Pending) error {
	if p.Username == "" || p.Email == "" || p.Password == "" {
		return apperr.New(apperr.KindInvalidRequest, "username, email and password required")
	}
	exists, err := s.accounts.StaffEmailExists(ctx, p.Email)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "storage failure", err)
	}
	if exists {
		return apperr.New(apperr.KindConflict, "email already registered")
	}
	return s.issue(p.Email, otp.KindStaff, p)
}

func (s *OTPService) issue(email string, kind otp.Kind, p otp.Pending) error {
	code, err := generateCode()
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "code generation failed", err)
	}
	s.store.Put(email, kind, otp.Record{
		Code:     code,
		IssuedAt: s.now(),
		Payload:  p,
	})
	// The record outlives a delivery failure, so a retried send-code call
	// simply overwrites it.
	if err := s.mail.SendCode(email, code); err != nil {
		return apperr.Wrap(apperr.KindUpstream, "failed to send verification code", err)
	}
	return nil
}

// VerifyCustomerCode materializes the pending customer account on a code
// match and consumes the record.
func (s *OTPService) VerifyCustomerCode(ctx context.Context, email, code string) (*model.Customer, error) {
	rec, err := s.take(email, otp.KindCustomer, code)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(rec.Payload.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "hash password", err)
	}
	c := &model.Customer{
		Name:         rec.Payload.Name,
		Email:        rec.Payload.Email,
		PasswordHash: hash,
		PhoneNumber:  rec.Payload.PhoneNumber,
		Location:     rec.Payload.Location,
		HomeAddress:  rec.Payload.HomeAddress,
		Role:         rec.Payload.Role,
	}
	if err := s.accounts.InsertCustomer(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// VerifyStaffCode materializes the pending staff account on a code match
// and consumes the record.
func (s *OTPService) VerifyStaffCode(ctx context.Context, email, code string) (*model.Staff, error) {
	rec, err := s.take(email, otp.KindStaff, code)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(rec.Payload.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "hash password", err)
	}
	st := &model.Staff{
		Username:     rec.Payload.Username,
		Email:        rec.Payload.Email,
		PasswordHash: hash,
		Name:         rec.Payload.Name,
		PhoneNumber:  rec.Payload.PhoneNumber,
	}
	if err := s.accounts.InsertStaff(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

// take validates and atomically consumes the record for (email, kind).
func (s *OTPService) take(email string, kind otp.Kind, code string) (otp.Record, error) {
	if email == "" || code == "" {
		return otp.Record{}, apperr.New(apperr.KindInvalidRequest, "email and code required")
	}

	rec, ok := s.store.Get(email, kind)
	if !ok {
		return otp.Record{}, apperr.New(apperr.KindNotFound, "no verification code issued for this email")
	}
	if s.now().Sub(rec.IssuedAt) > s.ttl {
		s.store.Evict(email, kind)
		return otp.Record{}, apperr.New(apperr.KindExpired, "verification code has expired, request a new one")
	}
	if rec.Code != code {
		return otp.Record{}, apperr.New(apperr.KindInvalidRequest, "invalid verification code")
	}

	rec, ok = s.store.Consume(email, kind, code)
	if !ok {
		// Lost the race to a concurrent verification.
		return otp.Record{}, apperr.New(apperr.KindNotFound, "no verification code issued for this email")
	}
	return rec, nil
}
