package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"lakshmikitchen/internal/model"
)

type AccountRepo struct {
	db *sql.DB
}

func NewAccountRepo(db *sql.DB) *AccountRepo {
	return &AccountRepo{db: db}
}

// CustomerByEmail returns the customer for email, or nil when none exists.
func (r *AccountRepo) CustomerByEmail(ctx context.Context, email string) (*model.Customer, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, email, password_hash,
		       COALESCE(phone_number, ''), COALESCE(location, ''), COALESCE(home_address, ''),
		       role, created_at
		FROM customers WHERE email = $1
	`, email)

	var c model.Customer
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.PasswordHash,
		&c.PhoneNumber, &c.Location, &c.HomeAddress, &c.Role, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return &c, nil
}

// StaffByEmail returns the staff record for email, or nil when none exists.
func (r *AccountRepo) StaffByEmail(ctx context.Context, email string) (*model.Staff, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, username, email, password_hash,
		       COALESCE(name, ''), COALESCE(phone_number, ''), created_at
		FROM staff WHERE email = $1
	`, email)

	var s model.Staff
	err := row.Scan(&s.ID, &s.Username, &s.Email, &s.PasswordHash,
		&s.Name, &s.PhoneNumber, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get staff: %w", err)
	}
	return &s, nil
}

func (r *AccountRepo) CustomerEmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM customers WHERE email = $1)`, email,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check customer email: %w", err)
	}
	return exists, nil
}

func (r *AccountRepo) StaffEmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM staff WHERE email = $1)`, email,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check staff email: %w", err)
	}
	return exists, nil
}

func (r *AccountRepo) InsertCustomer(ctx context.Context, c *model.Customer) error {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO customers (name, email, password_hash, phone_number, location, home_address, role)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''), $7)
		RETURNING id, created_at
	`, c.Name, c.Email, c.PasswordHash, c.PhoneNumber, c.Location, c.HomeAddress, c.Role)

	if err := row.Scan(&c.ID, &c.CreatedAt); err != nil {
		return conflictOn(err, "email already registered")
	}
	return nil
}

func (r *AccountRepo) InsertStaff(ctx context.Context, s *model.Staff) error {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO staff (username, email, password_hash, name, phone_number)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''))
		RETURNING id, created_at
	`, s.Username, s.Email, s.PasswordHash, s.Name, s.PhoneNumber)

	if err := row.Scan(&s.ID, &s.CreatedAt); err != nil {
		return conflictOn(err, "email or username already exists")
	}
	return nil
}
