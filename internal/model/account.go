package model

import "time"

type Customer struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash []byte    `json:"-"`
	PhoneNumber  string    `json:"phone_number,omitempty"`
	Location     string    `json:"location,omitempty"`
	HomeAddress  string    `json:"home_address,omitempty"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

type Staff struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash []byte    `json:"-"`
	Name         string    `json:"name,omitempty"`
	PhoneNumber  string    `json:"phone_number,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type PrincipalKind string

const (
	PrincipalCustomer PrincipalKind = "customer"
	PrincipalStaff    PrincipalKind = "staff"
)

// Principal is the authenticated identity attached to a request. It is
// derived per-request from a verified token, never persisted.
type Principal struct {
	Kind     PrincipalKind `json:"kind"`
	ID       int64         `json:"id"`
	Email    string        `json:"email"`
	Role     string        `json:"role,omitempty"`     // customer principals
	Username string        `json:"username,omitempty"` // staff principals
	Elevated bool          `json:"elevated,omitempty"` // customer role elevated to staff
}
