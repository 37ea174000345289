package model

import "time"

type SessionStatus string

const (
	SessionActive  SessionStatus = "active"
	SessionStopped SessionStatus = "stopped"
)

// Session is an admin-bounded service window grouping live orders.
// At most one session is active at any instant.
type Session struct {
	ID        int64         `json:"id"`
	StartTime time.Time     `json:"start_time"`
	EndTime   *time.Time    `json:"end_time,omitempty"`
	Status    SessionStatus `json:"status"`
	CreatedBy int64         `json:"created_by"`
}
