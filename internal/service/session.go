package service

import (
	"context"
	"time"

	"lakshmikitchen/internal/apperr"
	"lakshmikitchen/internal/model"
)

type SessionRepository interface {
	InsertActive(ctx context.Context, adminID int64, start time.Time) (*model.Session, error)
	StopActive(ctx context.Context, end time.Time) (*model.Session, error)
	Active(ctx context.Context) (*model.Session, error)
	LastStopped(ctx context.Context) (*model.Session, error)
	ProductSummary(ctx context.Context, sessionID int64) ([]model.ProductSummary, error)
	Counts(ctx context.Context, sessionID int64) (orders, customers int64, err error)
}

type SessionOrderLister interface {
	ListForSession(ctx context.Context, sessionID int64) ([]model.Order, error)
}

// SessionService drives the none -> active -> stopped state machine. The
// storage layer guarantees at most one active session; this service only
// translates its answers.
type SessionService struct {
	repo   SessionRepository
	orders SessionOrderLister
	number NumberFunc
	now    func() time.Time
}

func NewSessionService(repo SessionRepository, orders SessionOrderLister) *SessionService {
	return &SessionService{
		repo:   repo,
		orders: orders,
		number: PaddedNumber,
		now:    time.Now,
	}
}

// Start opens a new session. Conflict when one is already active; among
// concurrent starts exactly one wins.
func (s *SessionService) Start(ctx context.Context, adminID int64) (*model.Session, error) {
	return s.repo.InsertActive(ctx, adminID, s.now())
}

// Stop closes the active session and clears the live flag on its orders.
func (s *SessionService) Stop(ctx context.Context) (*model.Session, error) {
	return s.repo.StopActive(ctx, s.now())
}

type SessionStatus struct {
	Active      bool           `json:"active"`
	StartTime   *time.Time     `json:"start_time,omitempty"`
	LastSession *model.Session `json:"last_session,omitempty"`
}

func (s *SessionService) Status(ctx context.Context) (*SessionStatus, error) {
	active, err := s.repo.Active(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "session lookup failed", err)
	}
	last, err := s.repo.LastStopped(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "session lookup failed", err)
	}

	st := &SessionStatus{LastSession: last}
	if active != nil {
		st.Active = true
		st.StartTime = &active.StartTime
	}
	return st, nil
}

// CurrentOrders returns the active session's orders newest first, or an
// empty set when no session is active. Never an error for "no session".
func (s *SessionService) CurrentOrders(ctx context.Context) ([]model.Order, error) {
	active, err := s.repo.Active(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "session lookup failed", err)
	}
	if active == nil {
		return []model.Order{}, nil
	}
	orders, err := s.orders.ListForSession(ctx, active.ID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "order listing failed", err)
	}
	for i := range orders {
		orders[i].Number = s.number(orders[i].ID)
	}
	return orders, nil
}

type SessionSummary struct {
	Active        bool                   `json:"active"`
	Products      []model.ProductSummary `json:"products"`
	OrderCount    int64                  `json:"order_count"`
	CustomerCount int64                  `json:"customer_count"`
}

// Summary aggregates the active session: per-product quantities largest
// first, plus distinct order and customer counts.
func (s *SessionService) Summary(ctx context.Context) (*SessionSummary, error) {
	active, err := s.repo.Active(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "session lookup failed", err)
	}
	if active == nil {
		return &SessionSummary{Active: false, Products: []model.ProductSummary{}}, nil
	}

	products, err := s.repo.ProductSummary(ctx, active.ID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "session summary failed", err)
	}
	if products == nil {
		products = []model.ProductSummary{}
	}
	orderCount, customerCount, err := s.repo.Counts(ctx, active.ID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "session summary failed", err)
	}
	return &SessionSummary{
		Active:        true,
		Products:      products,
		OrderCount:    orderCount,
		CustomerCount: customerCount,
	}, nil
}
