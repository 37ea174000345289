package service

import (
	"context"
	"sync"
	"time"

	"lakshmikitchen/internal/apperr"
	"lakshmikitchen/internal/model"
)

type fakeAccounts struct {
	mu        sync.Mutex
	customers map[string]*model.Customer
	staff     map[string]*model.Staff
	nextID    int64
}

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{
		customers: make(map[string]*model.Customer),
		staff:     make(map[string]*model.Staff),
	}
}

func (f *fakeAccounts) CustomerByEmail(_ context.Context, email string) (*model.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.customers[email], nil
}

func (f *fakeAccounts) StaffByEmail(_ context.Context, email string) (*model.Staff, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.staff[email], nil
}

func (f *fakeAccounts) CustomerEmailExists(_ context.Context, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.customers[email]
	return ok, nil
}

func (f *fakeAccounts) StaffEmailExists(_ context.Context, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.staff[email]
	return ok, nil
}

func (f *fakeAccounts) InsertCustomer(_ context.Context, c *model.Customer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.customers[c.Email]; ok {
		return apperr.New(apperr.KindConflict, "email already registered")
	}
	f.nextID++
	c.ID = f.nextID
	c.CreatedAt = time.Now()
	f.customers[c.Email] = c
	return nil
}

func (f *fakeAccounts) InsertStaff(_ context.Context, s *model.Staff) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.staff[s.Email]; ok {
		return apperr.New(apperr.KindConflict, "email or username already exists")
	}
	f.nextID++
	s.ID = f.nextID
	s.CreatedAt = time.Now()
	f.staff[s.Email] = s
	return nil
}

type sentMail struct {
	to   string
	code string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (f *fakeMailer) SendCode(to, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{to: to, code: code})
	return nil
}

type chargeCall struct {
	amountMinor int64
	currency    string
	receipt     string
}

type fakeGateway struct {
	ref      string
	err      error
	validSig string
	charges  []chargeCall
}

func (f *fakeGateway) CreateCharge(_ context.Context, amountMinor int64, currency, receipt string) (string, error) {
	f.charges = append(f.charges, chargeCall{amountMinor: amountMinor, currency: currency, receipt: receipt})
	if f.err != nil {
		return "", f.err
	}
	return f.ref, nil
}

func (f *fakeGateway) VerifySignature(orderRef, paymentID, signature string) bool {
	return signature == f.validSig
}

type fakeOrderRepo struct {
	mu       sync.Mutex
	orders   map[int64]*model.Order
	nextID   int64
	sessions *fakeSessionRepo
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[int64]*model.Order)}
}

// CreateWithItems resolves the session tag while holding the session lock,
// matching the real insert statement that reads the active session and
// writes the order atomically.
func (f *fakeOrderRepo) CreateWithItems(_ context.Context, o *model.Order) error {
	if f.sessions != nil {
		f.sessions.mu.Lock()
		defer f.sessions.mu.Unlock()
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	o.SessionID = nil
	o.IsCurrent = false
	if f.sessions != nil {
		for _, s := range f.sessions.sessions {
			if s.Status == model.SessionActive {
				id := s.ID
				o.SessionID = &id
				o.IsCurrent = true
				break
			}
		}
	}

	f.nextID++
	o.ID = f.nextID
	o.CreatedAt = time.Now()
	for i := range o.Items {
		o.Items[i].OrderID = o.ID
	}
	stored := *o
	stored.Items = append([]model.OrderItem(nil), o.Items...)
	f.orders[o.ID] = &stored
	return nil
}

func (f *fakeOrderRepo) SetGatewayReference(_ context.Context, orderID int64, ref string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if o, ok := f.orders[orderID]; ok {
		o.GatewayReference = ref
	}
	return nil
}

func (f *fakeOrderRepo) Exists(_ context.Context, orderID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.orders[orderID]
	return ok, nil
}

func (f *fakeOrderRepo) UpdatePaymentStatus(_ context.Context, orderID int64, from, to model.PaymentStatus) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[orderID]
	if !ok || o.PaymentStatus != from {
		return false, nil
	}
	o.PaymentStatus = to
	return true, nil
}

func (f *fakeOrderRepo) ByGatewayReference(_ context.Context, ref string) (*model.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.orders {
		if o.GatewayReference == ref {
			cp := *o
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeOrderRepo) ListByCustomer(_ context.Context, customerID int64) ([]model.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Order
	for _, o := range f.orders {
		if o.CustomerID != nil && *o.CustomerID == customerID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeOrderRepo) ListUnreconciled(_ context.Context) ([]model.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Order
	for _, o := range f.orders {
		if o.PaymentMethod == model.PaymentGatewayOnline &&
			o.PaymentStatus == model.PaymentPending && o.GatewayReference == "" {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeOrderRepo) ListForSession(_ context.Context, sessionID int64) ([]model.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Order
	for _, o := range f.orders {
		if o.SessionID != nil && *o.SessionID == sessionID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeOrderRepo) get(orderID int64) model.Order {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *f.orders[orderID]
}

// fakeSessionRepo serializes state changes with a mutex, standing in for
// the partial unique index that arbitrates concurrent starts in Postgres.
type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[int64]*model.Session
	nextID   int64
	orders   *fakeOrderRepo
	products map[int64]string
}

func newFakeSessionRepo(orders *fakeOrderRepo) *fakeSessionRepo {
	f := &fakeSessionRepo{
		sessions: make(map[int64]*model.Session),
		orders:   orders,
		products: make(map[int64]string),
	}
	orders.sessions = f
	return f
}

func (f *fakeSessionRepo) InsertActive(_ context.Context, adminID int64, start time.Time) (*model.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.sessions {
		if s.Status == model.SessionActive {
			return nil, apperr.New(apperr.KindConflict, "an order session is already active")
		}
	}
	f.nextID++
	s := &model.Session{ID: f.nextID, StartTime: start, Status: model.SessionActive, CreatedBy: adminID}
	f.sessions[s.ID] = s
	cp := *s
	return &cp, nil
}

func (f *fakeSessionRepo) StopActive(_ context.Context, end time.Time) (*model.Session, error) {
	f.mu.Lock()
	var active *model.Session
	for _, s := range f.sessions {
		if s.Status == model.SessionActive {
			active = s
			break
		}
	}
	if active == nil {
		f.mu.Unlock()
		return nil, apperr.New(apperr.KindConflict, "no active order session")
	}
	active.Status = model.SessionStopped
	active.EndTime = &end
	cp := *active
	f.mu.Unlock()

	f.orders.mu.Lock()
	for _, o := range f.orders.orders {
		if o.SessionID != nil && *o.SessionID == cp.ID {
			o.IsCurrent = false
		}
	}
	f.orders.mu.Unlock()
	return &cp, nil
}

func (f *fakeSessionRepo) Active(_ context.Context) (*model.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.sessions {
		if s.Status == model.SessionActive {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeSessionRepo) LastStopped(_ context.Context) (*model.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var last *model.Session
	for _, s := range f.sessions {
		if s.Status != model.SessionStopped {
			continue
		}
		if last == nil || s.EndTime.After(*last.EndTime) {
			last = s
		}
	}
	if last == nil {
		return nil, nil
	}
	cp := *last
	return &cp, nil
}

func (f *fakeSessionRepo) ProductSummary(_ context.Context, sessionID int64) ([]model.ProductSummary, error) {
	f.orders.mu.Lock()
	totals := make(map[int64]int64)
	for _, o := range f.orders.orders {
		if o.SessionID == nil || *o.SessionID != sessionID {
			continue
		}
		for _, it := range o.Items {
			totals[it.ProductID] += int64(it.Quantity)
		}
	}
	f.orders.mu.Unlock()

	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.ProductSummary
	for id, qty := range totals {
		out = append(out, model.ProductSummary{ProductID: id, Product: f.products[id], Quantity: qty})
	}
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].Quantity > out[i].Quantity {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out, nil
}

func (f *fakeSessionRepo) Counts(_ context.Context, sessionID int64) (int64, int64, error) {
	f.orders.mu.Lock()
	defer f.orders.mu.Unlock()
	var orders int64
	phones := make(map[string]struct{})
	for _, o := range f.orders.orders {
		if o.SessionID != nil && *o.SessionID == sessionID {
			orders++
			phones[o.CustomerPhone] = struct{}{}
		}
	}
	return orders, int64(len(phones)), nil
}
