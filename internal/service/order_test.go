package service

import (
	"context"
	"errors"
	"testing"

	"lakshmikitchen/internal/apperr"
	"lakshmikitchen/internal/model"
)

func newOrderFixture() (*OrderService, *fakeOrderRepo, *fakeSessionRepo, *fakeGateway) {
	orders := newFakeOrderRepo()
	sessions := newFakeSessionRepo(orders)
	gateway := &fakeGateway{ref: "gw_ref_1"}
	svc := NewOrderService(orders, gateway, "INR")
	return svc, orders, sessions, gateway
}

func validInput() CreateOrderInput {
	return CreateOrderInput{
		CustomerName:    "A",
		CustomerPhone:   "555",
		CustomerAddress: "X",
		PaymentMethod:   "cashOnDelivery",
		Items:           []model.OrderItem{{ProductID: 1, Quantity: 2, PriceAtTime: 50}},
		Total:           100,
	}
}

func TestCreateValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CreateOrderInput)
	}{
		{name: "missingName", mutate: func(in *CreateOrderInput) { in.CustomerName = "" }},
		{name: "missingPhone", mutate: func(in *CreateOrderInput) { in.CustomerPhone = "" }},
		{name: "missingAddress", mutate: func(in *CreateOrderInput) { in.CustomerAddress = "" }},
		{name: "emptyItems", mutate: func(in *CreateOrderInput) { in.Items = nil }},
		{name: "zeroTotal", mutate: func(in *CreateOrderInput) { in.Total = 0 }},
		{name: "negativeTotal", mutate: func(in *CreateOrderInput) { in.Total = -5 }},
		{name: "zeroQuantity", mutate: func(in *CreateOrderInput) { in.Items[0].Quantity = 0 }},
		{name: "unknownMethod", mutate: func(in *CreateOrderInput) { in.PaymentMethod = "barter" }},
		{name: "upiWithoutID", mutate: func(in *CreateOrderInput) { in.PaymentMethod = "upiGpay" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _, _ := newOrderFixture()
			in := validInput()
			tt.mutate(&in)
			_, err := svc.Create(context.Background(), in)
			if !apperr.IsKind(err, apperr.KindInvalidRequest) {
				t.Errorf("err = %v, want invalid_request", err)
			}
		})
	}
}

func TestCreateCashOnDeliveryNoSession(t *testing.T) {
	svc, orders, _, _ := newOrderFixture()

	res, err := svc.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if res.OrderID != 1 || res.OrderNumber != "0001" {
		t.Errorf("got orderId=%d number=%q, want 1 / 0001", res.OrderID, res.OrderNumber)
	}
	if res.PaymentStatus != model.PaymentPending {
		t.Errorf("paymentStatus = %s, want pending", res.PaymentStatus)
	}

	stored := orders.get(res.OrderID)
	if stored.IsCurrent {
		t.Error("order created outside a session must not be current")
	}
	if stored.SessionID != nil {
		t.Errorf("sessionID = %v, want nil", *stored.SessionID)
	}
	if len(stored.Items) != 1 || stored.Items[0].PriceAtTime != 50 {
		t.Errorf("stored items = %+v, want copied price 50", stored.Items)
	}
}

func TestCreateTagsActiveSession(t *testing.T) {
	svc, orders, sessions, _ := newOrderFixture()
	sessionSvc := NewSessionService(sessions, orders)

	session, err := sessionSvc.Start(context.Background(), 9)
	if err != nil {
		t.Fatalf("start session: %v", err)
	}

	res, err := svc.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	stored := orders.get(res.OrderID)
	if stored.SessionID == nil || *stored.SessionID != session.ID {
		t.Errorf("sessionID = %v, want %d", stored.SessionID, session.ID)
	}
	if !stored.IsCurrent {
		t.Error("order created during a session must be current")
	}
}

func TestCreateUPIKeepsIdentifier(t *testing.T) {
	svc, orders, _, _ := newOrderFixture()

	in := validInput()
	in.PaymentMethod = "upiPhonePe"
	in.UPIID = "lk@upi"
	res, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	stored := orders.get(res.OrderID)
	if stored.UPIID != "lk@upi" {
		t.Errorf("upi id = %q, want lk@upi", stored.UPIID)
	}
	if stored.PaymentStatus != model.PaymentPending {
		t.Errorf("status = %s, want pending", stored.PaymentStatus)
	}
}

func TestCreateGatewayOnline(t *testing.T) {
	svc, orders, _, gateway := newOrderFixture()

	in := validInput()
	in.PaymentMethod = "gatewayOnline"
	in.Total = 123.45
	res, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if res.GatewayReference != "gw_ref_1" {
		t.Errorf("gateway ref = %q, want gw_ref_1", res.GatewayReference)
	}
	if len(gateway.charges) != 1 {
		t.Fatalf("charges = %d, want 1", len(gateway.charges))
	}
	if got := gateway.charges[0]; got.amountMinor != 12345 || got.currency != "INR" {
		t.Errorf("charge = %+v, want 12345 minor units INR", got)
	}
	if orders.get(res.OrderID).GatewayReference != "gw_ref_1" {
		t.Error("gateway reference not persisted on order")
	}
}

func TestCreateGatewayFailureLeavesPending(t *testing.T) {
	svc, orders, _, gateway := newOrderFixture()
	gateway.err = errors.New("gateway down")

	in := validInput()
	in.PaymentMethod = "gatewayOnline"
	_, err := svc.Create(context.Background(), in)
	if !apperr.IsKind(err, apperr.KindUpstream) {
		t.Fatalf("err = %v, want upstream_failure", err)
	}

	// The order row stays committed and surfaces in reconciliation.
	unreconciled, err := svc.ListUnreconciled(context.Background())
	if err != nil {
		t.Fatalf("list unreconciled: %v", err)
	}
	if len(unreconciled) != 1 {
		t.Fatalf("unreconciled = %d orders, want 1", len(unreconciled))
	}
	if unreconciled[0].PaymentStatus != model.PaymentPending {
		t.Errorf("status = %s, want pending", unreconciled[0].PaymentStatus)
	}
	if got := orders.get(unreconciled[0].ID); got.GatewayReference != "" {
		t.Errorf("gateway ref = %q, want empty", got.GatewayReference)
	}
}

func TestMarkPaidMonotonic(t *testing.T) {
	svc, orders, _, _ := newOrderFixture()
	res, err := svc.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.MarkPaid(context.Background(), res.OrderID); err != nil {
		t.Fatalf("first markPaid: %v", err)
	}
	if got := orders.get(res.OrderID); got.PaymentStatus != model.PaymentPaid {
		t.Fatalf("status = %s, want paid", got.PaymentStatus)
	}

	err = svc.MarkPaid(context.Background(), res.OrderID)
	if !apperr.IsKind(err, apperr.KindConflict) {
		t.Errorf("second markPaid err = %v, want conflict", err)
	}
	if got := orders.get(res.OrderID); got.PaymentStatus != model.PaymentPaid {
		t.Errorf("status changed to %s, must stay paid", got.PaymentStatus)
	}
}

func TestMarkPaidNotFound(t *testing.T) {
	svc, _, _, _ := newOrderFixture()
	err := svc.MarkPaid(context.Background(), 42)
	if !apperr.IsKind(err, apperr.KindNotFound) {
		t.Errorf("err = %v, want not_found", err)
	}
}

func TestConfirmGatewayPayment(t *testing.T) {
	svc, orders, _, gateway := newOrderFixture()
	gateway.validSig = "good-signature"

	in := validInput()
	in.PaymentMethod = "gatewayOnline"
	res, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	err = svc.ConfirmGatewayPayment(context.Background(), res.GatewayReference, "pay_1", "bad-signature")
	if !apperr.IsKind(err, apperr.KindForbidden) {
		t.Fatalf("forged signature err = %v, want forbidden", err)
	}

	err = svc.ConfirmGatewayPayment(context.Background(), "gw_unknown", "pay_1", "good-signature")
	if !apperr.IsKind(err, apperr.KindNotFound) {
		t.Fatalf("unknown ref err = %v, want not_found", err)
	}

	if err := svc.ConfirmGatewayPayment(context.Background(), res.GatewayReference, "pay_1", "good-signature"); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if got := orders.get(res.OrderID); got.PaymentStatus != model.PaymentPaid {
		t.Errorf("status = %s, want paid", got.PaymentStatus)
	}

	err = svc.ConfirmGatewayPayment(context.Background(), res.GatewayReference, "pay_1", "good-signature")
	if !apperr.IsKind(err, apperr.KindConflict) {
		t.Errorf("replayed confirm err = %v, want conflict", err)
	}
}

func TestPaddedNumber(t *testing.T) {
	tests := []struct {
		id   int64
		want string
	}{
		{id: 1, want: "0001"},
		{id: 42, want: "0042"},
		{id: 9999, want: "9999"},
		{id: 12345, want: "12345"},
	}
	for _, tt := range tests {
		if got := PaddedNumber(tt.id); got != tt.want {
			t.Errorf("PaddedNumber(%d) = %q, want %q", tt.id, got, tt.want)
		}
	}
}
