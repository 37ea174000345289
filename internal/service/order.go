package service

import (
	"context"
	"fmt"
	"math"

	"lakshmikitchen/internal/apperr"
	"lakshmikitchen/internal/model"
	"lakshmikitchen/internal/payment"
)

type OrderRepository interface {
	CreateWithItems(ctx context.Context, o *model.Order) error
	SetGatewayReference(ctx context.Context, orderID int64, ref string) error
	Exists(ctx context.Context, orderID int64) (bool, error)
	UpdatePaymentStatus(ctx context.Context, orderID int64, from, to model.PaymentStatus) (bool, error)
	ByGatewayReference(ctx context.Context, ref string) (*model.Order, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]model.Order, error)
	ListUnreconciled(ctx context.Context) ([]model.Order, error)
}

// NumberFunc derives the display order number from the assigned identity.
type NumberFunc func(id int64) string

// PaddedNumber is the default numbering scheme: the zero-padded 4-digit
// decimal form of the order id.
func PaddedNumber(id int64) string {
	return fmt.Sprintf("%04d", id)
}

type OrderService struct {
	orders   OrderRepository
	gateway  payment.Gateway
	number   NumberFunc
	currency string
}

func NewOrderService(orders OrderRepository, gateway payment.Gateway, currency string) *OrderService {
	return &OrderService{
		orders:   orders,
		gateway:  gateway,
		number:   PaddedNumber,
		currency: currency,
	}
}

type CreateOrderInput struct {
	CustomerName    string
	CustomerPhone   string
	CustomerAddress string
	PaymentMethod   string
	UPIID           string
	Items           []model.OrderItem
	Total           float64
	CustomerID      *int64
}

type CreateOrderResult struct {
	OrderID          int64               `json:"orderId"`
	OrderNumber      string              `json:"orderNumber"`
	PaymentStatus    model.PaymentStatus `json:"paymentStatus"`
	GatewayReference string              `json:"gatewayReference,omitempty"`
	Message          string              `json:"message"`
}

// Create validates, persists and routes a new order by payment method. The
// storage layer tags the order with the session active at the instant of
// insertion, in the same transaction as the insert; that tagging is fixed
// and only the session stop sweep clears the live flag.
func (s *OrderService) Create(ctx context.Context, in CreateOrderInput) (*CreateOrderResult, error) {
	if in.CustomerName == "" || in.CustomerPhone == "" || in.CustomerAddress == "" {
		return nil, apperr.New(apperr.KindInvalidRequest, "name, phone and address required")
	}
	if len(in.Items) == 0 {
		return nil, apperr.New(apperr.KindInvalidRequest, "order must contain at least one item")
	}
	if in.Total <= 0 {
		return nil, apperr.New(apperr.KindInvalidRequest, "total must be positive")
	}
	for _, item := range in.Items {
		if item.Quantity <= 0 {
			return nil, apperr.New(apperr.KindInvalidRequest, "item quantity must be positive")
		}
	}
	method, ok := model.ParsePaymentMethod(in.PaymentMethod)
	if !ok {
		return nil, apperr.New(apperr.KindInvalidRequest, "unsupported payment method")
	}
	if method.IsUPI() && in.UPIID == "" {
		return nil, apperr.New(apperr.KindInvalidRequest, "UPI id required for UPI payment")
	}

	o := &model.Order{
		CustomerName:    in.CustomerName,
		CustomerPhone:   in.CustomerPhone,
		CustomerAddress: in.CustomerAddress,
		PaymentMethod:   method,
		PaymentStatus:   model.PaymentPending,
		TotalPrice:      in.Total,
		CustomerID:      in.CustomerID,
		UPIID:           in.UPIID,
		Items:           in.Items,
	}

	if err := s.orders.CreateWithItems(ctx, o); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "order creation failed", err)
	}

	res := &CreateOrderResult{
		OrderID:       o.ID,
		OrderNumber:   s.number(o.ID),
		PaymentStatus: model.PaymentPending,
	}

	switch method {
	case model.PaymentCashOnDelivery:
		res.Message = "Order placed. Payment pending, collect on delivery."
	case model.PaymentUPIGPay, model.PaymentUPIPhonePe:
		res.Message = "Order placed. Complete the UPI payment to confirm."
	case model.PaymentGatewayOnline:
		amountMinor := int64(math.Round(in.Total * 100))
		receipt := fmt.Sprintf("order_%d", o.ID)
		ref, err := s.gateway.CreateCharge(ctx, amountMinor, s.currency, receipt)
		if err != nil {
			// The order row stays committed as pending; it surfaces in the
			// reconciliation listing instead of being rolled back.
			return nil, apperr.Wrap(apperr.KindUpstream,
				fmt.Sprintf("payment gateway charge creation failed, order %s recorded as pending", res.OrderNumber), err)
		}
		if err := s.orders.SetGatewayReference(ctx, o.ID, ref); err != nil {
			return nil, apperr.Wrap(apperr.KindInternal, "failed to record gateway reference", err)
		}
		res.GatewayReference = ref
		res.Message = "Order placed. Complete the payment with the returned gateway reference."
	}

	return res, nil
}

// MarkPaid transitions a pending order to paid. It is the only supported
// transition out of pending, and it never reverses.
func (s *OrderService) MarkPaid(ctx context.Context, orderID int64) error {
	updated, err := s.orders.UpdatePaymentStatus(ctx, orderID, model.PaymentPending, model.PaymentPaid)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "payment status update failed", err)
	}
	if updated {
		return nil
	}

	exists, err := s.orders.Exists(ctx, orderID)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "order lookup failed", err)
	}
	if !exists {
		return apperr.New(apperr.KindNotFound, "order not found")
	}
	return apperr.New(apperr.KindConflict, "order already paid")
}

// ConfirmGatewayPayment verifies a gateway callback signature and settles
// the referenced order.
func (s *OrderService) ConfirmGatewayPayment(ctx context.Context, orderRef, paymentID, signature string) error {
	if orderRef == "" || paymentID == "" || signature == "" {
		return apperr.New(apperr.KindInvalidRequest, "order reference, payment id and signature required")
	}
	if !s.gateway.VerifySignature(orderRef, paymentID, signature) {
		return apperr.New(apperr.KindForbidden, "payment signature verification failed")
	}

	o, err := s.orders.ByGatewayReference(ctx, orderRef)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "order lookup failed", err)
	}
	if o == nil {
		return apperr.New(apperr.KindNotFound, "no order for this gateway reference")
	}

	updated, err := s.orders.UpdatePaymentStatus(ctx, o.ID, model.PaymentPending, model.PaymentPaid)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "payment status update failed", err)
	}
	if !updated {
		return apperr.New(apperr.KindConflict, "order already paid")
	}
	return nil
}

// ListMine returns the caller's orders, newest first.
func (s *OrderService) ListMine(ctx context.Context, customerID int64) ([]model.Order, error) {
	orders, err := s.orders.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "order listing failed", err)
	}
	s.fillNumbers(orders)
	return orders, nil
}

// ListUnreconciled reports gateway orders left pending with no charge
// reference, for manual reconciliation.
func (s *OrderService) ListUnreconciled(ctx context.Context) ([]model.Order, error) {
	orders, err := s.orders.ListUnreconciled(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "order listing failed", err)
	}
	s.fillNumbers(orders)
	return orders, nil
}

func (s *OrderService) fillNumbers(orders []model.Order) {
	for i := range orders {
		orders[i].Number = s.number(orders[i].ID)
	}
}
