package model

import (
	"time"
)

type PaymentMethod string

const (
	PaymentCashOnDelivery PaymentMethod = "cashOnDelivery"
	PaymentUPIGPay        PaymentMethod = "upiGpay"
	PaymentUPIPhonePe     PaymentMethod = "upiPhonePe"
	PaymentGatewayOnline  PaymentMethod = "gatewayOnline"
)

// ParsePaymentMethod reports whether s names a supported payment method.
func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	switch PaymentMethod(s) {
	case PaymentCashOnDelivery, PaymentUPIGPay, PaymentUPIPhonePe, PaymentGatewayOnline:
		return PaymentMethod(s), true
	}
	return "", false
}

// IsUPI reports whether the method requires a UPI identifier.
func (m PaymentMethod) IsUPI() bool {
	return m == PaymentUPIGPay || m == PaymentUPIPhonePe
}

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
)

type Order struct {
	ID               int64         `json:"id"`
	Number           string        `json:"order_number"`
	CustomerName     string        `json:"customer_name"`
	CustomerPhone    string        `json:"customer_phone"`
	CustomerAddress  string        `json:"customer_address"`
	PaymentMethod    PaymentMethod `json:"payment_method"`
	PaymentStatus    PaymentStatus `json:"payment_status"`
	TotalPrice       float64       `json:"total_price"`
	CustomerID       *int64        `json:"customer_id,omitempty"`
	UPIID            string        `json:"upi_id,omitempty"`
	SessionID        *int64        `json:"session_id,omitempty"`
	IsCurrent        bool          `json:"is_current"`
	GatewayReference string        `json:"gateway_reference,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
	Items            []OrderItem   `json:"items,omitempty"`
}

// OrderItem copies the unit price at order time; a later catalog price
// change never alters a stored line.
type OrderItem struct {
	OrderID     int64   `json:"-"`
	ProductID   int64   `json:"product_id"`
	Quantity    int     `json:"quantity"`
	PriceAtTime float64 `json:"price_at_time"`
}

// ProductSummary is one row of a per-product quantity aggregation.
type ProductSummary struct {
	ProductID int64  `json:"product_id"`
	Product   string `json:"product"`
	Quantity  int64  `json:"quantity"`
}
