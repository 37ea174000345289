package handler

import (
	"encoding/json"
	"net/http"

	"lakshmikitchen/internal/apperr"
	"lakshmikitchen/internal/model"
	"lakshmikitchen/internal/mw"
	"lakshmikitchen/internal/service"
)

type orderItemRequest struct {
	ProductID int64   `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

type createOrderRequest struct {
	Name    string             `json:"name"`
	Phone   string             `json:"phone"`
	Address string             `json:"address"`
	Payment string             `json:"payment"`
	UPIID   string             `json:"upi_id"`
	Cart    []orderItemRequest `json:"cart"`
	Total   float64            `json:"total"`
	UserID  *int64             `json:"user_id"`
}

func CreateOrderHandler(orderSvc *service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createOrderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, apperr.New(apperr.KindInvalidRequest, "invalid json"))
			return
		}

		items := make([]model.OrderItem, 0, len(req.Cart))
		for _, it := range req.Cart {
			items = append(items, model.OrderItem{
				ProductID:   it.ProductID,
				Quantity:    it.Quantity,
				PriceAtTime: it.Price,
			})
		}

		result, err := orderSvc.Create(r.Context(), service.CreateOrderInput{
			CustomerName:    req.Name,
			CustomerPhone:   req.Phone,
			CustomerAddress: req.Address,
			PaymentMethod:   req.Payment,
			UPIID:           req.UPIID,
			Items:           items,
			Total:           req.Total,
			CustomerID:      req.UserID,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, result)
	}
}

// MyOrdersHandler lists the authenticated customer's own orders.
func MyOrdersHandler(orderSvc *service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := mw.PrincipalFrom(r.Context())
		if !ok {
			writeError(w, apperr.New(apperr.KindUnauthenticated, "unauthorized"))
			return
		}

		orders, err := orderSvc.ListMine(r.Context(), principal.ID)
		if err != nil {
			writeError(w, err)
			return
		}
		if orders == nil {
			orders = []model.Order{}
		}
		writeJSON(w, http.StatusOK, orders)
	}
}

type confirmPaymentRequest struct {
	GatewayOrderID   string `json:"gateway_order_id"`
	GatewayPaymentID string `json:"gateway_payment_id"`
	Signature        string `json:"signature"`
}

// ConfirmPaymentHandler settles a gateway order from a signed callback.
func ConfirmPaymentHandler(orderSvc *service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req confirmPaymentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, apperr.New(apperr.KindInvalidRequest, "invalid json"))
			return
		}

		err := orderSvc.ConfirmGatewayPayment(r.Context(), req.GatewayOrderID, req.GatewayPaymentID, req.Signature)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "payment confirmed"})
	}
}
