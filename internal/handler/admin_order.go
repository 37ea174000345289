package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"lakshmikitchen/internal/apperr"
	"lakshmikitchen/internal/model"
	"lakshmikitchen/internal/service"
)

func TodayReportHandler(reportSvc *service.ReportService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary, err := reportSvc.Today(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, summary)
	}
}

func RangeReportHandler(reportSvc *service.ReportService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		from := r.URL.Query().Get("from")
		to := r.URL.Query().Get("to")
		summary, err := reportSvc.Range(r.Context(), from, to)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, summary)
	}
}

// MarkPaidHandler confirms payment collection on a pending order.
func MarkPaidHandler(orderSvc *service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			writeError(w, apperr.New(apperr.KindInvalidRequest, "order id must be numeric"))
			return
		}

		if err := orderSvc.MarkPaid(r.Context(), orderID); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "order marked paid"})
	}
}

// UnreconciledHandler lists gateway orders left pending without a charge
// reference.
func UnreconciledHandler(orderSvc *service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orders, err := orderSvc.ListUnreconciled(r.Context())
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
