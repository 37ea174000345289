package handler

import (
	"net/http"

	"lakshmikitchen/internal/apperr"
	"lakshmikitchen/internal/mw"
	"lakshmikitchen/internal/service"
)

func StartSessionHandler(sessionSvc *service.SessionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := mw.PrincipalFrom(r.Context())
		if !ok {
			writeError(w, apperr.New(apperr.KindUnauthenticated, "unauthorized"))
			return
		}

		session, err := sessionSvc.Start(r.Context(), principal.ID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, session)
	}
}

func StopSessionHandler(sessionSvc *service.SessionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := sessionSvc.Stop(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, session)
	}
}

func SessionStatusHandler(sessionSvc *service.SessionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, err := sessionSvc.Status(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, status)
	}
}

func CurrentOrdersHandler(sessionSvc *service.SessionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orders, err := sessionSvc.CurrentOrders(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, orders)
	}
}

func SessionSummaryHandler(sessionSvc *service.SessionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary, err := sessionSvc.Summary(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, summary)
	}
}
