package handler

import (
	"encoding/json"
	"net/http"

	"lakshmikitchen/internal/apperr"
	"lakshmikitchen/internal/mw"
	"lakshmikitchen/internal/service"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginHandler serves the unified login: staff are matched first, then
// customers, and the issued token is tagged with the matching audience.
func LoginHandler(authSvc *service.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, apperr.New(apperr.KindInvalidRequest, "invalid json"))
			return
		}

		result, err := authSvc.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

// MeHandler echoes the authenticated principal, whichever audience the
// token carries.
func MeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := mw.PrincipalFrom(r.Context())
		if !ok {
			writeError(w, apperr.New(apperr.KindUnauthenticated, "unauthorized"))
			return
		}
		writeJSON(w, http.StatusOK, principal)
	}
}
