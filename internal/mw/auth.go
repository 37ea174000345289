package mw

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"lakshmikitchen/internal/apperr"
	"lakshmikitchen/internal/model"
	"lakshmikitchen/internal/token"
)

type contextKey string

const PrincipalCtxKey contextKey = "principal"

// PrincipalFrom returns the principal the auth middleware attached.
func PrincipalFrom(ctx context.Context) (model.Principal, bool) {
	p, ok := ctx.Value(PrincipalCtxKey).(model.Principal)
	return p, ok
}

type errorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

// reject emits the same {code, error} envelope the handlers use.
func reject(w http.ResponseWriter, kind apperr.Kind, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(kind.HTTPStatus())
	if err := json.NewEncoder(w).Encode(errorResponse{Code: kind.String(), Error: msg}); err != nil {
		slog.Error("response encoding failed", "error", err)
	}
}

func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}

// Auth admits any authenticated principal, customer or staff.
func Auth(tokens *token.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				reject(w, apperr.KindUnauthenticated, "unauthorized")
				return
			}
			principal, err := tokens.Resolve(raw)
			if err != nil {
				reject(w, apperr.KindUnauthenticated, "invalid or expired token")
				return
			}
			ctx := context.WithValue(r.Context(), PrincipalCtxKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CustomerOnly admits customer principals.
func CustomerOnly(tokens *token.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				reject(w, apperr.KindUnauthenticated, "unauthorized")
				return
			}
			principal, err := tokens.Resolve(raw)
			if err != nil {
				reject(w, apperr.KindUnauthenticated, "invalid or expired token")
				return
			}
			if principal.Kind != model.PrincipalCustomer {
				reject(w, apperr.KindForbidden, "forbidden")
				return
			}
			ctx := context.WithValue(r.Context(), PrincipalCtxKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// StaffDirectory answers whether a staff record still exists; a deleted
// staff member's token is rejected before its signature expiry.
type StaffDirectory interface {
	StaffEmailExists(ctx context.Context, email string) (bool, error)
}

// StaffOnly admits staff principals. Unless the token carries the elevated
// role flag, the staff record must still exist in the directory.
func StaffOnly(tokens *token.Manager, directory StaffDirectory) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				reject(w, apperr.KindUnauthenticated, "unauthorized")
				return
			}
			principal, err := tokens.Resolve(raw)
			if err != nil {
				reject(w, apperr.KindUnauthenticated, "invalid or expired token")
				return
			}
			if principal.Kind != model.PrincipalStaff {
				reject(w, apperr.KindForbidden, "forbidden")
				return
			}
			if !principal.Elevated {
				exists, err := directory.StaffEmailExists(r.Context(), principal.Email)
				if err != nil {
					slog.Error("staff directory check failed", "error", err)
					reject(w, apperr.KindInternal, "internal error")
					return
				}
				if !exists {
					reject(w, apperr.KindForbidden, "forbidden")
					return
				}
			}
			ctx := context.WithValue(r.Context(), PrincipalCtxKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
