package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"lakshmikitchen/internal/apperr"
)

type errorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encoding failed", "error", err)
	}
}

// writeError maps a classified error onto its HTTP status; anything
// unclassified is logged and reported as a plain internal error.
func writeError(w http.ResponseWriter, err error) {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		if ae.Kind == apperr.KindInternal {
			slog.Error("request failed", "error", err)
		}
		writeJSON(w, ae.Kind.HTTPStatus(), errorResponse{Code: ae.Kind.String(), Error: ae.Msg})
		return
	}
	slog.Error("request failed", "error", err)
	writeJSON(w, http.StatusInternalServerError, errorResponse{
		Code:  apperr.KindInternal.String(),
		Error: "internal error",
	})
}
