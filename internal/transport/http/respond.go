package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"critica/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

// writeError maps service errors onto the response taxonomy. Anything
// unrecognized is a genuine outage and becomes a 500.
func writeError(w http.ResponseWriter, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, verr.Fields)
	case errors.Is(err, domain.ErrIncorrectCode):
		writeJSON(w, http.StatusBadRequest, map[string]string{"confirmation_code": "incorrect"})
	case errors.Is(err, domain.ErrDuplicateReview):
		writeJSON(w, http.StatusBadRequest, map[string]string{"non_field_errors": "you have already reviewed this title"})
	case errors.Is(err, domain.ErrNotFound):
		writeDetail(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrUnauthenticated):
		writeDetail(w, http.StatusUnauthorized, "authentication required")
	case errors.Is(err, domain.ErrPermissionDenied):
		writeDetail(w, http.StatusForbidden, "permission denied")
	default:
		slog.Error("request failed", "error", err)
		writeDetail(w, http.StatusInternalServerError, "internal server error")
	}
}

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return domain.NewValidationError("non_field_errors", "malformed JSON body")
	}
	return nil
}
