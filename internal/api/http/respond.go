package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"gearshare-backend/internal/domain"
	"gearshare-backend/internal/logger"
)

type errorBody struct {
	Kind      string                  `json:"kind"`
	Message   string                  `json:"message"`
	BookingID int64                   `json:"booking_id,omitempty"`
	Status    domain.BookingStatus    `json:"status,omitempty"`
	Reason    string                  `json:"reason,omitempty"`
	Conflicts []domain.ConflictReason `json:"conflicts,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

// writeError maps the domain error taxonomy onto HTTP statuses: validation
// 400, conflict and lost transitions 409, policy violations 422, upstream
// faults 502, everything else 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var derr *domain.Error
	if !errors.As(err, &derr) {
		logger.ErrorContext(r.Context(), "internal error", "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Kind: "INTERNAL", Message: "internal server error"})
		return
	}

	status := http.StatusInternalServerError
	switch derr.Kind {
	case domain.ErrKindValidation:
		status = http.StatusBadRequest
	case domain.ErrKindConflict, domain.ErrKindInvalidTransition:
		status = http.StatusConflict
	case domain.ErrKindPolicy:
		status = http.StatusUnprocessableEntity
	case domain.ErrKindUpstream:
		status = http.StatusBadGateway
	}

	writeJSON(w, status, errorBody{
		Kind:      string(derr.Kind),
		Message:   derr.Message,
		BookingID: derr.BookingID,
		Status:    derr.Status,
		Reason:    derr.Reason,
		Conflicts: derr.Conflicts,
	})
}
