package http

import (
	"net/http"
	"strconv"

	"gearshare-backend/internal/service"
)

type AvailabilityHandler struct {
	availability service.AvailabilityService
}

func NewAvailabilityHandler(availability service.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{availability: availability}
}

func (h *AvailabilityHandler) Check(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	q := r.URL.Query()
	start, err := parseDate(q.Get("start"), "start")
	if err != nil {
		writeError(w, r, err)
		return
	}
	end, err := parseDate(q.Get("end"), "end")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var excludeID int64
	if v := q.Get("exclude_booking_id"); v != "" {
		excludeID, _ = strconv.ParseInt(v, 10, 64)
	}

	result, err := h.availability.CheckAvailability(r.Context(), id, start, end, excludeID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
