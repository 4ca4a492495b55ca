package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"gearshare-backend/internal/domain"
	"gearshare-backend/internal/service"
	"gearshare-backend/internal/utils"
)

const dateLayout = "2006-01-02"

type BookingHandler struct {
	bookings service.BookingService
}

func NewBookingHandler(bookings service.BookingService) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

type createBookingRequest struct {
	EquipmentID int64  `json:"equipment_id"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Insurance   string `json:"insurance"`
}

type createBookingResponse struct {
	Booking   *domain.BookingRequest      `json:"booking"`
	Breakdown *utils.BookingCostBreakdown `json:"cost_breakdown"`
}

func parseDate(value, field string) (time.Time, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, domain.NewValidationError(field + " must be a yyyy-mm-dd date")
	}
	return t.UTC(), nil
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError(name + " must be a positive integer")
	}
	return id, nil
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorBody{Kind: "UNAUTHORIZED", Message: "no principal"})
		return
	}

	var req createBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, domain.NewValidationError("invalid request body"))
		return
	}
	start, err := parseDate(req.StartDate, "start_date")
	if err != nil {
		writeError(w, r, err)
		return
	}
	end, err := parseDate(req.EndDate, "end_date")
	if err != nil {
		writeError(w, r, err)
		return
	}
	insurance := domain.InsuranceType(req.Insurance)
	if insurance == "" {
		insurance = domain.InsuranceNone
	}

	booking, breakdown, err := h.bookings.CreateBookingRequest(r.Context(), p.UserID, req.EquipmentID, start, end, insurance)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, createBookingResponse{Booking: booking, Breakdown: breakdown})
}

func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, _ := principalFrom(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	booking, err := h.bookings.GetBooking(r.Context(), p.UserID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

type listBookingsResponse struct {
	Bookings []domain.BookingRequest `json:"bookings"`
	Total    int32                   `json:"total"`
	Page     int32                   `json:"page"`
	PageSize int32                   `json:"page_size"`
}

func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	p, _ := principalFrom(r.Context())
	q := r.URL.Query()

	page := int32(1)
	pageSize := int32(20)
	if v, err := strconv.ParseInt(q.Get("page"), 10, 32); err == nil && v > 0 {
		page = int32(v)
	}
	if v, err := strconv.ParseInt(q.Get("page_size"), 10, 32); err == nil && v > 0 {
		pageSize = int32(v)
	}
	status := q.Get("status")

	var (
		bookings []domain.BookingRequest
		total    int32
		err      error
	)
	if q.Get("role") == "owner" {
		bookings, total, err = h.bookings.ListLendings(r.Context(), p.UserID, status, page, pageSize)
	} else {
		bookings, total, err = h.bookings.ListBookings(r.Context(), p.UserID, status, page, pageSize)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listBookingsResponse{Bookings: bookings, Total: total, Page: page, PageSize: pageSize})
}

func (h *BookingHandler) Approve(w http.ResponseWriter, r *http.Request) {
	p, _ := principalFrom(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	booking, err := h.bookings.ApproveBooking(r.Context(), p.UserID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

type cancelBookingRequest struct {
	Reason string `json:"reason"`
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	p, _ := principalFrom(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req cancelBookingRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	booking, err := h.bookings.CancelBooking(r.Context(), p.UserID, id, req.Reason)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (h *BookingHandler) InitiateReturn(w http.ResponseWriter, r *http.Request) {
	p, _ := principalFrom(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	booking, err := h.bookings.InitiateReturn(r.Context(), p.UserID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (h *BookingHandler) ConfirmReturn(w http.ResponseWriter, r *http.Request) {
	p, _ := principalFrom(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	booking, err := h.bookings.ConfirmReturn(r.Context(), p.UserID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}
