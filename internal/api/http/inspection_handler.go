package http

import (
	"encoding/json"
	"net/http"

	"gearshare-backend/internal/domain"
	"gearshare-backend/internal/service"
)

type InspectionHandler struct {
	inspections service.InspectionService
}

func NewInspectionHandler(inspections service.InspectionService) *InspectionHandler {
	return &InspectionHandler{inspections: inspections}
}

type submitInspectionRequest struct {
	Type           string                 `json:"type"` // PICKUP or RETURN
	PhotoRefs      []string               `json:"photo_refs"`
	Checklist      []domain.ChecklistItem `json:"checklist_items"`
	ConditionNotes string                 `json:"condition_notes"`
	Geolocation    string                 `json:"geolocation"`
	Confirmed      bool                   `json:"confirmed"`
}

func (h *InspectionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	p, _ := principalFrom(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req submitInspectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, domain.NewValidationError("invalid request body"))
		return
	}

	ins, err := h.inspections.SubmitInspection(r.Context(), p.UserID, id, domain.InspectionType(req.Type), service.InspectionSubmission{
		PhotoRefs:      req.PhotoRefs,
		Checklist:      req.Checklist,
		ConditionNotes: req.ConditionNotes,
		Geolocation:    req.Geolocation,
		Confirmed:      req.Confirmed,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, ins)
}

func (h *InspectionHandler) List(w http.ResponseWriter, r *http.Request) {
	p, _ := principalFrom(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	inspections, err := h.inspections.ListInspections(r.Context(), p.UserID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"inspections": inspections})
}

func (h *InspectionHandler) Comparison(w http.ResponseWriter, r *http.Request) {
	p, _ := principalFrom(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	report, err := h.inspections.GetComparison(r.Context(), p.UserID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
