package http

import (
	"encoding/json"
	"net/http"

	"gearshare-backend/internal/domain"
	"gearshare-backend/internal/service"
)

type ClaimHandler struct {
	claims service.ClaimService
}

func NewClaimHandler(claims service.ClaimService) *ClaimHandler {
	return &ClaimHandler{claims: claims}
}

type fileClaimRequest struct {
	DamageDescription  string   `json:"damage_description"`
	EstimatedCostCents int64    `json:"estimated_cost_cents"`
	EvidencePhotoRefs  []string `json:"evidence_photo_refs"`
	RepairQuotes       []string `json:"repair_quotes"`
}

func (h *ClaimHandler) File(w http.ResponseWriter, r *http.Request) {
	p, _ := principalFrom(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req fileClaimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, domain.NewValidationError("invalid request body"))
		return
	}

	claim, err := h.claims.FileClaim(r.Context(), p.UserID, id, service.ClaimInput{
		DamageDescription:  req.DamageDescription,
		EstimatedCostCents: req.EstimatedCostCents,
		EvidencePhotoRefs:  req.EvidencePhotoRefs,
		RepairQuotes:       req.RepairQuotes,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, claim)
}

func (h *ClaimHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, _ := principalFrom(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	claim, err := h.claims.GetClaim(r.Context(), p.UserID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, claim)
}

type resolveClaimRequest struct {
	Resolution     string `json:"resolution"` // RESOLVED, REJECTED or DISPUTED
	DeductionCents int64  `json:"deduction_cents"`
}

func (h *ClaimHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	p, _ := principalFrom(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req resolveClaimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, domain.NewValidationError("invalid request body"))
		return
	}

	claim, err := h.claims.ResolveClaim(r.Context(), p.UserID, id, service.ClaimResolution{
		Resolution:     domain.ClaimStatus(req.Resolution),
		DeductionCents: req.DeductionCents,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, claim)
}
