package http

import (
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"gearshare-backend/internal/storage"
)

// EvidenceHandler accepts inspection and claim photo uploads and returns the
// opaque references the booking endpoints expect.
type EvidenceHandler struct {
	store        storage.EvidenceStorage
	maxSizeBytes int64
}

func NewEvidenceHandler(store storage.EvidenceStorage, maxSizeMB int64) *EvidenceHandler {
	return &EvidenceHandler{store: store, maxSizeBytes: maxSizeMB * 1024 * 1024}
}

func allowedContentType(contentType string) bool {
	switch contentType {
	case "image/jpeg", "image/png", "image/webp":
		return true
	}
	return false
}

func (h *EvidenceHandler) Upload(w http.ResponseWriter, r *http.Request) {
	contentType := r.Header.Get("Content-Type")
	if !allowedContentType(contentType) {
		writeJSON(w, http.StatusBadRequest, errorBody{Kind: "VALIDATION", Message: "content type must be image/jpeg, image/png or image/webp"})
		return
	}

	body := http.MaxBytesReader(w, r.Body, h.maxSizeBytes)
	ref, err := h.store.Store(r.Context(), body, contentType)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, errorBody{Kind: "UPSTREAM_FAILURE", Message: "failed to store photo"})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"photo_ref": ref})
}

func (h *EvidenceHandler) Download(w http.ResponseWriter, r *http.Request) {
	ref := mux.Vars(r)["ref"]
	if ref == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Kind: "VALIDATION", Message: "missing photo reference"})
		return
	}

	file, err := h.store.Open(r.Context(), ref)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorBody{Kind: "NOT_FOUND", Message: "photo not found"})
		return
	}
	defer file.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Cache-Control", "private, max-age=3600")
	_, _ = io.Copy(w, file)
}
