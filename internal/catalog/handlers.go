package catalog

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stayware/lodge-api/internal/common"
)

// Handler exposes the catalog over HTTP.
type Handler struct {
	Svc *Service
}

// List serves the public charge master list.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	masters, err := h.Svc.Masters(r.Context())
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to load charge masters", nil)
		return
	}
	common.JSONData(w, http.StatusOK, masters)
}

// Get serves a single charge master.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	m, err := h.Svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, m)
}

// Create handles admin catalog creation.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in MasterInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	m, err := h.Svc.Create(r.Context(), in)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSONData(w, http.StatusCreated, m)
}

// Update handles admin catalog updates.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var in MasterInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	m, err := h.Svc.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, m)
}

// Delete handles admin catalog deletion.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		common.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
