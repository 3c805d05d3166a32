package quote

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stayware/lodge-api/internal/charges"
	"github.com/stayware/lodge-api/internal/common"
)

// Handler exposes draft quote operations over HTTP.
type Handler struct {
	Svc *Service
}

// Create opens a new draft quote.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	q, err := h.Svc.Create(r.Context(), in)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSONData(w, http.StatusCreated, q)
}

// Get returns the current draft including its computed summary.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	q, err := h.Svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, q)
}

// SetStay replaces stay dates and room allocations.
func (h *Handler) SetStay(w http.ResponseWriter, r *http.Request) {
	var in StayInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	q, err := h.Svc.SetStay(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, q)
}

// AddCustomCharge appends a blank line item.
func (h *Handler) AddCustomCharge(w http.ResponseWriter, r *http.Request) {
	q, err := h.Svc.AddCustomCharge(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, q)
}

// AddPresetCharge adds a catalog-backed charge by preset kind.
func (h *Handler) AddPresetCharge(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Kind string `json:"kind"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	q, err := h.Svc.AddPresetCharge(r.Context(), chi.URLParam(r, "id"), in.Kind)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, q)
}

// UpdateCharge patches one line item.
func (h *Handler) UpdateCharge(w http.ResponseWriter, r *http.Request) {
	var patch charges.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	q, err := h.Svc.UpdateCharge(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "chargeID"), patch)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, q)
}

// RemoveCharge deletes one line item.
func (h *Handler) RemoveCharge(w http.ResponseWriter, r *http.Request) {
	q, err := h.Svc.RemoveCharge(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "chargeID"))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, q)
}

// SetDiscount replaces the discount selection.
func (h *Handler) SetDiscount(w http.ResponseWriter, r *http.Request) {
	var in DiscountInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	q, err := h.Svc.SetDiscount(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, q)
}

// SetPaymentMethod records the selected payment method.
func (h *Handler) SetPaymentMethod(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Method string `json:"method"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	q, err := h.Svc.SetPaymentMethod(r.Context(), chi.URLParam(r, "id"), in.Method)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, q)
}

// Confirm turns the draft into a reservation.
func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	res, err := h.Svc.Confirm(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSONData(w, http.StatusCreated, res)
}
