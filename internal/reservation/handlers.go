package reservation

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stayware/lodge-api/internal/common"
)

// Handler exposes the bookings views over HTTP.
type Handler struct {
	Svc *Service
}

// List serves the filtered bookings dashboard.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	params := ListParams{
		Range: RangeKind(r.URL.Query().Get("range")),
		From:  r.URL.Query().Get("from"),
		To:    r.URL.Query().Get("to"),
		Query: r.URL.Query().Get("q"),
	}
	list, err := h.Svc.List(r.Context(), params)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, list)
}

// Get serves one reservation.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	res, err := h.Svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, res)
}

// Cancel marks a reservation canceled.
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	res, err := h.Svc.Cancel(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, res)
}

// Capacity serves the per-day occupied room counts for the calendar view.
func (h *Handler) Capacity(w http.ResponseWriter, r *http.Request) {
	days, err := h.Svc.Capacity(r.Context(), r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, days)
}
