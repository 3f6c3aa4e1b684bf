// Package handler exposes the representative bio over HTTP.
package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"constituent-connect/backend/internal/representative/domain"
	"constituent-connect/backend/internal/representative/repository"
	"constituent-connect/backend/internal/server/httpx"
)

type Handler struct {
	reps repository.Repository
}

func New(reps repository.Repository) *Handler {
	return &Handler{reps: reps}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/representative", h.get)
}

func (h *Handler) AdminRoutes(r chi.Router) {
	r.Put("/representative", h.put)
}

type representativePayload struct {
	Name       string   `json:"name"`
	Biography  string   `json:"biography,omitempty"`
	Committees []string `json:"committees,omitempty"`
}

type representativeResponse struct {
	representativePayload
	UpdatedAt time.Time `json:"updatedAt"`
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	rep, err := h.reps.Get(r.Context())
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		return
	}
	if rep == nil {
		httpx.WriteError(w, http.StatusNotFound, "NOT_FOUND", "representative bio not seeded")
		return
	}
	httpx.WriteSuccess(w, http.StatusOK, representativeResponse{
		representativePayload: representativePayload{
			Name:       rep.Name,
			Biography:  rep.Biography,
			Committees: rep.Committees,
		},
		UpdatedAt: rep.UpdatedAt,
	})
}

func (h *Handler) put(w http.ResponseWriter, r *http.Request) {
	var payload representativePayload
	if err := httpx.DecodeBody(r, &payload); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	if strings.TrimSpace(payload.Name) == "" {
		httpx.WriteError(w, http.StatusBadRequest, "VALIDATION_ERROR", "name is required")
		return
	}
	rep := &domain.Representative{
		ID:         domain.SingletonID,
		Name:       payload.Name,
		Biography:  payload.Biography,
		Committees: payload.Committees,
		UpdatedAt:  time.Now().UTC(),
	}
	if err := h.reps.Put(r.Context(), rep); err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "WRITE_FAILED", "could not store representative bio")
		return
	}
	httpx.WriteSuccess(w, http.StatusOK, representativeResponse{
		representativePayload: payload,
		UpdatedAt:             rep.UpdatedAt,
	})
}
