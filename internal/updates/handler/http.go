// Package handler exposes district news updates over HTTP.
package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"constituent-connect/backend/internal/server/httpx"
	"constituent-connect/backend/internal/updates/domain"
	"constituent-connect/backend/internal/updates/repository"
)

type Handler struct {
	updates repository.Repository
}

func New(updates repository.Repository) *Handler {
	return &Handler{updates: updates}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/updates", h.list)
	r.Get("/updates/{updateID}", h.get)
}

func (h *Handler) AdminRoutes(r chi.Router) {
	r.Post("/updates", h.create)
}

type updatePayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	PublishedOn string `json:"publishedOn,omitempty"`
}

type updateResponse struct {
	ID string `json:"id"`
	updatePayload
	CreatedAt time.Time `json:"createdAt"`
}

func toResponse(u *domain.Update) updateResponse {
	return updateResponse{
		ID: u.ID,
		updatePayload: updatePayload{
			Title:       u.Title,
			Description: u.Description,
			PublishedOn: u.PublishedOn,
		},
		CreatedAt: u.CreatedAt,
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	limit := httpx.ParseIntDefault(r.URL.Query().Get("limit"), 50)
	offset := httpx.ParseIntDefault(r.URL.Query().Get("offset"), 0)
	updates, err := h.updates.List(r.Context(), limit, offset)
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		return
	}
	out := make([]updateResponse, 0, len(updates))
	for _, u := range updates {
		out = append(out, toResponse(u))
	}
	httpx.WriteSuccess(w, http.StatusOK, out)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	update, err := h.updates.GetByID(r.Context(), chi.URLParam(r, "updateID"))
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		return
	}
	if update == nil {
		httpx.WriteError(w, http.StatusNotFound, "NOT_FOUND", "update not found")
		return
	}
	httpx.WriteSuccess(w, http.StatusOK, toResponse(update))
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var payload updatePayload
	if err := httpx.DecodeBody(r, &payload); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	update := &domain.Update{
		ID:          uuid.New().String(),
		Title:       payload.Title,
		Description: payload.Description,
		PublishedOn: payload.PublishedOn,
		CreatedAt:   time.Now().UTC(),
	}
	if err := update.Validate(); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	if err := h.updates.Create(r.Context(), update); err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "WRITE_FAILED", "could not store update")
		return
	}
	httpx.WriteSuccess(w, http.StatusCreated, toResponse(update))
}
