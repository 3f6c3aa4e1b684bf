// Package handler exposes district public-works projects over HTTP.
package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"constituent-connect/backend/internal/projects/domain"
	"constituent-connect/backend/internal/projects/repository"
	"constituent-connect/backend/internal/server/httpx"
)

type Handler struct {
	projects repository.Repository
}

func New(projects repository.Repository) *Handler {
	return &Handler{projects: projects}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/projects", h.list)
	r.Get("/projects/{projectID}", h.get)
}

func (h *Handler) AdminRoutes(r chi.Router) {
	r.Post("/projects", h.create)
	r.Put("/projects/{projectID}", h.update)
}

type projectPayload struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Barangay    string `json:"barangay,omitempty"`
	Status      string `json:"status"`
	StartedOn   string `json:"startedOn,omitempty"`
	CompletedOn string `json:"completedOn,omitempty"`
}

type projectResponse struct {
	ID string `json:"id"`
	projectPayload
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toResponse(p *domain.Project) projectResponse {
	return projectResponse{
		ID: p.ID,
		projectPayload: projectPayload{
			Title:       p.Title,
			Description: p.Description,
			Barangay:    p.Barangay,
			Status:      p.Status,
			StartedOn:   p.StartedOn,
			CompletedOn: p.CompletedOn,
		},
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func (pl projectPayload) apply(p *domain.Project) {
	p.Title = pl.Title
	p.Description = pl.Description
	p.Barangay = pl.Barangay
	p.Status = pl.Status
	p.StartedOn = pl.StartedOn
	p.CompletedOn = pl.CompletedOn
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	limit := httpx.ParseIntDefault(r.URL.Query().Get("limit"), 100)
	offset := httpx.ParseIntDefault(r.URL.Query().Get("offset"), 0)
	projects, err := h.projects.List(r.Context(), limit, offset)
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		return
	}
	out := make([]projectResponse, 0, len(projects))
	for _, p := range projects {
		out = append(out, toResponse(p))
	}
	httpx.WriteSuccess(w, http.StatusOK, out)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	project, err := h.projects.GetByID(r.Context(), chi.URLParam(r, "projectID"))
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		return
	}
	if project == nil {
		httpx.WriteError(w, http.StatusNotFound, "NOT_FOUND", "project not found")
		return
	}
	httpx.WriteSuccess(w, http.StatusOK, toResponse(project))
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var payload projectPayload
	if err := httpx.DecodeBody(r, &payload); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	now := time.Now().UTC()
	project := &domain.Project{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now}
	payload.apply(project)
	if err := project.Validate(); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	if err := h.projects.Create(r.Context(), project); err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "WRITE_FAILED", "could not store project")
		return
	}
	httpx.WriteSuccess(w, http.StatusCreated, toResponse(project))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var payload projectPayload
	if err := httpx.DecodeBody(r, &payload); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	project, err := h.projects.GetByID(r.Context(), chi.URLParam(r, "projectID"))
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		return
	}
	if project == nil {
		httpx.WriteError(w, http.StatusNotFound, "NOT_FOUND", "project not found")
		return
	}
	payload.apply(project)
	project.UpdatedAt = time.Now().UTC()
	if err := project.Validate(); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	if err := h.projects.Update(r.Context(), project); err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "WRITE_FAILED", "could not store project")
		return
	}
	httpx.WriteSuccess(w, http.StatusOK, toResponse(project))
}
