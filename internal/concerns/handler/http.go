// Package handler exposes constituent concerns over HTTP.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"constituent-connect/backend/internal/audit"
	"constituent-connect/backend/internal/concerns/domain"
	"constituent-connect/backend/internal/concerns/service"
	"constituent-connect/backend/internal/server/httpx"
	"constituent-connect/backend/internal/telemetry"
	telemetrydomain "constituent-connect/backend/internal/telemetry/domain"
)

// Handler serves concern submission and tracking. Users see only their own
// concerns; admins see and triage all of them.
type Handler struct {
	concerns *service.ConcernService
	auditor  audit.AuditLogger
	emitter  telemetry.EventEmitter
}

func New(concerns *service.ConcernService, auditor audit.AuditLogger, emitter telemetry.EventEmitter) *Handler {
	return &Handler{concerns: concerns, auditor: auditor, emitter: emitter}
}

// Routes registers the authenticated user endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/concerns", h.submit)
	r.Get("/concerns", h.listMine)
}

// AdminRoutes registers the triage endpoints on r.
func (h *Handler) AdminRoutes(r chi.Router) {
	r.Get("/concerns", h.listAll)
	r.Put("/concerns/{concernID}/status", h.setStatus)
}

type submitRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type concernResponse struct {
	ID          string    `json:"id"`
	AccountID   string    `json:"accountId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toResponse(c *domain.Concern) concernResponse {
	return concernResponse{
		ID:          c.ID,
		AccountID:   c.AccountID,
		Title:       c.Title,
		Description: c.Description,
		Status:      c.Status,
		CreatedAt:   c.CreatedAt,
	}
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.IdentityFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}
	var req submitRequest
	if err := httpx.DecodeBody(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	concern, err := h.concerns.Submit(r.Context(), id.AccountID, req.Title, req.Description)
	if err != nil {
		h.writeConcernError(w, err)
		return
	}
	h.auditor.LogEvent(r.Context(), id.AccountID, "concern_submitted", "concern", concern.ID)
	meta, _ := json.Marshal(map[string]string{"concernId": concern.ID})
	telemetry.EmitAsync(h.emitter, r.Context(), &telemetrydomain.Event{
		AccountID: id.AccountID,
		SessionID: id.SessionID,
		EventType: "concern_submitted",
		Source:    "server",
		Metadata:  meta,
		CreatedAt: time.Now().UTC(),
	})
	httpx.WriteSuccess(w, http.StatusCreated, toResponse(concern))
}

func (h *Handler) listMine(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.IdentityFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}
	limit := httpx.ParseIntDefault(r.URL.Query().Get("limit"), 50)
	offset := httpx.ParseIntDefault(r.URL.Query().Get("offset"), 0)
	concerns, err := h.concerns.ListMine(r.Context(), id.AccountID, limit, offset)
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		return
	}
	httpx.WriteSuccess(w, http.StatusOK, toResponses(concerns))
}

func (h *Handler) listAll(w http.ResponseWriter, r *http.Request) {
	limit := httpx.ParseIntDefault(r.URL.Query().Get("limit"), 50)
	offset := httpx.ParseIntDefault(r.URL.Query().Get("offset"), 0)
	concerns, err := h.concerns.ListAll(r.Context(), limit, offset)
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		return
	}
	httpx.WriteSuccess(w, http.StatusOK, toResponses(concerns))
}

type setStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) setStatus(w http.ResponseWriter, r *http.Request) {
	var req setStatusRequest
	if err := httpx.DecodeBody(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	concern, err := h.concerns.SetStatus(r.Context(), chi.URLParam(r, "concernID"), req.Status)
	if err != nil {
		h.writeConcernError(w, err)
		return
	}
	if id, ok := httpx.IdentityFromContext(r.Context()); ok {
		h.auditor.LogEvent(r.Context(), id.AccountID, "concern_status_changed", "concern", concern.ID+":"+concern.Status)
	}
	httpx.WriteSuccess(w, http.StatusOK, toResponse(concern))
}

func toResponses(concerns []*domain.Concern) []concernResponse {
	out := make([]concernResponse, 0, len(concerns))
	for _, c := range concerns {
		out = append(out, toResponse(c))
	}
	return out
}

func (h *Handler) writeConcernError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidConcern), errors.Is(err, service.ErrInvalidStatus):
		httpx.WriteError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, service.ErrConcernNotFound):
		httpx.WriteError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	default:
		httpx.WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}
