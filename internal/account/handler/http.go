// Package handler exposes constituent profiles over HTTP.
package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"constituent-connect/backend/internal/account/domain"
	"constituent-connect/backend/internal/account/repository"
	"constituent-connect/backend/internal/account/service"
	"constituent-connect/backend/internal/audit"
	"constituent-connect/backend/internal/server/httpx"
)

// PhoneResolver looks up the verified phone bound to an account. Profile
// completion records that number; it is never taken from the request body.
type PhoneResolver interface {
	GetPhone(ctx context.Context, accountID string) (string, error)
}

// Handler serves profile completion, reads, and edits, plus the admin
// account listing.
type Handler struct {
	profiles *service.ProfileService
	phones   PhoneResolver
	accounts repository.Repository
	auditor  audit.AuditLogger
}

// New returns a profile Handler.
func New(profiles *service.ProfileService, phones PhoneResolver, accounts repository.Repository, auditor audit.AuditLogger) *Handler {
	return &Handler{profiles: profiles, phones: phones, accounts: accounts, auditor: auditor}
}

// Routes registers the authenticated profile endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/profile", h.getOwn)
	r.Post("/profile/complete", h.complete)
	r.Put("/profile/{accountID}", h.update)
}

// AdminRoutes registers the admin-only account endpoints on r.
func (h *Handler) AdminRoutes(r chi.Router) {
	r.Get("/accounts", h.list)
	r.Get("/accounts/{accountID}", h.getByID)
}

type emergencyContactPayload struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Relation string `json:"relation"`
}

type profilePayload struct {
	Name        string                  `json:"name"`
	DOB         string                  `json:"dateOfBirth"`
	Gender      string                  `json:"gender"`
	Address     string                  `json:"address"`
	Barangay    string                  `json:"barangay"`
	Email       string                  `json:"email,omitempty"`
	Occupation  string                  `json:"occupation,omitempty"`
	Nationality string                  `json:"nationality,omitempty"`
	Emergency   emergencyContactPayload `json:"emergencyContact,omitempty"`
}

type profileResponse struct {
	ID          string                  `json:"id"`
	Phone       string                  `json:"phone"`
	Name        string                  `json:"name"`
	DOB         string                  `json:"dateOfBirth"`
	Gender      string                  `json:"gender"`
	Address     string                  `json:"address"`
	Barangay    string                  `json:"barangay"`
	Email       string                  `json:"email,omitempty"`
	Occupation  string                  `json:"occupation,omitempty"`
	Nationality string                  `json:"nationality,omitempty"`
	Emergency   emergencyContactPayload `json:"emergencyContact"`
	Role        string                  `json:"role"`
	CreatedAt   time.Time               `json:"createdAt"`
	UpdatedAt   time.Time               `json:"updatedAt"`
}

func toInput(p profilePayload) service.ProfileInput {
	return service.ProfileInput{
		Name:        p.Name,
		DOB:         p.DOB,
		Gender:      p.Gender,
		Address:     p.Address,
		Barangay:    p.Barangay,
		Email:       p.Email,
		Occupation:  p.Occupation,
		Nationality: p.Nationality,
		Emergency: domain.EmergencyContact{
			Name:     p.Emergency.Name,
			Phone:    p.Emergency.Phone,
			Relation: p.Emergency.Relation,
		},
	}
}

func toResponse(a *domain.Account) profileResponse {
	return profileResponse{
		ID:          a.ID,
		Phone:       a.Phone,
		Name:        a.Name,
		DOB:         a.DOB,
		Gender:      a.Gender,
		Address:     a.Address,
		Barangay:    a.Barangay,
		Email:       a.Email,
		Occupation:  a.Occupation,
		Nationality: a.Nationality,
		Emergency: emergencyContactPayload{
			Name:     a.Emergency.Name,
			Phone:    a.Emergency.Phone,
			Relation: a.Emergency.Relation,
		},
		Role:      string(a.Role),
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func (h *Handler) getOwn(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.IdentityFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}
	acct, err := h.profiles.Get(r.Context(), id.AccountID)
	if err != nil {
		h.writeProfileError(w, err)
		return
	}
	httpx.WriteSuccess(w, http.StatusOK, toResponse(acct))
}

func (h *Handler) complete(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.IdentityFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}
	var payload profilePayload
	if err := httpx.DecodeBody(r, &payload); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	phone, err := h.phones.GetPhone(r.Context(), id.AccountID)
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "could not resolve verified phone")
		return
	}
	if phone == "" {
		httpx.WriteError(w, http.StatusConflict, "NO_VERIFIED_PHONE", "account has no verified phone number")
		return
	}
	acct, err := h.profiles.Complete(r.Context(), id.AccountID, phone, toInput(payload))
	if err != nil {
		h.writeProfileError(w, err)
		return
	}
	h.auditor.LogEvent(r.Context(), id.AccountID, "profile_completed", "account", acct.ID)
	httpx.WriteSuccess(w, http.StatusCreated, toResponse(acct))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.IdentityFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}
	accountID := chi.URLParam(r, "accountID")
	var payload profilePayload
	if err := httpx.DecodeBody(r, &payload); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	acct, err := h.profiles.Update(r.Context(), id.AccountID, domain.Role(id.Role), accountID, toInput(payload))
	if err != nil {
		h.writeProfileError(w, err)
		return
	}
	h.auditor.LogEvent(r.Context(), id.AccountID, "profile_updated", "account", acct.ID)
	httpx.WriteSuccess(w, http.StatusOK, toResponse(acct))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	limit := httpx.ParseIntDefault(r.URL.Query().Get("limit"), 50)
	offset := httpx.ParseIntDefault(r.URL.Query().Get("offset"), 0)
	accounts, err := h.accounts.List(r.Context(), limit, offset)
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		return
	}
	out := make([]profileResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, toResponse(a))
	}
	httpx.WriteSuccess(w, http.StatusOK, out)
}

func (h *Handler) getByID(w http.ResponseWriter, r *http.Request) {
	acct, err := h.profiles.Get(r.Context(), chi.URLParam(r, "accountID"))
	if err != nil {
		h.writeProfileError(w, err)
		return
	}
	httpx.WriteSuccess(w, http.StatusOK, toResponse(acct))
}

func (h *Handler) writeProfileError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidProfile):
		httpx.WriteError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, service.ErrProfileExists):
		httpx.WriteError(w, http.StatusConflict, "PROFILE_EXISTS", err.Error())
	case errors.Is(err, service.ErrProfileNotFound):
		httpx.WriteError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, service.ErrNotOwner):
		httpx.WriteError(w, http.StatusForbidden, "FORBIDDEN", err.Error())
	case errors.Is(err, service.ErrWriteFailed):
		httpx.WriteError(w, http.StatusInternalServerError, "WRITE_FAILED", "profile write failed")
	default:
		httpx.WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}
