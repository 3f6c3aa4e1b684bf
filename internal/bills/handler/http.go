// Package handler exposes the legislative bill catalog over HTTP.
package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"constituent-connect/backend/internal/bills/domain"
	"constituent-connect/backend/internal/bills/repository"
	"constituent-connect/backend/internal/server/httpx"
)

type Handler struct {
	bills repository.Repository
}

func New(bills repository.Repository) *Handler {
	return &Handler{bills: bills}
}

// Routes registers the read endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/bills", h.list)
	r.Get("/bills/{billID}", h.get)
}

// AdminRoutes registers the write endpoints on r.
func (h *Handler) AdminRoutes(r chi.Router) {
	r.Post("/bills", h.create)
	r.Put("/bills/{billID}", h.update)
}

type billPayload struct {
	BillNumber                string   `json:"billNumber"`
	Title                     string   `json:"title"`
	Significance              string   `json:"significance,omitempty"`
	DateFiled                 string   `json:"dateFiled,omitempty"`
	PrincipalAuthors          []string `json:"principalAuthors,omitempty"`
	DateRead                  string   `json:"dateRead,omitempty"`
	PrimaryReferral           string   `json:"primaryReferral,omitempty"`
	DateApprovedSecondReading string   `json:"dateApprovedSecondReading,omitempty"`
	DateTransmitted           string   `json:"dateTransmitted,omitempty"`
	Status                    string   `json:"status,omitempty"`
	CoAuthored                bool     `json:"coAuthored"`
	Committees                []string `json:"committees,omitempty"`
}

type billResponse struct {
	ID string `json:"id"`
	billPayload
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toResponse(b *domain.Bill) billResponse {
	return billResponse{
		ID: b.ID,
		billPayload: billPayload{
			BillNumber:                b.BillNumber,
			Title:                     b.Title,
			Significance:              b.Significance,
			DateFiled:                 b.DateFiled,
			PrincipalAuthors:          b.PrincipalAuthors,
			DateRead:                  b.DateRead,
			PrimaryReferral:           b.PrimaryReferral,
			DateApprovedSecondReading: b.DateApprovedSecondReading,
			DateTransmitted:           b.DateTransmitted,
			Status:                    b.Status,
			CoAuthored:                b.CoAuthored,
			Committees:                b.Committees,
		},
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

func (p billPayload) apply(b *domain.Bill) {
	b.BillNumber = p.BillNumber
	b.Title = p.Title
	b.Significance = p.Significance
	b.DateFiled = p.DateFiled
	b.PrincipalAuthors = p.PrincipalAuthors
	b.DateRead = p.DateRead
	b.PrimaryReferral = p.PrimaryReferral
	b.DateApprovedSecondReading = p.DateApprovedSecondReading
	b.DateTransmitted = p.DateTransmitted
	b.Status = p.Status
	b.CoAuthored = p.CoAuthored
	b.Committees = p.Committees
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	limit := httpx.ParseIntDefault(r.URL.Query().Get("limit"), 100)
	offset := httpx.ParseIntDefault(r.URL.Query().Get("offset"), 0)
	bills, err := h.bills.List(r.Context(), limit, offset)
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		return
	}
	out := make([]billResponse, 0, len(bills))
	for _, b := range bills {
		out = append(out, toResponse(b))
	}
	httpx.WriteSuccess(w, http.StatusOK, out)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	bill, err := h.bills.GetByID(r.Context(), chi.URLParam(r, "billID"))
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		return
	}
	if bill == nil {
		httpx.WriteError(w, http.StatusNotFound, "NOT_FOUND", "bill not found")
		return
	}
	httpx.WriteSuccess(w, http.StatusOK, toResponse(bill))
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var payload billPayload
	if err := httpx.DecodeBody(r, &payload); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	existing, err := h.bills.GetByNumber(r.Context(), payload.BillNumber)
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		return
	}
	if existing != nil {
		httpx.WriteError(w, http.StatusConflict, "BILL_EXISTS", "a bill with this number already exists")
		return
	}
	now := time.Now().UTC()
	bill := &domain.Bill{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now}
	payload.apply(bill)
	if err := bill.Validate(); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	if err := h.bills.Create(r.Context(), bill); err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "WRITE_FAILED", "could not store bill")
		return
	}
	httpx.WriteSuccess(w, http.StatusCreated, toResponse(bill))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var payload billPayload
	if err := httpx.DecodeBody(r, &payload); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	bill, err := h.bills.GetByID(r.Context(), chi.URLParam(r, "billID"))
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		return
	}
	if bill == nil {
		httpx.WriteError(w, http.StatusNotFound, "NOT_FOUND", "bill not found")
		return
	}
	payload.apply(bill)
	bill.UpdatedAt = time.Now().UTC()
	if err := bill.Validate(); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	if err := h.bills.Update(r.Context(), bill); err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "WRITE_FAILED", "could not store bill")
		return
	}
	httpx.WriteSuccess(w, http.StatusOK, toResponse(bill))
}
