package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"constituent-connect/backend/internal/bills/domain"
)

type fakeBillRepo struct {
	bills map[string]*domain.Bill
}

func newFakeBillRepo() *fakeBillRepo {
	return &fakeBillRepo{bills: map[string]*domain.Bill{}}
}

func (f *fakeBillRepo) GetByID(_ context.Context, id string) (*domain.Bill, error) {
	if b, ok := f.bills[id]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeBillRepo) GetByNumber(_ context.Context, billNumber string) (*domain.Bill, error) {
	for _, b := range f.bills {
		if b.BillNumber == billNumber {
			cp := *b
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeBillRepo) List(_ context.Context, limit, offset int) ([]*domain.Bill, error) {
	out := make([]*domain.Bill, 0, len(f.bills))
	for _, b := range f.bills {
		cp := *b
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeBillRepo) Create(_ context.Context, b *domain.Bill) error {
	cp := *b
	f.bills[b.ID] = &cp
	return nil
}

func (f *fakeBillRepo) Update(_ context.Context, b *domain.Bill) error {
	cp := *b
	f.bills[b.ID] = &cp
	return nil
}

func newRouter(repo *fakeBillRepo) chi.Router {
	h := New(repo)
	r := chi.NewRouter()
	r.Group(h.Routes)
	r.Route("/admin", h.AdminRoutes)
	return r
}

func post(t *testing.T, r chi.Router, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestCreateAndFetchBill(t *testing.T) {
	repo := newFakeBillRepo()
	r := newRouter(repo)

	rec := post(t, r, "/admin/bills", map[string]any{
		"billNumber":       "HB01234",
		"title":            "An Act Establishing a District Health Center",
		"significance":     "National",
		"principalAuthors": []string{"Rep. Example"},
		"status":           "Pending with the Committee on Health",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	var created struct {
		Data billResponse `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.Data.ID == "" {
		t.Fatal("created bill has no id")
	}

	req := httptest.NewRequest(http.MethodGet, "/bills/"+created.Data.ID, nil)
	get := httptest.NewRecorder()
	r.ServeHTTP(get, req)
	if get.Code != http.StatusOK {
		t.Fatalf("get status = %d, want 200", get.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/bills/missing", nil)
	get = httptest.NewRecorder()
	r.ServeHTTP(get, req)
	if get.Code != http.StatusNotFound {
		t.Fatalf("missing bill status = %d, want 404", get.Code)
	}
}

func TestCreateBillValidation(t *testing.T) {
	repo := newFakeBillRepo()
	r := newRouter(repo)

	rec := post(t, r, "/admin/bills", map[string]any{"title": "no bill number"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if len(repo.bills) != 0 {
		t.Fatal("invalid bill must not be stored")
	}
}

func TestCreateBillDuplicateNumber(t *testing.T) {
	repo := newFakeBillRepo()
	r := newRouter(repo)
	payload := map[string]any{"billNumber": "HB01234", "title": "First"}

	if rec := post(t, r, "/admin/bills", payload); rec.Code != http.StatusCreated {
		t.Fatalf("first create status = %d", rec.Code)
	}
	rec := post(t, r, "/admin/bills", payload)
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate status = %d, want 409", rec.Code)
	}
}

func TestListBills(t *testing.T) {
	repo := newFakeBillRepo()
	repo.bills["b1"] = &domain.Bill{ID: "b1", BillNumber: "HB01", Title: "One"}
	repo.bills["b2"] = &domain.Bill{ID: "b2", BillNumber: "HB02", Title: "Two"}
	r := newRouter(repo)

	req := httptest.NewRequest(http.MethodGet, "/bills", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var envelope struct {
		Data []billResponse `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(envelope.Data) != 2 {
		t.Fatalf("listed %d bills, want 2", len(envelope.Data))
	}
}
