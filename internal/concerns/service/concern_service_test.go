package service

import (
	"context"
	"errors"
	"testing"

	"constituent-connect/backend/internal/concerns/domain"
)

type fakeConcernRepo struct {
	byID map[string]*domain.Concern
}

func newFakeConcernRepo() *fakeConcernRepo {
	return &fakeConcernRepo{byID: make(map[string]*domain.Concern)}
}

func (f *fakeConcernRepo) GetByID(_ context.Context, id string) (*domain.Concern, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (f *fakeConcernRepo) ListByAccount(_ context.Context, accountID string, _, _ int) ([]*domain.Concern, error) {
	var out []*domain.Concern
	for _, c := range f.byID {
		if c.AccountID == accountID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeConcernRepo) List(_ context.Context, _, _ int) ([]*domain.Concern, error) {
	var out []*domain.Concern
	for _, c := range f.byID {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeConcernRepo) Create(_ context.Context, c *domain.Concern) error {
	cp := *c
	f.byID[c.ID] = &cp
	return nil
}

func (f *fakeConcernRepo) SetStatus(_ context.Context, id, status string) error {
	if c, ok := f.byID[id]; ok {
		c.Status = status
	}
	return nil
}

func TestSubmit_CreatesOpenConcern(t *testing.T) {
	repo := newFakeConcernRepo()
	svc := NewConcernService(repo)

	c, err := svc.Submit(context.Background(), "acct-1", "Flooded street", "Mabini St floods after rain")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if c.ID == "" {
		t.Error("concern must have an id")
	}
	if c.Status != domain.StatusOpen {
		t.Errorf("status = %q, want open", c.Status)
	}
	if len(repo.byID) != 1 {
		t.Errorf("stored = %d, want 1", len(repo.byID))
	}
}

func TestSubmit_RequiresTitleAndDescription(t *testing.T) {
	repo := newFakeConcernRepo()
	svc := NewConcernService(repo)
	ctx := context.Background()

	if _, err := svc.Submit(ctx, "acct-1", " ", "desc"); err == nil {
		t.Error("expected error for empty title")
	}
	if _, err := svc.Submit(ctx, "acct-1", "title", ""); err == nil {
		t.Error("expected error for empty description")
	}
	if len(repo.byID) != 0 {
		t.Errorf("stored = %d, want 0", len(repo.byID))
	}
}

func TestSetStatus(t *testing.T) {
	repo := newFakeConcernRepo()
	svc := NewConcernService(repo)
	ctx := context.Background()

	c, err := svc.Submit(ctx, "acct-1", "Flooded street", "desc")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	updated, err := svc.SetStatus(ctx, c.ID, domain.StatusResolved)
	if err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	if updated.Status != domain.StatusResolved {
		t.Errorf("status = %q", updated.Status)
	}

	if _, err := svc.SetStatus(ctx, c.ID, "bogus"); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("err = %v, want ErrInvalidStatus", err)
	}
	if _, err := svc.SetStatus(ctx, "missing", domain.StatusOpen); !errors.Is(err, ErrConcernNotFound) {
		t.Errorf("err = %v, want ErrConcernNotFound", err)
	}
}

func TestListMine_FiltersByAccount(t *testing.T) {
	repo := newFakeConcernRepo()
	svc := NewConcernService(repo)
	ctx := context.Background()

	if _, err := svc.Submit(ctx, "acct-1", "A", "a"); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if _, err := svc.Submit(ctx, "acct-2", "B", "b"); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	mine, err := svc.ListMine(ctx, "acct-1", 50, 0)
	if err != nil {
		t.Fatalf("ListMine: %v", err)
	}
	if len(mine) != 1 || mine[0].Title != "A" {
		t.Errorf("mine = %+v", mine)
	}
}
