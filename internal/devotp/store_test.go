package devotp

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStore_PutGet(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	s.Put(ctx, "ch-1", "+639171234567", "123456", time.Now().UTC().Add(5*time.Minute))

	otp, phone, ok := s.Get(ctx, "ch-1")
	if !ok {
		t.Fatal("Get: expected entry")
	}
	if otp != "123456" {
		t.Errorf("otp = %q, want 123456", otp)
	}
	if phone != "+639171234567" {
		t.Errorf("phone = %q, want +639171234567", phone)
	}
}

func TestMemoryStore_Missing(t *testing.T) {
	s := NewMemoryStore()
	if _, _, ok := s.Get(context.Background(), "nope"); ok {
		t.Fatal("Get: expected ok=false for missing entry")
	}
}

func TestMemoryStore_Expired(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	s.Put(ctx, "ch-1", "+639171234567", "123456", time.Now().UTC().Add(5*time.Minute))
	s.nowF = func() time.Time { return time.Now().UTC().Add(10 * time.Minute) }

	if _, _, ok := s.Get(ctx, "ch-1"); ok {
		t.Fatal("Get: expected ok=false for expired entry")
	}
	// expired entry is evicted
	s.nowF = func() time.Time { return time.Now().UTC() }
	if _, _, ok := s.Get(ctx, "ch-1"); ok {
		t.Fatal("Get: expected entry to remain evicted")
	}
}

func TestMemoryStore_ExpiresWithWallClock(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	s.Put(ctx, "ch-1", "+639171234567", "123456", time.Now().UTC().Add(30*time.Millisecond))

	if _, _, ok := s.Get(ctx, "ch-1"); !ok {
		t.Fatal("Get: expected entry before expiry")
	}
	time.Sleep(60 * time.Millisecond)
	if _, _, ok := s.Get(ctx, "ch-1"); ok {
		t.Fatal("Get: expected ok=false once the validity window passed")
	}
}

func TestMemoryStore_Delete(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	s.Put(ctx, "ch-1", "+639171234567", "123456", time.Now().UTC().Add(5*time.Minute))
	s.Delete(ctx, "ch-1")
	if _, _, ok := s.Get(ctx, "ch-1"); ok {
		t.Fatal("Get: expected ok=false after Delete")
	}
	// deleting again is a no-op
	s.Delete(ctx, "ch-1")
}
