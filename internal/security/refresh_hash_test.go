package security

import "testing"

func TestHashRefreshToken(t *testing.T) {
	h1 := HashRefreshToken("token-a")
	h2 := HashRefreshToken("token-a")
	h3 := HashRefreshToken("token-b")
	if h1 == "" {
		t.Fatal("hash should not be empty")
	}
	if h1 != h2 {
		t.Error("hashing the same token twice should be deterministic")
	}
	if h1 == h3 {
		t.Error("different tokens should hash differently")
	}
}

func TestRefreshTokenHashEqual(t *testing.T) {
	stored := HashRefreshToken("token-a")
	if !RefreshTokenHashEqual("token-a", stored) {
		t.Error("matching token should compare equal")
	}
	if RefreshTokenHashEqual("token-b", stored) {
		t.Error("non-matching token should compare unequal")
	}
}
