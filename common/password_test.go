package common

import "testing"

func TestGeneratePasswordFromUserId_Deterministic(t *testing.T) {
	p1 := GeneratePasswordFromUserId("cu__42", "secret", 16)
	p2 := GeneratePasswordFromUserId("cu__42", "secret", 16)
	if p1 != p2 {
		t.Errorf("same inputs produced different passwords: %q vs %q", p1, p2)
	}
	if p1 == "" {
		t.Error("empty password")
	}
}

func TestGeneratePasswordFromUserId_VariesByInput(t *testing.T) {
	base := GeneratePasswordFromUserId("cu__42", "secret", 16)
	if other := GeneratePasswordFromUserId("cu__43", "secret", 16); other == base {
		t.Error("different user ids produced the same password")
	}
	if other := GeneratePasswordFromUserId("cu__42", "other-secret", 16); other == base {
		t.Error("different secrets produced the same password")
	}
}

func TestGeneratePasswordFromUserId_Length(t *testing.T) {
	// 12 bytes of HMAC output encode to 16 base64url characters
	p := GeneratePasswordFromUserId("cu__42", "secret", 12)
	if len(p) != 16 {
		t.Errorf("expected 16 chars, got %d (%q)", len(p), p)
	}

	// Out-of-range sizes fall back to 16 bytes
	fallback := GeneratePasswordFromUserId("cu__42", "secret", 0)
	if len(fallback) != 22 {
		t.Errorf("expected 22 chars for fallback size, got %d (%q)", len(fallback), fallback)
	}
}
