package claimid

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateAccepts40Hex(t *testing.T) {
	if err := Validate(strings.Repeat("ab", 20)); err != nil {
		t.Fatalf("valid id rejected: %v", err)
	}
	if err := Validate(strings.Repeat("AB", 20)); err != nil {
		t.Fatalf("uppercase hex rejected: %v", err)
	}
}

func TestValidateRejectsBadInput(t *testing.T) {
	cases := []string{
		"",
		strings.Repeat("a", 39),
		strings.Repeat("a", 41),
		strings.Repeat("g", 40),
		strings.Repeat("a", 39) + "-",
	}
	for _, id := range cases {
		if err := Validate(id); !errors.Is(err, ErrInvalidClaimID) {
			t.Fatalf("id %q: expected ErrInvalidClaimID, got %v", id, err)
		}
	}
}

func TestDecode(t *testing.T) {
	raw, err := Decode("deadbeef" + strings.Repeat("00", 16))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(raw) != Size {
		t.Fatalf("raw length %d, want %d", len(raw), Size)
	}
	if raw[0] != 0xde || raw[3] != 0xef {
		t.Fatal("decoded bytes do not match hex input")
	}
	if _, err := Decode("nothex"); !errors.Is(err, ErrInvalidClaimID) {
		t.Fatalf("expected ErrInvalidClaimID, got %v", err)
	}
}
