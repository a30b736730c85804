package address

import (
	"bytes"
	"errors"
	"testing"

	"github.com/mr-tron/base58/base58"
)

func validRaw() []byte {
	body := make([]byte, 0, Length)
	body = append(body, PubKeyPrefix)
	body = append(body, bytes.Repeat([]byte{0x11}, hashLength)...)
	body = append(body, checksum(body)...)
	return body
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	raw := validRaw()
	addr, err := Encode(raw)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	got, err := Decode(addr)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !bytes.Equal(got, raw) {
		t.Fatal("round trip changed address bytes")
	}
	if len(got) != Length {
		t.Fatalf("decoded length %d, want %d", len(got), Length)
	}
}

func TestRejectsBadChecksum(t *testing.T) {
	raw := validRaw()
	raw[Length-1] ^= 0x01
	if _, err := Encode(raw); !errors.Is(err, ErrInvalidAddress) {
		t.Fatalf("encode: expected ErrInvalidAddress, got %v", err)
	}
	if _, err := Decode(base58.Encode(raw)); !errors.Is(err, ErrInvalidAddress) {
		t.Fatalf("decode: expected ErrInvalidAddress, got %v", err)
	}
}

func TestDecodeRejectsBadLength(t *testing.T) {
	if _, err := Decode("3yZe7d"); !errors.Is(err, ErrInvalidAddress) {
		t.Fatalf("expected ErrInvalidAddress, got %v", err)
	}
}

func TestDecodeRejectsUnknownPrefix(t *testing.T) {
	body := make([]byte, 0, Length)
	body = append(body, 0x00)
	body = append(body, bytes.Repeat([]byte{0x22}, hashLength)...)
	body = append(body, checksum(body)...)
	if _, err := Decode(base58.Encode(body)); !errors.Is(err, ErrInvalidAddress) {
		t.Fatalf("expected ErrInvalidAddress, got %v", err)
	}
}

func TestDecodeRejectsNonBase58(t *testing.T) {
	if _, err := Decode("0OIl-not-base58"); !errors.Is(err, ErrInvalidAddress) {
		t.Fatalf("expected ErrInvalidAddress, got %v", err)
	}
}

func TestFromPublicKey(t *testing.T) {
	addr := FromPublicKey([]byte("an spki-encoded public key"))
	raw, err := Decode(addr)
	if err != nil {
		t.Fatalf("derived address should decode: %v", err)
	}
	if raw[0] != PubKeyPrefix {
		t.Fatalf("derived address prefix 0x%02x, want 0x%02x", raw[0], PubKeyPrefix)
	}
	if FromPublicKey([]byte("an spki-encoded public key")) != addr {
		t.Fatal("address derivation should be deterministic")
	}
	if FromPublicKey([]byte("a different key")) == addr {
		t.Fatal("different keys should yield different addresses")
	}
}
