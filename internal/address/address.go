// Package address implements the publishing address codec: 25 raw bytes
// (one prefix byte, a 20-byte hash160, a 4-byte double-SHA256 checksum)
// carried as a base58 string.
package address

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/mr-tron/base58/base58"
	"golang.org/x/crypto/ripemd160"
)

var ErrInvalidAddress = errors.New("invalid address")

const (
	Length       = 25
	hashLength   = 20
	checksumSize = 4

	PubKeyPrefix byte = 0x55
	ScriptPrefix byte = 0x7a
)

// Decode checks and decodes a base58 address, returning the full 25 raw
// bytes (prefix and checksum included).
func Decode(addr string) ([]byte, error) {
	raw, err := base58.Decode(addr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	if len(raw) != Length {
		return nil, fmt.Errorf("%w: length %d, want %d", ErrInvalidAddress, len(raw), Length)
	}
	if raw[0] != PubKeyPrefix && raw[0] != ScriptPrefix {
		return nil, fmt.Errorf("%w: unknown prefix 0x%02x", ErrInvalidAddress, raw[0])
	}
	if !bytes.Equal(raw[Length-checksumSize:], checksum(raw[:Length-checksumSize])) {
		return nil, fmt.Errorf("%w: checksum mismatch", ErrInvalidAddress)
	}
	return raw, nil
}

// Encode is the inverse of Decode; raw must be a valid 25-byte address.
func Encode(raw []byte) (string, error) {
	if len(raw) != Length {
		return "", fmt.Errorf("%w: length %d, want %d", ErrInvalidAddress, len(raw), Length)
	}
	if raw[0] != PubKeyPrefix && raw[0] != ScriptPrefix {
		return "", fmt.Errorf("%w: unknown prefix 0x%02x", ErrInvalidAddress, raw[0])
	}
	if !bytes.Equal(raw[Length-checksumSize:], checksum(raw[:Length-checksumSize])) {
		return "", fmt.Errorf("%w: checksum mismatch", ErrInvalidAddress)
	}
	return base58.Encode(raw), nil
}

// FromPublicKey derives the pay-to-pubkey address for an encoded public key:
// RIPEMD160(SHA256(spki)) under the pubkey prefix.
func FromPublicKey(spki []byte) string {
	sum := sha256.Sum256(spki)
	r := ripemd160.New()
	r.Write(sum[:])
	body := make([]byte, 0, Length)
	body = append(body, PubKeyPrefix)
	body = append(body, r.Sum(nil)...)
	body = append(body, checksum(body)...)
	return base58.Encode(body)
}

func checksum(b []byte) []byte {
	first := sha256.Sum256(b)
	second := sha256.Sum256(first[:])
	return second[:checksumSize]
}
