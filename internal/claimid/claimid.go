// Package claimid validates and decodes claim identifiers: the hex form of
// the 20-byte hash that content-addresses a claim.
package claimid

import (
	"encoding/hex"
	"errors"
	"fmt"
)

var ErrInvalidClaimID = errors.New("invalid claim id")

// Size is the raw claim id width in bytes; HexLen its string form.
const (
	Size   = 20
	HexLen = 2 * Size
)

func Validate(id string) error {
	if len(id) != HexLen {
		return fmt.Errorf("%w: length %d, want %d", ErrInvalidClaimID, len(id), HexLen)
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') && (c < 'A' || c > 'F') {
			return fmt.Errorf("%w: non-hex character at %d", ErrInvalidClaimID, i)
		}
	}
	return nil
}

// Decode validates id and returns its raw 20-byte form.
func Decode(id string) ([]byte, error) {
	if err := Validate(id); err != nil {
		return nil, err
	}
	raw, err := hex.DecodeString(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidClaimID, err)
	}
	return raw, nil
}
