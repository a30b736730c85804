// Package signer produces signed claims: it binds a claim, a publishing
// address and a certificate under an identity's private key, in either the
// legacy embedded-signature format or the newer detached format.
package signer

import (
	"crypto/elliptic"
	"crypto/sha256"
	"crypto/sha512"
	"errors"
	"fmt"
	"hash"

	secp256k1 "github.com/decred/dcrd/dcrec/secp256k1/v4"

	"pubcast/go-schema/internal/claim"
)

var (
	ErrUnknownCurve     = errors.New("unknown curve")
	ErrMissingName      = errors.New("name is required for detached signatures")
	ErrUnsupportedCurve = errors.New("detached signatures require SECP256k1")
	ErrNotStreamClaim   = errors.New("legacy signing requires a stream claim")
)

// Profile is the static signing policy for one curve: which elliptic curve,
// which hash, and the hash identifier carried in wire encodings.
type Profile struct {
	Curve    claim.KeyType
	HashName string
	NewHash  func() hash.Hash
	Elliptic elliptic.Curve
}

// The supported set is closed: adding a curve means adding a profile here
// and nothing else is configurable.
var profiles = map[claim.KeyType]Profile{
	claim.NIST256p: {
		Curve:    claim.NIST256p,
		HashName: "SHA256",
		NewHash:  sha256.New,
		Elliptic: elliptic.P256(),
	},
	claim.NIST384p: {
		Curve:    claim.NIST384p,
		HashName: "SHA384",
		NewHash:  sha512.New384,
		Elliptic: elliptic.P384(),
	},
	claim.SECP256k1: {
		Curve:    claim.SECP256k1,
		HashName: "SHA256",
		NewHash:  sha256.New,
		Elliptic: secp256k1.S256(),
	},
}

// Lookup resolves a curve identifier to its signing profile. Every Signer
// constructor goes through here, so an unknown curve fails before any key
// material is touched.
func Lookup(curve claim.KeyType) (Profile, error) {
	p, ok := profiles[curve]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %s", ErrUnknownCurve, curve)
	}
	return p, nil
}

func (p Profile) orderSize() int {
	return (p.Elliptic.Params().N.BitLen() + 7) / 8
}
