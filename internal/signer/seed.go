package signer

import (
	"crypto/sha256"
	"errors"
	"io"
	"math/big"
	"strings"

	"github.com/tyler-smith/go-bip39"
	"golang.org/x/crypto/hkdf"

	"pubcast/go-schema/internal/claim"
)

var ErrInvalidMnemonic = errors.New("invalid mnemonic")

const seedInfoPrefix = "pubcast/claim-signer/v1/"

// FromSeedPhrase derives a Signer from a bip39 mnemonic. The derivation is
// deterministic per (curve, mnemonic), so the same phrase always recovers
// the same identity key.
func FromSeedPhrase(curve claim.KeyType, mnemonic string) (*Signer, error) {
	p, err := Lookup(curve)
	if err != nil {
		return nil, err
	}
	mnemonic = strings.TrimSpace(mnemonic)
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, ErrInvalidMnemonic
	}
	seed := bip39.NewSeed(mnemonic, "")

	// Oversample by 8 bytes so the reduction into [1, N-1] carries no
	// meaningful bias.
	reader := hkdf.New(sha256.New, seed, nil, []byte(seedInfoPrefix+p.Curve.String()))
	buf := make([]byte, p.orderSize()+8)
	if _, err := io.ReadFull(reader, buf); err != nil {
		return nil, err
	}
	order := p.Elliptic.Params().N
	d := new(big.Int).SetBytes(buf)
	d.Mod(d, new(big.Int).Sub(order, big.NewInt(1)))
	d.Add(d, big.NewInt(1))
	return &Signer{profile: p, priv: privateKeyFromScalar(p, d)}, nil
}

// NewMnemonic produces a fresh 24-word seed phrase for identity creation.
func NewMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(256)
	if err != nil {
		return "", err
	}
	return bip39.NewMnemonic(entropy)
}
