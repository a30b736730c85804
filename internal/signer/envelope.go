package signer

import "pubcast/go-schema/internal/claim"

// Envelope is the closed union of the two signature output shapes.
type Envelope interface {
	envelope()
}

// Detached carries the signature next to the claim instead of inside it.
// SignedClaimBytes are the exact signature-excluded claim bytes that were
// hashed, kept so a verifier can recheck without reconstructing them.
type Detached struct {
	Signature        []byte
	CertificateID    []byte
	SignedClaimBytes []byte
}

// Legacy mirrors the publisherSignature field embedded in the claim's
// serialized form, as re-extracted from the final bytes.
type Legacy struct {
	Version       claim.Version
	Curve         claim.KeyType
	Signature     []byte
	CertificateID []byte
}

func (*Detached) envelope() {}
func (*Legacy) envelope()   {}
