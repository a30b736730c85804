package signer

import (
	"crypto/ecdsa"
	"crypto/rand"
	"strings"

	"github.com/codahale/rfc6979"

	"pubcast/go-schema/internal/address"
	"pubcast/go-schema/internal/claim"
	"pubcast/go-schema/internal/claimid"
)

// Signer binds private key material to one curve profile. The key is
// immutable for the Signer's lifetime; a Signer has no other state, so
// independent instances sign concurrently without locks.
type Signer struct {
	profile Profile
	priv    *ecdsa.PrivateKey
}

// Generate creates a Signer with a fresh private key on the given curve.
func Generate(curve claim.KeyType) (*Signer, error) {
	p, err := Lookup(curve)
	if err != nil {
		return nil, err
	}
	priv, err := ecdsa.GenerateKey(p.Elliptic, rand.Reader)
	if err != nil {
		return nil, err
	}
	return &Signer{profile: p, priv: priv}, nil
}

// LoadPEM creates a Signer from a SEC1 "EC PRIVATE KEY" PEM encoding. A PEM
// that carries public-key material fails with ErrNotSigningKey; anything
// else malformed fails with ErrKeyDecode.
func LoadPEM(curve claim.KeyType, pemBytes []byte) (*Signer, error) {
	p, err := Lookup(curve)
	if err != nil {
		return nil, err
	}
	priv, err := parsePrivateKeyPEM(p, pemBytes)
	if err != nil {
		return nil, err
	}
	return &Signer{profile: p, priv: priv}, nil
}

func (s *Signer) Profile() Profile {
	return s.profile
}

// PublicKey derives the public key from the private key. It is recomputed
// per call rather than cached; the key is cheap to copy and the private key
// never rotates in place.
func (s *Signer) PublicKey() *ecdsa.PublicKey {
	pub := s.priv.PublicKey
	return &pub
}

// PublicKeyDER returns the SubjectPublicKeyInfo encoding of the public key.
func (s *Signer) PublicKeyDER() ([]byte, error) {
	return marshalPublicKeyDER(s.profile, s.PublicKey())
}

// MarshalPEM returns the SEC1 PEM encoding of the private key.
func (s *Signer) MarshalPEM() ([]byte, error) {
	return marshalPrivateKeyPEM(s.profile, s.priv)
}

// Sign hashes the in-order concatenation of fields with the profile hash and
// signs the digest with a deterministic (RFC 6979) nonce, so the same key
// and fields always yield the same signature. The result is fixed-width
// r||s, each half the byte width of the curve order.
func (s *Signer) Sign(fields ...[]byte) []byte {
	h := s.profile.NewHash()
	for _, f := range fields {
		h.Write(f)
	}
	r, v, _ := rfc6979.SignECDSA(s.priv, h.Sum(nil), s.profile.NewHash)
	size := s.profile.orderSize()
	out := make([]byte, 2*size)
	r.FillBytes(out[:size])
	v.FillBytes(out[size:])
	return out
}

// SignClaim signs a claim against a publishing address and a certificate id.
// All validation runs before any hashing, and the detached/legacy branch is
// chosen exactly once; each branch owns its byte-sequence construction.
func (s *Signer) SignClaim(c *claim.Claim, claimAddress, certificateID, name string, detached bool) (*claim.Claim, Envelope, error) {
	rawCertID, err := claimid.Decode(certificateID)
	if err != nil {
		return nil, nil, err
	}
	decodedAddr, err := address.Decode(claimAddress)
	if err != nil {
		return nil, nil, err
	}
	if detached {
		return s.signDetached(c, decodedAddr, rawCertID, name)
	}
	return s.signLegacy(c, decodedAddr, rawCertID)
}

// Detached signatures cover lower(name) || address || claim-no-sig || cert id
// and live alongside the claim instead of inside it. The format is
// restricted to SECP256k1.
func (s *Signer) signDetached(c *claim.Claim, decodedAddr, rawCertID []byte, name string) (*claim.Claim, Envelope, error) {
	if name == "" {
		return nil, nil, ErrMissingName
	}
	if s.profile.Curve != claim.SECP256k1 {
		return nil, nil, ErrUnsupportedCurve
	}
	serialized := c.SerializedNoSignature()
	sig := s.Sign([]byte(strings.ToLower(name)), decodedAddr, serialized, rawCertID)

	// The claim body is returned untouched apart from a byte-field
	// normalization pass through the field-mapping layer.
	normalized, err := claim.LoadFromMap(claim.DecodeB64Fields(c.Map()))
	if err != nil {
		return nil, nil, err
	}
	return normalized, &Detached{
		Signature:        sig,
		CertificateID:    rawCertID,
		SignedClaimBytes: serialized,
	}, nil
}

// Legacy signatures cover address || claim-no-sig || cert id and are spliced
// into the claim's own serialized form as publisherSignature.
func (s *Signer) signLegacy(c *claim.Claim, decodedAddr, rawCertID []byte) (*claim.Claim, Envelope, error) {
	if len(c.Stream) == 0 {
		return nil, nil, ErrNotStreamClaim
	}
	serialized := c.SerializedNoSignature()
	sig := s.Sign(decodedAddr, serialized, rawCertID)

	fields := claim.DecodeB64Fields(c.Map())
	msg := map[string]any{
		"version":   uint64(claim.V0_0_1),
		"claimType": uint64(claim.StreamType),
		"stream":    fields["stream"],
		"publisherSignature": map[string]any{
			"version":       uint64(claim.V0_0_1),
			"signatureType": uint64(s.profile.Curve),
			"signature":     sig,
			"certificateId": rawCertID,
		},
	}
	signed, err := claim.LoadFromMap(msg)
	if err != nil {
		return nil, nil, err
	}

	// Re-extract the signature from the final serialized bytes instead of
	// trusting the pre-serialization value: the envelope must reflect what a
	// consumer will actually deserialize.
	parsed, err := claim.ParseSignature(signed.Serialized())
	if err != nil {
		return nil, nil, err
	}
	return signed, &Legacy{
		Version:       parsed.Version,
		Curve:         parsed.SignatureType,
		Signature:     parsed.Signature,
		CertificateID: parsed.CertificateID,
	}, nil
}

// Certificate builds the certificate claim for this Signer: the claim whose
// payload is the public key, establishing the identity other claims sign
// against. The public key is a snapshot taken at call time.
func (s *Signer) Certificate() (*claim.Claim, error) {
	spki, err := s.PublicKeyDER()
	if err != nil {
		return nil, err
	}
	return &claim.Claim{
		Version:     claim.V0_0_1,
		Type:        claim.CertificateType,
		Certificate: claim.CertificateFromPublicKey(spki, s.profile.Curve),
	}, nil
}
