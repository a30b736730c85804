// Package claim implements the wire codec for claim records: the
// content-addressed metadata records exchanged by the publishing network.
// Claims are protobuf-encoded; the three messages involved are small and
// fixed, so the codec is written directly against the protobuf wire format
// instead of carrying generated code.
package claim

import (
	"errors"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

var (
	ErrClaimDecode = errors.New("malformed claim bytes")
	ErrNoSignature = errors.New("claim carries no publisher signature")
)

type Version uint32

const (
	UnknownVersion Version = 0
	V0_0_1         Version = 1
)

type ClaimType uint32

const (
	UnknownClaimType ClaimType = 0
	StreamType       ClaimType = 1
	CertificateType  ClaimType = 2
)

// KeyType identifies a named curve. The same values identify the curve of a
// certificate's public key and the signatureType of an embedded signature.
type KeyType uint32

const (
	UnknownKeyType KeyType = 0
	NIST256p       KeyType = 1
	NIST384p       KeyType = 2
	SECP256k1      KeyType = 3
)

func (k KeyType) String() string {
	switch k {
	case NIST256p:
		return "NIST256p"
	case NIST384p:
		return "NIST384p"
	case SECP256k1:
		return "SECP256k1"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", uint32(k))
	}
}

func ParseKeyType(name string) (KeyType, error) {
	switch name {
	case "NIST256p":
		return NIST256p, nil
	case "NIST384p":
		return NIST384p, nil
	case "SECP256k1":
		return SECP256k1, nil
	default:
		return UnknownKeyType, fmt.Errorf("unknown key type %q", name)
	}
}

// Claim is the top-level record. Stream is kept as the raw submessage bytes:
// nothing in this subsystem needs to look inside stream metadata, and keeping
// it opaque guarantees re-serialization is byte-exact.
type Claim struct {
	Version            Version
	Type               ClaimType
	Stream             []byte
	Certificate        *Certificate
	PublisherSignature *Signature
}

type Certificate struct {
	Version   Version
	KeyType   KeyType
	PublicKey []byte
}

// Signature is the embedded signature descriptor of the legacy format.
type Signature struct {
	Version       Version
	SignatureType KeyType
	Signature     []byte
	CertificateID []byte
}

func CertificateFromPublicKey(spki []byte, curve KeyType) *Certificate {
	return &Certificate{
		Version:   V0_0_1,
		KeyType:   curve,
		PublicKey: append([]byte(nil), spki...),
	}
}

// Serialized returns the full wire encoding, publisher signature included.
func (c *Claim) Serialized() []byte {
	return c.appendWire(nil, true)
}

// SerializedNoSignature returns the wire encoding with the publisher
// signature omitted. These are the bytes that claim signatures cover.
func (c *Claim) SerializedNoSignature() []byte {
	return c.appendWire(nil, false)
}

func (c *Claim) appendWire(b []byte, withSignature bool) []byte {
	b = protowire.AppendTag(b, 1, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(c.Version))
	b = protowire.AppendTag(b, 2, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(c.Type))
	if len(c.Stream) > 0 {
		b = protowire.AppendTag(b, 3, protowire.BytesType)
		b = protowire.AppendBytes(b, c.Stream)
	}
	if c.Certificate != nil {
		b = protowire.AppendTag(b, 4, protowire.BytesType)
		b = protowire.AppendBytes(b, c.Certificate.appendWire(nil))
	}
	if withSignature && c.PublisherSignature != nil {
		b = protowire.AppendTag(b, 5, protowire.BytesType)
		b = protowire.AppendBytes(b, c.PublisherSignature.appendWire(nil))
	}
	return b
}

func (cert *Certificate) appendWire(b []byte) []byte {
	b = protowire.AppendTag(b, 1, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(cert.Version))
	b = protowire.AppendTag(b, 2, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(cert.KeyType))
	b = protowire.AppendTag(b, 4, protowire.BytesType)
	b = protowire.AppendBytes(b, cert.PublicKey)
	return b
}

func (sig *Signature) appendWire(b []byte) []byte {
	b = protowire.AppendTag(b, 1, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(sig.Version))
	b = protowire.AppendTag(b, 2, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(sig.SignatureType))
	b = protowire.AppendTag(b, 3, protowire.BytesType)
	b = protowire.AppendBytes(b, sig.Signature)
	b = protowire.AppendTag(b, 4, protowire.BytesType)
	b = protowire.AppendBytes(b, sig.CertificateID)
	return b
}

// Unmarshal parses a full claim record from its wire encoding.
func Unmarshal(b []byte) (*Claim, error) {
	c := &Claim{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, fmt.Errorf("%w: %v", ErrClaimDecode, protowire.ParseError(n))
		}
		b = b[n:]
		switch {
		case num == 1 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, fmt.Errorf("%w: version: %v", ErrClaimDecode, protowire.ParseError(n))
			}
			c.Version = Version(v)
			b = b[n:]
		case num == 2 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, fmt.Errorf("%w: claimType: %v", ErrClaimDecode, protowire.ParseError(n))
			}
			c.Type = ClaimType(v)
			b = b[n:]
		case num == 3 && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, fmt.Errorf("%w: stream: %v", ErrClaimDecode, protowire.ParseError(n))
			}
			c.Stream = append([]byte(nil), v...)
			b = b[n:]
		case num == 4 && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, fmt.Errorf("%w: certificate: %v", ErrClaimDecode, protowire.ParseError(n))
			}
			cert, err := unmarshalCertificate(v)
			if err != nil {
				return nil, err
			}
			c.Certificate = cert
			b = b[n:]
		case num == 5 && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, fmt.Errorf("%w: publisherSignature: %v", ErrClaimDecode, protowire.ParseError(n))
			}
			sig, err := unmarshalSignature(v)
			if err != nil {
				return nil, err
			}
			c.PublisherSignature = sig
			b = b[n:]
		default:
			return nil, fmt.Errorf("%w: unexpected field %d", ErrClaimDecode, num)
		}
	}
	return c, nil
}

func unmarshalCertificate(b []byte) (*Certificate, error) {
	cert := &Certificate{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, fmt.Errorf("%w: certificate: %v", ErrClaimDecode, protowire.ParseError(n))
		}
		b = b[n:]
		switch {
		case num == 1 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, fmt.Errorf("%w: certificate version: %v", ErrClaimDecode, protowire.ParseError(n))
			}
			cert.Version = Version(v)
			b = b[n:]
		case num == 2 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, fmt.Errorf("%w: certificate keyType: %v", ErrClaimDecode, protowire.ParseError(n))
			}
			cert.KeyType = KeyType(v)
			b = b[n:]
		case num == 4 && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, fmt.Errorf("%w: certificate publicKey: %v", ErrClaimDecode, protowire.ParseError(n))
			}
			cert.PublicKey = append([]byte(nil), v...)
			b = b[n:]
		default:
			return nil, fmt.Errorf("%w: unexpected certificate field %d", ErrClaimDecode, num)
		}
	}
	return cert, nil
}

func unmarshalSignature(b []byte) (*Signature, error) {
	sig := &Signature{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, fmt.Errorf("%w: signature: %v", ErrClaimDecode, protowire.ParseError(n))
		}
		b = b[n:]
		switch {
		case num == 1 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, fmt.Errorf("%w: signature version: %v", ErrClaimDecode, protowire.ParseError(n))
			}
			sig.Version = Version(v)
			b = b[n:]
		case num == 2 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, fmt.Errorf("%w: signatureType: %v", ErrClaimDecode, protowire.ParseError(n))
			}
			sig.SignatureType = KeyType(v)
			b = b[n:]
		case num == 3 && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, fmt.Errorf("%w: signature bytes: %v", ErrClaimDecode, protowire.ParseError(n))
			}
			sig.Signature = append([]byte(nil), v...)
			b = b[n:]
		case num == 4 && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, fmt.Errorf("%w: certificateId: %v", ErrClaimDecode, protowire.ParseError(n))
			}
			sig.CertificateID = append([]byte(nil), v...)
			b = b[n:]
		default:
			return nil, fmt.Errorf("%w: unexpected signature field %d", ErrClaimDecode, num)
		}
	}
	return sig, nil
}

// ParseSignature re-extracts the embedded publisher signature from fully
// serialized claim bytes. Callers that just produced those bytes use this to
// confirm the signature survives a consumer-side decode unchanged.
func ParseSignature(serialized []byte) (*Signature, error) {
	c, err := Unmarshal(serialized)
	if err != nil {
		return nil, err
	}
	if c.PublisherSignature == nil {
		return nil, ErrNoSignature
	}
	return c.PublisherSignature, nil
}
