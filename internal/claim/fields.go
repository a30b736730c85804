package claim

import (
	"encoding/base64"
	"fmt"
)

// byteFields names the map keys that carry raw bytes on the wire. In JSON
// form these appear as std base64 strings; DecodeB64Fields normalizes them
// back to raw bytes before a map is loaded into a Claim.
var byteFields = map[string]bool{
	"stream":        true,
	"publicKey":     true,
	"signature":     true,
	"certificateId": true,
}

// Map renders the claim as a structured field mapping with bytes encoded as
// std base64, matching what encoding/json produces for []byte.
func (c *Claim) Map() map[string]any {
	m := map[string]any{
		"version":   uint64(c.Version),
		"claimType": uint64(c.Type),
	}
	if len(c.Stream) > 0 {
		m["stream"] = base64.StdEncoding.EncodeToString(c.Stream)
	}
	if c.Certificate != nil {
		m["certificate"] = map[string]any{
			"version":   uint64(c.Certificate.Version),
			"keyType":   uint64(c.Certificate.KeyType),
			"publicKey": base64.StdEncoding.EncodeToString(c.Certificate.PublicKey),
		}
	}
	if c.PublisherSignature != nil {
		m["publisherSignature"] = map[string]any{
			"version":       uint64(c.PublisherSignature.Version),
			"signatureType": uint64(c.PublisherSignature.SignatureType),
			"signature":     base64.StdEncoding.EncodeToString(c.PublisherSignature.Signature),
			"certificateId": base64.StdEncoding.EncodeToString(c.PublisherSignature.CertificateID),
		}
	}
	return m
}

// DecodeB64Fields returns a copy of m with every base64-encoded byte field
// decoded to raw bytes, recursing into nested mappings. Fields already held
// as raw bytes pass through unchanged.
func DecodeB64Fields(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		switch val := v.(type) {
		case map[string]any:
			out[k] = DecodeB64Fields(val)
		case string:
			if byteFields[k] {
				if raw, err := base64.StdEncoding.DecodeString(val); err == nil {
					out[k] = raw
					continue
				}
			}
			out[k] = val
		default:
			out[k] = v
		}
	}
	return out
}

// LoadFromMap builds a Claim from a normalized field mapping. Byte fields
// must already be raw bytes; run DecodeB64Fields first on JSON-derived maps.
func LoadFromMap(m map[string]any) (*Claim, error) {
	c := &Claim{}
	version, err := mapEnum(m, "version")
	if err != nil {
		return nil, err
	}
	c.Version = Version(version)
	claimType, err := mapEnum(m, "claimType")
	if err != nil {
		return nil, err
	}
	c.Type = ClaimType(claimType)
	if stream, ok, err := mapBytes(m, "stream"); err != nil {
		return nil, err
	} else if ok {
		c.Stream = stream
	}
	if sub, ok, err := mapSub(m, "certificate"); err != nil {
		return nil, err
	} else if ok {
		cert := &Certificate{}
		if v, err := mapEnum(sub, "version"); err != nil {
			return nil, err
		} else {
			cert.Version = Version(v)
		}
		if v, err := mapEnum(sub, "keyType"); err != nil {
			return nil, err
		} else {
			cert.KeyType = KeyType(v)
		}
		pub, ok, err := mapBytes(sub, "publicKey")
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: certificate missing publicKey", ErrClaimDecode)
		}
		cert.PublicKey = pub
		c.Certificate = cert
	}
	if sub, ok, err := mapSub(m, "publisherSignature"); err != nil {
		return nil, err
	} else if ok {
		sig := &Signature{}
		if v, err := mapEnum(sub, "version"); err != nil {
			return nil, err
		} else {
			sig.Version = Version(v)
		}
		if v, err := mapEnum(sub, "signatureType"); err != nil {
			return nil, err
		} else {
			sig.SignatureType = KeyType(v)
		}
		raw, ok, err := mapBytes(sub, "signature")
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: publisherSignature missing signature", ErrClaimDecode)
		}
		sig.Signature = raw
		certID, ok, err := mapBytes(sub, "certificateId")
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: publisherSignature missing certificateId", ErrClaimDecode)
		}
		sig.CertificateID = certID
		c.PublisherSignature = sig
	}
	return c, nil
}

func mapEnum(m map[string]any, key string) (uint64, error) {
	v, ok := m[key]
	if !ok {
		return 0, fmt.Errorf("%w: missing %s", ErrClaimDecode, key)
	}
	switch n := v.(type) {
	case uint64:
		return n, nil
	case uint32:
		return uint64(n), nil
	case int:
		return uint64(n), nil
	case int64:
		return uint64(n), nil
	case float64:
		// JSON numbers arrive as float64.
		return uint64(n), nil
	case Version:
		return uint64(n), nil
	case ClaimType:
		return uint64(n), nil
	case KeyType:
		return uint64(n), nil
	default:
		return 0, fmt.Errorf("%w: %s is not numeric", ErrClaimDecode, key)
	}
}

func mapBytes(m map[string]any, key string) ([]byte, bool, error) {
	v, ok := m[key]
	if !ok {
		return nil, false, nil
	}
	raw, ok := v.([]byte)
	if !ok {
		return nil, false, fmt.Errorf("%w: %s is not raw bytes", ErrClaimDecode, key)
	}
	return append([]byte(nil), raw...), true, nil
}

func mapSub(m map[string]any, key string) (map[string]any, bool, error) {
	v, ok := m[key]
	if !ok {
		return nil, false, nil
	}
	sub, ok := v.(map[string]any)
	if !ok {
		return nil, false, fmt.Errorf("%w: %s is not a mapping", ErrClaimDecode, key)
	}
	return sub, true, nil
}
