package signer

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"encoding/asn1"
	"encoding/pem"
	"errors"
	"fmt"
	"math/big"
	"strings"
)

var (
	ErrKeyDecode     = errors.New("malformed private key")
	ErrNotSigningKey = errors.New("not a signing key")
)

// Curve OIDs for the SEC1/SPKI encodings. crypto/x509 only knows the NIST
// curves, so the ASN.1 structures are handled here once for all three.
var (
	oidNamedCurveP256      = asn1.ObjectIdentifier{1, 2, 840, 10045, 3, 1, 7}
	oidNamedCurveP384      = asn1.ObjectIdentifier{1, 3, 132, 0, 34}
	oidNamedCurveSecp256k1 = asn1.ObjectIdentifier{1, 3, 132, 0, 10}
	oidPublicKeyECDSA      = asn1.ObjectIdentifier{1, 2, 840, 10045, 2, 1}
)

const pemTypeECPrivateKey = "EC PRIVATE KEY"

// SEC1 ECPrivateKey.
type ecPrivateKey struct {
	Version       int
	PrivateKey    []byte
	NamedCurveOID asn1.ObjectIdentifier `asn1:"optional,explicit,tag:0"`
	PublicKey     asn1.BitString        `asn1:"optional,explicit,tag:1"`
}

type algorithmIdentifier struct {
	Algorithm  asn1.ObjectIdentifier
	NamedCurve asn1.ObjectIdentifier
}

type subjectPublicKeyInfo struct {
	Algorithm algorithmIdentifier
	PublicKey asn1.BitString
}

func (p Profile) curveOID() asn1.ObjectIdentifier {
	switch p.Elliptic {
	case elliptic.P256():
		return oidNamedCurveP256
	case elliptic.P384():
		return oidNamedCurveP384
	default:
		return oidNamedCurveSecp256k1
	}
}

func parsePrivateKeyPEM(p Profile, pemBytes []byte) (*ecdsa.PrivateKey, error) {
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, fmt.Errorf("%w: no PEM block", ErrKeyDecode)
	}
	if strings.Contains(block.Type, "PUBLIC KEY") {
		return nil, ErrNotSigningKey
	}
	if block.Type != pemTypeECPrivateKey {
		return nil, fmt.Errorf("%w: unexpected PEM type %q", ErrKeyDecode, block.Type)
	}
	var sec1 ecPrivateKey
	rest, err := asn1.Unmarshal(block.Bytes, &sec1)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyDecode, err)
	}
	if len(rest) > 0 {
		return nil, fmt.Errorf("%w: trailing data", ErrKeyDecode)
	}
	if sec1.Version != 1 {
		return nil, fmt.Errorf("%w: SEC1 version %d", ErrKeyDecode, sec1.Version)
	}
	if len(sec1.NamedCurveOID) > 0 && !sec1.NamedCurveOID.Equal(p.curveOID()) {
		return nil, fmt.Errorf("%w: key is not on %s", ErrKeyDecode, p.Curve)
	}
	order := p.Elliptic.Params().N
	d := new(big.Int).SetBytes(sec1.PrivateKey)
	if d.Sign() <= 0 || d.Cmp(order) >= 0 {
		return nil, fmt.Errorf("%w: scalar out of range", ErrKeyDecode)
	}
	return privateKeyFromScalar(p, d), nil
}

func privateKeyFromScalar(p Profile, d *big.Int) *ecdsa.PrivateKey {
	priv := &ecdsa.PrivateKey{D: d}
	priv.PublicKey.Curve = p.Elliptic
	priv.PublicKey.X, priv.PublicKey.Y = p.Elliptic.ScalarBaseMult(d.Bytes())
	return priv
}

func marshalPrivateKeyPEM(p Profile, priv *ecdsa.PrivateKey) ([]byte, error) {
	scalar := make([]byte, p.orderSize())
	priv.D.FillBytes(scalar)
	point := elliptic.Marshal(p.Elliptic, priv.PublicKey.X, priv.PublicKey.Y)
	der, err := asn1.Marshal(ecPrivateKey{
		Version:       1,
		PrivateKey:    scalar,
		NamedCurveOID: p.curveOID(),
		PublicKey:     asn1.BitString{Bytes: point, BitLength: len(point) * 8},
	})
	if err != nil {
		return nil, err
	}
	return pem.EncodeToMemory(&pem.Block{Type: pemTypeECPrivateKey, Bytes: der}), nil
}

func marshalPublicKeyDER(p Profile, pub *ecdsa.PublicKey) ([]byte, error) {
	point := elliptic.Marshal(p.Elliptic, pub.X, pub.Y)
	return asn1.Marshal(subjectPublicKeyInfo{
		Algorithm: algorithmIdentifier{
			Algorithm:  oidPublicKeyECDSA,
			NamedCurve: p.curveOID(),
		},
		PublicKey: asn1.BitString{Bytes: point, BitLength: len(point) * 8},
	})
}
