package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"pubcast/go-schema/internal/address"
	"pubcast/go-schema/internal/claim"
	"pubcast/go-schema/internal/signer"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	curveName := flag.String("curve", "SECP256k1", "curve: NIST256p | NIST384p | SECP256k1")
	keygen := flag.Bool("keygen", false, "generate a private key PEM on stdout")
	certificate := flag.Bool("certificate", false, "emit the certificate claim for -key")
	sign := flag.Bool("sign", false, "sign the claim JSON in -claim")
	keyPath := flag.String("key", "", "private key PEM path")
	claimPath := flag.String("claim", "", "claim JSON path (field mapping)")
	claimAddr := flag.String("address", "", "publishing address")
	certID := flag.String("certificate-id", "", "certificate claim id (40 hex chars)")
	name := flag.String("name", "", "claim name (required for detached)")
	detached := flag.Bool("detached", false, "produce a detached signature")
	flag.Parse()

	if *showVersion {
		fmt.Printf("claimsign version=%s commit=%s build_date=%s\n", version, commit, buildDate)
		return
	}

	curve, err := claim.ParseKeyType(*curveName)
	if err != nil {
		log.Fatalf("claimsign: %v", err)
	}

	switch {
	case *keygen:
		s, err := signer.Generate(curve)
		if err != nil {
			log.Fatalf("claimsign: keygen failed: %v", err)
		}
		pemBytes, err := s.MarshalPEM()
		if err != nil {
			log.Fatalf("claimsign: keygen failed: %v", err)
		}
		os.Stdout.Write(pemBytes)
	case *certificate:
		s := loadSigner(curve, *keyPath)
		cert, err := s.Certificate()
		if err != nil {
			log.Fatalf("claimsign: certificate failed: %v", err)
		}
		spki, err := s.PublicKeyDER()
		if err != nil {
			log.Fatalf("claimsign: certificate failed: %v", err)
		}
		emit(map[string]any{
			"claim":   cert.Map(),
			"address": address.FromPublicKey(spki),
		})
	case *sign:
		s := loadSigner(curve, *keyPath)
		c := loadClaim(*claimPath)
		signed, envelope, err := s.SignClaim(c, *claimAddr, *certID, *name, *detached)
		if err != nil {
			log.Fatalf("claimsign: signing failed: %v", err)
		}
		emit(map[string]any{
			"claim":    signed.Map(),
			"envelope": envelope,
		})
	default:
		flag.Usage()
		os.Exit(2)
	}
}

func loadSigner(curve claim.KeyType, keyPath string) *signer.Signer {
	if keyPath == "" {
		log.Fatalf("claimsign: -key is required")
	}
	pemBytes, err := os.ReadFile(keyPath)
	if err != nil {
		log.Fatalf("claimsign: reading key: %v", err)
	}
	s, err := signer.LoadPEM(curve, pemBytes)
	if err != nil {
		log.Fatalf("claimsign: loading key: %v", err)
	}
	return s
}

func loadClaim(claimPath string) *claim.Claim {
	if claimPath == "" {
		log.Fatalf("claimsign: -claim is required")
	}
	raw, err := os.ReadFile(claimPath)
	if err != nil {
		log.Fatalf("claimsign: reading claim: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		log.Fatalf("claimsign: parsing claim JSON: %v", err)
	}
	c, err := claim.LoadFromMap(claim.DecodeB64Fields(m))
	if err != nil {
		log.Fatalf("claimsign: loading claim: %v", err)
	}
	return c
}

func emit(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		log.Fatalf("claimsign: %v", err)
	}
}
