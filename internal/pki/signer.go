package pki

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"fmt"
	"io"
	"math/big"
)

// SignatureAlgorithm is used for every certificate issued by Signer.
const SignatureAlgorithm = x509.SHA256WithRSA

// serialNumberLimit is the exclusive upper bound for serial numbers (2^128).
var serialNumberLimit = new(big.Int).Lsh(big.NewInt(1), 128)

// Signer turns a self-signed request into a certificate.
type Signer struct {
	random io.Reader
}

// NewSigner creates a Signer that draws serial numbers and signature
// randomness from random.
func NewSigner(random io.Reader) *Signer {
	return &Signer{random: random}
}

// Sign issues a certificate for req, signed by issuer, valid during validity
// and carrying exactly the extensions in exts. The issuer key must be the key
// the request was built from.
func (s *Signer) Sign(req *Request, issuer *KeyPair, validity Validity, exts Extensions) (*x509.Certificate, error) {
	if err := verifyKeyPair(req, issuer); err != nil {
		return nil, err
	}

	if s.random == nil {
		return nil, fmt.Errorf("%w: random source not initialized", ErrSigning)
	}

	serialNumber, err := NewSerialNumber(s.random)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSigning, err)
	}

	template := &x509.Certificate{
		SerialNumber:       serialNumber,
		Subject:            req.Subject,
		Issuer:             req.Subject,
		NotBefore:          validity.NotBefore,
		NotAfter:           validity.NotAfter,
		SignatureAlgorithm: SignatureAlgorithm,
		PublicKey:          req.PublicKey,
		ExtraExtensions:    exts,
	}

	// Self-sign: the template is its own parent
	der, err := x509.CreateCertificate(s.random, template, template, req.PublicKey, issuer.Private())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSigning, err)
	}

	cert, err := x509.ParseCertificate(der)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse certificate: %w", ErrSigning, err)
	}

	return cert, nil
}

// NewSerialNumber returns a uniformly random serial number in [1, 2^128).
func NewSerialNumber(random io.Reader) (*big.Int, error) {
	for {
		n, err := rand.Int(random, serialNumberLimit)
		if err != nil {
			return nil, fmt.Errorf("failed to generate serial number: %w", err)
		}
		if n.Sign() > 0 {
			return n, nil
		}
	}
}

// verifyKeyPair checks that the public key re-derived from the issuer's
// private key is the one in the request.
func verifyKeyPair(req *Request, issuer *KeyPair) error {
	if req == nil || req.PublicKey == nil {
		return fmt.Errorf("%w: request has no public key", ErrKeyMismatch)
	}
	if issuer == nil || issuer.Private() == nil {
		return fmt.Errorf("%w: issuer has no private key", ErrKeyMismatch)
	}

	derived, ok := issuer.Private().Public().(*rsa.PublicKey)
	if !ok || !derived.Equal(req.PublicKey) {
		return ErrKeyMismatch
	}

	return nil
}
