// Package issuer runs the self-signed certificate pipeline: acquire a key,
// build the request, compute the validity window, assemble extensions, sign,
// encode and persist.
package issuer

import (
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/lindig/certify/internal/atomicfile"
	"github.com/lindig/certify/internal/pki"
	"github.com/rs/zerolog/log"
)

// ErrNoCommonName is returned when no subject common name is supplied.
var ErrNoCommonName = errors.New("common name is required")

// Params describes one certificate to issue.
type Params struct {
	CommonName string
	AltNames   []string
	Key        pki.KeySource
	Days       int
	Role       pki.Role
}

// Result is the outcome of a successful pipeline run.
type Result struct {
	Key         *pki.KeyPair
	Certificate *x509.Certificate
	KeyPEM      []byte
	CertPEM     []byte
	Fingerprint string
}

// Issuer builds self-signed certificates.
type Issuer struct {
	random io.Reader
	now    func() time.Time
}

// Option configures an Issuer.
type Option func(*Issuer)

// WithClock overrides the wall clock used for the validity window.
func WithClock(now func() time.Time) Option {
	return func(i *Issuer) {
		i.now = now
	}
}

// New creates an Issuer drawing randomness from random, which must come from
// an initialized entropy source.
func New(random io.Reader, opts ...Option) *Issuer {
	i := &Issuer{
		random: random,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Build runs the pipeline up to PEM encoding and fingerprinting without
// touching the destination.
func (i *Issuer) Build(p Params) (*Result, error) {
	if p.CommonName == "" {
		return nil, ErrNoCommonName
	}

	key, err := pki.AcquireKey(p.Key, i.random)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire key: %w", err)
	}
	log.Debug().Int("bits", key.Bits()).Msg("key acquired")

	req := pki.NewRequest(p.CommonName, key)

	validity, err := pki.ComputeValidity(p.Days, i.now())
	if err != nil {
		return nil, fmt.Errorf("failed to compute validity: %w", err)
	}
	log.Debug().
		Time("not_before", validity.NotBefore).
		Time("not_after", validity.NotAfter).
		Msg("validity computed")

	// self-signed: the issuer key is the subject key
	exts, err := pki.BuildExtensions(req.PublicKey, key.Public(), p.AltNames, p.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to build extensions: %w", err)
	}

	cert, err := pki.NewSigner(i.random).Sign(req, key, validity, exts)
	if err != nil {
		return nil, fmt.Errorf("failed to sign certificate: %w", err)
	}
	log.Debug().Str("serial_number", cert.SerialNumber.Text(16)).Msg("certificate signed")

	fingerprint, err := pki.Fingerprint(key.Public())
	if err != nil {
		return nil, fmt.Errorf("failed to fingerprint key: %w", err)
	}

	return &Result{
		Key:         key,
		Certificate: cert,
		KeyPEM:      pki.EncodeKey(key),
		CertPEM:     pki.EncodeCertificate(cert),
		Fingerprint: fingerprint,
	}, nil
}

// Issue runs the whole pipeline and atomically writes the private key and
// certificate to path. Nothing can fail after the file is in place.
func (i *Issuer) Issue(p Params, path string) (*Result, error) {
	res, err := i.Build(p)
	if err != nil {
		return nil, err
	}

	if err := atomicfile.Write(path, res.KeyPEM, res.CertPEM); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", path, err)
	}

	log.Info().
		Str("path", path).
		Str("common_name", p.CommonName).
		Str("role", p.Role.String()).
		Str("serial_number", res.Certificate.SerialNumber.Text(16)).
		Str("fingerprint", res.Fingerprint).
		Time("not_after", res.Certificate.NotAfter).
		Msg("Issued self-signed certificate")

	return res, nil
}
