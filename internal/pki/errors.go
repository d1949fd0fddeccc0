package pki

import "errors"

// Sentinel errors, matched with errors.Is.
var (
	// ErrKeyGeneration is returned when a key pair cannot be generated.
	ErrKeyGeneration = errors.New("key generation failed")

	// ErrDecode is returned when a private key file is not a valid PEM RSA key.
	ErrDecode = errors.New("invalid private key")

	// ErrDecodeCertificate is returned when no certificate PEM block is found.
	ErrDecodeCertificate = errors.New("no certificate PEM block found")

	// ErrRange is returned when a validity window cannot be represented.
	ErrRange = errors.New("validity out of range")

	// ErrKeyMismatch is returned when the issuer private key does not match
	// the public key of the signing request.
	ErrKeyMismatch = errors.New("public key does not match private key")

	// ErrSigning is returned when the certificate cannot be signed.
	ErrSigning = errors.New("signing failed")

	// ErrInvalidName is returned for subject alternative names that cannot be
	// encoded as an IA5String dNSName. Internationalized names must be
	// converted to their A-label form first.
	ErrInvalidName = errors.New("invalid DNS name")

	// ErrExtensionNotFound is returned when a required extension is missing
	ErrExtensionNotFound = errors.New("extension not found")
)
