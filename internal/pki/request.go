package pki

import (
	"crypto/rsa"
	"crypto/x509/pkix"
)

// Request binds a subject name to a public key. Certificates built from a
// Request are self-signed, so the subject is also the issuer.
type Request struct {
	Subject   pkix.Name
	PublicKey *rsa.PublicKey
}

// NewRequest creates a signing request for commonName using the public half
// of key. Extensions are not part of the request; they are applied by Signer.
func NewRequest(commonName string, key *KeyPair) *Request {
	return &Request{
		Subject:   pkix.Name{CommonName: commonName},
		PublicKey: key.Public(),
	}
}
