package pki

import (
	"crypto/x509"
	"encoding/pem"
)

const (
	pemTypeRSAPrivateKey = "RSA PRIVATE KEY"
	pemTypePrivateKey    = "PRIVATE KEY"
	pemTypeCertificate   = "CERTIFICATE"
)

// EncodeKey returns the private key as a PKCS#1 "RSA PRIVATE KEY" PEM block.
func EncodeKey(key *KeyPair) []byte {
	return pem.EncodeToMemory(&pem.Block{
		Type:  pemTypeRSAPrivateKey,
		Bytes: x509.MarshalPKCS1PrivateKey(key.Private()),
	})
}

// EncodeCertificate returns the certificate as a "CERTIFICATE" PEM block.
func EncodeCertificate(cert *x509.Certificate) []byte {
	return pem.EncodeToMemory(&pem.Block{
		Type:  pemTypeCertificate,
		Bytes: cert.Raw,
	})
}

// DecodeCertificate parses the first "CERTIFICATE" PEM block in data.
func DecodeCertificate(data []byte) (*x509.Certificate, error) {
	for {
		var block *pem.Block
		block, data = pem.Decode(data)
		if block == nil {
			return nil, ErrDecodeCertificate
		}
		if block.Type == pemTypeCertificate {
			return x509.ParseCertificate(block.Bytes)
		}
	}
}
