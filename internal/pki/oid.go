package pki

import (
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/asn1"
	"fmt"
	"slices"
)

// Standard X.509v3 extension identifiers (RFC 5280 section 4.2)
var (
	OIDSubjectKeyID     = asn1.ObjectIdentifier{2, 5, 29, 14}
	OIDKeyUsage         = asn1.ObjectIdentifier{2, 5, 29, 15}
	OIDSubjectAltName   = asn1.ObjectIdentifier{2, 5, 29, 17}
	OIDBasicConstraints = asn1.ObjectIdentifier{2, 5, 29, 19}
	OIDAuthorityKeyID   = asn1.ObjectIdentifier{2, 5, 29, 35}
	OIDExtKeyUsage      = asn1.ObjectIdentifier{2, 5, 29, 37}
)

// Extended key usage purposes
var (
	OIDServerAuth = asn1.ObjectIdentifier{1, 3, 6, 1, 5, 5, 7, 3, 1}
	OIDClientAuth = asn1.ObjectIdentifier{1, 3, 6, 1, 5, 5, 7, 3, 2}
)

// FindExtension returns the extension with the given identifier
func FindExtension(cert *x509.Certificate, oid asn1.ObjectIdentifier) (pkix.Extension, error) {
	for _, ext := range cert.Extensions {
		if ext.Id.Equal(oid) {
			return ext, nil
		}
	}
	return pkix.Extension{}, fmt.Errorf("%s: %w", oid, ErrExtensionNotFound)
}

// ExtractRole infers the entity role from the Basic Constraints and
// Extended Key Usage extensions of a parsed certificate.
func ExtractRole(cert *x509.Certificate) (Role, error) {
	if _, err := FindExtension(cert, OIDBasicConstraints); err != nil {
		return 0, fmt.Errorf("basic constraints: %w", err)
	}
	if cert.IsCA {
		return RoleCA, nil
	}

	switch {
	case slices.Contains(cert.ExtKeyUsage, x509.ExtKeyUsageServerAuth):
		return RoleServer, nil
	case slices.Contains(cert.ExtKeyUsage, x509.ExtKeyUsageClientAuth):
		return RoleClient, nil
	}
	return 0, fmt.Errorf("extended key usage: %w", ErrExtensionNotFound)
}
