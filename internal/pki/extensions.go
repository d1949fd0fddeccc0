package pki

import (
	"crypto/rsa"
	"crypto/sha1" // #nosec G505 - RFC 5280 key identifier method 1
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/asn1"
	"fmt"
	"math/bits"
	"slices"
	"strings"
	"unicode/utf8"
)

// Role determines the shape of the certificate extensions.
type Role int

const (
	RoleServer Role = iota + 1
	RoleClient
	RoleCA
)

var roleNames = map[Role]string{
	RoleServer: "server",
	RoleClient: "client",
	RoleCA:     "ca",
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Role(%d)", int(r))
}

// ParseRole parses "ca", "server" or "client" (case-insensitive).
func ParseRole(s string) (Role, error) {
	for role, name := range roleNames {
		if strings.EqualFold(s, name) {
			return role, nil
		}
	}
	return 0, fmt.Errorf("unknown role %q (expected: ca | server | client)", s)
}

// Extensions is an ordered set of X.509v3 extensions, at most one per OID.
type Extensions []pkix.Extension

// Find returns the extension with the given identifier.
func (e Extensions) Find(oid asn1.ObjectIdentifier) (pkix.Extension, bool) {
	for _, ext := range e {
		if ext.Id.Equal(oid) {
			return ext, true
		}
	}
	return pkix.Extension{}, false
}

// BuildExtensions assembles the extension set for a certificate in a fixed
// order: subject key identifier, authority key identifier, subject
// alternative names (only when altNames is not empty), basic constraints, key
// usage and, for server and client roles, extended key usage.
//
// altNames is treated as a set; duplicates and empty strings are dropped and
// the names are encoded in sorted order. Names must already be ASCII
// (A-labels); anything else fails with ErrInvalidName.
func BuildExtensions(subject, issuer *rsa.PublicKey, altNames []string, role Role) (Extensions, error) {
	if _, ok := roleNames[role]; !ok {
		return nil, fmt.Errorf("unknown role %v", role)
	}

	names := dnsNameSet(altNames)
	if err := checkDNSNames(names); err != nil {
		return nil, err
	}

	ski, err := KeyID(subject)
	if err != nil {
		return nil, fmt.Errorf("subject key identifier: %w", err)
	}
	aki, err := KeyID(issuer)
	if err != nil {
		return nil, fmt.Errorf("authority key identifier: %w", err)
	}

	exts := make(Extensions, 0, 6)

	skiValue, err := asn1.Marshal(ski)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal subject key identifier: %w", err)
	}
	exts = append(exts, pkix.Extension{Id: OIDSubjectKeyID, Value: skiValue})

	akiValue, err := asn1.Marshal(authorityKeyID{KeyID: aki})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal authority key identifier: %w", err)
	}
	exts = append(exts, pkix.Extension{Id: OIDAuthorityKeyID, Value: akiValue})

	if len(names) > 0 {
		sanValue, err := marshalDNSNames(names)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal subject alternative names: %w", err)
		}
		exts = append(exts, pkix.Extension{Id: OIDSubjectAltName, Value: sanValue})
	}

	bcValue, err := asn1.Marshal(basicConstraints{IsCA: role == RoleCA, MaxPathLen: -1})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal basic constraints: %w", err)
	}
	exts = append(exts, pkix.Extension{Id: OIDBasicConstraints, Critical: true, Value: bcValue})

	kuValue, err := marshalKeyUsage(keyUsageFor(role))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal key usage: %w", err)
	}
	exts = append(exts, pkix.Extension{Id: OIDKeyUsage, Critical: true, Value: kuValue})

	if purpose := extKeyUsageFor(role); purpose != nil {
		ekuValue, err := asn1.Marshal([]asn1.ObjectIdentifier{purpose})
		if err != nil {
			return nil, fmt.Errorf("failed to marshal extended key usage: %w", err)
		}
		exts = append(exts, pkix.Extension{Id: OIDExtKeyUsage, Critical: true, Value: ekuValue})
	}

	return exts, nil
}

// KeyID derives a key identifier from the SHA-1 hash of the
// subjectPublicKey bit string (RFC 5280 section 4.2.1.2, method 1).
func KeyID(pub *rsa.PublicKey) ([]byte, error) {
	der, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return nil, err
	}

	var spki struct {
		Algorithm pkix.AlgorithmIdentifier
		PublicKey asn1.BitString
	}
	if _, err := asn1.Unmarshal(der, &spki); err != nil {
		return nil, err
	}

	sum := sha1.Sum(spki.PublicKey.Bytes) // #nosec G401
	return sum[:], nil
}

type authorityKeyID struct {
	KeyID []byte `asn1:"optional,tag:0"`
}

type basicConstraints struct {
	IsCA       bool `asn1:"optional"`
	MaxPathLen int  `asn1:"optional,default:-1"`
}

func keyUsageFor(role Role) x509.KeyUsage {
	if role == RoleCA {
		return x509.KeyUsageCertSign | x509.KeyUsageCRLSign | x509.KeyUsageDigitalSignature | x509.KeyUsageContentCommitment
	}
	return x509.KeyUsageDigitalSignature | x509.KeyUsageKeyEncipherment
}

func extKeyUsageFor(role Role) asn1.ObjectIdentifier {
	switch role {
	case RoleServer:
		return OIDServerAuth
	case RoleClient:
		return OIDClientAuth
	default:
		return nil
	}
}

// marshalKeyUsage encodes the usage bits as a DER BIT STRING with bit 0
// (digitalSignature) as the most significant bit of the first octet.
func marshalKeyUsage(ku x509.KeyUsage) ([]byte, error) {
	b := []byte{bits.Reverse8(byte(ku)), bits.Reverse8(byte(ku >> 8))}
	if b[1] == 0 {
		b = b[:1]
	}
	return asn1.Marshal(asn1.BitString{Bytes: b, BitLength: bitLength(b)})
}

// bitLength returns the number of bits up to and including the last set bit.
func bitLength(b []byte) int {
	for i := len(b) - 1; i >= 0; i-- {
		if b[i] != 0 {
			return i*8 + 8 - bits.TrailingZeros8(b[i])
		}
	}
	return 0
}

func dnsNameSet(names []string) []string {
	set := make([]string, 0, len(names))
	for _, name := range names {
		if name != "" {
			set = append(set, name)
		}
	}
	slices.Sort(set)
	return slices.Compact(set)
}

// checkDNSNames rejects names outside the 7-bit IA5 alphabet.
func checkDNSNames(names []string) error {
	for _, name := range names {
		for i := 0; i < len(name); i++ {
			if name[i] >= utf8.RuneSelf {
				return fmt.Errorf("%w: %q is not ASCII", ErrInvalidName, name)
			}
		}
	}
	return nil
}

// marshalDNSNames encodes names as a GeneralNames sequence of dNSName [2] entries.
func marshalDNSNames(names []string) ([]byte, error) {
	raw := make([]asn1.RawValue, 0, len(names))
	for _, name := range names {
		raw = append(raw, asn1.RawValue{Tag: 2, Class: asn1.ClassContextSpecific, Bytes: []byte(name)})
	}
	return asn1.Marshal(raw)
}
