package commands

import (
	"context"
	"crypto/rsa"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/lindig/certify/internal/pki"
	"gopkg.in/yaml.v3"
)

// InspectCmd prints the certificate stored in an issued file.
type InspectCmd struct {
	File   string `arg:"" help:"File written by issue." type:"existingfile"`
	Format string `help:"Output format." enum:"text,yaml" default:"text"`
}

// Report describes an issued certificate
type Report struct {
	Subject        string    `yaml:"subject"`
	Issuer         string    `yaml:"issuer"`
	SerialNumber   string    `yaml:"serial_number"`
	Role           string    `yaml:"role"`
	NotBefore      time.Time `yaml:"not_before"`
	NotAfter       time.Time `yaml:"not_after"`
	DaysRemaining  int       `yaml:"days_remaining"`
	Expired        bool      `yaml:"expired"`
	DNSNames       []string  `yaml:"dns_names,omitempty"`
	KeyBits        int       `yaml:"key_bits"`
	SubjectKeyID   string    `yaml:"subject_key_id"`
	AuthorityKeyID string    `yaml:"authority_key_id"`
	Fingerprint    string    `yaml:"fingerprint"`
}

func (cmd *InspectCmd) Run(ctx context.Context, globals *Globals) error {
	data, err := os.ReadFile(cmd.File)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", cmd.File, err)
	}

	report, err := inspect(data, time.Now())
	if err != nil {
		return fmt.Errorf("failed to inspect %s: %w", cmd.File, err)
	}

	if cmd.Format == "yaml" {
		enc := yaml.NewEncoder(stdout)
		defer enc.Close()
		return enc.Encode(report)
	}

	return report.writeText()
}

// inspect decodes the key and certificate of an issued file and checks that
// they belong together.
func inspect(data []byte, now time.Time) (*Report, error) {
	key, err := pki.DecodeKey(data)
	if err != nil {
		return nil, err
	}

	cert, err := pki.DecodeCertificate(data)
	if err != nil {
		return nil, err
	}

	pub, ok := cert.PublicKey.(*rsa.PublicKey)
	if !ok || !key.Public().Equal(pub) {
		return nil, pki.ErrKeyMismatch
	}

	role, err := pki.ExtractRole(cert)
	if err != nil {
		return nil, err
	}

	fingerprint, err := pki.Fingerprint(pub)
	if err != nil {
		return nil, err
	}

	return &Report{
		Subject:        cert.Subject.String(),
		Issuer:         cert.Issuer.String(),
		SerialNumber:   cert.SerialNumber.Text(16),
		Role:           role.String(),
		NotBefore:      cert.NotBefore,
		NotAfter:       cert.NotAfter,
		DaysRemaining:  int(cert.NotAfter.Sub(now).Hours() / 24),
		Expired:        now.After(cert.NotAfter),
		DNSNames:       cert.DNSNames,
		KeyBits:        key.Bits(),
		SubjectKeyID:   colonHex(cert.SubjectKeyId),
		AuthorityKeyID: colonHex(cert.AuthorityKeyId),
		Fingerprint:    fingerprint,
	}, nil
}

func (r *Report) writeText() error {
	w := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)

	fmt.Fprintf(w, "Subject:\t%s\n", r.Subject)
	fmt.Fprintf(w, "Issuer:\t%s\n", r.Issuer)
	fmt.Fprintf(w, "Serial:\t%s\n", r.SerialNumber)
	fmt.Fprintf(w, "Role:\t%s\n", r.Role)
	fmt.Fprintf(w, "Not Before:\t%s\n", r.NotBefore.Format(time.RFC3339))
	fmt.Fprintf(w, "Not After:\t%s\n", r.NotAfter.Format(time.RFC3339))
	if r.Expired {
		fmt.Fprintf(w, "Status:\texpired %d days ago\n", -r.DaysRemaining)
	} else {
		fmt.Fprintf(w, "Status:\tvalid, %d days remaining\n", r.DaysRemaining)
	}
	if len(r.DNSNames) > 0 {
		fmt.Fprintf(w, "DNS Names:\t%s\n", strings.Join(r.DNSNames, ", "))
	}
	fmt.Fprintf(w, "Key:\tRSA %d bits\n", r.KeyBits)
	fmt.Fprintf(w, "Subject Key ID:\t%s\n", r.SubjectKeyID)
	fmt.Fprintf(w, "Authority Key ID:\t%s\n", r.AuthorityKeyID)
	fmt.Fprintf(w, "Fingerprint:\t%s\n", r.Fingerprint)

	return w.Flush()
}

func colonHex(b []byte) string {
	parts := make([]string, len(b))
	for i := range b {
		parts[i] = hex.EncodeToString(b[i : i+1])
	}
	return strings.Join(parts, ":")
}
