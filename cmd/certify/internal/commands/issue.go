package commands

import (
	"context"
	"fmt"
	"slices"

	"github.com/lindig/certify/internal/entropy"
	"github.com/lindig/certify/internal/hostnames"
	"github.com/lindig/certify/internal/issuer"
	"github.com/lindig/certify/internal/pki"
	"github.com/rs/zerolog/log"
)

const defaultKeyBits = 2048

// newDiscoverer finds local host names for --add-local-hostname
var newDiscoverer = hostnames.NewDiscoverer

// IssueCmd creates a self-signed certificate and its private key.
type IssueCmd struct {
	Host             string   `arg:"" help:"Subject common name, usually the host name."`
	AltNames         []string `help:"DNS names for the subject alternative name extension." short:"d" sep:"," env:"CERTIFY_ALT_NAMES"`
	Days             int      `help:"Validity in days." default:"3650" env:"CERTIFY_DAYS"`
	Bits             int      `help:"RSA key length when generating a key (default: 2048)." xor:"keysource" env:"CERTIFY_BITS"`
	Key              string   `help:"Reuse the RSA private key in this PEM file instead of generating one." type:"existingfile" xor:"keysource" env:"CERTIFY_KEY"`
	Role             string   `help:"Certificate role." enum:"ca,server,client" default:"server" env:"CERTIFY_ROLE"`
	Out              string   `help:"Output file (default: <host>.pem)." short:"o" type:"path" env:"CERTIFY_OUT"`
	AddLocalHostname bool     `help:"Add the local host name and its canonical DNS name to the alternative names."`
}

func (cmd *IssueCmd) Run(ctx context.Context, globals *Globals) error {
	random, err := entropy.Reader()
	if err != nil {
		return err
	}

	role, err := pki.ParseRole(cmd.Role)
	if err != nil {
		return err
	}

	names := cmd.AltNames
	if cmd.AddLocalHostname {
		local, err := newDiscoverer().Discover(ctx)
		if err != nil {
			return fmt.Errorf("failed to discover local host names: %w", err)
		}
		names = slices.Concat(cmd.AltNames, local)
	}

	names, err = hostnames.Normalize(names)
	if err != nil {
		return err
	}

	out := cmd.Out
	if out == "" {
		out = cmd.Host + ".pem"
	}

	log.Debug().
		Str("host", cmd.Host).
		Strs("alt_names", names).
		Str("role", role.String()).
		Int("days", cmd.Days).
		Str("out", out).
		Msg("Issuing certificate")

	_, err = issuer.New(random).Issue(issuer.Params{
		CommonName: cmd.Host,
		AltNames:   names,
		Key:        cmd.keySource(),
		Days:       cmd.Days,
		Role:       role,
	}, out)
	return err
}

// keySource resolves --key / --bits into a single key source.
func (cmd *IssueCmd) keySource() pki.KeySource {
	if cmd.Key != "" {
		return pki.LoadKey{Path: cmd.Key}
	}

	bits := cmd.Bits
	if bits == 0 {
		bits = defaultKeyBits
	}
	return pki.GenerateKey{Bits: bits}
}
