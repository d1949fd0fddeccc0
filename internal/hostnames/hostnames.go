// Package hostnames prepares DNS names for the subject alternative name
// extension.
package hostnames

import (
	"context"
	"fmt"
	"net"
	"os"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/net/idna"
)

// Normalize trims names, converts them to their ASCII (A-label) form, drops
// empty entries and duplicates and returns them sorted. A leading "*." wildcard
// label is preserved.
func Normalize(names []string) ([]string, error) {
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSuffix(strings.TrimSpace(name), ".")
		if name == "" {
			continue
		}

		ascii, err := toASCII(name)
		if err != nil {
			return nil, fmt.Errorf("invalid DNS name %q: %w", name, err)
		}
		out = append(out, ascii)
	}

	slices.Sort(out)
	return slices.Compact(out), nil
}

func toASCII(name string) (string, error) {
	if rest, ok := strings.CutPrefix(name, "*."); ok {
		ascii, err := idna.Lookup.ToASCII(rest)
		if err != nil {
			return "", err
		}
		return "*." + ascii, nil
	}
	return idna.Lookup.ToASCII(name)
}

// Resolver looks up canonical names. *net.Resolver satisfies it.
type Resolver interface {
	LookupCNAME(ctx context.Context, host string) (string, error)
}

// Discoverer finds the names of the local host.
type Discoverer struct {
	Hostname func() (string, error)
	Resolver Resolver
}

// NewDiscoverer returns a Discoverer backed by the operating system.
func NewDiscoverer() *Discoverer {
	return &Discoverer{
		Hostname: os.Hostname,
		Resolver: net.DefaultResolver,
	}
}

// Discover returns the local hostname and, when it resolves, its canonical
// DNS name. Resolution failures are logged and ignored.
func (d *Discoverer) Discover(ctx context.Context) ([]string, error) {
	hostname, err := d.Hostname()
	if err != nil {
		return nil, fmt.Errorf("failed to get hostname: %w", err)
	}

	names := []string{hostname}

	if d.Resolver != nil {
		cname, err := d.Resolver.LookupCNAME(ctx, hostname)
		switch {
		case err != nil:
			log.Warn().Err(err).Str("hostname", hostname).Msg("failed to resolve canonical name")
		case cname != "":
			names = append(names, cname)
		}
	}

	return Normalize(names)
}
