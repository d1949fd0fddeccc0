package hostnames

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{
			name:  "empty",
			input: nil,
			want:  []string{},
		},
		{
			name:  "drops blanks and duplicates",
			input: []string{"b.example", "", "  ", "a.example", "b.example"},
			want:  []string{"a.example", "b.example"},
		},
		{
			name:  "lowercases and trims",
			input: []string{" Host.Example. "},
			want:  []string{"host.example"},
		},
		{
			name:  "converts unicode to A-labels",
			input: []string{"bücher.example"},
			want:  []string{"xn--bcher-kva.example"},
		},
		{
			name:  "keeps wildcard",
			input: []string{"*.Example.com"},
			want:  []string{"*.example.com"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("rejects invalid names", func(t *testing.T) {
		_, err := Normalize([]string{"exa mple.com"})
		require.Error(t, err)
	})
}

type fakeResolver struct {
	cname string
	err   error
}

func (f fakeResolver) LookupCNAME(context.Context, string) (string, error) {
	return f.cname, f.err
}

func TestDiscoverer_Discover(t *testing.T) {
	hostname := func() (string, error) { return "Box", nil }

	t.Run("hostname and canonical name", func(t *testing.T) {
		d := &Discoverer{Hostname: hostname, Resolver: fakeResolver{cname: "box.corp.example."}}

		names, err := d.Discover(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"box", "box.corp.example"}, names)
	})

	t.Run("resolution failure is ignored", func(t *testing.T) {
		d := &Discoverer{Hostname: hostname, Resolver: fakeResolver{err: errors.New("no such host")}}

		names, err := d.Discover(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"box"}, names)
	})

	t.Run("hostname failure", func(t *testing.T) {
		d := &Discoverer{Hostname: func() (string, error) { return "", errors.New("boom") }}

		_, err := d.Discover(context.Background())
		require.Error(t, err)
	})
}
