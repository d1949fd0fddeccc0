package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lindig/certify/internal/entropy"
	"github.com/lindig/certify/internal/pki"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func captureStdout(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	orig := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = orig })
	return &buf
}

func issueForInspect(t *testing.T, dir, name, role string) string {
	t.Helper()
	require.NoError(t, entropy.Init())

	out := filepath.Join(dir, name)
	cmd := &IssueCmd{Host: "host.example", AltNames: []string{"a.example"}, Days: 10, Bits: 1024, Role: role, Out: out}
	require.NoError(t, cmd.Run(context.Background(), &Globals{}))
	return out
}

func TestInspectCmd_Run(t *testing.T) {
	path := issueForInspect(t, t.TempDir(), "host.pem", "server")

	t.Run("text", func(t *testing.T) {
		buf := captureStdout(t)

		cmd := &InspectCmd{File: path, Format: "text"}
		require.NoError(t, cmd.Run(context.Background(), &Globals{}))

		out := buf.String()
		assert.Contains(t, out, "CN=host.example")
		assert.Contains(t, out, "server")
		assert.Contains(t, out, "a.example")
		assert.Contains(t, out, "RSA 1024 bits")
		assert.Contains(t, out, "days remaining")
	})

	t.Run("yaml", func(t *testing.T) {
		buf := captureStdout(t)

		cmd := &InspectCmd{File: path, Format: "yaml"}
		require.NoError(t, cmd.Run(context.Background(), &Globals{}))

		var report Report
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &report))
		assert.Equal(t, "CN=host.example", report.Subject)
		assert.Equal(t, "server", report.Role)
		assert.Equal(t, []string{"a.example"}, report.DNSNames)
		assert.False(t, report.Expired)
		assert.NotEmpty(t, report.Fingerprint)
	})
}

func TestInspect(t *testing.T) {
	dir := t.TempDir()
	a := issueForInspect(t, dir, "a.pem", "server")
	b := issueForInspect(t, dir, "b.pem", "client")

	dataA, err := os.ReadFile(a)
	require.NoError(t, err)
	dataB, err := os.ReadFile(b)
	require.NoError(t, err)

	t.Run("expired certificate", func(t *testing.T) {
		report, err := inspect(dataA, time.Now().Add(20*24*time.Hour))
		require.NoError(t, err)
		assert.True(t, report.Expired)
		assert.Negative(t, report.DaysRemaining)
	})

	t.Run("key from another file", func(t *testing.T) {
		keyA, err := pki.DecodeKey(dataA)
		require.NoError(t, err)
		certB, err := pki.DecodeCertificate(dataB)
		require.NoError(t, err)

		mixed := append(pki.EncodeKey(keyA), '\n')
		mixed = append(mixed, pki.EncodeCertificate(certB)...)

		_, err = inspect(mixed, time.Now())
		require.ErrorIs(t, err, pki.ErrKeyMismatch)
	})

	t.Run("certificate missing", func(t *testing.T) {
		keyA, err := pki.DecodeKey(dataA)
		require.NoError(t, err)

		_, err = inspect(pki.EncodeKey(keyA), time.Now())
		require.ErrorIs(t, err, pki.ErrDecodeCertificate)
	})

	t.Run("not a bundle", func(t *testing.T) {
		_, err := inspect([]byte("hello"), time.Now())
		require.ErrorIs(t, err, pki.ErrDecode)
	})
}

func TestColonHex(t *testing.T) {
	assert.Equal(t, "", colonHex(nil))
	assert.Equal(t, "0a:ff:00", colonHex([]byte{0x0a, 0xff, 0x00}))
}
