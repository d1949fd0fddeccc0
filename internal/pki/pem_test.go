package pki

import (
	"bytes"
	"encoding/pem"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeKey(t *testing.T) {
	key, _ := testKeys(t)

	data := EncodeKey(key)
	block, rest := pem.Decode(data)
	require.NotNil(t, block)
	assert.Equal(t, "RSA PRIVATE KEY", block.Type)
	assert.Empty(t, rest)

	decoded, err := DecodeKey(data)
	require.NoError(t, err)
	assert.True(t, decoded.Private().Equal(key.Private()))
}

func TestEncodeCertificate(t *testing.T) {
	key, _ := testKeys(t)
	cert := signTestCertificate(t, key, RoleServer, nil)

	data := EncodeCertificate(cert)
	assert.True(t, bytes.HasPrefix(data, []byte("-----BEGIN CERTIFICATE-----\n")))
	assert.True(t, bytes.HasSuffix(data, []byte("-----END CERTIFICATE-----\n")))

	t.Run("decode after key block", func(t *testing.T) {
		bundle := bytes.Join([][]byte{EncodeKey(key), data}, []byte("\n"))
		decoded, err := DecodeCertificate(bundle)
		require.NoError(t, err)
		assert.Equal(t, cert.Raw, decoded.Raw)
	})

	t.Run("no certificate block", func(t *testing.T) {
		_, err := DecodeCertificate(EncodeKey(key))
		require.ErrorIs(t, err, ErrDecodeCertificate)
	})
}
