package pki

import (
	"crypto/rand"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	keyOnce  sync.Once
	keyCache [2]*KeyPair
	keyErr   error
)

// testKeys returns two distinct 2048-bit key pairs shared by all tests.
func testKeys(t *testing.T) (*KeyPair, *KeyPair) {
	t.Helper()
	keyOnce.Do(func() {
		for i := range keyCache {
			keyCache[i], keyErr = Generate(2048, rand.Reader)
			if keyErr != nil {
				return
			}
		}
	})
	require.NoError(t, keyErr)
	return keyCache[0], keyCache[1]
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("entropy exhausted")
}
