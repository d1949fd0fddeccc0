// Package entropy owns the process-wide random source used for key
// generation and signing. Init must be called once at process start.
package entropy

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"sync"
)

// ErrNotInitialized is returned by Reader before a successful Init.
var ErrNotInitialized = errors.New("random source not initialized")

var (
	mu     sync.Mutex
	source io.Reader
)

// Init installs crypto/rand as the process random source after checking that
// it can be read. Calling Init again after success is a no-op.
func Init() error {
	return initWith(rand.Reader)
}

func initWith(r io.Reader) error {
	mu.Lock()
	defer mu.Unlock()

	if source != nil {
		return nil
	}

	var probe [16]byte
	if _, err := io.ReadFull(r, probe[:]); err != nil {
		return fmt.Errorf("failed to read random source: %w", err)
	}

	source = r
	return nil
}

// Reader returns the initialized random source.
func Reader() (io.Reader, error) {
	mu.Lock()
	defer mu.Unlock()

	if source == nil {
		return nil, ErrNotInitialized
	}
	return source, nil
}

// reset forgets the installed source
func reset() {
	mu.Lock()
	defer mu.Unlock()
	source = nil
}
