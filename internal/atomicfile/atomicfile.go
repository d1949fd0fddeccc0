// Package atomicfile writes files so that readers only ever observe the
// previous content or the complete new content.
//
// The temporary file is created in the destination directory and renamed over
// the destination. The rename is assumed to stay on one filesystem; a
// destination that is itself a mount point (e.g. a bind-mounted file) is not
// handled.
package atomicfile

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// FileMode is the permission of written files. They hold private keys.
const FileMode os.FileMode = 0600

var (
	// ErrIO is returned for any filesystem fault while persisting.
	ErrIO = errors.New("i/o error")

	// ErrPartialWrite is returned when fewer bytes reached the temporary file
	// than expected, with or without an underlying error such as a full disk.
	// The temporary file is kept for inspection.
	ErrPartialWrite = errors.New("partial write")
)

// Write persists keyPEM, a single newline and certPEM to path.
func Write(path string, keyPEM, certPEM []byte) error {
	return write(path, nil, keyPEM, []byte("\n"), certPEM)
}

// write streams parts into a temporary file next to path and renames it into
// place. wrap, when set, wraps the temporary file before writing.
func write(path string, wrap func(io.Writer) io.Writer, parts ...[]byte) (err error) {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: failed to create temp file: %w", ErrIO, err)
	}
	tmpPath := tmp.Name()

	keepTemp := false
	defer func() {
		// no-op after the explicit Close below
		_ = tmp.Close()
		if err != nil && !keepTemp {
			_ = os.Remove(tmpPath)
		}
	}()

	if err := tmp.Chmod(FileMode); err != nil {
		return fmt.Errorf("%w: failed to chmod temp file: %w", ErrIO, err)
	}

	var w io.Writer = tmp
	if wrap != nil {
		w = wrap(tmp)
	}

	expected := 0
	for _, p := range parts {
		expected += len(p)
	}

	written := 0
	for _, p := range parts {
		n, werr := w.Write(p)
		written += n
		if n < len(p) {
			keepTemp = true
			if werr == nil {
				werr = io.ErrShortWrite
			}
			return fmt.Errorf("%w: wrote %d of %d bytes, temp file kept at %s: %w", ErrPartialWrite, written, expected, tmpPath, werr)
		}
		if werr != nil {
			return fmt.Errorf("%w: failed to write temp file: %w", ErrIO, werr)
		}
	}

	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("%w: failed to sync temp file: %w", ErrIO, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: failed to close temp file: %w", ErrIO, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("%w: failed to rename temp file: %w", ErrIO, err)
	}

	log.Debug().
		Str("path", path).
		Int("bytes", written).
		Msg("file written atomically")

	return nil
}
