package pki

import (
	"fmt"
	"time"
)

const secondsPerDay = 24 * 60 * 60

// MaxNotAfter is the latest instant an X.509 GeneralizedTime can encode.
var MaxNotAfter = time.Date(9999, time.December, 31, 23, 59, 59, 0, time.UTC)

// Validity is the window during which a certificate is valid.
type Validity struct {
	NotBefore time.Time
	NotAfter  time.Time
}

// Duration returns the length of the window.
func (v Validity) Duration() time.Duration {
	return v.NotAfter.Sub(v.NotBefore)
}

// ComputeValidity returns a window starting at now and lasting the given
// number of days. Zero or negative day counts are rejected, as is any window
// ending after MaxNotAfter.
func ComputeValidity(days int, now time.Time) (Validity, error) {
	if days <= 0 {
		return Validity{}, fmt.Errorf("%w: validity must be at least one day, got %d", ErrRange, days)
	}

	// certificates carry whole seconds only
	notBefore := now.UTC().Truncate(time.Second)

	start := notBefore.Unix()
	limit := MaxNotAfter.Unix()
	if start > limit || int64(days) > (limit-start)/secondsPerDay {
		return Validity{}, fmt.Errorf("%w: %d days from %s exceeds %s", ErrRange, days, notBefore.Format(time.RFC3339), MaxNotAfter.Format(time.RFC3339))
	}

	notAfter := time.Unix(start+int64(days)*secondsPerDay, 0).UTC()

	return Validity{NotBefore: notBefore, NotAfter: notAfter}, nil
}
