package runner

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"time"
)

// Run IDs are a UTC second timestamp plus a short random suffix, so
// lexical order is chronological order and simultaneous runs stay
// distinct.
const (
	runIDTimeLayout  = "20060102T150405Z"
	runIDSuffixBytes = 6
)

// NewRunID returns an identifier for a new run.
func NewRunID() (string, error) {
	return NewRunIDWithRand(time.Now(), rand.Reader)
}

// NewRunIDWithRand builds a run ID from an explicit clock reading and
// entropy source.
func NewRunIDWithRand(now time.Time, entropy io.Reader) (string, error) {
	if entropy == nil {
		return "", fmt.Errorf("entropy source is nil")
	}
	suffix := make([]byte, runIDSuffixBytes)
	if _, err := io.ReadFull(entropy, suffix); err != nil {
		return "", fmt.Errorf("read run id entropy: %w", err)
	}
	return FormatRunID(now, hex.EncodeToString(suffix)), nil
}

// FormatRunID joins a timestamp and suffix into the canonical form.
func FormatRunID(now time.Time, suffix string) string {
	return now.UTC().Format(runIDTimeLayout) + "-" + suffix
}
