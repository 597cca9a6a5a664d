// Package random provides seed material for the simulation's
// deterministic pseudo-random sources.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"time"
)

// NewSeed returns a seed drawn from the operating system's entropy source
func NewSeed() (int64, error) {
	var buf [8]byte
	if _, err := crand.Read(buf[:]); err != nil {
		return 0, fmt.Errorf("reading entropy: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(buf[:])), nil
}

// MustSeed returns a crypto seed, falling back to the wall clock when the
// entropy source is unavailable.
func MustSeed() int64 {
	seed, err := NewSeed()
	if err != nil {
		return time.Now().UnixNano()
	}
	return seed
}
