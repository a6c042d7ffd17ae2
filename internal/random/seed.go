// Package random generates seeds for replayable simulations.
//
// Combat runs are deterministic once a seed is fixed, so the only
// randomness in the system is choosing a seed when the caller does not
// supply one. That choice comes from crypto/rand to avoid collisions
// between runs started in the same instant.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
)

// NewSeed returns a fresh seed suitable for starting a combat run.
func NewSeed() (int64, error) {
	var buf [8]byte
	if _, err := crand.Read(buf[:]); err != nil {
		return 0, fmt.Errorf("read seed entropy: %w", err)
	}

	return int64(binary.LittleEndian.Uint64(buf[:])), nil
}
