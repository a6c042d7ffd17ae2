// Package id generates opaque identifiers for sessions and archived runs.
package id

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"strings"
)

// encoding spells identifiers in unpadded base32 so they stay short and
// URL-safe.
var encoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// NewID returns a 26-character lowercase identifier. The underlying
// bytes form a random v4 UUID, so uniqueness matches UUID guarantees
// while the text avoids hyphens and mixed case.
func NewID() (string, error) {
	var buf [16]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	stampUUIDv4(&buf)
	return strings.ToLower(encoding.EncodeToString(buf[:])), nil
}

// stampUUIDv4 sets the RFC 4122 version and variant bits.
func stampUUIDv4(buf *[16]byte) {
	buf[6] = buf[6]&0x0f | 0x40
	buf[8] = buf[8]&0x3f | 0x80
}
