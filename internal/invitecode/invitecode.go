// Package invitecode generates human-shareable invitation codes.
package invitecode

import (
	"crypto/rand"
	"fmt"
	"strings"
)

// alphabet excludes characters that read ambiguously over the phone
// (0/O, 1/I/L).
const alphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

const suffixLength = 4

// New returns a code like "HY25-AB12": the event prefix, a dash and four
// random characters from the unambiguous alphabet.
func New(prefix string) (string, error) {
	b := make([]byte, suffixLength)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate code: %w", err)
	}
	var sb strings.Builder
	for _, c := range b {
		sb.WriteByte(alphabet[int(c)%len(alphabet)])
	}
	return prefix + "-" + sb.String(), nil
}

// Normalize uppercases and trims a user-entered code so lookups are
// case-insensitive.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
