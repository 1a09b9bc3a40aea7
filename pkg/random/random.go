// Package random generates random short-link codes.
package random

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

// Alphabet is the 62-character set codes are drawn from. 62^7 candidate
// codes make collisions negligible at realistic table sizes.
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// NewRandomString returns a string of length characters drawn uniformly at
// random from Alphabet, using crypto/rand.
func NewRandomString(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("invalid length: %d", length)
	}

	var b strings.Builder
	b.Grow(length)
	max := big.NewInt(int64(len(Alphabet)))
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to read random bytes: %w", err)
		}
		b.WriteByte(Alphabet[n.Int64()])
	}
	return b.String(), nil
}
