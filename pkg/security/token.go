package security

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// offerTokenBytes is the raw entropy behind a public acceptance token.
// 32 bytes of CSPRNG output makes guessing infeasible.
const offerTokenBytes = 32

// NewOfferToken returns a fresh, URL-safe acceptance token.
func NewOfferToken() (string, error) {
	buf := make([]byte, offerTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("reading token entropy: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
