package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
)

// ResetTokenBytes is the entropy of a raw password-reset token.
const ResetTokenBytes = 32

// GenerateResetToken returns a raw high-entropy reset token as a hex string.
// Only its sha256 digest may be persisted; the raw value goes into the
// reset URL emailed to the user and exists nowhere else.
func GenerateResetToken() (string, error) {
	buf := make([]byte, ResetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// HashResetToken returns the hex-encoded sha256 digest of a raw reset token.
// The digest is what gets stored on the user record and matched on reset.
func HashResetToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
