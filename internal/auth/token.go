package auth

import (
	"crypto/rand"
	"encoding/hex"
)

// resetTokenBytes is the entropy of a password reset token before hex encoding.
const resetTokenBytes = 32

// GenerateResetToken returns a 64 character hex token from crypto/rand.
func GenerateResetToken() (string, error) {
	buf := make([]byte, resetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
