package utils

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"math/big"
)

const sessionTokenBytes = 32

// NewSessionToken returns a URL-safe opaque token with 32 bytes of entropy,
// enough to make guessing a live session infeasible.
func NewSessionToken() (string, error) {
	b := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// tempPasswordChars omits lookalikes (0/O, 1/l/I) so the password survives
// being read over the phone.
const tempPasswordChars = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnpqrstuvwxyz23456789"

const tempPasswordLength = 10

// NewTempPassword generates a one-time password handed out when an admin
// creates a user or resets a password.
func NewTempPassword() (string, error) {
	out := make([]byte, tempPasswordLength)
	max := big.NewInt(int64(len(tempPasswordChars)))
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate temp password: %w", err)
		}
		out[i] = tempPasswordChars[n.Int64()]
	}
	return string(out), nil
}
