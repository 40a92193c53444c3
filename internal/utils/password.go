package utils

import (
	"crypto/rand"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"hash"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	hashIterations = 120000
	saltLength     = 16
	keyLength      = 32
	minIterations  = 10000
)

// HashPassword derives a salted PBKDF2-HMAC-SHA-256 hash and encodes it as
// pbkdf2$<iterations>$<saltB64>$<hashB64>. The iteration count travels with
// the hash, so it can be raised later without invalidating stored records.
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	key := pbkdf2.Key([]byte(password), salt, hashIterations, keyLength, sha256.New)
	return fmt.Sprintf("pbkdf2$%d$%s$%s",
		hashIterations,
		base64.StdEncoding.EncodeToString(salt),
		base64.StdEncoding.EncodeToString(key),
	), nil
}

// decodedHash is a stored password hash parsed from one of the supported
// encodings:
//
//	pbkdf2$<iterations>$<saltB64>$<hashB64>         (compact, written today)
//	v1:<algorithm>:<iterations>:<saltB64>:<hashB64> (labeled, legacy records)
type decodedHash struct {
	iterations int
	salt       []byte
	hash       []byte
}

func decodePasswordHash(encoded string) (decodedHash, bool) {
	raw := strings.TrimSpace(encoded)

	var itStr, saltB64, hashB64 string
	switch {
	case strings.HasPrefix(raw, "pbkdf2$"):
		parts := strings.Split(raw, "$")
		if len(parts) != 4 {
			return decodedHash{}, false
		}
		itStr, saltB64, hashB64 = parts[1], parts[2], parts[3]
	case strings.HasPrefix(raw, "v1:"):
		parts := strings.Split(raw, ":")
		if len(parts) != 5 || !strings.Contains(strings.ToLower(parts[1]), "pbkdf2") {
			return decodedHash{}, false
		}
		itStr, saltB64, hashB64 = parts[2], parts[3], parts[4]
	default:
		return decodedHash{}, false
	}

	iterations, err := strconv.Atoi(itStr)
	if err != nil || iterations < minIterations {
		return decodedHash{}, false
	}
	salt, ok := decodeB64(saltB64)
	if !ok || len(salt) == 0 {
		return decodedHash{}, false
	}
	storedHash, ok := decodeB64(hashB64)
	if !ok || len(storedHash) == 0 {
		return decodedHash{}, false
	}
	return decodedHash{iterations: iterations, salt: salt, hash: storedHash}, true
}

// decodeB64 accepts standard or URL-safe base64, padded or not.
func decodeB64(s string) ([]byte, bool) {
	norm := strings.NewReplacer("-", "+", "_", "/").Replace(s)
	if m := len(norm) % 4; m != 0 {
		norm += strings.Repeat("=", 4-m)
	}
	b, err := base64.StdEncoding.DecodeString(norm)
	if err != nil {
		return nil, false
	}
	return b, true
}

// verifyPrimitives are tried in order when checking a password. New hashes
// are always SHA-256; SHA-512 and SHA-1 exist only to decode records written
// by older deployments.
var verifyPrimitives = []func() hash.Hash{sha256.New, sha512.New, sha1.New}

// CheckPasswordHash reports whether password matches the encoded hash. It is
// pure: malformed, truncated or unsupported input yields false, never an
// error. The key is derived at the stored hash's length so legacy records
// with non-256-bit keys still verify, and the comparison is constant-time
// over the compared length.
func CheckPasswordHash(password, encoded string) bool {
	dec, ok := decodePasswordHash(encoded)
	if !ok {
		return false
	}
	for _, h := range verifyPrimitives {
		derived := pbkdf2.Key([]byte(password), dec.salt, dec.iterations, len(dec.hash), h)
		if subtle.ConstantTimeCompare(derived, dec.hash) == 1 {
			return true
		}
	}
	return false
}
