package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/argon2"
)

const (
	saltLen = 16
	keyLen  = 32

	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
)

// HashPassword derives an argon2id key for password under a fresh random
// salt. Both are returned hex encoded.
func HashPassword(password string) (salt, hash string, err error) {
	s := make([]byte, saltLen)
	if _, err := rand.Read(s); err != nil {
		return "", "", fmt.Errorf("generate salt: %w", err)
	}
	return hex.EncodeToString(s), hex.EncodeToString(deriveKey(password, s)), nil
}

// VerifyPassword recomputes the key for password under salt and compares it
// to hash in constant time.
func VerifyPassword(password, salt, hash string) bool {
	s, err := hex.DecodeString(salt)
	if err != nil {
		return false
	}
	want, err := hex.DecodeString(hash)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(deriveKey(password, s), want) == 1
}

func deriveKey(password string, salt []byte) []byte {
	return argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, keyLen)
}
