package utils

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
)

// Hash generates a SHA-256 hash of the input string
func Hash(input string) string {
	hasher := sha256.New()
	hasher.Write([]byte(input))
	return hex.EncodeToString(hasher.Sum(nil))
}

// DeriveKey turns an arbitrary secret into a base64 encoded 32 byte key
func DeriveKey(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return base64.StdEncoding.EncodeToString(sum[:])
}
