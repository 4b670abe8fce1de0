package services

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
)

const (
	idLength  = 20
	idCharset = "abcdefghijklmnopqrstuvwxyz0123456789"
)

// NewID returns a random 20-character lowercase alphanumeric identifier, the
// key format shared by products, tokens and orders.
func NewID() string {
	b := make([]byte, idLength)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand failing means the process has no usable entropy source.
		panic("services: reading random bytes: " + err.Error())
	}
	for i := range b {
		b[i] = idCharset[int(b[i])%len(idCharset)]
	}
	return string(b)
}

// DeriveID maps an external reference onto a stable 20-character id. The
// same input always yields the same id, which makes creates keyed by it
// idempotent across retries.
func DeriveID(ref string) string {
	sum := sha256.Sum256([]byte(ref))
	return hex.EncodeToString(sum[:])[:idLength]
}
