package account

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltSize        = 32
	digestIterCount = 10_000
	digestKeyLen    = 32
)

// GenerateSalt returns a new random per-account salt.
func GenerateSalt() string {
	buf := make([]byte, saltSize)
	if _, err := rand.Read(buf); err != nil {
		panic("account: salt generation failed: " + err.Error())
	}
	return base64.StdEncoding.EncodeToString(buf)
}

// HashPassword derives a one-way digest from the password and salt.
func HashPassword(password, salt string) string {
	key := pbkdf2.Key([]byte(password), []byte(salt), digestIterCount, digestKeyLen, sha256.New)
	return base64.StdEncoding.EncodeToString(key)
}

// VerifyPassword reports whether the password matches the stored digest.
// The comparison is constant-time in the digest contents.
func VerifyPassword(password, salt, storedHash string) bool {
	computed := HashPassword(password, salt)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(storedHash)) == 1
}
