package cryptox

import (
	"crypto/subtle"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters for credential hashing.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
)

// HashPassword derives a 32-byte argon2id hash of password with the given
// per-user salt.
func HashPassword(password string, salt []byte) []byte {
	return argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)
}

// VerifyPassword reports whether candidate hashes to the stored value under
// the same salt, in constant time.
func VerifyPassword(candidate string, salt, stored []byte) bool {
	hash := HashPassword(candidate, salt)
	return subtle.ConstantTimeCompare(hash, stored) == 1
}
