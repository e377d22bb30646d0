// Package cryptox implements the symmetric encryption primitives used by the
// server: a per-field cipher for sensitive credential attributes and
// password-hashing helpers for user authentication.
package cryptox

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/vaultkeeper/vaultkeeper/internal/common"
)

// KeySize is the required key length for the field cipher (AES-256).
const KeySize = 32

// FieldCipher encrypts and decrypts individual sensitive string fields with
// AES-256-CBC. Every Encrypt call draws a fresh random IV, so two
// encryptions of the same plaintext never produce the same stored value.
//
// The stored form is "iv_hex:ciphertext_hex", which makes each value
// self-contained for decryption.
type FieldCipher struct {
	key []byte
}

// NewFieldCipher constructs a FieldCipher from a 32-byte key.
func NewFieldCipher(key []byte) (*FieldCipher, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("field cipher key must be %d bytes, got %d", KeySize, len(key))
	}
	k := make([]byte, KeySize)
	copy(k, key)
	return &FieldCipher{key: k}, nil
}

// NewFieldCipherFromHex constructs a FieldCipher from a hex-encoded 32-byte
// key, the form the key takes in configuration.
func NewFieldCipherFromHex(hexKey string) (*FieldCipher, error) {
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("invalid hex encryption key: %w", err)
	}
	c, err := NewFieldCipher(key)
	common.WipeByteArray(key)
	return c, err
}

// Encrypt encrypts a plaintext field value and returns its stored form.
func (c *FieldCipher) Encrypt(plaintext string) (string, error) {
	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", err
	}

	iv := make([]byte, aes.BlockSize)
	if _, err := rand.Read(iv); err != nil {
		return "", err
	}

	padded := pkcs7Pad([]byte(plaintext), aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	return hex.EncodeToString(iv) + ":" + hex.EncodeToString(ciphertext), nil
}

// Decrypt reverses Encrypt. Any failure — malformed stored value, truncated
// ciphertext, or bad padding after decryption — wraps common.ErrorIntegrity:
// stored ciphertext that cannot be decrypted is corrupt data, never a value
// to silently pass through.
func (c *FieldCipher) Decrypt(stored string) (string, error) {
	ivHex, ctHex, ok := strings.Cut(stored, ":")
	if !ok {
		return "", fmt.Errorf("%w: stored value is not iv:ciphertext", common.ErrorIntegrity)
	}

	iv, err := hex.DecodeString(ivHex)
	if err != nil || len(iv) != aes.BlockSize {
		return "", fmt.Errorf("%w: malformed iv", common.ErrorIntegrity)
	}
	ciphertext, err := hex.DecodeString(ctHex)
	if err != nil {
		return "", fmt.Errorf("%w: malformed ciphertext", common.ErrorIntegrity)
	}
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return "", fmt.Errorf("%w: ciphertext is not block-aligned", common.ErrorIntegrity)
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", err
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)

	unpadded, err := pkcs7Unpad(plaintext, aes.BlockSize)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrorIntegrity, err)
	}
	return string(unpadded), nil
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	return append(data, bytes.Repeat([]byte{byte(n)}, n)...)
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, fmt.Errorf("invalid padded length %d", len(data))
	}
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize {
		return nil, fmt.Errorf("invalid padding byte %d", n)
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, fmt.Errorf("inconsistent padding")
		}
	}
	return data[:len(data)-n], nil
}
