package utils

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io"
)

// Cipher encrypts short texts (journal bodies) with AES-256-GCM.
type Cipher struct {
	gcm cipher.AEAD
}

// ParseEncryptionKey decodes a base64-encoded 32-byte key.
// Generate one with: openssl rand -base64 32
func ParseEncryptionKey(keyBase64 string) ([]byte, error) {
	if keyBase64 == "" {
		return nil, errors.New("ENCRYPTION_KEY not set")
	}

	keyBytes, err := base64.StdEncoding.DecodeString(keyBase64)
	if err != nil {
		return nil, errors.New("ENCRYPTION_KEY must be base64-encoded")
	}

	// Key must be 32 bytes for AES-256
	if len(keyBytes) != 32 {
		return nil, errors.New("ENCRYPTION_KEY must decode to exactly 32 bytes (256 bits)")
	}

	return keyBytes, nil
}

// NewCipher builds a Cipher from a base64-encoded key.
func NewCipher(keyBase64 string) (*Cipher, error) {
	key, err := ParseEncryptionKey(keyBase64)
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &Cipher{gcm: gcm}, nil
}

// Encrypt encrypts plaintext. The nonce is prepended to the ciphertext.
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}

	nonce := make([]byte, c.gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	ciphertext := c.gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// Decrypt reverses Encrypt.
func (c *Cipher) Decrypt(ciphertext string) (string, error) {
	if ciphertext == "" {
		return "", nil
	}

	data, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", err
	}

	nonceSize := c.gcm.NonceSize()
	if len(data) < nonceSize {
		return "", errors.New("ciphertext too short")
	}

	nonce, ciphertextBytes := data[:nonceSize], data[nonceSize:]
	plaintext, err := c.gcm.Open(nil, nonce, ciphertextBytes, nil)
	if err != nil {
		return "", err
	}

	return string(plaintext), nil
}
