// Package settings decodes the per-installation configuration the platform
// delivers as encrypted private metadata: the provider instance list, the
// channel-to-provider mapping, and the tax-code match tables. Its resolver
// turns a channel slug plus raw metadata into a ready-to-call tax provider.
package settings

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
)

// Metadata values are sealed with AES-256-GCM under a key derived from the
// app-wide secret. The wire format is base64(nonce || ciphertext).

func gcmFromSecret(secret string) (cipher.AEAD, error) {
	key := sha256.Sum256([]byte(secret))
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// EncryptValue seals a metadata value with the app secret.
func EncryptValue(secret, plaintext string) (string, error) {
	gcm, err := gcmFromSecret(secret)
	if err != nil {
		return "", fmt.Errorf("initializing cipher: %w", err)
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generating nonce: %w", err)
	}
	sealed := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// DecryptValue opens a metadata value sealed by EncryptValue. Any tampering
// or a wrong secret surfaces as an error, never as garbage plaintext.
func DecryptValue(secret, encoded string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("decoding metadata value: %w", err)
	}
	gcm, err := gcmFromSecret(secret)
	if err != nil {
		return "", fmt.Errorf("initializing cipher: %w", err)
	}
	if len(raw) < gcm.NonceSize() {
		return "", fmt.Errorf("metadata value too short")
	}
	nonce, ciphertext := raw[:gcm.NonceSize()], raw[gcm.NonceSize():]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("opening metadata value: %w", err)
	}
	return string(plaintext), nil
}
