// Package secrets obfuscates values kept in the session store.
package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
)

// ErrMalformed is returned by Open for values that were not produced by Seal
// with the same key.
var ErrMalformed = errors.New("sealed value is malformed")

// Sealer encrypts short strings with AES-GCM under a per-user key.
// Not a replacement for OS keychains but avoids plain-text tokens on disk.
type Sealer struct {
	aead cipher.AEAD
}

// NewSealer derives the key from scope, the OS and the current user.
func NewSealer(scope string) (*Sealer, error) {
	base := fmt.Sprintf("se-%s-%s-%s", scope, runtime.GOOS, os.Getenv("USER"))
	key := sha256.Sum256([]byte(base))
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &Sealer{aead: gcm}, nil
}

// Seal returns base64(nonce || ciphertext).
func (s *Sealer) Seal(plain string) (string, error) {
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}
	ct := s.aead.Seal(nonce, nonce, []byte(plain), nil)
	return base64.StdEncoding.EncodeToString(ct), nil
}

func (s *Sealer) Open(sealed string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	n := s.aead.NonceSize()
	if len(raw) < n {
		return "", fmt.Errorf("%w: too short", ErrMalformed)
	}
	pt, err := s.aead.Open(nil, raw[:n], raw[n:], nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return string(pt), nil
}
