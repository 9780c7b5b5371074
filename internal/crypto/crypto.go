// Package crypto seals the Meshery session token before it is written to the
// settings file. The key is derived from the user and machine, so a copied
// settings file does not carry a usable token.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strings"
)

// SealedPrefix marks a sealed token in the settings file
const SealedPrefix = "ENC:"

const keyContext = "adapterctl-token-key-v1"

// ErrMalformed is returned for sealed values that cannot be decoded
var ErrMalformed = errors.New("malformed sealed token")

// Sealer seals and opens tokens with AES-GCM
type Sealer struct {
	aead cipher.AEAD
}

// NewSealer builds a Sealer keyed for the current user and host
func NewSealer() (*Sealer, error) {
	key, err := machineKey()
	if err != nil {
		return nil, fmt.Errorf("failed to derive token key: %w", err)
	}
	return newSealerWithKey(key)
}

func newSealerWithKey(key []byte) (*Sealer, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &Sealer{aead: aead}, nil
}

// machineKey hashes the home directory and hostname into a 32 byte key
func machineKey() ([]byte, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	host, _ := os.Hostname()
	if host == "" {
		host = "unknown"
	}
	sum := sha256.Sum256([]byte(strings.Join([]string{home, host, keyContext}, "|")))
	return sum[:], nil
}

// Seal encrypts token. The empty token stays empty.
func (s *Sealer) Seal(token string) (string, error) {
	if token == "" {
		return "", nil
	}
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	out := s.aead.Seal(nonce, nonce, []byte(token), nil)
	return SealedPrefix + base64.StdEncoding.EncodeToString(out), nil
}

// Open decrypts a value produced by Seal
func (s *Sealer) Open(sealed string) (string, error) {
	if sealed == "" {
		return "", nil
	}
	raw, ok := decode(sealed)
	if !ok || len(raw) < s.aead.NonceSize() {
		return "", ErrMalformed
	}
	n := s.aead.NonceSize()
	plain, err := s.aead.Open(nil, raw[:n], raw[n:], nil)
	if err != nil {
		return "", fmt.Errorf("failed to open token: %w", err)
	}
	return string(plain), nil
}

// Reveal returns the plaintext of a stored token; tokens saved before sealing
// was enabled come back unchanged.
func (s *Sealer) Reveal(stored string) (string, error) {
	if !IsSealed(stored) {
		return stored, nil
	}
	return s.Open(stored)
}

// IsSealed reports whether value carries the prefix and enough bytes for a
// nonce and tag.
func IsSealed(value string) bool {
	raw, ok := decode(value)
	return ok && len(raw) >= 20
}

func decode(value string) ([]byte, bool) {
	data, found := strings.CutPrefix(value, SealedPrefix)
	if !found {
		return nil, false
	}
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, false
	}
	return raw, true
}
