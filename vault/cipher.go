package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

const (
	keyIterations = 4096
	keyLength     = 32
)

// keySalt is fixed on purpose: the secret itself ships with the client, so a
// per-value salt would add nothing. See the package note on fail-open reads —
// this layer deters casual inspection of the stored session, it is not a
// confidentiality boundary.
var keySalt = []byte("admincore.vault.v1")

type sealer struct {
	aead cipher.AEAD
}

func newSealer(secret string) (*sealer, error) {
	if secret == "" {
		return nil, errors.New("vault secret required")
	}

	key := pbkdf2.Key([]byte(secret), keySalt, keyIterations, keyLength, sha256.New)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("vault cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("vault gcm: %w", err)
	}

	return &sealer{aead: aead}, nil
}

// seal produces nonce||ciphertext with a fresh random nonce per call.
func (s *sealer) seal(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return s.aead.Seal(nonce, nonce, plaintext, nil), nil
}

// open reverses seal. Any truncation, bit flip, or wrong secret fails the
// GCM tag check and returns an error.
func (s *sealer) open(sealed []byte) ([]byte, error) {
	nonceSize := s.aead.NonceSize()
	if len(sealed) < nonceSize {
		return nil, errors.New("ciphertext too short")
	}
	return s.aead.Open(nil, sealed[:nonceSize], sealed[nonceSize:], nil)
}
