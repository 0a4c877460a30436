package filestore

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"tarjetajoven/internal/core/ports"
)

// sealedStore wraps a KeyValueStore with AES-GCM so session tokens are
// not readable at rest. Values that fail to open (tampered, corrupt,
// or written before sealing was enabled) are reported as absent, which
// downstream consumers already treat as an empty slot.
type sealedStore struct {
	inner ports.KeyValueStore
	gcm   cipher.AEAD
	log   zerolog.Logger
}

var _ ports.KeyValueStore = (*sealedStore)(nil) // Ensure compliance

// NewSealed wraps inner with AES-GCM encryption. The key must be 16 or
// 32 bytes.
func NewSealed(inner ports.KeyValueStore, key []byte, baseLogger *zerolog.Logger) (ports.KeyValueStore, error) {
	if len(key) != 16 && len(key) != 32 {
		return nil, errors.New("encryption key must be 16 or 32 bytes")
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("could not create AES cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("could not create GCM: %w", err)
	}

	return &sealedStore{
		inner: inner,
		gcm:   gcm,
		log:   baseLogger.With().Str("component", "sealed_store").Logger(),
	}, nil
}

func (s *sealedStore) Get(key string) ([]byte, bool, error) {
	sealed, ok, err := s.inner.Get(key)
	if err != nil || !ok {
		return nil, false, err
	}

	nonceSize := s.gcm.NonceSize()
	if len(sealed) < nonceSize {
		s.log.Warn().Str("key", key).Msg("Stored value is too short to open, treating as absent")
		return nil, false, nil
	}

	nonce, ciphertext := sealed[:nonceSize], sealed[nonceSize:]
	plain, err := s.gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("Could not open stored value (tampered or corrupt?), treating as absent")
		return nil, false, nil
	}
	return plain, true, nil
}

func (s *sealedStore) Set(key string, value []byte) error {
	nonce := make([]byte, s.gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return fmt.Errorf("could not generate nonce: %w", err)
	}
	return s.inner.Set(key, s.gcm.Seal(nonce, nonce, value, nil))
}

func (s *sealedStore) Delete(key string) error {
	return s.inner.Delete(key)
}
