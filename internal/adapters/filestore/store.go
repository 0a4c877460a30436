package filestore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"tarjetajoven/internal/core/ports"
)

// fileStore implements ports.KeyValueStore with one file per key under
// a data directory. Writes go through a temp file plus rename so a
// crash leaves either the old value or the new one, never a torn file.
type fileStore struct {
	dir string
	log zerolog.Logger
	mu  sync.Mutex
}

var _ ports.KeyValueStore = (*fileStore)(nil) // Ensure compliance

// New creates the data directory if needed and returns a store rooted
// in it.
func New(dir string, baseLogger *zerolog.Logger) (ports.KeyValueStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("could not create data dir %s: %w", dir, err)
	}
	return &fileStore{
		dir: dir,
		log: baseLogger.With().Str("component", "file_store").Logger(),
	}, nil
}

func (s *fileStore) Get(key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		s.log.Error().Err(err).Str("key", key).Msg("Failed to read storage key")
		return nil, false, err
	}
	return data, true, nil
}

func (s *fileStore) Set(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	target := s.path(key)
	tmp := target + ".tmp"

	if err := os.WriteFile(tmp, value, 0o600); err != nil {
		s.log.Error().Err(err).Str("key", key).Msg("Failed to write storage key")
		return err
	}
	return os.Rename(tmp, target)
}

func (s *fileStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		s.log.Error().Err(err).Str("key", key).Msg("Failed to delete storage key")
		return err
	}
	return nil
}

// path maps a storage key to a file name. Keys are dot/underscore
// identifiers (tj_analytics_queue, tj.auth.tokens); anything outside
// a safe character set is replaced so a key can never escape the dir.
func (s *fileStore) path(key string) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, key)
	return filepath.Join(s.dir, safe+".json")
}
