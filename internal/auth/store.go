package auth

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"

	"tarjetajoven/internal/core/domain"
	"tarjetajoven/internal/core/ports"
)

// StorageKey is the single persisted slot for the session tokens.
const StorageKey = "tj.auth.tokens"

// tokenStore implements ports.TokenStore. Every write persists (or
// clears) storage and synchronously notifies all listeners, the same
// fan-out shape as the in-process event bus.
type tokenStore struct {
	mu        sync.RWMutex
	current   *domain.AuthTokens
	listeners map[int]ports.TokenListener
	nextID    int

	store ports.KeyValueStore
	log   zerolog.Logger
}

var _ ports.TokenStore = (*tokenStore)(nil) // Ensure compliance

// NewTokenStore loads the persisted slot and returns the store. A
// corrupt slot is removed and treated as unauthenticated.
func NewTokenStore(store ports.KeyValueStore, baseLogger *zerolog.Logger) ports.TokenStore {
	s := &tokenStore{
		listeners: make(map[int]ports.TokenListener),
		store:     store,
		log:       baseLogger.With().Str("component", "token_store").Logger(),
	}

	raw, ok, err := store.Get(StorageKey)
	if err != nil {
		s.log.Warn().Err(err).Msg("Could not read persisted tokens")
		return s
	}
	if !ok {
		return s
	}

	var tokens domain.AuthTokens
	if err := json.Unmarshal(raw, &tokens); err != nil || tokens.AccessToken == "" {
		s.log.Warn().Msg("Persisted tokens are malformed, clearing slot")
		if err := store.Delete(StorageKey); err != nil {
			s.log.Warn().Err(err).Msg("Could not clear token slot")
		}
		return s
	}

	s.current = &tokens
	return s
}

func (s *tokenStore) Get() *domain.AuthTokens {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	copied := *s.current
	return &copied
}

func (s *tokenStore) Set(tokens *domain.AuthTokens) {
	s.mu.Lock()
	if tokens == nil {
		s.current = nil
		if err := s.store.Delete(StorageKey); err != nil {
			s.log.Warn().Err(err).Msg("Could not clear token slot")
		}
	} else {
		copied := *tokens
		s.current = &copied
		if raw, err := json.Marshal(copied); err == nil {
			if err := s.store.Set(StorageKey, raw); err != nil {
				s.log.Warn().Err(err).Msg("Could not persist tokens")
			}
		}
	}

	listeners := make([]ports.TokenListener, 0, len(s.listeners))
	for _, listener := range s.listeners {
		listeners = append(listeners, listener)
	}
	s.mu.Unlock()

	// Listeners run synchronously so every consumer observes the new
	// slot before the write returns.
	for _, listener := range listeners {
		listener(tokens)
	}
}

func (s *tokenStore) Clear() {
	s.Set(nil)
}

func (s *tokenStore) Subscribe(listener ports.TokenListener) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = listener
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}
