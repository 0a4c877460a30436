package auth

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tarjetajoven/internal/core/domain"
	"tarjetajoven/internal/core/ports"
)

// memoryStore is an in-memory KeyValueStore for tests.
type memoryStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: make(map[string][]byte)}
}

func (m *memoryStore) Get(key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.data[key]
	return value, ok, nil
}

func (m *memoryStore) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *memoryStore) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *memoryStore) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok
}

var _ ports.KeyValueStore = (*memoryStore)(nil) // Ensure compliance

func newTestTokenStore(backing ports.KeyValueStore) ports.TokenStore {
	logger := zerolog.Nop()
	return NewTokenStore(backing, &logger)
}

func TestTokenStore_SetPersistsAndNotifies(t *testing.T) {
	// 1. Arrange
	backing := newMemoryStore()
	store := newTestTokenStore(backing)

	var notified []*domain.AuthTokens
	store.Subscribe(func(tokens *domain.AuthTokens) {
		notified = append(notified, tokens)
	})

	refresh := "refresh-1"
	tokens := &domain.AuthTokens{AccessToken: "access-1", RefreshToken: &refresh}

	// 2. Act
	store.Set(tokens)

	// 3. Assert: value readable, persisted and fanned out.
	require.NotNil(t, store.Get())
	assert.Equal(t, "access-1", store.Get().AccessToken)
	assert.True(t, backing.has(StorageKey))
	require.Len(t, notified, 1)
	assert.Equal(t, "access-1", notified[0].AccessToken)

	// 4. Act: clear.
	store.Clear()

	// 5. Assert: slot empty everywhere, listeners told with nil.
	assert.Nil(t, store.Get())
	assert.False(t, backing.has(StorageKey))
	require.Len(t, notified, 2)
	assert.Nil(t, notified[1])
}

func TestTokenStore_GetReturnsACopy(t *testing.T) {
	store := newTestTokenStore(newMemoryStore())
	store.Set(&domain.AuthTokens{AccessToken: "access-1"})

	first := store.Get()
	first.AccessToken = "mutated"

	assert.Equal(t, "access-1", store.Get().AccessToken)
}

func TestTokenStore_UnsubscribeStopsNotifications(t *testing.T) {
	store := newTestTokenStore(newMemoryStore())

	calls := 0
	unsubscribe := store.Subscribe(func(*domain.AuthTokens) { calls++ })

	store.Set(&domain.AuthTokens{AccessToken: "a"})
	unsubscribe()
	store.Set(&domain.AuthTokens{AccessToken: "b"})

	assert.Equal(t, 1, calls)
}

func TestTokenStore_LoadsPersistedSlot(t *testing.T) {
	backing := newMemoryStore()
	raw, err := json.Marshal(domain.AuthTokens{AccessToken: "persisted"})
	require.NoError(t, err)
	require.NoError(t, backing.Set(StorageKey, raw))

	store := newTestTokenStore(backing)

	require.NotNil(t, store.Get())
	assert.Equal(t, "persisted", store.Get().AccessToken)
}

func TestTokenStore_CorruptSlotIsCleared(t *testing.T) {
	tests := []struct {
		name string
		raw  []byte
	}{
		{name: "not json", raw: []byte("{broken")},
		{name: "empty access token", raw: []byte(`{"accessToken":""}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backing := newMemoryStore()
			require.NoError(t, backing.Set(StorageKey, tt.raw))

			store := newTestTokenStore(backing)

			assert.Nil(t, store.Get())
			assert.False(t, backing.has(StorageKey), "corrupt slot must be removed")
		})
	}
}
