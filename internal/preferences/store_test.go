package preferences

import (
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

var _ ports.KeyValueStore = (*memoryStore)(nil) // Ensure compliance

func newTestStore(backing ports.KeyValueStore) *Store {
	logger := zerolog.Nop()
	return New(backing, &logger)
}

func TestStore_StartsWithDefaults(t *testing.T) {
	store := newTestStore(newMemoryStore())

	prefs := store.Get()
	assert.Equal(t, domain.LanguageSpanish, prefs.Language)
	assert.Equal(t, domain.ThemeLight, prefs.Theme)
	assert.True(t, prefs.NotificationsEnabled)
}

func TestStore_MutationsPersistAcrossSessions(t *testing.T) {
	backing := newMemoryStore()
	store := newTestStore(backing)

	store.SetLanguage(domain.LanguageEnglish)
	store.SetTheme(domain.ThemeDark)
	store.SetNotificationsEnabled(false)

	reopened := newTestStore(backing)
	prefs := reopened.Get()
	assert.Equal(t, domain.LanguageEnglish, prefs.Language)
	assert.Equal(t, domain.ThemeDark, prefs.Theme)
	assert.False(t, prefs.NotificationsEnabled)
}

func TestStore_PartialSlotMergesOverDefaults(t *testing.T) {
	backing := newMemoryStore()
	require.NoError(t, backing.Set(StorageKey, []byte(`{"theme":"dark"}`)))

	store := newTestStore(backing)

	prefs := store.Get()
	assert.Equal(t, domain.ThemeDark, prefs.Theme)
	assert.Equal(t, domain.LanguageSpanish, prefs.Language, "missing fields keep their default")
	assert.True(t, prefs.NotificationsEnabled)
}

func TestStore_InvalidValuesFallBackToDefaults(t *testing.T) {
	backing := newMemoryStore()
	require.NoError(t, backing.Set(StorageKey, []byte(`{"language":"fr","theme":"sepia"}`)))

	store := newTestStore(backing)

	prefs := store.Get()
	assert.Equal(t, domain.LanguageSpanish, prefs.Language)
	assert.Equal(t, domain.ThemeLight, prefs.Theme)
}

func TestStore_MalformedSlotRestoresDefaults(t *testing.T) {
	backing := newMemoryStore()
	require.NoError(t, backing.Set(StorageKey, []byte("{broken")))

	store := newTestStore(backing)

	assert.Equal(t, domain.DefaultPreferences(), store.Get())
}

func TestStore_SubscribeAndUnsubscribe(t *testing.T) {
	store := newTestStore(newMemoryStore())

	var seen []domain.Preferences
	unsubscribe := store.Subscribe(func(prefs domain.Preferences) {
		seen = append(seen, prefs)
	})

	store.SetTheme(domain.ThemeDark)
	require.Len(t, seen, 1)
	assert.Equal(t, domain.ThemeDark, seen[0].Theme)

	unsubscribe()
	store.SetTheme(domain.ThemeLight)
	assert.Len(t, seen, 1)
}
