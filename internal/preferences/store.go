package preferences

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"

	"tarjetajoven/internal/core/domain"
	"tarjetajoven/internal/core/ports"
)

// StorageKey is the persisted preferences slot.
const StorageKey = "tj_preferences"

// Listener is notified with the new preferences on every mutation.
type Listener func(prefs domain.Preferences)

// Store owns the persisted user preferences. Stored partials are
// merged over the defaults on load; a corrupt slot restores defaults.
type Store struct {
	mu        sync.RWMutex
	current   domain.Preferences
	listeners map[int]Listener
	nextID    int

	store ports.KeyValueStore
	log   zerolog.Logger
}

// New loads the persisted preferences and returns the store.
func New(store ports.KeyValueStore, baseLogger *zerolog.Logger) *Store {
	s := &Store{
		current:   domain.DefaultPreferences(),
		listeners: make(map[int]Listener),
		store:     store,
		log:       baseLogger.With().Str("component", "preferences").Logger(),
	}

	raw, ok, err := store.Get(StorageKey)
	if err != nil {
		s.log.Warn().Err(err).Msg("Could not read preferences, using defaults")
		return s
	}
	if !ok {
		return s
	}

	// Merge stored partials over defaults so new fields pick up their
	// default when an older slot is loaded.
	merged := domain.DefaultPreferences()
	if err := json.Unmarshal(raw, &merged); err != nil {
		s.log.Warn().Err(err).Msg("Preferences slot is malformed, restoring defaults")
		return s
	}
	if merged.Language != domain.LanguageSpanish && merged.Language != domain.LanguageEnglish {
		merged.Language = domain.LanguageSpanish
	}
	if merged.Theme != domain.ThemeLight && merged.Theme != domain.ThemeDark {
		merged.Theme = domain.ThemeLight
	}

	s.current = merged
	return s
}

// Get returns the current preferences.
func (s *Store) Get() domain.Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// SetLanguage updates and persists the UI language.
func (s *Store) SetLanguage(language domain.Language) {
	s.update(func(prefs *domain.Preferences) { prefs.Language = language })
}

// SetTheme updates and persists the UI theme.
func (s *Store) SetTheme(theme domain.Theme) {
	s.update(func(prefs *domain.Preferences) { prefs.Theme = theme })
}

// SetNotificationsEnabled updates and persists the notification flag.
func (s *Store) SetNotificationsEnabled(enabled bool) {
	s.update(func(prefs *domain.Preferences) { prefs.NotificationsEnabled = enabled })
}

// Subscribe registers a listener and returns an unsubscribe func.
func (s *Store) Subscribe(listener Listener) func() {
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

func (s *Store) update(mutate func(prefs *domain.Preferences)) {
	s.mu.Lock()
	mutate(&s.current)
	current := s.current

	if raw, err := json.Marshal(current); err == nil {
		if err := s.store.Set(StorageKey, raw); err != nil {
			s.log.Warn().Err(err).Msg("Could not persist preferences")
		}
	}

	listeners := make([]Listener, 0, len(s.listeners))
	for _, listener := range s.listeners {
		listeners = append(listeners, listener)
	}
	s.mu.Unlock()

	for _, listener := range listeners {
		listener(current)
	}
}
