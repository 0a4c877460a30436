package ports

import "tarjetajoven/internal/core/domain"

// TokenListener is notified with the new value on every token-slot
// write, including clears (nil).
type TokenListener func(tokens *domain.AuthTokens)

// TokenStore owns the single persisted AuthTokens slot. Every write
// persists (or clears) storage and synchronously notifies all
// registered listeners, so independent consumers stay consistent
// without polling.
type TokenStore interface {
	// Get returns the current tokens, or nil when unauthenticated.
	Get() *domain.AuthTokens

	// Set persists the tokens (nil clears the slot) and notifies
	// listeners.
	Set(tokens *domain.AuthTokens)

	// Clear is shorthand for Set(nil).
	Clear()

	// Subscribe registers a listener and returns an unsubscribe func.
	Subscribe(listener TokenListener) (unsubscribe func())
}
