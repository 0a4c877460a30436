package ports

import (
	"context"

	"tarjetajoven/internal/core/domain"
)

// EventSender delivers a single analytics event to the remote
// collector. A delivery counts as successful only when the transport
// confirms it; network errors, non-2xx responses and transport panics
// are all failures.
type EventSender interface {
	Send(ctx context.Context, event domain.Event) error
}

// ConnectivityHandler is invoked with the new state on every
// online/offline transition.
type ConnectivityHandler func(online bool)

// Connectivity exposes the platform online/offline signal. The browser
// build wires real events; tests and the CLI use a manual switch.
type Connectivity interface {
	// Online reports the last known connectivity state.
	Online() bool

	// Subscribe registers a handler for state transitions.
	Subscribe(handler ConnectivityHandler)
}
