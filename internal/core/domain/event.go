package domain

import "time"

// EventName is a custom type for the fixed set of analytics events.
type EventName string

const (
	EventOpenApp      EventName = "open_app"
	EventOpenMap      EventName = "open_map"
	EventSearch       EventName = "search"
	EventFilter       EventName = "filter"
	EventOpenMerchant EventName = "open_merchant"
	EventInstallClick EventName = "install_click"
	EventInstalled    EventName = "installed"
)

// Event is a single queued analytics event. Once enqueued it is never
// mutated; the timestamp is assigned at enqueue time.
type Event struct {
	Name        EventName      `json:"event"`
	Payload     map[string]any `json:"payload,omitempty"`
	Timestamp   string         `json:"timestamp"`
	Environment string         `json:"environment"`
}

// NewEvent stamps an event with the current UTC time in ISO-8601 format
// and the active environment tag.
func NewEvent(name EventName, payload map[string]any, environment string) Event {
	return Event{
		Name:        name,
		Payload:     payload,
		Timestamp:   time.Now().UTC().Format(time.RFC3339Nano),
		Environment: environment,
	}
}
