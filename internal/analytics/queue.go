package analytics

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"

	"tarjetajoven/internal/core/domain"
	"tarjetajoven/internal/core/ports"
)

// StorageKey is the single slot holding the full ordered queue. An
// empty queue removes the key instead of storing an empty array.
const StorageKey = "tj_analytics_queue"

// Queue buffers outbound telemetry so no event is lost to a transient
// offline period or a process restart. Events are delivered strictly
// head to tail, at least once each: an event leaves the queue only
// after the sender confirms delivery.
type Queue struct {
	mu       sync.Mutex
	events   []domain.Event
	flushing bool

	store       ports.KeyValueStore
	sender      ports.EventSender
	conn        ports.Connectivity
	environment string
	log         zerolog.Logger
}

// New loads any queue persisted by a prior session, hooks the
// connectivity signal and triggers an initial drain attempt.
// Malformed persisted state is treated as an empty queue.
func New(
	store ports.KeyValueStore,
	sender ports.EventSender,
	conn ports.Connectivity,
	environment string,
	baseLogger *zerolog.Logger,
) *Queue {
	q := &Queue{
		store:       store,
		sender:      sender,
		conn:        conn,
		environment: environment,
		log:         baseLogger.With().Str("component", "analytics_queue").Logger(),
	}

	q.load()

	// The offline-to-online transition drains in the signal's
	// goroutine so the handler observes the outcome of the attempt.
	conn.Subscribe(func(online bool) {
		if online {
			q.Flush(context.Background())
		}
	})

	go q.Flush(context.Background())
	return q
}

// Track enqueues an event stamped with the current time and the
// environment tag, persists the queue, and triggers an asynchronous
// flush unless the process is known to be offline. It never blocks
// and never reports delivery failures to the caller.
func (q *Queue) Track(name domain.EventName, payload map[string]any) {
	event := domain.NewEvent(name, payload, q.environment)

	q.mu.Lock()
	q.events = append(q.events, event)
	q.persistLocked()
	q.mu.Unlock()

	q.log.Debug().Str("event", string(name)).Msg("Event tracked")

	if q.conn.Online() {
		go q.Flush(context.Background())
	}
}

// Pending returns a copy of the queued events in order.
func (q *Queue) Pending() []domain.Event {
	q.mu.Lock()
	defer q.mu.Unlock()
	pending := make([]domain.Event, len(q.events))
	copy(pending, q.events)
	return pending
}

// Flush drains the queue head to tail while deliveries succeed. On the
// first failure it stops, leaving the head (and everything behind it)
// for the next trigger. Concurrent triggers are serialized by the
// flushing flag: a second call while one is active is a no-op.
func (q *Queue) Flush(ctx context.Context) {
	q.mu.Lock()
	if q.flushing || len(q.events) == 0 || !q.conn.Online() {
		q.mu.Unlock()
		return
	}
	q.flushing = true
	q.mu.Unlock()

	defer func() {
		q.mu.Lock()
		q.flushing = false
		q.mu.Unlock()
	}()

	for {
		q.mu.Lock()
		if len(q.events) == 0 {
			q.mu.Unlock()
			return
		}
		head := q.events[0]
		q.mu.Unlock()

		if err := q.sender.Send(ctx, head); err != nil {
			q.log.Warn().Err(err).Str("event", string(head.Name)).Msg("Delivery failed, leaving event queued")
			return
		}

		q.mu.Lock()
		q.events = q.events[1:]
		q.persistLocked()
		q.mu.Unlock()
	}
}

// load restores the persisted queue. Corrupt state never propagates:
// it is logged and replaced by an empty queue.
func (q *Queue) load() {
	raw, ok, err := q.store.Get(StorageKey)
	if err != nil || !ok {
		if err != nil {
			q.log.Warn().Err(err).Msg("Could not load persisted queue")
		}
		return
	}

	var events []domain.Event
	if err := json.Unmarshal(raw, &events); err != nil {
		q.log.Warn().Err(err).Msg("Persisted queue is malformed, starting empty")
		return
	}

	q.mu.Lock()
	q.events = events
	q.mu.Unlock()
}

// persistLocked writes the queue under the storage key. The caller
// holds the mutex. Storage failures are logged and swallowed; the
// in-memory queue stays authoritative for the session.
func (q *Queue) persistLocked() {
	if len(q.events) == 0 {
		if err := q.store.Delete(StorageKey); err != nil {
			q.log.Warn().Err(err).Msg("Could not clear persisted queue")
		}
		return
	}

	raw, err := json.Marshal(q.events)
	if err != nil {
		q.log.Warn().Err(err).Msg("Could not encode queue")
		return
	}
	if err := q.store.Set(StorageKey, raw); err != nil {
		q.log.Warn().Err(err).Msg("Could not persist queue")
	}
}
