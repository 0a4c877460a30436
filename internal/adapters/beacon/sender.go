package beacon

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"tarjetajoven/internal/core/domain"
	"tarjetajoven/internal/core/ports"
)

// maxBeaconBytes mirrors the payload bound browsers put on beacon
// sends; larger events skip straight to the keep-alive transport.
const maxBeaconBytes = 64 * 1024

// Sender delivers events to the analytics collector. The primary
// transport is a beacon-style send (short timeout, small payload) that
// survives teardown; the fallback is a standard keep-alive request.
type Sender struct {
	endpoint string
	beacon   *http.Client
	fallback *http.Client
	log      zerolog.Logger
}

var _ ports.EventSender = (*Sender)(nil) // Ensure compliance

// New creates a collector sender. An empty endpoint disables delivery:
// every send reports success, matching the web client when no
// collector is configured.
func New(endpoint string, baseLogger *zerolog.Logger) *Sender {
	return &Sender{
		endpoint: endpoint,
		beacon: &http.Client{
			Timeout: 3 * time.Second,
		},
		fallback: &http.Client{
			Timeout: 15 * time.Second,
		},
		log: baseLogger.With().Str("component", "beacon_sender").Logger(),
	}
}

// Send posts one JSON-encoded event. Success strictly means the
// transport accepted it with a 2xx status.
func (s *Sender) Send(ctx context.Context, event domain.Event) error {
	if s.endpoint == "" {
		return nil
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("could not encode event: %w", err)
	}

	if len(body) <= maxBeaconBytes {
		if err := s.post(ctx, s.beacon, body); err == nil {
			return nil
		}
		s.log.Warn().Str("event", string(event.Name)).Msg("Beacon send failed, falling back to keep-alive request")
	}

	return s.post(ctx, s.fallback, body)
}

func (s *Sender) post(ctx context.Context, client *http.Client, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("could not build collector request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("collector request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("collector rejected event with status %d", resp.StatusCode)
	}
	return nil
}
