package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"tarjetajoven/internal/adapters/httpapi"
	"tarjetajoven/internal/core/domain"
	"tarjetajoven/internal/core/ports"
)

// ErrInvalidCredentials is returned by Login when the API rejects the
// credentials (400 or 401).
var ErrInvalidCredentials = errors.New(httpapi.MsgInvalidCredentials)

// Session derives an authentication status from the token slot plus
// the outcome of the profile fetch. It is one of the token store's
// listeners, so token writes from any consumer keep it consistent.
type Session struct {
	mu               sync.Mutex
	status           domain.SessionStatus
	user             *domain.UserProfile
	errorMessage     string
	skipProfileFetch bool // one-shot: set right before a write whose profile is already being fetched

	tokens ports.TokenStore
	api    ports.AuthAPI
	log    zerolog.Logger
}

// NewSession wires the session to the token store and the auth API.
// When a prior session left tokens behind, the initial status is
// loading until RestoreProfile is called.
func NewSession(tokens ports.TokenStore, api ports.AuthAPI, baseLogger *zerolog.Logger) *Session {
	s := &Session{
		status: domain.SessionUnauthenticated,
		tokens: tokens,
		api:    api,
		log:    baseLogger.With().Str("component", "session").Logger(),
	}
	if tokens.Get() != nil {
		s.status = domain.SessionLoading
	}

	tokens.Subscribe(s.onTokensChanged)
	return s
}

// onTokensChanged reacts to every token-slot write. A clear resets the
// session; a new value triggers a profile fetch unless the one-shot
// skip flag says the profile is already known from the login flow.
func (s *Session) onTokensChanged(tokens *domain.AuthTokens) {
	s.mu.Lock()
	if tokens == nil {
		s.status = domain.SessionUnauthenticated
		s.user = nil
		s.errorMessage = ""
		s.mu.Unlock()
		return
	}

	if s.skipProfileFetch {
		s.skipProfileFetch = false
		s.mu.Unlock()
		return
	}

	s.status = domain.SessionLoading
	s.mu.Unlock()

	s.fetchProfile(context.Background())
}

// Login exchanges credentials for tokens and loads the profile. A 400
// or 401 maps to ErrInvalidCredentials; anything else surfaces a
// generic retry message.
func (s *Session) Login(ctx context.Context, credentials domain.LoginCredentials) error {
	s.setStatus(domain.SessionLoading, "")

	normalized := credentials
	normalized.Username = strings.ToLower(strings.TrimSpace(credentials.Username))

	tokens, err := s.api.Login(ctx, normalized)
	if err != nil {
		message := httpapi.MsgGenericRetry
		if httpapi.IsStatus(err, http.StatusBadRequest) || httpapi.IsStatus(err, http.StatusUnauthorized) {
			message = httpapi.MsgInvalidCredentials
		}
		s.setStatus(domain.SessionUnauthenticated, message)
		if message == httpapi.MsgInvalidCredentials {
			return ErrInvalidCredentials
		}
		return errors.New(message)
	}

	return s.ApplyTokens(ctx, tokens)
}

// ApplyTokens accepts tokens from a secondary flow (OTP validation,
// deep link) and loads the profile once, suppressing the redundant
// fetch the token-change listener would otherwise run.
func (s *Session) ApplyTokens(ctx context.Context, tokens *domain.AuthTokens) error {
	s.mu.Lock()
	s.skipProfileFetch = true
	s.mu.Unlock()

	s.tokens.Set(tokens)
	s.setStatus(domain.SessionLoading, "")

	if err := s.fetchProfile(ctx); err != nil {
		return err
	}
	return nil
}

// RestoreProfile refreshes the profile for tokens restored from
// storage at startup.
func (s *Session) RestoreProfile(ctx context.Context) error {
	if s.tokens.Get() == nil {
		return nil
	}
	return s.fetchProfile(ctx)
}

// LoginAsGuest starts a local-only session with synthesized tokens and
// a fixed guest profile. No remote call is made.
func (s *Session) LoginAsGuest() {
	guestTokens := &domain.AuthTokens{AccessToken: "guest-access-token"}

	s.mu.Lock()
	s.skipProfileFetch = true
	s.mu.Unlock()

	s.tokens.Set(guestTokens)

	s.mu.Lock()
	s.user = &domain.UserProfile{
		ID:       "guest",
		Name:     "Invitado",
		Surnames: "Temporal",
		CURP:     "INVITADOPRUEBA0001",
	}
	s.status = domain.SessionAuthenticated
	s.errorMessage = ""
	s.mu.Unlock()
}

// Logout invalidates the session remotely (best effort) and always
// clears the local slot.
func (s *Session) Logout(ctx context.Context) {
	if err := s.api.Logout(ctx); err != nil {
		s.log.Warn().Err(err).Msg("Remote logout failed, clearing local session anyway")
	}
	s.tokens.Clear()
}

// Status returns the current session status.
func (s *Session) Status() domain.SessionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// User returns the loaded profile, or nil.
func (s *Session) User() *domain.UserProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// ErrorMessage returns the last user-facing error, empty when none.
func (s *Session) ErrorMessage() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errorMessage
}

// IsAuthenticated reports whether the session is fully established.
func (s *Session) IsAuthenticated() bool {
	return s.Status() == domain.SessionAuthenticated
}

func (s *Session) fetchProfile(ctx context.Context) error {
	profile, err := s.api.Profile(ctx)
	if err != nil {
		if httpapi.IsStatus(err, http.StatusUnauthorized) {
			// The API client already cleared the slot; the listener
			// reset the session. Silent expiry, not an error state.
			return nil
		}
		s.setStatus(domain.SessionError, "No pudimos obtener tu informacion de perfil.")
		return err
	}

	s.mu.Lock()
	s.user = profile
	s.status = domain.SessionAuthenticated
	s.errorMessage = ""
	s.mu.Unlock()
	return nil
}

func (s *Session) setStatus(status domain.SessionStatus, message string) {
	s.mu.Lock()
	s.status = status
	s.errorMessage = message
	s.mu.Unlock()
}
