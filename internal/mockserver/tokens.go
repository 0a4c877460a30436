package mockserver

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// issueTokens signs a short-lived HS256 access token for the given
// CURP plus an opaque refresh token.
func (s *Server) issueTokens(curp string) (access, refresh string, err error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": curp,
		"jti": uuid.NewString(),
		"iat": now.Unix(),
		"exp": now.Add(time.Hour).Unix(),
		"iss": "tarjetajoven-mock",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	access, err = token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", "", fmt.Errorf("could not sign access token: %w", err)
	}
	return access, uuid.NewString(), nil
}

// subjectFromRequest extracts and verifies the bearer token, returning
// the CURP it was issued for.
func (s *Server) subjectFromRequest(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return "", fmt.Errorf("missing bearer token")
	}
	raw := strings.TrimPrefix(header, "Bearer ")

	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return "", fmt.Errorf("invalid token: %w", err)
	}

	subject, err := token.Claims.GetSubject()
	if err != nil || subject == "" {
		return "", fmt.Errorf("token has no subject")
	}
	return subject, nil
}

// requireAuth wraps protected handlers, rejecting requests without a
// valid bearer token.
func (s *Server) requireAuth(next func(w http.ResponseWriter, r *http.Request, curp string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		curp, err := s.subjectFromRequest(r)
		if err != nil {
			s.log.Warn().Err(err).Str("path", r.URL.Path).Msg("Rejected unauthenticated request")
			s.writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Sesion no valida."})
			return
		}
		next(w, r, curp)
	}
}
