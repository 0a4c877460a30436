package mockserver

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"tarjetajoven/internal/core/domain"
	"tarjetajoven/internal/validate"
)

// handleVerifyINE consumes the multipart upload and answers with the
// canned identity record. The files themselves are drained, not
// parsed, matching the web client dev mock.
func (s *Server) handleVerifyINE(w http.ResponseWriter, r *http.Request) {
	if _, err := io.Copy(io.Discard, r.Body); err != nil {
		s.writeJSON(w, http.StatusInternalServerError, map[string]any{"message": "Error al leer los archivos de prueba."})
		return
	}
	s.writeJSON(w, http.StatusOK, identityFixture)
}

type loginRequest struct {
	Username string `json:"username"`
	CURP     string `json:"curp"`
	Password string `json:"password"`
}

// handleLogin accepts username+password or curp+password and answers
// with signed tokens.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]any{"message": "Payload JSON no valido."})
		return
	}

	subject := validate.NormalizeCURP(req.CURP)
	if subject == "" {
		subject = strings.ToLower(strings.TrimSpace(req.Username))
	}
	if subject == "" || req.Password != demoPassword {
		s.writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Credenciales invalidas."})
		return
	}

	s.respondWithTokens(w, subject)
}

func (s *Server) respondWithTokens(w http.ResponseWriter, subject string) {
	access, refresh, err := s.issueTokens(subject)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to issue tokens")
		s.writeJSON(w, http.StatusInternalServerError, map[string]any{"message": "Error interno."})
		return
	}
	s.writeJSON(w, http.StatusOK, domain.AuthTokens{
		AccessToken:  access,
		RefreshToken: &refresh,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{"message": "Sesion cerrada."})
}

type otpRequest struct {
	CURP string `json:"curp"`
	Code string `json:"code"`
}

// handleOTPRequest simulates sending a one-time code for a CURP.
func (s *Server) handleOTPRequest(w http.ResponseWriter, r *http.Request) {
	var req otpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || !validate.CURP(req.CURP) {
		s.writeJSON(w, http.StatusBadRequest, map[string]any{"message": "CURP no valida."})
		return
	}

	curp := validate.NormalizeCURP(req.CURP)
	s.mu.Lock()
	s.otpAttempts[curp] = 0
	s.mu.Unlock()

	s.writeJSON(w, http.StatusOK, map[string]any{"message": "Codigo enviado."})
}

// handleOTPValidate checks the fixed code, answering 429 once the
// attempt budget for the CURP is exhausted.
func (s *Server) handleOTPValidate(w http.ResponseWriter, r *http.Request) {
	var req otpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || !validate.CURP(req.CURP) {
		s.writeJSON(w, http.StatusBadRequest, map[string]any{"message": "CURP no valida."})
		return
	}
	curp := validate.NormalizeCURP(req.CURP)

	s.mu.Lock()
	attempts := s.otpAttempts[curp]
	if attempts >= maxOTPAttempts {
		s.mu.Unlock()
		s.writeJSON(w, http.StatusTooManyRequests, map[string]any{"message": "Has alcanzado el numero maximo de intentos. Intenta mas tarde."})
		return
	}
	if req.Code != otpCode {
		s.otpAttempts[curp] = attempts + 1
		s.mu.Unlock()
		s.writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "El codigo no es valido. Intenta nuevamente."})
		return
	}
	s.otpAttempts[curp] = 0
	s.mu.Unlock()

	s.respondWithTokens(w, curp)
}

// handleProfile answers the authenticated cardholder profile derived
// from the token subject.
func (s *Server) handleProfile(w http.ResponseWriter, _ *http.Request, subject string) {
	municipality := "San Luis Potosi"
	profile := domain.UserProfile{
		ID:           uuid.NewSHA1(uuid.NameSpaceOID, []byte(subject)).String(),
		Name:         identityFixture.Names,
		Surnames:     identityFixture.Surnames,
		CURP:         validate.NormalizeCURP(subject),
		Municipality: &municipality,
	}
	s.writeJSON(w, http.StatusOK, profile)
}

type lookupRequest struct {
	CURP string `json:"curp"`
}

// handleCardholderLookup answers a canned cardholder for any
// well-formed CURP.
func (s *Server) handleCardholderLookup(w http.ResponseWriter, r *http.Request) {
	var req lookupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || !validate.CURP(req.CURP) {
		s.writeJSON(w, http.StatusNotFound, map[string]any{"message": "No encontramos una tarjeta con esa CURP."})
		return
	}
	curp := validate.NormalizeCURP(req.CURP)

	s.mu.Lock()
	hasAccount := s.accounts[curp]
	s.mu.Unlock()

	municipality := "San Luis Potosi"
	s.writeJSON(w, http.StatusOK, domain.CardholderLookup{
		CURP:         curp,
		Names:        identityFixture.Names,
		Surnames:     identityFixture.Surnames,
		Municipality: &municipality,
		HasAccount:   hasAccount,
	})
}

// handleCreateAccount attaches credentials to a cardholder, answering
// 409 when the card already has an account.
func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	curp := validate.NormalizeCURP(chi.URLParam(r, "curp"))
	if !validate.CURP(curp) {
		s.writeJSON(w, http.StatusNotFound, map[string]any{"message": "No encontramos una tarjeta con esa CURP."})
		return
	}

	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]any{"message": "Payload JSON no valido."})
		return
	}

	s.mu.Lock()
	if s.accounts[curp] {
		s.mu.Unlock()
		s.writeJSON(w, http.StatusConflict, map[string]any{"message": "Esta tarjeta ya cuenta con un usuario asignado."})
		return
	}
	s.accounts[curp] = true
	s.mu.Unlock()

	s.writeJSON(w, http.StatusCreated, map[string]any{"message": "Cuenta creada correctamente."})
}

// handleSubmitRegistration stores a full registration payload.
func (s *Server) handleSubmitRegistration(w http.ResponseWriter, r *http.Request) {
	var payload map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]any{"message": "Payload JSON no valido."})
		return
	}

	entry := submission{
		ID:         uuid.NewString(),
		ReceivedAt: nowISO(),
		Payload:    payload,
	}

	s.mu.Lock()
	s.submissions = append(s.submissions, entry)
	total := len(s.submissions)
	s.mu.Unlock()

	s.writeJSON(w, http.StatusCreated, map[string]any{
		"message":          "Registro simulado almacenado correctamente.",
		"id":               entry.ID,
		"totalSubmissions": total,
	})
}

// handleListRegistrations lists stored registration payloads.
func (s *Server) handleListRegistrations(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	listed := make([]submission, len(s.submissions))
	copy(listed, s.submissions)
	s.mu.Unlock()

	s.writeJSON(w, http.StatusOK, listed)
}

const catalogPageSize = 10

// handleCatalog lists benefits with the categoria/municipio/q filters
// and 1-based paging.
func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	category := strings.TrimSpace(query.Get("categoria"))
	municipality := strings.TrimSpace(query.Get("municipio"))
	search := strings.ToLower(strings.TrimSpace(query.Get("q")))

	page, _ := strconv.Atoi(query.Get("page"))
	if page < 1 {
		page = 1
	}

	filtered := make([]domain.Benefit, 0, len(s.catalog))
	for _, benefit := range s.catalog {
		if category != "" && !strings.EqualFold(benefit.Category, category) {
			continue
		}
		if municipality != "" && !strings.EqualFold(benefit.Municipality, municipality) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(benefit.Name), search) &&
			!strings.Contains(strings.ToLower(benefit.Discount), search) {
			continue
		}
		filtered = append(filtered, benefit)
	}

	total := len(filtered)
	totalPages := (total + catalogPageSize - 1) / catalogPageSize
	start := (page - 1) * catalogPageSize
	if start > total {
		start = total
	}
	end := start + catalogPageSize
	if end > total {
		end = total
	}

	s.writeJSON(w, http.StatusOK, domain.CatalogPage{
		Items:      filtered[start:end],
		Page:       page,
		PageSize:   catalogPageSize,
		Total:      total,
		TotalPages: totalPages,
	})
}

// handleCollect is the analytics collector sink: one JSON event per
// request, recorded in arrival order.
func (s *Server) handleCollect(w http.ResponseWriter, r *http.Request) {
	var event domain.Event
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]any{"message": "Evento no valido."})
		return
	}

	s.mu.Lock()
	s.collected = append(s.collected, event)
	s.mu.Unlock()

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	submissions := len(s.submissions)
	s.mu.Unlock()
	s.writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "submissions": submissions})
}
