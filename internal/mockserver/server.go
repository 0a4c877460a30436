package mockserver

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"tarjetajoven/internal/core/domain"
)

// demoPassword is the only password the mock accepts for the canned
// cardholders.
const demoPassword = "Tarjeta123"

// otpCode is the fixed one-time code the mock validates.
const otpCode = "123456"

// maxOTPAttempts before the mock answers 429 for a CURP.
const maxOTPAttempts = 3

// identityFixture is the canned extraction result for any document
// pair, mirroring the web client dev mock.
var identityFixture = domain.IdentityRecord{
	Names:      "MARIA GUADALUPE",
	Surnames:   "SANCHEZ PEREZ",
	BirthDate:  "01/01/1990",
	NationalID: "SAPM900101MBCNRR06",
	Address: domain.Address{
		Street:         "Av. Siempre Viva",
		ExteriorNumber: "742",
		PostalCode:     "22000",
		Neighborhood:   "Centro",
	},
}

// submission is one stored registration payload.
type submission struct {
	ID         string         `json:"id"`
	ReceivedAt string         `json:"receivedAt"`
	Payload    map[string]any `json:"payload"`
}

// Server is the in-memory local mock of the remote API: identity
// verification, auth + OTP, cardholder registry, catalog listing and
// the analytics collector sink.
type Server struct {
	mu          sync.Mutex
	accounts    map[string]bool // CURP -> has account
	otpAttempts map[string]int
	submissions []submission
	collected   []domain.Event
	catalog     []domain.Benefit

	jwtSecret string
	log       zerolog.Logger
}

// New creates a mock server with the canned fixtures.
func New(jwtSecret string, baseLogger *zerolog.Logger) *Server {
	return &Server{
		accounts:    make(map[string]bool),
		otpAttempts: make(map[string]int),
		catalog:     catalogFixture(),
		jwtSecret:   jwtSecret,
		log:         baseLogger.With().Str("component", "mock_server").Logger(),
	}
}

// CollectedEvents returns the analytics events received so far, in
// arrival order.
func (s *Server) CollectedEvents() []domain.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	events := make([]domain.Event, len(s.collected))
	copy(events, s.collected)
	return events
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode response")
	}
}

func nowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func catalogFixture() []domain.Benefit {
	str := func(v string) *string { return &v }
	return []domain.Benefit{
		{ID: "b-001", Name: "Cinepolis Centro", Category: "Entretenimiento", Municipality: "San Luis Potosi", Discount: "2x1 en taquilla", Address: str("Av. Carranza 1000")},
		{ID: "b-002", Name: "Libreria Universitaria", Category: "Educacion", Municipality: "San Luis Potosi", Discount: "15% en libros de texto"},
		{ID: "b-003", Name: "Gimnasio Atlas", Category: "Deporte", Municipality: "Soledad", Discount: "20% en mensualidad", Schedule: str("L-V 6:00-22:00")},
		{ID: "b-004", Name: "Cafe del Jardin", Category: "Alimentos", Municipality: "San Luis Potosi", Discount: "10% en consumo"},
		{ID: "b-005", Name: "Optica Vision Joven", Category: "Salud", Municipality: "Matehuala", Discount: "25% en armazones"},
		{ID: "b-006", Name: "Autobuses Potosinos", Category: "Movilidad", Municipality: "San Luis Potosi", Discount: "50% en rutas urbanas"},
	}
}
