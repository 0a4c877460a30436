package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tarjetajoven/internal/core/domain"
	"tarjetajoven/internal/core/ports"
)

// stubTokenStore is a minimal in-memory TokenStore for client tests.
type stubTokenStore struct {
	mu      sync.Mutex
	tokens  *domain.AuthTokens
	cleared int
}

func (s *stubTokenStore) Get() *domain.AuthTokens {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokens
}

func (s *stubTokenStore) Set(tokens *domain.AuthTokens) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = tokens
}

func (s *stubTokenStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = nil
	s.cleared++
}

func (s *stubTokenStore) Subscribe(ports.TokenListener) func() {
	return func() {}
}

var _ ports.TokenStore = (*stubTokenStore)(nil) // Ensure compliance

func newTestClient(baseURL string, tokens ports.TokenStore) *Client {
	logger := zerolog.Nop()
	return NewClient(baseURL, tokens, &logger)
}

func TestClient_AttachesBearerToken(t *testing.T) {
	var gotAuth, gotAccept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	tokens := &stubTokenStore{tokens: &domain.AuthTokens{AccessToken: "access-1"}}
	client := newTestClient(server.URL, tokens)

	require.NoError(t, client.doJSON(context.Background(), http.MethodGet, "/me", nil, nil))
	assert.Equal(t, "Bearer access-1", gotAuth)
	assert.Equal(t, "application/json", gotAccept)
}

func TestClient_NoTokenMeansNoAuthHeader(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := newTestClient(server.URL, &stubTokenStore{})

	require.NoError(t, client.doJSON(context.Background(), http.MethodGet, "/catalog", nil, nil))
	assert.Empty(t, gotAuth)
}

func TestClient_UnauthorizedClearsTokenSlot(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Sesion no valida."}`))
	}))
	defer server.Close()

	tokens := &stubTokenStore{tokens: &domain.AuthTokens{AccessToken: "stale"}}
	client := newTestClient(server.URL, tokens)

	err := client.doJSON(context.Background(), http.MethodGet, "/me", nil, nil)

	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusUnauthorized))
	assert.Nil(t, tokens.Get(), "any 401 clears the session slot")
	assert.Equal(t, 1, tokens.cleared)
}

func TestClient_ErrorMessageExtraction(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
	}{
		{name: "json message", status: http.StatusConflict, body: `{"message":"ya existe"}`, wantMessage: "ya existe"},
		{name: "json without message", status: http.StatusBadRequest, body: `{"error":"x"}`, wantMessage: ""},
		{name: "raw text", status: http.StatusBadGateway, body: "upstream down", wantMessage: ""},
		{name: "empty body", status: http.StatusInternalServerError, body: "", wantMessage: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := newTestClient(server.URL, &stubTokenStore{})
			err := client.doJSON(context.Background(), http.MethodGet, "/x", nil, nil)

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.wantMessage, apiErr.Message)
		})
	}
}

func TestClient_AbsoluteURLBypassesBase(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := newTestClient("http://base.invalid", &stubTokenStore{})

	require.NoError(t, client.doJSON(context.Background(), http.MethodPost, server.URL+"/mock-ine", nil, nil))
	assert.Equal(t, "/mock-ine", gotPath)
}

func TestAuthAPI_LoginDecodesTokens(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/auth/login", r.URL.Path)

		var credentials domain.LoginCredentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&credentials))
		assert.Equal(t, "maria@example.com", credentials.Username)

		_ = json.NewEncoder(w).Encode(map[string]string{
			"accessToken":  "access-1",
			"refreshToken": "refresh-1",
		})
	}))
	defer server.Close()

	api := NewAuthAPI(newTestClient(server.URL, &stubTokenStore{}))
	tokens, err := api.Login(context.Background(), domain.LoginCredentials{
		Username: "maria@example.com",
		Password: "Tarjeta123",
	})

	require.NoError(t, err)
	assert.Equal(t, "access-1", tokens.AccessToken)
	require.NotNil(t, tokens.RefreshToken)
	assert.Equal(t, "refresh-1", *tokens.RefreshToken)
}

func TestCardholderAPI_CreateAccountConflict(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/cardholders/SAPM900101MBCNRR06/account", r.URL.Path)
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"message":"Esta tarjeta ya cuenta con un usuario asignado."}`))
	}))
	defer server.Close()

	api := NewCardholderAPI(newTestClient(server.URL, &stubTokenStore{}))
	err := api.CreateAccount(context.Background(), "SAPM900101MBCNRR06", domain.AccountCredentials{
		Username: "maria@example.com",
		Password: "Tarjeta123",
	})

	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusConflict))
	assert.Equal(t, MsgAlreadyHasAccount, UserMessage(err))
}

func TestCardholderAPI_SubmitRegistrationPayload(t *testing.T) {
	var payload map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/cardholders", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	api := NewCardholderAPI(newTestClient(server.URL, &stubTokenStore{}))
	err := api.SubmitRegistration(context.Background(), domain.RegistrationSubmission{
		Identity: domain.IdentityRecord{
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
		},
		Credentials: domain.AccountCredentials{
			Username:     "maria@example.com",
			Password:     "Tarjeta123",
			AcceptsTerms: true,
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "SAPM900101MBCNRR06", payload["curp"])
	assert.Equal(t, "Av. Siempre Viva", payload["calle"])
	assert.Equal(t, "22000", payload["cp"])
	assert.Equal(t, true, payload["aceptaTerminos"])
}

func TestCatalogAPI_ListSendsFiltersAndNormalizes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		assert.Equal(t, "restaurantes", query.Get("categoria"))
		assert.Equal(t, "Tijuana", query.Get("municipio"))
		assert.Equal(t, "pizza", query.Get("q"))
		assert.Equal(t, "1", query.Get("page"), "page below one normalizes to one")

		_, _ = w.Write([]byte(`{"items":null,"total":0,"page":0,"pageSize":10,"totalPages":0}`))
	}))
	defer server.Close()

	api := NewCatalogAPI(newTestClient(server.URL, &stubTokenStore{}))
	page, err := api.List(context.Background(), domain.CatalogQuery{
		Category:     "restaurantes",
		Municipality: "Tijuana",
		Search:       "pizza",
		Page:         0,
	})

	require.NoError(t, err)
	assert.NotNil(t, page.Items, "nil items becomes an empty slice")
	assert.Empty(t, page.Items)
	assert.Equal(t, 1, page.Page)
}

func TestIdentityVerifier_SendsMultipartForm(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(4<<20))

		assert.Equal(t, "true", r.FormValue("privacy_acceptance"))

		front, header, err := r.FormFile("ine_front")
		require.NoError(t, err)
		defer front.Close()
		assert.Equal(t, "front.jpg", header.Filename)
		assert.Equal(t, "image/jpeg", header.Header.Get("Content-Type"))
		content, err := io.ReadAll(front)
		require.NoError(t, err)
		assert.Equal(t, []byte("front-bytes"), content)

		_, _, err = r.FormFile("ine_back")
		require.NoError(t, err)

		_ = json.NewEncoder(w).Encode(map[string]any{
			"nombres":         "MARIA GUADALUPE",
			"apellidos":       "SANCHEZ PEREZ",
			"fechaNacimiento": "01/01/1990",
			"curp":            "SAPM900101MBCNRR06",
			"direccion": map[string]string{
				"calle":   "Av. Siempre Viva",
				"numero":  "742",
				"cp":      "22000",
				"colonia": "Centro",
			},
		})
	}))
	defer server.Close()

	verifier := NewIdentityVerifier(newTestClient(server.URL, &stubTokenStore{}), server.URL+"/mock-ine")
	record, err := verifier.Verify(context.Background(),
		domain.Document{FileName: "front.jpg", MIMEType: "image/jpeg", Size: 11, Content: []byte("front-bytes")},
		domain.Document{FileName: "back.jpg", MIMEType: "image/jpeg", Size: 10, Content: []byte("back-bytes")},
		true,
	)

	require.NoError(t, err)
	assert.Equal(t, "SAPM900101MBCNRR06", record.NationalID)
	assert.Equal(t, "Centro", record.Address.Neighborhood)
}

func TestIdentityVerifier_MissingEndpoint(t *testing.T) {
	verifier := NewIdentityVerifier(newTestClient("http://base.invalid", &stubTokenStore{}), "")

	_, err := verifier.Verify(context.Background(), domain.Document{}, domain.Document{}, true)

	assert.ErrorIs(t, err, ErrNoVerificationEndpoint)
}
