package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"tarjetajoven/internal/core/domain"
	"tarjetajoven/internal/core/ports"
)

// cardholderClient implements ports.CardholderAPI and
// ports.AccountCreator over the shared Client.
type cardholderClient struct {
	client *Client
}

var _ ports.CardholderAPI = (*cardholderClient)(nil) // Ensure compliance
var _ ports.AccountCreator = (*cardholderClient)(nil)

// NewCardholderAPI creates the cardholder registry surface.
func NewCardholderAPI(client *Client) *cardholderClient {
	return &cardholderClient{client: client}
}

type lookupRequest struct {
	CURP string `json:"curp"`
}

func (c *cardholderClient) LookupCURP(ctx context.Context, curp string) (*domain.CardholderLookup, error) {
	var lookup domain.CardholderLookup
	if err := c.client.doJSON(ctx, http.MethodPost, "/cardholders/lookup", lookupRequest{CURP: curp}, &lookup); err != nil {
		return nil, err
	}
	return &lookup, nil
}

type accountRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (c *cardholderClient) CreateAccount(ctx context.Context, curp string, credentials domain.AccountCredentials) error {
	path := fmt.Sprintf("/cardholders/%s/account", url.PathEscape(curp))
	return c.client.doJSON(ctx, http.MethodPost, path, accountRequest{
		Username: credentials.Username,
		Password: credentials.Password,
	}, nil)
}

// registrationRequest is the combined identity + credentials payload
// submitted at the end of the registration workflow.
type registrationRequest struct {
	Names          string `json:"nombres"`
	Surnames       string `json:"apellidos"`
	BirthDate      string `json:"fechaNacimiento"`
	CURP           string `json:"curp"`
	Street         string `json:"calle"`
	ExteriorNumber string `json:"numero"`
	PostalCode     string `json:"cp"`
	Neighborhood   string `json:"colonia"`
	Username       string `json:"username"`
	Password       string `json:"password"`
	AcceptsTerms   bool   `json:"aceptaTerminos"`
}

// SubmitRegistration sends the full registration payload produced by
// the document-first wizard.
func (c *cardholderClient) SubmitRegistration(ctx context.Context, submission domain.RegistrationSubmission) error {
	identity := submission.Identity
	return c.client.doJSON(ctx, http.MethodPost, "/cardholders", registrationRequest{
		Names:          identity.Names,
		Surnames:       identity.Surnames,
		BirthDate:      identity.BirthDate,
		CURP:           identity.NationalID,
		Street:         identity.Address.Street,
		ExteriorNumber: identity.Address.ExteriorNumber,
		PostalCode:     identity.Address.PostalCode,
		Neighborhood:   identity.Address.Neighborhood,
		Username:       submission.Credentials.Username,
		Password:       submission.Credentials.Password,
		AcceptsTerms:   submission.Credentials.AcceptsTerms,
	}, nil)
}
