package ports

import (
	"context"

	"tarjetajoven/internal/core/domain"
)

// AuthAPI is the remote authentication surface.
type AuthAPI interface {
	// Login exchanges credentials for tokens. A 400/401 response maps
	// to an invalid-credentials error.
	Login(ctx context.Context, credentials domain.LoginCredentials) (*domain.AuthTokens, error)

	// Logout invalidates the session server-side. Best effort; the
	// caller clears local state regardless.
	Logout(ctx context.Context) error

	// Profile fetches the authenticated cardholder profile.
	Profile(ctx context.Context) (*domain.UserProfile, error)
}

// IdentityVerifier runs the remote extraction/verification of the two
// identity-document images.
type IdentityVerifier interface {
	Verify(ctx context.Context, front, back domain.Document, acceptsPrivacy bool) (*domain.IdentityRecord, error)
}

// AccountCreator submits the combined identity + credentials payload
// at the end of the registration workflow.
type AccountCreator interface {
	SubmitRegistration(ctx context.Context, submission domain.RegistrationSubmission) error
}

// CardholderAPI is the cardholder registry surface used by the
// physical-card account-setup flow.
type CardholderAPI interface {
	// LookupCURP finds an existing cardholder by CURP.
	LookupCURP(ctx context.Context, curp string) (*domain.CardholderLookup, error)

	// CreateAccount attaches credentials to an existing cardholder.
	// A 409 response means the card already has an account.
	CreateAccount(ctx context.Context, curp string, credentials domain.AccountCredentials) error
}

// CatalogAPI lists merchant benefits, paginated and filterable.
type CatalogAPI interface {
	List(ctx context.Context, query domain.CatalogQuery) (*domain.CatalogPage, error)
}
