package domain

// AuthTokens is the single persisted session slot. RefreshToken is
// optional and may be nil.
type AuthTokens struct {
	AccessToken  string  `json:"accessToken"`
	RefreshToken *string `json:"refreshToken,omitempty"`
}

// SessionStatus is a custom type for the session state ENUM.
type SessionStatus string

const (
	SessionUnauthenticated SessionStatus = "unauthenticated"
	SessionLoading         SessionStatus = "loading"
	SessionAuthenticated   SessionStatus = "authenticated"
	SessionError           SessionStatus = "error"
)

// LoginCredentials is the username/password pair for the primary login
// flow. Username is email-shaped in the account flow; the CURP+OTP
// variant feeds tokens through Session.ApplyTokens instead.
type LoginCredentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UserProfile is the authenticated cardholder profile.
type UserProfile struct {
	ID           string  `json:"id"`
	Name         string  `json:"nombre"`
	Surnames     string  `json:"apellidos"`
	CURP         string  `json:"curp"`
	Email        *string `json:"email,omitempty"`
	Municipality *string `json:"municipio,omitempty"`
	Phone        *string `json:"telefono,omitempty"`
}
