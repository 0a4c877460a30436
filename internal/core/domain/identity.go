package domain

// Address is the home address extracted from a verified identity
// document. Each field is independently editable once the user opts
// into manual correction.
type Address struct {
	Street         string `json:"calle"`
	ExteriorNumber string `json:"numero"`
	PostalCode     string `json:"cp"`
	Neighborhood   string `json:"colonia"`
}

// IdentityRecord holds the fields extracted by the remote document
// verification. It lives only for the duration of a registration
// attempt and is never persisted.
type IdentityRecord struct {
	Names      string  `json:"nombres"`
	Surnames   string  `json:"apellidos"`
	BirthDate  string  `json:"fechaNacimiento"` // source format, DD/MM/AAAA
	NationalID string  `json:"curp"`            // normalized uppercase CURP
	Address    Address `json:"direccion"`
}

// AccountCredentials are collected in the final registration step and
// sent once to the account-creation endpoint.
type AccountCredentials struct {
	Username     string `json:"username"` // must be email-shaped
	Password     string `json:"password"`
	AcceptsTerms bool   `json:"aceptaTerminos"`
}

// DocumentSlot identifies one of the two identity-document uploads.
type DocumentSlot string

const (
	DocumentFront DocumentSlot = "ine_front"
	DocumentBack  DocumentSlot = "ine_back"
)

// Document is a locally attached identity-document file. Content is
// kept in memory only until verification succeeds.
type Document struct {
	FileName string
	MIMEType string
	Size     int64
	Content  []byte
}
