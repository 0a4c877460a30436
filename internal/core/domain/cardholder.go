package domain

// CardholderLookup is the response of a CURP lookup against the
// cardholder registry.
type CardholderLookup struct {
	CURP         string  `json:"curp"`
	Names        string  `json:"nombres"`
	Surnames     string  `json:"apellidos"`
	Municipality *string `json:"municipio,omitempty"`
	HasAccount   bool    `json:"hasAccount"`
}

// RegistrationSubmission is the combined identity + credentials payload
// sent to the registration endpoint at the end of the workflow.
type RegistrationSubmission struct {
	Identity    IdentityRecord
	Credentials AccountCredentials
}
