package httpapi

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is a non-2xx response from the remote API. Payload carries
// the parsed response body (JSON object or raw text) when present.
type APIError struct {
	Status  int
	Message string
	Payload any
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api error %d", e.Status)
}

// IsStatus reports whether err is an APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// User-facing messages for the client-observable error taxonomy. The
// copy matches the web client.
const (
	MsgInvalidCredentials = "Credenciales invalidas."
	MsgAlreadyHasAccount  = "Esta tarjeta ya cuenta con un usuario asignado. Intenta recuperar tu acceso desde el login."
	MsgMaxAttempts        = "Has alcanzado el numero maximo de intentos. Intenta mas tarde."
	MsgGenericRetry       = "No pudimos completar la operacion. Intenta nuevamente."
)

// UserMessage maps a remote-call failure to a user-facing string.
// Conflict and rate-limit responses get specific copy; everything else
// (including network errors) falls back to a generic retry suggestion.
func UserMessage(err error) string {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return MsgGenericRetry
	}

	switch apiErr.Status {
	case http.StatusConflict:
		return MsgAlreadyHasAccount
	case http.StatusTooManyRequests:
		return MsgMaxAttempts
	default:
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return MsgGenericRetry
	}
}
