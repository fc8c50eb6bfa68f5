package api

import "fmt"

// ErrorKind categorizes a failure per the propagation policy: translation
// and semantic errors surface synchronously around the network round trip,
// transport errors carry the vendor status and body verbatim, and decode
// errors terminate a stream as its last event.
type ErrorKind string

const (
	// ErrTranslation is malformed input to a request builder.
	ErrTranslation ErrorKind = "translation"
	// ErrTransport is a non-2xx status or connection failure.
	ErrTransport ErrorKind = "transport"
	// ErrDecode is an unparseable stream frame.
	ErrDecode ErrorKind = "decode"
	// ErrInvalidResponse is a semantically broken vendor response.
	ErrInvalidResponse ErrorKind = "invalid_response"
	// ErrNotFound is an unknown provider or model.
	ErrNotFound ErrorKind = "not_found"
	// ErrConfig is an invalid or incomplete configuration.
	ErrConfig ErrorKind = "config"
)

// Error is the structured error type used across modelmux.
type Error struct {
	Kind     ErrorKind
	Provider string
	// Status is the HTTP status for transport errors, 0 otherwise.
	Status  int
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Provider != "" && e.Status != 0:
		return fmt.Sprintf("%s: %s error (HTTP %d): %s", e.Provider, e.Kind, e.Status, e.Message)
	case e.Provider != "":
		return fmt.Sprintf("%s: %s error: %s", e.Provider, e.Kind, e.Message)
	default:
		return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
	}
}

// NewTranslationError creates an error for malformed request-builder input.
func NewTranslationError(provider, message string) *Error {
	return &Error{Kind: ErrTranslation, Provider: provider, Message: message}
}

// NewTransportError creates an error for a failed vendor round trip. The
// body is carried verbatim in the message for diagnostics.
func NewTransportError(provider string, status int, body string) *Error {
	return &Error{Kind: ErrTransport, Provider: provider, Status: status, Message: body}
}

// NewDecodeError creates an error for an unparseable stream frame.
func NewDecodeError(provider, message string) *Error {
	return &Error{Kind: ErrDecode, Provider: provider, Message: message}
}

// NewInvalidResponseError creates an error for a semantically broken
// response, such as an empty candidate list.
func NewInvalidResponseError(provider, message string) *Error {
	return &Error{Kind: ErrInvalidResponse, Provider: provider, Message: message}
}

// NewNotFoundError creates an error for an unknown provider or model.
func NewNotFoundError(message string) *Error {
	return &Error{Kind: ErrNotFound, Message: message}
}

// NewConfigError creates an error for invalid configuration.
func NewConfigError(message string) *Error {
	return &Error{Kind: ErrConfig, Message: message}
}
