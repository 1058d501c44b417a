package api

import "fmt"

// ErrorType represents the category of an API error. The transport
// layer maps each type to an HTTP status code.
type ErrorType string

const (
	ErrorTypeInvalidRequest  ErrorType = "invalid_request"
	ErrorTypeUnauthenticated ErrorType = "unauthenticated"
	ErrorTypeForbidden       ErrorType = "forbidden"
	ErrorTypeNotFound        ErrorType = "not_found"
	ErrorTypeConflict        ErrorType = "conflict"
	ErrorTypeTooManyRequests ErrorType = "too_many_requests"
	ErrorTypeServerError     ErrorType = "server_error"
)

// Stable error codes. Clients dispatch on Code, not on Message.
const (
	CodeMissingCredential = "missing_credential"
	CodeInvalidToken      = "invalid_token"
	CodeExpiredToken      = "expired_token"
	CodeUnknownSubject    = "unknown_subject"
	CodeInvalidPassword   = "invalid_password"
	CodeDuplicateName     = "duplicate_name"
	CodeInvalidPermission = "invalid_permission"
	CodePostNotFound      = "post_not_found"
)

// APIError is a structured error with type, code, param, and message.
// The message never contains tokens, password material, or the signing
// secret.
type APIError struct {
	Type    ErrorType `json:"type"`
	Code    string    `json:"code,omitempty"`
	Param   string    `json:"param,omitempty"`
	Message string    `json:"message"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// ErrorResponse wraps an APIError for JSON serialization as the
// top-level error response.
type ErrorResponse struct {
	Error *APIError `json:"error"`
}

// NewMissingCredentialError reports a protected route called without a
// bearer token.
func NewMissingCredentialError() *APIError {
	return &APIError{
		Type:    ErrorTypeUnauthenticated,
		Code:    CodeMissingCredential,
		Message: "authorization header with bearer token required",
	}
}

// NewInvalidTokenError reports a malformed token or a failed signature
// verification.
func NewInvalidTokenError() *APIError {
	return &APIError{
		Type:    ErrorTypeUnauthenticated,
		Code:    CodeInvalidToken,
		Message: "token is invalid",
	}
}

// NewExpiredTokenError reports a well-signed token past its expiry.
func NewExpiredTokenError() *APIError {
	return &APIError{
		Type:    ErrorTypeUnauthenticated,
		Code:    CodeExpiredToken,
		Message: "token has expired",
	}
}

// NewUnknownSubjectError reports a principal name that does not resolve
// to a registered user.
func NewUnknownSubjectError(name string) *APIError {
	return &APIError{
		Type:    ErrorTypeNotFound,
		Code:    CodeUnknownSubject,
		Message: fmt.Sprintf("user %q not found", name),
	}
}

// NewInvalidPasswordError reports a login password mismatch.
func NewInvalidPasswordError() *APIError {
	return &APIError{
		Type:    ErrorTypeInvalidRequest,
		Code:    CodeInvalidPassword,
		Message: "password does not match",
	}
}

// NewDuplicateNameError reports a registration with an already taken
// principal name.
func NewDuplicateNameError(name string) *APIError {
	return &APIError{
		Type:    ErrorTypeConflict,
		Code:    CodeDuplicateName,
		Message: fmt.Sprintf("user name %q is already taken", name),
	}
}

// NewInvalidPermissionError reports a mutating operation by a caller
// who does not own the resource.
func NewInvalidPermissionError() *APIError {
	return &APIError{
		Type:    ErrorTypeForbidden,
		Code:    CodeInvalidPermission,
		Message: "caller does not own this post",
	}
}

// NewPostNotFoundError reports a post id that does not exist.
func NewPostNotFoundError(id string) *APIError {
	return &APIError{
		Type:    ErrorTypeNotFound,
		Code:    CodePostNotFound,
		Message: fmt.Sprintf("post %q not found", id),
	}
}

// NewInvalidRequestError creates an APIError for invalid request
// parameters.
func NewInvalidRequestError(param, message string) *APIError {
	return &APIError{
		Type:    ErrorTypeInvalidRequest,
		Param:   param,
		Message: message,
	}
}

// NewTooManyRequestsError creates an APIError for throttled requests.
func NewTooManyRequestsError(message string) *APIError {
	return &APIError{
		Type:    ErrorTypeTooManyRequests,
		Message: message,
	}
}

// NewServerError creates an APIError for the unmodeled-fault class:
// unexpected store or transport failures surfaced as a generic server
// error, never conflated with the taxonomy above.
func NewServerError(message string) *APIError {
	return &APIError{
		Type:    ErrorTypeServerError,
		Message: message,
	}
}
