package models

// Stable machine-checkable error codes returned alongside human-readable
// messages. Clients should branch on the code, never on the message.
const (
	CodeValidationError       = "VALIDATION_ERROR"
	CodeEmailAlreadyExists    = "EMAIL_ALREADY_EXISTS"
	CodeUsernameAlreadyExists = "USERNAME_ALREADY_EXISTS"
	CodeCredentialMismatch    = "USER_CREDENTIAL_MISMATCH"
	CodeTokenMissing          = "TOKEN_MISSING"
	CodeTokenInvalid          = "TOKEN_INVALID"
	CodeTokenExpired          = "TOKEN_EXPIRED"
	CodeTokenRevoked          = "TOKEN_REVOKED"
	CodeUserNotVerified       = "USER_NOT_VERIFIED"
	CodeUserNotFound          = "USER_NOT_FOUND"
	CodeInternalError         = "INTERNAL_ERROR"
)

// ErrorResponse is the envelope for non-validation errors.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// FieldError describes a single failed request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrorResponse aggregates every failing field of one request.
type ValidationErrorResponse struct {
	Message string       `json:"message"`
	Code    string       `json:"code"`
	Errors  []FieldError `json:"errors"`
}
