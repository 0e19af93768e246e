package session

// AuthCode tags the failure modes of session operations.
type AuthCode string

const (
	CodeNotFound       AuthCode = "not_found"
	CodeBadCredentials AuthCode = "bad_credentials"
	CodeUsernameTaken  AuthCode = "username_taken"
	CodeMissingFields  AuthCode = "missing_fields"
	CodeInvalidToken   AuthCode = "invalid_token"
	CodeExpiredToken   AuthCode = "expired_token"
)

// AuthError is the tagged result of a failed auth operation. The message
// is safe to show to the user.
type AuthError struct {
	Code    AuthCode
	Message string
}

func (e *AuthError) Error() string { return e.Message }

func authErr(code AuthCode, msg string) *AuthError {
	return &AuthError{Code: code, Message: msg}
}
