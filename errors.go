package auth

import (
	"strings"

	"github.com/goliatone/go-errors"
)

// Text codes surfaced on structured errors so callers can branch without
// string matching on messages.
const (
	TextCodeInvalidCreds    = "INVALID_CREDENTIALS"
	TextCodeUsernameTaken   = "USERNAME_TAKEN"
	TextCodeTokenExpired    = "TOKEN_EXPIRED"
	TextCodeTokenMalformed  = "TOKEN_MALFORMED"
	TextCodeTokenSignature  = "TOKEN_BAD_SIGNATURE"
	TextCodeMissingToken    = "MISSING_TOKEN"
	TextCodeForbidden       = "INSUFFICIENT_ROLE"
	TextCodeInvalidPassword = "INVALID_PASSWORD"
)

// ErrIdentityNotFound is the error we return for non found identities
var ErrIdentityNotFound = errors.New("identity not found", errors.CategoryNotFound).
	WithCode(errors.CodeNotFound).
	WithTextCode("IDENTITY_NOT_FOUND")

// ErrMismatchedHashAndPassword covers both an unknown username and a wrong
// password. Collapsing the two prevents account enumeration through error
// responses.
var ErrMismatchedHashAndPassword = errors.New("the credentials provided are invalid", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeInvalidCreds)

// ErrUsernameTaken is returned when registration hits an existing username,
// either on the lookahead read or on the insert-time unique constraint.
var ErrUsernameTaken = errors.New("Username is already taken!", errors.CategoryConflict).
	WithCode(errors.CodeBadRequest).
	WithTextCode(TextCodeUsernameTaken)

// ErrTokenExpired means the token was past its exp claim. Expiry is a hard
// gate evaluated even when the signature checks out.
var ErrTokenExpired = errors.New("authentication token is expired", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeTokenExpired)

// ErrTokenMalformed means the raw bytes could not be parsed as a token
var ErrTokenMalformed = errors.New("authentication token is malformed", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeTokenMalformed)

// ErrTokenSignature means the signature did not verify against the signing
// key, covering tampered payloads and tokens minted with a different secret
var ErrTokenSignature = errors.New("authentication token signature mismatch", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeTokenSignature)

// ErrMissingToken means the request carried no usable bearer token
var ErrMissingToken = errors.New("missing or malformed bearer token", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeMissingToken)

// ErrForbidden means the principal is valid but its roles do not satisfy the
// access policy for the requested operation
var ErrForbidden = errors.New("insufficient role for operation", errors.CategoryAuthz).
	WithCode(errors.CodeForbidden).
	WithTextCode(TextCodeForbidden)

// ErrNoEmptyString rejects empty passwords before they reach bcrypt
var ErrNoEmptyString = errors.New("value must not be an empty string", errors.CategoryValidation).
	WithCode(errors.CodeBadRequest).
	WithTextCode(TextCodeInvalidPassword)

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}

	var richErr *errors.Error
	if errors.As(err, &richErr) && richErr.TextCode == TextCodeTokenExpired {
		return true
	}

	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}

	var richErr *errors.Error
	if errors.As(err, &richErr) && richErr.TextCode == TextCodeTokenMalformed {
		return true
	}

	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}

// IsUsernameTakenError reports whether err maps to the duplicate username
// registration failure
func IsUsernameTakenError(err error) bool {
	if err == nil {
		return false
	}

	var richErr *errors.Error
	return errors.As(err, &richErr) && richErr.TextCode == TextCodeUsernameTaken
}

// IsInvalidCredentialsError reports whether err is the collapsed bad
// username/password failure
func IsInvalidCredentialsError(err error) bool {
	if err == nil {
		return false
	}

	var richErr *errors.Error
	return errors.As(err, &richErr) && richErr.TextCode == TextCodeInvalidCreds
}
