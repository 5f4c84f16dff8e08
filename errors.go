package tasks

import (
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	TextCodeInvalidCredentials = "INVALID_CREDENTIALS"
	TextCodeUnconfirmedAccount = "UNCONFIRMED_ACCOUNT"
	TextCodeInvalidToken       = "INVALID_TOKEN"
	TextCodeTokenExpired       = "TOKEN_EXPIRED"
	TextCodeTokenMalformed     = "TOKEN_MALFORMED"
	TextCodeWrongTokenPurpose  = "WRONG_TOKEN_PURPOSE"
	TextCodeMissingSubject     = "MISSING_SUBJECT_CLAIM"
	TextCodeDuplicateEmail     = "DUPLICATE_EMAIL"
	TextCodeTaskNotFound       = "TASK_NOT_FOUND"
	TextCodeEmptyUpdate        = "EMPTY_UPDATE"
)

// ErrInvalidCredentials is returned for unknown emails and wrong passwords
// alike, so callers cannot probe which addresses are registered.
var ErrInvalidCredentials = goerrors.New("Invalid email or password", goerrors.CategoryAuth).
	WithTextCode(TextCodeInvalidCredentials).
	WithCode(goerrors.CodeUnauthorized)

// ErrUnconfirmedAccount is returned when credentials check out but the
// account never redeemed its confirmation token.
var ErrUnconfirmedAccount = goerrors.New("User has not confirmed email", goerrors.CategoryAuth).
	WithTextCode(TextCodeUnconfirmedAccount).
	WithCode(goerrors.CodeUnauthorized)

// ErrInvalidToken covers tampered or structurally unparseable tokens and
// tokens whose subject no longer resolves to a known user.
var ErrInvalidToken = goerrors.New("Invalid token", goerrors.CategoryAuth).
	WithTextCode(TextCodeInvalidToken).
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenExpired is returned only for tokens whose signature verified.
var ErrTokenExpired = goerrors.New("Token has expired", goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenMalformed is the codec-level classification before the guard
// surfaces it as ErrInvalidToken.
var ErrTokenMalformed = goerrors.New("Token is malformed", goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(goerrors.CodeUnauthorized)

// ErrWrongTokenPurpose is returned when a validly signed token carries the
// wrong purpose claim for the flow it was presented in.
var ErrWrongTokenPurpose = goerrors.New("Token has incorrect purpose", goerrors.CategoryAuth).
	WithTextCode(TextCodeWrongTokenPurpose).
	WithCode(goerrors.CodeUnauthorized)

// ErrMissingSubject is returned for a validly signed token without a sub claim.
var ErrMissingSubject = goerrors.New("Token is missing 'sub' claim", goerrors.CategoryAuth).
	WithTextCode(TextCodeMissingSubject).
	WithCode(goerrors.CodeUnauthorized)

// ErrDuplicateEmail is a registration conflict, not part of the auth taxonomy.
var ErrDuplicateEmail = goerrors.New("A user with that email already exists", goerrors.CategoryConflict).
	WithTextCode(TextCodeDuplicateEmail).
	WithCode(goerrors.CodeBadRequest)

// ErrTaskNotFound is returned both for missing tasks and for tasks owned by
// somebody else, so non-owners cannot confirm a task exists.
var ErrTaskNotFound = goerrors.New("Task not found", goerrors.CategoryNotFound).
	WithTextCode(TextCodeTaskNotFound).
	WithCode(goerrors.CodeNotFound)

// ErrEmptyUpdate is returned for a PATCH with no updatable fields.
var ErrEmptyUpdate = goerrors.New("No fields provided for update", goerrors.CategoryBadInput).
	WithTextCode(TextCodeEmptyUpdate).
	WithCode(goerrors.CodeBadRequest)

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) && richErr.TextCode == TextCodeTokenExpired {
		return true
	}

	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) && richErr.TextCode == TextCodeTokenMalformed {
		return true
	}

	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}
