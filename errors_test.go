package tasks_test

import (
	"errors"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	tasks "github.com/goliatone/go-tasks"
	"github.com/stretchr/testify/assert"
)

func TestIsTokenExpiredError(t *testing.T) {
	assert.False(t, tasks.IsTokenExpiredError(nil))
	assert.True(t, tasks.IsTokenExpiredError(tasks.ErrTokenExpired))
	assert.True(t, tasks.IsTokenExpiredError(jwt.ErrTokenExpired))
	assert.False(t, tasks.IsTokenExpiredError(tasks.ErrInvalidToken))
	assert.False(t, tasks.IsTokenExpiredError(errors.New("something else")))
}

func TestIsMalformedError(t *testing.T) {
	assert.False(t, tasks.IsMalformedError(nil))
	assert.True(t, tasks.IsMalformedError(tasks.ErrTokenMalformed))
	assert.True(t, tasks.IsMalformedError(jwt.ErrTokenMalformed))
	assert.False(t, tasks.IsMalformedError(tasks.ErrTokenExpired))
}

func TestAuthTaxonomyDetails(t *testing.T) {
	// Unknown email and wrong password must be indistinguishable.
	assert.Equal(t, tasks.ErrInvalidCredentials.Message, "Invalid email or password")

	cases := map[string]string{
		tasks.ErrUnconfirmedAccount.Message: "User has not confirmed email",
		tasks.ErrInvalidToken.Message:       "Invalid token",
		tasks.ErrTokenExpired.Message:       "Token has expired",
		tasks.ErrMissingSubject.Message:     "Token is missing 'sub' claim",
	}

	for got, want := range cases {
		assert.Equal(t, want, got)
	}
}
