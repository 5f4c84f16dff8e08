package tasks_test

import (
	"context"
	"testing"

	tasks "github.com/goliatone/go-tasks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUser(t *testing.T, email, password string, confirmed bool) *tasks.User {
	t.Helper()

	hash, err := tasks.HashPassword(password)
	require.NoError(t, err)

	return &tasks.User{
		ID:           1,
		Email:        email,
		PasswordHash: hash,
		Confirmed:    confirmed,
	}
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	user := newTestUser(t, "a@example.com", "pw1234", true)

	t.Run("unknown email fails with invalid credentials", func(t *testing.T) {
		provider := &MockIdentityProvider{}
		provider.On("GetByEmail", ctx, "nobody@example.com").Return(nil, notFoundErr())

		auther := tasks.NewAuthenticator(provider, newTestConfig())

		_, err := auther.Authenticate(ctx, "nobody@example.com", "pw1234")
		assert.ErrorIs(t, err, tasks.ErrInvalidCredentials)
		provider.AssertExpectations(t)
	})

	t.Run("wrong password fails with the same classification", func(t *testing.T) {
		provider := &MockIdentityProvider{}
		provider.On("GetByEmail", ctx, user.Email).Return(user, nil)

		auther := tasks.NewAuthenticator(provider, newTestConfig())

		_, err := auther.Authenticate(ctx, user.Email, "wrong-password")
		assert.ErrorIs(t, err, tasks.ErrInvalidCredentials)
	})

	t.Run("unconfirmed account with correct password", func(t *testing.T) {
		unconfirmed := newTestUser(t, "b@example.com", "pw1234", false)

		provider := &MockIdentityProvider{}
		provider.On("GetByEmail", ctx, unconfirmed.Email).Return(unconfirmed, nil)

		auther := tasks.NewAuthenticator(provider, newTestConfig())

		_, err := auther.Authenticate(ctx, unconfirmed.Email, "pw1234")
		assert.ErrorIs(t, err, tasks.ErrUnconfirmedAccount)
	})

	t.Run("unconfirmed account with wrong password leaks nothing", func(t *testing.T) {
		unconfirmed := newTestUser(t, "c@example.com", "pw1234", false)

		provider := &MockIdentityProvider{}
		provider.On("GetByEmail", ctx, unconfirmed.Email).Return(unconfirmed, nil)

		auther := tasks.NewAuthenticator(provider, newTestConfig())

		_, err := auther.Authenticate(ctx, unconfirmed.Email, "wrong-password")
		assert.ErrorIs(t, err, tasks.ErrInvalidCredentials)
	})

	t.Run("confirmed account returns the identity", func(t *testing.T) {
		provider := &MockIdentityProvider{}
		provider.On("GetByEmail", ctx, user.Email).Return(user, nil)

		auther := tasks.NewAuthenticator(provider, newTestConfig())

		got, err := auther.Authenticate(ctx, user.Email, "pw1234")
		require.NoError(t, err)
		assert.Equal(t, user.Email, got.Email)
		assert.Equal(t, user.ID, got.ID)
	})
}

func TestLoginAndIdentityFromToken(t *testing.T) {
	ctx := context.Background()
	user := newTestUser(t, "a@example.com", "pw1234", true)

	provider := &MockIdentityProvider{}
	provider.On("GetByEmail", ctx, user.Email).Return(user, nil)

	auther := tasks.NewAuthenticator(provider, newTestConfig())

	token, err := auther.Login(ctx, user.Email, "pw1234")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	t.Run("access token resolves back to the identity", func(t *testing.T) {
		got, err := auther.IdentityFromToken(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
	})

	t.Run("subject deleted after issuance", func(t *testing.T) {
		gone := &MockIdentityProvider{}
		gone.On("GetByEmail", ctx, user.Email).Return(nil, notFoundErr())

		auther2 := tasks.NewAuthenticator(gone, newTestConfig())

		// Token signed with the same key is still valid; the lookup fails.
		_, err := auther2.IdentityFromToken(ctx, token)
		assert.ErrorIs(t, err, tasks.ErrInvalidToken)
	})

	t.Run("token signed with a different key", func(t *testing.T) {
		otherCfg := newTestConfig()
		otherCfg.signingKey = "some-other-key"

		other := tasks.NewAuthenticator(provider, otherCfg)
		forged, err := other.Login(ctx, user.Email, "pw1234")
		require.NoError(t, err)

		_, err = auther.IdentityFromToken(ctx, forged)
		assert.ErrorIs(t, err, tasks.ErrInvalidToken)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := auther.IdentityFromToken(ctx, "not-a-token")
		assert.ErrorIs(t, err, tasks.ErrInvalidToken)
	})

	t.Run("confirmation token rejected on the access path", func(t *testing.T) {
		confirmation, err := auther.TokenService().IssueConfirmation(user.Email)
		require.NoError(t, err)

		_, err = auther.IdentityFromToken(ctx, confirmation)
		assert.True(t, hasTextCode(err, tasks.TextCodeWrongTokenPurpose), "got %v", err)
	})
}

func TestConfirmationSubject(t *testing.T) {
	user := newTestUser(t, "a@example.com", "pw1234", false)

	provider := &MockIdentityProvider{}
	auther := tasks.NewAuthenticator(provider, newTestConfig())

	t.Run("round trips the subject", func(t *testing.T) {
		token, err := auther.TokenService().IssueConfirmation(user.Email)
		require.NoError(t, err)

		email, err := auther.ConfirmationSubject(token)
		require.NoError(t, err)
		assert.Equal(t, user.Email, email)
	})

	t.Run("access token rejected on the confirmation path", func(t *testing.T) {
		token, err := auther.TokenService().IssueAccess(user.Email)
		require.NoError(t, err)

		_, err = auther.ConfirmationSubject(token)
		assert.True(t, hasTextCode(err, tasks.TextCodeWrongTokenPurpose), "got %v", err)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := auther.ConfirmationSubject("nope")
		assert.ErrorIs(t, err, tasks.ErrInvalidToken)
	})
}

func TestAuthorizeOwner(t *testing.T) {
	owner := &tasks.User{ID: 7}

	assert.True(t, tasks.AuthorizeOwner(owner, 7))
	assert.False(t, tasks.AuthorizeOwner(owner, 8))
	assert.False(t, tasks.AuthorizeOwner(nil, 7))
}
