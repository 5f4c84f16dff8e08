package tasks_test

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	tasks "github.com/goliatone/go-tasks"
	"github.com/stretchr/testify/mock"
)

// MockIdentityProvider implements tasks.IdentityProvider
type MockIdentityProvider struct {
	mock.Mock
}

func (m *MockIdentityProvider) GetByEmail(ctx context.Context, email string) (*tasks.User, error) {
	args := m.Called(ctx, email)

	var user *tasks.User
	if v := args.Get(0); v != nil {
		user = v.(*tasks.User)
	}

	return user, args.Error(1)
}

// MockLogger implements tasks.Logger for testing
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Info(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Warn(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Error(format string, args ...any) {
	m.Called(format, args)
}

// testConfig implements tasks.Config
type testConfig struct {
	signingKey      string
	accessTTL       time.Duration
	confirmationTTL time.Duration
	issuer          string
}

func (c testConfig) GetSigningKey() string { return c.signingKey }

func (c testConfig) GetTokenExpiration() time.Duration { return c.accessTTL }

func (c testConfig) GetConfirmationTokenExpiration() time.Duration { return c.confirmationTTL }

func (c testConfig) GetIssuer() string { return c.issuer }

func newTestConfig() testConfig {
	return testConfig{
		signingKey:      "test-signing-key",
		accessTTL:       30 * time.Minute,
		confirmationTTL: 30 * time.Minute,
		issuer:          "go-tasks-test",
	}
}

func notFoundErr() error {
	return goerrors.New("identity not found", goerrors.CategoryNotFound).
		WithCode(goerrors.CodeNotFound)
}

func hasTextCode(err error, textCode string) bool {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		return false
	}
	return richErr.TextCode == textCode
}
