package tasks

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

// Auther verifies credentials, mints tokens, and resolves bearer tokens back
// into identities. It is stateless; every call is a pure check plus at most
// one persistence round trip.
type Auther struct {
	provider        IdentityProvider
	signingKey      []byte
	issuer          string
	accessTTL       time.Duration
	confirmationTTL time.Duration
	logger          Logger
	tokenService    TokenService
}

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(provider IdentityProvider, opts Config) *Auther {
	tokenService := NewTokenService(
		[]byte(opts.GetSigningKey()),
		opts.GetTokenExpiration(),
		opts.GetConfirmationTokenExpiration(),
		opts.GetIssuer(),
		defLogger{},
	)

	return &Auther{
		provider:        provider,
		signingKey:      []byte(opts.GetSigningKey()),
		issuer:          opts.GetIssuer(),
		accessTTL:       opts.GetTokenExpiration(),
		confirmationTTL: opts.GetConfirmationTokenExpiration(),
		logger:          defLogger{},
		tokenService:    tokenService,
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	s.logger = logger
	// Update the TokenService logger as well
	s.tokenService = NewTokenService(
		s.signingKey,
		s.accessTTL,
		s.confirmationTTL,
		s.issuer,
		logger,
	)
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() TokenService {
	return s.tokenService
}

// Authenticate verifies an (email, password) pair against stored credentials
// and the account's confirmation state. Credential validity is checked before
// confirmation status: callers without the correct password learn nothing
// beyond "invalid email or password".
func (s *Auther) Authenticate(ctx context.Context, email, password string) (*User, error) {
	user, err := s.provider.GetByEmail(ctx, email)
	if err != nil {
		if goerrors.IsNotFound(err) {
			s.logger.Debug("authenticate unknown email", "email", email)
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("authenticate identity lookup error", "error", err)
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "identity lookup failed")
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		s.logger.Debug("authenticate password mismatch", "email", email)
		return nil, ErrInvalidCredentials
	}

	if !user.Confirmed {
		return nil, ErrUnconfirmedAccount
	}

	return user, nil
}

// Login authenticates the credentials and mints an access token for the user.
func (s *Auther) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return "", err
	}

	return s.tokenService.IssueAccess(user.Email)
}

// IdentityFromToken resolves a bearer token into the acting identity. It
// expects an access-purpose token; malformed tokens and tokens whose subject
// no longer exists surface as ErrInvalidToken, expiry and purpose mismatch
// keep their own classification.
func (s *Auther) IdentityFromToken(ctx context.Context, raw string) (*User, error) {
	claims, err := s.tokenService.Validate(raw, PurposeAccess)
	if err != nil {
		if IsMalformedError(err) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	user, err := s.provider.GetByEmail(ctx, claims.Subject())
	if err != nil {
		if goerrors.IsNotFound(err) {
			// Identity deleted or renamed after issuance.
			s.logger.Warn("token subject no longer resolves", "subject", claims.Subject())
			return nil, ErrInvalidToken
		}
		s.logger.Error("token identity lookup error", "error", err)
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "identity lookup failed")
	}

	return user, nil
}

// ConfirmationSubject validates a confirmation-purpose token and returns the
// email it was issued for.
func (s *Auther) ConfirmationSubject(raw string) (string, error) {
	claims, err := s.tokenService.Validate(raw, PurposeConfirmation)
	if err != nil {
		if IsMalformedError(err) {
			return "", ErrInvalidToken
		}
		return "", err
	}

	return claims.Subject(), nil
}

// AuthorizeOwner reports whether identity owns the record. Mutating task
// operations call this, or run an owner-scoped query that yields not-found
// for non-owners.
func AuthorizeOwner(identity *User, ownerID int64) bool {
	return identity != nil && identity.ID == ownerID
}
