package tasks

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// TokenServiceImpl implements the TokenService interface
type TokenServiceImpl struct {
	signingKey      []byte
	accessTTL       time.Duration
	confirmationTTL time.Duration
	issuer          string
	logger          Logger
}

// NewTokenService creates a new TokenService instance
func NewTokenService(signingKey []byte, accessTTL, confirmationTTL time.Duration, issuer string, logger Logger) TokenService {
	if logger == nil {
		logger = defLogger{}
	}
	if accessTTL == 0 {
		accessTTL = DefaultTokenTTL
	}
	if confirmationTTL == 0 {
		confirmationTTL = DefaultTokenTTL
	}
	return &TokenServiceImpl{
		signingKey:      signingKey,
		accessTTL:       accessTTL,
		confirmationTTL: confirmationTTL,
		issuer:          issuer,
		logger:          logger,
	}
}

// DefaultTokenTTL is the lifetime used when no override is configured.
const DefaultTokenTTL = 30 * time.Minute

// IssueAccess mints a bearer token for authenticated API access.
func (ts *TokenServiceImpl) IssueAccess(subject string) (string, error) {
	ts.logger.Debug("issuing access token", "subject", subject)
	return ts.SignClaims(ts.newClaims(subject, PurposeAccess, ts.accessTTL))
}

// IssueConfirmation mints a one-time email confirmation token.
func (ts *TokenServiceImpl) IssueConfirmation(subject string) (string, error) {
	ts.logger.Debug("issuing confirmation token", "subject", subject)
	return ts.SignClaims(ts.newClaims(subject, PurposeConfirmation, ts.confirmationTTL))
}

// SignClaims signs arbitrary token claims using the configured signing key.
func (ts *TokenServiceImpl) SignClaims(claims *TokenClaims) (string, error) {
	if claims == nil {
		return "", errors.New("claims must not be nil", errors.CategoryInternal)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedString, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to sign JWT")
	}

	return signedString, nil
}

// Validate parses a token string and enforces signature, expiry, subject
// presence, and purpose, in that order. Expiry is only reported for tokens
// whose signature verified; anything unverifiable is malformed.
func (ts *TokenServiceImpl) Validate(tokenString string, purpose TokenPurpose) (*TokenClaims, error) {
	parserOptions := make([]jwt.ParserOption, 0, 1)
	if ts.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(ts.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			ts.logger.Error("TokenService validate encountered unexpected signing method", "alg", t.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.signingKey, nil
	}, parserOptions...)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) && !errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return nil, ErrTokenExpired
		}
		return nil, errors.Wrap(err, ErrTokenMalformed.Category, ErrTokenMalformed.Message).
			WithTextCode(ErrTokenMalformed.TextCode)
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		ts.logger.Error("TokenService validate could not decode claims")
		return nil, ErrTokenMalformed
	}

	if claims.Subject() == "" {
		return nil, ErrMissingSubject
	}

	if claims.Purpose() != purpose {
		return nil, ErrWrongTokenPurpose.Clone().
			WithMetadata(map[string]any{
				"expected": string(purpose),
				"actual":   string(claims.Purpose()),
			})
	}

	return claims, nil
}

func (ts *TokenServiceImpl) newClaims(subject string, purpose TokenPurpose, ttl time.Duration) *TokenClaims {
	now := time.Now()

	claims := &TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		TokenType: purpose,
	}

	ensureTokenID(&claims.RegisteredClaims)

	return claims
}

func ensureTokenID(claims *jwt.RegisteredClaims) {
	if claims.ID == "" {
		claims.ID = uuid.NewString()
	}
}
