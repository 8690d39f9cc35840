package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "podium/internal/errors"
)

// TokenCodec issues and validates signed access tokens carrying only a
// subject and an expiry. Tokens stay valid until they expire; there is no
// revocation list, so deactivating an account does not invalidate tokens
// already issued (the identity resolver rejects inactive accounts instead).
type TokenCodec struct {
	secret []byte
	method jwt.SigningMethod
	now    func() time.Time
}

// TokenOption configures a TokenCodec.
type TokenOption func(*TokenCodec)

// WithClock replaces the wall clock used for issuing and validating.
func WithClock(now func() time.Time) TokenOption {
	return func(c *TokenCodec) {
		c.now = now
	}
}

// NewTokenCodec creates a codec signing with secret under the named HMAC algorithm.
func NewTokenCodec(secret, algorithm string, opts ...TokenOption) (*TokenCodec, error) {
	if secret == "" {
		return nil, errors.New("token secret must not be empty")
	}
	method, ok := jwt.GetSigningMethod(algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("unsupported token algorithm %q", algorithm)
	}

	c := &TokenCodec{
		secret: []byte(secret),
		method: method,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Issue signs a token for subjectID that expires ttl from now.
func (c *TokenCodec) Issue(subjectID uint, ttl time.Duration) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(subjectID), 10),
		ExpiresAt: jwt.NewNumericDate(c.now().Add(ttl)),
	}

	token := jwt.NewWithClaims(c.method, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Validate checks signature and expiry and returns the subject. Every
// failure is reported as ErrUnauthorized without further detail.
func (c *TokenCodec) Validate(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{c.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil || !token.Valid || claims.Subject == "" {
		return "", apperrors.ErrUnauthorized
	}
	return claims.Subject, nil
}
