// Package token implements the credential codec: issuing and parsing
// signed, time-bounded identity tokens, and the bearer authenticator
// that validates them on every protected request.
//
// Tokens are HS256-signed JWTs carrying the subject's principal name,
// an issued-at instant, and an absolute expiry. Signature verification
// and expiry are distinct checks: Parse verifies signature and shape
// only, so a well-signed but expired token parses successfully and is
// rejected by the separate expiry check.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned when a token is structurally malformed or
// its signature does not verify against the codec's secret key.
var ErrInvalidToken = errors.New("invalid token")

// Claims are the registered claims carried by an issued token: sub is
// the principal name, iat the issue instant, exp the absolute expiry.
type Claims struct {
	jwt.RegisteredClaims
}

// Expired reports whether the token is past its validity window at the
// given instant. The boundary counts as expired: a check at exactly the
// expiry instant fails.
func (c *Claims) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt.Time)
}

// Codec issues and parses identity tokens. The secret key is shared by
// all concurrent invocations and read-only after construction.
type Codec struct {
	secret   []byte
	validity time.Duration
}

// NewCodec creates a codec signing with the given symmetric secret and
// issuing tokens valid for the given window.
func NewCodec(secret []byte, validity time.Duration) *Codec {
	return &Codec{secret: secret, validity: validity}
}

// Issue produces a signed token embedding the subject, issued now and
// expiring after the configured validity window.
func (c *Codec) Issue(subject string) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.validity)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Parse verifies the token's signature and structure and returns its
// claims. Expiry is deliberately not validated here; callers must check
// Claims.Expired separately so that the two failure kinds stay distinct.
func (c *Codec) Parse(tokenStr string) (*Claims, error) {
	claims := &Claims{}

	tok, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil || !tok.Valid {
		return nil, ErrInvalidToken
	}

	if claims.Subject == "" || claims.ExpiresAt == nil {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// IsExpired parses the token and reports whether it is past expiry.
// A token that fails signature or structure checks yields ErrInvalidToken.
func (c *Codec) IsExpired(tokenStr string) (bool, error) {
	claims, err := c.Parse(tokenStr)
	if err != nil {
		return false, err
	}
	return claims.Expired(time.Now()), nil
}
