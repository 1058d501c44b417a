package token

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/openpost-dev/openpost/pkg/api"
	"github.com/openpost-dev/openpost/pkg/auth"
	"github.com/openpost-dev/openpost/pkg/storage"
)

// SubjectResolver checks that a token subject still maps to a live
// account. It is a synchronous lookup against the user store and runs
// on every request; results are never cached across requests.
type SubjectResolver interface {
	FindUserByName(ctx context.Context, name string) (*storage.User, error)
}

// Authenticator validates bearer tokens minted by a Codec. When a
// resolver is configured, the token subject is re-resolved against the
// user store so tokens for deleted accounts stop working immediately.
type Authenticator struct {
	codec    *Codec
	resolver SubjectResolver
}

// NewAuthenticator creates a bearer-token authenticator. resolver may
// be nil, in which case the token payload is trusted as-is.
func NewAuthenticator(codec *Codec, resolver SubjectResolver) *Authenticator {
	return &Authenticator{codec: codec, resolver: resolver}
}

// Authenticate extracts a bearer token from the Authorization header
// and validates it.
//
// Decision outcomes:
//   - Abstain: no Authorization header or not a Bearer scheme
//   - No: bearer token present but malformed, badly signed, expired,
//     or naming an unknown subject
//   - Yes: valid token with the subject bound into the Identity
func (a *Authenticator) Authenticate(ctx context.Context, r *http.Request) auth.AuthResult {
	header := r.Header.Get("Authorization")
	if header == "" {
		return auth.AuthResult{Decision: auth.Abstain}
	}

	// Must be Bearer token.
	if !strings.HasPrefix(header, "Bearer ") {
		return auth.AuthResult{Decision: auth.Abstain}
	}

	tokenStr := strings.TrimPrefix(header, "Bearer ")
	if tokenStr == "" {
		return auth.AuthResult{
			Decision: auth.No,
			Err:      api.NewMissingCredentialError(),
		}
	}

	claims, err := a.codec.Parse(tokenStr)
	if err != nil {
		return auth.AuthResult{
			Decision: auth.No,
			Err:      api.NewInvalidTokenError(),
		}
	}

	// Signature is valid; expiry is the second mandatory check.
	if claims.Expired(time.Now()) {
		return auth.AuthResult{
			Decision: auth.No,
			Err:      api.NewExpiredTokenError(),
		}
	}

	if a.resolver != nil {
		if _, err := a.resolver.FindUserByName(ctx, claims.Subject); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return auth.AuthResult{
					Decision: auth.No,
					Err:      api.NewUnknownSubjectError(claims.Subject),
				}
			}
			return auth.AuthResult{
				Decision: auth.No,
				Err:      api.NewServerError("resolving token subject"),
			}
		}
	}

	return auth.AuthResult{
		Decision: auth.Yes,
		Identity: &auth.Identity{Subject: claims.Subject},
	}
}
