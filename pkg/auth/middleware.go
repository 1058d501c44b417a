package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/openpost-dev/openpost/pkg/api"
	"github.com/openpost-dev/openpost/pkg/observability"
	"github.com/openpost-dev/openpost/pkg/transport"
)

// Middleware creates HTTP middleware from an AuthChain. It runs the
// chain to a terminal decision, rejects the request or injects the
// authenticated identity into the context, and only then invokes the
// next handler — business logic never sees a half-authenticated request.
func Middleware(chain *AuthChain) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			result := chain.Authenticate(r.Context(), r)

			if result.Decision == No {
				apiErr := rejectionError(result.Err)
				slog.Warn("authentication failed",
					"path", r.URL.Path,
					"remote_addr", r.RemoteAddr,
					"code", apiErr.Code,
				)
				observability.AuthRejectionsTotal.WithLabelValues(apiErr.Code).Inc()
				transport.WriteAPIError(w, apiErr)
				return
			}

			if result.Decision != Yes || result.Identity == nil {
				transport.WriteAPIError(w, api.NewMissingCredentialError())
				return
			}

			// Validate identity.
			if result.Identity.Subject == "" {
				slog.Error("authenticator returned identity with empty subject")
				transport.WriteAPIError(w, api.NewServerError("internal authentication error"))
				return
			}

			slog.Debug("authentication succeeded",
				"subject", result.Identity.Subject,
				"path", r.URL.Path,
			)

			ctx := SetIdentity(r.Context(), result.Identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// rejectionError maps a chain error to the structured error surfaced to
// the caller. Authenticators report taxonomy outcomes as *api.APIError;
// anything else (including the all-abstain default) means no usable
// credential was presented.
func rejectionError(err error) *api.APIError {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return api.NewMissingCredentialError()
}
