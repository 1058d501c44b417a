// Package auth provides stateless authentication for the openpost backend.
//
// Authentication uses a chain-of-responsibility pattern with three-outcome
// voting: each authenticator returns Yes (identity established), No
// (credentials invalid), or Abstain (can't handle). A configurable default
// voter decides when all authenticators abstain.
//
// The gate is implemented as HTTP middleware applied to protected routes
// only; public routes are registered without it. Every protected request
// is independently re-verified — no authentication result is ever cached
// across requests.
package auth
