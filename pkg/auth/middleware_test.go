package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/openpost-dev/openpost/pkg/api"
)

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) *api.APIError {
	t.Helper()
	var resp api.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding error response: %v", err)
	}
	if resp.Error == nil {
		t.Fatal("error response has no error field")
	}
	return resp.Error
}

func TestMiddlewareRejectsWithoutCredential(t *testing.T) {
	chain := &AuthChain{DefaultDecision: No}

	handlerCalled := false
	handler := Middleware(chain)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("POST", "/api/v1/posts", nil))

	if handlerCalled {
		t.Error("handler invoked despite rejection")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	if apiErr := decodeError(t, rec); apiErr.Code != api.CodeMissingCredential {
		t.Errorf("code = %q, want %q", apiErr.Code, api.CodeMissingCredential)
	}
}

func TestMiddlewarePropagatesTaxonomyError(t *testing.T) {
	chain := &AuthChain{
		Authenticators: []Authenticator{
			&stubAuthn{result: AuthResult{Decision: No, Err: api.NewExpiredTokenError()}},
		},
		DefaultDecision: No,
	}

	handler := Middleware(chain)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler invoked despite rejection")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("PUT", "/api/v1/posts/p1", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	if apiErr := decodeError(t, rec); apiErr.Code != api.CodeExpiredToken {
		t.Errorf("code = %q, want %q", apiErr.Code, api.CodeExpiredToken)
	}
}

func TestMiddlewareInjectsIdentity(t *testing.T) {
	chain := &AuthChain{
		Authenticators: []Authenticator{
			&stubAuthn{result: AuthResult{Decision: Yes, Identity: &Identity{Subject: "alice"}}},
		},
		DefaultDecision: No,
	}

	var got *Identity
	handler := Middleware(chain)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("POST", "/api/v1/posts", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if got == nil || got.Subject != "alice" {
		t.Errorf("identity in handler = %+v, want subject \"alice\"", got)
	}
}

func TestMiddlewareRejectsEmptySubject(t *testing.T) {
	chain := &AuthChain{
		Authenticators: []Authenticator{
			&stubAuthn{result: AuthResult{Decision: Yes, Identity: &Identity{Subject: ""}}},
		},
		DefaultDecision: No,
	}

	handler := Middleware(chain)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler invoked with invalid identity")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("POST", "/api/v1/posts", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}
