package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/openpost-dev/openpost/pkg/api"
	"github.com/openpost-dev/openpost/pkg/auth"
	"github.com/openpost-dev/openpost/pkg/auth/token"
	"github.com/openpost-dev/openpost/pkg/storage"
	"github.com/openpost-dev/openpost/pkg/storage/memory"
)

func newUserService(t *testing.T, limiter auth.RateLimiter) (*UserService, *token.Codec) {
	t.Helper()
	codec := token.NewCodec([]byte("test-secret"), time.Hour)
	return NewUserService(memory.New(), codec, limiter), codec
}

func apiErrCode(t *testing.T, err error) string {
	t.Helper()
	var apiErr *api.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error %v is not an *api.APIError", err)
	}
	return apiErr.Code
}

func TestJoin(t *testing.T) {
	svc, _ := newUserService(t, nil)
	ctx := context.Background()

	u, err := svc.Join(ctx, "alice", "s3cret")
	if err != nil {
		t.Fatalf("Join() error: %v", err)
	}
	if u.ID == "" {
		t.Error("user has no id")
	}
	if u.UserName != "alice" {
		t.Errorf("user_name = %q, want \"alice\"", u.UserName)
	}
	if u.PasswordHash == "s3cret" {
		t.Error("password stored unhashed")
	}
}

func TestJoinDuplicateName(t *testing.T) {
	svc, _ := newUserService(t, nil)
	ctx := context.Background()

	if _, err := svc.Join(ctx, "alice", "s3cret"); err != nil {
		t.Fatalf("first Join() error: %v", err)
	}

	// The same name is rejected even with a different password.
	_, err := svc.Join(ctx, "alice", "other-password")
	if err == nil {
		t.Fatal("second Join() succeeded, want duplicate_name")
	}
	if code := apiErrCode(t, err); code != api.CodeDuplicateName {
		t.Errorf("code = %q, want %q", code, api.CodeDuplicateName)
	}
}

func TestLogin(t *testing.T) {
	svc, codec := newUserService(t, nil)
	ctx := context.Background()

	if _, err := svc.Join(ctx, "alice", "s3cret"); err != nil {
		t.Fatalf("Join() error: %v", err)
	}

	tok, err := svc.Login(ctx, "alice", "s3cret")
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}

	claims, err := codec.Parse(tok)
	if err != nil {
		t.Fatalf("issued token does not parse: %v", err)
	}
	if claims.Subject != "alice" {
		t.Errorf("token subject = %q, want \"alice\"", claims.Subject)
	}
}

func TestLoginUnknownUser(t *testing.T) {
	svc, _ := newUserService(t, nil)

	_, err := svc.Login(context.Background(), "ghost", "whatever")
	if err == nil {
		t.Fatal("Login() for unknown user succeeded")
	}
	if code := apiErrCode(t, err); code != api.CodeUnknownSubject {
		t.Errorf("code = %q, want %q", code, api.CodeUnknownSubject)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newUserService(t, nil)
	ctx := context.Background()

	if _, err := svc.Join(ctx, "alice", "s3cret"); err != nil {
		t.Fatalf("Join() error: %v", err)
	}

	_, err := svc.Login(ctx, "alice", "wrong")
	if err == nil {
		t.Fatal("Login() with wrong password succeeded")
	}
	if code := apiErrCode(t, err); code != api.CodeInvalidPassword {
		t.Errorf("code = %q, want %q", code, api.CodeInvalidPassword)
	}
}

func TestLoginThrottled(t *testing.T) {
	svc, _ := newUserService(t, auth.NewInProcessLimiter(1))
	ctx := context.Background()

	if _, err := svc.Join(ctx, "alice", "s3cret"); err != nil {
		t.Fatalf("Join() error: %v", err)
	}

	if _, err := svc.Login(ctx, "alice", "s3cret"); err != nil {
		t.Fatalf("first Login() error: %v", err)
	}

	_, err := svc.Login(ctx, "alice", "s3cret")
	if err == nil {
		t.Fatal("second Login() within window succeeded, want throttling")
	}
	var apiErr *api.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error %v is not an *api.APIError", err)
	}
	if apiErr.Type != api.ErrorTypeTooManyRequests {
		t.Errorf("type = %q, want %q", apiErr.Type, api.ErrorTypeTooManyRequests)
	}
}

func TestFindUserByName(t *testing.T) {
	svc, _ := newUserService(t, nil)
	ctx := context.Background()

	if _, err := svc.Join(ctx, "alice", "s3cret"); err != nil {
		t.Fatalf("Join() error: %v", err)
	}

	u, err := svc.FindUserByName(ctx, "alice")
	if err != nil {
		t.Fatalf("FindUserByName() error: %v", err)
	}
	if u.UserName != "alice" {
		t.Errorf("user_name = %q, want \"alice\"", u.UserName)
	}
}

func TestUserServiceIsSubjectResolver(t *testing.T) {
	svc, _ := newUserService(t, nil)

	// The authentication gate resolves token subjects through the user
	// service; the assignment must hold at compile time.
	var resolver token.SubjectResolver = svc

	if _, err := resolver.FindUserByName(context.Background(), "ghost"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("FindUserByName(ghost) = %v, want ErrNotFound", err)
	}
}
