package service

import (
	"context"
	"errors"
	"testing"

	"github.com/openpost-dev/openpost/pkg/api"
	"github.com/openpost-dev/openpost/pkg/storage"
	"github.com/openpost-dev/openpost/pkg/storage/memory"
)

func newPostService(t *testing.T) (*PostService, *memory.Store) {
	t.Helper()
	store := memory.New()
	for _, name := range []string{"alice", "bob"} {
		u := &storage.User{ID: "id-" + name, UserName: name, PasswordHash: "x"}
		if err := store.SaveUser(context.Background(), u); err != nil {
			t.Fatalf("seeding user %s: %v", name, err)
		}
	}
	return NewPostService(store, store), store
}

func TestAuthorize(t *testing.T) {
	if err := Authorize("alice", "alice"); err != nil {
		t.Errorf("Authorize(owner) = %v, want nil", err)
	}

	err := Authorize("bob", "alice")
	if err == nil {
		t.Fatal("Authorize(non-owner) = nil, want error")
	}
	var apiErr *api.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error %v is not an *api.APIError", err)
	}
	if apiErr.Code != api.CodeInvalidPermission {
		t.Errorf("code = %q, want %q", apiErr.Code, api.CodeInvalidPermission)
	}
}

func TestCreateAndGet(t *testing.T) {
	svc, _ := newPostService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, "alice", "Hello", "First post")
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if p.ID == "" {
		t.Error("post has no id")
	}
	if p.Owner != "alice" {
		t.Errorf("owner = %q, want \"alice\"", p.Owner)
	}
	if p.LastModifiedAt != nil {
		t.Error("new post has last_modified_at set")
	}

	got, err := svc.Get(ctx, p.ID)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got.Title != "Hello" || got.Body != "First post" {
		t.Errorf("got %q/%q, want \"Hello\"/\"First post\"", got.Title, got.Body)
	}
}

func TestCreateUnknownOwner(t *testing.T) {
	svc, _ := newPostService(t)

	_, err := svc.Create(context.Background(), "ghost", "t", "b")
	if err == nil {
		t.Fatal("Create() with unknown owner succeeded")
	}
	if code := apiErrCode(t, err); code != api.CodeUnknownSubject {
		t.Errorf("code = %q, want %q", code, api.CodeUnknownSubject)
	}
}

func TestGetNotFound(t *testing.T) {
	svc, _ := newPostService(t)

	_, err := svc.Get(context.Background(), "missing")
	if err == nil {
		t.Fatal("Get() for missing post succeeded")
	}
	if code := apiErrCode(t, err); code != api.CodePostNotFound {
		t.Errorf("code = %q, want %q", code, api.CodePostNotFound)
	}
}

func TestUpdateByOwner(t *testing.T) {
	svc, _ := newPostService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, "alice", "Hello", "First post")
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	updated, err := svc.Update(ctx, "alice", p.ID, "Hello v2", "Edited")
	if err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	if updated.Title != "Hello v2" || updated.Body != "Edited" {
		t.Errorf("updated to %q/%q, want new values", updated.Title, updated.Body)
	}
	if updated.LastModifiedAt == nil {
		t.Error("last_modified_at not set after update")
	}
	if updated.Owner != "alice" {
		t.Errorf("owner changed to %q", updated.Owner)
	}
}

func TestUpdateByNonOwnerLeavesPostUnchanged(t *testing.T) {
	svc, _ := newPostService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, "alice", "Hello", "First post")
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	_, err = svc.Update(ctx, "bob", p.ID, "Hijacked", "Changed")
	if err == nil {
		t.Fatal("Update() by non-owner succeeded")
	}
	if code := apiErrCode(t, err); code != api.CodeInvalidPermission {
		t.Errorf("code = %q, want %q", code, api.CodeInvalidPermission)
	}

	// The denial must leave the post byte-for-byte untouched.
	got, err := svc.Get(ctx, p.ID)
	if err != nil {
		t.Fatalf("Get() after denied update: %v", err)
	}
	if got.Title != "Hello" || got.Body != "First post" {
		t.Errorf("post mutated by denied update: %q/%q", got.Title, got.Body)
	}
	if got.LastModifiedAt != nil {
		t.Error("last_modified_at set by denied update")
	}
}

func TestDeleteByOwner(t *testing.T) {
	svc, _ := newPostService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, "alice", "Hello", "First post")
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	if err := svc.Delete(ctx, "alice", p.ID); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}

	if _, err := svc.Get(ctx, p.ID); err == nil {
		t.Error("post still readable after delete")
	}
}

func TestDeleteByNonOwner(t *testing.T) {
	svc, _ := newPostService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, "alice", "Hello", "First post")
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	err = svc.Delete(ctx, "bob", p.ID)
	if err == nil {
		t.Fatal("Delete() by non-owner succeeded")
	}
	if code := apiErrCode(t, err); code != api.CodeInvalidPermission {
		t.Errorf("code = %q, want %q", code, api.CodeInvalidPermission)
	}

	if _, err := svc.Get(ctx, p.ID); err != nil {
		t.Errorf("post gone after denied delete: %v", err)
	}
}

func TestDeleteNotFound(t *testing.T) {
	svc, _ := newPostService(t)

	err := svc.Delete(context.Background(), "alice", "missing")
	if err == nil {
		t.Fatal("Delete() for missing post succeeded")
	}
	if code := apiErrCode(t, err); code != api.CodePostNotFound {
		t.Errorf("code = %q, want %q", code, api.CodePostNotFound)
	}
}

func TestListNewestFirst(t *testing.T) {
	svc, _ := newPostService(t)
	ctx := context.Background()

	for _, title := range []string{"first", "second", "third"} {
		if _, err := svc.Create(ctx, "alice", title, "body"); err != nil {
			t.Fatalf("Create(%s) error: %v", title, err)
		}
	}

	posts, hasMore, err := svc.List(ctx, storage.ListOptions{Limit: 2})
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("len(posts) = %d, want 2", len(posts))
	}
	if !hasMore {
		t.Error("hasMore = false, want true")
	}
}
