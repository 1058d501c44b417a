package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/openpost-dev/openpost/pkg/api"
	"github.com/openpost-dev/openpost/pkg/storage"
)

// PostService handles post CRUD. Reads are open to any caller; update
// and delete run the ownership policy after loading the post and before
// touching the store.
type PostService struct {
	posts storage.PostStore
	users storage.UserStore
}

// NewPostService constructs a PostService.
func NewPostService(posts storage.PostStore, users storage.UserStore) *PostService {
	return &PostService{posts: posts, users: users}
}

// Create writes a new post owned by the authenticated subject. The
// owner reference is set exactly once here and never reassigned.
func (s *PostService) Create(ctx context.Context, owner, title, body string) (*storage.Post, error) {
	if _, err := s.users.FindUserByName(ctx, owner); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, api.NewUnknownSubjectError(owner)
		}
		return nil, fmt.Errorf("looking up owner: %w", err)
	}

	p := &storage.Post{
		ID:        uuid.NewString(),
		Title:     title,
		Body:      body,
		Owner:     owner,
		CreatedAt: time.Now(),
	}

	if err := s.posts.SavePost(ctx, p); err != nil {
		return nil, fmt.Errorf("saving post: %w", err)
	}

	slog.Info("post created", "post_id", p.ID, "owner", owner)
	return p, nil
}

// Get returns a post by id.
func (s *PostService) Get(ctx context.Context, id string) (*storage.Post, error) {
	p, err := s.posts.FindPostByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, api.NewPostNotFoundError(id)
		}
		return nil, fmt.Errorf("querying post: %w", err)
	}
	return p, nil
}

// List returns posts newest first. The second return value reports
// whether more posts follow the page.
func (s *PostService) List(ctx context.Context, opts storage.ListOptions) ([]*storage.Post, bool, error) {
	posts, hasMore, err := s.posts.ListPosts(ctx, opts)
	if err != nil {
		return nil, false, fmt.Errorf("listing posts: %w", err)
	}
	return posts, hasMore, nil
}

// Update replaces a post's title and body. The ownership check runs
// strictly before the write; a denial leaves the post untouched.
func (s *PostService) Update(ctx context.Context, subject, id, title, body string) (*storage.Post, error) {
	p, err := s.posts.FindPostByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, api.NewPostNotFoundError(id)
		}
		return nil, fmt.Errorf("querying post: %w", err)
	}

	if err := Authorize(subject, p.Owner); err != nil {
		return nil, err
	}

	now := time.Now()
	p.Title = title
	p.Body = body
	p.LastModifiedAt = &now

	if err := s.posts.UpdatePost(ctx, p); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, api.NewPostNotFoundError(id)
		}
		return nil, fmt.Errorf("updating post: %w", err)
	}

	slog.Info("post updated", "post_id", id, "owner", p.Owner)
	return p, nil
}

// Delete removes a post after the ownership check passes.
func (s *PostService) Delete(ctx context.Context, subject, id string) error {
	p, err := s.posts.FindPostByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return api.NewPostNotFoundError(id)
		}
		return fmt.Errorf("querying post: %w", err)
	}

	if err := Authorize(subject, p.Owner); err != nil {
		return err
	}

	if err := s.posts.DeletePost(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return api.NewPostNotFoundError(id)
		}
		return fmt.Errorf("deleting post: %w", err)
	}

	slog.Info("post deleted", "post_id", id, "owner", p.Owner)
	return nil
}
