package storage

import (
	"context"
	"time"
)

// User is a registered account. PasswordHash holds a bcrypt hash; the
// raw password is never stored and the hash never leaves the service
// layer.
type User struct {
	ID           string
	UserName     string
	PasswordHash string
	RegisteredAt time.Time
}

// Post is a user-owned piece of content. Owner is the principal name of
// the creating user, set once at creation and never reassigned.
type Post struct {
	ID             string
	Title          string
	Body           string
	Owner          string
	CreatedAt      time.Time
	LastModifiedAt *time.Time
}

// ListOptions controls post listing. Limit is capped by the backend.
type ListOptions struct {
	Limit  int
	Offset int
}

// UserStore persists accounts. Uniqueness of UserName is a store-level
// invariant: SaveUser returns ErrConflict on a duplicate name, enforced
// atomically by the backend rather than by a check-then-act sequence.
type UserStore interface {
	SaveUser(ctx context.Context, u *User) error
	FindUserByName(ctx context.Context, name string) (*User, error)
}

// PostStore persists posts. UpdatePost writes title, body, and the
// modification timestamp only; the owner column is immutable.
type PostStore interface {
	SavePost(ctx context.Context, p *Post) error
	FindPostByID(ctx context.Context, id string) (*Post, error)
	UpdatePost(ctx context.Context, p *Post) error
	DeletePost(ctx context.Context, id string) error
	ListPosts(ctx context.Context, opts ListOptions) ([]*Post, bool, error)
}

// Store is the combined backend contract.
type Store interface {
	UserStore
	PostStore

	// HealthCheck verifies the backend is reachable.
	HealthCheck(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}
