// Package memory provides an in-memory Store implementation for tests
// and lightweight deployments. Records are lost when the process
// restarts.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/openpost-dev/openpost/pkg/storage"
)

// Store is an in-memory storage.Store guarded by a single RWMutex.
type Store struct {
	mu          sync.RWMutex
	usersByName map[string]*storage.User
	posts       map[string]*storage.Post
}

// Ensure Store implements storage.Store at compile time.
var _ storage.Store = (*Store)(nil)

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		usersByName: make(map[string]*storage.User),
		posts:       make(map[string]*storage.Post),
	}
}

// SaveUser inserts a user. Returns storage.ErrConflict when the name is
// taken; the check and insert happen under one lock, so concurrent
// duplicate registrations cannot race.
func (s *Store) SaveUser(_ context.Context, u *storage.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.usersByName[u.UserName]; exists {
		return storage.ErrConflict
	}

	cp := *u
	s.usersByName[u.UserName] = &cp
	return nil
}

// FindUserByName returns the user with the given principal name.
func (s *Store) FindUserByName(_ context.Context, name string) (*storage.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.usersByName[name]
	if !ok {
		return nil, storage.ErrNotFound
	}

	cp := *u
	return &cp, nil
}

// SavePost inserts a post.
func (s *Store) SavePost(_ context.Context, p *storage.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.posts[p.ID]; exists {
		return storage.ErrConflict
	}

	cp := *p
	s.posts[p.ID] = &cp
	return nil
}

// FindPostByID returns a copy of the post, so callers can stage edits
// without mutating stored state.
func (s *Store) FindPostByID(_ context.Context, id string) (*storage.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.posts[id]
	if !ok {
		return nil, storage.ErrNotFound
	}

	cp := *p
	return &cp, nil
}

// UpdatePost writes title, body, and modification timestamp. The owner
// field of the stored record is left untouched.
func (s *Store) UpdatePost(_ context.Context, p *storage.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.posts[p.ID]
	if !ok {
		return storage.ErrNotFound
	}

	cur.Title = p.Title
	cur.Body = p.Body
	cur.LastModifiedAt = p.LastModifiedAt
	return nil
}

// DeletePost removes a post.
func (s *Store) DeletePost(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[id]; !ok {
		return storage.ErrNotFound
	}

	delete(s.posts, id)
	return nil
}

// ListPosts returns posts newest first with offset/limit pagination.
// The second return value reports whether more posts follow the page.
func (s *Store) ListPosts(_ context.Context, opts storage.ListOptions) ([]*storage.Post, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]*storage.Post, 0, len(s.posts))
	for _, p := range s.posts {
		cp := *p
		all = append(all, &cp)
	}

	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID > all[j].ID
	})

	limit := opts.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	if opts.Offset >= len(all) {
		return []*storage.Post{}, false, nil
	}
	all = all[opts.Offset:]

	hasMore := len(all) > limit
	if hasMore {
		all = all[:limit]
	}

	return all, hasMore, nil
}

// HealthCheck always returns nil for the in-memory store.
func (s *Store) HealthCheck(_ context.Context) error {
	return nil
}

// Close is a no-op for the in-memory store.
func (s *Store) Close() error {
	return nil
}
