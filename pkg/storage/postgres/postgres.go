// Package postgres provides a PostgreSQL implementation of storage.Store.
// It uses pgx/v5 for connection pooling and relies on a UNIQUE constraint
// on users.user_name to enforce principal-name uniqueness atomically.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openpost-dev/openpost/pkg/storage"
)

// Store is a PostgreSQL-backed storage.Store.
type Store struct {
	pool *pgxpool.Pool
}

// Ensure Store implements storage.Store at compile time.
var _ storage.Store = (*Store)(nil)

// New creates a new PostgreSQL store with the given configuration.
// If MigrateOnStart is true, schema migrations are applied automatically.
func New(ctx context.Context, cfg Config) (*Store, error) {
	cfg.defaults()

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parsing DSN: %w", err)
	}

	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	// Verify connectivity.
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &Store{pool: pool}

	if cfg.MigrateOnStart {
		if err := s.migrate(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("running migrations: %w", err)
		}
	}

	return s, nil
}

// SaveUser inserts a user. The UNIQUE constraint on user_name makes the
// duplicate check atomic; a violation surfaces as storage.ErrConflict.
func (s *Store) SaveUser(ctx context.Context, u *storage.User) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO users (id, user_name, password_hash, registered_at)
		VALUES ($1, $2, $3, $4)
	`, u.ID, u.UserName, u.PasswordHash, u.RegisteredAt)

	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrConflict
		}
		return fmt.Errorf("inserting user: %w", err)
	}

	return nil
}

// FindUserByName retrieves a user by principal name.
func (s *Store) FindUserByName(ctx context.Context, name string) (*storage.User, error) {
	var u storage.User

	err := s.pool.QueryRow(ctx, `
		SELECT id, user_name, password_hash, registered_at
		FROM users
		WHERE user_name = $1
	`, name).Scan(&u.ID, &u.UserName, &u.PasswordHash, &u.RegisteredAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying user: %w", err)
	}

	return &u, nil
}

// SavePost inserts a post.
func (s *Store) SavePost(ctx context.Context, p *storage.Post) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO posts (id, title, body, owner, created_at, last_modified_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, p.ID, p.Title, p.Body, p.Owner, p.CreatedAt, p.LastModifiedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrConflict
		}
		return fmt.Errorf("inserting post: %w", err)
	}

	return nil
}

// FindPostByID retrieves a post by id.
func (s *Store) FindPostByID(ctx context.Context, id string) (*storage.Post, error) {
	var p storage.Post

	err := s.pool.QueryRow(ctx, `
		SELECT id, title, body, owner, created_at, last_modified_at
		FROM posts
		WHERE id = $1
	`, id).Scan(&p.ID, &p.Title, &p.Body, &p.Owner, &p.CreatedAt, &p.LastModifiedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying post: %w", err)
	}

	return &p, nil
}

// UpdatePost writes title, body, and modification timestamp. The owner
// column is never part of the update.
func (s *Store) UpdatePost(ctx context.Context, p *storage.Post) error {
	result, err := s.pool.Exec(ctx, `
		UPDATE posts
		SET title = $1, body = $2, last_modified_at = $3
		WHERE id = $4
	`, p.Title, p.Body, p.LastModifiedAt, p.ID)

	if err != nil {
		return fmt.Errorf("updating post: %w", err)
	}
	if result.RowsAffected() == 0 {
		return storage.ErrNotFound
	}

	return nil
}

// DeletePost removes a post.
func (s *Store) DeletePost(ctx context.Context, id string) error {
	result, err := s.pool.Exec(ctx, "DELETE FROM posts WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("deleting post: %w", err)
	}
	if result.RowsAffected() == 0 {
		return storage.ErrNotFound
	}

	return nil
}

// ListPosts returns posts newest first with offset/limit pagination.
func (s *Store) ListPosts(ctx context.Context, opts storage.ListOptions) ([]*storage.Post, bool, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	// Fetch one extra row to detect whether more posts follow the page.
	rows, err := s.pool.Query(ctx, `
		SELECT id, title, body, owner, created_at, last_modified_at
		FROM posts
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`, limit+1, opts.Offset)
	if err != nil {
		return nil, false, fmt.Errorf("querying posts: %w", err)
	}
	defer rows.Close()

	var posts []*storage.Post
	for rows.Next() {
		var p storage.Post
		if err := rows.Scan(&p.ID, &p.Title, &p.Body, &p.Owner, &p.CreatedAt, &p.LastModifiedAt); err != nil {
			return nil, false, fmt.Errorf("scanning post: %w", err)
		}
		posts = append(posts, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("iterating posts: %w", err)
	}

	hasMore := len(posts) > limit
	if hasMore {
		posts = posts[:limit]
	}
	if posts == nil {
		posts = []*storage.Post{}
	}

	return posts, hasMore, nil
}

// HealthCheck verifies the database connection.
func (s *Store) HealthCheck(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases the connection pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// isUniqueViolation checks for a PostgreSQL unique violation (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
