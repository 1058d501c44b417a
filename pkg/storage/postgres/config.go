package postgres

import "time"

// Config holds connection pool and startup settings for the PostgreSQL
// store.
type Config struct {
	// DSN is the connection string, e.g.
	// "postgres://openpost:secret@db:5432/openpost?sslmode=require".
	DSN string

	// MaxConns caps the pool size. The workload is short point queries
	// (a user lookup per authenticated request, single-post CRUD), so a
	// modest pool suffices. Default 25.
	MaxConns int32

	// MinConns is the number of idle connections kept warm so requests
	// after a quiet period don't pay dial latency. Default 5.
	MinConns int32

	// MaxConnLifetime bounds how long a connection is reused before
	// being replaced. Default 5 minutes.
	MaxConnLifetime time.Duration

	// MigrateOnStart applies pending schema migrations before the store
	// is handed out. Deployments that manage schema out of band leave
	// it off. Default false.
	MigrateOnStart bool
}

func (c *Config) defaults() {
	if c.MaxConns == 0 {
		c.MaxConns = 25
	}
	if c.MinConns == 0 {
		c.MinConns = 5
	}
	if c.MaxConnLifetime == 0 {
		c.MaxConnLifetime = 5 * time.Minute
	}
}
