// Package storage defines the record types and store interfaces shared
// by the storage backends, plus the sentinel errors they return.
//
// Backends (memory, postgres) implement the Store interface. The
// service layer consumes the interfaces; it never sees backend-specific
// error values, only ErrNotFound and ErrConflict.
package storage
