// Package api defines the wire types for the openpost backend.
//
// It contains the request and response DTOs for the user and post
// endpoints, plus the structured error type shared by all handlers.
// Every rejection the service produces maps to a stable machine-readable
// error code; the transport layer derives the HTTP status from the
// error type. The package has no dependencies beyond the standard
// library and performs no I/O.
package api
