// Package transport provides the HTTP plumbing shared by the openpost
// handlers: mapping structured API errors to status codes and JSON
// bodies, and cross-cutting middleware for panic recovery, request IDs
// (X-Request-ID), and structured request logging via log/slog.
//
// The route handlers themselves live in the http subpackage; this
// package holds only transport-level concerns with no knowledge of the
// business operations.
package transport
