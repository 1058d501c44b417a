// Package service contains the business logic of the openpost backend:
// account registration and login, post CRUD, and the ownership policy
// applied by mutating post operations.
//
// Expected, caller-facing outcomes are returned as *api.APIError with a
// stable code; anything else is an unmodeled fault that the transport
// layer surfaces as a generic server error.
package service
