package api

import "time"

// JoinRequest is the body of POST /api/v1/users/join.
type JoinRequest struct {
	UserName string `json:"user_name"`
	Password string `json:"password"`
}

// Validate checks required fields.
func (r *JoinRequest) Validate() *APIError {
	if r.UserName == "" {
		return NewInvalidRequestError("user_name", "user_name is required")
	}
	if r.Password == "" {
		return NewInvalidRequestError("password", "password is required")
	}
	return nil
}

// JoinResponse is returned on successful registration. It never carries
// password material.
type JoinResponse struct {
	UserID   string `json:"user_id"`
	UserName string `json:"user_name"`
}

// LoginRequest is the body of POST /api/v1/users/login.
type LoginRequest struct {
	UserName string `json:"user_name"`
	Password string `json:"password"`
}

// Validate checks required fields.
func (r *LoginRequest) Validate() *APIError {
	if r.UserName == "" {
		return NewInvalidRequestError("user_name", "user_name is required")
	}
	if r.Password == "" {
		return NewInvalidRequestError("password", "password is required")
	}
	return nil
}

// LoginResponse carries the issued credential.
type LoginResponse struct {
	Token string `json:"token"`
}

// PostWriteRequest is the body of POST and PUT on the post routes.
type PostWriteRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Validate checks required fields.
func (r *PostWriteRequest) Validate() *APIError {
	if r.Title == "" {
		return NewInvalidRequestError("title", "title is required")
	}
	if r.Body == "" {
		return NewInvalidRequestError("body", "body is required")
	}
	return nil
}

// PostResponse is the wire representation of a post.
type PostResponse struct {
	PostID         string     `json:"post_id"`
	Title          string     `json:"title"`
	Body           string     `json:"body"`
	UserName       string     `json:"user_name"`
	CreatedAt      time.Time  `json:"created_at"`
	LastModifiedAt *time.Time `json:"last_modified_at,omitempty"`
}

// PostList is a paginated list of posts, newest first.
type PostList struct {
	Data    []PostResponse `json:"data"`
	HasMore bool           `json:"has_more"`
}
