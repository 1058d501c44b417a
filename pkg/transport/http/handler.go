// Package http wires the openpost route handlers into a net/http mux
// and manages the server lifecycle including graceful shutdown.
//
// Routing uses Go 1.22+ ServeMux patterns. The authentication gate is
// applied per route: mutating post routes are wrapped with it, the user
// routes and post reads are registered without it.
package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/openpost-dev/openpost/pkg/api"
	"github.com/openpost-dev/openpost/pkg/auth"
	"github.com/openpost-dev/openpost/pkg/service"
	"github.com/openpost-dev/openpost/pkg/storage"
	"github.com/openpost-dev/openpost/pkg/transport"
)

// Handler bundles the services behind the HTTP routes.
type Handler struct {
	users       *service.UserService
	posts       *service.PostService
	store       storage.Store
	maxBodySize int64
}

// NewHandler creates the route handler set. maxBodySize caps request
// bodies; pass 0 for the 1 MB default.
func NewHandler(users *service.UserService, posts *service.PostService, store storage.Store, maxBodySize int64) *Handler {
	if maxBodySize <= 0 {
		maxBodySize = 1 << 20
	}
	return &Handler{
		users:       users,
		posts:       posts,
		store:       store,
		maxBodySize: maxBodySize,
	}
}

// Routes builds the mux. authMW is the authentication gate; it wraps
// the mutating post routes only. Reads and the user routes stay public.
func (h *Handler) Routes(authMW func(http.Handler) http.Handler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/v1/users/join", h.handleJoin)
	mux.HandleFunc("POST /api/v1/users/login", h.handleLogin)

	mux.Handle("POST /api/v1/posts", authMW(http.HandlerFunc(h.handleCreatePost)))
	mux.HandleFunc("GET /api/v1/posts/{postID}", h.handleGetPost)
	mux.HandleFunc("GET /api/v1/posts", h.handleListPosts)
	mux.Handle("PUT /api/v1/posts/{postID}", authMW(http.HandlerFunc(h.handleUpdatePost)))
	mux.Handle("DELETE /api/v1/posts/{postID}", authMW(http.HandlerFunc(h.handleDeletePost)))

	mux.HandleFunc("GET /healthz", h.handleHealthz)
	mux.HandleFunc("GET /readyz", h.handleReadyz)

	return mux
}

func (h *Handler) handleJoin(w http.ResponseWriter, r *http.Request) {
	var req api.JoinRequest
	if !h.decode(w, r, &req) {
		return
	}
	if apiErr := req.Validate(); apiErr != nil {
		transport.WriteAPIError(w, apiErr)
		return
	}

	u, err := h.users.Join(r.Context(), req.UserName, req.Password)
	if err != nil {
		transport.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, api.JoinResponse{
		UserID:   u.ID,
		UserName: u.UserName,
	})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req api.LoginRequest
	if !h.decode(w, r, &req) {
		return
	}
	if apiErr := req.Validate(); apiErr != nil {
		transport.WriteAPIError(w, apiErr)
		return
	}

	tok, err := h.users.Login(r.Context(), req.UserName, req.Password)
	if err != nil {
		transport.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, api.LoginResponse{Token: tok})
}

func (h *Handler) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	id := auth.IdentityFromContext(r.Context())
	if id == nil {
		transport.WriteAPIError(w, api.NewServerError("missing identity"))
		return
	}

	var req api.PostWriteRequest
	if !h.decode(w, r, &req) {
		return
	}
	if apiErr := req.Validate(); apiErr != nil {
		transport.WriteAPIError(w, apiErr)
		return
	}

	p, err := h.posts.Create(r.Context(), id.Subject, req.Title, req.Body)
	if err != nil {
		transport.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, postResponse(p))
}

func (h *Handler) handleGetPost(w http.ResponseWriter, r *http.Request) {
	p, err := h.posts.Get(r.Context(), r.PathValue("postID"))
	if err != nil {
		transport.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, postResponse(p))
}

func (h *Handler) handleListPosts(w http.ResponseWriter, r *http.Request) {
	opts := storage.ListOptions{
		Limit:  queryInt(r, "limit"),
		Offset: queryInt(r, "offset"),
	}

	posts, hasMore, err := h.posts.List(r.Context(), opts)
	if err != nil {
		transport.WriteError(w, err)
		return
	}

	list := api.PostList{
		Data:    make([]api.PostResponse, 0, len(posts)),
		HasMore: hasMore,
	}
	for _, p := range posts {
		list.Data = append(list.Data, postResponse(p))
	}

	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) handleUpdatePost(w http.ResponseWriter, r *http.Request) {
	id := auth.IdentityFromContext(r.Context())
	if id == nil {
		transport.WriteAPIError(w, api.NewServerError("missing identity"))
		return
	}

	var req api.PostWriteRequest
	if !h.decode(w, r, &req) {
		return
	}
	if apiErr := req.Validate(); apiErr != nil {
		transport.WriteAPIError(w, apiErr)
		return
	}

	p, err := h.posts.Update(r.Context(), id.Subject, r.PathValue("postID"), req.Title, req.Body)
	if err != nil {
		transport.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, postResponse(p))
}

func (h *Handler) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	id := auth.IdentityFromContext(r.Context())
	if id == nil {
		transport.WriteAPIError(w, api.NewServerError("missing identity"))
		return
	}

	postID := r.PathValue("postID")
	if err := h.posts.Delete(r.Context(), id.Subject, postID); err != nil {
		transport.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"post_id": postID})
}

func (h *Handler) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok\n"))
}

func (h *Handler) handleReadyz(w http.ResponseWriter, r *http.Request) {
	if err := h.store.HealthCheck(r.Context()); err != nil {
		transport.WriteAPIError(w, api.NewServerError("store unavailable"))
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok\n"))
}

// decode reads a JSON body into dst, enforcing the body size cap.
// On failure it writes an invalid_request response and returns false.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			transport.WriteAPIError(w, api.NewInvalidRequestError("body", "request body too large"))
			return false
		}
		transport.WriteAPIError(w, api.NewInvalidRequestError("body", "invalid JSON body"))
		return false
	}

	return true
}

func postResponse(p *storage.Post) api.PostResponse {
	return api.PostResponse{
		PostID:         p.ID,
		Title:          p.Title,
		Body:           p.Body,
		UserName:       p.Owner,
		CreatedAt:      p.CreatedAt,
		LastModifiedAt: p.LastModifiedAt,
	}
}

func queryInt(r *http.Request, key string) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
