package api

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/virel/pagesmith/internal/content"
	"github.com/virel/pagesmith/internal/render"
	"github.com/virel/pagesmith/internal/slug"
	"github.com/virel/pagesmith/internal/sse"
)

const maxBodyBytes = 10 << 20 // 10 MB

// Handler holds the content route handlers.
type Handler struct {
	repo     *content.Repository
	renderer *render.Markdown
	broker   *sse.Broker
}

// NewHandler creates a new Handler. broker may be nil when the event stream
// is not wired.
func NewHandler(repo *content.Repository, renderer *render.Markdown, broker *sse.Broker) *Handler {
	return &Handler{repo: repo, renderer: renderer, broker: broker}
}

func (h *Handler) publish(scope, kind, path string) {
	if h.broker != nil {
		h.broker.PublishContentEvent(scope, kind, path)
	}
}

// docPath extracts the document path from a wildcard route. Supports
// encoded slashes from API clients (e.g. posts%2Ffoo.md).
func docPath(r *http.Request) string {
	raw := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if raw == "" {
		return ""
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// postPath normalizes a post reference to its repository path: a bare
// filename refers to the posts directory.
func postPath(r *http.Request) string {
	p := docPath(r)
	if p == "" || strings.Contains(p, "/") {
		return p
	}
	return slug.PostsDir + "/" + p
}

// ListPosts handles GET /api/posts.
func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.repo.ListPosts(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, PostListResponse{Posts: posts, Total: len(posts)})
}

// GetPost handles GET /api/posts/*.
func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	path := postPath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	doc, err := h.repo.GetPost(r.Context(), path)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, documentResponse(doc))
}

// CreatePost handles POST /api/posts.
func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	overrides, err := content.MetadataFromMap(req.Metadata)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	doc, err := h.repo.CreatePost(r.Context(), req.Title, req.Body, overrides)
	if err != nil {
		respondError(w, err)
		return
	}
	h.publish("post", "created", doc.Path)
	writeJSON(w, http.StatusCreated, documentResponse(doc))
}

// UpdatePost handles PUT /api/posts/*.
func (h *Handler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	path := postPath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	var req UpdatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	overrides, err := content.MetadataFromMap(req.Metadata)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	doc, err := h.repo.UpdatePost(r.Context(), path, req.Title, req.Body, overrides)
	if err != nil {
		respondError(w, err)
		return
	}
	h.publish("post", "updated", doc.Path)
	writeJSON(w, http.StatusOK, documentResponse(doc))
}

// DeletePost handles DELETE /api/posts/*.
func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	path := postPath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	if err := h.repo.DeletePost(r.Context(), path); err != nil {
		respondError(w, err)
		return
	}
	h.publish("post", "deleted", path)
	w.WriteHeader(http.StatusNoContent)
}
