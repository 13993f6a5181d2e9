package api

import (
	"encoding/json"
	"net/http"

	"github.com/virel/pagesmith/internal/content"
)

// ListPages handles GET /api/pages.
func (h *Handler) ListPages(w http.ResponseWriter, r *http.Request) {
	pages, err := h.repo.ListPages(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, PageListResponse{Pages: pages, Total: len(pages)})
}

// GetPage handles GET /api/pages/*.
func (h *Handler) GetPage(w http.ResponseWriter, r *http.Request) {
	path := docPath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	doc, err := h.repo.GetPage(r.Context(), path)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, documentResponse(doc))
}

// CreatePage handles POST /api/pages.
func (h *Handler) CreatePage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req CreatePageRequest
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
	doc, err := h.repo.CreatePage(r.Context(), req.Filename, req.Body, overrides)
	if err != nil {
		respondError(w, err)
		return
	}
	h.publish("page", "created", doc.Path)
	writeJSON(w, http.StatusCreated, documentResponse(doc))
}

// UpdatePage handles PUT /api/pages/*.
func (h *Handler) UpdatePage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	path := docPath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	var req UpdatePageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	overrides, err := content.MetadataFromMap(req.Metadata)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	doc, err := h.repo.UpdatePage(r.Context(), path, req.Body, overrides)
	if err != nil {
		respondError(w, err)
		return
	}
	h.publish("page", "updated", doc.Path)
	writeJSON(w, http.StatusOK, documentResponse(doc))
}

// DeletePage handles DELETE /api/pages/*.
func (h *Handler) DeletePage(w http.ResponseWriter, r *http.Request) {
	path := docPath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	if err := h.repo.DeletePage(r.Context(), path); err != nil {
		respondError(w, err)
		return
	}
	h.publish("page", "deleted", path)
	w.WriteHeader(http.StatusNoContent)
}
