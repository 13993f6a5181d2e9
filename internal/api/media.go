package api

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
)

const maxUploadBytes = 50 << 20 // 50 MB

// ListMedia handles GET /api/media.
func (h *Handler) ListMedia(w http.ResponseWriter, r *http.Request) {
	files, err := h.repo.ListMedia(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MediaListResponse{Files: files, Total: len(files)})
}

// UploadMedia handles POST /api/media (multipart/form-data, field "file").
func (h *Handler) UploadMedia(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("file too large or invalid multipart"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("missing 'file' field in multipart form"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("failed to read file"))
		return
	}

	mf, err := h.repo.UploadMedia(r.Context(), header.Filename, data)
	if err != nil {
		respondError(w, err)
		return
	}
	h.publish("media", "created", mf.Path)
	writeJSON(w, http.StatusCreated, mf)
}

// DeleteMedia handles DELETE /api/media/{name}.
func (h *Handler) DeleteMedia(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("name is required"))
		return
	}
	if err := h.repo.DeleteMedia(r.Context(), name); err != nil {
		respondError(w, err)
		return
	}
	h.publish("media", "deleted", name)
	w.WriteHeader(http.StatusNoContent)
}
