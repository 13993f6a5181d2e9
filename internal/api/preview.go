package api

import (
	"encoding/json"
	"net/http"
)

// Preview handles POST /api/preview: renders a Markdown body to HTML.
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req PreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	html, err := h.renderer.Render(req.Markdown)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, PreviewResponse{HTML: html})
}
