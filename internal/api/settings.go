package api

import (
	"encoding/json"
	"net/http"
)

// GetConfig handles GET /api/settings/config.
func (h *Handler) GetConfig(w http.ResponseWriter, r *http.Request) {
	s, err := h.repo.GetConfig(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// UpdateConfig handles PUT /api/settings/config.
func (h *Handler) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req SettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	s, err := h.repo.UpdateConfig(r.Context(), req.Values)
	if err != nil {
		respondError(w, err)
		return
	}
	h.publish("settings", "updated", "_config.yml")
	writeJSON(w, http.StatusOK, s)
}

// GetTheme handles GET /api/settings/theme.
func (h *Handler) GetTheme(w http.ResponseWriter, r *http.Request) {
	s, err := h.repo.GetTheme(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// UpdateTheme handles PUT /api/settings/theme.
func (h *Handler) UpdateTheme(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req SettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	s, err := h.repo.UpdateTheme(r.Context(), req.Values)
	if err != nil {
		respondError(w, err)
		return
	}
	h.publish("settings", "updated", "_data/theme.yml")
	writeJSON(w, http.StatusOK, s)
}
