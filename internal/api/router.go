package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter creates a chi router with all API routes mounted.
// authMW guards every content route; the login flow routes stay open so a
// browser can obtain a session. authHandler and sseHandler may be nil when
// the corresponding feature is not configured.
func NewRouter(h *Handler, authHandler *AuthHandler, authMW func(http.Handler) http.Handler, sseHandler http.Handler) chi.Router {
	r := chi.NewRouter()

	// Login flow (unauthenticated).
	if authHandler != nil {
		r.Get("/auth/login-url", authHandler.LoginURL)
		r.Post("/auth/callback", authHandler.Callback)
		r.Post("/auth/logout", authHandler.Logout)
	}

	r.Group(func(r chi.Router) {
		r.Use(authMW)

		if authHandler != nil {
			r.Get("/auth/me", authHandler.Me)
		}

		// Posts CRUD.
		r.Get("/posts", h.ListPosts)
		r.Post("/posts", h.CreatePost)
		r.Get("/posts/*", h.GetPost)
		r.Put("/posts/*", h.UpdatePost)
		r.Delete("/posts/*", h.DeletePost)

		// Pages CRUD.
		r.Get("/pages", h.ListPages)
		r.Post("/pages", h.CreatePage)
		r.Get("/pages/*", h.GetPage)
		r.Put("/pages/*", h.UpdatePage)
		r.Delete("/pages/*", h.DeletePage)

		// Site settings.
		r.Get("/settings/config", h.GetConfig)
		r.Put("/settings/config", h.UpdateConfig)
		r.Get("/settings/theme", h.GetTheme)
		r.Put("/settings/theme", h.UpdateTheme)

		// Media library.
		r.Get("/media", h.ListMedia)
		r.Post("/media", h.UploadMedia)
		r.Delete("/media/{name}", h.DeleteMedia)

		// Editor preview.
		r.Post("/preview", h.Preview)

		// SSE endpoint (protected by same auth middleware).
		if sseHandler != nil {
			r.Get("/events", sseHandler.ServeHTTP)
		}
	})

	return r
}
