package api

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/virel/pagesmith/internal/content"
)

// CreatePostRequest is the request body for creating a post.
type CreatePostRequest struct {
	Title    string         `json:"title"`
	Body     string         `json:"body"`
	Metadata map[string]any `json:"metadata"`
}

// Validate validates the request.
func (r CreatePostRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required),
	)
}

// UpdatePostRequest is the request body for updating a post. Title is
// optional; when empty the stored title is kept.
type UpdatePostRequest struct {
	Title    string         `json:"title"`
	Body     string         `json:"body"`
	Metadata map[string]any `json:"metadata"`
}

// CreatePageRequest is the request body for creating a page.
type CreatePageRequest struct {
	Filename string         `json:"filename"`
	Body     string         `json:"body"`
	Metadata map[string]any `json:"metadata"`
}

// Validate validates the request.
func (r CreatePageRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Filename, validation.Required),
	)
}

// UpdatePageRequest is the request body for updating a page.
type UpdatePageRequest struct {
	Body     string         `json:"body"`
	Metadata map[string]any `json:"metadata"`
}

// SettingsRequest is the request body for the configuration and theme
// endpoints.
type SettingsRequest struct {
	Values map[string]any `json:"values"`
}

// Validate validates the request.
func (r SettingsRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Values, validation.Required),
	)
}

// PreviewRequest is the request body for Markdown preview rendering.
type PreviewRequest struct {
	Markdown string `json:"markdown"`
}

// PreviewResponse carries the rendered HTML.
type PreviewResponse struct {
	HTML string `json:"html"`
}

// DocumentResponse is the full document payload returned by read and
// mutation endpoints.
type DocumentResponse struct {
	Path     string         `json:"path"`
	Revision string         `json:"revision"`
	Metadata map[string]any `json:"metadata"`
	Body     string         `json:"body"`
}

func documentResponse(doc *content.Document) DocumentResponse {
	return DocumentResponse{
		Path:     doc.Path,
		Revision: doc.Revision,
		Metadata: content.MetadataToMap(doc.Metadata),
		Body:     doc.Body,
	}
}

// PostListResponse wraps post listings.
type PostListResponse struct {
	Posts []content.PostSummary `json:"posts"`
	Total int                   `json:"total"`
}

// PageListResponse wraps page listings.
type PageListResponse struct {
	Pages []content.PageSummary `json:"pages"`
	Total int                   `json:"total"`
}

// MediaListResponse wraps media listings.
type MediaListResponse struct {
	Files []content.MediaFile `json:"files"`
	Total int                 `json:"total"`
}
