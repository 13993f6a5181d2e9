package content

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/virel/pagesmith/internal/apperr"
	"github.com/virel/pagesmith/internal/frontmatter"
	"github.com/virel/pagesmith/internal/remote"
	"github.com/virel/pagesmith/internal/slug"
)

// Reserved root-level files never listed as pages.
const readmeFile = "README.md"

// Repository orchestrates document CRUD against the remote store.
//
// Every mutation re-reads the store within the same operation to obtain a
// fresh revision; a stale revision surfaces as apperr.ErrConflict and is
// never retried here. Nothing is cached across operations — the store is
// authoritative.
type Repository struct {
	store remote.Provider

	// now is the clock for default post dates; replaceable in tests.
	now func() time.Time
}

// NewRepository creates a repository over the given store.
func NewRepository(store remote.Provider) *Repository {
	return &Repository{store: store, now: time.Now}
}

// ListPosts returns post summaries sorted by date descending, ties broken
// by filename descending. A single unparseable post is logged and skipped
// so the rest of the listing still returns.
func (r *Repository) ListPosts(ctx context.Context) ([]PostSummary, error) {
	entries, err := r.store.List(ctx, slug.PostsDir)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return []PostSummary{}, nil
		}
		return nil, err
	}

	posts := make([]PostSummary, 0, len(entries))
	for _, e := range entries {
		if e.Type != remote.TypeFile || !slug.IsPostFile(e.Name) {
			continue
		}
		doc, err := r.GetPost(ctx, e.Path)
		if err != nil {
			slog.Warn("skipping unparseable post",
				slog.String("path", e.Path),
				slog.String("error", err.Error()))
			continue
		}
		posts = append(posts, PostSummary{
			Path:       doc.Path,
			Filename:   e.Name,
			Revision:   doc.Revision,
			Title:      doc.Title(),
			Date:       doc.Metadata.GetString("date"),
			Layout:     layoutOrDefault(doc.Metadata, postLayout),
			Categories: nonNilSlice(doc.Metadata.GetList("categories")),
			Excerpt:    doc.Metadata.GetString("excerpt"),
		})
	}

	sort.SliceStable(posts, func(i, j int) bool {
		if posts[i].Date != posts[j].Date {
			return posts[i].Date > posts[j].Date
		}
		return posts[i].Filename > posts[j].Filename
	})
	return posts, nil
}

// ListPages returns summaries for root-level Markdown files, excluding the
// README and anything starting with an underscore. Unparseable pages are
// logged and skipped.
func (r *Repository) ListPages(ctx context.Context) ([]PageSummary, error) {
	entries, err := r.store.List(ctx, "")
	if err != nil {
		return nil, err
	}

	pages := make([]PageSummary, 0, len(entries))
	for _, e := range entries {
		if e.Type != remote.TypeFile || !strings.HasSuffix(e.Name, ".md") {
			continue
		}
		if e.Name == readmeFile || strings.HasPrefix(e.Name, "_") {
			continue
		}
		doc, err := r.GetPage(ctx, e.Path)
		if err != nil {
			slog.Warn("skipping unparseable page",
				slog.String("path", e.Path),
				slog.String("error", err.Error()))
			continue
		}
		title := doc.Title()
		if title == "" {
			title = strings.TrimSuffix(e.Name, ".md")
		}
		pages = append(pages, PageSummary{
			Path:     doc.Path,
			Filename: e.Name,
			Revision: doc.Revision,
			Title:    title,
			Layout:   layoutOrDefault(doc.Metadata, pageLayout),
			Size:     e.Size,
		})
	}
	return pages, nil
}

// GetPost fetches and parses a post document.
func (r *Repository) GetPost(ctx context.Context, path string) (*Document, error) {
	return r.get(ctx, path, frontmatter.KindPost)
}

// GetPage fetches and parses a page document; plain Markdown without front
// matter is accepted.
func (r *Repository) GetPage(ctx context.Context, path string) (*Document, error) {
	return r.get(ctx, path, frontmatter.KindPage)
}

func (r *Repository) get(ctx context.Context, path string, kind frontmatter.Kind) (*Document, error) {
	f, err := r.store.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	meta, body, err := frontmatter.Parse(string(f.Content), kind)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &Document{Path: path, Revision: f.Revision, Metadata: meta, Body: body}, nil
}

// CreatePost merges overrides over the post defaults, derives the filename
// from title and date, and creates the file. The existence check before the
// write is best-effort; the store's own create semantics are the backstop.
func (r *Repository) CreatePost(ctx context.Context, title, body string, overrides *frontmatter.Metadata) (*Document, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: post title is required", apperr.ErrMalformedDocument)
	}

	meta := frontmatter.NewMetadata()
	meta.Set("layout", frontmatter.String(postLayout))
	meta.Set("title", frontmatter.String(title))
	meta.Set("date", frontmatter.String(slug.FormatDate(r.now())))
	meta.Set("categories", frontmatter.List())
	meta.Set("tags", frontmatter.List())
	meta.Set("excerpt", frontmatter.String(""))
	mergeOverrides(meta, overrides)

	path := slug.PostPath(title, meta.GetString("date"))

	if _, err := r.store.Get(ctx, path); err == nil {
		return nil, fmt.Errorf("%w: %s", apperr.ErrAlreadyExists, path)
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}

	raw := frontmatter.Serialize(meta, body, frontmatter.KindPost)
	f, err := r.store.Put(ctx, path, []byte(raw), "Add new post: "+title, "")
	if err != nil {
		return nil, err
	}
	return &Document{Path: path, Revision: f.Revision, Metadata: meta, Body: body}, nil
}

// UpdatePost re-reads the post for a fresh revision and existing metadata,
// merges overrides over it, and writes back. The stored path is kept even
// when the new title or date would derive a different filename: the path is
// a stable identifier, so published links never break.
func (r *Repository) UpdatePost(ctx context.Context, path, newTitle, newBody string, overrides *frontmatter.Metadata) (*Document, error) {
	current, err := r.GetPost(ctx, path)
	if err != nil {
		return nil, err
	}

	meta := current.Metadata.Clone()
	meta.SetDefault("layout", frontmatter.String(postLayout))
	if newTitle != "" {
		meta.Set("title", frontmatter.String(newTitle))
	}
	mergeOverrides(meta, overrides)

	raw := frontmatter.Serialize(meta, newBody, frontmatter.KindPost)
	f, err := r.store.Put(ctx, path, []byte(raw), "Update post: "+meta.GetString("title"), current.Revision)
	if err != nil {
		return nil, err
	}
	return &Document{Path: path, Revision: f.Revision, Metadata: meta, Body: newBody}, nil
}

// DeletePost re-reads the post for a fresh revision and deletes it.
func (r *Repository) DeletePost(ctx context.Context, path string) error {
	current, err := r.store.Get(ctx, path)
	if err != nil {
		return err
	}
	title := path
	if meta, _, parseErr := frontmatter.Parse(string(current.Content), frontmatter.KindPost); parseErr == nil {
		if t := meta.GetString("title"); t != "" {
			title = t
		}
	}
	return r.store.Delete(ctx, path, current.Revision, "Delete post: "+title)
}

// CreatePage creates a root-level page at the given filename.
func (r *Repository) CreatePage(ctx context.Context, filename, body string, overrides *frontmatter.Metadata) (*Document, error) {
	if strings.TrimSpace(filename) == "" {
		return nil, fmt.Errorf("%w: page filename is required", apperr.ErrMalformedDocument)
	}
	path := slug.PagePath(filename)

	meta := frontmatter.NewMetadata()
	meta.Set("layout", frontmatter.String(pageLayout))
	mergeOverrides(meta, overrides)

	if _, err := r.store.Get(ctx, path); err == nil {
		return nil, fmt.Errorf("%w: %s", apperr.ErrAlreadyExists, path)
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}

	raw := frontmatter.Serialize(meta, body, frontmatter.KindPage)
	f, err := r.store.Put(ctx, path, []byte(raw), "Add new page: "+path, "")
	if err != nil {
		return nil, err
	}
	return &Document{Path: path, Revision: f.Revision, Metadata: meta, Body: body}, nil
}

// UpdatePage re-reads the page, merges overrides over its metadata, and
// writes back under the fresh revision.
func (r *Repository) UpdatePage(ctx context.Context, path, newBody string, overrides *frontmatter.Metadata) (*Document, error) {
	current, err := r.GetPage(ctx, path)
	if err != nil {
		return nil, err
	}

	meta := current.Metadata.Clone()
	mergeOverrides(meta, overrides)

	raw := frontmatter.Serialize(meta, newBody, frontmatter.KindPage)
	f, err := r.store.Put(ctx, path, []byte(raw), "Update page: "+path, current.Revision)
	if err != nil {
		return nil, err
	}
	return &Document{Path: path, Revision: f.Revision, Metadata: meta, Body: newBody}, nil
}

// DeletePage re-reads the page for a fresh revision and deletes it.
func (r *Repository) DeletePage(ctx context.Context, path string) error {
	current, err := r.store.Get(ctx, path)
	if err != nil {
		return err
	}
	return r.store.Delete(ctx, path, current.Revision, "Delete page: "+path)
}

func layoutOrDefault(meta *frontmatter.Metadata, fallback string) string {
	if l := meta.GetString("layout"); l != "" {
		return l
	}
	return fallback
}

func nonNilSlice(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
