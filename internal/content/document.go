// Package content implements the front-matter-aware repository over the
// remote file store: posts and pages as parsed Markdown documents, plus the
// fixed-path site configuration and theme settings files.
package content

import (
	"fmt"

	"github.com/virel/pagesmith/internal/frontmatter"
)

// Default layouts applied at creation time.
const (
	postLayout = "post"
	pageLayout = "page"
)

// Document is a parsed Markdown file from the store. Revision identifies
// the exact stored bytes it was read from and must be passed back unchanged
// on update or delete.
type Document struct {
	Path     string
	Revision string
	Metadata *frontmatter.Metadata
	Body     string
}

// Title returns the front matter title, or "" when absent.
func (d *Document) Title() string {
	return d.Metadata.GetString("title")
}

// PostSummary is the lightweight listing form of a post.
type PostSummary struct {
	Path       string   `json:"path"`
	Filename   string   `json:"filename"`
	Revision   string   `json:"revision"`
	Title      string   `json:"title"`
	Date       string   `json:"date"`
	Layout     string   `json:"layout"`
	Categories []string `json:"categories"`
	Excerpt    string   `json:"excerpt"`
}

// PageSummary is the lightweight listing form of a page.
type PageSummary struct {
	Path     string `json:"path"`
	Filename string `json:"filename"`
	Revision string `json:"revision"`
	Title    string `json:"title"`
	Layout   string `json:"layout"`
	Size     int64  `json:"size"`
}

// MetadataFromMap converts a JSON-shaped override map into front matter
// metadata. Scalars must be strings and arrays must hold strings; anything
// else is rejected so the codec never has to guess at types.
func MetadataFromMap(raw map[string]any) (*frontmatter.Metadata, error) {
	meta := frontmatter.NewMetadata()
	for key, val := range raw {
		switch v := val.(type) {
		case string:
			meta.Set(key, frontmatter.String(v))
		case []string:
			meta.Set(key, frontmatter.List(v...))
		case []any:
			items := make([]string, 0, len(v))
			for _, item := range v {
				s, ok := item.(string)
				if !ok {
					return nil, fmt.Errorf("metadata key %q: array elements must be strings", key)
				}
				items = append(items, s)
			}
			meta.Set(key, frontmatter.List(items...))
		default:
			return nil, fmt.Errorf("metadata key %q: value must be a string or string array", key)
		}
	}
	return meta, nil
}

// MetadataToMap converts front matter metadata into a JSON-shaped map.
func MetadataToMap(meta *frontmatter.Metadata) map[string]any {
	out := make(map[string]any, meta.Len())
	for _, key := range meta.Keys() {
		v, _ := meta.Get(key)
		if v.IsList() {
			out[key] = v.Items()
		} else {
			out[key] = v.Scalar()
		}
	}
	return out
}

// mergeOverrides applies every override entry onto base, replacing existing
// values and appending new keys in the overrides' insertion order.
func mergeOverrides(base, overrides *frontmatter.Metadata) {
	if overrides == nil {
		return
	}
	for _, key := range overrides.Keys() {
		v, _ := overrides.Get(key)
		base.Set(key, v)
	}
}
