package content

import (
	"context"
	"errors"
	"fmt"
	"path"
	"regexp"
	"sort"
	"strings"

	"github.com/virel/pagesmith/internal/apperr"
	"github.com/virel/pagesmith/internal/remote"
)

// Media directories mirror the published site layout: uploaded images land
// under assets/images and are referenced from posts by site-absolute URL.
const (
	assetsDir = "assets"
	imagesDir = "assets/images"
)

var unsafeMediaChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// MediaFile describes one stored media asset.
type MediaFile struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	URL      string `json:"url"`
	Size     int64  `json:"size"`
	Revision string `json:"revision"`
}

// ListMedia lists the uploaded assets. A repository without an images
// directory yet simply has no media.
func (r *Repository) ListMedia(ctx context.Context) ([]MediaFile, error) {
	entries, err := r.store.List(ctx, imagesDir)
	if errors.Is(err, apperr.ErrNotFound) {
		return []MediaFile{}, nil
	}
	if err != nil {
		return nil, err
	}

	files := make([]MediaFile, 0, len(entries))
	for _, e := range entries {
		if e.Type != remote.TypeFile {
			continue
		}
		files = append(files, MediaFile{
			Name:     e.Name,
			Path:     e.Path,
			URL:      "/" + e.Path,
			Size:     e.Size,
			Revision: e.Revision,
		})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name > files[j].Name })
	return files, nil
}

// UploadMedia stores an uploaded file under assets/images. The stored name
// is prefixed with a timestamp so repeated uploads of the same filename
// never collide.
func (r *Repository) UploadMedia(ctx context.Context, filename string, data []byte) (*MediaFile, error) {
	safe := sanitizeMediaName(filename)
	if safe == "" {
		return nil, fmt.Errorf("%w: unusable media filename %q", apperr.ErrMalformedDocument, filename)
	}
	stamped := fmt.Sprintf("%d-%s", r.now().UTC().UnixMilli(), safe)
	p := path.Join(imagesDir, stamped)

	f, err := r.store.Put(ctx, p, data, "Upload media file: "+stamped, "")
	if err != nil {
		return nil, err
	}
	return &MediaFile{
		Name:     stamped,
		Path:     f.Path,
		URL:      "/" + f.Path,
		Size:     int64(len(data)),
		Revision: f.Revision,
	}, nil
}

// DeleteMedia removes a stored asset by name.
func (r *Repository) DeleteMedia(ctx context.Context, name string) error {
	safe := sanitizeMediaName(name)
	if safe == "" || safe != name {
		return fmt.Errorf("%w: invalid media name %q", apperr.ErrMalformedDocument, name)
	}
	p := path.Join(imagesDir, name)
	current, err := r.store.Get(ctx, p)
	if err != nil {
		return err
	}
	return r.store.Delete(ctx, p, current.Revision, "Delete media file: "+name)
}

func sanitizeMediaName(name string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	cleaned := unsafeMediaChars.ReplaceAllString(base, "-")
	cleaned = strings.Trim(cleaned, "-.")
	if cleaned == "" || cleaned == "." || cleaned == ".." {
		return ""
	}
	return cleaned
}
