package content

import (
	"context"
	"errors"
	"testing"

	"github.com/virel/pagesmith/internal/apperr"
	"github.com/virel/pagesmith/internal/testutil"
)

func TestGetConfig(t *testing.T) {
	root, r := testRepo(t)
	testutil.WriteFile(t, root, "_config.yml", "title: My Blog\nurl: https://example.com\n")

	s, err := r.GetConfig(context.Background())
	if err != nil {
		t.Fatalf("GetConfig: %v", err)
	}
	if s.Values["title"] != "My Blog" {
		t.Errorf("title = %v", s.Values["title"])
	}
	if s.Revision == "" {
		t.Error("expected a revision")
	}
}

func TestGetConfig_Missing(t *testing.T) {
	_, r := testRepo(t)
	if _, err := r.GetConfig(context.Background()); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestGetConfig_MalformedYAML(t *testing.T) {
	root, r := testRepo(t)
	testutil.WriteFile(t, root, "_config.yml", "title: [unclosed\n")
	if _, err := r.GetConfig(context.Background()); !errors.Is(err, apperr.ErrMalformedDocument) {
		t.Errorf("err = %v, want ErrMalformedDocument", err)
	}
}

func TestUpdateConfig(t *testing.T) {
	root, r := testRepo(t)
	ctx := context.Background()
	testutil.WriteFile(t, root, "_config.yml", "title: Old\n")

	s, err := r.UpdateConfig(ctx, map[string]any{"title": "New", "theme": "minima"})
	if err != nil {
		t.Fatalf("UpdateConfig: %v", err)
	}
	if s.Values["title"] != "New" {
		t.Errorf("title = %v", s.Values["title"])
	}

	reread, err := r.GetConfig(ctx)
	if err != nil {
		t.Fatalf("GetConfig: %v", err)
	}
	if reread.Values["theme"] != "minima" {
		t.Errorf("theme = %v", reread.Values["theme"])
	}
	if reread.Revision != s.Revision {
		t.Errorf("revision mismatch: %q vs %q", reread.Revision, s.Revision)
	}
}

func TestUpdateConfig_MissingFile(t *testing.T) {
	_, r := testRepo(t)
	// The site cannot exist without a config; a missing one is an error,
	// not a silent create.
	if _, err := r.UpdateConfig(context.Background(), map[string]any{"title": "x"}); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestTheme_MissingIsEmpty(t *testing.T) {
	_, r := testRepo(t)
	s, err := r.GetTheme(context.Background())
	if err != nil {
		t.Fatalf("GetTheme: %v", err)
	}
	if len(s.Values) != 0 {
		t.Errorf("values = %v, want empty", s.Values)
	}
}

func TestUpdateTheme_CreatesAndUpdates(t *testing.T) {
	_, r := testRepo(t)
	ctx := context.Background()

	first, err := r.UpdateTheme(ctx, map[string]any{"accent": "blue"})
	if err != nil {
		t.Fatalf("first UpdateTheme: %v", err)
	}

	second, err := r.UpdateTheme(ctx, map[string]any{"accent": "red"})
	if err != nil {
		t.Fatalf("second UpdateTheme: %v", err)
	}
	if second.Revision == first.Revision {
		t.Error("revision should change")
	}

	s, err := r.GetTheme(ctx)
	if err != nil {
		t.Fatalf("GetTheme: %v", err)
	}
	if s.Values["accent"] != "red" {
		t.Errorf("accent = %v", s.Values["accent"])
	}
}
