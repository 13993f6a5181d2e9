package content

import (
	"context"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/virel/pagesmith/internal/apperr"
)

// Fixed-path settings documents. Unlike posts and pages these have no front
// matter envelope: the whole file is YAML.
const (
	configPath = "_config.yml"
	themePath  = "_data/theme.yml"
)

// Settings is a whole-file YAML settings document with its revision.
type Settings struct {
	Values   map[string]any `json:"values"`
	Revision string         `json:"revision"`
}

// GetConfig fetches and decodes the site configuration file.
func (r *Repository) GetConfig(ctx context.Context) (*Settings, error) {
	return r.getSettings(ctx, configPath)
}

// UpdateConfig replaces the site configuration under a fresh revision.
// The config file must already exist; the static site cannot work without
// one, so a missing file is surfaced rather than silently created.
func (r *Repository) UpdateConfig(ctx context.Context, values map[string]any) (*Settings, error) {
	current, err := r.store.Get(ctx, configPath)
	if err != nil {
		return nil, err
	}
	raw, err := yaml.Marshal(values)
	if err != nil {
		return nil, fmt.Errorf("encode site configuration: %w", err)
	}
	f, err := r.store.Put(ctx, configPath, raw, "Update site configuration", current.Revision)
	if err != nil {
		return nil, err
	}
	return &Settings{Values: values, Revision: f.Revision}, nil
}

// GetTheme fetches the theme variable document. A repository without one
// yet yields an empty settings map rather than an error.
func (r *Repository) GetTheme(ctx context.Context) (*Settings, error) {
	s, err := r.getSettings(ctx, themePath)
	if errors.Is(err, apperr.ErrNotFound) {
		return &Settings{Values: map[string]any{}}, nil
	}
	return s, err
}

// UpdateTheme writes the theme variable document, creating it on first use.
func (r *Repository) UpdateTheme(ctx context.Context, values map[string]any) (*Settings, error) {
	revision := ""
	current, err := r.store.Get(ctx, themePath)
	switch {
	case err == nil:
		revision = current.Revision
	case errors.Is(err, apperr.ErrNotFound):
		// First write creates the file.
	default:
		return nil, err
	}

	raw, err := yaml.Marshal(values)
	if err != nil {
		return nil, fmt.Errorf("encode theme settings: %w", err)
	}
	f, err := r.store.Put(ctx, themePath, raw, "Update theme settings", revision)
	if err != nil {
		return nil, err
	}
	return &Settings{Values: values, Revision: f.Revision}, nil
}

func (r *Repository) getSettings(ctx context.Context, path string) (*Settings, error) {
	f, err := r.store.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	values := map[string]any{}
	if err := yaml.Unmarshal(f.Content, &values); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", apperr.ErrMalformedDocument, path, err)
	}
	return &Settings{Values: values, Revision: f.Revision}, nil
}
