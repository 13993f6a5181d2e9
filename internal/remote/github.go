package remote

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/virel/pagesmith/internal/apperr"
)

const defaultGitHubBaseURL = "https://api.github.com"

// GitHubOptions configures a GitHub Contents API store.
type GitHubOptions struct {
	// BaseURL overrides the API endpoint; empty means api.github.com.
	BaseURL string
	Owner   string
	Repo    string
	// Branch is the ref to read from and commit to.
	Branch string
	Token  string
}

// GitHub implements Provider against the GitHub repository Contents API.
// Revisions are the blob SHAs GitHub reports for file content.
type GitHub struct {
	baseURL    string
	owner      string
	repo       string
	branch     string
	token      string
	httpClient *http.Client
}

// NewGitHub creates a Contents API store for a single repository branch.
func NewGitHub(opts GitHubOptions) *GitHub {
	base := opts.BaseURL
	if base == "" {
		base = defaultGitHubBaseURL
	}
	return &GitHub{
		baseURL:    strings.TrimSuffix(base, "/"),
		owner:      opts.Owner,
		repo:       opts.Repo,
		branch:     opts.Branch,
		token:      opts.Token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// contentsURL builds the Contents API URL for a repository path.
func (g *GitHub) contentsURL(path string) string {
	escaped := url.PathEscape(path)
	// PathEscape encodes "/" too; the API wants literal separators.
	escaped = strings.ReplaceAll(escaped, "%2F", "/")
	return fmt.Sprintf("%s/repos/%s/%s/contents/%s", g.baseURL, g.owner, g.repo, escaped)
}

func (g *GitHub) do(ctx context.Context, method, rawURL string, payload any) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("remote: encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, fmt.Errorf("remote: build request: %w", err)
	}
	req.Header.Set("Authorization", "token "+g.token)
	req.Header.Set("Accept", "application/vnd.github+json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", apperr.ErrRemoteUnavailable, method, rawURL, err)
	}
	return resp, nil
}

// apiError maps a non-2xx Contents API response onto the error taxonomy.
// creating reports whether the request was a create (no expected revision),
// which turns GitHub's 422 "sha wasn't supplied" into ErrAlreadyExists.
func apiError(resp *http.Response, creating bool) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	msg := githubMessage(body)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", apperr.ErrNotFound, msg)
	case resp.StatusCode == http.StatusConflict:
		return fmt.Errorf("%w: %s", apperr.ErrConflict, msg)
	case resp.StatusCode == http.StatusUnprocessableEntity:
		if creating {
			return fmt.Errorf("%w: %s", apperr.ErrAlreadyExists, msg)
		}
		return fmt.Errorf("%w: %s", apperr.ErrConflict, msg)
	case resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", apperr.ErrUnauthorized, msg)
	case resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: %s", apperr.ErrForbidden, msg)
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: GitHub API %d: %s", apperr.ErrRemoteUnavailable, resp.StatusCode, msg)
	default:
		return fmt.Errorf("%w: GitHub API %d: %s", apperr.ErrRemoteRejected, resp.StatusCode, msg)
	}
}

func githubMessage(body []byte) string {
	var parsed struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Message != "" {
		return parsed.Message
	}
	return strings.TrimSpace(string(body))
}

// Get fetches and decodes a single file.
func (g *GitHub) Get(ctx context.Context, path string) (*File, error) {
	resp, err := g.do(ctx, http.MethodGet, g.contentsURL(path)+"?ref="+url.QueryEscape(g.branch), nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp, false)
	}

	var result struct {
		Type    string `json:"type"`
		Content string `json:"content"`
		SHA     string `json:"sha"`
		Path    string `json:"path"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("remote: decode contents response: %w", err)
	}
	if result.Type != TypeFile {
		return nil, fmt.Errorf("%w: %s is a %s, not a file", apperr.ErrRemoteRejected, path, result.Type)
	}

	// GitHub wraps base64 content at 60 columns.
	raw, err := base64.StdEncoding.DecodeString(stripWhitespace(result.Content))
	if err != nil {
		return nil, fmt.Errorf("remote: decode content of %s: %w", path, err)
	}
	return &File{Path: result.Path, Content: raw, Revision: result.SHA}, nil
}

// Put creates or updates a file through a single commit on the branch.
func (g *GitHub) Put(ctx context.Context, path string, content []byte, message, expectedRevision string) (*File, error) {
	payload := map[string]string{
		"message": message,
		"content": base64.StdEncoding.EncodeToString(content),
		"branch":  g.branch,
	}
	if expectedRevision != "" {
		payload["sha"] = expectedRevision
	}

	resp, err := g.do(ctx, http.MethodPut, g.contentsURL(path), payload)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, apiError(resp, expectedRevision == "")
	}

	var result struct {
		Content struct {
			SHA  string `json:"sha"`
			Path string `json:"path"`
		} `json:"content"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("remote: decode commit response: %w", err)
	}
	return &File{Path: path, Content: content, Revision: result.Content.SHA}, nil
}

// Delete removes a file through a single commit on the branch.
func (g *GitHub) Delete(ctx context.Context, path, expectedRevision, message string) error {
	payload := map[string]string{
		"message": message,
		"sha":     expectedRevision,
		"branch":  g.branch,
	}
	resp, err := g.do(ctx, http.MethodDelete, g.contentsURL(path), payload)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return apiError(resp, false)
	}
	return nil
}

// List returns the direct children of a repository directory.
func (g *GitHub) List(ctx context.Context, dir string) ([]Entry, error) {
	resp, err := g.do(ctx, http.MethodGet, g.contentsURL(dir)+"?ref="+url.QueryEscape(g.branch), nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp, false)
	}

	var items []struct {
		Name string `json:"name"`
		Path string `json:"path"`
		Type string `json:"type"`
		SHA  string `json:"sha"`
		Size int64  `json:"size"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("remote: decode listing response: %w", err)
	}

	entries := make([]Entry, len(items))
	for i, it := range items {
		entries[i] = Entry{Name: it.Name, Path: it.Path, Type: it.Type, Revision: it.SHA, Size: it.Size}
	}
	return entries, nil
}

func stripWhitespace(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\n', '\r', '\t':
			return -1
		}
		return r
	}, s)
}
