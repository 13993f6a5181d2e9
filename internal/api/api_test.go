package api

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/virel/pagesmith/internal/auth"
	"github.com/virel/pagesmith/internal/content"
	"github.com/virel/pagesmith/internal/remote"
	"github.com/virel/pagesmith/internal/render"
)

// testEnv sets up a temp content store and router. An empty token means
// disabled auth mode.
func testEnv(t *testing.T, authToken string) (string, http.Handler) {
	t.Helper()

	dir := t.TempDir()
	store, err := remote.NewFS(dir)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	repo := content.NewRepository(store)
	h := NewHandler(repo, render.NewMarkdown(), nil)

	mw := PassthroughMiddleware()
	if authToken != "" {
		mw = TokenMiddleware(authToken)
	}
	return dir, NewRouter(h, nil, mw, nil)
}

func seed(t *testing.T, root, rel, content string) {
	t.Helper()
	abs := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(abs, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func do(router http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateAndGetPost(t *testing.T) {
	_, router := testEnv(t, "")

	w := do(router, http.MethodPost, "/posts", map[string]any{
		"title": "Hello, World!",
		"body":  "Hi there.\n",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", w.Code, w.Body.String())
	}
	var created DocumentResponse
	_ = json.Unmarshal(w.Body.Bytes(), &created)
	if created.Revision == "" {
		t.Error("expected a revision")
	}
	if created.Metadata["title"] != "Hello, World!" {
		t.Errorf("title = %v", created.Metadata["title"])
	}

	w = do(router, http.MethodGet, "/posts/"+created.Path, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}
	var got DocumentResponse
	_ = json.Unmarshal(w.Body.Bytes(), &got)
	if got.Body != "Hi there.\n" {
		t.Errorf("body = %q", got.Body)
	}
}

func TestGetPost_BareFilename(t *testing.T) {
	root, router := testEnv(t, "")
	seed(t, root, "posts/_posts_2025-01-01-hi.md", "---\ntitle: \"Hi\"\n---\n\nbody\n")

	w := do(router, http.MethodGet, "/posts/_posts_2025-01-01-hi.md", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var got DocumentResponse
	_ = json.Unmarshal(w.Body.Bytes(), &got)
	if got.Path != "posts/_posts_2025-01-01-hi.md" {
		t.Errorf("path = %q", got.Path)
	}
}

func TestCreatePost_MissingTitle(t *testing.T) {
	_, router := testEnv(t, "")
	w := do(router, http.MethodPost, "/posts", map[string]any{"body": "x"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestCreatePost_Duplicate(t *testing.T) {
	_, router := testEnv(t, "")

	body := map[string]any{"title": "Dup", "body": "a"}
	if w := do(router, http.MethodPost, "/posts", body); w.Code != http.StatusCreated {
		t.Fatalf("first create = %d", w.Code)
	}
	if w := do(router, http.MethodPost, "/posts", body); w.Code != http.StatusConflict {
		t.Errorf("duplicate create = %d, want 409", w.Code)
	}
}

func TestCreatePost_NonStringMetadata(t *testing.T) {
	_, router := testEnv(t, "")
	w := do(router, http.MethodPost, "/posts", map[string]any{
		"title":    "Typed",
		"body":     "x",
		"metadata": map[string]any{"count": 42},
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestUpdatePost_NotFound(t *testing.T) {
	_, router := testEnv(t, "")
	w := do(router, http.MethodPut, "/posts/_posts_2025-01-01-none.md", map[string]any{"body": "x"})
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestDeletePost(t *testing.T) {
	_, router := testEnv(t, "")

	w := do(router, http.MethodPost, "/posts", map[string]any{"title": "Doomed", "body": "x"})
	var created DocumentResponse
	_ = json.Unmarshal(w.Body.Bytes(), &created)

	if w := do(router, http.MethodDelete, "/posts/"+created.Path, nil); w.Code != http.StatusNoContent {
		t.Errorf("delete = %d, want 204", w.Code)
	}
	if w := do(router, http.MethodGet, "/posts/"+created.Path, nil); w.Code != http.StatusNotFound {
		t.Errorf("get after delete = %d, want 404", w.Code)
	}
}

func TestListPosts(t *testing.T) {
	root, router := testEnv(t, "")
	seed(t, root, "posts/_posts_2025-01-01-a.md", "---\ntitle: \"A\"\ndate: \"2025-01-01\"\n---\n\na\n")
	seed(t, root, "posts/_posts_2025-02-01-b.md", "---\ntitle: \"B\"\ndate: \"2025-02-01\"\n---\n\nb\n")

	w := do(router, http.MethodGet, "/posts", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp PostListResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Total != 2 || len(resp.Posts) != 2 {
		t.Fatalf("resp = %+v", resp)
	}
	if resp.Posts[0].Title != "B" {
		t.Errorf("first post = %q, want newest first", resp.Posts[0].Title)
	}
}

func TestPagesCRUD(t *testing.T) {
	_, router := testEnv(t, "")

	w := do(router, http.MethodPost, "/pages", map[string]any{"filename": "about", "body": "# About\n"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create = %d, body = %s", w.Code, w.Body.String())
	}
	var created DocumentResponse
	_ = json.Unmarshal(w.Body.Bytes(), &created)
	if created.Path != "about.md" {
		t.Errorf("path = %q", created.Path)
	}

	w = do(router, http.MethodPut, "/pages/about.md", map[string]any{
		"body":     "# About v2\n",
		"metadata": map[string]any{"permalink": "/about/"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("update = %d, body = %s", w.Code, w.Body.String())
	}
	var updated DocumentResponse
	_ = json.Unmarshal(w.Body.Bytes(), &updated)
	if updated.Metadata["permalink"] != "/about/" {
		t.Errorf("permalink = %v", updated.Metadata["permalink"])
	}

	if w := do(router, http.MethodDelete, "/pages/about.md", nil); w.Code != http.StatusNoContent {
		t.Errorf("delete = %d", w.Code)
	}
}

func TestSettingsEndpoints(t *testing.T) {
	root, router := testEnv(t, "")
	seed(t, root, "_config.yml", "title: Old\n")

	w := do(router, http.MethodPut, "/settings/config", map[string]any{
		"values": map[string]any{"title": "New"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("update config = %d, body = %s", w.Code, w.Body.String())
	}

	w = do(router, http.MethodGet, "/settings/config", nil)
	var s content.Settings
	_ = json.Unmarshal(w.Body.Bytes(), &s)
	if s.Values["title"] != "New" {
		t.Errorf("title = %v", s.Values["title"])
	}

	// Theme starts empty, then persists.
	w = do(router, http.MethodGet, "/settings/theme", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get theme = %d", w.Code)
	}
	w = do(router, http.MethodPut, "/settings/theme", map[string]any{
		"values": map[string]any{"accent": "blue"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("update theme = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestSettings_MissingValues(t *testing.T) {
	_, router := testEnv(t, "")
	w := do(router, http.MethodPut, "/settings/theme", map[string]any{})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestMediaUploadAndList(t *testing.T) {
	_, router := testEnv(t, "")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, _ := mw.CreateFormFile("file", "pic.png")
	_, _ = fw.Write([]byte("fake png bytes"))
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/media", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("upload = %d, body = %s", w.Code, w.Body.String())
	}
	var mf content.MediaFile
	_ = json.Unmarshal(w.Body.Bytes(), &mf)

	lw := do(router, http.MethodGet, "/media", nil)
	var resp MediaListResponse
	_ = json.Unmarshal(lw.Body.Bytes(), &resp)
	if resp.Total != 1 || resp.Files[0].Name != mf.Name {
		t.Errorf("resp = %+v", resp)
	}

	dw := do(router, http.MethodDelete, "/media/"+mf.Name, nil)
	if dw.Code != http.StatusNoContent {
		t.Errorf("delete = %d", dw.Code)
	}
}

func TestMediaUpload_MissingField(t *testing.T) {
	_, router := testEnv(t, "")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("other", "x")
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/media", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestPreview(t *testing.T) {
	_, router := testEnv(t, "")

	w := do(router, http.MethodPost, "/preview", map[string]any{"markdown": "# Title\n\n~~gone~~\n"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp PreviewResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if !bytes.Contains([]byte(resp.HTML), []byte("<h1")) {
		t.Errorf("html = %q, want a heading", resp.HTML)
	}
	if !bytes.Contains([]byte(resp.HTML), []byte("<del>")) {
		t.Errorf("html = %q, want GFM strikethrough", resp.HTML)
	}
}

func TestTokenAuth(t *testing.T) {
	_, router := testEnv(t, "sekrit")

	// No token → 401.
	w := do(router, http.MethodGet, "/posts", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("no token = %d, want 401", w.Code)
	}

	// Wrong token → 401.
	req := httptest.NewRequest(http.MethodGet, "/posts", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong token = %d, want 401", rec.Code)
	}

	// Correct token → 200.
	req = httptest.NewRequest(http.MethodGet, "/posts", nil)
	req.Header.Set("Authorization", "Bearer sekrit")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("correct token = %d, want 200", rec.Code)
	}
}

func TestSessionAuth(t *testing.T) {
	dir := t.TempDir()
	store, err := remote.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	repo := content.NewRepository(store)
	h := NewHandler(repo, render.NewMarkdown(), nil)

	sessions := auth.NewSessionManager("test-secret", time.Hour)
	policy := auth.NewAllowlist([]string{"owner"})
	router := NewRouter(h, nil, SessionMiddleware(sessions, policy), nil)

	// Valid session for an allow-listed login.
	token, err := sessions.Issue(auth.Identity{Login: "owner"})
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodGet, "/posts", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("owner session = %d, want 200", rec.Code)
	}

	// Valid session but not allow-listed → 403.
	stranger, _ := sessions.Issue(auth.Identity{Login: "stranger"})
	req = httptest.NewRequest(http.MethodGet, "/posts", nil)
	req.Header.Set("Authorization", "Bearer "+stranger)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("stranger session = %d, want 403", rec.Code)
	}

	// Garbage token → 401.
	req = httptest.NewRequest(http.MethodGet, "/posts", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("garbage session = %d, want 401", rec.Code)
	}
}
