package content

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/virel/pagesmith/internal/apperr"
)

func TestUploadMedia(t *testing.T) {
	_, r := testRepo(t)
	ctx := context.Background()

	mf, err := r.UploadMedia(ctx, "photo.png", []byte("fake image data"))
	if err != nil {
		t.Fatalf("UploadMedia: %v", err)
	}
	if !strings.HasPrefix(mf.Path, "assets/images/") {
		t.Errorf("path = %q", mf.Path)
	}
	if !strings.HasSuffix(mf.Name, "-photo.png") {
		t.Errorf("name = %q, want timestamp prefix before photo.png", mf.Name)
	}
	if mf.URL != "/"+mf.Path {
		t.Errorf("url = %q", mf.URL)
	}
	if mf.Size != int64(len("fake image data")) {
		t.Errorf("size = %d", mf.Size)
	}
}

func TestUploadMedia_SanitizesName(t *testing.T) {
	_, r := testRepo(t)

	mf, err := r.UploadMedia(context.Background(), "../weird name!.png", []byte("x"))
	if err != nil {
		t.Fatalf("UploadMedia: %v", err)
	}
	if strings.Contains(mf.Name, "/") || strings.Contains(mf.Name, " ") || strings.Contains(mf.Name, "!") {
		t.Errorf("name not sanitized: %q", mf.Name)
	}
}

func TestUploadMedia_UnusableName(t *testing.T) {
	_, r := testRepo(t)
	if _, err := r.UploadMedia(context.Background(), "..", []byte("x")); !errors.Is(err, apperr.ErrMalformedDocument) {
		t.Errorf("err = %v, want ErrMalformedDocument", err)
	}
}

func TestListMedia(t *testing.T) {
	_, r := testRepo(t)
	ctx := context.Background()

	// Empty library before any upload.
	files, err := r.ListMedia(ctx)
	if err != nil {
		t.Fatalf("ListMedia: %v", err)
	}
	if len(files) != 0 {
		t.Errorf("files = %v, want empty", files)
	}

	if _, err := r.UploadMedia(ctx, "a.png", []byte("a")); err != nil {
		t.Fatalf("upload: %v", err)
	}
	if _, err := r.UploadMedia(ctx, "b.png", []byte("b")); err != nil {
		t.Fatalf("upload: %v", err)
	}

	files, err = r.ListMedia(ctx)
	if err != nil {
		t.Fatalf("ListMedia: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("len = %d", len(files))
	}
}

func TestDeleteMedia(t *testing.T) {
	_, r := testRepo(t)
	ctx := context.Background()

	mf, err := r.UploadMedia(ctx, "gone.png", []byte("x"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if err := r.DeleteMedia(ctx, mf.Name); err != nil {
		t.Fatalf("DeleteMedia: %v", err)
	}
	files, _ := r.ListMedia(ctx)
	if len(files) != 0 {
		t.Errorf("files = %v, want empty", files)
	}
}

func TestDeleteMedia_RejectsTraversal(t *testing.T) {
	_, r := testRepo(t)
	if err := r.DeleteMedia(context.Background(), "../escape.png"); !errors.Is(err, apperr.ErrMalformedDocument) {
		t.Errorf("err = %v, want ErrMalformedDocument", err)
	}
}
