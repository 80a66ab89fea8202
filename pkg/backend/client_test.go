package backend

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/mindgraft/pkg/cache"
	"github.com/matzehuels/mindgraft/pkg/errors"
	"github.com/matzehuels/mindgraft/pkg/tree"
)

const sampleTree = `{
	"id": "r", "topic": "Root", "summary": "s", "image_url": null,
	"children": [{"id": "a", "topic": "A", "summary": ""}]
}`

func TestGenerate(t *testing.T) {
	var gotType, gotName, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			t.Errorf("FormFile: %v", err)
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		defer f.Close()
		data, _ := io.ReadAll(f)
		gotBody = string(data)
		gotName = hdr.Filename
		gotType = hdr.Header.Get("Content-Type")
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, sampleTree)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	root, err := c.Generate(context.Background(), "/tmp/paper.pdf", strings.NewReader("%PDF-1.4"))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if root.ID != "r" || len(root.Children) != 1 {
		t.Errorf("tree = %+v, want root r with one child", root)
	}
	if gotName != "paper.pdf" {
		t.Errorf("filename = %q, want paper.pdf", gotName)
	}
	if gotType != "application/pdf" {
		t.Errorf("content type = %q, want application/pdf", gotType)
	}
	if gotBody != "%PDF-1.4" {
		t.Errorf("body = %q", gotBody)
	}
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantCode errors.Code
		wantMsg  string
	}{
		{
			name:     "Detail",
			status:   http.StatusBadRequest,
			body:     `{"detail":"unsupported file type"}`,
			wantCode: errors.ErrCodeBackend,
			wantMsg:  "unsupported file type",
		},
		{
			name:     "NoBody",
			status:   http.StatusInternalServerError,
			wantCode: errors.ErrCodeBackend,
			wantMsg:  "HTTP error! status: 500",
		},
		{
			name:     "NotJSON",
			status:   http.StatusBadGateway,
			body:     "<html>bad gateway</html>",
			wantCode: errors.ErrCodeBackend,
			wantMsg:  "HTTP error! status: 502",
		},
		{
			name:     "MalformedTree",
			status:   http.StatusOK,
			body:     `{"id": "r", "children": [{"topic": "no id"}]}`,
			wantCode: errors.ErrCodeInvalidDocument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL).Generate(context.Background(), "a.pdf", strings.NewReader("x"))
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, tt.wantCode) {
				t.Errorf("code = %v, want %v", errors.GetCode(err), tt.wantCode)
			}
			if tt.wantMsg != "" {
				if got := errors.UserMessage(err); got != tt.wantMsg {
					t.Errorf("UserMessage = %q, want %q", got, tt.wantMsg)
				}
			}
		})
	}
}

func TestGenerateNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, WithTimeout(time.Second)).Generate(context.Background(), "a.pdf", strings.NewReader("x"))
	if !errors.Is(err, errors.ErrCodeNetwork) {
		t.Errorf("error = %v, want NETWORK_ERROR", err)
	}
}

func TestContentType(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"paper.pdf", "application/pdf"},
		{"PAPER.PDF", "application/pdf"},
		{"notes", "application/octet-stream"},
	}
	for _, tt := range tests {
		if got := ContentType(tt.name); got != tt.want {
			t.Errorf("ContentType(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

type countingGenerator struct {
	calls atomic.Int32
	err   error
}

func (g *countingGenerator) Generate(ctx context.Context, filename string, r io.Reader) (*tree.Node, error) {
	g.calls.Add(1)
	if g.err != nil {
		return nil, g.err
	}
	return tree.ReadJSON(strings.NewReader(sampleTree))
}

func TestCached(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	inner := &countingGenerator{}
	g := Cached(inner, fc, nil, time.Hour, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		root, err := g.Generate(ctx, "a.pdf", strings.NewReader("same bytes"))
		if err != nil {
			t.Fatalf("Generate #%d: %v", i, err)
		}
		if root.ID != "r" {
			t.Errorf("root = %q, want r", root.ID)
		}
	}
	if got := inner.calls.Load(); got != 1 {
		t.Errorf("backend calls = %d, want 1", got)
	}

	if _, err := g.Generate(ctx, "b.pdf", strings.NewReader("other bytes")); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got := inner.calls.Load(); got != 2 {
		t.Errorf("backend calls = %d, want 2 for different content", got)
	}
}

func TestCachedDoesNotStoreFailures(t *testing.T) {
	inner := &countingGenerator{err: errors.New(errors.ErrCodeBackend, "boom")}
	fc, _ := cache.NewFileCache(t.TempDir())
	g := Cached(inner, fc, nil, 0, nil)

	for i := 0; i < 2; i++ {
		if _, err := g.Generate(context.Background(), "a.pdf", strings.NewReader("x")); err == nil {
			t.Fatal("expected error")
		}
	}
	if got := inner.calls.Load(); got != 2 {
		t.Errorf("backend calls = %d, want 2", got)
	}
}
