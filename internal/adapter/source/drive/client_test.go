package drive

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/drake/drivecast/internal/adapter"
	"github.com/drake/drivecast/internal/domain"
)

func TestListChildrenFollowsPageTokens(t *testing.T) {
	var tokens []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("Authorization = %q", got)
		}
		if got := r.URL.Query().Get("q"); got != "'folder1' in parents" {
			t.Errorf("q = %q", got)
		}
		tokens = append(tokens, r.URL.Query().Get("pageToken"))

		resp := fileListResponse{
			Files: []fileResource{{ID: "v1", Name: "Clip.mp4", MimeType: "video/mp4", Size: "1024"}},
		}
		if len(tokens) == 1 {
			resp.NextPageToken = "page2"
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	c := NewClient(server.URL, "secret", 1000, adapter.NullLogger())

	page, err := c.ListChildren(context.Background(), "folder1", "")
	if err != nil {
		t.Fatalf("ListChildren: %v", err)
	}
	if page.NextPageToken != "page2" {
		t.Fatalf("NextPageToken = %q", page.NextPageToken)
	}
	if len(page.Files) != 1 || page.Files[0].Size != 1024 {
		t.Fatalf("files = %+v", page.Files)
	}

	if _, err := c.ListChildren(context.Background(), "folder1", page.NextPageToken); err != nil {
		t.Fatalf("second page: %v", err)
	}
	if tokens[0] != "" || tokens[1] != "page2" {
		t.Fatalf("tokens sent = %v", tokens)
	}
}

func TestAuthFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	c := NewClient(server.URL, "expired", 1000, adapter.NullLogger())
	_, err := c.ListChildren(context.Background(), "folder1", "")
	if !errors.Is(err, domain.ErrAuthFailed) {
		t.Fatalf("err = %v, want ErrAuthFailed", err)
	}
}

func TestStatusCarriedInError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"code": 404, "message": "File not found"},
		})
	}))
	defer server.Close()

	c := NewClient(server.URL, "secret", 1000, adapter.NullLogger())
	_, err := c.ListChildren(context.Background(), "missing", "")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "404") {
		t.Fatalf("error lacks status: %v", err)
	}
	if !strings.Contains(err.Error(), "File not found") {
		t.Fatalf("error lacks provider message: %v", err)
	}
}

func TestRetriesServerErrors(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode(fileListResponse{})
	}))
	defer server.Close()

	c := NewClient(server.URL, "secret", 1000, adapter.NullLogger())
	if _, err := c.ListChildren(context.Background(), "folder1", ""); err != nil {
		t.Fatalf("ListChildren after retry: %v", err)
	}
	if attempts != 2 {
		t.Fatalf("attempts = %d, want 2", attempts)
	}
}

func TestServerOffline(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	c := NewClient(server.URL, "secret", 1000, adapter.NullLogger())
	_, err := c.ListChildren(context.Background(), "folder1", "")
	if !errors.Is(err, domain.ErrServerOffline) {
		t.Fatalf("err = %v, want ErrServerOffline", err)
	}
}

func TestFetchBytes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("alt"); got != "media" {
			t.Errorf("alt = %q", got)
		}
		w.Write([]byte("raw-bytes"))
	}))
	defer server.Close()

	c := NewClient(server.URL, "secret", 1000, adapter.NullLogger())
	data, err := c.FetchBytes(context.Background(), "v1")
	if err != nil {
		t.Fatalf("FetchBytes: %v", err)
	}
	if string(data) != "raw-bytes" {
		t.Fatalf("data = %q", data)
	}
}

func TestMapFilesSkipsIncompleteResources(t *testing.T) {
	files := MapFiles([]fileResource{
		{ID: "v1", Name: "Clip.mp4", MimeType: "video/mp4", Size: "10", ModifiedTime: "2024-03-01T10:00:00Z"},
		{ID: "", Name: "nameless"},
		{ID: "v2", Name: ""},
		{ID: "v3", Name: "NoSize.mp4", MimeType: "video/mp4"},
	})
	if len(files) != 2 {
		t.Fatalf("mapped %d files, want 2", len(files))
	}
	if files[0].Kind != domain.KindVideo || files[0].Size != 10 {
		t.Fatalf("first file = %+v", files[0])
	}
	if files[1].Size != domain.SizeUnknown {
		t.Fatalf("missing size mapped to %d, want SizeUnknown", files[1].Size)
	}
	if files[0].ModifiedAt.IsZero() {
		t.Fatal("modified time not parsed")
	}
}

func TestPlaybackURLs(t *testing.T) {
	if got := StreamURL("abc"); got != "https://drive.google.com/uc?export=download&id=abc" {
		t.Fatalf("StreamURL = %q", got)
	}
	if got := EmbedURL("abc"); got != "https://drive.google.com/file/d/abc/preview" {
		t.Fatalf("EmbedURL = %q", got)
	}
}
