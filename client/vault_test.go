package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mcpjungle/obsidian-mcp/pkg/types"
)

func TestListFilesInVault(t *testing.T) {
	t.Parallel()

	t.Run("successful list", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				t.Errorf("Expected GET method, got %s", r.Method)
			}
			if r.URL.Path != "/vault/" {
				t.Errorf("Expected path /vault/, got %s", r.URL.Path)
			}
			if auth := r.Header.Get("Authorization"); auth != "Bearer test-token" {
				t.Errorf("Expected Authorization 'Bearer test-token', got %s", auth)
			}

			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(types.FileList{Files: []string{"Daily/", "Inbox.md"}})
		}))
		defer server.Close()

		client := NewClient(server.URL, "test-token", &http.Client{})
		files, err := client.ListFilesInVault(context.Background())
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}

		if len(files) != 2 {
			t.Fatalf("Expected 2 files, got %d", len(files))
		}
		if files[0] != "Daily/" || files[1] != "Inbox.md" {
			t.Errorf("Unexpected files: %v", files)
		}
	})

	t.Run("malformed response body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("not json"))
		}))
		defer server.Close()

		client := NewClient(server.URL, "test-token", &http.Client{})
		_, err := client.ListFilesInVault(context.Background())
		if err == nil {
			t.Fatal("Expected error, got nil")
		}
		if !strings.Contains(err.Error(), "failed to decode response") {
			t.Errorf("Expected decode error, got %v", err)
		}
	})
}

func TestListFilesInDir(t *testing.T) {
	t.Parallel()

	t.Run("successful list", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/vault/Projects/Work/" {
				t.Errorf("Expected path /vault/Projects/Work/, got %s", r.URL.Path)
			}
			_ = json.NewEncoder(w).Encode(types.FileList{Files: []string{"plan.md"}})
		}))
		defer server.Close()

		client := NewClient(server.URL, "test-token", &http.Client{})
		files, err := client.ListFilesInDir(context.Background(), "Projects/Work/")
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if len(files) != 1 || files[0] != "plan.md" {
			t.Errorf("Unexpected files: %v", files)
		}
	})

	t.Run("directory not found", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"errorCode": 40100, "message": "Directory not found."}`))
		}))
		defer server.Close()

		client := NewClient(server.URL, "test-token", &http.Client{})
		_, err := client.ListFilesInDir(context.Background(), "nope")
		if err == nil {
			t.Fatal("Expected error, got nil")
		}
		if !strings.Contains(err.Error(), "40100") {
			t.Errorf("Expected error to contain code 40100, got %v", err)
		}
		if !strings.Contains(err.Error(), "Directory not found.") {
			t.Errorf("Expected error to contain remote message, got %v", err)
		}

		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("Expected *APIError, got %T", err)
		}
		if apiErr.StatusCode != http.StatusNotFound {
			t.Errorf("Expected status 404, got %d", apiErr.StatusCode)
		}
	})
}

func TestGetFileContents(t *testing.T) {
	t.Parallel()

	t.Run("returns raw body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.EscapedPath() != "/vault/My%20Notes/a%20b.md" {
				t.Errorf("Expected escaped path /vault/My%%20Notes/a%%20b.md, got %s", r.URL.EscapedPath())
			}
			w.Header().Set("Content-Type", "text/markdown")
			_, _ = w.Write([]byte("# Title\n\nbody"))
		}))
		defer server.Close()

		client := NewClient(server.URL, "test-token", &http.Client{})
		content, err := client.GetFileContents(context.Background(), "/My Notes/a b.md")
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if content != "# Title\n\nbody" {
			t.Errorf("Unexpected content: %q", content)
		}
	})

	t.Run("error body without fields uses defaults", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte("boom"))
		}))
		defer server.Close()

		client := NewClient(server.URL, "test-token", &http.Client{})
		_, err := client.GetFileContents(context.Background(), "a.md")
		if err == nil {
			t.Fatal("Expected error, got nil")
		}
		if err.Error() != "Error -1: <unknown>" {
			t.Errorf("Expected 'Error -1: <unknown>', got %s", err.Error())
		}
	})

	t.Run("transport failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := server.URL
		server.Close()

		client := NewClient(url, "test-token", &http.Client{Timeout: time.Second})
		_, err := client.GetFileContents(context.Background(), "a.md")
		if err == nil {
			t.Fatal("Expected error, got nil")
		}

		var transportErr *TransportError
		if !errors.As(err, &transportErr) {
			t.Fatalf("Expected *TransportError, got %T", err)
		}
		if !strings.HasPrefix(err.Error(), "request failed: ") {
			t.Errorf("Expected 'request failed: ' prefix, got %s", err.Error())
		}
	})
}

func TestAppendContent(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST method, got %s", r.Method)
		}
		if r.URL.Path != "/vault/Inbox.md" {
			t.Errorf("Expected path /vault/Inbox.md, got %s", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "text/markdown" {
			t.Errorf("Expected Content-Type text/markdown, got %s", ct)
		}
		body, _ := io.ReadAll(r.Body)
		if string(body) != "- new item\n" {
			t.Errorf("Unexpected body: %q", string(body))
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-token", &http.Client{})
	if err := client.AppendContent(context.Background(), "Inbox.md", "- new item\n"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
}

func TestPatchContent(t *testing.T) {
	t.Parallel()

	t.Run("sends operation headers", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPatch {
				t.Errorf("Expected PATCH method, got %s", r.Method)
			}
			if r.URL.Path != "/vault/Notes/Plan.md" {
				t.Errorf("Expected path /vault/Notes/Plan.md, got %s", r.URL.Path)
			}
			if got := r.Header.Get("Operation"); got != "append" {
				t.Errorf("Expected Operation header 'append', got %s", got)
			}
			if got := r.Header.Get("Target-Type"); got != "heading" {
				t.Errorf("Expected Target-Type header 'heading', got %s", got)
			}
			if got := r.Header.Get("Target"); got != "A%3A%3AB" {
				t.Errorf("Expected Target header 'A%%3A%%3AB', got %s", got)
			}
			if ct := r.Header.Get("Content-Type"); ct != "text/markdown" {
				t.Errorf("Expected Content-Type text/markdown, got %s", ct)
			}
			body, _ := io.ReadAll(r.Body)
			if string(body) != "more" {
				t.Errorf("Unexpected body: %q", string(body))
			}
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := NewClient(server.URL, "test-token", &http.Client{})
		err := client.PatchContent(
			context.Background(), "Notes/Plan.md", types.PatchAppend, types.TargetHeading, "A::B", "more",
		)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
	})

	t.Run("remote rejects target", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"errorCode": 40080, "message": "invalid-target"}`))
		}))
		defer server.Close()

		client := NewClient(server.URL, "test-token", &http.Client{})
		err := client.PatchContent(
			context.Background(), "Plan.md", types.PatchReplace, types.TargetBlock, "abc123", "",
		)
		if err == nil {
			t.Fatal("Expected error, got nil")
		}
		if err.Error() != "Error 40080: invalid-target" {
			t.Errorf("Unexpected error: %s", err.Error())
		}
	})
}

func TestEmptyFilePathIsRejected(t *testing.T) {
	t.Parallel()

	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		_, _ = w.Write([]byte(`{"files": ["A.md"]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-token", &http.Client{})
	ctx := context.Background()

	for _, p := range []string{"", "/", "//"} {
		if _, err := client.GetFileContents(ctx, p); !errors.Is(err, ErrEmptyPath) {
			t.Errorf("GetFileContents(%q): expected ErrEmptyPath, got %v", p, err)
		}
		if err := client.AppendContent(ctx, p, "x"); !errors.Is(err, ErrEmptyPath) {
			t.Errorf("AppendContent(%q): expected ErrEmptyPath, got %v", p, err)
		}
		err := client.PatchContent(ctx, p, types.PatchAppend, types.TargetHeading, "A", "x")
		if !errors.Is(err, ErrEmptyPath) {
			t.Errorf("PatchContent(%q): expected ErrEmptyPath, got %v", p, err)
		}
	}

	if requests != 0 {
		t.Errorf("Expected no requests to reach the vault, got %d", requests)
	}
}

func TestEncodeURIComponent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"A::B", "A%3A%3AB"},
		{"Heading 1", "Heading%201"},
		{"safe-_.!~*'()", "safe-_.!~*'()"},
		{"a/b?c=d&e", "a%2Fb%3Fc%3Dd%26e"},
		{"Café", "Caf%C3%A9"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := encodeURIComponent(tt.in); got != tt.want {
			t.Errorf("encodeURIComponent(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestConfigBaseURL(t *testing.T) {
	t.Parallel()

	conf := DefaultConfig()
	if got := conf.BaseURL(); got != "https://127.0.0.1:27124" {
		t.Errorf("Expected https://127.0.0.1:27124, got %s", got)
	}

	conf.Protocol = "http"
	conf.Port = 27123
	c := New(conf)
	if got := c.BaseURL(); got != "http://127.0.0.1:27123" {
		t.Errorf("Expected http://127.0.0.1:27123, got %s", got)
	}
}
