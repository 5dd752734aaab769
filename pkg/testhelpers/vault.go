package testhelpers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/mcpjungle/obsidian-mcp/pkg/types"
)

// RecordedRequest is a request received by a FakeVault.
type RecordedRequest struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   string
}

// FakeVault is an in-memory stand-in for the Obsidian Local REST API.
// It serves the vault, search and patch endpoints over httptest and records every request.
type FakeVault struct {
	Server *httptest.Server
	APIKey string

	// ComplexSearchResult is returned as is by POST /search/.
	ComplexSearchResult any

	mu       sync.Mutex
	files    map[string]string
	requests []RecordedRequest
}

// NewFakeVault starts a FakeVault holding a copy of files, keyed by vault path.
// The server is closed when the test ends.
func NewFakeVault(t interface{ Cleanup(func()) }, apiKey string, files map[string]string) *FakeVault {
	v := &FakeVault{
		APIKey:              apiKey,
		ComplexSearchResult: []any{},
		files:               make(map[string]string, len(files)),
	}
	for k, c := range files {
		v.files[k] = c
	}
	v.Server = httptest.NewServer(http.HandlerFunc(v.serveHTTP))
	t.Cleanup(v.Server.Close)
	return v
}

// URL returns the base URL of the fake vault.
func (v *FakeVault) URL() string {
	return v.Server.URL
}

// Requests returns a copy of every request received so far, in arrival order.
func (v *FakeVault) Requests() []RecordedRequest {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]RecordedRequest, len(v.requests))
	copy(out, v.requests)
	return out
}

// File returns the current content of a file and whether it exists.
func (v *FakeVault) File(p string) (string, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	c, ok := v.files[p]
	return c, ok
}

func (v *FakeVault) serveHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	v.mu.Lock()
	defer v.mu.Unlock()

	v.requests = append(v.requests, RecordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.Query(),
		Header: r.Header.Clone(),
		Body:   string(body),
	})

	if r.Header.Get("Authorization") != "Bearer "+v.APIKey {
		writeVaultError(w, http.StatusUnauthorized, 40101, "Authorization required.")
		return
	}

	switch {
	case r.URL.Path == "/search/simple/" && r.Method == http.MethodPost:
		v.simpleSearch(w, r.URL.Query())
	case r.URL.Path == "/search/" && r.Method == http.MethodPost:
		writeJSON(w, v.ComplexSearchResult)
	case strings.HasPrefix(r.URL.Path, "/vault/"):
		v.serveVault(w, r, strings.TrimPrefix(r.URL.Path, "/vault/"), string(body))
	default:
		writeVaultError(w, http.StatusNotFound, 40400, "Not Found")
	}
}

func (v *FakeVault) serveVault(w http.ResponseWriter, r *http.Request, p, body string) {
	if p == "" || strings.HasSuffix(p, "/") {
		if r.Method != http.MethodGet {
			writeVaultError(w, http.StatusMethodNotAllowed, 40500, "Method not allowed")
			return
		}
		entries := v.list(p)
		if p != "" && len(entries) == 0 {
			writeVaultError(w, http.StatusNotFound, 40400, "Not Found")
			return
		}
		writeJSON(w, types.FileList{Files: entries})
		return
	}

	switch r.Method {
	case http.MethodGet:
		c, ok := v.files[p]
		if !ok {
			writeVaultError(w, http.StatusNotFound, 40400, "File not found")
			return
		}
		w.Header().Set("Content-Type", "text/markdown")
		_, _ = io.WriteString(w, c)
	case http.MethodPost:
		v.files[p] += body
		w.WriteHeader(http.StatusNoContent)
	case http.MethodPatch:
		c, ok := v.files[p]
		if !ok {
			writeVaultError(w, http.StatusNotFound, 40400, "File not found")
			return
		}
		switch r.Header.Get("Operation") {
		case "prepend":
			v.files[p] = body + c
		case "replace":
			v.files[p] = body
		default:
			v.files[p] = c + body
		}
		w.WriteHeader(http.StatusOK)
	default:
		writeVaultError(w, http.StatusMethodNotAllowed, 40500, "Method not allowed")
	}
}

// list returns the direct children of dir, directories suffixed with "/".
func (v *FakeVault) list(dir string) []string {
	seen := map[string]bool{}
	for p := range v.files {
		if !strings.HasPrefix(p, dir) {
			continue
		}
		rest := strings.TrimPrefix(p, dir)
		if i := strings.Index(rest, "/"); i >= 0 {
			rest = rest[:i+1]
		}
		seen[rest] = true
	}
	out := make([]string, 0, len(seen))
	for e := range seen {
		out = append(out, e)
	}
	sort.Strings(out)
	return out
}

func (v *FakeVault) simpleSearch(w http.ResponseWriter, q url.Values) {
	query := q.Get("query")
	contextLength, err := strconv.Atoi(q.Get("contextLength"))
	if err != nil {
		contextLength = 100
	}

	paths := make([]string, 0, len(v.files))
	for p := range v.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	results := []types.SearchResult{}
	for _, p := range paths {
		c := v.files[p]
		idx := strings.Index(c, query)
		if query == "" || idx < 0 {
			continue
		}
		start := max(0, idx-contextLength)
		end := min(len(c), idx+len(query)+contextLength)
		results = append(results, types.SearchResult{
			Filename: p,
			Score:    1,
			Matches: []types.SearchMatch{{
				Context: c[start:end],
				Match:   types.MatchSpan{Start: idx - start, End: idx - start + len(query)},
			}},
		})
	}
	writeJSON(w, results)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeVaultError(w http.ResponseWriter, status, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"errorCode": code, "message": message})
}
