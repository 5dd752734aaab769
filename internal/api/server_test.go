package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mcpjungle/obsidian-mcp/client"
	"github.com/mcpjungle/obsidian-mcp/internal/service/mcp"
	"github.com/mcpjungle/obsidian-mcp/internal/service/tool"
	"github.com/mcpjungle/obsidian-mcp/internal/telemetry"
	"github.com/mcpjungle/obsidian-mcp/pkg/testhelpers"
	"github.com/mcpjungle/obsidian-mcp/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAPIKey      = "vault-key"
	testAccessToken = "s3cr3t-token"
)

func newTestServer(t *testing.T, accessToken string, providers *telemetry.Providers, files map[string]string) (*Server, *testhelpers.FakeVault) {
	t.Helper()

	vault := testhelpers.NewFakeVault(t, testAPIKey, files)
	mcpServer := mcp.NewServer("test")
	svc, err := mcp.NewMCPService(&mcp.ServiceConfig{
		McpServer: mcpServer,
		Tools:     tool.NewToolService(client.NewClient(vault.URL(), testAPIKey, &http.Client{})),
	})
	require.NoError(t, err)

	s, err := NewServer(&ServerOptions{
		Port:          "0",
		MCPServer:     mcpServer,
		MCPService:    svc,
		AccessToken:   accessToken,
		OtelProviders: providers,
	})
	require.NoError(t, err)
	return s, vault
}

func doRequest(t *testing.T, s *Server, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestNewServerRequiresMCP(t *testing.T) {
	_, err := NewServer(&ServerOptions{Port: "8080"})
	assert.Error(t, err)
}

func TestHealthAndMetadata(t *testing.T) {
	s, _ := newTestServer(t, testAccessToken, nil, nil)

	w := doRequest(t, s, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = doRequest(t, s, http.MethodGet, "/metadata", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	var meta types.ServerMetadata
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &meta))
	assert.NotEmpty(t, meta.Version)
}

func TestAccessToken(t *testing.T) {
	s, vault := newTestServer(t, testAccessToken, nil, nil)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + testAccessToken, http.StatusUnauthorized},
		{"wrong token", "Bearer not-the-token", http.StatusUnauthorized},
		{"valid token", "Bearer " + testAccessToken, http.StatusOK},
		{"lowercase scheme", "bearer " + testAccessToken, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, V0ApiPathPrefix+"/tools", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			s.Handler().ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}

	w := doRequest(t, s, http.MethodPost, "/mcp", map[string]any{"jsonrpc": "2.0", "id": 1, "method": "ping"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, vault.Requests())
}

func TestNoAccessTokenConfigured(t *testing.T) {
	s, _ := newTestServer(t, "", nil, nil)

	w := doRequest(t, s, http.MethodGet, V0ApiPathPrefix+"/tools", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestListAndGetTools(t *testing.T) {
	s, vault := newTestServer(t, "", nil, nil)

	w := doRequest(t, s, http.MethodGet, V0ApiPathPrefix+"/tools", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var tools []types.Tool
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tools))
	require.Len(t, tools, 8)
	assert.Equal(t, tool.ListFilesInVault, tools[0].Name)
	assert.Equal(t, tool.PatchContent, tools[7].Name)

	w = doRequest(t, s, http.MethodGet, V0ApiPathPrefix+"/tool?name="+tool.SimpleSearch, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var got types.Tool
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, tool.SimpleSearch, got.Name)
	assert.Equal(t, []string{"query"}, got.InputSchema.Required)

	w = doRequest(t, s, http.MethodGet, V0ApiPathPrefix+"/tool?name=obsidian_delete_file", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(t, s, http.MethodGet, V0ApiPathPrefix+"/tool", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Empty(t, vault.Requests())
}

func TestInvokeTool(t *testing.T) {
	s, vault := newTestServer(t, "", nil, map[string]string{"notes/a.md": "alpha"})

	w := doRequest(t, s, http.MethodPost, V0ApiPathPrefix+"/tools/invoke", types.ToolInvokeInput{
		Name:  tool.GetFileContents,
		Input: map[string]any{"filepath": "notes/a.md"},
	}, "")
	require.Equal(t, http.StatusOK, w.Code)
	var res types.ToolInvokeResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.False(t, res.IsError)
	require.Len(t, res.Content, 1)
	assert.Equal(t, "alpha", res.Content[0]["text"])

	w = doRequest(t, s, http.MethodPost, V0ApiPathPrefix+"/tools/invoke", types.ToolInvokeInput{
		Name:  tool.GetFileContents,
		Input: map[string]any{"filepath": "notes/b.md"},
	}, "")
	require.Equal(t, http.StatusOK, w.Code)
	res = types.ToolInvokeResult{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.True(t, res.IsError)
	assert.Equal(t, "Error 40400: File not found", res.Content[0]["text"])

	requestsBefore := len(vault.Requests())

	w = doRequest(t, s, http.MethodPost, V0ApiPathPrefix+"/tools/invoke", types.ToolInvokeInput{
		Name: "obsidian_delete_file",
	}, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(t, s, http.MethodPost, V0ApiPathPrefix+"/tools/invoke", types.ToolInvokeInput{
		Name:  tool.GetFileContents,
		Input: map[string]any{},
	}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "filepath argument missing in arguments")

	w = doRequest(t, s, http.MethodPost, V0ApiPathPrefix+"/tools/invoke", map[string]any{}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Len(t, vault.Requests(), requestsBefore)
}

func TestPromptEndpoints(t *testing.T) {
	s, _ := newTestServer(t, "", nil, nil)

	w := doRequest(t, s, http.MethodGet, V0ApiPathPrefix+"/prompts", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), mcp.NoteSummarization)

	w = doRequest(t, s, http.MethodPost, V0ApiPathPrefix+"/prompts/render", types.PromptRenderInput{
		Name:      mcp.NoteSummarization,
		Arguments: map[string]string{"note_content": "Quarterly planning notes"},
	}, "")
	require.Equal(t, http.StatusOK, w.Code)
	var res types.PromptRenderResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.True(t, strings.HasSuffix(res.Text, "Note to summarize:\nQuarterly planning notes"))

	w = doRequest(t, s, http.MethodPost, V0ApiPathPrefix+"/prompts/render", types.PromptRenderInput{
		Name: mcp.NoteSummarization,
	}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, s, http.MethodPost, V0ApiPathPrefix+"/prompts/render", types.PromptRenderInput{
		Name: "daily_review",
	}, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	s, _ := newTestServer(t, "", nil, nil)
	w := doRequest(t, s, http.MethodGet, "/metrics", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	providers, err := telemetry.Init(context.Background(), &telemetry.Config{ServiceName: "obsidian-mcp-test", Enabled: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = providers.Shutdown(context.Background()) })

	s, _ = newTestServer(t, "", providers, nil)
	doRequest(t, s, http.MethodGet, "/health", nil, "")
	w = doRequest(t, s, http.MethodGet, "/metrics", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestStartStopsOnCancel(t *testing.T) {
	s, _ := newTestServer(t, "", nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := s.Start(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
