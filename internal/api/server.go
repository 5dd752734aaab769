// Package api provides the HTTP transport for the obsidian-mcp server.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mcpjungle/obsidian-mcp/internal/service/mcp"
	"github.com/mcpjungle/obsidian-mcp/internal/telemetry"
	"github.com/mcpjungle/obsidian-mcp/pkg/types"
	"github.com/mcpjungle/obsidian-mcp/pkg/version"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

const (
	V0PathPrefix    = "/v0"
	V0ApiPathPrefix = "/api" + V0PathPrefix
)

const shutdownTimeout = 5 * time.Second

type ServerOptions struct {
	// Port is the HTTP port to bind the server to
	Port string

	// MCPServer serves the tool catalog over the streamable http transport on /mcp.
	MCPServer  *server.MCPServer
	MCPService *mcp.MCPService

	// AccessToken guards /mcp and the /api/v0 endpoints when set.
	AccessToken string

	OtelProviders *telemetry.Providers
	Logger        *zap.Logger
}

// Server exposes the MCP server and a small REST API over the tool catalog.
type Server struct {
	port   string
	router *gin.Engine

	mcpServer  *server.MCPServer
	mcpService *mcp.MCPService

	accessToken string

	otelProviders *telemetry.Providers
	logger        *zap.Logger
}

// NewServer initializes a new Gin server for the MCP endpoint and the REST API
func NewServer(opts *ServerOptions) (*Server, error) {
	if opts.MCPServer == nil || opts.MCPService == nil {
		return nil, errors.New("mcp server and mcp service are required")
	}

	s := &Server{
		port:          opts.Port,
		mcpServer:     opts.MCPServer,
		mcpService:    opts.MCPService,
		accessToken:   opts.AccessToken,
		otelProviders: opts.OtelProviders,
		logger:        opts.Logger,
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}

	s.router = s.setupRouter()
	return s, nil
}

// Handler returns the http.Handler serving all routes.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start runs the Gin server until ctx is cancelled, then shuts it down gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + s.port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to run the server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down the server: %w", err)
	}
	return ctx.Err()
}

// setupRouter sets up the Gin router with the MCP server and API endpoints.
func (s *Server) setupRouter() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	// if otel is enabled, setup prometheus metrics endpoint
	if s.otelProviders != nil && s.otelProviders.IsEnabled() {
		// instrument gin
		r.Use(otelgin.Middleware(s.otelProviders.ServiceName()))

		r.GET("/metrics", gin.WrapH(s.otelProviders.MetricsHandler()))
	}

	r.GET(
		"/health",
		func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		},
	)

	r.GET(
		"/metadata",
		func(c *gin.Context) {
			m := &types.ServerMetadata{
				Version: version.GetVersion(),
			}
			c.JSON(http.StatusOK, m)
		},
	)

	streamableHTTPServer := server.NewStreamableHTTPServer(s.mcpServer)
	r.Any(
		"/mcp",
		s.requireAccessToken(),
		gin.WrapH(streamableHTTPServer),
	)

	apiV0 := r.Group(V0ApiPathPrefix, s.requireAccessToken())
	{
		apiV0.GET("/tools", s.listToolsHandler())
		apiV0.GET("/tool", s.getToolHandler())
		apiV0.POST("/tools/invoke", s.invokeToolHandler())

		apiV0.GET("/prompts", s.listPromptsHandler())
		apiV0.POST("/prompts/render", s.renderPromptHandler())
	}

	return r
}
