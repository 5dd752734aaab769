// Package mcp binds the Obsidian tool catalog and prompts to an MCP server.
package mcp

import (
	"context"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mcpjungle/obsidian-mcp/internal/telemetry"
	"go.uber.org/zap"
)

// ServerName is the name the MCP server reports to clients during initialization.
const ServerName = "Obsidian"

// ToolDispatcher looks up and runs catalog tools.
// It is implemented by *tool.ToolService.
type ToolDispatcher interface {
	ListTools() []mcp.Tool
	GetTool(name string) (mcp.Tool, bool)
	InvokeTool(ctx context.Context, name string, args map[string]any) ([]mcp.Content, error)
}

// ServiceConfig holds the configuration parameters for initializing the MCPService.
type ServiceConfig struct {
	McpServer *server.MCPServer
	Tools     ToolDispatcher

	Metrics telemetry.CustomMetrics
	Logger  *zap.Logger
}

// MCPService exposes the tool dispatcher over MCP.
// It registers every catalog tool and prompt on the MCP server once, at construction.
type MCPService struct {
	mcpServer *server.MCPServer
	tools     ToolDispatcher

	metrics telemetry.CustomMetrics
	logger  *zap.Logger
}

// NewServer creates the MCP server with tool and prompt capabilities.
// Panics in tool handlers are recovered and reported to the caller as errors.
func NewServer(version string) *server.MCPServer {
	return server.NewMCPServer(
		ServerName,
		version,
		server.WithToolCapabilities(true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
	)
}

// NewMCPService creates a new instance of MCPService and registers all tools and prompts
// on the MCP server.
func NewMCPService(c *ServiceConfig) (*MCPService, error) {
	if c.McpServer == nil {
		return nil, errors.New("mcp server must not be nil")
	}
	if c.Tools == nil {
		return nil, errors.New("tool service must not be nil")
	}

	s := &MCPService{
		mcpServer: c.McpServer,
		tools:     c.Tools,
		metrics:   c.Metrics,
		logger:    c.Logger,
	}
	if s.metrics == nil {
		s.metrics = telemetry.NewNoopCustomMetrics()
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}

	s.registerTools()
	s.registerPrompts()
	return s, nil
}

// MCPServer returns the underlying MCP server, for use by a transport.
func (m *MCPService) MCPServer() *server.MCPServer {
	return m.mcpServer
}
