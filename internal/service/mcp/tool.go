package mcp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mcpjungle/obsidian-mcp/internal/service/tool"
	"github.com/mcpjungle/obsidian-mcp/internal/telemetry"
	"github.com/mcpjungle/obsidian-mcp/pkg/types"
	"go.uber.org/zap"
)

// ErrUnexpectedResult is returned over MCP when a tool produced something other than text.
var ErrUnexpectedResult = errors.New("unexpected result type from tool")

// ListTools returns all tools in the catalog.
func (m *MCPService) ListTools() []types.Tool {
	tools := m.tools.ListTools()
	out := make([]types.Tool, 0, len(tools))
	for _, t := range tools {
		out = append(out, convertMcpToolToAPIObject(t))
	}
	return out
}

// GetTool returns the tool with the given name.
func (m *MCPService) GetTool(name string) (*types.Tool, error) {
	t, ok := m.tools.GetTool(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", tool.ErrUnknownTool, name)
	}
	converted := convertMcpToolToAPIObject(t)
	return &converted, nil
}

// InvokeTool runs a tool and returns its result.
// Unknown tools, invalid arguments and empty results are returned as errors; failures reported by the vault
// are returned as a result with IsError set, the same way an MCP client sees them.
func (m *MCPService) InvokeTool(ctx context.Context, name string, args map[string]any) (*types.ToolInvokeResult, error) {
	content, err := m.callTool(ctx, name, args)
	if err != nil {
		var vErr *tool.ValidationError
		if errors.Is(err, tool.ErrUnknownTool) || errors.Is(err, ErrUnexpectedResult) || errors.As(err, &vErr) {
			return nil, err
		}
		return &types.ToolInvokeResult{
			IsError: true,
			Content: []map[string]any{{"type": "text", "text": err.Error()}},
		}, nil
	}

	contentList, err := convertToolCallRespContent(content)
	if err != nil {
		return nil, fmt.Errorf("failed to convert tool result: %w", err)
	}
	return &types.ToolInvokeResult{Content: contentList}, nil
}

// registerTools adds every catalog tool to the MCP server.
func (m *MCPService) registerTools() {
	for _, t := range m.tools.ListTools() {
		m.mcpServer.AddTool(t, m.toolCallHandler(t.Name))
	}
}

// toolCallHandler returns the MCP handler for the named tool.
// Dispatch errors become error results so the calling agent can read and react to them.
// Only a missing or non-text result is treated as a protocol failure.
func (m *MCPService) toolCallHandler(name string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		content, err := m.callTool(ctx, name, request.GetArguments())
		if errors.Is(err, ErrUnexpectedResult) {
			return nil, err
		}
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		text, ok := content[0].(mcp.TextContent)
		if !ok {
			return nil, ErrUnexpectedResult
		}
		return mcp.NewToolResultText(text.Text), nil
	}
}

// callTool dispatches one tool call, recording its outcome in logs and metrics.
// A successful result always holds at least one content item.
func (m *MCPService) callTool(ctx context.Context, name string, args map[string]any) ([]mcp.Content, error) {
	started := time.Now()
	outcome := telemetry.ToolCallOutcomeError
	logger := m.logger.With(zap.String("tool", name), zap.String("call_id", uuid.NewString()))

	logger.Debug("tool call started", zap.Int("num_args", len(args)))

	defer func() {
		elapsed := time.Since(started)
		m.metrics.RecordToolCall(ctx, name, outcome, elapsed)
	}()

	content, err := m.tools.InvokeTool(ctx, name, args)
	if err == nil && len(content) == 0 {
		err = ErrUnexpectedResult
	}
	if err != nil {
		logger.Warn("tool call failed", zap.Duration("duration", time.Since(started)), zap.Error(err))
		return nil, err
	}

	outcome = telemetry.ToolCallOutcomeSuccess
	logger.Info("tool call finished", zap.Duration("duration", time.Since(started)))
	return content, nil
}
