package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mcpjungle/obsidian-mcp/internal/telemetry"
	"github.com/mcpjungle/obsidian-mcp/pkg/types"
	"go.uber.org/zap"
)

const (
	NoteSummarization = "note_summarization"

	noteContentArg         = "note_content"
	noteContentPlaceholder = "{{note_content}}"
)

const noteSummarizationTemplate = `You are an expert note summarizer. Your task is to create a concise and informative summary of the provided note.

Focus on capturing the main ideas, key points, and important details. Organize the information in a structured way.

Here are some guidelines:
1. Start with a brief overview of what the note is about
2. Include the most important concepts/ideas discussed
3. Highlight any actionable items or conclusions
4. Preserve the original meaning and intent of the note
5. Use clear, concise language

The summary should be complete enough that someone reading it would understand the core content without having to refer to the original note.

Note to summarize:
{{note_content}}`

// ErrUnknownPrompt is returned when a render request names a prompt that does not exist.
var ErrUnknownPrompt = errors.New("unknown prompt")

func noteSummarizationPrompt() mcp.Prompt {
	return mcp.NewPrompt(NoteSummarization,
		mcp.WithPromptDescription("Generate summaries for long notes"),
		mcp.WithArgument(noteContentArg,
			mcp.ArgumentDescription("The content of the note to summarize"),
			mcp.RequiredArgument(),
		),
	)
}

// ListPrompts returns all prompts served by the MCP server.
func (m *MCPService) ListPrompts() []mcp.Prompt {
	return []mcp.Prompt{noteSummarizationPrompt()}
}

// RenderPrompt fills in the named prompt with the given arguments.
func (m *MCPService) RenderPrompt(ctx context.Context, name string, args map[string]string) (*types.PromptRenderResult, error) {
	outcome := telemetry.ToolCallOutcomeError
	defer func() {
		m.metrics.RecordPromptRender(ctx, name, outcome)
	}()

	if name != NoteSummarization {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPrompt, name)
	}

	content, ok := args[noteContentArg]
	if !ok {
		return nil, fmt.Errorf("%s argument is required", noteContentArg)
	}

	outcome = telemetry.ToolCallOutcomeSuccess
	return &types.PromptRenderResult{
		Name:        name,
		Description: noteSummarizationPrompt().Description,
		Text:        renderNoteSummarization(content),
	}, nil
}

// renderNoteSummarization substitutes the first placeholder only, so note text that itself
// contains the placeholder is passed through untouched.
func renderNoteSummarization(noteContent string) string {
	return strings.Replace(noteSummarizationTemplate, noteContentPlaceholder, noteContent, 1)
}

func (m *MCPService) registerPrompts() {
	m.mcpServer.AddPrompt(noteSummarizationPrompt(), m.promptHandler)
}

// promptHandler serves prompts/get requests as a single user message.
func (m *MCPService) promptHandler(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	rendered, err := m.RenderPrompt(ctx, request.Params.Name, request.Params.Arguments)
	if err != nil {
		m.logger.Warn("prompt render failed", zap.String("prompt", request.Params.Name), zap.Error(err))
		return nil, err
	}

	return mcp.NewGetPromptResult(
		rendered.Description,
		[]mcp.PromptMessage{
			mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(rendered.Text)),
		},
	), nil
}
