// Package tool holds the tool catalog and dispatches tool calls to the vault client.
package tool

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mcpjungle/obsidian-mcp/client"
	"github.com/mcpjungle/obsidian-mcp/pkg/types"
)

// DefaultContextLength is used by the simple search when context_length is absent or zero.
const DefaultContextLength = client.DefaultContextLength

// ErrUnknownTool is returned when a call names a tool that is not in the catalog.
var ErrUnknownTool = errors.New("unknown tool")

// VaultClient is the subset of the vault REST client used by the tools.
type VaultClient interface {
	ListFilesInVault(ctx context.Context) ([]string, error)
	ListFilesInDir(ctx context.Context, dirpath string) ([]string, error)
	GetFileContents(ctx context.Context, filepath string) (string, error)
	GetBatchFileContents(ctx context.Context, filepaths []string) string
	Search(ctx context.Context, query string, contextLength int) ([]types.SearchResult, error)
	SearchJSON(ctx context.Context, query map[string]any) (any, error)
	AppendContent(ctx context.Context, filepath, content string) error
	PatchContent(
		ctx context.Context,
		filepath string,
		operation types.PatchOperation,
		targetType types.TargetType,
		target string,
		content string,
	) error
}

type handlerFunc func(ctx context.Context, args map[string]any) ([]mcp.Content, error)

// binding ties a tool to its typed input and handler.
type binding struct {
	input reflect.Type
	call  handlerFunc
}

// ToolService owns the tool catalog and the name to handler mapping.
// It is built once at startup and never modified afterwards, so it is safe for concurrent use.
type ToolService struct {
	vault    VaultClient
	validate *validator.Validate

	tools    []mcp.Tool
	bindings map[string]binding
}

// NewToolService creates the dispatcher for every tool in the catalog, backed by vault.
func NewToolService(vault VaultClient) *ToolService {
	s := &ToolService{
		vault:    vault,
		validate: newValidator(),
		tools:    catalog(),
	}
	s.bindings = map[string]binding{
		ListFilesInVault:     bind(s, s.listFilesInVault),
		ListFilesInDir:       bind(s, s.listFilesInDir),
		GetFileContents:      bind(s, s.getFileContents),
		BatchGetFileContents: bind(s, s.batchGetFileContents),
		SimpleSearch:         bind(s, s.simpleSearch),
		ComplexSearch:        bind(s, s.complexSearch),
		AppendContent:        bind(s, s.appendContent),
		PatchContent:         bind(s, s.patchContent),
	}
	return s
}

// bind decodes and validates the arguments into T once, before fn runs.
func bind[T any](s *ToolService, fn func(ctx context.Context, in T) ([]mcp.Content, error)) binding {
	return binding{
		input: reflect.TypeFor[T](),
		call: func(ctx context.Context, args map[string]any) ([]mcp.Content, error) {
			var in T
			if err := decodeArgs(args, &in); err != nil {
				return nil, err
			}
			if err := validateInput(s.validate, in); err != nil {
				return nil, err
			}
			return fn(ctx, in)
		},
	}
}

// ListTools returns the descriptors of all tools, in catalog order.
func (s *ToolService) ListTools() []mcp.Tool {
	out := make([]mcp.Tool, len(s.tools))
	copy(out, s.tools)
	return out
}

// GetTool returns the descriptor of the named tool.
func (s *ToolService) GetTool(name string) (mcp.Tool, bool) {
	for _, t := range s.tools {
		if t.Name == name {
			return t, true
		}
	}
	return mcp.Tool{}, false
}

// InvokeTool runs the named tool with the given arguments.
// It returns ErrUnknownTool (wrapped) without contacting the vault if the name is not in the catalog,
// and a *ValidationError if the arguments do not satisfy the tool's input schema.
// Otherwise, the handler's result is returned unchanged.
func (s *ToolService) InvokeTool(ctx context.Context, name string, args map[string]any) ([]mcp.Content, error) {
	b, ok := s.bindings[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	return b.call(ctx, args)
}
