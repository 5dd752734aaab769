package tool

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mcpjungle/obsidian-mcp/pkg/types"
)

// Typed arguments of each tool. The json names and validation rules mirror the
// descriptors returned by catalog.

type listFilesInVaultInput struct{}

type listFilesInDirInput struct {
	Dirpath string `json:"dirpath" validate:"required"`
}

type getFileContentsInput struct {
	Filepath string `json:"filepath" validate:"required"`
}

type batchGetFileContentsInput struct {
	Filepaths []string `json:"filepaths" validate:"required,dive,required"`
}

type simpleSearchInput struct {
	Query string `json:"query" validate:"required"`
	// ContextLength of 0 selects DefaultContextLength.
	ContextLength int `json:"context_length" validate:"gte=0"`
}

type complexSearchInput struct {
	Query map[string]any `json:"query" validate:"required"`
}

type appendContentInput struct {
	Filepath string `json:"filepath" validate:"required"`
	Content  string `json:"content" validate:"required"`
}

// patchContentInput.Content may be empty (eg- to clear a frontmatter field) but must be supplied.
type patchContentInput struct {
	Filepath   string               `json:"filepath" validate:"required"`
	Operation  types.PatchOperation `json:"operation" validate:"required,patch_operation"`
	TargetType types.TargetType     `json:"target_type" validate:"required,target_type"`
	Target     string               `json:"target" validate:"required"`
	Content    *string              `json:"content" validate:"required"`
}

// textResult wraps s as the single text content item every tool returns.
func textResult(s string) []mcp.Content {
	return []mcp.Content{mcp.NewTextContent(s)}
}
