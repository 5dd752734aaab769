package tool

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mcpjungle/obsidian-mcp/pkg/types"
)

func (s *ToolService) listFilesInVault(ctx context.Context, _ listFilesInVaultInput) ([]mcp.Content, error) {
	files, err := s.vault.ListFilesInVault(ctx)
	if err != nil {
		return nil, err
	}
	return jsonResult(nonNil(files))
}

func (s *ToolService) listFilesInDir(ctx context.Context, in listFilesInDirInput) ([]mcp.Content, error) {
	files, err := s.vault.ListFilesInDir(ctx, in.Dirpath)
	if err != nil {
		return nil, err
	}
	return jsonResult(nonNil(files))
}

func (s *ToolService) getFileContents(ctx context.Context, in getFileContentsInput) ([]mcp.Content, error) {
	content, err := s.vault.GetFileContents(ctx, in.Filepath)
	if err != nil {
		return nil, err
	}
	return textResult(content), nil
}

func (s *ToolService) batchGetFileContents(ctx context.Context, in batchGetFileContentsInput) ([]mcp.Content, error) {
	return textResult(s.vault.GetBatchFileContents(ctx, in.Filepaths)), nil
}

func (s *ToolService) simpleSearch(ctx context.Context, in simpleSearchInput) ([]mcp.Content, error) {
	contextLength := in.ContextLength
	if contextLength == 0 {
		contextLength = DefaultContextLength
	}

	results, err := s.vault.Search(ctx, in.Query, contextLength)
	if err != nil {
		return nil, err
	}
	return jsonResult(toSearchHits(results))
}

func (s *ToolService) complexSearch(ctx context.Context, in complexSearchInput) ([]mcp.Content, error) {
	results, err := s.vault.SearchJSON(ctx, in.Query)
	if err != nil {
		return nil, err
	}
	return jsonResult(results)
}

func (s *ToolService) appendContent(ctx context.Context, in appendContentInput) ([]mcp.Content, error) {
	if err := s.vault.AppendContent(ctx, in.Filepath, in.Content); err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Successfully appended content to %s", in.Filepath)), nil
}

func (s *ToolService) patchContent(ctx context.Context, in patchContentInput) ([]mcp.Content, error) {
	err := s.vault.PatchContent(ctx, in.Filepath, in.Operation, in.TargetType, in.Target, *in.Content)
	if err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Successfully patched content in %s", in.Filepath)), nil
}

// toSearchHits reshapes the vault's search results into the form presented to agents.
func toSearchHits(results []types.SearchResult) []types.SearchHit {
	hits := make([]types.SearchHit, 0, len(results))
	for _, r := range results {
		matches := make([]types.SearchHitMatch, 0, len(r.Matches))
		for _, m := range r.Matches {
			matches = append(matches, types.SearchHitMatch{
				Context:       m.Context,
				MatchPosition: m.Match,
			})
		}
		hits = append(hits, types.SearchHit{
			Filename: r.Filename,
			Score:    r.Score,
			Matches:  matches,
		})
	}
	return hits
}

// jsonResult renders v as 2-space indented JSON without HTML escaping.
func jsonResult(v any) ([]mcp.Content, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("failed to encode tool result: %w", err)
	}
	return textResult(strings.TrimSuffix(buf.String(), "\n")), nil
}

func nonNil(files []string) []string {
	if files == nil {
		return []string{}
	}
	return files
}
