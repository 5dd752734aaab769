package mcp

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mcpjungle/obsidian-mcp/pkg/types"
)

// convertMcpToolToAPIObject converts a mcp.Tool into the tool representation served by the HTTP API.
func convertMcpToolToAPIObject(t mcp.Tool) types.Tool {
	required := t.InputSchema.Required
	if required == nil {
		required = []string{}
	}

	tool := types.Tool{
		Name:        t.Name,
		Description: t.Description,
		InputSchema: types.ToolInputSchema{
			Type:       t.InputSchema.Type,
			Properties: t.InputSchema.Properties,
			Required:   required,
		},
	}

	annotations := map[string]any{}
	a := t.Annotations
	if a.Title != "" {
		annotations["title"] = a.Title
	}
	setHint(annotations, "readOnlyHint", a.ReadOnlyHint)
	setHint(annotations, "destructiveHint", a.DestructiveHint)
	setHint(annotations, "idempotentHint", a.IdempotentHint)
	setHint(annotations, "openWorldHint", a.OpenWorldHint)
	if len(annotations) > 0 {
		tool.Annotations = annotations
	}

	return tool
}

func setHint(m map[string]any, key string, v *bool) {
	if v != nil {
		m[key] = *v
	}
}

// convertToolCallRespContent converts []mcp.Content to []map[string]any with proper error handling.
func convertToolCallRespContent(content []mcp.Content) ([]map[string]any, error) {
	if len(content) == 0 {
		return []map[string]any{}, nil
	}

	contentList := make([]map[string]any, 0, len(content))

	for i, item := range content {
		serialized, err := json.Marshal(item)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal content item %d: %w", i, err)
		}

		var contentMap map[string]any
		if err := json.Unmarshal(serialized, &contentMap); err != nil {
			return nil, fmt.Errorf("failed to unmarshal content item %d: %w", i, err)
		}

		contentList = append(contentList, contentMap)
	}

	return contentList, nil
}
