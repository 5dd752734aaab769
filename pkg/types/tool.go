package types

// ToolInputSchema defines the schema for the input parameters of a tool
type ToolInputSchema struct {
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties,omitempty"`
	Required   []string       `json:"required,omitempty"`
}

// Tool describes one entry of the tool catalog exposed by obsidian-mcp.
type Tool struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema ToolInputSchema `json:"input_schema"`
	Annotations map[string]any  `json:"annotations,omitempty"`
}

// ToolInvokeInput is the request body for invoking a tool through the HTTP API.
type ToolInvokeInput struct {
	Name  string         `json:"name"`
	Input map[string]any `json:"input"`
}

// ToolInvokeResult represents the result of a Tool call.
// It is designed to be passed down to the end user.
type ToolInvokeResult struct {
	IsError bool             `json:"isError,omitempty"`
	Content []map[string]any `json:"content"`
}

// PromptRenderInput is the request body for rendering a prompt through the HTTP API.
type PromptRenderInput struct {
	Name      string            `json:"name"`
	Arguments map[string]string `json:"arguments"`
}

// PromptRenderResult carries the text produced by a prompt template.
type PromptRenderResult struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Text        string `json:"text"`
}
