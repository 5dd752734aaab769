package tool

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mcpjungle/obsidian-mcp/pkg/types"
)

// Names of the tools exposed to agents.
const (
	ListFilesInVault     = "obsidian_list_files_in_vault"
	ListFilesInDir       = "obsidian_list_files_in_dir"
	GetFileContents      = "obsidian_get_file_contents"
	BatchGetFileContents = "obsidian_batch_get_file_contents"
	SimpleSearch         = "obsidian_simple_search"
	ComplexSearch        = "obsidian_complex_search"
	AppendContent        = "obsidian_append_content"
	PatchContent         = "obsidian_patch_content"
)

const patchContentDescription = `Insert or modify content at a specific location in an existing note. Use this tool when you need to add or modify content under a specific heading, at a block reference, or in frontmatter fields.

PARAMETERS:
- filepath: The relative path to the file within the vault (e.g., "📔 Periodic Notes/📔 Daily/2025-03-20.md")
- operation: Choose "append" (add after target), "prepend" (add before target), or "replace" (replace target)
- target_type: Choose "heading", "block", or "frontmatter"
- target: Specify what to target (see detailed instructions below)
- content: The content you want to add or replace

HEADING TARGETS - IMPORTANT RULES:
1. For heading targets, use the FULL PATH from the top-level heading (H1) to your target heading
2. Separate heading levels with "::" (e.g., "2025-03-20::Notes" or "Project Ideas::Development::Web Apps")
3. Use the EXACT heading text without any hash symbols (#)
4. Example of a typical hierarchy:
   # Main Title (H1)
     ## Section (H2)
       ### Subsection (H3)
   To target the Subsection, use: "Main Title::Section::Subsection"
5. Common errors:
   - Skipping a heading level (like going H1→H3 without including H2)
   - Using only the immediate parent heading without the full path
   - Using incorrect heading text (case, spacing, or special characters matter)

BLOCK REFERENCE TARGETS:
- Use the block ID without the "^" symbol (e.g., use "2d9b4a" not "^2d9b4a")

FRONTMATTER TARGETS:
- Use the exact field name in the YAML frontmatter (e.g., "tags" or "status")

COMMON ERRORS:
- "invalid-target": Double-check that your heading path is complete, starting from H1
- "content-already-preexists-in-target": The exact content already exists at the target
- If you get errors, try getting the file contents first to verify the exact heading text and structure

EXAMPLES:

Example 1: Add content under a Notes heading in a daily note
obsidian_patch_content(
filepath: "📔 Periodic Notes/📔 Daily/2025-03-20.md",
operation: "append",
target_type: "heading",
target: "2025-03-20::Notes",
content: "Met with the design team\n\n"
)

Example 2: Add content under a nested heading
obsidian_patch_content(
filepath: "Projects/Development.md",
operation: "prepend",
target_type: "heading",
target: "Development::Web Projects::Current",
content: "- New project idea\n"
)

Example 3: Update a frontmatter field
obsidian_patch_content(
filepath: "Projects/ProjectX.md",
operation: "replace",
target_type: "frontmatter",
target: "status",
content: "In Progress"
)`

const complexSearchDescription = `Advanced search using JsonLogic query expressions.
Use this for complex search criteria like finding files with specific tags, paths, or content patterns.

Example queries:
1. Find all markdown files: {"glob": ["*.md", {"var": "path"}]}
2. Find files with specific tag: {"in": ["#project", {"var": "tags"}]}
3. Find files in a folder: {"startsWith": [{"var": "path"}, "Projects/"]}

Only use this if the simple search tool isn't sufficient for your needs.`

// integer narrows a number property to JSON Schema "integer".
func integer() mcp.PropertyOption {
	return func(schema map[string]any) {
		schema["type"] = "integer"
	}
}

// pathFormat marks a string property as a vault-relative path.
func pathFormat() mcp.PropertyOption {
	return func(schema map[string]any) {
		schema["format"] = "path"
	}
}

// readOnlyTool annotates a tool that only reads from the vault.
func readOnlyTool() mcp.ToolOption {
	return func(t *mcp.Tool) {
		mcp.WithReadOnlyHintAnnotation(true)(t)
		mcp.WithDestructiveHintAnnotation(false)(t)
		mcp.WithIdempotentHintAnnotation(true)(t)
		mcp.WithOpenWorldHintAnnotation(false)(t)
	}
}

// writeTool annotates a tool that modifies notes. Writes are never idempotent: repeating an
// append appends twice.
func writeTool(destructive bool) mcp.ToolOption {
	return func(t *mcp.Tool) {
		mcp.WithReadOnlyHintAnnotation(false)(t)
		mcp.WithDestructiveHintAnnotation(destructive)(t)
		mcp.WithIdempotentHintAnnotation(false)(t)
		mcp.WithOpenWorldHintAnnotation(false)(t)
	}
}

func enumValues[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

// catalog returns the descriptors of every tool, in registration order.
func catalog() []mcp.Tool {
	return []mcp.Tool{
		mcp.NewTool(ListFilesInVault,
			mcp.WithDescription(
				"Lists all files and directories in the root directory of your Obsidian vault. "+
					"Use this to discover the top-level structure of your vault.",
			),
			readOnlyTool(),
		),
		mcp.NewTool(ListFilesInDir,
			mcp.WithDescription(
				"Lists all files and directories within a specific folder in your Obsidian vault. "+
					"Use this to browse the contents of a particular directory.",
			),
			mcp.WithString("dirpath",
				mcp.Required(),
				mcp.Description(
					"Path to the directory to list (relative to your vault root, e.g., 'Daily Notes' or 'Projects'). "+
						"Note that empty directories will not be returned.",
				),
			),
			readOnlyTool(),
		),
		mcp.NewTool(GetFileContents,
			mcp.WithDescription(
				"Retrieve the complete content of a single file from your vault. "+
					"Use this when you need to read an entire note.",
			),
			mcp.WithString("filepath",
				mcp.Required(),
				mcp.Description(
					"Path to the file to read (relative to your vault root, e.g., 'Daily Notes/2023-01-01.md')",
				),
				pathFormat(),
			),
			readOnlyTool(),
		),
		mcp.NewTool(BatchGetFileContents,
			mcp.WithDescription(
				"Retrieve the contents of multiple files in one operation. "+
					"This is more efficient than making separate calls when you need content from multiple files. "+
					"Each file's content is returned with a header indicating the filename and separated by dividers.",
			),
			mcp.WithArray("filepaths",
				mcp.Required(),
				mcp.Description(
					"List of file paths to read (e.g., ['Daily Notes/2023-01-01.md', 'Projects/Project X.md'])",
				),
				mcp.WithStringItems(
					mcp.Description("Path to a file (relative to your vault root)"),
					pathFormat(),
				),
			),
			readOnlyTool(),
		),
		mcp.NewTool(SimpleSearch,
			mcp.WithDescription(
				"Simple text search across all files in the vault. Returns matches with surrounding context.\n"+
					"Use this tool when you need to find specific text or phrases in your notes. "+
					"Results include filenames with matches and context around each match.",
			),
			mcp.WithString("query",
				mcp.Required(),
				mcp.Description("Text to search for in the vault. Can be a simple word, phrase, or pattern."),
			),
			mcp.WithNumber("context_length",
				integer(),
				mcp.Description(
					"How many characters of context to return around each matching string (default: 100)",
				),
				mcp.DefaultNumber(DefaultContextLength),
			),
			readOnlyTool(),
		),
		mcp.NewTool(ComplexSearch,
			mcp.WithDescription(complexSearchDescription),
			mcp.WithObject("query",
				mcp.Required(),
				mcp.Description("JsonLogic query object defining search criteria."),
			),
			readOnlyTool(),
		),
		mcp.NewTool(AppendContent,
			mcp.WithDescription(
				"Append content to the end of a new or existing file in the vault. "+
					"This adds content to the very end of the file. "+
					"If you need to add content under a specific heading, use the obsidian_patch_content tool instead.",
			),
			mcp.WithString("filepath",
				mcp.Required(),
				mcp.Description("Path to the file (relative to vault root)"),
				pathFormat(),
			),
			mcp.WithString("content",
				mcp.Required(),
				mcp.Description("Content to append to the end of the file"),
			),
			writeTool(false),
		),
		mcp.NewTool(PatchContent,
			mcp.WithDescription(patchContentDescription),
			mcp.WithString("filepath",
				mcp.Required(),
				mcp.Description("Path to the file (relative to vault root)"),
				pathFormat(),
			),
			mcp.WithString("operation",
				mcp.Required(),
				mcp.Description(
					"Operation to perform: 'append' (add after target), 'prepend' (add before target), "+
						"or 'replace' (replace target)",
				),
				mcp.Enum(enumValues(types.PatchOperations)...),
			),
			mcp.WithString("target_type",
				mcp.Required(),
				mcp.Description(
					"Type of target: 'heading' (a section heading like '## Title'), 'block' (a block reference), "+
						"or 'frontmatter' (YAML frontmatter field)",
				),
				mcp.Enum(enumValues(types.TargetTypes)...),
			),
			mcp.WithString("target",
				mcp.Required(),
				mcp.Description(
					"Target identifier: for headings, the full heading path from H1 separated by '::' "+
						"(e.g., 'Project Ideas::Development'); for blocks, the block ID; "+
						"for frontmatter, the field name (e.g., 'tags')",
				),
			),
			mcp.WithString("content",
				mcp.Required(),
				mcp.Description("Content to insert or replace at the target location"),
			),
			writeTool(true),
		),
	}
}
