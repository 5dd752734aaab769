package cmd

import (
	"strings"

	"github.com/mcpjungle/obsidian-mcp/internal/service/mcp"
	"github.com/mcpjungle/obsidian-mcp/internal/service/tool"
	"github.com/spf13/cobra"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the MCP tools served by obsidian-mcp",
	Long:  "Prints the name and a one-line description of every tool. The vault is not contacted.",
	Args:  cobra.NoArgs,
	RunE:  runListTools,
	Annotations: map[string]string{
		"group": string(subCommandGroupBasic),
		"order": "2",
	},
}

func init() {
	rootCmd.AddCommand(toolsCmd)
}

// newCatalogService returns an MCP service backed by no vault.
// It can describe the catalog but must not be used to call tools.
func newCatalogService() (*mcp.MCPService, error) {
	return mcp.NewMCPService(&mcp.ServiceConfig{
		McpServer: mcp.NewServer("catalog"),
		Tools:     tool.NewToolService(nil),
	})
}

func runListTools(cmd *cobra.Command, args []string) error {
	svc, err := newCatalogService()
	if err != nil {
		return err
	}

	for i, t := range svc.ListTools() {
		summary, _, _ := strings.Cut(t.Description, "\n")
		cmd.Printf("%d. %s\n", i+1, t.Name)
		cmd.Printf("   %s\n", strings.TrimSpace(summary))
	}
	cmd.Println()
	cmd.Println("Run 'obsidian-mcp usage <tool>' for details on a tool.")
	return nil
}
