package main

import (
	"os"

	"github.com/mcpjungle/obsidian-mcp/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
