// Package cmd implements the obsidian-mcp command line.
package cmd

import (
	"sort"
	"strconv"

	"github.com/spf13/cobra"
)

type subCommandGroup string

const (
	subCommandGroupBasic    subCommandGroup = "basic"
	subCommandGroupAdvanced subCommandGroup = "advanced"
)

var rootCmdConfigFile string

var rootCmd = &cobra.Command{
	Use:   "obsidian-mcp",
	Short: "MCP server for an Obsidian vault",
	Long: "obsidian-mcp exposes an Obsidian vault to AI agents as MCP tools.\n" +
		"It talks to the vault through the Obsidian Local REST API plugin, which must be\n" +
		"installed and enabled. Set OBSIDIAN_API_KEY to the key shown in the plugin settings.",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&rootCmdConfigFile,
		"config",
		"",
		"path to a YAML configuration file (environment variables take precedence over it)",
	)

	rootCmd.AddGroup(
		&cobra.Group{ID: string(subCommandGroupBasic), Title: "Basic Commands:"},
		&cobra.Group{ID: string(subCommandGroupAdvanced), Title: "Advanced Commands:"},
	)
	cobra.EnableCommandSorting = false
}

// Execute runs the root command.
func Execute() error {
	organizeSubCommands(rootCmd)
	return rootCmd.Execute()
}

// organizeSubCommands assigns each subcommand to the help group named in its "group"
// annotation and orders subcommands by their "order" annotation.
func organizeSubCommands(root *cobra.Command) {
	cmds := root.Commands()
	for _, c := range cmds {
		if g, ok := c.Annotations["group"]; ok {
			c.GroupID = g
		}
	}

	sort.SliceStable(cmds, func(i, j int) bool {
		return commandOrder(cmds[i]) < commandOrder(cmds[j])
	})
	root.ResetCommands()
	root.AddCommand(cmds...)
}

func commandOrder(c *cobra.Command) int {
	n, err := strconv.Atoi(c.Annotations["order"])
	if err != nil {
		return 1 << 20
	}
	return n
}
