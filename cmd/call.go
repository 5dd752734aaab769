package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mcpjungle/obsidian-mcp/internal/config"
	"github.com/mcpjungle/obsidian-mcp/internal/logging"
	"github.com/mcpjungle/obsidian-mcp/internal/telemetry"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var callCmdInput string

var callCmd = &cobra.Command{
	Use:   "call <name>",
	Short: "Call a MCP tool against the vault",
	Long: "Runs a single tool against the vault and prints its text result.\n" +
		"Tool arguments are passed as a JSON object, eg-\n" +
		"    obsidian-mcp call obsidian_get_file_contents --input '{\"filepath\": \"Daily/2025-03-20.md\"}'",
	Args: cobra.ExactArgs(1),
	RunE: runCallTool,
	Annotations: map[string]string{
		"group": string(subCommandGroupAdvanced),
		"order": "4",
	},
}

func init() {
	callCmd.Flags().StringVar(
		&callCmdInput,
		"input",
		"{}",
		"tool arguments as a JSON object",
	)

	rootCmd.AddCommand(callCmd)
}

func runCallTool(cmd *cobra.Command, args []string) error {
	var input map[string]any
	if err := json.Unmarshal([]byte(callCmdInput), &input); err != nil {
		return fmt.Errorf("invalid input: %w", err)
	}

	conf, err := loadConfig(config.Overrides{})
	if err != nil {
		return err
	}

	logger, err := logging.New(conf.LogLevel, conf.LogFormat)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	svc, err := newMCPService(conf, telemetry.NewNoopCustomMetrics(), logger)
	if err != nil {
		return err
	}

	result, err := svc.InvokeTool(cmd.Context(), args[0], input)
	if err != nil {
		return fmt.Errorf("failed to call tool '%s': %w", args[0], err)
	}

	for _, c := range result.Content {
		if text, ok := c["text"].(string); ok {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), text)
		}
	}
	if result.IsError {
		logger.Debug("tool returned an error result", zap.String("tool", args[0]))
		return errors.New("tool call returned an error")
	}
	return nil
}
