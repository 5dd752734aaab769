package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ToolCallOutcome is the result of a single tool invocation as recorded in metrics.
type ToolCallOutcome string

const (
	ToolCallOutcomeSuccess ToolCallOutcome = "success"
	ToolCallOutcomeError   ToolCallOutcome = "error"
)

const (
	toolCallsMetric    = "obsidian_mcp.tool.calls"
	toolDurationMetric = "obsidian_mcp.tool.duration"
	promptRenderMetric = "obsidian_mcp.prompt.renders"
)

// CustomMetrics records the server's own metrics.
type CustomMetrics interface {
	// RecordToolCall records one tool invocation, its outcome and how long it took.
	RecordToolCall(ctx context.Context, toolName string, outcome ToolCallOutcome, elapsed time.Duration)
	// RecordPromptRender records one prompt render.
	RecordPromptRender(ctx context.Context, promptName string, outcome ToolCallOutcome)
}

type noopCustomMetrics struct{}

// NewNoopCustomMetrics returns a CustomMetrics that discards everything.
func NewNoopCustomMetrics() CustomMetrics {
	return noopCustomMetrics{}
}

func (noopCustomMetrics) RecordToolCall(context.Context, string, ToolCallOutcome, time.Duration) {}

func (noopCustomMetrics) RecordPromptRender(context.Context, string, ToolCallOutcome) {}

type otelCustomMetrics struct {
	toolCalls     metric.Int64Counter
	toolDuration  metric.Float64Histogram
	promptRenders metric.Int64Counter
}

// NewOtelCustomMetrics creates the metric instruments on the given meter.
func NewOtelCustomMetrics(meter metric.Meter) (CustomMetrics, error) {
	calls, err := meter.Int64Counter(toolCallsMetric,
		metric.WithDescription("Number of tool calls"),
	)
	if err != nil {
		return nil, err
	}

	duration, err := meter.Float64Histogram(toolDurationMetric,
		metric.WithDescription("Duration of tool calls in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	renders, err := meter.Int64Counter(promptRenderMetric,
		metric.WithDescription("Number of prompt renders"),
	)
	if err != nil {
		return nil, err
	}

	return &otelCustomMetrics{
		toolCalls:     calls,
		toolDuration:  duration,
		promptRenders: renders,
	}, nil
}

func (m *otelCustomMetrics) RecordToolCall(
	ctx context.Context, toolName string, outcome ToolCallOutcome, elapsed time.Duration,
) {
	attrs := metric.WithAttributes(
		attribute.String("tool_name", toolName),
		attribute.String("outcome", string(outcome)),
	)
	m.toolCalls.Add(ctx, 1, attrs)
	m.toolDuration.Record(ctx, elapsed.Seconds(), attrs)
}

func (m *otelCustomMetrics) RecordPromptRender(ctx context.Context, promptName string, outcome ToolCallOutcome) {
	m.promptRenders.Add(ctx, 1, metric.WithAttributes(
		attribute.String("prompt_name", promptName),
		attribute.String("outcome", string(outcome)),
	))
}
