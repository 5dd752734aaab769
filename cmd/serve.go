package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mcpjungle/obsidian-mcp/client"
	"github.com/mcpjungle/obsidian-mcp/internal/api"
	"github.com/mcpjungle/obsidian-mcp/internal/config"
	"github.com/mcpjungle/obsidian-mcp/internal/logging"
	"github.com/mcpjungle/obsidian-mcp/internal/service/mcp"
	"github.com/mcpjungle/obsidian-mcp/internal/service/tool"
	"github.com/mcpjungle/obsidian-mcp/internal/telemetry"
	"github.com/mcpjungle/obsidian-mcp/pkg/types"
	"github.com/mcpjungle/obsidian-mcp/pkg/version"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const serviceName = "obsidian-mcp"

var (
	serveCmdTransport   string
	serveCmdBindPort    string
	serveCmdMetricsPort string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Obsidian MCP server",
	Long: "Starts the MCP server exposing the Obsidian vault tools.\n\n" +
		"By default the server speaks MCP over stdio, which is how desktop agents launch it.\n" +
		"With --transport http it serves streamable HTTP on /mcp along with a small REST API under /api/v0.\n\n" +
		"The vault is reached through the Local REST API plugin. Configure it with\n" +
		"OBSIDIAN_API_KEY (required), OBSIDIAN_HOST (default 127.0.0.1), OBSIDIAN_PORT (default 27124),\n" +
		"OBSIDIAN_PROTOCOL (default https) and OBSIDIAN_VERIFY_SSL (default false).\n" +
		"Values are also read from a .env file in the current directory.\n",
	RunE: runServe,
	Annotations: map[string]string{
		"group": string(subCommandGroupBasic),
		"order": "1",
	},
}

func init() {
	serveCmd.Flags().StringVar(
		&serveCmdTransport,
		"transport",
		"",
		fmt.Sprintf(
			"MCP transport, '%s' or '%s' (overrides env var %s)",
			types.TransportStdio, types.TransportHTTP, config.TransportEnvVar,
		),
	)
	serveCmd.Flags().StringVar(
		&serveCmdBindPort,
		"port",
		"",
		fmt.Sprintf("port to bind the HTTP server to in http mode (overrides env var %s)", config.BindPortEnvVar),
	)
	serveCmd.Flags().StringVar(
		&serveCmdMetricsPort,
		"metrics-port",
		"",
		fmt.Sprintf("port serving /metrics in stdio mode when telemetry is enabled (overrides env var %s)", config.MetricsPortEnvVar),
	)

	rootCmd.AddCommand(serveCmd)
}

// loadConfig reads the .env file and builds the configuration for commands that reach the vault.
func loadConfig(overrides config.Overrides) (*config.Config, error) {
	_ = godotenv.Load()

	conf, err := config.Load(afero.NewOsFs(), rootCmdConfigFile, overrides)
	if err != nil {
		return nil, err
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

// newMCPService wires the vault client, the tool dispatcher and the MCP server together.
func newMCPService(conf *config.Config, metrics telemetry.CustomMetrics, logger *zap.Logger) (*mcp.MCPService, error) {
	vault := client.New(conf.Vault)
	mcpService, err := mcp.NewMCPService(&mcp.ServiceConfig{
		McpServer: mcp.NewServer(version.GetVersion()),
		Tools:     tool.NewToolService(vault),
		Metrics:   metrics,
		Logger:    logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MCP service: %w", err)
	}
	return mcpService, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	conf, err := loadConfig(config.Overrides{
		Transport:   serveCmdTransport,
		BindPort:    serveCmdBindPort,
		MetricsPort: serveCmdMetricsPort,
	})
	if err != nil {
		return err
	}

	logger, err := logging.New(conf.LogLevel, conf.LogFormat)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	otelProviders, err := telemetry.Init(ctx, &telemetry.Config{
		ServiceName: serviceName,
		Enabled:     conf.TelemetryEnabled,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize Opentelemetry providers: %w", err)
	}
	defer func() {
		if err := otelProviders.Shutdown(context.Background()); err != nil {
			logger.Warn("failed to shutdown opentelemetry providers", zap.Error(err))
		}
	}()

	// The no-op implementation lets the rest of the code record metrics unconditionally.
	metrics := telemetry.NewNoopCustomMetrics()
	if otelProviders.IsEnabled() {
		metrics, err = telemetry.NewOtelCustomMetrics(otelProviders.Meter)
		if err != nil {
			return fmt.Errorf("failed to create MCP metrics: %w", err)
		}
	}

	mcpService, err := newMCPService(conf, metrics, logger)
	if err != nil {
		return err
	}

	logger.Info("starting obsidian-mcp",
		zap.String("version", version.GetVersion()),
		zap.String("transport", string(conf.Transport)),
		zap.String("vault", conf.Vault.BaseURL()),
	)

	switch conf.Transport {
	case types.TransportHTTP:
		err = serveHTTP(ctx, conf, mcpService, otelProviders, logger)
	default:
		err = serveStdio(ctx, conf, mcpService, otelProviders, logger)
	}

	if errors.Is(err, context.Canceled) {
		logger.Info("shutting down")
		return nil
	}
	return err
}

func serveHTTP(
	ctx context.Context,
	conf *config.Config,
	mcpService *mcp.MCPService,
	otelProviders *telemetry.Providers,
	logger *zap.Logger,
) error {
	s, err := api.NewServer(&api.ServerOptions{
		Port:          conf.BindPort,
		MCPServer:     mcpService.MCPServer(),
		MCPService:    mcpService,
		AccessToken:   conf.AccessToken,
		OtelProviders: otelProviders,
		Logger:        logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	return s.Start(ctx)
}

// serveStdio speaks MCP over stdin/stdout. Nothing else may write to stdout.
func serveStdio(
	ctx context.Context,
	conf *config.Config,
	mcpService *mcp.MCPService,
	otelProviders *telemetry.Providers,
	logger *zap.Logger,
) error {
	if conf.MetricsPort != "" && otelProviders.IsEnabled() {
		metricsSrv := newMetricsServer(conf.MetricsPort, otelProviders)
		go func() {
			logger.Info("metrics server listening", zap.String("addr", metricsSrv.Addr))
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server failed", zap.Error(err))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = metricsSrv.Shutdown(shutdownCtx)
		}()
	}

	stdioServer := server.NewStdioServer(mcpService.MCPServer())
	stdioServer.SetErrorLogger(zap.NewStdLog(logger))

	if err := stdioServer.Listen(ctx, os.Stdin, os.Stdout); err != nil {
		return fmt.Errorf("stdio transport failed: %w", err)
	}
	return nil
}

func newMetricsServer(port string, otelProviders *telemetry.Providers) *http.Server {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/metrics", gin.WrapH(otelProviders.MetricsHandler()))

	return &http.Server{
		Addr:              ":" + port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
}
