// Package main provides the entry point for the Teamcenter MCP server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	mcpserver "github.com/srgio-es/teamcenter-mcp-server-sub000/internal/server"
	"github.com/srgio-es/teamcenter-mcp-server-sub000/pkg/config"
	"github.com/srgio-es/teamcenter-mcp-server-sub000/pkg/health"
	"github.com/srgio-es/teamcenter-mcp-server-sub000/pkg/telemetry"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type serverOptions struct {
	configPath  string
	transport   string
	address     string
	showVersion bool
}

func parseFlags() serverOptions {
	opts := serverOptions{}
	flag.StringVar(&opts.configPath, "config", "", "Path to configuration file")
	flag.StringVar(&opts.transport, "transport", "", "Transport type: stdio, http (overrides config)")
	flag.StringVar(&opts.address, "address", "", "Listen address for the http transport (overrides config)")
	flag.BoolVar(&opts.showVersion, "version", false, "Show version and exit")
	flag.Parse()
	return opts
}

func setupSignalHandler() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()
	return ctx, cancel
}

// setupLogging installs the slog default logger. Logs always go to stderr:
// on the stdio transport, stdout belongs to the MCP protocol stream.
func setupLogging(cfg config.LogConfig) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

func run() error {
	opts := parseFlags()

	if opts.showVersion {
		fmt.Printf("teamcenter-mcp-server version %s\n", mcpserver.Version)
		return nil
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	if opts.transport != "" {
		cfg.Server.Transport = opts.transport
	}
	if opts.address != "" {
		cfg.Server.Address = opts.address
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	setupLogging(cfg.Log)

	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitWithConfig(cfg.Server.Name, mcpserver.Version, telemetry.Config{
			OTLPEndpoint: cfg.Telemetry.Endpoint,
		})
		if err != nil {
			return fmt.Errorf("initializing telemetry: %w", err)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(ctx); err != nil {
				slog.Warn("telemetry shutdown", "error", err)
			}
		}()
	}

	mcpServer, toolkit, err := mcpserver.New(cfg)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	ctx, cancel := setupSignalHandler()
	defer cancel()

	slog.Info("starting teamcenter-mcp-server",
		"version", mcpserver.Version,
		"transport", cfg.Server.Transport,
		"mock", cfg.SOA.Mock,
		"tools", len(toolkit.Tools()))

	return startServer(ctx, mcpServer, cfg)
}

func startServer(ctx context.Context, mcpServer *mcp.Server, cfg *config.Config) error {
	switch cfg.Server.Transport {
	case "stdio":
		return mcpServer.Run(ctx, &mcp.StdioTransport{})
	case "http":
		return serveHTTP(ctx, mcpServer, cfg)
	default:
		return fmt.Errorf("unknown transport: %s", cfg.Server.Transport)
	}
}

func serveHTTP(ctx context.Context, mcpServer *mcp.Server, cfg *config.Config) error {
	backend := "soa"
	if cfg.SOA.Mock {
		backend = "mock"
	}
	checker := health.NewChecker(backend)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", checker.LivenessHandler())
	mux.HandleFunc("/readyz", checker.ReadinessHandler())
	mux.Handle("/", mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return mcpServer }, nil))

	httpServer := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		checker.SetReady()
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		checker.SetDraining()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	}
}
