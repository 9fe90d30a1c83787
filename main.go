// Wikipedia MCP Server - A Model Context Protocol server for Wikipedia
// Provides tools for reading articles in byte-range chunks, summaries,
// related articles, random articles and full-text search.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/olgasafonova/wikipedia-mcp-server/internal/wikipedia"
	"github.com/olgasafonova/wikipedia-mcp-server/tools"
	"github.com/olgasafonova/wikipedia-mcp-server/tracing"
)

const (
	ServerName    = "wikipedia-mcp-server"
	ServerVersion = "1.0.0"
)

const instructions = `Wikipedia MCP Server provides tools for reading Wikipedia.

Available tools:
- get-article-content: Read an article's HTML in byte-range chunks (start, length)
- get-article-summary: Get the lead summary of an article
- get-article-segments: Get the segmented representation of an article
- find-related-articles: List articles related to a given one
- random-article: Get the summary of a random article
- search-wikipedia: Full-text search

Long articles are paginated: when a chunk ends with "request starting from N",
call get-article-content again with start=N.

Resources:
- wikipedia://article/{title}/summary`

// CLI defines the command-line flags. Every flag can also be set from the
// environment.
type CLI struct {
	RESTURL   string           `name:"rest-url" env:"WIKIPEDIA_MCP_REST_URL" default:"https://en.wikipedia.org/api/rest_v1" help:"Wikipedia REST API base URL."`
	ActionURL string           `name:"action-url" env:"WIKIPEDIA_MCP_ACTION_URL" default:"https://en.wikipedia.org/w/api.php" help:"MediaWiki Action API endpoint used for search."`
	UserAgent string           `name:"user-agent" env:"WIKIPEDIA_MCP_USER_AGENT" help:"User-Agent sent to Wikipedia."`
	Timeout   time.Duration    `name:"timeout" env:"WIKIPEDIA_MCP_TIMEOUT" default:"30s" help:"HTTP client timeout for Wikipedia requests."`
	HTTP      string           `name:"http" env:"WIKIPEDIA_MCP_HTTP" placeholder:"ADDR" help:"Serve streamable HTTP on ADDR (e.g. :8080) instead of stdio."`
	LogLevel  string           `name:"log-level" env:"WIKIPEDIA_MCP_LOG_LEVEL" default:"info" enum:"debug,info,warn,error" help:"Log level (debug, info, warn, error)."`
	Version   kong.VersionFlag `name:"version" help:"Print version and exit."`
}

// recoverPanic logs a panic instead of crashing the process
func recoverPanic(logger *slog.Logger, operation string) {
	if r := recover(); r != nil {
		logger.Error("Panic recovered",
			"operation", operation,
			"panic", r,
			"stack", string(debug.Stack()))
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()
	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Transport is used for stdio mode; nil means the process's stdin/stdout.
	Transport mcp.Transport
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// parseCLI parses args into a CLI. exited reports that kong printed help or
// the version and the program should stop.
func parseCLI(args []string, stdout, stderr io.Writer) (cli *CLI, exited bool, err error) {
	cli = &CLI{}
	parser, err := kong.New(cli,
		kong.Name(ServerName),
		kong.Description("A Model Context Protocol server for Wikipedia."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) { exited = true }),
		kong.Vars{"version": ServerVersion},
	)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create parser: %w", err)
	}

	if _, err := parser.Parse(args); err != nil {
		if exited {
			return cli, true, nil
		}
		return nil, false, err
	}
	return cli, exited, nil
}

// Run parses args and serves MCP until ctx is canceled or the client
// disconnects.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli, exited, err := parseCLI(args, stdout, stderr)
	if err != nil {
		return err
	}
	if exited {
		return nil
	}

	// Configure logging to stderr (stdout is used for MCP protocol)
	logger := newLogger(stderr, cli.LogLevel)
	defer recoverPanic(logger, "main")

	traceCfg := tracing.DefaultConfig(ServerVersion)
	traceCfg.Writer = stderr
	shutdownTracing, err := tracing.Setup(ctx, traceCfg)
	if err != nil {
		return fmt.Errorf("failed to set up tracing: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Warn("Tracing shutdown failed", "error", err)
		}
	}()

	client := wikipedia.NewClient(wikipedia.Config{
		RESTURL:   cli.RESTURL,
		ActionURL: cli.ActionURL,
	},
		wikipedia.WithLogger(logger),
		wikipedia.WithUserAgent(cli.UserAgent),
		wikipedia.WithTimeout(cli.Timeout),
	)
	defer client.Close()

	server := newServer(client, logger)

	if cli.HTTP != "" {
		logger.Info("Starting Wikipedia MCP Server",
			"name", ServerName,
			"version", ServerVersion,
			"transport", "http",
			"addr", cli.HTTP,
			"rest_url", client.RESTURL(),
		)
		return serveHTTP(ctx, cli.HTTP, newHTTPHandler(server, logger), logger)
	}

	logger.Info("Starting Wikipedia MCP Server",
		"name", ServerName,
		"version", ServerVersion,
		"transport", "stdio",
		"rest_url", client.RESTURL(),
	)
	transport := m.Transport
	if transport == nil {
		transport = &mcp.StdioTransport{}
	}
	if err := server.Run(ctx, transport); err != nil && ctx.Err() == nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// newServer builds the MCP server with all tools and resources registered.
func newServer(client *wikipedia.Client, logger *slog.Logger) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    ServerName,
		Version: ServerVersion,
	}, &mcp.ServerOptions{
		Logger:       logger,
		Instructions: instructions,
	})
	tools.NewHandlerRegistry(client, logger).RegisterAll(server)
	return server
}

// newLogger returns a text logger on w at the named level.
func newLogger(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: parseLevel(level),
	}))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
