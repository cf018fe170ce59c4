package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"

	"github.com/Sriram-PR/storylens/pkg/models"
	"github.com/Sriram-PR/storylens/pkg/orchestrate"
)

const serverName = "storylens"

// Pipeline is the part of orchestrate.Pipeline the tools call.
type Pipeline interface {
	Run(ctx context.Context, articleURL string) (*models.StoryRecord, error)
	Extract(ctx context.Context, articleURL string) (*orchestrate.ExtractResult, error)
	Health() models.Health
}

// ServerConfig holds configuration for the MCP server
type ServerConfig struct {
	Pipeline  Pipeline
	Version   string
	Transport string // "stdio" or "sse"
	Port      int
	Logger    *logrus.Logger
}

// Server exposes the summarization pipeline as MCP tools
type Server struct {
	mcpServer *server.MCPServer
	sseServer *server.SSEServer
	cfg       *ServerConfig
	log       *logrus.Entry
}

// NewServer creates a new MCP server instance
func NewServer(cfg *ServerConfig) (*Server, error) {
	if cfg.Pipeline == nil {
		return nil, fmt.Errorf("pipeline is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	if cfg.Version == "" {
		cfg.Version = "dev"
	}

	mcpServer := server.NewMCPServer(
		serverName,
		cfg.Version,
		server.WithLogging(),
	)

	s := &Server{
		mcpServer: mcpServer,
		cfg:       cfg,
		log:       cfg.Logger.WithField("component", "mcp"),
	}

	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	summarizeTool := mcp.NewTool("summarize_article",
		mcp.WithDescription("Fetch a news article and return a structured story record: summary, highlights, fact sections, quotes and engagement score"),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("Absolute http(s) URL of the article"),
		),
	)
	s.mcpServer.AddTool(summarizeTool, s.handleSummarizeArticle)

	extractTool := mcp.NewTool("extract_article",
		mcp.WithDescription("Fetch an article and return its metadata and readable content as markdown, without calling the completion service"),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("Absolute http(s) URL of the article"),
		),
	)
	s.mcpServer.AddTool(extractTool, s.handleExtractArticle)

	healthTool := mcp.NewTool("health",
		mcp.WithDescription("Report whether the completion service is configured"),
	)
	s.mcpServer.AddTool(healthTool, s.handleHealth)

	s.log.Infof("Registered %d MCP tools", 3)
}

// Run starts the MCP server with the configured transport
func (s *Server) Run() error {
	switch s.cfg.Transport {
	case "stdio":
		s.log.Info("Starting MCP server with stdio transport")
		return server.ServeStdio(s.mcpServer)
	case "sse":
		addr := fmt.Sprintf(":%d", s.cfg.Port)
		s.log.Infof("Starting MCP server with SSE transport on %s", addr)
		s.sseServer = server.NewSSEServer(s.mcpServer)
		return s.sseServer.Start(addr)
	default:
		return fmt.Errorf("unknown transport: %s (supported: stdio, sse)", s.cfg.Transport)
	}
}

// Shutdown stops the SSE listener if one is running. stdio ends with its input stream.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("Shutting down MCP server...")
	if s.sseServer != nil {
		return s.sseServer.Shutdown(ctx)
	}
	return nil
}
