package mcp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/server"

	"github.com/campusqa/campusqa/internal/assistant"
	"github.com/campusqa/campusqa/internal/config"
	"github.com/campusqa/campusqa/internal/corpus"
	"github.com/campusqa/campusqa/internal/embedder"
	"github.com/campusqa/campusqa/internal/generator"
)

const (
	// ServerName is the MCP server name
	ServerName = "campusqa"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
	// DefaultDBPath is the default location for the corpus database
	DefaultDBPath = "~/.campusqa"
)

// Server wraps the MCP server with application dependencies
type Server struct {
	mcp       *server.MCPServer
	store     corpus.Store
	assistant *assistant.Assistant
	embedder  embedder.Embedder
	generator generator.AnswerGenerator
}

// NewServer creates a new MCP server instance
func NewServer(ctx context.Context, dbPath string) (*Server, error) {
	// Expand home directory if needed
	if dbPath == "" || dbPath == DefaultDBPath {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".campusqa")
	}

	if err := os.MkdirAll(dbPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	dbFile := filepath.Join(dbPath, "campusqa.db")

	cfg, err := config.FromEnv()
	if err != nil {
		return nil, err
	}

	store, err := corpus.NewSQLiteStore(dbFile)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize corpus store: %w", err)
	}

	emb, err := embedder.NewFromEnv()
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to initialize embedder: %w", err)
	}

	gen, err := generator.NewFromEnv()
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to initialize generator: %w", err)
	}

	return newServer(ctx, cfg, store, emb, gen)
}

// newServer wires a server from explicit dependencies
func newServer(ctx context.Context, cfg config.Config, store corpus.Store, emb embedder.Embedder, gen generator.AnswerGenerator) (*Server, error) {
	asst, err := assistant.New(ctx, cfg, store, emb, gen, nil)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	mcpServer := server.NewMCPServer(
		ServerName,
		ServerVersion,
	)

	s := &Server{
		mcp:       mcpServer,
		store:     store,
		assistant: asst,
		embedder:  emb,
		generator: gen,
	}

	if err := s.registerTools(); err != nil {
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}

	return s, nil
}

// Serve starts the MCP server on stdio and blocks until shutdown
func (s *Server) Serve(ctx context.Context) error {
	defer s.close()
	return server.ServeStdio(s.mcp)
}

func (s *Server) close() {
	_ = s.embedder.Close()
	_ = s.generator.Close()
	_ = s.store.Close()
}

// registerTools registers all MCP tools
func (s *Server) registerTools() error {
	s.mcp.AddTool(searchKnowledgeTool(), s.handleSearchKnowledge)
	s.mcp.AddTool(askTool(), s.handleAsk)
	s.mcp.AddTool(getStatusTool(), s.handleGetStatus)
	return nil
}
