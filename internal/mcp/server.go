package mcp

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ambia/UTAPWeLS/internal/logging"
	"github.com/ambia/UTAPWeLS/internal/ratelimit"
	"github.com/ambia/UTAPWeLS/internal/session"
)

// Server wraps the MCP SDK server around a modeling session.
type Server struct {
	server       *sdk.Server
	sess         *session.Session
	root         string
	toolLimiters ratelimit.ToolLimiters
}

// Config holds server configuration.
type Config struct {
	Name    string // Server name (e.g., "wels")
	Version string // Server version
	Root    string // Project root directory
}

// NewServer opens a session rooted at cfg.Root and registers the modeling
// tools and resources on a new MCP server.
func NewServer(cfg *Config) (*Server, error) {
	// Stdout carries the protocol, so session logs go to stderr.
	logger := logging.NewLogger("info", os.Stderr)
	sess, err := session.Open(cfg.Root, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open session: %w", err)
	}

	mcpServer := sdk.NewServer(&sdk.Implementation{
		Name:    cfg.Name,
		Version: cfg.Version,
	}, &sdk.ServerOptions{
		InitializedHandler: func(ctx context.Context, req *sdk.InitializedRequest) {
			// Client initialized, ready to serve
		},
	})

	s := &Server{
		server:       mcpServer,
		sess:         sess,
		root:         cfg.Root,
		toolLimiters: ratelimit.NewToolLimiters(),
	}

	if err := s.registerTools(); err != nil {
		sess.Close()
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}

	if err := s.registerResources(); err != nil {
		sess.Close()
		return nil, fmt.Errorf("failed to register resources: %w", err)
	}

	return s, nil
}

// Run starts the MCP server over stdio transport.
// This blocks until the client disconnects or the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	notifySignals(sigChan)
	defer signal.Stop(sigChan)

	go func() {
		<-sigChan
		cancel()
	}()

	err := s.server.Run(ctx, &sdk.StdioTransport{})

	// Flush open wells before the process exits.
	s.sess.Close()

	return err
}

// Close closes the server and flushes the session.
func (s *Server) Close() error {
	return s.sess.Close()
}
