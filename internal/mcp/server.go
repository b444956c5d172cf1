// Package mcp exposes the rolling engine to MCP clients over stdio: the
// same operations as the WebSocket transport, as typed tools plus read-only
// resources for the catalog and the session ledger.
package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	i18ncatalog "github.com/anoikis-dev/rollwatch/internal/platform/i18n/catalog"
	"github.com/anoikis-dev/rollwatch/internal/rolling/engine"
)

const (
	serverName    = "rollwatch"
	serverVersion = "1.0.0"
)

// Server hosts the MCP surface over a shared engine.
type Server struct {
	mcpServer *mcp.Server
	engine    *engine.Engine
}

// NewServer builds an MCP server with every rolling tool and resource
// registered.
func NewServer(eng *engine.Engine) (*Server, error) {
	if eng == nil {
		return nil, errors.New("engine is required")
	}

	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    serverName,
		Version: serverVersion,
	}, nil)

	bundle := i18ncatalog.Default()
	registerTools(mcpServer, eng, bundle)
	registerResources(mcpServer, eng, bundle)

	return &Server{mcpServer: mcpServer, engine: eng}, nil
}

// Serve runs the MCP server on stdio until it stops or the context ends.
// A canceled context is a normal shutdown, not an error.
func (s *Server) Serve(ctx context.Context) error {
	return s.serveWithTransport(ctx, &mcp.StdioTransport{})
}

func (s *Server) serveWithTransport(ctx context.Context, transport mcp.Transport) error {
	if s == nil || s.mcpServer == nil {
		return errors.New("MCP server is not configured")
	}
	err := s.mcpServer.Run(ctx, transport)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}

// Run creates a server over the engine and serves it on stdio.
func Run(ctx context.Context, eng *engine.Engine) error {
	server, err := NewServer(eng)
	if err != nil {
		return err
	}
	return server.Serve(ctx)
}
