package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/excelauto"
	"github.com/aretw0/excelauto/internal/logging"
	"github.com/mark3labs/mcp-go/server"
)

// Tool names, kept stable for existing clients.
const (
	ToolOpenWorkbook   = "open_excel_and_list_sheets"
	ToolGetRange       = "get_sheet_range_content"
	ToolSetRange       = "set_sheet_range_content"
	ToolCreateWorkbook = "create_xlsx_file_by_absolute_path"
	ToolSetCells       = "set_cells_by_array"
)

// DefaultSession is used when the transport carries no client session.
const DefaultSession = "default"

// Messages resolves user-facing text by key.
type Messages interface {
	T(key string, args ...any) string
}

// Server wraps the workbook Service and exposes it as an MCP Server.
type Server struct {
	svc       *excelauto.Service
	msgs      Messages
	logger    *slog.Logger
	mcpServer *server.MCPServer
	handlers  map[string]server.ToolHandlerFunc
}

// Option configures the Server.
type Option func(*Server)

// WithMessages sets the catalog used for tool descriptions and results.
func WithMessages(m Messages) Option {
	return func(s *Server) {
		s.msgs = m
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(svc *excelauto.Service, opts ...Option) *Server {
	s := &Server{
		svc:      svc,
		msgs:     keyMessages{},
		logger:   logging.NewNop(),
		handlers: make(map[string]server.ToolHandlerFunc),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.mcpServer = server.NewMCPServer("excelauto", excelauto.Version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
	s.registerTools()
	return s
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the SSE transport on port until ctx is canceled.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("shutdown signal received, stopping MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With, Mcp-Session-Id")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// sessionID identifies the calling client so each keeps its own workbook.
func sessionID(ctx context.Context) string {
	if cs := server.ClientSessionFromContext(ctx); cs != nil && cs.SessionID() != "" {
		return cs.SessionID()
	}
	return DefaultSession
}

// keyMessages echoes keys; used when no catalog is configured.
type keyMessages struct{}

func (keyMessages) T(key string, args ...any) string {
	if len(args) == 0 {
		return key
	}
	return fmt.Sprint(append([]any{key + ":"}, args...)...)
}
