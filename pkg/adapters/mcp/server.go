package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/tweak"
	"github.com/aretw0/tweak/internal/logging"
	"github.com/aretw0/tweak/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// WindowsURI is the resource listing every window of the current frame.
const WindowsURI = "tweak://windows"

// Host defines the debug-UI host the MCP server drives.
type Host interface {
	Frame() domain.Frame
	Drag(title, label string, value float64) error
}

// WindowsResponse is the structured result of list_windows and get_window.
type WindowsResponse struct {
	Seq     uint64          `json:"seq" jsonschema_description:"Sequence number of the last completed frame"`
	Windows []domain.Window `json:"windows" jsonschema_description:"Windows with their labelled values"`
}

// DragArgs are the arguments of drag_value.
type DragArgs struct {
	Title string  `json:"title"`
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// DragResponse is the structured result of drag_value.
type DragResponse struct {
	Queued bool   `json:"queued" jsonschema_description:"True when the edit will be applied on the next frame"`
	Title  string `json:"title"`
	Label  string `json:"label"`
}

// WindowArgs are the arguments of get_window.
type WindowArgs struct {
	Title string `json:"title"`
}

// Server exposes a Host as an MCP server so agents can read and tweak values.
type Server struct {
	host      Host
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger configures a logger for the Server.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(host Host, opts ...Option) *Server {
	s := &Server{
		host:      host,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("tweak-mcp", strings.TrimSpace(tweak.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
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

// ServeSSE starts the server on the given port using SSE and shuts it down
// when ctx is cancelled.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("MCP Server shutting down")
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
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: list_windows
	listTool := mcp.NewTool("list_windows",
		mcp.WithDescription("List every debug window with its labelled numeric values, as of the last frame."),
		mcp.WithOutputSchema[WindowsResponse](),
	)
	s.mcpServer.AddTool(listTool, mcp.NewStructuredToolHandler(s.handleListWindows))

	// TOOL: get_window
	getTool := mcp.NewTool("get_window",
		mcp.WithDescription("Get one debug window by title."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Window title")),
		mcp.WithOutputSchema[WindowsResponse](),
	)
	s.mcpServer.AddTool(getTool, mcp.NewStructuredToolHandler(s.handleGetWindow))

	// TOOL: drag_value
	dragTool := mcp.NewTool("drag_value",
		mcp.WithDescription("Set a value as if its drag control was moved. The edit is applied the next time the window renders."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Window title")),
		mcp.WithString("label", mcp.Required(), mcp.Description("Label of the value inside the window")),
		mcp.WithNumber("value", mcp.Required(), mcp.Description("New value; integers are rounded and clamped to their type")),
		mcp.WithOutputSchema[DragResponse](),
	)
	s.mcpServer.AddTool(dragTool, mcp.NewStructuredToolHandler(s.handleDrag))
}

func (s *Server) handleListWindows(ctx context.Context, request mcp.CallToolRequest, _ map[string]any) (WindowsResponse, error) {
	frame := s.host.Frame()
	return WindowsResponse{Seq: frame.Seq, Windows: frame.Windows}, nil
}

func (s *Server) handleGetWindow(ctx context.Context, request mcp.CallToolRequest, args WindowArgs) (WindowsResponse, error) {
	frame := s.host.Frame()
	w, ok := frame.Window(args.Title)
	if !ok {
		return WindowsResponse{}, fmt.Errorf("%w: %q", domain.ErrWindowNotFound, args.Title)
	}
	return WindowsResponse{Seq: frame.Seq, Windows: []domain.Window{w}}, nil
}

func (s *Server) handleDrag(ctx context.Context, request mcp.CallToolRequest, args DragArgs) (DragResponse, error) {
	if args.Title == "" || args.Label == "" {
		return DragResponse{}, errors.New("title and label are required")
	}
	if err := s.host.Drag(args.Title, args.Label, args.Value); err != nil {
		s.logger.Warn("MCP Drag rejected", "window", args.Title, "label", args.Label, "err", err)
		return DragResponse{}, fmt.Errorf("drag failed: %w", err)
	}
	s.logger.Debug("MCP Drag queued", "window", args.Title, "label", args.Label, "value", args.Value)
	return DragResponse{Queued: true, Title: args.Title, Label: args.Label}, nil
}

func (s *Server) registerResources() {
	// EXPOSE: tweak://windows
	s.mcpServer.AddResource(mcp.NewResource(WindowsURI, "Debug Windows",
		mcp.WithResourceDescription("Every debug window of the last frame"),
		mcp.WithMIMEType("application/json"),
	), s.readWindows)
}

func (s *Server) readWindows(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	jsonBytes, err := json.Marshal(s.host.Frame())
	if err != nil {
		return nil, fmt.Errorf("failed to encode frame: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      WindowsURI,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}
