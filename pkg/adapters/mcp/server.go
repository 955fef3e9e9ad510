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

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aretw0/keepaway"
	"github.com/aretw0/keepaway/pkg/domain"
	"github.com/aretw0/keepaway/pkg/registry"
)

// Solver defines the interface required by the MCP server.
type Solver interface {
	Parse(input []byte) ([]domain.Definition, error)
	Solve(ctx context.Context, input []byte, mode domain.Mode) (domain.Result, error)
}

// ValidateResponse describes a parsed puzzle without running it.
type ValidateResponse struct {
	Agents  int      `json:"agents" jsonschema_description:"Number of agents defined"`
	Names   []string `json:"names" jsonschema_description:"Agent names in id order"`
	Modulus int64    `json:"modulus" jsonschema_description:"Product of all divisors"`
	Items   int      `json:"items" jsonschema_description:"Total number of starting items"`
}

// Server wraps a keepaway Solver and exposes it as an MCP Server.
type Server struct {
	solver    Solver
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(solver Solver) *Server {
	s := &Server{
		solver:    solver,
		mcpServer: server.NewMCPServer("keepaway-mcp", strings.TrimSpace(keepaway.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	// TOOL: simulate
	simulateTool := mcp.NewTool("simulate",
		mcp.WithDescription("Run the keep-away simulation on puzzle text and return the answer with per-agent inspection counts."),
		mcp.WithString("input", mcp.Required(), mcp.Description("Puzzle text: one 'Monkey N:' block per agent")),
		mcp.WithString("mode", mcp.Description("bounded (20 rounds, dampener 3) or unbounded (10000 rounds, dampener 1). Default: bounded")),
		mcp.WithOutputSchema[domain.Result](),
	)
	s.mcpServer.AddTool(simulateTool, mcp.NewStructuredToolHandler(s.handleSimulate))

	// TOOL: validate
	validateTool := mcp.NewTool("validate",
		mcp.WithDescription("Parse and validate puzzle text without running it."),
		mcp.WithString("input", mcp.Required(), mcp.Description("Puzzle text")),
		mcp.WithOutputSchema[ValidateResponse](),
	)
	s.mcpServer.AddTool(validateTool, mcp.NewStructuredToolHandler(s.handleValidate))
}

func (s *Server) handleSimulate(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (domain.Result, error) {
	input, _ := args["input"].(string)
	if input == "" {
		return domain.Result{}, errors.New("input is required")
	}
	modeArg, _ := args["mode"].(string)
	mode, err := domain.ParseMode(modeArg)
	if err != nil {
		return domain.Result{}, err
	}

	res, err := s.solver.Solve(ctx, []byte(input), mode)
	if err != nil {
		slog.Warn("MCP Simulate failed", "mode", mode, "error", err)
		return domain.Result{}, fmt.Errorf("simulate failed: %w", err)
	}
	return res, nil
}

func (s *Server) handleValidate(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ValidateResponse, error) {
	input, _ := args["input"].(string)
	defs, err := s.solver.Parse([]byte(input))
	if err != nil {
		return ValidateResponse{}, fmt.Errorf("invalid input: %w", err)
	}
	reg, err := registry.New(defs)
	if err != nil {
		return ValidateResponse{}, fmt.Errorf("invalid input: %w", err)
	}

	names := make([]string, len(defs))
	for i, d := range defs {
		names[i] = d.Name
	}
	return ValidateResponse{
		Agents:  reg.Len(),
		Names:   names,
		Modulus: reg.GlobalModulus(),
		Items:   reg.TotalItems(),
	}, nil
}

// ModeInfo describes one call shape.
type ModeInfo struct {
	Rounds   int   `json:"rounds"`
	Dampener int64 `json:"dampener"`
}

func (s *Server) registerResources() {
	// EXPOSE: keepaway://modes
	s.mcpServer.AddResource(mcp.NewResource("keepaway://modes", "Simulation modes",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(Modes())
		if err != nil {
			return nil, err
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "keepaway://modes",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}

// Modes lists the supported call shapes by name.
func Modes() map[domain.Mode]ModeInfo {
	out := make(map[domain.Mode]ModeInfo, 2)
	for _, m := range []domain.Mode{domain.ModeBounded, domain.ModeUnbounded} {
		rounds, dampener := m.Params()
		out[m] = ModeInfo{Rounds: rounds, Dampener: dampener}
	}
	return out
}
