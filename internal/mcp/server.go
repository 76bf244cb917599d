// Package mcp provides an MCP (Model Context Protocol) server for
// protplot. This allows AI agents to parse feature files and render
// track figures through MCP tools instead of CLI commands.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/protplot/protplot/internal/config"
	"github.com/protplot/protplot/internal/gff"
	"github.com/protplot/protplot/internal/output"
	"github.com/protplot/protplot/internal/palette"
	"github.com/protplot/protplot/internal/track"
)

// Server wraps the MCP server with protplot-specific functionality.
// Parsed files and the color assignment live for the server's lifetime;
// nothing is persisted.
type Server struct {
	mcpServer    *server.MCPServer
	cfg          *config.Config
	files        map[string]*gff.Result
	colors       *palette.Assignment
	tools        map[string]bool
	lastActivity time.Time
	timeout      time.Duration
	mu           sync.RWMutex
}

// Config holds server configuration
type Config struct {
	Tools    []string       // Which tools to expose (empty = all)
	Timeout  time.Duration  // Inactivity timeout (0 = no timeout)
	Settings *config.Config // Loaded protplot config (nil = load from working directory)
}

// DefaultTools is the default set of tools to expose
var DefaultTools = []string{"protplot_parse", "protplot_render"}

// AllTools lists all available tools
var AllTools = []string{"protplot_parse", "protplot_render", "protplot_set_color"}

// New creates a new MCP server for protplot
func New(mcpCfg Config) (*Server, error) {
	cfg := mcpCfg.Settings
	if cfg == nil {
		loaded, err := config.Load(".")
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	policy, err := palette.ParsePolicy(cfg.Render.Palette)
	if err != nil {
		return nil, err
	}

	mcpServer := server.NewMCPServer(
		"protplot",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	s := &Server{
		mcpServer:    mcpServer,
		cfg:          cfg,
		files:        make(map[string]*gff.Result),
		colors:       palette.NewAssignment(policy),
		tools:        make(map[string]bool),
		lastActivity: time.Now(),
		timeout:      mcpCfg.Timeout,
	}

	toolsToRegister := mcpCfg.Tools
	if len(toolsToRegister) == 0 {
		toolsToRegister = DefaultTools
	}

	for _, toolName := range toolsToRegister {
		if err := s.registerTool(toolName); err != nil {
			return nil, fmt.Errorf("failed to register tool %s: %w", toolName, err)
		}
		s.tools[toolName] = true
	}

	return s, nil
}

// registerTool registers a single tool with the MCP server
func (s *Server) registerTool(name string) error {
	switch name {
	case "protplot_parse":
		return s.registerParseTool()
	case "protplot_render":
		return s.registerRenderTool()
	case "protplot_set_color":
		return s.registerSetColorTool()
	default:
		return fmt.Errorf("unknown tool: %s", name)
	}
}

// ServeStdio starts the server using stdio transport
func (s *Server) ServeStdio() error {
	if s.timeout > 0 {
		go s.timeoutChecker()
	}
	return server.ServeStdio(s.mcpServer)
}

// timeoutChecker monitors for inactivity and exits if timeout exceeded
func (s *Server) timeoutChecker() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		s.mu.RLock()
		elapsed := time.Since(s.lastActivity)
		s.mu.RUnlock()

		if elapsed > s.timeout {
			fmt.Fprintf(os.Stderr, "protplot mcp: timeout after %v of inactivity\n", s.timeout)
			os.Exit(0)
		}
	}
}

// updateActivity updates the last activity timestamp
func (s *Server) updateActivity() {
	s.mu.Lock()
	s.lastActivity = time.Now()
	s.mu.Unlock()
}

// Close releases server resources. All state is in-memory.
func (s *Server) Close() error {
	return nil
}

// ListTools returns the list of registered tools
func (s *Server) ListTools() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tools := make([]string, 0, len(s.tools))
	for t := range s.tools {
		tools = append(tools, t)
	}
	return tools
}

// result returns the parsed result for path, parsing and caching it on
// first use.
func (s *Server) result(path string) (*gff.Result, error) {
	s.mu.RLock()
	cached, ok := s.files[path]
	s.mu.RUnlock()
	if ok {
		return cached, nil
	}

	result, err := gff.ParseFile(path)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.files[path] = result
	s.mu.Unlock()
	return result, nil
}

// registerParseTool registers the protplot_parse tool
func (s *Server) registerParseTool() error {
	tool := mcp.NewTool("protplot_parse",
		mcp.WithDescription("Parse a GFF feature file and list its proteins and domains with hit counts."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the feature file"),
		),
	)

	s.mcpServer.AddTool(tool, s.handleParse)
	return nil
}

func (s *Server) handleParse(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.updateActivity()

	args := req.GetArguments()
	path, ok := args["path"].(string)
	if !ok || path == "" {
		return mcp.NewToolResultError("path parameter is required"), nil
	}

	result, err := s.result(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	summary := output.Summarize(path, result)
	var sb strings.Builder
	if err := summary.Write(&sb, output.FormatYAML); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(sb.String()), nil
}

// registerRenderTool registers the protplot_render tool
func (s *Server) registerRenderTool() error {
	tool := mcp.NewTool("protplot_render",
		mcp.WithDescription("Render selected proteins and domains from a feature file as an SVG track figure."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the feature file"),
		),
		mcp.WithString("proteins",
			mcp.Required(),
			mcp.Description("Comma-separated protein ids, in lane order"),
		),
		mcp.WithString("domains",
			mcp.Description("Comma-separated domain names (default: all domains in the file)"),
		),
		mcp.WithString("shape",
			mcp.Description("Shape kind: rect, round, or oval (default: from config)"),
		),
		mcp.WithString("output",
			mcp.Description("File path for the SVG (default: return the SVG inline)"),
		),
	)

	s.mcpServer.AddTool(tool, s.handleRender)
	return nil
}

func (s *Server) handleRender(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.updateActivity()

	args := req.GetArguments()
	path, ok := args["path"].(string)
	if !ok || path == "" {
		return mcp.NewToolResultError("path parameter is required"), nil
	}
	proteinArg, ok := args["proteins"].(string)
	if !ok || proteinArg == "" {
		return mcp.NewToolResultError("proteins parameter is required"), nil
	}

	result, err := s.result(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	proteins := splitList(proteinArg)

	domainArg, _ := args["domains"].(string)
	domains := splitList(domainArg)
	if len(domains) == 0 {
		domains = result.DomainList()
	}

	shapeName, _ := args["shape"].(string)
	if shapeName == "" {
		shapeName = s.cfg.Render.Shape
	}
	shape, err := track.ParseShape(shapeName)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	// Render works on a snapshot so a concurrent set_color call cannot
	// write the shared assignment while the renderer reads it.
	s.mu.Lock()
	s.colors.Ensure(domains)
	colors := s.colors.Clone()
	s.mu.Unlock()

	svg, err := track.Render(track.Request{
		Records:  result.Records,
		Proteins: proteins,
		Domains:  domains,
		Shape:    shape,
		Colors:   colors,
	}, &track.Options{Width: s.cfg.Render.FigureWidth, Title: "Protein domain tracks"})
	if errors.Is(err, track.ErrNoData) {
		return mcp.NewToolResultText("No domain data found for the selected proteins and domains."), nil
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	outPath, _ := args["output"].(string)
	if outPath != "" {
		if err := os.WriteFile(outPath, []byte(svg), 0644); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Rendered %d proteins to %s", len(proteins), outPath)), nil
	}

	return mcp.NewToolResultText(svg), nil
}

// registerSetColorTool registers the protplot_set_color tool
func (s *Server) registerSetColorTool() error {
	tool := mcp.NewTool("protplot_set_color",
		mcp.WithDescription("Override the color assigned to a domain for subsequent renders."),
		mcp.WithString("domain",
			mcp.Required(),
			mcp.Description("Domain name"),
		),
		mcp.WithString("color",
			mcp.Required(),
			mcp.Description("Color as #rrggbb"),
		),
	)

	s.mcpServer.AddTool(tool, s.handleSetColor)
	return nil
}

func (s *Server) handleSetColor(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.updateActivity()

	args := req.GetArguments()
	domain, ok := args["domain"].(string)
	if !ok || domain == "" {
		return mcp.NewToolResultError("domain parameter is required"), nil
	}
	color, ok := args["color"].(string)
	if !ok || color == "" {
		return mcp.NewToolResultError("color parameter is required"), nil
	}

	s.mu.Lock()
	err := s.colors.Set(domain, color)
	s.mu.Unlock()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("%s -> %s", domain, color)), nil
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
