package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/protplot/protplot/internal/config"
	"github.com/protplot/protplot/internal/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server for AI agent integration",
	Long: `Start an MCP (Model Context Protocol) server for AI agent integration.

This allows AI agents to parse feature files and render track figures
through MCP tools instead of spawning CLI commands. Parsed files are
cached for the lifetime of the server, so repeated renders of the same
file skip the parse.

Available Tools:
  protplot_parse      List proteins and domains in a feature file
  protplot_render     Render selected proteins and domains as SVG
  protplot_set_color  Override a domain's color for later renders

Examples:
  protplot mcp                             # Start with default tools
  protplot mcp --tools parse,render        # Start with specific tools only
  protplot mcp --timeout 30m               # Auto-stop after 30 minutes
  protplot mcp --status                    # Check if server is running
  protplot mcp --stop                      # Stop running server
  protplot mcp --list-tools                # Show available tools`,
	RunE: runMCP,
}

var (
	mcpTools     string
	mcpTimeout   string
	mcpStatus    bool
	mcpStop      bool
	mcpListTools bool
)

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().StringVar(&mcpTools, "tools", "", "Comma-separated list of tools to expose (default: parse,render)")
	mcpCmd.Flags().StringVar(&mcpTimeout, "timeout", "30m", "Inactivity timeout (0 for no timeout)")
	mcpCmd.Flags().BoolVar(&mcpStatus, "status", false, "Check if server is running")
	mcpCmd.Flags().BoolVar(&mcpStop, "stop", false, "Stop running server")
	mcpCmd.Flags().BoolVar(&mcpListTools, "list-tools", false, "List available tools")
}

func runMCP(cmd *cobra.Command, args []string) error {
	// Handle --list-tools
	if mcpListTools {
		fmt.Println("Available MCP tools:")
		fmt.Println()
		fmt.Println("  protplot_parse      List proteins and domains in a feature file")
		fmt.Println("  protplot_render     Render selected proteins and domains as SVG")
		fmt.Println("  protplot_set_color  Override a domain's color for later renders")
		fmt.Println()
		fmt.Println("Default set: parse, render")
		return nil
	}

	// Handle --status
	if mcpStatus {
		return checkServerStatus()
	}

	// Handle --stop
	if mcpStop {
		return stopServer()
	}

	// Parse timeout
	timeout, err := parseDuration(mcpTimeout)
	if err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}

	// Parse tools
	var tools []string
	if mcpTools != "" {
		for _, t := range strings.Split(mcpTools, ",") {
			t = strings.TrimSpace(t)
			if t != "" {
				// Allow shorthand (parse -> protplot_parse)
				if !strings.HasPrefix(t, "protplot_") {
					t = "protplot_" + t
				}
				tools = append(tools, t)
			}
		}
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Create and start server
	mcpCfg := mcp.Config{
		Tools:    tools,
		Timeout:  timeout,
		Settings: cfg,
	}

	srv, err := mcp.New(mcpCfg)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}
	defer srv.Close()

	// Write PID file
	if err := writePIDFile(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not write PID file: %v\n", err)
	}
	defer removePIDFile()

	// Handle signals for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintf(os.Stderr, "\nprotplot mcp: shutting down\n")
		srv.Close()
		removePIDFile()
		os.Exit(0)
	}()

	// Log startup info to stderr (stdout is for MCP protocol)
	fmt.Fprintf(os.Stderr, "protplot mcp: starting MCP server\n")
	fmt.Fprintf(os.Stderr, "protplot mcp: tools: %v\n", srv.ListTools())
	if timeout > 0 {
		fmt.Fprintf(os.Stderr, "protplot mcp: timeout: %v\n", timeout)
	}

	// Start serving
	return srv.ServeStdio()
}

func parseDuration(s string) (time.Duration, error) {
	if s == "0" || s == "" {
		return 0, nil
	}
	return time.ParseDuration(s)
}

func getPIDFilePath() (string, error) {
	dir, err := config.FindConfigDir(".")
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "mcp.pid"), nil
}

func writePIDFile() error {
	pidPath, err := getPIDFilePath()
	if err != nil {
		return err
	}
	return os.WriteFile(pidPath, []byte(strconv.Itoa(os.Getpid())), 0644)
}

func removePIDFile() {
	pidPath, err := getPIDFilePath()
	if err != nil {
		return
	}
	os.Remove(pidPath)
}

func checkServerStatus() error {
	pidPath, err := getPIDFilePath()
	if err != nil {
		fmt.Println("Status: not running (protplot not initialized)")
		return nil
	}

	data, err := os.ReadFile(pidPath)
	if err != nil {
		fmt.Println("Status: not running")
		return nil
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		fmt.Println("Status: not running (invalid PID file)")
		return nil
	}

	// Check if process exists
	process, err := os.FindProcess(pid)
	if err != nil {
		fmt.Println("Status: not running")
		removePIDFile()
		return nil
	}

	// On Unix, FindProcess always succeeds, so we need to send signal 0 to check
	err = process.Signal(syscall.Signal(0))
	if err != nil {
		fmt.Println("Status: not running (stale PID file)")
		removePIDFile()
		return nil
	}

	fmt.Printf("Status: running (PID %d)\n", pid)
	return nil
}

func stopServer() error {
	pidPath, err := getPIDFilePath()
	if err != nil {
		return fmt.Errorf("protplot not initialized")
	}

	data, err := os.ReadFile(pidPath)
	if err != nil {
		fmt.Println("No server running")
		return nil
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		removePIDFile()
		return fmt.Errorf("invalid PID file")
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		removePIDFile()
		fmt.Println("No server running")
		return nil
	}

	// Send SIGTERM for graceful shutdown
	err = process.Signal(syscall.SIGTERM)
	if err != nil {
		removePIDFile()
		fmt.Println("Server already stopped")
		return nil
	}

	fmt.Printf("Stopped server (PID %d)\n", pid)
	return nil
}
