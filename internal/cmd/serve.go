package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/protplot/protplot/internal/server"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the interactive web GUI",
	Long: `Start the protplot web GUI.

The GUI lets you upload a feature file, select proteins and domains,
pick a shape, adjust domain colors, and view the rendered track figure
inline. State is per browser session and in-memory only; nothing is
written to disk.

Examples:
  protplot serve                    # Listen on the configured address
  protplot serve --addr :9000       # Listen on :9000
  protplot serve --debug            # Debug-level request logging`,
	RunE: runServeWeb,
}

var (
	serveAddr  string
	serveDebug bool
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default: from config)")
	serveCmd.Flags().BoolVar(&serveDebug, "debug", false, "Enable debug logging")
}

func runServeWeb(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Serve.Addr = serveAddr
	}

	log := server.NewLogger(os.Stderr, serveDebug || verbose)

	srv, err := server.New(cfg, log)
	if err != nil {
		return err
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintf(os.Stderr, "\nprotplot serve: shutting down\n")
		os.Exit(0)
	}()

	fmt.Fprintf(os.Stderr, "protplot serve: listening on %s\n", cfg.Serve.Addr)
	return srv.ListenAndServe()
}
