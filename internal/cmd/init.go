package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/protplot/protplot/internal/config"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the .protplot directory and config file",
	Long: `Initialize the .protplot directory with a default config.yaml in the
current directory.

The config file holds render defaults (figure width, shape, palette),
the web server address, and the parse listing format. Commands find it
by walking up from the working directory, so one config covers a whole
project tree.

Examples:
  protplot init          # Initialize in current directory
  protplot init --force  # Overwrite an existing config file`,
	RunE: runInit,
}

var initForce bool

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config file")
}

func runInit(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	if initForce {
		configDir, err := config.EnsureConfigDir(cwd)
		if err != nil {
			return err
		}
		if err := os.Remove(filepath.Join(configDir, config.ConfigFileName)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing existing config: %w", err)
		}
	}

	path, err := config.SaveDefault(cwd)
	if err != nil {
		return err
	}

	relPath, _ := filepath.Rel(cwd, path)
	fmt.Printf("Initialized protplot config at %s\n", relPath)
	return nil
}
