package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ruffyt/ruffyt/internal/config"
	"github.com/ruffyt/ruffyt/internal/pyproject"
)

// initCmd represents the init command.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file at the project root",
	Long: `Write a default configuration file at the project root.

Creates a commented .ruffyt.yaml next to the project's pyproject.toml
(falling back to the current directory when no manifest exists yet).

Use --force to overwrite an existing configuration.

Examples:
  ruffyt init          # Create .ruffyt.yaml
  ruffyt init --force  # Overwrite an existing .ruffyt.yaml`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolP("force", "f", false, "Overwrite existing configuration")
}

// runInit is the main entry point for the init command.
func runInit(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")

	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to determine working directory: %w", err)
	}

	dir := wd
	if root, err := pyproject.FindProjectRoot(wd); err == nil {
		dir = root
	}

	path := filepath.Join(dir, config.DefaultConfigName)
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	rendered, err := config.NewConfig().RenderYAML()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, rendered, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	cmd.Printf("Created %s\n", path)
	cmd.Println("Edit it to configure the listing tool, server address, and logging.")
	return nil
}
