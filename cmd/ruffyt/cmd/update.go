package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ruffyt/ruffyt/internal/config"
	"github.com/ruffyt/ruffyt/internal/logging"
	"github.com/ruffyt/ruffyt/internal/piplist"
	"github.com/ruffyt/ruffyt/internal/pyproject"
	"github.com/ruffyt/ruffyt/internal/updater"
)

// updateCmd represents the update command.
var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Pin outdated direct dependencies in pyproject.toml",
	Long: `Pin outdated direct dependencies in pyproject.toml.

Walks upward from the current directory to find the project's
pyproject.toml, runs the configured package-listing tool to learn which
installed packages are outdated, and rewrites the [project] dependencies
block with exact pins for the outdated direct dependencies. All other
declarations are preserved unchanged.

Examples:
  ruffyt update            # Update the manifest in place
  ruffyt update --dry-run  # Report what would change, write nothing`,
	RunE: runUpdate,
}

func init() {
	rootCmd.AddCommand(updateCmd)
	updateCmd.Flags().BoolP("dry-run", "n", false, "Report changes without writing the manifest")
}

// runUpdate handles the update command.
func runUpdate(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to determine working directory: %w", err)
	}

	root, err := pyproject.FindProjectRoot(wd)
	if err != nil {
		return err
	}

	cfg, err := config.NewLoader().LoadFromDir(root)
	if err != nil {
		return err
	}
	initLogging(cfg)

	lister, err := piplist.NewRunner(cfg.Tool, root, logging.Global())
	if err != nil {
		return err
	}

	report, err := updater.New(lister, logging.Global()).Run(cmd.Context(), root, dryRun)
	if err != nil {
		return err
	}

	if len(report.Direct) == 0 {
		cmd.Println("No direct dependencies found in pyproject.toml.")
		return nil
	}
	cmd.Printf("Direct dependencies: %s\n", strings.Join(report.Direct, ", "))

	if len(report.Changes) == 0 {
		cmd.Println("No outdated direct dependencies found.")
		return nil
	}

	for _, c := range report.Changes {
		cmd.Printf("%s: %s -> %s\n", c.Name, c.From, c.To)
	}

	if report.DryRun {
		cmd.Println("Dry run: pyproject.toml not modified.")
		return nil
	}

	cmd.Println("pyproject.toml updated.")
	cmd.Println("To sync the environment afterwards, run for example:")
	cmd.Println("  uv sync")
	cmd.Println("or")
	cmd.Println("  uv lock --upgrade")
	return nil
}

// initLogging configures the global logger from the loaded config.
func initLogging(cfg *config.Config) {
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = logging.LevelInfo
	}
	logging.InitGlobal(&logging.Config{
		Level:      level,
		JSONFormat: cfg.Log.JSON,
	})
}
