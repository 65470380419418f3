// Package cmd provides the CLI commands for ruffyt.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ruffyt/ruffyt/internal/errors"
)

// Version information - set via ldflags at build time in main.go.
// These are exported so main.go can set them before Execute().
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "ruffyt",
	Short: "Keep direct Python dependencies pinned to current versions",
	Long: `Ruffyt inspects the nearest pyproject.toml, asks the environment's
package-listing tool which installed packages are outdated, and rewrites the
[project] dependencies block so that outdated direct dependencies are pinned
to their latest versions. Declarations that are not outdated are left
byte-for-byte as they were.

It also ships a small API service ("ruffyt serve") exposing a health check
and an echo endpoint.`,
	// When ruffyt is called with no subcommand, run the updater (same as
	// "ruffyt update").
	RunE: runRoot,
}

// runRoot is called when ruffyt is invoked with no subcommand.
// It runs the updater, same as "ruffyt update".
func runRoot(cmd *cobra.Command, args []string) error {
	return runUpdate(cmd, args)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// Set version info here after main.go has set the variables.
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date)
	rootCmd.SetVersionTemplate("ruffyt {{.Version}}\n")
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true

	if err := rootCmd.Execute(); err != nil {
		var rerr *errors.RuffytError
		if errors.As(err, &rerr) {
			fmt.Fprint(os.Stderr, rerr.Format())
		} else {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

// Root returns the root command for testing purposes.
func Root() *cobra.Command {
	return rootCmd
}
