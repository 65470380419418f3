package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ruffyt/ruffyt/internal/api"
	"github.com/ruffyt/ruffyt/internal/config"
	"github.com/ruffyt/ruffyt/internal/logging"
)

// serveCmd represents the serve command.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the ruffyt API service",
	Long: `Run the ruffyt API service.

Exposes two endpoints:
  GET  /health  Fixed {"status":"ok"} payload
  POST /echo    Returns the request's message field unchanged

The server shuts down gracefully on SIGINT/SIGTERM.

Examples:
  ruffyt serve                 # Listen on the configured address (default :8080)
  ruffyt serve --addr :9000    # Override the listen address`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Listen address (overrides config)")
}

// runServe handles the serve command.
func runServe(cmd *cobra.Command, args []string) error {
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to determine working directory: %w", err)
	}

	cfg, err := config.NewLoader().LoadFromDir(wd)
	if err != nil {
		return err
	}
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Server.Addr = addr
	}
	initLogging(cfg)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := api.New(cfg.Server, logging.Global())
	return srv.Run(ctx)
}
