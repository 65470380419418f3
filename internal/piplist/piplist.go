// Package piplist invokes the environment's package-listing tool and parses
// its outdated-package report.
package piplist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/ruffyt/ruffyt/internal/config"
	"github.com/ruffyt/ruffyt/internal/errors"
	"github.com/ruffyt/ruffyt/internal/logging"
)

// Package is one row of the listing tool's outdated report, e.g. one element
// of `uv pip list --outdated --format json`.
type Package struct {
	Name          string `json:"name"`
	Version       string `json:"version"`
	LatestVersion string `json:"latest_version"`
}

// Parse decodes the listing tool's JSON output. Empty output is treated as
// an empty report.
func Parse(data []byte) ([]Package, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return []Package{}, nil
	}

	var pkgs []Package
	if err := json.Unmarshal(trimmed, &pkgs); err != nil {
		return nil, fmt.Errorf("failed to decode outdated-package report: %w", err)
	}
	return pkgs, nil
}

// Runner executes the configured listing command.
type Runner struct {
	argv    []string
	timeout time.Duration
	dir     string
	log     *logging.Logger
}

// NewRunner builds a Runner from the tool configuration. The command line is
// split on whitespace; the first field is the binary.
func NewRunner(cfg config.ToolConfig, dir string, log *logging.Logger) (*Runner, error) {
	argv := strings.Fields(cfg.Command)
	if len(argv) == 0 {
		return nil, errors.InvalidConfig("tool.command", "must not be empty")
	}
	return NewRunnerArgv(argv, cfg.Timeout, dir, log), nil
}

// NewRunnerArgv builds a Runner from an already-split command line.
func NewRunnerArgv(argv []string, timeout time.Duration, dir string, log *logging.Logger) *Runner {
	if log == nil {
		log = logging.NewNoop()
	}
	return &Runner{
		argv:    argv,
		timeout: timeout,
		dir:     dir,
		log:     log,
	}
}

// Command returns the command line the runner will execute.
func (r *Runner) Command() string {
	return strings.Join(r.argv, " ")
}

// Outdated runs the listing command and returns the parsed report.
// The invocation is never retried; failures carry the tool's stderr.
func (r *Runner) Outdated(ctx context.Context) ([]Package, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, r.argv[0], r.argv[1:]...)
	cmd.Dir = r.dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.log.Debug("running package-listing command", "command", r.Command())

	if err := cmd.Run(); err != nil {
		exitCode := 1
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		}
		return nil, errors.ToolFailed(r.Command(), exitCode, strings.TrimSpace(stderr.String())).WithCause(err)
	}

	pkgs, err := Parse(stdout.Bytes())
	if err != nil {
		return nil, errors.ToolFailed(r.Command(), 0, strings.TrimSpace(stderr.String())).WithCause(err)
	}

	r.log.Debug("package-listing command finished", "outdated", len(pkgs))
	return pkgs, nil
}
