package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
)

// newTestRoot creates a fresh command hierarchy for testing.
// This is necessary because Cobra commands maintain state between runs.
func newTestRoot() *cobra.Command {
	root := &cobra.Command{
		Use:   "ruffyt",
		Short: "Keep direct Python dependencies pinned to current versions",
		Long: `Ruffyt inspects the nearest pyproject.toml and rewrites outdated direct
dependencies as exact pins.`,
		RunE: runRoot,
	}
	root.Version = "test"
	root.SetVersionTemplate("ruffyt {{.Version}}\n")
	root.SilenceUsage = true

	update := &cobra.Command{
		Use:   "update",
		Short: "Pin outdated direct dependencies in pyproject.toml",
		RunE:  runUpdate,
	}
	update.Flags().BoolP("dry-run", "n", false, "Report changes without writing the manifest")
	root.AddCommand(update)

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the ruffyt API service",
		RunE:  runServe,
	}
	serve.Flags().String("addr", "", "Listen address (overrides config)")
	root.AddCommand(serve)

	initC := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file at the project root",
		RunE:  runInit,
	}
	initC.Flags().BoolP("force", "f", false, "Overwrite existing configuration")
	root.AddCommand(initC)

	versionC := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		RunE:  runVersion,
	}
	root.AddCommand(versionC)

	return root
}

// chdir changes into dir for the duration of the test, mirroring
// testing.T.Chdir, which requires Go 1.24.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("failed to change directory: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("failed to restore working directory: %v", err)
		}
	})
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	cmd := newTestRoot()
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// writeFakeTool writes an executable script that prints the given JSON and
// points RUFFYT_TOOL_COMMAND at it.
func writeFakeTool(t *testing.T, dir, output string) {
	t.Helper()
	path := filepath.Join(dir, "fake-uv")
	script := "#!/bin/sh\ncat <<'EOF'\n" + output + "\nEOF\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("failed to write fake tool: %v", err)
	}
	t.Setenv("RUFFYT_TOOL_COMMAND", path)
}

func TestRootCommand(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		wantErr    bool
		wantOutput string
	}{
		{
			name:       "help flag",
			args:       []string{"--help"},
			wantErr:    false,
			wantOutput: "Available Commands:",
		},
		{
			name:       "version flag",
			args:       []string{"--version"},
			wantErr:    false,
			wantOutput: "ruffyt",
		},
		{
			name:    "unknown command",
			args:    []string{"unknown"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			if (err != nil) != tt.wantErr {
				t.Errorf("Execute() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantOutput != "" && !bytes.Contains([]byte(out), []byte(tt.wantOutput)) {
				t.Errorf("Output = %q, want to contain %q", out, tt.wantOutput)
			}
		})
	}
}

func TestUpdateCommand_DryRun(t *testing.T) {
	tmpDir := t.TempDir()
	manifest := `[project]
dependencies = [
    "fastapi==0.120.2",
    "pydantic>=2",
]
`
	if err := os.WriteFile(filepath.Join(tmpDir, "pyproject.toml"), []byte(manifest), 0o644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}
	writeFakeTool(t, tmpDir, `[{"name":"fastapi","version":"0.120.2","latest_version":"0.121.2"}]`)
	chdir(t, tmpDir)

	out, err := execute(t, "update", "--dry-run")
	if err != nil {
		t.Fatalf("Execute() = %v\noutput: %s", err, out)
	}

	for _, want := range []string{
		"Direct dependencies: fastapi, pydantic",
		"fastapi: 0.120.2 -> 0.121.2",
		"Dry run: pyproject.toml not modified.",
	} {
		if !bytes.Contains([]byte(out), []byte(want)) {
			t.Errorf("Output = %q, want to contain %q", out, want)
		}
	}

	after, err := os.ReadFile(filepath.Join(tmpDir, "pyproject.toml"))
	if err != nil {
		t.Fatalf("failed to read manifest: %v", err)
	}
	if string(after) != manifest {
		t.Error("dry run must leave the manifest untouched")
	}
}

func TestUpdateCommand_WritesManifest(t *testing.T) {
	tmpDir := t.TempDir()
	manifest := `[project]
dependencies = [
    "fastapi==0.120.2",
]
`
	if err := os.WriteFile(filepath.Join(tmpDir, "pyproject.toml"), []byte(manifest), 0o644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}
	writeFakeTool(t, tmpDir, `[{"name":"fastapi","version":"0.120.2","latest_version":"0.121.2"}]`)
	chdir(t, tmpDir)

	out, err := execute(t, "update")
	if err != nil {
		t.Fatalf("Execute() = %v\noutput: %s", err, out)
	}
	if !bytes.Contains([]byte(out), []byte("pyproject.toml updated.")) {
		t.Errorf("Output = %q, want update confirmation", out)
	}

	after, err := os.ReadFile(filepath.Join(tmpDir, "pyproject.toml"))
	if err != nil {
		t.Fatalf("failed to read manifest: %v", err)
	}
	if !bytes.Contains(after, []byte(`"fastapi==0.121.2",`)) {
		t.Errorf("manifest not pinned:\n%s", after)
	}
}

func TestUpdateCommand_NoOutdated(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmpDir, "pyproject.toml"),
		[]byte("[project]\ndependencies = [\n    \"fastapi==0.120.2\",\n]\n"), 0o644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}
	writeFakeTool(t, tmpDir, `[]`)
	chdir(t, tmpDir)

	out, err := execute(t, "update")
	if err != nil {
		t.Fatalf("Execute() = %v", err)
	}
	if !bytes.Contains([]byte(out), []byte("No outdated direct dependencies found.")) {
		t.Errorf("Output = %q, want no-outdated notice", out)
	}
}

func TestUpdateCommand_MissingManifest(t *testing.T) {
	chdir(t, t.TempDir())

	_, err := execute(t, "update")
	if err == nil {
		t.Fatal("expected error when no pyproject.toml exists")
	}
}

func TestInitCommand(t *testing.T) {
	tmpDir := t.TempDir()
	chdir(t, tmpDir)

	out, err := execute(t, "init")
	if err != nil {
		t.Fatalf("Execute() = %v", err)
	}
	if !bytes.Contains([]byte(out), []byte("Created")) {
		t.Errorf("Output = %q, want creation notice", out)
	}
	if _, err := os.Stat(filepath.Join(tmpDir, ".ruffyt.yaml")); err != nil {
		t.Errorf("config file not created: %v", err)
	}

	// A second init without --force refuses.
	if _, err := execute(t, "init"); err == nil {
		t.Error("init should refuse to overwrite without --force")
	}

	// With --force it overwrites.
	if _, err := execute(t, "init", "--force"); err != nil {
		t.Errorf("init --force failed: %v", err)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("Execute() = %v", err)
	}
	if !bytes.Contains([]byte(out), []byte("ruffyt")) {
		t.Errorf("Output = %q, want version info", out)
	}
}
