package pyproject

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/renameio/v2"

	"github.com/ruffyt/ruffyt/internal/errors"
)

// depsBlockStartRe matches the opening of the raw-text dependencies array.
// The structured TOML parse supplies the entries; this locates the start of
// the span to splice over.
var depsBlockStartRe = regexp.MustCompile(`dependencies\s*=\s*\[`)

// findDependencyBlock returns the [start, end) span of the dependencies
// array in raw, including the closing bracket. The closing bracket is found
// by bracket counting, skipping over quoted strings: entries like
// "uvicorn[standard]>=0.30" contain brackets that must not terminate the
// block.
func findDependencyBlock(raw []byte) (start, end int, ok bool) {
	loc := depsBlockStartRe.FindIndex(raw)
	if loc == nil {
		return 0, 0, false
	}

	depth := 0
	for i := loc[1] - 1; i < len(raw); i++ {
		switch c := raw[i]; c {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return loc[0], i + 1, true
			}
		case '"', '\'':
			// Skip to the end of the string. Basic strings can escape
			// the quote; literal strings cannot.
			for i++; i < len(raw); i++ {
				if c == '"' && raw[i] == '\\' {
					i++
					continue
				}
				if raw[i] == c {
					break
				}
			}
		}
	}
	return 0, 0, false
}

// Rewrite returns the manifest content with the [project] dependencies
// block rebuilt. Entries whose normalized name appears in versions are
// replaced with an exact pin ("name==version"); all other entries are kept
// verbatim. The declaration count is always preserved.
func Rewrite(raw []byte, versions map[string]string) ([]byte, error) {
	start, end, ok := findDependencyBlock(raw)
	if !ok {
		return nil, errors.DependencyBlockMissing("")
	}

	reqs, err := parseDependencies(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}

	lines := []string{"dependencies = ["}
	for _, req := range reqs {
		entry := req.Raw
		if v, ok := versions[NormalizeName(req.Name)]; ok {
			// Pin conservatively as name==version.
			entry = req.Name + "==" + v
		}
		lines = append(lines, fmt.Sprintf("    %q,", entry))
	}
	lines = append(lines, "]")
	block := strings.Join(lines, "\n")

	out := make([]byte, 0, len(raw)-(end-start)+len(block))
	out = append(out, raw[:start]...)
	out = append(out, block...)
	out = append(out, raw[end:]...)
	return out, nil
}

// RewriteFile applies Rewrite to the manifest at path and replaces the file
// atomically.
func RewriteFile(m *Manifest, versions map[string]string) error {
	out, err := Rewrite(m.Raw, versions)
	if err != nil {
		var rerr *errors.RuffytError
		if errors.As(err, &rerr) {
			rerr.WithDetails("path", m.Path)
		}
		return err
	}
	if err := renameio.WriteFile(m.Path, out, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", m.Path, err)
	}
	return nil
}
