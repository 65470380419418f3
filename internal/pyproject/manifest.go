package pyproject

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Requirement is a single parsed dependency declaration.
type Requirement struct {
	// Raw is the original declaration string, e.g. `uvicorn[standard]>=0.30`.
	Raw string
	// Name is the bare package name with extras and constraints stripped.
	Name string
	// Extras are the bracketed extras, if any.
	Extras []string
	// Constraint is the version constraint suffix, e.g. `>=0.30`. May be empty.
	Constraint string
}

// versionOperators are the characters that begin a version constraint in a
// PEP 508 requirement string. A space also terminates the name.
const versionOperators = "<>=!~ "

// ParseRequirement splits a raw declaration string into name, extras and
// constraint. Malformed input is passed through best-effort: whatever
// precedes the first extras bracket or operator becomes the name.
func ParseRequirement(raw string) Requirement {
	req := Requirement{Raw: raw}

	token := strings.TrimSpace(raw)

	// Strip extras: "uvicorn[standard]>=0.30" -> "uvicorn>=0.30".
	if open := strings.Index(token, "["); open >= 0 {
		if close := strings.Index(token[open:], "]"); close >= 0 {
			inner := token[open+1 : open+close]
			for _, e := range strings.Split(inner, ",") {
				if e = strings.TrimSpace(e); e != "" {
					req.Extras = append(req.Extras, e)
				}
			}
			token = token[:open] + token[open+close+1:]
		} else {
			token = token[:open]
		}
	}

	// Cut everything from the first version operator onwards.
	if i := strings.IndexAny(token, versionOperators); i >= 0 {
		req.Constraint = strings.TrimSpace(token[i:])
		token = token[:i]
	}

	req.Name = strings.TrimSpace(token)
	return req
}

// normalizeRe collapses runs of the PEP 503 separator characters.
var normalizeRe = regexp.MustCompile(`[-_.]+`)

// NormalizeName normalizes a package name per PEP 503: lowercase, with runs
// of "-", "_" and "." folded to a single "-". Listing tools report
// normalized names, manifests often don't; compare through this.
func NormalizeName(name string) string {
	return normalizeRe.ReplaceAllString(strings.ToLower(name), "-")
}

// document is the subset of pyproject.toml this tool reads.
type document struct {
	Project struct {
		Dependencies []string `toml:"dependencies"`
	} `toml:"project"`
}

// Manifest is a loaded pyproject.toml.
type Manifest struct {
	// Path is the absolute path the manifest was read from.
	Path string
	// Raw is the verbatim file content.
	Raw []byte
	// Requirements are the parsed [project].dependencies entries, in file order.
	Requirements []Requirement
}

// Load reads and parses the manifest at path.
func Load(path string) (*Manifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	reqs, err := parseDependencies(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return &Manifest{
		Path:         path,
		Raw:          raw,
		Requirements: reqs,
	}, nil
}

// parseDependencies extracts [project].dependencies from TOML content.
func parseDependencies(raw []byte) ([]Requirement, error) {
	var doc document
	if err := toml.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}

	reqs := make([]Requirement, 0, len(doc.Project.Dependencies))
	for _, dep := range doc.Project.Dependencies {
		reqs = append(reqs, ParseRequirement(dep))
	}
	return reqs, nil
}

// DirectNames returns the sorted, deduplicated bare names of the manifest's
// direct dependencies. Deduplication uses the normalized name, matching
// DirectSet; the first declared spelling is kept.
func (m *Manifest) DirectNames() []string {
	seen := make(map[string]struct{}, len(m.Requirements))
	var names []string
	for _, req := range m.Requirements {
		if req.Name == "" {
			continue
		}
		key := NormalizeName(req.Name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		names = append(names, req.Name)
	}
	sort.Strings(names)
	return names
}

// DirectSet returns the set of normalized direct dependency names.
func (m *Manifest) DirectSet() map[string]struct{} {
	set := make(map[string]struct{}, len(m.Requirements))
	for _, req := range m.Requirements {
		if req.Name == "" {
			continue
		}
		set[NormalizeName(req.Name)] = struct{}{}
	}
	return set
}
