// Package updater ties manifest parsing, the outdated-package listing, and
// the manifest rewrite together into the dependency update operation.
package updater

import (
	"context"
	"path/filepath"

	"github.com/ruffyt/ruffyt/internal/logging"
	"github.com/ruffyt/ruffyt/internal/piplist"
	"github.com/ruffyt/ruffyt/internal/pyproject"
	"github.com/ruffyt/ruffyt/internal/version"
)

// Lister reports outdated packages in the current environment.
type Lister interface {
	Outdated(ctx context.Context) ([]piplist.Package, error)
}

// Change records one dependency that was (or would be) pinned to a new version.
type Change struct {
	// Name is the package name as declared in the manifest.
	Name string
	// From is the currently installed version.
	From string
	// To is the version the declaration is pinned to.
	To string
}

// Report summarizes an update run.
type Report struct {
	// ManifestPath is the manifest that was inspected.
	ManifestPath string
	// Direct are the manifest's direct dependency names, sorted.
	Direct []string
	// Changes are the applied (or, with DryRun, proposed) pin updates,
	// in manifest order.
	Changes []Change
	// DryRun is true when the manifest was not written.
	DryRun bool
}

// isUpgrade reports whether latest should replace current. Strictly older
// versions are rejected. The numeric compare cannot order pre- and
// post-release suffixes, so an equal numeric triple still counts as an
// upgrade when the strings differ: the listing tool already determined
// that latest is newer (0.121.0rc1 -> 0.121.0, 1.0.0 -> 1.0.0.post1).
func isUpgrade(current, latest string) bool {
	if latest == current {
		return false
	}
	return version.Compare(latest, current) >= 0
}

// Updater runs the dependency update operation against a project root.
type Updater struct {
	lister Lister
	log    *logging.Logger
}

// New creates an Updater using the given lister.
func New(lister Lister, log *logging.Logger) *Updater {
	if log == nil {
		log = logging.NewNoop()
	}
	return &Updater{lister: lister, log: log}
}

// Run updates the direct dependencies declared in projectRoot's manifest.
//
// Packages reported outdated by the lister are intersected with the
// manifest's direct dependencies (PEP 503 normalized on both sides) and the
// matching declarations are rewritten as exact pins. Everything else in the
// manifest is preserved. A run with no direct dependencies or no outdated
// direct dependencies succeeds with an empty Changes list.
func (u *Updater) Run(ctx context.Context, projectRoot string, dryRun bool) (*Report, error) {
	manifestPath := filepath.Join(projectRoot, pyproject.ManifestName)

	m, err := pyproject.Load(manifestPath)
	if err != nil {
		return nil, err
	}

	report := &Report{
		ManifestPath: manifestPath,
		Direct:       m.DirectNames(),
		DryRun:       dryRun,
	}

	if len(m.Requirements) == 0 {
		u.log.Info("no direct dependencies declared", "manifest", manifestPath)
		return report, nil
	}

	outdated, err := u.lister.Outdated(ctx)
	if err != nil {
		return nil, err
	}

	direct := m.DirectSet()
	latest := make(map[string]piplist.Package, len(outdated))
	for _, pkg := range outdated {
		name := pyproject.NormalizeName(pkg.Name)
		if _, ok := direct[name]; !ok {
			continue
		}
		// Guard against tool misreports where "latest" is not newer.
		if !isUpgrade(pkg.Version, pkg.LatestVersion) {
			u.log.Debug("skipping non-upgrade", "package", pkg.Name,
				"current", pkg.Version, "latest", pkg.LatestVersion)
			continue
		}
		latest[name] = pkg
	}

	if len(latest) == 0 {
		u.log.Info("no outdated direct dependencies", "manifest", manifestPath)
		return report, nil
	}

	versions := make(map[string]string, len(latest))
	seen := make(map[string]struct{}, len(latest))
	for _, req := range m.Requirements {
		name := pyproject.NormalizeName(req.Name)
		pkg, ok := latest[name]
		if !ok {
			continue
		}
		versions[name] = pkg.LatestVersion
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		report.Changes = append(report.Changes, Change{
			Name: req.Name,
			From: pkg.Version,
			To:   pkg.LatestVersion,
		})
	}

	if dryRun {
		return report, nil
	}

	if err := pyproject.RewriteFile(m, versions); err != nil {
		return nil, err
	}

	u.log.Info("manifest updated", "manifest", manifestPath, "changes", len(report.Changes))
	return report, nil
}
