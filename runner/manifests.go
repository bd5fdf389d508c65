package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/jeffrom/shipit/manifest"
)

// UpdateManifests sets the version of the changed packages, then points
// every managed dependency of every package at its current version, then
// does the same for the examples' dependencies on changed packages.
func (r *Runner) UpdateManifests(ctx context.Context, rel *Release) error {
	version := rel.Version.String()
	r.cfg.Printf("Updating all changed packages to version %s...", version)
	g, _ := errgroup.WithContext(ctx)
	for _, pkg := range rel.Changed.Packages() {
		pkg := pkg
		g.Go(func() error {
			r.cfg.Printf("  Updating %s version to %s...", pkg.Name, version)
			_, err := manifest.Update(r.cfg.ManifestPath(pkg), func(m *manifest.Manifest) error {
				return m.SetVersion(version)
			})
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	versions, err := r.packageVersions(ctx)
	if err != nil {
		return err
	}

	r.cfg.Printf("Updating all package dependencies to latest versions...")
	g, _ = errgroup.WithContext(ctx)
	for _, pkg := range r.cfg.Packages {
		pkg := pkg
		g.Go(func() error {
			_, err := manifest.Update(r.cfg.ManifestPath(pkg), func(m *manifest.Manifest) error {
				for _, section := range []string{manifest.Dependencies, manifest.PeerDependencies} {
					if err := r.updateDeps(m, pkg.Name, section, versions); err != nil {
						return err
					}
				}
				return nil
			})
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	changedVersions := make(map[string]string)
	for _, name := range rel.Changed.Names() {
		changedVersions[name] = versions[name]
	}
	return r.updateExamples(ctx, changedVersions)
}

// updateDeps points the dependencies in section of m that are in versions at
// those versions.
func (r *Runner) updateDeps(m *manifest.Manifest, owner, section string, versions map[string]string) error {
	deps := m.Deps(section)
	names := make([]string, 0, len(deps))
	for dep := range deps {
		names = append(names, dep)
	}
	sort.Strings(names)

	for _, dep := range names {
		constraint := deps[dep]
		v, ok := versions[dep]
		if !ok || constraint == "" || constraint == v {
			continue
		}
		r.cfg.Printf("  Updating %s's %s on %s to version %s.", owner, section, dep, v)
		if _, err := m.SetDependency(section, dep, v); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) packageVersions(ctx context.Context) (map[string]string, error) {
	versions := make([]string, len(r.cfg.Packages))
	g, _ := errgroup.WithContext(ctx)
	for i, pkg := range r.cfg.Packages {
		i, pkg := i, pkg
		g.Go(func() error {
			m, err := manifest.Load(r.cfg.ManifestPath(pkg))
			if err != nil {
				return err
			}
			versions[i], err = m.RequireVersion()
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := make(map[string]string, len(versions))
	for i, pkg := range r.cfg.Packages {
		res[pkg.Name] = versions[i]
	}
	return res, nil
}

// updateExamples updates the dependencies of each project directly inside
// the examples directories.
func (r *Runner) updateExamples(ctx context.Context, versions map[string]string) error {
	if len(versions) == 0 || len(r.cfg.ExamplesDirs) == 0 {
		return nil
	}
	r.cfg.Printf("Updating all example dependencies...")

	var paths []string
	for _, examplesDir := range r.cfg.ExamplesDirs {
		dir := filepath.Join(r.cfg.RootDir, examplesDir)
		entries, err := os.ReadDir(dir)
		if errors.Is(err, os.ErrNotExist) {
			r.cfg.Debugf("examples directory %s does not exist, skipping", dir)
			continue
		} else if err != nil {
			return fmt.Errorf("runner: read examples: %w", err)
		}
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			p := filepath.Join(dir, entry.Name(), "package.json")
			if _, err := os.Stat(p); err != nil {
				r.cfg.Debugf("example %s has no package.json, skipping", entry.Name())
				continue
			}
			paths = append(paths, p)
		}
	}

	g, _ := errgroup.WithContext(ctx)
	for _, p := range paths {
		p := p
		g.Go(func() error {
			name := filepath.Base(filepath.Dir(p))
			_, err := manifest.Update(p, func(m *manifest.Manifest) error {
				return r.updateDeps(m, name, manifest.Dependencies, versions)
			})
			return err
		})
	}
	return g.Wait()
}
