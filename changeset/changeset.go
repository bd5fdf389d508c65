// Package changeset works out which packages a release has to publish.
package changeset

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/jeffrom/shipit/config"
	"github.com/jeffrom/shipit/manifest"
	"github.com/jeffrom/shipit/model"
)

// Reason explains why a package is part of a Set.
type Reason struct {
	// ReleaseAll is set when every package was released.
	ReleaseAll bool
	// File is the first changed file found in the package's directory.
	File string
	// Dependency is the changed package this one depends on.
	Dependency string
}

func (r Reason) String() string {
	switch {
	case r.ReleaseAll:
		return "releasing all packages"
	case r.File != "":
		return "changed file " + r.File
	case r.Dependency != "":
		return "depends on " + r.Dependency
	}
	return "unknown"
}

// Set is the set of packages to release, in configuration order.
type Set struct {
	pkgs    []model.Package
	reasons map[string]Reason
}

func (s *Set) Has(name string) bool {
	_, ok := s.reasons[name]
	return ok
}

func (s *Set) Reason(name string) Reason {
	return s.reasons[name]
}

func (s *Set) Len() int { return len(s.pkgs) }

func (s *Set) Packages() []model.Package {
	return append([]model.Package(nil), s.pkgs...)
}

func (s *Set) Names() []string {
	names := make([]string, len(s.pkgs))
	for i, pkg := range s.pkgs {
		names[i] = pkg.Name
	}
	return names
}

// Resolve returns the packages with a changed file in their source directory,
// plus every package that depends on one of them, directly or through other
// packages. deps maps a package name to the names in its dependencies and
// peerDependencies. When releaseAll is set every package is included.
func Resolve(files []string, packages []model.Package, packagesDir string, deps map[string][]string, releaseAll bool) *Set {
	reasons := make(map[string]Reason)
	for _, pkg := range packages {
		if releaseAll {
			reasons[pkg.Name] = Reason{ReleaseAll: true}
			continue
		}
		if f, ok := firstInDir(files, pkg.SourceDir(packagesDir)); ok {
			reasons[pkg.Name] = Reason{File: f}
		}
	}

	for added := true; added; {
		added = false
		for _, pkg := range packages {
			if _, ok := reasons[pkg.Name]; ok {
				continue
			}
			for _, dep := range deps[pkg.Name] {
				if _, ok := reasons[dep]; ok {
					reasons[pkg.Name] = Reason{Dependency: dep}
					added = true
					break
				}
			}
		}
	}

	s := &Set{reasons: reasons}
	for _, pkg := range packages {
		if _, ok := reasons[pkg.Name]; ok {
			s.pkgs = append(s.pkgs, pkg)
		}
	}
	return s
}

func firstInDir(files []string, dir string) (string, bool) {
	dir = strings.TrimSuffix(dir, "/")
	for _, f := range files {
		if f == dir || strings.HasPrefix(f, dir+"/") {
			return f, true
		}
	}
	return "", false
}

// LoadDependencies reads the manifest of every configured package and
// returns the names each one depends on.
func LoadDependencies(ctx context.Context, cfg config.Config) (map[string][]string, error) {
	names := make([][]string, len(cfg.Packages))
	g, _ := errgroup.WithContext(ctx)
	for i, pkg := range cfg.Packages {
		i, pkg := i, pkg
		g.Go(func() error {
			m, err := manifest.Load(cfg.ManifestPath(pkg))
			if err != nil {
				return fmt.Errorf("changeset: package %s: %w", pkg.Name, err)
			}
			names[i] = m.DependencyNames()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	deps := make(map[string][]string, len(cfg.Packages))
	for i, pkg := range cfg.Packages {
		deps[pkg.Name] = names[i]
	}
	return deps, nil
}
