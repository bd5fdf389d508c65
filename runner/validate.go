package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jeffrom/shipit/manifest"
)

// ValidationFailure lists every problem found while validating the built
// packages.
type ValidationFailure struct {
	Failures []string
}

func (vf ValidationFailure) Error() string {
	return fmt.Sprintf("%d package validation(s) failed", len(vf.Failures))
}

func (vf ValidationFailure) Is(other error) bool {
	_, ok := other.(ValidationFailure)
	return ok
}

func (vf ValidationFailure) WriteFailure(w io.Writer) error {
	if len(vf.Failures) == 0 {
		return nil
	}
	bw := bufio.NewWriter(w)
	bw.WriteString("Some packages failed validation:\n\n")
	for _, failure := range vf.Failures {
		bw.WriteString("  ")
		bw.WriteString(failure)
		bw.WriteString("\n")
	}
	return bw.Flush()
}

// Prepare builds, validates and tests the packages.
func (r *Runner) Prepare(ctx context.Context) error {
	r.cfg.Printf("Building packages...")
	if err := r.pkgmgr.Build(ctx); err != nil {
		return err
	}

	r.cfg.Printf("Validating packages...")
	if err := r.Validate(ctx); err != nil {
		return err
	}

	r.cfg.Printf("Testing packages...")
	return r.pkgmgr.Test(ctx)
}

// Validate checks that every package declares its entry points and that the
// files they point to exist. All packages are checked before a
// ValidationFailure is returned.
func (r *Runner) Validate(ctx context.Context) error {
	var mu sync.Mutex
	var failures []string
	fail := func(msg string, args ...interface{}) {
		mu.Lock()
		defer mu.Unlock()
		failures = append(failures, fmt.Sprintf(msg, args...))
	}

	g, _ := errgroup.WithContext(ctx)
	for _, pkg := range r.cfg.Packages {
		pkg := pkg
		g.Go(func() error {
			p := r.cfg.ManifestPath(pkg)
			m, err := manifest.Load(p)
			if err != nil {
				fail("Unreadable manifest for %s: %v", pkg.Name, err)
				return nil
			}
			dir := filepath.Dir(p)
			for _, field := range r.cfg.EntryPoints {
				entry := m.Field(field)
				if entry == "" {
					fail("Missing entry for %q in %s", field, filepath.ToSlash(filepath.Join(pkg.SourceDir(r.cfg.PackagesDir), "package.json")))
					continue
				}
				filePath := filepath.Join(dir, entry)
				if _, err := os.Stat(filePath); err != nil {
					fail("Missing build file: %s", filePath)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if len(failures) > 0 {
		sort.Strings(failures)
		return ValidationFailure{Failures: failures}
	}
	return nil
}
