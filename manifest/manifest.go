// Package manifest reads and edits package.json files. Edits are made in
// place on the raw document, so key order and indentation survive a rewrite.
package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

const (
	Dependencies     = "dependencies"
	PeerDependencies = "peerDependencies"
)

var ErrNoVersion = errors.New("manifest: package has no version")

type Manifest struct {
	path string
	data []byte
}

// Load reads the manifest at path.
func Load(path string) (*Manifest, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: %w", err)
	}
	return Parse(path, b)
}

func Parse(path string, b []byte) (*Manifest, error) {
	if !gjson.ValidBytes(b) {
		return nil, fmt.Errorf("manifest: %s is not valid json", path)
	}
	if res := gjson.ParseBytes(b); !res.IsObject() {
		return nil, fmt.Errorf("manifest: %s is not a json object", path)
	}
	return &Manifest{path: path, data: b}, nil
}

func (m *Manifest) Name() string {
	return gjson.GetBytes(m.data, "name").String()
}

func (m *Manifest) Version() string {
	return gjson.GetBytes(m.data, "version").String()
}

// RequireVersion returns the version, or ErrNoVersion when it is missing.
func (m *Manifest) RequireVersion() (string, error) {
	v := m.Version()
	if v == "" {
		return "", fmt.Errorf("%w: %s", ErrNoVersion, m.path)
	}
	return v, nil
}

// Field returns a top-level string field, such as an entry point.
func (m *Manifest) Field(name string) string {
	return gjson.GetBytes(m.data, escape(name)).String()
}

// Deps returns the name -> version constraint map of a dependency section.
func (m *Manifest) Deps(section string) map[string]string {
	deps := make(map[string]string)
	gjson.GetBytes(m.data, escape(section)).ForEach(func(k, v gjson.Result) bool {
		deps[k.String()] = v.String()
		return true
	})
	return deps
}

// DependencyNames returns the sorted names of the dependencies and peer
// dependencies.
func (m *Manifest) DependencyNames() []string {
	seen := make(map[string]bool)
	var names []string
	for _, section := range []string{Dependencies, PeerDependencies} {
		for name := range m.Deps(section) {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names
}

func (m *Manifest) SetVersion(version string) error {
	b, err := sjson.SetBytes(m.data, "version", version)
	if err != nil {
		return fmt.Errorf("manifest: set version of %s: %w", m.path, err)
	}
	m.data = b
	return nil
}

// SetDependency rewrites the constraint of an existing dependency. It
// reports whether the dependency was found.
func (m *Manifest) SetDependency(section, name, version string) (bool, error) {
	p := escape(section) + "." + escape(name)
	if !gjson.GetBytes(m.data, p).Exists() {
		return false, nil
	}
	b, err := sjson.SetBytes(m.data, p, version)
	if err != nil {
		return false, fmt.Errorf("manifest: set %s %s of %s: %w", section, name, m.path, err)
	}
	m.data = b
	return true, nil
}

// Update loads the manifest at path, applies fn and atomically replaces the
// file. Nothing is written when fn leaves the content unchanged.
func Update(path string, fn func(m *Manifest) error) (bool, error) {
	m, err := Load(path)
	if err != nil {
		return false, err
	}
	orig := m.data
	if err := fn(m); err != nil {
		return false, err
	}
	if bytes.Equal(orig, m.data) {
		return false, nil
	}
	if err := WriteFile(path, m.data); err != nil {
		return false, err
	}
	return true, nil
}

// WriteFile replaces path with data by writing a temporary file in the same
// directory and renaming it over the original.
func WriteFile(path string, data []byte) error {
	mode := os.FileMode(0644)
	if fi, err := os.Stat(path); err == nil {
		mode = fi.Mode().Perm()
	}

	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("manifest: %w", err)
	}
	tmp := f.Name()
	defer os.Remove(tmp)

	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("manifest: write %s: %w", path, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("manifest: sync %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("manifest: %w", err)
	}
	if err := os.Chmod(tmp, mode); err != nil {
		return fmt.Errorf("manifest: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("manifest: replace %s: %w", path, err)
	}
	return nil
}

var pathEscaper = strings.NewReplacer(
	`\`, `\\`,
	".", `\.`,
	"*", `\*`,
	"?", `\?`,
	"@", `\@`,
	"#", `\#`,
	"|", `\|`,
	":", `\:`,
)

// escape quotes a key for use as a gjson/sjson path component. Scoped
// package names such as @acme/core contain path syntax.
func escape(key string) string {
	return pathEscaper.Replace(key)
}
