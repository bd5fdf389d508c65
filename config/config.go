// Package config holds the configuration of a release run: defaults, the
// shipit.yaml file, environment variables, and terminal output helpers.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/blang/semver/v4"
	"github.com/imdario/mergo"

	"github.com/jeffrom/shipit/model"
)

type Config struct {
	Debug bool `json:"debug,omitempty"`
	Quiet bool `json:"quiet,omitempty"`
	// InCI gates everything that leaves the machine: tagging, publishing,
	// pushing and creating the hosted release.
	InCI bool `json:"ci,omitempty"`

	// Branch overrides the detected git branch.
	Branch string `json:"branch,omitempty"`
	// Tag is an explicit version tag, such as v1.2.3. Setting it forces a
	// release of every package.
	Tag string `json:"tag,omitempty"`

	GithubToken string `json:"-"`
	NPMToken    string `json:"-"`

	RootDir      string                        `json:"root_dir,omitempty"`
	PackagesDir  string                        `json:"packages_dir,omitempty"`
	LatestBranch string                        `json:"latest_branch,omitempty"`
	Branches     map[string]model.BranchConfig `json:"branches,omitempty"`
	Packages     []model.Package               `json:"packages,omitempty"`
	ExamplesDirs []string                      `json:"examples_dirs,omitempty"`
	EntryPoints  []string                      `json:"entry_points,omitempty"`

	NPM         string `json:"npm,omitempty"`
	GH          string `json:"gh,omitempty"`
	BuildScript string `json:"build_script,omitempty"`
	TestScript  string `json:"test_script,omitempty"`
	Access      string `json:"access,omitempty"`
	TagTemplate string `json:"tag_template,omitempty"`

	// LookupRate is the number of username lookups allowed per second.
	LookupRate float64 `json:"lookup_rate,omitempty"`

	Term TerminalIO `json:"-"`
}

func New(overrides *Config) Config {
	return NewWithTerminalIO(overrides, nil)
}

func NewWithTerminalIO(overrides *Config, termio *TerminalIO) Config {
	cfg := GetDefault()
	if termio == nil {
		termio = &DefaultTermIO
	}
	cfg.Term = *termio

	if overrides != nil {
		if err := cfg.Merge(overrides); err != nil {
			panic(err)
		}
	}
	return cfg
}

// Merge overrides c with the non-zero fields of other. A non-empty Branches
// in other replaces the branch policies of c instead of adding to them.
func (c *Config) Merge(other *Config) error {
	if other == nil {
		return nil
	}
	term := c.Term
	if err := mergo.Merge(c, *other, mergo.WithOverride); err != nil {
		return fmt.Errorf("config: merge: %w", err)
	}
	if len(other.Branches) > 0 {
		c.Branches = make(map[string]model.BranchConfig, len(other.Branches))
		for name, bc := range other.Branches {
			c.Branches[name] = bc
		}
	}
	if other.Term.Stdout == nil {
		c.Term = term
	}
	return nil
}

func (c Config) Validate() error {
	var errs []string
	if c.LatestBranch == "" {
		errs = append(errs, "latest_branch is required")
	} else if _, ok := c.Branches[c.LatestBranch]; !ok {
		errs = append(errs, fmt.Sprintf("latest branch %q has no branch config", c.LatestBranch))
	}

	if len(c.Packages) == 0 {
		errs = append(errs, "at least one package must be configured")
	}
	seen := make(map[string]bool)
	for i, pkg := range c.Packages {
		if pkg.Name == "" || pkg.PackageDir == "" {
			errs = append(errs, fmt.Sprintf("package %d needs a name and a package_dir", i))
			continue
		}
		if seen[pkg.Name] {
			errs = append(errs, fmt.Sprintf("package %q is declared more than once", pkg.Name))
		}
		seen[pkg.Name] = true
	}

	if c.Tag != "" {
		if _, err := ParseTag(c.Tag); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if c.LookupRate < 0 {
		errs = append(errs, "lookup_rate must not be negative")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: invalid configuration: %s", strings.Join(errs, "; "))
	}
	return nil
}

var ErrTagPrefix = errors.New(`tag must start with "v"`)

// ParseTag parses an explicit version tag such as v1.2.3.
func ParseTag(tag string) (semver.Version, error) {
	if !strings.HasPrefix(tag, "v") {
		return semver.Version{}, fmt.Errorf("%w, eg. v0.0.0. You supplied %s", ErrTagPrefix, tag)
	}
	v, err := semver.Parse(strings.TrimPrefix(tag, "v"))
	if err != nil {
		return semver.Version{}, fmt.Errorf("invalid tag %q: %w", tag, err)
	}
	return v, nil
}

// ManifestPath returns the package.json path of pkg.
func (c Config) ManifestPath(pkg model.Package) string {
	return pkg.ManifestPath(c.RootDir, c.PackagesDir)
}
