// Package runner runs the release pipeline: it works out what changed since
// the last release, versions, builds, validates and tests the packages, and
// publishes them.
package runner

import (
	"context"
	"errors"

	"github.com/blang/semver/v4"

	"github.com/jeffrom/shipit/changelog"
	"github.com/jeffrom/shipit/changeset"
	"github.com/jeffrom/shipit/commit"
	"github.com/jeffrom/shipit/config"
	"github.com/jeffrom/shipit/hosting"
	"github.com/jeffrom/shipit/model"
	"github.com/jeffrom/shipit/pkgmgr"
	"github.com/jeffrom/shipit/vcs"
)

var ErrNoBranchConfig = errors.New("runner: branch is not configured for releases")

// Halt stops a release early without it being a failure, such as when there
// is nothing to release.
type Halt struct {
	Reason string
	Err    error
}

func (h Halt) Error() string { return h.Reason }

func (h Halt) Unwrap() error { return h.Err }

func (h Halt) Is(other error) bool {
	_, ok := other.(Halt)
	return ok
}

// IsHalt reports whether err stopped the release early.
func IsHalt(err error) bool {
	return errors.Is(err, Halt{})
}

type Runner struct {
	cfg       config.Config
	vcs       vcs.Interface
	pkgmgr    pkgmgr.Interface
	hosting   hosting.Interface
	analyzer  *commit.Analyzer
	tag       *commit.Tag
	changelog *changelog.Builder
}

// New returns a Runner. lookup resolves commit author usernames for the
// changelog and may be nil.
func New(cfg config.Config, vcs vcs.Interface, pm pkgmgr.Interface, host hosting.Interface, lookup changelog.UserLookup) (*Runner, error) {
	tag, err := commit.NewTag(cfg.TagTemplate)
	if err != nil {
		return nil, err
	}
	return &Runner{
		cfg:       cfg,
		vcs:       vcs,
		pkgmgr:    pm,
		hosting:   host,
		tag:       tag,
		analyzer:  commit.NewAnalyzer(cfg, vcs),
		changelog: changelog.New(cfg, lookup),
	}, nil
}

// Release is a planned release.
type Release struct {
	Branch       string
	BranchConfig model.BranchConfig
	// Baseline is the previous release tag. It is empty when releasing an
	// explicit tag in a repository without release tags.
	Baseline    string
	Analysis    commit.Analysis
	ReleaseType commit.ReleaseType
	Version     semver.Version
	// Tag is the tag the release is published under.
	Tag       string
	Changed   *changeset.Set
	Changelog *changelog.Entry
	// DryRun is set when the release stopped before publishing.
	DryRun bool
}

// Run plans a release, then builds, validates and tests the packages and
// updates their manifests. Publishing only happens in CI; otherwise the
// release is returned as a dry run.
func (r *Runner) Run(ctx context.Context) (*Release, error) {
	rel, err := r.Plan(ctx)
	if err != nil {
		return nil, err
	}
	if err := r.Prepare(ctx); err != nil {
		return nil, err
	}
	if err := r.UpdateManifests(ctx, rel); err != nil {
		return nil, err
	}

	if !r.cfg.InCI {
		r.cfg.Warnf("This is a dry run for version %s. Push to CI to publish for real or set CI=true to override!", rel.Version)
		rel.DryRun = true
		return rel, nil
	}
	if err := r.Publish(ctx, rel); err != nil {
		return nil, err
	}
	return rel, nil
}
