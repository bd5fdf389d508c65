package runner

import (
	"context"
	"errors"
	"fmt"

	"github.com/blang/semver/v4"

	"github.com/jeffrom/shipit/changeset"
	"github.com/jeffrom/shipit/commit"
	"github.com/jeffrom/shipit/config"
	"github.com/jeffrom/shipit/model"
)

// Branch returns the branch being released and its policy.
func (r *Runner) Branch(ctx context.Context) (string, model.BranchConfig, error) {
	branch := r.cfg.Branch
	if branch == "" {
		var err error
		branch, err = r.vcs.CurrentBranch(ctx)
		if err != nil {
			return "", model.BranchConfig{}, err
		}
	}

	bc, ok := r.cfg.BranchConfig(branch)
	if !ok {
		return branch, bc, Halt{
			Reason: fmt.Sprintf("Branch %q is not configured for releases, skipping.", branch),
			Err:    ErrNoBranchConfig,
		}
	}
	return branch, bc, nil
}

// Plan works out the packages to release, the version and the changelog.
// Nothing is modified.
func (r *Runner) Plan(ctx context.Context) (*Release, error) {
	branch, bc, err := r.Branch(ctx)
	if err != nil {
		return nil, err
	}
	r.cfg.Printf("Releasing branch %s (prerelease: %t)", branch, bc.Prerelease)
	rel := &Release{Branch: branch, BranchConfig: bc}

	var manual semver.Version
	if r.cfg.Tag != "" {
		manual, err = config.ParseTag(r.cfg.Tag)
		if err != nil {
			return nil, fmt.Errorf("runner: %w", err)
		}
		r.cfg.Warnf("Tag is set to %s. This will force release all packages. Publishing...", r.cfg.Tag)
	}

	baseline, err := r.analyzer.LatestRelease(ctx, branch, bc.Prerelease)
	if errors.Is(err, commit.ErrNoTags) {
		if r.cfg.Tag == "" {
			return nil, fmt.Errorf("runner: could not find the latest tag of branch %s. To make a release tag of v0.0.1, run with TAG=v0.0.1: %w", branch, err)
		}
	} else if err != nil {
		return nil, err
	}
	rel.Baseline = baseline
	r.cfg.Printf("Git range: %s", commit.RevisionRange(baseline))

	commits, err := r.analyzer.ReadCommitsSince(ctx, baseline)
	if err != nil {
		return nil, err
	}
	r.cfg.Printf("Parsing %d commits since %s...", len(commits), displayTag(baseline))
	for _, ac := range commits {
		r.cfg.Debugf("  %s %s: %s", ac.ShortID(), ac.ReleaseType(), ac.Subject)
	}

	rel.Analysis = commit.Analyze(commits)
	rel.ReleaseType = rel.Analysis.ReleaseType
	if r.cfg.Tag != "" {
		rel.Analysis.ReleaseAll = true
		if rel.ReleaseType == commit.ReleaseSkip {
			rel.ReleaseType = commit.ReleasePatch
		}
	} else {
		switch rel.ReleaseType {
		case commit.ReleaseMajor:
			return nil, Halt{Reason: "Major versions releases must be tagged and released manually."}
		case commit.ReleaseSkip:
			return nil, Halt{Reason: fmt.Sprintf("There have been no changes since the release of %s that require a new version. You're good!", baseline)}
		}
	}
	r.cfg.Debugf("release type: %s", rel.ReleaseType)

	rel.Changed, err = r.changedPackages(ctx, baseline, rel.Analysis.ReleaseAll)
	if err != nil {
		return nil, err
	}

	if r.cfg.Tag != "" {
		rel.Version = manual
	} else {
		prev, err := commit.ParseTagVersion(baseline)
		if err != nil {
			return nil, fmt.Errorf("runner: latest tag %s: %w", baseline, err)
		}
		preID := ""
		if bc.Prerelease {
			preID = branch
		}
		rel.Version, err = commit.NextVersion(prev, rel.ReleaseType, preID)
		if err != nil {
			return nil, err
		}
	}
	rel.Tag, err = r.tag.Render(rel.Version)
	if err != nil {
		return nil, err
	}

	rel.Changelog, err = r.changelog.Build(ctx, rel.Version.String(), r.cfg.Tag, rel.Analysis.Commits, rel.Changed.Packages())
	if err != nil {
		return nil, err
	}
	r.cfg.Printf("Generating changelog...\n\n%s\n", rel.Changelog)
	return rel, nil
}

func (r *Runner) changedPackages(ctx context.Context, baseline string, releaseAll bool) (*changeset.Set, error) {
	var files []string
	if r.cfg.Tag == "" {
		var err error
		files, err = r.vcs.ChangedFiles(ctx, baseline)
		if err != nil {
			return nil, err
		}
	}

	deps, err := changeset.LoadDependencies(ctx, r.cfg)
	if err != nil {
		return nil, err
	}
	set := changeset.Resolve(files, r.cfg.Packages, r.cfg.PackagesDir, deps, releaseAll)
	for _, pkg := range set.Packages() {
		r.cfg.Debugf("  %s: %s", pkg.Name, set.Reason(pkg.Name))
	}
	return set, nil
}

func displayTag(tag string) string {
	if tag == "" {
		return "the first commit"
	}
	return tag
}
