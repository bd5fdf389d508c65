package runner

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/jeffrom/shipit/commit"
	"github.com/jeffrom/shipit/hosting"
	"github.com/jeffrom/shipit/pkgmgr"
	"github.com/jeffrom/shipit/vcs"
)

// Publish tags the release, publishes the changed packages and pushes. When
// the branch asks for it, a hosted release is created and the manifest
// changes are committed and pushed too.
func (r *Runner) Publish(ctx context.Context, rel *Release) error {
	r.cfg.Printf("Creating new git tag %s", rel.Tag)
	if err := r.vcs.CreateTag(ctx, rel.Tag, vcs.TagOpts{Message: rel.Tag}); err != nil {
		return err
	}
	if err := r.checkTagAtHead(ctx, rel.Tag); err != nil {
		return err
	}

	distTag := r.cfg.DistTag(rel.Branch)
	r.cfg.Printf("Publishing all packages with tag %q", distTag)
	for _, pkg := range rel.Changed.Packages() {
		r.cfg.Printf("  Publishing %s@%s with tag %q...", pkg.Name, rel.Version, distTag)
		dir := filepath.Join(r.cfg.RootDir, r.cfg.PackagesDir, pkg.PackageDir)
		if err := r.pkgmgr.Publish(ctx, dir, pkgmgr.PublishOpts{DistTag: distTag, Access: r.cfg.Access}); err != nil {
			return err
		}
	}

	r.cfg.Printf("Pushing new tags to branch.")
	if err := r.vcs.Push(ctx, vcs.PushOpts{Tags: true}); err != nil {
		return err
	}

	if rel.BranchConfig.GHRelease {
		if err := r.hostedRelease(ctx, rel); err != nil {
			return err
		}
	} else {
		r.cfg.Printf("Skipping github release and change commit.")
	}

	r.cfg.Printf("Pushing tags...")
	if err := r.vcs.Push(ctx, vcs.PushOpts{Tags: true}); err != nil {
		return err
	}
	r.cfg.Printf("All done!")
	return nil
}

func (r *Runner) checkTagAtHead(ctx context.Context, tag string) error {
	tags, err := r.vcs.TagsAtHead(ctx)
	if err != nil {
		return err
	}
	for _, t := range tags {
		if t == tag {
			return nil
		}
	}
	return fmt.Errorf("runner: tag %s is not at HEAD (found %v)", tag, tags)
}

func (r *Runner) hostedRelease(ctx context.Context, rel *Release) error {
	r.cfg.Printf("Creating github release...")
	opts := hosting.ReleaseOpts{
		Tag:        rel.Tag,
		Title:      rel.Tag,
		Notes:      rel.Changelog.String(),
		Prerelease: !r.cfg.IsLatestBranch(rel.Branch),
	}
	if u, err := r.vcs.RemoteURL(ctx); err != nil {
		r.cfg.Debugf("could not read remote url: %v", err)
	} else if owner, repo, err := vcs.ParseRepoURL(u); err != nil {
		r.cfg.Debugf("could not parse remote url %q: %v", u, err)
	} else {
		opts.Repo = owner + "/" + repo
	}
	if err := r.hosting.CreateRelease(ctx, opts); err != nil {
		return err
	}

	r.cfg.Printf("Committing changes...")
	if err := r.vcs.CommitAll(ctx, vcs.CommitOpts{Message: commit.ReleaseMessage(rel.Version.String())}); err != nil {
		return err
	}
	r.cfg.Printf("Pushing changes...")
	return r.vcs.Push(ctx, vcs.PushOpts{})
}
