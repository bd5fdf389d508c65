package commit

import (
	"context"

	"github.com/jeffrom/shipit/config"
	"github.com/jeffrom/shipit/vcs"
)

// Analysis is the reduction of the commits made since the last release.
type Analysis struct {
	Commits     AnalyzedCommits
	ReleaseType ReleaseType
	// ReleaseAll is set when any commit carries the release-all marker.
	ReleaseAll bool
}

type Analyzer struct {
	cfg config.Config
	vcs vcs.Interface
}

func NewAnalyzer(cfg config.Config, vcs vcs.Interface) *Analyzer {
	return &Analyzer{
		cfg: cfg,
		vcs: vcs,
	}
}

// LatestRelease returns the baseline tag for branch. prerelease selects the
// branch's prerelease channel instead of the latest channel.
func (a *Analyzer) LatestRelease(ctx context.Context, branch string, prerelease bool) (string, error) {
	tags, err := a.vcs.ReadTags(ctx, "")
	if err != nil {
		return "", err
	}
	channel := ""
	if prerelease {
		channel = branch
	}
	return LatestTag(tags, channel)
}

// ReadCommitsSince reads and parses the commits made after tag. Merge and
// version bump commits are left out. An empty tag reads the whole history.
func (a *Analyzer) ReadCommitsSince(ctx context.Context, tag string) (AnalyzedCommits, error) {
	commits, err := a.vcs.ReadCommits(ctx, RevisionRange(tag))
	if err != nil {
		return nil, err
	}

	var acs AnalyzedCommits
	for _, c := range commits {
		if Excluded(c) {
			a.cfg.Debugf("skipping commit %s: %s", c.ShortID(), c.Subject)
			continue
		}
		acs = append(acs, Parse(c))
	}
	return acs, nil
}

// RevisionRange returns the git revision range of the commits made after tag.
func RevisionRange(tag string) string {
	if tag == "" {
		return "HEAD"
	}
	return tag + "..HEAD"
}

// Analyze folds commits into the release they call for, starting from
// ReleaseSkip.
func Analyze(commits AnalyzedCommits) Analysis {
	an := Analysis{Commits: commits, ReleaseType: ReleaseSkip}
	for _, ac := range commits {
		an.ReleaseType = an.ReleaseType.Max(ac.ReleaseType())
		if ac.ReleaseAll() {
			an.ReleaseAll = true
		}
	}
	return an
}
