// Package hosting creates releases on the code hosting service. Currently
// just GitHub.
package hosting

import "context"

type Interface interface {
	CreateRelease(ctx context.Context, opts ReleaseOpts) error
}

type ReleaseOpts struct {
	Tag   string
	Title string
	// Notes is the markdown body of the release.
	Notes      string
	Prerelease bool
	// Repo is the owner/name of the repository. When empty the repository
	// of the working directory is used.
	Repo string
}
