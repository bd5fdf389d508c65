// Package shipit versions and publishes the packages of a monorepo from the
// conventional commits made since the last release tag.
//
// Related packages: config, commit, changeset, changelog, manifest, runner,
// vcs, vcs/gitcli, pkgmgr, pkgmgr/npmcli, hosting, hosting/ghcli, ghusers
package shipit

import (
	"github.com/jeffrom/shipit/changelog"
	"github.com/jeffrom/shipit/config"
	"github.com/jeffrom/shipit/ghusers"
	"github.com/jeffrom/shipit/hosting/ghcli"
	"github.com/jeffrom/shipit/pkgmgr/npmcli"
	"github.com/jeffrom/shipit/runner"
	"github.com/jeffrom/shipit/vcs/gitcli"
)

// Version is overridden by go build -X.
var Version = "dev"

// Config holds the configuration of a release run. It is built for
// command-line use, so not all of its attributes apply to every operation.
//
// See "go doc github.com/jeffrom/shipit/config Config" for more information.
type Config = config.Config

// NewRunner returns a runner that works on cfg.RootDir with the git, npm and
// gh commandline tools. Changelog usernames are looked up on GitHub when
// cfg.GithubToken is set.
func NewRunner(cfg Config) (*runner.Runner, error) {
	var lookup changelog.UserLookup
	if cfg.GithubToken != "" {
		lookup = ghusers.New(cfg)
	}
	return runner.New(cfg,
		gitcli.New(cfg, cfg.RootDir),
		npmcli.New(cfg, cfg.RootDir),
		ghcli.New(cfg, cfg.RootDir),
		lookup,
	)
}
