// Package ghcli implements hosting.Interface using the gh commandline tool.
package ghcli

import (
	"context"
	"fmt"

	"github.com/jeffrom/shipit/config"
	"github.com/jeffrom/shipit/hosting"
	"github.com/jeffrom/shipit/shell"
)

type GH struct {
	cfg config.Config
	wd  string
}

func New(cfg config.Config, wd string) *GH {
	return &GH{cfg: cfg, wd: wd}
}

func (g *GH) bin() string {
	if g.cfg.GH != "" {
		return g.cfg.GH
	}
	return "gh"
}

func (g *GH) CreateRelease(ctx context.Context, opts hosting.ReleaseOpts) error {
	args := []string{"release", "create", opts.Tag}
	if opts.Repo != "" {
		args = append(args, "--repo", opts.Repo)
	}
	if opts.Title != "" {
		args = append(args, "--title", opts.Title)
	}
	if opts.Prerelease {
		args = append(args, "--prerelease")
	}
	// the notes are long, keep them out of the debug line.
	g.cfg.Debugf("+ %s %s --notes ...", g.bin(), shell.ArgsString(args))
	args = append(args, "--notes", opts.Notes)

	var env []string
	if g.cfg.GithubToken != "" {
		env = append(env, "GH_TOKEN="+g.cfg.GithubToken)
	}
	if _, err := shell.Run(ctx, shell.Opts{Dir: g.wd, Env: env}, g.bin(), args...); err != nil {
		return fmt.Errorf("ghcli: %w", err)
	}
	return nil
}
