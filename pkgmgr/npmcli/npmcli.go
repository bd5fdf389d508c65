// Package npmcli implements pkgmgr.Interface using the npm commandline tool.
package npmcli

import (
	"context"
	"fmt"
	"io"

	"github.com/jeffrom/shipit/config"
	"github.com/jeffrom/shipit/pkgmgr"
	"github.com/jeffrom/shipit/shell"
)

type NPM struct {
	cfg config.Config
	wd  string
}

func New(cfg config.Config, wd string) *NPM {
	return &NPM{cfg: cfg, wd: wd}
}

func (n *NPM) bin() string {
	if n.cfg.NPM != "" {
		return n.cfg.NPM
	}
	return "npm"
}

// call runs npm with its output streamed to the terminal.
func (n *NPM) call(ctx context.Context, dir string, env []string, args ...string) error {
	n.cfg.Debugf("+ %s %s", n.bin(), shell.ArgsString(args))
	var stdout io.Writer = n.cfg.Term.Stdout
	if n.cfg.Quiet {
		stdout = io.Discard
	}
	_, err := shell.Run(ctx, shell.Opts{
		Dir:    dir,
		Env:    env,
		Stdout: stdout,
		Stderr: n.cfg.Term.Stderr,
	}, n.bin(), args...)
	if err != nil {
		return fmt.Errorf("npmcli: %w", err)
	}
	return nil
}

func (n *NPM) Build(ctx context.Context) error {
	return n.call(ctx, n.wd, nil, "run", n.cfg.BuildScript)
}

func (n *NPM) Test(ctx context.Context) error {
	return n.call(ctx, n.wd, nil, "run", n.cfg.TestScript)
}

// Publish runs npm publish in dir. The registry token is handed to npm
// through the environment so it never shows up in the arguments.
func (n *NPM) Publish(ctx context.Context, dir string, opts pkgmgr.PublishOpts) error {
	args := []string{"publish"}
	if opts.DistTag != "" {
		args = append(args, "--tag", opts.DistTag)
	}
	if opts.Access != "" {
		args = append(args, "--access", opts.Access)
	}

	var env []string
	if n.cfg.NPMToken != "" {
		env = append(env, "NODE_AUTH_TOKEN="+n.cfg.NPMToken, "NPM_TOKEN="+n.cfg.NPMToken)
	}
	return n.call(ctx, dir, env, args...)
}
