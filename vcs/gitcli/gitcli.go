// Package gitcli implements vcs.Interface using the git commandline tool.
package gitcli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jeffrom/shipit/config"
	"github.com/jeffrom/shipit/model"
	"github.com/jeffrom/shipit/shell"
	"github.com/jeffrom/shipit/vcs"
)

// Git implements vcs.Interface using the git commandline tool.
type Git struct {
	cfg config.Config
	wd  string
}

func New(cfg config.Config, wd string) *Git {
	return &Git{
		cfg: cfg,
		wd:  wd,
	}
}

func (g *Git) call(ctx context.Context, args ...string) ([]byte, error) {
	g.cfg.Debugf("+ git %s", shell.ArgsString(args))
	b, err := shell.Run(ctx, shell.Opts{Dir: g.wd}, "git", args...)
	if err != nil {
		return nil, fmt.Errorf("gitcli: %w", err)
	}
	return b, nil
}

func (g *Git) CurrentBranch(ctx context.Context) (string, error) {
	b, err := g.call(ctx, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

func (g *Git) RemoteURL(ctx context.Context) (string, error) {
	b, err := g.call(ctx, "config", "--get", "remote.origin.url")
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(strings.TrimSpace(string(b)), ".git"), nil
}

func (g *Git) Push(ctx context.Context, opts vcs.PushOpts) error {
	args := []string{"push"}
	if opts.Tags {
		args = append(args, "--tags")
	}
	_, err := g.call(ctx, args...)
	return err
}

func (g *Git) CommitAll(ctx context.Context, opts vcs.CommitOpts) error {
	if opts.Message == "" {
		return errors.New("gitcli: commit message is required")
	}
	if _, err := g.call(ctx, "add", "-A"); err != nil {
		return err
	}
	_, err := g.call(ctx, "commit", "-m", opts.Message)
	return err
}

const EXPECTED_LOG_PARTS = 10

func (g *Git) ReadCommits(ctx context.Context, query string) ([]*model.Commit, error) {
	b, err := g.call(ctx,
		"log", "--pretty=tformat:_START_%H_SEP_%h_SEP_%aN_SEP_%ae_SEP_%ai_SEP_%cN_SEP_%ce_SEP_%ci_SEP_%s_SEP_%b_END_", query,
	)
	if err != nil {
		return nil, err
	}
	return parseLog(b)
}

func parseLog(b []byte) ([]*model.Commit, error) {
	var commits []*model.Commit
	scanner := bufio.NewScanner(bytes.NewBuffer(b))
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		s := scanner.Text()
		if s == "" {
			continue
		}
		parts := strings.Split(s, "_SEP_")
		if len(parts) != EXPECTED_LOG_PARTS {
			return nil, fmt.Errorf("gitcli: expected %d parts from git log, got %d", EXPECTED_LOG_PARTS, len(parts))
		}

		commitID := parts[0]
		if !strings.HasPrefix(commitID, "_START_") {
			return nil, fmt.Errorf("gitcli: unexpected git log line: %q", s)
		}
		commitID = strings.TrimPrefix(commitID, "_START_")

		// body can be multiple lines.
		var body string
		bodypart := parts[len(parts)-1]
		if strings.HasSuffix(bodypart, "_END_") {
			body = strings.TrimSuffix(bodypart, "_END_")
		} else {
			var bodyb strings.Builder
			bodyb.WriteString(bodypart)
			bodyb.WriteString("\n")
			for scanner.Scan() {
				bodyline := scanner.Text()
				if strings.HasSuffix(bodyline, "_END_") {
					if trimmed := strings.TrimSpace(strings.TrimSuffix(bodyline, "_END_")); trimmed != "" {
						bodyb.WriteString(trimmed)
					}
					break
				}
				bodyb.WriteString(bodyline)
				bodyb.WriteString("\n")
			}
			body = bodyb.String()
		}

		authorDate, err := ParseGitISO8601(parts[4])
		if err != nil {
			return nil, err
		}
		committerDate, err := ParseGitISO8601(parts[7])
		if err != nil {
			return nil, err
		}

		commits = append(commits, &model.Commit{
			ID:             commitID,
			AbbrevID:       parts[1],
			Author:         parts[2],
			AuthorEmail:    parts[3],
			AuthorDate:     authorDate,
			Committer:      parts[5],
			CommitterEmail: parts[6],
			CommitterDate:  committerDate,
			Subject:        parts[8],
			Body:           strings.TrimSpace(body),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("gitcli: read log: %w", err)
	}
	return commits, nil
}

func (g *Git) ChangedFiles(ctx context.Context, ref string) ([]string, error) {
	b, err := g.call(ctx, "diff", ref, "--name-only")
	if err != nil {
		return nil, err
	}
	return shell.Lines(b), nil
}

func (g *Git) CreateTag(ctx context.Context, tag string, opts vcs.TagOpts) error {
	if opts.Message == "" {
		return errors.New("gitcli: message is required")
	}
	_, err := g.call(ctx, "tag", "-a", "-m", opts.Message, tag)
	return err
}

func (g *Git) TagsAtHead(ctx context.Context) ([]string, error) {
	b, err := g.call(ctx, "tag", "--list", "--points-at", "HEAD")
	if err != nil {
		return nil, err
	}
	return shell.Lines(b), nil
}

func (g *Git) ReadTags(ctx context.Context, query string) ([]string, error) {
	args := []string{"tag"}
	if query != "" {
		args = append(args, "-l", query)
	}
	b, err := g.call(ctx, args...)
	if err != nil {
		return nil, err
	}
	return shell.Lines(b), nil
}

// gitDateLayout is the layout of git log's %ai and %ci, such as
// 2020-08-17 16:26:10 -0700.
const gitDateLayout = "2006-01-02 15:04:05 -0700"

func ParseGitISO8601(s string) (time.Time, error) {
	return time.Parse(gitDateLayout, s)
}
