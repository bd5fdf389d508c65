// Package vcs abstracts version control systems. Currently just git.
package vcs

import (
	"context"

	"github.com/jeffrom/shipit/model"
)

type Interface interface {
	CurrentBranch(ctx context.Context) (string, error)
	// RemoteURL returns the url of the origin remote, without a .git suffix.
	RemoteURL(ctx context.Context) (string, error)
	ReadTags(ctx context.Context, query string) ([]string, error)
	// ReadCommits reads the commits of a revision range, newest first.
	ReadCommits(ctx context.Context, query string) ([]*model.Commit, error)
	// ChangedFiles lists the paths that differ between ref and the working
	// tree.
	ChangedFiles(ctx context.Context, ref string) ([]string, error)
	CreateTag(ctx context.Context, tag string, opts TagOpts) error
	// TagsAtHead lists the tags pointing at the current commit.
	TagsAtHead(ctx context.Context) ([]string, error)
	// CommitAll stages every change in the working tree and commits it.
	CommitAll(ctx context.Context, opts CommitOpts) error
	Push(ctx context.Context, opts PushOpts) error
}

type TagOpts struct {
	Message string
}

type CommitOpts struct {
	Message string
}

type PushOpts struct {
	// Tags pushes tags only.
	Tags bool
}
