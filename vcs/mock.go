package vcs

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jeffrom/shipit/model"
)

// Mock is an in-memory Interface. It records every mutating call so tests
// can assert on them.
type Mock struct {
	mu          sync.Mutex
	t           time.Time
	branch      string
	remoteURL   string
	tags        []string
	headTags    []string
	commits     []*model.Commit
	files       []string
	commitQuery string
	calls       []string
}

func NewMock() *Mock {
	return &Mock{
		t:      time.Now(),
		branch: "main",
	}
}

func (m *Mock) SetBranch(branch string) *Mock {
	m.branch = branch
	return m
}

func (m *Mock) SetRemoteURL(u string) *Mock {
	m.remoteURL = u
	return m
}

func (m *Mock) SetTags(tags ...string) *Mock {
	m.tags = tags
	return m
}

func (m *Mock) SetChangedFiles(files ...string) *Mock {
	m.files = files
	return m
}

func (m *Mock) SetCommits(commits ...*model.Commit) *Mock {
	finalCommits := make([]*model.Commit, len(commits))
	for i, commit := range commits {
		c := *commit
		if c.CommitterDate.IsZero() {
			c.CommitterDate = m.t
			m.t = m.t.Add(-time.Minute)
		}
		finalCommits[i] = &c
	}
	m.commits = finalCommits
	return m
}

// Calls returns the mutating operations performed, in order.
func (m *Mock) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// LastCommitQuery returns the last revision range passed to ReadCommits.
func (m *Mock) LastCommitQuery() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.commitQuery
}

func (m *Mock) record(format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, fmt.Sprintf(format, args...))
}

func (m *Mock) CurrentBranch(ctx context.Context) (string, error) {
	return m.branch, nil
}

func (m *Mock) RemoteURL(ctx context.Context) (string, error) {
	return m.remoteURL, nil
}

func (m *Mock) ReadTags(ctx context.Context, query string) ([]string, error) {
	var tags []string
	for _, t := range m.tags {
		if query == "" || globMatches(t, query) {
			tags = append(tags, t)
		}
	}
	return tags, nil
}

func (m *Mock) ReadCommits(ctx context.Context, query string) ([]*model.Commit, error) {
	m.mu.Lock()
	m.commitQuery = query
	m.mu.Unlock()
	return m.commits, nil
}

func (m *Mock) ChangedFiles(ctx context.Context, ref string) ([]string, error) {
	return m.files, nil
}

func (m *Mock) CreateTag(ctx context.Context, tag string, opts TagOpts) error {
	m.record("tag %s", tag)
	m.mu.Lock()
	m.tags = append(m.tags, tag)
	m.headTags = append(m.headTags, tag)
	m.mu.Unlock()
	return nil
}

func (m *Mock) TagsAtHead(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.headTags...), nil
}

func (m *Mock) CommitAll(ctx context.Context, opts CommitOpts) error {
	m.record("commit %s", opts.Message)
	return nil
}

func (m *Mock) Push(ctx context.Context, opts PushOpts) error {
	if opts.Tags {
		m.record("push --tags")
	} else {
		m.record("push")
	}
	return nil
}

func globMatches(s string, glob string) bool {
	parts := strings.Split(glob, "*")
	remaining := s
	for {
		if len(parts) == 0 {
			break
		}
		part := parts[0]
		parts = parts[1:]

		if !strings.HasPrefix(remaining, part) {
			return false
		}
		remaining = strings.TrimPrefix(remaining, part)
	}
	if len(glob) > 0 && glob[len(glob)-1] == '*' {
		return true
	}
	return remaining == ""
}
