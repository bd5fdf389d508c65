package changelog

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeffrom/shipit/commit"
	"github.com/jeffrom/shipit/config"
	"github.com/jeffrom/shipit/model"
)

type mapLookup map[string]string

func (m mapLookup) Username(ctx context.Context, email string) (string, error) {
	if email == "broken@example.com" {
		return "", errors.New("boom")
	}
	return m[email], nil
}

func analyzed(subjects ...string) commit.AnalyzedCommits {
	var acs commit.AnalyzedCommits
	for i, s := range subjects {
		acs = append(acs, commit.Parse(&model.Commit{
			ID:          string(rune('a'+i)) + "234567890",
			Subject:     s,
			Author:      "Jo Dev",
			AuthorEmail: "jo@example.com",
		}))
	}
	return acs
}

func testConfig() config.Config {
	return config.NewWithTerminalIO(nil, &config.TerminalIO{Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}})
}

func TestGroupCommits(t *testing.T) {
	commits := analyzed(
		"docs: readme",
		"fix(core): x",
		"not conventional",
		"ci: pipeline",
		"feat: y",
		"fix: z",
		"build: bundler",
	)
	groups := GroupCommits(commits)

	var types []string
	for _, g := range groups {
		types = append(types, g.Type)
	}
	assert.Equal(t, []string{"feat", "fix", "docs", "other", "build", "ci"}, types)
	require.Len(t, groups[1].Lines, 2)
	assert.Equal(t, "core", groups[1].Lines[0].Scope)
	assert.Equal(t, "z", groups[1].Lines[1].Subject)
	assert.Equal(t, "### Feat", groups[0].Heading())
}

func TestBuild(t *testing.T) {
	commits := analyzed("fix(core): x", "feat: y")
	commits[1].AuthorEmail = "sam@example.com"
	commits[1].Author = "Sam"

	b := New(testConfig(), mapLookup{"jo@example.com": "jodev"})
	b.now = func() time.Time { return time.Date(2020, 8, 17, 16, 26, 0, 0, time.UTC) }

	pkgs := []model.Package{{Name: "@acme/core", PackageDir: "core"}, {Name: "@acme/react", PackageDir: "react"}}
	e, err := b.Build(context.Background(), "1.3.0", "", commits, pkgs)
	require.NoError(t, err)

	expected := `Version 1.3.0 - 8/17/2020, 4:26 PM

## Changes

### Feat

- y (b234567) by Sam

### Fix

- core: x (a234567) by @jodev

## Packages

- @acme/core@1.3.0
- @acme/react@1.3.0`
	assert.Equal(t, expected, e.String())
}

func TestBuildManual(t *testing.T) {
	b := New(testConfig(), nil)
	b.now = func() time.Time { return time.Date(2021, 1, 2, 9, 5, 0, 0, time.UTC) }

	e, err := b.Build(context.Background(), "2.0.0", "v2.0.0", nil, []model.Package{{Name: "core", PackageDir: "core"}})
	require.NoError(t, err)
	assert.Equal(t, "Manual Release: v2.0.0", e.Changes())
	assert.Equal(t, "Version 2.0.0 - 1/2/2021, 9:05 AM\n\n## Changes\n\nManual Release: v2.0.0\n\n## Packages\n\n- core@2.0.0", e.String())
}

func TestBuildLookupFailure(t *testing.T) {
	commits := analyzed("fix: x")
	commits[0].AuthorEmail = "broken@example.com"

	e, err := New(testConfig(), mapLookup{}).Build(context.Background(), "1.0.1", "", commits, nil)
	require.NoError(t, err)
	assert.Equal(t, "### Fix\n\n- x (a234567) by Jo Dev", e.Changes())
}
