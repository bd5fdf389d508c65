// Package changelog renders the release notes of a version from the commits
// made since the previous release.
package changelog

import (
	"bytes"
	"context"
	"io"
	"sort"
	"strings"
	"text/template"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jeffrom/shipit/commit"
	"github.com/jeffrom/shipit/config"
	"github.com/jeffrom/shipit/model"
)

// DateLayout formats the release date, such as 8/17/2020, 4:26 PM.
const DateLayout = "1/2/2006, 3:04 PM"

const otherType = "other"

// groupOrder lists the commit types from the bottom of the changelog to the
// top. Types not listed here go below all of them.
var groupOrder = []string{otherType, "examples", "docs", "chore", "refactor", "perf", "fix", "feat"}

const defaultTemplate = `Version {{ .Version }} - {{ .Date.Format .DateLayout }}

## Changes

{{ .Changes }}

## Packages

{{ range $i, $pkg := .Packages }}{{ if $i }}
{{ end }}- {{ $pkg.Name }}@{{ $.Version }}{{ end }}`

// UserLookup resolves the code hosting username of a commit author.
type UserLookup interface {
	// Username returns the username for email, or an empty string if there
	// is none.
	Username(ctx context.Context, email string) (string, error)
}

// Line is a rendered commit.
type Line struct {
	Scope    string
	Subject  string
	ShortID  string
	Author   string
	Username string
}

func (l Line) String() string {
	var b strings.Builder
	b.WriteString("- ")
	if l.Scope != "" {
		b.WriteString(l.Scope)
		b.WriteString(": ")
	}
	b.WriteString(l.Subject)
	b.WriteString(" (")
	b.WriteString(l.ShortID)
	b.WriteString(") by ")
	if l.Username != "" {
		b.WriteString("@")
		b.WriteString(l.Username)
	} else {
		b.WriteString(l.Author)
	}
	return b.String()
}

// Group is the lines of one commit type.
type Group struct {
	Type  string
	Lines []Line
}

// Heading is the markdown heading of the group, such as "### Feat".
func (g Group) Heading() string {
	return "### " + cases.Title(language.English).String(g.Type)
}

// Entry is the changelog of a single release.
type Entry struct {
	Version string
	Date    time.Time
	// Manual replaces the commit groups with a manual release line.
	Manual   string
	Groups   []Group
	Packages []model.Package
}

// Changes renders the commit groups.
func (e *Entry) Changes() string {
	if e.Manual != "" {
		return "Manual Release: " + e.Manual
	}
	parts := make([]string, len(e.Groups))
	for i, g := range e.Groups {
		lines := make([]string, len(g.Lines))
		for j, l := range g.Lines {
			lines[j] = l.String()
		}
		parts[i] = g.Heading() + "\n\n" + strings.Join(lines, "\n")
	}
	return strings.Join(parts, "\n\n")
}

type templateData struct {
	*Entry
	DateLayout string
}

// Render writes the changelog document to w.
func (e *Entry) Render(w io.Writer) error {
	t, err := template.New("changelog").Parse(defaultTemplate)
	if err != nil {
		return err
	}
	return t.Execute(w, templateData{Entry: e, DateLayout: DateLayout})
}

func (e *Entry) String() string {
	b := &bytes.Buffer{}
	if err := e.Render(b); err != nil {
		return err.Error()
	}
	return b.String()
}

// Builder builds changelog entries from analyzed commits.
type Builder struct {
	cfg    config.Config
	lookup UserLookup
	now    func() time.Time
}

// New returns a Builder. lookup may be nil, in which case commits are
// credited to the author's name.
func New(cfg config.Config, lookup UserLookup) *Builder {
	return &Builder{cfg: cfg, lookup: lookup, now: time.Now}
}

// Build returns the changelog of version. manualTag is the explicit release
// tag, if any.
func (b *Builder) Build(ctx context.Context, version, manualTag string, commits commit.AnalyzedCommits, pkgs []model.Package) (*Entry, error) {
	e := &Entry{
		Version:  version,
		Date:     b.now(),
		Manual:   manualTag,
		Packages: pkgs,
	}
	if manualTag != "" {
		return e, nil
	}

	groups := groupCommits(commits)
	g, ctx := errgroup.WithContext(ctx)
	for i := range groups {
		for j := range groups[i].Lines {
			line := &groups[i].Lines[j]
			ac := groups[i].commits[j]
			g.Go(func() error {
				line.Username = b.username(ctx, ac)
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, grp := range groups {
		e.Groups = append(e.Groups, grp.Group)
	}
	return e, nil
}

func (b *Builder) username(ctx context.Context, ac *commit.AnalyzedCommit) string {
	if b.lookup == nil {
		return ""
	}
	email := ac.Email()
	if email == "" {
		return ""
	}
	name, err := b.lookup.Username(ctx, email)
	if err != nil {
		b.cfg.Debugf("username lookup for %s failed: %v", email, err)
		return ""
	}
	return name
}

type commitGroup struct {
	Group
	commits []*commit.AnalyzedCommit
}

// GroupCommits groups commits by type, in the order they appear in the
// changelog. Commits keep their order within a group.
func GroupCommits(commits commit.AnalyzedCommits) []Group {
	cgs := groupCommits(commits)
	groups := make([]Group, len(cgs))
	for i, cg := range cgs {
		groups[i] = cg.Group
	}
	return groups
}

func groupCommits(commits commit.AnalyzedCommits) []commitGroup {
	var groups []commitGroup
	byType := make(map[string]int)
	for _, ac := range commits {
		typ := ac.Type
		if typ == "" {
			typ = otherType
		}
		i, ok := byType[typ]
		if !ok {
			i = len(groups)
			byType[typ] = i
			groups = append(groups, commitGroup{Group: Group{Type: typ}})
		}
		groups[i].Lines = append(groups[i].Lines, lineFor(ac))
		groups[i].commits = append(groups[i].commits, ac)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groupIndex(groups[i].Type) < groupIndex(groups[j].Type)
	})
	for i, j := 0, len(groups)-1; i < j; i, j = i+1, j-1 {
		groups[i], groups[j] = groups[j], groups[i]
	}
	return groups
}

func groupIndex(typ string) int {
	for i, t := range groupOrder {
		if t == typ {
			return i
		}
	}
	return -1
}

func lineFor(ac *commit.AnalyzedCommit) Line {
	author := ac.Author
	if author == "" {
		author = ac.Email()
	}
	return Line{
		Scope:   ac.Scope,
		Subject: ac.Summary(),
		ShortID: ac.ShortID(),
		Author:  author,
	}
}
