package commit

import (
	"regexp"
	"strings"

	"github.com/leodido/go-conventionalcommits"
	"github.com/leodido/go-conventionalcommits/parser"

	"github.com/jeffrom/shipit/model"
)

// AnalyzedCommit is a commit with its parsed conventional commit fields.
type AnalyzedCommit struct {
	*model.Commit
	// Type is the lowercased conventional commit type, or empty when the
	// subject isn't a conventional commit.
	Type        string
	Kind        CommitType
	Scope       string
	Description string
}

// Breaking is true when the body carries a breaking change marker.
func (ac *AnalyzedCommit) Breaking() bool {
	return strings.Contains(ac.Body, BreakingChangeMarker)
}

// ReleaseAll is true when the subject or body asks for every package to be
// released.
func (ac *AnalyzedCommit) ReleaseAll() bool {
	return strings.Contains(ac.Subject, ReleaseAllMarker) || strings.Contains(ac.Body, ReleaseAllMarker)
}

// ReleaseType is the release this commit alone calls for.
func (ac *AnalyzedCommit) ReleaseType() ReleaseType {
	rt := ac.Kind.ReleaseType()
	if ac.Breaking() {
		rt = rt.Max(ReleaseMajor)
	}
	return rt
}

// Summary is the subject without its type and scope.
func (ac *AnalyzedCommit) Summary() string {
	if ac.Description != "" {
		return ac.Description
	}
	return ac.Subject
}

// laxSubjectRE accepts subjects the strict parser rejects, such as extra
// whitespace after the colon. A header still needs ": " to count as typed.
var laxSubjectRE = regexp.MustCompile(`^(?P<type>[A-Za-z0-9]+)(?:\((?P<scope>[^\)]+)\))?!?:\s+(?P<body>.+)$`)

// Parse parses the subject of c as a conventional commit.
func Parse(c *model.Commit) *AnalyzedCommit {
	ac := &AnalyzedCommit{Commit: c}

	m := parser.NewMachine(parser.WithTypes(conventionalcommits.TypesFreeForm))
	msg, err := m.Parse([]byte(c.Subject))
	if cc, ok := msg.(*conventionalcommits.ConventionalCommit); err == nil && ok && cc != nil {
		ac.Type = strings.ToLower(cc.Type)
		if cc.Scope != nil {
			ac.Scope = *cc.Scope
		}
		ac.Description = cc.Description
	} else if parts := laxSubjectRE.FindStringSubmatch(c.Subject); parts != nil {
		ac.Type = strings.ToLower(parts[laxSubjectRE.SubexpIndex("type")])
		ac.Scope = parts[laxSubjectRE.SubexpIndex("scope")]
		ac.Description = parts[laxSubjectRE.SubexpIndex("body")]
	}

	ac.Kind = CommitTypeFromString(ac.Type)
	return ac
}

// Excluded reports whether c is a merge or a previous version bump commit.
func Excluded(c *model.Commit) bool {
	return strings.HasPrefix(c.Subject, mergeSubjectPrefix) ||
		strings.HasPrefix(c.Subject, ReleaseSubjectPrefix)
}

type AnalyzedCommits []*AnalyzedCommit
