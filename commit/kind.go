package commit

// CommitType is the conventional commit type of a commit. Types that are not
// known to the release process are CommitUnknown; commits that could not be
// parsed at all are CommitOther.
type CommitType int

const (
	CommitOther CommitType = iota
	CommitUnknown
	CommitExamples
	CommitDocs
	CommitChore
	CommitRefactor
	CommitPerf
	CommitFix
	CommitFeat
)

var commitTypeNames = map[string]CommitType{
	"examples": CommitExamples,
	"docs":     CommitDocs,
	"chore":    CommitChore,
	"refactor": CommitRefactor,
	"perf":     CommitPerf,
	"fix":      CommitFix,
	"feat":     CommitFeat,
}

// CommitTypeFromString maps a lowercased type to its CommitType.
func CommitTypeFromString(s string) CommitType {
	if s == "" {
		return CommitOther
	}
	if t, ok := commitTypeNames[s]; ok {
		return t
	}
	return CommitUnknown
}

// ReleaseType returns the minimum release a commit of this type requires.
func (t CommitType) ReleaseType() ReleaseType {
	switch t {
	case CommitFix, CommitRefactor, CommitPerf:
		return ReleasePatch
	case CommitFeat:
		return ReleaseMinor
	}
	return ReleaseSkip
}
