// Package commit contains code for reading, classifying and versioning
// commits.
package commit

import "strings"

// ReleaseType is the version bump a set of commits calls for. The zero value
// is invalid; ReleaseSkip means no release is needed.
type ReleaseType int

const (
	_ ReleaseType = iota

	ReleaseSkip
	ReleasePatch
	ReleaseMinor
	ReleaseMajor
)

func (t ReleaseType) String() string {
	switch t {
	case ReleaseSkip:
		return "SKIP"
	case ReleasePatch:
		return "PATCH"
	case ReleaseMinor:
		return "MINOR"
	case ReleaseMajor:
		return "MAJOR"
	case 0:
		return "<INVALID>"
	default:
		return "<UNKNOWN>"
	}
}

// Max returns the more disruptive of t and other.
func (t ReleaseType) Max(other ReleaseType) ReleaseType {
	if other > t {
		return other
	}
	return t
}

// Markers scanned for in commit messages.
const (
	BreakingChangeMarker = "BREAKING CHANGE"
	ReleaseAllMarker     = "RELEASE_ALL"
)

// ReleaseSubjectPrefix starts the subject of every version bump commit.
const ReleaseSubjectPrefix = "release: v"

const mergeSubjectPrefix = "Merge branch "

// ReleaseMessage returns the commit message for the version bump commit.
func ReleaseMessage(version string) string {
	return ReleaseSubjectPrefix + strings.TrimPrefix(version, "v")
}
