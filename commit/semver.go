package commit

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/blang/semver/v4"
)

var ErrNoTags = errors.New("commit: no release tags found")

type taggedVersion struct {
	tag string
	v   semver.Version
}

// SortTags returns the valid semver tags of a release channel in ascending
// order, one tag per version. An empty channel is the latest channel, which
// only has tags without a prerelease suffix. Any other channel only has tags
// containing "-<channel>".
func SortTags(tags []string, channel string) []string {
	seen := make(map[string]bool)
	var tvs []taggedVersion
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		v, err := semver.Parse(strings.TrimPrefix(tag, "v"))
		if err != nil {
			continue
		}

		if channel == "" && len(v.Pre) > 0 {
			continue
		} else if channel != "" && !strings.Contains(tag, "-"+channel) {
			continue
		}

		key := v.String()
		if seen[key] {
			continue
		}
		seen[key] = true
		tvs = append(tvs, taggedVersion{tag: tag, v: v})
	}

	sort.SliceStable(tvs, func(i, j int) bool {
		return tvs[i].v.LT(tvs[j].v)
	})

	res := make([]string, len(tvs))
	for i, tv := range tvs {
		res[i] = tv.tag
	}
	return res
}

// LatestTag returns the greatest tag of a release channel.
func LatestTag(tags []string, channel string) (string, error) {
	sorted := SortTags(tags, channel)
	if len(sorted) == 0 {
		return "", ErrNoTags
	}
	return sorted[len(sorted)-1], nil
}

// ParseTagVersion parses a tag with an optional "v" prefix.
func ParseTagVersion(tag string) (semver.Version, error) {
	return semver.Parse(strings.TrimPrefix(tag, "v"))
}

// NextVersion increments prev by rt. When preID is set, a prerelease
// increment is made instead, using preID as the prerelease identifier:
// 1.2.0-beta.3 becomes 1.2.0-beta.4 and 1.2.0 becomes 1.2.1-beta.0.
func NextVersion(prev semver.Version, rt ReleaseType, preID string) (semver.Version, error) {
	next := semver.Version{Major: prev.Major, Minor: prev.Minor, Patch: prev.Patch}
	if preID != "" {
		return nextPrerelease(prev, preID)
	}

	isPre := len(prev.Pre) > 0
	switch rt {
	case ReleaseMajor:
		if !isPre || prev.Minor != 0 || prev.Patch != 0 {
			next.Major++
			next.Minor = 0
			next.Patch = 0
		}
	case ReleaseMinor:
		if !isPre || prev.Patch != 0 {
			next.Minor++
			next.Patch = 0
		}
	case ReleasePatch:
		if !isPre {
			next.Patch++
		}
	default:
		return semver.Version{}, fmt.Errorf("commit: invalid release type %s", rt)
	}
	return next, nil
}

func nextPrerelease(prev semver.Version, preID string) (semver.Version, error) {
	id, err := semver.NewPRVersion(preID)
	if err != nil {
		return semver.Version{}, fmt.Errorf("commit: invalid prerelease identifier %q: %w", preID, err)
	}

	next := semver.Version{Major: prev.Major, Minor: prev.Minor, Patch: prev.Patch}
	if len(prev.Pre) == 0 {
		next.Patch++
		next.Pre = []semver.PRVersion{id, {VersionNum: 0, IsNum: true}}
		return next, nil
	}

	if len(prev.Pre) == 2 && prev.Pre[0].Compare(id) == 0 && prev.Pre[1].IsNum {
		next.Pre = []semver.PRVersion{id, {VersionNum: prev.Pre[1].VersionNum + 1, IsNum: true}}
		return next, nil
	}
	next.Pre = []semver.PRVersion{id, {VersionNum: 0, IsNum: true}}
	return next, nil
}
