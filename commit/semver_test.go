package commit

import (
	"errors"
	"testing"

	"github.com/blang/semver/v4"
)

func TestLatestTag(t *testing.T) {
	tcs := []struct {
		name    string
		tags    []string
		channel string
		expect  string
	}{
		{name: "basic", tags: []string{"v1.0.0", "v1.2.0", "v1.1.0"}, expect: "v1.2.0"},
		{name: "numeric-order", tags: []string{"v1.10.0", "v1.9.0", "v1.2.0"}, expect: "v1.10.0"},
		{name: "skip-prerelease", tags: []string{"v1.2.0", "v1.3.0-beta.0"}, expect: "v1.2.0"},
		{name: "skip-invalid", tags: []string{"v1.2.0", "nope", "v2", ""}, expect: "v1.2.0"},
		{name: "beta", tags: []string{"v1.2.0", "v1.3.0-beta.0", "v1.3.0-beta.2", "v1.3.0-alpha.5"}, channel: "beta", expect: "v1.3.0-beta.2"},
		{name: "beta-numeric", tags: []string{"v1.3.0-beta.9", "v1.3.0-beta.10"}, channel: "beta", expect: "v1.3.0-beta.10"},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			tag, err := LatestTag(tc.tags, tc.channel)
			if err != nil {
				t.Fatal(err)
			}
			if tag != tc.expect {
				t.Fatalf("expected %q, got %q", tc.expect, tag)
			}
		})
	}

	if _, err := LatestTag([]string{"v1.3.0-beta.0"}, ""); !errors.Is(err, ErrNoTags) {
		t.Fatalf("expected ErrNoTags, got %v", err)
	}
}

func TestSortTagsStrictlyIncreasing(t *testing.T) {
	tagSets := [][]string{
		{"v0.1.0", "v0.0.1", "v0.1.0", "0.1.0", "v3.0.0", "v2.9.9", "v2.10.0"},
		{"v1.0.0-next.1", "v1.0.0-next.0", "v1.0.0-next.1", "v0.9.0-next.3", "v1.0.0"},
		{},
	}
	for _, tags := range tagSets {
		for _, channel := range []string{"", "next"} {
			sorted := SortTags(tags, channel)
			for i := 1; i < len(sorted); i++ {
				prev, _ := ParseTagVersion(sorted[i-1])
				curr, _ := ParseTagVersion(sorted[i])
				if !prev.LT(curr) {
					t.Fatalf("channel %q: %s is not less than %s in %v", channel, sorted[i-1], sorted[i], sorted)
				}
			}
		}
	}
}

func TestNextVersion(t *testing.T) {
	tcs := []struct {
		prev   string
		rt     ReleaseType
		preID  string
		expect string
	}{
		{prev: "1.2.0", rt: ReleasePatch, expect: "1.2.1"},
		{prev: "1.2.0", rt: ReleaseMinor, expect: "1.3.0"},
		{prev: "1.2.3", rt: ReleaseMajor, expect: "2.0.0"},
		{prev: "1.2.1-beta.0", rt: ReleasePatch, expect: "1.2.1"},
		{prev: "1.3.0-beta.2", rt: ReleaseMinor, expect: "1.3.0"},
		{prev: "2.0.0-rc.1", rt: ReleaseMajor, expect: "2.0.0"},
		{prev: "1.2.0-beta.3", rt: ReleasePatch, preID: "beta", expect: "1.2.0-beta.4"},
		{prev: "1.2.0", rt: ReleaseMinor, preID: "beta", expect: "1.2.1-beta.0"},
		{prev: "1.2.0-alpha.1", rt: ReleasePatch, preID: "beta", expect: "1.2.0-beta.0"},
	}

	for _, tc := range tcs {
		t.Run(tc.prev+"-"+tc.rt.String()+"-"+tc.preID, func(t *testing.T) {
			next, err := NextVersion(semver.MustParse(tc.prev), tc.rt, tc.preID)
			if err != nil {
				t.Fatal(err)
			}
			if next.String() != tc.expect {
				t.Fatalf("expected %s, got %s", tc.expect, next)
			}
		})
	}

	if _, err := NextVersion(semver.MustParse("1.0.0"), ReleaseSkip, ""); err == nil {
		t.Fatal("expected an error for a skipped release")
	}
}
