package runner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"sort"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jeffrom/shipit/commit"
)

type Stats struct {
	// Since is the release tag the commits were counted from.
	Since   string
	Commits int64
	Counts  map[string][]*statCount
}

func (s *Stats) Add(bucket, name string, n int64) {
	counts := s.Counts[bucket]
	count, found := s.findCount(name, counts)
	if !found {
		counts = append(counts, count)
	}
	count.Add(n)

	s.Counts[bucket] = counts
}

// Count returns the count of name in bucket.
func (s *Stats) Count(bucket, name string) int64 {
	c, _ := s.findCount(name, s.Counts[bucket])
	return c.n
}

func (s *Stats) findCount(name string, counts []*statCount) (*statCount, bool) {
	for _, c := range counts {
		if c.label == name {
			return c, true
		}
	}
	return &statCount{label: name}, false
}

func (s *Stats) sortedBuckets() []string {
	buckets := make([]string, 0, len(s.Counts))
	for name := range s.Counts {
		buckets = append(buckets, name)
	}
	sort.Strings(buckets)
	return buckets
}

type statCount struct {
	label string
	n     int64
}

func (c *statCount) Add(n int64) {
	c.n += n
}

func (s *Stats) TextSummary(w io.Writer) error {
	bw := bufio.NewWriter(w)
	bw.WriteString(fmt.Sprintf("%d commits since %s\n\n", s.Commits, displayTag(s.Since)))

	for _, name := range s.sortedBuckets() {
		counts := s.Counts[name]
		sort.SliceStable(counts, func(i, j int) bool {
			return counts[i].n > counts[j].n
		})
		bw.WriteString(fmt.Sprintf("%s:\n", toTitle(name)))
		for _, count := range counts {
			label := count.label
			if label == "" {
				label = "n/a"
			}
			bw.WriteString(fmt.Sprintf("  %20s\t\t%d\n", label, count.n))
		}
		bw.WriteString("\n")
	}
	return bw.Flush()
}

// Stats counts the commits made since the last release of the current
// branch by type, scope and the release they call for.
func (r *Runner) Stats(ctx context.Context) (*Stats, error) {
	branch, bc, err := r.Branch(ctx)
	if err != nil && !errors.Is(err, ErrNoBranchConfig) {
		return nil, err
	}

	since, err := r.analyzer.LatestRelease(ctx, branch, bc.Prerelease)
	if err != nil && !errors.Is(err, commit.ErrNoTags) {
		return nil, err
	}
	commits, err := r.analyzer.ReadCommitsSince(ctx, since)
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		Since:   since,
		Commits: int64(len(commits)),
		Counts:  make(map[string][]*statCount),
	}
	for _, ac := range commits {
		typ := ac.Type
		if typ == "" {
			typ = "other"
		}
		stats.Add("scope", ac.Scope, 1)
		stats.Add("commit_type", typ, 1)
		stats.Add("release_type", ac.ReleaseType().String(), 1)
	}
	return stats, nil
}

var nonAlphaRE = regexp.MustCompile(`[^A-Za-z]`)

func toTitle(s string) string {
	s = nonAlphaRE.ReplaceAllLiteralString(s, " ")
	return cases.Title(language.English).String(s)
}
