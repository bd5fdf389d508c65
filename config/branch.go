package config

import (
	"bufio"
	"fmt"
	"io"
	"sort"

	"github.com/jeffrom/shipit/model"
)

// BranchConfig returns the publish policy of branch. Branches without a
// policy are not released.
func (c Config) BranchConfig(branch string) (model.BranchConfig, bool) {
	bc, ok := c.Branches[branch]
	return bc, ok
}

func (c Config) IsLatestBranch(branch string) bool {
	return branch == c.LatestBranch
}

// DistTag returns the registry distribution tag packages are published under
// for branch.
func (c Config) DistTag(branch string) string {
	if c.IsLatestBranch(branch) {
		return "latest"
	}
	return branch
}

func (c Config) TextSummary(w io.Writer) error {
	bw := bufio.NewWriter(w)

	bw.WriteString(fmt.Sprintf("Latest branch: %s\n", c.LatestBranch))

	if len(c.Branches) > 0 {
		names := make([]string, 0, len(c.Branches))
		for name := range c.Branches {
			names = append(names, name)
		}
		sort.Strings(names)
		bw.WriteString("Branches:\n")
		for _, name := range names {
			bc := c.Branches[name]
			bw.WriteString(fmt.Sprintf("  %16s: prerelease=%t gh_release=%t\n", name, bc.Prerelease, bc.GHRelease))
		}
	}

	if len(c.Packages) > 0 {
		bw.WriteString("Packages:\n")
		for _, pkg := range c.Packages {
			bw.WriteString(fmt.Sprintf("  %32s: %s\n", pkg.Name, pkg.SourceDir(c.PackagesDir)))
		}
	}

	return bw.Flush()
}
