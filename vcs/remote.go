package vcs

import (
	"fmt"
	"regexp"
	"strings"
)

var repoURLREs = []*regexp.Regexp{
	regexp.MustCompile(`^https?://[^/]+/([^/]+)/([^/]+?)/?$`),
	regexp.MustCompile(`^(?:ssh://)?git@[^:/]+[:/]([^/]+)/([^/]+?)/?$`),
	regexp.MustCompile(`^git://[^/]+/([^/]+)/([^/]+?)/?$`),
}

// ParseRepoURL extracts the owner and repository name from a remote url in
// https, ssh or git protocol form.
func ParseRepoURL(remoteURL string) (owner, repo string, err error) {
	remoteURL = strings.TrimSuffix(strings.TrimSpace(remoteURL), ".git")
	for _, re := range repoURLREs {
		if m := re.FindStringSubmatch(remoteURL); len(m) == 3 {
			return m[1], m[2], nil
		}
	}
	return "", "", fmt.Errorf("vcs: unrecognized remote url: %q", remoteURL)
}
