package vcs

import "testing"

func TestParseRepoURL(t *testing.T) {
	tcs := []struct {
		url   string
		owner string
		repo  string
		fail  bool
	}{
		{url: "https://github.com/acme/widgets.git", owner: "acme", repo: "widgets"},
		{url: "https://github.com/acme/widgets", owner: "acme", repo: "widgets"},
		{url: "git@github.com:acme/widgets.git", owner: "acme", repo: "widgets"},
		{url: "ssh://git@github.com/acme/widgets.git", owner: "acme", repo: "widgets"},
		{url: "git://github.com/acme/widgets", owner: "acme", repo: "widgets"},
		{url: "/tmp/some/bare/repo", fail: true},
	}

	for _, tc := range tcs {
		t.Run(tc.url, func(t *testing.T) {
			owner, repo, err := ParseRepoURL(tc.url)
			if tc.fail {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if owner != tc.owner || repo != tc.repo {
				t.Fatalf("expected %s/%s, got %s/%s", tc.owner, tc.repo, owner, repo)
			}
		})
	}
}
