package main

import (
	"fmt"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sosedoff/gitkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type gitServer struct {
	dir  string
	svc  *gitkit.Server
	http *httptest.Server
}

// newGitServer serves the repositories of a temporary directory over http.
// Repositories are created when first accessed.
func newGitServer(t *testing.T) *gitServer {
	t.Helper()
	dir := t.TempDir()
	svc := gitkit.New(gitkit.Config{
		Dir:        dir,
		AutoCreate: true,
	})
	require.NoError(t, svc.Setup())

	srv := httptest.NewServer(svc)
	t.Cleanup(srv.Close)
	t.Logf("Test git server listening: %s", srv.Listener.Addr())
	return &gitServer{dir: dir, svc: svc, http: srv}
}

func (g *gitServer) url(repo string) string {
	return fmt.Sprintf("http://%s/%s.git", g.http.Listener.Addr(), repo)
}

func TestCIMode(t *testing.T) {
	setupEnv(t)

	srv := newGitServer(t)
	dir := filepath.Join(t.TempDir(), "acme")
	gitIn(t, filepath.Dir(dir), "clone", srv.url("acme"), dir)

	r := newTestRepo(t, dir)
	r.git("push", "-u", "origin", "main")
	r.git("push", "--tags")
	r.commit("feat(core): y", "packages/core/src/index.js")
	r.git("push")

	_, _, err := r.shipit("--ci")
	require.NoError(t, err)

	// check results in the "remote"
	bare := filepath.Join(srv.dir, "acme.git")
	assert.Equal(t, "v1.2.0\nv1.3.0", gitIn(t, bare, "tag", "--list"))
	assert.Equal(t, "release: v1.3.0", gitIn(t, bare, "log", "-1", "--format=%s", "main"))
	assert.Equal(t, gitIn(t, bare, "rev-parse", "main~1"), gitIn(t, bare, "rev-list", "-n", "1", "v1.3.0"),
		"the release tag should point at the released commit")

	react := gitIn(t, bare, "show", "main:packages/react/package.json")
	assert.Equal(t, 2, strings.Count(react, `"1.3.0"`), react)

	assert.Equal(t, []string{
		"acme run build",
		"acme run test:ci",
		"core publish --tag latest --access public",
		"react publish --tag latest --access public",
	}, readLines(t, r.npmLog))
	assert.Equal(t, []string{"release create v1.3.0"}, readLines(t, r.ghLog))
}

func TestCIModeNothingToRelease(t *testing.T) {
	setupEnv(t)

	srv := newGitServer(t)
	dir := filepath.Join(t.TempDir(), "acme")
	gitIn(t, filepath.Dir(dir), "clone", srv.url("acme"), dir)

	r := newTestRepo(t, dir)
	r.git("push", "-u", "origin", "main")
	r.git("push", "--tags")
	r.commit("chore: tidy", "packages/core/src/index.js")
	r.git("push")

	stdout, _, err := r.shipit("--ci")
	require.NoError(t, err)
	assert.Contains(t, stdout, "no changes since the release of v1.2.0")

	bare := filepath.Join(srv.dir, "acme.git")
	assert.Equal(t, "v1.2.0", gitIn(t, bare, "tag", "--list"))
	assert.Equal(t, "chore: tidy", gitIn(t, bare, "log", "-1", "--format=%s", "main"))
	assert.Nil(t, readLines(t, r.npmLog))
}
