package main

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeffrom/shipit/config"
	"github.com/jeffrom/shipit/shell"
)

const testShipitYAML = `latest_branch: main
packages:
  - name: "@acme/core"
    package_dir: core
  - name: "@acme/react"
    package_dir: react
npm: %NPM%
gh: %GH%
`

var testFiles = map[string]string{
	".gitignore": "dist/\n",
	"packages/core/package.json": `{
  "name": "@acme/core",
  "version": "1.2.0",
  "main": "dist/index.js",
  "module": "dist/index.mjs",
  "browser": "dist/index.browser.js",
  "types": "dist/index.d.ts"
}
`,
	"packages/core/src/index.js": "export default 1\n",
	"packages/react/package.json": `{
  "name": "@acme/react",
  "version": "1.2.0",
  "main": "dist/index.js",
  "module": "dist/index.mjs",
  "browser": "dist/index.browser.js",
  "types": "dist/index.d.ts",
  "dependencies": {
    "@acme/core": "1.2.0"
  }
}
`,
	"packages/react/src/index.js": "export default 2\n",
}

// testRepo is a monorepo whose npm and gh are scripts logging their
// arguments.
type testRepo struct {
	t      *testing.T
	dir    string
	npmLog string
	ghLog  string
}

func setupEnv(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("-short")
	}
	if runtime.GOOS == "windows" {
		t.Skip("needs a posix shell")
	}
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	for _, key := range []string{config.EnvBranch, config.EnvTag, config.EnvGithubToken, config.EnvNPMToken, config.EnvCI} {
		t.Setenv(key, "")
	}
	t.Setenv("GIT_AUTHOR_NAME", "shipit-test")
	t.Setenv("GIT_AUTHOR_EMAIL", "shipit-test@example.com")
	t.Setenv("GIT_COMMITTER_NAME", "shipit-test")
	t.Setenv("GIT_COMMITTER_EMAIL", "shipit-test@example.com")
	t.Setenv("GIT_CONFIG_NOSYSTEM", "1")
}

// newTestRepo writes the monorepo into dir, which must already be a git
// repository, and commits it as release v1.2.0.
func newTestRepo(t *testing.T, dir string) *testRepo {
	t.Helper()
	binDir := t.TempDir()
	r := &testRepo{
		t:      t,
		dir:    dir,
		npmLog: filepath.Join(binDir, "npm.log"),
		ghLog:  filepath.Join(binDir, "gh.log"),
	}
	npm := writeScript(t, binDir, "npm", `echo "$(basename "$(pwd)") $*" >> `+r.npmLog)
	gh := writeScript(t, binDir, "gh", `echo "$1 $2 $3" >> `+r.ghLog)

	yml := strings.NewReplacer("%NPM%", npm, "%GH%", gh).Replace(testShipitYAML)
	r.write(config.FileName, yml)
	for p, content := range testFiles {
		r.write(p, content)
	}
	for _, pkg := range []string{"core", "react"} {
		for _, f := range []string{"index.js", "index.mjs", "index.browser.js", "index.d.ts"} {
			r.write(filepath.Join("packages", pkg, "dist", f), "")
		}
	}

	r.git("symbolic-ref", "HEAD", "refs/heads/main")
	r.git("add", "-A")
	r.git("commit", "-m", "initial commit")
	r.git("tag", "-a", "-m", "v1.2.0", "v1.2.0")
	return r
}

func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte("#!/bin/sh\n"+body+"\n"), 0755))
	return p
}

func (r *testRepo) write(p, content string) {
	r.t.Helper()
	full := filepath.Join(r.dir, p)
	require.NoError(r.t, os.MkdirAll(filepath.Dir(full), 0755))
	require.NoError(r.t, os.WriteFile(full, []byte(content), 0644))
}

func (r *testRepo) commit(msg string, files ...string) {
	r.t.Helper()
	for _, f := range files {
		r.write(f, msg+"\n")
	}
	r.git("add", "-A")
	r.git("commit", "--allow-empty", "-m", msg)
}

func (r *testRepo) git(args ...string) string {
	r.t.Helper()
	return gitIn(r.t, r.dir, args...)
}

func (r *testRepo) shipit(args ...string) (string, string, error) {
	r.t.Helper()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	rawArgs := append([]string{"shipit", "--config", filepath.Join(r.dir, config.FileName)}, args...)
	r.t.Logf("shipit(%s)", shell.ArgsString(rawArgs[1:]))
	err := runWithTerminalIO(rawArgs, &config.TerminalIO{Stdout: stdout, Stderr: stderr})
	r.t.Logf("stdout:\n%s\nstderr:\n%s", stdout, stderr)
	return stdout.String(), stderr.String(), err
}

func gitIn(t *testing.T, dir string, args ...string) string {
	t.Helper()
	t.Logf("+ git %s", shell.ArgsString(args))
	b, err := shell.Run(context.Background(), shell.Opts{Dir: dir}, "git", args...)
	require.NoError(t, err)
	return strings.TrimSpace(string(b))
}

func readLines(t *testing.T, p string) []string {
	t.Helper()
	b, err := os.ReadFile(p)
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)
	return strings.Split(strings.TrimSpace(string(b)), "\n")
}

func newLocalRepo(t *testing.T) *testRepo {
	t.Helper()
	setupEnv(t)
	dir := t.TempDir()
	gitIn(t, dir, "init")
	return newTestRepo(t, dir)
}

func TestDryRun(t *testing.T) {
	r := newLocalRepo(t)
	r.commit("feat(core): y", "packages/core/src/index.js")

	stdout, stderr, err := r.shipit()
	require.NoError(t, err)
	assert.Contains(t, stderr, "This is a dry run for version 1.3.0")
	assert.Contains(t, stdout, "- core: y (")
	assert.Contains(t, stdout, "- @acme/react@1.3.0")

	assert.Equal(t, "v1.2.0", r.git("tag", "--list"))
	assert.Equal(t, "feat(core): y", r.git("log", "-1", "--format=%s"))
	repoName := filepath.Base(r.dir)
	assert.Equal(t, []string{repoName + " run build", repoName + " run test:ci"}, readLines(t, r.npmLog), "a dry run doesn't publish")
	assert.Nil(t, readLines(t, r.ghLog))

	b, err := os.ReadFile(filepath.Join(r.dir, "packages/react/package.json"))
	require.NoError(t, err)
	assert.Contains(t, string(b), `"version": "1.3.0"`)
	assert.Contains(t, string(b), `"@acme/core": "1.3.0"`)
}

func TestNothingToRelease(t *testing.T) {
	r := newLocalRepo(t)
	r.commit("docs: readme", "README.md")

	stdout, _, err := r.shipit()
	require.NoError(t, err)
	assert.Contains(t, stdout, "There have been no changes since the release of v1.2.0")
	assert.Nil(t, readLines(t, r.npmLog))
}

func TestUnconfiguredBranch(t *testing.T) {
	r := newLocalRepo(t)
	r.git("checkout", "-b", "feature/thing")
	r.commit("feat: y", "packages/core/src/index.js")

	stdout, _, err := r.shipit()
	require.NoError(t, err)
	assert.Contains(t, stdout, `Branch "feature/thing" is not configured for releases`)
}

func TestValidationFailure(t *testing.T) {
	r := newLocalRepo(t)
	r.commit("fix: x", "packages/core/src/index.js")
	require.NoError(t, os.Remove(filepath.Join(r.dir, "packages/react/dist/index.mjs")))

	_, stderr, err := r.shipit()
	require.Error(t, err)
	assert.Contains(t, stderr, "Some packages failed validation:")
	assert.Contains(t, stderr, filepath.Join("react", "dist", "index.mjs"))
	assert.Equal(t, []string{filepath.Base(r.dir) + " run build"}, readLines(t, r.npmLog))
}

func TestStats(t *testing.T) {
	r := newLocalRepo(t)
	r.commit("feat(core): y", "packages/core/src/index.js")
	r.commit("fix(react): x", "packages/react/src/index.js")

	stdout, _, err := r.shipit("--stats")
	require.NoError(t, err)
	assert.Contains(t, stdout, "2 commits since v1.2.0")
	assert.Contains(t, stdout, "Commit Type:")
	assert.Nil(t, readLines(t, r.npmLog))
}

func TestVerboseSummary(t *testing.T) {
	r := newLocalRepo(t)
	r.commit("fix(core): x", "packages/core/src/index.js")

	stdout, _, err := r.shipit("-v")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Latest branch: main\n")
	assert.Contains(t, stdout, "prerelease=true gh_release=true\n")
	assert.Contains(t, stdout, ": packages/react\n")
}

func TestFileBranchesReplaceDefaults(t *testing.T) {
	r := newLocalRepo(t)
	b, err := os.ReadFile(filepath.Join(r.dir, config.FileName))
	require.NoError(t, err)
	r.write(config.FileName, string(b)+"branches:\n  main:\n    gh_release: true\n")
	r.commit("chore: only release main")
	r.git("checkout", "-b", "beta")
	r.commit("feat: y", "packages/core/src/index.js")

	stdout, _, err := r.shipit()
	require.NoError(t, err)
	assert.Contains(t, stdout, `Branch "beta" is not configured for releases`)
	assert.Nil(t, readLines(t, r.npmLog))
}
