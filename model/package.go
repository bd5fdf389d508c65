package model

import "path/filepath"

// Package is a publishable package living under the packages directory.
type Package struct {
	Name       string `json:"name"`
	PackageDir string `json:"package_dir"`
}

// SourceDir returns the repository-relative source directory of the package,
// using forward slashes so it can be compared against git paths.
func (p Package) SourceDir(packagesDir string) string {
	return filepath.ToSlash(filepath.Join(packagesDir, p.PackageDir))
}

// ManifestPath returns the path of the package's package.json.
func (p Package) ManifestPath(rootDir, packagesDir string) string {
	return filepath.Join(rootDir, packagesDir, p.PackageDir, "package.json")
}

// BranchConfig is the publish policy of a release branch.
type BranchConfig struct {
	Prerelease bool `json:"prerelease,omitempty"`
	GHRelease  bool `json:"gh_release,omitempty"`
}
