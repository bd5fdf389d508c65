// Package pkgmgr abstracts the package manager that builds, tests and
// publishes the packages. Currently just npm.
package pkgmgr

import "context"

type Interface interface {
	// Build runs the build script of the repository.
	Build(ctx context.Context) error
	// Test runs the test script of the repository.
	Test(ctx context.Context) error
	// Publish publishes the package in dir.
	Publish(ctx context.Context, dir string, opts PublishOpts) error
}

type PublishOpts struct {
	// DistTag is the registry distribution tag, such as latest or beta.
	DistTag string
	Access  string
}
