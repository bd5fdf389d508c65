package config

import "github.com/jeffrom/shipit/model"

func GetDefault() Config {
	return Config{
		RootDir:      ".",
		PackagesDir:  "packages",
		LatestBranch: "main",
		Branches: map[string]model.BranchConfig{
			"main":  {GHRelease: true},
			"next":  {Prerelease: true, GHRelease: true},
			"beta":  {Prerelease: true, GHRelease: true},
			"alpha": {Prerelease: true, GHRelease: true},
			"rc":    {Prerelease: true, GHRelease: true},
		},
		ExamplesDirs: []string{"examples"},
		EntryPoints:  []string{"module", "main", "browser", "types"},
		NPM:          "npm",
		GH:           "gh",
		BuildScript:  "build",
		TestScript:   "test:ci",
		Access:       "public",
		LookupRate:   0.5,
	}
}
