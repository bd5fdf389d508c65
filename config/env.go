package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Environment variables read by LoadEnv.
const (
	EnvBranch      = "BRANCH"
	EnvTag         = "TAG"
	EnvGithubToken = "GH_TOKEN"
	EnvNPMToken    = "NPM_TOKEN"
	EnvCI          = "CI"
)

// LoadEnv loads a .env file from the root directory, if there is one, and
// then fills empty fields from the environment. Variables that are already
// set are never overridden by the .env file.
func (c *Config) LoadEnv() error {
	envPath := filepath.Join(c.RootDir, ".env")
	if err := godotenv.Load(envPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("config: load %s: %w", envPath, err)
	}

	if c.Branch == "" {
		c.Branch = os.Getenv(EnvBranch)
	}
	if c.Tag == "" {
		c.Tag = os.Getenv(EnvTag)
	}
	if c.GithubToken == "" {
		c.GithubToken = os.Getenv(EnvGithubToken)
	}
	if c.NPMToken == "" {
		c.NPMToken = os.Getenv(EnvNPMToken)
	}
	if !c.InCI && truthy(os.Getenv(EnvCI)) {
		c.InCI = true
	}
	return nil
}

func truthy(s string) bool {
	switch s {
	case "true", "1", "yes":
		return true
	}
	return false
}
