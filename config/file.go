package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ghodss/yaml"
)

const FileName = "shipit.yaml"

// ReadFile reads the configuration file at p. If p is empty, shipit.yaml is
// searched for in the working directory and its parents. A nil config and
// nil error are returned when no file is found. The returned path is the
// file that was read.
func ReadFile(p string) (*Config, string, error) {
	if p != "" {
		cfg, err := readFile(p)
		return cfg, p, err
	}

	wd, err := os.Getwd()
	if err != nil {
		return nil, "", err
	}

	for {
		candPath := filepath.Join(wd, FileName)
		cfg, err := readFile(candPath)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				parent := filepath.Dir(wd)
				if parent == wd {
					break
				}
				wd = parent
				continue
			}
			return nil, "", err
		}
		return cfg, candPath, nil
	}
	return nil, "", nil
}

func readFile(p string) (*Config, error) {
	b, err := os.ReadFile(p)
	if err != nil {
		return nil, err
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", p, err)
	}
	return cfg, nil
}
