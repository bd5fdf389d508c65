package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ghodss/yaml"
	"github.com/spf13/pflag"

	"github.com/jeffrom/shipit"
	"github.com/jeffrom/shipit/config"
	"github.com/jeffrom/shipit/runner"
)

func main() {
	if err := run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(rawArgs []string) error {
	return runWithTerminalIO(rawArgs, &config.DefaultTermIO)
}

func runWithTerminalIO(rawArgs []string, termio *config.TerminalIO) error {
	flagCfg := &config.Config{}
	var help bool
	var version bool
	var cfgFile string
	var readStats bool
	var printConfig bool
	flags := pflag.NewFlagSet("shipit", pflag.ContinueOnError)
	flags.SetOutput(termio.Stderr)
	flags.BoolVarP(&help, "help", "h", false, "show help")
	flags.BoolVarP(&version, "version", "V", false, "print version and exit")
	flags.StringVarP(&flagCfg.Branch, "branch", "b", "", "release branch `name` (default: the current branch, or $BRANCH)")
	flags.StringVarP(&flagCfg.Tag, "tag", "t", "", "release every package as `version`, eg. v1.2.3 (or $TAG)")
	flags.BoolVar(&flagCfg.InCI, "ci", false, "publish for real: tag, publish, push (or $CI=true)")
	flags.BoolVarP(&flagCfg.Debug, "verbose", "v", false, "print additional debugging info")
	flags.BoolVarP(&flagCfg.Quiet, "quiet", "q", false, "print as little as necessary")
	flags.StringVarP(&cfgFile, "config", "c", "", "specify config `file` (default: shipit.yaml in this or a parent directory)")
	flags.BoolVarP(&readStats, "stats", "S", false, "print stats about the commits since the last release and exit")
	flags.BoolVar(&printConfig, "print-config", false, "print configuration and exit")

	if err := flags.Parse(rawArgs[1:]); err != nil {
		return err
	}

	cfg := config.NewWithTerminalIO(nil, termio)
	if help {
		usage(cfg, flags)
		return nil
	}
	if version {
		cfg.Printf("%s", shipit.Version)
		return nil
	}

	fileCfg, cfgPath, err := config.ReadFile(cfgFile)
	if err != nil {
		return err
	}
	if fileCfg != nil {
		fileCfg.RootDir = resolveRootDir(cfgPath, fileCfg.RootDir)
		if err := cfg.Merge(fileCfg); err != nil {
			return err
		}
	}
	if err := cfg.Merge(flagCfg); err != nil {
		return err
	}
	if err := cfg.LoadEnv(); err != nil {
		return err
	}
	if cfgPath != "" {
		cfg.Debugf("read config from %s", cfgPath)
	}

	if printConfig {
		b, err := yaml.Marshal(cfg)
		if err != nil {
			return err
		}
		cfg.Printf("%s", string(b))
		return nil
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.Debug {
		b := &strings.Builder{}
		if err := cfg.TextSummary(b); err != nil {
			return err
		}
		cfg.Debugf("%s", strings.TrimSuffix(b.String(), "\n"))
	}
	// done setting up config

	ctx := context.Background()
	rnr, err := shipit.NewRunner(cfg)
	if err != nil {
		return err
	}

	if readStats {
		stats, err := rnr.Stats(ctx)
		if err != nil {
			return err
		}
		return stats.TextSummary(cfg.Term.Stdout)
	}

	if _, err := rnr.Run(ctx); err != nil {
		if runner.IsHalt(err) {
			cfg.Printf("%s", err)
			return nil
		}
		vf := runner.ValidationFailure{}
		if errors.As(err, &vf) {
			if werr := vf.WriteFailure(cfg.Term.Stderr); werr != nil {
				cfg.Errorf("failed to write validation failures: %v", werr)
			}
		}
		return err
	}
	return nil
}

// resolveRootDir makes the root directory of a config file relative to the
// file's directory.
func resolveRootDir(cfgPath, rootDir string) string {
	dir := filepath.Dir(cfgPath)
	if rootDir == "" {
		return dir
	}
	if filepath.IsAbs(rootDir) {
		return rootDir
	}
	return filepath.Join(dir, rootDir)
}

func usage(cfg config.Config, flags *pflag.FlagSet) {
	cfg.Printf(`%s [flags]

Release the packages of a monorepo: find what changed since the last release,
bump the version from the conventional commits, build, validate and test the
packages, update their package.json files, and publish them.

Outside of CI this is a dry run that stops before tagging, publishing and
pushing.

FLAGS
%s

ENVIRONMENT

BRANCH     release branch override
TAG        explicit release version, eg. v1.2.3
GH_TOKEN   github token for changelog usernames and gh release create
NPM_TOKEN  npm registry token
CI         publish for real when set to true, 1 or yes

EXAMPLES

# see what the next release would be
$ shipit

# release from CI
$ CI=true shipit

# release every package as a new major version
$ TAG=v2.0.0 shipit --ci

# count the commits since the last release
$ shipit --stats
`, filepath.Base(os.Args[0]), flags.FlagUsages())
}
