package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const EnvPrefix = "TESTBOX"

// Load builds Args from the defaults, the optional YAML file at path and
// TESTBOX_* environment variables, in increasing order of precedence.
func Load(path string) (Args, error) {
	v := viper.New()

	defaults := Defaults()
	v.SetDefault("verbosity", defaults.Verbosity)
	v.SetDefault("root", defaults.Root)
	v.SetDefault("debug", defaults.Debug)
	v.SetDefault("included-patterns", defaults.IncludedPatterns)
	v.SetDefault("excluded-patterns", defaults.ExcludedPatterns)
	v.SetDefault("levels", defaults.Levels)
	v.SetDefault("no-levels", defaults.NoLevels)
	v.SetDefault("threads", defaults.Threads)
	v.SetDefault("input-dir", defaults.InputDir)
	v.SetDefault("output-dir", defaults.OutputDir)
	v.SetDefault("overrides", []string{})
	v.SetDefault("sort", defaults.Sort)
	v.SetDefault("only-failed", defaults.OnlyFailed)
	v.SetDefault("journal-format", defaults.JournalFormat)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Args{}, fmt.Errorf("failed to read config file '%s': %w", path, err)
		}
	}

	var args Args
	if err := v.UnmarshalExact(&args); err != nil {
		return Args{}, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if err := args.Validate(); err != nil {
		return Args{}, err
	}

	return args, nil
}
