// Package config holds the run configuration of the harness.
package config

import (
	"fmt"
	"slices"

	"github.com/PonnagantiHemanth/testing-tool-sub012/internal/journal"
	"github.com/PonnagantiHemanth/testing-tool-sub012/internal/layout"
	"github.com/PonnagantiHemanth/testing-tool-sub012/internal/settings"
	"github.com/PonnagantiHemanth/testing-tool-sub012/pkg/testbox/core"
	"github.com/jinzhu/copier"
)

const (
	IncludedPatternsDefault = ".*"
	ExcludedPatternsDefault = "^$"
	LevelsDefault           = ".*"
	NoLevelsDefault         = ""

	JournalFormatStream   = "jrl"
	JournalFormatDatabase = "db"
)

// Args is the effective configuration of a run. Values are never changed in
// place: Merge derives a new Args.
type Args struct {
	Verbosity string `mapstructure:"verbosity" yaml:"verbosity"`
	Root      string `mapstructure:"root" yaml:"root"`
	Debug     bool   `mapstructure:"debug" yaml:"debug"`

	// Regular expressions matched against the start of test IDs.
	IncludedPatterns string `mapstructure:"included-patterns" yaml:"included-patterns"`
	ExcludedPatterns string `mapstructure:"excluded-patterns" yaml:"excluded-patterns"`

	// Comma-separated lists of regular expressions matched against whole
	// levels.
	Levels   string `mapstructure:"levels" yaml:"levels"`
	NoLevels string `mapstructure:"no-levels" yaml:"no-levels"`

	Threads   int    `mapstructure:"threads" yaml:"threads"`
	InputDir  string `mapstructure:"input-dir" yaml:"input-dir"`
	OutputDir string `mapstructure:"output-dir" yaml:"output-dir"`

	// SECTION.option=value entries shadowing the settings store.
	Overrides []string `mapstructure:"overrides" yaml:"overrides"`

	// Name of a built-in sorter, ignored when CustomSorter is set.
	Sort       string `mapstructure:"sort" yaml:"sort"`
	OnlyFailed bool   `mapstructure:"only-failed" yaml:"only-failed"`

	JournalFormat string `mapstructure:"journal-format" yaml:"journal-format"`

	CustomFilter core.Filter `mapstructure:"-" yaml:"-"`
	CustomSorter core.Sorter `mapstructure:"-" yaml:"-"`
}

func Defaults() Args {
	return Args{
		Verbosity:        "info",
		Root:             ".",
		IncludedPatterns: IncludedPatternsDefault,
		ExcludedPatterns: ExcludedPatternsDefault,
		Levels:           LevelsDefault,
		NoLevels:         NoLevelsDefault,
		Threads:          1,
		InputDir:         layout.DefaultInputDir,
		OutputDir:        layout.DefaultOutputDir,
		Sort:             "none",
		JournalFormat:    JournalFormatStream,
	}
}

// Partial carries caller-supplied changes to merge onto stored Args. Nil
// fields are left untouched.
type Partial struct {
	Verbosity        *string
	Debug            *bool
	IncludedPatterns *string
	ExcludedPatterns *string
	Levels           *string
	NoLevels         *string
	Threads          *int
	Overrides        []string
	Sort             *string
	OnlyFailed       *bool
	JournalFormat    *string
	CustomFilter     core.Filter
	CustomSorter     core.Sorter
}

// Merge returns a copy of a with the non-nil fields of p applied. The root
// and directory names are fixed for the lifetime of a manager and cannot be
// merged.
func (a Args) Merge(p *Partial) (Args, error) {
	merged := a
	merged.Overrides = slices.Clone(a.Overrides)

	if p != nil {
		if err := copier.CopyWithOption(&merged, p, copier.Option{IgnoreEmpty: true}); err != nil {
			return Args{}, fmt.Errorf("failed to merge run configuration: %w", err)
		}
		merged.Overrides = slices.Clone(merged.Overrides)
	}

	if err := merged.Validate(); err != nil {
		return Args{}, err
	}

	return merged, nil
}

func (a Args) Validate() error {
	if a.Threads < 1 {
		return fmt.Errorf("invalid thread count %d, must be at least 1", a.Threads)
	}

	switch a.JournalFormat {
	case JournalFormatStream, JournalFormatDatabase:
	default:
		return fmt.Errorf("invalid journal format '%s', expected '%s' or '%s'",
			a.JournalFormat, JournalFormatStream, JournalFormatDatabase)
	}

	if _, err := settings.ParseOverrides(a.Overrides); err != nil {
		return err
	}

	return nil
}

// ParsedOverrides returns the overrides as settings entries. Args are
// validated on load and merge, so parsing cannot fail here in practice.
func (a Args) ParsedOverrides() []settings.Override {
	out, err := settings.ParseOverrides(a.Overrides)
	if err != nil {
		return nil
	}
	return out
}

func (a Args) JournalFileName() string {
	if a.JournalFormat == JournalFormatDatabase {
		return journal.DatabaseFileName
	}
	return journal.FileName
}
