// Package filter builds the predicate and the comparator that decide which
// discovered tests run, and in what order.
package filter

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/PonnagantiHemanth/testing-tool-sub012/internal/config"
	"github.com/PonnagantiHemanth/testing-tool-sub012/pkg/testbox/core"
)

var ErrInvalidPattern = errors.New("invalid pattern")

type testFilter struct {
	included *regexp.Regexp
	excluded *regexp.Regexp
	levels   *regexp.Regexp

	// Nil unless excluded levels are configured.
	noLevels *regexp.Regexp

	onlyFailed bool
	custom     core.Filter
}

// New builds the filter described by args. Patterns are compiled here, so a
// malformed one fails before any test is considered.
//
// A test is rejected, in order, when its ID matches the excluded pattern,
// when it does not match the included pattern, when none of its levels is
// accepted, when OnlyFailed is set and its last outcome was good, or when the
// custom filter rejects it.
func New(args config.Args) (core.Filter, error) {
	included, err := compileMatch("included patterns", args.IncludedPatterns)
	if err != nil {
		return nil, err
	}

	excluded, err := compileMatch("excluded patterns", args.ExcludedPatterns)
	if err != nil {
		return nil, err
	}

	levels, err := compileLevels("levels", args.Levels)
	if err != nil {
		return nil, err
	}

	f := &testFilter{
		included:   included,
		excluded:   excluded,
		levels:     levels,
		onlyFailed: args.OnlyFailed,
		custom:     args.CustomFilter,
	}

	if args.NoLevels != config.NoLevelsDefault {
		f.noLevels, err = compileLevels("no-levels", args.NoLevels)
		if err != nil {
			return nil, err
		}
	}

	return f, nil
}

// compileMatch anchors pattern at the start of the input only.
func compileMatch(name, pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile("^(?:" + pattern + ")")
	if err != nil {
		return nil, fmt.Errorf("%w: %s '%s': %w", ErrInvalidPattern, name, pattern, err)
	}
	return re, nil
}

// compileLevels turns a comma-separated list into one expression matching a
// whole level against any entry.
func compileLevels(name, list string) (*regexp.Regexp, error) {
	var parts []string
	for _, entry := range strings.Split(list, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts = append(parts, "(?:^"+entry+"$)")
	}

	re, err := regexp.Compile(strings.Join(parts, "|"))
	if err != nil {
		return nil, fmt.Errorf("%w: %s '%s': %w", ErrInvalidPattern, name, list, err)
	}
	return re, nil
}

func (f *testFilter) Accept(t core.TestAccess) bool {
	id := t.ID()
	if f.excluded.MatchString(id) {
		return false
	}

	if !f.included.MatchString(id) {
		return false
	}

	if !f.acceptLevels(t.Levels()) {
		return false
	}

	if f.onlyFailed && !lastState(t.History()).IsBad() {
		return false
	}

	if f.custom != nil && !f.custom.Accept(t) {
		return false
	}

	return true
}

// acceptLevels accepts tests without levels. Otherwise the first level
// matching the included levels decides: the test is rejected if that level is
// also excluded, accepted if not.
func (f *testFilter) acceptLevels(levels []string) bool {
	if len(levels) == 0 {
		return true
	}

	for _, level := range levels {
		if !f.levels.MatchString(level) {
			continue
		}
		if f.noLevels != nil && f.noLevels.MatchString(level) {
			return false
		}
		return true
	}

	return false
}

func lastState(h core.History) core.State {
	if h == nil || h.Len() == 0 {
		return core.StateUnknown
	}
	return h.At(h.Len() - 1).State
}
