package filter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PonnagantiHemanth/testing-tool-sub012/internal/config"
	"github.com/PonnagantiHemanth/testing-tool-sub012/pkg/testbox/core"
)

// Built-in sorter names.
const (
	SortNone        = "none"
	SortID          = "id"
	SortLevel       = "level"
	SortFailedFirst = "failed-first"
)

var ErrUnknownSorter = errors.New("unknown sorter")

// SorterNames lists the built-in sorters.
func SorterNames() []string {
	return []string{SortNone, SortID, SortLevel, SortFailedFirst}
}

// NewSorter returns the custom sorter of args when set, and the built-in
// sorter named by args.Sort otherwise. The "none" sorter is nil: discovery
// order is kept.
func NewSorter(args config.Args) (core.Sorter, error) {
	if args.CustomSorter != nil {
		return args.CustomSorter, nil
	}

	switch args.Sort {
	case "", SortNone:
		return nil, nil
	case SortID:
		return core.SorterFunc(byID), nil
	case SortLevel:
		return core.SorterFunc(byLevel), nil
	case SortFailedFirst:
		return core.SorterFunc(failedFirst), nil
	default:
		return nil, fmt.Errorf("%w: '%s', expected one of %s", ErrUnknownSorter, args.Sort, strings.Join(SorterNames(), ", "))
	}
}

func byID(a, b core.TestAccess) int {
	return strings.Compare(a.ID(), b.ID())
}

// byLevel orders by first declared level, then by ID. Tests without levels
// come first.
func byLevel(a, b core.TestAccess) int {
	if c := strings.Compare(firstLevel(a), firstLevel(b)); c != 0 {
		return c
	}
	return byID(a, b)
}

func firstLevel(t core.TestAccess) string {
	levels := t.Levels()
	if len(levels) == 0 {
		return ""
	}
	return levels[0]
}

// failedFirst runs tests whose last outcome was a failure or an error before
// the others, then orders by ID.
func failedFirst(a, b core.TestAccess) int {
	aBad, bBad := lastState(a.History()).IsBad(), lastState(b.History()).IsBad()
	switch {
	case aBad && !bBad:
		return -1
	case !aBad && bBad:
		return 1
	default:
		return byID(a, b)
	}
}
