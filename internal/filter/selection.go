package filter

import (
	"sync"

	"github.com/PonnagantiHemanth/testing-tool-sub012/internal/config"
	"github.com/PonnagantiHemanth/testing-tool-sub012/pkg/testbox/core"
)

// HistoryFunc returns the history of a test for the selected product,
// variant and target.
type HistoryFunc func(testID string) core.History

type access struct {
	test    core.Test
	history func() core.History
}

// NewAccess wraps t in the read-only view handed to filters and sorters. The
// history is requested from history on first use only.
func NewAccess(t core.Test, history HistoryFunc) core.TestAccess {
	return &access{
		test: t,
		history: sync.OnceValue(func() core.History {
			if history == nil {
				return nil
			}
			return history(t.ID())
		}),
	}
}

func (a *access) ID() string {
	return a.test.ID()
}

func (a *access) Levels() []string {
	return a.test.Levels()
}

func (a *access) History() core.History {
	return a.history()
}

func (a *access) StaticTestCases() []string {
	return a.test.StaticTestCases()
}

// Selection applies a filter and a sorter to tests. It keeps one access
// object per test ID, so the history of a test is fetched once per
// selection however many comparisons involve it.
type Selection struct {
	filter  core.Filter
	sorter  core.Sorter
	history HistoryFunc

	mu     sync.Mutex
	access map[string]core.TestAccess
}

// NewSelection builds the filter and sorter described by args. Errors are
// configuration errors: ErrInvalidPattern or ErrUnknownSorter.
func NewSelection(args config.Args, history HistoryFunc) (*Selection, error) {
	f, err := New(args)
	if err != nil {
		return nil, err
	}

	s, err := NewSorter(args)
	if err != nil {
		return nil, err
	}

	return &Selection{
		filter:  f,
		sorter:  s,
		history: history,
		access:  make(map[string]core.TestAccess),
	}, nil
}

// Access returns the shared access object of t.
func (s *Selection) Access(t core.Test) core.TestAccess {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.access[t.ID()]
	if !ok {
		a = NewAccess(t, s.history)
		s.access[t.ID()] = a
	}
	return a
}

// Select reports whether t runs. Only test cases are filtered; other nodes
// are always selected.
func (s *Selection) Select(t core.Test) bool {
	if t.Kind() != core.TestKindCase {
		return true
	}
	return s.filter.Accept(s.Access(t))
}

// Compare orders two tests for execution. Anything but two test cases
// compares as equal, as does everything when no sorter is configured.
func (s *Selection) Compare(a, b core.Test) int {
	if s.sorter == nil || a.Kind() != core.TestKindCase || b.Kind() != core.TestKindCase {
		return 0
	}
	return s.sorter.Compare(s.Access(a), s.Access(b))
}

// Sorted reports whether a sorter is configured.
func (s *Selection) Sorted() bool {
	return s.sorter != nil
}
