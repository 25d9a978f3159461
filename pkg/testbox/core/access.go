package core

import "time"

type HistoryEntry struct {
	State   State
	Start   time.Time
	Stop    time.Time
	Message string
}

// History is an ordered view over the journal entries of one test, oldest
// first. Implementations load the journal on first access only.
type History interface {
	Len() int
	At(i int) HistoryEntry
	Entries() []HistoryEntry

	// Err returns the error met while loading the journal, if any.
	Err() error
}

// TestAccess is the read-only view of a test handed to filters and sorters.
type TestAccess interface {
	ID() string
	Levels() []string
	History() History
	StaticTestCases() []string
}

// Filter decides whether a discovered test executes.
type Filter interface {
	Accept(t TestAccess) bool
}

type FilterFunc func(t TestAccess) bool

func (f FilterFunc) Accept(t TestAccess) bool {
	return f(t)
}

// Sorter orders tests for execution. Compare returns a negative number when
// a runs before b, a positive number when b runs before a, and zero when the
// order does not matter.
type Sorter interface {
	Compare(a, b TestAccess) int
}

type SorterFunc func(a, b TestAccess) int

func (f SorterFunc) Compare(a, b TestAccess) int {
	return f(a, b)
}
