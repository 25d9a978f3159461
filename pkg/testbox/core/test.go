package core

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

type TestKind int

const (
	TestKindUnknown TestKind = iota
	TestKindCase
	TestKindSuite
)

func (k TestKind) String() string {
	switch k {
	case TestKindCase:
		return "test"
	case TestKindSuite:
		return "suite"
	default:
		return "unknown"
	}
}

// Test is a node of the loaded test hierarchy: either a single test case or
// a suite grouping other tests.
type Test interface {
	Named

	// Dotted path identifying the test, e.g. "hidpp.dpi.set_dpi".
	ID() string

	Kind() TestKind

	// Levels declared on the test. Suites declare none.
	Levels() []string

	// Static test case (requirement) names covered by the test.
	StaticTestCases() []string

	// Child tests, in registration order. Nil for test cases.
	Children() []Test
}

// Executable is implemented by tests that carry a body.
type Executable interface {
	Test
	Function() TestCaseFunction
}

// Fixture is implemented by suites that may define setup and cleanup steps.
// Fixture returns nil when the suite defines none.
type Fixture interface {
	Test
	Fixture() SetupCleanup
}

type TestCaseFunction = func(TestCase) error

// TestCase is the handle passed to a running test body.
type TestCase interface {
	Named

	ID() string

	// Logger for the test case. Entries go to the test log file and to the
	// harness logger.
	Logger() *logrus.Logger

	// Provides a context for the test case. The context is cancelled when the
	// test case finishes or when the run is stopped or paused forcefully.
	Context() context.Context

	// Fail the test case. Implementations stop execution by calling
	// runtime.Goexit(), which then runs all deferred calls in the current
	// goroutine.
	Fail(reason string)

	// Fail the test case with an error. Execution stops as with Fail.
	FailFromError(err error)

	// Error the test case. Execution stops as with Fail.
	Error(err error)

	// Get the test case run time
	RunTime() time.Duration
}
