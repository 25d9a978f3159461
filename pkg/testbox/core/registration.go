package core

import "context"

// Suite groups test cases and nested suites under a common name.
type Suite interface {
	Named
	RegisterTests(r TestRegistrar) error
}

type TestRegistrar interface {
	// Register a test case with the given name. The name should be unique
	// within the suite and MUST be accepted by the regular expression
	// `^[a-zA-Z0-9_]+$`.
	RegisterTestCase(name string, f TestCaseFunction, opts ...TestOption)

	// Register a nested suite.
	RegisterSuite(s Suite)
}

type TestOptions struct {
	Levels          []string
	StaticTestCases []string
}

type TestOption func(*TestOptions)

// WithLevels tags a test case with levels used for level filtering.
func WithLevels(levels ...string) TestOption {
	return func(o *TestOptions) {
		o.Levels = append(o.Levels, levels...)
	}
}

// WithTestCases names the static test cases (requirements) a test covers.
func WithTestCases(names ...string) TestOption {
	return func(o *TestOptions) {
		o.StaticTestCases = append(o.StaticTestCases, names...)
	}
}

type SetupCleanupContext interface {
	LoggerProvider

	// ID of the suite being set up or cleaned up.
	ID() string

	Context() context.Context
}

type SetupCleanup interface {
	/// Setup before running the suite's tests
	Setup(SetupCleanupContext) error

	/// Cleanup after running the suite's tests
	Cleanup(SetupCleanupContext) error
}

// BaseSuite is a partial implementation of SetupCleanup meant to be used for
// composition. It does NOT provide Name() and RegisterTests().
type BaseSuite struct{}

func (s BaseSuite) Setup(SetupCleanupContext) error {
	return nil
}

func (s BaseSuite) Cleanup(SetupCleanupContext) error {
	return nil
}
