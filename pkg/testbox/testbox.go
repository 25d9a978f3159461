// Package testbox is the entry point for harness binaries.
package testbox

import (
	"github.com/PonnagantiHemanth/testing-tool-sub012/pkg/testbox/core"
	"github.com/PonnagantiHemanth/testing-tool-sub012/pkg/testbox/harness"
)

type Suite = core.Suite
type BaseSuite = core.BaseSuite

type SetupCleanupContext = core.SetupCleanupContext

type TestRegistrar = core.TestRegistrar
type TestOption = core.TestOption
type TestCase = core.TestCase
type TestCaseFunction = core.TestCaseFunction

type LoggerProvider = core.LoggerProvider

func WithLevels(levels ...string) TestOption {
	return core.WithLevels(levels...)
}

func WithTestCases(names ...string) TestOption {
	return core.WithTestCases(names...)
}

// Creates a new harness with the given name.
func CreateHarness(name string) *harness.Harness {
	return harness.CreateHarness(name)
}
