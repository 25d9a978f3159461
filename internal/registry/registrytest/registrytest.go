// Package registrytest provides suites assembled from functions, for tests
// of packages that consume a registry.
package registrytest

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/PonnagantiHemanth/testing-tool-sub012/internal/registry"
	"github.com/PonnagantiHemanth/testing-tool-sub012/pkg/testbox/core"
)

// Suite is a core.Suite whose registration and fixture are plain functions.
type Suite struct {
	SuiteName string
	Register  func(r core.TestRegistrar)
	OnSetup   func(ctx core.SetupCleanupContext) error
	OnCleanup func(ctx core.SetupCleanupContext) error
}

func (s *Suite) Name() string {
	return s.SuiteName
}

func (s *Suite) RegisterTests(r core.TestRegistrar) error {
	if s.Register != nil {
		s.Register(r)
	}
	return nil
}

func (s *Suite) Setup(ctx core.SetupCleanupContext) error {
	if s.OnSetup == nil {
		return nil
	}
	return s.OnSetup(ctx)
}

func (s *Suite) Cleanup(ctx core.SetupCleanupContext) error {
	if s.OnCleanup == nil {
		return nil
	}
	return s.OnCleanup(ctx)
}

func Pass(core.TestCase) error {
	return nil
}

// Build registers suites in a fresh registry.
func Build(t testing.TB, suites ...core.Suite) *registry.Registry {
	t.Helper()

	r := registry.New()
	for _, s := range suites {
		require.NoError(t, r.Add(s))
	}
	return r
}

// Load resolves ids in r.
func Load(t testing.TB, r *registry.Registry, ids ...string) []core.Test {
	t.Helper()

	tests, err := r.Load(ids...)
	require.NoError(t, err)
	return tests
}

// Sample registers the tree
//
//	hidpp
//	  ping    [Interface]
//	  dpi
//	    get   [Interface]    DPI_0001
//	    set   [Business]     DPI_0002
//	  name    [Business]
//
// with the given body for every case.
func Sample(f core.TestCaseFunction) *Suite {
	return &Suite{
		SuiteName: "hidpp",
		Register: func(r core.TestRegistrar) {
			r.RegisterTestCase("ping", f, core.WithLevels("Interface"))
			r.RegisterSuite(&Suite{
				SuiteName: "dpi",
				Register: func(r core.TestRegistrar) {
					r.RegisterTestCase("get", f, core.WithLevels("Interface"), core.WithTestCases("DPI_0001"))
					r.RegisterTestCase("set", f, core.WithLevels("Business"), core.WithTestCases("DPI_0002"))
				},
			})
			r.RegisterTestCase("name", f, core.WithLevels("Business"))
		},
	}
}
