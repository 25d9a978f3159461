package filter

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PonnagantiHemanth/testing-tool-sub012/internal/config"
	"github.com/PonnagantiHemanth/testing-tool-sub012/internal/registry/registrytest"
	"github.com/PonnagantiHemanth/testing-tool-sub012/pkg/testbox/core"
)

type staticHistory []core.HistoryEntry

func (h staticHistory) Len() int                     { return len(h) }
func (h staticHistory) At(i int) core.HistoryEntry   { return h[i] }
func (h staticHistory) Entries() []core.HistoryEntry { return h }
func (h staticHistory) Err() error                   { return nil }

func historyOf(states ...core.State) core.History {
	h := make(staticHistory, len(states))
	for i, s := range states {
		h[i] = core.HistoryEntry{State: s}
	}
	return h
}

type fakeAccess struct {
	id      string
	levels  []string
	history core.History
}

func (a fakeAccess) ID() string                { return a.id }
func (a fakeAccess) Levels() []string          { return a.levels }
func (a fakeAccess) History() core.History     { return a.history }
func (a fakeAccess) StaticTestCases() []string { return nil }

func testAccess(id string, levels ...string) fakeAccess {
	return fakeAccess{id: id, levels: levels, history: historyOf()}
}

func newFilter(t *testing.T, modify func(a *config.Args)) core.Filter {
	t.Helper()
	args := config.Defaults()
	if modify != nil {
		modify(&args)
	}
	f, err := New(args)
	require.NoError(t, err)
	return f
}

func TestDefaultsAcceptEverything(t *testing.T) {
	f := newFilter(t, nil)

	assert.True(t, f.Accept(testAccess("hidpp.dpi.get")))
	assert.True(t, f.Accept(testAccess("hidpp.dpi.get", "Interface")))
	assert.True(t, f.Accept(testAccess("hidpp.dpi.set", "Business", "Functionality")))
}

func TestExcludedWinsOverIncluded(t *testing.T) {
	f := newFilter(t, func(a *config.Args) {
		a.IncludedPatterns = `hidpp\.dpi`
		a.ExcludedPatterns = `hidpp\.dpi\.set`
	})

	assert.True(t, f.Accept(testAccess("hidpp.dpi.get")))
	assert.False(t, f.Accept(testAccess("hidpp.dpi.set")))
	assert.False(t, f.Accept(testAccess("hidpp.root.ping")))
}

func TestPatternsMatchAtStart(t *testing.T) {
	f := newFilter(t, func(a *config.Args) {
		a.IncludedPatterns = `dpi`
	})

	assert.False(t, f.Accept(testAccess("hidpp.dpi.get")))
	assert.True(t, f.Accept(testAccess("dpi.get")))
}

func TestLevels(t *testing.T) {
	t.Run("included levels", func(t *testing.T) {
		f := newFilter(t, func(a *config.Args) {
			a.Levels = "A,B"
		})

		assert.True(t, f.Accept(testAccess("suite.test", "B")))
		assert.True(t, f.Accept(testAccess("suite.test", "C", "A")))
		assert.False(t, f.Accept(testAccess("suite.test", "C")))
		assert.False(t, f.Accept(testAccess("suite.test", "AB")), "levels match whole")
		assert.True(t, f.Accept(testAccess("suite.test")), "tests without levels are not level-filtered")
	})

	t.Run("excluded level wins", func(t *testing.T) {
		f := newFilter(t, func(a *config.Args) {
			a.Levels = "A,B"
			a.NoLevels = "B"
		})

		assert.False(t, f.Accept(testAccess("suite.test", "B")))
		assert.True(t, f.Accept(testAccess("suite.test", "A")))
	})

	t.Run("first included level decides", func(t *testing.T) {
		f := newFilter(t, func(a *config.Args) {
			a.Levels = "Interface,Business"
			a.NoLevels = "Business"
		})

		assert.True(t, f.Accept(testAccess("suite.test", "Interface", "Business")))
		assert.False(t, f.Accept(testAccess("suite.test", "Business", "Interface")))
	})
}

func TestOnlyFailed(t *testing.T) {
	f := newFilter(t, func(a *config.Args) {
		a.OnlyFailed = true
	})

	failed := fakeAccess{id: "a", history: historyOf(core.StateSuccess, core.StateFailure)}
	errored := fakeAccess{id: "b", history: historyOf(core.StateError)}
	fixed := fakeAccess{id: "c", history: historyOf(core.StateError, core.StateSuccess)}
	never := testAccess("d")

	assert.True(t, f.Accept(failed))
	assert.True(t, f.Accept(errored))
	assert.False(t, f.Accept(fixed))
	assert.False(t, f.Accept(never))
}

func TestCustomFilterRunsLast(t *testing.T) {
	var calls atomic.Int32
	f := newFilter(t, func(a *config.Args) {
		a.ExcludedPatterns = `skip`
		a.CustomFilter = core.FilterFunc(func(t core.TestAccess) bool {
			calls.Add(1)
			return len(t.StaticTestCases()) == 0 && t.ID() != "suite.rejected"
		})
	})

	assert.False(t, f.Accept(testAccess("skip.me")))
	assert.Zero(t, calls.Load(), "custom filter is not reached after a rejection")

	assert.True(t, f.Accept(testAccess("suite.kept")))
	assert.False(t, f.Accept(testAccess("suite.rejected")))
	assert.EqualValues(t, 2, calls.Load())
}

func TestInvalidPatterns(t *testing.T) {
	cases := map[string]func(a *config.Args){
		"included":  func(a *config.Args) { a.IncludedPatterns = "hidpp.(" },
		"excluded":  func(a *config.Args) { a.ExcludedPatterns = "[" },
		"levels":    func(a *config.Args) { a.Levels = "Interface,(" },
		"no-levels": func(a *config.Args) { a.NoLevels = "Business,(" },
	}

	for name, modify := range cases {
		t.Run(name, func(t *testing.T) {
			args := config.Defaults()
			modify(&args)

			_, err := New(args)
			assert.ErrorIs(t, err, ErrInvalidPattern)

			_, err = NewSelection(args, nil)
			assert.ErrorIs(t, err, ErrInvalidPattern)
		})
	}
}

func TestBuiltInSorters(t *testing.T) {
	a := fakeAccess{id: "suite.a", levels: []string{"Business"}, history: historyOf(core.StateSuccess)}
	b := fakeAccess{id: "suite.b", levels: []string{"Interface"}, history: historyOf(core.StateFailure)}
	c := fakeAccess{id: "suite.c", history: historyOf()}

	sorter := func(name string) core.Sorter {
		args := config.Defaults()
		args.Sort = name
		s, err := NewSorter(args)
		require.NoError(t, err)
		return s
	}

	assert.Nil(t, sorter(SortNone))

	byID := sorter(SortID)
	assert.Negative(t, byID.Compare(a, b))
	assert.Positive(t, byID.Compare(c, b))

	byLevel := sorter(SortLevel)
	assert.Negative(t, byLevel.Compare(c, a), "tests without levels come first")
	assert.Negative(t, byLevel.Compare(a, b))

	failed := sorter(SortFailedFirst)
	assert.Negative(t, failed.Compare(b, a))
	assert.Positive(t, failed.Compare(a, b))
	assert.Negative(t, failed.Compare(a, c))

	args := config.Defaults()
	args.Sort = "random"
	_, err := NewSorter(args)
	assert.ErrorIs(t, err, ErrUnknownSorter)
}

func TestCustomSorterWins(t *testing.T) {
	args := config.Defaults()
	args.Sort = SortID
	args.CustomSorter = core.SorterFunc(func(a, b core.TestAccess) int { return 0 })

	s, err := NewSorter(args)
	require.NoError(t, err)
	assert.Zero(t, s.Compare(testAccess("a"), testAccess("b")))
}

func TestSelection(t *testing.T) {
	reg := registrytest.Build(t, registrytest.Sample(registrytest.Pass))
	root := registrytest.Load(t, reg, "hidpp")[0]
	dpi := registrytest.Load(t, reg, "hidpp.dpi")[0]
	get := registrytest.Load(t, reg, "hidpp.dpi.get")[0]
	set := registrytest.Load(t, reg, "hidpp.dpi.set")[0]
	name := registrytest.Load(t, reg, "hidpp.name")[0]

	var lookups atomic.Int32
	history := func(id string) core.History {
		lookups.Add(1)
		if id == "hidpp.name" {
			return historyOf(core.StateError)
		}
		return historyOf(core.StateSuccess)
	}

	args := config.Defaults()
	args.Levels = "Business"
	args.Sort = SortFailedFirst
	sel, err := NewSelection(args, history)
	require.NoError(t, err)
	require.True(t, sel.Sorted())

	t.Run("filters test cases only", func(t *testing.T) {
		assert.True(t, sel.Select(root))
		assert.True(t, sel.Select(dpi))
		assert.False(t, sel.Select(get))
		assert.True(t, sel.Select(set))
	})

	t.Run("suites compare as equal", func(t *testing.T) {
		assert.Zero(t, sel.Compare(dpi, set))
		assert.Zero(t, sel.Compare(root, dpi))
	})

	t.Run("history is fetched once per test", func(t *testing.T) {
		for range 3 {
			assert.Negative(t, sel.Compare(name, set))
			assert.Positive(t, sel.Compare(set, name))
		}
		assert.EqualValues(t, 2, lookups.Load())
	})

	t.Run("access exposes the test", func(t *testing.T) {
		a := sel.Access(get)
		assert.Equal(t, "hidpp.dpi.get", a.ID())
		assert.Equal(t, []string{"Interface"}, a.Levels())
		assert.Equal(t, []string{"DPI_0001"}, a.StaticTestCases())
		assert.Same(t, a, sel.Access(get))
	})
}

func TestSelectionWithoutSorter(t *testing.T) {
	reg := registrytest.Build(t, registrytest.Sample(registrytest.Pass))
	tests := registrytest.Load(t, reg, "hidpp.ping", "hidpp.name")

	sel, err := NewSelection(config.Defaults(), nil)
	require.NoError(t, err)
	assert.False(t, sel.Sorted())
	assert.Zero(t, sel.Compare(tests[0], tests[1]))
	assert.Nil(t, sel.Access(tests[0]).History())
}
