package descriptor

import (
	"fmt"
	"sync"
	"testing"

	"github.com/PonnagantiHemanth/testing-tool-sub012/pkg/testbox/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allStates = []core.State{
	core.StateUnknown,
	core.StateSuccess,
	core.StateFailure,
	core.StateError,
	core.StateMissing,
	core.StateRunning,
}

// Builds run -> suite -> [leaf0..leafN-1].
func newTree(leaves int) (*Descriptor, *Descriptor, []*Descriptor) {
	run := NewRun("Root")
	suite := New("suite", core.StateUnknown, TypeSuite)
	run.AddChild(suite)

	out := make([]*Descriptor, leaves)
	for i := range out {
		out[i] = New(fmt.Sprintf("suite.test%d", i), core.StateUnknown, TypeTest)
		suite.AddChild(out[i])
	}
	return run, suite, out
}

func maxChildState(d *Descriptor) core.State {
	worst := core.StateUnknown
	for _, c := range d.Children() {
		if c.State() > worst {
			worst = c.State()
		}
	}
	return worst
}

func assertAggregated(t *testing.T, d *Descriptor) {
	t.Helper()
	children := d.Children()
	if len(children) == 0 {
		return
	}
	assert.Equal(t, maxChildState(d), d.State(), "aggregate of '%s'", d.TestID())
	for _, c := range children {
		assertAggregated(t, c)
	}
}

func TestStateOrder(t *testing.T) {
	assert.Less(t, core.StateUnknown, core.StateSuccess)
	assert.Less(t, core.StateSuccess, core.StateFailure)
	assert.Less(t, core.StateFailure, core.StateError)
	assert.Less(t, core.StateError, core.StateMissing)
	for _, s := range allStates[:len(allStates)-1] {
		assert.Less(t, s, core.StateRunning)
	}
}

func TestAggregationAfterLeafChanges(t *testing.T) {
	run, _, leaves := newTree(3)

	sequence := []struct {
		leaf  int
		state core.State
	}{
		{0, core.StateRunning},
		{1, core.StateRunning},
		{0, core.StateSuccess},
		{2, core.StateFailure},
		{1, core.StateError},
		{1, core.StateSuccess},
		{2, core.StateSuccess},
		{0, core.StateMissing},
		{0, core.StateUnknown},
	}

	for _, step := range sequence {
		leaves[step.leaf].SetState(step.state)
		assertAggregated(t, run)
	}

	assert.Equal(t, core.StateSuccess, run.State())
}

func TestImprovementRescans(t *testing.T) {
	for _, a := range allStates {
		for _, b := range allStates {
			if b >= a {
				continue
			}

			t.Run(fmt.Sprintf("%s to %s", a, b), func(t *testing.T) {
				run, suite, leaves := newTree(2)
				leaves[1].SetState(core.StateSuccess)

				leaves[0].SetState(a)
				leaves[0].SetState(b)

				expected := max(b, core.StateSuccess)
				assert.Equal(t, expected, suite.State())
				assert.Equal(t, expected, run.State())
			})
		}
	}
}

func TestSetSameStateIsNoop(t *testing.T) {
	_, suite, leaves := newTree(1)
	leaves[0].SetState(core.StateFailure)

	leafEvents := 0
	parentEvents := 0
	unsubLeaf := leaves[0].Subscribe(func(*Descriptor, Action) { leafEvents++ })
	defer unsubLeaf()
	unsubParent := suite.Subscribe(func(*Descriptor, Action) { parentEvents++ })
	defer unsubParent()

	leaves[0].SetState(core.StateFailure)

	assert.Zero(t, leafEvents)
	assert.Zero(t, parentEvents)
}

func TestSubscribeActions(t *testing.T) {
	suite := New("suite", core.StateUnknown, TypeSuite)

	var actions []Action
	unsub := suite.Subscribe(func(d *Descriptor, a Action) {
		assert.Same(t, suite, d)
		actions = append(actions, a)
	})

	leaf := New("suite.a", core.StateFailure, TypeTest)
	suite.AddChild(leaf)
	require.Equal(t, []Action{ActionModifyChildren, ActionModifyState}, actions)

	unsub()
	leaf.SetState(core.StateError)
	assert.Len(t, actions, 2)
	assert.Equal(t, core.StateError, suite.State())
}

func TestConcurrentWorseWins(t *testing.T) {
	run, suite, leaves := newTree(2)

	leaves[0].SetState(core.StateRunning)
	leaves[1].SetState(core.StateRunning)
	assert.Equal(t, core.StateRunning, run.State())

	leaves[0].SetState(core.StateSuccess)
	assert.Equal(t, core.StateRunning, suite.State())
	assert.Equal(t, core.StateRunning, run.State())

	leaves[1].SetState(core.StateError)
	assert.Equal(t, core.StateError, suite.State())
	assert.Equal(t, core.StateError, run.State())
}

func TestRemoveChildRescans(t *testing.T) {
	root := NewRun("Root")
	failure := New("a", core.StateFailure, TypeTest)
	errored := New("b", core.StateError, TypeTest)
	root.AddChild(failure)
	root.AddChild(errored)
	require.Equal(t, core.StateError, root.State())

	require.NoError(t, root.RemoveChild(errored))
	assert.Equal(t, core.StateFailure, root.State())
	assert.Nil(t, errored.Parent())
	assert.Len(t, root.Children(), 1)

	// An explicit rescan is harmless
	root.Rescan()
	assert.Equal(t, core.StateFailure, root.State())

	// The removed child no longer reaches the old parent
	errored.SetState(core.StateRunning)
	assert.Equal(t, core.StateFailure, root.State())
}

func TestRemoveAbsentChild(t *testing.T) {
	root := NewRun("Root")
	stranger := New("x", core.StateError, TypeTest)

	err := root.RemoveChild(stranger)
	assert.ErrorIs(t, err, ErrChildNotFound)
	assert.Equal(t, core.StateUnknown, root.State())
}

func TestRescanWithoutChildren(t *testing.T) {
	d := New("lonely", core.StateFailure, TypeSuite)
	d.Rescan()
	assert.Equal(t, core.StateFailure, d.State())
}

func TestAddChildMovesBetweenParents(t *testing.T) {
	first := New("first", core.StateUnknown, TypeSuite)
	second := New("second", core.StateUnknown, TypeSuite)
	leaf := New("leaf", core.StateError, TypeTest)

	first.AddChild(leaf)
	require.Equal(t, core.StateError, first.State())

	second.AddChild(leaf)
	assert.Empty(t, first.Children())
	assert.Same(t, second, leaf.Parent())
	assert.Equal(t, core.StateError, second.State())
}

func TestAddChildAgainIsNoop(t *testing.T) {
	parent := New("parent", core.StateUnknown, TypeSuite)
	leaf := New("leaf", core.StateSuccess, TypeTest)

	var changes int
	parent.Subscribe(func(_ *Descriptor, action Action) {
		if action == ActionModifyChildren {
			changes++
		}
	})

	parent.AddChild(leaf)
	parent.AddChild(leaf)
	assert.Len(t, parent.Children(), 1)
	assert.Equal(t, 1, changes)

	require.NoError(t, parent.RemoveChild(leaf))
	assert.Empty(t, parent.Children())
}

func TestReplaceChild(t *testing.T) {
	run, suite, leaves := newTree(3)
	repl := New("suite.test1", core.StateFailure, TypeTest)

	require.NoError(t, suite.ReplaceChild(leaves[1], repl))
	assert.Equal(t, []*Descriptor{leaves[0], repl, leaves[2]}, suite.Children())
	assert.Same(t, suite, repl.Parent())
	assert.Nil(t, leaves[1].Parent())
	assert.Equal(t, core.StateFailure, suite.State())
	assert.Equal(t, core.StateFailure, run.State())

	// The replaced node no longer reaches the tree
	leaves[1].SetState(core.StateError)
	assert.Equal(t, core.StateFailure, run.State())

	// A better replacement rescans the parent
	good := New("suite.test1", core.StateSuccess, TypeTest)
	require.NoError(t, suite.ReplaceChild(repl, good))
	assert.Equal(t, core.StateSuccess, suite.State())

	err := suite.ReplaceChild(repl, good)
	assert.ErrorIs(t, err, ErrChildNotFound)
}

func TestReplaceChildWithSibling(t *testing.T) {
	_, suite, leaves := newTree(3)

	require.NoError(t, suite.ReplaceChild(leaves[0], leaves[2]))
	assert.Equal(t, []*Descriptor{leaves[2], leaves[1]}, suite.Children())
	assert.Nil(t, leaves[0].Parent())
}

func TestReplaceChildAdoptsFromOtherTree(t *testing.T) {
	_, suite, leaves := newTree(1)
	other := New("other", core.StateUnknown, TypeSuite)
	moved := New("suite.test0", core.StateError, TypeTest)
	other.AddChild(moved)

	require.NoError(t, suite.ReplaceChild(leaves[0], moved))
	assert.Empty(t, other.Children())
	assert.Equal(t, core.StateError, suite.State())

	moved.SetState(core.StateSuccess)
	assert.Equal(t, core.StateSuccess, suite.State())
	assert.Equal(t, core.StateError, other.State())
}

func TestConcurrentMovesAcrossTrees(t *testing.T) {
	first := New("first", core.StateUnknown, TypeSuite)
	second := New("second", core.StateUnknown, TypeSuite)
	a := New("a", core.StateUnknown, TypeTest)
	b := New("b", core.StateUnknown, TypeTest)
	first.AddChild(a)
	second.AddChild(b)

	var wg sync.WaitGroup
	for range 4 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for range 500 {
				first.AddChild(b)
				second.AddChild(b)
			}
		}()
		go func() {
			defer wg.Done()
			for range 500 {
				second.AddChild(a)
				first.AddChild(a)
			}
		}()
	}
	wg.Wait()

	total := len(first.Children()) + len(second.Children())
	assert.Equal(t, 2, total)
	for _, d := range []*Descriptor{a, b} {
		p := d.Parent()
		require.NotNil(t, p)
		assert.Contains(t, p.Children(), d)
	}
}

func TestDeepCloneIsolation(t *testing.T) {
	run, _, leaves := newTree(3)
	leaves[0].SetState(core.StateSuccess)
	leaves[2].SetState(core.StateFailure)

	clone := run.DeepClone()
	require.True(t, Equal(run, clone))
	assert.NotSame(t, run, clone)
	assert.Nil(t, clone.Parent())

	// Original to clone
	leaves[1].SetState(core.StateError)
	assert.Equal(t, core.StateError, run.State())
	assert.Equal(t, core.StateFailure, clone.State())

	// Clone to original
	cloneLeaf := clone.Find("suite.test0")
	require.NotNil(t, cloneLeaf)
	assert.NotSame(t, leaves[0], cloneLeaf)
	cloneLeaf.SetState(core.StateRunning)
	assert.Equal(t, core.StateRunning, clone.State())
	assert.Equal(t, core.StateSuccess, leaves[0].State())
	assert.Equal(t, core.StateError, run.State())
	assert.False(t, Equal(run, clone))
}

func TestRecomputeBottomUp(t *testing.T) {
	run, suite, leaves := newTree(2)
	leaves[0].SetState(core.StateSuccess)
	leaves[1].SetState(core.StateFailure)

	// A composite set directly drifts away from its children
	suite.SetState(core.StateMissing)
	require.Equal(t, core.StateMissing, run.State())

	run.RecomputeBottomUp()
	assert.Equal(t, core.StateFailure, suite.State())
	assert.Equal(t, core.StateFailure, run.State())
	assertAggregated(t, run)
}

func TestLeavesAndWalk(t *testing.T) {
	run, _, leaves := newTree(3)

	got := run.Leaves()
	require.Len(t, got, 3)
	for i := range leaves {
		assert.Same(t, leaves[i], got[i])
	}

	ids := make([]string, 0)
	run.Walk(func(d *Descriptor) { ids = append(ids, d.TestID()) })
	assert.Equal(t, []string{"Root", "suite", "suite.test0", "suite.test1", "suite.test2"}, ids)
}

func TestConcurrentSetState(t *testing.T) {
	run, _, leaves := newTree(64)

	var wg sync.WaitGroup
	for i, leaf := range leaves {
		wg.Add(1)
		go func() {
			defer wg.Done()
			leaf.SetState(core.StateRunning)
			if i == 17 {
				leaf.SetState(core.StateError)
			} else {
				leaf.SetState(core.StateSuccess)
			}
		}()
	}
	wg.Wait()

	assertAggregated(t, run)
	assert.Equal(t, core.StateError, run.State())
}

func TestString(t *testing.T) {
	run, _, leaves := newTree(1)
	leaves[0].SetState(core.StateSuccess)

	assert.Equal(t,
		"Root (RUN) [SUCCESS]\n  suite (SUITE) [SUCCESS]\n    suite.test0 (TEST) [SUCCESS]\n",
		run.String())
}
