// Package descriptor holds the tree of test descriptors and the rules
// aggregating their states.
//
// A composite descriptor reports the worst state of its children, where
// "worse" follows the numeric order of core.State. Leaf state changes ripple
// upward: a child getting worse is adopted directly by its parent, a child
// getting better makes the parent rescan all of its children.
package descriptor

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/PonnagantiHemanth/testing-tool-sub012/pkg/testbox/core"
)

var ErrChildNotFound = errors.New("child descriptor not found")

// ChangeFunc is notified after a descriptor changed. It is called without any
// tree lock held and may read the tree.
type ChangeFunc func(d *Descriptor, action Action)

// tree is the lock shared by all descriptors linked together. Every mutation
// and its upward propagation runs under it. When two trees are locked at once,
// the one with the lower id is locked first.
type tree struct {
	id uint64
	mu sync.Mutex
}

var treeIDs atomic.Uint64

func newLock() *tree {
	return &tree{id: treeIDs.Add(1)}
}

type event struct {
	d      *Descriptor
	action Action
}

type Descriptor struct {
	testID string
	typ    Type

	tree atomic.Pointer[tree]

	// Guarded by tree.mu
	state    core.State
	parent   *Descriptor
	children []*Descriptor

	subMu       sync.Mutex
	subscribers map[uint64]ChangeFunc
	nextSub     uint64
}

func New(testID string, state core.State, typ Type) *Descriptor {
	d := &Descriptor{
		testID: testID,
		typ:    typ,
		state:  state,
	}
	d.tree.Store(newLock())
	return d
}

// NewRun creates the synthetic root of a collection pass.
func NewRun(name string) *Descriptor {
	return New(name, core.StateUnknown, TypeRun)
}

// lock acquires the lock of the tree d currently belongs to. The tree may be
// swapped by AddChild/RemoveChild while waiting, so re-check after locking.
func (d *Descriptor) lock() *tree {
	for {
		t := d.tree.Load()
		t.mu.Lock()
		if d.tree.Load() == t {
			return t
		}
		t.mu.Unlock()
	}
}

// lockPair acquires the trees of a and b, in tree id order. The second tree is
// nil when both share one.
func lockPair(a, b *Descriptor) (ta, tb *tree) {
	for {
		ta, tb = a.tree.Load(), b.tree.Load()
		if ta == tb {
			ta.mu.Lock()
			if a.tree.Load() == ta && b.tree.Load() == ta {
				return ta, nil
			}
			ta.mu.Unlock()
			continue
		}

		first, second := ta, tb
		if second.id < first.id {
			first, second = second, first
		}
		first.mu.Lock()
		second.mu.Lock()
		if a.tree.Load() == ta && b.tree.Load() == tb {
			return ta, tb
		}
		second.mu.Unlock()
		first.mu.Unlock()
	}
}

func unlockPair(ta, tb *tree) {
	if tb != nil {
		tb.mu.Unlock()
	}
	ta.mu.Unlock()
}

func (d *Descriptor) TestID() string {
	return d.testID
}

func (d *Descriptor) Type() Type {
	return d.typ
}

func (d *Descriptor) State() core.State {
	t := d.lock()
	defer t.mu.Unlock()
	return d.state
}

func (d *Descriptor) Parent() *Descriptor {
	t := d.lock()
	defer t.mu.Unlock()
	return d.parent
}

// Children returns a copy of the child list, in discovery order.
func (d *Descriptor) Children() []*Descriptor {
	t := d.lock()
	defer t.mu.Unlock()
	out := make([]*Descriptor, len(d.children))
	copy(out, d.children)
	return out
}

// SetState stores a new state and propagates it to the parent. Setting the
// current state again does nothing.
func (d *Descriptor) SetState(s core.State) {
	var events []event
	t := d.lock()
	d.setStateLocked(s, &events)
	t.mu.Unlock()
	dispatch(events)
}

// UpdateState folds a child's new state into this descriptor. A worse child
// state is adopted directly; a better one triggers a rescan of all children.
func (d *Descriptor) UpdateState(childState core.State) {
	var events []event
	t := d.lock()
	d.updateStateLocked(childState, false, &events)
	t.mu.Unlock()
	dispatch(events)
}

// Rescan recomputes the state from all children. Without children the state
// is left alone.
func (d *Descriptor) Rescan() {
	var events []event
	t := d.lock()
	d.updateStateLocked(0, true, &events)
	t.mu.Unlock()
	dispatch(events)
}

func (d *Descriptor) setStateLocked(s core.State, events *[]event) {
	if s == d.state {
		return
	}

	d.state = s
	*events = append(*events, event{d, ActionModifyState})

	if d.parent != nil {
		d.parent.updateStateLocked(s, false, events)
	}
}

func (d *Descriptor) updateStateLocked(childState core.State, rescan bool, events *[]event) {
	switch {
	case rescan || childState < d.state:
		worst := -1
		for _, c := range d.children {
			if int(c.state) > worst {
				worst = int(c.state)
			}
		}

		if worst > -1 && core.State(worst) != d.state {
			d.setStateLocked(core.State(worst), events)
		}
	case childState > d.state:
		d.setStateLocked(childState, events)
	}
}

// AddChild appends child and makes d its parent. The child subtree joins the
// tree of d, then the child's state is folded into d. A child still attached
// elsewhere is detached from its previous parent first. Adding a current child
// of d again does nothing.
//
// A descriptor must not be added below one of its own descendants.
func (d *Descriptor) AddChild(child *Descriptor) {
	var events []event

	t, ct := lockPair(d, child)
	if child.parent == d {
		unlockPair(t, ct)
		return
	}

	if old := child.parent; old != nil {
		old.detachLocked(child, &events)
	}

	child.parent = d
	d.children = append(d.children, child)
	child.rehome(t)

	events = append(events, event{d, ActionModifyChildren})
	d.updateStateLocked(child.state, false, &events)

	unlockPair(t, ct)
	dispatch(events)
}

// ReplaceChild puts repl at the position of old among the children of d and
// rescans d. old leaves the tree with its own subtree; repl is detached from
// its previous parent first. Replacing a descriptor that is not a child of d
// returns ErrChildNotFound.
func (d *Descriptor) ReplaceChild(old, repl *Descriptor) error {
	if old == repl {
		return nil
	}

	var events []event

	t, rt := lockPair(d, repl)
	index := -1
	for i, c := range d.children {
		if c == old {
			index = i
			break
		}
	}
	if index < 0 {
		unlockPair(t, rt)
		return fmt.Errorf("%w: '%s' is not a child of '%s'", ErrChildNotFound, old.testID, d.testID)
	}

	if prev := repl.parent; prev != nil {
		prev.detachLocked(repl, &events)
		if prev == d {
			index = slices.Index(d.children, old)
		}
	}

	d.children[index] = repl
	old.parent = nil
	old.rehome(newLock())
	repl.parent = d
	repl.rehome(t)

	events = append(events, event{d, ActionModifyChildren})
	d.updateStateLocked(0, true, &events)

	unlockPair(t, rt)
	dispatch(events)
	return nil
}

// RemoveChild detaches child from d and rescans d. The child keeps its own
// subtree and state. Removing a descriptor that is not a child of d returns
// ErrChildNotFound.
func (d *Descriptor) RemoveChild(child *Descriptor) error {
	var events []event

	t := d.lock()
	if !d.detachLocked(child, &events) {
		t.mu.Unlock()
		return fmt.Errorf("%w: '%s' is not a child of '%s'", ErrChildNotFound, child.testID, d.testID)
	}
	child.rehome(newLock())
	t.mu.Unlock()

	dispatch(events)
	return nil
}

func (d *Descriptor) detachLocked(child *Descriptor, events *[]event) bool {
	index := -1
	for i, c := range d.children {
		if c == child {
			index = i
			break
		}
	}

	if index < 0 {
		return false
	}

	d.children = append(d.children[:index], d.children[index+1:]...)
	if child.parent == d {
		child.parent = nil
	}

	*events = append(*events, event{d, ActionModifyChildren})
	d.updateStateLocked(0, true, events)
	return true
}

func (d *Descriptor) rehome(t *tree) {
	d.tree.Store(t)
	for _, c := range d.children {
		c.rehome(t)
	}
}

// RecomputeBottomUp sets every composite descriptor below and including d to
// the worst state of its children, children first.
func (d *Descriptor) RecomputeBottomUp() {
	var events []event
	t := d.lock()
	d.recomputeLocked(&events)
	t.mu.Unlock()
	dispatch(events)
}

func (d *Descriptor) recomputeLocked(events *[]event) {
	if len(d.children) == 0 {
		return
	}

	worst := core.StateUnknown
	for _, c := range d.children {
		c.recomputeLocked(events)
		if c.state > worst {
			worst = c.state
		}
	}

	d.setStateLocked(worst, events)
}

// Subscribe registers fn for changes of d. The returned function removes the
// subscription.
func (d *Descriptor) Subscribe(fn ChangeFunc) (unsubscribe func()) {
	d.subMu.Lock()
	defer d.subMu.Unlock()

	if d.subscribers == nil {
		d.subscribers = make(map[uint64]ChangeFunc)
	}

	id := d.nextSub
	d.nextSub++
	d.subscribers[id] = fn

	return func() {
		d.subMu.Lock()
		defer d.subMu.Unlock()
		delete(d.subscribers, id)
	}
}

func dispatch(events []event) {
	for _, e := range events {
		e.d.subMu.Lock()
		subs := make([]ChangeFunc, 0, len(e.d.subscribers))
		for _, fn := range e.d.subscribers {
			subs = append(subs, fn)
		}
		e.d.subMu.Unlock()

		for _, fn := range subs {
			fn(e.d, e.action)
		}
	}
}

// DeepClone returns an independent copy of the subtree rooted at d. The copy
// has no parent and no subscribers.
func (d *Descriptor) DeepClone() *Descriptor {
	t := d.lock()
	defer t.mu.Unlock()

	clone := New(d.testID, d.state, d.typ)
	d.cloneChildrenLocked(clone, clone.tree.Load())
	return clone
}

func (d *Descriptor) cloneChildrenLocked(into *Descriptor, t *tree) {
	into.children = make([]*Descriptor, 0, len(d.children))
	for _, c := range d.children {
		cc := &Descriptor{
			testID: c.testID,
			typ:    c.typ,
			state:  c.state,
			parent: into,
		}
		cc.tree.Store(t)
		into.children = append(into.children, cc)
		c.cloneChildrenLocked(cc, t)
	}
}

// Walk calls fn for d and all of its descendants, depth first, parents
// before children. The tree is snapshotted first, so fn may mutate it.
func (d *Descriptor) Walk(fn func(*Descriptor)) {
	t := d.lock()
	nodes := make([]*Descriptor, 0)
	d.collectLocked(&nodes)
	t.mu.Unlock()

	for _, n := range nodes {
		fn(n)
	}
}

func (d *Descriptor) collectLocked(nodes *[]*Descriptor) {
	*nodes = append(*nodes, d)
	for _, c := range d.children {
		c.collectLocked(nodes)
	}
}

// Find returns the first descriptor with the given test ID at or below d.
func (d *Descriptor) Find(testID string) *Descriptor {
	var found *Descriptor
	d.Walk(func(n *Descriptor) {
		if found == nil && n.testID == testID {
			found = n
		}
	})
	return found
}

// Leaves returns the descriptors at or below d that have no children.
func (d *Descriptor) Leaves() []*Descriptor {
	t := d.lock()
	defer t.mu.Unlock()

	nodes := make([]*Descriptor, 0)
	d.collectLocked(&nodes)

	leaves := make([]*Descriptor, 0, len(nodes))
	for _, n := range nodes {
		if len(n.children) == 0 {
			leaves = append(leaves, n)
		}
	}
	return leaves
}

// Equal reports whether a and b have the same test IDs, states, types and
// shape. Both trees are snapshotted before comparing.
func Equal(a, b *Descriptor) bool {
	if a == nil || b == nil {
		return a == b
	}

	return equalSnapshot(a.DeepClone(), b.DeepClone())
}

func equalSnapshot(a, b *Descriptor) bool {
	if a.testID != b.testID || a.state != b.state || a.typ != b.typ || len(a.children) != len(b.children) {
		return false
	}

	for i := range a.children {
		if !equalSnapshot(a.children[i], b.children[i]) {
			return false
		}
	}

	return true
}

func (d *Descriptor) String() string {
	t := d.lock()
	defer t.mu.Unlock()

	var sb strings.Builder
	d.writeLocked(&sb, 0)
	return sb.String()
}

func (d *Descriptor) writeLocked(sb *strings.Builder, indent int) {
	fmt.Fprintf(sb, "%s%s (%s) [%s]\n", strings.Repeat("  ", indent), d.testID, d.typ, d.state)
	for _, c := range d.children {
		c.writeLocked(sb, indent+1)
	}
}
