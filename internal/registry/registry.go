// Package registry turns registered suites into a tree of tests and resolves
// test IDs against it.
package registry

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/PonnagantiHemanth/testing-tool-sub012/pkg/testbox/core"
)

var ErrTestNotFound = errors.New("test not found")

type Registry struct {
	roots []*node
	index map[string]*node
}

func New() *Registry {
	return &Registry{index: make(map[string]*node)}
}

// Add registers a top-level suite and everything it registers in turn.
func (r *Registry) Add(s core.Suite) error {
	root, err := collectSuite(nil, s)
	if err != nil {
		return err
	}

	if _, exists := r.index[root.id]; exists {
		return fmt.Errorf("suite '%s' already exists", root.id)
	}

	r.roots = append(r.roots, root)
	root.walk(func(n *node) {
		r.index[n.id] = n
	})

	return nil
}

// Suites returns the top-level suites in registration order.
func (r *Registry) Suites() []core.Test {
	out := make([]core.Test, len(r.roots))
	for i, n := range r.roots {
		out[i] = n
	}
	return out
}

// Lookup returns the test with the given ID.
func (r *Registry) Lookup(id string) (core.Test, error) {
	n, ok := r.index[id]
	if !ok {
		return nil, fmt.Errorf("%w: '%s'", ErrTestNotFound, id)
	}
	return n, nil
}

// Load resolves each ID to its test, in the given order.
func (r *Registry) Load(ids ...string) ([]core.Test, error) {
	out := make([]core.Test, 0, len(ids))
	for _, id := range ids {
		t, err := r.Lookup(id)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// IDs returns every registered test ID, sorted.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.index))
	for id := range r.index {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

type testCaseMetadata struct {
	name string
	f    core.TestCaseFunction
	opts core.TestOptions
}

// suiteCollector implements core.TestRegistrar for one suite.
type suiteCollector struct {
	testCases []testCaseMetadata
	suites    []core.Suite
	order     []string
}

func (c *suiteCollector) RegisterTestCase(name string, f core.TestCaseFunction, opts ...core.TestOption) {
	md := testCaseMetadata{name: name, f: f}
	for _, opt := range opts {
		opt(&md.opts)
	}
	c.testCases = append(c.testCases, md)
	c.order = append(c.order, name)
}

func (c *suiteCollector) RegisterSuite(s core.Suite) {
	c.suites = append(c.suites, s)
	c.order = append(c.order, s.Name())
}

func collectSuite(parent *node, s core.Suite) (*node, error) {
	if err := core.ValidateEntityName(s.Name(), "suite"); err != nil {
		return nil, err
	}

	suite := &node{
		name:   s.Name(),
		id:     joinID(parent, s.Name()),
		kind:   core.TestKindSuite,
		parent: parent,
	}
	if fixture, ok := s.(core.SetupCleanup); ok {
		suite.fixture = fixture
	}

	collector := &suiteCollector{}
	if err := s.RegisterTests(collector); err != nil {
		return nil, fmt.Errorf("failed to register tests of suite '%s': %w", suite.id, err)
	}

	// Check if names are valid and unique.
	names := make(map[string]bool)
	for _, name := range collector.order {
		if names[name] {
			return nil, fmt.Errorf("name '%s' is not unique in suite '%s'", name, suite.id)
		}
		names[name] = true
	}

	cases := make(map[string]testCaseMetadata)
	for _, tc := range collector.testCases {
		if err := core.ValidateEntityName(tc.name, "test case"); err != nil {
			return nil, err
		}
		if tc.f == nil {
			return nil, fmt.Errorf("test case '%s' in suite '%s' has no function", tc.name, suite.id)
		}
		cases[tc.name] = tc
	}

	nested := make(map[string]core.Suite)
	for _, sub := range collector.suites {
		nested[sub.Name()] = sub
	}

	for _, name := range collector.order {
		if tc, ok := cases[name]; ok {
			suite.children = append(suite.children, &node{
				name:        tc.name,
				id:          joinID(suite, tc.name),
				kind:        core.TestKindCase,
				levels:      slices.Clone(tc.opts.Levels),
				staticCases: slices.Clone(tc.opts.StaticTestCases),
				f:           tc.f,
				parent:      suite,
			})
			continue
		}

		child, err := collectSuite(suite, nested[name])
		if err != nil {
			return nil, err
		}
		suite.children = append(suite.children, child)
	}

	return suite, nil
}

func joinID(parent *node, name string) string {
	if parent == nil {
		return name
	}
	return strings.Join([]string{parent.id, name}, ".")
}
