package registry

import "github.com/PonnagantiHemanth/testing-tool-sub012/pkg/testbox/core"

// node is a registered suite or test case. It implements core.Executable and
// core.Fixture.
type node struct {
	id          string
	name        string
	kind        core.TestKind
	levels      []string
	staticCases []string
	f           core.TestCaseFunction
	fixture     core.SetupCleanup
	parent      *node
	children    []*node
}

func (n *node) ID() string {
	return n.id
}

func (n *node) Name() string {
	return n.name
}

func (n *node) Kind() core.TestKind {
	return n.kind
}

func (n *node) Levels() []string {
	return n.levels
}

func (n *node) StaticTestCases() []string {
	return n.staticCases
}

func (n *node) Children() []core.Test {
	if n.kind != core.TestKindSuite {
		return nil
	}

	out := make([]core.Test, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out
}

func (n *node) Function() core.TestCaseFunction {
	return n.f
}

func (n *node) Fixture() core.SetupCleanup {
	return n.fixture
}

func (n *node) String() string {
	return n.id
}

func (n *node) walk(fn func(*node)) {
	fn(n)
	for _, c := range n.children {
		c.walk(fn)
	}
}
