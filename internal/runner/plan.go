package runner

import (
	"slices"

	"github.com/PonnagantiHemanth/testing-tool-sub012/pkg/testbox/core"
)

type plannedCase struct {
	test core.Executable

	// Enclosing suites, outermost first.
	suites []*suiteRun
}

// plan lists the selected cases below tests in discovery order, along with
// the suites they need. Suites come out innermost first. A case requested
// twice is planned once.
func plan(tests []core.Test, sel Selector) ([]plannedCase, []*suiteRun) {
	p := planner{seen: make(map[string]bool), sel: sel}
	for _, t := range tests {
		p.walk(t, nil)
	}
	return p.cases, p.suites
}

type planner struct {
	cases  []plannedCase
	suites []*suiteRun
	seen   map[string]bool
	sel    Selector
}

func (p *planner) walk(t core.Test, chain []*suiteRun) {
	switch t.Kind() {
	case core.TestKindSuite:
		s := &suiteRun{test: t}
		if fx, ok := t.(core.Fixture); ok {
			s.fixture = fx.Fixture()
		}

		inner := append(slices.Clone(chain), s)
		for _, c := range t.Children() {
			p.walk(c, inner)
		}

		if s.remaining > 0 {
			p.suites = append(p.suites, s)
		}

	case core.TestKindCase:
		exe, ok := t.(core.Executable)
		if !ok || exe.Function() == nil || p.seen[t.ID()] {
			return
		}
		if p.sel != nil && !p.sel(t) {
			return
		}

		p.seen[t.ID()] = true
		p.cases = append(p.cases, plannedCase{test: exe, suites: chain})
		for _, s := range chain {
			s.remaining++
		}
	}
}
