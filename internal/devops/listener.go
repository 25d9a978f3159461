package devops

import (
	"sync"

	"github.com/PonnagantiHemanth/testing-tool-sub012/pkg/testbox/core"
)

// Listener folds the output of each test case into a group and raises an
// issue for every failed or errored case.
type Listener struct {
	core.BaseListener

	p *Printer

	mu   sync.Mutex
	open map[string]*Group
}

var _ core.Listener = (*Listener)(nil)

func NewListener(p *Printer) *Listener {
	return &Listener{p: p, open: make(map[string]*Group)}
}

func (l *Listener) StartTest(t core.Test) {
	if t.Kind() != core.TestKindCase {
		return
	}

	g := l.p.OpenGroup(t.ID())

	l.mu.Lock()
	defer l.mu.Unlock()
	l.open[t.ID()] = g
}

func (l *Listener) StopTest(t core.Test) {
	l.mu.Lock()
	g, ok := l.open[t.ID()]
	delete(l.open, t.ID())
	l.mu.Unlock()

	if ok {
		g.Close()
	}
}

func (l *Listener) AddFailure(t core.Test, err error) {
	l.p.LogError("Test case '%s' failed: %v", t.ID(), err)
}

func (l *Listener) AddError(t core.Test, err error) {
	l.p.LogError("Test case '%s' errored: %v", t.ID(), err)
}
