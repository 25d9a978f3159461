package runner

import "sync"

// gate blocks workers while a run is paused.
type gate struct {
	mu     sync.Mutex
	cond   *sync.Cond
	paused bool
}

func newGate() *gate {
	g := &gate{}
	g.cond = sync.NewCond(&g.mu)
	return g
}

func (g *gate) close() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.paused {
		return false
	}
	g.paused = true
	return true
}

func (g *gate) open() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.paused {
		return false
	}
	g.paused = false
	g.cond.Broadcast()
	return true
}

func (g *gate) isClosed() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.paused
}

// wake re-evaluates the wait condition of every blocked worker.
func (g *gate) wake() {
	g.mu.Lock()
	g.cond.Broadcast()
	g.mu.Unlock()
}

// wait blocks while the gate is closed and done reports false.
func (g *gate) wait(done func() bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for g.paused && !done() {
		g.cond.Wait()
	}
}
