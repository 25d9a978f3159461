// Package runner executes registered tests and reports their lifecycle to
// listeners.
package runner

import (
	"context"
	"errors"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/PonnagantiHemanth/testing-tool-sub012/internal/journal"
	"github.com/PonnagantiHemanth/testing-tool-sub012/pkg/testbox/core"
)

var ErrBusy = errors.New("engine is already running")

// Selector decides whether a test case executes. A nil Selector selects every
// case.
type Selector func(core.Test) bool

// Ordering compares two test cases for execution order. A nil Ordering keeps
// discovery order.
type Ordering func(a, b core.Test) int

type Config struct {
	// Number of workers. 1 runs cases sequentially in order.
	Threads int

	Listeners []core.Listener

	// Journal receives one entry per finished case. May be nil.
	Journal journal.Writer

	// LogPath maps a test ID to its log file. Nil disables test log files.
	LogPath func(testID string) string

	Logger *logrus.Logger
}

// Result summarizes one run.
type Result struct {
	RunID    string
	Start    time.Time
	Stop     time.Time
	Selected int
	Passed   int
	Failed   int
	Errored  int
	NotRun   int
	Stopped  bool
}

// Engine drives runs. Stop is sticky: once stopped, an engine runs nothing
// more, so callers create one engine per run.
type Engine struct {
	threads  int
	listener multicast
	journal  journal.Writer
	logPath  func(string) string
	log      *logrus.Logger

	gate    *gate
	stopped atomic.Bool
	running atomic.Bool

	mu          sync.Mutex
	force       context.Context
	cancelForce context.CancelFunc
}

func New(cfg Config) *Engine {
	threads := cfg.Threads
	if threads < 1 {
		threads = 1
	}

	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	e := &Engine{
		threads:  threads,
		listener: multicast(slices.Clone(cfg.Listeners)),
		journal:  cfg.Journal,
		logPath:  cfg.LogPath,
		log:      log,
		gate:     newGate(),
	}
	e.force, e.cancelForce = context.WithCancel(context.Background())
	return e
}

// Run executes the cases below tests that sel accepts, ordered by order.
// Failing tests are reported to listeners, not returned as errors.
func (e *Engine) Run(ctx context.Context, tests []core.Test, sel Selector, order Ordering) (Result, error) {
	if !e.running.CompareAndSwap(false, true) {
		return Result{}, ErrBusy
	}
	defer e.running.Store(false)

	res := Result{
		RunID: uuid.NewString(),
		Start: time.Now(),
	}

	cases, suites := plan(tests, sel)
	if order != nil {
		slices.SortStableFunc(cases, func(a, b plannedCase) int {
			return order(a.test, b.test)
		})
	}
	res.Selected = len(cases)

	runLog := e.log.WithField("run", res.RunID)
	runLog.Infof("Running %d test case(s) on %d thread(s)", len(cases), e.threads)

	stopWake := context.AfterFunc(ctx, e.gate.wake)
	defer stopWake()

	var mu sync.Mutex
	count := func(s core.State) {
		mu.Lock()
		defer mu.Unlock()
		switch s {
		case core.StateSuccess:
			res.Passed++
		case core.StateFailure:
			res.Failed++
		case core.StateError:
			res.Errored++
		default:
			res.NotRun++
		}
	}

	var g errgroup.Group
	g.SetLimit(e.threads)

	for i, p := range cases {
		e.gate.wait(func() bool { return e.halted(ctx) })
		if e.halted(ctx) {
			mu.Lock()
			res.NotRun += len(cases) - i
			mu.Unlock()
			break
		}

		g.Go(func() error {
			// A worker slot may free up after a pause or a stop.
			e.gate.wait(func() bool { return e.halted(ctx) })
			if e.halted(ctx) {
				count(core.StateUnknown)
				return nil
			}

			count(e.execute(ctx, p, res.RunID))
			return nil
		})
	}

	_ = g.Wait()

	for _, s := range suites {
		s.abandon(ctx, e)
	}

	res.Stopped = e.halted(ctx)
	res.Stop = time.Now()

	runLog.WithField("duration", res.Stop.Sub(res.Start)).
		Infof("Run finished: %d passed, %d failed, %d errored, %d not run",
			res.Passed, res.Failed, res.Errored, res.NotRun)

	return res, nil
}

func (e *Engine) halted(ctx context.Context) bool {
	return e.stopped.Load() || ctx.Err() != nil
}

// execute runs one case and returns its final state.
func (e *Engine) execute(ctx context.Context, p plannedCase, runID string) core.State {
	var setupErr error
	for _, s := range p.suites {
		setupErr = s.enter(ctx, e, setupErr)
	}
	defer func() {
		for i := len(p.suites) - 1; i >= 0; i-- {
			p.suites[i].leave(ctx, e)
		}
	}()

	caseCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	stopForce := context.AfterFunc(e.forceContext(), cancel)
	defer stopForce()

	logPath := ""
	if e.logPath != nil {
		logPath = e.logPath(p.test.ID())
	}

	e.listener.StartTest(p.test)
	e.log.Infof("%s (started)", p.test.ID())

	tc := newTestCase(caseCtx, p.test, e.log, logPath)
	if setupErr != nil {
		tc.markError(setupErr)
	} else {
		executeTestCase(tc, p.test.Function())
	}
	tc.finish()

	status, err := tc.Status(), tc.Err()
	switch status {
	case core.StateSuccess:
		e.listener.AddSuccess(p.test)
	case core.StateFailure:
		e.listener.AddFailure(p.test, err)
	default:
		e.listener.AddError(p.test, err)
	}

	e.record(p.test, status, err, tc, runID)
	e.listener.StopTest(p.test)

	return status
}

func (e *Engine) record(t core.Test, status core.State, err error, tc *testCase, runID string) {
	if e.journal == nil {
		return
	}

	entry := journal.Entry{
		TestID: t.ID(),
		State:  status.Token(),
		Start:  tc.startTime,
		Stop:   tc.endTime,
		RunID:  runID,
	}
	if err != nil {
		entry.Message = err.Error()
	}

	if err := e.journal.Append(entry); err != nil {
		e.log.WithError(err).Errorf("Failed to record '%s' in the journal", t.ID())
	}
}

func (e *Engine) forceContext() context.Context {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.force
}

// renewForce cancels the contexts of in-flight cases. Cases started later
// get a fresh context.
func (e *Engine) renewForce() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.cancelForce()
	e.force, e.cancelForce = context.WithCancel(context.Background())
}

// Pause stops workers from starting new cases until Resume. In-flight cases
// continue unless forcefully is set, in which case their contexts are
// cancelled.
func (e *Engine) Pause(forcefully bool) {
	if e.gate.close() {
		e.log.Info("Run paused")
	}
	if forcefully {
		e.renewForce()
	}
}

func (e *Engine) Resume() {
	if e.gate.open() {
		e.log.Info("Run resumed")
	}
}

// Paused reports whether the engine is paused.
func (e *Engine) Paused() bool {
	return e.gate.isClosed()
}

// Stop prevents any further case from starting. Cases already running
// finish normally unless forcefully is set, in which case their contexts are
// cancelled.
func (e *Engine) Stop(forcefully bool) {
	if !e.stopped.Swap(true) {
		e.log.Info("Stopping run")
	}
	e.gate.wake()
	if forcefully {
		e.renewForce()
	}
}

// Collect reports the structure of tests to l without running anything:
// every node gets a StartTest, then its children, then a StopTest.
func (e *Engine) Collect(tests []core.Test, l core.Listener) {
	for _, t := range tests {
		collect(t, l)
	}
}

func collect(t core.Test, l core.Listener) {
	l.StartTest(t)
	for _, c := range t.Children() {
		collect(c, l)
	}
	l.StopTest(t)
}

// Reset sends ResetTest for every node below tests, children before their
// suite.
func (e *Engine) Reset(tests []core.Test) {
	for _, t := range tests {
		e.reset(t)
	}
}

func (e *Engine) reset(t core.Test) {
	for _, c := range t.Children() {
		e.reset(c)
	}
	e.listener.ResetTest(t)
}
