package runner

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/PonnagantiHemanth/testing-tool-sub012/pkg/testbox/core"
)

// suiteRun tracks one suite during a run. The suite starts with its first
// selected case and stops after its last one.
type suiteRun struct {
	test    core.Test
	fixture core.SetupCleanup

	mu        sync.Mutex
	remaining int
	started   bool
	setUp     bool
	setupErr  error
	done      bool
}

type fixtureContext struct {
	logger *logrus.Logger
	id     string
	ctx    context.Context
}

func (c fixtureContext) Logger() *logrus.Logger {
	return c.logger
}

func (c fixtureContext) ID() string {
	return c.id
}

func (c fixtureContext) Context() context.Context {
	return c.ctx
}

// enter starts the suite on first use and runs its setup. inherited is the
// setup error of an enclosing suite, if any; a suite below a failed setup is
// not set up itself. The returned error is the setup error that applies to
// cases of this suite.
func (s *suiteRun) enter(ctx context.Context, e *Engine, inherited error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		s.started = true
		e.listener.StartTest(s.test)

		if inherited == nil && s.fixture != nil {
			e.log.Debugf("Setting up suite '%s'", s.test.ID())
			err := runCatchPanic(func() error {
				return s.fixture.Setup(fixtureContext{logger: e.log, id: s.test.ID(), ctx: ctx})
			})
			if err != nil {
				e.log.WithError(err).Errorf("Setup of suite '%s' failed", s.test.ID())
				s.setupErr = fmt.Errorf("setup of suite '%s' failed: %w", s.test.ID(), err)
			} else {
				s.setUp = true
			}
		}
	}

	if s.setupErr != nil {
		return s.setupErr
	}
	return inherited
}

// leave accounts for one finished case and finishes the suite after the last.
func (s *suiteRun) leave(ctx context.Context, e *Engine) {
	s.mu.Lock()
	s.remaining--
	last := s.remaining <= 0 && !s.done
	if last {
		s.done = true
	}
	s.mu.Unlock()

	if last {
		s.finish(ctx, e)
	}
}

// abandon finishes a suite that was started but whose remaining cases were
// skipped by a stop.
func (s *suiteRun) abandon(ctx context.Context, e *Engine) {
	s.mu.Lock()
	pending := s.started && !s.done
	s.done = true
	s.mu.Unlock()

	if pending {
		s.finish(ctx, e)
	}
}

func (s *suiteRun) finish(ctx context.Context, e *Engine) {
	if s.setUp {
		e.log.Debugf("Cleaning up suite '%s'", s.test.ID())
		err := runCatchPanic(func() error {
			return s.fixture.Cleanup(fixtureContext{logger: e.log, id: s.test.ID(), ctx: context.WithoutCancel(ctx)})
		})
		if err != nil {
			e.log.WithError(err).Errorf("Cleanup of suite '%s' failed", s.test.ID())
		}
	}

	e.listener.StopTest(s.test)
}
