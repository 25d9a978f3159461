package testmgr

import "github.com/PonnagantiHemanth/testing-tool-sub012/pkg/testbox/core"

// descriptorListener maps lifecycle events of a run to descriptor states.
type descriptorListener struct {
	m *LocalTestManager
}

func (l *descriptorListener) stateChanged(t core.Test, s core.State) {
	d, err := l.m.GetTestDescriptor(t.ID(), false)
	if err != nil {
		l.m.log.WithError(err).Warnf("No descriptor for '%s'", t.ID())
		return
	}
	d.SetState(s)
}

func (l *descriptorListener) ResetTest(t core.Test) {
	l.stateChanged(t, core.StateUnknown)
}

func (l *descriptorListener) StartTest(t core.Test) {
	l.stateChanged(t, core.StateRunning)
}

// StopTest leaves the state alone: the outcome was already reported.
func (l *descriptorListener) StopTest(core.Test) {}

func (l *descriptorListener) AddSuccess(t core.Test) {
	l.stateChanged(t, core.StateSuccess)
}

func (l *descriptorListener) AddError(t core.Test, _ error) {
	l.stateChanged(t, core.StateError)
}

func (l *descriptorListener) AddFailure(t core.Test, _ error) {
	l.stateChanged(t, core.StateFailure)
}
