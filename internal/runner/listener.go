package runner

import "github.com/PonnagantiHemanth/testing-tool-sub012/pkg/testbox/core"

// multicast fans every event out to a list of listeners, in order.
type multicast []core.Listener

func (m multicast) ResetTest(t core.Test) {
	for _, l := range m {
		l.ResetTest(t)
	}
}

func (m multicast) StartTest(t core.Test) {
	for _, l := range m {
		l.StartTest(t)
	}
}

func (m multicast) StopTest(t core.Test) {
	for _, l := range m {
		l.StopTest(t)
	}
}

func (m multicast) AddSuccess(t core.Test) {
	for _, l := range m {
		l.AddSuccess(t)
	}
}

func (m multicast) AddError(t core.Test, err error) {
	for _, l := range m {
		l.AddError(t, err)
	}
}

func (m multicast) AddFailure(t core.Test, err error) {
	for _, l := range m {
		l.AddFailure(t, err)
	}
}
