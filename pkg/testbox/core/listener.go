package core

// Listener observes the test lifecycle. Callbacks may arrive concurrently
// from several workers.
type Listener interface {
	ResetTest(t Test)
	StartTest(t Test)
	StopTest(t Test)
	AddSuccess(t Test)
	AddError(t Test, err error)
	AddFailure(t Test, err error)
}

// BaseListener implements every Listener callback as a no-op. It is meant to
// be embedded by listeners interested in a few events only.
type BaseListener struct{}

func (BaseListener) ResetTest(Test)         {}
func (BaseListener) StartTest(Test)         {}
func (BaseListener) StopTest(Test)          {}
func (BaseListener) AddSuccess(Test)        {}
func (BaseListener) AddError(Test, error)   {}
func (BaseListener) AddFailure(Test, error) {}
