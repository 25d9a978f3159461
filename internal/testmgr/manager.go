// Package testmgr is the façade a command line or a UI drives: it owns the
// run configuration and the descriptor cache, and orchestrates collection,
// selection, execution and journal queries.
package testmgr

import (
	"context"
	"errors"

	"github.com/PonnagantiHemanth/testing-tool-sub012/internal/config"
	"github.com/PonnagantiHemanth/testing-tool-sub012/internal/descriptor"
	"github.com/PonnagantiHemanth/testing-tool-sub012/internal/layout"
	"github.com/PonnagantiHemanth/testing-tool-sub012/internal/runner"
	"github.com/PonnagantiHemanth/testing-tool-sub012/pkg/testbox/core"
)

var (
	ErrNotSupported  = errors.New("operation not supported by this test manager")
	ErrRunInProgress = errors.New("a run is already in progress")

	// ErrRootUnreachable is returned at construction when the configured
	// root is not a readable directory.
	ErrRootUnreachable = layout.ErrRootUnreachable
)

// Available modes.
const (
	ModeRelease = "RELEASE"
	ModeWorking = "WORKING"
)

// Version selects a product, variant and target. Empty fields stand for the
// currently selected value.
type Version struct {
	Product string
	Variant string
	Target  string
}

type RunState int

const (
	RunStateIdle RunState = iota
	RunStateRunning
)

func (s RunState) String() string {
	switch s {
	case RunStateRunning:
		return "running"
	default:
		return "idle"
	}
}

type TestManager interface {
	// Args returns the stored run configuration.
	Args() config.Args

	GetTestDescriptor(testID string, recursive bool) (*descriptor.Descriptor, error)
	HasTestDescriptor(testID string) bool
	ClearCache()

	GetTestState(testID string, v Version) (core.State, error)
	GetTestStates(testIDs []string, v Version) (map[string]core.State, error)
	GetTestHistory(testID string, v Version) (core.History, error)

	GetStaticTestCases(testID string) ([]string, error)
	GetTestLogPath(testID string, v Version) (string, error)
	GetTestLog(testID string, v Version) (string, error)
	GetTestSource(testID string) (file string, line int, err error)
	GetAvailableLevels(testID string, recursive bool) ([]string, error)

	GetAvailableModes() ([]string, error)
	GetAvailableProducts() (*descriptor.VersionDescriptor, error)
	GetAvailableVariants(product string) (*descriptor.VersionDescriptor, error)

	GetSelectedMode() (string, error)
	SetSelectedMode(mode string) error
	GetSelectedProduct() (string, error)
	SetSelectedProduct(product string) error
	GetSelectedVariant() (string, error)
	SetSelectedVariant(variant string) error
	GetSelectedTarget() (string, error)
	SetSelectedTarget(target string) error
	SetSelectedConfig(v Version, mode string) error

	Run(ctx context.Context, testIDs []string, listeners []core.Listener, p *config.Partial) (runner.Result, error)
	ResetTests(ctx context.Context, testIDs []string, listeners []core.Listener, p *config.Partial) error
	Pause(forcefully bool) error
	Stop(forcefully bool) error
	Resume() error
	RunState() RunState
}

// Unsupported implements TestManager by returning ErrNotSupported from every
// operation. Embed it to implement part of the surface.
type Unsupported struct{}

var _ TestManager = Unsupported{}

func (Unsupported) Args() config.Args { return config.Defaults() }

func (Unsupported) GetTestDescriptor(string, bool) (*descriptor.Descriptor, error) {
	return nil, ErrNotSupported
}

func (Unsupported) HasTestDescriptor(string) bool { return false }

func (Unsupported) ClearCache() {}

func (Unsupported) GetTestState(string, Version) (core.State, error) {
	return core.StateUnknown, ErrNotSupported
}

func (Unsupported) GetTestStates([]string, Version) (map[string]core.State, error) {
	return nil, ErrNotSupported
}

func (Unsupported) GetTestHistory(string, Version) (core.History, error) {
	return nil, ErrNotSupported
}

func (Unsupported) GetStaticTestCases(string) ([]string, error) {
	return nil, ErrNotSupported
}

func (Unsupported) GetTestLogPath(string, Version) (string, error) {
	return "", ErrNotSupported
}

func (Unsupported) GetTestLog(string, Version) (string, error) {
	return "", ErrNotSupported
}

func (Unsupported) GetTestSource(string) (string, int, error) {
	return "", 0, ErrNotSupported
}

func (Unsupported) GetAvailableLevels(string, bool) ([]string, error) {
	return nil, ErrNotSupported
}

func (Unsupported) GetAvailableModes() ([]string, error) {
	return nil, ErrNotSupported
}

func (Unsupported) GetAvailableProducts() (*descriptor.VersionDescriptor, error) {
	return nil, ErrNotSupported
}

func (Unsupported) GetAvailableVariants(string) (*descriptor.VersionDescriptor, error) {
	return nil, ErrNotSupported
}

func (Unsupported) GetSelectedMode() (string, error)    { return "", ErrNotSupported }
func (Unsupported) SetSelectedMode(string) error        { return ErrNotSupported }
func (Unsupported) GetSelectedProduct() (string, error) { return "", ErrNotSupported }
func (Unsupported) SetSelectedProduct(string) error     { return ErrNotSupported }
func (Unsupported) GetSelectedVariant() (string, error) { return "", ErrNotSupported }
func (Unsupported) SetSelectedVariant(string) error     { return ErrNotSupported }
func (Unsupported) GetSelectedTarget() (string, error)  { return "", ErrNotSupported }
func (Unsupported) SetSelectedTarget(string) error      { return ErrNotSupported }

func (Unsupported) SetSelectedConfig(Version, string) error { return ErrNotSupported }

func (Unsupported) Run(context.Context, []string, []core.Listener, *config.Partial) (runner.Result, error) {
	return runner.Result{}, ErrNotSupported
}

func (Unsupported) ResetTests(context.Context, []string, []core.Listener, *config.Partial) error {
	return ErrNotSupported
}

func (Unsupported) Pause(bool) error { return ErrNotSupported }
func (Unsupported) Stop(bool) error  { return ErrNotSupported }
func (Unsupported) Resume() error    { return ErrNotSupported }

func (Unsupported) RunState() RunState { return RunStateIdle }
