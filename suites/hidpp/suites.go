package hidpp

import (
	"context"
	"errors"
	"fmt"

	"github.com/PonnagantiHemanth/testing-tool-sub012/pkg/testbox"
)

const (
	LevelInterface     = "Interface"
	LevelBusiness      = "Business"
	LevelErrorHandling = "ErrorHandling"
	LevelRobustness    = "Robustness"
)

// Connector opens the device under test.
type Connector func(ctx context.Context) (Transport, error)

// Suite is the root of the HID++ suites. Setup connects to the device and
// checks it answers a ping; nested suites share the connection.
type Suite struct {
	connect Connector
	client  *Client
}

func NewSuite(connect Connector) *Suite {
	return &Suite{connect: connect}
}

// Simulated connects every run to its own fresh simulated device.
func Simulated(opts ...DeviceOption) Connector {
	return func(context.Context) (Transport, error) {
		return NewDevice(opts...), nil
	}
}

func (s *Suite) Name() string {
	return "hidpp"
}

func (s *Suite) RegisterTests(r testbox.TestRegistrar) error {
	r.RegisterSuite(&rootSuite{hidpp: s})
	r.RegisterSuite(&dpiSuite{hidpp: s})
	r.RegisterSuite(&nameSuite{hidpp: s})
	return nil
}

func (s *Suite) Setup(ctx testbox.SetupCleanupContext) error {
	t, err := s.connect(ctx.Context())
	if err != nil {
		return fmt.Errorf("failed to connect to device: %w", err)
	}

	client := NewClient(t)
	version, _, err := client.Ping(ctx.Context(), 0)
	if err != nil {
		return fmt.Errorf("device did not answer ping: %w", err)
	}

	ctx.Logger().Infof("Connected to HID++ %d.%d device", version.Major, version.Minor)
	s.client = client
	return nil
}

func (s *Suite) Cleanup(ctx testbox.SetupCleanupContext) error {
	s.client = nil
	return nil
}

// check ends the test case when err is set: device error reports fail it,
// anything else (transport, cancellation) errors it.
func check(tc testbox.TestCase, err error) {
	if err == nil {
		return
	}

	var derr *DeviceError
	if errors.As(err, &derr) || errors.Is(err, ErrUnsupportedFeature) {
		tc.FailFromError(err)
	}
	tc.Error(err)
}
