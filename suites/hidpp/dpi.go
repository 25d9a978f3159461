package hidpp

import (
	"errors"
	"fmt"
	"slices"

	"github.com/PonnagantiHemanth/testing-tool-sub012/pkg/testbox"
)

// DPI value no sensor supports.
const unsupportedDPI = 0xDFFF

type dpiSuite struct {
	hidpp *Suite
}

func (s *dpiSuite) Name() string {
	return "dpi"
}

func (s *dpiSuite) RegisterTests(r testbox.TestRegistrar) error {
	r.RegisterTestCase("get_sensor_count", s.getSensorCount, testbox.WithLevels(LevelInterface), testbox.WithTestCases("DPI_0001"))
	r.RegisterTestCase("get_sensor_dpi", s.getSensorDPI, testbox.WithLevels(LevelInterface), testbox.WithTestCases("DPI_0002"))
	r.RegisterTestCase("set_sensor_dpi", s.setSensorDPI, testbox.WithLevels(LevelBusiness), testbox.WithTestCases("DPI_0003", "DPI_0004"))
	r.RegisterTestCase("restore_default", s.restoreDefault, testbox.WithLevels(LevelBusiness), testbox.WithTestCases("DPI_0005"))
	r.RegisterTestCase("invalid_dpi", s.invalidDPI, testbox.WithLevels(LevelErrorHandling, LevelRobustness), testbox.WithTestCases("DPI_0006"))
	return nil
}

// sensors returns the sensor indexes of the device, failing tc when there
// are none.
func (s *dpiSuite) sensors(tc testbox.TestCase) []byte {
	count, err := s.hidpp.client.SensorCount(tc.Context())
	check(tc, err)
	if count == 0 {
		tc.Fail("device reports no DPI sensor")
	}

	out := make([]byte, count)
	for i := range out {
		out[i] = byte(i)
	}
	return out
}

func (s *dpiSuite) getSensorCount(tc testbox.TestCase) error {
	tc.Logger().Infof("Device has %d sensors", len(s.sensors(tc)))
	return nil
}

func (s *dpiSuite) getSensorDPI(tc testbox.TestCase) error {
	for _, sensor := range s.sensors(tc) {
		supported, err := s.hidpp.client.SupportedDPI(tc.Context(), sensor)
		check(tc, err)

		current, def, err := s.hidpp.client.DPI(tc.Context(), sensor)
		check(tc, err)

		if !slices.Contains(supported, current) {
			tc.Fail(fmt.Sprintf("sensor %d runs at %d dpi, outside of %v", sensor, current, supported))
		}
		if !slices.Contains(supported, def) {
			tc.Fail(fmt.Sprintf("sensor %d defaults to %d dpi, outside of %v", sensor, def, supported))
		}
	}
	return nil
}

func (s *dpiSuite) setSensorDPI(tc testbox.TestCase) error {
	for _, sensor := range s.sensors(tc) {
		supported, err := s.hidpp.client.SupportedDPI(tc.Context(), sensor)
		check(tc, err)

		defer func() {
			if _, err := s.hidpp.client.SetDPI(tc.Context(), sensor, 0); err != nil {
				tc.Logger().WithError(err).Warnf("Failed to restore sensor %d", sensor)
			}
		}()

		for _, dpi := range supported {
			applied, err := s.hidpp.client.SetDPI(tc.Context(), sensor, dpi)
			check(tc, err)
			if applied != dpi {
				tc.Fail(fmt.Sprintf("sensor %d applied %d dpi instead of %d", sensor, applied, dpi))
			}

			current, _, err := s.hidpp.client.DPI(tc.Context(), sensor)
			check(tc, err)
			if current != dpi {
				tc.Fail(fmt.Sprintf("sensor %d reports %d dpi after setting %d", sensor, current, dpi))
			}
		}
	}
	return nil
}

func (s *dpiSuite) restoreDefault(tc testbox.TestCase) error {
	for _, sensor := range s.sensors(tc) {
		_, err := s.hidpp.client.SetDPI(tc.Context(), sensor, 0)
		check(tc, err)

		current, def, err := s.hidpp.client.DPI(tc.Context(), sensor)
		check(tc, err)
		if current != def {
			tc.Fail(fmt.Sprintf("sensor %d runs at %d dpi after restoring default %d", sensor, current, def))
		}
	}
	return nil
}

func (s *dpiSuite) invalidDPI(tc testbox.TestCase) error {
	ctx := tc.Context()
	sensors := s.sensors(tc)

	cases := []struct {
		sensor byte
		dpi    uint16
	}{
		{sensors[0], unsupportedDPI},
		{byte(len(sensors)), 800},
	}
	for _, c := range cases {
		_, err := s.hidpp.client.SetDPI(ctx, c.sensor, c.dpi)
		var derr *DeviceError
		if !errors.As(err, &derr) {
			check(tc, err)
			tc.Fail(fmt.Sprintf("setting sensor %d to %d dpi was accepted", c.sensor, c.dpi))
		}
		if derr.Code != ErrInvalidArgument {
			tc.Fail(fmt.Sprintf("setting sensor %d to %d dpi gave %s, expected %s", c.sensor, c.dpi, derr.Code, ErrInvalidArgument))
		}
	}
	return nil
}
