package hidpp

import (
	"errors"

	"github.com/PonnagantiHemanth/testing-tool-sub012/pkg/testbox"
)

type rootSuite struct {
	hidpp *Suite
}

func (s *rootSuite) Name() string {
	return "root"
}

func (s *rootSuite) RegisterTests(r testbox.TestRegistrar) error {
	r.RegisterTestCase("ping", s.ping, testbox.WithLevels(LevelInterface), testbox.WithTestCases("ROOT_0001"))
	r.RegisterTestCase("get_feature", s.getFeature, testbox.WithLevels(LevelInterface), testbox.WithTestCases("ROOT_0002"))
	r.RegisterTestCase("unknown_feature", s.unknownFeature, testbox.WithLevels(LevelInterface, LevelErrorHandling), testbox.WithTestCases("ROOT_0003"))
	return nil
}

func (s *rootSuite) ping(tc testbox.TestCase) error {
	for _, data := range []byte{0x00, 0x5A, 0xFF} {
		version, echo, err := s.hidpp.client.Ping(tc.Context(), data)
		check(tc, err)

		tc.Logger().Debugf("Ping 0x%02X: protocol %d.%d echo 0x%02X", data, version.Major, version.Minor, echo)
		if echo != data {
			tc.Fail("ping data was not echoed back")
		}
		if version.Major < 2 {
			tc.Fail("device does not speak HID++ 2.0")
		}
	}
	return nil
}

func (s *rootSuite) getFeature(tc testbox.TestCase) error {
	for _, feature := range []uint16{FeatureDeviceName, FeatureAdjustableDPI} {
		index, err := s.hidpp.client.FeatureIndex(tc.Context(), feature)
		check(tc, err)
		tc.Logger().Infof("Feature 0x%04X at index %d", feature, index)
	}
	return nil
}

func (s *rootSuite) unknownFeature(tc testbox.TestCase) error {
	_, err := s.hidpp.client.FeatureIndex(tc.Context(), 0x1234)
	if errors.Is(err, ErrUnsupportedFeature) {
		return nil
	}
	check(tc, err)
	tc.Fail("unknown feature 0x1234 was reported as supported")
	return nil
}
