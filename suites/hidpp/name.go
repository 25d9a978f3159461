package hidpp

import (
	"fmt"
	"unicode"

	"github.com/PonnagantiHemanth/testing-tool-sub012/pkg/testbox"
)

type nameSuite struct {
	hidpp *Suite
}

func (s *nameSuite) Name() string {
	return "name"
}

func (s *nameSuite) RegisterTests(r testbox.TestRegistrar) error {
	r.RegisterTestCase("get_name", s.getName, testbox.WithLevels(LevelBusiness), testbox.WithTestCases("NAME_0001"))
	r.RegisterTestCase("get_type", s.getType, testbox.WithLevels(LevelBusiness), testbox.WithTestCases("NAME_0002"))
	return nil
}

func (s *nameSuite) getName(tc testbox.TestCase) error {
	name, err := s.hidpp.client.Name(tc.Context())
	check(tc, err)

	if name == "" {
		tc.Fail("device name is empty")
	}
	for _, r := range name {
		if r > unicode.MaxASCII || !unicode.IsPrint(r) {
			tc.Fail(fmt.Sprintf("device name %q holds non printable characters", name))
		}
	}

	tc.Logger().Infof("Device name: %s", name)
	return nil
}

func (s *nameSuite) getType(tc testbox.TestCase) error {
	kind, err := s.hidpp.client.DeviceType(tc.Context())
	check(tc, err)

	if kind != DeviceTypeMouse {
		tc.Fail(fmt.Sprintf("device type %d, expected mouse (%d)", kind, DeviceTypeMouse))
	}
	return nil
}
