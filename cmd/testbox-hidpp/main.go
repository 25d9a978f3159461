package main

import (
	"github.com/PonnagantiHemanth/testing-tool-sub012/pkg/testbox"
	"github.com/PonnagantiHemanth/testing-tool-sub012/suites/hidpp"
)

func main() {
	harness := testbox.CreateHarness("hidpp")

	// HID++ suites against a simulated device
	harness.AddSuite(hidpp.NewSuite(hidpp.Simulated()))

	harness.Run()
}
