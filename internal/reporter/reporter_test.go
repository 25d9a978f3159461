package reporter

import (
	"bytes"
	"encoding/xml"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PonnagantiHemanth/testing-tool-sub012/internal/descriptor"
	"github.com/PonnagantiHemanth/testing-tool-sub012/internal/registry/registrytest"
	"github.com/PonnagantiHemanth/testing-tool-sub012/pkg/testbox/core"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

// sampleTree builds
//
//	Root
//	  hidpp
//	    ping      SUCCESS
//	    dpi
//	      get     FAILURE
//	      set     ERROR
//	    name      UNKNOWN
func sampleTree() *descriptor.Descriptor {
	root := descriptor.NewRun("Root")
	hidpp := descriptor.New("hidpp", core.StateUnknown, descriptor.TypeSuite)
	dpi := descriptor.New("hidpp.dpi", core.StateUnknown, descriptor.TypeSuite)

	root.AddChild(hidpp)
	hidpp.AddChild(descriptor.New("hidpp.ping", core.StateSuccess, descriptor.TypeTest))
	hidpp.AddChild(dpi)
	dpi.AddChild(descriptor.New("hidpp.dpi.get", core.StateFailure, descriptor.TypeTest))
	dpi.AddChild(descriptor.New("hidpp.dpi.set", core.StateError, descriptor.TypeTest))
	hidpp.AddChild(descriptor.New("hidpp.name", core.StateUnknown, descriptor.TypeTest))
	return root
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleTree())
	assert.Equal(t, Summary{Total: 4, Passed: 1, Failed: 1, Errored: 1, NotRun: 1}, s)
	assert.Equal(t, StatusError, s.Status())
	assert.Equal(t, "1 failed; 1 errored; 1 not run; 1 passed; 4 total", s.String())
	assert.Error(t, s.ExitError())

	ok := Summary{Total: 2, Passed: 2}
	assert.Equal(t, StatusOk, ok.Status())
	assert.NoError(t, ok.ExitError())

	assert.Equal(t, StatusFailed, Summary{Total: 1, Failed: 1}.Status())
}

func TestPrintReport(t *testing.T) {
	var out bytes.Buffer
	logs := func(id string) (string, error) {
		switch id {
		case "hidpp.dpi.get":
			return "first\nsecond\n", nil
		case "hidpp.dpi.set":
			return "", errors.New("unreadable")
		}
		return "", nil
	}

	s, err := New(&out, logs).PrintReport(sampleTree())
	require.NoError(t, err)
	assert.Equal(t, 4, s.Total)

	text := out.String()
	assert.Contains(t, text, "Test case: 'hidpp.dpi.get' status: FAILURE; collected logs:")
	assert.Contains(t, text, "second")
	assert.Contains(t, text, "(log unavailable: unreadable)")
	assert.NotContains(t, text, "'hidpp.ping'")
	assert.Contains(t, text, "TEST RESULT: error. 1 failed; 1 errored; 1 not run; 1 passed; 4 total")
}

func TestPrintReportWithoutTests(t *testing.T) {
	var out bytes.Buffer
	_, err := New(&out, nil).PrintReport(descriptor.NewRun("Root"))
	assert.Error(t, err)
}

func TestLogTailKeepsLastLines(t *testing.T) {
	var lines []string
	for i := 0; i < maxLogLines+10; i++ {
		lines = append(lines, strings.Repeat("x", i+1))
	}
	r := New(nil, func(string) (string, error) { return strings.Join(lines, "\n"), nil })

	tail := r.logTail("any")
	require.Len(t, tail, maxLogLines)
	assert.Equal(t, lines[len(lines)-1], tail[len(tail)-1])
}

func TestSimpleWordWrap(t *testing.T) {
	assert.Equal(t, []string{"aaa bb", "cccc", "d"}, simpleWordWrap("aaa bb cccc d", 6))
	assert.Empty(t, simpleWordWrap("   ", 10))
}

func TestPrintTree(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, PrintTree(&out, sampleTree()))

	text := out.String()
	assert.Contains(t, text, "Root [ERROR]")
	assert.Contains(t, text, "dpi [ERROR]")
	assert.Contains(t, text, "get [FAILURE]")
	assert.Contains(t, text, "name [UNKNOWN]")
	assert.Contains(t, text, "└──")
}

func TestPrintVersions(t *testing.T) {
	products := descriptor.NewVersionRoot()
	mouse := products.Add("mouse")
	mouse.Add("wired")
	mouse.Add("wireless")
	products.Add("keyboard")

	var out bytes.Buffer
	require.NoError(t, PrintVersions(&out, "products", products))

	text := out.String()
	for _, name := range []string{"products", "mouse", "wired", "wireless", "keyboard"} {
		assert.Contains(t, text, name)
	}
}

type fakeHistory []core.HistoryEntry

func (h fakeHistory) Len() int                     { return len(h) }
func (h fakeHistory) At(i int) core.HistoryEntry   { return h[i] }
func (h fakeHistory) Entries() []core.HistoryEntry { return append([]core.HistoryEntry(nil), h...) }
func (h fakeHistory) Err() error                   { return nil }

func TestPrintHistory(t *testing.T) {
	start := time.Now().Add(-time.Hour)
	h := fakeHistory{
		{State: core.StateSuccess, Start: start, Stop: start.Add(1500 * time.Millisecond)},
		{State: core.StateFailure, Start: start, Stop: start.Add(20 * time.Millisecond), Message: "dpi not applied"},
	}

	var out bytes.Buffer
	require.NoError(t, PrintHistory(&out, "hidpp.dpi.set", h))

	text := out.String()
	assert.Contains(t, text, "hidpp.dpi.set")
	assert.Contains(t, text, "SUCCESS")
	assert.Contains(t, text, "dpi not applied")
	assert.Contains(t, text, "1.5s")
	assert.Contains(t, text, "20ms")
	assert.Contains(t, text, "1 hour ago")
}

func TestPrintStates(t *testing.T) {
	var out bytes.Buffer
	PrintStates(&out, map[string]core.State{
		"hidpp.name": core.StateSuccess,
		"hidpp.ping": core.StateFailure,
	})

	text := out.String()
	assert.Less(t, strings.Index(text, "hidpp.name"), strings.Index(text, "hidpp.ping"))
	assert.Contains(t, text, "FAILURE")
}

func TestJUnitListener(t *testing.T) {
	reg := registrytest.Build(t, registrytest.Sample(registrytest.Pass))
	lookup := func(id string) core.Test {
		test, err := reg.Lookup(id)
		require.NoError(t, err)
		return test
	}

	l := NewJUnitListener(map[string]string{"PRODUCT": "mouse", "TARGET": "dev"})

	suite := lookup("hidpp.dpi")
	l.StartTest(suite)
	for _, id := range []string{"hidpp.dpi.get", "hidpp.dpi.set", "hidpp.ping"} {
		l.StartTest(lookup(id))
	}
	l.AddSuccess(lookup("hidpp.dpi.get"))
	l.AddFailure(lookup("hidpp.dpi.set"), errors.New("dpi not applied\nexpected 800"))
	l.AddError(lookup("hidpp.ping"), errors.New("device unplugged"))
	// Still running, left out of the report.
	l.StartTest(lookup("hidpp.name"))

	path := filepath.Join(t.TempDir(), "junit", "report.xml")
	require.NoError(t, l.WriteFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "<?xml"))

	var report junitReport
	require.NoError(t, xml.Unmarshal(data, &report))
	require.Len(t, report.Suites, 2)

	dpi := report.Suites[0]
	assert.Equal(t, "hidpp.dpi", dpi.Name)
	assert.Equal(t, 2, dpi.Tests)
	assert.Equal(t, 1, dpi.Failures)
	assert.Equal(t, 0, dpi.Errors)
	assert.Equal(t, []junitProperty{{Name: "PRODUCT", Value: "mouse"}, {Name: "TARGET", Value: "dev"}}, dpi.Properties)
	require.Len(t, dpi.Cases, 2)
	assert.Nil(t, dpi.Cases[0].Failure)
	require.NotNil(t, dpi.Cases[1].Failure)
	assert.Equal(t, "dpi not applied", dpi.Cases[1].Failure.Message)
	assert.Equal(t, "set", dpi.Cases[1].Name)

	root := report.Suites[1]
	assert.Equal(t, "hidpp", root.Name)
	assert.Equal(t, 1, root.Errors)
	require.NotNil(t, root.Cases[0].Error)
	assert.Equal(t, "device unplugged", root.Cases[0].Error.Message)
}
