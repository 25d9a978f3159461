package reporter

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/PonnagantiHemanth/testing-tool-sub012/pkg/testbox/core"
)

type junitFailure struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
	Text    string `xml:",chardata"`
}

type junitTestCase struct {
	XMLName   xml.Name      `xml:"testcase"`
	ClassName string        `xml:"classname,attr"`
	Name      string        `xml:"name,attr"`
	Time      string        `xml:"time,attr"`
	Failure   *junitFailure `xml:"failure,omitempty"`
	Error     *junitFailure `xml:"error,omitempty"`
}

type junitProperty struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

type junitSuite struct {
	XMLName    xml.Name        `xml:"testsuite"`
	Name       string          `xml:"name,attr"`
	Tests      int             `xml:"tests,attr"`
	Failures   int             `xml:"failures,attr"`
	Errors     int             `xml:"errors,attr"`
	Time       string          `xml:"time,attr"`
	Timestamp  string          `xml:"timestamp,attr"`
	Properties []junitProperty `xml:"properties>property,omitempty"`
	Cases      []junitTestCase `xml:"testcase"`
}

type junitReport struct {
	XMLName xml.Name `xml:"testsuites"`
	Suites  []junitSuite `xml:"testsuite"`
}

type junitResult struct {
	test  core.Test
	start time.Time
	stop  time.Time
	state core.State
	err   error
}

// JUnitListener records test case outcomes and writes them as a JUnit XML
// report, one testsuite element per suite holding test cases.
type JUnitListener struct {
	core.BaseListener

	properties []junitProperty

	mu      sync.Mutex
	order   []string
	results map[string]*junitResult
}

var _ core.Listener = (*JUnitListener)(nil)

// NewJUnitListener creates a listener. Properties are attached to every
// suite of the report, typically the selected product, variant, target and
// mode.
func NewJUnitListener(properties map[string]string) *JUnitListener {
	l := &JUnitListener{results: make(map[string]*junitResult)}
	for _, name := range sortedKeys(properties) {
		l.properties = append(l.properties, junitProperty{Name: name, Value: properties[name]})
	}
	return l
}

func (l *JUnitListener) StartTest(t core.Test) {
	if t.Kind() != core.TestKindCase {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.results[t.ID()]; !ok {
		l.order = append(l.order, t.ID())
	}
	l.results[t.ID()] = &junitResult{test: t, start: time.Now(), state: core.StateRunning}
}

func (l *JUnitListener) finish(t core.Test, state core.State, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	r, ok := l.results[t.ID()]
	if !ok {
		r = &junitResult{test: t, start: time.Now()}
		l.results[t.ID()] = r
		l.order = append(l.order, t.ID())
	}
	r.stop = time.Now()
	r.state = state
	r.err = err
}

func (l *JUnitListener) AddSuccess(t core.Test) {
	l.finish(t, core.StateSuccess, nil)
}

func (l *JUnitListener) AddFailure(t core.Test, err error) {
	l.finish(t, core.StateFailure, err)
}

func (l *JUnitListener) AddError(t core.Test, err error) {
	l.finish(t, core.StateError, err)
}

func (l *JUnitListener) report() junitReport {
	l.mu.Lock()
	defer l.mu.Unlock()

	var report junitReport
	index := make(map[string]int)
	elapsed := make(map[string]time.Duration)

	for _, id := range l.order {
		r := l.results[id]
		if r.state == core.StateRunning {
			continue
		}

		class := suiteID(id)
		i, ok := index[class]
		if !ok {
			i = len(report.Suites)
			index[class] = i
			report.Suites = append(report.Suites, junitSuite{
				Name:       class,
				Timestamp:  r.start.UTC().Format(time.RFC3339),
				Properties: l.properties,
			})
		}

		suite := &report.Suites[i]
		duration := r.stop.Sub(r.start)
		elapsed[class] += duration

		tc := junitTestCase{
			ClassName: class,
			Name:      r.test.Name(),
			Time:      seconds(duration),
		}

		switch r.state {
		case core.StateFailure:
			suite.Failures++
			tc.Failure = newJUnitFailure("failure", r.err)
		case core.StateError:
			suite.Errors++
			tc.Error = newJUnitFailure("error", r.err)
		}

		suite.Tests++
		suite.Cases = append(suite.Cases, tc)
	}

	for class, i := range index {
		report.Suites[i].Time = seconds(elapsed[class])
	}

	return report
}

func newJUnitFailure(kind string, err error) *junitFailure {
	f := &junitFailure{Type: kind}
	if err != nil {
		f.Message = firstLine(err.Error())
		f.Text = err.Error()
	}
	return f
}

// Write renders the report of every finished test case.
func (l *JUnitListener) Write(w io.Writer) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}

	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(l.report()); err != nil {
		return fmt.Errorf("failed to encode junit report: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// WriteFile writes the report to path, creating parent directories.
func (l *JUnitListener) WriteFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create junit directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create junit report: %w", err)
	}

	if err := l.Write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func suiteID(testID string) string {
	if i := strings.LastIndex(testID, "."); i >= 0 {
		return testID[:i]
	}
	return testID
}

func seconds(d time.Duration) string {
	return fmt.Sprintf("%.3f", d.Seconds())
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
