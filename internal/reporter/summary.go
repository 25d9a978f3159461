package reporter

import (
	"fmt"
	"strings"

	"github.com/PonnagantiHemanth/testing-tool-sub012/internal/descriptor"
	"github.com/PonnagantiHemanth/testing-tool-sub012/internal/runner"
	"github.com/PonnagantiHemanth/testing-tool-sub012/pkg/testbox/core"
)

// Summary counts test cases by outcome.
type Summary struct {
	Total   int
	Passed  int
	Failed  int
	Errored int
	NotRun  int
	Running int
}

// Summarize counts the test case descriptors at or below d by state. States
// never journaled (UNKNOWN, MISSING) count as not run.
func Summarize(d *descriptor.Descriptor) Summary {
	var s Summary

	for _, leaf := range d.Leaves() {
		if leaf.Type() != descriptor.TypeTest {
			continue
		}

		s.Total++
		switch leaf.State() {
		case core.StateSuccess:
			s.Passed++
		case core.StateFailure:
			s.Failed++
		case core.StateError:
			s.Errored++
		case core.StateRunning:
			s.Running++
		default:
			s.NotRun++
		}
	}

	return s
}

// FromResult converts the counters of an engine run.
func FromResult(r runner.Result) Summary {
	return Summary{
		Total:   r.Selected,
		Passed:  r.Passed,
		Failed:  r.Failed,
		Errored: r.Errored,
		NotRun:  r.NotRun,
	}
}

func (s Summary) Status() SummaryStatus {
	if s.Errored > 0 {
		return StatusError
	}
	if s.Failed > 0 {
		return StatusFailed
	}
	return StatusOk
}

func (s Summary) String() string {
	var out []string

	if s.Failed > 0 {
		out = append(out, fmt.Sprintf("%d failed", s.Failed))
	}
	if s.Errored > 0 {
		out = append(out, fmt.Sprintf("%d errored", s.Errored))
	}
	if s.NotRun > 0 {
		out = append(out, fmt.Sprintf("%d not run", s.NotRun))
	}
	if s.Running > 0 {
		out = append(out, fmt.Sprintf("%d running", s.Running))
	}

	out = append(out, fmt.Sprintf("%d passed", s.Passed))
	out = append(out, fmt.Sprintf("%d total", s.Total))

	return strings.Join(out, "; ")
}

// ExitError returns an error when the summary holds failed or errored tests.
func (s Summary) ExitError() error {
	if s.Status().IsBad() {
		return fmt.Errorf("test run finished with %d failed and %d errored test cases", s.Failed, s.Errored)
	}
	return nil
}
