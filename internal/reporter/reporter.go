// Package reporter renders run summaries, descriptor trees, journal tables
// and JUnit XML files.
package reporter

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/PonnagantiHemanth/testing-tool-sub012/internal/descriptor"
)

// Lines of a failing test log printed in a report. Older lines are dropped.
const maxLogLines = 40

// LogSource returns the log of a test, or an empty string when there is none.
type LogSource func(testID string) (string, error)

type Reporter struct {
	out  io.Writer
	logs LogSource
}

func New(out io.Writer, logs LogSource) *Reporter {
	return &Reporter{out: out, logs: logs}
}

// PrintReport lists the bad test cases under root with the tail of their
// logs, then the result line. It returns the summary it printed.
func (r *Reporter) PrintReport(root *descriptor.Descriptor) (Summary, error) {
	summary := Summarize(root)
	if summary.Total == 0 {
		return summary, errors.New("no test cases were run")
	}

	for _, leaf := range root.Leaves() {
		if leaf.Type() != descriptor.TypeTest || !leaf.State().IsBad() {
			continue
		}

		printSeparator(r.out)
		fmt.Fprintf(r.out, "Test case: '%s' status: %s; collected logs:\n", leaf.TestID(), leaf.State().ColorString())
		for _, line := range r.logTail(leaf.TestID()) {
			fmt.Fprintln(r.out, "    ", line)
		}
	}

	printSeparator(r.out)
	fmt.Fprintf(r.out, "TEST RESULT: %s. %s\n", summary.Status().StringColor(), summary)

	return summary, nil
}

func (r *Reporter) logTail(testID string) []string {
	if r.logs == nil {
		return nil
	}

	text, err := r.logs(testID)
	if err != nil {
		return []string{fmt.Sprintf("(log unavailable: %v)", err)}
	}

	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	if len(lines) == 1 && lines[0] == "" {
		return []string{"(no log)"}
	}
	if len(lines) > maxLogLines {
		lines = lines[len(lines)-maxLogLines:]
	}
	return lines
}

// PrintMessage prints a titled block with text wrapped to the terminal.
func (r *Reporter) PrintMessage(title, text string) {
	printSeparatorWithTitle(r.out, title)
	for _, line := range simpleWordWrap(text, termWidth()-4) {
		fmt.Fprintln(r.out, "   ", line)
	}
}
