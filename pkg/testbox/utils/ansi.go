package utils

import (
	"io"
	"regexp"
)

var (
	// ANSI escape code cleaner
	ANSI_CLEANER = regexp.MustCompile(`(\x9B|\x1B\[)[0-?]*[ -\/]*[@-~]`)

	// ANSI non-color escape code cleaner, matches only control codes
	ANSI_CONTROL_CLEANER = regexp.MustCompile(`(\x9B|\x1B\[)[0-?]*[ -\/]*[@-ln-~]`)
)

type ansiCleaner struct {
	w io.Writer
}

// NewANSICleaner returns a writer that strips ANSI escape codes before
// writing to w. Escape codes split across writes are not detected, so it is
// meant for line-oriented writers such as loggers.
func NewANSICleaner(w io.Writer) io.Writer {
	return ansiCleaner{w}
}

func (c ansiCleaner) Write(p []byte) (int, error) {
	if _, err := c.w.Write(ANSI_CLEANER.ReplaceAll(p, nil)); err != nil {
		return 0, err
	}
	return len(p), nil
}
