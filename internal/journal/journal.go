// Package journal reads and writes run journals: append-only logs of test
// outcomes keyed by test ID.
//
// Two formats are supported and selected by file extension. ".db" and
// ".sqlite" files are SQLite databases; anything else is a YAML document
// stream with one document per entry.
package journal

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/PonnagantiHemanth/testing-tool-sub012/pkg/testbox/core"
	"github.com/pkg/errors"
)

const (
	// Default journal file name inside a product/variant/target directory.
	FileName = "Journal.jrl"

	// Journal file name when the SQLite format is selected.
	DatabaseFileName = "Journal.db"
)

type Entry struct {
	TestID  string    `yaml:"testId"`
	State   string    `yaml:"state"`
	Start   time.Time `yaml:"start"`
	Stop    time.Time `yaml:"stop"`
	Message string    `yaml:"message,omitempty"`
	RunID   string    `yaml:"runId,omitempty"`
}

// DescriptorState maps the entry's state token to a descriptor state.
func (e Entry) DescriptorState() core.State {
	return core.ParseState(e.State)
}

func (e Entry) HistoryEntry() core.HistoryEntry {
	return core.HistoryEntry{
		State:   e.DescriptorState(),
		Start:   e.Start,
		Stop:    e.Stop,
		Message: e.Message,
	}
}

type Reader interface {
	// Last returns the most recent entry for the test, or nil if there is
	// none.
	Last(testID string) (*Entry, error)

	// Entries returns all entries for the test in stored order.
	Entries(testID string) ([]Entry, error)

	// All returns every entry in stored order.
	All() ([]Entry, error)

	Close() error
}

type Writer interface {
	Append(e Entry) error
	Close() error
}

// Opener opens journals for reading. OpenReader returns a nil Reader and a nil
// error when the journal does not exist.
type Opener interface {
	OpenReader(path string) (Reader, error)
}

type OpenerFunc func(path string) (Reader, error)

func (f OpenerFunc) OpenReader(path string) (Reader, error) {
	return f(path)
}

// DefaultOpener opens journals from the local filesystem.
var DefaultOpener Opener = OpenerFunc(OpenReader)

func isDatabase(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite":
		return true
	default:
		return false
	}
}

// OpenReader opens the journal at path. A missing file is not an error: both
// return values are nil.
func OpenReader(path string) (Reader, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "failed to stat journal '%s'", path)
	}

	if isDatabase(path) {
		return openDatabase(path)
	}

	return readStream(path)
}

// OpenWriter opens the journal at path for appending, creating it and its
// parent directories when needed.
func OpenWriter(path string) (Writer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrapf(err, "failed to create journal directory for '%s'", path)
	}

	if isDatabase(path) {
		return openDatabase(path)
	}

	return openStreamWriter(path)
}

// Copy appends every entry of src to dst and returns how many were copied.
func Copy(dst Writer, src Reader) (int, error) {
	entries, err := src.All()
	if err != nil {
		return 0, err
	}

	for i, e := range entries {
		if err := dst.Append(e); err != nil {
			return i, err
		}
	}

	return len(entries), nil
}
