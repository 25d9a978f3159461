package journal

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/PonnagantiHemanth/testing-tool-sub012/pkg/testbox/core"
)

// History is the lazily loaded history of one test. The journal is opened on
// the first access and read once; later accesses reuse the loaded entries.
type History struct {
	log  logrus.FieldLogger
	load func() ([]core.HistoryEntry, error)
}

var _ core.History = (*History)(nil)

// NewHistory returns the history of testID in the journal at path, read
// through opener. Nothing is read until the history is first accessed.
func NewHistory(opener Opener, path, testID string) *History {
	h := &History{}
	h.load = sync.OnceValues(func() ([]core.HistoryEntry, error) {
		entries, err := readHistory(opener, path, testID)
		if err != nil && h.log != nil {
			h.log.WithError(err).WithField("test", testID).Warnf("Failed to read history from journal '%s'", path)
		}
		return entries, err
	})
	return h
}

// WithLogger makes the history report a failed load to log, once. It must be
// called before the first access.
func (h *History) WithLogger(log logrus.FieldLogger) *History {
	h.log = log
	return h
}

func readHistory(opener Opener, path, testID string) ([]core.HistoryEntry, error) {
	r, err := opener.OpenReader(path)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, nil
	}
	defer r.Close()

	entries, err := r.Entries(testID)
	if err != nil {
		return nil, err
	}

	out := make([]core.HistoryEntry, len(entries))
	for i, e := range entries {
		out[i] = e.HistoryEntry()
	}
	return out, nil
}

func (h *History) entries() []core.HistoryEntry {
	entries, _ := h.load()
	return entries
}

func (h *History) Len() int {
	return len(h.entries())
}

func (h *History) At(i int) core.HistoryEntry {
	return h.entries()[i]
}

// Entries returns a copy of the loaded entries, oldest first.
func (h *History) Entries() []core.HistoryEntry {
	return append([]core.HistoryEntry(nil), h.entries()...)
}

func (h *History) Err() error {
	_, err := h.load()
	return err
}

// Last returns the most recent entry and false when the history is empty.
func (h *History) Last() (core.HistoryEntry, bool) {
	entries := h.entries()
	if len(entries) == 0 {
		return core.HistoryEntry{}, false
	}
	return entries[len(entries)-1], true
}
