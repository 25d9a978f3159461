package journal

import (
	"errors"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/PonnagantiHemanth/testing-tool-sub012/pkg/testbox/core"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingOpener counts how many times a journal is opened.
type countingOpener struct {
	opens atomic.Int32
}

func (o *countingOpener) OpenReader(path string) (Reader, error) {
	o.opens.Add(1)
	return OpenReader(path)
}

func TestHistoryIsLazy(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	writeEntries(t, path,
		entryAt("hidpp.dpi.get", core.TokenFailure, 0, "wrong dpi"),
		entryAt("hidpp.dpi.set", core.TokenSuccess, 1, ""),
		entryAt("hidpp.dpi.get", core.TokenSuccess, 2, ""),
	)

	opener := &countingOpener{}
	h := NewHistory(opener, path, "hidpp.dpi.get")
	assert.Zero(t, opener.opens.Load(), "history is not read before first access")

	require.Equal(t, 2, h.Len())
	first := h.Entries()
	second := h.Entries()
	assert.Equal(t, first, second)
	assert.Equal(t, core.StateFailure, h.At(0).State)
	assert.Equal(t, "wrong dpi", h.At(0).Message)
	assert.Equal(t, core.StateSuccess, h.At(1).State)
	assert.NoError(t, h.Err())

	last, ok := h.Last()
	require.True(t, ok)
	assert.Equal(t, core.StateSuccess, last.State)

	assert.EqualValues(t, 1, opener.opens.Load())
}

func TestHistoryConcurrentFirstAccess(t *testing.T) {
	path := filepath.Join(t.TempDir(), DatabaseFileName)
	writeEntries(t, path, entryAt("hidpp.root.ping", core.TokenSuccess, 0, ""))

	opener := &countingOpener{}
	h := NewHistory(opener, path, "hidpp.root.ping")

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, 1, h.Len())
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, opener.opens.Load())
}

func TestHistoryMissingJournal(t *testing.T) {
	h := NewHistory(DefaultOpener, filepath.Join(t.TempDir(), FileName), "hidpp.root.ping")

	assert.Zero(t, h.Len())
	assert.Empty(t, h.Entries())
	assert.NoError(t, h.Err())

	_, ok := h.Last()
	assert.False(t, ok)
}

func TestHistoryOpenError(t *testing.T) {
	broken := OpenerFunc(func(string) (Reader, error) {
		return nil, errors.New("permission denied")
	})
	h := NewHistory(broken, "Journal.jrl", "hidpp.root.ping")

	assert.Zero(t, h.Len())
	assert.EqualError(t, h.Err(), "permission denied")
}

func TestHistoryLogsLoadErrorOnce(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	broken := OpenerFunc(func(string) (Reader, error) {
		return nil, errors.New("corrupt journal")
	})
	h := NewHistory(broken, "Journal.jrl", "hidpp.dpi.set").WithLogger(logger)

	_, ok := h.Last()
	assert.False(t, ok)
	assert.Zero(t, h.Len())
	assert.Error(t, h.Err())

	require.Len(t, hook.AllEntries(), 1)
	entry := hook.LastEntry()
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, "hidpp.dpi.set", entry.Data["test"])
	assert.EqualError(t, entry.Data[logrus.ErrorKey].(error), "corrupt journal")
}
