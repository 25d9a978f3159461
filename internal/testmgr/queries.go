package testmgr

import (
	"fmt"
	"os"

	"github.com/PonnagantiHemanth/testing-tool-sub012/internal/journal"
	"github.com/PonnagantiHemanth/testing-tool-sub012/internal/settings"
	"github.com/PonnagantiHemanth/testing-tool-sub012/pkg/testbox/core"
)

func (m *LocalTestManager) journalPath(store *settings.Store, v Version, fileName string) (string, error) {
	v, err := m.resolve(store, v)
	if err != nil {
		return "", err
	}
	return m.layout.JournalPath(v.Product, v.Variant, v.Target, fileName), nil
}

// GetTestStates reads the last journal entry of each test, independently of
// the descriptor cache. Tests without history are UNKNOWN.
func (m *LocalTestManager) GetTestStates(testIDs []string, v Version) (map[string]core.State, error) {
	path, err := m.journalPath(m.settings, v, m.args.JournalFileName())
	if err != nil {
		return nil, err
	}

	r, err := m.opener.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	if r != nil {
		defer r.Close()
	}

	states := make(map[string]core.State, len(testIDs))
	for _, id := range testIDs {
		states[id] = core.StateUnknown
		if r == nil {
			continue
		}

		e, err := r.Last(id)
		if err != nil {
			return nil, fmt.Errorf("failed to read state of '%s': %w", id, err)
		}
		if e != nil {
			states[id] = e.DescriptorState()
		}
	}

	return states, nil
}

func (m *LocalTestManager) GetTestState(testID string, v Version) (core.State, error) {
	states, err := m.GetTestStates([]string{testID}, v)
	if err != nil {
		return core.StateUnknown, err
	}
	return states[testID], nil
}

// GetTestHistory returns the journal entries of testID, oldest first. The
// journal is read on first access to the returned history, once.
func (m *LocalTestManager) GetTestHistory(testID string, v Version) (core.History, error) {
	path, err := m.journalPath(m.settings, v, m.args.JournalFileName())
	if err != nil {
		return nil, err
	}
	return journal.NewHistory(m.opener, path, testID).WithLogger(m.log), nil
}

// GetTestLogPath returns the path of the log of testID, or an empty string
// when there is no log.
func (m *LocalTestManager) GetTestLogPath(testID string, v Version) (string, error) {
	v, err := m.resolve(m.settings, v)
	if err != nil {
		return "", err
	}

	path := m.layout.LogPath(testID, v.Product, v.Variant, v.Target)
	if _, err := os.Stat(path); err != nil {
		return "", nil
	}
	return path, nil
}

// GetTestLog returns the log of testID, or an empty string when there is no
// log.
func (m *LocalTestManager) GetTestLog(testID string, v Version) (string, error) {
	path, err := m.GetTestLogPath(testID, v)
	if err != nil || path == "" {
		return "", err
	}
	return readFile(path)
}
