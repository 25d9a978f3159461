package collector

import (
	"path/filepath"
	"testing"
	"time"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PonnagantiHemanth/testing-tool-sub012/internal/descriptor"
	"github.com/PonnagantiHemanth/testing-tool-sub012/internal/journal"
	"github.com/PonnagantiHemanth/testing-tool-sub012/internal/registry/registrytest"
	"github.com/PonnagantiHemanth/testing-tool-sub012/internal/runner"
	"github.com/PonnagantiHemanth/testing-tool-sub012/pkg/testbox/core"
)

func newCollector() *Collector {
	logger, _ := logtest.NewNullLogger()
	return New(runner.New(runner.Config{Logger: logger}), logger)
}

func writeJournal(t *testing.T, path string, entries map[string]string) {
	t.Helper()
	w, err := journal.OpenWriter(path)
	require.NoError(t, err)
	now := time.Now()
	for id, state := range entries {
		require.NoError(t, w.Append(journal.Entry{TestID: id, State: state, Start: now, Stop: now}))
	}
	require.NoError(t, w.Close())
}

func openJournal(t *testing.T, path string) journal.Reader {
	t.Helper()
	r, err := journal.OpenReader(path)
	require.NoError(t, err)
	if r != nil {
		t.Cleanup(func() { r.Close() })
	}
	return r
}

func TestCollectBuildsNestedTree(t *testing.T) {
	reg := registrytest.Build(t, registrytest.Sample(registrytest.Pass))

	root := newCollector().Collect(registrytest.Load(t, reg, "hidpp"))

	assert.Equal(t, RootName, root.TestID())
	assert.Equal(t, descriptor.TypeRun, root.Type())
	require.Len(t, root.Children(), 1)

	hidpp := root.Children()[0]
	assert.Equal(t, "hidpp", hidpp.TestID())
	assert.Equal(t, descriptor.TypeSuite, hidpp.Type())
	assert.Same(t, root, hidpp.Parent())

	var ids []string
	for _, c := range hidpp.Children() {
		ids = append(ids, c.TestID())
	}
	assert.Equal(t, []string{"hidpp.ping", "hidpp.dpi", "hidpp.name"}, ids)

	dpi := hidpp.Children()[1]
	assert.Equal(t, descriptor.TypeSuite, dpi.Type())
	require.Len(t, dpi.Children(), 2)
	assert.Equal(t, descriptor.TypeTest, dpi.Children()[0].Type())

	root.Walk(func(d *descriptor.Descriptor) {
		assert.Equal(t, core.StateUnknown, d.State(), d.TestID())
	})
}

func TestCollectSeveralRoots(t *testing.T) {
	reg := registrytest.Build(t, registrytest.Sample(registrytest.Pass))

	root := newCollector().Collect(registrytest.Load(t, reg, "hidpp.ping", "hidpp.dpi"))

	require.Len(t, root.Children(), 2)
	assert.Equal(t, "hidpp.ping", root.Children()[0].TestID())
	assert.Equal(t, "hidpp.dpi", root.Children()[1].TestID())
}

func TestMergeFreshDiscovery(t *testing.T) {
	suite := &registrytest.Suite{
		SuiteName: "suite",
		Register: func(r core.TestRegistrar) {
			r.RegisterTestCase("passed", registrytest.Pass)
			r.RegisterTestCase("never_run", registrytest.Pass)
		},
	}
	reg := registrytest.Build(t, suite)
	c := newCollector()
	dir := t.TempDir()

	t.Run("success and never run", func(t *testing.T) {
		path := filepath.Join(dir, "first", journal.FileName)
		writeJournal(t, path, map[string]string{"suite.passed": core.TokenSuccess})

		root := c.Collect(registrytest.Load(t, reg, "suite"))
		require.NoError(t, c.Merge(root, openJournal(t, path)))

		s := root.Find("suite")
		assert.Equal(t, core.StateSuccess, s.State())
		assert.Equal(t, core.StateUnknown, root.Find("suite.never_run").State())
		assert.Equal(t, core.StateSuccess, root.State())
	})

	t.Run("never run becomes error", func(t *testing.T) {
		path := filepath.Join(dir, "second", journal.DatabaseFileName)
		writeJournal(t, path, map[string]string{
			"suite.passed":    core.TokenSuccess,
			"suite.never_run": core.TokenError,
		})

		root := c.Collect(registrytest.Load(t, reg, "suite"))
		require.NoError(t, c.Merge(root, openJournal(t, path)))

		assert.Equal(t, core.StateError, root.Find("suite").State())
		assert.Equal(t, core.StateError, root.State())
	})
}

func TestMergeUsesLastEntry(t *testing.T) {
	reg := registrytest.Build(t, registrytest.Sample(registrytest.Pass))
	path := filepath.Join(t.TempDir(), journal.FileName)

	w, err := journal.OpenWriter(path)
	require.NoError(t, err)
	for _, state := range []string{core.TokenError, core.TokenFailure, core.TokenSuccess} {
		require.NoError(t, w.Append(journal.Entry{TestID: "hidpp.dpi.get", State: state}))
	}
	require.NoError(t, w.Append(journal.Entry{TestID: "hidpp.dpi.set", State: core.TokenFailure}))
	require.NoError(t, w.Close())

	c := newCollector()
	root := c.Collect(registrytest.Load(t, reg, "hidpp"))
	require.NoError(t, c.Merge(root, openJournal(t, path)))

	assert.Equal(t, core.StateSuccess, root.Find("hidpp.dpi.get").State())
	assert.Equal(t, core.StateFailure, root.Find("hidpp.dpi.set").State())
	assert.Equal(t, core.StateFailure, root.Find("hidpp.dpi").State())
	assert.Equal(t, core.StateFailure, root.Find("hidpp").State())
}

func TestMergeStaleSuiteEntry(t *testing.T) {
	reg := registrytest.Build(t, registrytest.Sample(registrytest.Pass))
	path := filepath.Join(t.TempDir(), journal.FileName)
	writeJournal(t, path, map[string]string{
		"hidpp.dpi":     core.TokenError,
		"hidpp.dpi.get": core.TokenSuccess,
	})

	c := newCollector()
	root := c.Collect(registrytest.Load(t, reg, "hidpp"))
	require.NoError(t, c.Merge(root, openJournal(t, path)))

	assert.Equal(t, core.StateSuccess, root.Find("hidpp.dpi").State(), "suites follow their children")
}

func TestMergeWithoutJournal(t *testing.T) {
	reg := registrytest.Build(t, registrytest.Sample(registrytest.Pass))
	c := newCollector()
	root := c.Collect(registrytest.Load(t, reg, "hidpp"))

	r := openJournal(t, filepath.Join(t.TempDir(), journal.FileName))
	require.Nil(t, r)
	require.NoError(t, c.Merge(root, r))

	assert.Equal(t, core.StateUnknown, root.State())
}
