package testmgr

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/PonnagantiHemanth/testing-tool-sub012/internal/collector"
	"github.com/PonnagantiHemanth/testing-tool-sub012/internal/config"
	"github.com/PonnagantiHemanth/testing-tool-sub012/internal/descriptor"
	"github.com/PonnagantiHemanth/testing-tool-sub012/internal/filter"
	"github.com/PonnagantiHemanth/testing-tool-sub012/internal/journal"
	"github.com/PonnagantiHemanth/testing-tool-sub012/internal/layout"
	"github.com/PonnagantiHemanth/testing-tool-sub012/internal/registry"
	"github.com/PonnagantiHemanth/testing-tool-sub012/internal/runner"
	"github.com/PonnagantiHemanth/testing-tool-sub012/internal/settings"
	"github.com/PonnagantiHemanth/testing-tool-sub012/pkg/testbox/core"
)

type Options struct {
	Args     config.Args
	Registry *registry.Registry
	Logger   *logrus.Logger

	// Opener reads journals. Defaults to journal.DefaultOpener.
	Opener journal.Opener
}

// LocalTestManager runs tests in-process against the local directory
// layout.
type LocalTestManager struct {
	args      config.Args
	layout    layout.Layout
	registry  *registry.Registry
	settings  *settings.Store
	opener    journal.Opener
	collector *collector.Collector
	log       *logrus.Logger

	cacheMu sync.Mutex
	cache   map[string]*descriptor.Descriptor

	runMu  sync.Mutex
	engine *runner.Engine
}

var _ TestManager = (*LocalTestManager)(nil)

// NewLocal validates the root directory of opts.Args. An unreachable root is
// reported as ErrRootUnreachable.
func NewLocal(opts Options) (*LocalTestManager, error) {
	if err := opts.Args.Validate(); err != nil {
		return nil, err
	}

	l, err := layout.New(opts.Args.Root, opts.Args.InputDir, opts.Args.OutputDir)
	if err != nil {
		return nil, err
	}

	reg := opts.Registry
	if reg == nil {
		reg = registry.New()
	}

	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	opener := opts.Opener
	if opener == nil {
		opener = journal.DefaultOpener
	}

	return &LocalTestManager{
		args:      opts.Args,
		layout:    l,
		registry:  reg,
		settings:  settings.NewStore(l.SettingsPath(), opts.Args.ParsedOverrides()),
		opener:    opener,
		collector: collector.New(runner.New(runner.Config{Logger: log}), log),
		log:       log,
		cache:     make(map[string]*descriptor.Descriptor),
	}, nil
}

func (m *LocalTestManager) Args() config.Args {
	return m.args
}

func (m *LocalTestManager) Layout() layout.Layout {
	return m.layout
}

// GetTestDescriptor returns the descriptor of testID. On a cache miss the
// test is collected; with recursive set, the tree is seeded from the journal
// of the selected version and every descriptor in it is cached. Its parent is
// the RUN descriptor of the collection until a later collection of an
// ancestor adopts it.
func (m *LocalTestManager) GetTestDescriptor(testID string, recursive bool) (*descriptor.Descriptor, error) {
	if d := m.cached(testID); d != nil {
		return d, nil
	}

	tests, err := m.registry.Load(testID)
	if err != nil {
		return nil, err
	}

	root := m.collector.Collect(tests)
	d := root.Find(testID)
	if d == nil {
		return nil, fmt.Errorf("%w: '%s' was not collected", registry.ErrTestNotFound, testID)
	}

	if !recursive {
		return d, nil
	}

	path, err := m.journalPath(m.settings, Version{}, m.args.JournalFileName())
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

	if err := m.collector.Merge(root, r); err != nil {
		return nil, err
	}

	return m.store(d), nil
}

func (m *LocalTestManager) cached(testID string) *descriptor.Descriptor {
	m.cacheMu.Lock()
	defer m.cacheMu.Unlock()
	return m.cache[testID]
}

// store caches d and its descendants. Descendants cached earlier by a
// collection of their own are grafted into d in place of the fresh nodes, so
// a test ID always maps to one descriptor. A descriptor cached meanwhile for d
// itself wins over d.
func (m *LocalTestManager) store(d *descriptor.Descriptor) *descriptor.Descriptor {
	m.cacheMu.Lock()
	defer m.cacheMu.Unlock()

	if existing, ok := m.cache[d.TestID()]; ok {
		return existing
	}

	m.graftCached(d)
	d.Walk(func(n *descriptor.Descriptor) {
		if _, ok := m.cache[n.TestID()]; !ok {
			m.cache[n.TestID()] = n
		}
	})

	m.log.Debugf("Cached descriptors of '%s'", d.TestID())
	return d
}

func (m *LocalTestManager) graftCached(d *descriptor.Descriptor) {
	for _, c := range d.Children() {
		cached, ok := m.cache[c.TestID()]
		if !ok {
			m.graftCached(c)
			continue
		}

		if err := d.ReplaceChild(c, cached); err != nil {
			m.log.WithError(err).Warnf("Failed to reuse cached descriptor '%s'", c.TestID())
		}
	}
}

func (m *LocalTestManager) HasTestDescriptor(testID string) bool {
	return m.cached(testID) != nil
}

func (m *LocalTestManager) ClearCache() {
	m.cacheMu.Lock()
	defer m.cacheMu.Unlock()
	clear(m.cache)
	m.settings.Reload()
}

func (m *LocalTestManager) cachedIDs() []string {
	m.cacheMu.Lock()
	defer m.cacheMu.Unlock()

	ids := make([]string, 0, len(m.cache))
	for id := range m.cache {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// GetStaticTestCases returns the static test cases declared by testID, or by
// every cached test when testID is empty. The result is sorted and has no
// duplicates.
func (m *LocalTestManager) GetStaticTestCases(testID string) ([]string, error) {
	ids := []string{testID}
	if testID == "" {
		ids = m.cachedIDs()
	}

	var out []string
	for _, id := range ids {
		t, err := m.registry.Lookup(id)
		if err != nil {
			if testID == "" {
				continue
			}
			return nil, err
		}
		out = append(out, t.StaticTestCases()...)
	}

	return sortedUnique(out), nil
}

// GetAvailableLevels returns the levels declared by testID and, with
// recursive set, by every test below it.
func (m *LocalTestManager) GetAvailableLevels(testID string, recursive bool) ([]string, error) {
	t, err := m.registry.Lookup(testID)
	if err != nil {
		return nil, err
	}

	var out []string
	var visit func(core.Test)
	visit = func(t core.Test) {
		out = append(out, t.Levels()...)
		if recursive {
			for _, c := range t.Children() {
				visit(c)
			}
		}
	}
	visit(t)

	return sortedUnique(out), nil
}

func (m *LocalTestManager) GetTestSource(testID string) (string, int, error) {
	t, err := m.registry.Lookup(testID)
	if err != nil {
		return "", 0, err
	}

	file, line, ok := registry.Source(t)
	if !ok {
		return "", 0, fmt.Errorf("no source for '%s'", testID)
	}
	return file, line, nil
}

func sortedUnique(list []string) []string {
	if len(list) == 0 {
		return []string{}
	}
	out := slices.Clone(list)
	slices.Sort(out)
	return slices.Compact(out)
}

// Run executes testIDs. Descriptors of the requested tests are collected
// first, then follow the run through a listener. Test failures are not
// errors: they show in descriptor states, the journal and the result.
func (m *LocalTestManager) Run(ctx context.Context, testIDs []string, listeners []core.Listener, p *config.Partial) (runner.Result, error) {
	args, err := m.args.Merge(p)
	if err != nil {
		return runner.Result{}, err
	}

	store := m.storeFor(args)
	v, err := m.resolve(store, Version{})
	if err != nil {
		return runner.Result{}, err
	}

	path, err := m.journalPath(store, v, args.JournalFileName())
	if err != nil {
		return runner.Result{}, err
	}

	sel, err := filter.NewSelection(args, func(id string) core.History {
		return journal.NewHistory(m.opener, path, id).WithLogger(m.log)
	})
	if err != nil {
		return runner.Result{}, err
	}

	tests, err := m.prepare(testIDs)
	if err != nil {
		return runner.Result{}, err
	}

	w, err := journal.OpenWriter(path)
	if err != nil {
		return runner.Result{}, err
	}
	defer func() {
		if err := w.Close(); err != nil {
			m.log.WithError(err).Warn("Failed to close journal")
		}
	}()

	engine := runner.New(runner.Config{
		Threads:   args.Threads,
		Listeners: append(slices.Clone(listeners), &descriptorListener{m: m}),
		Journal:   w,
		LogPath: func(id string) string {
			return m.layout.LogPath(id, v.Product, v.Variant, v.Target)
		},
		Logger: m.log,
	})

	if err := m.begin(engine); err != nil {
		return runner.Result{}, err
	}
	defer m.end()

	return engine.Run(ctx, tests, sel.Select, sel.Compare)
}

// ResetTests drives the descriptors of testIDs and their descendants back to
// UNKNOWN. The journal is left untouched.
func (m *LocalTestManager) ResetTests(ctx context.Context, testIDs []string, listeners []core.Listener, p *config.Partial) error {
	if _, err := m.args.Merge(p); err != nil {
		return err
	}

	tests, err := m.prepare(testIDs)
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	engine := runner.New(runner.Config{
		Listeners: append(slices.Clone(listeners), &descriptorListener{m: m}),
		Logger:    m.log,
	})

	if err := m.begin(engine); err != nil {
		return err
	}
	defer m.end()

	engine.Reset(tests)
	return nil
}

// prepare loads testIDs and caches their descriptors, so that lifecycle
// events during the run hit the cache.
func (m *LocalTestManager) prepare(testIDs []string) ([]core.Test, error) {
	if len(testIDs) == 0 {
		return nil, errors.New("no test requested")
	}

	tests, err := m.registry.Load(testIDs...)
	if err != nil {
		return nil, err
	}

	for _, id := range testIDs {
		if _, err := m.GetTestDescriptor(id, true); err != nil {
			return nil, err
		}
	}
	return tests, nil
}

func (m *LocalTestManager) begin(engine *runner.Engine) error {
	m.runMu.Lock()
	defer m.runMu.Unlock()

	if m.engine != nil {
		return ErrRunInProgress
	}
	m.engine = engine
	return nil
}

func (m *LocalTestManager) end() {
	m.runMu.Lock()
	defer m.runMu.Unlock()
	m.engine = nil
}

func (m *LocalTestManager) active() *runner.Engine {
	m.runMu.Lock()
	defer m.runMu.Unlock()
	return m.engine
}

// Pause forwards to the active run. It is a no-op when idle.
func (m *LocalTestManager) Pause(forcefully bool) error {
	if e := m.active(); e != nil {
		e.Pause(forcefully)
	}
	return nil
}

// Stop forwards to the active run. It is a no-op when idle.
func (m *LocalTestManager) Stop(forcefully bool) error {
	if e := m.active(); e != nil {
		e.Stop(forcefully)
	}
	return nil
}

// Resume forwards to the active run. It is a no-op when idle.
func (m *LocalTestManager) Resume() error {
	if e := m.active(); e != nil {
		e.Resume()
	}
	return nil
}

func (m *LocalTestManager) RunState() RunState {
	if m.active() != nil {
		return RunStateRunning
	}
	return RunStateIdle
}

// readFile returns the contents of path, or an empty string when it does not
// exist.
func readFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	return string(data), nil
}
