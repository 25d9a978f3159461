package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/PonnagantiHemanth/testing-tool-sub012/pkg/testbox/core"
	"github.com/PonnagantiHemanth/testing-tool-sub012/pkg/testbox/utils"
)

type testCase struct {
	test      core.Test
	ctx       context.Context
	cancel    context.CancelFunc
	startTime time.Time
	endTime   time.Time

	mu     sync.Mutex
	status core.State
	err    error

	log           *logrus.Logger
	logFile       io.Closer
	harnessLogger *logrus.Logger
}

// Implementer of logrus.Hook interface to tee log messages from the test case
// logger to the harness logger
type testCaseLogTee struct {
	harnessLogger *logrus.Logger
	testID        string
}

func (tee testCaseLogTee) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (tee testCaseLogTee) Fire(entry *logrus.Entry) error {
	newEntry := tee.harnessLogger.WithFields(entry.Data)
	newEntry.Caller = entry.Caller
	newEntry.Log(entry.Level, fmt.Sprintf("[%s] > %s", tee.testID, entry.Message))
	return nil
}

// newTestCase prepares the handle of a test about to start. When logPath is
// empty the test log is discarded and only the tee to the harness logger
// remains.
func newTestCase(ctx context.Context, test core.Test, harnessLogger *logrus.Logger, logPath string) *testCase {
	tcCtx, cancel := context.WithCancel(ctx)
	tc := &testCase{
		test:          test,
		ctx:           tcCtx,
		cancel:        cancel,
		startTime:     time.Now(),
		status:        core.StateRunning,
		log:           logrus.New(),
		harnessLogger: harnessLogger,
	}

	tc.log.SetLevel(logrus.TraceLevel)
	tc.log.SetOutput(io.Discard)
	tc.log.SetFormatter(&logrus.TextFormatter{
		DisableColors: true,
		DisableQuote:  true,
		FullTimestamp: true,
	})

	if logPath != "" {
		f, err := openLogFile(logPath)
		if err != nil {
			harnessLogger.WithError(err).Warnf("Test log of '%s' will not be written", test.ID())
		} else {
			tc.log.SetOutput(utils.NewANSICleaner(f))
			tc.logFile = f
		}
	}

	tc.log.AddHook(testCaseLogTee{
		harnessLogger: harnessLogger,
		testID:        test.ID(),
	})
	tc.log.SetReportCaller(true)

	return tc
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create test log: %w", err)
	}
	return f, nil
}

func (tc *testCase) Name() string {
	return tc.test.Name()
}

func (tc *testCase) ID() string {
	return tc.test.ID()
}

func (tc *testCase) Logger() *logrus.Logger {
	return tc.log
}

func (tc *testCase) Context() context.Context {
	return tc.ctx
}

func (tc *testCase) Status() core.State {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	return tc.status
}

// Err is the failure or error the test case was closed with.
func (tc *testCase) Err() error {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	return tc.err
}

func (tc *testCase) RunTime() time.Duration {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	if tc.status == core.StateRunning {
		return time.Since(tc.startTime)
	}
	return tc.endTime.Sub(tc.startTime)
}

func (tc *testCase) Fail(reason string) {
	tc.close(core.StateFailure, errors.New(reason))
	tc.stopTestExecution()
}

func (tc *testCase) FailFromError(err error) {
	tc.close(core.StateFailure, err)
	tc.stopTestExecution()
}

func (tc *testCase) Error(err error) {
	tc.close(core.StateError, err)
	tc.stopTestExecution()
}

// Used internally to attach an error caught by the runner.
func (tc *testCase) markError(err error) {
	tc.close(core.StateError, err)
}

func (tc *testCase) markPass() {
	tc.close(core.StateSuccess, nil)
}

func (tc *testCase) close(status core.State, err error) {
	tc.mu.Lock()
	if tc.status != core.StateRunning {
		current := tc.status
		tc.mu.Unlock()
		tc.harnessLogger.Warnf(
			"Attempted to close test case '%s' with status '%s', but it was already closed with status '%s'. Ignoring.",
			tc.ID(),
			status,
			current,
		)
		return
	}

	if status == core.StateRunning {
		tc.mu.Unlock()
		panic("cannot close test case with status running")
	}

	tc.status = status
	tc.err = err
	tc.endTime = time.Now()
	tc.mu.Unlock()

	level := logrus.InfoLevel
	if status.IsBad() {
		level = logrus.ErrorLevel
	}

	// Log the status to the test log only; the harness line follows below.
	tc.log.SetReportCaller(false)
	tc.log.ReplaceHooks(make(logrus.LevelHooks))
	entry := logrus.NewEntry(tc.log)
	if err != nil {
		entry = entry.WithError(err)
	}
	entry.Log(level, status.String())

	tc.harnessLogger.
		WithField("test", tc.ID()).
		WithField("status", status.String()).
		Logf(level, "%s %s", tc.ID(), status.ColorString())
}

// finish releases the test context and closes the test log.
func (tc *testCase) finish() {
	tc.cancel()
	tc.log.SetOutput(io.Discard)
	if tc.logFile != nil {
		if err := tc.logFile.Close(); err != nil {
			tc.harnessLogger.WithError(err).Warnf("Failed to close test log of '%s'", tc.ID())
		}
	}
}

// Calls runtime.Goexit() when the test case is closed with a bad status.
// THIS SHOULD ONLY BE CALLED AFTER CLOSING THE TEST CASE!
func (tc *testCase) stopTestExecution() {
	status := tc.Status()
	if status == core.StateSuccess {
		return
	}

	if status == core.StateRunning {
		panic("cannot stop test case execution with status running")
	}

	tc.harnessLogger.Tracef("Stopping execution of [%s] due to test case status '%s'", tc.ID(), status)
	runtime.Goexit()
}

// executeTestCase runs the body in its own goroutine so that
// runtime.Goexit() only unwinds the test.
func executeTestCase(tc *testCase, f core.TestCaseFunction) {
	var err error
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		err = runCatchPanic(func() error {
			return f(tc)
		})
	}()

	wg.Wait()

	if err != nil {
		tc.markError(err)
	} else if tc.Status() == core.StateRunning {
		tc.markPass()
	}
}
