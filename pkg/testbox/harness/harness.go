// Package harness wires registered suites to the command line.
package harness

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/alecthomas/kong"
	"github.com/sirupsen/logrus"

	"github.com/PonnagantiHemanth/testing-tool-sub012/internal/cli"
	"github.com/PonnagantiHemanth/testing-tool-sub012/internal/config"
	"github.com/PonnagantiHemanth/testing-tool-sub012/internal/devops"
	"github.com/PonnagantiHemanth/testing-tool-sub012/internal/registry"
	"github.com/PonnagantiHemanth/testing-tool-sub012/internal/testmgr"
	"github.com/PonnagantiHemanth/testing-tool-sub012/pkg/testbox/core"
)

type Harness struct {
	name     string
	ctx      *kong.Context
	global   cli.GlobalOpts
	Log      *logrus.Logger
	registry *registry.Registry
	out      io.Writer
	exit     func(int)

	manager func() (testmgr.TestManager, error)
}

var _ cli.Context = (*Harness)(nil)

// CreateHarness parses the command line of the binary and sets up its root
// logger. Suites are added before calling Run.
func CreateHarness(name string) *Harness {
	name = fmt.Sprintf("testbox-%s", name)
	ctx, global := cli.ParseCommandLine(name)
	return newHarness(name, ctx, global)
}

func newHarness(name string, ctx *kong.Context, global cli.GlobalOpts) *Harness {
	logger := logrus.New()
	logger.SetLevel(global.Verbosity)
	logger.SetFormatter(&logrus.TextFormatter{
		ForceColors: true,
	})

	logger.Debugf("Creating harness '%s'", name)

	h := &Harness{
		name:     name,
		ctx:      ctx,
		global:   global,
		Log:      logger,
		registry: registry.New(),
		out:      os.Stdout,
		exit:     os.Exit,
	}
	h.manager = sync.OnceValues(h.buildManager)
	return h
}

func (h *Harness) buildManager() (testmgr.TestManager, error) {
	args, err := config.Load(h.global.Config)
	if err != nil {
		return nil, err
	}

	if h.global.Root != "" {
		args.Root = h.global.Root
	}
	args.Verbosity = h.global.Verbosity.String()

	h.Log.WithField("root", args.Root).Debug("Creating test manager")
	return testmgr.NewLocal(testmgr.Options{
		Args:     args,
		Registry: h.registry,
		Logger:   h.Log,
	})
}

// Adds a suite to the harness
func (h *Harness) AddSuite(s core.Suite) {
	if err := h.registry.Add(s); err != nil {
		h.Log.WithError(err).Fatalf("Failed to register suite '%s'", s.Name())
		return
	}
	h.Log.Debugf("Registered suite '%s'", s.Name())
}

// Run the harness
func (h *Harness) Run() {
	if h.ctx == nil {
		h.Log.Fatalf("Harness '%s' not initialized", h.name)
		return
	}

	h.Log.Debugf("Running '%s' - %d suites registered.", h.name, len(h.registry.Suites()))
	h.ctx.BindTo(h, (*cli.Context)(nil))
	h.reportExitStatus(h.ctx.Run())
}

// Exit the program and report the exit status
func (h *Harness) reportExitStatus(err error) {
	if err == nil {
		h.Log.Debugf("Command '%s' completed", h.ctx.Command())
		h.exit(0)
		return
	}

	if h.global.AzureDevops {
		devops.NewPrinter(h.out).LogError("Command '%s' failed: %s", h.ctx.Command(), err)
	}

	h.Log.WithError(err).Errorf("Command '%s' failed", h.ctx.Command())
	h.exit(1)
}

func (h *Harness) Name() string {
	return h.name
}

func (h *Harness) Logger() *logrus.Logger {
	return h.Log
}

func (h *Harness) Out() io.Writer {
	return h.out
}

func (h *Harness) AzureDevops() bool {
	return h.global.AzureDevops
}

func (h *Harness) Registry() *registry.Registry {
	return h.registry
}

func (h *Harness) Manager() (testmgr.TestManager, error) {
	return h.manager()
}
