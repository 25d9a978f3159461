package cli

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/PonnagantiHemanth/testing-tool-sub012/internal/config"
	"github.com/PonnagantiHemanth/testing-tool-sub012/internal/descriptor"
	"github.com/PonnagantiHemanth/testing-tool-sub012/internal/devops"
	"github.com/PonnagantiHemanth/testing-tool-sub012/internal/metrics"
	"github.com/PonnagantiHemanth/testing-tool-sub012/internal/reporter"
	"github.com/PonnagantiHemanth/testing-tool-sub012/internal/settings"
	"github.com/PonnagantiHemanth/testing-tool-sub012/internal/testmgr"
	"github.com/PonnagantiHemanth/testing-tool-sub012/pkg/testbox/core"
	"github.com/PonnagantiHemanth/testing-tool-sub012/pkg/testbox/utils"
)

type RunCmd struct {
	IDs []string `arg:"" name:"id" help:"Test IDs to run"`

	Threads       int      `short:"j" help:"Number of test cases run in parallel"`
	Include       string   `short:"i" help:"Regular expression matched against the start of test IDs to run"`
	Exclude       string   `short:"e" help:"Regular expression matched against the start of test IDs to skip"`
	Levels        string   `short:"l" help:"Comma-separated levels to run"`
	NoLevels      string   `help:"Comma-separated levels to skip"`
	Sort          string   `short:"s" help:"Order of test cases: none, id, level or failed-first"`
	OnlyFailed    bool     `help:"Only run test cases whose last outcome was bad"`
	Override      []string `short:"o" help:"Settings override, SECTION.option=value"`
	JournalFormat string   `help:"Journal format for this run: jrl or db"`
	Junit         string   `help:"Write a JUnit XML report to this file" type:"path"`
	MetricsAddr   string   `help:"Serve Prometheus metrics on this address during the run"`
}

func (cmd *RunCmd) partial() *config.Partial {
	p := &config.Partial{Overrides: cmd.Override}

	setString := func(dst **string, v string) {
		if v != "" {
			*dst = &v
		}
	}
	setString(&p.IncludedPatterns, cmd.Include)
	setString(&p.ExcludedPatterns, cmd.Exclude)
	setString(&p.Levels, cmd.Levels)
	setString(&p.NoLevels, cmd.NoLevels)
	setString(&p.Sort, cmd.Sort)
	setString(&p.JournalFormat, cmd.JournalFormat)

	if cmd.Threads > 0 {
		p.Threads = &cmd.Threads
	}
	if cmd.OnlyFailed {
		p.OnlyFailed = &cmd.OnlyFailed
	}

	return p
}

func (cmd *RunCmd) Run(ctx Context) error {
	log := ctx.Logger()

	m, err := ctx.Manager()
	if err != nil {
		return err
	}

	var listeners []core.Listener

	if ctx.AzureDevops() {
		listeners = append(listeners, devops.NewListener(devops.NewPrinter(ctx.Out())))
	}

	var junit *reporter.JUnitListener
	if cmd.Junit != "" {
		junit = reporter.NewJUnitListener(selection(m))
		listeners = append(listeners, junit)
	}

	if cmd.MetricsAddr != "" {
		ml := metrics.NewListener()
		srv, err := metrics.Serve(cmd.MetricsAddr, ml, log)
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.WithError(err).Warn("Failed to stop metrics server")
			}
		}()
		listeners = append(listeners, ml)
	}

	runCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go stopOnInterrupt(runCtx, ctx, m)

	res, err := m.Run(runCtx, cmd.IDs, listeners, cmd.partial())
	if err != nil {
		return err
	}
	log.WithField("run", res.RunID).Infof("Run finished in %s: %s", res.Stop.Sub(res.Start).Round(time.Millisecond), reporter.FromResult(res))

	if junit != nil {
		if err := junit.WriteFile(cmd.Junit); err != nil {
			return err
		}
		log.Infof("Wrote JUnit report '%s'", cmd.Junit)
	}

	root, err := reportTree(m, cmd.IDs)
	if err != nil {
		return err
	}

	rep := reporter.New(ctx.Out(), func(id string) (string, error) {
		return m.GetTestLog(id, testmgr.Version{})
	})
	if _, err := rep.PrintReport(root); err != nil {
		return err
	}

	return reporter.FromResult(res).ExitError()
}

// stopOnInterrupt stops the run gracefully on the first interrupt and
// forcefully on the next ones.
func stopOnInterrupt(runCtx context.Context, ctx Context, m testmgr.TestManager) {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	defer signal.Stop(sig)

	forcefully := false
	for {
		select {
		case <-runCtx.Done():
			return
		case <-sig:
			if forcefully {
				ctx.Logger().Warn("Interrupted again, stopping running test cases")
			} else {
				ctx.Logger().Warn("Interrupted, finishing running test cases. Interrupt again to stop them")
			}
			if err := m.Stop(forcefully); err != nil {
				ctx.Logger().WithError(err).Warn("Failed to stop run")
			}
			forcefully = true
		}
	}
}

// reportTree gathers snapshots of the descriptors of ids under one root.
func reportTree(m testmgr.TestManager, ids []string) (*descriptor.Descriptor, error) {
	root := descriptor.NewRun("Run")
	for _, id := range utils.Outermost(ids) {
		d, err := m.GetTestDescriptor(id, true)
		if err != nil {
			return nil, err
		}
		root.AddChild(d.DeepClone())
	}
	return root, nil
}

// selection returns the selected version and mode, for report properties.
// Values that cannot be read are left out.
func selection(m testmgr.TestManager) map[string]string {
	out := make(map[string]string)
	for section, get := range map[string]func() (string, error){
		settings.SectionMode:    m.GetSelectedMode,
		settings.SectionProduct: m.GetSelectedProduct,
		settings.SectionVariant: m.GetSelectedVariant,
		settings.SectionTarget:  m.GetSelectedTarget,
	} {
		if v, err := get(); err == nil && v != "" {
			out[section] = v
		}
	}
	return out
}

type ResetCmd struct {
	IDs []string `arg:"" name:"id" help:"Test IDs to reset"`
}

func (cmd *ResetCmd) Run(ctx Context) error {
	m, err := ctx.Manager()
	if err != nil {
		return err
	}

	if err := m.ResetTests(context.Background(), cmd.IDs, nil, nil); err != nil {
		return err
	}

	for _, id := range utils.Outermost(cmd.IDs) {
		d, err := m.GetTestDescriptor(id, true)
		if err != nil {
			return err
		}
		if err := reporter.PrintTree(ctx.Out(), d); err != nil {
			return err
		}
	}
	return nil
}
