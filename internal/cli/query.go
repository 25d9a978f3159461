package cli

import (
	"fmt"
	"slices"

	"github.com/PonnagantiHemanth/testing-tool-sub012/internal/reporter"
	"github.com/PonnagantiHemanth/testing-tool-sub012/internal/testmgr"
)

type StatesCmd struct {
	VersionFlags `embed:""`
	IDs          []string `arg:"" name:"id" help:"Test IDs"`
}

func (cmd *StatesCmd) Run(ctx Context) error {
	m, err := ctx.Manager()
	if err != nil {
		return err
	}

	states, err := m.GetTestStates(cmd.IDs, cmd.version())
	if err != nil {
		return err
	}

	reporter.PrintStates(ctx.Out(), states)
	return nil
}

type HistoryCmd struct {
	VersionFlags `embed:""`
	ID           string `arg:"" name:"id" help:"Test ID"`
}

func (cmd *HistoryCmd) Run(ctx Context) error {
	m, err := ctx.Manager()
	if err != nil {
		return err
	}

	h, err := m.GetTestHistory(cmd.ID, cmd.version())
	if err != nil {
		return err
	}

	return reporter.PrintHistory(ctx.Out(), cmd.ID, h)
}

type LogCmd struct {
	VersionFlags `embed:""`
	ID           string `arg:"" name:"id" help:"Test ID"`
	Path         bool   `help:"Print the path of the log instead of its contents"`
}

func (cmd *LogCmd) Run(ctx Context) error {
	m, err := ctx.Manager()
	if err != nil {
		return err
	}

	if cmd.Path {
		path, err := m.GetTestLogPath(cmd.ID, cmd.version())
		if err != nil {
			return err
		}
		if path == "" {
			return fmt.Errorf("no log for '%s'", cmd.ID)
		}
		fmt.Fprintln(ctx.Out(), path)
		return nil
	}

	text, err := m.GetTestLog(cmd.ID, cmd.version())
	if err != nil {
		return err
	}
	if text == "" {
		return fmt.Errorf("no log for '%s'", cmd.ID)
	}
	fmt.Fprint(ctx.Out(), text)
	return nil
}

type SelectCmd struct {
	VersionFlags `embed:""`
	Mode         string `short:"m" help:"Mode: RELEASE or WORKING"`
}

func (cmd *SelectCmd) Run(ctx Context) error {
	m, err := ctx.Manager()
	if err != nil {
		return err
	}

	v := cmd.version()
	if v == (testmgr.Version{}) && cmd.Mode == "" {
		return printSelection(ctx, m)
	}

	if cmd.Mode != "" {
		modes, err := m.GetAvailableModes()
		if err != nil {
			return err
		}
		if !slices.Contains(modes, cmd.Mode) {
			return fmt.Errorf("invalid mode '%s', expected one of %v", cmd.Mode, modes)
		}
	}

	if err := m.SetSelectedConfig(v, cmd.Mode); err != nil {
		return err
	}
	return printSelection(ctx, m)
}

func printSelection(ctx Context, m testmgr.TestManager) error {
	for _, item := range []struct {
		name string
		get  func() (string, error)
	}{
		{"mode", m.GetSelectedMode},
		{"product", m.GetSelectedProduct},
		{"variant", m.GetSelectedVariant},
		{"target", m.GetSelectedTarget},
	} {
		value, err := item.get()
		if err != nil {
			return err
		}
		fmt.Fprintf(ctx.Out(), "%-8s %s\n", item.name+":", value)
	}
	return nil
}
