// Package cli holds the command tree of harness binaries.
package cli

import (
	"io"
	"os"

	"github.com/alecthomas/kong"
	log "github.com/sirupsen/logrus"

	"github.com/PonnagantiHemanth/testing-tool-sub012/internal/registry"
	"github.com/PonnagantiHemanth/testing-tool-sub012/internal/testmgr"
	"github.com/PonnagantiHemanth/testing-tool-sub012/pkg/testbox/core"
)

type GlobalOpts struct {
	Verbosity   log.Level `short:"v" help:"Set log level" default:"info"`
	AzureDevops bool      `short:"a" help:"Enable Azure DevOps integration" env:"TF_BUILD"`
	Root        string    `short:"r" help:"Harness root directory, overrides the configuration" type:"path" env:"TESTBOX_ROOT"`
	Config      string    `short:"c" help:"Configuration file" type:"path"`
}

// Context is what commands run against. The harness binds itself as the
// implementation.
type Context interface {
	core.LoggerProvider

	// Out receives command output.
	Out() io.Writer

	AzureDevops() bool
	Registry() *registry.Registry

	// Manager returns the test manager, built on first use.
	Manager() (testmgr.TestManager, error)
}

type cli struct {
	Global  GlobalOpts `embed:""`
	List    ListCmd    `cmd:"" help:"List tests, products, variants, levels or modes"`
	Run     RunCmd     `cmd:"" help:"Run tests"`
	Reset   ResetCmd   `cmd:"" help:"Reset the state of tests"`
	States  StatesCmd  `cmd:"" help:"Print the last journaled state of tests"`
	History HistoryCmd `cmd:"" help:"Print the journal history of a test"`
	Log     LogCmd     `cmd:"" help:"Print the log of a test"`
	Select  SelectCmd  `cmd:"" help:"Print or change the selected product, variant, target and mode"`
}

func ParseCommandLine(name string) (*kong.Context, GlobalOpts) {
	// Force display help if no arguments are provided
	if len(os.Args) < 2 {
		os.Args = append(os.Args, "--help")
	}

	cli := cli{}
	ctx := kong.Parse(&cli, kong.Name(name))
	return ctx, cli.Global
}

// Parse parses args without exiting on errors.
func Parse(name string, args []string) (*kong.Context, GlobalOpts, error) {
	cli := cli{}
	parser, err := kong.New(&cli, kong.Name(name))
	if err != nil {
		return nil, GlobalOpts{}, err
	}

	ctx, err := parser.Parse(args)
	if err != nil {
		return nil, GlobalOpts{}, err
	}
	return ctx, cli.Global, nil
}

// VersionFlags selects the product, variant and target a query applies to.
// Empty values stand for the current selection.
type VersionFlags struct {
	Product string `short:"p" help:"Product, defaults to the selected one"`
	Variant string `help:"Variant, defaults to the selected one"`
	Target  string `short:"t" help:"Target, defaults to the selected one"`
}

func (f VersionFlags) version() testmgr.Version {
	return testmgr.Version{Product: f.Product, Variant: f.Variant, Target: f.Target}
}
