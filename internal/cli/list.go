package cli

import (
	"fmt"
	"strings"

	"github.com/PonnagantiHemanth/testing-tool-sub012/internal/reporter"
	"github.com/PonnagantiHemanth/testing-tool-sub012/pkg/testbox/core"
	"github.com/PonnagantiHemanth/testing-tool-sub012/pkg/testbox/utils"
)

type ListCmd struct {
	Tests    ListTestsCmd    `cmd:"" help:"List tests with their states"`
	Products ListProductsCmd `cmd:"" help:"List available products"`
	Variants ListVariantsCmd `cmd:"" help:"List the variants of a product"`
	Levels   ListLevelsCmd   `cmd:"" help:"List the levels declared under a test"`
	Modes    ListModesCmd    `cmd:"" help:"List available modes"`
}

type ListTestsCmd struct {
	IDs    []string `arg:"" optional:"" name:"id" help:"Test IDs to list, all suites when empty"`
	Levels []string `short:"l" name:"level" help:"Only list test cases with one of these levels"`
	Flat   bool     `short:"f" help:"Print one test case per line instead of a tree"`
}

func (cmd *ListTestsCmd) Run(ctx Context) error {
	log := ctx.Logger()

	m, err := ctx.Manager()
	if err != nil {
		return err
	}

	ids := cmd.IDs
	if len(ids) == 0 {
		for _, s := range ctx.Registry().Suites() {
			ids = append(ids, s.ID())
		}
	}
	ids = utils.Outermost(ids)

	if !cmd.Flat && len(cmd.Levels) == 0 {
		for _, id := range ids {
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

	idFilter := utils.NewIDFilterFromSlice(ids, true)
	idFilter.SetStrict()
	levelFilter := utils.NewStringFilterFromSlice(cmd.Levels)

	listed := 0
	for _, id := range ctx.Registry().IDs() {
		t, err := ctx.Registry().Lookup(id)
		if err != nil {
			return err
		}

		if t.Kind() != core.TestKindCase || !idFilter.Match(id) {
			continue
		}
		if !levelFilter.MatchAny(t.Levels()) {
			log.Tracef("Skipping '%s' because it does not match any level", id)
			continue
		}

		d, err := m.GetTestDescriptor(id, true)
		if err != nil {
			return err
		}

		listed++
		fmt.Fprintf(ctx.Out(), "%s %s\n", id, d.State().ColorString())
	}

	log.Infof("Selected %d test cases", listed)
	return nil
}

type ListProductsCmd struct {
	Flat bool `short:"f" help:"Print one product per line"`
}

func (cmd *ListProductsCmd) Run(ctx Context) error {
	m, err := ctx.Manager()
	if err != nil {
		return err
	}

	products, err := m.GetAvailableProducts()
	if err != nil {
		return err
	}

	if cmd.Flat {
		fmt.Fprintln(ctx.Out(), strings.Join(products.Flatten(false), "\n"))
		return nil
	}
	return reporter.PrintVersions(ctx.Out(), "products", products)
}

type ListVariantsCmd struct {
	Product string `short:"p" help:"Product, defaults to the selected one"`
	Flat    bool   `short:"f" help:"Print one variant path per line"`
}

func (cmd *ListVariantsCmd) Run(ctx Context) error {
	m, err := ctx.Manager()
	if err != nil {
		return err
	}

	variants, err := m.GetAvailableVariants(cmd.Product)
	if err != nil {
		return err
	}

	if cmd.Flat {
		fmt.Fprintln(ctx.Out(), strings.Join(variants.Flatten(false), "\n"))
		return nil
	}
	return reporter.PrintVersions(ctx.Out(), "variants", variants)
}

type ListLevelsCmd struct {
	ID        string `arg:"" name:"id" help:"Test ID"`
	Recursive bool   `default:"true" negatable:"" help:"Include the levels of nested tests"`
}

func (cmd *ListLevelsCmd) Run(ctx Context) error {
	m, err := ctx.Manager()
	if err != nil {
		return err
	}

	levels, err := m.GetAvailableLevels(cmd.ID, cmd.Recursive)
	if err != nil {
		return err
	}

	for _, level := range levels {
		fmt.Fprintln(ctx.Out(), level)
	}
	return nil
}

type ListModesCmd struct{}

func (cmd *ListModesCmd) Run(ctx Context) error {
	m, err := ctx.Manager()
	if err != nil {
		return err
	}

	modes, err := m.GetAvailableModes()
	if err != nil {
		return err
	}

	for _, mode := range modes {
		fmt.Fprintln(ctx.Out(), mode)
	}
	return nil
}
