package reporter

import (
	"io"
	"slices"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/PonnagantiHemanth/testing-tool-sub012/pkg/testbox/core"
)

// PrintHistory renders the journal entries of testID, oldest first.
func PrintHistory(w io.Writer, testID string, h core.History) error {
	entries := h.Entries()
	if err := h.Err(); err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(testID)
	t.AppendHeader(table.Row{"#", "State", "Started", "Duration", "Message"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "#", Align: text.AlignRight},
		{Name: "Duration", Align: text.AlignRight},
		{Name: "Message", WidthMax: 80, WidthMaxEnforcer: text.WrapSoft},
	})

	bad := 0
	for i, e := range entries {
		if e.State.IsBad() {
			bad++
		}
		t.AppendRow(table.Row{
			i + 1,
			e.State.ColorString(),
			humanize.Time(e.Start),
			formatDuration(e.Stop.Sub(e.Start)),
			e.Message,
		})
	}

	t.AppendFooter(table.Row{"", "TOTAL", humanize.Comma(int64(len(entries))), "BAD", humanize.Comma(int64(bad))})
	t.SetStyle(table.StyleLight)
	t.Render()
	return nil
}

// PrintStates renders one row per test ID, sorted.
func PrintStates(w io.Writer, states map[string]core.State) {
	ids := make([]string, 0, len(states))
	for id := range states {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Test", "State"})

	bad := 0
	for _, id := range ids {
		if states[id].IsBad() {
			bad++
		}
		t.AppendRow(table.Row{id, states[id].ColorString()})
	}

	switch {
	case bad > 0:
		t.SetStyle(table.StyleColoredBlackOnRedWhite)
	default:
		t.SetStyle(table.StyleColoredBlackOnGreenWhite)
	}
	t.AppendFooter(table.Row{"TOTAL", humanize.Comma(int64(len(ids)))})
	t.Render()
}
