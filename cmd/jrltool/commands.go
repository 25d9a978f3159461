package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/PonnagantiHemanth/testing-tool-sub012/internal/journal"
)

const (
	formatTable = "table"
	formatYAML  = "yaml"
)

func newRootCommand(out io.Writer) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("JRLTOOL")
	v.AutomaticEnv()

	rootCmd := &cobra.Command{
		Use:           "jrltool",
		Short:         "Inspect and convert testbox journals",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if v.GetBool("debug") {
				log.SetLevel(log.DebugLevel)
			}

			switch format := v.GetString("format"); format {
			case formatTable, formatYAML:
				return nil
			default:
				return fmt.Errorf("unknown output format '%s'", format)
			}
		},
	}
	rootCmd.SetOut(out)

	rootCmd.PersistentFlags().String("format", formatTable, "Output format: table or yaml")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logs")
	_ = v.BindPFlag("format", rootCmd.PersistentFlags().Lookup("format"))
	_ = v.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))

	var testID string
	dumpCmd := &cobra.Command{
		Use:   "dump <journal>",
		Short: "Print every entry of a journal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openExisting(args[0])
			if err != nil {
				return err
			}
			defer r.Close()

			var entries []journal.Entry
			if testID != "" {
				entries, err = r.Entries(testID)
			} else {
				entries, err = r.All()
			}
			if err != nil {
				return err
			}

			log.Debugf("Read %d entries from '%s'", len(entries), args[0])
			return printEntries(cmd.OutOrStdout(), v.GetString("format"), entries)
		},
	}
	dumpCmd.Flags().StringVar(&testID, "test", "", "Only print entries of this test ID")

	lastCmd := &cobra.Command{
		Use:   "last <journal> <id>",
		Short: "Print the most recent entry of a test",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openExisting(args[0])
			if err != nil {
				return err
			}
			defer r.Close()

			e, err := r.Last(args[1])
			if err != nil {
				return err
			}
			if e == nil {
				return fmt.Errorf("no entry for '%s' in '%s'", args[1], args[0])
			}
			return printEntries(cmd.OutOrStdout(), v.GetString("format"), []journal.Entry{*e})
		},
	}

	convertCmd := &cobra.Command{
		Use:   "convert <src> <dst>",
		Short: "Copy the entries of one journal into another, converting between formats",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := openExisting(args[0])
			if err != nil {
				return err
			}
			defer src.Close()

			dst, err := journal.OpenWriter(args[1])
			if err != nil {
				return err
			}

			n, err := journal.Copy(dst, src)
			if cerr := dst.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				return fmt.Errorf("failed after %d entries: %w", n, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Copied %s entries from '%s' to '%s'\n", humanize.Comma(int64(n)), args[0], args[1])
			return nil
		},
	}

	rootCmd.AddCommand(dumpCmd, lastCmd, convertCmd)
	return rootCmd
}

func openExisting(path string) (journal.Reader, error) {
	r, err := journal.OpenReader(path)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, fmt.Errorf("journal '%s': %w", path, os.ErrNotExist)
	}
	return r, nil
}

func printEntries(w io.Writer, format string, entries []journal.Entry) error {
	if format == formatYAML {
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		for _, e := range entries {
			if err := enc.Encode(e); err != nil {
				return err
			}
		}
		return nil
	}

	if len(entries) == 0 {
		return errors.New("journal holds no matching entry")
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Test", "State", "Start", "Duration", "Run", "Message"})
	for _, e := range entries {
		t.AppendRow(table.Row{
			e.TestID,
			e.DescriptorState().String(),
			e.Start.Format("2006-01-02 15:04:05"),
			e.Stop.Sub(e.Start).Round(time.Millisecond).String(),
			e.RunID,
			e.Message,
		})
	}
	t.AppendFooter(table.Row{"", "", "", "", "Entries", humanize.Comma(int64(len(entries)))})
	t.Render()
	return nil
}
