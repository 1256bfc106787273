package workbench

import (
	"fmt"

	"github.com/arthur-debert/workbench/pkg/journal"
	"github.com/arthur-debert/workbench/pkg/ui"
	"github.com/spf13/cobra"
)

func newCatalogCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "catalog",
		Short:   MsgCatalogShort,
		GroupID: "inspect",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			md := ui.CatalogMarkdown(cfg)
			fmt.Fprint(cmd.OutOrStdout(), ui.RenderMarkdown(md, opts.outputFormat(cmd)))
			return nil
		},
	}
}

func newHistoryCmd(opts *rootOptions) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:     "history",
		Short:   MsgHistoryShort,
		GroupID: "inspect",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !cfg.Journal.Enabled {
				fmt.Fprintln(out, MsgJournalOff)
				return nil
			}

			j, err := journal.Open(cfg.JournalPath())
			if err != nil {
				return err
			}
			defer func() { _ = j.Close() }()

			events, err := j.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			table, err := ui.RenderHistory(events, opts.outputFormat(cmd))
			if err != nil {
				return err
			}
			fmt.Fprint(out, table)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", journal.DefaultLimit, MsgFlagLimit)
	return cmd
}

func newConfigCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "config",
		Short:   MsgConfigShort,
		GroupID: "inspect",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			data, err := cfg.TOML()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
