package main

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/Oxyrus/phototags/internal/gallery"
)

func newReconcileCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Compare the catalog with the upload directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			result, err := a.manager.Reconcile(cmd.Context())
			if err != nil {
				return err
			}
			printReconciliation(cmd.OutOrStdout(), result)
			return nil
		},
	}
}

func printReconciliation(out io.Writer, r gallery.Reconciliation) {
	if r.Clean() {
		fmt.Fprintln(out, "Catalog and upload directory agree")
		return
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Problem", "Photo ID", "Filename"})

	for _, p := range r.MissingOriginals {
		tw.AppendRow(table.Row{"missing original", p.ID, p.Filename})
	}
	for _, p := range r.MissingDerivatives {
		tw.AppendRow(table.Row{"missing derivatives", p.ID, p.Filename})
	}
	for _, name := range r.OrphanFiles {
		tw.AppendRow(table.Row{"orphan file", "", name})
	}

	fmt.Fprintln(out, tw.Render())
}
