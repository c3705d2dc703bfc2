package main

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/tsawler/docxrec/export"
	"github.com/tsawler/docxrec/internal/store"
)

func newHistoryCmd(a *app) *cobra.Command {
	var (
		limit  int
		runID  string
		format string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List stored conversion runs, or print the records of one run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.DB == "" {
				return errors.New("no database configured; pass --db or set db in docxrec.yaml")
			}

			st, err := store.Open(a.cfg.DB)
			if err != nil {
				return err
			}
			defer st.Close()

			if runID != "" {
				f, err := export.ParseFormat(format)
				if err != nil {
					return err
				}
				records, err := st.Records(cmd.Context(), runID)
				if err != nil {
					return err
				}
				return export.Write(cmd.OutOrStdout(), f, records, a.cfg.Labels)
			}

			runs, err := st.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return printRuns(cmd.OutOrStdout(), runs)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum runs to list (0 for all)")
	cmd.Flags().StringVar(&runID, "run", "", "print the records of this run")
	cmd.Flags().StringVar(&format, "format", "markdown", "record format for --run")

	return cmd
}

func printRuns(w io.Writer, runs []store.Run) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tSOURCE\tFORMAT\tRECORDS\tWARNINGS")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\n",
			r.ID, r.CreatedAt.Local().Format(time.DateTime), r.Source, r.Format, r.RecordCount, r.WarningCount)
	}
	return tw.Flush()
}
