package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tsawler/docxrec"
	"github.com/tsawler/docxrec/export"
	"github.com/tsawler/docxrec/internal/store"
)

func newConvertCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "convert <file.docx>",
		Short: "Extract records and write them as CSV, JSON, YAML or Markdown",
		Long: `Convert extracts one record per table and writes the records to a file.
CSV output is UTF-8 with a byte-order mark so spreadsheet tools read
non-ASCII text correctly.

The output defaults to the input path with the format's extension. Use
-o - to write to standard output.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.convert(cmd.Context(), args[0], output, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, or - for stdout")
	cmd.Flags().String("format", "csv", "output format: csv, json, yaml, markdown or html")
	a.v.BindPFlag("format", cmd.Flags().Lookup("format"))

	return cmd
}

func (a *app) convert(ctx context.Context, input, output string, stdout io.Writer) error {
	start := time.Now()
	f := a.cfg.OutputFormat()

	res, err := docxrec.Open(input).Digits(a.cfg.Digits).Extract()
	if err != nil {
		return err
	}
	logWarnings(input, res.Warnings)

	if output == "" {
		output = strings.TrimSuffix(input, filepath.Ext(input)) + f.Extension()
	}

	if output == "-" {
		if err := export.Write(stdout, f, res.Records, a.cfg.Labels); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
	} else if err := writeFile(output, f, res, a.cfg.Labels); err != nil {
		return err
	}

	ev := log.Info().
		Str("file", input).
		Str("format", res.Format.String()).
		Int("tables", res.Document.TableCount()).
		Int("records", len(res.Records)).
		Dur("duration", time.Since(start))
	if output != "-" {
		ev = ev.Str("output", output)
	}
	ev.Msg("converted")

	if a.cfg.DB != "" {
		st, err := store.Open(a.cfg.DB)
		if err != nil {
			return err
		}
		defer st.Close()

		run, err := st.SaveRun(ctx, filepath.Base(input), res.Format.String(), res.Records, len(res.Warnings))
		if err != nil {
			return err
		}
		log.Info().Str("run", run.ID).Str("db", a.cfg.DB).Msg("run saved")
	}

	return nil
}

// writeFile writes records to path, removing the partial file on failure.
func writeFile(path string, f export.Format, res *docxrec.Result, cols export.Columns) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}

	if err := export.Write(out, f, res.Records, cols); err != nil {
		out.Close()
		os.Remove(path)
		return fmt.Errorf("writing output: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("closing output: %w", err)
	}
	return nil
}

// logWarnings reports extraction warnings. An empty result is a warning,
// not a failure.
func logWarnings(file string, warnings []docxrec.Warning) {
	for _, w := range warnings {
		ev := log.Warn().Str("file", file).Str("type", w.Type.String())
		if w.Table >= 0 {
			ev = ev.Int("table", w.Table+1)
		}
		ev.Msg(w.Message)
	}
}
