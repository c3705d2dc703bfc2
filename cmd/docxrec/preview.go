package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/tsawler/docxrec"
)

func newPreviewCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "preview <file.docx>",
		Short: "Print the extracted records as a Markdown table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.preview(args[0], cmd.OutOrStdout())
		},
	}
}

func (a *app) preview(input string, stdout io.Writer) error {
	md, warnings, err := docxrec.Open(input).
		Digits(a.cfg.Digits).
		Labels(a.cfg.Labels).
		Markdown()
	if err != nil {
		return err
	}
	logWarnings(input, warnings)

	_, err = fmt.Fprint(stdout, md)
	return err
}
