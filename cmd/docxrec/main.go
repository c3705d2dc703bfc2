// Package main is the entry point for the docxrec CLI.
package main

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tsawler/docxrec/internal/config"
	"github.com/tsawler/docxrec/pairing"
)

// version is set at build time via ldflags.
var version = "dev"

// app carries state shared by the subcommands of one invocation.
type app struct {
	v       *viper.Viper
	cfg     *config.Config
	cfgFile string
}

// newRootCmd builds the command tree with its own viper instance.
func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "docxrec",
		Short: "Pair identifiers with tables in DOCX documents and export the records",
		Long: `docxrec reads a DOCX (or ODT) document in which five-digit identifiers
appear in body text ahead of tables, pairs each table with the next
identifier, and exports one record per table: the identifier and the
first-column text of the table's first two rows.

Settings come from docxrec.yaml (in . or ~/.config/docxrec/), DOCXREC_*
environment variables, and flags, in increasing priority.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd.ErrOrStderr())
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default: ./docxrec.yaml or ~/.config/docxrec/docxrec.yaml)")
	pf.BoolP("verbose", "v", false, "verbose logging")
	pf.Int("digits", pairing.DefaultDigits, "identifier length")
	pf.String("db", "", "SQLite run-history database (empty disables history)")

	a.v.BindPFlag("verbose", pf.Lookup("verbose"))
	a.v.BindPFlag("digits", pf.Lookup("digits"))
	a.v.BindPFlag("db", pf.Lookup("db"))

	rootCmd.AddCommand(
		newConvertCmd(a),
		newPreviewCmd(a),
		newServeCmd(a),
		newHistoryCmd(a),
		newVersionCmd(),
	)

	return rootCmd
}

// load reads the configuration and sets up logging.
func (a *app) load(logOut io.Writer) error {
	config.Prepare(a.v, a.cfgFile)
	if err := config.Read(a.v, a.cfgFile); err != nil {
		return err
	}

	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg

	setupLogging(logOut, cfg.Verbose)
	if f := a.v.ConfigFileUsed(); f != "" {
		log.Debug().Str("file", f).Msg("using config file")
	}
	return nil
}

// setupLogging configures the global zerolog logger.
func setupLogging(w io.Writer, verbose bool) {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339})
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
