package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tsawler/docxrec/internal/config"
	"github.com/tsawler/docxrec/internal/server"
	"github.com/tsawler/docxrec/internal/store"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve document conversion over HTTP",
		Long: `Serve starts an HTTP server:

  POST /convert          upload a document (multipart field "file" or raw
                         body), download converted_data.csv
  POST /preview          upload a document, get an HTML preview
  GET  /runs/            list stored runs (requires --db)
  GET  /runs/{id}/records download a stored run
  GET  /healthz          liveness check`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}

	cmd.Flags().String("addr", config.DefaultAddr, "listen address")
	cmd.Flags().Int64("max-upload", config.DefaultMaxUploadBytes, "maximum upload size in bytes")
	a.v.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
	a.v.BindPFlag("server.max_upload_bytes", cmd.Flags().Lookup("max-upload"))

	return cmd
}

func (a *app) serve(ctx context.Context) error {
	var st *store.Store
	if a.cfg.DB != "" {
		var err error
		st, err = store.Open(a.cfg.DB)
		if err != nil {
			return err
		}
		defer st.Close()
	}

	srv := server.New(server.Options{
		MaxUploadBytes: a.cfg.Server.MaxUploadBytes,
		Digits:         a.cfg.Digits,
		Labels:         a.cfg.Labels,
	}, st)

	err := srv.ListenAndServe(ctx, a.cfg.Server.Addr)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
