// Package server exposes extraction over HTTP: upload a document, get the
// records back as CSV (or another export format) or as an HTML preview.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/tsawler/docxrec"
	"github.com/tsawler/docxrec/export"
	"github.com/tsawler/docxrec/internal/store"
	"github.com/tsawler/docxrec/model"
)

// DownloadName is the base name of converted downloads.
const DownloadName = "converted_data"

// Options configures a Server.
type Options struct {
	// MaxUploadBytes caps request bodies.
	MaxUploadBytes int64
	// Digits is the identifier length; 0 selects the default.
	Digits int
	// Labels are the output column names.
	Labels export.Columns
}

// Server handles conversion requests. A nil store disables run history.
type Server struct {
	opts  Options
	store *store.Store
}

// New creates a Server.
func New(opts Options, st *store.Store) *Server {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 32 << 20
	}
	return &Server{opts: opts, store: st}
}

// Handler returns the HTTP handler with middleware applied.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	s.RegisterHTTP(r)
	return r
}

// RegisterHTTP mounts the routes on r.
func (s *Server) RegisterHTTP(r chi.Router) {
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		io.WriteString(w, "ok")
	})

	r.Post("/convert", s.handleConvert)
	r.Post("/preview", s.handlePreview)

	r.Route("/runs", func(r chi.Router) {
		r.Get("/", s.handleListRuns)
		r.Get("/{id}/records", s.handleRunRecords)
	})
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	f, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	name, res, ok := s.extract(w, r)
	if !ok {
		return
	}

	if s.store != nil {
		run, err := s.store.SaveRun(r.Context(), name, res.Format.String(), res.Records, len(res.Warnings))
		if err != nil {
			log.Error().Err(err).Str("source", name).Msg("saving run failed")
		} else {
			w.Header().Set("X-Run-ID", run.ID)
		}
	}

	s.writeRecords(w, f, res.Records, len(res.Warnings))
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	name, res, ok := s.extract(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-Record-Count", strconv.Itoa(len(res.Records)))
	if err := renderPreview(w, name, res.Records, res.Warnings, s.opts.Labels); err != nil {
		log.Error().Err(err).Msg("rendering preview failed")
	}
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusNotFound, errors.New("run history is disabled"))
		return
	}

	runs, err := s.store.ListRuns(r.Context(), queryInt(r, "limit", 20))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if runs == nil {
		runs = []store.Run{}
	}
	writeJSON(w, http.StatusOK, runs)
}

func (s *Server) handleRunRecords(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusNotFound, errors.New("run history is disabled"))
		return
	}

	f, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	records, err := s.store.Records(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.writeRecords(w, f, records, 0)
}

// extract reads the upload and runs the extraction, writing the error
// response itself when it fails.
func (s *Server) extract(w http.ResponseWriter, r *http.Request) (string, *docxrec.Result, bool) {
	name, data, err := s.readUpload(w, r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Errorf("upload exceeds %d bytes", tooLarge.Limit))
			return "", nil, false
		}
		writeError(w, http.StatusBadRequest, err)
		return "", nil, false
	}

	start := time.Now()
	res, err := docxrec.FromBytes(data).
		Name(name).
		Digits(s.opts.Digits).
		Extract()
	if err != nil {
		log.Warn().Err(err).Str("source", name).Msg("extraction failed")
		if errors.Is(err, docxrec.ErrUnparseable) {
			writeError(w, http.StatusUnprocessableEntity, err)
		} else {
			writeError(w, http.StatusBadRequest, err)
		}
		return "", nil, false
	}

	log.Info().
		Str("source", name).
		Str("format", res.Format.String()).
		Int("tables", res.Document.TableCount()).
		Int("records", len(res.Records)).
		Int("warnings", len(res.Warnings)).
		Dur("duration", time.Since(start)).
		Msg("extracted")

	return name, res, true
}

// readUpload returns the uploaded document from the multipart field "file"
// or, for any other content type, the raw request body.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (string, []byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		file, header, err := r.FormFile("file")
		if err != nil {
			return "", nil, fmt.Errorf("reading multipart field \"file\": %w", err)
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			return "", nil, fmt.Errorf("reading upload: %w", err)
		}
		if len(data) == 0 {
			return "", nil, errors.New("uploaded file is empty")
		}
		return header.Filename, data, nil
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		return "", nil, fmt.Errorf("reading upload: %w", err)
	}
	if len(data) == 0 {
		return "", nil, errors.New("no document uploaded")
	}

	name := r.URL.Query().Get("name")
	if name == "" {
		name = "upload"
	}
	return name, data, nil
}

// writeRecords writes records as a download in format f.
func (s *Server) writeRecords(w http.ResponseWriter, f export.Format, records []model.Record, warnings int) {
	w.Header().Set("Content-Type", f.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", DownloadName+f.Extension()))
	w.Header().Set("X-Record-Count", strconv.Itoa(len(records)))
	w.Header().Set("X-Warning-Count", strconv.Itoa(warnings))
	w.WriteHeader(http.StatusOK)

	if err := export.Write(w, f, records, s.opts.Labels); err != nil {
		log.Error().Err(err).Msg("writing response failed")
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

func queryInt(r *http.Request, key string, def int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// requestLogger logs one line per request.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Str("request_id", middleware.GetReqID(r.Context())).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}
