// Package server serves the PowerTOP parser and the report renderers over HTTP.
package server

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"powerview/internal/app"
	"powerview/internal/common"
	"powerview/internal/powertop"
	"powerview/internal/report"
	"powerview/internal/table"
)

// MaxUploadSize is the largest accepted upload in bytes.
const MaxUploadSize = 32 << 20

// upload form field and query parameters
const (
	uploadField     = "file"
	paramFormat     = "format"
	paramType       = "type"
	defaultTarget   = "powertop"
	shutdownTimeout = 5 * time.Second
)

// Server handles report uploads.
type Server struct {
	tables  []table.TableDefinition
	metrics *Metrics
	mux     *http.ServeMux
}

// New returns a Server that renders uploads with the given tables.
func New(tables []table.TableDefinition, metrics *Metrics) *Server {
	s := &Server{
		tables:  tables,
		metrics: metrics,
		mux:     http.NewServeMux(),
	}
	s.mux.HandleFunc("POST /api/parse", s.handleParse)
	s.mux.HandleFunc("POST /api/report", s.handleReport)
	s.mux.HandleFunc("GET /healthz", handleHealth)
	s.mux.Handle("GET /metrics", promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{}))
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 3 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting HTTP server", slog.String("address", addr))
		errCh <- srv.ListenAndServe()
		close(errCh)
	}()
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		slog.Info("HTTP server stopped")
		return nil
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleParse responds with the normalized report as JSON
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	parsed, _, ok := s.parseUpload(w, r, paramFormat)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, parsed)
}

// handleReport responds with the report rendered in the format given by the
// format query parameter, html by default
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get(paramFormat)
	if format == "" {
		format = report.FormatHtml
	}
	if !slices.Contains(report.FormatOptions, format) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("format options are: %s", strings.Join(report.FormatOptions, ", ")))
		return
	}
	parsed, targetName, ok := s.parseUpload(w, r, paramType)
	if !ok {
		return
	}
	allTableValues, err := table.ProcessTables(s.tables, parsed)
	if err != nil {
		slog.Error("failed to process uploaded report", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to process report")
		return
	}
	allTableValues = append(allTableValues, common.DefaultInsightsFunc(allTableValues, parsed))
	out, err := report.Create(format, allTableValues, targetName, app.BriefTableName)
	if err != nil {
		slog.Error("failed to render uploaded report", slog.String("format", format), slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to render report")
		return
	}
	w.Header().Set("Content-Type", report.ContentTypes[format])
	if format == report.FormatXlsx {
		w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": targetName + "." + format}))
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

// parseUpload reads and parses the uploaded report. The input format comes from
// the typeParam query parameter when set, otherwise from the uploaded file name.
// On failure the error response is written and ok is false.
func (s *Server) parseUpload(w http.ResponseWriter, r *http.Request, typeParam string) (parsed powertop.Report, targetName string, ok bool) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize)
	body, fileName, err := openUpload(r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("upload exceeds %d bytes", MaxUploadSize))
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	defer body.Close()
	format, err := inputFormat(r.URL.Query().Get(typeParam), fileName)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	start := time.Now()
	parsed, err = powertop.ParseReader(body, format)
	s.metrics.observeParse(format, time.Since(start), parsed, err)
	if err != nil {
		slog.Warn("failed to parse upload", slog.String("file", fileName), slog.Any("cause", errors.Unwrap(err)))
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("upload exceeds %d bytes", MaxUploadSize))
			return
		}
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	slog.Debug("parsed upload", slog.String("file", fileName), slog.String("format", string(format)), slog.Bool("empty", parsed.IsEmpty()))
	targetName = defaultTarget
	if fileName != "" {
		targetName = common.TargetName(fileName)
	}
	return parsed, targetName, true
}

// openUpload returns the uploaded content and its file name. Multipart requests
// carry the report in the file field, any other request carries it as the body.
func openUpload(r *http.Request) (io.ReadCloser, string, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		return r.Body, "", nil
	}
	file, header, err := r.FormFile(uploadField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, "", err
		}
		return nil, "", fmt.Errorf("missing %q file field", uploadField)
	}
	return file, header.Filename, nil
}

// inputFormat selects the parser from an explicit type or the file name
func inputFormat(inputType string, fileName string) (powertop.Format, error) {
	switch inputType {
	case "", app.InputTypeAuto:
		return powertop.FormatFromFilename(fileName), nil
	case app.InputTypeCSV, app.InputTypeHTML:
		return app.FormatHint(inputType), nil
	}
	return "", fmt.Errorf("type options are: %s", strings.Join(app.InputTypeOptions, ", "))
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write response", slog.String("error", err.Error()))
	}
}
