package cmd

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"context"
	"fmt"
	"log/slog"
	"log/syslog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// SyslogHandler is a slog.Handler that writes logfmt-style lines to syslog.
type SyslogHandler struct {
	writer    *syslog.Writer
	level     slog.Leveler
	addSource bool
	attrs     []slog.Attr
}

func NewSyslogHandler(opts *slog.HandlerOptions) (*SyslogHandler, error) {
	writer, err := syslog.New(syslog.LOG_INFO|syslog.LOG_USER, filepath.Base(os.Args[0]))
	if err != nil {
		return nil, err
	}
	return &SyslogHandler{writer: writer, level: opts.Level, addSource: opts.AddSource}, nil
}

// syslogMessage formats a record as level, optional source, message and attributes
func syslogMessage(r slog.Record, addSource bool, attrs []slog.Attr) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "level=%s", r.Level)
	if addSource && r.PC != 0 {
		frame, _ := runtime.CallersFrames([]uintptr{r.PC}).Next()
		fmt.Fprintf(&sb, " source=%s:%d", filepath.Base(filepath.Dir(frame.File))+"/"+filepath.Base(frame.File), frame.Line)
	}
	fmt.Fprintf(&sb, " msg=%q", r.Message)
	writeAttr := func(attr slog.Attr) bool {
		fmt.Fprintf(&sb, " %s=%q", attr.Key, attr.Value.String())
		return true
	}
	for _, attr := range attrs {
		writeAttr(attr)
	}
	r.Attrs(writeAttr)
	return sb.String()
}

func (h *SyslogHandler) Handle(_ context.Context, r slog.Record) error {
	msg := syslogMessage(r, h.addSource, h.attrs)
	switch {
	case r.Level >= slog.LevelError:
		return h.writer.Err(msg)
	case r.Level >= slog.LevelWarn:
		return h.writer.Warning(msg)
	case r.Level >= slog.LevelInfo:
		return h.writer.Info(msg)
	default:
		return h.writer.Debug(msg)
	}
}

func (h *SyslogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &clone
}

// WithGroup is not supported, grouped attributes are written without a prefix
func (h *SyslogHandler) WithGroup(string) slog.Handler {
	return h
}

func (h *SyslogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}
