// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package powertop

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Format selects the parser for a report export.
type Format string

const (
	FormatHTML Format = "html"
	FormatCSV  Format = "csv"
)

// FormatOptions lists the supported report formats.
var FormatOptions = []Format{FormatHTML, FormatCSV}

// FormatFromFilename derives the format hint from a file name: ".csv" selects
// CSV, anything else HTML.
func FormatFromFilename(name string) Format {
	if strings.HasSuffix(strings.ToLower(name), ".csv") {
		return FormatCSV
	}
	return FormatHTML
}

// Parse extracts a Report from the full text of an export. Only FormatCSV selects
// the CSV parser, every other value is treated as HTML. Missing fields take their
// defaults; content without any recognizable structure yields an empty Report
// (see Report.IsEmpty).
func Parse(content string, format Format) Report {
	if format == FormatCSV {
		return parseCSV(content)
	}
	report, err := parseHTML(content)
	if err != nil {
		// html.Parse only fails on reader errors, a string reader has none
		slog.Error("unexpected html parse failure", slog.String("error", err.Error()))
		report = newReport()
		report.Timestamp = now().Format(timestampLayout)
	}
	return report
}

// ParseError is returned when a report could not be read or parsed at all. Its
// message is deliberately generic; the cause is available through Unwrap.
type ParseError struct {
	Format Format
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse PowerTOP %s file, please ensure it's a valid export", strings.ToUpper(string(e.Format)))
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ParseReader reads the whole export from r and parses it. Read failures and
// unexpected panics in the parsers are reported as *ParseError.
func ParseReader(r io.Reader, format Format) (report Report, err error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return Report{}, &ParseError{Format: format, Err: err}
	}
	defer func() {
		if p := recover(); p != nil {
			slog.Error("recovered from parser panic", slog.String("format", string(format)), slog.Any("panic", p))
			report = Report{}
			err = &ParseError{Format: format, Err: fmt.Errorf("parser panic: %v", p)}
		}
	}()
	report = Parse(string(content), format)
	return report, nil
}

// ParseFile parses the export at path, deriving the format from the file name
// when format is empty.
func ParseFile(path string, format Format) (Report, error) {
	if format == "" {
		format = FormatFromFilename(path)
	}
	f, err := os.Open(path) // #nosec G304
	if err != nil {
		return Report{}, &ParseError{Format: format, Err: errors.Wrapf(err, "failed to open %s", filepath.Base(path))}
	}
	defer f.Close()
	slog.Debug("parsing report file", slog.String("path", path), slog.String("format", string(format)))
	report, err := ParseReader(f, format)
	if err != nil {
		return Report{}, err
	}
	if report.IsEmpty() {
		slog.Warn("no report data found in file", slog.String("path", path), slog.String("format", string(format)))
	}
	return report, nil
}
