package report

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"powerview/internal/powertop"
	"powerview/internal/table"
)

// RawExtension is the file extension of raw reports.
const RawExtension = ".raw"

// RawReport holds a parsed report with the name of its source and the tables that
// were rendered from it. Raw reports can be read back instead of the source export.
type RawReport struct {
	TargetName string          `json:"target_name"`
	TableNames []string        `json:"table_names"`
	Report     powertop.Report `json:"report"`
}

// CreateRawReport marshals the parsed report, its source name and the table names
// into indented JSON.
func CreateRawReport(tables []table.TableDefinition, parsed powertop.Report, targetName string) ([]byte, error) {
	report := RawReport{TargetName: targetName, TableNames: make([]string, 0, len(tables)), Report: parsed}
	for _, definition := range tables {
		report.TableNames = append(report.TableNames, definition.Name)
	}
	return json.MarshalIndent(report, "", " ")
}

// IsRawReportPath reports whether path names a raw report file.
func IsRawReportPath(path string) bool {
	return strings.HasSuffix(path, RawExtension)
}

// ReadRawReports reads one raw report file, or every raw report file directly
// inside a directory.
func ReadRawReports(path string) ([]RawReport, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to get file info: %w", err)
	}
	paths := []string{path}
	if info.IsDir() {
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read raw report directory: %w", err)
		}
		paths = paths[:0]
		for _, entry := range entries {
			if !entry.IsDir() && IsRawReportPath(entry.Name()) {
				paths = append(paths, filepath.Join(path, entry.Name()))
			}
		}
	}
	reports := make([]RawReport, 0, len(paths))
	for _, rawPath := range paths {
		report, err := readRawReport(rawPath)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	return reports, nil
}

func readRawReport(path string) (RawReport, error) {
	var report RawReport
	content, err := os.ReadFile(path) // #nosec G304
	if err != nil {
		return report, fmt.Errorf("failed to read raw report %s: %w", path, err)
	}
	if err := json.Unmarshal(content, &report); err != nil {
		return report, fmt.Errorf("raw report %s is not valid JSON: %w", path, err)
	}
	return report, nil
}
