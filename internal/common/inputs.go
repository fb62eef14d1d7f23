package common

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"powerview/internal/powertop"
	"powerview/internal/progress"
	"powerview/internal/report"
)

// InputResult holds the reports loaded from one input. A raw report file may hold
// several reports.
type InputResult struct {
	Reports []TargetReport
	Err     error
}

// LoadInputs loads the inputs concurrently, at most one per CPU at a time. Results
// are returned in input order. statusUpdate, when not nil, receives the progress of
// each input keyed by the input path.
func LoadInputs(inputs []string, hint powertop.Format, statusUpdate progress.MultiSpinnerUpdateFunc) []InputResult {
	results := make([]InputResult, len(inputs))
	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for i, input := range inputs {
		g.Go(func() error {
			// each goroutine writes only its own slot
			results[i] = loadInput(input, hint, statusUpdate)
			return nil
		})
	}
	_ = g.Wait() // per-input errors are carried in the results
	return results
}

func loadInput(input string, hint powertop.Format, statusUpdate progress.MultiSpinnerUpdateFunc) InputResult {
	update := func(status string) {
		if statusUpdate != nil {
			_ = statusUpdate(input, status)
		}
	}
	update("parsing")
	if report.IsRawReportPath(input) {
		rawReports, err := report.ReadRawReports(input)
		if err != nil {
			update("error reading raw report")
			return InputResult{Err: fmt.Errorf("failed to read raw report: %w", err)}
		}
		result := InputResult{}
		for _, rawReport := range rawReports {
			result.Reports = append(result.Reports, TargetReport{TargetName: rawReport.TargetName, Report: rawReport.Report})
		}
		update("loaded")
		return result
	}
	parsed, err := powertop.ParseFile(input, hint)
	if err != nil {
		update("error parsing report")
		return InputResult{Err: err}
	}
	if parsed.IsEmpty() {
		slog.Warn("no data extracted from report", slog.String("input", input))
	}
	update("parsed")
	return InputResult{Reports: []TargetReport{{TargetName: TargetName(input), Report: parsed}}}
}
