// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package powertop

import (
	"log/slog"
	"strings"

	"powerview/internal/extract"
)

const csvDelimiter = ";"

// section title markers, matched against the decoration-trimmed first cell
const (
	markerSystemInformation = "System Information"
	markerPowerConsumers    = "Top 10 Power Consumers"
	markerDevicePower       = "Device Power Report"
	markerIdleStates        = "Processor Idle State Report"
)

const (
	headerUsage   = "Usage"
	markerTarget  = "Target:"
	idleStateMark = "C"
)

// minimum cell counts for data rows
const (
	minSystemCells    = 2
	minProcessCells   = 4
	minDeviceCells    = 2
	minIdleStateCells = 2
)

// csvSection is the report section the scanner is currently in.
type csvSection int

const (
	sectionNone csvSection = iota
	sectionSystem
	sectionProcesses
	sectionDevices
	sectionCPUStates
)

// String returns a human-readable representation of the section
func (s csvSection) String() string {
	switch s {
	case sectionNone:
		return "None"
	case sectionSystem:
		return "System"
	case sectionProcesses:
		return "Processes"
	case sectionDevices:
		return "Devices"
	case sectionCPUStates:
		return "CPUStates"
	default:
		return "Unknown"
	}
}

// csvState is threaded through the row fold. headerPending is set on entry to a
// table section and cleared by the first row wide enough to be that table's header.
type csvState struct {
	section       csvSection
	headerPending bool
}

// enter returns the state for a newly entered section.
func (s csvState) enter(section csvSection, hasHeader bool) csvState {
	slog.Debug("entering csv section", slog.String("from", s.section.String()), slog.String("to", section.String()))
	s.section = section
	if hasHeader {
		s.headerPending = true
	}
	return s
}

// csvRows strips a leading byte-order mark, normalizes line endings, and splits the
// content into trimmed rows.
func csvRows(content string) [][]string {
	content = strings.TrimPrefix(content, "\uFEFF")
	content = strings.ReplaceAll(content, "\r\n", "\n")
	var rows [][]string
	for line := range strings.SplitSeq(content, "\n") {
		rows = append(rows, extract.SplitRow(line, csvDelimiter))
	}
	return rows
}

// parseCSV extracts a Report from a PowerTOP CSV export in a single pass.
func parseCSV(content string) Report {
	report := newReport()
	state := csvState{section: sectionNone}
	for _, row := range csvRows(content) {
		state = state.step(row, &report)
	}
	report.Summary.applySummaryDefaults()
	return report
}

// step processes one row and returns the next state. The checks run in a fixed
// order and are independent of each other: a marker row is consumed by its own
// check, data handling only applies once the section has been entered by an
// earlier row.
func (s csvState) step(row []string, report *Report) csvState {
	if len(row) == 0 || row[0] == "" {
		return s
	}
	title := extract.TrimDecoration(row[0])

	if strings.Contains(title, markerSystemInformation) {
		return s.enter(sectionSystem, false)
	}
	if s.section == sectionSystem {
		handleSystemRow(row, report)
	}

	if strings.Contains(title, markerPowerConsumers) {
		return s.enter(sectionProcesses, true)
	}
	if s.section == sectionProcesses && len(row) >= minProcessCells {
		if s.headerPending {
			s.headerPending = false
			return s
		}
		if row[0] != headerUsage {
			appendProcess(report, Process{
				Usage:       row[0],
				Wakeups:     extract.NumberFromText(row[1]),
				Category:    row[2],
				Description: row[3],
			})
		}
	}

	if strings.Contains(title, markerDevicePower) {
		return s.enter(sectionDevices, true)
	}
	if s.section == sectionDevices && len(row) >= minDeviceCells {
		if s.headerPending {
			s.headerPending = false
			return s
		}
		if row[0] != headerUsage {
			appendDevice(report, row[0], row[1])
		}
	}

	if strings.Contains(title, markerIdleStates) {
		return s.enter(sectionCPUStates, false)
	}
	if s.section == sectionCPUStates && len(row) >= minIdleStateCells && strings.HasPrefix(row[0], idleStateMark) {
		report.CPUStates.Package[row[0]] = extract.NumberFromText(row[1], unitPercent)
	}
	return s
}

// handleSystemRow applies the label check and then the summary line check.
func handleSystemRow(row []string, report *Report) {
	if len(row) >= minSystemCells {
		applySystemLabel(row[0], row[1], report)
	}
	if strings.Contains(row[0], markerTarget) {
		// the row splitter also splits the summary line, re-join it before reading pairs
		applySummaryLine(strings.Join(row, csvDelimiter), &report.Summary)
	}
}

// applySystemLabel stores value in the SystemInfo field named by key. The kernel
// label is checked before the generic version label because both end in "Version".
func applySystemLabel(key string, value string, report *Report) {
	switch {
	case strings.Contains(key, labelKernelVersion):
		report.SystemInfo.Kernel = value
	case strings.Contains(key, labelVersion):
		report.SystemInfo.Version = value
		report.Timestamp = value
	case strings.Contains(key, labelSystemName):
		report.SystemInfo.System = value
	case strings.Contains(key, labelCPUInformation):
		report.SystemInfo.CPU = value
	case strings.Contains(key, labelOSInformation):
		report.SystemInfo.OS = value
	}
}

// applySummaryLine reads "Target: ...;System: ...;CPU: ..." pairs into summary.
// Empty string values fall back to the defaults, unparsable numbers become 0.
func applySummaryLine(line string, summary *Summary) {
	for _, pair := range extract.KeyValuePairs(line, csvDelimiter) {
		switch pair.Key {
		case summaryKeyTarget:
			summary.Target = valueOr(pair.Value, DefaultTarget)
		case summaryKeySystem:
			summary.Wakeups = extract.NumberFromText(pair.Value, unitWakeups)
		case summaryKeyCPU:
			summary.CPUUsage = extract.NumberFromText(pair.Value, unitUsage, unitPercent)
		case summaryKeyGPU:
			summary.GPU = valueOr(pair.Value, DefaultGPU)
		case summaryKeyGFX:
			summary.GFX = valueOr(pair.Value, DefaultGFX)
		case summaryKeyVFS:
			summary.VFS = valueOr(pair.Value, DefaultVFS)
		}
	}
}

func valueOr(value string, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

// appendProcess adds p unless its description is empty.
func appendProcess(report *Report, p Process) {
	p.Usage = strings.TrimSpace(p.Usage)
	p.Category = strings.TrimSpace(p.Category)
	p.Description = strings.TrimSpace(p.Description)
	if p.Description == "" {
		return
	}
	report.Processes = append(report.Processes, p)
}

// appendDevice adds a classified device unless its name is empty.
func appendDevice(report *Report, usage string, name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	report.Devices = append(report.Devices, Device{
		Usage: strings.TrimSpace(usage),
		Name:  name,
		Type:  ClassifyDevice(name),
	})
}
