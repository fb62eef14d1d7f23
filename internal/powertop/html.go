// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package powertop

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"powerview/internal/extract"
)

// element identifiers in the PowerTOP HTML export
const (
	classSystemInfo  = "sys_info"
	classSummaryItem = "summary_list"
	classProcessRow  = "emph1"
	idSoftware       = "software"
	idDevices        = "devinfo"
	idIdleStates     = "cpuidle"
)

// process table column positions. The export has a fixed layout, columns 2-4 hold
// timing data that is not part of the Report.
var processColumns = struct {
	usage, wakeups, category, description int
}{
	usage:       0,
	wakeups:     1,
	category:    5,
	description: 6,
}

// device table column positions
var deviceColumns = struct {
	usage, name int
}{
	usage: 0,
	name:  1,
}

const (
	minProcessTableCells = 4
	idleStateTableCells  = 2
)

// timestampLayout mirrors a US-English locale date-time string.
const timestampLayout = "1/2/2006, 3:04:05 PM"

// now is replaced in tests.
var now = time.Now

// parseHTML extracts a Report from a PowerTOP HTML export. Each section is looked up
// independently and defaults when missing.
func parseHTML(content string) (Report, error) {
	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return Report{}, fmt.Errorf("failed to parse html: %w", err)
	}
	report := newReport()
	report.SystemInfo = htmlSystemInfo(doc)
	report.Summary = htmlSummary(doc)
	report.Processes = htmlProcesses(doc)
	report.Devices = htmlDevices(doc)
	report.CPUStates.Package = htmlIdleStates(doc)
	report.Timestamp = htmlTimestamp(doc)
	report.Summary.applySummaryDefaults()
	return report, nil
}

func systemInfoRows(doc *html.Node) []*html.Node {
	sysInfo := findFirst(doc, withClass(classSystemInfo))
	if sysInfo == nil {
		slog.Debug("system information block not found", slog.String("class", classSystemInfo))
		return nil
	}
	return findAll(sysInfo, withTag(atom.Tr))
}

// rowValue returns the first td text of the first row whose text contains label.
func rowValue(rows []*html.Node, label string) string {
	for _, row := range rows {
		if strings.Contains(textContent(row), label) {
			return trimmedText(findFirst(row, withTag(atom.Td)))
		}
	}
	return ""
}

// versionRowValue prefers the exact PowerTOP label and falls back to any version
// row that is not the kernel's.
func versionRowValue(rows []*html.Node) string {
	for _, row := range rows {
		if strings.Contains(textContent(row), labelPowerTOPVersion) {
			return trimmedText(findFirst(row, withTag(atom.Td)))
		}
	}
	for _, row := range rows {
		text := textContent(row)
		if strings.Contains(text, labelVersion) && !strings.Contains(text, labelKernelVersion) {
			return trimmedText(findFirst(row, withTag(atom.Td)))
		}
	}
	return ""
}

func htmlSystemInfo(doc *html.Node) SystemInfo {
	rows := systemInfoRows(doc)
	return SystemInfo{
		Version: versionRowValue(rows),
		Kernel:  rowValue(rows, labelKernelVersion),
		System:  rowValue(rows, labelSystemName),
		CPU:     rowValue(rows, labelCPUInformation),
		OS:      rowValue(rows, labelOSInformation),
	}
}

// htmlTimestamp looks the version row up again; the report has no separate
// generation time. Without one the current time is used.
func htmlTimestamp(doc *html.Node) string {
	if version := versionRowValue(systemInfoRows(doc)); version != "" {
		return version
	}
	return now().Format(timestampLayout)
}

func htmlSummary(doc *html.Node) Summary {
	items := findAll(doc, withTagAndClass(atom.Li, classSummaryItem))
	value := func(key string) string {
		for _, item := range items {
			text := textContent(item)
			if strings.Contains(text, key) {
				return extract.ValueAfterColon(text)
			}
		}
		return ""
	}
	return Summary{
		CPUUsage: extract.NumberFromText(value(summaryKeyCPU), unitUsage, unitPercent),
		Wakeups:  extract.NumberFromText(value(summaryKeySystem), unitWakeups),
		Target:   valueOr(value(summaryKeyTarget), DefaultTarget),
		GPU:      valueOr(value(summaryKeyGPU), DefaultGPU),
		GFX:      valueOr(value(summaryKeyGFX), DefaultGFX),
		VFS:      valueOr(value(summaryKeyVFS), DefaultVFS),
	}
}

func htmlProcesses(doc *html.Node) []Process {
	processes := []Process{}
	table := firstTableIn(doc, idSoftware)
	if table == nil {
		slog.Debug("process table not found", slog.String("id", idSoftware))
		return processes
	}
	for _, row := range findAll(table, withTagAndClass(atom.Tr, classProcessRow)) {
		cells := findAll(row, withTag(atom.Td))
		if len(cells) < minProcessTableCells {
			continue
		}
		p := Process{
			Usage:       valueOr(cellText(cells, processColumns.usage), defaultProcessUsage),
			Wakeups:     extract.NumberFromText(cellText(cells, processColumns.wakeups)),
			Category:    valueOr(cellText(cells, processColumns.category), defaultProcessCategory),
			Description: cellText(cells, processColumns.description),
		}
		if p.Description == "" {
			continue
		}
		processes = append(processes, p)
	}
	return processes
}

func htmlDevices(doc *html.Node) []Device {
	devices := []Device{}
	table := firstTableIn(doc, idDevices)
	if table == nil {
		slog.Debug("device table not found", slog.String("id", idDevices))
		return devices
	}
	rows := findAll(table, withTag(atom.Tr))
	if len(rows) == 0 {
		return devices
	}
	// first row is the header
	for _, row := range rows[1:] {
		cells := findAll(row, withTag(atom.Td))
		name := cellText(cells, deviceColumns.name)
		if name == "" {
			continue
		}
		devices = append(devices, Device{
			Usage: cellText(cells, deviceColumns.usage),
			Name:  name,
			Type:  ClassifyDevice(name),
		})
	}
	return devices
}

func htmlIdleStates(doc *html.Node) map[string]float64 {
	states := map[string]float64{}
	table := firstTableIn(doc, idIdleStates)
	if table == nil {
		slog.Debug("idle state table not found", slog.String("id", idIdleStates))
		return states
	}
	for _, row := range findAll(table, withTag(atom.Tr)) {
		cells := findAll(row, withTag(atom.Td))
		if len(cells) != idleStateTableCells {
			continue
		}
		state := cellText(cells, 0)
		value, ok := extract.ParseNumber(strings.Replace(textContent(cells[1]), unitPercent, "", 1))
		if state == "" || !ok {
			continue
		}
		states[state] = value
	}
	return states
}
