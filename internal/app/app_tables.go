// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package app

// This file contains common table definitions used across multiple commands.

import (
	"fmt"
	"strconv"
	"strings"

	"powerview/internal/extract"
	"powerview/internal/powertop"
	"powerview/internal/table"
)

// BriefTableName is the name of the brief table, the short summary used in
// exported documents.
const BriefTableName = "Brief"

// briefProcessCount is the number of processes listed in the brief table.
const briefProcessCount = 5

// TableDefinitions contains table definitions used across multiple commands.
var TableDefinitions = map[string]table.TableDefinition{
	BriefTableName: {
		Name:       BriefTableName,
		MenuLabel:  BriefTableName,
		HasRows:    false,
		FieldsFunc: BriefTableValues},
}

// BriefTableValues returns the field values for the brief table.
func BriefTableValues(report powertop.Report) []table.Field {
	generated := extract.ValFromRegexSubmatch(report.Timestamp, `ran at (.+)$`)
	if generated == "" {
		generated = report.Timestamp
	}
	processes := []string{}
	for _, process := range report.TopProcesses(briefProcessCount) {
		processes = append(processes, fmt.Sprintf("%s - %s (%s wakeups/s)", process.Usage, process.Description, strconv.FormatFloat(process.Wakeups, 'f', -1, 64)))
	}
	return []table.Field{
		{Name: "Generated", Values: []string{generated}},
		{Name: "OS", Values: []string{report.SystemInfo.OS}},
		{Name: "CPU", Values: []string{report.SystemInfo.CPU}},
		{Name: "Kernel", Values: []string{report.SystemInfo.Kernel}},
		{Name: "CPU Usage", Values: []string{table.FormatPercent(report.Summary.CPUUsage)}},
		{Name: "Wakeups", Values: []string{table.FormatNumber(report.Summary.Wakeups) + "/s"}, Description: "System-wide wakeups per second."},
		{Name: "Target", Values: []string{report.Summary.Target}},
		{Name: "GPU", Values: []string{report.Summary.GPU}},
		{Name: "Top Processes", Values: []string{strings.Join(processes, "; ")}},
	}
}
