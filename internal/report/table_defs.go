package report

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

// table_defs.go defines the tables used for generating reports

import (
	"slices"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"

	"powerview/internal/insights"
	"powerview/internal/powertop"
	"powerview/internal/table"
)

const (
	// report table names
	SystemInformationTableName = "System Information"
	SummaryTableName           = "Summary"
	PowerConsumersTableName    = "Top Power Consumers"
	DevicePowerTableName       = "Device Power Report"
	IdleStatesTableName        = "Processor Idle States"
	// comparison table names
	ComparisonTableName        = "Comparison"
	CommonDeviceTypesTableName = "Common Device Types"
)

// NotAvailable is shown in place of values missing from a report.
const NotAvailable = "N/A"

const (
	powerConsumerLimit = 10
	activeDeviceLimit  = 10
)

// Tables returns the report tables, in report order. The summary table's insights
// are evaluated with the given rules.
func Tables(rules []insights.Rule) []table.TableDefinition {
	return []table.TableDefinition{
		{
			Name:       SystemInformationTableName,
			MenuLabel:  SystemInformationTableName,
			HasRows:    false,
			FieldsFunc: systemInformationTableValues},
		{
			Name:       SummaryTableName,
			MenuLabel:  SummaryTableName,
			HasRows:    false,
			FieldsFunc: summaryTableValues,
			InsightsFunc: func(report powertop.Report, _ table.TableValues) []table.Insight {
				return insights.Evaluate(rules, report)
			}},
		{
			Name:        PowerConsumersTableName,
			MenuLabel:   PowerConsumersTableName,
			HasRows:     true,
			NoDataFound: "No power consumers found.",
			FieldsFunc:  powerConsumersTableValues},
		{
			Name:        DevicePowerTableName,
			MenuLabel:   DevicePowerTableName,
			HasRows:     true,
			NoDataFound: "No active devices found.",
			FieldsFunc:  devicePowerTableValues},
		{
			Name:        IdleStatesTableName,
			MenuLabel:   IdleStatesTableName,
			HasRows:     true,
			NoDataFound: "No processor idle state data found.",
			FieldsFunc:  idleStatesTableValues},
	}
}

// ComparisonTables returns the tables rendered side by side when several reports
// are compared.
func ComparisonTables() []table.TableDefinition {
	return []table.TableDefinition{
		{
			Name:       ComparisonTableName,
			MenuLabel:  ComparisonTableName,
			HasRows:    false,
			FieldsFunc: comparisonTableValues},
		{
			Name:        PowerConsumersTableName,
			MenuLabel:   PowerConsumersTableName,
			HasRows:     true,
			NoDataFound: "No power consumers found.",
			FieldsFunc:  powerConsumersTableValues},
	}
}

func init() {
	RegisterHTMLRenderer(PowerConsumersTableName, powerConsumersHTMLRenderer)
	RegisterMultiTargetHTMLRenderer(ComparisonTableName, comparisonHTMLRenderer)
}

//
// define the fieldsFunc for each table
//

func systemInformationTableValues(report powertop.Report) []table.Field {
	return table.SingleValueFields(
		[]string{"PowerTOP Version", "Kernel", "System", "CPU", "OS", "Timestamp"},
		map[string]string{
			"PowerTOP Version": report.SystemInfo.Version,
			"Kernel":           report.SystemInfo.Kernel,
			"System":           report.SystemInfo.System,
			"CPU":              report.SystemInfo.CPU,
			"OS":               report.SystemInfo.OS,
			"Timestamp":        report.Timestamp,
		})
}

func summaryTableValues(report powertop.Report) []table.Field {
	return []table.Field{
		{Name: "CPU Usage", Values: []string{table.FormatPercent(report.Summary.CPUUsage)}},
		{Name: "Wakeups", Values: []string{table.FormatNumber(report.Summary.Wakeups) + "/s"}, Description: "System-wide wakeups per second."},
		{Name: "Target", Values: []string{report.Summary.Target}},
		{Name: "GPU Operations", Values: []string{report.Summary.GPU}},
		{Name: "GFX Wakeups", Values: []string{report.Summary.GFX}},
		{Name: "VFS Operations", Values: []string{report.Summary.VFS}},
	}
}

func powerConsumersTableValues(report powertop.Report) []table.Field {
	rows := [][]string{}
	for _, process := range report.TopProcesses(powerConsumerLimit) {
		rows = append(rows, []string{process.Usage, table.FormatNumber(process.Wakeups), process.Category, process.Description})
	}
	return table.RowFields([]string{"Usage", "Wakeups/s", "Category", "Description"}, rows)
}

func devicePowerTableValues(report powertop.Report) []table.Field {
	rows := [][]string{}
	for _, device := range report.ActiveDevices(activeDeviceLimit) {
		rows = append(rows, []string{device.Usage, device.Name, device.Type})
	}
	return table.RowFields([]string{"Usage", "Device Name", "Type"}, rows)
}

func idleStatesTableValues(report powertop.Report) []table.Field {
	rows := [][]string{}
	for _, state := range report.CPUStates.PackageStateNames() {
		rows = append(rows, []string{state, table.FormatPercent(report.CPUStates.Package[state])})
	}
	return table.RowFields([]string{"State", "Residency"}, rows)
}

// deviceTypes returns the set of classified device types in the report.
func deviceTypes(report powertop.Report) mapset.Set[string] {
	types := mapset.NewSet[string]()
	for _, device := range report.Devices {
		types.Add(device.Type)
	}
	return types
}

func joinSet(set mapset.Set[string]) string {
	if set.Cardinality() == 0 {
		return NotAvailable
	}
	values := set.ToSlice()
	slices.Sort(values)
	return strings.Join(values, ", ")
}

func comparisonTableValues(report powertop.Report) []table.Field {
	topProcess := NotAvailable
	if len(report.Processes) > 0 {
		topProcess = report.Processes[0].Description
	}
	return []table.Field{
		{Name: "Timestamp", Values: []string{report.Timestamp}},
		{Name: "CPU Usage", Values: []string{table.FormatPercent(report.Summary.CPUUsage)}},
		{Name: "Wakeups", Values: []string{table.FormatNumber(report.Summary.Wakeups) + "/s"}},
		{Name: "Top Process", Values: []string{topProcess}},
		{Name: "Device Types", Values: []string{joinSet(deviceTypes(report))}},
	}
}

// CommonDeviceTypesTableValues returns one table per report listing the device types
// found in every report and those found only in that report.
func CommonDeviceTypesTableValues(reports []powertop.Report) []table.TableValues {
	reportTypes := make([]mapset.Set[string], 0, len(reports))
	common := mapset.NewSet[string]()
	for i, report := range reports {
		types := deviceTypes(report)
		reportTypes = append(reportTypes, types)
		if i == 0 {
			common = types.Clone()
		} else {
			common = common.Intersect(types)
		}
	}
	allTableValues := make([]table.TableValues, 0, len(reports))
	for i, types := range reportTypes {
		others := mapset.NewSet[string]()
		for j, otherTypes := range reportTypes {
			if j != i {
				others = others.Union(otherTypes)
			}
		}
		allTableValues = append(allTableValues, table.TableValues{
			TableDefinition: table.TableDefinition{
				Name:      CommonDeviceTypesTableName,
				MenuLabel: CommonDeviceTypesTableName,
				HasRows:   false,
			},
			Fields: []table.Field{
				{Name: "In All Reports", Values: []string{joinSet(common)}},
				{Name: "Only In This Report", Values: []string{joinSet(types.Difference(others))}},
			},
		})
	}
	return allTableValues
}

//
// custom renderers
//

// powerConsumersHTMLRenderer renders the power consumer table preceded by a bar
// chart of the wakeups of each consumer.
func powerConsumersHTMLRenderer(tableValues table.TableValues, targetName string) string {
	descriptionIndex, err := table.GetFieldIndex("Description", tableValues)
	if err != nil {
		return DefaultHTMLTableRendererFunc(tableValues)
	}
	reportConsumers := tableValues.Fields[descriptionIndex].Values
	wakeups := []float64{}
	wakeupsIndex, err := table.GetFieldIndex("Wakeups/s", tableValues)
	if err != nil {
		return DefaultHTMLTableRendererFunc(tableValues)
	}
	for _, value := range tableValues.Fields[wakeupsIndex].Values {
		wakeups = append(wakeups, parseFormattedNumber(value))
	}
	chart := RenderBarChart([][]float64{wakeups}, []string{"Wakeups/s"}, reportConsumers, BarChart{
		ID:          "consumers" + chartID(targetName),
		XAxisLabel:  "Wakeups/s",
		AspectRatio: 2,
	})
	return chart + DefaultHTMLTableRendererFunc(tableValues)
}

// fieldNumbers parses the first value of the named field in each report's table.
// A report without the field counts as 0.
func fieldNumbers(tableValues []table.TableValues, fieldName string) []float64 {
	values := make([]float64, 0, len(tableValues))
	for _, tv := range tableValues {
		value := 0.0
		if i, err := table.GetFieldIndex(fieldName, tv); err == nil {
			value = parseFormattedNumber(tv.Fields[i].Values[0])
		}
		values = append(values, value)
	}
	return values
}

// comparisonHTMLRenderer charts CPU usage and wakeups with one bar per report,
// followed by the side-by-side table
func comparisonHTMLRenderer(tableValues []table.TableValues, targetNames []string) string {
	cpuChart := RenderBarChart([][]float64{fieldNumbers(tableValues, "CPU Usage")}, []string{"CPU Usage"}, targetNames, BarChart{
		ID:          "comparison-cpu-usage",
		XAxisLabel:  "CPU Usage (%)",
		Title:       "CPU Usage",
		AspectRatio: 3,
	})
	wakeupsChart := RenderBarChart([][]float64{fieldNumbers(tableValues, "Wakeups")}, []string{"Wakeups"}, targetNames, BarChart{
		ID:          "comparison-wakeups",
		XAxisLabel:  "Wakeups/s",
		Title:       "Wakeups",
		AspectRatio: 3,
	})
	return cpuChart + wakeupsChart + renderMultiTargetHtmlTable(tableValues, targetNames)
}
