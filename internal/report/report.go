// Package report renders PowerTOP report tables as text, JSON, HTML and xlsx.
package report

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"strings"

	"powerview/internal/table"
)

const (
	FormatHtml = "html"
	FormatXlsx = "xlsx"
	FormatJson = "json"
	FormatTxt  = "txt"
	FormatRaw  = "raw"
	FormatAll  = "all"
)

const NoDataFound = "No data found."

// FormatOptions lists the formats rendered from table values. The raw format is
// rendered from the parsed report itself, see CreateRawReport.
var FormatOptions = []string{FormatHtml, FormatXlsx, FormatJson, FormatTxt}

// MultiTargetFormatOptions lists the formats that support side-by-side reports.
var MultiTargetFormatOptions = []string{FormatHtml, FormatXlsx, FormatTxt}

// ContentTypes maps report formats to their MIME types.
var ContentTypes = map[string]string{
	FormatHtml: "text/html; charset=utf-8",
	FormatXlsx: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	FormatJson: "application/json",
	FormatTxt:  "text/plain; charset=utf-8",
	FormatRaw:  "application/json",
}

// Create renders the tables of one report in format. targetName names the
// report source in HTML output and briefTableName is the table that gets its own
// xlsx sheet. Tables whose fields hold differing numbers of values are rejected.
func Create(format string, allTableValues []table.TableValues, targetName string, briefTableName string) ([]byte, error) {
	for _, tableValues := range allTableValues {
		if len(tableValues.Fields) == 0 {
			continue
		}
		want := len(tableValues.Fields[0].Values)
		for _, field := range tableValues.Fields[1:] {
			if len(field.Values) != want {
				return nil, fmt.Errorf("expected %d value(s) for field, found %d", want, len(field.Values))
			}
		}
	}
	switch format {
	case FormatTxt:
		return createTextReport(allTableValues)
	case FormatJson:
		return createJsonReport(allTableValues)
	case FormatHtml:
		return createHtmlReport(allTableValues, targetName)
	case FormatXlsx:
		return createXlsxReport(allTableValues, briefTableName)
	}
	return nil, fmt.Errorf("expected one of %s, got %s", strings.Join(FormatOptions, ", "), format)
}

// CreateMultiTarget renders several reports side by side. targetNames follows the
// order of allTargetsTableValues and allTableNames sets the table order.
func CreateMultiTarget(format string, allTargetsTableValues [][]table.TableValues, targetNames []string, allTableNames []string, briefTableName string) ([]byte, error) {
	if len(allTargetsTableValues) != len(targetNames) {
		return nil, fmt.Errorf("expected %d target name(s), got %d", len(allTargetsTableValues), len(targetNames))
	}
	switch format {
	case FormatTxt:
		return createTextReportMultiTarget(allTargetsTableValues, targetNames, allTableNames)
	case FormatHtml:
		return createHtmlReportMultiTarget(allTargetsTableValues, targetNames, allTableNames)
	case FormatXlsx:
		return createXlsxReportMultiTarget(allTargetsTableValues, targetNames, allTableNames, briefTableName)
	}
	return nil, fmt.Errorf("multi-target reports support %s, got %s", strings.Join(MultiTargetFormatOptions, ", "), format)
}

// findTableIndex returns the index of the named table, -1 when absent
func findTableIndex(tableValues []table.TableValues, tableName string) int {
	for i, tableValue := range tableValues {
		if tableValue.Name == tableName {
			return i
		}
	}
	return -1
}

// tablesForName collects, for each target that has it, the named table and the
// target's name.
func tablesForName(allTargetsTableValues [][]table.TableValues, targetNames []string, tableName string) ([]table.TableValues, []string) {
	tableTargets := []string{}
	tableValues := []table.TableValues{}
	for targetIndex, targetTableValues := range allTargetsTableValues {
		tableIndex := findTableIndex(targetTableValues, tableName)
		if tableIndex == -1 {
			continue
		}
		tableTargets = append(tableTargets, targetNames[targetIndex])
		tableValues = append(tableValues, targetTableValues[tableIndex])
	}
	return tableValues, tableTargets
}

func noDataMessage(tableValues table.TableValues) string {
	if tableValues.NoDataFound != "" {
		return tableValues.NoDataFound
	}
	return NoDataFound
}
