package report

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"strings"

	"powerview/internal/table"
)

const columnSpacing = 3

type textWriter struct {
	strings.Builder
}

func (w *textWriter) heading(name string) {
	fmt.Fprintf(w, "%s\n%s\n", name, strings.Repeat("=", len(name)))
}

// table writes the table body followed by a blank line
func (w *textWriter) table(tableValues table.TableValues) {
	if tableValues.HasData() {
		w.WriteString(DefaultTextTableRendererFunc(tableValues))
	} else {
		w.WriteString(noDataMessage(tableValues) + "\n")
	}
	w.WriteString("\n")
}

func createTextReport(allTableValues []table.TableValues) ([]byte, error) {
	var w textWriter
	for _, tableValues := range allTableValues {
		w.heading(tableValues.Name)
		w.table(tableValues)
	}
	return []byte(w.String()), nil
}

// createTextReportMultiTarget renders single-value tables with one column per
// target and row tables once per target.
func createTextReportMultiTarget(allTargetsTableValues [][]table.TableValues, targetNames []string, allTableNames []string) ([]byte, error) {
	var w textWriter
	for _, tableName := range allTableNames {
		tableValues, tableTargets := tablesForName(allTargetsTableValues, targetNames, tableName)
		if len(tableValues) == 0 {
			continue
		}
		w.heading(tableName)
		if !tableValues[0].HasRows {
			w.WriteString(renderMultiTargetText(tableValues, tableTargets) + "\n")
			continue
		}
		for i, targetTableValues := range tableValues {
			w.WriteString(tableTargets[i] + ":\n")
			w.table(targetTableValues)
		}
	}
	return []byte(w.String()), nil
}

// renderMultiTargetText prints field names down the first column and each target's
// value in its own column.
func renderMultiTargetText(tableValues []table.TableValues, targetNames []string) string {
	names := []string{""}
	for _, field := range tableValues[0].Fields {
		names = append(names, field.Name)
	}
	columns := [][]string{names}
	for targetIdx, targetName := range targetNames {
		column := []string{targetName}
		fields := tableValues[targetIdx].Fields
		for fieldIdx := range tableValues[0].Fields {
			value := ""
			if fieldIdx < len(fields) && len(fields[fieldIdx].Values) > 0 {
				value = fields[fieldIdx].Values[0]
			}
			column = append(column, value)
		}
		columns = append(columns, column)
	}
	return renderTextColumns(columns)
}

// renderTextColumns left-aligns columns of equal length. The last column is not
// padded.
func renderTextColumns(columns [][]string) string {
	if len(columns) == 0 {
		return ""
	}
	var sb strings.Builder
	widths := make([]int, len(columns))
	for i, column := range columns[:len(columns)-1] {
		for _, value := range column {
			widths[i] = max(widths[i], len(value))
		}
	}
	for row := range columns[0] {
		for i, column := range columns {
			if i == len(columns)-1 {
				sb.WriteString(column[row])
				continue
			}
			fmt.Fprintf(&sb, "%-*s", widths[i]+columnSpacing, column[row])
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// DefaultTextTableRendererFunc prints row tables as aligned columns under an
// underlined header, and single-value tables as "name: value" lines.
func DefaultTextTableRendererFunc(tableValues table.TableValues) string {
	if tableValues.HasRows {
		columns := make([][]string, 0, len(tableValues.Fields))
		for _, field := range tableValues.Fields {
			column := append([]string{field.Name, strings.Repeat("-", len(field.Name))}, field.Values...)
			columns = append(columns, column)
		}
		return renderTextColumns(columns)
	}
	width := 0
	for _, field := range tableValues.Fields {
		width = max(width, len(field.Name))
	}
	var sb strings.Builder
	for _, field := range tableValues.Fields {
		value := ""
		if len(field.Values) > 0 {
			value = field.Values[0]
		}
		fmt.Fprintf(&sb, "%-*s %s\n", width+1, field.Name+":", value)
	}
	return sb.String()
}
