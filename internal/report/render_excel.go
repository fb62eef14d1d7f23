package report

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"bytes"
	"fmt"
	"log/slog"
	"math"
	"strconv"

	"github.com/xuri/excelize/v2"

	"powerview/internal/table"
)

const (
	XlsxPrimarySheetName = "Report"
	XlsxBriefSheetName   = "Brief"
)

// xlsxSheet writes tables one below the other on a worksheet
type xlsxSheet struct {
	f         *excelize.File
	name      string
	row       int
	bold      int
	alignLeft int
}

func newXlsxSheet(f *excelize.File, name string, firstColWidth float64) (*xlsxSheet, error) {
	if idx, _ := f.GetSheetIndex(name); idx == -1 {
		if _, err := f.NewSheet(name); err != nil {
			return nil, err
		}
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	alignLeft, err := f.NewStyle(&excelize.Style{Alignment: &excelize.Alignment{Horizontal: "left"}})
	if err != nil {
		return nil, err
	}
	if err := f.SetColWidth(name, "A", "A", firstColWidth); err != nil {
		slog.Debug("failed to set xlsx column width", slog.String("sheet", name), slog.String("error", err.Error()))
	}
	if err := f.SetColWidth(name, "B", "L", 25); err != nil {
		slog.Debug("failed to set xlsx column width", slog.String("sheet", name), slog.String("error", err.Error()))
	}
	return &xlsxSheet{f: f, name: name, row: 1, bold: bold, alignLeft: alignLeft}, nil
}

// setRow writes values to the current row starting at column col. Failures are
// logged and leave the row empty.
func (s *xlsxSheet) setRow(col int, values []any, style int) {
	if err := s.writeRow(col, values, style); err != nil {
		slog.Debug("failed to write xlsx row", slog.String("sheet", s.name), slog.Int("row", s.row), slog.String("error", err.Error()))
	}
}

func (s *xlsxSheet) writeRow(col int, values []any, style int) error {
	cell, err := excelize.CoordinatesToCellName(col, s.row)
	if err != nil {
		return err
	}
	if err := s.f.SetSheetRow(s.name, cell, &values); err != nil {
		return err
	}
	if style == 0 || len(values) == 0 {
		return nil
	}
	last, err := excelize.CoordinatesToCellName(col+len(values)-1, s.row)
	if err != nil {
		return err
	}
	return s.f.SetCellStyle(s.name, cell, last, style)
}

func (s *xlsxSheet) labels(names []string) []any {
	values := make([]any, 0, len(names))
	for _, name := range names {
		values = append(values, name)
	}
	return values
}

// writeTable writes the table of one report
func (s *xlsxSheet) writeTable(tableValues table.TableValues) {
	s.setRow(1, []any{tableValues.Name}, s.bold)
	s.row++
	if !tableValues.HasData() {
		s.setRow(1, []any{noDataMessage(tableValues)}, 0)
		s.row += 2
		return
	}
	if tableValues.HasRows {
		s.writeRows(tableValues)
	} else {
		for _, field := range tableValues.Fields {
			value := ""
			if len(field.Values) > 0 {
				value = field.Values[0]
			}
			s.setRow(1, []any{field.Name}, 0)
			s.setRow(2, []any{cellValue(value)}, s.alignLeft)
			s.row++
		}
	}
	s.row++
}

// writeRows writes field names as column headings from column B, then the rows
func (s *xlsxSheet) writeRows(tableValues table.TableValues) {
	names := make([]string, 0, len(tableValues.Fields))
	for _, field := range tableValues.Fields {
		names = append(names, field.Name)
	}
	s.setRow(2, s.labels(names), s.bold)
	s.row++
	for i := range tableValues.Fields[0].Values {
		values := make([]any, 0, len(tableValues.Fields))
		for _, field := range tableValues.Fields {
			values = append(values, cellValue(field.Values[i]))
		}
		s.setRow(2, values, s.alignLeft)
		s.row++
	}
}

// writeMultiTargetTable writes the same table of several reports. Single-value
// tables get one column per report, row tables are written once per report.
func (s *xlsxSheet) writeMultiTargetTable(tableValues []table.TableValues, targetNames []string) {
	s.setRow(1, []any{tableValues[0].Name}, s.bold)
	if !tableValues[0].HasRows {
		s.setRow(3, s.labels(targetNames), s.bold)
		s.row++
		for fieldIdx, field := range tableValues[0].Fields {
			s.setRow(2, []any{field.Name}, s.bold)
			values := make([]any, 0, len(tableValues))
			for _, targetTableValues := range tableValues {
				value := ""
				if fieldIdx < len(targetTableValues.Fields) && len(targetTableValues.Fields[fieldIdx].Values) > 0 {
					value = targetTableValues.Fields[fieldIdx].Values[0]
				}
				values = append(values, cellValue(value))
			}
			s.setRow(3, values, 0)
			s.row++
		}
		s.row++
		return
	}
	s.row++
	for i, targetTableValues := range tableValues {
		s.setRow(2, []any{targetNames[i]}, s.bold)
		s.row++
		if !targetTableValues.HasData() {
			s.setRow(2, []any{noDataMessage(targetTableValues)}, 0)
			s.row += 2
			continue
		}
		s.writeRows(targetTableValues)
		s.row++
	}
	s.row++
}

func xlsxBytes(f *excelize.File) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write xlsx report to buffer: %w", err)
	}
	return buf.Bytes(), nil
}

func createXlsxReport(allTableValues []table.TableValues, briefTableName string) (out []byte, err error) {
	f := excelize.NewFile()
	defer f.Close()
	if err = f.SetSheetName("Sheet1", XlsxPrimarySheetName); err != nil {
		return nil, err
	}
	report, err := newXlsxSheet(f, XlsxPrimarySheetName, 25)
	if err != nil {
		return nil, err
	}
	for _, tableValues := range allTableValues {
		if tableValues.Name != briefTableName {
			report.writeTable(tableValues)
			continue
		}
		brief, err := newXlsxSheet(f, XlsxBriefSheetName, 25)
		if err != nil {
			return nil, err
		}
		brief.writeTable(tableValues)
	}
	return xlsxBytes(f)
}

func createXlsxReportMultiTarget(allTargetsTableValues [][]table.TableValues, targetNames []string, allTableNames []string, briefTableName string) (out []byte, err error) {
	f := excelize.NewFile()
	defer f.Close()
	if err = f.SetSheetName("Sheet1", XlsxPrimarySheetName); err != nil {
		return nil, err
	}
	report, err := newXlsxSheet(f, XlsxPrimarySheetName, 15)
	if err != nil {
		return nil, err
	}
	for _, tableName := range allTableNames {
		tableValues, tableTargets := tablesForName(allTargetsTableValues, targetNames, tableName)
		if len(tableValues) == 0 {
			continue
		}
		if tableName != briefTableName {
			report.writeMultiTargetTable(tableValues, tableTargets)
			continue
		}
		brief, err := newXlsxSheet(f, XlsxBriefSheetName, 15)
		if err != nil {
			return nil, err
		}
		brief.writeMultiTargetTable(tableValues, tableTargets)
	}
	return xlsxBytes(f)
}

// cellValue converts numeric strings to numbers, anything else stays text
func cellValue(value string) any {
	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}
	floatValue, err := strconv.ParseFloat(value, 64)
	if err == nil && !math.IsNaN(floatValue) && !math.IsInf(floatValue, 0) {
		return floatValue
	}
	return value
}
