// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

// Package table turns a parsed PowerTOP report into named tables of fields
// that the report renderers consume.
package table

import (
	"fmt"
	"log/slog"

	"powerview/internal/powertop"
)

// Field is one named column of a table
type Field struct {
	Name        string
	Description string
	Values      []string
}

// Insight is a recommendation derived from a table's values
type Insight struct {
	Recommendation string
	Justification  string
}

type FieldsRetriever func(powertop.Report) []Field
type InsightsRetriever func(powertop.Report, TableValues) []Insight
type HTMLTableRenderer func(TableValues, string) string

// TableDefinition describes how to build a table from a report
type TableDefinition struct {
	Name         string
	FieldsFunc   FieldsRetriever   // required
	InsightsFunc InsightsRetriever // optional
	MenuLabel    string            // tables with a label get an HTML menu entry
	HasRows      bool              // fields hold one value per row instead of a single value
	NoDataFound  string            // replaces the default empty-table message
}

// TableValues is a table definition together with its computed fields
type TableValues struct {
	TableDefinition
	Fields   []Field
	Insights []Insight
}

// HasData reports whether the table holds at least one value.
func (tv TableValues) HasData() bool {
	return len(tv.Fields) > 0 && len(tv.Fields[0].Values) > 0
}

// validate checks that the table is named, every field is named and all
// fields hold the same number of values. A table without fields is valid.
func (tv TableValues) validate() error {
	if tv.Name == "" {
		return fmt.Errorf("table name cannot be empty")
	}
	for i, field := range tv.Fields {
		if field.Name == "" {
			return fmt.Errorf("table %s, field %d, name cannot be empty", tv.Name, i)
		}
		if want := len(tv.Fields[0].Values); len(field.Values) != want {
			return fmt.Errorf("table %s, field %s has %d value(s), expected %d", tv.Name, field.Name, len(field.Values), want)
		}
	}
	return nil
}

// GetValuesForTable runs the definition's field and insight functions against
// the report. A table whose fields fail validation is logged and returned empty.
func GetValuesForTable(definition TableDefinition, report powertop.Report) TableValues {
	if definition.FieldsFunc == nil {
		panic(fmt.Sprintf("table %s has no FieldsFunc", definition.Name))
	}
	tv := TableValues{TableDefinition: definition, Fields: definition.FieldsFunc(report)}
	if err := tv.validate(); err != nil {
		slog.Error("dropping invalid table values", slog.String("table", definition.Name), slog.String("error", err.Error()))
		return TableValues{TableDefinition: definition, Fields: []Field{}}
	}
	if definition.InsightsFunc != nil {
		tv.Insights = definition.InsightsFunc(report, tv)
	}
	return tv
}

// ProcessTables computes the values of every table from the parsed report.
func ProcessTables(definitions []TableDefinition, report powertop.Report) ([]TableValues, error) {
	allTableValues := make([]TableValues, 0, len(definitions))
	for _, definition := range definitions {
		allTableValues = append(allTableValues, GetValuesForTable(definition, report))
	}
	return allTableValues, nil
}

// GetFieldIndex returns the index of the named field. It is an error for the
// field to be missing or to have no values.
func GetFieldIndex(fieldName string, tableValues TableValues) (int, error) {
	for i, field := range tableValues.Fields {
		if field.Name != fieldName {
			continue
		}
		if len(field.Values) == 0 {
			return -1, fmt.Errorf("field [%s] has no values", fieldName)
		}
		return i, nil
	}
	return -1, fmt.Errorf("field [%s] not found in table [%s]", fieldName, tableValues.Name)
}
