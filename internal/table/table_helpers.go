// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

// table_helpers.go contains helpers for building field lists.

package table

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FormatNumber formats v with one decimal place and thousands separators, e.g., 1,234.5
func FormatNumber(v float64) string {
	p := message.NewPrinter(language.English) // use printer to get commas at thousands
	return p.Sprintf("%.1f", v)
}

// FormatPercent formats v as a percentage with one decimal place, e.g., 9.3%
func FormatPercent(v float64) string {
	return FormatNumber(v) + "%"
}

// SingleValueFields builds fields holding one value each, in the order of names.
func SingleValueFields(names []string, values map[string]string) []Field {
	fields := make([]Field, 0, len(names))
	for _, name := range names {
		fields = append(fields, Field{Name: name, Values: []string{values[name]}})
	}
	return fields
}

// RowFields builds row-form fields from rows of values. Every row must have one value
// per name; short rows are padded with empty strings, extra values are dropped.
func RowFields(names []string, rows [][]string) []Field {
	fields := make([]Field, len(names))
	for i, name := range names {
		fields[i] = Field{Name: name, Values: make([]string, 0, len(rows))}
	}
	for _, row := range rows {
		for i := range fields {
			var value string
			if i < len(row) {
				value = row[i]
			}
			fields[i].Values = append(fields[i].Values, value)
		}
	}
	return fields
}
