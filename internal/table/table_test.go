// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"powerview/internal/powertop"
)

func TestGetValuesForTable(t *testing.T) {
	def := TableDefinition{
		Name:    "Processes",
		HasRows: true,
		FieldsFunc: func(r powertop.Report) []Field {
			rows := [][]string{}
			for _, p := range r.Processes {
				rows = append(rows, []string{p.Description, p.Usage})
			}
			return RowFields([]string{"Description", "Usage"}, rows)
		},
		InsightsFunc: func(r powertop.Report, tv TableValues) []Insight {
			if len(tv.Fields[0].Values) > 1 {
				return []Insight{{Recommendation: "look", Justification: "many"}}
			}
			return nil
		},
	}
	report := powertop.Report{Processes: []powertop.Process{
		{Description: "a", Usage: "1%"},
		{Description: "b", Usage: "2%"},
	}}

	tv := GetValuesForTable(def, report)

	require.Len(t, tv.Fields, 2)
	assert.Equal(t, []string{"a", "b"}, tv.Fields[0].Values)
	assert.Equal(t, []string{"1%", "2%"}, tv.Fields[1].Values)
	assert.Equal(t, []Insight{{Recommendation: "look", Justification: "many"}}, tv.Insights)
	assert.True(t, tv.HasData())
}

func TestGetValuesForTableInvalidFields(t *testing.T) {
	def := TableDefinition{
		Name: "Broken",
		FieldsFunc: func(powertop.Report) []Field {
			return []Field{
				{Name: "a", Values: []string{"1", "2"}},
				{Name: "b", Values: []string{"1"}},
			}
		},
	}

	tv := GetValuesForTable(def, powertop.Report{})

	assert.Empty(t, tv.Fields)
	assert.False(t, tv.HasData())
	assert.Equal(t, "Broken", tv.Name)
}

func TestGetValuesForTableNilFieldsFunc(t *testing.T) {
	assert.Panics(t, func() {
		GetValuesForTable(TableDefinition{Name: "nil"}, powertop.Report{})
	})
}

func TestProcessTables(t *testing.T) {
	defs := []TableDefinition{
		{Name: "one", FieldsFunc: func(powertop.Report) []Field { return nil }},
		{Name: "two", FieldsFunc: func(r powertop.Report) []Field {
			return SingleValueFields([]string{"OS"}, map[string]string{"OS": r.SystemInfo.OS})
		}},
	}

	all, err := ProcessTables(defs, powertop.Report{SystemInfo: powertop.SystemInfo{OS: "Fedora"}})

	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.False(t, all[0].HasData())
	assert.Equal(t, []Field{{Name: "OS", Values: []string{"Fedora"}}}, all[1].Fields)
}

func TestGetFieldIndex(t *testing.T) {
	tv := TableValues{
		TableDefinition: TableDefinition{Name: "t"},
		Fields: []Field{
			{Name: "empty"},
			{Name: "full", Values: []string{"x"}},
		},
	}
	idx, err := GetFieldIndex("full", tv)
	require.NoError(t, err)
	assert.Equal(t, 1, idx)

	idx, err = GetFieldIndex("empty", tv)
	assert.Error(t, err)
	assert.Equal(t, -1, idx)

	_, err = GetFieldIndex("missing", tv)
	assert.ErrorContains(t, err, "not found in table [t]")
}

func TestRowFields(t *testing.T) {
	fields := RowFields([]string{"a", "b"}, [][]string{{"1", "2"}, {"3"}, {"4", "5", "6"}})
	assert.Equal(t, []Field{
		{Name: "a", Values: []string{"1", "3", "4"}},
		{Name: "b", Values: []string{"2", "", "5"}},
	}, fields)

	empty := RowFields([]string{"a"}, nil)
	assert.Equal(t, []Field{{Name: "a", Values: []string{}}}, empty)
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{in: 0, want: "0.0"},
		{in: 9.3, want: "9.3"},
		{in: 771.94, want: "771.9"},
		{in: 1234.5, want: "1,234.5"},
		{in: 2500000, want: "2,500,000.0"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatNumber(tt.in))
		})
	}
	assert.Equal(t, "70.3%", FormatPercent(70.3))
}
