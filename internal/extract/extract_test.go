// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   float64
		wantOk bool
	}{
		{name: "integer", input: "42", want: 42, wantOk: true},
		{name: "decimal", input: "771.9", want: 771.9, wantOk: true},
		{name: "leading whitespace", input: "  \t3.5", want: 3.5, wantOk: true},
		{name: "trailing unit", input: "9.3% usage", want: 9.3, wantOk: true},
		{name: "trailing dot", input: "5.", want: 5, wantOk: true},
		{name: "leading dot", input: ".25 ms", want: 0.25, wantOk: true},
		{name: "negative", input: "-1.5", want: -1.5, wantOk: true},
		{name: "exponent", input: "1e3 ops/s", want: 1000, wantOk: true},
		{name: "incomplete exponent", input: "2e", want: 2, wantOk: true},
		{name: "empty", input: "", want: 0, wantOk: false},
		{name: "text", input: "abc", want: 0, wantOk: false},
		{name: "unit first", input: "% 5", want: 0, wantOk: false},
		{name: "out of range", input: "1e999", want: 0, wantOk: false},
		{name: "NaN literal", input: "NaN", want: 0, wantOk: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseNumber(tt.input)
			assert.Equal(t, tt.wantOk, ok)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestNumberFromText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		strip []string
		want  float64
	}{
		{name: "cpu usage", input: "9.3% usage", strip: []string{"usage", "%"}, want: 9.3},
		{name: "wakeups", input: "771.9 wakeup/s", strip: []string{"wakeup/s"}, want: 771.9},
		{name: "percentage", input: "87.5%", strip: []string{"%"}, want: 87.5},
		{name: "no strip patterns", input: "12 events", want: 12},
		{name: "unparsable", input: "n/a", strip: []string{"%"}, want: 0},
		{name: "only unit", input: "usage", strip: []string{"usage"}, want: 0},
		{name: "empty", input: "", want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, NumberFromText(tt.input, tt.strip...), 1e-9)
		})
	}
}

func TestNumberFromTextRemovesFirstOccurrenceOnly(t *testing.T) {
	// a second "%" is left in place and ends the numeric prefix
	assert.InDelta(t, 10.0, NumberFromText("%10%", "%"), 1e-9)
}

func TestTrimDecoration(t *testing.T) {
	assert.Equal(t, "System Information", TrimDecoration("__  System Information __"))
	assert.Equal(t, "", TrimDecoration("________"))
	assert.Equal(t, "*  *  *   Top 10 Power Consumers   *  *  *", TrimDecoration(" *  *  *   Top 10 Power Consumers   *  *  * "))
}

func TestSplitRow(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{name: "plain", line: "Usage;Events/s;Category;Description", want: []string{"Usage", "Events/s", "Category", "Description"}},
		{name: "spaces", line: "  5% ; 2 ;App;  My App ", want: []string{"5%", "2", "App", "My App"}},
		{name: "quoted", line: `"PowerTOP Version";"v1.2, 2024-01-01"`, want: []string{"PowerTOP Version", "v1.2, 2024-01-01"}},
		{name: "empty line", line: "", want: []string{""}},
		{name: "trailing delimiter", line: "C1;10%;", want: []string{"C1", "10%", ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitRow(tt.line, ";"))
		})
	}
}

func TestKeyValuePairs(t *testing.T) {
	got := KeyValuePairs("Target: 1 units/s;System: 771.9 wakeup/s;CPU: 9.3% usage;GPU: 0.0 ops/s;", ";")
	assert.Equal(t, []KeyValue{
		{Key: "Target", Value: "1 units/s"},
		{Key: "System", Value: "771.9 wakeup/s"},
		{Key: "CPU", Value: "9.3% usage"},
		{Key: "GPU", Value: "0.0 ops/s"},
	}, got)

	got = KeyValuePairs(`"Target: 5 units/s;Broken;Time: 12:30"`, ";")
	assert.Equal(t, []KeyValue{
		{Key: "Target", Value: "5 units/s"},
		{Key: "Broken", Value: ""},
		{Key: "Time", Value: "12"},
	}, got)

	assert.Empty(t, KeyValuePairs("", ";"))
}

func TestValueAfterColon(t *testing.T) {
	assert.Equal(t, "9.3% usage", ValueAfterColon("CPU: 9.3% usage"))
	assert.Equal(t, "12", ValueAfterColon("Time: 12:30"))
	assert.Equal(t, "", ValueAfterColon("no colon here"))
	assert.Equal(t, "", ValueAfterColon("Trailing:"))
}

func TestValFromRegexSubmatch(t *testing.T) {
	output := "PowerTOP v2.14\nran at Mon Jan  1 10:00:00 2024\n"
	assert.Equal(t, "Mon Jan  1 10:00:00 2024", ValFromRegexSubmatch(output, `^ran at (.+)$`))
	assert.Equal(t, "", ValFromRegexSubmatch(output, `^missing (.+)$`))
}
