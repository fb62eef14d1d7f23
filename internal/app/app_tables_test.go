// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package app

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"powerview/internal/powertop"
	"powerview/internal/table"
)

func fieldValue(t *testing.T, fields []table.Field, name string) string {
	t.Helper()
	for _, field := range fields {
		if field.Name == name {
			require.Len(t, field.Values, 1)
			return field.Values[0]
		}
	}
	t.Fatalf("field %s not found", name)
	return ""
}

func TestBriefTableValues(t *testing.T) {
	report := powertop.Report{
		Timestamp:  "v2.14 ran at Mon Jan  1 10:00:00 2024",
		SystemInfo: powertop.SystemInfo{OS: "Ubuntu 23.10", CPU: "i7", Kernel: "6.5"},
		Summary:    powertop.Summary{CPUUsage: 9.3, Wakeups: 1771.9, Target: "1 units/s", GPU: "0 ops/s"},
	}
	for i, d := range []string{"a", "b", "c", "d", "e", "f"} {
		report.Processes = append(report.Processes, powertop.Process{Usage: fmt.Sprintf("%d ms/s", i), Description: d, Wakeups: float64(i) + 0.5})
	}

	fields := BriefTableValues(report)

	assert.Equal(t, "Mon Jan  1 10:00:00 2024", fieldValue(t, fields, "Generated"))
	assert.Equal(t, "Ubuntu 23.10", fieldValue(t, fields, "OS"))
	assert.Equal(t, "9.3%", fieldValue(t, fields, "CPU Usage"))
	assert.Equal(t, "1,771.9/s", fieldValue(t, fields, "Wakeups"))
	assert.Equal(t, "0 ops/s", fieldValue(t, fields, "GPU"))
	assert.Equal(t, "0 ms/s - a (0.5 wakeups/s); 1 ms/s - b (1.5 wakeups/s); 2 ms/s - c (2.5 wakeups/s); 3 ms/s - d (3.5 wakeups/s); 4 ms/s - e (4.5 wakeups/s)", fieldValue(t, fields, "Top Processes"))
}

func TestBriefTableValuesTimestampFallback(t *testing.T) {
	fields := BriefTableValues(powertop.Report{Timestamp: "3/5/2024, 2:07:09 PM"})
	assert.Equal(t, "3/5/2024, 2:07:09 PM", fieldValue(t, fields, "Generated"))
	assert.Equal(t, "", fieldValue(t, fields, "Top Processes"))
}

func TestBriefTableDefinition(t *testing.T) {
	values := table.GetValuesForTable(TableDefinitions[BriefTableName], powertop.Report{})
	assert.True(t, values.HasData())
	assert.False(t, values.HasRows)
}

func TestFormatHint(t *testing.T) {
	assert.Equal(t, powertop.FormatCSV, FormatHint(InputTypeCSV))
	assert.Equal(t, powertop.FormatHTML, FormatHint(InputTypeHTML))
	assert.Equal(t, powertop.Format(""), FormatHint(InputTypeAuto))
}
