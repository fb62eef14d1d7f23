// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package insights

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"powerview/internal/powertop"
	"powerview/internal/table"
)

func busyReport() powertop.Report {
	return powertop.Report{
		Summary: powertop.Summary{CPUUsage: 75.3, Wakeups: 1500},
		Processes: []powertop.Process{
			{Description: "busy", Wakeups: 250},
			{Description: "quiet", Wakeups: 1},
		},
		Devices: []powertop.Device{{Name: "CPU use", Usage: "100%"}},
		CPUStates: powertop.CPUStates{Package: map[string]float64{
			"C2 (pc2)":   40,
			"C10 (pc10)": 12.5,
		}},
	}
}

func TestDefaultRules(t *testing.T) {
	rules := DefaultRules()
	require.NotEmpty(t, rules)
	for _, rule := range rules {
		assert.NotEmpty(t, rule.Name)
		assert.NotEmpty(t, rule.Expression)
		assert.NotEmpty(t, rule.Recommendation)
	}
}

func TestParameters(t *testing.T) {
	params := Parameters(busyReport())
	assert.Equal(t, map[string]any{
		ParamCPUUsage:             75.3,
		ParamWakeups:              1500.0,
		ParamProcessCount:         2.0,
		ParamDeviceCount:          1.0,
		ParamTopProcessWakeups:    250.0,
		ParamDeepestIdleResidency: 12.5,
		ParamHasIdleStates:        true,
	}, params)

	empty := Parameters(powertop.Report{})
	assert.Equal(t, 0.0, empty[ParamTopProcessWakeups])
	assert.Equal(t, 0.0, empty[ParamDeepestIdleResidency])
	assert.Equal(t, false, empty[ParamHasIdleStates])
}

func TestEvaluateDefaultRules(t *testing.T) {
	insights := Evaluate(DefaultRules(), busyReport())

	require.Len(t, insights, 4)
	assert.Equal(t, "CPU usage is 75.3%, above the 50% threshold.", insights[0].Justification)
	assert.Equal(t, "The system reports 1500.0 wakeups per second.", insights[1].Justification)
	assert.Equal(t, "The top process causes 250.0 wakeups per second.", insights[2].Justification)
	assert.Equal(t, "Residency in the deepest package idle state is 12.5%.", insights[3].Justification)
}

func TestEvaluateIdleReport(t *testing.T) {
	insights := Evaluate(DefaultRules(), powertop.Report{})

	require.Len(t, insights, 1)
	assert.Equal(t, "The report contains no processor idle state data.", insights[0].Justification)
}

func TestEvaluateSkipsBadRules(t *testing.T) {
	rules := []Rule{
		{Name: "syntax", Expression: "cpu_usage >", Recommendation: "r"},
		{Name: "unknown parameter", Expression: "battery > 1", Recommendation: "r"},
		{Name: "not boolean", Expression: "cpu_usage + 1", Recommendation: "r"},
		{Name: "bad template", Expression: "true", Recommendation: "ok", Justification: "{{.cpu_usage"},
		{Name: "function", Expression: "max(cpu_usage, 10) > 70", Recommendation: "fn", Justification: "{{.process_count}} processes"},
	}

	insights := Evaluate(rules, busyReport())

	assert.Equal(t, []table.Insight{
		{Recommendation: "ok", Justification: "{{.cpu_usage"},
		{Recommendation: "fn", Justification: "2 processes"},
	}, insights)
}

func TestParseRules(t *testing.T) {
	rules, err := ParseRules([]byte(`
rules:
  - name: a
    expression: wakeups > 1
    recommendation: do something
`))
	require.NoError(t, err)
	assert.Equal(t, []Rule{{Name: "a", Expression: "wakeups > 1", Recommendation: "do something"}}, rules)

	_, err = ParseRules([]byte("rules:\n  - name: a\n"))
	assert.ErrorContains(t, err, "rule 0")

	_, err = ParseRules([]byte("rules:\n  - name: a\n    expression: x\n    recommendation: y\n    unknown: z\n"))
	assert.Error(t, err)

	_, err = ParseRules([]byte("rules: ["))
	assert.Error(t, err)
}

func TestLoadRules(t *testing.T) {
	rules, err := LoadRules("")
	require.NoError(t, err)
	assert.Equal(t, DefaultRules(), rules)

	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rules:\n  - name: a\n    expression: 'true'\n    recommendation: b\n"), 0o600))
	rules, err = LoadRules(path)
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, "a", rules[0].Name)

	_, err = LoadRules(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read rules file")
}
