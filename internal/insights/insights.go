// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

// Package insights evaluates configurable rules against a parsed PowerTOP report
// and turns the matching rules into recommendations.
package insights

import (
	"bytes"
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"text/template"

	"github.com/casbin/govaluate"
	"gopkg.in/yaml.v2"

	"powerview/internal/powertop"
	"powerview/internal/table"
)

//go:embed rules.yaml
var defaultRulesYAML []byte

// parameter names available to rule expressions
const (
	ParamCPUUsage             = "cpu_usage"
	ParamWakeups              = "wakeups"
	ParamProcessCount         = "process_count"
	ParamDeviceCount          = "device_count"
	ParamTopProcessWakeups    = "top_process_wakeups"
	ParamDeepestIdleResidency = "deepest_idle_residency"
	ParamHasIdleStates        = "has_idle_states"
)

// Rule is one insight rule. Justification may reference the expression parameters
// as template fields, e.g. {{.cpu_usage}}.
type Rule struct {
	Name           string `yaml:"name"`
	Expression     string `yaml:"expression"`
	Recommendation string `yaml:"recommendation"`
	Justification  string `yaml:"justification"`
}

type ruleFile struct {
	Rules []Rule `yaml:"rules"`
}

// DefaultRules returns the embedded rule set.
func DefaultRules() []Rule {
	rules, err := ParseRules(defaultRulesYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded insight rules are invalid: %v", err))
	}
	return rules
}

// LoadRules reads a rule set from a YAML file. An empty path selects the embedded
// defaults.
func LoadRules(path string) ([]Rule, error) {
	if path == "" {
		return DefaultRules(), nil
	}
	data, err := os.ReadFile(path) // #nosec G304
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}
	rules, err := ParseRules(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load rules from %s: %w", path, err)
	}
	return rules, nil
}

// ParseRules decodes a YAML rule set. Every rule needs a name, an expression and a
// recommendation.
func ParseRules(data []byte) ([]Rule, error) {
	var file ruleFile
	if err := yaml.UnmarshalStrict(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse rules: %w", err)
	}
	for i, rule := range file.Rules {
		if rule.Name == "" || rule.Expression == "" || rule.Recommendation == "" {
			return nil, fmt.Errorf("rule %d: name, expression and recommendation are required", i)
		}
	}
	return file.Rules, nil
}

// Parameters derives the expression parameters from a report.
func Parameters(report powertop.Report) map[string]any {
	var topWakeups float64
	if len(report.Processes) > 0 {
		topWakeups = report.Processes[0].Wakeups
	}
	var deepestResidency float64
	states := report.CPUStates.PackageStateNames()
	if len(states) > 0 {
		deepestResidency = report.CPUStates.Package[states[len(states)-1]]
	}
	return map[string]any{
		ParamCPUUsage:             report.Summary.CPUUsage,
		ParamWakeups:              report.Summary.Wakeups,
		ParamProcessCount:         float64(len(report.Processes)),
		ParamDeviceCount:          float64(len(report.Devices)),
		ParamTopProcessWakeups:    topWakeups,
		ParamDeepestIdleResidency: deepestResidency,
		ParamHasIdleStates:        len(states) > 0,
	}
}

// Evaluate returns an insight for every rule whose expression is true for the
// report. Rules that fail to compile or evaluate to a non-boolean are logged and
// skipped.
func Evaluate(rules []Rule, report powertop.Report) []table.Insight {
	params := Parameters(report)
	insights := []table.Insight{}
	for _, rule := range rules {
		expression, err := govaluate.NewEvaluableExpressionWithFunctions(rule.Expression, evaluatorFunctions())
		if err != nil {
			slog.Warn("invalid insight rule expression", slog.String("rule", rule.Name), slog.String("error", err.Error()))
			continue
		}
		result, err := expression.Evaluate(params)
		if err != nil {
			slog.Warn("failed to evaluate insight rule", slog.String("rule", rule.Name), slog.String("error", err.Error()))
			continue
		}
		matched, ok := result.(bool)
		if !ok {
			slog.Warn("insight rule did not evaluate to a boolean", slog.String("rule", rule.Name), slog.Any("result", result))
			continue
		}
		if !matched {
			continue
		}
		slog.Debug("insight rule matched", slog.String("rule", rule.Name))
		insights = append(insights, table.Insight{
			Recommendation: rule.Recommendation,
			Justification:  justification(rule, params),
		})
	}
	return insights
}

// justification renders the rule's justification template, falling back to the raw
// text when the template is invalid.
func justification(rule Rule, params map[string]any) string {
	tmpl, err := template.New(rule.Name).Option("missingkey=zero").Parse(rule.Justification)
	if err != nil {
		slog.Warn("invalid insight justification template", slog.String("rule", rule.Name), slog.String("error", err.Error()))
		return rule.Justification
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, params); err != nil {
		slog.Warn("failed to render insight justification", slog.String("rule", rule.Name), slog.String("error", err.Error()))
		return rule.Justification
	}
	return buf.String()
}

// evaluatorFunctions defines functions that can be called in rule expressions
func evaluatorFunctions() map[string]govaluate.ExpressionFunction {
	toFloat := func(arg any) float64 {
		switch t := arg.(type) {
		case int:
			return float64(t)
		case float64:
			return t
		}
		return 0
	}
	return map[string]govaluate.ExpressionFunction{
		"max": func(args ...any) (any, error) {
			if len(args) != 2 {
				return nil, fmt.Errorf("max expects 2 arguments, got %d", len(args))
			}
			return max(toFloat(args[0]), toFloat(args[1])), nil
		},
		"min": func(args ...any) (any, error) {
			if len(args) != 2 {
				return nil, fmt.Errorf("min expects 2 arguments, got %d", len(args))
			}
			return min(toFloat(args[0]), toFloat(args[1])), nil
		},
	}
}
