// Package parse is a subcommand of the root command. It parses a PowerTOP report
// and writes it in the requested formats.
package parse

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"powerview/internal/app"
	"powerview/internal/common"
	"powerview/internal/insights"
	"powerview/internal/report"
	"powerview/internal/table"
	"powerview/internal/util"
)

const cmdName = "parse"

var examples = []string{
	fmt.Sprintf("  All formats from an HTML report:   $ %s %s powertop.html", app.Name, cmdName),
	fmt.Sprintf("  Print a text summary:              $ %s %s powertop.csv --format txt", app.Name, cmdName),
	fmt.Sprintf("  Workbook in a specific directory:  $ %s %s powertop.html --format xlsx --output reports", app.Name, cmdName),
	fmt.Sprintf("  Custom insight rules:              $ %s %s powertop.html --rules rules.yaml", app.Name, cmdName),
	fmt.Sprintf("  Report without a known extension:  $ %s %s export.txt --type csv", app.Name, cmdName),
}

var Cmd = &cobra.Command{
	Use:           cmdName + " <file>",
	Short:         "Parse a PowerTOP HTML or CSV report",
	Long:          "Parse a PowerTOP HTML or CSV report, or a previously written raw report, and write it as text, JSON, HTML, or a workbook.",
	Example:       strings.Join(examples, "\n"),
	RunE:          runCmd,
	PreRunE:       validateFlags,
	GroupID:       "primary",
	Args:          cobra.ExactArgs(1),
	SilenceErrors: true,
}

// flag vars
var (
	flagFormat []string
	flagRules  string
	flagType   string
)

// formatOptions are the accepted values of the format flag
var formatOptions = append(append([]string{report.FormatAll}, report.FormatOptions...), report.FormatRaw)

func init() {
	Cmd.Flags().StringSliceVar(&flagFormat, app.FlagFormatName, []string{report.FormatAll}, "")
	Cmd.Flags().StringVar(&flagRules, app.FlagRulesName, "", "")
	Cmd.Flags().StringVar(&flagType, app.FlagTypeName, app.InputTypeAuto, "")

	Cmd.SetUsageFunc(common.UsageFunc("<file>", getFlagGroups))
}

func getFlagGroups() []app.FlagGroup {
	var groups []app.FlagGroup
	flags := []app.Flag{
		{
			Name: app.FlagFormatName,
			Help: fmt.Sprintf("choose output format(s) from: %s", strings.Join(formatOptions, ", ")),
		},
	}
	groups = append(groups, app.FlagGroup{
		GroupName: "Output Options",
		Flags:     flags,
	})
	flags = []app.Flag{
		{
			Name: app.FlagTypeName,
			Help: fmt.Sprintf("input file type, one of: %s. Auto selects CSV for \".csv\" files and HTML otherwise", strings.Join(app.InputTypeOptions, ", ")),
		},
		{
			Name: app.FlagRulesName,
			Help: "YAML file of insight rules that replaces the built-in rules",
		},
	}
	groups = append(groups, app.FlagGroup{
		GroupName: "Advanced Options",
		Flags:     flags,
	})
	return groups
}

func validateFlags(cmd *cobra.Command, args []string) error {
	for _, format := range flagFormat {
		if !slices.Contains(formatOptions, format) {
			return common.FlagValidationError(cmd, fmt.Sprintf("format options are: %s", strings.Join(formatOptions, ", ")))
		}
	}
	if !slices.Contains(app.InputTypeOptions, flagType) {
		return common.FlagValidationError(cmd, fmt.Sprintf("type options are: %s", strings.Join(app.InputTypeOptions, ", ")))
	}
	if flagRules != "" {
		if exists, err := util.FileExists(flagRules); err != nil || !exists {
			return common.FlagValidationError(cmd, fmt.Sprintf("rules file not found: %s", flagRules))
		}
	}
	return nil
}

func runCmd(cmd *cobra.Command, args []string) error {
	rules, err := insights.LoadRules(flagRules)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		cmd.SilenceUsage = true
		return err
	}
	reportingCommand := common.ReportingCommand{
		Cmd:            cmd,
		Inputs:         args,
		FormatHint:     app.FormatHint(flagType),
		Formats:        flagFormat,
		ReportNamePost: "",
		Tables:         Tables(rules),
		InsightsFunc:   common.DefaultInsightsFunc,
		PrintOnly:      printOnly(cmd, flagFormat),
	}
	return reportingCommand.Run()
}

// Tables returns the tables of a parsed report, brief table first.
func Tables(rules []insights.Rule) []table.TableDefinition {
	return append([]table.TableDefinition{app.TableDefinitions[app.BriefTableName]}, report.Tables(rules)...)
}

// printOnly is true when a single text or raw report is requested and no output
// directory was given
func printOnly(cmd *cobra.Command, formats []string) bool {
	if cmd.Flags().Changed(app.FlagOutputDirName) || len(formats) != 1 {
		return false
	}
	return formats[0] == report.FormatTxt || formats[0] == report.FormatRaw
}
