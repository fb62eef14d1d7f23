// Package compare is a subcommand of the root command. It renders several PowerTOP
// reports side by side.
package compare

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"powerview/internal/app"
	"powerview/internal/common"
	"powerview/internal/report"
	"powerview/internal/table"
)

const cmdName = "compare"

// ReportName is the base name of the comparison report files
const ReportName = "comparison"

var examples = []string{
	fmt.Sprintf("  Compare two reports:           $ %s %s before.html after.html", app.Name, cmdName),
	fmt.Sprintf("  Mixed inputs, text output:     $ %s %s idle.csv load.html --format txt", app.Name, cmdName),
	fmt.Sprintf("  Compare raw reports:           $ %s %s run1.raw run2.raw --format html,xlsx", app.Name, cmdName),
}

var Cmd = &cobra.Command{
	Use:           cmdName + " <files...>",
	Short:         "Compare PowerTOP reports side by side",
	Example:       strings.Join(examples, "\n"),
	RunE:          runCmd,
	PreRunE:       validateFlags,
	GroupID:       "primary",
	Args:          cobra.MinimumNArgs(1),
	SilenceErrors: true,
}

// flag vars
var (
	flagFormat []string
	flagType   string
)

func init() {
	Cmd.Flags().StringSliceVar(&flagFormat, app.FlagFormatName, []string{report.FormatHtml}, "")
	Cmd.Flags().StringVar(&flagType, app.FlagTypeName, app.InputTypeAuto, "")

	Cmd.SetUsageFunc(common.UsageFunc("<files...>", getFlagGroups))
}

func getFlagGroups() []app.FlagGroup {
	return []app.FlagGroup{
		{
			GroupName: "Output Options",
			Flags: []app.Flag{
				{
					Name: app.FlagFormatName,
					Help: fmt.Sprintf("choose output format(s) from: %s", strings.Join(report.MultiTargetFormatOptions, ", ")),
				},
			},
		},
		{
			GroupName: "Advanced Options",
			Flags: []app.Flag{
				{
					Name: app.FlagTypeName,
					Help: fmt.Sprintf("input file type, one of: %s", strings.Join(app.InputTypeOptions, ", ")),
				},
			},
		},
	}
}

func validateFlags(cmd *cobra.Command, args []string) error {
	for _, format := range flagFormat {
		if !slices.Contains(report.MultiTargetFormatOptions, format) {
			return common.FlagValidationError(cmd, fmt.Sprintf("format options are: %s", strings.Join(report.MultiTargetFormatOptions, ", ")))
		}
	}
	if !slices.Contains(app.InputTypeOptions, flagType) {
		return common.FlagValidationError(cmd, fmt.Sprintf("type options are: %s", strings.Join(app.InputTypeOptions, ", ")))
	}
	return nil
}

func runCmd(cmd *cobra.Command, args []string) error {
	reportingCommand := common.ReportingCommand{
		Cmd:                cmd,
		Inputs:             args,
		FormatHint:         app.FormatHint(flagType),
		Formats:            flagFormat,
		Tables:             Tables(),
		CombinedOnly:       true,
		CombinedReportName: ReportName,
		CrossReportFunc:    report.CommonDeviceTypesTableValues,
	}
	return reportingCommand.Run()
}

// Tables returns the tables rendered for each report in a comparison.
func Tables() []table.TableDefinition {
	return append([]table.TableDefinition{app.TableDefinitions[app.BriefTableName]}, report.ComparisonTables()...)
}
