// Package common holds the report loading and writing flow shared by the parse
// and compare commands.
package common

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/spf13/cobra"

	"powerview/internal/app"
	"powerview/internal/powertop"
	"powerview/internal/progress"
	"powerview/internal/report"
	"powerview/internal/table"
	"powerview/internal/util"
)

// TargetReport is a parsed report and the name used for its output files.
type TargetReport struct {
	TargetName string
	Report     powertop.Report
}

// CrossReportFunc builds tables that need every report, one table per report in
// report order. They are only added to combined reports.
type CrossReportFunc func([]powertop.Report) []table.TableValues

type ReportingCommand struct {
	Cmd            *cobra.Command
	Inputs         []string        // paths of PowerTOP exports or raw reports
	FormatHint     powertop.Format // empty to select the parser by file name
	Formats        []string
	ReportNamePost string
	Tables         []table.TableDefinition
	InsightsFunc   app.InsightsFunc
	// CombinedOnly skips the per-report files, only the combined report is written
	CombinedOnly       bool
	CombinedReportName string
	CrossReportFunc    CrossReportFunc
	// PrintOnly writes a single txt or raw report to stdout instead of to a file
	PrintOnly bool
}

// Run loads the inputs and writes the requested reports. The parse and compare
// commands differ only in how they fill in the ReportingCommand.
func (rc *ReportingCommand) Run() error {
	appContext := rc.Cmd.Parent().Context().Value(app.Context{}).(app.Context)
	// parse the inputs
	targetReports, err := rc.loadReports()
	if err != nil {
		return rc.fail(err)
	}
	formats := []string{}
	for _, format := range rc.Formats {
		formats = util.UniqueAppend(formats, format)
	}
	if slices.Contains(formats, report.FormatAll) {
		formats = append(slices.Clone(report.FormatOptions), report.FormatRaw)
	}
	if rc.PrintOnly {
		if err := rc.printReport(appContext, targetReports, formats); err != nil {
			return rc.fail(err)
		}
		return nil
	}
	if err := CreateOutputDir(appContext.OutputDir); err != nil {
		return rc.fail(err)
	}
	files := &reportFiles{dir: appContext.OutputDir}
	if slices.Contains(formats, report.FormatRaw) {
		if err := rc.createRawReports(files, targetReports); err != nil {
			return rc.fail(err)
		}
	}
	if err := rc.createReports(appContext, files, targetReports, formats); err != nil {
		return rc.fail(err)
	}
	out := rc.Cmd.OutOrStdout()
	if len(files.paths) > 0 {
		fmt.Fprintln(out, "Report files:")
	}
	for _, path := range files.paths {
		fmt.Fprintf(out, "  %s\n", path)
	}
	return nil
}

// fail reports err to the user and the log and returns it
func (rc *ReportingCommand) fail(err error) error {
	fmt.Fprintf(rc.Cmd.ErrOrStderr(), "Error: %v\n", err)
	slog.Error(err.Error())
	rc.Cmd.SilenceUsage = true
	return err
}

// CreateOutputDir creates the output directory if it does not exist
func CreateOutputDir(outputDir string) error {
	err := util.CreateDirectoryIfNotExists(outputDir, 0755) // #nosec G301
	if err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

// DefaultInsightsFunc returns the insights table values from the table values
func DefaultInsightsFunc(allTableValues []table.TableValues, _ powertop.Report) table.TableValues {
	insightsTableValues := table.TableValues{
		TableDefinition: table.TableDefinition{
			Name:        app.TableNameInsights,
			HasRows:     true,
			MenuLabel:   app.TableNameInsights,
			NoDataFound: "No insights.",
		},
		Fields: []table.Field{
			{Name: "Recommendation", Values: []string{}},
			{Name: "Justification", Values: []string{}},
		},
	}
	for _, tableValues := range allTableValues {
		for _, insight := range tableValues.Insights {
			insightsTableValues.Fields[0].Values = append(insightsTableValues.Fields[0].Values, insight.Recommendation)
			insightsTableValues.Fields[1].Values = append(insightsTableValues.Fields[1].Values, insight.Justification)
		}
	}
	return insightsTableValues
}

// FlagValidationError is used to report an error with a flag
func FlagValidationError(cmd *cobra.Command, msg string) error {
	err := errors.New(msg)
	fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
	fmt.Fprintf(cmd.ErrOrStderr(), "See '%s --help' for usage details.\n", cmd.CommandPath())
	cmd.SilenceUsage = true
	return err
}

// TargetName returns the name used for the output files of an input file, i.e.,
// the file name without its directory and extension.
func TargetName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// uniqueTargetNames appends a numeric suffix to repeated target names, e.g., two
// inputs named report.csv and report.html become report and report_2.
func uniqueTargetNames(targetReports []TargetReport) {
	seen := map[string]int{}
	for i := range targetReports {
		name := targetReports[i].TargetName
		seen[name]++
		if seen[name] > 1 {
			targetReports[i].TargetName = fmt.Sprintf("%s_%d", name, seen[name])
		}
	}
}

// reportFiles writes report files into one directory and remembers their paths
type reportFiles struct {
	dir   string
	paths []string
}

func (f *reportFiles) write(name string, content []byte) error {
	path := filepath.Join(f.dir, name)
	if err := os.WriteFile(path, content, 0644); err != nil { // #nosec G306
		return fmt.Errorf("failed to write report file: %w", err)
	}
	f.paths = append(f.paths, path)
	return nil
}

// createRawReports saves the parsed data of every report before any table is
// computed, so it is kept even when rendering fails
func (rc *ReportingCommand) createRawReports(files *reportFiles, targetReports []TargetReport) error {
	for _, targetReport := range targetReports {
		content, err := report.CreateRawReport(rc.Tables, targetReport.Report, targetReport.TargetName)
		if err != nil {
			return fmt.Errorf("failed to create raw report: %w", err)
		}
		if err := files.write(rc.reportFilename(targetReport.TargetName, report.FormatRaw), content); err != nil {
			return err
		}
	}
	return nil
}

func (rc *ReportingCommand) reportFilename(targetName string, format string) string {
	if rc.ReportNamePost != "" {
		targetName += "_" + rc.ReportNamePost
	}
	return targetName + "." + format
}

// processTables computes the table values of one report, followed by the insights
// and application version tables
func (rc *ReportingCommand) processTables(appContext app.Context, targetReport TargetReport) ([]table.TableValues, error) {
	allTableValues, err := table.ProcessTables(rc.Tables, targetReport.Report)
	if err != nil {
		err = fmt.Errorf("failed to process parsed data: %w", err)
		return nil, err
	}
	// special case - add tableValues for Insights
	if rc.InsightsFunc != nil {
		insightsTableValues := rc.InsightsFunc(allTableValues, targetReport.Report)
		allTableValues = append(allTableValues, insightsTableValues)
	}
	// special case - add tableValues for the application version
	allTableValues = append(allTableValues, table.TableValues{
		TableDefinition: table.TableDefinition{
			Name: app.TableNamePowerView,
		},
		Fields: []table.Field{
			{Name: "Version", Values: []string{appContext.Version}},
			{Name: "Args", Values: []string{strings.Join(os.Args, " ")}},
			{Name: "OutputDir", Values: []string{appContext.OutputDir}},
		},
	})
	return allTableValues, nil
}

// printReport writes the single requested txt or raw report to stdout
func (rc *ReportingCommand) printReport(appContext app.Context, targetReports []TargetReport, formats []string) error {
	if len(formats) != 1 || (formats[0] != report.FormatTxt && formats[0] != report.FormatRaw) {
		return fmt.Errorf("only a single txt or raw report can be printed, got %s", strings.Join(formats, ","))
	}
	out := rc.Cmd.OutOrStdout()
	for _, targetReport := range targetReports {
		var reportBytes []byte
		var err error
		if formats[0] == report.FormatRaw {
			reportBytes, err = report.CreateRawReport(rc.Tables, targetReport.Report, targetReport.TargetName)
			if err == nil {
				reportBytes = append(reportBytes, '\n')
			}
		} else {
			var allTableValues []table.TableValues
			allTableValues, err = rc.processTables(appContext, targetReport)
			if err != nil {
				return err
			}
			reportBytes, err = report.Create(report.FormatTxt, allTableValues, targetReport.TargetName, app.BriefTableName)
		}
		if err != nil {
			return fmt.Errorf("failed to create report: %w", err)
		}
		if len(targetReports) > 1 {
			fmt.Fprintf(out, "%s:\n", targetReport.TargetName)
		}
		_, _ = out.Write(reportBytes)
	}
	return nil
}

// createReports writes the per-report files, then the combined report when there
// is more than one report or only the combined report was asked for
func (rc *ReportingCommand) createReports(appContext app.Context, files *reportFiles, targetReports []TargetReport, formats []string) error {
	allTargetsTableValues := make([][]table.TableValues, 0, len(targetReports))
	for _, targetReport := range targetReports {
		allTableValues, err := rc.processTables(appContext, targetReport)
		if err != nil {
			return err
		}
		allTargetsTableValues = append(allTargetsTableValues, allTableValues)
		if rc.CombinedOnly {
			continue
		}
		for _, format := range formats {
			if format == report.FormatRaw {
				continue
			}
			content, err := report.Create(format, allTableValues, targetReport.TargetName, app.BriefTableName)
			if err != nil {
				return fmt.Errorf("failed to create %s report: %w", format, err)
			}
			if len(formats) == 1 && format == report.FormatTxt {
				fmt.Fprintf(rc.Cmd.OutOrStdout(), "%s:\n%s", targetReport.TargetName, content)
			}
			if err := files.write(rc.reportFilename(targetReport.TargetName, format), content); err != nil {
				return err
			}
		}
	}
	if len(targetReports) < 2 && !rc.CombinedOnly {
		return nil
	}
	return rc.createCombinedReports(files, targetReports, allTargetsTableValues, formats)
}

// createCombinedReports renders all reports side by side in each requested format
// that supports it
func (rc *ReportingCommand) createCombinedReports(files *reportFiles, targetReports []TargetReport, allTargetsTableValues [][]table.TableValues, formats []string) error {
	targetNames := make([]string, 0, len(targetReports))
	reports := make([]powertop.Report, 0, len(targetReports))
	for _, targetReport := range targetReports {
		targetNames = append(targetNames, targetReport.TargetName)
		reports = append(reports, targetReport.Report)
	}
	if rc.CrossReportFunc != nil {
		for i, crossTableValues := range rc.CrossReportFunc(reports) {
			if i < len(allTargetsTableValues) {
				allTargetsTableValues[i] = append(allTargetsTableValues[i], crossTableValues)
			}
		}
	}
	// tables keep their relative order across reports
	tableNames := util.MergeOrderedUnique(tableNamesPerTarget(allTargetsTableValues))
	reportName := rc.CombinedReportName
	if reportName == "" {
		reportName = "all_reports"
	}
	for _, format := range report.MultiTargetFormatOptions {
		if !slices.Contains(formats, format) {
			continue
		}
		content, err := report.CreateMultiTarget(format, allTargetsTableValues, targetNames, tableNames, app.BriefTableName)
		if err != nil {
			return fmt.Errorf("failed to create multi-target %s report: %w", format, err)
		}
		if rc.CombinedOnly && len(formats) == 1 && format == report.FormatTxt {
			_, _ = rc.Cmd.OutOrStdout().Write(content)
		}
		if err := files.write(reportName+"."+format, content); err != nil {
			return err
		}
	}
	return nil
}

func tableNamesPerTarget(allTargetsTableValues [][]table.TableValues) [][]string {
	names := make([][]string, len(allTargetsTableValues))
	for i, tableValues := range allTargetsTableValues {
		for _, tv := range tableValues {
			names[i] = append(names[i], tv.Name)
		}
	}
	return names
}

// loadReports parses the inputs concurrently and returns the reports in input order.
// A single input must parse. With several inputs, failures are reported and
// skipped, and at least one input must parse.
func (rc *ReportingCommand) loadReports() ([]TargetReport, error) {
	multiSpinner := progress.NewMultiSpinner()
	// an input given more than once shares one status line
	labels := mapset.NewThreadUnsafeSet[string]()
	for _, input := range rc.Inputs {
		if !labels.Add(input) {
			continue
		}
		if err := multiSpinner.AddSpinner(input); err != nil {
			return nil, err
		}
	}
	multiSpinner.Start()
	results := LoadInputs(rc.Inputs, rc.FormatHint, multiSpinner.Status)
	multiSpinner.Finish()
	targetReports := []TargetReport{}
	var lastErr error
	for i, result := range results {
		if result.Err != nil {
			lastErr = result.Err
			slog.Warn("skipping input", slog.String("input", rc.Inputs[i]), slog.String("error", result.Err.Error()))
			if len(rc.Inputs) > 1 {
				fmt.Fprintf(rc.Cmd.ErrOrStderr(), "Warning: %s: %v\n", rc.Inputs[i], result.Err)
			}
			continue
		}
		targetReports = append(targetReports, result.Reports...)
	}
	if len(rc.Inputs) == 1 && lastErr != nil {
		return nil, lastErr
	}
	if len(targetReports) == 0 {
		return nil, fmt.Errorf("no reports could be parsed")
	}
	uniqueTargetNames(targetReports)
	return targetReports, nil
}
