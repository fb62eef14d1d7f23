// Package app defines application-wide types, constants, and context
// that are shared across multiple commands.
package app

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"os"
	"path/filepath"

	"powerview/internal/powertop"
	"powerview/internal/table"
)

// Name is the name of the application executable.
var Name = filepath.Base(os.Args[0])

// Context represents the application context that can be accessed from all commands.
type Context struct {
	Timestamp   string // Timestamp is the timestamp when the application was started.
	OutputDir   string // OutputDir is the directory where the application will write output files.
	LogFilePath string // LogFilePath is the path to the log file.
	Version     string // Version is the version of the application.
	Debug       bool   // Debug is true if the application is running in debug mode.
}

// Table name constants used across multiple commands.
const (
	TableNameInsights  = "Insights"
	TableNamePowerView = "PowerView"
)

// Flag names for flags shared by reporting commands.
const (
	FlagFormatName = "format"
	FlagRulesName  = "rules"
	FlagTypeName   = "type"
)

// Input type options for the type flag.
const (
	InputTypeAuto = "auto"
	InputTypeCSV  = "csv"
	InputTypeHTML = "html"
)

// InputTypeOptions lists the accepted values of the type flag.
var InputTypeOptions = []string{InputTypeAuto, InputTypeCSV, InputTypeHTML}

// FormatHint returns the parser format for an input type flag value. The auto type
// returns an empty hint so the format is taken from the file name.
func FormatHint(inputType string) powertop.Format {
	switch inputType {
	case InputTypeCSV:
		return powertop.FormatCSV
	case InputTypeHTML:
		return powertop.FormatHTML
	}
	return ""
}

// Flag names for flags defined in the root command, but sometimes used in other commands.
const (
	FlagDebugName     = "debug"
	FlagSyslogName    = "syslog"
	FlagLogStdOutName = "log-stdout"
	FlagOutputDirName = "output"
)

// Flag represents a command-line flag with its name and help text.
type Flag struct {
	Name string
	Help string
}

// FlagGroup represents a group of related flags with a group name.
type FlagGroup struct {
	GroupName string
	Flags     []Flag
}

// SummaryFunc is a function type for generating summary table values from processed tables.
type SummaryFunc func([]table.TableValues, powertop.Report) table.TableValues

// InsightsFunc is a function type for generating insights from processed tables.
type InsightsFunc SummaryFunc
