package report

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

// table_helpers.go contains helpers used by the table definitions and renderers

import (
	"regexp"
	"strings"

	"powerview/internal/extract"
)

// parseFormattedNumber parses a number written with thousands separators, e.g.,
// "1,234.5". It returns 0 when the text doesn't start with a number.
func parseFormattedNumber(text string) float64 {
	value, ok := extract.ParseNumber(strings.ReplaceAll(text, ",", ""))
	if !ok {
		return 0
	}
	return value
}

var reNonIDChars = regexp.MustCompile(`[^A-Za-z0-9_-]`)

// chartID converts a target name into a string usable in an HTML element id.
func chartID(targetName string) string {
	if targetName == "" {
		return ""
	}
	return "-" + reNonIDChars.ReplaceAllString(targetName, "_")
}

var reNonAnchorChars = regexp.MustCompile(`[^a-z0-9]+`)

// anchor converts a table name into a fragment identifier, e.g., "Top Power
// Consumers" becomes "top-power-consumers".
func anchor(name string) string {
	return strings.Trim(reNonAnchorChars.ReplaceAllString(strings.ToLower(name), "-"), "-")
}
