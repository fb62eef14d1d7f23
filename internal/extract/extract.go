// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

// Package extract provides helper functions for pulling values out of loosely
// formatted report text: numbers with unit suffixes, key/value summary lines and
// delimited rows.
package extract

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// leading float prefix, e.g. "9.3" in "9.3% usage" or "-1e3" in "-1e3 ops/s"
var reNumberPrefix = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?`)

// ParseNumber parses the longest numeric prefix of text after skipping leading
// whitespace. Trailing characters are ignored. The second return value is false
// when text does not start with a number or the number is not finite.
func ParseNumber(text string) (float64, bool) {
	text = strings.TrimLeft(text, " \t\r\n\f\v")
	match := reNumberPrefix.FindString(text)
	if match == "" {
		return 0, false
	}
	val, err := strconv.ParseFloat(match, 64)
	if err != nil {
		// only range errors get here, e.g. "1e999"
		return 0, false
	}
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return 0, false
	}
	return val, true
}

// NumberFromText removes the first occurrence of each strip pattern from text, in
// order, then parses the remaining numeric prefix. Text that does not hold a number
// yields 0.
func NumberFromText(text string, strip ...string) float64 {
	for _, pattern := range strip {
		text = strings.Replace(text, pattern, "", 1)
	}
	val, ok := ParseNumber(text)
	if !ok {
		return 0
	}
	return val
}

// TrimDecoration removes leading and trailing whitespace and underscores, which
// report exporters use to draw separator lines around section titles.
func TrimDecoration(s string) string {
	return strings.Trim(s, " \t\r\n_")
}

// TrimCell trims whitespace and a single pair of surrounding double quotes from a
// delimited cell. Unbalanced quotes are removed on whichever side they appear.
func TrimCell(cell string) string {
	cell = strings.TrimSpace(cell)
	cell = strings.TrimPrefix(cell, `"`)
	cell = strings.TrimSuffix(cell, `"`)
	return strings.TrimSpace(cell)
}

// SplitRow splits a line on delimiter and trims every cell.
func SplitRow(line string, delimiter string) []string {
	cells := strings.Split(line, delimiter)
	for i, cell := range cells {
		cells[i] = TrimCell(cell)
	}
	return cells
}

// KeyValue is one "key: value" pair from a summary line.
type KeyValue struct {
	Key   string
	Value string
}

// KeyValuePairs splits a line like "Target: 1 units/s;System: 771.9 wakeup/s" on
// separator and each part on its first colon. The value ends at the next colon, if
// any. Parts without a colon are kept with an empty value.
func KeyValuePairs(line string, separator string) []KeyValue {
	var pairs []KeyValue
	for part := range strings.SplitSeq(line, separator) {
		part = TrimCell(part)
		if part == "" {
			continue
		}
		key, rest, _ := strings.Cut(part, ":")
		value, _, _ := strings.Cut(rest, ":")
		pairs = append(pairs, KeyValue{Key: strings.TrimSpace(key), Value: strings.TrimSpace(value)})
	}
	return pairs
}

// ValueAfterColon returns the text between the first and second colon of s,
// trimmed. It returns an empty string when s has no colon.
func ValueAfterColon(s string) string {
	_, rest, found := strings.Cut(s, ":")
	if !found {
		return ""
	}
	value, _, _ := strings.Cut(rest, ":")
	return strings.TrimSpace(value)
}

// ValFromRegexSubmatch searches for a regex pattern in the given output string and returns the first captured group.
// If no match is found, an empty string is returned.
func ValFromRegexSubmatch(output string, regex string) string {
	re := regexp.MustCompile(regex)
	for line := range strings.SplitSeq(output, "\n") {
		match := re.FindStringSubmatch(strings.TrimSpace(line))
		if len(match) > 1 {
			return match[1]
		}
	}
	return ""
}
