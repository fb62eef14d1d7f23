package progress

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMultiSpinner(t *testing.T) {
	spinner := NewMultiSpinner()
	require.NotNil(t, spinner)
}

func TestMultiSpinner(t *testing.T) {
	var out bytes.Buffer
	spinner := NewMultiSpinnerWithWriter(&out, false)
	require.NoError(t, spinner.AddSpinner("A"))
	require.NoError(t, spinner.AddSpinner("B"))
	assert.Error(t, spinner.AddSpinner("A"), "added spinner with same label")
	spinner.Start()

	assert.NoError(t, spinner.Status("A", "FOO"))
	assert.NoError(t, spinner.Status("B", "BAR"))
	assert.Error(t, spinner.Status("C", "WOOPS"), "updated status of non-existent spinner")
	spinner.Finish()

	// without a terminal only changed statuses are written, each once
	text := out.String()
	assert.Equal(t, 1, strings.Count(text, "FOO"))
	assert.Equal(t, 1, strings.Count(text, "BAR"))
	assert.NotContains(t, text, "?")
	assert.NotContains(t, text, "\x1b[1A")
}

func TestMultiSpinnerTerminal(t *testing.T) {
	var out bytes.Buffer
	spinner := NewMultiSpinnerWithWriter(&out, true)
	require.NoError(t, spinner.AddSpinner("report.html"))
	spinner.Start()
	spinner.Finish()

	text := out.String()
	assert.Contains(t, text, "report.html")
	assert.Contains(t, text, "?")
	assert.Contains(t, text, "\x1b[1A")
}

func TestMultiSpinnerConcurrentStatus(t *testing.T) {
	var out bytes.Buffer
	spinner := NewMultiSpinnerWithWriter(&out, false)
	labels := []string{"a.csv", "b.csv", "c.html"}
	for _, label := range labels {
		require.NoError(t, spinner.AddSpinner(label))
	}
	spinner.Start()
	var wg sync.WaitGroup
	for _, label := range labels {
		wg.Add(1)
		go func(label string) {
			defer wg.Done()
			_ = spinner.Status(label, "parsing")
			_ = spinner.Status(label, "done")
		}(label)
	}
	wg.Wait()
	spinner.Finish()
	assert.Equal(t, len(labels), strings.Count(out.String(), "done"))
}

func TestFinishWithoutStart(t *testing.T) {
	spinner := NewMultiSpinnerWithWriter(&bytes.Buffer{}, false)
	assert.NotPanics(t, spinner.Finish)
}
