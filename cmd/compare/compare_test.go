// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package compare

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"powerview/internal/app"
	"powerview/internal/report"
)

const (
	fixtureCSV  = "../../internal/powertop/testdata/powertop.csv"
	fixtureHTML = "../../internal/powertop/testdata/powertop.html"
)

func TestTables(t *testing.T) {
	tables := Tables()
	require.Len(t, tables, len(report.ComparisonTables())+1)
	assert.Equal(t, app.BriefTableName, tables[0].Name)
	assert.Equal(t, report.ComparisonTableName, tables[1].Name)
}

func TestValidateFlags(t *testing.T) {
	tests := []struct {
		name    string
		formats []string
		wantErr string
	}{
		{name: "html", formats: []string{report.FormatHtml}},
		{name: "all multi-report formats", formats: []string{report.FormatTxt, report.FormatHtml, report.FormatXlsx}},
		{name: "json not supported", formats: []string{report.FormatJson}, wantErr: "format options are: html, xlsx, txt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flagFormat, flagType = tt.formats, app.InputTypeAuto
			t.Cleanup(func() { flagFormat = []string{report.FormatHtml} })
			cmd := &cobra.Command{Use: "compare"}
			cmd.SetErr(&bytes.Buffer{})

			err := validateFlags(cmd, nil)

			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func runCompare(t *testing.T, args ...string) (outputDir string, stdout string) {
	t.Helper()
	outputDir = filepath.Join(t.TempDir(), "out")
	root := &cobra.Command{Use: "powerview"}
	root.PersistentFlags().String(app.FlagOutputDirName, "", "")
	root.AddGroup(&cobra.Group{ID: "primary", Title: "Commands:"})
	root.AddCommand(Cmd)
	root.SetContext(context.WithValue(context.Background(), app.Context{}, app.Context{OutputDir: outputDir}))
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(append([]string{"compare"}, args...))
	t.Cleanup(func() { flagFormat = []string{report.FormatHtml} })

	require.NoError(t, root.Execute())
	return outputDir, out.String()
}

func TestCompareCommand(t *testing.T) {
	outputDir, stdout := runCompare(t, fixtureCSV, fixtureHTML, "--format", "txt")

	content, err := os.ReadFile(filepath.Join(outputDir, ReportName+".txt"))
	require.NoError(t, err)
	assert.Contains(t, string(content), report.ComparisonTableName)
	assert.Contains(t, string(content), report.CommonDeviceTypesTableName)
	assert.Contains(t, string(content), "powertop_2")
	// a single txt comparison is also printed
	assert.Contains(t, stdout, report.ComparisonTableName)
	assert.NoFileExists(t, filepath.Join(outputDir, "powertop.txt"))
}

func TestCompareSameInputTwice(t *testing.T) {
	outputDir, _ := runCompare(t, fixtureHTML, fixtureHTML, "--format", "txt")

	content, err := os.ReadFile(filepath.Join(outputDir, ReportName+".txt"))
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`\s+powertop\s+powertop_2\n`), string(content))
	assert.Regexp(t, regexp.MustCompile(`CPU Usage\s+9\.3%\s+9\.3%\n`), string(content))
}
