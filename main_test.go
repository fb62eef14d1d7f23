// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunWritesProfilesOnFailure(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv(profileEnv, "1")
	savedArgs := os.Args
	os.Args = []string{"powerview", "no-such-command"}
	t.Cleanup(func() { os.Args = savedArgs })

	assert.Equal(t, 1, run())

	assert.FileExists(t, filepath.Join(dir, cpuProfile))
	assert.FileExists(t, filepath.Join(dir, heapProfile))
}
