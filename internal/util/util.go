// Package util holds small filesystem and slice helpers shared by the commands.
package util

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// ExpandUser replaces a leading "~" with the current user's home directory.
func ExpandUser(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~"+string(os.PathSeparator)) {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// AbsPath is filepath.Abs after ExpandUser
func AbsPath(path string) (string, error) {
	return filepath.Abs(ExpandUser(path))
}

// statMode reports whether path exists and, if it does, checks its mode with
// want. A mismatch is returned as an error naming kind.
func statMode(path string, want func(fs.FileMode) bool, kind string) (bool, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if !want(info.Mode()) {
		return false, fmt.Errorf("%s not a %s", path, kind)
	}
	return true, nil
}

// FileExists reports whether a regular file exists at path. Anything else at
// path is an error.
func FileExists(path string) (bool, error) {
	return statMode(path, fs.FileMode.IsRegular, "file")
}

// DirectoryExists reports whether a directory exists at path. Anything else at
// path is an error.
func DirectoryExists(path string) (bool, error) {
	return statMode(path, fs.FileMode.IsDir, "directory")
}

func FileOrDirectoryExists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, fs.ErrNotExist)
}

// CreateDirectoryIfNotExists creates dir and its parents unless something already exists there.
func CreateDirectoryIfNotExists(dir string, perm os.FileMode) error {
	if FileOrDirectoryExists(dir) {
		return nil
	}
	if err := os.MkdirAll(dir, perm); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// UniqueAppend appends item unless slice already contains it
func UniqueAppend[T comparable](slice []T, item T) []T {
	if slices.Contains(slice, item) {
		return slice
	}
	return append(slice, item)
}

// MergeOrderedUnique merges slices into one slice of unique items that keeps the
// relative order of each input. A new item is placed right after the item that
// precedes it in its own slice, or at the end when it has no predecessor there.
func MergeOrderedUnique[T comparable](all [][]T) []T {
	merged := []T{}
	for _, items := range all {
		prev := -1
		for _, item := range items {
			if idx := slices.Index(merged, item); idx != -1 {
				prev = idx
				continue
			}
			if prev == -1 {
				merged = append(merged, item)
				prev = len(merged) - 1
				continue
			}
			merged = slices.Insert(merged, prev+1, item)
			prev++
		}
	}
	return merged
}
