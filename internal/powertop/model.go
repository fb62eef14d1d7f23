// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

// Package powertop parses PowerTOP report exports (HTML or semicolon-delimited CSV)
// into a single normalized Report.
package powertop

import (
	"regexp"
	"slices"
	"strconv"
)

// Report is the normalized content of one PowerTOP export. A Report is built once
// per parse call and is not modified afterwards.
type Report struct {
	Timestamp  string     `json:"timestamp"`
	SystemInfo SystemInfo `json:"systemInfo"`
	Summary    Summary    `json:"summary"`
	Processes  []Process  `json:"processes"`
	Devices    []Device   `json:"devices"`
	CPUStates  CPUStates  `json:"cpuStates"`
}

// SystemInfo holds the free-text system labels from the report header.
type SystemInfo struct {
	Version string `json:"version"`
	Kernel  string `json:"kernel"`
	System  string `json:"system"`
	CPU     string `json:"cpu"`
	OS      string `json:"os"`
}

// Summary holds the report's summary line. Numeric fields have their units
// stripped, string fields keep them.
type Summary struct {
	PowerConsumption float64 `json:"powerConsumption"` // not present in exports, always 0
	CPUUsage         float64 `json:"cpuUsage"`         // percent
	Runtime          float64 `json:"runtime"`          // not present in exports, always 0
	Wakeups          float64 `json:"wakeups"`          // per second
	Target           string  `json:"target"`
	GPU              string  `json:"gpu"`
	GFX              string  `json:"gfx"`
	VFS              string  `json:"vfs"`
}

// Process is one row of the power consumer table.
type Process struct {
	Usage       string  `json:"usage"`
	Wakeups     float64 `json:"wakeups"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
}

// Device is one row of the device power table.
type Device struct {
	Usage string `json:"usage"`
	Name  string `json:"name"`
	Type  string `json:"type"`
}

// CPUStates holds idle-state residency. Only Package is populated by the parsers.
type CPUStates struct {
	Package map[string]float64   `json:"package"`
	Cores   []map[string]float64 `json:"cores"`
	CPUs    []CPUResidency       `json:"cpus"`
}

// CPUResidency is the idle-state residency of a single logical CPU.
type CPUResidency struct {
	ID     int                       `json:"id"`
	States map[string]StateResidency `json:"states"`
}

// StateResidency is the time share spent in one idle state.
type StateResidency struct {
	Percentage float64 `json:"percentage"`
	Duration   string  `json:"duration,omitempty"`
}

// newReport returns a Report with every collection allocated and the summary
// string fields set to their defaults.
func newReport() Report {
	return Report{
		Summary: Summary{
			Target: DefaultTarget,
			GPU:    DefaultGPU,
			GFX:    DefaultGFX,
			VFS:    DefaultVFS,
		},
		Processes: []Process{},
		Devices:   []Device{},
		CPUStates: CPUStates{
			Package: map[string]float64{},
			Cores:   []map[string]float64{},
			CPUs:    []CPUResidency{},
		},
	}
}

// applySummaryDefaults replaces empty summary strings with the default literals.
func (s *Summary) applySummaryDefaults() {
	if s.Target == "" {
		s.Target = DefaultTarget
	}
	if s.GPU == "" {
		s.GPU = DefaultGPU
	}
	if s.GFX == "" {
		s.GFX = DefaultGFX
	}
	if s.VFS == "" {
		s.VFS = DefaultVFS
	}
}

// IsEmpty reports whether nothing was extracted from the source document, i.e.,
// every field still holds its default. The timestamp is ignored because the HTML
// parser always fills it.
func (r Report) IsEmpty() bool {
	return r.SystemInfo == (SystemInfo{}) &&
		r.Summary == Summary{Target: DefaultTarget, GPU: DefaultGPU, GFX: DefaultGFX, VFS: DefaultVFS} &&
		len(r.Processes) == 0 &&
		len(r.Devices) == 0 &&
		len(r.CPUStates.Package) == 0
}

// TopProcesses returns at most n processes in report order.
func (r Report) TopProcesses(n int) []Process {
	if n < 0 || n > len(r.Processes) {
		n = len(r.Processes)
	}
	return r.Processes[:n]
}

// ActiveDevices returns at most n devices whose usage is not the idle "0.0%".
func (r Report) ActiveDevices(n int) []Device {
	var devices []Device
	for _, device := range r.Devices {
		if n >= 0 && len(devices) == n {
			break
		}
		if device.Usage == idleDeviceUsage {
			continue
		}
		devices = append(devices, device)
	}
	return devices
}

var reStateDepth = regexp.MustCompile(`^C(\d+)`)

// stateDepth returns the number of an idle state label such as "C6 (pc6)", -1 when
// the label carries none.
func stateDepth(label string) int {
	match := reStateDepth.FindStringSubmatch(label)
	if match == nil {
		return -1
	}
	depth, err := strconv.Atoi(match[1])
	if err != nil {
		return -1
	}
	return depth
}

// PackageStateNames returns the package idle state labels from shallowest to
// deepest. States with the same number are ordered by label.
func (c CPUStates) PackageStateNames() []string {
	names := make([]string, 0, len(c.Package))
	for name := range c.Package {
		names = append(names, name)
	}
	slices.SortFunc(names, func(a, b string) int {
		if da, db := stateDepth(a), stateDepth(b); da != db {
			return da - db
		}
		if a < b {
			return -1
		}
		if a > b {
			return 1
		}
		return 0
	})
	return names
}
