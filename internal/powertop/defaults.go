// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package powertop

// summary defaults used when a report does not carry the value
const (
	DefaultTarget = "1 units/s"
	DefaultGPU    = "0 ops/s"
	DefaultGFX    = "0 wakeups/s"
	DefaultVFS    = "0 ops/s"
)

// defaults for missing cells in the HTML process table
const (
	defaultProcessUsage    = "0%"
	defaultProcessCategory = "unknown"
)

const idleDeviceUsage = "0.0%"

// system information row labels
const (
	labelPowerTOPVersion = "PowerTOP Version"
	labelVersion         = "Version"
	labelKernelVersion   = "Kernel Version"
	labelSystemName      = "System Name"
	labelCPUInformation  = "CPU Information"
	labelOSInformation   = "OS Information"
)

// summary line keys
const (
	summaryKeyTarget = "Target"
	summaryKeySystem = "System"
	summaryKeyCPU    = "CPU"
	summaryKeyGPU    = "GPU"
	summaryKeyGFX    = "GFX"
	summaryKeyVFS    = "VFS"
)

// unit text removed before numeric conversion
const (
	unitPercent = "%"
	unitUsage   = "usage"
	unitWakeups = "wakeup/s"
)
