// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package powertop

import "strings"

// device categories
const (
	DeviceTypeCPU     = "cpu"
	DeviceTypeGPU     = "gpu"
	DeviceTypeUSB     = "usb"
	DeviceTypeNetwork = "network"
	DeviceTypeAudio   = "audio"
	DeviceTypePCI     = "pci"
	DeviceTypeOther   = "other"
)

// DeviceTypes lists every value ClassifyDevice can return.
var DeviceTypes = []string{
	DeviceTypeCPU,
	DeviceTypeGPU,
	DeviceTypeUSB,
	DeviceTypeNetwork,
	DeviceTypeAudio,
	DeviceTypePCI,
	DeviceTypeOther,
}

// deviceMarkers is checked in order, the first matching marker wins. Matching is
// case-sensitive.
var deviceMarkers = []struct {
	markers    []string
	deviceType string
}{
	{markers: []string{"CPU"}, deviceType: DeviceTypeCPU},
	{markers: []string{"GPU", "Graphics"}, deviceType: DeviceTypeGPU},
	{markers: []string{"USB"}, deviceType: DeviceTypeUSB},
	{markers: []string{"Network", "nic:"}, deviceType: DeviceTypeNetwork},
	{markers: []string{"Audio"}, deviceType: DeviceTypeAudio},
	{markers: []string{"PCI"}, deviceType: DeviceTypePCI},
}

// ClassifyDevice maps a device name to a coarse device type.
func ClassifyDevice(name string) string {
	for _, entry := range deviceMarkers {
		for _, marker := range entry.markers {
			if strings.Contains(name, marker) {
				return entry.deviceType
			}
		}
	}
	return DeviceTypeOther
}
