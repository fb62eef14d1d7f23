// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"fmt"
	"os"
	"runtime/pprof"

	"powerview/cmd"
)

const (
	profileEnv  = "POWERVIEW_PROFILE"
	cpuProfile  = "cpu.prof"
	heapProfile = "mem.prof"
)

func main() {
	os.Exit(run())
}

// run returns the exit code. Profiles are written before main exits, also when
// the command fails.
func run() int {
	// profile only if the environment variable is set
	if os.Getenv(profileEnv) != "" {
		stop, err := startProfiling()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to start profiling: %v\n", err)
			return 1
		}
		defer stop()
	}
	if err := cmd.Execute(); err != nil {
		return 1
	}
	return 0
}

// startProfiling starts CPU profiling and returns a function that stops it and
// writes the heap profile
func startProfiling() (func(), error) {
	cpuFile, err := os.Create(cpuProfile)
	if err != nil {
		return nil, err
	}
	if err := pprof.StartCPUProfile(cpuFile); err != nil {
		cpuFile.Close()
		return nil, err
	}
	return func() {
		pprof.StopCPUProfile()
		cpuFile.Close()
		memFile, err := os.Create(heapProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to create heap profile: %v\n", err)
			return
		}
		defer memFile.Close()
		if err := pprof.WriteHeapProfile(memFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to write heap profile: %v\n", err)
			return
		}
		fmt.Printf("Profiling data written to %s and %s\n", cpuProfile, heapProfile)
		fmt.Printf("To analyze, use:\n")
		fmt.Printf("  go tool pprof %s\n", cpuProfile)
		fmt.Printf("  go tool pprof -inuse_space -http=:8081 %s\n", heapProfile)
	}, nil
}
