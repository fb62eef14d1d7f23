package common

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"powerview/internal/app"
)

// UsageFunc returns a cobra usage function that prints the command's flags in
// the given groups followed by the global flags.
func UsageFunc(argsUsage string, getFlagGroups func() []app.FlagGroup) func(*cobra.Command) error {
	return func(cmd *cobra.Command) error {
		cmd.Printf("Usage: %s %s [flags]\n\n", cmd.CommandPath(), argsUsage)
		if cmd.Example != "" {
			cmd.Printf("Examples:\n%s\n\n", cmd.Example)
		}
		cmd.Println("Flags:")
		for _, group := range getFlagGroups() {
			cmd.Printf("  %s:\n", group.GroupName)
			for _, flag := range group.Flags {
				flagDefault := ""
				if f := cmd.Flags().Lookup(flag.Name); f != nil && f.DefValue != "" && f.DefValue != "[]" {
					flagDefault = fmt.Sprintf(" (default: %s)", f.DefValue)
				}
				cmd.Printf("    --%-20s %s%s\n", flag.Name, flag.Help, flagDefault)
			}
		}
		if cmd.Parent() == nil {
			return nil
		}
		cmd.Println("\nGlobal Flags:")
		cmd.Parent().PersistentFlags().VisitAll(func(pf *pflag.Flag) {
			flagDefault := ""
			if pf.DefValue != "" && pf.DefValue != "false" {
				flagDefault = fmt.Sprintf(" (default: %s)", pf.DefValue)
			}
			cmd.Printf("  --%-20s %s%s\n", pf.Name, pf.Usage, flagDefault)
		})
		return nil
	}
}
