// Package serve is a subcommand of the root command. It serves the PowerTOP parser
// and the report renderers over HTTP.
package serve

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"powerview/cmd/parse"
	"powerview/internal/app"
	"powerview/internal/common"
	"powerview/internal/insights"
	"powerview/internal/server"
	"powerview/internal/util"
)

const cmdName = "serve"

var examples = []string{
	fmt.Sprintf("  Serve on the default address:   $ %s %s", app.Name, cmdName),
	fmt.Sprintf("  Serve on localhost only:        $ %s %s --listen 127.0.0.1:9090", app.Name, cmdName),
	"  Upload a report:                $ curl -F file=@powertop.html http://localhost:8080/api/parse",
}

var Cmd = &cobra.Command{
	Use:           cmdName,
	Short:         "Parse uploaded PowerTOP reports over HTTP",
	Example:       strings.Join(examples, "\n"),
	RunE:          runCmd,
	PreRunE:       validateFlags,
	GroupID:       "primary",
	Args:          cobra.NoArgs,
	SilenceErrors: true,
}

// flag vars
var (
	flagListen string
	flagRules  string
)

// flag names
const (
	flagListenName = "listen"
)

func init() {
	Cmd.Flags().StringVar(&flagListen, flagListenName, ":8080", "")
	Cmd.Flags().StringVar(&flagRules, app.FlagRulesName, "", "")

	Cmd.SetUsageFunc(common.UsageFunc("", getFlagGroups))
}

func getFlagGroups() []app.FlagGroup {
	return []app.FlagGroup{
		{
			GroupName: "Server Options",
			Flags: []app.Flag{
				{
					Name: flagListenName,
					Help: "address to listen on, host:port",
				},
				{
					Name: app.FlagRulesName,
					Help: "YAML file of insight rules that replaces the built-in rules",
				},
			},
		},
	}
}

func validateFlags(cmd *cobra.Command, args []string) error {
	if !strings.Contains(flagListen, ":") {
		return common.FlagValidationError(cmd, fmt.Sprintf("listen address must be host:port, got %q", flagListen))
	}
	if flagRules != "" {
		if exists, err := util.FileExists(flagRules); err != nil || !exists {
			return common.FlagValidationError(cmd, fmt.Sprintf("rules file not found: %s", flagRules))
		}
	}
	return nil
}

func runCmd(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	rules, err := insights.LoadRules(flagRules)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	srv := server.New(parse.Tables(rules), server.NewMetrics())
	fmt.Fprintf(cmd.OutOrStdout(), "Listening on %s, press Ctrl+C to stop\n", flagListen)
	if err := srv.ListenAndServe(ctx, flagListen); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		return err
	}
	return nil
}
