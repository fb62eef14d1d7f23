// Package cmd provides the command line interface for the application.
package cmd

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"powerview/cmd/compare"
	"powerview/cmd/parse"
	"powerview/cmd/serve"
	"powerview/internal/app"
	"powerview/internal/util"

	"github.com/spf13/cobra"
)

var gLogFile *os.File
var gVersion = "9.9.9" // set with -ldflags "-X powerview/cmd.gVersion=..."

const (
	// LongAppName is the name of the application
	LongAppName = "PowerView"
)

var examples = []string{
	fmt.Sprintf("  Summarize a PowerTOP HTML report:            $ %s parse powertop.html", app.Name),
	fmt.Sprintf("  Convert a PowerTOP CSV report to a workbook: $ %s parse powertop.csv --format xlsx", app.Name),
	fmt.Sprintf("  Compare reports side by side:                $ %s compare before.html after.html", app.Name),
	fmt.Sprintf("  Parse uploaded reports over HTTP:            $ %s serve --listen :8080", app.Name),
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:                app.Name,
	Short:              app.Name,
	Long:               fmt.Sprintf(`%s (%s) extracts CPU usage, wakeups, power consumers, device power and idle state residency from PowerTOP reports.`, LongAppName, app.Name),
	Example:            strings.Join(examples, "\n"),
	PersistentPreRunE:  initializeApplication, // will only be run if command has a 'Run' function
	PersistentPostRunE: terminateApplication,  // ...
	Version:            gVersion,
}

var (
	// logging
	flagDebug     bool
	flagSyslog    bool
	flagLogStdOut bool
	// output
	flagOutputDir string
)

func init() {
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})
	rootCmd.CompletionOptions.HiddenDefaultCmd = true
	rootCmd.AddGroup(&cobra.Group{ID: "primary", Title: "Commands:"})
	rootCmd.AddCommand(parse.Cmd, compare.Cmd, serve.Cmd)

	flags := rootCmd.PersistentFlags()
	flags.BoolVar(&flagDebug, app.FlagDebugName, false, "enable debug logging")
	flags.BoolVar(&flagSyslog, app.FlagSyslogName, false, "write logs to syslog instead of a file")
	flags.BoolVar(&flagLogStdOut, app.FlagLogStdOutName, false, "write logs to stdout")
	flags.StringVar(&flagOutputDir, app.FlagOutputDirName, "", "override the output directory, created if needed")
	rootCmd.MarkFlagsMutuallyExclusive(app.FlagSyslogName, app.FlagLogStdOutName)
}

// Execute runs the root command. Called once by main, which owns the exit code.
func Execute() error {
	cobra.EnableCommandSorting = false
	cobra.EnableCaseInsensitive = true
	err := rootCmd.Execute()
	if err != nil {
		if termErr := terminateApplication(rootCmd, os.Args); termErr != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", termErr)
		}
	}
	return err
}

// initError prints an initialization error and returns it
func initError(format string, a ...any) error {
	err := fmt.Errorf(format, a...)
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return err
}

// resolveOutputDir returns the absolute output directory. Without the flag it is
// a timestamped directory under the working directory. Nothing is created here.
func resolveOutputDir(timestamp string) (string, error) {
	if flagOutputDir == "" {
		return util.AbsPath(app.Name + "_" + timestamp)
	}
	outputDir, err := util.AbsPath(flagOutputDir)
	if err != nil {
		return "", err
	}
	if _, err := util.DirectoryExists(outputDir); err != nil {
		return "", err
	}
	return outputDir, nil
}

// newLogHandler picks the log destination from the logging flags
func newLogHandler() (slog.Handler, error) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if flagDebug {
		opts.Level = slog.LevelDebug
		opts.AddSource = true
	}
	switch {
	case flagSyslog:
		return NewSyslogHandler(opts)
	case flagLogStdOut:
		return slog.NewJSONHandler(os.Stdout, opts), nil
	}
	logFile, err := os.OpenFile(app.Name+".log", os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644) // #nosec G302
	if err != nil {
		return nil, err
	}
	gLogFile = logFile
	return slog.NewTextHandler(logFile, opts), nil
}

func initializeApplication(cmd *cobra.Command, args []string) error {
	timestamp := time.Now().Local().Format("2006-01-02_15-04-05")
	outputDir, err := resolveOutputDir(timestamp)
	if err != nil {
		return initError("invalid output dir: %v", err)
	}
	handler, err := newLogHandler()
	if err != nil {
		return initError("failed to configure logging: %v", err)
	}
	slog.SetDefault(slog.New(handler))
	slog.Info("Starting up", slog.String("app", app.Name), slog.String("version", gVersion), slog.Int("PID", os.Getpid()), slog.String("arguments", strings.Join(os.Args, " ")))
	appContext := app.Context{
		Timestamp: timestamp,
		OutputDir: outputDir,
		Version:   gVersion,
		Debug:     flagDebug,
	}
	if gLogFile != nil {
		appContext.LogFilePath = gLogFile.Name()
	}
	cmd.Parent().SetContext(context.WithValue(context.Background(), app.Context{}, appContext))
	return nil
}

// terminateApplication closes the log file once the app context is set
func terminateApplication(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if cmd.Parent() != nil {
		ctx = cmd.Parent().Context()
	}
	if ctx == nil {
		return nil
	}
	if _, ok := ctx.Value(app.Context{}).(app.Context); !ok {
		return nil
	}
	slog.Info("Shutting down", slog.String("app", app.Name), slog.String("version", gVersion), slog.Int("PID", os.Getpid()))
	if gLogFile == nil {
		return nil
	}
	err := gLogFile.Close()
	gLogFile = nil
	return err
}
