// Package main provides the spectrace binary entry point.
// Spectrace derives traceability, integrity, and pipeline status from the
// documents of a spec-driven development workflow.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/c360studio/spectrace/config"
	"github.com/c360studio/spectrace/workflow"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "spectrace"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// globalOptions are flags shared by every subcommand.
type globalOptions struct {
	rootPath string
	logLevel string
}

func rootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "spectrace",
		Short: "Traceability and integrity engine for spec-driven development",
		Long: `Spectrace reads the documents of a spec-driven development workflow
(constitution, spec, plan, checklists, scenario files, task list) and derives:

- per-phase pipeline status
- a traceability graph from requirements to scenarios to tasks, with gaps
- a tamper-evident integrity check over locked scenario assertions
- aggregate checklist gate status

Spectrace never writes to the document set; all commands are read-only.`,
	}

	cmd.PersistentFlags().StringVar(&opts.rootPath, "root", "", "Document root (default: auto-detect)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		newStatusCmd(opts),
		newTraceCmd(opts),
		newVerifyCmd(opts),
		newGatesCmd(opts),
		newWatchCmd(opts),
		newServeCmd(opts),
	)

	// Version command
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	})

	return cmd
}

// engine builds the workflow engine from layered configuration, honoring
// global flag overrides.
func (o *globalOptions) engine() (*workflow.Engine, *config.Config, error) {
	// Configure logging
	level := slog.LevelInfo
	switch strings.ToLower(o.logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg, err := config.NewLoader(logger).Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if o.rootPath != "" {
		cfg.Root.Path = o.rootPath
	}

	info, err := os.Stat(cfg.Root.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("stat document root: %w", err)
	}
	if !info.IsDir() {
		return nil, nil, fmt.Errorf("not a directory: %s", cfg.Root.Path)
	}

	manager := workflow.NewManager(cfg.Root.Path).
		WithGlobs(cfg.Documents.ScenarioGlob, cfg.Documents.ChecklistGlob)
	engine := workflow.NewEngine(manager).WithPolicyOverride(cfg.Policy.TestFirst)

	return engine, cfg, nil
}
