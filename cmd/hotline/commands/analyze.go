// Package commands implements the hotline CLI subcommands.
package commands

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hotline-dev/hotline/internal/config"
	"github.com/hotline-dev/hotline/internal/engine"
	"github.com/hotline-dev/hotline/internal/session"
)

// AnalyzeCommand holds the flags for the analyze command.
type AnalyzeCommand struct {
	configPath string
	policyPath string
	output     string
	format     string
	noColor    bool
}

// NewAnalyzeCommand creates and configures the analyze command.
func NewAnalyzeCommand() *cobra.Command {
	cmd := &AnalyzeCommand{}

	cobraCmd := &cobra.Command{
		Use:   "analyze <baseline-file> <current-file>",
		Short: "Analyze one baseline/current document pair",
		Long: `Analyze a single document edit: parse both snapshots, classify the
change, and report rude edits, semantic edits, and line shifts.`,
		Args: cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			return cmd.Run(args[0], args[1])
		},
	}

	cobraCmd.Flags().StringVarP(&cmd.configPath, "config", "c", "", "config file path")
	cobraCmd.Flags().StringVarP(&cmd.policyPath, "policy", "p", "", "rude-edit policy overlay (overrides config)")
	cobraCmd.Flags().StringVarP(&cmd.output, "output", "o", "", "output file (default: stdout)")
	cobraCmd.Flags().StringVarP(&cmd.format, "format", "f", FormatTable, "output format: table, json, or yaml")
	cobraCmd.Flags().BoolVar(&cmd.noColor, "no-color", false, "disable colored output")

	return cobraCmd
}

// Run executes the analyze command.
func (c *AnalyzeCommand) Run(baselinePath, currentPath string) error {
	if c.noColor {
		color.NoColor = true //nolint:reassign // intentional override of library global
	}

	cfg, err := config.LoadConfig(c.configPath)
	if err != nil {
		return err
	}

	policyPath := cfg.Policy.Path
	if c.policyPath != "" {
		policyPath = c.policyPath
	}

	pol, err := loadPolicyPath(policyPath)
	if err != nil {
		return err
	}

	base, err := os.ReadFile(baselinePath)
	if err != nil {
		return fmt.Errorf("read baseline: %w", err)
	}

	current, err := os.ReadFile(currentPath)
	if err != nil {
		return fmt.Errorf("read current: %w", err)
	}

	analyzer := engine.NewTreeAnalyzer(pol, engine.WithMaxDocumentSize(cfg.Engine.MaxFileSize))

	ctx, cancel := signalContext()
	defer cancel()

	outcome, err := analyzer.Analyze(ctx, engine.Snapshot{
		Path:     currentPath,
		Baseline: base,
		Current:  current,
	})
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}

	writer, closeWriter, err := openOutput(c.output)
	if err != nil {
		return err
	}
	defer closeWriter()

	report := buildReport(currentPath, len(current), outcome, session.Decide(outcome).String())

	return renderReport(writer, report, c.format)
}

// openOutput resolves the output writer. The returned close function is a
// no-op for stdout.
func openOutput(path string) (*os.File, func(), error) {
	if path == "" {
		return os.Stdout, func() {}, nil
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create output file: %w", err)
	}

	return file, func() { _ = file.Close() }, nil
}
