package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hotline-dev/hotline/internal/baseline"
	"github.com/hotline-dev/hotline/internal/config"
	"github.com/hotline-dev/hotline/internal/engine"
	"github.com/hotline-dev/hotline/internal/observability"
	"github.com/hotline-dev/hotline/internal/policy"
	"github.com/hotline-dev/hotline/internal/session"
	"github.com/hotline-dev/hotline/internal/tracebuf"
	"github.com/hotline-dev/hotline/pkg/version"
)

// archiveFilePerm is the mode of the written trace archive.
const archiveFilePerm = 0o600

// SessionCommand holds the flags for the session command.
type SessionCommand struct {
	configPath  string
	policyPath  string
	tag         string
	archivePath string
	diagAddr    string
	format      string
	noColor     bool
}

// NewSessionCommand creates and configures the session command.
func NewSessionCommand() *cobra.Command {
	cmd := &SessionCommand{}

	cobraCmd := &cobra.Command{
		Use:   "session <repo-path> [file]...",
		Short: "Run a live-edit session over a git worktree",
		Long: `Analyze edited worktree files against the repository HEAD as one
live-edit session. Each file gets an apply/block/skip verdict, and the
session trace can be archived for post-mortem inspection. Without explicit
files, every modified worktree document is analyzed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return cmd.Run(args[0], args[1:])
		},
	}

	cobraCmd.Flags().StringVarP(&cmd.configPath, "config", "c", "", "config file path")
	cobraCmd.Flags().StringVarP(&cmd.policyPath, "policy", "p", "", "rude-edit policy overlay (overrides config)")
	cobraCmd.Flags().StringVarP(&cmd.tag, "tag", "t", "", "session tag (overrides config)")
	cobraCmd.Flags().StringVar(&cmd.archivePath, "archive", "", "write LZ4 trace archive to this path on exit")
	cobraCmd.Flags().StringVar(&cmd.diagAddr, "diag-addr", "", "serve /healthz, /readyz, and /metrics at this address")
	cobraCmd.Flags().StringVarP(&cmd.format, "format", "f", FormatTable, "output format: table, json, or yaml")
	cobraCmd.Flags().BoolVar(&cmd.noColor, "no-color", false, "disable colored output")

	return cobraCmd
}

// Run executes the session command.
func (c *SessionCommand) Run(repoPath string, files []string) error {
	if c.noColor {
		color.NoColor = true //nolint:reassign // intentional override of library global
	}

	cfg, err := config.LoadConfig(c.configPath)
	if err != nil {
		return err
	}

	c.applyOverrides(cfg)

	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceVersion = version.Version
	obsCfg.Environment = cfg.Observability.Environment
	obsCfg.OTLPEndpoint = cfg.Observability.OTLPEndpoint
	obsCfg.OTLPHeaders = observability.ParseOTLPHeaders(cfg.Observability.OTLPHeaders)
	obsCfg.OTLPInsecure = cfg.Observability.OTLPInsecure
	obsCfg.LogLevel = cfg.SlogLevel()
	obsCfg.LogJSON = cfg.Observability.LogJSON
	obsCfg.ShutdownTimeoutSec = cfg.Observability.ShutdownTimeoutSec

	providers, err := observability.Init(obsCfg)
	if err != nil {
		return fmt.Errorf("init observability: %w", err)
	}

	defer func() { _ = providers.Shutdown(context.Background()) }()

	ctx, cancel := signalContext()
	defer cancel()

	return c.runSession(ctx, cfg, providers, repoPath, files)
}

func (c *SessionCommand) applyOverrides(cfg *config.Config) {
	if c.policyPath != "" {
		cfg.Policy.Path = c.policyPath
	}

	if c.tag != "" {
		cfg.Session.Tag = c.tag
	}

	if c.archivePath != "" {
		cfg.Session.ArchivePath = c.archivePath
	}

	if c.diagAddr != "" {
		cfg.Session.DiagAddr = c.diagAddr
	}
}

func (c *SessionCommand) runSession(
	ctx context.Context,
	cfg *config.Config,
	providers observability.Providers,
	repoPath string,
	files []string,
) error {
	pol, err := loadPolicyPath(cfg.Policy.Path)
	if err != nil {
		return err
	}

	baselines, err := baseline.NewGitProvider(repoPath)
	if err != nil {
		return err
	}
	defer baselines.Free()

	providers.Logger.Info("session started",
		"repo", baselines.Workdir(),
		"tag", cfg.Session.Tag,
	)

	if len(files) == 0 {
		files, err = baselines.ModifiedFiles()
		if err != nil {
			return err
		}

		if len(files) == 0 {
			providers.Logger.Info("worktree is clean; nothing to analyze")

			return nil
		}
	}

	metrics, err := observability.NewAnalysisMetrics(providers.Meter)
	if err != nil {
		return fmt.Errorf("create metrics: %w", err)
	}

	if cfg.Session.DiagAddr != "" {
		diag, diagErr := observability.NewDiagnosticsServer(cfg.Session.DiagAddr, providers.MetricsHandler)
		if diagErr != nil {
			return diagErr
		}

		defer func() { _ = diag.Close() }()

		providers.Logger.Info("diagnostics listening", "addr", diag.Addr())
	}

	analyzer := engine.NewTreeAnalyzer(pol,
		engine.WithMaxDocumentSize(cfg.Engine.MaxFileSize),
		engine.WithLogger(providers.Logger),
	)

	trace := tracebuf.NewLog(cfg.Session.Tag, cfg.Session.TraceCapacity)
	mgr := session.NewManager(analyzer, baselines, trace,
		session.WithMetrics(metrics),
		session.WithLogger(providers.Logger),
	)

	for _, file := range files {
		if processErr := c.processFile(ctx, mgr, baselines, file); processErr != nil {
			return processErr
		}
	}

	return c.archiveTrace(cfg, trace)
}

func (c *SessionCommand) processFile(
	ctx context.Context,
	mgr *session.Manager,
	baselines *baseline.GitProvider,
	file string,
) error {
	current, err := baselines.Worktree(file)
	if err != nil {
		return err
	}

	outcome, decision, err := mgr.Process(ctx, file, current)
	if err != nil {
		return err
	}

	report := buildReport(file, len(current), outcome, decision.String())

	return renderReport(os.Stdout, report, c.format)
}

func (c *SessionCommand) archiveTrace(cfg *config.Config, trace *tracebuf.Log) error {
	if cfg.Session.ArchivePath == "" {
		return nil
	}

	archive, err := os.OpenFile(cfg.Session.ArchivePath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, archiveFilePerm)
	if err != nil {
		return fmt.Errorf("create trace archive: %w", err)
	}
	defer func() { _ = archive.Close() }()

	return trace.Archive(archive)
}

// loadPolicyPath loads the policy overlay at path, or defaults when empty.
func loadPolicyPath(path string) (*policy.Policy, error) {
	if path == "" {
		return policy.Default(), nil
	}

	return policy.Load(path)
}

// signalContext returns a context canceled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
