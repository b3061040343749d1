// Package main is the CLI entry point for studyguard.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/quietdesk/studyguard/internal/blocker"
	"github.com/quietdesk/studyguard/internal/config"
	"github.com/quietdesk/studyguard/internal/domain"
	"github.com/quietdesk/studyguard/internal/infra"
	"github.com/quietdesk/studyguard/internal/prefetch"
)

var (
	// Version info (set via ldflags)
	Version   = "0.3.0"
	Commit    = "dev"
	BuildTime = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "studyguard",
	Short: "Website blocking with study mode, plus prefetch forensics",
	Long: `studyguard blocks distracting websites through the hosts file and can
lock a block in for a fixed duration ("study mode") that cannot be lifted
early. It also inspects the Windows Prefetch directory to show which
programs actually ran, and when.`,
	Version: Version,
}

var prefetchCmd = &cobra.Command{
	Use:   "prefetch",
	Short: "List program execution history from Windows Prefetch files",
	Long: `Parses the .pf files in the Windows Prefetch directory and prints each
program's run count, last run times, and referenced files, most recently
executed first. Corrupt files are skipped, not fatal.`,
	RunE: runPrefetch,
}

var blockCmd = &cobra.Command{
	Use:   "block <domain>",
	Short: "Block a website via the hosts file",
	Long: `Adds hosts-file bindings for the domain (bare and www. forms, IPv4
loopback and null routes). --deep adds wildcard bindings and cycles the
DNS cache. --for starts study mode: the block expires on its own and
cannot be lifted early.`,
	Args: cobra.ExactArgs(1),
	RunE: runBlock,
}

var unblockCmd = &cobra.Command{
	Use:   "unblock <domain>",
	Short: "Remove a website block",
	Long: `Removes every hosts-file binding for the domain. Rejected while a study
mode timer is active; use cancel to end study mode early.`,
	Args: cobra.ExactArgs(1),
	RunE: runUnblock,
}

var cancelCmd = &cobra.Command{
	Use:   "cancel <domain>",
	Short: "Cancel a study mode timer and unblock the domain",
	Long: `Stops the study mode timer for the domain and removes its hosts-file
bindings. Timers live in the process that started them, so this only
finds timers created in this process.`,
	Args: cobra.ExactArgs(1),
	RunE: runCancel,
}

var timersCmd = &cobra.Command{
	Use:   "timers",
	Short: "List active study mode timers",
	Long: `Lists study mode timers started by this process, with their end time
and remaining duration.`,
	RunE: runTimers,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run:   runVersion,
}

var (
	configPath    string
	blockDeep     bool
	blockDuration string
	blockWait     bool
	jsonOutput    bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config file")

	blockCmd.Flags().BoolVar(&blockDeep, "deep", false, "Add wildcard bindings and cycle the DNS cache")
	blockCmd.Flags().StringVar(&blockDuration, "for", "", "Study mode duration (10sec, 12hr, 1d, 2d, 3d, 7d)")
	blockCmd.Flags().BoolVar(&blockWait, "wait", true, "With --for, stay resident until the timer expires")
	versionCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output version info as JSON")

	rootCmd.AddCommand(prefetchCmd)
	rootCmd.AddCommand(blockCmd)
	rootCmd.AddCommand(unblockCmd)
	rootCmd.AddCommand(cancelCmd)
	rootCmd.AddCommand(timersCmd)
	rootCmd.AddCommand(versionCmd)
}

// app bundles the wired-up components for one command invocation.
type app struct {
	cfg      config.Config
	logger   *zap.Logger
	service  *blocker.Service
	notifier *infra.BroadcastNotifier
}

func buildApp() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	logger := createLogger(cfg.LogPath)
	runner := infra.NewCommandRunner()
	notifier := infra.NewNotifier(logger)

	service := blocker.NewService(
		infra.NewHostsFile(cfg.HostsPath),
		infra.NewDNSControl(runner),
		infra.NewPrivilegeChecker(),
		infra.NewFirewallCleaner(runner, logger),
		infra.NewScheduler(),
		notifier,
		logger,
	)

	return &app{cfg: cfg, logger: logger, service: service, notifier: notifier}, nil
}

func runPrefetch(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	defer a.logger.Sync()

	pm := infra.NewProcessManager()
	analyzer := prefetch.NewAnalyzerWithLimit(
		a.cfg.PrefetchDir, pm, a.logger, a.cfg.MaxPrefetchFiles)

	result, err := analyzer.List(cmd.Context())
	switch {
	case errors.Is(err, domain.ErrNotFound):
		fmt.Println("Prefetch directory not found - prefetch may be disabled on this system.")
		return nil
	case errors.Is(err, domain.ErrPermissionDenied):
		return fmt.Errorf("cannot read prefetch directory; run elevated: %w", err)
	case err != nil:
		return err
	}

	if result.Note != "" {
		fmt.Println(result.Note)
	}
	fmt.Printf("Found %d prefetch files, parsed %d\n\n", result.TotalFilesFound, result.ProcessedCount)
	for _, rec := range result.Records {
		running := ""
		if rec.Running {
			running = "  [running]"
			if pids, err := pm.FindByName(rec.ExecutableName); err == nil && len(pids) > 0 {
				running = fmt.Sprintf("  [running, pid %d]", pids[0])
			}
		}
		fmt.Printf("%-40s runs: %-5d last: %s%s\n",
			rec.ExecutableName, rec.RunCount,
			rec.LastRun().Format("2006-01-02 15:04:05"), running)
	}
	return nil
}

func runBlock(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	defer a.logger.Sync()

	if blockDuration != "" {
		return runTimedBlock(cmd.Context(), a, args[0])
	}

	if blockDeep {
		if err := a.service.BlockDomainDeep(cmd.Context(), args[0]); err != nil {
			return err
		}
	} else {
		if err := a.service.BlockDomain(cmd.Context(), args[0]); err != nil {
			return err
		}
	}
	fmt.Printf("Blocked %s\n", args[0])
	return nil
}

func runTimedBlock(ctx context.Context, a *app, rawDomain string) error {
	events := a.notifier.Subscribe()

	timer, err := a.service.BlockDomainTimed(ctx, rawDomain, domain.BlockDuration(blockDuration))
	if err != nil {
		return err
	}

	fmt.Printf("Study mode: %s blocked until %s\n",
		timer.WebsiteURL, timer.EndTime.Format("2006-01-02 15:04:05"))

	if !blockWait {
		fmt.Println("Warning: the auto-unblock timer dies with this process.")
		return nil
	}

	// The expiry timer lives in this process; stay resident until it fires.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case ev := <-events:
		fmt.Printf("Study mode ended, %s unblocked\n", ev.WebsiteURL)
	case <-sigCh:
		fmt.Println("\nInterrupted; cancelling study mode timer")
		if err := a.service.CancelTimer(context.Background(), timer.WebsiteURL); err != nil {
			return err
		}
	}
	return nil
}

func runUnblock(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	defer a.logger.Sync()

	if err := a.service.UnblockDomain(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Printf("Unblocked %s\n", args[0])
	return nil
}

func runCancel(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	defer a.logger.Sync()

	if err := a.service.CancelTimer(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Printf("Cancelled study mode for %s\n", args[0])
	return nil
}

func runTimers(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	defer a.logger.Sync()

	timers := a.service.ActiveTimers()
	if len(timers) == 0 {
		fmt.Println("No active study mode timers")
		return nil
	}
	for _, t := range timers {
		fmt.Printf("%-30s until %s (%s remaining)\n",
			t.WebsiteURL, t.EndTime.Format("2006-01-02 15:04:05"), t.RemainingHuman)
	}
	return nil
}

func createLogger(logPath string) *zap.Logger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "time"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	sink := zapcore.AddSync(&lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    10, // MB
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	})
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), sink, zap.InfoLevel)
	return zap.New(core)
}

func runVersion(cmd *cobra.Command, args []string) {
	if jsonOutput {
		fmt.Printf(`{"version":"%s","commit":"%s","build_time":"%s"}`+"\n",
			Version, Commit, BuildTime)
	} else {
		fmt.Printf("studyguard %s (commit: %s, built: %s)\n",
			Version, Commit, BuildTime)
	}
}
