// Package main implements rainbowctl, the CLI that drives the
// Intelligent Action Engine end to end.
//
// This file is the entry point and command registration hub; the
// actual command implementations are split across the other
// cmd_*.go files in this package.
//
// # File Index
//
//   - main.go        - entry point, rootCmd, global flags, engine bootstrap
//   - cmd_session.go - session create/list/remove
//   - cmd_action.go  - run a single action against a session
//   - cmd_batch.go   - run an action batch or chain from a YAML file
//   - cmd_stats.go   - print performance/concurrency/retry/event-bus stats
//   - cmd_run.go     - one-shot session: run a batch or chain, then tear down
//   - actionfile.go  - YAML description of actions for batch/chain files
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"rainbowbrowser/internal/concurrency"
	"rainbowbrowser/internal/config"
	"rainbowbrowser/internal/engine"
	"rainbowbrowser/internal/executor"
	"rainbowbrowser/internal/logutil"
	"rainbowbrowser/internal/retry"
	"rainbowbrowser/internal/session"
)

var (
	verbose    bool
	configPath string
	timeout    time.Duration

	log *zap.SugaredLogger
	eng *engine.Engine
	mgr *session.Manager
)

var rootCmd = &cobra.Command{
	Use:   "rainbowctl",
	Short: "rainbowctl drives the Intelligent Action Engine's browser automation facade",
	Long: `rainbowctl is the command-line front end for the Intelligent Action
Engine: locate an element, execute an action against it, verify the
outcome, and retry on classified transient failure, all against a
real Chrome DevTools session.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		var err error
		log, err = logutil.New(verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		eng, mgr, err = buildEngine(configPath, log)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if mgr != nil {
			mgr.Shutdown()
		}
		if log != nil {
			_ = log.Sync()
		}
	},
}

// buildEngine wires config -> logging -> session manager -> executor/
// retry/concurrency -> the Engine facade.
func buildEngine(path string, log *zap.SugaredLogger) (*engine.Engine, *session.Manager, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, fmt.Errorf("load config %q: %w", path, err)
	}

	bus := session.NewBus()
	factory := session.RodPageFactory(cfg.BrowserConfig())
	sessions := session.NewManager(cfg.ManagerConfig(), factory, bus, log)

	exec := executor.New(log)

	maxAttempts, maxElapsed := cfg.RetryLimits()
	retryer := retry.NewWithLimits(log, maxAttempts, maxElapsed)

	permits, batchTimeout := cfg.ConcurrencyLimits()
	ctrl := concurrency.NewWithLimits(permits, batchTimeout)

	return engine.New(sessions, exec, retryer, ctrl, log), sessions, nil
}

func main() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "rainbowbrowser.yaml", "path to the YAML config file")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "default per-command timeout")

	rootCmd.AddCommand(sessionCmd, actionCmd, batchCmd, chainCmd, statsCmd, runCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func cmdContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}
