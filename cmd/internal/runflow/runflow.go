// Package runflow holds the execution wiring shared by the run and exec
// commands: browser flags, config overrides and run history recording.
package runflow

import (
	"context"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/Adarsh505-cloud/ai-web-executor/common"
	"github.com/Adarsh505-cloud/ai-web-executor/config"
	"github.com/Adarsh505-cloud/ai-web-executor/executor"
	"github.com/Adarsh505-cloud/ai-web-executor/history"
	"github.com/Adarsh505-cloud/ai-web-executor/schema"
)

// BrowserFlags are the flags every plan-executing command accepts.
func BrowserFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "headless",
			Usage: "run in headless mode (no visible browser)",
		},
		&cli.IntFlag{
			Name:  "slowmo",
			Usage: "slow motion in milliseconds for debugging",
			Value: 150,
		},
		&cli.IntFlag{
			Name:  "timeout",
			Usage: "default action timeout in milliseconds, overrides DEFAULT_TIMEOUT",
		},
		&cli.StringFlag{
			Name:  "artifacts",
			Usage: "output directory for screenshots, videos and traces",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "enable verbose debug logging",
		},
		&cli.BoolFlag{
			Name:  "no-history",
			Usage: "skip recording this run in the run history database",
		},
		&cli.StringFlag{
			Name:  "db",
			Usage: "path of run history database",
		},
	}
}

// LoadConfig reads the environment config and applies command line overrides.
func LoadConfig(cmd *cli.Command) *config.Config {
	if cmd.Bool("verbose") {
		log.SetLevel(log.DebugLevel)
	}

	cfg := config.Load()

	if timeoutMs := int(cmd.Int("timeout")); timeoutMs > 0 {
		cfg.Browser.DefaultTimeoutMs = timeoutMs
	}
	if artifactsDir := cmd.String("artifacts"); artifactsDir != "" {
		cfg.Artifacts.Dir = artifactsDir
	}

	return cfg
}

// ExecutorOptions maps command line flags to executor settings.
func ExecutorOptions(cmd *cli.Command) executor.Options {
	return executor.Options{
		Headless:     cmd.Bool("headless"),
		SlowMoMs:     int(cmd.Int("slowmo")),
		ShowProgress: !cmd.Bool("verbose"),
	}
}

// HistoryPath resolves the run history database path, defaulting to a file
// next to the other artifacts.
func HistoryPath(cmd *cli.Command, cfg *config.Config) string {
	return common.GetStrOr(cmd.String("db"), filepath.Join(cfg.Artifacts.Dir, "history.db"))
}

// ExecuteWithHistory runs the plan and records the outcome in the run store.
// History failures are logged but never fail the run itself.
func ExecuteWithHistory(
	ctx context.Context,
	cfg *config.Config,
	cmd *cli.Command,
	prompt string,
	plan *schema.Plan,
) error {
	var store *history.Store
	var runID string

	if !cmd.Bool("no-history") {
		var err error
		store, err = history.NewStore(HistoryPath(cmd, cfg))
		if err != nil {
			log.Warnf("run history unavailable: %s", err)
			store = nil
		} else {
			defer store.Close()

			runID, err = store.StartRun(prompt, plan, cfg.Artifacts.Dir)
			if err != nil {
				log.Warnf("failed to record run start: %s", err)
			}
		}
	}

	log.Info("executing plan")
	runner := executor.New(cfg, ExecutorOptions(cmd))
	runErr := runner.Run(ctx, plan)

	if store != nil && runID != "" {
		if err := store.FinishRun(runID, runErr); err != nil {
			log.Warnf("failed to record run result: %s", err)
		}
	}

	return runErr
}
