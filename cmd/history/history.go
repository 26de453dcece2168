package history

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/Adarsh505-cloud/ai-web-executor/common"
	"github.com/Adarsh505-cloud/ai-web-executor/config"
	"github.com/Adarsh505-cloud/ai-web-executor/history"
)

func Cmd() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "inspect past planner/executor runs",
		Commands: []*cli.Command{
			subcmdList(),
			subcmdShow(),
		},
	}
}

func dbFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:  "db",
		Usage: "path of run history database",
	}
}

func openStore(cmd *cli.Command) (*history.Store, error) {
	cfg := config.Load()
	dbPath := common.GetStrOr(cmd.String("db"), filepath.Join(cfg.Artifacts.Dir, "history.db"))
	return history.NewStore(dbPath)
}

func subcmdList() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "list recent runs, newest first",
		Flags: []cli.Flag{
			dbFlag(),
			&cli.IntFlag{
				Name:  "limit",
				Usage: "maximum number of runs to list",
				Value: 20,
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			store, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			records, err := store.Recent(int(cmd.Int("limit")))
			if err != nil {
				return err
			}

			if len(records) == 0 {
				log.Info("no runs recorded yet")
				return nil
			}

			fmt.Printf("%-36s  %-9s  %7s  %-19s  %s\n",
				"RUN ID", "STATUS", "ACTIONS", "STARTED", "PROMPT")
			for _, record := range records {
				fmt.Printf("%-36s  %-9s  %7d  %-19s  %s\n",
					record.RunID,
					record.Status,
					record.ActionCount,
					record.StartedAt.Format("2006-01-02 15:04:05"),
					truncate(record.Prompt, 60),
				)
			}

			return nil
		},
	}
}

func subcmdShow() *cli.Command {
	var runID string

	return &cli.Command{
		Name:  "show",
		Usage: "show full details of a single run",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name:        "run-id",
				UsageText:   "<run-id>",
				Destination: &runID,
				Min:         1,
				Max:         1,
			},
		},
		Flags: []cli.Flag{
			dbFlag(),
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			store, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			record, err := store.Get(runID)
			if err != nil {
				return err
			}

			fmt.Printf("Run ID:    %s\n", record.RunID)
			fmt.Printf("Status:    %s\n", record.Status)
			fmt.Printf("Prompt:    %s\n", record.Prompt)
			fmt.Printf("Actions:   %d\n", record.ActionCount)
			fmt.Printf("Artifacts: %s\n", record.ArtifactsDir)
			fmt.Printf("Started:   %s\n", record.StartedAt.Format("2006-01-02 15:04:05"))
			if !record.FinishedAt.IsZero() {
				fmt.Printf("Finished:  %s\n", record.FinishedAt.Format("2006-01-02 15:04:05"))
			}
			if record.Error != "" {
				fmt.Printf("Error:     %s\n", record.Error)
			}

			var indented map[string]any
			if err := json.Unmarshal([]byte(record.PlanJSON), &indented); err == nil {
				pretty, _ := json.MarshalIndent(indented, "", "  ")
				fmt.Printf("Plan:\n%s\n", string(pretty))
			} else {
				fmt.Printf("Plan:\n%s\n", record.PlanJSON)
			}

			return nil
		},
	}
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-1]) + "…"
}
