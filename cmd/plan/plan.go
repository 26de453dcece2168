package plan

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/Adarsh505-cloud/ai-web-executor/cmd/internal/display"
	"github.com/Adarsh505-cloud/ai-web-executor/config"
	"github.com/Adarsh505-cloud/ai-web-executor/planner"
)

func Cmd() *cli.Command {
	var prompt string

	cmd := &cli.Command{
		Name:  "plan",
		Usage: "generate an execution plan from a prompt without running it",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name:        "prompt",
				UsageText:   "<prompt>",
				Destination: &prompt,
				Min:         1,
				Max:         1,
			},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "write the plan JSON to this file for later use with the exec command",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "enable verbose debug logging",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Bool("verbose") {
				log.SetLevel(log.DebugLevel)
			}

			cfg := config.Load()

			p, err := planner.New(ctx, cfg)
			if err != nil {
				return err
			}

			plan, err := p.Plan(ctx, prompt)
			if err != nil {
				return err
			}

			display.LogPlan(plan)

			data, err := json.MarshalIndent(plan, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode plan: %w", err)
			}

			outputPath := cmd.String("output")
			if outputPath == "" {
				fmt.Println(string(data))
				return nil
			}

			if err := os.WriteFile(outputPath, data, 0o644); err != nil {
				return fmt.Errorf("failed to write plan file %s: %w", outputPath, err)
			}
			log.Infof("plan saved: %s", outputPath)

			return nil
		},
	}

	return cmd
}
