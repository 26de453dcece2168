package run

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/Adarsh505-cloud/ai-web-executor/cmd/internal/display"
	"github.com/Adarsh505-cloud/ai-web-executor/cmd/internal/runflow"
	"github.com/Adarsh505-cloud/ai-web-executor/common"
	"github.com/Adarsh505-cloud/ai-web-executor/planner"
)

func Cmd() *cli.Command {
	var prompt string

	cmd := &cli.Command{
		Name:  "run",
		Usage: "plan a web automation task with Bedrock and execute it in a browser",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name:        "prompt",
				UsageText:   "<prompt>",
				Destination: &prompt,
				Min:         1,
				Max:         1,
			},
		},
		Flags: runflow.BrowserFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg := runflow.LoadConfig(cmd)

			common.LogBannerMsg([]string{"AI WEB EXECUTOR - Starting"}, 2)

			log.Info("generating execution plan from prompt")
			p, err := planner.New(ctx, cfg)
			if err != nil {
				return err
			}

			plan, err := p.Plan(ctx, prompt)
			if err != nil {
				return err
			}

			display.LogPlan(plan)

			runErr := runflow.ExecuteWithHistory(ctx, cfg, cmd, prompt, plan)
			if runErr != nil {
				log.Errorf("execution failed: %s", runErr)
				log.Infof("check %s directory for screenshots and traces", cfg.Artifacts.Dir)
				return runErr
			}

			common.LogBannerMsg([]string{"EXECUTION COMPLETED SUCCESSFULLY"}, 2)
			return nil
		},
	}

	return cmd
}
