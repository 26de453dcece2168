package exec

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/Adarsh505-cloud/ai-web-executor/cmd/internal/display"
	"github.com/Adarsh505-cloud/ai-web-executor/cmd/internal/runflow"
	"github.com/Adarsh505-cloud/ai-web-executor/common"
	"github.com/Adarsh505-cloud/ai-web-executor/schema"
)

func Cmd() *cli.Command {
	var planFile string

	cmd := &cli.Command{
		Name:  "exec",
		Usage: "execute a previously saved plan JSON file",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name:        "plan-file",
				UsageText:   "<plan-file>",
				Destination: &planFile,
				Min:         1,
				Max:         1,
			},
		},
		Flags: runflow.BrowserFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg := runflow.LoadConfig(cmd)

			data, err := os.ReadFile(planFile)
			if err != nil {
				return fmt.Errorf("failed to read plan file %s: %w", planFile, err)
			}

			plan, err := schema.ParsePlan(data)
			if err != nil {
				return err
			}

			display.LogPlan(plan)

			runErr := runflow.ExecuteWithHistory(ctx, cfg, cmd, "exec:"+planFile, plan)
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
