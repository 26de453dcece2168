package serve

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/Adarsh505-cloud/ai-web-executor/testpage"
)

func Cmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "serve the bundled demo login/timesheet page for local testing",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "port",
				Usage: "port to listen on",
				Value: 8000,
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			addr := fmt.Sprintf("localhost:%d", cmd.Int("port"))
			return testpage.ListenAndServe(addr)
		},
	}
}
