package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	execcmd "github.com/Adarsh505-cloud/ai-web-executor/cmd/exec"
	historycmd "github.com/Adarsh505-cloud/ai-web-executor/cmd/history"
	"github.com/Adarsh505-cloud/ai-web-executor/cmd/install"
	plancmd "github.com/Adarsh505-cloud/ai-web-executor/cmd/plan"
	runcmd "github.com/Adarsh505-cloud/ai-web-executor/cmd/run"
	"github.com/Adarsh505-cloud/ai-web-executor/cmd/serve"
)

func main() {
	cmd := &cli.Command{
		Name:    "ai-web-executor",
		Usage:   "drive a browser from natural language with an AWS Bedrock planner",
		Version: "0.1.0",
		Commands: []*cli.Command{
			runcmd.Cmd(),
			plancmd.Cmd(),
			execcmd.Cmd(),
			historycmd.Cmd(),
			serve.Cmd(),
			install.Cmd(),
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := cmd.Run(ctx, os.Args)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			log.Warn("execution interrupted by user")
			os.Exit(130)
		}

		fmt.Println(err)
		os.Exit(1)
	}
}
