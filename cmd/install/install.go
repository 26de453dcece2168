package install

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/playwright-community/playwright-go"
	"github.com/urfave/cli/v3"
)

func Cmd() *cli.Command {
	return &cli.Command{
		Name:  "install",
		Usage: "download the Playwright driver and chromium browser binaries",
		Action: func(_ context.Context, _ *cli.Command) error {
			log.Info("installing Playwright driver and chromium")
			return playwright.Install(&playwright.RunOptions{
				Browsers: []string{"chromium"},
			})
		},
	}
}
