package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "metavote:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:                 "metavote",
		Usage:                "cast gasless votes through a meta-transaction relay",
		EnableBashCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "env-file",
				Usage:   "dotenv file loaded before reading the environment",
				EnvVars: []string{"METAVOTE_ENV_FILE"},
				Value:   ".env",
			},
		},
		Commands: []*cli.Command{
			VoteCmd,
			TallyCmd,
			NonceCmd,
			AddressesCmd,
		},
	}
}
