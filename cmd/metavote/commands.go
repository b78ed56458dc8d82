package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"github.com/votechain/metavote/internal/app"
	"github.com/votechain/metavote/internal/config"
	"github.com/votechain/metavote/internal/logger"
	"github.com/votechain/metavote/internal/metatx"
	"github.com/votechain/metavote/internal/pipeline"
)

var VoteCmd = &cli.Command{
	Name:  "vote",
	Usage: "sign a vote and hand it to the relay",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "topic", Required: true},
		&cli.StringFlag{Name: "option", Required: true},
		&cli.BoolFlag{
			Name:  "retry",
			Usage: "restart with a fresh nonce after network failures",
		},
	},
	Action: func(cctx *cli.Context) error {
		a, err := setup(cctx)
		if err != nil {
			return err
		}
		defer a.Close()

		topic, option := cctx.String("topic"), cctx.String("option")
		var outcome *metatx.RelayOutcome
		if cctx.Bool("retry") {
			outcome, err = a.Pipeline.SubmitWithRetry(cctx.Context, topic, option, pipeline.DefaultRetryConfig())
		} else {
			outcome, err = a.Pipeline.Submit(cctx.Context, topic, option)
		}
		if err != nil {
			return errors.Wrap(err, "vote")
		}
		return printJSON(outcome)
	},
}

var TallyCmd = &cli.Command{
	Name:  "tally",
	Usage: "read vote counts from the voting contract",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "topic", Required: true},
		&cli.StringSliceFlag{Name: "option", Required: true, Usage: "repeat for every option to count"},
	},
	Action: func(cctx *cli.Context) error {
		a, err := setup(cctx)
		if err != nil {
			return err
		}
		defer a.Close()

		addrs, err := a.Resolver.Resolve(cctx.Context)
		if err != nil {
			return errors.Wrap(err, "resolve addresses")
		}
		counts, err := a.Reader.Tally(cctx.Context, addrs.VotingContract, cctx.String("topic"), cctx.StringSlice("option"))
		if err != nil {
			return errors.Wrap(err, "tally")
		}

		votes := make(map[string]string, len(counts))
		for option, count := range counts {
			votes[option] = count.String()
		}
		return printJSON(votes)
	},
}

var NonceCmd = &cli.Command{
	Name:  "nonce",
	Usage: "print the forwarder nonce of an address, the signer's by default",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "sender"},
	},
	Action: func(cctx *cli.Context) error {
		a, err := setup(cctx)
		if err != nil {
			return err
		}
		defer a.Close()

		var sender common.Address
		if s := cctx.String("sender"); s != "" {
			if sender, err = metatx.ParseAddress("sender", s); err != nil {
				return err
			}
		} else if sender, err = a.Signer.Address(cctx.Context); err != nil {
			return errors.Wrap(err, "signer address")
		}

		addrs, err := a.Resolver.Resolve(cctx.Context)
		if err != nil {
			return errors.Wrap(err, "resolve addresses")
		}
		nonce, err := a.Reader.Nonce(cctx.Context, addrs.Forwarder, sender)
		if err != nil {
			return errors.Wrap(err, "nonce")
		}
		return printJSON(map[string]string{
			"sender":    sender.Hex(),
			"forwarder": addrs.Forwarder.Hex(),
			"nonce":     nonce.String(),
		})
	},
}

var AddressesCmd = &cli.Command{
	Name:  "addresses",
	Usage: "print the voting and forwarder contract addresses in use",
	Action: func(cctx *cli.Context) error {
		a, err := setup(cctx)
		if err != nil {
			return err
		}
		defer a.Close()

		addrs, err := a.Resolver.Resolve(cctx.Context)
		if err != nil {
			return errors.Wrap(err, "resolve addresses")
		}
		return printJSON(map[string]string{
			"VOTING_ADDRESS":    addrs.VotingContract.Hex(),
			"FORWARDER_ADDRESS": addrs.Forwarder.Hex(),
			"chain_id":          a.ChainID.String(),
		})
	},
}

func setup(cctx *cli.Context) (*app.App, error) {
	if err := config.LoadDotEnv(cctx.String("env-file")); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, errors.Wrap(err, "load configuration")
	}
	logger.InitLogger(cfg.Stage, cfg.LogLevel)

	a, err := app.New(cctx.Context, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "initialize")
	}
	return a, nil
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
