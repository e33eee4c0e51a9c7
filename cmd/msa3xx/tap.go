package main

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/gophertribe/msa3xx"
	"github.com/gophertribe/msa3xx/cmd/msa3xx/console"
)

var tapCmd = cli.Command{
	Name:  "tap",
	Usage: "tap detection",
	Subcommands: cli.Commands{
		&tapWatchCmd,
	},
}

var tapWatchCmd = cli.Command{
	Name:  "watch",
	Usage: "arm tap detection and poll until interrupted",
	Flags: append([]cli.Flag{
		&cli.IntFlag{Name: "count", Value: 1, Usage: "1 for single taps, 2 for double taps"},
		&cli.UintFlag{Name: "threshold", Value: 25, Usage: "detector threshold, 0-31"},
		&cli.DurationFlag{Name: "interval", Value: 100 * time.Millisecond},
	}, busFlags...),
	Action: func(c *cli.Context) error {
		ctx := console.SetVerbose(context.Background(), c.Bool("verbose"))
		ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
		defer stop()
		s, err := openSensor(c)
		if err != nil {
			return console.Exit(1, "adapter initialization error: %s", console.Red(err))
		}
		err = s.Configure(ctx)
		if err != nil {
			return console.Exit(1, "error configuring %s: %s", s, console.Red(err))
		}
		err = s.EnableTapDetection(ctx,
			msa3xx.WithTapCount(c.Int("count")),
			msa3xx.WithTapThreshold(byte(c.Uint("threshold"))),
		)
		if err != nil {
			return console.Exit(1, "error enabling tap detection: %s", console.Red(err))
		}
		console.Infof("tap detection armed, press ctrl-c to stop")
		ticker := time.NewTicker(c.Duration("interval"))
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				console.Print("done")
				return nil
			case <-ticker.C:
				tapped, err := s.Tapped(ctx)
				if err != nil {
					console.Errorf("error checking tap status: %s", console.Red(err))
					continue
				}
				if tapped {
					console.PInfof(console.PictoHand, "%s", console.Yellow("tap detected"))
				}
			}
		}
	},
}
