package main

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/gophertribe/msa3xx/cmd/msa3xx/console"
)

var accelCmd = cli.Command{
	Name:    "accel",
	Aliases: []string{"acc"},
	Usage:   "read acceleration",
	Subcommands: cli.Commands{
		&accelReadCmd,
		&accelWatchCmd,
	},
}

var accelReadCmd = cli.Command{
	Name:  "read",
	Usage: "perform a single acceleration read",
	Flags: append([]cli.Flag{
		&cli.BoolFlag{Name: "init", Usage: "probe and configure the sensor before reading"},
	}, busFlags...),
	Action: func(c *cli.Context) error {
		ctx := console.SetVerbose(context.Background(), c.Bool("verbose"))
		s, err := openSensor(c)
		if err != nil {
			return console.Exit(1, "adapter initialization error: %s", console.Red(err))
		}
		if c.Bool("init") {
			err = s.Configure(ctx)
			if err != nil {
				return console.Exit(1, "error configuring %s: %s", s, console.Red(err))
			}
		}
		acc, err := s.ReadAcceleration(ctx)
		if err != nil {
			return console.Exit(1, "error reading acceleration: %s", console.Red(err))
		}
		console.PInfof(console.PictoRuler, "%s", console.White(acc))
		return nil
	},
}

var accelWatchCmd = cli.Command{
	Name:  "watch",
	Usage: "read acceleration periodically until interrupted",
	Flags: append([]cli.Flag{
		&cli.DurationFlag{Name: "interval", Value: 500 * time.Millisecond},
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
		ticker := time.NewTicker(c.Duration("interval"))
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				console.Print("done")
				return nil
			case <-ticker.C:
				acc, err := s.ReadAcceleration(ctx)
				if err != nil {
					console.Errorf("read error: %s", console.Red(err))
					continue
				}
				console.PInfof(console.PictoRuler, "%s", console.White(acc))
			}
		}
	},
}
