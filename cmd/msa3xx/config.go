package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/gophertribe/msa3xx"
	"github.com/gophertribe/msa3xx/cmd/msa3xx/console"
)

var configCmd = cli.Command{
	Name:  "config",
	Usage: "inspect and change sensor configuration",
	Subcommands: cli.Commands{
		&configShowCmd,
		&configRangeCmd,
		&configBandwidthCmd,
		&configPowerModeCmd,
		&configDataRateCmd,
		&configResolutionCmd,
	},
}

var configShowCmd = cli.Command{
	Name:  "show",
	Usage: "read the current configuration registers",
	Flags: busFlags,
	Action: func(c *cli.Context) error {
		ctx := console.SetVerbose(context.Background(), c.Bool("verbose"))
		s, err := openSensor(c)
		if err != nil {
			return console.Exit(1, "adapter initialization error: %s", console.Red(err))
		}
		id, err := s.PartID(ctx)
		if err != nil {
			return console.Exit(1, "error reading part id: %s", console.Red(err))
		}
		mode, err := s.PowerMode(ctx)
		if err != nil {
			return console.Exit(1, "error reading power mode: %s", console.Red(err))
		}
		bw, err := s.Bandwidth(ctx)
		if err != nil {
			return console.Exit(1, "error reading bandwidth: %s", console.Red(err))
		}
		dr, err := s.DataRate(ctx)
		if err != nil {
			return console.Exit(1, "error reading data rate: %s", console.Red(err))
		}
		console.Printf("part id:    %s\n", console.White(fmt.Sprintf("%#02x", id)))
		console.Printf("power mode: %s\n", console.White(mode))
		console.Printf("bandwidth:  %s\n", console.White(fmt.Sprintf("%#04b", byte(bw))))
		console.Printf("data rate:  %s\n", console.White(fmt.Sprintf("%#04b", byte(dr))))
		console.Printf("range:      %s (cached)\n", console.White(s.Range()))
		return nil
	},
}

var ranges = map[string]msa3xx.Range{
	"2g":  msa3xx.Range2G,
	"4g":  msa3xx.Range4G,
	"8g":  msa3xx.Range8G,
	"16g": msa3xx.Range16G,
}

var configRangeCmd = cli.Command{
	Name:      "range",
	Usage:     "set the measurement range",
	ArgsUsage: "<2g|4g|8g|16g>",
	Flags: append([]cli.Flag{
		&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "skip confirmation"},
	}, busFlags...),
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return console.Exit(1, "expected 1 argument, got %d", c.NArg())
		}
		rng, ok := ranges[c.Args().Get(0)]
		if !ok {
			return console.Exit(1, "unknown range %s", console.Red(c.Args().Get(0)))
		}
		if !c.Bool("yes") {
			answer, err := console.YesOrNo(fmt.Sprintf("set range to %s?", rng))
			if err != nil {
				return console.Exit(1, "prompt error: %s", console.Red(err))
			}
			if answer != console.Yes {
				console.Print("aborted")
				return nil
			}
		}
		ctx := console.SetVerbose(context.Background(), c.Bool("verbose"))
		s, err := openSensor(c)
		if err != nil {
			return console.Exit(1, "adapter initialization error: %s", console.Red(err))
		}
		err = s.SetRange(ctx, rng)
		if err != nil {
			return console.Exit(1, "error setting range: %s", console.Red(err))
		}
		console.PInfof(console.PictoPin, "range set to %s", console.Green(rng))
		return nil
	},
}

var bandwidths = map[string]msa3xx.Bandwidth{
	"1.95":  msa3xx.Bandwidth1_95Hz,
	"3.9":   msa3xx.Bandwidth3_9Hz,
	"7.81":  msa3xx.Bandwidth7_81Hz,
	"15.63": msa3xx.Bandwidth15_63Hz,
	"31.25": msa3xx.Bandwidth31_25Hz,
	"62.5":  msa3xx.Bandwidth62_5Hz,
	"125":   msa3xx.Bandwidth125Hz,
	"250":   msa3xx.Bandwidth250Hz,
	"500":   msa3xx.Bandwidth500Hz,
}

var configBandwidthCmd = cli.Command{
	Name:      "bandwidth",
	Aliases:   []string{"bw"},
	Usage:     "set the low-pass filter bandwidth in Hz",
	ArgsUsage: "<1.95|3.9|7.81|15.63|31.25|62.5|125|250|500>",
	Flags:     busFlags,
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return console.Exit(1, "expected 1 argument, got %d", c.NArg())
		}
		bw, ok := bandwidths[c.Args().Get(0)]
		if !ok {
			return console.Exit(1, "unknown bandwidth %s", console.Red(c.Args().Get(0)))
		}
		ctx := console.SetVerbose(context.Background(), c.Bool("verbose"))
		s, err := openSensor(c)
		if err != nil {
			return console.Exit(1, "adapter initialization error: %s", console.Red(err))
		}
		err = s.SetBandwidth(ctx, bw)
		if err != nil {
			return console.Exit(1, "error setting bandwidth: %s", console.Red(err))
		}
		console.PInfof(console.PictoPin, "bandwidth set to %sHz", console.Green(c.Args().Get(0)))
		return nil
	},
}

var powerModes = map[string]msa3xx.PowerMode{
	"normal":  msa3xx.PowerNormal,
	"low":     msa3xx.PowerLow,
	"suspend": msa3xx.PowerSuspend,
}

var configPowerModeCmd = cli.Command{
	Name:      "powermode",
	Aliases:   []string{"pm"},
	Usage:     "set the power mode",
	ArgsUsage: "<normal|low|suspend>",
	Flags:     busFlags,
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return console.Exit(1, "expected 1 argument, got %d", c.NArg())
		}
		mode, ok := powerModes[c.Args().Get(0)]
		if !ok {
			return console.Exit(1, "unknown power mode %s", console.Red(c.Args().Get(0)))
		}
		ctx := console.SetVerbose(context.Background(), c.Bool("verbose"))
		s, err := openSensor(c)
		if err != nil {
			return console.Exit(1, "adapter initialization error: %s", console.Red(err))
		}
		err = s.SetPowerMode(ctx, mode)
		if err != nil {
			return console.Exit(1, "error setting power mode: %s", console.Red(err))
		}
		console.PInfof(console.PictoPin, "power mode set to %s", console.Green(mode))
		return nil
	},
}

var dataRates = map[string]msa3xx.DataRate{
	"1":     msa3xx.DataRate1Hz,
	"1.95":  msa3xx.DataRate1_95Hz,
	"3.9":   msa3xx.DataRate3_9Hz,
	"7.81":  msa3xx.DataRate7_81Hz,
	"15.63": msa3xx.DataRate15_63Hz,
	"31.25": msa3xx.DataRate31_25Hz,
	"62.5":  msa3xx.DataRate62_5Hz,
	"125":   msa3xx.DataRate125Hz,
	"250":   msa3xx.DataRate250Hz,
	"500":   msa3xx.DataRate500Hz,
	"1000":  msa3xx.DataRate1000Hz,
}

var configDataRateCmd = cli.Command{
	Name:      "datarate",
	Aliases:   []string{"odr"},
	Usage:     "set the output data rate in Hz",
	ArgsUsage: "<1|1.95|3.9|7.81|15.63|31.25|62.5|125|250|500|1000>",
	Flags:     busFlags,
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return console.Exit(1, "expected 1 argument, got %d", c.NArg())
		}
		dr, ok := dataRates[c.Args().Get(0)]
		if !ok {
			return console.Exit(1, "unknown data rate %s", console.Red(c.Args().Get(0)))
		}
		ctx := console.SetVerbose(context.Background(), c.Bool("verbose"))
		s, err := openSensor(c)
		if err != nil {
			return console.Exit(1, "adapter initialization error: %s", console.Red(err))
		}
		err = s.SetDataRate(ctx, dr)
		if err != nil {
			return console.Exit(1, "error setting data rate: %s", console.Red(err))
		}
		console.PInfof(console.PictoPin, "data rate set to %sHz", console.Green(c.Args().Get(0)))
		return nil
	},
}

var resolutions = map[string]msa3xx.Resolution{
	"14": msa3xx.Resolution14Bit,
	"12": msa3xx.Resolution12Bit,
	"10": msa3xx.Resolution10Bit,
	"8":  msa3xx.Resolution8Bit,
}

var configResolutionCmd = cli.Command{
	Name:      "resolution",
	Aliases:   []string{"res"},
	Usage:     "set the sample resolution in bits",
	ArgsUsage: "<14|12|10|8>",
	Flags:     busFlags,
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return console.Exit(1, "expected 1 argument, got %d", c.NArg())
		}
		res, ok := resolutions[c.Args().Get(0)]
		if !ok {
			return console.Exit(1, "unknown resolution %s", console.Red(c.Args().Get(0)))
		}
		ctx := console.SetVerbose(context.Background(), c.Bool("verbose"))
		s, err := openSensor(c)
		if err != nil {
			return console.Exit(1, "adapter initialization error: %s", console.Red(err))
		}
		err = s.SetResolution(ctx, res)
		if err != nil {
			return console.Exit(1, "error setting resolution: %s", console.Red(err))
		}
		console.PInfof(console.PictoPin, "resolution set to %s bits", console.Green(c.Args().Get(0)))
		return nil
	},
}
