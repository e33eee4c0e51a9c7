package main

import (
	"fmt"
	"strconv"

	"github.com/urfave/cli/v2"
	"gobot.io/x/gobot/v2/platforms/friendlyelec/nanopi"

	"github.com/gophertribe/msa3xx"
	"github.com/gophertribe/msa3xx/adapter"
	"github.com/gophertribe/msa3xx/i2c"
)

// busFlags are shared by every command that talks to the sensor.
var busFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "adapter",
		Aliases: []string{"a"},
		Value:   "mcp2221",
		Usage:   "bus adapter: mcp2221, native or gobot",
	},
	&cli.StringFlag{
		Name:  "bus",
		Value: "1",
		Usage: "bus identifier for the native and gobot adapters",
	},
	&cli.StringFlag{
		Name:    "sensor",
		Aliases: []string{"s"},
		Value:   "msa301",
		Usage:   "sensor part: msa301 or msa311",
	},
	&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}},
}

func openBus(c *cli.Context) (msa3xx.I2CBus, error) {
	switch c.String("adapter") {
	case "mcp2221":
		return adapter.NewMCP2221(), nil
	case "native":
		return i2c.NewGenericBus(c.String("bus"))
	case "gobot":
		npi := nanopi.NewNeoAdaptor()
		err := npi.I2cBusAdaptor.Connect()
		if err != nil {
			return nil, fmt.Errorf("adaptor connect error: %w", err)
		}
		busID, err := strconv.Atoi(c.String("bus"))
		if err != nil {
			return nil, fmt.Errorf("invalid bus id %q: %w", c.String("bus"), err)
		}
		return adapter.NewGobotBus(npi, busID), nil
	}
	return nil, fmt.Errorf("unknown adapter %q", c.String("adapter"))
}

func openSensor(c *cli.Context) (*msa3xx.Sensor, error) {
	bus, err := openBus(c)
	if err != nil {
		return nil, err
	}
	switch c.String("sensor") {
	case "msa301":
		return msa3xx.NewMSA301(bus), nil
	case "msa311":
		return msa3xx.NewMSA311(bus), nil
	}
	return nil, fmt.Errorf("unknown sensor %q", c.String("sensor"))
}
