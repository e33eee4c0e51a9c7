package adapter

import (
	"context"
	"fmt"
	"sync"

	gi2c "gobot.io/x/gobot/v2/drivers/i2c"

	"github.com/gophertribe/msa3xx"
)

var _ msa3xx.I2CBus = &GobotBus{}

// GobotBus adapts a gobot I2C connector (a board adaptor such as nanopi or
// raspi) to msa3xx.I2CBus. Generic drivers are created lazily per device
// address and kept until Release.
type GobotBus struct {
	connector gi2c.Connector
	busID     int

	mx      sync.Mutex
	devices map[byte]*gi2c.GenericDriver
}

func NewGobotBus(connector gi2c.Connector, busID int) *GobotBus {
	return &GobotBus{
		connector: connector,
		busID:     busID,
		devices:   make(map[byte]*gi2c.GenericDriver),
	}
}

func (b *GobotBus) ReadFromAddr(ctx context.Context, address byte, buffer []byte) error {
	dev, err := b.device(address)
	if err != nil {
		return err
	}
	err = dev.Read(buffer)
	if err != nil {
		return fmt.Errorf("could not read from i2c device %x: %w", address, err)
	}
	return nil
}

func (b *GobotBus) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	dev, err := b.device(address)
	if err != nil {
		return err
	}
	err = dev.Write(buffer)
	if err != nil {
		return fmt.Errorf("could not write to i2c device %x: %w", address, err)
	}
	return nil
}

func (b *GobotBus) Release(ctx context.Context) error {
	b.mx.Lock()
	defer b.mx.Unlock()
	var last error
	for addr, dev := range b.devices {
		if err := dev.Halt(); err != nil {
			last = fmt.Errorf("could not halt device %x: %w", addr, err)
		}
		delete(b.devices, addr)
	}
	return last
}

func (b *GobotBus) device(address byte) (*gi2c.GenericDriver, error) {
	b.mx.Lock()
	defer b.mx.Unlock()
	if dev, ok := b.devices[address]; ok {
		return dev, nil
	}
	dev := gi2c.NewGenericDriver(b.connector, "msa3xx", int(address), func(c gi2c.Config) {
		c.SetBus(b.busID)
	})
	if err := dev.Start(); err != nil {
		return nil, fmt.Errorf("could not start i2c device %x: %w", address, err)
	}
	b.devices[address] = dev
	return dev, nil
}
