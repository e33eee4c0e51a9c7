package msa3xx

import (
	"context"
	"encoding/binary"
	"fmt"
)

// StandardGravity converts g units into m/s².
const StandardGravity = 9.806

var ErrInvalidArgument = fmt.Errorf("value outside the enumerated legal set")
var ErrWrongDevice = fmt.Errorf("part id mismatch")

// Acceleration holds one three-axis reading in m/s².
type Acceleration struct {
	X float64
	Y float64
	Z float64
}

func (a Acceleration) String() string {
	return fmt.Sprintf("X:%.3f Y:%.3f Z:%.3f m/s²", a.X, a.Y, a.Z)
}

// Sensor represents an MSA301 or MSA311 triaxial accelerometer on an I2C bus.
// Typical usage:
//
//	s := NewMSA301(bus)
//	err := s.Configure(ctx)
//	acc, err := s.ReadAcceleration(ctx)
//
// The range and resolution last written to the device are cached so raw
// samples can be scaled without extra bus traffic; the cache is only updated
// after the corresponding register write succeeded. The Sensor performs no
// internal locking: callers sharing one instance across goroutines must
// serialize access themselves.
type Sensor struct {
	transport I2CBus
	addr      byte
	name      string

	rng      Range
	res      Resolution
	tapCount int

	buf []byte
}

type Opt func(*Sensor)

// WithAddress overrides the part's default bus address.
func WithAddress(addr byte) Opt {
	return func(s *Sensor) {
		s.addr = addr
	}
}

// NewMSA301 creates a driver handle for an MSA301 at the default address 0x26.
// The bus is borrowed; no transaction happens until Configure or one of the
// accessors is called.
func NewMSA301(trans I2CBus, opts ...Opt) *Sensor {
	return newSensor(trans, "MSA301", MSA301Address, opts...)
}

// NewMSA311 creates a driver handle for an MSA311 at the default address 0x62.
// The MSA311 shares the MSA301 register map.
func NewMSA311(trans I2CBus, opts ...Opt) *Sensor {
	return newSensor(trans, "MSA311", MSA311Address, opts...)
}

func newSensor(trans I2CBus, name string, addr byte, opts ...Opt) *Sensor {
	s := &Sensor{
		transport: trans,
		addr:      addr,
		name:      name,
		// power-on register defaults
		rng: Range2G,
		res: Resolution14Bit,
		buf: make([]byte, 6),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Sensor) String() string {
	return fmt.Sprintf("%s{addr:%#02x range:%s}", s.name, s.addr, s.rng)
}

// Configure probes the part id and applies the recommended operating
// defaults: all axes enabled, normal power mode, 500Hz data rate, 250Hz
// bandwidth, ±4g range, 14-bit resolution.
func (s *Sensor) Configure(ctx context.Context) error {
	id, err := s.PartID(ctx)
	if err != nil {
		return err
	}
	if id != partID {
		return fmt.Errorf("%s not found (part id %#02x): %w", s.name, id, ErrWrongDevice)
	}
	if err = s.EnableAxes(ctx, true, true, true); err != nil {
		return err
	}
	if err = s.SetPowerMode(ctx, PowerNormal); err != nil {
		return err
	}
	if err = s.SetDataRate(ctx, DataRate500Hz); err != nil {
		return err
	}
	if err = s.SetBandwidth(ctx, Bandwidth250Hz); err != nil {
		return err
	}
	if err = s.SetRange(ctx, Range4G); err != nil {
		return err
	}
	return s.SetResolution(ctx, Resolution14Bit)
}

// PartID reads the part identification register (0x13 on MSA301/MSA311).
func (s *Sensor) PartID(ctx context.Context) (byte, error) {
	id, err := s.readRegister(ctx, regPartID)
	if err != nil {
		return 0, fmt.Errorf("could not read part id: %w", err)
	}
	return id, nil
}

// SetRange writes the range-select bits, leaving the resolution bits of the
// shared register untouched, and updates the cached sample scale.
func (s *Sensor) SetRange(ctx context.Context, r Range) error {
	if !r.valid() {
		return fmt.Errorf("range %#04b: %w", byte(r), ErrInvalidArgument)
	}
	err := s.updateRegister(ctx, regResRange, func(v byte) byte {
		return setBits(v, byte(r), rangeWidth, rangeShift)
	})
	if err != nil {
		return fmt.Errorf("could not set range: %w", err)
	}
	s.rng = r
	return nil
}

// Range returns the cached range; no bus transaction is performed.
func (s *Sensor) Range() Range {
	return s.rng
}

// SetResolution writes the resolution bits, leaving the range bits of the
// shared register untouched, and updates the cached sample width.
func (s *Sensor) SetResolution(ctx context.Context, r Resolution) error {
	if !r.valid() {
		return fmt.Errorf("resolution %#04b: %w", byte(r), ErrInvalidArgument)
	}
	err := s.updateRegister(ctx, regResRange, func(v byte) byte {
		return setBits(v, byte(r), resolutionWidth, resolutionShift)
	})
	if err != nil {
		return fmt.Errorf("could not set resolution: %w", err)
	}
	s.res = r
	return nil
}

// Resolution returns the cached resolution; no bus transaction is performed.
func (s *Sensor) Resolution() Resolution {
	return s.res
}

// SetPowerMode writes the power mode bits, preserving the bandwidth field
// that shares the register.
func (s *Sensor) SetPowerMode(ctx context.Context, m PowerMode) error {
	if !m.valid() {
		return fmt.Errorf("power mode %#04b: %w", byte(m), ErrInvalidArgument)
	}
	err := s.updateRegister(ctx, regPowerMode, func(v byte) byte {
		return setBits(v, byte(m), powerModeWidth, powerModeShift)
	})
	if err != nil {
		return fmt.Errorf("could not set power mode: %w", err)
	}
	return nil
}

// PowerMode reads the current power mode from the device.
func (s *Sensor) PowerMode(ctx context.Context) (PowerMode, error) {
	v, err := s.readRegister(ctx, regPowerMode)
	if err != nil {
		return 0, fmt.Errorf("could not read power mode: %w", err)
	}
	return PowerMode(getBits(v, powerModeWidth, powerModeShift)), nil
}

// SetBandwidth writes the low-pass filter bits, preserving the power mode
// field that shares the register.
func (s *Sensor) SetBandwidth(ctx context.Context, bw Bandwidth) error {
	if !bw.valid() {
		return fmt.Errorf("bandwidth %#04b: %w", byte(bw), ErrInvalidArgument)
	}
	err := s.updateRegister(ctx, regPowerMode, func(v byte) byte {
		return setBits(v, byte(bw), bandwidthWidth, bandwidthShift)
	})
	if err != nil {
		return fmt.Errorf("could not set bandwidth: %w", err)
	}
	return nil
}

// Bandwidth reads the current low-pass filter setting from the device.
func (s *Sensor) Bandwidth(ctx context.Context) (Bandwidth, error) {
	v, err := s.readRegister(ctx, regPowerMode)
	if err != nil {
		return 0, fmt.Errorf("could not read bandwidth: %w", err)
	}
	return Bandwidth(getBits(v, bandwidthWidth, bandwidthShift)), nil
}

// SetDataRate writes the output data rate bits, preserving the axis enable
// flags that share the register.
func (s *Sensor) SetDataRate(ctx context.Context, dr DataRate) error {
	if !dr.valid() {
		return fmt.Errorf("data rate %#04b: %w", byte(dr), ErrInvalidArgument)
	}
	err := s.updateRegister(ctx, regODR, func(v byte) byte {
		return setBits(v, byte(dr), dataRateWidth, dataRateShift)
	})
	if err != nil {
		return fmt.Errorf("could not set data rate: %w", err)
	}
	return nil
}

// DataRate reads the current output data rate from the device.
func (s *Sensor) DataRate(ctx context.Context) (DataRate, error) {
	v, err := s.readRegister(ctx, regODR)
	if err != nil {
		return 0, fmt.Errorf("could not read data rate: %w", err)
	}
	return DataRate(getBits(v, dataRateWidth, dataRateShift)), nil
}

// EnableAxes switches individual axes on or off. A disabled axis keeps
// reporting its sample registers but stops updating them.
func (s *Sensor) EnableAxes(ctx context.Context, x, y, z bool) error {
	err := s.updateRegister(ctx, regODR, func(v byte) byte {
		v = setBit(v, disableXBit, !x)
		v = setBit(v, disableYBit, !y)
		return setBit(v, disableZBit, !z)
	})
	if err != nil {
		return fmt.Errorf("could not set axis enable flags: %w", err)
	}
	return nil
}

// ReadAcceleration performs a single 6-byte read of the sample registers and
// converts the three little-endian words into m/s² using the cached range
// and resolution. The read is all-or-nothing: on bus failure no reading is
// returned.
func (s *Sensor) ReadAcceleration(ctx context.Context) (Acceleration, error) {
	err := s.transport.WriteToAddr(ctx, s.addr, []byte{regOutXL})
	if err != nil {
		return Acceleration{}, fmt.Errorf("could not set sample register pointer: %w", err)
	}
	err = s.transport.ReadFromAddr(ctx, s.addr, s.buf)
	if err != nil {
		return Acceleration{}, fmt.Errorf("could not read sample registers: %w", err)
	}
	return Acceleration{
		X: convertSample(int16(binary.LittleEndian.Uint16(s.buf[0:2])), s.rng, s.res),
		Y: convertSample(int16(binary.LittleEndian.Uint16(s.buf[2:4])), s.rng, s.res),
		Z: convertSample(int16(binary.LittleEndian.Uint16(s.buf[4:6])), s.rng, s.res),
	}, nil
}

// convertSample scales one raw sample word into m/s². The sample sits in the
// high bits of the 16-bit word; the arithmetic shift drops the unused low
// bits before applying the LSB scale of the configured range.
func convertSample(raw int16, rng Range, res Resolution) float64 {
	bits := res.bits()
	counts := int(1)<<(bits-1) / rng.fullScale()
	return float64(raw>>(16-bits)) / float64(counts) * StandardGravity
}

// TapConfig holds the tap detection parameters. The zero value is not
// usable; defaults are applied by EnableTapDetection.
type TapConfig struct {
	// TapCount is 1 to detect single taps, 2 for double taps.
	TapCount int
	// Threshold of the tap detector in counts; higher is less sensitive.
	Threshold byte
	// LongInitialWindow selects a 70ms spike window instead of 50ms.
	LongInitialWindow bool
	// LongQuietWindow selects a 30ms quiet period instead of 20ms.
	LongQuietWindow bool
	// DoubleTapWindow bounds the delay between the two taps of a double tap.
	DoubleTapWindow TapDuration
}

type TapOpt func(*TapConfig)

func WithTapCount(n int) TapOpt {
	return func(c *TapConfig) {
		c.TapCount = n
	}
}

func WithTapThreshold(th byte) TapOpt {
	return func(c *TapConfig) {
		c.Threshold = th
	}
}

func WithDoubleTapWindow(d TapDuration) TapOpt {
	return func(c *TapConfig) {
		c.DoubleTapWindow = d
	}
}

func WithShortInitialWindow() TapOpt {
	return func(c *TapConfig) {
		c.LongInitialWindow = false
	}
}

func WithShortQuietWindow() TapOpt {
	return func(c *TapConfig) {
		c.LongQuietWindow = false
	}
}

// EnableTapDetection arms the single or double tap interrupt. Defaults
// mirror the part's recommended settings: single tap, threshold 25, long
// initial and quiet windows, 250ms double tap window.
func (s *Sensor) EnableTapDetection(ctx context.Context, opts ...TapOpt) error {
	config := TapConfig{
		TapCount:          1,
		Threshold:         25,
		LongInitialWindow: true,
		LongQuietWindow:   true,
		DoubleTapWindow:   TapDuration250Ms,
	}
	for _, opt := range opts {
		opt(&config)
	}
	if config.TapCount != 1 && config.TapCount != 2 {
		return fmt.Errorf("tap count %d (want 1 for single, 2 for double): %w", config.TapCount, ErrInvalidArgument)
	}
	if config.Threshold > 1<<tapThWidth-1 {
		return fmt.Errorf("tap threshold %d: %w", config.Threshold, ErrInvalidArgument)
	}
	if !config.DoubleTapWindow.valid() {
		return fmt.Errorf("double tap window %#03b: %w", byte(config.DoubleTapWindow), ErrInvalidArgument)
	}
	err := s.updateRegister(ctx, regTapDur, func(v byte) byte {
		v = setBit(v, tapQuietBit, config.LongQuietWindow)
		v = setBit(v, tapShockBit, !config.LongInitialWindow)
		if config.TapCount == 2 {
			v = setBits(v, byte(config.DoubleTapWindow), tapDurWidth, tapDurShift)
		}
		return v
	})
	if err != nil {
		return fmt.Errorf("could not set tap windows: %w", err)
	}
	err = s.updateRegister(ctx, regTapTh, func(v byte) byte {
		return setBits(v, config.Threshold, tapThWidth, tapThShift)
	})
	if err != nil {
		return fmt.Errorf("could not set tap threshold: %w", err)
	}
	err = s.updateRegister(ctx, regIntSet0, func(v byte) byte {
		if config.TapCount == 1 {
			return setBit(v, singleTapIntBit, true)
		}
		return setBit(v, doubleTapIntBit, true)
	})
	if err != nil {
		return fmt.Errorf("could not enable tap interrupt: %w", err)
	}
	s.tapCount = config.TapCount
	return nil
}

// Tapped reports whether a tap matching the armed detection mode was
// registered since the last check. Always false before EnableTapDetection.
func (s *Sensor) Tapped(ctx context.Context) (bool, error) {
	if s.tapCount == 0 {
		return false, nil
	}
	status, err := s.readRegister(ctx, regMotionInt)
	if err != nil {
		return false, fmt.Errorf("could not read motion interrupt status: %w", err)
	}
	if s.tapCount == 1 {
		return status&(1<<singleTapIntBit) != 0, nil
	}
	return status&(1<<doubleTapIntBit) != 0, nil
}

func (s *Sensor) readRegister(ctx context.Context, reg byte) (byte, error) {
	err := s.transport.WriteToAddr(ctx, s.addr, []byte{reg})
	if err != nil {
		return 0, fmt.Errorf("could not set register pointer %#02x: %w", reg, err)
	}
	buf := s.buf[:1]
	err = s.transport.ReadFromAddr(ctx, s.addr, buf)
	if err != nil {
		return 0, fmt.Errorf("could not read register %#02x: %w", reg, err)
	}
	return buf[0], nil
}

func (s *Sensor) writeRegister(ctx context.Context, reg, value byte) error {
	err := s.transport.WriteToAddr(ctx, s.addr, []byte{reg, value})
	if err != nil {
		return fmt.Errorf("could not write register %#02x: %w", reg, err)
	}
	return nil
}

// updateRegister performs a read-modify-write of a single register. The bit
// arithmetic is delegated to fn so it stays decoupled from bus I/O.
func (s *Sensor) updateRegister(ctx context.Context, reg byte, fn func(byte) byte) error {
	current, err := s.readRegister(ctx, reg)
	if err != nil {
		return err
	}
	return s.writeRegister(ctx, reg, fn(current))
}
