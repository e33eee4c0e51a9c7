package msa3xx

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockI2CBus is a mock implementation of I2CBus using testify/mock.
type MockI2CBus struct {
	mock.Mock
}

func (m *MockI2CBus) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	args := m.Called(ctx, address, buffer)
	return args.Error(0)
}

func (m *MockI2CBus) ReadFromAddr(ctx context.Context, address byte, buffer []byte) error {
	args := m.Called(ctx, address, buffer)
	if args.Get(0) != nil {
		// Copy mock data to buffer if provided
		if data, ok := args.Get(0).([]byte); ok && len(data) <= len(buffer) {
			copy(buffer, data)
		}
	}
	return args.Error(1)
}

func (m *MockI2CBus) Release(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// expectRegisterRead scripts the pointer-write/read pair of one register read.
func expectRegisterRead(bus *MockI2CBus, reg, value byte) {
	bus.On("WriteToAddr", mock.Anything, MSA301Address, []byte{reg}).Return(nil).Once()
	bus.On("ReadFromAddr", mock.Anything, MSA301Address, mock.Anything).Return([]byte{value}, nil).Once()
}

func TestSensor_SetRange(t *testing.T) {
	tests := []struct {
		name     string
		current  byte
		rng      Range
		expected byte
	}{
		{"2g into cleared register", 0x00, Range2G, 0b00000000},
		{"4g into cleared register", 0x00, Range4G, 0b00000001},
		{"8g into cleared register", 0x00, Range8G, 0b00000010},
		{"16g into cleared register", 0x00, Range16G, 0b00000011},
		{"8g preserves resolution bits", 0b00000101, Range8G, 0b00000110},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := new(MockI2CBus)
			sensor := NewMSA301(bus)
			expectRegisterRead(bus, regResRange, tt.current)
			bus.On("WriteToAddr", mock.Anything, MSA301Address, []byte{regResRange, tt.expected}).Return(nil).Once()

			err := sensor.SetRange(context.Background(), tt.rng)

			assert.NoError(t, err)
			assert.Equal(t, tt.rng, sensor.Range())
			bus.AssertExpectations(t)
		})
	}
}

func TestSensor_SetRange_Invalid(t *testing.T) {
	bus := new(MockI2CBus)
	sensor := NewMSA301(bus)

	err := sensor.SetRange(context.Background(), Range(0b100))

	assert.ErrorIs(t, err, ErrInvalidArgument)
	// previously configured range stays in place and no bus traffic happened
	assert.Equal(t, Range2G, sensor.Range())
	bus.AssertNotCalled(t, "WriteToAddr", mock.Anything, mock.Anything, mock.Anything)
}

func TestSensor_SetRange_BusError(t *testing.T) {
	bus := new(MockI2CBus)
	sensor := NewMSA301(bus)
	expectRegisterRead(bus, regResRange, 0x00)
	bus.On("WriteToAddr", mock.Anything, MSA301Address, []byte{regResRange, 0b10}).
		Return(errors.New("no ack")).Once()

	err := sensor.SetRange(context.Background(), Range8G)

	assert.ErrorContains(t, err, "could not set range")
	// cache must not advance past the failed register write
	assert.Equal(t, Range2G, sensor.Range())
	bus.AssertExpectations(t)
}

func TestSensor_SetBandwidth_PreservesPowerMode(t *testing.T) {
	bus := new(MockI2CBus)
	sensor := NewMSA301(bus)
	// device currently in low power mode (bits 7:6 = 01)
	expectRegisterRead(bus, regPowerMode, 0b01000000)
	bus.On("WriteToAddr", mock.Anything, MSA301Address, []byte{regPowerMode, 0b01010010}).Return(nil).Once()

	err := sensor.SetBandwidth(context.Background(), Bandwidth250Hz)

	assert.NoError(t, err)
	bus.AssertExpectations(t)
}

func TestSensor_SetPowerMode_PreservesBandwidth(t *testing.T) {
	bus := new(MockI2CBus)
	sensor := NewMSA301(bus)
	expectRegisterRead(bus, regPowerMode, 0b00010010)
	bus.On("WriteToAddr", mock.Anything, MSA301Address, []byte{regPowerMode, 0b10010010}).Return(nil).Once()

	err := sensor.SetPowerMode(context.Background(), PowerSuspend)

	assert.NoError(t, err)
	bus.AssertExpectations(t)
}

func TestSensor_ConfigGetters(t *testing.T) {
	bus := new(MockI2CBus)
	sensor := NewMSA301(bus)
	ctx := context.Background()

	expectRegisterRead(bus, regPowerMode, 0b01010010)
	mode, err := sensor.PowerMode(ctx)
	assert.NoError(t, err)
	assert.Equal(t, PowerLow, mode)

	expectRegisterRead(bus, regPowerMode, 0b01010010)
	bw, err := sensor.Bandwidth(ctx)
	assert.NoError(t, err)
	assert.Equal(t, Bandwidth250Hz, bw)

	expectRegisterRead(bus, regODR, 0b11101001)
	dr, err := sensor.DataRate(ctx)
	assert.NoError(t, err)
	assert.Equal(t, DataRate500Hz, dr)

	bus.AssertExpectations(t)
}

func TestSensor_InvalidSettings(t *testing.T) {
	tests := []struct {
		name string
		op   func(*Sensor, context.Context) error
	}{
		{"bandwidth reserved encoding", func(s *Sensor, ctx context.Context) error {
			return s.SetBandwidth(ctx, Bandwidth(0b0001))
		}},
		{"bandwidth out of band", func(s *Sensor, ctx context.Context) error {
			return s.SetBandwidth(ctx, Bandwidth(0b1111))
		}},
		{"power mode out of band", func(s *Sensor, ctx context.Context) error {
			return s.SetPowerMode(ctx, PowerMode(0b11))
		}},
		{"data rate out of band", func(s *Sensor, ctx context.Context) error {
			return s.SetDataRate(ctx, DataRate(0b1011))
		}},
		{"resolution out of band", func(s *Sensor, ctx context.Context) error {
			return s.SetResolution(ctx, Resolution(0b100))
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := new(MockI2CBus)
			sensor := NewMSA301(bus)

			err := tt.op(sensor, context.Background())

			assert.ErrorIs(t, err, ErrInvalidArgument)
			bus.AssertNotCalled(t, "WriteToAddr", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

// sample registers as they come off the wire: X=0x4000, Y=0x8000, Z=0xC000
var sampleBytes = []byte{0x00, 0x40, 0x00, 0x80, 0x00, 0xC0}

func expectSampleRead(bus *MockI2CBus, data []byte) {
	bus.On("WriteToAddr", mock.Anything, MSA301Address, []byte{regOutXL}).Return(nil).Once()
	bus.On("ReadFromAddr", mock.Anything, MSA301Address, mock.Anything).Return(data, nil).Once()
}

func TestSensor_ReadAcceleration(t *testing.T) {
	bus := new(MockI2CBus)
	sensor := NewMSA301(bus)
	expectSampleRead(bus, sampleBytes)

	acc, err := sensor.ReadAcceleration(context.Background())

	assert.NoError(t, err)
	// at ±2g / 14-bit one full positive quarter scale is 1g
	assert.InDelta(t, 9.806, acc.X, 1e-9)
	assert.InDelta(t, -19.612, acc.Y, 1e-9)
	assert.InDelta(t, -9.806, acc.Z, 1e-9)
	bus.AssertExpectations(t)
}

func TestSensor_ReadAcceleration_RangeScaling(t *testing.T) {
	bus := new(MockI2CBus)
	sensor := NewMSA301(bus)
	ctx := context.Background()

	expectSampleRead(bus, sampleBytes)
	at2g, err := sensor.ReadAcceleration(ctx)
	assert.NoError(t, err)

	expectRegisterRead(bus, regResRange, 0x00)
	bus.On("WriteToAddr", mock.Anything, MSA301Address, []byte{regResRange, byte(Range8G)}).Return(nil).Once()
	assert.NoError(t, sensor.SetRange(ctx, Range8G))

	expectSampleRead(bus, sampleBytes)
	at8g, err := sensor.ReadAcceleration(ctx)
	assert.NoError(t, err)

	// same raw bytes, 4x the span, 4x the magnitude
	assert.InDelta(t, 4*at2g.X, at8g.X, 1e-9)
	assert.InDelta(t, 4*at2g.Y, at8g.Y, 1e-9)
	assert.InDelta(t, 4*at2g.Z, at8g.Z, 1e-9)
	bus.AssertExpectations(t)
}

func TestSensor_ReadAcceleration_BusError(t *testing.T) {
	t.Run("read fails", func(t *testing.T) {
		bus := new(MockI2CBus)
		sensor := NewMSA301(bus)
		bus.On("WriteToAddr", mock.Anything, MSA301Address, []byte{regOutXL}).Return(nil).Once()
		bus.On("ReadFromAddr", mock.Anything, MSA301Address, mock.Anything).
			Return(nil, errors.New("bus timeout")).Once()

		acc, err := sensor.ReadAcceleration(context.Background())

		assert.ErrorContains(t, err, "could not read sample registers")
		assert.Equal(t, Acceleration{}, acc)
		bus.AssertExpectations(t)
	})
	t.Run("pointer write fails", func(t *testing.T) {
		bus := new(MockI2CBus)
		sensor := NewMSA301(bus)
		bus.On("WriteToAddr", mock.Anything, MSA301Address, []byte{regOutXL}).
			Return(errors.New("no ack")).Once()

		_, err := sensor.ReadAcceleration(context.Background())

		assert.ErrorContains(t, err, "could not set sample register pointer")
		bus.AssertNotCalled(t, "ReadFromAddr", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestSensor_Configure(t *testing.T) {
	t.Run("wrong part id", func(t *testing.T) {
		bus := new(MockI2CBus)
		sensor := NewMSA301(bus)
		expectRegisterRead(bus, regPartID, 0x11)

		err := sensor.Configure(context.Background())

		assert.ErrorIs(t, err, ErrWrongDevice)
		bus.AssertExpectations(t)
	})
	t.Run("applies defaults", func(t *testing.T) {
		bus := new(MockI2CBus)
		sensor := NewMSA301(bus)
		expectRegisterRead(bus, regPartID, partID)
		bus.On("WriteToAddr", mock.Anything, MSA301Address, mock.Anything).Return(nil)
		bus.On("ReadFromAddr", mock.Anything, MSA301Address, mock.Anything).Return([]byte{0x00}, nil)

		err := sensor.Configure(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, Range4G, sensor.Range())
		assert.Equal(t, Resolution14Bit, sensor.Resolution())
		bus.AssertExpectations(t)
	})
	t.Run("probe bus error", func(t *testing.T) {
		bus := new(MockI2CBus)
		sensor := NewMSA301(bus)
		bus.On("WriteToAddr", mock.Anything, MSA301Address, []byte{regPartID}).
			Return(errors.New("no ack")).Once()

		err := sensor.Configure(context.Background())

		assert.ErrorContains(t, err, "could not read part id")
	})
}

func TestSensor_MSA311Address(t *testing.T) {
	bus := new(MockI2CBus)
	sensor := NewMSA311(bus)
	bus.On("WriteToAddr", mock.Anything, MSA311Address, []byte{regOutXL}).Return(nil).Once()
	bus.On("ReadFromAddr", mock.Anything, MSA311Address, mock.Anything).Return(sampleBytes, nil).Once()

	_, err := sensor.ReadAcceleration(context.Background())

	assert.NoError(t, err)
	bus.AssertExpectations(t)
}

func TestSensor_EnableTapDetection(t *testing.T) {
	t.Run("invalid parameters", func(t *testing.T) {
		tests := []struct {
			name string
			opts []TapOpt
		}{
			{"tap count", []TapOpt{WithTapCount(3)}},
			{"threshold", []TapOpt{WithTapThreshold(32)}},
			{"double tap window", []TapOpt{WithTapCount(2), WithDoubleTapWindow(TapDuration(8))}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				bus := new(MockI2CBus)
				sensor := NewMSA301(bus)

				err := sensor.EnableTapDetection(context.Background(), tt.opts...)

				assert.ErrorIs(t, err, ErrInvalidArgument)
				bus.AssertNotCalled(t, "WriteToAddr", mock.Anything, mock.Anything, mock.Anything)
			})
		}
	})
	t.Run("single tap defaults", func(t *testing.T) {
		bus := new(MockI2CBus)
		sensor := NewMSA301(bus)
		// long quiet window bit set, shock bit cleared, duration untouched
		expectRegisterRead(bus, regTapDur, 0b01000101)
		bus.On("WriteToAddr", mock.Anything, MSA301Address, []byte{regTapDur, 0b10000101}).Return(nil).Once()
		expectRegisterRead(bus, regTapTh, 0x00)
		bus.On("WriteToAddr", mock.Anything, MSA301Address, []byte{regTapTh, 25}).Return(nil).Once()
		expectRegisterRead(bus, regIntSet0, 0x00)
		bus.On("WriteToAddr", mock.Anything, MSA301Address, []byte{regIntSet0, 1 << singleTapIntBit}).Return(nil).Once()

		err := sensor.EnableTapDetection(context.Background())

		assert.NoError(t, err)
		bus.AssertExpectations(t)
	})
	t.Run("double tap window written", func(t *testing.T) {
		bus := new(MockI2CBus)
		sensor := NewMSA301(bus)
		expectRegisterRead(bus, regTapDur, 0x00)
		bus.On("WriteToAddr", mock.Anything, MSA301Address,
			[]byte{regTapDur, 1<<tapQuietBit | byte(TapDuration700Ms)}).Return(nil).Once()
		expectRegisterRead(bus, regTapTh, 0x00)
		bus.On("WriteToAddr", mock.Anything, MSA301Address, []byte{regTapTh, 10}).Return(nil).Once()
		expectRegisterRead(bus, regIntSet0, 0x00)
		bus.On("WriteToAddr", mock.Anything, MSA301Address, []byte{regIntSet0, 1 << doubleTapIntBit}).Return(nil).Once()

		err := sensor.EnableTapDetection(context.Background(),
			WithTapCount(2), WithTapThreshold(10), WithDoubleTapWindow(TapDuration700Ms))

		assert.NoError(t, err)
		bus.AssertExpectations(t)
	})
}

func TestSensor_Tapped(t *testing.T) {
	bus := new(MockI2CBus)
	sensor := NewMSA301(bus)
	ctx := context.Background()

	// not armed yet, no bus traffic
	tapped, err := sensor.Tapped(ctx)
	assert.NoError(t, err)
	assert.False(t, tapped)
	bus.AssertNotCalled(t, "WriteToAddr", mock.Anything, mock.Anything, mock.Anything)

	expectRegisterRead(bus, regTapDur, 0x00)
	bus.On("WriteToAddr", mock.Anything, MSA301Address, []byte{regTapDur, 1 << tapQuietBit}).Return(nil).Once()
	expectRegisterRead(bus, regTapTh, 0x00)
	bus.On("WriteToAddr", mock.Anything, MSA301Address, []byte{regTapTh, 25}).Return(nil).Once()
	expectRegisterRead(bus, regIntSet0, 0x00)
	bus.On("WriteToAddr", mock.Anything, MSA301Address, []byte{regIntSet0, 1 << singleTapIntBit}).Return(nil).Once()
	assert.NoError(t, sensor.EnableTapDetection(ctx))

	expectRegisterRead(bus, regMotionInt, 1<<singleTapIntBit)
	tapped, err = sensor.Tapped(ctx)
	assert.NoError(t, err)
	assert.True(t, tapped)

	expectRegisterRead(bus, regMotionInt, 0x00)
	tapped, err = sensor.Tapped(ctx)
	assert.NoError(t, err)
	assert.False(t, tapped)
}
