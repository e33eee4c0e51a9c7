package msa3xx

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetBits(t *testing.T) {
	tests := []struct {
		name     string
		reg      byte
		value    byte
		width    uint
		shift    uint
		expected byte
	}{
		{"range into empty register", 0x00, 0b10, rangeWidth, rangeShift, 0b00000010},
		{"range preserves resolution", 0b00001100, 0b11, rangeWidth, rangeShift, 0b00001111},
		{"resolution preserves range", 0b00000011, 0b01, resolutionWidth, resolutionShift, 0b00000111},
		{"bandwidth preserves power mode", 0b01000000, 0b1001, bandwidthWidth, bandwidthShift, 0b01010010},
		{"power mode preserves bandwidth", 0b00010010, 0b10, powerModeWidth, powerModeShift, 0b10010010},
		{"data rate preserves axis flags", 0b11100000, 0b1001, dataRateWidth, dataRateShift, 0b11101001},
		{"oversized value is masked", 0x00, 0xFF, rangeWidth, rangeShift, 0b00000011},
		{"overwrite previous field value", 0b00000011, 0b01, rangeWidth, rangeShift, 0b00000001},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, setBits(tt.reg, tt.value, tt.width, tt.shift))
		})
	}
}

func TestGetBits(t *testing.T) {
	tests := []struct {
		name     string
		reg      byte
		width    uint
		shift    uint
		expected byte
	}{
		{"range from mixed register", 0b00001110, rangeWidth, rangeShift, 0b10},
		{"resolution from mixed register", 0b00001110, resolutionWidth, resolutionShift, 0b11},
		{"bandwidth from mixed register", 0b01010010, bandwidthWidth, bandwidthShift, 0b1001},
		{"power mode from mixed register", 0b01010010, powerModeWidth, powerModeShift, 0b01},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, getBits(tt.reg, tt.width, tt.shift))
		})
	}
}

func TestSetBit(t *testing.T) {
	assert.Equal(t, byte(0b10000000), setBit(0x00, disableXBit, true))
	assert.Equal(t, byte(0b00011111), setBit(0b10011111, disableXBit, false))
	assert.Equal(t, byte(0b01000000), setBit(0b01000000, disableYBit, true))
}

func TestRange_FullScale(t *testing.T) {
	assert.Equal(t, 2, Range2G.fullScale())
	assert.Equal(t, 4, Range4G.fullScale())
	assert.Equal(t, 8, Range8G.fullScale())
	assert.Equal(t, 16, Range16G.fullScale())
}

func TestResolution_Bits(t *testing.T) {
	assert.Equal(t, uint(14), Resolution14Bit.bits())
	assert.Equal(t, uint(12), Resolution12Bit.bits())
	assert.Equal(t, uint(10), Resolution10Bit.bits())
	assert.Equal(t, uint(8), Resolution8Bit.bits())
}

func TestBandwidth_ReservedEncodings(t *testing.T) {
	assert.False(t, Bandwidth(0b0001).valid())
	assert.False(t, Bandwidth(0b0010).valid())
	assert.False(t, Bandwidth(0b1011).valid())
	assert.True(t, Bandwidth1_95Hz.valid())
	assert.True(t, Bandwidth500Hz.valid())
}

func TestConvertSample(t *testing.T) {
	tests := []struct {
		raw      int16
		rng      Range
		res      Resolution
		expected float64
	}{
		{0x4000, Range2G, Resolution14Bit, 9.806},
		{-32768, Range2G, Resolution14Bit, -19.612},
		{-16384, Range2G, Resolution14Bit, -9.806},
		{0x4000, Range8G, Resolution14Bit, 39.224},
		{0x4000, Range16G, Resolution14Bit, 78.448},
		{0x4000, Range2G, Resolution12Bit, 9.806},
		{0x4000, Range2G, Resolution8Bit, 9.806},
		{0, Range4G, Resolution14Bit, 0},
		// one count at ±2g, 14-bit: 1/4096 g
		{1 << 2, Range2G, Resolution14Bit, 9.806 / 4096},
		{-1 << 2, Range2G, Resolution14Bit, -9.806 / 4096},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%#04x_%s", uint16(tt.raw), tt.rng), func(t *testing.T) {
			assert.InDelta(t, tt.expected, convertSample(tt.raw, tt.rng, tt.res), 1e-9)
		})
	}
}
