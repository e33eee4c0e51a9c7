package msa3xx

// MSA301Address is the fixed 7-bit I2C address of the MSA301.
// MSA311Address is the fixed 7-bit address of the MSA311 variant.
const (
	MSA301Address byte = 0x26
	MSA311Address byte = 0x62
)

// partID is the content of regPartID on both the MSA301 and MSA311.
const partID = 0x13

// Register map (per datasheet)
const (
	regPartID      byte = 0x01
	regOutXL       byte = 0x02
	regOutXH       byte = 0x03
	regOutYL       byte = 0x04
	regOutYH       byte = 0x05
	regOutZL       byte = 0x06
	regOutZH       byte = 0x07
	regMotionInt   byte = 0x09
	regDataInt     byte = 0x0A
	regClickStatus byte = 0x0B
	regResRange    byte = 0x0F
	regODR         byte = 0x10
	regPowerMode   byte = 0x11
	regIntSet0     byte = 0x16
	regIntSet1     byte = 0x17
	regIntMap0     byte = 0x19
	regIntMap1     byte = 0x1A
	regTapDur      byte = 0x2A
	regTapTh       byte = 0x2B
)

// Bit field layout of the shared configuration registers.
//
//	0x0F RES_RANGE: resolution[3:2], range[1:0]
//	0x10 ODR:       x_dis[7], y_dis[6], z_dis[5], data_rate[3:0]
//	0x11 POWERMODE: power_mode[7:6], bandwidth[4:1]
//	0x2A TAP_DUR:   tap_quiet[7], tap_shock[6], tap_dur[2:0]
//	0x2B TAP_TH:    tap_th[4:0]
const (
	rangeShift, rangeWidth           = 0, 2
	resolutionShift, resolutionWidth = 2, 2
	dataRateShift, dataRateWidth     = 0, 4
	bandwidthShift, bandwidthWidth   = 1, 4
	powerModeShift, powerModeWidth   = 6, 2

	disableXBit = 7
	disableYBit = 6
	disableZBit = 5

	singleTapIntBit = 5
	doubleTapIntBit = 4

	tapQuietBit              = 7
	tapShockBit              = 6
	tapDurShift, tapDurWidth = 0, 3
	tapThShift, tapThWidth   = 0, 5
)

// setBits returns reg with the width-bit field at shift replaced by value.
// Bits outside the field are preserved.
func setBits(reg, value byte, width, shift uint) byte {
	mask := byte(1<<width-1) << shift
	return reg&^mask | value<<shift&mask
}

// getBits extracts the width-bit field at shift from reg.
func getBits(reg byte, width, shift uint) byte {
	return reg >> shift & (1<<width - 1)
}

// setBit returns reg with the given bit set or cleared.
func setBit(reg byte, bit uint, on bool) byte {
	if on {
		return reg | 1<<bit
	}
	return reg &^ (1 << bit)
}

// Range selects the full-scale measurement span. Wider spans trade
// resolution for maximum measurable acceleration.
type Range byte

const (
	Range2G  Range = 0b00 // +/- 2g (power-on default)
	Range4G  Range = 0b01 // +/- 4g
	Range8G  Range = 0b10 // +/- 8g
	Range16G Range = 0b11 // +/- 16g
)

func (r Range) valid() bool {
	return r <= Range16G
}

// fullScale returns the span in g.
func (r Range) fullScale() int {
	return 2 << r
}

func (r Range) String() string {
	switch r {
	case Range2G:
		return "±2g"
	case Range4G:
		return "±4g"
	case Range8G:
		return "±8g"
	case Range16G:
		return "±16g"
	}
	return "unknown"
}

// Resolution selects the sample bit width. Samples always arrive as two
// bytes per axis; unused low bits read zero.
type Resolution byte

const (
	Resolution14Bit Resolution = 0b00 // power-on default
	Resolution12Bit Resolution = 0b01
	Resolution10Bit Resolution = 0b10
	Resolution8Bit  Resolution = 0b11
)

func (r Resolution) valid() bool {
	return r <= Resolution8Bit
}

// bits returns the sample width.
func (r Resolution) bits() uint {
	return 14 - 2*uint(r)
}

// PowerMode selects the operating mode of the sensing engine.
type PowerMode byte

const (
	PowerNormal  PowerMode = 0b00
	PowerLow     PowerMode = 0b01
	PowerSuspend PowerMode = 0b10
)

func (m PowerMode) valid() bool {
	switch m {
	case PowerNormal, PowerLow, PowerSuspend:
		return true
	}
	return false
}

func (m PowerMode) String() string {
	switch m {
	case PowerNormal:
		return "normal"
	case PowerLow:
		return "low-power"
	case PowerSuspend:
		return "suspend"
	}
	return "unknown"
}

// Bandwidth selects the low-pass filter bandwidth.
type Bandwidth byte

const (
	Bandwidth1_95Hz  Bandwidth = 0b0000
	Bandwidth3_9Hz   Bandwidth = 0b0011
	Bandwidth7_81Hz  Bandwidth = 0b0100
	Bandwidth15_63Hz Bandwidth = 0b0101
	Bandwidth31_25Hz Bandwidth = 0b0110
	Bandwidth62_5Hz  Bandwidth = 0b0111
	Bandwidth125Hz   Bandwidth = 0b1000
	Bandwidth250Hz   Bandwidth = 0b1001
	Bandwidth500Hz   Bandwidth = 0b1010
)

func (b Bandwidth) valid() bool {
	// 0b0001 and 0b0010 are reserved encodings
	return b == Bandwidth1_95Hz || (b >= Bandwidth3_9Hz && b <= Bandwidth500Hz)
}

// DataRate selects the output data rate.
type DataRate byte

const (
	DataRate1Hz     DataRate = 0b0000
	DataRate1_95Hz  DataRate = 0b0001
	DataRate3_9Hz   DataRate = 0b0010
	DataRate7_81Hz  DataRate = 0b0011
	DataRate15_63Hz DataRate = 0b0100
	DataRate31_25Hz DataRate = 0b0101
	DataRate62_5Hz  DataRate = 0b0110
	DataRate125Hz   DataRate = 0b0111
	DataRate250Hz   DataRate = 0b1000
	DataRate500Hz   DataRate = 0b1001
	DataRate1000Hz  DataRate = 0b1010
)

func (r DataRate) valid() bool {
	return r <= DataRate1000Hz
}

// TapDuration is the window after an initial tap in which a second tap
// must land to register a double tap.
type TapDuration byte

const (
	TapDuration50Ms  TapDuration = 0b000
	TapDuration100Ms TapDuration = 0b001
	TapDuration150Ms TapDuration = 0b010
	TapDuration200Ms TapDuration = 0b011
	TapDuration250Ms TapDuration = 0b100
	TapDuration375Ms TapDuration = 0b101
	TapDuration500Ms TapDuration = 0b110
	TapDuration700Ms TapDuration = 0b111
)

func (d TapDuration) valid() bool {
	return d <= TapDuration700Ms
}
