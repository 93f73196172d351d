package ymf262

import "math"

// Envelope generator output range. Attenuation is expressed in units of
// 0.1875 dB: 0 is loudest, 511 is silence.
const (
	envBits     = 10
	maxAttIndex = (1 << (envBits - 1)) - 1 // 511
	minAttIndex = 0
)

// Sine table dimensions. All eight waveforms share one logarithmic
// amplitude domain and are folded to linear through tlTab.
const (
	sinBits = 10
	sinLen  = 1 << sinBits
	sinMask = sinLen - 1
)

const (
	tlResLen = 256 // 8-bit amplitude addressing, as on the real chip
	tlTabLen = 13 * 2 * tlResLen
)

const rateSteps = 8

// slotArray maps a per-operator register offset (low 5 bits) to a slot
// number, 2 slots per channel. Offsets 6, 7, 0x0E, 0x0F, 0x16, 0x17 and
// everything above 0x17 address no slot.
var slotArray = [32]int{
	0, 2, 4, 1, 3, 5, -1, -1,
	6, 8, 10, 7, 9, 11, -1, -1,
	12, 14, 16, 13, 15, 17, -1, -1,
	-1, -1, -1, -1, -1, -1, -1, -1,
}

// kslTab is the key scale level table indexed by blockFnum >> 6 (block
// and the 4 top fnum bits). 3 dB/octave in attenuation units of
// 0.09375 dB; the per-operator KSL shift turns this into
// 1.5/3/6 dB per octave.
var kslTab = [8 * 16]int32{
	// OCT 0
	0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0,
	// OCT 1
	0, 0, 0, 0, 0, 0, 0, 0,
	0, 8, 12, 16, 20, 24, 28, 32,
	// OCT 2
	0, 0, 0, 0, 0, 12, 20, 28,
	32, 40, 44, 48, 52, 56, 60, 64,
	// OCT 3
	0, 0, 0, 20, 32, 44, 52, 60,
	64, 72, 76, 80, 84, 88, 92, 96,
	// OCT 4
	0, 0, 32, 52, 64, 76, 84, 92,
	96, 104, 108, 112, 116, 120, 124, 128,
	// OCT 5
	0, 32, 64, 84, 96, 108, 116, 124,
	128, 136, 140, 144, 148, 152, 156, 160,
	// OCT 6
	0, 64, 96, 116, 128, 140, 148, 156,
	160, 168, 172, 176, 180, 184, 188, 192,
	// OCT 7
	0, 96, 128, 148, 160, 172, 180, 188,
	192, 200, 204, 208, 212, 216, 220, 224,
}

// slTab converts the 4-bit sustain level field to attenuation units.
// 3 dB per step; the last entry jumps to 93 dB.
var slTab = [16]int32{
	0, 16, 32, 48, 64, 80, 96, 112,
	128, 144, 160, 176, 192, 208, 224, 496,
}

// egInc holds the per-tick attenuation increment patterns. Rows 0-3
// serve rates 0-12 (increments of 0 or 1), rows 4-7 rate 13, rows 8-11
// rate 14, row 12 rate 15 in decay, row 13 rate 15 in attack (zero
// time), row 14 the infinitely slow rates.
var egInc = [15 * rateSteps]uint8{
	// cycle: 0 1  2 3  4 5  6 7
	0, 1, 0, 1, 0, 1, 0, 1, //  0  rates 00..12 0
	0, 1, 0, 1, 1, 1, 0, 1, //  1  rates 00..12 1
	0, 1, 1, 1, 0, 1, 1, 1, //  2  rates 00..12 2
	0, 1, 1, 1, 1, 1, 1, 1, //  3  rates 00..12 3

	1, 1, 1, 1, 1, 1, 1, 1, //  4  rate 13 0
	1, 1, 1, 2, 1, 1, 1, 2, //  5  rate 13 1
	1, 2, 1, 2, 1, 2, 1, 2, //  6  rate 13 2
	1, 2, 2, 2, 1, 2, 2, 2, //  7  rate 13 3

	2, 2, 2, 2, 2, 2, 2, 2, //  8  rate 14 0
	2, 2, 2, 4, 2, 2, 2, 4, //  9  rate 14 1
	2, 4, 2, 4, 2, 4, 2, 4, // 10  rate 14 2
	2, 4, 4, 4, 2, 4, 4, 4, // 11  rate 14 3

	4, 4, 4, 4, 4, 4, 4, 4, // 12  rate 15 for decay
	8, 8, 8, 8, 8, 8, 8, 8, // 13  rate 15 for attack (zero time)
	0, 0, 0, 0, 0, 0, 0, 0, // 14  infinity rates
}

// egSelInstantAttack is the egInc row used when attack rate + key
// scaling reaches 16+60: on the YMF262 all 15 x attack rates take zero
// time.
const egSelInstantAttack = 13 * rateSteps

// egRateSelect and egRateShift are indexed by the pre-scaled rate plus
// the key scale value (16 + rate*4 + rks, 96 entries). Select picks an
// egInc row offset, shift divides the global envelope counter. Both are
// regular enough to build at startup.
var (
	egRateSelect [16 + 64 + 16]uint8
	egRateShift  [16 + 64 + 16]uint8
)

func init() {
	for i := range egRateSelect {
		switch {
		case i < 16:
			// infinite time rates
			egRateSelect[i] = 14 * rateSteps
			egRateShift[i] = 0
		case i < 16+64:
			rate := (i - 16) / 4
			sub := (i - 16) & 3
			switch {
			case rate <= 12:
				egRateSelect[i] = uint8(sub * rateSteps)
			case rate == 13:
				egRateSelect[i] = uint8((4 + sub) * rateSteps)
			case rate == 14:
				egRateSelect[i] = uint8((8 + sub) * rateSteps)
			default:
				egRateSelect[i] = 12 * rateSteps
			}
			if rate < 12 {
				egRateShift[i] = uint8(12 - rate)
			} else {
				egRateShift[i] = 0
			}
		default:
			// dummy rates, same as 15 3
			egRateSelect[i] = 12 * rateSteps
			egRateShift[i] = 0
		}
	}
}

// mulTab maps the 4-bit MULTIPLE field to twice the frequency multiple,
// so that x0.5 stays integral.
var mulTab = [16]uint32{
	1, 2, 4, 6, 8, 10, 12, 14,
	16, 18, 20, 20, 24, 24, 30, 30,
}

// tlTab converts total attenuation (envelope + waveform, in quarter
// units of 0.1875 dB) to a signed linear sample. Even indices are
// positive, odd indices their one's complement - the negative half is
// off by one compared to OPL2, verified on real YMF262 silicon.
var tlTab [tlTabLen]int32

// sinTab holds the eight OPL3 waveforms in the logarithmic amplitude
// domain; each entry is an index into tlTab, with tlTabLen acting as a
// "fully attenuated" marker for the gated waveforms.
var sinTab [8][sinLen]uint16

func init() {
	for x := 0; x < tlResLen; x++ {
		m := math.Floor(float64(1<<16) / math.Pow(2, float64(x+1)*(0.125/4.0)/8.0))

		// 16 bits at most here because of the x+1
		n := int32(m)
		n >>= 4
		n = (n >> 1) + (n & 1) // round to 11 bits
		n <<= 1                // 12 bits, as in the real chip
		tlTab[x*2+0] = n
		tlTab[x*2+1] = ^n

		for i := 1; i < 13; i++ {
			tlTab[x*2+0+i*2*tlResLen] = n >> uint(i)
			tlTab[x*2+1+i*2*tlResLen] = ^(n >> uint(i))
		}
	}

	log2 := math.Log(2)
	for i := 0; i < sinLen; i++ {
		// non-standard sine, checked against the real chip
		m := math.Sin(float64(i*2+1) * math.Pi / sinLen)
		var o float64
		if m > 0 {
			o = 8 * math.Log(1/m) / log2
		} else {
			o = 8 * math.Log(-1/m) / log2
		}
		o /= 0.125 / 4

		n := int(2 * o)
		n = (n >> 1) + (n & 1)
		if m >= 0 {
			sinTab[0][i] = uint16(n * 2)
		} else {
			sinTab[0][i] = uint16(n*2 + 1)
		}
	}

	for i := 0; i < sinLen; i++ {
		// waveform 1: positive half of the sine, zero otherwise
		if i&(1<<(sinBits-1)) != 0 {
			sinTab[1][i] = tlTabLen
		} else {
			sinTab[1][i] = sinTab[0][i]
		}

		// waveform 2: abs(sin)
		sinTab[2][i] = sinTab[0][i&(sinMask>>1)]

		// waveform 3: abs of the first quarter only
		if i&(1<<(sinBits-2)) != 0 {
			sinTab[3][i] = tlTabLen
		} else {
			sinTab[3][i] = sinTab[0][i&(sinMask>>2)]
		}

		// waveform 4: whole sine at double rate in the first half,
		// zero in the second
		if i&(1<<(sinBits-1)) != 0 {
			sinTab[4][i] = tlTabLen
		} else {
			sinTab[4][i] = sinTab[0][(i*2)&sinMask]
		}

		// waveform 5: abs(sin) at double rate in the first half
		if i&(1<<(sinBits-1)) != 0 {
			sinTab[5][i] = tlTabLen
		} else {
			sinTab[5][i] = sinTab[0][(i*2)&(sinMask>>1)]
		}

		// waveform 6: square
		if i&(1<<(sinBits-1)) != 0 {
			sinTab[6][i] = 1 // negative maximum
		} else {
			sinTab[6][i] = 0 // positive maximum
		}

		// waveform 7: logarithmic sawtooth
		var x int
		if i&(1<<(sinBits-1)) != 0 {
			x = ((sinLen - 1) - i) * 16 + 1
		} else {
			x = i * 16
		}
		if x > tlTabLen {
			x = tlTabLen
		}
		sinTab[7][i] = uint16(x)
	}
}

// Amplitude LFO: a 27-level triangle verified on real YM3812 hardware.
// Each table element lasts 64 samples, so the full cycle takes
// 210*64 = 13440 samples. With the depth bit set the value is used
// directly, otherwise it is divided by four.
const lfoAMTabElements = 210

var lfoAMTable [lfoAMTabElements]uint8

func init() {
	// 0 is held for 7 elements and the peak 26 for 3; every other
	// level lasts 4 elements up and 4 down.
	n := 0
	put := func(v uint8, count int) {
		for i := 0; i < count; i++ {
			lfoAMTable[n] = v
			n++
		}
	}
	put(0, 7)
	for v := uint8(1); v <= 25; v++ {
		put(v, 4)
	}
	put(26, 3)
	for v := uint8(25); v >= 1; v-- {
		put(v, 4)
	}
}

// lfoPMTable gives the vibrato fnum offset, indexed by the 3 top fnum
// bits (rows of 16) and the PM LFO position with the depth bit folded
// into bit 3. Verified on real YM3812 hardware.
var lfoPMTable = [8 * 8 * 2]int8{
	// FNUM2/FNUM = 00 0xxxxxxx (0x0000)
	0, 0, 0, 0, 0, 0, 0, 0, // depth 0
	0, 0, 0, 0, 0, 0, 0, 0, // depth 1

	// FNUM2/FNUM = 00 1xxxxxxx (0x0080)
	0, 0, 0, 0, 0, 0, 0, 0,
	1, 0, 0, 0, -1, 0, 0, 0,

	// FNUM2/FNUM = 01 0xxxxxxx (0x0100)
	1, 0, 0, 0, -1, 0, 0, 0,
	2, 1, 0, -1, -2, -1, 0, 1,

	// FNUM2/FNUM = 01 1xxxxxxx (0x0180)
	1, 0, 0, 0, -1, 0, 0, 0,
	3, 1, 0, -1, -3, -1, 0, 1,

	// FNUM2/FNUM = 10 0xxxxxxx (0x0200)
	2, 1, 0, -1, -2, -1, 0, 1,
	4, 2, 0, -2, -4, -2, 0, 2,

	// FNUM2/FNUM = 10 1xxxxxxx (0x0280)
	2, 1, 0, -1, -2, -1, 0, 1,
	5, 2, 0, -2, -5, -2, 0, 2,

	// FNUM2/FNUM = 11 0xxxxxxx (0x0300)
	3, 1, 0, -1, -3, -1, 0, 1,
	6, 3, 0, -3, -6, -3, 0, 3,

	// FNUM2/FNUM = 11 1xxxxxxx (0x0380)
	3, 1, 0, -1, -3, -1, 0, 1,
	7, 3, 0, -3, -7, -3, 0, 3,
}
