package ymf262

// Rhythm mode reinterprets channels 6-8 as five percussion voices that
// share the six operators of those channels:
//
//	voice      phase source                 envelope source
//	bass drum  channel 6 (normal 2-op)      channel 6 slots
//	high hat   ch7 slot1 + ch8 slot2 bits   channel 7 slot 1
//	snare      ch7 slot1 bits + noise       channel 7 slot 2
//	tom tom    channel 8 slot 1 (normal)    channel 8 slot 1
//	cymbal     ch7 slot1 + ch8 slot2 bits   channel 8 slot 2
//
// Every rhythm voice output is multiplied by 2, a fixed hardware
// characteristic.

// genPhaseHighHat derives the high hat phase from channel 7 slot 1 and
// channel 8 slot 2 phase bits, randomized by the noise bit.
func (y *YMF262) genPhaseHighHat() uint32 {
	// base frequency from operator 1 in channel 7:
	// phase = 0xd0 or 0x234 depending on (bit2 ^ bit7) | bit3
	op71phase := y.channels[7].slot[0].cnt >> 16
	bit7 := op71phase >> 7 & 1
	bit3 := op71phase >> 3 & 1
	bit2 := op71phase >> 2 & 1
	res1 := (bit2^bit7)|bit3 != 0
	phase := uint32(0xd0)
	if res1 {
		phase = 0x200 | 0xd0>>2
	}

	// gate on operator 2 in channel 8: bit5 ^ bit3 forces the high
	// variant regardless of res1
	op82phase := y.channels[8].slot[1].cnt >> 16
	bit5e := op82phase >> 5 & 1
	bit3e := op82phase >> 3 & 1
	if bit5e^bit3e != 0 {
		phase = 0x200 | 0xd0>>2
	}

	// the noise bit swaps each variant with its counterpart
	if phase&0x200 != 0 {
		if y.noiseRNG&1 != 0 {
			phase = 0x200 | 0xd0
		}
	} else {
		if y.noiseRNG&1 != 0 {
			phase = 0xd0 >> 2
		}
	}
	return phase
}

// genPhaseSnare derives the snare phase from channel 7 slot 1 bit 8,
// XORed with the noise bit.
func (y *YMF262) genPhaseSnare() uint32 {
	return (y.channels[7].slot[0].cnt>>16&0x100 + 0x100) ^ (y.noiseRNG&1)<<8
}

// genPhaseCymbal derives the top cymbal phase from the same phase bits
// as the high hat but with fixed output phases and no noise input.
func (y *YMF262) genPhaseCymbal() uint32 {
	// NOTE: the sibling YM2413 core gates on bit5 | bit3 where this
	// uses bit5 ^ bit3; most likely only one of the two is correct.
	op82phase := y.channels[8].slot[1].cnt >> 16
	if (op82phase^op82phase<<2)&0x20 != 0 { // bit5 ^ bit3
		return 0x300
	}
	op71phase := y.channels[7].slot[0].cnt >> 16
	bit7 := op71phase >> 7 & 1
	bit3 := op71phase >> 3 & 1
	bit2 := op71phase >> 2 & 1
	if (bit2^bit7)|bit3 != 0 {
		return 0x300
	}
	return 0x100
}

// chanCalcRhythm evaluates channels 6-8 in rhythm mode for one sample.
func (y *YMF262) chanCalcRhythm() {
	slot61 := &y.channels[6].slot[0]
	slot62 := &y.channels[6].slot[1]
	slot71 := &y.channels[7].slot[0]
	slot72 := &y.channels[7].slot[1]
	slot81 := &y.channels[8].slot[0]
	slot82 := &y.channels[8].slot[1]

	// Bass drum (verified on real YM3812): with the connection bit
	// clear it behaves like a normal op1->op2 chain; with it set only
	// operator 2 reaches the output and operator 1 is ignored.
	y.phaseMod = 0

	slot61.op1Out[0] = slot61.op1Out[1]
	if !slot61.con {
		y.phaseMod = slot61.op1Out[0]
	}
	var out int32
	if slot61.fbShift != 0 {
		out = slot61.op1Out[0] + slot61.op1Out[1]
	}
	slot61.op1Out[1] = slot61.opCalc(slot61.cnt>>16, out>>slot61.fbShift, y.lfoAM)

	y.chanout[6] += slot62.opCalc(slot62.cnt>>16, y.phaseMod, y.lfoAM) * 2

	// High hat (verified on real YM3812)
	y.chanout[7] += slot71.opCalc(y.genPhaseHighHat(), 0, y.lfoAM) * 2

	// Snare drum (verified on real YM3812)
	y.chanout[7] += slot72.opCalc(y.genPhaseSnare(), 0, y.lfoAM) * 2

	// Tom tom (verified on real YM3812)
	y.chanout[8] += slot81.opCalc(slot81.cnt>>16, 0, y.lfoAM) * 2

	// Top cymbal (verified on real YM3812)
	y.chanout[8] += slot82.opCalc(y.genPhaseCymbal(), 0, y.lfoAM) * 2
}
