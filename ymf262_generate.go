package ymf262

// route adds a slot output to its routing target: a channel accumulator
// or one of the modulation scratch values.
func (y *YMF262) route(target int, v int32) {
	switch target {
	case connPhaseMod:
		y.phaseMod += v
	case connPhaseMod2:
		y.phaseMod2 += v
	default:
		y.chanout[target] += v
	}
}

// chanCalc evaluates a standard 2-operator channel, or the first half
// of a fused 4-op channel, for one sample.
func (y *YMF262) chanCalc(chanNo int) {
	ch := &y.channels[chanNo]
	y.phaseMod = 0
	y.phaseMod2 = 0

	// slot 1, with self feedback
	s1 := &ch.slot[0]
	s1.op1Out[0] = s1.op1Out[1]
	var out int32
	if s1.fbShift != 0 {
		out = s1.op1Out[0] + s1.op1Out[1]
	}
	s1.op1Out[1] = s1.opCalc(s1.cnt>>16, out>>s1.fbShift, y.lfoAM)
	y.route(s1.connect, s1.op1Out[1])

	// slot 2
	s2 := &ch.slot[1]
	y.route(s2.connect, s2.opCalc(s2.cnt>>16, y.phaseMod, y.lfoAM))
}

// chanCalcExt evaluates the second half of a fused 4-op channel. Slot 3
// consumes the modulation the first half left behind; slot 4 consumes
// slot 3's.
func (y *YMF262) chanCalcExt(chanNo int) {
	ch := &y.channels[chanNo]
	y.phaseMod = 0

	s1 := &ch.slot[0]
	y.route(s1.connect, s1.opCalc(s1.cnt>>16, y.phaseMod2, y.lfoAM))

	s2 := &ch.slot[1]
	y.route(s2.connect, s2.opCalc(s2.cnt>>16, y.phaseMod, y.lfoAM))
}

// calcPair evaluates a fusable channel pair: one 4-op voice when fused,
// otherwise two independent 2-op channels.
func (y *YMF262) calcPair(first int) {
	y.chanCalc(first)
	if y.channels[first].extended {
		y.chanCalcExt(first + 3)
	} else {
		y.chanCalc(first + 3)
	}
}

// GenerateChannels produces num samples for all 18 channels. Each
// buffer receives interleaved stereo pairs (2*num samples), already
// scaled and masked by the channel's output enables. len(bufs) must be
// at least 18 and every buffer at least 2*num long.
//
// State always advances and output is always produced, so a channel
// muted by its output enables generates bit-identically to an audible
// one.
func (y *YMF262) GenerateChannels(bufs [][]int32, num int) {
	rhythmEnabled := y.rhythm&0x20 != 0

	for j := 0; j < num; j++ {
		y.advanceLFO()

		for i := range y.chanout {
			y.chanout[i] = 0
		}

		// register set 1: fusable pairs 0/3, 1/4, 2/5
		y.calcPair(0)
		y.calcPair(1)
		y.calcPair(2)

		// channels 6-8 carry the percussion voices in rhythm mode
		if rhythmEnabled {
			y.chanCalcRhythm()
		} else {
			y.chanCalc(6)
			y.chanCalc(7)
			y.chanCalc(8)
		}

		// register set 2: fusable pairs 9/12, 10/13, 11/14
		y.calcPair(9)
		y.calcPair(10)
		y.calcPair(11)

		// channels 15-17 are fixed 2-operator channels
		y.chanCalc(15)
		y.chanCalc(16)
		y.chanCalc(17)

		for i := 0; i < 18; i++ {
			var l, r int32
			if y.pan[i][0] {
				l = y.chanout[i] << 2
			}
			if y.pan[i][1] {
				r = y.chanout[i] << 2
			}
			bufs[i][2*j+0] = l
			bufs[i][2*j+1] = r
			// outputs C and D exist on the die but are not bonded
			// out on the two-channel package
		}

		y.advance()
	}
}
