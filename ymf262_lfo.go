package ymf262

// advanceLFO steps both low frequency oscillators by one sample.
//
// The amplitude LFO walks a 27-level triangle table; each level lasts
// 64 samples and the full cycle 210 table entries. With the depth bit
// clear the value is divided by four - losing that precision matters.
//
// The vibrato LFO has 8 output levels and one level lasts 1024 samples;
// its depth range bit is folded into the table index.
func (y *YMF262) advanceLFO() {
	y.lfoAMCnt++
	if y.lfoAMCnt == lfoAMTabElements<<6 {
		y.lfoAMCnt = 0
	}
	tmp := lfoAMTable[y.lfoAMCnt>>6]
	if y.lfoAMDepth {
		y.lfoAM = tmp
	} else {
		y.lfoAM = tmp / 4
	}

	y.lfoPMCnt++
	y.lfoPM = uint8(y.lfoPMCnt>>10)&7 | y.lfoPMDepthRng
}

// advance steps every operator's envelope and phase generator and the
// rhythm noise register by one sample.
func (y *YMF262) advance() {
	y.egCnt++
	for c := range y.channels {
		ch := &y.channels[c]
		for s := range ch.slot {
			op := &ch.slot[s]
			op.advanceEnvelopeGenerator(y.egCnt)
			op.advancePhaseGenerator(ch, y.lfoPM)
		}
	}

	// The noise generator is a 23-bit shift register with a period of
	// 2^23-2 samples. The feedback into bit 22 is
	// bit0 XOR bit14 XOR bit15 XOR bit22; instead of computing that we
	// conditionally flip the tap bits and use bit 0 as the output,
	// which only shifts the sequence by one step.
	if y.noiseRNG&1 != 0 {
		y.noiseRNG ^= 0x800302
	}
	y.noiseRNG >>= 1
}
