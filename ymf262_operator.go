package ymf262

// Envelope states. An operator leaves egOff only through a key-on edge.
const (
	egAttack = iota
	egDecay
	egSustain
	egRelease
	egOff
)

// Key-on sources. A slot stays keyed while any source bit is held.
const (
	keyMain   = 1 // frequency register bit 5 (normal and 4-op keying)
	keyRhythm = 2 // percussion key bits in register 0xBD
)

// Slot output routing targets. Non-negative values are channel
// accumulator indices; the two scratch targets feed the next operator
// in the chain as phase modulation.
const (
	connPhaseMod  = -1
	connPhaseMod2 = -2 // slot 3 input of a fused 4-op channel
)

// oplSlot holds one operator: phase generator, envelope generator and
// the decoded register fields that drive them.
type oplSlot struct {
	// Phase generator
	cnt     uint32   // phase counter, 16.16 fixed point
	incr    uint32   // phase counter step, 16.16 fixed point
	connect int      // output routing target
	op1Out  [2]int32 // previous two outputs, for slot 1 feedback

	// Envelope generator
	tl     uint32 // total level, attenuation units (TL field << 2)
	tll    int32  // tl with the channel key scale level folded in
	volume int32  // envelope counter, 0 = loudest
	sl     int32  // sustain level threshold, slTab[SL]

	waveSel uint8 // effective sinTab row

	// Precomputed per-rate envelope stepping parameters, refreshed
	// whenever rate or key scale input changes.
	egMAR   uint32 // attack: counter mask
	egShAR  uint8  // attack: counter shift
	egSelAR uint8  // attack: egInc row offset
	egMDR   uint32
	egShDR  uint8
	egSelDR uint8
	egMRR   uint32
	egShRR  uint8
	egSelRR uint8

	key uint8 // key-on source bitmask, 0 = off

	fbShift uint8 // slot 1 feedback shift, 0 disables feedback
	con     bool  // connection bit from register C0
	egType  bool  // true = non-percussive (sustained) envelope
	state   uint8

	amMask  uint8 // 0xFF when tremolo is enabled for this slot
	vib     bool  // vibrato enable
	waveNum uint8 // 3-bit waveform number as written

	ar       uint8 // attack rate, pre-scaled: 16 + AR*4, 0 if AR = 0
	dr       uint8 // decay rate, same scaling
	rr       uint8 // release rate, same scaling
	ksrShift uint8 // key scale rate shift: 0 or 2
	ksl      uint8 // key scale level shift: 31 (off), 2, 1 or 0
	ksr      uint8 // cached kcode >> ksrShift
	mul      uint8 // frequency multiple, mulTab value (2 * MULTIPLE)
}

// oplChannel pairs two slots with the channel-wide frequency state.
type oplChannel struct {
	slot [2]oplSlot

	blockFnum uint32 // 13-bit block + fnum
	fc        uint32 // base frequency increment, 16.16 fixed point
	kslBase   int32  // kslTab[blockFnum>>6]
	kcode     uint8  // key code for envelope rate scaling

	// Channels 0-2 and 9-11 can fuse with the channel three slots
	// ahead into a single 4-operator voice. Only the first channel
	// of a pair carries the flag.
	extended bool
}

// fnumToIncrement converts a block+fnum code to a 16.16 phase increment
// (before the operator multiple is applied).
func fnumToIncrement(blockFnum int32) uint32 {
	block := (blockFnum & 0x1C00) >> 10
	return uint32(blockFnum&0x03FF) << uint(5+block)
}

// setFeedbackShift decodes the 3-bit feedback amount; zero disables the
// feedback path entirely.
func (s *oplSlot) setFeedbackShift(v uint8) {
	if v != 0 {
		s.fbShift = 9 - v
	} else {
		s.fbShift = 0
	}
}

// opCalc computes the slot output for a phase index plus modulation
// input. The waveform table yields attenuation in the same logarithmic
// domain as the envelope; tlTab folds the sum back to linear.
func (s *oplSlot) opCalc(phase uint32, pm int32, lfoAM uint8) int32 {
	env := (s.tll + s.volume + int32(lfoAM&s.amMask)) << 4
	p := env + int32(sinTab[s.waveSel][uint32(int32(phase)+pm)&sinMask])
	if p >= tlTabLen {
		return 0
	}
	return tlTab[p]
}

// keyOn latches a key source. The phase generator restarts and the
// envelope enters attack only on the off-to-on edge.
func (s *oplSlot) keyOn(keySet uint8) {
	if s.key == 0 {
		s.cnt = 0
		s.state = egAttack
	}
	s.key |= keySet
}

// keyOff releases a key source; the envelope enters release only once
// every source is gone.
func (s *oplSlot) keyOff(keyClr uint8) {
	if s.key != 0 {
		s.key &^= keyClr
		if s.key == 0 && s.state != egOff {
			s.state = egRelease
		}
	}
}

// advanceEnvelopeGenerator steps the ADSR state machine by one global
// envelope tick.
func (s *oplSlot) advanceEnvelopeGenerator(egCnt uint32) {
	switch s.state {
	case egAttack:
		if egCnt&s.egMAR == 0 {
			s.volume += (^s.volume * int32(egInc[uint32(s.egSelAR)+((egCnt>>s.egShAR)&7)])) >> 3
			if s.volume <= minAttIndex {
				s.volume = minAttIndex
				s.state = egDecay
			}
		}

	case egDecay:
		if egCnt&s.egMDR == 0 {
			s.volume += int32(egInc[uint32(s.egSelDR)+((egCnt>>s.egShDR)&7)])
			if s.volume >= s.sl {
				s.state = egSustain
			}
		}

	case egSustain:
		// Percussive/non-percussive mode can change mid-note and
		// the chip stays in sustain, verified on real YM3812. In
		// percussive mode the release rate keeps accruing here.
		if !s.egType {
			if egCnt&s.egMRR == 0 {
				s.volume += int32(egInc[uint32(s.egSelRR)+((egCnt>>s.egShRR)&7)])
				if s.volume >= maxAttIndex {
					s.volume = maxAttIndex
				}
			}
		}

	case egRelease:
		if egCnt&s.egMRR == 0 {
			s.volume += int32(egInc[uint32(s.egSelRR)+((egCnt>>s.egShRR)&7)])
			if s.volume >= maxAttIndex {
				s.volume = maxAttIndex
				s.state = egOff
			}
		}
	}
}

// advancePhaseGenerator steps the phase counter, recomputing the
// increment from a vibrato-offset fnum when the PM LFO is active for
// this slot.
func (s *oplSlot) advancePhaseGenerator(ch *oplChannel, lfoPM uint8) {
	if s.vib {
		fnumLFO := (ch.blockFnum & 0x0380) >> 7
		offset := lfoPMTable[uint32(lfoPM)+16*fnumLFO]
		if offset != 0 {
			s.cnt += fnumToIncrement(int32(ch.blockFnum)+int32(offset)) * uint32(s.mul)
			return
		}
	}
	s.cnt += s.incr
}

// refreshEGRates recomputes the cached (shift, select, mask) stepping
// parameters from the pre-scaled rates and the current key scale value.
func (s *oplSlot) refreshEGRates() {
	if int(s.ar)+int(s.ksr) < 16+60 {
		s.egShAR = egRateShift[s.ar+s.ksr]
		s.egSelAR = egRateSelect[s.ar+s.ksr]
	} else {
		// all 15 x attack rates take zero time on the YMF262
		s.egShAR = 0
		s.egSelAR = egSelInstantAttack
	}
	s.egMAR = 1<<s.egShAR - 1
	s.egShDR = egRateShift[s.dr+s.ksr]
	s.egSelDR = egRateSelect[s.dr+s.ksr]
	s.egMDR = 1<<s.egShDR - 1
	s.egShRR = egRateShift[s.rr+s.ksr]
	s.egSelRR = egRateSelect[s.rr+s.ksr]
	s.egMRR = 1<<s.egShRR - 1
}

// calcFcSlot refreshes a slot's phase increment from this channel's
// frequency, and its envelope rates when the key scale value changed.
// For the second half of a fused 4-op pair the caller passes the first
// channel of the pair, so its frequency drives all four slots.
func (ch *oplChannel) calcFcSlot(s *oplSlot) {
	s.incr = ch.fc * uint32(s.mul)
	ksr := ch.kcode >> s.ksrShift
	if s.ksr == ksr {
		return
	}
	s.ksr = ksr
	s.refreshEGRates()
}
