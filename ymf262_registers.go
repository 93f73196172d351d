package ymf262

// firstOfPair reports whether a channel can carry the extended flag
// (channels 0-2 and 9-11 fuse with channel+3).
func firstOfPair(chanNo int) bool {
	switch chanNo {
	case 0, 1, 2, 9, 10, 11:
		return true
	}
	return false
}

// secondOfPair reports whether a channel is the second half of a
// fusable pair.
func secondOfPair(chanNo int) bool {
	switch chanNo {
	case 3, 4, 5, 12, 13, 14:
		return true
	}
	return false
}

// fcChannelFor resolves which channel's frequency state drives a slot
// update: the second half of a fused 4-op pair follows the first
// channel of the pair, everything else follows itself.
func (y *YMF262) fcChannelFor(chanNo int) *oplChannel {
	if y.opl3Mode && secondOfPair(chanNo) && y.channels[chanNo-3].extended {
		return &y.channels[chanNo-3]
	}
	return &y.channels[chanNo]
}

// refreshSlot recomputes a slot's effective total level and frequency
// state from this channel.
func (ch *oplChannel) refreshSlot(s *oplSlot) {
	s.tll = int32(s.tl) + ch.kslBase>>s.ksl
	ch.calcFcSlot(s)
}

// setMul decodes register 0x20+: tremolo/vibrato enables, envelope
// type, key scale rate and frequency multiple.
func (y *YMF262) setMul(sl int, v uint8) {
	chanNo := sl / 2
	s := &y.channels[chanNo].slot[sl&1]

	s.mul = uint8(mulTab[v&0x0F])
	if v&0x10 != 0 {
		s.ksrShift = 0
	} else {
		s.ksrShift = 2
	}
	s.egType = v&0x20 != 0
	s.vib = v&0x40 != 0
	if v&0x80 != 0 {
		s.amMask = 0xFF
	} else {
		s.amMask = 0
	}

	y.fcChannelFor(chanNo).calcFcSlot(s)
}

// setKslTl decodes register 0x40+: key scale level and total level.
func (y *YMF262) setKslTl(sl int, v uint8) {
	chanNo := sl / 2
	s := &y.channels[chanNo].slot[sl&1]

	ksl := v >> 6 // 0 / 1.5 / 3.0 / 6.0 dB per octave
	if ksl != 0 {
		s.ksl = 3 - ksl
	} else {
		s.ksl = 31
	}
	s.tl = uint32(v&0x3F) << (envBits - 1 - 7)

	s.tll = int32(s.tl) + y.fcChannelFor(chanNo).kslBase>>s.ksl
}

// setArDr decodes register 0x60+: attack and decay rates. Rates are
// stored pre-scaled (16 + rate*4) so the key scale value can be added
// directly.
func (y *YMF262) setArDr(sl int, v uint8) {
	s := &y.channels[sl/2].slot[sl&1]

	if v>>4 != 0 {
		s.ar = 16 + (v>>4)<<2
	} else {
		s.ar = 0
	}
	if v&0x0F != 0 {
		s.dr = 16 + (v&0x0F)<<2
	} else {
		s.dr = 0
	}
	s.refreshEGRates()
}

// setSlRr decodes register 0x80+: sustain level and release rate.
func (y *YMF262) setSlRr(sl int, v uint8) {
	s := &y.channels[sl/2].slot[sl&1]

	s.sl = slTab[v>>4]
	if v&0x0F != 0 {
		s.rr = 16 + (v&0x0F)<<2
	} else {
		s.rr = 0
	}
	s.refreshEGRates()
}

// setConnect rewires the output routing of the channel's operator
// graph, honouring 4-op fusion. Called on connection register writes
// and on fusion toggles.
func (y *YMF262) setConnect(chanNo int) {
	ch := &y.channels[chanNo]
	if y.opl3Mode {
		if firstOfPair(chanNo) && ch.extended {
			y.routePair(chanNo)
			return
		}
		if secondOfPair(chanNo) && y.channels[chanNo-3].extended {
			y.routePair(chanNo - 3)
			return
		}
	}
	// plain 2-operator channel
	if ch.slot[0].con {
		ch.slot[0].connect = chanNo
	} else {
		ch.slot[0].connect = connPhaseMod
	}
	ch.slot[1].connect = chanNo
}

// routePair wires the four slots of a fused pair per the 2-bit
// composite connection value: one bit from each half selects one of
// the four fixed topologies.
func (y *YMF262) routePair(first int) {
	ch := &y.channels[first]
	ch3 := &y.channels[first+3]

	sel := 0
	if ch.slot[0].con {
		sel |= 2
	}
	if ch3.slot[0].con {
		sel |= 1
	}
	switch sel {
	case 0:
		// 1 -> 2 -> 3 -> 4 -> out
		ch.slot[0].connect = connPhaseMod
		ch.slot[1].connect = connPhaseMod2
		ch3.slot[0].connect = connPhaseMod
		ch3.slot[1].connect = first + 3
	case 1:
		// 1 -> 2 -\
		// 3 -> 4 -+- out
		ch.slot[0].connect = connPhaseMod
		ch.slot[1].connect = first
		ch3.slot[0].connect = connPhaseMod
		ch3.slot[1].connect = first + 3
	case 2:
		// 1 -----------\
		// 2 -> 3 -> 4 -+- out
		ch.slot[0].connect = first
		ch.slot[1].connect = connPhaseMod2
		ch3.slot[0].connect = connPhaseMod
		ch3.slot[1].connect = first + 3
	case 3:
		// 1 ------\
		// 2 -> 3 -+- out
		// 4 ------/
		ch.slot[0].connect = first
		ch.slot[1].connect = connPhaseMod2
		ch3.slot[0].connect = first + 3
		ch3.slot[1].connect = first + 3
	}
}

// setExtended applies a fusion toggle for the first channel of a pair
// and rewires the pair's routing from the stored connection bits.
func (y *YMF262) setExtended(chanNo int, on bool) {
	ch := &y.channels[chanNo]
	if ch.extended == on {
		return
	}
	ch.extended = on
	y.setConnect(chanNo)
	y.setConnect(chanNo + 3)
}

// writeRhythm decodes register 0xBD: LFO depths, rhythm enable and the
// five percussion keys. Each percussion voice is keyed independently;
// disabling rhythm force-releases all five.
func (y *YMF262) writeRhythm(v uint8) {
	y.lfoAMDepth = v&0x80 != 0
	if v&0x40 != 0 {
		y.lfoPMDepthRng = 8
	} else {
		y.lfoPMDepthRng = 0
	}
	y.rhythm = v & 0x3F

	if y.rhythm&0x20 == 0 {
		y.channels[6].slot[0].keyOff(keyRhythm)
		y.channels[6].slot[1].keyOff(keyRhythm)
		y.channels[7].slot[0].keyOff(keyRhythm)
		y.channels[7].slot[1].keyOff(keyRhythm)
		y.channels[8].slot[0].keyOff(keyRhythm)
		y.channels[8].slot[1].keyOff(keyRhythm)
		return
	}

	// bass drum
	if v&0x10 != 0 {
		y.channels[6].slot[0].keyOn(keyRhythm)
		y.channels[6].slot[1].keyOn(keyRhythm)
	} else {
		y.channels[6].slot[0].keyOff(keyRhythm)
		y.channels[6].slot[1].keyOff(keyRhythm)
	}
	// high hat
	if v&0x01 != 0 {
		y.channels[7].slot[0].keyOn(keyRhythm)
	} else {
		y.channels[7].slot[0].keyOff(keyRhythm)
	}
	// snare drum
	if v&0x08 != 0 {
		y.channels[7].slot[1].keyOn(keyRhythm)
	} else {
		y.channels[7].slot[1].keyOff(keyRhythm)
	}
	// tom tom
	if v&0x04 != 0 {
		y.channels[8].slot[0].keyOn(keyRhythm)
	} else {
		y.channels[8].slot[0].keyOff(keyRhythm)
	}
	// top cymbal
	if v&0x02 != 0 {
		y.channels[8].slot[1].keyOn(keyRhythm)
	} else {
		y.channels[8].slot[1].keyOff(keyRhythm)
	}
}

// writeFrequency decodes registers 0xA0-0xB8: fnum low byte, or
// block + fnum high bits + key-on. Key-on and frequency refresh fan
// out across a fused pair.
func (y *YMF262) writeFrequency(r int, v uint8, chOffset int) {
	if r&0x0F > 8 {
		return
	}
	chanNo := r&0x0F + chOffset
	ch := &y.channels[chanNo]

	var blockFnum uint32
	if r&0x10 == 0 {
		// a0-a8: fnum low byte
		blockFnum = ch.blockFnum&0x1F00 | uint32(v)
	} else {
		// b0-b8: key-on, block, fnum high bits
		blockFnum = uint32(v&0x1F)<<8 | ch.blockFnum&0xFF

		keyAll := func(on bool, channels ...*oplChannel) {
			for _, c := range channels {
				if on {
					c.slot[0].keyOn(keyMain)
					c.slot[1].keyOn(keyMain)
				} else {
					c.slot[0].keyOff(keyMain)
					c.slot[1].keyOff(keyMain)
				}
			}
		}
		on := v&0x20 != 0
		switch {
		case y.opl3Mode && firstOfPair(chanNo) && ch.extended:
			// key all four operators of the fused pair together
			keyAll(on, ch, &y.channels[chanNo+3])
		case y.opl3Mode && secondOfPair(chanNo) && y.channels[chanNo-3].extended:
			// second half of a fused pair is never keyed on its own
		default:
			keyAll(on, ch)
		}
	}

	if ch.blockFnum == blockFnum {
		return
	}
	ch.blockFnum = blockFnum
	ch.kslBase = kslTab[blockFnum>>6]
	ch.fc = fnumToIncrement(int32(blockFnum))

	// BLK 2,1,0 -> kcode bits 3,2,1. The note select sense is the
	// opposite of what the manuals state, verified on real YMF262:
	// nts=0 takes fnum bit 9, nts=1 takes bit 8 for kcode bit 0.
	ch.kcode = uint8((blockFnum & 0x1C00) >> 9)
	if y.nts {
		ch.kcode |= uint8((blockFnum & 0x100) >> 8)
	} else {
		ch.kcode |= uint8((blockFnum & 0x200) >> 9)
	}

	switch {
	case y.opl3Mode && firstOfPair(chanNo) && ch.extended:
		// this channel's frequency drives all four slots of the pair
		ch3 := &y.channels[chanNo+3]
		ch.refreshSlot(&ch.slot[0])
		ch.refreshSlot(&ch.slot[1])
		ch.refreshSlot(&ch3.slot[0])
		ch.refreshSlot(&ch3.slot[1])
	case y.opl3Mode && secondOfPair(chanNo) && y.channels[chanNo-3].extended:
		// second half of a fused pair follows the first; nothing to do
	default:
		ch.refreshSlot(&ch.slot[0])
		ch.refreshSlot(&ch.slot[1])
	}
}

// writeConnect decodes registers 0xC0-0xC8: output enables, feedback
// amount and the connection bit.
func (y *YMF262) writeConnect(r int, v uint8, chOffset int) {
	if r&0x0F > 8 {
		return
	}
	chanNo := r&0x0F + chOffset
	ch := &y.channels[chanNo]

	if y.opl3Mode {
		y.pan[chanNo][0] = v&0x10 != 0 // ch.A
		y.pan[chanNo][1] = v&0x20 != 0 // ch.B
		y.pan[chanNo][2] = v&0x40 != 0 // ch.C
		y.pan[chanNo][3] = v&0x80 != 0 // ch.D
	} else {
		// always enabled in legacy mode
		y.pan[chanNo] = [4]bool{true, true, true, true}
	}

	ch.slot[0].setFeedbackShift(v >> 1 & 7)
	ch.slot[0].con = v&1 != 0
	y.setConnect(chanNo)
}

// writeWaveform decodes registers 0xE0+: the 3-bit value is stored
// regardless of the current mode, but only waveforms 0-3 are selected
// while OPL3 mode is off (verified on real YMF262).
func (y *YMF262) writeWaveform(r int, v uint8, chOffset int) {
	sl := slotArray[r&0x1F]
	if sl < 0 {
		return
	}
	sl += chOffset * 2
	s := &y.channels[sl/2].slot[sl&1]

	v &= 7
	s.waveNum = v
	if !y.opl3Mode {
		v &= 3
	}
	s.waveSel = v
}

// writeRegDirect decodes a register write without the legacy-mode
// address fold. Reset uses it to reinitialize the chip through the same
// path as live writes.
func (y *YMF262) writeRegDirect(r int, v uint8, time uint64) {
	y.reg[r] = v

	chOffset := 0
	if r&0x100 != 0 {
		switch r {
		case 0x101: // test register
			return

		case 0x104: // 4-op fusion enables
			y.setExtended(0, v&0x01 != 0)
			y.setExtended(1, v&0x02 != 0)
			y.setExtended(2, v&0x04 != 0)
			y.setExtended(9, v&0x08 != 0)
			y.setExtended(10, v&0x10 != 0)
			y.setExtended(11, v&0x20 != 0)
			return

		case 0x105: // OPL3 extensions enable
			y.opl3Mode = v&0x01 != 0
			if y.opl3Mode {
				y.status2 = 0x02
			}
			// Switching modes on the fly does not touch previously
			// selected waveforms, does not update the C0-C8 output
			// enables, and does not unfuse 4-op pairs - all verified
			// on real YMF262.
			return
		}
		chOffset = 9 // register page 2 starts at channel 9
	}

	r &= 0xFF
	switch r & 0xE0 {
	case 0x00: // control block
		switch r & 0x1F {
		case 0x01: // test register, ignored
		case 0x02:
			y.timer1.SetValue(v)
		case 0x03:
			y.timer2.SetValue(v)
		case 0x04:
			if v&r04IRQReset != 0 {
				y.resetStatus(0x60)
			} else {
				y.changeStatusMask(^v & 0x60)
				y.timer1.SetStart(v&r04ST1 != 0, time)
				y.timer2.SetStart(v&r04ST2 != 0, time)
			}
		case 0x08: // x,NTS,x,x,x,x,x,x
			y.nts = v&0x40 != 0
		}

	case 0x20:
		if sl := slotArray[r&0x1F]; sl >= 0 {
			y.setMul(sl+chOffset*2, v)
		}
	case 0x40:
		if sl := slotArray[r&0x1F]; sl >= 0 {
			y.setKslTl(sl+chOffset*2, v)
		}
	case 0x60:
		if sl := slotArray[r&0x1F]; sl >= 0 {
			y.setArDr(sl+chOffset*2, v)
		}
	case 0x80:
		if sl := slotArray[r&0x1F]; sl >= 0 {
			y.setSlRr(sl+chOffset*2, v)
		}

	case 0xA0:
		if r == 0xBD {
			// register 0xBD exists in page 1 only
			if chOffset == 0 {
				y.writeRhythm(v)
			}
			return
		}
		y.writeFrequency(r, v, chOffset)

	case 0xC0:
		y.writeConnect(r, v, chOffset)

	case 0xE0:
		y.writeWaveform(r, v, chOffset)
	}
}
