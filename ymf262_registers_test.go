package ymf262

import "testing"

func TestRegisters_SlotMapping(t *testing.T) {
	y := testChip()
	y.WriteReg(0x105, 0x01, 0)

	tests := []struct {
		reg  int
		ch   int
		slot int
	}{
		{0x20, 0, 0},
		{0x23, 0, 1},
		{0x21, 1, 0},
		{0x25, 2, 1},
		{0x28, 3, 0},
		{0x32, 8, 0},
		{0x35, 8, 1},
		{0x120, 9, 0},
		{0x135, 17, 1},
	}
	for _, tc := range tests {
		y.WriteReg(tc.reg, 0x21, 0)
		if !y.channels[tc.ch].slot[tc.slot].egType {
			t.Errorf("reg 0x%03X: expected write to reach ch%d slot%d", tc.reg, tc.ch, tc.slot)
		}
		y.WriteReg(tc.reg, 0x01, 0)
	}

	// holes in the slot map are ignored
	y.WriteReg(0x26, 0x21, 0)
	y.WriteReg(0x37, 0x21, 0)
	for c := 0; c < 18; c++ {
		for s := 0; s < 2; s++ {
			if y.channels[c].slot[s].egType {
				t.Fatalf("gap register write leaked into ch%d slot%d", c, s)
			}
		}
	}
}

func TestRegisters_TotalLevelAndKSL(t *testing.T) {
	y := testChip()

	y.WriteReg(0x40, 0x3F, 0) // KSL=0, TL=63
	op := &y.channels[0].slot[0]
	if op.tl != 63<<2 {
		t.Errorf("expected tl %d, got %d", 63<<2, op.tl)
	}
	if op.ksl != 31 {
		t.Errorf("expected KSL disabled (shift 31), got %d", op.ksl)
	}

	y.WriteReg(0x40, 0xC0, 0) // KSL=3 (6 dB/oct), TL=0
	if op.ksl != 0 {
		t.Errorf("expected KSL shift 0, got %d", op.ksl)
	}

	// the channel KSL attenuation folds into the effective level
	y.WriteReg(0xA0, 0xFF, 0)
	y.WriteReg(0xB0, 0x1F, 0) // block 7, top fnum
	want := kslTab[0x1FFF>>6] // TL=0, KSL shift 0
	if op.tll != want {
		t.Errorf("expected tll %d, got %d", want, op.tll)
	}
}

func TestRegisters_SustainAndRates(t *testing.T) {
	y := testChip()
	y.WriteReg(0x60, 0xA3, 0)
	y.WriteReg(0x80, 0xE7, 0)

	op := &y.channels[0].slot[0]
	if op.ar != 16+10*4 {
		t.Errorf("expected pre-scaled ar %d, got %d", 16+10*4, op.ar)
	}
	if op.dr != 16+3*4 {
		t.Errorf("expected pre-scaled dr %d, got %d", 16+3*4, op.dr)
	}
	if op.rr != 16+7*4 {
		t.Errorf("expected pre-scaled rr %d, got %d", 16+7*4, op.rr)
	}
	if op.sl != slTab[14] {
		t.Errorf("expected sl %d, got %d", slTab[14], op.sl)
	}
}

func TestRegisters_TwoOpRouting(t *testing.T) {
	y := testChip()

	// con=0: serial FM chain
	y.WriteReg(0xC0, 0x00, 0)
	ch := &y.channels[0]
	if ch.slot[0].connect != connPhaseMod {
		t.Errorf("con=0: expected slot 0 to feed the modulation input, got %d", ch.slot[0].connect)
	}
	if ch.slot[1].connect != 0 {
		t.Errorf("con=0: expected slot 1 to feed channel 0, got %d", ch.slot[1].connect)
	}

	// con=1: both slots reach the output
	y.WriteReg(0xC0, 0x01, 0)
	if ch.slot[0].connect != 0 || ch.slot[1].connect != 0 {
		t.Errorf("con=1: expected both slots on channel 0, got %d/%d",
			ch.slot[0].connect, ch.slot[1].connect)
	}
}

func TestRegisters_FeedbackShift(t *testing.T) {
	y := testChip()
	ch := &y.channels[0]

	y.WriteReg(0xC0, 0x00, 0)
	if ch.slot[0].fbShift != 0 {
		t.Errorf("FB=0: expected feedback disabled, got shift %d", ch.slot[0].fbShift)
	}
	y.WriteReg(0xC0, 7<<1, 0)
	if ch.slot[0].fbShift != 2 {
		t.Errorf("FB=7: expected shift 2, got %d", ch.slot[0].fbShift)
	}
	y.WriteReg(0xC0, 1<<1, 0)
	if ch.slot[0].fbShift != 8 {
		t.Errorf("FB=1: expected shift 8, got %d", ch.slot[0].fbShift)
	}
}

func TestRegisters_FourOpTopologies(t *testing.T) {
	y := testChip()
	y.WriteReg(0x105, 0x01, 0)
	y.WriteReg(0x104, 0x01, 0) // fuse channels 0+3

	ch := &y.channels[0]
	ch3 := &y.channels[3]
	tests := []struct {
		name     string
		con0     uint8
		con3     uint8
		connects [4]int
	}{
		{"serial", 0, 0, [4]int{connPhaseMod, connPhaseMod2, connPhaseMod, 3}},
		{"1-2 parallel 3-4", 0, 1, [4]int{connPhaseMod, 0, connPhaseMod, 3}},
		{"1 parallel 2-3-4", 1, 0, [4]int{0, connPhaseMod2, connPhaseMod, 3}},
		{"1 parallel 2-3 parallel 4", 1, 1, [4]int{0, connPhaseMod2, 3, 3}},
	}
	for _, tc := range tests {
		y.WriteReg(0xC0, tc.con0, 0)
		y.WriteReg(0xC3, tc.con3, 0)
		got := [4]int{
			ch.slot[0].connect, ch.slot[1].connect,
			ch3.slot[0].connect, ch3.slot[1].connect,
		}
		if got != tc.connects {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.connects, got)
		}
	}
}

func TestRegisters_FusionToggleRewires(t *testing.T) {
	y := testChip()
	y.WriteReg(0x105, 0x01, 0)
	y.WriteReg(0xC0, 0x00, 0)
	y.WriteReg(0xC3, 0x00, 0)
	y.WriteReg(0x63, 0x42, 0) // a parameter on ch0 slot 1 to watch

	y.WriteReg(0x104, 0x01, 0)
	ch := &y.channels[0]
	ch3 := &y.channels[3]
	if ch.slot[1].connect != connPhaseMod2 {
		t.Errorf("fused: expected slot 2 feeding the pair, got %d", ch.slot[1].connect)
	}

	y.WriteReg(0x104, 0x00, 0)
	if ch.slot[1].connect != 0 {
		t.Errorf("unfused: expected ch0 slot 1 back on channel 0, got %d", ch.slot[1].connect)
	}
	if ch3.slot[0].connect != connPhaseMod || ch3.slot[1].connect != 3 {
		t.Errorf("unfused: expected ch3 back to 2-op routing, got %d/%d",
			ch3.slot[0].connect, ch3.slot[1].connect)
	}

	// toggling fusion must not disturb operator parameters
	if ch.slot[1].ar != 16+4*4 || ch.slot[1].dr != 16+2*4 {
		t.Error("fusion toggle disturbed operator rate parameters")
	}
}

func TestRegisters_FusedPairSharesFrequency(t *testing.T) {
	y := testChip()
	y.WriteReg(0x105, 0x01, 0)
	y.WriteReg(0x104, 0x01, 0)
	y.WriteReg(0x20, 0x01, 0)
	y.WriteReg(0x28, 0x01, 0) // ch3 slot 0, MUL=1

	// the first channel's frequency drives all four slots
	y.WriteReg(0xA0, 0x55, 0)
	y.WriteReg(0xB0, 0x12, 0)
	fc := y.channels[0].fc
	if y.channels[3].slot[0].incr != fc*uint32(mulTab[1]) {
		t.Errorf("expected second-half slot to follow the pair frequency, got 0x%X",
			y.channels[3].slot[0].incr)
	}

	// a frequency write to the second half refreshes nothing
	before := y.channels[3].slot[0].incr
	y.WriteReg(0xA3, 0x99, 0)
	if y.channels[3].slot[0].incr != before {
		t.Error("second-half frequency write must not retune a fused pair")
	}
}

func TestRegisters_FourOpKeying(t *testing.T) {
	y := testChip()
	y.WriteReg(0x105, 0x01, 0)
	y.WriteReg(0x104, 0x01, 0)

	y.WriteReg(0xA0, 0x00, 0)
	y.WriteReg(0xB0, 0x32, 0)
	for _, c := range []int{0, 3} {
		for s := 0; s < 2; s++ {
			if y.channels[c].slot[s].key != keyMain {
				t.Errorf("ch%d slot%d: expected keyed via the pair", c, s)
			}
		}
	}

	// the second half's key bit is inert while fused
	y.WriteReg(0xB3, 0x12, 0)
	if y.channels[3].slot[0].key != keyMain {
		t.Error("second-half key-off must be ignored while fused")
	}

	y.WriteReg(0xB0, 0x12, 0)
	for _, c := range []int{0, 3} {
		for s := 0; s < 2; s++ {
			if y.channels[c].slot[s].key != 0 {
				t.Errorf("ch%d slot%d: expected released via the pair", c, s)
			}
		}
	}
}

func TestRegisters_PanBits(t *testing.T) {
	y := testChip()

	// legacy mode ignores the pan bits entirely
	y.WriteReg(0xC0, 0x00, 0)
	if y.pan[0] != [4]bool{true, true, true, true} {
		t.Errorf("legacy mode: expected all outputs enabled, got %v", y.pan[0])
	}

	y.WriteReg(0x105, 0x01, 0)
	y.WriteReg(0xC0, 0x10, 0) // ch.A only
	if y.pan[0] != [4]bool{true, false, false, false} {
		t.Errorf("expected A only, got %v", y.pan[0])
	}
	y.WriteReg(0xC0, 0xF0, 0)
	if y.pan[0] != [4]bool{true, true, true, true} {
		t.Errorf("expected all outputs, got %v", y.pan[0])
	}
}

func TestRegisters_WaveformSelect(t *testing.T) {
	y := testChip()

	// legacy mode stores the full 3-bit value but masks the selection
	y.WriteReg(0xE0, 0x07, 0)
	op := &y.channels[0].slot[0]
	if op.waveNum != 7 {
		t.Errorf("expected stored waveform 7, got %d", op.waveNum)
	}
	if op.waveSel != 3 {
		t.Errorf("legacy mode: expected selected waveform 3, got %d", op.waveSel)
	}

	// switching modes alone does not touch the selection
	y.WriteReg(0x105, 0x01, 0)
	if op.waveSel != 3 {
		t.Errorf("mode switch must not reselect waveforms, got %d", op.waveSel)
	}

	// a rewrite in OPL3 mode takes all 3 bits
	y.WriteReg(0xE0, 0x07, 0)
	if op.waveSel != 7 {
		t.Errorf("OPL3 mode: expected waveform 7, got %d", op.waveSel)
	}
}

func TestRegisters_RhythmRegisterIsPage1Only(t *testing.T) {
	y := testChip()
	y.WriteReg(0x105, 0x01, 0)

	y.WriteReg(0x1BD, 0x3F, 0)
	if y.rhythm != 0 {
		t.Errorf("page 2 write must not reach the rhythm register, got 0x%02X", y.rhythm)
	}

	y.WriteReg(0xBD, 0x20, 0)
	if y.rhythm != 0x20 {
		t.Errorf("expected rhythm 0x20, got 0x%02X", y.rhythm)
	}
}
