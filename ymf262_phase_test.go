package ymf262

import "testing"

func TestPhase_FnumToIncrement(t *testing.T) {
	tests := []struct {
		blockFnum int32
		want      uint32
	}{
		{0x0000, 0},
		{0x0155, 0x155 << 5},          // block 0
		{0x0400 | 0x155, 0x155 << 6},  // block 1
		{0x1200, 0x200 << 9},          // block 4
		{0x1C00 | 0x3FF, 0x3FF << 12}, // block 7, max fnum
	}
	for _, tc := range tests {
		if got := fnumToIncrement(tc.blockFnum); got != tc.want {
			t.Errorf("fnumToIncrement(0x%04X): expected 0x%X, got 0x%X", tc.blockFnum, tc.want, got)
		}
	}
}

func TestPhase_FrequencyRegisters(t *testing.T) {
	y := testChip()
	y.WriteReg(0x20, 0x22, 0) // MUL=2

	y.WriteReg(0xA0, 0x55, 0)
	y.WriteReg(0xB0, 0x12, 0) // block 4, fnum high 0x2, key off

	ch := &y.channels[0]
	if ch.blockFnum != 0x1255 {
		t.Fatalf("expected blockFnum 0x1255, got 0x%04X", ch.blockFnum)
	}
	if ch.fc != fnumToIncrement(0x1255) {
		t.Errorf("expected fc 0x%X, got 0x%X", fnumToIncrement(0x1255), ch.fc)
	}
	if ch.kslBase != kslTab[0x1255>>6] {
		t.Errorf("expected kslBase %d, got %d", kslTab[0x1255>>6], ch.kslBase)
	}

	// phase increment is the channel frequency times the slot multiple
	op := &ch.slot[0]
	if op.mul != uint8(mulTab[2]) {
		t.Fatalf("expected mul %d, got %d", mulTab[2], op.mul)
	}
	if op.incr != ch.fc*uint32(op.mul) {
		t.Errorf("expected incr 0x%X, got 0x%X", ch.fc*uint32(op.mul), op.incr)
	}
}

func TestPhase_MulTableHalfStep(t *testing.T) {
	// MULTIPLE=0 means x0.5; the table carries doubled values so the
	// half step stays integral
	y := testChip()
	y.WriteReg(0x20, 0x20, 0) // MUL=0
	y.WriteReg(0x23, 0x21, 0) // MUL=1
	y.WriteReg(0xA0, 0x00, 0)
	y.WriteReg(0xB0, 0x12, 0)

	ch := &y.channels[0]
	if 2*ch.slot[0].incr != ch.slot[1].incr {
		t.Errorf("expected MUL=0 to run at half the MUL=1 rate: 0x%X vs 0x%X",
			ch.slot[0].incr, ch.slot[1].incr)
	}
}

func TestPhase_KeyCodeNoteSelect(t *testing.T) {
	y := testChip()

	// nts=0: kcode bit 0 comes from fnum bit 9
	y.WriteReg(0xA0, 0x55, 0)
	y.WriteReg(0xB0, 0x12, 0) // blockFnum 0x1255, fnum bit 9 = 1
	if got := y.channels[0].kcode; got != 9 {
		t.Errorf("nts=0: expected kcode 9, got %d", got)
	}

	// nts=1: kcode bit 0 comes from fnum bit 8 instead
	y.WriteReg(0x08, 0x40, 0)
	y.WriteReg(0xA0, 0x56, 0) // force a frequency refresh
	if got := y.channels[0].kcode; got != 8 {
		t.Errorf("nts=1: expected kcode 8, got %d", got)
	}
}

func TestPhase_KeyScaleRateShift(t *testing.T) {
	y := testChip()
	y.WriteReg(0xA0, 0x55, 0)
	y.WriteReg(0xB0, 0x12, 0)

	// KSR bit clear: kcode >> 2
	y.WriteReg(0x20, 0x01, 0)
	if got := y.channels[0].slot[0].ksr; got != 9>>2 {
		t.Errorf("expected ksr %d, got %d", 9>>2, got)
	}

	// KSR bit set: full kcode
	y.WriteReg(0x20, 0x11, 0)
	if got := y.channels[0].slot[0].ksr; got != 9 {
		t.Errorf("expected ksr 9, got %d", got)
	}
}

func TestPhase_VibratoShiftsPhase(t *testing.T) {
	plain := testChip()
	vib := testChip()
	for _, y := range []*YMF262{plain, vib} {
		y.WriteReg(0xBD, 0x40, 0) // wide vibrato depth
		y.WriteReg(0x60, 0xF0, 0)
		y.WriteReg(0xA0, 0x00, 0)
		y.WriteReg(0xB0, 0x3E, 0) // block 7, fnum 0x200: strong vibrato rows
	}
	plain.WriteReg(0x20, 0x01, 0)
	vib.WriteReg(0x20, 0x41, 0) // vibrato enable

	// one LFO level lasts 1024 samples; run long enough to pass through
	// nonzero table entries
	run(plain, 4096)
	run(vib, 4096)

	if plain.channels[0].slot[0].cnt == vib.channels[0].slot[0].cnt {
		t.Error("expected vibrato to displace the phase counter")
	}
}

func TestPhase_TremoloModulatesOutput(t *testing.T) {
	flat := testChip()
	trem := testChip()
	for _, y := range []*YMF262{flat, trem} {
		programChannel(y, 0)
	}
	trem.WriteReg(0x23, 0xA1, 0) // carrier tremolo enable (AM bit)
	trem.WriteReg(0xBD, 0x80, 0) // deep tremolo

	a := genBufs(8192)
	b := genBufs(8192)
	flat.GenerateChannels(a, 8192)
	trem.GenerateChannels(b, 8192)

	differs := false
	for i := range a[0] {
		if a[0][i] != b[0][i] {
			differs = true
			break
		}
	}
	if !differs {
		t.Error("expected tremolo to change the output")
	}
}
