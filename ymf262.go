// Package ymf262 implements the Yamaha YMF262 (OPL3) FM synthesizer at
// the register level: 18 two-operator channels, six of which can be
// fused into 4-operator voices, plus the five-voice rhythm mode.
//
// The chip is driven synchronously by its host: register writes must be
// delivered in non-decreasing time order and never reordered relative
// to sample generation. The core never blocks and never allocates per
// sample. Ordering violations are a caller bug, not something the core
// detects.
package ymf262

// Register 0x04 bits.
const (
	r04ST1      = 0x01 // timer 1 start
	r04ST2      = 0x02 // timer 2 start
	r04MaskT2   = 0x20 // mask timer 2 flag
	r04MaskT1   = 0x40 // mask timer 1 flag
	r04IRQReset = 0x80
)

// Status register flags. Timer collaborators report expiry back through
// TimerExpired with the matching flag.
const (
	StatusTimer2 = r04MaskT2
	StatusTimer1 = r04MaskT1
)

// EmuTimer is one of the two hardware timers, owned by the host
// scheduler. The core decides when to program and arm them; the host
// decides when they actually fire and calls TimerExpired.
type EmuTimer interface {
	// SetValue sets the timer reload value.
	SetValue(v uint8)
	// SetStart arms or disarms the timer at the given time.
	SetStart(start bool, time uint64)
}

// IRQLine is the interrupt request line the chip drives from its status
// flags and mask.
type IRQLine interface {
	Assert()
	Deassert()
}

type nullTimer struct{}

func (nullTimer) SetValue(uint8)        {}
func (nullTimer) SetStart(bool, uint64) {}

type nullIRQ struct{}

func (nullIRQ) Assert()   {}
func (nullIRQ) Deassert() {}

// YMF262 implements the OPL3 FM synthesizer.
type YMF262 struct {
	timer1 EmuTimer
	timer2 EmuTimer
	irq    IRQLine

	channels [18]oplChannel
	chanout  [18]int32 // per-sample channel accumulators

	reg [512]uint8 // register file, page 2 at 0x100-0x1FF

	// Four output enable bits per channel (CH.A/B/C/D); only A and B
	// leave the chip on the two-channel output.
	pan [18][4]bool

	egCnt    uint32 // global envelope generator counter
	noiseRNG uint32 // 23-bit rhythm noise shift register

	// LFO phase counters. The AM counter steps through lfoAMTable in
	// 1/64 quanta, the PM counter holds its position in 1/1024 quanta.
	lfoAMCnt      uint32
	lfoPMCnt      uint32
	lfoAM         uint8 // current tremolo attenuation
	lfoPM         uint8 // vibrato table position with depth bit folded in
	lfoAMDepth    bool
	lfoPMDepthRng uint8 // 0 or 8

	// Per-sample modulation scratch consumed by chained operators.
	phaseMod  int32
	phaseMod2 int32

	rhythm   uint8 // register 0xBD low 6 bits
	nts      bool  // note select
	opl3Mode bool  // extended (OPL3) mode enable

	status     uint8
	status2    uint8
	statusMask uint8
}

// New creates a YMF262 wired to its timer and IRQ collaborators. Nil
// collaborators are allowed and are replaced by no-ops.
func New(timer1, timer2 EmuTimer, irq IRQLine) *YMF262 {
	if timer1 == nil {
		timer1 = nullTimer{}
	}
	if timer2 == nil {
		timer2 = nullTimer{}
	}
	if irq == nil {
		irq = nullIRQ{}
	}
	y := &YMF262{
		timer1: timer1,
		timer2: timer2,
		irq:    irq,
	}
	y.Reset(0)
	return y
}

// TimerExpired is called back by a timer collaborator when it
// overflows; flag is StatusTimer1 or StatusTimer2.
func (y *YMF262) TimerExpired(flag uint8) {
	y.setStatus(flag)
}

// setStatus raises status flags and updates the IRQ line, masking out
// disabled sources.
func (y *YMF262) setStatus(flag uint8) {
	y.status |= flag
	if y.status&y.statusMask != 0 {
		y.status |= 0x80
		y.irq.Assert()
	}
}

// resetStatus clears status flags and updates the IRQ line.
func (y *YMF262) resetStatus(flag uint8) {
	y.status &^= flag
	if y.status&y.statusMask == 0 {
		y.status &= 0x7F
		y.irq.Deassert()
	}
}

// changeStatusMask installs a new IRQ mask and re-evaluates the line.
func (y *YMF262) changeStatusMask(flag uint8) {
	y.statusMask = flag
	y.status &= y.statusMask
	if y.status != 0 {
		y.status |= 0x80
		y.irq.Assert()
	} else {
		y.status &= 0x7F
		y.irq.Deassert()
	}
}

// ReadStatus returns the status byte and clears the transient OPL3
// "new mode" bit.
func (y *YMF262) ReadStatus() uint8 {
	result := y.status | y.status2
	y.status2 = 0
	return result
}

// PeekStatus returns the status byte without side effects.
func (y *YMF262) PeekStatus() uint8 {
	return y.status | y.status2
}

// ReadReg returns the stored value of a register.
func (y *YMF262) ReadReg(r int) uint8 {
	return y.PeekReg(r)
}

// PeekReg returns the stored value of a register without side effects.
func (y *YMF262) PeekReg(r int) uint8 {
	return y.reg[r&0x1FF]
}

// Reset drives the chip to its power-on state. Every register is
// reinitialized through the ordinary decode path so that reset cannot
// diverge from live writes. Registers 0x104 and 0x105 are deliberately
// not touched, matching the hardware core this is derived from.
func (y *YMF262) Reset(time uint64) {
	y.egCnt = 0
	y.noiseRNG = 1
	y.nts = false
	y.resetStatus(0x60)

	y.writeRegDirect(0x01, 0, time) // test register
	y.writeRegDirect(0x02, 0, time) // timer 1
	y.writeRegDirect(0x03, 0, time) // timer 2
	y.writeRegDirect(0x04, 0, time) // IRQ mask clear

	for r := 0xFF; r >= 0x20; r-- {
		y.writeRegDirect(r, 0, time)
	}
	for r := 0x1FF; r >= 0x120; r-- {
		y.writeRegDirect(r, 0, time)
	}

	for c := range y.channels {
		ch := &y.channels[c]
		for s := range ch.slot {
			ch.slot[s].state = egOff
			ch.slot[s].volume = maxAttIndex
		}
	}
}

// WriteReg writes a register. In legacy (non-OPL3) mode the second
// register page is folded onto the first, except for register 0x105
// which must stay reachable to enable OPL3 mode in the first place.
func (y *YMF262) WriteReg(r int, v uint8, time uint64) {
	r &= 0x1FF
	if !y.opl3Mode && r != 0x105 {
		r &^= 0x100
	}
	y.writeRegDirect(r, v, time)
}
