// Command opl3demo programs a couple of OPL3 voices and streams the
// generated audio to the default output device.
package main

import (
	"flag"
	"log"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/user-none/go-chip-ymf262"
)

// The YMF262 produces one sample per 288 master clocks; at the stock
// 14.318 MHz crystal that is about 49716 Hz.
const sampleRate = 49716

// chipMu serializes register writes against sample generation; oto
// pulls samples from its own goroutine.
var chipMu sync.Mutex

// chipReader pulls samples out of the chip on demand, mixing the 18
// channel outputs down to one int16 stereo stream.
type chipReader struct {
	chip *ymf262.YMF262
	bufs [][]int32
}

func newChipReader(chip *ymf262.YMF262) *chipReader {
	bufs := make([][]int32, 18)
	return &chipReader{chip: chip, bufs: bufs}
}

func (c *chipReader) Read(p []byte) (int, error) {
	frames := len(p) / 4 // 2 channels x int16
	if frames == 0 {
		return 0, nil
	}
	chipMu.Lock()
	defer chipMu.Unlock()
	for i := range c.bufs {
		if cap(c.bufs[i]) < 2*frames {
			c.bufs[i] = make([]int32, 2*frames)
		}
		c.bufs[i] = c.bufs[i][:2*frames]
	}
	c.chip.GenerateChannels(c.bufs, frames)

	for f := 0; f < 2*frames; f++ {
		var mix int32
		for ch := range c.bufs {
			mix += c.bufs[ch][f]
		}
		if mix > 32767 {
			mix = 32767
		} else if mix < -32768 {
			mix = -32768
		}
		p[f*2+0] = byte(mix)
		p[f*2+1] = byte(mix >> 8)
	}
	return frames * 4, nil
}

func write(chip *ymf262.YMF262, r int, v uint8) {
	chipMu.Lock()
	chip.WriteReg(r, v, 0)
	chipMu.Unlock()
}

// programVoice sets up a simple 2-op FM voice on a channel.
func programVoice(chip *ymf262.YMF262, ch int) {
	base, page := ch, 0
	if ch >= 9 {
		base, page = ch-9, 0x100
	}
	off := []int{base, base + 3}

	// modulator
	write(chip, page+0x20+off[0], 0x21) // sustained, MUL=1
	write(chip, page+0x40+off[0], 0x1A) // some attenuation
	write(chip, page+0x60+off[0], 0xF2)
	write(chip, page+0x80+off[0], 0x45)
	write(chip, page+0xE0+off[0], 0x00)

	// carrier
	write(chip, page+0x20+off[1], 0x21)
	write(chip, page+0x40+off[1], 0x00)
	write(chip, page+0x60+off[1], 0xF4)
	write(chip, page+0x80+off[1], 0x25)
	write(chip, page+0xE0+off[1], 0x00)

	write(chip, page+0xC0+base, 0x36) // L+R, feedback 3, serial
}

// noteOn keys a channel at the given block and fnum.
func noteOn(chip *ymf262.YMF262, ch, block, fnum int) {
	base, page := ch, 0
	if ch >= 9 {
		base, page = ch-9, 0x100
	}
	write(chip, page+0xA0+base, uint8(fnum))
	write(chip, page+0xB0+base, uint8(0x20|block<<2|fnum>>8))
}

func noteOff(chip *ymf262.YMF262, ch int) {
	base, page := ch, 0
	if ch >= 9 {
		base, page = ch-9, 0x100
	}
	chipMu.Lock()
	chip.WriteReg(page+0xB0+base, chip.PeekReg(page+0xB0+base)&^0x20, 0)
	chipMu.Unlock()
}

func main() {
	duration := flag.Duration("duration", 4*time.Second, "how long to play")
	volume := flag.Float64("volume", 1.0, "playback volume (0.0-1.0)")
	flag.Parse()

	chip := ymf262.New(nil, nil, nil)
	chip.WriteReg(0x105, 0x01, 0) // OPL3 mode
	chip.WriteReg(0xBD, 0xC0, 0)  // deep tremolo and vibrato

	programVoice(chip, 0)
	programVoice(chip, 1)
	programVoice(chip, 9)

	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   50 * time.Millisecond,
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		log.Fatal(err)
	}
	<-ready

	player := ctx.NewPlayer(newChipReader(chip))
	player.SetVolume(*volume)
	player.Play()
	defer player.Close()

	// a small A major arpeggio
	notes := []struct {
		ch, block, fnum int
	}{
		{0, 4, 0x241}, // A4
		{1, 4, 0x2D6}, // C#5
		{9, 4, 0x361}, // E5
	}
	for _, n := range notes {
		noteOn(chip, n.ch, n.block, n.fnum)
		time.Sleep(300 * time.Millisecond)
	}

	time.Sleep(*duration)
	for _, n := range notes {
		noteOff(chip, n.ch)
	}
	time.Sleep(500 * time.Millisecond)
}
