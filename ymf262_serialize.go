package ymf262

import (
	"encoding/binary"
	"errors"
)

const (
	serializeVersion = 1
	// Per-slot serialization size:
	// cnt(4) + incr(4) + connect(1) + op1Out(8) + tl(4) + tll(4) +
	// volume(4) + sl(4) + waveSel(1) + waveNum(1) + ar(1) + dr(1) +
	// rr(1) + ksrShift(1) + ksl(1) + ksr(1) + mul(1) + key(1) +
	// fbShift(1) + con(1) + egType(1) + state(1) + amMask(1) + vib(1)
	// = 49. The derived envelope stepping parameters are recomputed on
	// import.
	slotSerializeSize = 49
	// Per-channel (non-slot) fields:
	// blockFnum(4) + fc(4) + kslBase(4) + kcode(1) + extended(1) = 14
	channelSerializeSize = 14
	// Global state:
	// reg(512) + pan(72) + egCnt(4) + noiseRNG(4) + lfoAMCnt(4) +
	// lfoPMCnt(4) + lfoAM(1) + lfoPM(1) + lfoAMDepth(1) +
	// lfoPMDepthRng(1) + rhythm(1) + nts(1) + opl3Mode(1) +
	// status(1) + status2(1) + statusMask(1) = 610
	globalSerializeSize = 610
	// SerializeSize is the total bytes needed for a YMF262 snapshot.
	// version(1) + 36 slots * 49 + 18 channels * 14 + global(610)
	SerializeSize = 1 + 36*slotSerializeSize + 18*channelSerializeSize + globalSerializeSize
)

// boolByte converts a bool to a uint8 (0 or 1).
func boolByte(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

// Serialize writes the chip state to buf, sufficient to resume
// bit-identical output. buf must be at least SerializeSize bytes.
func (y *YMF262) Serialize(buf []byte) error {
	if len(buf) < SerializeSize {
		return errors.New("YMF262 serialize buffer too small")
	}

	offset := 0
	buf[offset] = serializeVersion
	offset++

	for c := range y.channels {
		for s := range y.channels[c].slot {
			offset = serializeSlot(&y.channels[c].slot[s], buf, offset)
		}
	}
	for c := range y.channels {
		offset = serializeChannel(&y.channels[c], buf, offset)
	}

	copy(buf[offset:], y.reg[:])
	offset += len(y.reg)
	for c := range y.pan {
		for o := range y.pan[c] {
			buf[offset] = boolByte(y.pan[c][o])
			offset++
		}
	}

	binary.LittleEndian.PutUint32(buf[offset:], y.egCnt)
	offset += 4
	binary.LittleEndian.PutUint32(buf[offset:], y.noiseRNG)
	offset += 4
	binary.LittleEndian.PutUint32(buf[offset:], y.lfoAMCnt)
	offset += 4
	binary.LittleEndian.PutUint32(buf[offset:], y.lfoPMCnt)
	offset += 4
	buf[offset] = y.lfoAM
	offset++
	buf[offset] = y.lfoPM
	offset++
	buf[offset] = boolByte(y.lfoAMDepth)
	offset++
	buf[offset] = y.lfoPMDepthRng
	offset++
	buf[offset] = y.rhythm
	offset++
	buf[offset] = boolByte(y.nts)
	offset++
	buf[offset] = boolByte(y.opl3Mode)
	offset++
	buf[offset] = y.status
	offset++
	buf[offset] = y.status2
	offset++
	buf[offset] = y.statusMask
	offset++

	return nil
}

// Deserialize restores chip state from buf. Derived envelope stepping
// parameters are recomputed from the restored rates and key scale
// values. buf must be at least SerializeSize bytes.
func (y *YMF262) Deserialize(buf []byte) error {
	if len(buf) < SerializeSize {
		return errors.New("YMF262 deserialize buffer too small")
	}

	offset := 0
	version := buf[offset]
	offset++
	if version > serializeVersion {
		return errors.New("unsupported YMF262 state version")
	}

	for c := range y.channels {
		for s := range y.channels[c].slot {
			offset = deserializeSlot(&y.channels[c].slot[s], buf, offset)
		}
	}
	for c := range y.channels {
		offset = deserializeChannel(&y.channels[c], buf, offset)
	}

	copy(y.reg[:], buf[offset:offset+len(y.reg)])
	offset += len(y.reg)
	for c := range y.pan {
		for o := range y.pan[c] {
			y.pan[c][o] = buf[offset] != 0
			offset++
		}
	}

	y.egCnt = binary.LittleEndian.Uint32(buf[offset:])
	offset += 4
	y.noiseRNG = binary.LittleEndian.Uint32(buf[offset:])
	offset += 4
	y.lfoAMCnt = binary.LittleEndian.Uint32(buf[offset:])
	offset += 4
	y.lfoPMCnt = binary.LittleEndian.Uint32(buf[offset:])
	offset += 4
	y.lfoAM = buf[offset]
	offset++
	y.lfoPM = buf[offset]
	offset++
	y.lfoAMDepth = buf[offset] != 0
	offset++
	y.lfoPMDepthRng = buf[offset]
	offset++
	y.rhythm = buf[offset]
	offset++
	y.nts = buf[offset] != 0
	offset++
	y.opl3Mode = buf[offset] != 0
	offset++
	y.status = buf[offset]
	offset++
	y.status2 = buf[offset]
	offset++
	y.statusMask = buf[offset]
	offset++

	// rebuild the derived envelope stepping parameters
	for c := range y.channels {
		for s := range y.channels[c].slot {
			y.channels[c].slot[s].refreshEGRates()
		}
	}

	return nil
}

// serializeSlot writes a single slot to buf at the given offset.
func serializeSlot(s *oplSlot, buf []byte, offset int) int {
	binary.LittleEndian.PutUint32(buf[offset:], s.cnt)
	offset += 4
	binary.LittleEndian.PutUint32(buf[offset:], s.incr)
	offset += 4
	buf[offset] = uint8(int8(s.connect))
	offset++
	binary.LittleEndian.PutUint32(buf[offset:], uint32(s.op1Out[0]))
	offset += 4
	binary.LittleEndian.PutUint32(buf[offset:], uint32(s.op1Out[1]))
	offset += 4
	binary.LittleEndian.PutUint32(buf[offset:], s.tl)
	offset += 4
	binary.LittleEndian.PutUint32(buf[offset:], uint32(s.tll))
	offset += 4
	binary.LittleEndian.PutUint32(buf[offset:], uint32(s.volume))
	offset += 4
	binary.LittleEndian.PutUint32(buf[offset:], uint32(s.sl))
	offset += 4

	buf[offset] = s.waveSel
	offset++
	buf[offset] = s.waveNum
	offset++
	buf[offset] = s.ar
	offset++
	buf[offset] = s.dr
	offset++
	buf[offset] = s.rr
	offset++
	buf[offset] = s.ksrShift
	offset++
	buf[offset] = s.ksl
	offset++
	buf[offset] = s.ksr
	offset++
	buf[offset] = s.mul
	offset++
	buf[offset] = s.key
	offset++
	buf[offset] = s.fbShift
	offset++
	buf[offset] = boolByte(s.con)
	offset++
	buf[offset] = boolByte(s.egType)
	offset++
	buf[offset] = s.state
	offset++
	buf[offset] = s.amMask
	offset++
	buf[offset] = boolByte(s.vib)
	offset++

	return offset
}

// deserializeSlot reads a single slot from buf at the given offset.
func deserializeSlot(s *oplSlot, buf []byte, offset int) int {
	s.cnt = binary.LittleEndian.Uint32(buf[offset:])
	offset += 4
	s.incr = binary.LittleEndian.Uint32(buf[offset:])
	offset += 4
	s.connect = int(int8(buf[offset]))
	offset++
	s.op1Out[0] = int32(binary.LittleEndian.Uint32(buf[offset:]))
	offset += 4
	s.op1Out[1] = int32(binary.LittleEndian.Uint32(buf[offset:]))
	offset += 4
	s.tl = binary.LittleEndian.Uint32(buf[offset:])
	offset += 4
	s.tll = int32(binary.LittleEndian.Uint32(buf[offset:]))
	offset += 4
	s.volume = int32(binary.LittleEndian.Uint32(buf[offset:]))
	offset += 4
	s.sl = int32(binary.LittleEndian.Uint32(buf[offset:]))
	offset += 4

	s.waveSel = buf[offset]
	offset++
	s.waveNum = buf[offset]
	offset++
	s.ar = buf[offset]
	offset++
	s.dr = buf[offset]
	offset++
	s.rr = buf[offset]
	offset++
	s.ksrShift = buf[offset]
	offset++
	s.ksl = buf[offset]
	offset++
	s.ksr = buf[offset]
	offset++
	s.mul = buf[offset]
	offset++
	s.key = buf[offset]
	offset++
	s.fbShift = buf[offset]
	offset++
	s.con = buf[offset] != 0
	offset++
	s.egType = buf[offset] != 0
	offset++
	s.state = buf[offset]
	offset++
	s.amMask = buf[offset]
	offset++
	s.vib = buf[offset] != 0
	offset++

	return offset
}

// serializeChannel writes the non-slot fields of a channel to buf.
func serializeChannel(ch *oplChannel, buf []byte, offset int) int {
	binary.LittleEndian.PutUint32(buf[offset:], ch.blockFnum)
	offset += 4
	binary.LittleEndian.PutUint32(buf[offset:], ch.fc)
	offset += 4
	binary.LittleEndian.PutUint32(buf[offset:], uint32(ch.kslBase))
	offset += 4
	buf[offset] = ch.kcode
	offset++
	buf[offset] = boolByte(ch.extended)
	offset++
	return offset
}

// deserializeChannel reads the non-slot fields of a channel from buf.
func deserializeChannel(ch *oplChannel, buf []byte, offset int) int {
	ch.blockFnum = binary.LittleEndian.Uint32(buf[offset:])
	offset += 4
	ch.fc = binary.LittleEndian.Uint32(buf[offset:])
	offset += 4
	ch.kslBase = int32(binary.LittleEndian.Uint32(buf[offset:]))
	offset += 4
	ch.kcode = buf[offset]
	offset++
	ch.extended = buf[offset] != 0
	offset++
	return offset
}
