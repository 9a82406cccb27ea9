package apu

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

// stateWriter/stateReader are small sequential binary codecs used to
// keep the APU's save-state encoding free of per-field boilerplate
// across its five channels.
type stateWriter struct{ buf bytes.Buffer }

func (w *stateWriter) boolean(b bool) {
	if b {
		w.buf.WriteByte(1)
	} else {
		w.buf.WriteByte(0)
	}
}
func (w *stateWriter) u8(v uint8)   { w.buf.WriteByte(v) }
func (w *stateWriter) u16(v uint16) { binary.Write(&w.buf, binary.BigEndian, v) }
func (w *stateWriter) u32(v uint32) { binary.Write(&w.buf, binary.BigEndian, v) }
func (w *stateWriter) f32(v float32) {
	binary.Write(&w.buf, binary.BigEndian, math.Float32bits(v))
}

type stateReader struct {
	r   *bytes.Reader
	err error
}

func (r *stateReader) boolean() bool {
	if r.err != nil {
		return false
	}
	v, err := r.r.ReadByte()
	if err != nil {
		r.err = err
	}
	return v != 0
}
func (r *stateReader) u8() uint8 {
	if r.err != nil {
		return 0
	}
	v, err := r.r.ReadByte()
	if err != nil {
		r.err = err
	}
	return v
}
func (r *stateReader) u16() uint16 {
	if r.err != nil {
		return 0
	}
	var v uint16
	r.err = binary.Read(r.r, binary.BigEndian, &v)
	return v
}
func (r *stateReader) u32() uint32 {
	if r.err != nil {
		return 0
	}
	var v uint32
	r.err = binary.Read(r.r, binary.BigEndian, &v)
	return v
}
func (r *stateReader) f32() float32 {
	if r.err != nil {
		return 0
	}
	var bits uint32
	r.err = binary.Read(r.r, binary.BigEndian, &bits)
	return math.Float32frombits(bits)
}

func (w *stateWriter) pulse(p *pulseChannel) {
	w.boolean(p.enabled)
	w.boolean(p.onesComplement)
	w.u8(p.dutyCycle)
	w.boolean(p.lengthHalt)
	w.boolean(p.constantVol)
	w.u8(p.volume)
	w.boolean(p.sweepEnable)
	w.u8(p.sweepPeriod)
	w.boolean(p.sweepNegate)
	w.u8(p.sweepShift)
	w.boolean(p.sweepReload)
	w.u8(p.sweepCount)
	w.u16(p.timerPeriod)
	w.u16(p.timerCounter)
	w.u8(p.lengthCounter)
	w.boolean(p.envelopeStart)
	w.u8(p.envelopeCounter)
	w.u8(p.envelopeDivider)
	w.u8(p.dutyIndex)
}

func (r *stateReader) pulse(p *pulseChannel) {
	p.enabled = r.boolean()
	p.onesComplement = r.boolean()
	p.dutyCycle = r.u8()
	p.lengthHalt = r.boolean()
	p.constantVol = r.boolean()
	p.volume = r.u8()
	p.sweepEnable = r.boolean()
	p.sweepPeriod = r.u8()
	p.sweepNegate = r.boolean()
	p.sweepShift = r.u8()
	p.sweepReload = r.boolean()
	p.sweepCount = r.u8()
	p.timerPeriod = r.u16()
	p.timerCounter = r.u16()
	p.lengthCounter = r.u8()
	p.envelopeStart = r.boolean()
	p.envelopeCounter = r.u8()
	p.envelopeDivider = r.u8()
	p.dutyIndex = r.u8()
}

func (w *stateWriter) triangle(t *triangleChannel) {
	w.boolean(t.enabled)
	w.boolean(t.controlFlag)
	w.u8(t.linearLoad)
	w.u16(t.timerPeriod)
	w.u16(t.timerCounter)
	w.u8(t.lengthCounter)
	w.u8(t.linearCounter)
	w.boolean(t.linearReload)
	w.u8(t.sequenceIndex)
}

func (r *stateReader) triangle(t *triangleChannel) {
	t.enabled = r.boolean()
	t.controlFlag = r.boolean()
	t.linearLoad = r.u8()
	t.timerPeriod = r.u16()
	t.timerCounter = r.u16()
	t.lengthCounter = r.u8()
	t.linearCounter = r.u8()
	t.linearReload = r.boolean()
	t.sequenceIndex = r.u8()
}

func (w *stateWriter) noise(n *noiseChannel) {
	w.boolean(n.enabled)
	w.boolean(n.lengthHalt)
	w.boolean(n.constantVol)
	w.u8(n.volume)
	w.boolean(n.mode)
	w.u16(n.timerPeriod)
	w.u16(n.timerCounter)
	w.u8(n.lengthCounter)
	w.boolean(n.envelopeStart)
	w.u8(n.envelopeCounter)
	w.u8(n.envelopeDivider)
	w.u16(n.shiftRegister)
}

func (r *stateReader) noise(n *noiseChannel) {
	n.enabled = r.boolean()
	n.lengthHalt = r.boolean()
	n.constantVol = r.boolean()
	n.volume = r.u8()
	n.mode = r.boolean()
	n.timerPeriod = r.u16()
	n.timerCounter = r.u16()
	n.lengthCounter = r.u8()
	n.envelopeStart = r.boolean()
	n.envelopeCounter = r.u8()
	n.envelopeDivider = r.u8()
	n.shiftRegister = r.u16()
}

func (w *stateWriter) dmc(d *dmcChannel) {
	w.boolean(d.irqEnable)
	w.boolean(d.loopFlag)
	w.boolean(d.irqFlag)
	w.u8(d.rateIndex)
	w.u8(d.outputLevel)
	w.u16(d.sampleAddr)
	w.u16(d.sampleLength)
	w.u16(d.currentAddr)
	w.u16(d.bytesRemaining)
	w.u16(d.timerCounter)
	w.u8(d.shiftRegister)
	w.u8(d.bitsRemaining)
	w.boolean(d.sampleBufferEmpty)
	w.boolean(d.memoryReadPending)
}

func (r *stateReader) dmc(d *dmcChannel) {
	d.irqEnable = r.boolean()
	d.loopFlag = r.boolean()
	d.irqFlag = r.boolean()
	d.rateIndex = r.u8()
	d.outputLevel = r.u8()
	d.sampleAddr = r.u16()
	d.sampleLength = r.u16()
	d.currentAddr = r.u16()
	d.bytesRemaining = r.u16()
	d.timerCounter = r.u16()
	d.shiftRegister = r.u8()
	d.bitsRemaining = r.u8()
	d.sampleBufferEmpty = r.boolean()
	d.memoryReadPending = r.boolean()
}

func (w *stateWriter) filt(f *filter) {
	w.f32(f.b0)
	w.f32(f.b1)
	w.f32(f.a1)
	w.f32(f.prevX)
	w.f32(f.prevY)
}

func (r *stateReader) filt(f *filter) {
	f.b0 = r.f32()
	f.b1 = r.f32()
	f.a1 = r.f32()
	f.prevX = r.f32()
	f.prevY = r.f32()
}

// SaveState encodes all five channels, the frame sequencer and the
// filter chain's running history. The host-rate audio ring buffer is
// transient presentation state and is not included; LoadState leaves
// it as-is (callers typically ClearAudio around a load).
func (a *APU) SaveState() []byte {
	w := &stateWriter{}
	w.pulse(&a.pulse1)
	w.pulse(&a.pulse2)
	w.triangle(&a.triangle)
	w.noise(&a.noise)
	w.dmc(&a.dmc)

	w.u32(a.frameCycle)
	w.boolean(a.fiveStepMode)
	w.boolean(a.irqInhibit)
	w.boolean(a.frameIRQFlag)
	w.boolean(a.halfCycle)
	w.u32(uint32(a.dmcStallCycles))

	w.filt(&a.lowPass1)
	w.filt(&a.highPass1)
	w.filt(&a.highPass2)

	return w.buf.Bytes()
}

// LoadState restores state previously produced by SaveState.
func (a *APU) LoadState(data []byte) error {
	r := &stateReader{r: bytes.NewReader(data)}
	r.pulse(&a.pulse1)
	r.pulse(&a.pulse2)
	r.triangle(&a.triangle)
	r.noise(&a.noise)
	r.dmc(&a.dmc)

	a.frameCycle = r.u32()
	a.fiveStepMode = r.boolean()
	a.irqInhibit = r.boolean()
	a.frameIRQFlag = r.boolean()
	a.halfCycle = r.boolean()
	a.dmcStallCycles = int(r.u32())

	r.filt(&a.lowPass1)
	r.filt(&a.highPass1)
	r.filt(&a.highPass2)

	if r.err != nil {
		return fmt.Errorf("apu: load state: %w", r.err)
	}
	return nil
}
