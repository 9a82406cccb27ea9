// Package apu implements the NES Audio Processing Unit (2A03): five
// channels driven by a shared frame sequencer and mixed through a
// three-stage IIR filter chain into a host-rate sample ring buffer.
package apu

// Frame sequencer CPU-cycle boundaries. Mode 0 (4-step) raises the
// frame IRQ at the fourth boundary unless inhibited; mode 1 (5-step)
// never raises it but clocks one extra quarter/half frame.
const (
	seqStep1 = 3729
	seqStep2 = 7457
	seqStep3 = 11186
	seqStep4 = 14915
	seqStep5 = 18641
)

const cpuFrequency = 1789773.0

// MemoryReader services a DMC sample-byte fetch; the Bus implements
// this by performing a normal CPU-space read.
type MemoryReader interface {
	ReadDMCSample(addr uint16) uint8
}

// APU holds all five channels, the frame sequencer, and the output
// mixing pipeline.
type APU struct {
	pulse1   pulseChannel
	pulse2   pulseChannel
	triangle triangleChannel
	noise    noiseChannel
	dmc      dmcChannel

	frameCycle     uint32
	fiveStepMode   bool
	irqInhibit     bool
	frameIRQFlag   bool
	halfCycle      bool

	dmcStallCycles int

	lowPass1  filter
	highPass1 filter
	highPass2 filter

	sampleRate       int
	cycleAccumulator float64

	ring     []float32
	ringHead int
	ringTail int
	ringLen  int
}

// New constructs an APU producing samples at the given host rate.
func New(sampleRate int) *APU {
	a := &APU{
		irqInhibit: false,
		sampleRate: sampleRate,
		ring:       make([]float32, 1<<15),
	}
	a.noise.shiftRegister = 1
	a.pulse1.onesComplement = true
	a.lowPass1 = newLowPass(float32(sampleRate), 14000)
	a.highPass1 = newHighPass(float32(sampleRate), 90)
	a.highPass2 = newHighPass(float32(sampleRate), 440)
	return a
}

// Reset restores power-on state.
func (a *APU) Reset() {
	*a = *New(a.sampleRate)
}

// TakeDMCStallRequest reports and clears the CPU cycles the DMC reader
// has requested the CPU be stalled, consumed by mos6502.CPU.Step.
func (a *APU) TakeDMCStallRequest() int {
	v := a.dmcStallCycles
	a.dmcStallCycles = 0
	return v
}

// TakeDMCReadRequest reports and clears a pending sample-byte fetch
// address, if the DMC reader needs one serviced this cycle.
func (a *APU) TakeDMCReadRequest() (addr uint16, ok bool) {
	if !a.dmc.memoryReadPending {
		return 0, false
	}
	a.dmc.memoryReadPending = false
	return a.dmc.currentAddr, true
}

// SetDMCReadResponse delivers the byte the Bus read for a prior
// TakeDMCReadRequest.
func (a *APU) SetDMCReadResponse(val uint8) {
	a.dmc.shiftRegister = val
	a.dmc.sampleBufferEmpty = false
	a.dmc.bitsRemaining = 8
}

// IRQAsserted reports whether the frame sequencer or DMC channel is
// currently requesting an IRQ.
func (a *APU) IRQAsserted() bool {
	return (a.frameIRQFlag && !a.irqInhibit) || a.dmc.irqFlag
}

// Step advances the APU by exactly one CPU cycle.
func (a *APU) Step() {
	a.stepFrameSequencer()

	a.triangle.stepTimer()
	if a.halfCycle {
		a.pulse1.stepTimer()
		a.pulse2.stepTimer()
		a.noise.stepTimer()
		a.dmc.stepTimer(a)
	}
	a.halfCycle = !a.halfCycle

	a.cycleAccumulator += float64(a.sampleRate) / cpuFrequency
	if a.cycleAccumulator >= 1.0 {
		a.cycleAccumulator -= 1.0
		a.produceSample()
	}
}

func (a *APU) stepFrameSequencer() {
	a.frameCycle++
	if a.fiveStepMode {
		switch a.frameCycle {
		case seqStep1, seqStep3:
			a.clockQuarterFrame()
		case seqStep2, seqStep4:
			a.clockQuarterFrame()
			a.clockHalfFrame()
		case seqStep5:
			a.clockQuarterFrame()
			a.clockHalfFrame()
			a.frameCycle = 0
		}
		return
	}
	switch a.frameCycle {
	case seqStep1, seqStep3:
		a.clockQuarterFrame()
	case seqStep2:
		a.clockQuarterFrame()
		a.clockHalfFrame()
	case seqStep4:
		a.clockQuarterFrame()
		a.clockHalfFrame()
		if !a.irqInhibit {
			a.frameIRQFlag = true
		}
		a.frameCycle = 0
	}
}

func (a *APU) clockQuarterFrame() {
	a.pulse1.clockEnvelope()
	a.pulse2.clockEnvelope()
	a.noise.clockEnvelope()
	a.triangle.clockLinearCounter()
}

func (a *APU) clockHalfFrame() {
	a.pulse1.clockLength()
	a.pulse1.clockSweep()
	a.pulse2.clockLength()
	a.pulse2.clockSweep()
	a.triangle.clockLength()
	a.noise.clockLength()
}

func (a *APU) produceSample() {
	p1 := a.pulse1.output()
	p2 := a.pulse2.output()
	tr := a.triangle.output()
	no := a.noise.output()
	dm := a.dmc.output()

	raw := mix(p1, p2, tr, no, dm)
	filtered := a.highPass2.apply(a.highPass1.apply(a.lowPass1.apply(raw)))
	a.pushSample(filtered)
}

func (a *APU) pushSample(s float32) {
	next := (a.ringHead + 1) % len(a.ring)
	if next == a.ringTail {
		a.ringTail = (a.ringTail + 1) % len(a.ring) // drop oldest on overrun
		a.ringLen--
	}
	a.ring[a.ringHead] = s
	a.ringHead = next
	a.ringLen++
}

// FillAudio drains up to len(buffer) samples into buffer and reports
// how many were written.
func (a *APU) FillAudio(buffer []float32) int {
	n := 0
	for n < len(buffer) && a.ringLen > 0 {
		buffer[n] = a.ring[a.ringTail]
		a.ringTail = (a.ringTail + 1) % len(a.ring)
		a.ringLen--
		n++
	}
	return n
}

// ClearAudio discards all buffered samples.
func (a *APU) ClearAudio() {
	a.ringHead, a.ringTail, a.ringLen = 0, 0, 0
}

// WriteRegister dispatches a CPU write to $4000-$4017.
func (a *APU) WriteRegister(addr uint16, val uint8) {
	switch addr {
	case 0x4000:
		a.pulse1.writeControl(val)
	case 0x4001:
		a.pulse1.writeSweep(val)
	case 0x4002:
		a.pulse1.writeTimerLow(val)
	case 0x4003:
		a.pulse1.writeTimerHigh(val)
	case 0x4004:
		a.pulse2.writeControl(val)
	case 0x4005:
		a.pulse2.writeSweep(val)
	case 0x4006:
		a.pulse2.writeTimerLow(val)
	case 0x4007:
		a.pulse2.writeTimerHigh(val)
	case 0x4008:
		a.triangle.writeControl(val)
	case 0x400A:
		a.triangle.writeTimerLow(val)
	case 0x400B:
		a.triangle.writeTimerHigh(val)
	case 0x400C:
		a.noise.writeControl(val)
	case 0x400E:
		a.noise.writePeriod(val)
	case 0x400F:
		a.noise.writeLength(val)
	case 0x4010:
		a.dmc.writeControl(val)
	case 0x4011:
		a.dmc.writeDirectLoad(val)
	case 0x4012:
		a.dmc.writeSampleAddr(val)
	case 0x4013:
		a.dmc.writeSampleLength(val)
	case 0x4015:
		a.writeStatus(val)
	case 0x4017:
		a.writeFrameCounter(val)
	}
}

func (a *APU) writeStatus(val uint8) {
	a.pulse1.setEnabled(val&0x01 != 0)
	a.pulse2.setEnabled(val&0x02 != 0)
	a.triangle.setEnabled(val&0x04 != 0)
	a.noise.setEnabled(val&0x08 != 0)
	a.dmc.setEnabled(val&0x10 != 0)
}

// ReadStatus services a CPU read of $4015.
func (a *APU) ReadStatus() uint8 {
	var v uint8
	if a.pulse1.lengthCounter > 0 {
		v |= 0x01
	}
	if a.pulse2.lengthCounter > 0 {
		v |= 0x02
	}
	if a.triangle.lengthCounter > 0 {
		v |= 0x04
	}
	if a.noise.lengthCounter > 0 {
		v |= 0x08
	}
	if a.dmc.bytesRemaining > 0 {
		v |= 0x10
	}
	if a.frameIRQFlag {
		v |= 0x40
	}
	if a.dmc.irqFlag {
		v |= 0x80
	}
	a.frameIRQFlag = false
	return v
}

func (a *APU) writeFrameCounter(val uint8) {
	a.fiveStepMode = val&0x80 != 0
	a.irqInhibit = val&0x40 != 0
	if a.irqInhibit {
		a.frameIRQFlag = false
	}
	a.frameCycle = 0
	if a.fiveStepMode {
		a.clockQuarterFrame()
		a.clockHalfFrame()
	}
}

var lengthTable = [32]uint8{
	10, 254, 20, 2, 40, 4, 80, 6,
	160, 8, 60, 10, 14, 12, 26, 14,
	12, 16, 24, 8, 48, 6, 96, 4,
	192, 2, 72, 16, 28, 32, 52, 2,
}
