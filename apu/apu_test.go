package apu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPulseTimerHighLoadsLengthCounter(t *testing.T) {
	a := New(44100)
	a.writeStatus(0x01) // enable pulse1
	a.WriteRegister(0x4003, 0x08) // length index 1 -> 254
	assert.Equal(t, uint8(254), a.pulse1.lengthCounter)
}

func TestPulseMutedBelowMinimumPeriod(t *testing.T) {
	a := New(44100)
	a.writeStatus(0x01)
	a.WriteRegister(0x4000, 0x0F) // constant volume 15
	a.WriteRegister(0x4002, 0x02) // low timer byte
	a.WriteRegister(0x4003, 0x00) // high timer byte -> period 2, muted
	assert.Equal(t, uint8(0), a.pulse1.output())
}

func TestPulseOneSweepUsesOnesComplement(t *testing.T) {
	a := New(44100)
	require.True(t, a.pulse1.onesComplement)
	require.False(t, a.pulse2.onesComplement)
}

func TestFrameSequencerFourStepRaisesIRQ(t *testing.T) {
	a := New(44100)
	a.writeFrameCounter(0x00) // 4-step, IRQ enabled
	for i := 0; i < seqStep4; i++ {
		a.stepFrameSequencer()
	}
	assert.True(t, a.frameIRQFlag)
}

func TestFrameSequencerIRQInhibited(t *testing.T) {
	a := New(44100)
	a.writeFrameCounter(0x40) // inhibit bit set
	for i := 0; i < seqStep4; i++ {
		a.stepFrameSequencer()
	}
	assert.False(t, a.frameIRQFlag)
}

func TestFrameSequencerFiveStepNeverRaisesIRQ(t *testing.T) {
	a := New(44100)
	a.writeFrameCounter(0x80) // 5-step mode
	for i := 0; i < seqStep5; i++ {
		a.stepFrameSequencer()
	}
	assert.False(t, a.frameIRQFlag)
}

func TestTriangleSilencedByZeroLinearCounter(t *testing.T) {
	a := New(44100)
	a.triangle.lengthCounter = 5
	a.triangle.linearCounter = 0
	a.triangle.timerPeriod = 100
	assert.Equal(t, uint8(0), a.triangle.output())
}

func TestNoiseShiftRegisterResetsToOne(t *testing.T) {
	a := New(44100)
	assert.Equal(t, uint16(1), a.noise.shiftRegister)
}

func TestDMCSampleAddressAndLength(t *testing.T) {
	a := New(44100)
	a.WriteRegister(0x4012, 0x01)
	a.WriteRegister(0x4013, 0x01)
	assert.Equal(t, uint16(0xC040), a.dmc.sampleAddr)
	assert.Equal(t, uint16(0x11), a.dmc.sampleLength)
}

func TestDMCSampleAddressWrapsAtFFFF(t *testing.T) {
	a := New(44100)
	a.dmc.currentAddr = 0xFFFF
	a.dmc.bytesRemaining = 2
	a.dmc.bitsRemaining = 0
	a.dmc.stepReader(a)
	assert.Equal(t, uint16(0x8000), a.dmc.currentAddr)
}

func TestDMCReadRequestStallsCPUFourCycles(t *testing.T) {
	a := New(44100)
	a.dmc.bytesRemaining = 1
	a.dmc.bitsRemaining = 0
	a.dmc.stepReader(a)
	assert.Equal(t, 4, a.TakeDMCStallRequest())
}

func TestMixerZeroInputsProduceZero(t *testing.T) {
	assert.Equal(t, float32(0), mix(0, 0, 0, 0, 0))
}

func TestAudioRingBufferFillsAndDrains(t *testing.T) {
	a := New(44100)
	a.pushSample(0.5)
	a.pushSample(-0.5)
	buf := make([]float32, 4)
	n := a.FillAudio(buf)
	assert.Equal(t, 2, n)
	assert.Equal(t, float32(0.5), buf[0])
	assert.Equal(t, float32(-0.5), buf[1])
}

func TestClearAudioEmptiesRing(t *testing.T) {
	a := New(44100)
	a.pushSample(0.1)
	a.ClearAudio()
	buf := make([]float32, 1)
	assert.Equal(t, 0, a.FillAudio(buf))
}
