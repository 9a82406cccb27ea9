package mos6502

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBus is a flat 64KiB address space with programmable interrupt
// lines, enough to exercise the CPU in isolation from the console.
type fakeBus struct {
	mem        [0x10000]byte
	nmiPending bool
	irqLine    bool
	oamDMA     bool
	dmcStall   int
}

func (b *fakeBus) Read(addr uint16) uint8     { return b.mem[addr] }
func (b *fakeBus) Write(addr uint16, v uint8) { b.mem[addr] = v }
func (b *fakeBus) PollNMI() bool {
	v := b.nmiPending
	b.nmiPending = false
	return v
}
func (b *fakeBus) IRQLine() bool { return b.irqLine }
func (b *fakeBus) TakeOAMDMAPending() bool {
	v := b.oamDMA
	b.oamDMA = false
	return v
}
func (b *fakeBus) TakeDMCStallRequest() int {
	v := b.dmcStall
	b.dmcStall = 0
	return v
}

func newTestCPU() (*CPU, *fakeBus) {
	bus := &fakeBus{}
	bus.mem[0xFFFC] = 0x00
	bus.mem[0xFFFD] = 0x80
	c := New(bus)
	return c, bus
}

func TestResetVector(t *testing.T) {
	c, _ := newTestCPU()
	assert.Equal(t, uint16(0x8000), c.PC)
	assert.Equal(t, uint8(0xFD), c.SP)
}

func TestLDAImmediateSetsFlags(t *testing.T) {
	c, bus := newTestCPU()
	bus.mem[0x8000] = 0xA9 // LDA #$00
	bus.mem[0x8001] = 0x00
	cycles := c.Step()
	assert.Equal(t, 2, cycles)
	assert.Equal(t, uint8(0), c.A)
	assert.True(t, c.flag(FlagZero))
	assert.False(t, c.flag(FlagNegative))
}

func TestADCOverflowFlag(t *testing.T) {
	c, bus := newTestCPU()
	c.A = 0x7F
	bus.mem[0x8000] = 0x69 // ADC #$01
	bus.mem[0x8001] = 0x01
	c.Step()
	assert.Equal(t, uint8(0x80), c.A)
	assert.True(t, c.flag(FlagOverflow))
	assert.True(t, c.flag(FlagNegative))
	assert.False(t, c.flag(FlagCarry))
}

func TestSBCBorrow(t *testing.T) {
	c, bus := newTestCPU()
	c.A = 0x00
	c.setFlag(FlagCarry, true) // no borrow in
	bus.mem[0x8000] = 0xE9    // SBC #$01
	bus.mem[0x8001] = 0x01
	c.Step()
	assert.Equal(t, uint8(0xFF), c.A)
	assert.False(t, c.flag(FlagCarry)) // borrow occurred
}

func TestAbsoluteXPageCrossExtraCycle(t *testing.T) {
	c, bus := newTestCPU()
	c.X = 0xFF
	bus.mem[0x8000] = 0x7D // ADC $0001,X -> $0100, page crossed
	bus.mem[0x8001] = 0x01
	bus.mem[0x8002] = 0x00
	cycles := c.Step()
	assert.Equal(t, 5, cycles)
}

func TestAbsoluteXNoPageCross(t *testing.T) {
	c, bus := newTestCPU()
	c.X = 0x01
	bus.mem[0x8000] = 0x7D // ADC $0001,X -> $0002
	bus.mem[0x8001] = 0x01
	bus.mem[0x8002] = 0x00
	cycles := c.Step()
	assert.Equal(t, 4, cycles)
}

func TestBranchTakenAndPageCross(t *testing.T) {
	c, bus := newTestCPU()
	c.PC = 0x80F0
	c.setFlag(FlagCarry, false)
	bus.mem[0x80F0] = 0x90 // BCC
	bus.mem[0x80F1] = 0x7F // +127, crosses from $80F2 to $8171
	cycles := c.Step()
	assert.Equal(t, 4, cycles)
	assert.Equal(t, uint16(0x8171), c.PC)
}

func TestBranchNotTaken(t *testing.T) {
	c, bus := newTestCPU()
	c.setFlag(FlagCarry, true)
	bus.mem[0x8000] = 0x90 // BCC, carry set so not taken
	bus.mem[0x8001] = 0x10
	cycles := c.Step()
	assert.Equal(t, 2, cycles)
	assert.Equal(t, uint16(0x8002), c.PC)
}

func TestJMPIndirectPageWrapBug(t *testing.T) {
	c, bus := newTestCPU()
	bus.mem[0x8000] = 0x6C // JMP ($30FF)
	bus.mem[0x8001] = 0xFF
	bus.mem[0x8002] = 0x30
	bus.mem[0x30FF] = 0x40
	bus.mem[0x3000] = 0x50 // wraps to $3000, not $3100
	bus.mem[0x3100] = 0x60
	c.Step()
	assert.Equal(t, uint16(0x5040), c.PC)
}

func TestStackPushPop(t *testing.T) {
	c, _ := newTestCPU()
	sp := c.SP
	c.push(0x42)
	assert.Equal(t, sp-1, c.SP)
	assert.Equal(t, uint8(0x42), c.pop())
	assert.Equal(t, sp, c.SP)
}

func TestNMIServicing(t *testing.T) {
	c, bus := newTestCPU()
	bus.mem[0xFFFA] = 0x00
	bus.mem[0xFFFB] = 0x90
	bus.nmiPending = true
	startPC := c.PC
	cycles := c.Step()
	assert.Equal(t, 7, cycles)
	assert.Equal(t, uint16(0x9000), c.PC)

	pushedStatus := bus.mem[stackPage+uint16(c.SP)+1]
	assert.Equal(t, uint8(0), pushedStatus&FlagBreak1)
	assert.NotEqual(t, uint8(0), pushedStatus&FlagBreak2)

	returnAddr := uint16(bus.mem[stackPage+uint16(c.SP)+3])<<8 | uint16(bus.mem[stackPage+uint16(c.SP)+2])
	assert.Equal(t, startPC, returnAddr)
}

func TestIRQIgnoredWhenDisabled(t *testing.T) {
	c, bus := newTestCPU()
	c.setFlag(FlagInterruptDisable, true)
	bus.irqLine = true
	bus.mem[0x8000] = 0xEA // NOP
	cycles := c.Step()
	assert.Equal(t, 2, cycles)
	assert.Equal(t, uint16(0x8001), c.PC)
}

func TestOAMDMAStall(t *testing.T) {
	c, bus := newTestCPU()
	bus.oamDMA = true
	cycles := c.Step()
	assert.True(t, cycles == 513 || cycles == 514)
}

func TestDMCStallConsumedOneCyclePerStep(t *testing.T) {
	c, bus := newTestCPU()
	bus.dmcStall = 4
	for i := 0; i < 4; i++ {
		cycles := c.Step()
		require.Equal(t, 1, cycles)
	}
	bus.mem[0x8000] = 0xEA
	cycles := c.Step()
	assert.Equal(t, 2, cycles)
}

func TestUnofficialOpcodeHaltsInStrictMode(t *testing.T) {
	c, bus := newTestCPU()
	bus.mem[0x8000] = 0x02 // not in the official opcode table
	c.Step()
	assert.True(t, c.Halted)
}
