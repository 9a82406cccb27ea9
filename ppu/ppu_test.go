package ppu

import (
	"testing"

	"github.com/halstead/gones/rom"
	"github.com/stretchr/testify/assert"
)

// fakeMapper is a minimal CHRBus stand-in: flat CHR RAM and a fixed
// mirroring mode, enough to exercise the PPU in isolation.
type fakeMapper struct {
	chr      [0x2000]uint8
	mirror   rom.Mirror
	scanlineCalls int
}

func (m *fakeMapper) ReadCHR(addr uint16) uint8      { return m.chr[addr] }
func (m *fakeMapper) WriteCHR(addr uint16, v uint8)  { m.chr[addr] = v }
func (m *fakeMapper) Mirroring() rom.Mirror          { return m.mirror }
func (m *fakeMapper) StepScanline()                  { m.scanlineCalls++ }

func newTestPPU(mirror rom.Mirror) (*PPU, *fakeMapper) {
	p := New()
	m := &fakeMapper{mirror: mirror}
	p.AttachMapper(m)
	return p, m
}

func TestPPUSTATUSReadClearsVBlankAndLatch(t *testing.T) {
	p, _ := newTestPPU(rom.MirrorHorizontal)
	p.status.setVBlank(true)
	p.wLatch = true

	v := p.ReadRegister(0x2002)
	assert.NotEqual(t, uint8(0), v&0x80)
	assert.False(t, p.status.vblank())
	assert.False(t, p.wLatch)
}

func TestPPUADDRAndPPUDATAWriteReadRoundTrip(t *testing.T) {
	p, _ := newTestPPU(rom.MirrorHorizontal)

	p.WriteRegister(0x2006, 0x23) // high byte
	p.WriteRegister(0x2006, 0x00) // low byte -> v = 0x2300
	p.WriteRegister(0x2007, 0x42)

	assert.Equal(t, uint8(0x42), p.nametable[p.mirrorNametable(0x2300)])
}

func TestPPUDATAReadIsBufferedExceptPalette(t *testing.T) {
	p, _ := newTestPPU(rom.MirrorHorizontal)
	p.nametable[p.mirrorNametable(0x2100)] = 0x77

	p.WriteRegister(0x2006, 0x21)
	p.WriteRegister(0x2006, 0x00)
	first := p.ReadRegister(0x2007)
	assert.Equal(t, uint8(0), first) // stale buffer, not yet 0x77
	second := p.ReadRegister(0x2007)
	assert.Equal(t, uint8(0x77), second)
}

func TestOAMDATARegisterAdvancesAddr(t *testing.T) {
	p, _ := newTestPPU(rom.MirrorHorizontal)
	p.WriteRegister(0x2003, 0x10)
	p.WriteRegister(0x2004, 0x99)
	assert.Equal(t, uint8(0x99), p.oam[0x10])
	assert.Equal(t, uint8(0x11), p.oamAddr)
}

func TestLoopyIncCoarseXWraps(t *testing.T) {
	var l loopyAddr
	l.setCoarseX(31)
	l.incCoarseX()
	assert.Equal(t, uint16(0), l.coarseX())
	assert.Equal(t, uint16(1), l.nametableX())
}

func TestLoopyIncCoarseYRow29FlipsNametable(t *testing.T) {
	var l loopyAddr
	l.setFineY(7)
	l.setCoarseY(29)
	l.incCoarseY()
	assert.Equal(t, uint16(0), l.coarseY())
	assert.Equal(t, uint16(1), l.nametableY())
}

func TestLoopyIncCoarseYRow31WrapsWithoutFlip(t *testing.T) {
	var l loopyAddr
	l.setFineY(7)
	l.setCoarseY(31)
	l.incCoarseY()
	assert.Equal(t, uint16(0), l.coarseY())
	assert.Equal(t, uint16(0), l.nametableY())
}

func TestLoopyTransferXYMasks(t *testing.T) {
	var v, src loopyAddr
	src.set(0x7FFF)
	v.transferX(&src)
	assert.Equal(t, uint16(0x041F), v.get())

	v = loopyAddr{}
	v.transferY(&src)
	assert.Equal(t, uint16(0x7BE0), v.get())
}

func TestNametableMirroringHorizontal(t *testing.T) {
	p, _ := newTestPPU(rom.MirrorHorizontal)
	a := p.mirrorNametable(0x2000)
	b := p.mirrorNametable(0x2400)
	c := p.mirrorNametable(0x2800)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestNametableMirroringVertical(t *testing.T) {
	p, _ := newTestPPU(rom.MirrorVertical)
	a := p.mirrorNametable(0x2000)
	c := p.mirrorNametable(0x2800)
	b := p.mirrorNametable(0x2400)
	assert.Equal(t, a, c)
	assert.NotEqual(t, a, b)
}

func TestPaletteMirroringBackdropAliases(t *testing.T) {
	assert.Equal(t, mirrorPalette(0x3F00), mirrorPalette(0x3F10))
	assert.Equal(t, mirrorPalette(0x3F04), mirrorPalette(0x3F14))
}

func TestSpriteEvaluationCapsAtEightAndSetsOverflow(t *testing.T) {
	p, _ := newTestPPU(rom.MirrorHorizontal)
	for i := 0; i < 10; i++ {
		p.oam[i*4] = 10 // all on scanline 10's intersection window
	}
	p.scanline = 9
	p.spriteEvaluation()
	assert.Equal(t, uint8(8), p.spriteCount)
	assert.True(t, p.status.get()&0x20 != 0)
}

func TestSpriteEvaluationTracksSpriteZero(t *testing.T) {
	p, _ := newTestPPU(rom.MirrorHorizontal)
	p.oam[0] = 5
	p.scanline = 4
	p.spriteEvaluation()
	assert.True(t, p.sprite0OnLine)
	assert.True(t, p.spriteIsZero[0])
}

func TestVBlankSetAndNMIRaisedAtScanline241Dot1(t *testing.T) {
	p, _ := newTestPPU(rom.MirrorHorizontal)
	p.ctrl.set(0x80) // NMI enabled
	p.scanline = vblankScanline
	p.dot = 0
	p.Step() // dot rolls 0 -> 1
	p.Step() // vblank/NMI raised while at dot 1
	assert.True(t, p.status.vblank())
	assert.True(t, p.TakeNMI())
	assert.False(t, p.TakeNMI()) // consumed
}

func TestPreRenderScanlineClearsStatusFlags(t *testing.T) {
	p, _ := newTestPPU(rom.MirrorHorizontal)
	p.status.setVBlank(true)
	p.status.setSprite0Hit(true)
	p.status.setOverflow(true)
	p.scanline = preRenderScanline
	p.dot = 0
	p.Step() // dot rolls 0 -> 1
	p.Step() // status flags cleared while at dot 1
	assert.False(t, p.status.vblank())
	assert.False(t, p.status.get()&0x40 != 0)
	assert.False(t, p.status.get()&0x20 != 0)
}

func TestFrameCompletesAfterFullScan(t *testing.T) {
	p, _ := newTestPPU(rom.MirrorHorizontal)
	total := dotsPerScanline * scanlinesPerFrame
	for i := 0; i < total; i++ {
		p.Step()
	}
	assert.True(t, p.FrameComplete)
	assert.Equal(t, uint64(1), p.Frame)
}

func TestReverseByte(t *testing.T) {
	assert.Equal(t, uint8(0x01), reverseByte(0x80))
	assert.Equal(t, uint8(0xF0), reverseByte(0x0F))
}

func TestRenderPixelSetsSprite0HitAtX0(t *testing.T) {
	p, _ := newTestPPU(rom.MirrorHorizontal)
	p.mask.set(0x1E) // show bg, show sprites, bg-left, sprites-left
	p.dot = 1
	p.scanline = 0

	p.bgShiftLo = 0x8000 // opaque background pixel at x=0

	p.spriteCount = 1
	p.spriteX[0] = 0
	p.spritePatLo[0] = 0x80 // opaque sprite pixel at x=0
	p.spriteIsZero[0] = true

	p.renderPixel()

	assert.True(t, p.status.get()&0x40 != 0)
}
