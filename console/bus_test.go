package console

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halstead/gones/apu"
	"github.com/halstead/gones/mappers"
	"github.com/halstead/gones/ppu"
	"github.com/halstead/gones/rom"
)

func newTestBus(t *testing.T) (*Bus, *ppu.PPU) {
	t.Helper()
	r := &rom.ROM{
		Mapper:    0,
		Mirroring: rom.MirrorHorizontal,
		PRG:       make([]byte, 0x4000),
		HasCHRRAM: true,
	}
	mpr, err := mappers.Get(r)
	require.NoError(t, err)

	p := ppu.New()
	p.AttachMapper(mpr)
	a := apu.New(44100)
	var c1, c2 Controller
	return NewBus(p, a, mpr, &c1, &c2), p
}

func TestBusRAMMirrorsEvery0x800(t *testing.T) {
	b, _ := newTestBus(t)
	b.Write(0x0000, 0x42)
	assert.Equal(t, uint8(0x42), b.Read(0x0800))
	assert.Equal(t, uint8(0x42), b.Read(0x1800))
}

func TestBusPPURegistersMirrorEvery8Bytes(t *testing.T) {
	b, _ := newTestBus(t)
	b.Write(0x2000, 0x80) // PPUCTRL: enable NMI
	// $200F mirrors $2007: the buffered PPUDATA read continues through
	// the alias.
	b.Write(0x2006, 0x23)
	b.Write(0x2006, 0x45)
	b.Write(0x2007, 0x99)
	b.Write(0x2006, 0x23)
	b.Write(0x2006, 0x45)
	assert.Equal(t, uint8(0), b.Read(0x2007)) // buffered read returns stale first
	assert.Equal(t, uint8(0x99), b.Read(0x200F))
}

func TestBusOAMDMATransfersFullPage(t *testing.T) {
	b, p := newTestBus(t)
	for i := 0; i < 256; i++ {
		b.ram[i] = uint8(i)
	}
	b.Write(oamDMAReg, 0x00) // page 0 is within RAM mirror
	require.True(t, b.TakeOAMDMAPending())

	b.Write(0x2003, 0x00)
	for i := 0; i < 256; i++ {
		b.Write(0x2003, uint8(i))
		got := b.Read(0x2004)
		assert.Equal(t, uint8(i), got, "oam[%d]", i)
	}
	_ = p
}

func TestBusControllerStrobeRoutesToBothPorts(t *testing.T) {
	b, _ := newTestBus(t)
	b.ctrl1.SetButtons(ButtonA)
	b.ctrl2.SetButtons(ButtonB)

	b.Write(joy1Reg, 1)
	b.Write(joy1Reg, 0)
	assert.Equal(t, uint8(1), b.Read(joy1Reg))
	assert.Equal(t, uint8(0), b.Read(joy2Reg))
}

func TestBusIRQLineReflectsAPUFrameIRQ(t *testing.T) {
	b, _ := newTestBus(t)
	assert.False(t, b.IRQLine())

	// 4-step mode with IRQ enabled raises the frame IRQ at the 4th step.
	b.Write(0x4017, 0x00)
	for i := 0; i < 14915; i++ {
		b.apu.Step()
	}
	assert.True(t, b.IRQLine())
}
