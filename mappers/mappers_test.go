package mappers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halstead/gones/rom"
)

func romWith(mapperID uint8, prgPages, chrPages int, mirroring rom.Mirror) *rom.ROM {
	prg := make([]byte, prgPages*0x4000)
	for i := range prg {
		prg[i] = byte(i)
	}
	chr := make([]byte, chrPages*0x2000)
	return &rom.ROM{
		Mapper:    mapperID,
		Mirroring: mirroring,
		PRG:       prg,
		CHR:       chr,
		HasCHRRAM: chrPages == 0,
	}
}

func TestNROMMirrorsSingleBank(t *testing.T) {
	r := romWith(0, 1, 1, rom.MirrorHorizontal)
	m, err := Get(r)
	require.NoError(t, err)

	assert.Equal(t, m.ReadCPU(0x8000), m.ReadCPU(0xC000))
	assert.Equal(t, m.ReadCPU(0xBFFF), m.ReadCPU(0xFFFF))
}

func TestNROMTwoBanksDistinct(t *testing.T) {
	r := romWith(0, 2, 1, rom.MirrorVertical)
	r.PRG[0x4000] = 0xAA // mark the first byte of the second bank
	m, err := Get(r)
	require.NoError(t, err)

	assert.Equal(t, uint8(0), m.ReadCPU(0x8000))
	assert.Equal(t, uint8(0xAA), m.ReadCPU(0xC000)) // second bank, not a mirror of the first
	assert.NotEqual(t, m.ReadCPU(0x8000), m.ReadCPU(0xC000))
}

func TestMMC1SerialLoad(t *testing.T) {
	r := romWith(1, 8, 0, rom.MirrorHorizontal)
	mp, err := Get(r)
	require.NoError(t, err)
	m := mp.(*mmc1)

	// five writes of bits 1,0,1,0,1 into the control register ($8000-$9FFF)
	bits := []uint8{1, 0, 1, 0, 1}
	for _, b := range bits {
		m.WriteCPU(0x8000, b)
	}

	// shift order: bit goes into position 4 then shifts right each write,
	// so the first bit written ends up as the LSB of the 5-bit value.
	assert.Equal(t, uint8(0b10101), m.mirror|((m.prgMode)<<2)|(m.chrMode<<4))
}

func TestMMC1ResetOnBit7(t *testing.T) {
	r := romWith(1, 8, 0, rom.MirrorHorizontal)
	mp, _ := Get(r)
	m := mp.(*mmc1)

	m.WriteCPU(0x8000, 1)
	m.WriteCPU(0x8000, 0x80) // reset mid-sequence
	assert.Equal(t, uint8(0x10), m.shift)
	assert.Equal(t, uint8(0), m.shiftCount)
	assert.Equal(t, uint8(3), m.prgMode)
}

func TestUNROMBankSwitch(t *testing.T) {
	r := romWith(2, 4, 0, rom.MirrorHorizontal)
	mp, err := Get(r)
	require.NoError(t, err)

	mp.WriteCPU(0x8000, 2)
	assert.Equal(t, r.PRG[2*0x4000], mp.ReadCPU(0x8000))

	lastBankFirstByte := r.PRG[3*0x4000]
	assert.Equal(t, lastBankFirstByte, mp.ReadCPU(0xC000))
}

func TestMMC3IRQCounter(t *testing.T) {
	r := romWith(4, 16, 0, rom.MirrorHorizontal)
	mp, err := Get(r)
	require.NoError(t, err)
	m := mp.(*mmc3)

	m.WriteCPU(0xC000, 4) // reload = 4
	m.WriteCPU(0xE001, 0) // enable

	// The counter starts at 0, so the first scanline only reloads it to 4;
	// four more scanlines count it down to 0.
	for i := 0; i < 5; i++ {
		assert.False(t, m.IRQAsserted())
		m.StepScanline()
	}
	assert.True(t, m.IRQAsserted())
	assert.False(t, m.IRQAsserted(), "IRQAsserted should clear on read")
}

func TestMMC3MirroringToggle(t *testing.T) {
	r := romWith(4, 16, 0, rom.MirrorHorizontal)
	mp, _ := Get(r)

	mp.WriteCPU(0xA000, 0)
	assert.Equal(t, rom.MirrorVertical, mp.Mirroring())
	mp.WriteCPU(0xA000, 1)
	assert.Equal(t, rom.MirrorHorizontal, mp.Mirroring())
}

func TestUnsupportedMapperRejected(t *testing.T) {
	r := romWith(99, 1, 1, rom.MirrorHorizontal)
	_, err := Get(r)
	assert.Error(t, err)
}
