package mappers

import "github.com/halstead/gones/rom"

func init() {
	RegisterMapper(0, newNROM)
}

// nrom implements mapper 0: fixed PRG banks, no bank switching at all.
// $8000-$BFFF is the first 16 KiB bank; $C000-$FFFF is the second bank,
// or a mirror of the first when the cartridge has only one.
type nrom struct {
	prg     []byte
	chr     []byte
	chrRAM  bool
	prgRAM  [0x2000]byte
	mirror  rom.Mirror
}

func newNROM(r *rom.ROM) Mapper {
	m := &nrom{
		prg:    copyOf(r.PRG),
		mirror: r.Mirroring,
	}
	if r.HasCHRRAM {
		m.chr = make([]byte, 0x2000)
		m.chrRAM = true
	} else {
		m.chr = copyOf(r.CHR)
	}
	return m
}

func (m *nrom) ReadCPU(addr uint16) uint8 {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		return m.prgRAM[addr-0x6000]
	case addr >= 0x8000 && addr < 0xC000:
		return m.prg[int(addr-0x8000)%len(m.prg)]
	case addr >= 0xC000:
		if len(m.prg) > 0x4000 {
			return m.prg[0x4000+int(addr-0xC000)]
		}
		return m.prg[int(addr-0xC000)%len(m.prg)]
	}
	return 0
}

func (m *nrom) WriteCPU(addr uint16, val uint8) {
	if addr >= 0x6000 && addr < 0x8000 {
		m.prgRAM[addr-0x6000] = val
	}
	// Writes to $8000-$FFFF are ignored: NROM has no registers.
}

func (m *nrom) ReadCHR(addr uint16) uint8 {
	return m.chr[addr&0x1FFF]
}

func (m *nrom) WriteCHR(addr uint16, val uint8) {
	if m.chrRAM {
		m.chr[addr&0x1FFF] = val
	}
}

func (m *nrom) StepScanline()    {}
func (m *nrom) IRQAsserted() bool { return false }
func (m *nrom) Mirroring() rom.Mirror { return m.mirror }
