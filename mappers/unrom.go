package mappers

import "github.com/halstead/gones/rom"

func init() {
	RegisterMapper(2, newUNROM)
}

// unrom implements mapper 2: any write to $8000-$FFFF selects the 16 KiB
// PRG bank visible at $8000-$BFFF; $C000-$FFFF is fixed to the last bank.
// CHR is always 8 KiB of RAM.
type unrom struct {
	prg      []byte
	chr      [0x2000]byte
	prgBanks uint8
	prgBank  uint8
	mirror   rom.Mirror
}

func newUNROM(r *rom.ROM) Mapper {
	return &unrom{
		prg:      copyOf(r.PRG),
		prgBanks: uint8(len(r.PRG) / 0x4000),
		mirror:   r.Mirroring,
	}
}

func (m *unrom) ReadCPU(addr uint16) uint8 {
	switch {
	case addr >= 0x8000 && addr < 0xC000:
		offset := int(m.prgBank)*0x4000 + int(addr-0x8000)
		if offset < len(m.prg) {
			return m.prg[offset]
		}
	case addr >= 0xC000:
		last := m.prgBanks - 1
		offset := int(last)*0x4000 + int(addr-0xC000)
		if offset < len(m.prg) {
			return m.prg[offset]
		}
	}
	return 0
}

func (m *unrom) WriteCPU(addr uint16, val uint8) {
	if addr >= 0x8000 {
		m.prgBank = val & (m.prgBanks - 1)
	}
}

func (m *unrom) ReadCHR(addr uint16) uint8 {
	return m.chr[addr&0x1FFF]
}

func (m *unrom) WriteCHR(addr uint16, val uint8) {
	m.chr[addr&0x1FFF] = val
}

func (m *unrom) StepScanline()     {}
func (m *unrom) IRQAsserted() bool { return false }
func (m *unrom) Mirroring() rom.Mirror { return m.mirror }
