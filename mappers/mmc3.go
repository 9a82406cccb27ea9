package mappers

import "github.com/halstead/gones/rom"

func init() {
	RegisterMapper(4, newMMC3)
}

// mmc3 implements mapper 4: eight bank-table registers addressed by a
// 3-bit pointer latched at $8000, two PRG/CHR bank layouts selected by
// the same latch write, runtime-mutable mirroring at $A000, and a
// scanline-counted IRQ driven by the PPU pipeline via StepScanline.
type mmc3 struct {
	prg []byte
	chr []byte

	prgRAM [0x2000]byte

	registers [8]uint8
	regSelect uint8
	prgMode   uint8
	chrMode   uint8

	prgOffsets [4]int
	chrOffsets [8]int

	prgPages int
	mirror   rom.Mirror

	irqEnabled bool
	irqReload  uint8
	irqCounter uint8
	irqPending bool
}

func newMMC3(r *rom.ROM) Mapper {
	m := &mmc3{
		prg:      copyOf(r.PRG),
		chr:      copyOf(r.CHR),
		prgPages: len(r.PRG) / 0x2000,
		mirror:   r.Mirroring,
	}
	if r.HasCHRRAM {
		m.chr = make([]byte, 0x2000)
	}
	m.prgOffsets[2] = (m.prgPages - 2) * 0x2000
	m.prgOffsets[3] = (m.prgPages - 1) * 0x2000
	return m
}

func (m *mmc3) ReadCPU(addr uint16) uint8 {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		return m.prgRAM[addr-0x6000]
	case addr >= 0x8000:
		idx := (addr - 0x8000) / 0x2000
		offset := m.prgOffsets[idx] + int(addr&0x1FFF)
		if offset >= 0 && offset < len(m.prg) {
			return m.prg[offset]
		}
	}
	return 0
}

func (m *mmc3) WriteCPU(addr uint16, val uint8) {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		m.prgRAM[addr-0x6000] = val
	case addr >= 0x8000 && addr < 0xA000:
		if addr&1 == 0 {
			m.regSelect = val & 0x07
			m.prgMode = (val >> 6) & 1
			m.chrMode = (val >> 7) & 1
		} else {
			if m.regSelect <= 5 {
				m.registers[m.regSelect] = val
			} else if m.prgPages > 0 {
				m.registers[m.regSelect] = val % uint8(m.prgPages)
			}
			m.rebuildBanks()
		}
	case addr >= 0xA000 && addr < 0xC000:
		if addr&1 == 0 {
			if val&1 == 0 {
				m.mirror = rom.MirrorVertical
			} else {
				m.mirror = rom.MirrorHorizontal
			}
		}
	case addr >= 0xC000 && addr < 0xE000:
		if addr&1 == 0 {
			m.irqReload = val
		} else {
			m.irqCounter = 0
		}
	case addr >= 0xE000:
		m.irqEnabled = addr&1 == 1
		if !m.irqEnabled {
			m.irqPending = false
		}
	}
}

func (m *mmc3) rebuildBanks() {
	if m.chrMode == 0 {
		m.chrOffsets[0] = int(m.registers[0]&0xFE) * 0x400
		m.chrOffsets[1] = int(m.registers[0]|1) * 0x400
		m.chrOffsets[2] = int(m.registers[1]&0xFE) * 0x400
		m.chrOffsets[3] = int(m.registers[1]|1) * 0x400
		m.chrOffsets[4] = int(m.registers[2]) * 0x400
		m.chrOffsets[5] = int(m.registers[3]) * 0x400
		m.chrOffsets[6] = int(m.registers[4]) * 0x400
		m.chrOffsets[7] = int(m.registers[5]) * 0x400
	} else {
		m.chrOffsets[0] = int(m.registers[2]) * 0x400
		m.chrOffsets[1] = int(m.registers[3]) * 0x400
		m.chrOffsets[2] = int(m.registers[4]) * 0x400
		m.chrOffsets[3] = int(m.registers[5]) * 0x400
		m.chrOffsets[4] = int(m.registers[0]&0xFE) * 0x400
		m.chrOffsets[5] = int(m.registers[0]|1) * 0x400
		m.chrOffsets[6] = int(m.registers[1]&0xFE) * 0x400
		m.chrOffsets[7] = int(m.registers[1]|1) * 0x400
	}

	last := m.prgPages - 2
	if m.prgMode == 0 {
		m.prgOffsets[0] = int(m.registers[6]) * 0x2000
		m.prgOffsets[2] = last * 0x2000
	} else {
		m.prgOffsets[0] = last * 0x2000
		m.prgOffsets[2] = int(m.registers[6]) * 0x2000
	}
	m.prgOffsets[1] = int(m.registers[7]) * 0x2000
	m.prgOffsets[3] = (m.prgPages - 1) * 0x2000
}

func (m *mmc3) ReadCHR(addr uint16) uint8 {
	idx := addr / 0x400
	offset := m.chrOffsets[idx] + int(addr&0x3FF)
	if offset < 0 || offset >= len(m.chr) {
		return 0
	}
	return m.chr[offset]
}

func (m *mmc3) WriteCHR(addr uint16, val uint8) {
	idx := addr / 0x400
	offset := m.chrOffsets[idx] + int(addr&0x3FF)
	if offset >= 0 && offset < len(m.chr) {
		m.chr[offset] = val
	}
}

// StepScanline is invoked by the PPU pipeline once per rendered
// scanline (dots 259-260) and drives MMC3's IRQ counter.
func (m *mmc3) StepScanline() {
	if m.irqCounter == 0 {
		m.irqCounter = m.irqReload
	} else {
		m.irqCounter--
	}

	if m.irqCounter == 0 && m.irqEnabled {
		m.irqPending = true
	}
}

// IRQAsserted reports the asserted state and clears it, mirroring the
// reference model's edge-style consumption by the CPU.
func (m *mmc3) IRQAsserted() bool {
	pending := m.irqPending
	m.irqPending = false
	return pending
}

func (m *mmc3) Mirroring() rom.Mirror { return m.mirror }
