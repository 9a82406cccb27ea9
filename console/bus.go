// Package console wires the CPU, PPU, APU, mapper and controllers
// together into a runnable machine and exposes the host-facing API:
// frame stepping, audio draining, input and save states.
package console

import (
	"github.com/halstead/gones/apu"
	"github.com/halstead/gones/mappers"
	"github.com/halstead/gones/ppu"
)

const (
	ramSize    = 0x800
	ramMirror  = 0x1FFF
	ppuMirror  = 0x3FFF
	oamDMAReg  = 0x4014
	joy1Reg    = 0x4016
	joy2Reg    = 0x4017
	cartStart  = 0x4020
)

// Bus implements mos6502.Bus, dispatching CPU reads/writes across RAM,
// the PPU and APU register windows, the two controller ports and the
// cartridge mapper.
type Bus struct {
	ram [ramSize]uint8

	ppu *ppu.PPU
	apu *apu.APU
	mpr mappers.Mapper

	ctrl1, ctrl2 *Controller

	oamDMAPending bool
	oamDMAPage    uint8
}

// NewBus assembles a Bus over already-constructed components.
func NewBus(p *ppu.PPU, a *apu.APU, m mappers.Mapper, c1, c2 *Controller) *Bus {
	return &Bus{ppu: p, apu: a, mpr: m, ctrl1: c1, ctrl2: c2}
}

// Read implements mos6502.Bus.
func (b *Bus) Read(addr uint16) uint8 {
	switch {
	case addr <= ramMirror:
		return b.ram[addr%ramSize]
	case addr <= ppuMirror:
		return b.ppu.ReadRegister(0x2000 + addr%8)
	case addr == 0x4015:
		return b.apu.ReadStatus()
	case addr == joy1Reg:
		return b.ctrl1.Read()
	case addr == joy2Reg:
		return b.ctrl2.Read()
	case addr < cartStart:
		return 0
	default:
		return b.mpr.ReadCPU(addr)
	}
}

// Write implements mos6502.Bus.
func (b *Bus) Write(addr uint16, val uint8) {
	switch {
	case addr <= ramMirror:
		b.ram[addr%ramSize] = val
	case addr <= ppuMirror:
		b.ppu.WriteRegister(0x2000+addr%8, val)
	case addr == oamDMAReg:
		b.oamDMAPending = true
		b.oamDMAPage = val
	case addr == 0x4017:
		// $4017 write is the APU frame-counter register; the
		// strobe line both controllers share is $4016 only.
		b.apu.WriteRegister(addr, val)
	case addr == joy1Reg:
		b.ctrl1.Write(val)
		b.ctrl2.Write(val)
	case addr >= 0x4000 && addr <= 0x4013:
		b.apu.WriteRegister(addr, val)
	case addr == 0x4015:
		b.apu.WriteRegister(addr, val)
	case addr < cartStart:
		// $4018-$401F: unused/test-mode registers, inert.
	default:
		b.mpr.WriteCPU(addr, val)
	}
}

// PollNMI implements mos6502.Bus.
func (b *Bus) PollNMI() bool { return b.ppu.TakeNMI() }

// IRQLine implements mos6502.Bus.
func (b *Bus) IRQLine() bool { return b.apu.IRQAsserted() || b.mpr.IRQAsserted() }

// TakeOAMDMAPending implements mos6502.Bus. The 256-byte transfer
// itself happens synchronously here; the caller only needs the stall
// cycle count (513 or 514, depending on CPU parity) to charge the CPU.
func (b *Bus) TakeOAMDMAPending() bool {
	if !b.oamDMAPending {
		return false
	}
	b.oamDMAPending = false
	base := uint16(b.oamDMAPage) << 8
	for i := 0; i < 256; i++ {
		b.ppu.WriteOAMByte(b.Read(base + uint16(i)))
	}
	return true
}

// TakeDMCStallRequest implements mos6502.Bus.
func (b *Bus) TakeDMCStallRequest() int { return b.apu.TakeDMCStallRequest() }

// Advance steps the PPU and APU to keep pace with cpuCycles worth of
// CPU time (3 PPU dots and 1 APU cycle per CPU cycle), servicing any
// pending DMC sample fetch along the way.
func (b *Bus) Advance(cpuCycles int) {
	for i := 0; i < cpuCycles; i++ {
		b.ppu.Step()
		b.ppu.Step()
		b.ppu.Step()
		b.apu.Step()
		if addr, ok := b.apu.TakeDMCReadRequest(); ok {
			b.apu.SetDMCReadResponse(b.Read(addr))
		}
	}
}
