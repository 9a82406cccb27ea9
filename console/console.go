package console

import (
	"hash/crc32"

	"github.com/halstead/gones/apu"
	"github.com/halstead/gones/mappers"
	"github.com/halstead/gones/mos6502"
	"github.com/halstead/gones/ppu"
	"github.com/halstead/gones/rom"
)

// Console is a fully assembled machine: CPU, PPU, APU, cartridge
// mapper and the two controller ports, wired over a shared Bus. It is
// the surface a frontend drives: feed it a ROM image, pull frames and
// audio out of it, push button state and save/restore its state.
type Console struct {
	cpu *mos6502.CPU
	ppu *ppu.PPU
	apu *apu.APU
	mpr mappers.Mapper
	bus *Bus

	ctrl1, ctrl2 Controller

	// romHash identifies the cartridge image a save state was produced
	// against, so LoadState can refuse one produced by a different ROM.
	romHash uint32
}

// New decodes romBytes as an iNES image, builds the mapper it names
// and assembles a ready-to-run Console sampling audio at sampleRate.
func New(romBytes []byte, sampleRate int) (*Console, error) {
	r, err := rom.New(romBytes)
	if err != nil {
		return nil, err
	}
	mpr, err := mappers.Get(r)
	if err != nil {
		return nil, err
	}

	c := &Console{
		ppu:     ppu.New(),
		apu:     apu.New(sampleRate),
		mpr:     mpr,
		romHash: romHash(r),
	}
	c.ppu.AttachMapper(mpr)
	c.bus = NewBus(c.ppu, c.apu, c.mpr, &c.ctrl1, &c.ctrl2)
	c.cpu = mos6502.New(c.bus)
	return c, nil
}

// romHash identifies a cartridge image by its decoded PRG+CHR bytes, so
// a save state can be tied to the ROM it was produced against
// regardless of the file's iNES header bytes.
func romHash(r *rom.ROM) uint32 {
	h := crc32.NewIEEE()
	h.Write(r.PRG)
	h.Write(r.CHR)
	return h.Sum32()
}

// NextFrame runs the machine until the PPU completes a frame, then
// writes that frame into dst as packed RGB888 triples (dst must hold
// at least ppu.Width*ppu.Height*3 bytes).
func (c *Console) NextFrame(dst []byte) {
	for !c.ppu.FrameComplete {
		cycles := c.cpu.Step()
		c.bus.Advance(cycles)
	}
	c.ppu.FrameComplete = false

	fb := c.ppu.FrameBuffer()
	for i, idx := range fb {
		rgb := ppu.ColorFor(idx)
		dst[i*3] = rgb.R
		dst[i*3+1] = rgb.G
		dst[i*3+2] = rgb.B
	}
}

// FillAudio drains up to len(buffer) queued samples into buffer,
// returning the count actually written.
func (c *Console) FillAudio(buffer []float32) int { return c.apu.FillAudio(buffer) }

// ClearAudio discards any queued, undrained audio samples.
func (c *Console) ClearAudio() { c.apu.ClearAudio() }

// SetJoypad1 replaces controller 1's held button state.
func (c *Console) SetJoypad1(mask uint8) { c.ctrl1.SetButtons(mask) }

// SetJoypad2 replaces controller 2's held button state.
func (c *Console) SetJoypad2(mask uint8) { c.ctrl2.SetButtons(mask) }

// SoftReset reloads the CPU from the reset vector without tearing
// down cartridge or mapper state, mirroring the NES front-panel reset
// button rather than a power cycle.
func (c *Console) SoftReset() { c.cpu.Reset() }

// CPU exposes the CPU for inspection by a debugger frontend.
func (c *Console) CPU() *mos6502.CPU { return c.cpu }

// PPU exposes the PPU for inspection by a debugger frontend.
func (c *Console) PPU() *ppu.PPU { return c.ppu }

// APU exposes the APU for inspection by a debugger frontend.
func (c *Console) APU() *apu.APU { return c.apu }

// PeekMemory reads a CPU-space address without side effects beyond
// whatever the normal bus dispatch performs (register reads can still
// clear latches, as on real hardware).
func (c *Console) PeekMemory(addr uint16) uint8 { return c.bus.Read(addr) }

// StepInstruction executes exactly one CPU instruction, keeping the
// PPU and APU in lockstep, and returns the CPU cycles it consumed.
func (c *Console) StepInstruction() int {
	cycles := c.cpu.Step()
	c.bus.Advance(cycles)
	return cycles
}
