// Package ppu implements the NES Picture Processing Unit (2C02): a
// 341-dot by 262-scanline background/sprite pipeline driven one PPU
// cycle at a time, matched to CPU cycles 3:1 by the console package.
package ppu

import "github.com/halstead/gones/rom"

const (
	Width  = 256
	Height = 240

	dotsPerScanline    = 341
	scanlinesPerFrame  = 262
	lastVisibleScanline = 239
	postRenderScanline  = 240
	vblankScanline      = 241
	preRenderScanline   = -1
)

// CHRBus is the subset of mappers.Mapper the PPU needs for pattern and
// nametable-mirroring access.
type CHRBus interface {
	ReadCHR(addr uint16) uint8
	WriteCHR(addr uint16, val uint8)
	Mirroring() rom.Mirror
	StepScanline()
}

// PPU holds all 2C02 register and pipeline state.
type PPU struct {
	mapper CHRBus

	nametable  [0x800]uint8
	paletteRAM [32]uint8
	oam        [256]uint8
	oamAddr    uint8

	ctrl   ctrl
	mask   mask
	status status

	v, t   loopyAddr
	fineX  uint8
	wLatch bool
	readBuffer uint8

	scanline int
	dot      int
	Frame    uint64
	oddFrame bool

	bgTileID, bgAttrib, bgLo, bgHi           uint8
	bgShiftLo, bgShiftHi, bgAttrLo, bgAttrHi uint16

	secondaryOAM  [32]uint8
	spriteCount   uint8
	sprite0OnLine bool
	spriteIsZero  [8]bool
	spritePatLo   [8]uint8
	spritePatHi   [8]uint8
	spriteAttrib  [8]uint8
	spriteX       [8]uint8

	FrameComplete bool
	frameBuffer   [Width * Height]uint8

	nmiPending bool
}

// New constructs a PPU with no cartridge attached; call AttachMapper
// before Step is called.
func New() *PPU {
	return &PPU{scanline: preRenderScanline}
}

// AttachMapper wires the PPU to its cartridge's CHR/mirroring surface.
// Called once at console construction.
func (p *PPU) AttachMapper(m CHRBus) { p.mapper = m }

// Reset restores power-on register state without touching OAM or VRAM
// contents.
func (p *PPU) Reset() {
	p.ctrl.set(0)
	p.mask.set(0)
	p.status = status{}
	p.wLatch = false
	p.v = loopyAddr{}
	p.t = loopyAddr{}
	p.fineX = 0
	p.readBuffer = 0
	p.scanline = preRenderScanline
	p.dot = 0
}

// TakeNMI reports and clears a pending NMI edge, raised at the start
// of vblank when NMI generation is enabled, or when NMI generation is
// switched on while vblank is set.
func (p *PPU) TakeNMI() bool {
	v := p.nmiPending
	p.nmiPending = false
	return v
}

// FrameBuffer returns the current frame's palette-index pixels
// (0-63 per pixel, one 2C02 hardware palette entry each).
func (p *PPU) FrameBuffer() *[Width * Height]uint8 { return &p.frameBuffer }

// ReadRegister services a CPU read of $2000-$2007.
func (p *PPU) ReadRegister(addr uint16) uint8 {
	switch addr & 0x07 {
	case 2: // PPUSTATUS
		v := p.status.get()
		p.status.setVBlank(false)
		p.wLatch = false
		return v
	case 4: // OAMDATA
		return p.oam[p.oamAddr]
	case 7: // PPUDATA
		addr := p.v.get()
		v := p.readBuffer
		if addr >= 0x3F00 {
			// Palette reads return immediately; the buffer is refilled
			// from the nametable byte underneath the palette address.
			v = p.ppuRead(addr)
			p.readBuffer = p.ppuRead(addr - 0x1000)
		} else {
			p.readBuffer = p.ppuRead(addr)
		}
		p.v.set(p.v.get() + p.ctrl.vramStep())
		return v
	}
	return 0
}

// WriteRegister services a CPU write of $2000-$2007.
func (p *PPU) WriteRegister(addr uint16, val uint8) {
	switch addr & 0x07 {
	case 0: // PPUCTRL
		nmiWasEnabled := p.ctrl.nmiEnabled()
		p.ctrl.set(val)
		p.t.setNametableX(uint16(val & 0x01))
		p.t.setNametableY(uint16((val >> 1) & 0x01))
		// Enabling NMI generation while VBLANK is set raises an NMI edge.
		if !nmiWasEnabled && p.ctrl.nmiEnabled() && p.status.vblank() {
			p.nmiPending = true
		}
	case 1: // PPUMASK
		p.mask.set(val)
	case 3: // OAMADDR
		p.oamAddr = val
	case 4: // OAMDATA
		p.oam[p.oamAddr] = val
		p.oamAddr++
	case 5: // PPUSCROLL
		if !p.wLatch {
			p.t.setCoarseX(uint16(val >> 3))
			p.fineX = val & 0x07
			p.wLatch = true
		} else {
			p.t.setFineY(uint16(val & 0x07))
			p.t.setCoarseY(uint16(val >> 3))
			p.wLatch = false
		}
	case 6: // PPUADDR
		if !p.wLatch {
			p.t.set((p.t.get() & 0x00FF) | (uint16(val&0x3F) << 8))
			p.wLatch = true
		} else {
			p.t.set((p.t.get() & 0xFF00) | uint16(val))
			p.v.set(p.t.get())
			p.wLatch = false
		}
	case 7: // PPUDATA
		p.ppuWrite(p.v.get(), val)
		p.v.set(p.v.get() + p.ctrl.vramStep())
	}
}

// WriteOAMByte services one byte of an OAM DMA transfer, honoring the
// current OAMADDR and advancing it as hardware does.
func (p *PPU) WriteOAMByte(val uint8) {
	p.oam[p.oamAddr] = val
	p.oamAddr++
}

func (p *PPU) ppuRead(addr uint16) uint8 {
	addr &= 0x3FFF
	switch {
	case addr < 0x2000:
		if p.mapper != nil {
			return p.mapper.ReadCHR(addr)
		}
		return 0
	case addr < 0x3F00:
		return p.nametable[p.mirrorNametable(addr)]
	default:
		return p.paletteRAM[mirrorPalette(addr)]
	}
}

func (p *PPU) ppuWrite(addr uint16, val uint8) {
	addr &= 0x3FFF
	switch {
	case addr < 0x2000:
		if p.mapper != nil {
			p.mapper.WriteCHR(addr, val)
		}
	case addr < 0x3F00:
		p.nametable[p.mirrorNametable(addr)] = val
	default:
		p.paletteRAM[mirrorPalette(addr)] = val
	}
}

func (p *PPU) mirrorNametable(addr uint16) uint16 {
	addr = (addr - 0x2000) % 0x1000
	table := addr / 0x400
	offset := addr % 0x400

	mirror := rom.MirrorHorizontal
	if p.mapper != nil {
		mirror = p.mapper.Mirroring()
	}

	switch mirror {
	case rom.MirrorVertical:
		return addr % 0x800
	case rom.MirrorOneScreenLower:
		return offset
	case rom.MirrorOneScreenUpper:
		return 0x400 + offset
	case rom.MirrorFourScreen:
		return addr
	default: // horizontal
		return (table/2)*0x400 + offset
	}
}

func mirrorPalette(addr uint16) uint16 {
	a := (addr - 0x3F00) % 32
	if a >= 16 && a%4 == 0 {
		a -= 16
	}
	return a
}

// Step advances the PPU by exactly one dot.
func (p *PPU) Step() {
	if p.scanline >= preRenderScanline && p.scanline < postRenderScanline {
		p.renderingScanline()
	}
	if p.scanline == vblankScanline && p.dot == 1 {
		p.status.setVBlank(true)
		if p.ctrl.nmiEnabled() {
			p.nmiPending = true
		}
		p.FrameComplete = true
	}

	p.dot++
	if p.dot >= dotsPerScanline {
		p.dot = 0
		p.scanline++
		if p.scanline == 0 && p.oddFrame && p.mask.renderingEnabled() {
			p.dot = 1
		}
		if p.scanline >= scanlinesPerFrame-1 {
			p.scanline = preRenderScanline
			p.Frame++
			p.oddFrame = !p.oddFrame
		}
	}
}

func (p *PPU) renderingScanline() {
	if p.scanline >= 0 && p.dot >= 1 && p.dot <= Width {
		p.renderPixel()
	}

	if p.scanline == preRenderScanline && p.dot == 1 {
		p.status.setVBlank(false)
		p.status.setSprite0Hit(false)
		p.status.setOverflow(false)
		p.FrameComplete = false
	}

	if (p.dot >= 2 && p.dot < 258) || (p.dot >= 321 && p.dot < 338) {
		p.updateShifters()
		switch (p.dot - 1) % 8 {
		case 0:
			p.loadBackgroundShifters()
			p.bgTileID = p.ppuRead(0x2000 | (p.v.get() & 0x0FFF))
		case 2:
			addr := 0x23C0 | (p.v.nametableY() << 11) | (p.v.nametableX() << 10) |
				((p.v.coarseY() >> 2) << 3) | (p.v.coarseX() >> 2)
			p.bgAttrib = p.ppuRead(addr)
			if p.v.coarseY()&0x02 != 0 {
				p.bgAttrib >>= 4
			}
			if p.v.coarseX()&0x02 != 0 {
				p.bgAttrib >>= 2
			}
			p.bgAttrib &= 0x03
		case 4:
			table := p.ctrl.bgPatternTable()
			addr := table | (uint16(p.bgTileID) << 4) | p.v.fineY()
			p.bgLo = p.ppuRead(addr)
		case 6:
			table := p.ctrl.bgPatternTable()
			addr := table | (uint16(p.bgTileID) << 4) | p.v.fineY()
			p.bgHi = p.ppuRead(addr + 8)
		case 7:
			if p.mask.renderingEnabled() {
				p.v.incCoarseX()
			}
		}
	}

	if p.dot == 256 && p.mask.renderingEnabled() {
		p.v.incCoarseY()
	}

	if p.dot == 257 {
		p.loadBackgroundShifters()
		if p.mask.renderingEnabled() {
			p.v.transferX(&p.t)
		}
		p.spriteEvaluation()
	}

	if p.dot == 260 && p.mask.renderingEnabled() && p.mapper != nil {
		p.mapper.StepScanline()
	}

	if p.dot == 320 {
		p.spriteFetching()
	}

	if p.dot == 338 || p.dot == 340 {
		p.bgTileID = p.ppuRead(0x2000 | (p.v.get() & 0x0FFF))
	}

	if p.scanline == preRenderScanline && p.dot >= 280 && p.dot < 305 {
		if p.mask.renderingEnabled() {
			p.v.transferY(&p.t)
		}
	}
}
