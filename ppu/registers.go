package ppu

// ctrl wraps PPUCTRL ($2000), write-only from the CPU's side.
//
//	7  bit  0
//	VPHB SINN
//	|||| ||++- base nametable select
//	|||| |+--- VRAM address increment (0: +1 across, 1: +32 down)
//	|||| +---- sprite pattern table for 8x8 sprites
//	|||+------ background pattern table
//	||+------- sprite size (0: 8x8, 1: 8x16)
//	|+-------- master/slave select, unused on NES
//	+--------- NMI enable at start of vblank
type ctrl struct{ v uint8 }

func (c *ctrl) set(v uint8) { c.v = v }

func (c *ctrl) baseNametable() uint16 { return uint16(c.v&0x03) << 10 }
func (c *ctrl) vramStep() uint16 {
	if c.v&0x04 != 0 {
		return 32
	}
	return 1
}
func (c *ctrl) spritePatternTable() uint16 {
	if c.v&0x08 != 0 {
		return 0x1000
	}
	return 0x0000
}
func (c *ctrl) bgPatternTable() uint16 {
	if c.v&0x10 != 0 {
		return 0x1000
	}
	return 0x0000
}
func (c *ctrl) tallSprites() bool { return c.v&0x20 != 0 }
func (c *ctrl) nmiEnabled() bool  { return c.v&0x80 != 0 }

// mask wraps PPUMASK ($2001).
//
//	7  bit  0
//	BGRs bMmG
//	|||| |||+- grayscale
//	|||| ||+-- show background in leftmost 8 px
//	|||| |+--- show sprites in leftmost 8 px
//	|||| +---- show background
//	|||+------ show sprites
//	||+------- emphasize red
//	|+-------- emphasize green
//	+--------- emphasize blue
type mask struct{ v uint8 }

func (m *mask) set(v uint8)            { m.v = v }
func (m *mask) bgLeft() bool           { return m.v&0x02 != 0 }
func (m *mask) spritesLeft() bool      { return m.v&0x04 != 0 }
func (m *mask) showBg() bool           { return m.v&0x08 != 0 }
func (m *mask) showSprites() bool      { return m.v&0x10 != 0 }
func (m *mask) renderingEnabled() bool { return m.showBg() || m.showSprites() }

// status wraps PPUSTATUS ($2002), read-only from the CPU's side.
type status struct{ v uint8 }

func (s *status) get() uint8 { return s.v }
func (s *status) setVBlank(on bool)    { s.setBit(0x80, on) }
func (s *status) vblank() bool         { return s.v&0x80 != 0 }
func (s *status) setSprite0Hit(on bool) { s.setBit(0x40, on) }
func (s *status) setOverflow(on bool)   { s.setBit(0x20, on) }
func (s *status) setBit(bit uint8, on bool) {
	if on {
		s.v |= bit
	} else {
		s.v &^= bit
	}
}

// loopyAddr is the PPU's 15-bit scroll/address register (v or t in
// Loopy's scrolling documentation): yyy NN YYYYY XXXXX.
type loopyAddr struct{ reg uint16 }

func (l *loopyAddr) get() uint16     { return l.reg }
func (l *loopyAddr) set(v uint16)    { l.reg = v & 0x7FFF }
func (l *loopyAddr) coarseX() uint16 { return l.reg & 0x001F }
func (l *loopyAddr) setCoarseX(v uint16) {
	l.reg = (l.reg & 0x7FE0) | (v & 0x001F)
}
func (l *loopyAddr) coarseY() uint16 { return (l.reg & 0x03E0) >> 5 }
func (l *loopyAddr) setCoarseY(v uint16) {
	l.reg = (l.reg & 0x7C1F) | ((v & 0x001F) << 5)
}
func (l *loopyAddr) nametableX() uint16 { return (l.reg & 0x0400) >> 10 }
func (l *loopyAddr) setNametableX(v uint16) {
	if v != 0 {
		l.reg |= 0x0400
	} else {
		l.reg &^= 0x0400
	}
}
func (l *loopyAddr) nametableY() uint16 { return (l.reg & 0x0800) >> 11 }
func (l *loopyAddr) setNametableY(v uint16) {
	if v != 0 {
		l.reg |= 0x0800
	} else {
		l.reg &^= 0x0800
	}
}
func (l *loopyAddr) fineY() uint16 { return (l.reg & 0x7000) >> 12 }
func (l *loopyAddr) setFineY(v uint16) {
	l.reg = (l.reg & 0x0FFF) | ((v & 0x0007) << 12)
}

// incCoarseX moves one tile to the right, wrapping into the adjacent
// horizontal nametable at the 32nd column.
func (l *loopyAddr) incCoarseX() {
	if l.coarseX() == 31 {
		l.setCoarseX(0)
		l.setNametableX(l.nametableX() ^ 1)
	} else {
		l.setCoarseX(l.coarseX() + 1)
	}
}

// incCoarseY advances fine Y, rolling into coarse Y and then the
// vertical nametable at the 30-row boundary. Row 31 is a documented
// hardware quirk: it wraps to 0 without flipping the nametable since
// rows 30-31 actually index into attribute data, not tile rows.
func (l *loopyAddr) incCoarseY() {
	if l.fineY() < 7 {
		l.setFineY(l.fineY() + 1)
		return
	}
	l.setFineY(0)
	switch y := l.coarseY(); {
	case y == 29:
		l.setCoarseY(0)
		l.setNametableY(l.nametableY() ^ 1)
	case y == 31:
		l.setCoarseY(0)
	default:
		l.setCoarseY(y + 1)
	}
}

// transferX copies the horizontal scroll bits (coarse X, nametable X)
// from src, at the end of each visible scanline.
func (l *loopyAddr) transferX(src *loopyAddr) {
	l.reg = (l.reg & 0x7BE0) | (src.reg & 0x041F)
}

// transferY copies the vertical scroll bits (fine Y, nametable Y,
// coarse Y) from src, during the pre-render scanline.
func (l *loopyAddr) transferY(src *loopyAddr) {
	l.reg = (l.reg & 0x041F) | (src.reg & 0x7BE0)
}
