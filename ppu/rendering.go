package ppu

// loadBackgroundShifters feeds the next tile's fetched pattern and
// attribute bytes into the low byte of each 16-bit shift register,
// ready to be shifted into the visible window over the next 8 dots.
func (p *PPU) loadBackgroundShifters() {
	p.bgShiftLo = (p.bgShiftLo & 0xFF00) | uint16(p.bgLo)
	p.bgShiftHi = (p.bgShiftHi & 0xFF00) | uint16(p.bgHi)

	var lo, hi uint16
	if p.bgAttrib&0x01 != 0 {
		lo = 0xFF
	}
	if p.bgAttrib&0x02 != 0 {
		hi = 0xFF
	}
	p.bgAttrLo = (p.bgAttrLo & 0xFF00) | lo
	p.bgAttrHi = (p.bgAttrHi & 0xFF00) | hi
}

func (p *PPU) updateShifters() {
	if !p.mask.showBg() {
		return
	}
	p.bgShiftLo <<= 1
	p.bgShiftHi <<= 1
	p.bgAttrLo <<= 1
	p.bgAttrHi <<= 1
}

// renderPixel composites the background and sprite pipelines for the
// dot about to be drawn and writes the resulting palette index.
func (p *PPU) renderPixel() {
	x := p.dot - 1
	y := p.scanline

	bgPixel, bgPalette := p.backgroundPixel(x)
	sprPixel, sprPalette, sprPriority, isSprite0 := p.spritePixel(x)

	var pixel, palette uint8
	switch {
	case bgPixel == 0 && sprPixel == 0:
		pixel, palette = 0, 0
	case bgPixel == 0 && sprPixel != 0:
		pixel, palette = sprPixel, sprPalette
	case bgPixel != 0 && sprPixel == 0:
		pixel, palette = bgPixel, bgPalette
	default:
		if sprPriority {
			pixel, palette = bgPixel, bgPalette
		} else {
			pixel, palette = sprPixel, sprPalette
		}
		if isSprite0 && bgPixel != 0 && x <= 254 {
			if p.mask.showBg() && p.mask.showSprites() {
				if x >= 8 || (p.mask.bgLeft() && p.mask.spritesLeft()) {
					p.status.setSprite0Hit(true)
				}
			}
		}
	}

	idx := p.ppuRead(0x3F00 + uint16(palette)*4 + uint16(pixel))
	p.frameBuffer[y*Width+x] = idx & 0x3F
}

func (p *PPU) backgroundPixel(x int) (pixel, palette uint8) {
	if !p.mask.showBg() {
		return 0, 0
	}
	if x < 8 && !p.mask.bgLeft() {
		return 0, 0
	}
	bit := uint16(0x8000) >> p.fineX
	p0 := uint8(0)
	if p.bgShiftLo&bit != 0 {
		p0 = 1
	}
	p1 := uint8(0)
	if p.bgShiftHi&bit != 0 {
		p1 = 1
	}
	pixel = p1<<1 | p0

	a0 := uint8(0)
	if p.bgAttrLo&bit != 0 {
		a0 = 1
	}
	a1 := uint8(0)
	if p.bgAttrHi&bit != 0 {
		a1 = 1
	}
	palette = a1<<1 | a0
	return pixel, palette
}
