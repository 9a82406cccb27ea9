package ppu

// spriteEvaluation scans primary OAM for the up to 8 sprites that
// intersect the upcoming scanline, copying them into secondary OAM and
// raising the overflow flag past the hardware's 8-sprite limit.
func (p *PPU) spriteEvaluation() {
	for i := range p.secondaryOAM {
		p.secondaryOAM[i] = 0xFF
	}
	p.spriteCount = 0
	p.sprite0OnLine = false
	for i := range p.spriteIsZero {
		p.spriteIsZero[i] = false
	}

	height := 8
	if p.ctrl.tallSprites() {
		height = 16
	}

	nextLine := p.scanline + 1
	n := 0
	for i := 0; i < 64; i++ {
		spriteY := int(p.oam[i*4])
		diff := nextLine - spriteY
		if diff < 0 || diff >= height {
			continue
		}
		if n < 8 {
			copy(p.secondaryOAM[n*4:n*4+4], p.oam[i*4:i*4+4])
			if i == 0 {
				p.sprite0OnLine = true
				p.spriteIsZero[n] = true
			}
			n++
		} else {
			p.status.setOverflow(true)
			break
		}
	}
	p.spriteCount = uint8(n)
}

func reverseByte(b uint8) uint8 {
	b = (b&0xF0)>>4 | (b&0x0F)<<4
	b = (b&0xCC)>>2 | (b&0x33)<<2
	b = (b&0xAA)>>1 | (b&0x55)<<1
	return b
}

// spriteFetching loads pattern bytes for every sprite selected by
// spriteEvaluation, honoring 8x8/8x16 addressing and both flip bits.
func (p *PPU) spriteFetching() {
	height := 8
	if p.ctrl.tallSprites() {
		height = 16
	}

	for i := 0; i < int(p.spriteCount); i++ {
		spriteY := p.secondaryOAM[i*4]
		tileIndex := p.secondaryOAM[i*4+1]
		attrib := p.secondaryOAM[i*4+2]
		spriteX := p.secondaryOAM[i*4+3]

		flipV := attrib&0x80 != 0
		flipH := attrib&0x40 != 0

		row := uint16(p.scanline) - uint16(spriteY)
		if flipV {
			row = uint16(height-1) - row
		}

		var table, tile uint16
		if height == 16 {
			table = uint16(tileIndex&0x01) << 12
			tile = uint16(tileIndex &^ 0x01)
			if row >= 8 {
				tile++
				row -= 8
			}
		} else {
			table = p.ctrl.spritePatternTable()
			tile = uint16(tileIndex)
		}

		addr := table | (tile << 4) | row
		lo := p.ppuRead(addr)
		hi := p.ppuRead(addr + 8)
		if flipH {
			lo = reverseByte(lo)
			hi = reverseByte(hi)
		}

		p.spritePatLo[i] = lo
		p.spritePatHi[i] = hi
		p.spriteAttrib[i] = attrib
		p.spriteX[i] = spriteX
	}
	for i := int(p.spriteCount); i < 8; i++ {
		p.spritePatLo[i] = 0
		p.spritePatHi[i] = 0
	}
}

// spritePixel returns the first (highest-OAM-priority) opaque sprite
// pixel at x, if any, along with whether it is sprite 0.
func (p *PPU) spritePixel(x int) (pixel, palette uint8, behindBg bool, isZero bool) {
	if !p.mask.showSprites() {
		return 0, 0, false, false
	}
	if x < 8 && !p.mask.spritesLeft() {
		return 0, 0, false, false
	}

	for i := 0; i < int(p.spriteCount); i++ {
		offset := x - int(p.spriteX[i])
		if offset < 0 || offset > 7 {
			continue
		}
		bit := uint(7 - offset)
		lo := (p.spritePatLo[i] >> bit) & 1
		hi := (p.spritePatHi[i] >> bit) & 1
		px := hi<<1 | lo
		if px == 0 {
			continue
		}
		pal := (p.spriteAttrib[i] & 0x03) + 4
		priority := p.spriteAttrib[i]&0x20 != 0
		return px, pal, priority, p.spriteIsZero[i]
	}
	return 0, 0, false, false
}
