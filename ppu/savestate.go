package ppu

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// SaveState encodes all pipeline and memory state. The attached
// mapper is not included; AttachMapper must be called before
// LoadState.
func (p *PPU) SaveState() []byte {
	var buf bytes.Buffer
	buf.Write(p.nametable[:])
	buf.Write(p.paletteRAM[:])
	buf.Write(p.oam[:])
	buf.WriteByte(p.oamAddr)

	binary.Write(&buf, binary.BigEndian, p.ctrl.v)
	binary.Write(&buf, binary.BigEndian, p.mask.v)
	binary.Write(&buf, binary.BigEndian, p.status.v)
	binary.Write(&buf, binary.BigEndian, p.v.reg)
	binary.Write(&buf, binary.BigEndian, p.t.reg)
	buf.WriteByte(p.fineX)
	writeBool(&buf, p.wLatch)
	buf.WriteByte(p.readBuffer)

	binary.Write(&buf, binary.BigEndian, int32(p.scanline))
	binary.Write(&buf, binary.BigEndian, int32(p.dot))
	binary.Write(&buf, binary.BigEndian, p.Frame)
	writeBool(&buf, p.oddFrame)

	buf.Write([]byte{p.bgTileID, p.bgAttrib, p.bgLo, p.bgHi})
	binary.Write(&buf, binary.BigEndian, []uint16{p.bgShiftLo, p.bgShiftHi, p.bgAttrLo, p.bgAttrHi})

	buf.Write(p.secondaryOAM[:])
	buf.WriteByte(p.spriteCount)
	writeBool(&buf, p.sprite0OnLine)
	for _, b := range p.spriteIsZero {
		writeBool(&buf, b)
	}
	buf.Write(p.spritePatLo[:])
	buf.Write(p.spritePatHi[:])
	buf.Write(p.spriteAttrib[:])
	buf.Write(p.spriteX[:])

	writeBool(&buf, p.FrameComplete)
	buf.Write(p.frameBuffer[:])
	writeBool(&buf, p.nmiPending)

	return buf.Bytes()
}

// LoadState restores state previously produced by SaveState.
func (p *PPU) LoadState(data []byte) error {
	r := bytes.NewReader(data)
	if _, err := r.Read(p.nametable[:]); err != nil {
		return fmt.Errorf("ppu: nametable: %w", err)
	}
	if _, err := r.Read(p.paletteRAM[:]); err != nil {
		return fmt.Errorf("ppu: palette: %w", err)
	}
	if _, err := r.Read(p.oam[:]); err != nil {
		return fmt.Errorf("ppu: oam: %w", err)
	}
	var err error
	if p.oamAddr, err = r.ReadByte(); err != nil {
		return fmt.Errorf("ppu: oamAddr: %w", err)
	}

	if err := binary.Read(r, binary.BigEndian, &p.ctrl.v); err != nil {
		return fmt.Errorf("ppu: ctrl: %w", err)
	}
	if err := binary.Read(r, binary.BigEndian, &p.mask.v); err != nil {
		return fmt.Errorf("ppu: mask: %w", err)
	}
	if err := binary.Read(r, binary.BigEndian, &p.status.v); err != nil {
		return fmt.Errorf("ppu: status: %w", err)
	}
	if err := binary.Read(r, binary.BigEndian, &p.v.reg); err != nil {
		return fmt.Errorf("ppu: v: %w", err)
	}
	if err := binary.Read(r, binary.BigEndian, &p.t.reg); err != nil {
		return fmt.Errorf("ppu: t: %w", err)
	}
	if p.fineX, err = r.ReadByte(); err != nil {
		return fmt.Errorf("ppu: fineX: %w", err)
	}
	if p.wLatch, err = readBool(r); err != nil {
		return err
	}
	if p.readBuffer, err = r.ReadByte(); err != nil {
		return fmt.Errorf("ppu: readBuffer: %w", err)
	}

	var scanline, dot int32
	if err := binary.Read(r, binary.BigEndian, &scanline); err != nil {
		return fmt.Errorf("ppu: scanline: %w", err)
	}
	if err := binary.Read(r, binary.BigEndian, &dot); err != nil {
		return fmt.Errorf("ppu: dot: %w", err)
	}
	p.scanline, p.dot = int(scanline), int(dot)
	if err := binary.Read(r, binary.BigEndian, &p.Frame); err != nil {
		return fmt.Errorf("ppu: frame: %w", err)
	}
	if p.oddFrame, err = readBool(r); err != nil {
		return err
	}

	bg := make([]byte, 4)
	if _, err := r.Read(bg); err != nil {
		return fmt.Errorf("ppu: bg latches: %w", err)
	}
	p.bgTileID, p.bgAttrib, p.bgLo, p.bgHi = bg[0], bg[1], bg[2], bg[3]

	shifters := make([]uint16, 4)
	if err := binary.Read(r, binary.BigEndian, shifters); err != nil {
		return fmt.Errorf("ppu: shifters: %w", err)
	}
	p.bgShiftLo, p.bgShiftHi, p.bgAttrLo, p.bgAttrHi = shifters[0], shifters[1], shifters[2], shifters[3]

	if _, err := r.Read(p.secondaryOAM[:]); err != nil {
		return fmt.Errorf("ppu: secondary oam: %w", err)
	}
	if p.spriteCount, err = r.ReadByte(); err != nil {
		return fmt.Errorf("ppu: spriteCount: %w", err)
	}
	if p.sprite0OnLine, err = readBool(r); err != nil {
		return err
	}
	for i := range p.spriteIsZero {
		if p.spriteIsZero[i], err = readBool(r); err != nil {
			return err
		}
	}
	if _, err := r.Read(p.spritePatLo[:]); err != nil {
		return fmt.Errorf("ppu: spritePatLo: %w", err)
	}
	if _, err := r.Read(p.spritePatHi[:]); err != nil {
		return fmt.Errorf("ppu: spritePatHi: %w", err)
	}
	if _, err := r.Read(p.spriteAttrib[:]); err != nil {
		return fmt.Errorf("ppu: spriteAttrib: %w", err)
	}
	if _, err := r.Read(p.spriteX[:]); err != nil {
		return fmt.Errorf("ppu: spriteX: %w", err)
	}

	if p.FrameComplete, err = readBool(r); err != nil {
		return err
	}
	if _, err := r.Read(p.frameBuffer[:]); err != nil {
		return fmt.Errorf("ppu: frameBuffer: %w", err)
	}
	if p.nmiPending, err = readBool(r); err != nil {
		return err
	}
	return nil
}

func writeBool(buf *bytes.Buffer, b bool) {
	if b {
		buf.WriteByte(1)
	} else {
		buf.WriteByte(0)
	}
}

func readBool(r *bytes.Reader) (bool, error) {
	v, err := r.ReadByte()
	if err != nil {
		return false, fmt.Errorf("ppu: bool: %w", err)
	}
	return v != 0, nil
}
