package mappers

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Stateful is implemented by mapper variants that carry bank-switching
// or IRQ state beyond their fixed PRG/CHR image. SaveState/LoadState
// only need to cover that mutable state: the cartridge's ROM bytes are
// restored by reconstructing the mapper from the original image before
// LoadState is called.
type Stateful interface {
	SaveState() []byte
	LoadState([]byte) error
}

func (m *nrom) SaveState() []byte {
	var buf bytes.Buffer
	buf.Write(m.prgRAM[:])
	if m.chrRAM {
		buf.Write(m.chr)
	}
	return buf.Bytes()
}

func (m *nrom) LoadState(data []byte) error {
	if len(data) < len(m.prgRAM) {
		return fmt.Errorf("mappers: nrom state too short: %d bytes", len(data))
	}
	copy(m.prgRAM[:], data[:len(m.prgRAM)])
	rest := data[len(m.prgRAM):]
	if m.chrRAM {
		if len(rest) != len(m.chr) {
			return fmt.Errorf("mappers: nrom CHR RAM state mismatch: got %d want %d", len(rest), len(m.chr))
		}
		copy(m.chr, rest)
	}
	return nil
}

func (m *mmc1) SaveState() []byte {
	var buf bytes.Buffer
	buf.Write(m.prgRAM[:])
	if m.chrRAM {
		buf.Write(m.chr)
	}
	buf.Write([]byte{
		m.shift, m.shiftCount, m.mirror, m.prgMode, m.chrMode,
		m.chrBank0, m.chrBank1, m.prgBank,
	})
	return buf.Bytes()
}

func (m *mmc1) LoadState(data []byte) error {
	r := bytes.NewReader(data)
	if _, err := r.Read(m.prgRAM[:]); err != nil {
		return fmt.Errorf("mappers: mmc1 PRG RAM: %w", err)
	}
	if m.chrRAM {
		if _, err := r.Read(m.chr); err != nil {
			return fmt.Errorf("mappers: mmc1 CHR RAM: %w", err)
		}
	}
	tail := make([]uint8, 8)
	if _, err := r.Read(tail); err != nil {
		return fmt.Errorf("mappers: mmc1 banking state: %w", err)
	}
	m.shift, m.shiftCount, m.mirror, m.prgMode, m.chrMode = tail[0], tail[1], tail[2], tail[3], tail[4]
	m.chrBank0, m.chrBank1, m.prgBank = tail[5], tail[6], tail[7]
	return nil
}

func (m *unrom) SaveState() []byte {
	var buf bytes.Buffer
	buf.Write(m.chr[:])
	buf.WriteByte(m.prgBank)
	return buf.Bytes()
}

func (m *unrom) LoadState(data []byte) error {
	if len(data) != len(m.chr)+1 {
		return fmt.Errorf("mappers: unrom state size mismatch: got %d", len(data))
	}
	copy(m.chr[:], data[:len(m.chr)])
	m.prgBank = data[len(m.chr)]
	return nil
}

func (m *mmc3) SaveState() []byte {
	var buf bytes.Buffer
	buf.Write(m.prgRAM[:])
	buf.Write(m.chr)
	buf.Write(m.registers[:])
	buf.WriteByte(m.regSelect)
	buf.WriteByte(m.prgMode)
	buf.WriteByte(m.chrMode)
	var prgOffsets32, chrOffsets32 [8]int32
	for i, v := range m.prgOffsets {
		prgOffsets32[i] = int32(v)
	}
	for i, v := range m.chrOffsets {
		chrOffsets32[i] = int32(v)
	}
	binary.Write(&buf, binary.BigEndian, prgOffsets32[:len(m.prgOffsets)])
	binary.Write(&buf, binary.BigEndian, chrOffsets32[:len(m.chrOffsets)])
	var flags uint8
	if m.irqEnabled {
		flags |= 0x01
	}
	if m.irqPending {
		flags |= 0x02
	}
	buf.WriteByte(flags)
	buf.WriteByte(m.irqReload)
	buf.WriteByte(m.irqCounter)
	return buf.Bytes()
}

func (m *mmc3) LoadState(data []byte) error {
	r := bytes.NewReader(data)
	if _, err := r.Read(m.prgRAM[:]); err != nil {
		return fmt.Errorf("mappers: mmc3 PRG RAM: %w", err)
	}
	if _, err := r.Read(m.chr); err != nil {
		return fmt.Errorf("mappers: mmc3 CHR state: %w", err)
	}
	if _, err := r.Read(m.registers[:]); err != nil {
		return fmt.Errorf("mappers: mmc3 registers: %w", err)
	}
	scalars := make([]byte, 3)
	if _, err := r.Read(scalars); err != nil {
		return fmt.Errorf("mappers: mmc3 mode bytes: %w", err)
	}
	m.regSelect, m.prgMode, m.chrMode = scalars[0], scalars[1], scalars[2]
	var prgOffsets32 [4]int32
	var chrOffsets32 [8]int32
	if err := binary.Read(r, binary.BigEndian, &prgOffsets32); err != nil {
		return fmt.Errorf("mappers: mmc3 prg offsets: %w", err)
	}
	if err := binary.Read(r, binary.BigEndian, &chrOffsets32); err != nil {
		return fmt.Errorf("mappers: mmc3 chr offsets: %w", err)
	}
	for i := range m.prgOffsets {
		m.prgOffsets[i] = int(prgOffsets32[i])
	}
	for i := range m.chrOffsets {
		m.chrOffsets[i] = int(chrOffsets32[i])
	}
	flags, err := r.ReadByte()
	if err != nil {
		return fmt.Errorf("mappers: mmc3 irq flags: %w", err)
	}
	m.irqEnabled = flags&0x01 != 0
	m.irqPending = flags&0x02 != 0
	m.irqReload, err = r.ReadByte()
	if err != nil {
		return fmt.Errorf("mappers: mmc3 irq reload: %w", err)
	}
	m.irqCounter, err = r.ReadByte()
	if err != nil {
		return fmt.Errorf("mappers: mmc3 irq counter: %w", err)
	}
	return nil
}
