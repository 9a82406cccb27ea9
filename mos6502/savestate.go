package mos6502

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// SaveState encodes the CPU's architectural and timing state. The bus
// it is wired to is not part of the encoding; callers restore that by
// construction before calling LoadState.
func (c *CPU) SaveState() []byte {
	var buf bytes.Buffer
	buf.WriteByte(c.A)
	buf.WriteByte(c.X)
	buf.WriteByte(c.Y)
	binary.Write(&buf, binary.BigEndian, c.PC)
	buf.WriteByte(c.SP)
	buf.WriteByte(c.Status)
	binary.Write(&buf, binary.BigEndian, c.TotalCycles)
	binary.Write(&buf, binary.BigEndian, int32(c.dmcStall))
	var flags uint8
	if c.Halted {
		flags |= 0x01
	}
	buf.WriteByte(flags)
	binary.Write(&buf, binary.BigEndian, c.HaltPC)
	return buf.Bytes()
}

// LoadState restores state previously produced by SaveState.
func (c *CPU) LoadState(data []byte) error {
	r := bytes.NewReader(data)
	var a, x, y, sp, status uint8
	if err := readBytes(r, &a, &x, &y); err != nil {
		return err
	}
	var pc uint16
	if err := binary.Read(r, binary.BigEndian, &pc); err != nil {
		return fmt.Errorf("mos6502: PC: %w", err)
	}
	if err := readBytes(r, &sp, &status); err != nil {
		return err
	}
	var totalCycles uint64
	if err := binary.Read(r, binary.BigEndian, &totalCycles); err != nil {
		return fmt.Errorf("mos6502: total cycles: %w", err)
	}
	var dmcStall int32
	if err := binary.Read(r, binary.BigEndian, &dmcStall); err != nil {
		return fmt.Errorf("mos6502: dmc stall: %w", err)
	}
	var flags uint8
	if err := binary.Read(r, binary.BigEndian, &flags); err != nil {
		return fmt.Errorf("mos6502: flags: %w", err)
	}
	var haltPC uint16
	if err := binary.Read(r, binary.BigEndian, &haltPC); err != nil {
		return fmt.Errorf("mos6502: halt PC: %w", err)
	}

	c.A, c.X, c.Y = a, x, y
	c.PC = pc
	c.SP, c.Status = sp, status
	c.TotalCycles = totalCycles
	c.dmcStall = int(dmcStall)
	c.Halted = flags&0x01 != 0
	c.HaltPC = haltPC
	return nil
}

func readBytes(r *bytes.Reader, dst ...*uint8) error {
	for _, d := range dst {
		v, err := r.ReadByte()
		if err != nil {
			return fmt.Errorf("mos6502: %w", err)
		}
		*d = v
	}
	return nil
}
