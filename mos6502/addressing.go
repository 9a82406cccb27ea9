package mos6502

// addrMode resolves an instruction's operand address for the current
// PC (which it advances past the operand bytes) and reports whether
// doing so crossed a page boundary, for instructions that charge an
// extra cycle on that event.
type addrMode func(c *CPU) (addr uint16, pageCrossed bool)

func modeImplied(c *CPU) (uint16, bool) { return 0, false }

// modeAccumulator is used by instructions operating on A directly;
// the resolved address is unused by their handlers.
func modeAccumulator(c *CPU) (uint16, bool) { return 0, false }

func modeImmediate(c *CPU) (uint16, bool) {
	addr := c.PC
	c.PC++
	return addr, false
}

func modeZeroPage(c *CPU) (uint16, bool) {
	addr := uint16(c.read(c.PC))
	c.PC++
	return addr, false
}

func modeZeroPageX(c *CPU) (uint16, bool) {
	addr := uint16(c.read(c.PC) + c.X)
	c.PC++
	return addr, false
}

func modeZeroPageY(c *CPU) (uint16, bool) {
	addr := uint16(c.read(c.PC) + c.Y)
	c.PC++
	return addr, false
}

func modeAbsolute(c *CPU) (uint16, bool) {
	addr := c.read16(c.PC)
	c.PC += 2
	return addr, false
}

func modeAbsoluteX(c *CPU) (uint16, bool) {
	base := c.read16(c.PC)
	c.PC += 2
	addr := base + uint16(c.X)
	return addr, pagesDiffer(base, addr)
}

func modeAbsoluteY(c *CPU) (uint16, bool) {
	base := c.read16(c.PC)
	c.PC += 2
	addr := base + uint16(c.Y)
	return addr, pagesDiffer(base, addr)
}

// modeIndirect is used only by JMP ($xxxx) and reproduces the 6502
// page-wrap bug on indirection.
func modeIndirect(c *CPU) (uint16, bool) {
	ptr := c.read16(c.PC)
	c.PC += 2
	return c.read16bug(ptr), false
}

func modeIndirectX(c *CPU) (uint16, bool) {
	base := c.read(c.PC)
	c.PC++
	ptr := base + c.X
	addr := c.read16bug(uint16(ptr))
	return addr, false
}

func modeIndirectY(c *CPU) (uint16, bool) {
	base := c.read(c.PC)
	c.PC++
	dynBase := c.read16bug(uint16(base))
	addr := dynBase + uint16(c.Y)
	return addr, pagesDiffer(dynBase, addr)
}

// modeRelative resolves a branch target; page-crossing here is
// reported by the branch handler itself since it depends on whether
// the branch is actually taken.
func modeRelative(c *CPU) (uint16, bool) {
	offset := uint16(c.read(c.PC))
	c.PC++
	if offset < 0x80 {
		return c.PC + offset, false
	}
	return c.PC + offset - 0x100, false
}
