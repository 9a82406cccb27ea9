package mos6502

// opcode describes one entry of the dispatch table: its addressing
// mode resolver, base cycle cost, whether a page-crossing operand
// fetch adds a cycle, and the handler that performs the operation and
// returns any additional cycles (branches taken, page-crossing on
// branch).
type opcode struct {
	name         string
	mode         addrMode
	cycles       int
	extraOnCross bool
	run          func(c *CPU, addr uint16) int
}

var opcodeTable [256]opcode

func def(b uint8, name string, mode addrMode, cycles int, extraOnCross bool, run func(c *CPU, addr uint16) int) {
	opcodeTable[b] = opcode{name: name, mode: mode, cycles: cycles, extraOnCross: extraOnCross, run: run}
}

func init() {
	def(0x69, "ADC", modeImmediate, 2, false, opADC)
	def(0x65, "ADC", modeZeroPage, 3, false, opADC)
	def(0x75, "ADC", modeZeroPageX, 4, false, opADC)
	def(0x6D, "ADC", modeAbsolute, 4, false, opADC)
	def(0x7D, "ADC", modeAbsoluteX, 4, true, opADC)
	def(0x79, "ADC", modeAbsoluteY, 4, true, opADC)
	def(0x61, "ADC", modeIndirectX, 6, false, opADC)
	def(0x71, "ADC", modeIndirectY, 5, true, opADC)

	def(0x29, "AND", modeImmediate, 2, false, opAND)
	def(0x25, "AND", modeZeroPage, 3, false, opAND)
	def(0x35, "AND", modeZeroPageX, 4, false, opAND)
	def(0x2D, "AND", modeAbsolute, 4, false, opAND)
	def(0x3D, "AND", modeAbsoluteX, 4, true, opAND)
	def(0x39, "AND", modeAbsoluteY, 4, true, opAND)
	def(0x21, "AND", modeIndirectX, 6, false, opAND)
	def(0x31, "AND", modeIndirectY, 5, true, opAND)

	def(0x0A, "ASL", modeAccumulator, 2, false, opASLAcc)
	def(0x06, "ASL", modeZeroPage, 5, false, opASLMem)
	def(0x16, "ASL", modeZeroPageX, 6, false, opASLMem)
	def(0x0E, "ASL", modeAbsolute, 6, false, opASLMem)
	def(0x1E, "ASL", modeAbsoluteX, 7, false, opASLMem)

	def(0x90, "BCC", modeRelative, 2, false, branchIf(func(c *CPU) bool { return !c.flag(FlagCarry) }))
	def(0xB0, "BCS", modeRelative, 2, false, branchIf(func(c *CPU) bool { return c.flag(FlagCarry) }))
	def(0xF0, "BEQ", modeRelative, 2, false, branchIf(func(c *CPU) bool { return c.flag(FlagZero) }))
	def(0x30, "BMI", modeRelative, 2, false, branchIf(func(c *CPU) bool { return c.flag(FlagNegative) }))
	def(0xD0, "BNE", modeRelative, 2, false, branchIf(func(c *CPU) bool { return !c.flag(FlagZero) }))
	def(0x10, "BPL", modeRelative, 2, false, branchIf(func(c *CPU) bool { return !c.flag(FlagNegative) }))
	def(0x50, "BVC", modeRelative, 2, false, branchIf(func(c *CPU) bool { return !c.flag(FlagOverflow) }))
	def(0x70, "BVS", modeRelative, 2, false, branchIf(func(c *CPU) bool { return c.flag(FlagOverflow) }))

	def(0x24, "BIT", modeZeroPage, 3, false, opBIT)
	def(0x2C, "BIT", modeAbsolute, 4, false, opBIT)

	def(0x00, "BRK", modeImplied, 7, false, opBRK)

	def(0x18, "CLC", modeImplied, 2, false, func(c *CPU, _ uint16) int { c.setFlag(FlagCarry, false); return 0 })
	def(0xD8, "CLD", modeImplied, 2, false, func(c *CPU, _ uint16) int { c.setFlag(FlagDecimal, false); return 0 })
	def(0x58, "CLI", modeImplied, 2, false, func(c *CPU, _ uint16) int { c.setFlag(FlagInterruptDisable, false); return 0 })
	def(0xB8, "CLV", modeImplied, 2, false, func(c *CPU, _ uint16) int { c.setFlag(FlagOverflow, false); return 0 })

	def(0xC9, "CMP", modeImmediate, 2, false, compareWith(func(c *CPU) uint8 { return c.A }))
	def(0xC5, "CMP", modeZeroPage, 3, false, compareWith(func(c *CPU) uint8 { return c.A }))
	def(0xD5, "CMP", modeZeroPageX, 4, false, compareWith(func(c *CPU) uint8 { return c.A }))
	def(0xCD, "CMP", modeAbsolute, 4, false, compareWith(func(c *CPU) uint8 { return c.A }))
	def(0xDD, "CMP", modeAbsoluteX, 4, true, compareWith(func(c *CPU) uint8 { return c.A }))
	def(0xD9, "CMP", modeAbsoluteY, 4, true, compareWith(func(c *CPU) uint8 { return c.A }))
	def(0xC1, "CMP", modeIndirectX, 6, false, compareWith(func(c *CPU) uint8 { return c.A }))
	def(0xD1, "CMP", modeIndirectY, 5, true, compareWith(func(c *CPU) uint8 { return c.A }))

	def(0xE0, "CPX", modeImmediate, 2, false, compareWith(func(c *CPU) uint8 { return c.X }))
	def(0xE4, "CPX", modeZeroPage, 3, false, compareWith(func(c *CPU) uint8 { return c.X }))
	def(0xEC, "CPX", modeAbsolute, 4, false, compareWith(func(c *CPU) uint8 { return c.X }))

	def(0xC0, "CPY", modeImmediate, 2, false, compareWith(func(c *CPU) uint8 { return c.Y }))
	def(0xC4, "CPY", modeZeroPage, 3, false, compareWith(func(c *CPU) uint8 { return c.Y }))
	def(0xCC, "CPY", modeAbsolute, 4, false, compareWith(func(c *CPU) uint8 { return c.Y }))

	def(0xC6, "DEC", modeZeroPage, 5, false, opDEC)
	def(0xD6, "DEC", modeZeroPageX, 6, false, opDEC)
	def(0xCE, "DEC", modeAbsolute, 6, false, opDEC)
	def(0xDE, "DEC", modeAbsoluteX, 7, false, opDEC)

	def(0xCA, "DEX", modeImplied, 2, false, func(c *CPU, _ uint16) int { c.X--; c.setZN(c.X); return 0 })
	def(0x88, "DEY", modeImplied, 2, false, func(c *CPU, _ uint16) int { c.Y--; c.setZN(c.Y); return 0 })

	def(0x49, "EOR", modeImmediate, 2, false, opEOR)
	def(0x45, "EOR", modeZeroPage, 3, false, opEOR)
	def(0x55, "EOR", modeZeroPageX, 4, false, opEOR)
	def(0x4D, "EOR", modeAbsolute, 4, false, opEOR)
	def(0x5D, "EOR", modeAbsoluteX, 4, true, opEOR)
	def(0x59, "EOR", modeAbsoluteY, 4, true, opEOR)
	def(0x41, "EOR", modeIndirectX, 6, false, opEOR)
	def(0x51, "EOR", modeIndirectY, 5, true, opEOR)

	def(0xE6, "INC", modeZeroPage, 5, false, opINC)
	def(0xF6, "INC", modeZeroPageX, 6, false, opINC)
	def(0xEE, "INC", modeAbsolute, 6, false, opINC)
	def(0xFE, "INC", modeAbsoluteX, 7, false, opINC)

	def(0xE8, "INX", modeImplied, 2, false, func(c *CPU, _ uint16) int { c.X++; c.setZN(c.X); return 0 })
	def(0xC8, "INY", modeImplied, 2, false, func(c *CPU, _ uint16) int { c.Y++; c.setZN(c.Y); return 0 })

	def(0x4C, "JMP", modeAbsolute, 3, false, func(c *CPU, addr uint16) int { c.PC = addr; return 0 })
	def(0x6C, "JMP", modeIndirect, 5, false, func(c *CPU, addr uint16) int { c.PC = addr; return 0 })

	def(0x20, "JSR", modeAbsolute, 6, false, func(c *CPU, addr uint16) int {
		c.push16(c.PC - 1)
		c.PC = addr
		return 0
	})

	def(0xA9, "LDA", modeImmediate, 2, false, opLDA)
	def(0xA5, "LDA", modeZeroPage, 3, false, opLDA)
	def(0xB5, "LDA", modeZeroPageX, 4, false, opLDA)
	def(0xAD, "LDA", modeAbsolute, 4, false, opLDA)
	def(0xBD, "LDA", modeAbsoluteX, 4, true, opLDA)
	def(0xB9, "LDA", modeAbsoluteY, 4, true, opLDA)
	def(0xA1, "LDA", modeIndirectX, 6, false, opLDA)
	def(0xB1, "LDA", modeIndirectY, 5, true, opLDA)

	def(0xA2, "LDX", modeImmediate, 2, false, opLDX)
	def(0xA6, "LDX", modeZeroPage, 3, false, opLDX)
	def(0xB6, "LDX", modeZeroPageY, 4, false, opLDX)
	def(0xAE, "LDX", modeAbsolute, 4, false, opLDX)
	def(0xBE, "LDX", modeAbsoluteY, 4, true, opLDX)

	def(0xA0, "LDY", modeImmediate, 2, false, opLDY)
	def(0xA4, "LDY", modeZeroPage, 3, false, opLDY)
	def(0xB4, "LDY", modeZeroPageX, 4, false, opLDY)
	def(0xAC, "LDY", modeAbsolute, 4, false, opLDY)
	def(0xBC, "LDY", modeAbsoluteX, 4, true, opLDY)

	def(0x4A, "LSR", modeAccumulator, 2, false, opLSRAcc)
	def(0x46, "LSR", modeZeroPage, 5, false, opLSRMem)
	def(0x56, "LSR", modeZeroPageX, 6, false, opLSRMem)
	def(0x4E, "LSR", modeAbsolute, 6, false, opLSRMem)
	def(0x5E, "LSR", modeAbsoluteX, 7, false, opLSRMem)

	def(0xEA, "NOP", modeImplied, 2, false, func(c *CPU, _ uint16) int { return 0 })

	def(0x09, "ORA", modeImmediate, 2, false, opORA)
	def(0x05, "ORA", modeZeroPage, 3, false, opORA)
	def(0x15, "ORA", modeZeroPageX, 4, false, opORA)
	def(0x0D, "ORA", modeAbsolute, 4, false, opORA)
	def(0x1D, "ORA", modeAbsoluteX, 4, true, opORA)
	def(0x19, "ORA", modeAbsoluteY, 4, true, opORA)
	def(0x01, "ORA", modeIndirectX, 6, false, opORA)
	def(0x11, "ORA", modeIndirectY, 5, true, opORA)

	def(0x48, "PHA", modeImplied, 3, false, func(c *CPU, _ uint16) int { c.push(c.A); return 0 })
	def(0x08, "PHP", modeImplied, 3, false, func(c *CPU, _ uint16) int {
		c.push(c.Status | FlagBreak1 | FlagBreak2)
		return 0
	})
	def(0x68, "PLA", modeImplied, 4, false, func(c *CPU, _ uint16) int {
		c.A = c.pop()
		c.setZN(c.A)
		return 0
	})
	def(0x28, "PLP", modeImplied, 4, false, func(c *CPU, _ uint16) int {
		c.Status = (c.pop() &^ uint8(FlagBreak1)) | FlagBreak2
		return 0
	})

	def(0x2A, "ROL", modeAccumulator, 2, false, opROLAcc)
	def(0x26, "ROL", modeZeroPage, 5, false, opROLMem)
	def(0x36, "ROL", modeZeroPageX, 6, false, opROLMem)
	def(0x2E, "ROL", modeAbsolute, 6, false, opROLMem)
	def(0x3E, "ROL", modeAbsoluteX, 7, false, opROLMem)

	def(0x6A, "ROR", modeAccumulator, 2, false, opRORAcc)
	def(0x66, "ROR", modeZeroPage, 5, false, opRORMem)
	def(0x76, "ROR", modeZeroPageX, 6, false, opRORMem)
	def(0x6E, "ROR", modeAbsolute, 6, false, opRORMem)
	def(0x7E, "ROR", modeAbsoluteX, 7, false, opRORMem)

	def(0x40, "RTI", modeImplied, 6, false, func(c *CPU, _ uint16) int {
		c.Status = (c.pop() &^ uint8(FlagBreak1)) | FlagBreak2
		c.PC = c.pop16()
		return 0
	})
	def(0x60, "RTS", modeImplied, 6, false, func(c *CPU, _ uint16) int {
		c.PC = c.pop16() + 1
		return 0
	})

	def(0xE9, "SBC", modeImmediate, 2, false, opSBC)
	def(0xE5, "SBC", modeZeroPage, 3, false, opSBC)
	def(0xF5, "SBC", modeZeroPageX, 4, false, opSBC)
	def(0xED, "SBC", modeAbsolute, 4, false, opSBC)
	def(0xFD, "SBC", modeAbsoluteX, 4, true, opSBC)
	def(0xF9, "SBC", modeAbsoluteY, 4, true, opSBC)
	def(0xE1, "SBC", modeIndirectX, 6, false, opSBC)
	def(0xF1, "SBC", modeIndirectY, 5, true, opSBC)

	def(0x38, "SEC", modeImplied, 2, false, func(c *CPU, _ uint16) int { c.setFlag(FlagCarry, true); return 0 })
	def(0xF8, "SED", modeImplied, 2, false, func(c *CPU, _ uint16) int { c.setFlag(FlagDecimal, true); return 0 })
	def(0x78, "SEI", modeImplied, 2, false, func(c *CPU, _ uint16) int { c.setFlag(FlagInterruptDisable, true); return 0 })

	def(0x85, "STA", modeZeroPage, 3, false, func(c *CPU, addr uint16) int { c.write(addr, c.A); return 0 })
	def(0x95, "STA", modeZeroPageX, 4, false, func(c *CPU, addr uint16) int { c.write(addr, c.A); return 0 })
	def(0x8D, "STA", modeAbsolute, 4, false, func(c *CPU, addr uint16) int { c.write(addr, c.A); return 0 })
	def(0x9D, "STA", modeAbsoluteX, 5, false, func(c *CPU, addr uint16) int { c.write(addr, c.A); return 0 })
	def(0x99, "STA", modeAbsoluteY, 5, false, func(c *CPU, addr uint16) int { c.write(addr, c.A); return 0 })
	def(0x81, "STA", modeIndirectX, 6, false, func(c *CPU, addr uint16) int { c.write(addr, c.A); return 0 })
	def(0x91, "STA", modeIndirectY, 6, false, func(c *CPU, addr uint16) int { c.write(addr, c.A); return 0 })

	def(0x86, "STX", modeZeroPage, 3, false, func(c *CPU, addr uint16) int { c.write(addr, c.X); return 0 })
	def(0x96, "STX", modeZeroPageY, 4, false, func(c *CPU, addr uint16) int { c.write(addr, c.X); return 0 })
	def(0x8E, "STX", modeAbsolute, 4, false, func(c *CPU, addr uint16) int { c.write(addr, c.X); return 0 })

	def(0x84, "STY", modeZeroPage, 3, false, func(c *CPU, addr uint16) int { c.write(addr, c.Y); return 0 })
	def(0x94, "STY", modeZeroPageX, 4, false, func(c *CPU, addr uint16) int { c.write(addr, c.Y); return 0 })
	def(0x8C, "STY", modeAbsolute, 4, false, func(c *CPU, addr uint16) int { c.write(addr, c.Y); return 0 })

	def(0xAA, "TAX", modeImplied, 2, false, func(c *CPU, _ uint16) int { c.X = c.A; c.setZN(c.X); return 0 })
	def(0xA8, "TAY", modeImplied, 2, false, func(c *CPU, _ uint16) int { c.Y = c.A; c.setZN(c.Y); return 0 })
	def(0xBA, "TSX", modeImplied, 2, false, func(c *CPU, _ uint16) int { c.X = c.SP; c.setZN(c.X); return 0 })
	def(0x8A, "TXA", modeImplied, 2, false, func(c *CPU, _ uint16) int { c.A = c.X; c.setZN(c.A); return 0 })
	def(0x9A, "TXS", modeImplied, 2, false, func(c *CPU, _ uint16) int { c.SP = c.X; return 0 })
	def(0x98, "TYA", modeImplied, 2, false, func(c *CPU, _ uint16) int { c.A = c.Y; c.setZN(c.A); return 0 })
}

func opADC(c *CPU, addr uint16) int {
	c.addWithCarry(c.read(addr))
	return 0
}

// addWithCarry implements ADC's signed-overflow rule: overflow is set
// when the operands share a sign but the result's sign differs from
// theirs, per (A^result)&(operand^result)&0x80.
func (c *CPU) addWithCarry(operand uint8) {
	a := c.A
	carry := uint16(0)
	if c.flag(FlagCarry) {
		carry = 1
	}
	sum := uint16(a) + uint16(operand) + carry
	result := uint8(sum)

	c.setFlag(FlagCarry, sum > 0xFF)
	c.setFlag(FlagOverflow, (a^result)&(operand^result)&0x80 != 0)
	c.A = result
	c.setZN(c.A)
}

func opSBC(c *CPU, addr uint16) int {
	operand := c.read(addr)
	c.addWithCarry(operand ^ 0xFF)
	return 0
}

func opAND(c *CPU, addr uint16) int {
	c.A &= c.read(addr)
	c.setZN(c.A)
	return 0
}

func opEOR(c *CPU, addr uint16) int {
	c.A ^= c.read(addr)
	c.setZN(c.A)
	return 0
}

func opORA(c *CPU, addr uint16) int {
	c.A |= c.read(addr)
	c.setZN(c.A)
	return 0
}

func opBIT(c *CPU, addr uint16) int {
	v := c.read(addr)
	c.setFlag(FlagZero, c.A&v == 0)
	c.setFlag(FlagOverflow, v&0x40 != 0)
	c.setFlag(FlagNegative, v&0x80 != 0)
	return 0
}

func opLDA(c *CPU, addr uint16) int { c.A = c.read(addr); c.setZN(c.A); return 0 }
func opLDX(c *CPU, addr uint16) int { c.X = c.read(addr); c.setZN(c.X); return 0 }
func opLDY(c *CPU, addr uint16) int { c.Y = c.read(addr); c.setZN(c.Y); return 0 }

func opASLAcc(c *CPU, _ uint16) int {
	c.setFlag(FlagCarry, c.A&0x80 != 0)
	c.A <<= 1
	c.setZN(c.A)
	return 0
}

func opASLMem(c *CPU, addr uint16) int {
	v := c.read(addr)
	c.setFlag(FlagCarry, v&0x80 != 0)
	v <<= 1
	c.write(addr, v)
	c.setZN(v)
	return 0
}

func opLSRAcc(c *CPU, _ uint16) int {
	c.setFlag(FlagCarry, c.A&0x01 != 0)
	c.A >>= 1
	c.setZN(c.A)
	return 0
}

func opLSRMem(c *CPU, addr uint16) int {
	v := c.read(addr)
	c.setFlag(FlagCarry, v&0x01 != 0)
	v >>= 1
	c.write(addr, v)
	c.setZN(v)
	return 0
}

func opROLAcc(c *CPU, _ uint16) int {
	carryIn := uint8(0)
	if c.flag(FlagCarry) {
		carryIn = 1
	}
	c.setFlag(FlagCarry, c.A&0x80 != 0)
	c.A = (c.A << 1) | carryIn
	c.setZN(c.A)
	return 0
}

func opROLMem(c *CPU, addr uint16) int {
	v := c.read(addr)
	carryIn := uint8(0)
	if c.flag(FlagCarry) {
		carryIn = 1
	}
	c.setFlag(FlagCarry, v&0x80 != 0)
	v = (v << 1) | carryIn
	c.write(addr, v)
	c.setZN(v)
	return 0
}

func opRORAcc(c *CPU, _ uint16) int {
	carryIn := uint8(0)
	if c.flag(FlagCarry) {
		carryIn = 0x80
	}
	c.setFlag(FlagCarry, c.A&0x01 != 0)
	c.A = (c.A >> 1) | carryIn
	c.setZN(c.A)
	return 0
}

func opRORMem(c *CPU, addr uint16) int {
	v := c.read(addr)
	carryIn := uint8(0)
	if c.flag(FlagCarry) {
		carryIn = 0x80
	}
	c.setFlag(FlagCarry, v&0x01 != 0)
	v = (v >> 1) | carryIn
	c.write(addr, v)
	c.setZN(v)
	return 0
}

func opINC(c *CPU, addr uint16) int {
	v := c.read(addr) + 1
	c.write(addr, v)
	c.setZN(v)
	return 0
}

func opDEC(c *CPU, addr uint16) int {
	v := c.read(addr) - 1
	c.write(addr, v)
	c.setZN(v)
	return 0
}

func opBRK(c *CPU, _ uint16) int {
	c.push16(c.PC + 1)
	c.push(c.Status | FlagBreak1 | FlagBreak2)
	c.setFlag(FlagInterruptDisable, true)
	c.PC = c.read16(vectorIRQ)
	return 0
}

// compareWith builds a CMP/CPX/CPY handler around whichever register
// the opcode variant compares.
func compareWith(reg func(c *CPU) uint8) func(c *CPU, addr uint16) int {
	return func(c *CPU, addr uint16) int {
		r := reg(c)
		v := c.read(addr)
		c.setFlag(FlagCarry, r >= v)
		c.setZN(r - v)
		return 0
	}
}

// branchIf builds a handler for a conditional branch, charging one
// extra cycle when taken and a second when the branch crosses a page.
func branchIf(cond func(c *CPU) bool) func(c *CPU, addr uint16) int {
	return func(c *CPU, addr uint16) int {
		if !cond(c) {
			return 0
		}
		from := c.PC
		extra := 1
		if pagesDiffer(from, addr) {
			extra++
		}
		c.PC = addr
		return extra
	}
}
