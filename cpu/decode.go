package cpu

// getR8/setR8 index the eight SM83 operand slots in encoding order
// B,C,D,E,H,L,(HL),A. Index 6, (HL), goes through the bus instead of a
// register field.
func (c *CPU) getR8(i uint8) uint8 {
	switch i {
	case 0:
		return c.Reg.B
	case 1:
		return c.Reg.C
	case 2:
		return c.Reg.D
	case 3:
		return c.Reg.E
	case 4:
		return c.Reg.H
	case 5:
		return c.Reg.L
	case 6:
		return c.bus.ReadByte(c.Reg.HL())
	default:
		return c.Reg.A
	}
}

func (c *CPU) setR8(i uint8, v uint8) {
	switch i {
	case 0:
		c.Reg.B = v
	case 1:
		c.Reg.C = v
	case 2:
		c.Reg.D = v
	case 3:
		c.Reg.E = v
	case 4:
		c.Reg.H = v
	case 5:
		c.Reg.L = v
	case 6:
		c.bus.WriteByte(c.Reg.HL(), v)
	default:
		c.Reg.A = v
	}
}

// getRP/setRP index the 16-bit pairs BC,DE,HL,SP used by LD rp,d16,
// INC/DEC rp and ADD HL,rp.
func (c *CPU) getRP(i uint8) uint16 {
	switch i {
	case 0:
		return c.Reg.BC()
	case 1:
		return c.Reg.DE()
	case 2:
		return c.Reg.HL()
	default:
		return c.Reg.SP
	}
}

func (c *CPU) setRP(i uint8, v uint16) {
	switch i {
	case 0:
		c.Reg.SetBC(v)
	case 1:
		c.Reg.SetDE(v)
	case 2:
		c.Reg.SetHL(v)
	default:
		c.Reg.SP = v
	}
}

// getRP2/setRP2 index BC,DE,HL,AF, used by PUSH/POP.
func (c *CPU) getRP2(i uint8) uint16 {
	if i == 3 {
		return c.Reg.AF()
	}
	return c.getRP(i)
}

func (c *CPU) setRP2(i uint8, v uint16) {
	if i == 3 {
		c.Reg.SetAF(v)
		return
	}
	c.setRP(i, v)
}

// cond evaluates one of the four branch conditions NZ,Z,NC,C.
func (c *CPU) cond(i uint8) bool {
	switch i {
	case 0:
		return !c.Reg.Flag(FlagZ)
	case 1:
		return c.Reg.Flag(FlagZ)
	case 2:
		return !c.Reg.Flag(FlagC)
	default:
		return c.Reg.Flag(FlagC)
	}
}

// execute decodes and runs one unprefixed opcode, returning its T-cycle
// cost. Decoding follows the standard SM83 bitfield layout: x = bits 7-6,
// y = bits 5-3, z = bits 2-0, p = y>>1, q = y&1.
func (c *CPU) execute(opcode uint8) int {
	x := opcode >> 6
	y := (opcode >> 3) & 7
	z := opcode & 7
	p := y >> 1
	q := y & 1

	switch x {
	case 0:
		return c.executeX0(opcode, y, z, p, q)
	case 1:
		if z == 6 && y == 6 {
			if !c.ime && c.bus.PendingInterrupts() != 0 {
				c.haltBug = true
			} else {
				c.halted = true
			}
			return 4
		}
		v := c.getR8(z)
		c.setR8(y, v)
		return r8Cycles(y, z)
	case 2:
		c.executeALU(y, c.getR8(z))
		if z == 6 {
			return 8
		}
		return 4
	default:
		return c.executeX3(opcode, y, z, p, q)
	}
}

func (c *CPU) executeX0(opcode uint8, y, z, p, q uint8) int {
	switch z {
	case 0:
		switch y {
		case 0:
			return 4 // NOP
		case 1:
			addr16 := c.fetch16()
			c.bus.WriteWord(addr16, c.Reg.SP)
			return 20
		case 2:
			// STOP's second byte is never consumed: PC only advances past
			// the opcode itself, not this trailing byte.
			return 4
		case 3:
			return c.jr(true)
		default:
			return c.jr(c.cond(y - 4))
		}
	case 1:
		if q == 0 {
			c.setRP(p, c.fetch16())
			return 12
		}
		c.addHL(c.getRP(p))
		return 8
	case 2:
		return c.executeIndirectLD(p, q)
	case 3:
		v := c.getRP(p)
		if q == 0 {
			c.setRP(p, v+1)
		} else {
			c.setRP(p, v-1)
		}
		return 8
	case 4:
		c.setR8(y, c.inc8(c.getR8(y)))
		return r8CyclesUnary(y)
	case 5:
		c.setR8(y, c.dec8(c.getR8(y)))
		return r8CyclesUnary(y)
	case 6:
		c.setR8(y, c.fetch8())
		if y == 6 {
			return 12
		}
		return 8
	default: // z == 7
		return c.executeAccumOp(y)
	}
}

func (c *CPU) executeIndirectLD(p, q uint8) int {
	hl := c.Reg.HL()
	switch {
	case q == 0 && p == 0:
		c.bus.WriteByte(c.Reg.BC(), c.Reg.A)
	case q == 0 && p == 1:
		c.bus.WriteByte(c.Reg.DE(), c.Reg.A)
	case q == 0 && p == 2:
		c.bus.WriteByte(hl, c.Reg.A)
		c.Reg.SetHL(hl + 1)
	case q == 0:
		c.bus.WriteByte(hl, c.Reg.A)
		c.Reg.SetHL(hl - 1)
	case p == 0:
		c.Reg.A = c.bus.ReadByte(c.Reg.BC())
	case p == 1:
		c.Reg.A = c.bus.ReadByte(c.Reg.DE())
	case p == 2:
		c.Reg.A = c.bus.ReadByte(hl)
		c.Reg.SetHL(hl + 1)
	default:
		c.Reg.A = c.bus.ReadByte(hl)
		c.Reg.SetHL(hl - 1)
	}
	return 8
}

func (c *CPU) executeAccumOp(y uint8) int {
	switch y {
	case 0:
		c.Reg.A = c.rlc(c.Reg.A, true)
	case 1:
		c.Reg.A = c.rrc(c.Reg.A, true)
	case 2:
		c.Reg.A = c.rl(c.Reg.A, true)
	case 3:
		c.Reg.A = c.rr(c.Reg.A, true)
	case 4:
		c.daa()
	case 5:
		c.cpl()
	case 6:
		c.scf()
	default:
		c.ccf()
	}
	return 4
}

func (c *CPU) jr(take bool) int {
	offset := int8(c.fetch8())
	if !take {
		return 8
	}
	c.Reg.PC = uint16(int32(c.Reg.PC) + int32(offset))
	return 12
}

func (c *CPU) executeALU(op uint8, operand uint8) int {
	switch op {
	case 0:
		c.Reg.A = c.add8(c.Reg.A, operand, false)
	case 1:
		c.Reg.A = c.add8(c.Reg.A, operand, c.Reg.Flag(FlagC))
	case 2:
		c.Reg.A = c.sub8(c.Reg.A, operand, false)
	case 3:
		c.Reg.A = c.sub8(c.Reg.A, operand, c.Reg.Flag(FlagC))
	case 4:
		c.Reg.A = c.and8(c.Reg.A, operand)
	case 5:
		c.Reg.A = c.xor8(c.Reg.A, operand)
	case 6:
		c.Reg.A = c.or8(c.Reg.A, operand)
	default:
		c.cp8(c.Reg.A, operand)
	}
	return 0
}

func r8Cycles(y, z uint8) int {
	if y == 6 || z == 6 {
		return 8
	}
	return 4
}

func r8CyclesUnary(i uint8) int {
	if i == 6 {
		return 12
	}
	return 4
}

func (c *CPU) executeX3(opcode, y, z, p, q uint8) int {
	switch z {
	case 0:
		switch {
		case y <= 3:
			return c.ret(c.cond(y), true)
		case y == 4:
			c.bus.WriteByte(0xFF00+uint16(c.fetch8()), c.Reg.A)
			return 12
		case y == 5:
			c.Reg.SP = c.addSPSigned(int8(c.fetch8()))
			return 16
		case y == 6:
			c.Reg.A = c.bus.ReadByte(0xFF00 + uint16(c.fetch8()))
			return 12
		default:
			c.Reg.SetHL(c.addSPSigned(int8(c.fetch8())))
			return 12
		}
	case 1:
		if q == 0 {
			c.setRP2(p, c.pop16())
			return 12
		}
		switch p {
		case 0:
			return c.ret(true, false)
		case 1:
			c.ime = true
			return c.ret(true, false)
		case 2:
			c.Reg.PC = c.Reg.HL()
			return 4
		default:
			c.Reg.SP = c.Reg.HL()
			return 8
		}
	case 2:
		switch {
		case y <= 3:
			return c.jp(c.cond(y), c.fetch16())
		case y == 4:
			c.bus.WriteByte(0xFF00+uint16(c.Reg.C), c.Reg.A)
			return 8
		case y == 5:
			c.bus.WriteByte(c.fetch16(), c.Reg.A)
			return 16
		case y == 6:
			c.Reg.A = c.bus.ReadByte(0xFF00 + uint16(c.Reg.C))
			return 8
		default:
			c.Reg.A = c.bus.ReadByte(c.fetch16())
			return 16
		}
	case 3:
		switch y {
		case 0:
			return c.jp(true, c.fetch16())
		case 1:
			return c.executeCB(c.fetch8())
		case 6:
			c.ime = false
			c.imePending = false
			return 4
		case 7:
			c.imePending = true
			return 4
		default:
			panic(illegalOpcodeMessage(opcode))
		}
	case 4:
		target := c.fetch16()
		if y <= 3 {
			return c.call(c.cond(y), target)
		}
		panic(illegalOpcodeMessage(opcode))
	case 5:
		if q == 0 {
			c.push16(c.getRP2(p))
			return 16
		}
		if p == 0 {
			return c.call(true, c.fetch16())
		}
		panic(illegalOpcodeMessage(opcode))
	case 6:
		c.executeALU(y, c.fetch8())
		return 8
	default: // z == 7
		c.push16(c.Reg.PC)
		c.Reg.PC = uint16(y) * 8
		return 16
	}
}

func (c *CPU) jp(take bool, target uint16) int {
	if !take {
		return 12
	}
	c.Reg.PC = target
	return 16
}

func (c *CPU) call(take bool, target uint16) int {
	if !take {
		return 12
	}
	c.push16(c.Reg.PC)
	c.Reg.PC = target
	return 24
}

func (c *CPU) ret(take, conditional bool) int {
	if !take {
		return 8
	}
	c.Reg.PC = c.pop16()
	if conditional {
		return 20
	}
	return 16
}

func illegalOpcodeMessage(opcode uint8) string {
	return "cpu: illegal opcode 0x" + hex2(opcode)
}

func hex2(v uint8) string {
	const digits = "0123456789ABCDEF"
	return string([]byte{digits[v>>4], digits[v&0xF]})
}

// executeCB decodes and runs one CB-prefixed opcode: x selects the
// operation family (rotate/shift, BIT, RES, SET), y is either a rotate
// selector or a bit index, z selects the r8 operand.
func (c *CPU) executeCB(opcode uint8) int {
	x := opcode >> 6
	y := (opcode >> 3) & 7
	z := opcode & 7

	v := c.getR8(z)
	cycles := 8
	if z == 6 {
		cycles = 16
	}

	switch x {
	case 0:
		c.setR8(z, c.rotateShift(y, v))
	case 1:
		c.bit(y, v)
		if z == 6 {
			cycles = 12
		}
	case 2:
		c.setR8(z, v&^(1<<y))
	default:
		c.setR8(z, v|(1<<y))
	}

	return cycles
}

func (c *CPU) rotateShift(op uint8, v uint8) uint8 {
	switch op {
	case 0:
		return c.rlc(v, false)
	case 1:
		return c.rrc(v, false)
	case 2:
		return c.rl(v, false)
	case 3:
		return c.rr(v, false)
	case 4:
		return c.sla(v)
	case 5:
		return c.sra(v)
	case 6:
		return c.swap(v)
	default:
		return c.srl(v)
	}
}
