package cpu

// Instruction is one dispatch-table entry. Execute runs the instruction
// atomically against the bus; Cycles is the M-cycle length charged to the
// countdown afterward, or the not-taken length for conditional branches
// when CyclesBranch (the taken length) is nonzero and Execute reports true.
type Instruction struct {
	Name         string
	Cycles       uint8
	CyclesBranch uint8
	Execute      func(c *CPU) bool
}

var table [256]Instruction
var cbTable [256]Instruction

func (c *CPU) imm8() uint8 {
	v := c.mmu.Read(c.PC)
	c.PC++
	return v
}

func (c *CPU) imm16() uint16 {
	v := c.mmu.Read16(c.PC)
	c.PC += 2
	return v
}

func (c *CPU) readHL() uint8        { return c.mmu.Read(c.HL()) }
func (c *CPU) writeHL(v uint8)      { c.mmu.Write(c.HL(), v) }

func (c *CPU) push16(v uint16) {
	c.SP -= 2
	c.mmu.Write16(c.SP, v)
}

func (c *CPU) pop16() uint16 {
	v := c.mmu.Read16(c.SP)
	c.SP += 2
	return v
}

// readSrc/writeDst abstract the 3-bit B,C,D,E,H,L,(HL),A register
// encoding shared by LD r,r', the ALU-on-A block, and INC/DEC r.
func (c *CPU) readSrc(i uint8) uint8 {
	if i == 6 {
		return c.readHL()
	}
	return *c.regByIndex(i)
}

func (c *CPU) writeDst(i uint8, v uint8) {
	if i == 6 {
		c.writeHL(v)
		return
	}
	*c.regByIndex(i) = v
}

func noop(c *CPU) bool { return false }

func init() {
	buildLoadGrid()
	buildALUGrid()
	buildIncDecReg()
	buildPairArith()
	buildLoadImm8()
	buildALUImm8()
	buildStackOps()
	buildPairLoadImm16()
	buildIndirectAReg()
	buildBranches()
	buildMisc()
	buildIllegal()
	buildCBTable()
}

// buildLoadGrid fills 0x40-0x7F: LD r,r' for every (dst,src) pair, with
// 0x76 reserved for HALT.
func buildLoadGrid() {
	for dst := uint8(0); dst < 8; dst++ {
		for src := uint8(0); src < 8; src++ {
			if dst == 6 && src == 6 {
				continue // 0x76 is HALT, filled in buildMisc
			}
			opcode := 0x40 + dst*8 + src
			dst, src := dst, src
			cyc := uint8(1)
			if dst == 6 || src == 6 {
				cyc = 2
			}
			name := "LD " + regName8[dst] + ", " + regName8[src]
			table[opcode] = Instruction{name, cyc, 0, func(c *CPU) bool {
				c.writeDst(dst, c.readSrc(src))
				return false
			}}
		}
	}
}

// buildALUGrid fills 0x80-0xBF: ADD/ADC/SUB/SBC/AND/XOR/OR/CP A,r.
func buildALUGrid() {
	ops := []struct {
		name string
		fn   func(c *CPU, v uint8)
	}{
		{"ADD", func(c *CPU, v uint8) { c.A = c.add8(c.A, v, false) }},
		{"ADC", func(c *CPU, v uint8) { c.A = c.add8(c.A, v, true) }},
		{"SUB", func(c *CPU, v uint8) { c.A = c.sub8(c.A, v, false) }},
		{"SBC", func(c *CPU, v uint8) { c.A = c.sub8(c.A, v, true) }},
		{"AND", func(c *CPU, v uint8) { c.A = c.and8(c.A, v) }},
		{"XOR", func(c *CPU, v uint8) { c.A = c.xor8(c.A, v) }},
		{"OR", func(c *CPU, v uint8) { c.A = c.or8(c.A, v) }},
		{"CP", func(c *CPU, v uint8) { c.cp8(c.A, v) }},
	}
	for row, op := range ops {
		for src := uint8(0); src < 8; src++ {
			opcode := 0x80 + uint8(row)*8 + src
			src, fn := src, op.fn
			cyc := uint8(1)
			if src == 6 {
				cyc = 2
			}
			table[opcode] = Instruction{op.name + " A, " + regName8[src], cyc, 0, func(c *CPU) bool {
				fn(c, c.readSrc(src))
				return false
			}}
		}
	}
}

// buildIncDecReg fills INC r/DEC r at 0x04+8k/0x05+8k for k=0..7.
func buildIncDecReg() {
	for i := uint8(0); i < 8; i++ {
		i := i
		cyc := uint8(1)
		if i == 6 {
			cyc = 3
		}
		incOp := 0x04 + i*8
		decOp := 0x05 + i*8
		table[incOp] = Instruction{"INC " + regName8[i], cyc, 0, func(c *CPU) bool {
			c.writeDst(i, c.inc8(c.readSrc(i)))
			return false
		}}
		table[decOp] = Instruction{"DEC " + regName8[i], cyc, 0, func(c *CPU) bool {
			c.writeDst(i, c.dec8(c.readSrc(i)))
			return false
		}}
	}
}

var pairName = [4]string{"BC", "DE", "HL", "SP"}

// buildPairArith fills INC rr/DEC rr/ADD HL,rr at their 0x?3/0x?B/0x?9 slots.
func buildPairArith() {
	for i := uint8(0); i < 4; i++ {
		i := i
		table[0x03+i*0x10] = Instruction{"INC " + pairName[i], 2, 0, func(c *CPU) bool {
			c.pairWrite(i, c.pairRead(i)+1)
			return false
		}}
		table[0x0B+i*0x10] = Instruction{"DEC " + pairName[i], 2, 0, func(c *CPU) bool {
			c.pairWrite(i, c.pairRead(i)-1)
			return false
		}}
		table[0x09+i*0x10] = Instruction{"ADD HL, " + pairName[i], 2, 0, func(c *CPU) bool {
			c.addHL16(c.pairRead(i))
			return false
		}}
	}
}

// buildLoadImm8 fills LD r,d8 at 0x06+8k.
func buildLoadImm8() {
	for i := uint8(0); i < 8; i++ {
		i := i
		cyc := uint8(2)
		if i == 6 {
			cyc = 3
		}
		table[0x06+i*8] = Instruction{"LD " + regName8[i] + ", d8", cyc, 0, func(c *CPU) bool {
			v := c.imm8()
			c.writeDst(i, v)
			return false
		}}
	}
}

// buildALUImm8 fills ADD/ADC/SUB/SBC/AND/XOR/OR/CP A,d8 at 0xC6+8k.
func buildALUImm8() {
	ops := []struct {
		name string
		fn   func(c *CPU, v uint8)
	}{
		{"ADD", func(c *CPU, v uint8) { c.A = c.add8(c.A, v, false) }},
		{"ADC", func(c *CPU, v uint8) { c.A = c.add8(c.A, v, true) }},
		{"SUB", func(c *CPU, v uint8) { c.A = c.sub8(c.A, v, false) }},
		{"SBC", func(c *CPU, v uint8) { c.A = c.sub8(c.A, v, true) }},
		{"AND", func(c *CPU, v uint8) { c.A = c.and8(c.A, v) }},
		{"XOR", func(c *CPU, v uint8) { c.A = c.xor8(c.A, v) }},
		{"OR", func(c *CPU, v uint8) { c.A = c.or8(c.A, v) }},
		{"CP", func(c *CPU, v uint8) { c.cp8(c.A, v) }},
	}
	for row, op := range ops {
		opcode := 0xC6 + uint8(row)*8
		fn := op.fn
		table[opcode] = Instruction{op.name + " A, d8", 2, 0, func(c *CPU) bool {
			fn(c, c.imm8())
			return false
		}}
	}
}

// buildStackOps fills PUSH/POP at 0xC1/0xC5+0x10k (BC,DE,HL,AF).
func buildStackOps() {
	names := [4]string{"BC", "DE", "HL", "AF"}
	for i := uint8(0); i < 4; i++ {
		i := i
		table[0xC1+i*0x10] = Instruction{"POP " + names[i], 3, 0, func(c *CPU) bool {
			c.pushPopWrite(i, c.pop16())
			return false
		}}
		table[0xC5+i*0x10] = Instruction{"PUSH " + names[i], 4, 0, func(c *CPU) bool {
			c.push16(c.pushPopRead(i))
			return false
		}}
	}
}

// buildPairLoadImm16 fills LD rr,d16 at 0x01+0x10k.
func buildPairLoadImm16() {
	for i := uint8(0); i < 4; i++ {
		i := i
		table[0x01+i*0x10] = Instruction{"LD " + pairName[i] + ", d16", 3, 0, func(c *CPU) bool {
			c.pairWrite(i, c.imm16())
			return false
		}}
	}
}

// buildIndirectAReg fills LD (BC/DE),A / LD A,(BC/DE) and the HL+/HL-
// variants.
func buildIndirectAReg() {
	table[0x02] = Instruction{"LD (BC), A", 2, 0, func(c *CPU) bool { c.mmu.Write(c.BC(), c.A); return false }}
	table[0x12] = Instruction{"LD (DE), A", 2, 0, func(c *CPU) bool { c.mmu.Write(c.DE(), c.A); return false }}
	table[0x0A] = Instruction{"LD A, (BC)", 2, 0, func(c *CPU) bool { c.A = c.mmu.Read(c.BC()); return false }}
	table[0x1A] = Instruction{"LD A, (DE)", 2, 0, func(c *CPU) bool { c.A = c.mmu.Read(c.DE()); return false }}
	table[0x22] = Instruction{"LD (HL+), A", 2, 0, func(c *CPU) bool {
		c.writeHL(c.A)
		c.SetHL(c.HL() + 1)
		return false
	}}
	table[0x32] = Instruction{"LD (HL-), A", 2, 0, func(c *CPU) bool {
		c.writeHL(c.A)
		c.SetHL(c.HL() - 1)
		return false
	}}
	table[0x2A] = Instruction{"LD A, (HL+)", 2, 0, func(c *CPU) bool {
		c.A = c.readHL()
		c.SetHL(c.HL() + 1)
		return false
	}}
	table[0x3A] = Instruction{"LD A, (HL-)", 2, 0, func(c *CPU) bool {
		c.A = c.readHL()
		c.SetHL(c.HL() - 1)
		return false
	}}
}

// buildBranches fills the conditional RET/JP/CALL/JR families plus RST.
func buildBranches() {
	conds := []struct {
		name string
		test func(c *CPU) bool
	}{
		{"NZ", func(c *CPU) bool { return !c.Zero() }},
		{"Z", func(c *CPU) bool { return c.Zero() }},
		{"NC", func(c *CPU) bool { return !c.Carry() }},
		{"C", func(c *CPU) bool { return c.Carry() }},
	}
	for i, cond := range conds {
		i, test := uint8(i), cond.test
		table[0xC0+i*8] = Instruction{"RET " + cond.name, 2, 5, func(c *CPU) bool {
			if !test(c) {
				return false
			}
			c.PC = c.pop16()
			return true
		}}
		table[0xC2+i*8] = Instruction{"JP " + cond.name + ", a16", 3, 4, func(c *CPU) bool {
			addr := c.imm16()
			if !test(c) {
				return false
			}
			c.PC = addr
			return true
		}}
		table[0xC4+i*8] = Instruction{"CALL " + cond.name + ", a16", 3, 6, func(c *CPU) bool {
			addr := c.imm16()
			if !test(c) {
				return false
			}
			c.push16(c.PC)
			c.PC = addr
			return true
		}}
		table[0x20+i*8] = Instruction{"JR " + cond.name + ", r8", 2, 3, func(c *CPU) bool {
			off := int8(c.imm8())
			if !test(c) {
				return false
			}
			c.PC = uint16(int32(c.PC) + int32(off))
			return true
		}}
	}

	for n := uint8(0); n < 8; n++ {
		n := n
		vec := uint16(n) * 0x08
		table[0xC7+n*8] = Instruction{"RST", 4, 0, func(c *CPU) bool {
			c.push16(c.PC)
			c.PC = vec
			return false
		}}
	}
}

// buildMisc fills every opcode whose behavior doesn't fit a regular grid.
func buildMisc() {
	table[0x00] = Instruction{"NOP", 1, 0, noop}
	table[0x07] = Instruction{"RLCA", 1, 0, func(c *CPU) bool {
		c.A = c.rlc(c.A)
		c.setZ(false)
		return false
	}}
	table[0x0F] = Instruction{"RRCA", 1, 0, func(c *CPU) bool {
		c.A = c.rrc(c.A)
		c.setZ(false)
		return false
	}}
	table[0x17] = Instruction{"RLA", 1, 0, func(c *CPU) bool {
		c.A = c.rl(c.A)
		c.setZ(false)
		return false
	}}
	table[0x1F] = Instruction{"RRA", 1, 0, func(c *CPU) bool {
		c.A = c.rr(c.A)
		c.setZ(false)
		return false
	}}
	table[0x08] = Instruction{"LD (a16), SP", 5, 0, func(c *CPU) bool {
		addr := c.imm16()
		c.mmu.Write16(addr, c.SP)
		return false
	}}
	table[0x10] = Instruction{"STOP", 1, 0, func(c *CPU) bool {
		c.imm8() // STOP's second byte is always 0x00 and discarded
		c.stop()
		return false
	}}
	table[0x18] = Instruction{"JR r8", 3, 0, func(c *CPU) bool {
		off := int8(c.imm8())
		c.PC = uint16(int32(c.PC) + int32(off))
		return false
	}}
	table[0x27] = Instruction{"DAA", 1, 0, func(c *CPU) bool { c.daa(); return false }}
	table[0x2F] = Instruction{"CPL", 1, 0, func(c *CPU) bool {
		c.A = ^c.A
		c.setN(true)
		c.setH(true)
		return false
	}}
	table[0x37] = Instruction{"SCF", 1, 0, func(c *CPU) bool {
		c.setN(false)
		c.setH(false)
		c.setC(true)
		return false
	}}
	table[0x3F] = Instruction{"CCF", 1, 0, func(c *CPU) bool {
		c.setN(false)
		c.setH(false)
		c.setC(!c.Carry())
		return false
	}}
	table[0x76] = Instruction{"HALT", 1, 0, func(c *CPU) bool { c.halt(); return false }}
	table[0xC3] = Instruction{"JP a16", 4, 0, func(c *CPU) bool { c.PC = c.imm16(); return false }}
	table[0xC9] = Instruction{"RET", 4, 0, func(c *CPU) bool { c.PC = c.pop16(); return false }}
	table[0xCD] = Instruction{"CALL a16", 6, 0, func(c *CPU) bool {
		addr := c.imm16()
		c.push16(c.PC)
		c.PC = addr
		return false
	}}
	table[0xD9] = Instruction{"RETI", 4, 0, func(c *CPU) bool {
		c.PC = c.pop16()
		c.irq.IME = true
		return false
	}}
	table[0xE0] = Instruction{"LDH (a8), A", 3, 0, func(c *CPU) bool {
		addr := 0xFF00 + uint16(c.imm8())
		c.mmu.Write(addr, c.A)
		return false
	}}
	table[0xF0] = Instruction{"LDH A, (a8)", 3, 0, func(c *CPU) bool {
		addr := 0xFF00 + uint16(c.imm8())
		c.A = c.mmu.Read(addr)
		return false
	}}
	table[0xE2] = Instruction{"LD (C), A", 2, 0, func(c *CPU) bool {
		c.mmu.Write(0xFF00+uint16(c.C), c.A)
		return false
	}}
	table[0xF2] = Instruction{"LD A, (C)", 2, 0, func(c *CPU) bool {
		c.A = c.mmu.Read(0xFF00 + uint16(c.C))
		return false
	}}
	table[0xE8] = Instruction{"ADD SP, r8", 4, 0, func(c *CPU) bool {
		off := int8(c.imm8())
		c.SP = c.addSPRelative(off)
		return false
	}}
	table[0xE9] = Instruction{"JP HL", 1, 0, func(c *CPU) bool { c.PC = c.HL(); return false }}
	table[0xEA] = Instruction{"LD (a16), A", 4, 0, func(c *CPU) bool {
		c.mmu.Write(c.imm16(), c.A)
		return false
	}}
	table[0xFA] = Instruction{"LD A, (a16)", 4, 0, func(c *CPU) bool {
		c.A = c.mmu.Read(c.imm16())
		return false
	}}
	table[0xF3] = Instruction{"DI", 1, 0, func(c *CPU) bool {
		c.irq.IME = false
		c.irq.CancelEnable()
		return false
	}}
	table[0xFB] = Instruction{"EI", 1, 0, func(c *CPU) bool { c.irq.ScheduleEnable(); return false }}
	table[0xF8] = Instruction{"LD HL, SP+r8", 3, 0, func(c *CPU) bool {
		off := int8(c.imm8())
		c.SetHL(c.addSPRelative(off))
		return false
	}}
	table[0xF9] = Instruction{"LD SP, HL", 2, 0, func(c *CPU) bool { c.SP = c.HL(); return false }}
}

// buildIllegal marks the 11 undefined opcodes as 1-cycle no-ops, matching
// real hardware's observed behavior closely enough for spec.md's scope
// (it explicitly excludes modeling the CPU lockup these actually cause).
func buildIllegal() {
	for _, op := range []uint8{0xD3, 0xDB, 0xDD, 0xE3, 0xE4, 0xEB, 0xEC, 0xED, 0xF4, 0xFC, 0xFD} {
		table[op] = Instruction{"ILLEGAL", 1, 0, noop}
	}
}
