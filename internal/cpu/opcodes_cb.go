package cpu

// buildCBTable fills the 256-entry CB-prefixed table: rotate/shift/swap
// ops at 0x00-0x3F, then BIT/RES/SET over the 8 bit indices at
// 0x40-0x7F/0x80-0xBF/0xC0-0xFF, each varying over the same 8-register
// encoding the unprefixed table uses.
func buildCBTable() {
	shiftOps := []struct {
		name string
		fn   func(c *CPU, v uint8) uint8
	}{
		{"RLC", (*CPU).rlc},
		{"RRC", (*CPU).rrc},
		{"RL", (*CPU).rl},
		{"RR", (*CPU).rr},
		{"SLA", (*CPU).sla},
		{"SRA", (*CPU).sra},
		{"SWAP", (*CPU).swap},
		{"SRL", (*CPU).srl},
	}
	for row, op := range shiftOps {
		for r := uint8(0); r < 8; r++ {
			opcode := uint8(row)*8 + r
			r, fn := r, op.fn
			cyc := uint8(2)
			if r == 6 {
				cyc = 4
			}
			cbTable[opcode] = Instruction{op.name + " " + regName8[r], cyc, 0, func(c *CPU) bool {
				c.writeDst(r, fn(c, c.readSrc(r)))
				return false
			}}
		}
	}

	for n := uint8(0); n < 8; n++ {
		for r := uint8(0); r < 8; r++ {
			n, r := n, r

			bitOp := 0x40 + n*8 + r
			bitCyc := uint8(2)
			if r == 6 {
				bitCyc = 3
			}
			cbTable[bitOp] = Instruction{"BIT n, " + regName8[r], bitCyc, 0, func(c *CPU) bool {
				c.bit(n, c.readSrc(r))
				return false
			}}

			resOp := 0x80 + n*8 + r
			resCyc := uint8(2)
			if r == 6 {
				resCyc = 4
			}
			cbTable[resOp] = Instruction{"RES n, " + regName8[r], resCyc, 0, func(c *CPU) bool {
				c.writeDst(r, res(n, c.readSrc(r)))
				return false
			}}

			setOp := 0xC0 + n*8 + r
			setCyc := uint8(2)
			if r == 6 {
				setCyc = 4
			}
			cbTable[setOp] = Instruction{"SET n, " + regName8[r], setCyc, 0, func(c *CPU) bool {
				c.writeDst(r, set(n, c.readSrc(r)))
				return false
			}}
		}
	}
}
