package cpu

import "github.com/mkaminski/gbcore/pkg/bits"

// flag bit positions within F, matching spec.md §4.3.
const (
	FlagZ uint8 = 7
	FlagN uint8 = 6
	FlagH uint8 = 5
	FlagC uint8 = 4
)

// Registers holds the SM83 register file. F's low nibble is always zero;
// every write path masks it so reads never observe garbage there.
type Registers struct {
	A, F, B, C, D, E, H, L uint8
}

func (r *Registers) BC() uint16 { return uint16(r.B)<<8 | uint16(r.C) }
func (r *Registers) DE() uint16 { return uint16(r.D)<<8 | uint16(r.E) }
func (r *Registers) HL() uint16 { return uint16(r.H)<<8 | uint16(r.L) }
func (r *Registers) AF() uint16 { return uint16(r.A)<<8 | uint16(r.F) }

func (r *Registers) SetBC(v uint16) { r.B, r.C = uint8(v>>8), uint8(v) }
func (r *Registers) SetDE(v uint16) { r.D, r.E = uint8(v>>8), uint8(v) }
func (r *Registers) SetHL(v uint16) { r.H, r.L = uint8(v>>8), uint8(v) }
func (r *Registers) SetAF(v uint16) { r.A, r.F = uint8(v>>8), uint8(v)&0xF0 }

func (r *Registers) getFlag(f uint8) bool  { return bits.Test(r.F, f) }
func (r *Registers) setFlag(f uint8, v bool) {
	if v {
		r.F = bits.Set(r.F, f)
	} else {
		r.F = bits.Reset(r.F, f)
	}
	r.F &= 0xF0
}

func (r *Registers) Zero() bool      { return r.getFlag(FlagZ) }
func (r *Registers) Subtract() bool  { return r.getFlag(FlagN) }
func (r *Registers) HalfCarry() bool { return r.getFlag(FlagH) }
func (r *Registers) Carry() bool     { return r.getFlag(FlagC) }

func (r *Registers) setZ(v bool) { r.setFlag(FlagZ, v) }
func (r *Registers) setN(v bool) { r.setFlag(FlagN, v) }
func (r *Registers) setH(v bool) { r.setFlag(FlagH, v) }
func (r *Registers) setC(v bool) { r.setFlag(FlagC, v) }

// regByIndex maps the 3-bit register encoding used throughout the opcode
// table (B,C,D,E,H,L,(HL),A) to a register pointer; index 6 is handled by
// the caller since it addresses memory rather than a register.
func (c *CPU) regByIndex(i uint8) *uint8 {
	switch i {
	case 0:
		return &c.B
	case 1:
		return &c.C
	case 2:
		return &c.D
	case 3:
		return &c.E
	case 4:
		return &c.H
	case 5:
		return &c.L
	case 7:
		return &c.A
	}
	return nil
}

var regName8 = [8]string{"B", "C", "D", "E", "H", "L", "(HL)", "A"}

// pairRead/pairWrite map the 2-bit register-pair encoding (BC,DE,HL,SP) used by
// 16-bit load/arithmetic opcodes.
func (c *CPU) pairRead(i uint8) uint16 {
	switch i {
	case 0:
		return c.BC()
	case 1:
		return c.DE()
	case 2:
		return c.HL()
	case 3:
		return c.SP
	}
	panic("cpu: bad register pair index")
}

func (c *CPU) pairWrite(i uint8, v uint16) {
	switch i {
	case 0:
		c.SetBC(v)
	case 1:
		c.SetDE(v)
	case 2:
		c.SetHL(v)
	case 3:
		c.SP = v
	}
}

// pushPopRead/pushPopWrite map the 2-bit encoding used by PUSH/POP (AF instead
// of SP in slot 3).
func (c *CPU) pushPopRead(i uint8) uint16 {
	if i == 3 {
		return c.AF()
	}
	return c.pairRead(i)
}

func (c *CPU) pushPopWrite(i uint8, v uint16) {
	if i == 3 {
		c.SetAF(v)
		return
	}
	c.pairWrite(i, v)
}
