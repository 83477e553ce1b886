package cpu

import (
	"testing"

	"github.com/mkaminski/gbcore/internal/interrupts"
)

func TestReset_PostBootValues(t *testing.T) {
	c, _, _ := newTestCPU(t)
	if c.PC != 0x0100 || c.SP != 0xFFFE {
		t.Errorf("Reset: PC=%#04x SP=%#04x, want PC=0x0100 SP=0xFFFE", c.PC, c.SP)
	}
	if c.AF() != 0x01B0 {
		t.Errorf("Reset: AF=%#04x, want 0x01B0", c.AF())
	}
}

func TestEIDelay_IMEEnablesOneInstructionLater(t *testing.T) {
	c, bus, irq := newTestCPU(t)
	// The program lives in WRAM: writes to the ROM window are bank-select
	// commands, not stores.
	c.PC = 0xC000
	bus.Write(0xC000, 0xFB) // EI
	bus.Write(0xC001, 0x00) // NOP
	bus.Write(0xC002, 0x00) // NOP

	stepInstr(c) // executes EI
	if irq.IME {
		t.Fatalf("IME set immediately after EI, want delayed by one instruction")
	}

	stepInstr(c) // executes first NOP; EI's delay is still resolving
	if irq.IME {
		t.Fatalf("IME set before the instruction boundary after the first NOP")
	}

	stepInstr(c) // executes second NOP; delay resolves at this boundary
	if !irq.IME {
		t.Fatalf("IME still clear after the instruction following EI completed")
	}
}

func TestHaltBug_DuplicatesNextOpcode(t *testing.T) {
	c, bus, irq := newTestCPU(t)
	// A pending-but-masked interrupt (IME clear, IE&IF nonzero) is the
	// documented precondition for the halt bug.
	irq.IE = 1 << interrupts.Timer
	irq.IF = 1 << interrupts.Timer
	irq.IME = false

	c.PC = 0xC000
	c.B = 0
	bus.Write(0xC000, 0x76) // HALT
	bus.Write(0xC001, 0x04) // INC B

	stepInstr(c) // HALT latches the bug instead of actually halting
	if c.halted {
		t.Fatalf("CPU halted despite the halt-bug precondition")
	}
	if !c.haltBug {
		t.Fatalf("expected haltBug to be latched")
	}

	stepInstr(c) // first fetch after HALT: PC does not advance, executes INC B
	if c.B != 1 {
		t.Fatalf("B = %d after first post-HALT fetch, want 1", c.B)
	}
	if c.haltBug {
		t.Fatalf("haltBug should be consumed after one fetch")
	}

	stepInstr(c) // second fetch: PC now advances normally, but reads the
	// same byte again, duplicating INC B's effect
	if c.B != 2 {
		t.Fatalf("B = %d after the duplicated fetch, want 2 (halt bug)", c.B)
	}
}

func TestDispatchInterrupt_PriorityAndVector(t *testing.T) {
	c, bus, irq := newTestCPU(t)
	c.PC = 0x0150
	c.SP = 0xFFFE
	irq.IME = true
	irq.IE = 1<<interrupts.VBlank | 1<<interrupts.Timer
	irq.IF = 1<<interrupts.VBlank | 1<<interrupts.Timer

	stepInstr(c)

	if c.PC != interrupts.Vector(interrupts.VBlank) {
		t.Fatalf("PC = %#04x after dispatch, want VBlank vector %#04x", c.PC, interrupts.Vector(interrupts.VBlank))
	}
	if irq.IME {
		t.Fatalf("IME should be cleared on interrupt dispatch")
	}
	if irq.IF&(1<<interrupts.VBlank) != 0 {
		t.Fatalf("VBlank's IF bit should be cleared once dispatched")
	}
	if irq.IF&(1<<interrupts.Timer) == 0 {
		t.Fatalf("Timer's IF bit should remain pending, lower priority than VBlank")
	}

	lo := bus.Read(c.SP)
	hi := bus.Read(c.SP + 1)
	pushed := uint16(hi)<<8 | uint16(lo)
	if pushed != 0x0150 {
		t.Fatalf("pushed return address = %#04x, want 0x0150", pushed)
	}
}

func TestIllegalOpcode_IsInertOneCycleNOP(t *testing.T) {
	c, bus, _ := newTestCPU(t)
	c.PC = 0xC000
	bus.Write(0xC000, 0xD3) // illegal on real hardware
	before := c.Registers

	stepInstr(c)

	if c.PC != 0xC001 {
		t.Errorf("PC = %#04x after illegal opcode, want 0xC001 (treated as a 1-byte op)", c.PC)
	}
	if c.Registers != before {
		t.Errorf("illegal opcode mutated registers: got %+v, want %+v", c.Registers, before)
	}
}
