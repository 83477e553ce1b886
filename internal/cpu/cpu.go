// Package cpu implements the SM83 instruction set. Unlike a literal
// per-T-cycle pipeline, each opcode executes atomically against the bus on
// the M-cycle its fetch lands on, then the CPU spends the instruction's
// remaining declared M-cycles idle before fetching the next opcode. Every
// instruction boundary — and therefore every externally observable memory
// access ordering — still lands on the correct M-cycle; only the internal
// sub-steps of a single instruction are collapsed. See DESIGN.md.
package cpu

import (
	"github.com/mkaminski/gbcore/internal/interrupts"
	"github.com/mkaminski/gbcore/internal/mmu"
)

// CPU holds the register file plus the bookkeeping the countdown execution
// model needs: cycles remaining on the in-flight instruction, and the
// halt/stop/halt-bug latches spec.md §4.2 calls out as edge cases.
type CPU struct {
	Registers
	PC, SP uint16

	mmu *mmu.MMU
	irq *interrupts.Controller

	cyclesRemaining int

	halted   bool
	stopped  bool
	haltBug  bool
	doubleSpeed bool
}

// New constructs a CPU wired to the given bus and interrupt controller,
// with registers set to their documented post-boot-ROM values (spec.md
// explicitly excludes the boot ROM binary itself from scope).
func New(bus *mmu.MMU, irq *interrupts.Controller) *CPU {
	c := &CPU{mmu: bus, irq: irq}
	c.Reset()
	return c
}

// Reset assigns the well-known post-boot-ROM register state.
func (c *CPU) Reset() {
	c.A, c.F = 0x01, 0xB0
	c.SetBC(0x0013)
	c.SetDE(0x00D8)
	c.SetHL(0x014D)
	c.SP = 0xFFFE
	c.PC = 0x0100
	c.cyclesRemaining = 0
	c.halted = false
	c.stopped = false
	c.haltBug = false
	c.doubleSpeed = false
}

func (c *CPU) DoubleSpeed() bool { return c.doubleSpeed }

// SetDoubleSpeed sets the double-speed flag directly. A KEY1 speed switch
// committed by stop() updates the flag without this call.
func (c *CPU) SetDoubleSpeed(v bool) { c.doubleSpeed = v }

// Stopped reports whether the CPU is in STOP mode, awaiting a joypad edge.
func (c *CPU) Stopped() bool { return c.stopped }

// Resume clears STOP mode (the driver calls this on a joypad transition).
func (c *CPU) Resume() { c.stopped = false }

// Step advances the CPU by exactly one M-cycle. The driver calls this once
// per M-cycle boundary (every 4 dots at normal speed, every 2 in CGB
// double-speed mode).
func (c *CPU) Step() {
	if c.stopped {
		return
	}

	if c.cyclesRemaining > 0 {
		c.cyclesRemaining--
		return
	}

	// An instruction boundary has just been crossed: this is the point
	// at which EI's one-instruction delay advances and resolves.
	c.irq.Tick()

	if c.halted {
		if c.irq.Pending() != 0 {
			c.halted = false
		} else {
			return
		}
	}

	if c.irq.IME && c.irq.Pending() != 0 {
		c.dispatchInterrupt()
		return
	}

	c.fetchAndExecute()
}

// fetchAndExecute reads one opcode, executes it atomically, and arms the
// cycle countdown from its declared M-cycle length.
func (c *CPU) fetchAndExecute() {
	opcode := c.mmu.Read(c.PC)

	if c.haltBug {
		// the halt bug re-reads the same opcode without advancing PC
		c.haltBug = false
	} else {
		c.PC++
	}

	var instr Instruction
	if opcode == 0xCB {
		cbOpcode := c.mmu.Read(c.PC)
		c.PC++
		instr = cbTable[cbOpcode]
	} else {
		instr = table[opcode]
	}

	taken := instr.Execute(c)
	cycles := instr.Cycles
	if taken && instr.CyclesBranch != 0 {
		cycles = instr.CyclesBranch
	}
	if cycles > 0 {
		c.cyclesRemaining = int(cycles) - 1
	}
}

// dispatchInterrupt runs the 5 M-cycle interrupt-acknowledge sequence:
// two internal cycles, a two-cycle PUSH of PC, then the jump to the
// vector. IME is cleared before the vector is chosen so a handler can
// immediately re-enable interrupts without re-triggering itself.
func (c *CPU) dispatchInterrupt() {
	c.irq.IME = false
	c.irq.CancelEnable()

	pending := c.irq.Pending()
	src := lowestSetBit(pending)
	c.irq.Clear(src)

	c.SP--
	c.mmu.Write(c.SP, uint8(c.PC>>8))
	c.SP--
	c.mmu.Write(c.SP, uint8(c.PC))

	c.PC = interrupts.Vector(src)
	c.cyclesRemaining = 5 - 1
}

func lowestSetBit(v uint8) uint8 {
	for i := uint8(0); i < 8; i++ {
		if v&(1<<i) != 0 {
			return i
		}
	}
	return 0
}

// halt enters HALT mode. If IME is clear and an interrupt is already
// pending, the halt bug latches instead: the next opcode fetch does not
// advance PC, duplicating the following instruction's first byte.
func (c *CPU) halt() {
	if !c.irq.IME && c.irq.Pending() != 0 {
		c.haltBug = true
		return
	}
	c.halted = true
}

// stop enters STOP mode, unless a KEY1 speed switch is armed, in which
// case STOP instead commits the switch and the CPU keeps running. A
// genuine DMG/CGB also resets DIV on STOP, but that detail is driven by
// the gameboy package so the CPU need not depend on timer.
func (c *CPU) stop() {
	if c.mmu.PrepareSpeedSwitch() {
		c.mmu.DoSpeedSwitch()
		c.doubleSpeed = c.mmu.DoubleSpeed()
		return
	}
	c.stopped = true
}
