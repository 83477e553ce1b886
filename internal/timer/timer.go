// Package timer implements the DIV/TIMA/TMA/TAC subsystem. DIV is a window
// onto a 14-bit internal counter (SYS); TIMA increments on the falling
// edge of one of SYS's bits, selected by TAC, and its overflow->TMA reload
// is delayed by exactly one machine-cycle, matching real hardware.
package timer

import (
	"github.com/mkaminski/gbcore/internal/interrupts"
)

// tacShift maps TAC bits 1..0 to the SYS bit TIMA's edge detector watches.
var tacShift = [4]uint8{9, 3, 5, 7}

// Controller owns SYS and the TIMA/TMA/TAC register trio.
type Controller struct {
	sys uint16 // 14 bits significant

	tima uint8
	tma  uint8
	tac  uint8

	prevMux bool // previous level of the (sys>>shift)&1 & TAC.enabled mux

	// overflowDelay counts the one machine-cycle of delay between TIMA
	// wrapping 0xFF->0x00 and the TMA reload + interrupt actually
	// happening. -1 means no overflow pending. Measured in system ticks
	// (4 per machine-cycle) so it lines up with Tick being called once
	// per dot.
	overflowDelay int8

	irq *interrupts.Controller
}

// NewController returns a Controller wired to the shared interrupt
// controller.
func NewController(irq *interrupts.Controller) *Controller {
	return &Controller{irq: irq, overflowDelay: -1}
}

func (c *Controller) mux() bool {
	bit := (c.sys >> tacShift[c.tac&0x03]) & 1
	return bit != 0 && c.tac&0x04 != 0
}

// edgeCheck samples the current mux level against the previous one and
// increments TIMA on a 1->0 transition.
func (c *Controller) edgeCheck() {
	cur := c.mux()
	if c.prevMux && !cur {
		c.incrementTIMA()
	}
	c.prevMux = cur
}

func (c *Controller) incrementTIMA() {
	c.tima++
	if c.tima == 0 {
		c.overflowDelay = 4 // one machine-cycle, counted in dots
	}
}

// Tick advances the timer by exactly one system tick (one dot). It must be
// called once per dot by the driver, in the same order every dot: after
// the CPU/PPU/DMA steps for that dot have been applied.
func (c *Controller) Tick() {
	if c.overflowDelay >= 0 {
		c.overflowDelay--
		if c.overflowDelay == 0 {
			c.tima = c.tma
			c.irq.Request(interrupts.Timer)
			c.overflowDelay = -1
		}
	}

	c.sys = (c.sys + 1) & 0x3FFF
	c.edgeCheck()
}

// ReadDIV returns the upper 8 bits of SYS.
func (c *Controller) ReadDIV() uint8 {
	return uint8(c.sys >> 6)
}

// WriteDIV clears SYS to zero and re-runs the falling-edge check, which
// may itself trigger a TIMA increment if the bit being watched was high.
func (c *Controller) WriteDIV() {
	c.sys = 0
	c.edgeCheck()
}

// ReadTIMA returns TIMA directly.
func (c *Controller) ReadTIMA() uint8 { return c.tima }

// WriteTIMA stores v. If an overflow reload is waiting in its one-cycle
// delay window, that reload and its interrupt are cancelled, so the
// written value stands.
func (c *Controller) WriteTIMA(v uint8) {
	c.tima = v
	c.overflowDelay = -1
}

// ReadTMA returns TMA directly.
func (c *Controller) ReadTMA() uint8 { return c.tma }

// WriteTMA stores v.
func (c *Controller) WriteTMA(v uint8) { c.tma = v }

// ReadTAC returns TAC with its unused upper five bits reading as 1.
func (c *Controller) ReadTAC() uint8 { return c.tac | 0xF8 }

// WriteTAC stores v and re-runs the falling-edge check, since changing the
// selector or enable bit can itself produce a 1->0 transition.
func (c *Controller) WriteTAC(v uint8) {
	c.tac = v & 0x07
	c.edgeCheck()
}
