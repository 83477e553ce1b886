// Package interrupts owns the IF/IE register pair and the IME flip-flop
// shared between the CPU and every component that can request service
// (timer, PPU, joypad, serial). Requests flow through this shared byte
// rather than direct calls, which is what breaks the CPU<->PPU<->Timer
// dependency cycle (see the driver in internal/gameboy).
package interrupts

import "github.com/mkaminski/gbcore/internal/types"

// Source identifies one of the five interrupt lines, numbered by its bit
// position in IF/IE (and therefore its priority: lowest bit serviced
// first).
type Source = uint8

const (
	VBlank Source = types.IntVBlank
	LCD    Source = types.IntLCDStat
	Timer  Source = types.IntTimer
	Serial Source = types.IntSerial
	Joypad Source = types.IntJoypad
)

// vectors maps a Source to its fixed jump vector, indexed by bit/priority.
var vectors = [5]uint16{types.VecVBlank, types.VecLCDStat, types.VecTimer, types.VecSerial, types.VecJoypad}

// Vector returns the jump target for the given interrupt source.
func Vector(src Source) uint16 {
	return vectors[src]
}

// Controller holds the IF (request) and IE (enable) registers plus the
// CPU's master-enable flip-flop. IME lives here, not on the CPU, since the
// timer/PPU/joypad never need to reach into the CPU to request service —
// they only ever touch IF.
type Controller struct {
	IF uint8
	IE uint8

	IME bool

	// EnableDelay counts down the one-instruction delay that EI imposes
	// before IME actually becomes true. 0 means no pending enable.
	EnableDelay uint8
}

// Request raises the IF bit for the given source.
func (c *Controller) Request(src Source) {
	c.IF |= 1 << src
}

// Clear lowers the IF bit for the given source, done once an interrupt has
// been dispatched.
func (c *Controller) Clear(src Source) {
	c.IF &^= 1 << src
}

// Pending returns the bitmask of requested-and-enabled interrupts,
// priority-ordered from bit 0 up.
func (c *Controller) Pending() uint8 {
	return c.IF & c.IE & 0x1F
}

// ReadIF returns the IF register as observed by a bus read: the top three
// bits always read back as 1.
func (c *Controller) ReadIF() uint8 {
	return c.IF&0x1F | 0xE0
}

// WriteIF stores the low 5 bits of a write to 0xFF0F.
func (c *Controller) WriteIF(v uint8) {
	c.IF = v & 0x1F
}

// ScheduleEnable arms the EI delay: IME becomes true after the
// instruction following EI completes.
func (c *Controller) ScheduleEnable() {
	c.EnableDelay = 2
}

// CancelEnable cancels a pending EI, as DI does.
func (c *Controller) CancelEnable() {
	c.EnableDelay = 0
}

// Tick advances the EI delay by one instruction boundary, enabling IME
// once the delay reaches zero. Called once per completed instruction.
func (c *Controller) Tick() {
	if c.EnableDelay == 0 {
		return
	}
	c.EnableDelay--
	if c.EnableDelay == 0 {
		c.IME = true
	}
}
