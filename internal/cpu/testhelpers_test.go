package cpu

import (
	"testing"

	"github.com/mkaminski/gbcore/internal/cartridge"
	"github.com/mkaminski/gbcore/internal/corelog"
	"github.com/mkaminski/gbcore/internal/interrupts"
	"github.com/mkaminski/gbcore/internal/joypad"
	"github.com/mkaminski/gbcore/internal/mmu"
	"github.com/mkaminski/gbcore/internal/timer"
)

// blankROM builds a minimal ROM-only 32 KiB image with a valid header, so
// cartridge.Load succeeds without pulling in any real game ROM.
func blankROM() []byte {
	rom := make([]byte, 0x8000)
	rom[0x147] = 0x00 // ROM only
	rom[0x148] = 0x00 // 2 banks (32 KiB)
	rom[0x149] = 0x00 // no external RAM
	return rom
}

// newTestCPU wires a CPU to a real MMU/Cartridge/Timer/Joypad stack, the
// same dependency shape internal/gameboy assembles, so opcode execution
// exercises real bus routing rather than a fake.
func newTestCPU(t *testing.T) (*CPU, *mmu.MMU, *interrupts.Controller) {
	t.Helper()

	cart, err := cartridge.Load(blankROM())
	if err != nil {
		t.Fatalf("cartridge.Load: %v", err)
	}

	irq := &interrupts.Controller{}
	tmr := timer.NewController(irq)
	pad := joypad.New()
	bus := mmu.New(cart, irq, tmr, pad, corelog.NewNull())

	c := New(bus, irq)
	return c, bus, irq
}

// stepInstr runs the CPU through exactly one full instruction: the fetch
// and its bus side effects happen on the first Step call, and the
// remaining calls merely drain the declared cycle count, landing the CPU
// exactly on the next instruction boundary.
func stepInstr(c *CPU) {
	c.Step()
	for c.cyclesRemaining > 0 {
		c.Step()
	}
}
