package timer

import (
	"testing"

	"github.com/mkaminski/gbcore/internal/interrupts"
)

func TestTimer_FallingEdgeIncrementsTIMA(t *testing.T) {
	irq := &interrupts.Controller{}
	c := NewController(irq)
	c.WriteTAC(0x05) // enabled, select bit 3 (tacShift[1]=3 -> every 16 sys ticks)

	for i := 0; i < 15; i++ {
		c.Tick()
	}
	if c.ReadTIMA() != 0 {
		t.Fatalf("TIMA = %d before the watched bit has fallen, want 0", c.ReadTIMA())
	}
	c.Tick() // the 16th tick brings the watched bit back down to 0
	if c.ReadTIMA() != 1 {
		t.Fatalf("TIMA = %d after one falling edge, want 1", c.ReadTIMA())
	}
}

func TestTimer_OverflowDelayedReload(t *testing.T) {
	irq := &interrupts.Controller{}
	c := NewController(irq)
	c.WriteTMA(0x12)
	c.WriteTAC(0x05) // enabled, divide-by-16

	c.WriteTIMA(0xFF)

	// Drive one falling edge: 16 sys ticks at this rate.
	for i := 0; i < 16; i++ {
		c.Tick()
	}
	if c.ReadTIMA() != 0x00 {
		t.Fatalf("TIMA = %#02x immediately after overflow, want 0x00 (reload not yet applied)", c.ReadTIMA())
	}
	if irq.IF&(1<<interrupts.Timer) != 0 {
		t.Fatalf("Timer interrupt requested before the one-cycle reload delay elapsed")
	}

	// The reload (TIMA<-TMA, interrupt requested) lands 4 more dots later
	// (one machine cycle).
	for i := 0; i < 4; i++ {
		c.Tick()
	}
	if c.ReadTIMA() != 0x12 {
		t.Fatalf("TIMA = %#02x after the reload delay, want TMA (0x12)", c.ReadTIMA())
	}
	if irq.IF&(1<<interrupts.Timer) == 0 {
		t.Fatalf("expected the Timer interrupt to be requested once the reload lands")
	}
}

func TestTimer_DisabledNeverIncrements(t *testing.T) {
	irq := &interrupts.Controller{}
	c := NewController(irq)
	c.WriteTAC(0x01) // selector set, but enable bit (0x04) clear
	for i := 0; i < 1000; i++ {
		c.Tick()
	}
	if c.ReadTIMA() != 0 {
		t.Fatalf("TIMA = %d with the timer disabled, want 0", c.ReadTIMA())
	}
}

func TestTimer_WriteDIVResetsAndCanTriggerEdge(t *testing.T) {
	irq := &interrupts.Controller{}
	c := NewController(irq)
	c.WriteTAC(0x04) // enabled, divide-by-1024 (bit 9)
	// Drive SYS high enough that bit 9 is set.
	for i := 0; i < 512; i++ {
		c.Tick()
	}
	before := c.ReadTIMA()
	c.WriteDIV() // clears SYS to 0, bit 9 falls if it was high
	if c.ReadDIV() != 0 {
		t.Fatalf("DIV = %#02x after WriteDIV, want 0", c.ReadDIV())
	}
	if c.ReadTIMA() != before+1 {
		t.Fatalf("TIMA = %d after a DIV reset that produced a falling edge, want %d", c.ReadTIMA(), before+1)
	}
}
