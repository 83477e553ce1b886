package mmu

import (
	"testing"

	"github.com/mkaminski/gbcore/internal/cartridge"
	"github.com/mkaminski/gbcore/internal/corelog"
	"github.com/mkaminski/gbcore/internal/interrupts"
	"github.com/mkaminski/gbcore/internal/joypad"
	"github.com/mkaminski/gbcore/internal/timer"
)

func blankROM() []byte {
	rom := make([]byte, 0x8000)
	rom[0x147] = 0x00
	rom[0x148] = 0x00
	rom[0x149] = 0x00
	return rom
}

func newTestMMU(t *testing.T) *MMU {
	t.Helper()
	cart, err := cartridge.Load(blankROM())
	if err != nil {
		t.Fatalf("cartridge.Load: %v", err)
	}
	irq := &interrupts.Controller{}
	tmr := timer.NewController(irq)
	pad := joypad.New()
	return New(cart, irq, tmr, pad, corelog.NewNull())
}

// TestOAMDMA_CompletesIn160Cycles matches spec.md §8's OAM DMA progress
// scenario: writing 0xC0 to 0xFF46 with source bytes 0x00..0x9F produces
// an identical copy in OAM after exactly 160 machine-cycles.
func TestOAMDMA_CompletesIn160Cycles(t *testing.T) {
	m := newTestMMU(t)

	for i := 0; i < 160; i++ {
		m.Write(0xC000+uint16(i), uint8(i))
	}

	m.Write(0xFF46, 0xC0)
	if !m.DMAActive() {
		t.Fatalf("expected DMA to be active immediately after the triggering write")
	}

	for i := 0; i < 160; i++ {
		m.TickDMA()
	}

	if m.DMAActive() {
		t.Fatalf("expected DMA to have completed after 160 machine-cycles")
	}
	for i := 0; i < 160; i++ {
		got := m.oam[i]
		if got != uint8(i) {
			t.Fatalf("OAM[%d] = %#02x, want %#02x", i, got, uint8(i))
		}
	}
}

// TestOAMDMA_RestrictsCPUToHRAM checks that, while a transfer is active,
// reads/writes outside HRAM are degraded per spec.md §4.2.
func TestOAMDMA_RestrictsCPUToHRAM(t *testing.T) {
	m := newTestMMU(t)
	m.Write(0xC000, 0x42)
	m.Write(0xFF46, 0xC0)

	if got := m.Read(0xC000); got != 0xFF {
		t.Errorf("WRAM read during active DMA = %#02x, want 0xFF", got)
	}
	m.hram[0] = 0x99
	if got := m.Read(0xFF80); got != 0x99 {
		t.Errorf("HRAM read during active DMA = %#02x, want 0x99 (HRAM stays reliable)", got)
	}

	for i := 0; i < 160; i++ {
		m.TickDMA()
	}
	if got := m.Read(0xC000); got != 0x42 {
		t.Errorf("WRAM read after DMA completed = %#02x, want 0x42", got)
	}
}

// TestDIVRegister_WriteAlwaysReadsZero checks the quantified invariant of
// spec.md §8: writing any value to DIV resets it to 0.
func TestDIVRegister_WriteAlwaysReadsZero(t *testing.T) {
	m := newTestMMU(t)
	m.Write(0xFF07, 0x05) // enable the timer so SYS has ticked somewhere
	for i := 0; i < 1000; i++ {
		m.tmr.Tick()
	}
	m.Write(0xFF04, 0xAB) // value is irrelevant; any write clears DIV
	if got := m.Read(0xFF04); got != 0 {
		t.Errorf("DIV after a write = %#02x, want 0x00", got)
	}
}

// TestIFRegister_TopBitsAlwaysSet covers the quantified invariant that
// 0xFF0F's top 3 bits always read back as 1.
func TestIFRegister_TopBitsAlwaysSet(t *testing.T) {
	m := newTestMMU(t)
	m.Write(0xFF0F, 0x00)
	if got := m.Read(0xFF0F); got&0xE0 != 0xE0 {
		t.Errorf("IF = %#08b, want top 3 bits set", got)
	}
}
