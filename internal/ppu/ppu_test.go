package ppu

import (
	"testing"

	"github.com/mkaminski/gbcore/internal/interrupts"
)

func newTestPPU() *PPU {
	var vram0, vram1 [0x2000]byte
	var oam [160]byte
	vbk := uint8(0)
	irq := &interrupts.Controller{}
	p := New(&vram0, &vram1, &vbk, &oam, irq, false)
	p.WriteIO(0xFF40, 0x80) // LCD on, everything else off
	return p
}

// TestModeWalk exercises the dot->mode mapping scenario: OAM Scan at dot 0,
// Drawing at dot 80, HBlank at dot 369, VBlank (with the VBlank interrupt
// requested) at dot 65664, wrapping back to OAM Scan with LY=0 once the
// first dot of the next frame is processed.
func TestModeWalk(t *testing.T) {
	p := newTestPPU()

	ticks := 0
	// tickThrough ticks until dot has just been processed, leaving p.mode
	// and p.ly reflecting that dot's state (p.dot itself may already have
	// advanced past it).
	tickThrough := func(dot uint32) {
		for ticks <= int(dot) {
			p.TickDot()
			ticks++
		}
	}

	tickThrough(0)
	if p.mode != ModeOAMScan {
		t.Errorf("mode at dot 0 = %v, want OAMScan", p.mode)
	}

	tickThrough(80)
	if p.mode != ModeDrawing {
		t.Errorf("mode at dot 80 = %v, want Drawing", p.mode)
	}

	tickThrough(369)
	if p.mode != ModeHBlank {
		t.Errorf("mode at dot 369 = %v, want HBlank", p.mode)
	}

	tickThrough(144 * DotsPerLine)
	if p.mode != ModeVBlank {
		t.Errorf("mode at dot 65664 = %v, want VBlank", p.mode)
	}
	if p.irq.IF&(1<<interrupts.VBlank) == 0 {
		t.Errorf("expected VBlank interrupt requested on entering VBlank")
	}

	tickThrough(DotsPerFrame - 1)
	if p.ly != 153 {
		t.Fatalf("LY at the last dot of the frame = %d, want 153", p.ly)
	}

	p.TickDot() // processes dot 0 of the next frame
	ticks++
	if p.mode != ModeOAMScan {
		t.Errorf("mode after wraparound = %v, want OAMScan", p.mode)
	}
	if p.ly != 0 {
		t.Errorf("LY after wraparound = %d, want 0", p.ly)
	}
}

// TestLYDerivation checks the quantified invariant of spec.md §8: for every
// dot in a frame, LY tracks dot/456, with VBlank's scanlines 144-153 beyond
// the 144 visible lines.
func TestLYDerivation(t *testing.T) {
	p := newTestPPU()
	for d := 0; d < DotsPerFrame; d++ {
		p.TickDot()
		wantLY := uint8(d / DotsPerLine)
		if p.ly != wantLY {
			t.Fatalf("at dot %d: LY = %d, want %d", d, p.ly, wantLY)
		}
		if d < 144*DotsPerLine {
			if p.ly > 143 {
				t.Fatalf("at dot %d: LY = %d, want <= 143 pre-VBlank", d, p.ly)
			}
		} else if p.ly < 144 || p.ly > 153 {
			t.Fatalf("at dot %d: LY = %d, want in [144,153] during VBlank", d, p.ly)
		}
	}
}

// TestLCDDisableForcesHBlankAndLYZero covers the LCDC-bit-7 idle state.
func TestLCDDisableForcesHBlankAndLYZero(t *testing.T) {
	p := newTestPPU()
	for i := 0; i < 500; i++ {
		p.TickDot()
	}
	p.WriteIO(0xFF40, 0x00) // disable LCD
	p.TickDot()
	if p.ly != 0 {
		t.Errorf("LY with LCD disabled = %d, want 0", p.ly)
	}
	if p.mode != ModeHBlank {
		t.Errorf("mode with LCD disabled = %v, want HBlank", p.mode)
	}
}
