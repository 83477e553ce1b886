// Package gameboy is the owning container that wires the cartridge, bus,
// timer, interrupt controller, joypad, CPU, and PPU together and drives
// them one dot at a time, matching the cooperative dot-clock pulse design
// of spec.md §5.
package gameboy

import (
	"github.com/mkaminski/gbcore/internal/cartridge"
	"github.com/mkaminski/gbcore/internal/corelog"
	"github.com/mkaminski/gbcore/internal/cpu"
	"github.com/mkaminski/gbcore/internal/interrupts"
	"github.com/mkaminski/gbcore/internal/joypad"
	"github.com/mkaminski/gbcore/internal/mmu"
	"github.com/mkaminski/gbcore/internal/ppu"
	"github.com/mkaminski/gbcore/internal/timer"
)

// GameBoy owns every component and advances them dot by dot.
type GameBoy struct {
	cart *cartridge.Cartridge
	mmu  *mmu.MMU
	irq  *interrupts.Controller
	tmr  *timer.Controller
	pad  *joypad.State
	cpu  *cpu.CPU
	ppu  *ppu.PPU
	log  corelog.Logger

	dotInCycle int
}

// New parses rom and wires a complete, ready-to-run console. log may be
// nil, in which case a no-op logger is used.
func New(rom []byte, log corelog.Logger) (*GameBoy, error) {
	if log == nil {
		log = corelog.NewNull()
	}

	cart, err := cartridge.Load(rom)
	if err != nil {
		return nil, err
	}

	irq := &interrupts.Controller{}
	tmr := timer.NewController(irq)
	pad := joypad.New()
	bus := mmu.New(cart, irq, tmr, pad, log)

	vram0, vram1 := bus.VRAMBanks()
	video := ppu.New(vram0, vram1, bus.VRAMBank(), bus.OAM(), irq, cart.IsCGB())
	bus.AttachVideo(video)

	c := cpu.New(bus, irq)

	return &GameBoy{
		cart: cart,
		mmu:  bus,
		irq:  irq,
		tmr:  tmr,
		pad:  pad,
		cpu:  c,
		ppu:  video,
		log:  log,
	}, nil
}

// Tick advances every component by exactly one dot: the PPU always, the
// timer always, and the CPU/DMA once per completed machine-cycle (4 dots
// at normal speed, 2 in CGB double-speed mode). This fixed per-dot
// ordering is what spec.md §5 calls the system clock pulse.
func (g *GameBoy) Tick() {
	g.ppu.TickDot()

	if g.mmu.HDMAActive() && g.ppu.EnteredHBlank() {
		g.mmu.RunHDMAHBlankBlock()
	}

	mCycleLen := 4
	if g.cpu.DoubleSpeed() {
		mCycleLen = 2
	}

	g.dotInCycle++
	if g.dotInCycle >= mCycleLen {
		g.dotInCycle = 0

		g.mmu.TickDMA()
		wasStopped, wasDouble := g.cpu.Stopped(), g.cpu.DoubleSpeed()
		g.cpu.Step()
		if (!wasStopped && g.cpu.Stopped()) || g.cpu.DoubleSpeed() != wasDouble {
			// STOP resets DIV, whether it halts the CPU or commits a speed switch.
			g.tmr.WriteDIV()
		}
	}

	g.tmr.Tick()
}

// SetButton updates one button's held state and requests the Joypad
// interrupt on a press that produces a falling edge, also waking the CPU
// from STOP.
func (g *GameBoy) SetButton(b joypad.Button, pressed bool) {
	if g.pad.Set(b, pressed) {
		g.irq.Request(interrupts.Joypad)
	}
	if pressed && g.cpu.Stopped() {
		g.cpu.Resume()
	}
}

// Framebuffer returns the PPU's current ARGB8888 framebuffer. The caller
// must not retain a reference across frame boundaries without copying —
// the PPU mutates it in place.
func (g *GameBoy) Framebuffer() *[ppu.ScreenHeight][ppu.ScreenWidth]uint32 {
	return &g.ppu.Framebuffer
}

// FrameReady reports and clears the PPU's one-shot "new frame" latch.
func (g *GameBoy) FrameReady() bool {
	v := g.ppu.FrameReady
	g.ppu.FrameReady = false
	return v
}

// Reset re-initializes every component except the cartridge's external
// RAM, matching spec.md's requirement that a reset preserve battery-backed
// saves.
func (g *GameBoy) Reset() {
	ram := g.cart.ExternalRAM()
	var saved []byte
	if ram != nil {
		saved = append([]byte(nil), ram...)
	}

	*g.irq = interrupts.Controller{}
	g.tmr = timer.NewController(g.irq)
	g.pad = joypad.New()
	g.mmu = mmu.New(g.cart, g.irq, g.tmr, g.pad, g.log)

	vram0, vram1 := g.mmu.VRAMBanks()
	g.ppu = ppu.New(vram0, vram1, g.mmu.VRAMBank(), g.mmu.OAM(), g.irq, g.cart.IsCGB())
	g.mmu.AttachVideo(g.ppu)

	g.cpu = cpu.New(g.mmu, g.irq)
	g.dotInCycle = 0

	if saved != nil {
		copy(g.cart.ExternalRAM(), saved)
	}
}

// CartridgeHeader exposes the parsed header, e.g. for a host window title.
func (g *GameBoy) CartridgeHeader() cartridge.Header { return g.cart.Header() }
