// Package ppu implements the pixel-processing unit: a dot-stepped mode
// state machine (OAM Scan -> Drawing -> HBlank -> VBlank) that produces one
// scanline of an ARGB8888 framebuffer at the Drawing/HBlank boundary, per
// the simplified rendering model of spec.md §4.4.
package ppu

import (
	"github.com/mkaminski/gbcore/internal/interrupts"
)

const (
	ScreenWidth  = 160
	ScreenHeight = 144

	DotsPerLine  = 456
	LinesPerFrame = 154
	DotsPerFrame = DotsPerLine * LinesPerFrame

	oamScanDots  = 80
	drawingDots  = 172 // fixed-length simplified Drawing mode, within spec's [80,368] allowance
)

// Mode is the four-state STAT mode machine.
type Mode uint8

const (
	ModeHBlank Mode = 0
	ModeVBlank Mode = 1
	ModeOAMScan Mode = 2
	ModeDrawing Mode = 3
)

// PPU owns the dot clock, LCD registers, and framebuffer.
type PPU struct {
	vram0, vram1 *[0x2000]byte
	vbk          *uint8
	oam          *[160]byte
	irq          *interrupts.Controller
	isCGB        bool

	dot uint32
	ly  uint8
	mode Mode

	lcdc uint8
	stat uint8 // bits 6..3 are the only writable bits
	scy, scx uint8
	lyc uint8
	bgp, obp0, obp1 uint8
	wy, wx uint8
	wyInternal uint8 // latched window line counter, increments only when the window is actually drawn

	bgCRAM  ColorRAM
	objCRAM ColorRAM

	sprites SpriteQueue

	Framebuffer [ScreenHeight][ScreenWidth]uint32
	FrameReady  bool

	prevLYCMatch bool
	prevMode     Mode

	// enteredHBlank pulses true for exactly the tick on which HBlank is
	// entered, so the driver can trigger one HDMA HBlank block.
	enteredHBlank bool
}

// New constructs a PPU sharing VRAM/OAM storage with the MMU.
func New(vram0, vram1 *[0x2000]byte, vbk *uint8, oam *[160]byte, irq *interrupts.Controller, isCGB bool) *PPU {
	return &PPU{
		vram0: vram0, vram1: vram1, vbk: vbk, oam: oam, irq: irq, isCGB: isCGB,
		mode: ModeOAMScan,
	}
}

func (p *PPU) enabled() bool { return p.lcdc&0x80 != 0 }

// EnteredHBlank reports whether the most recent TickDot transitioned into
// HBlank, consumed once by the driver to pace CGB HDMA.
func (p *PPU) EnteredHBlank() bool {
	v := p.enteredHBlank
	p.enteredHBlank = false
	return v
}

// TickDot advances the PPU by exactly one dot.
func (p *PPU) TickDot() {
	p.enteredHBlank = false

	if !p.enabled() {
		p.dot = 0
		p.ly = 0
		p.mode = ModeHBlank
		p.prevMode = ModeHBlank
		return
	}

	d := p.dot % DotsPerLine
	p.ly = uint8(p.dot / DotsPerLine)

	var next Mode
	switch {
	case p.ly >= 144:
		next = ModeVBlank
	case d < oamScanDots:
		next = ModeOAMScan
	case d < oamScanDots+drawingDots:
		next = ModeDrawing
	default:
		next = ModeHBlank
	}

	if next != p.mode {
		p.onEnterMode(next)
	}
	p.mode = next

	p.checkLYC()

	p.dot++
	if p.dot >= DotsPerFrame {
		p.dot = 0
	}
}

func (p *PPU) onEnterMode(m Mode) {
	switch m {
	case ModeOAMScan:
		p.scanOAM()
		if p.stat&0x20 != 0 {
			p.irq.Request(interrupts.LCD)
		}
	case ModeDrawing:
		// nothing to do; scanline is rendered at the Drawing->HBlank edge
	case ModeHBlank:
		p.renderScanline()
		p.enteredHBlank = true
		if p.stat&0x08 != 0 {
			p.irq.Request(interrupts.LCD)
		}
	case ModeVBlank:
		p.FrameReady = true
		p.irq.Request(interrupts.VBlank)
		if p.stat&0x10 != 0 {
			p.irq.Request(interrupts.LCD)
		}
		p.wyInternal = 0
	}
}

func (p *PPU) checkLYC() {
	match := p.ly == p.lyc
	if match && !p.prevLYCMatch && p.stat&0x40 != 0 {
		p.irq.Request(interrupts.LCD)
	}
	p.prevLYCMatch = match
}

// ReadIO implements mmu.IOHandler for the LCDC..WX and BCPS..OCPD block.
func (p *PPU) ReadIO(addr uint16) uint8 {
	switch addr {
	case 0xFF40:
		return p.lcdc
	case 0xFF41:
		statMode := uint8(p.mode)
		lyc := uint8(0)
		if p.ly == p.lyc {
			lyc = 0x04
		}
		return p.stat&0x78 | lyc | statMode | 0x80
	case 0xFF42:
		return p.scy
	case 0xFF43:
		return p.scx
	case 0xFF44:
		return p.ly
	case 0xFF45:
		return p.lyc
	case 0xFF47:
		return p.bgp
	case 0xFF48:
		return p.obp0
	case 0xFF49:
		return p.obp1
	case 0xFF4A:
		return p.wy
	case 0xFF4B:
		return p.wx
	case 0xFF68:
		if !p.isCGB {
			return 0xFF
		}
		return p.bgCRAM.ReadSpec()
	case 0xFF69:
		if !p.isCGB {
			return 0xFF
		}
		return p.bgCRAM.ReadData()
	case 0xFF6A:
		if !p.isCGB {
			return 0xFF
		}
		return p.objCRAM.ReadSpec()
	case 0xFF6B:
		if !p.isCGB {
			return 0xFF
		}
		return p.objCRAM.ReadData()
	}
	return 0xFF
}

// WriteIO implements mmu.IOHandler for the same block.
func (p *PPU) WriteIO(addr uint16, v uint8) {
	switch addr {
	case 0xFF40:
		wasOn := p.enabled()
		p.lcdc = v
		if wasOn && !p.enabled() {
			p.ly = 0
			p.dot = 0
			p.mode = ModeHBlank
		}
	case 0xFF41:
		p.stat = v & 0x78
	case 0xFF42:
		p.scy = v
	case 0xFF43:
		p.scx = v
	case 0xFF44:
		// writes to LY are ignored
	case 0xFF45:
		p.lyc = v
		p.checkLYC()
	case 0xFF47:
		p.bgp = v
	case 0xFF48:
		p.obp0 = v
	case 0xFF49:
		p.obp1 = v
	case 0xFF4A:
		p.wy = v
	case 0xFF4B:
		p.wx = v
	case 0xFF68:
		if p.isCGB {
			p.bgCRAM.WriteSpec(v)
		}
	case 0xFF69:
		if p.isCGB {
			p.bgCRAM.WriteData(v)
		}
	case 0xFF6A:
		if p.isCGB {
			p.objCRAM.WriteSpec(v)
		}
	case 0xFF6B:
		if p.isCGB {
			p.objCRAM.WriteData(v)
		}
	}
}
