// Package mmu implements the Game Boy's uniform 16-bit address space: a
// single Read/Write surface that routes to the cartridge, VRAM/WRAM/OAM/
// HRAM arenas it owns directly, and to the timer/joypad/interrupt/video
// registers it owns indirectly through small per-component dispatch.
//
// Reads/writes to unmapped ranges quietly return/accept 0xFF, logged at
// debug level — real cartridges do poke at unusual addresses, and a soft
// fault must never panic the emulator (spec.md §7).
package mmu

import (
	"github.com/mkaminski/gbcore/internal/cartridge"
	"github.com/mkaminski/gbcore/internal/corelog"
	"github.com/mkaminski/gbcore/internal/interrupts"
	"github.com/mkaminski/gbcore/internal/joypad"
	"github.com/mkaminski/gbcore/internal/timer"
	"github.com/mkaminski/gbcore/internal/types"
)

// IOHandler lets a component outside this package (the PPU) claim a block
// of I/O register addresses without the mmu package importing it — mmu
// defines the seam, the driver wires the concrete implementation in.
type IOHandler interface {
	ReadIO(addr uint16) uint8
	WriteIO(addr uint16, value uint8)
}

// MMU is the owning container for every RAM arena in the address space.
type MMU struct {
	cart *cartridge.Cartridge
	irq  *interrupts.Controller
	tmr  *timer.Controller
	pad  *joypad.State
	log  corelog.Logger

	video IOHandler // LCDC..WX, BCPS..OCPD — claimed by the PPU

	vram [2][0x2000]byte
	vbk  uint8

	wram     [8][0x1000]byte
	wramBank uint8 // SVBK & 0x07, 0 coerced to 1

	oam  [160]byte
	hram [127]byte

	dma  DMA
	hdma HDMA

	bootUnlocked bool
	isCGB        bool

	key1 uint8 // bit7 = current speed, bit0 = prepare
}

// New constructs an MMU over the given cartridge, sharing irq/tmr/pad with
// the rest of the driver.
func New(cart *cartridge.Cartridge, irq *interrupts.Controller, tmr *timer.Controller, pad *joypad.State, log corelog.Logger) *MMU {
	return &MMU{
		cart:     cart,
		irq:      irq,
		tmr:      tmr,
		pad:      pad,
		log:      log,
		wramBank: 1,
		isCGB:    cart.IsCGB(),
		// No boot ROM binary is emulated (spec.md §1 scope); the core
		// starts as if the boot ROM already ran, with the cartridge
		// mapped from address 0. The 0xFF50 latch is still modeled
		// (idempotently) for ROMs that poke it during their own init.
		bootUnlocked: true,
	}
}

// AttachVideo wires the PPU in as the handler for the LCD/palette register
// block. Must be called once before the first Read/Write.
func (m *MMU) AttachVideo(v IOHandler) { m.video = v }

// IsCGB reports whether the loaded cartridge declares CGB support.
func (m *MMU) IsCGB() bool { return m.isCGB }

// VRAMBank returns a pointer to the live VBK-derived bank index, shared
// with the PPU so it always observes the current bank without a method
// call back into the MMU.
func (m *MMU) VRAMBank() *uint8 { return &m.vbk }

// VRAMBanks returns the two 8 KiB VRAM arenas, shared directly with the
// PPU (bank 1 only meaningful on CGB).
func (m *MMU) VRAMBanks() (*[0x2000]byte, *[0x2000]byte) { return &m.vram[0], &m.vram[1] }

// OAM returns the 160-byte object attribute table, shared directly with
// the PPU and written by DMA.
func (m *MMU) OAM() *[160]byte { return &m.oam }

// DMAActive reports whether an OAM DMA transfer is in progress.
func (m *MMU) DMAActive() bool { return m.dma.Active() }

// TickDMA advances OAM DMA by one machine-cycle. Called by the driver
// every M-cycle.
func (m *MMU) TickDMA() { m.dma.TickCycle(m) }

// HDMAActive reports whether an HBlank-paced HDMA transfer is still armed.
func (m *MMU) HDMAActive() bool { return m.hdma.active }

// RunHDMAHBlankBlock copies one HDMA block; called by the driver whenever
// the PPU enters HBlank.
func (m *MMU) RunHDMAHBlankBlock() { m.hdma.RunHBlankBlock(m) }

// rawRead performs a Read bypassing the DMA-degradation rule, used by DMA
// and HDMA themselves to source their copies.
func (m *MMU) rawRead(addr uint16) uint8 {
	return m.read(addr, false)
}

// Read returns the byte at addr. While an OAM DMA transfer is active,
// reads outside HRAM are undefined per spec.md §4.2; this implementation
// models that by returning 0xFF, which is the common real-hardware
// behavior and keeps the CPU's fetch/execute loop well-defined.
func (m *MMU) Read(addr uint16) uint8 {
	return m.read(addr, true)
}

func (m *MMU) read(addr uint16, respectDMA bool) uint8 {
	if respectDMA && m.dma.Active() && !(addr >= types.HRAMStart && addr <= types.HRAMEnd) {
		return 0xFF
	}

	switch {
	case addr <= types.ROMBankNEnd:
		if !m.bootUnlocked && m.inBootWindow(addr) {
			return 0xFF // boot ROM binary content is out of scope; read as unmapped once "loaded"
		}
		return m.cart.Read(addr)
	case addr >= types.VRAMStart && addr <= types.VRAMEnd:
		return m.vram[m.vbk&1][addr-types.VRAMStart]
	case addr >= types.ExtRAMStart && addr <= types.ExtRAMEnd:
		return m.cart.Read(addr)
	case addr >= types.WRAMBank0Start && addr <= types.WRAMBank0End:
		return m.wram[0][addr-types.WRAMBank0Start]
	case addr >= types.WRAMBankNStart && addr <= types.WRAMBankNEnd:
		return m.wram[m.effectiveWRAMBank()][addr-types.WRAMBankNStart]
	case addr >= types.EchoStart && addr <= types.EchoEnd:
		return m.read(addr-0x2000, false)
	case addr >= types.OAMStart && addr <= types.OAMEnd:
		return m.oam[addr-types.OAMStart]
	case addr >= types.UnusableStart && addr <= types.UnusableEnd:
		return 0xFF
	case addr >= types.IOStart && addr <= types.IOEnd:
		return m.ioRead(addr)
	case addr >= types.HRAMStart && addr <= types.HRAMEnd:
		return m.hram[addr-types.HRAMStart]
	case addr == types.IE:
		return m.irq.IE
	}
	m.log.Debugf("mmu: read from unmapped address %#04x", addr)
	return 0xFF
}

// Write stores value at addr, applying the same banking/mirroring rules
// as Read.
func (m *MMU) Write(addr uint16, value uint8) {
	if m.dma.Active() && !(addr >= types.HRAMStart && addr <= types.HRAMEnd) {
		return
	}

	switch {
	case addr <= types.ROMBankNEnd:
		m.cart.Write(addr, value)
	case addr >= types.VRAMStart && addr <= types.VRAMEnd:
		m.vram[m.vbk&1][addr-types.VRAMStart] = value
	case addr >= types.ExtRAMStart && addr <= types.ExtRAMEnd:
		m.cart.Write(addr, value)
	case addr >= types.WRAMBank0Start && addr <= types.WRAMBank0End:
		m.wram[0][addr-types.WRAMBank0Start] = value
	case addr >= types.WRAMBankNStart && addr <= types.WRAMBankNEnd:
		m.wram[m.effectiveWRAMBank()][addr-types.WRAMBankNStart] = value
	case addr >= types.EchoStart && addr <= types.EchoEnd:
		m.Write(addr-0x2000, value)
	case addr >= types.OAMStart && addr <= types.OAMEnd:
		m.oam[addr-types.OAMStart] = value
	case addr >= types.UnusableStart && addr <= types.UnusableEnd:
		// quietly discarded
	case addr >= types.IOStart && addr <= types.IOEnd:
		m.ioWrite(addr, value)
	case addr >= types.HRAMStart && addr <= types.HRAMEnd:
		m.hram[addr-types.HRAMStart] = value
	case addr == types.IE:
		m.irq.IE = value
	default:
		m.log.Debugf("mmu: write to unmapped address %#04x", addr)
	}
}

// Read16/Write16 are little-endian 16-bit conveniences used by the CPU's
// imm16/push16/pop16 and by LD (a16),SP for stack and immediate traffic.
func (m *MMU) Read16(addr uint16) uint16 {
	return uint16(m.Read(addr)) | uint16(m.Read(addr+1))<<8
}

func (m *MMU) Write16(addr uint16, value uint16) {
	m.Write(addr, uint8(value))
	m.Write(addr+1, uint8(value>>8))
}

func (m *MMU) effectiveWRAMBank() uint8 {
	if !m.isCGB {
		return 1
	}
	return m.wramBank
}

func (m *MMU) inBootWindow(addr uint16) bool {
	if addr < 0x100 {
		return true
	}
	return m.isCGB && addr >= 0x200 && addr < 0x900
}

// KEY1 / speed-switch support, used by the CPU during STOP.

// PrepareSpeedSwitch reports whether a speed switch has been armed via a
// write to KEY1 bit 0.
func (m *MMU) PrepareSpeedSwitch() bool { return m.key1&0x01 != 0 }

// DoSpeedSwitch flips the reported current-speed bit and clears the
// prepare bit, called by the CPU when STOP executes with a switch armed.
func (m *MMU) DoSpeedSwitch() {
	m.key1 ^= 0x80
	m.key1 &^= 0x01
}

// DoubleSpeed reports the CGB double-speed state for the driver's
// machine-cycle scaler.
func (m *MMU) DoubleSpeed() bool { return m.key1&0x80 != 0 }
