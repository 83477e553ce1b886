package mmu

import "github.com/mkaminski/gbcore/internal/types"

// ioRead implements the per-register read behavior of spec.md §6's I/O
// table. Anything not explicitly named falls through to the video handler
// (if the address is in its claimed block) or a quiet 0xFF default.
func (m *MMU) ioRead(addr uint16) uint8 {
	switch addr {
	case types.JOYP:
		return m.pad.Read()
	case types.SB, types.SC:
		return 0xFF // serial link is out of scope (spec.md Non-goals)
	case types.DIV:
		return m.tmr.ReadDIV()
	case types.TIMA:
		return m.tmr.ReadTIMA()
	case types.TMA:
		return m.tmr.ReadTMA()
	case types.TAC:
		return m.tmr.ReadTAC()
	case types.IF:
		return m.irq.ReadIF()
	case types.KEY1:
		if !m.isCGB {
			return 0xFF
		}
		return m.key1 | 0x7E
	case types.VBK:
		if !m.isCGB {
			return 0xFF
		}
		return m.vbk | 0xFE
	case types.BOOT:
		if m.bootUnlocked {
			return 0x01
		}
		return 0x00
	case types.HDMA5:
		if !m.isCGB {
			return 0xFF
		}
		return m.hdma.ReadHDMA5()
	case types.HDMA1, types.HDMA2, types.HDMA3, types.HDMA4:
		return 0xFF
	case types.SVBK:
		if !m.isCGB {
			return 0xFF
		}
		return m.wramBank | 0xF8
	case types.DMA:
		return m.dma.Read()
	}

	if addr >= types.NR10 && addr <= types.NR52 || addr >= 0xFF30 && addr <= 0xFF3F {
		return 0xFF // sound is an external collaborator (spec.md §1)
	}

	if m.video != nil && m.inVideoBlock(addr) {
		return m.video.ReadIO(addr)
	}

	m.log.Debugf("mmu: read from unimplemented io register %#04x", addr)
	return 0xFF
}

// ioWrite implements the write half of the same table.
func (m *MMU) ioWrite(addr uint16, value uint8) {
	switch addr {
	case types.JOYP:
		m.pad.WriteSelect(value)
		return
	case types.SB, types.SC:
		return // serial link is out of scope
	case types.DIV:
		m.tmr.WriteDIV()
		return
	case types.TIMA:
		m.tmr.WriteTIMA(value)
		return
	case types.TMA:
		m.tmr.WriteTMA(value)
		return
	case types.TAC:
		m.tmr.WriteTAC(value)
		return
	case types.IF:
		m.irq.WriteIF(value)
		return
	case types.KEY1:
		if m.isCGB {
			m.key1 = m.key1&0x80 | value&0x01
		}
		return
	case types.VBK:
		if m.isCGB {
			m.vbk = value & 0x01
		}
		return
	case types.BOOT:
		if value != 0 {
			m.bootUnlocked = true
		}
		return
	case types.HDMA1, types.HDMA2, types.HDMA3, types.HDMA4:
		if m.isCGB {
			m.hdma.WriteReg(addr, value)
		}
		return
	case types.HDMA5:
		if m.isCGB {
			m.hdma.WriteReg(addr, value)
			m.hdma.RunGeneralPurpose(m)
		}
		return
	case types.SVBK:
		if m.isCGB {
			v := value & 0x07
			if v == 0 {
				v = 1
			}
			m.wramBank = v
		}
		return
	case types.DMA:
		m.dma.Write(value)
		return
	}

	if addr >= types.NR10 && addr <= types.NR52 || addr >= 0xFF30 && addr <= 0xFF3F {
		return // sound is an external collaborator
	}

	if m.video != nil && m.inVideoBlock(addr) {
		m.video.WriteIO(addr, value)
		return
	}

	m.log.Debugf("mmu: write to unimplemented io register %#04x = %#02x", addr, value)
}

// inVideoBlock reports whether addr belongs to the LCD/palette register
// block the PPU claims as an IOHandler.
func (m *MMU) inVideoBlock(addr uint16) bool {
	switch {
	case addr >= types.LCDC && addr <= types.WX:
		return true
	case addr >= types.BCPS && addr <= types.OCPD:
		return true
	}
	return false
}
