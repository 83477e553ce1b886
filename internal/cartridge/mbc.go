package cartridge

// MemoryBankController is the per-variant read/write handler a Cartridge
// delegates to. Every MBC implements the same two entry points; the
// differences are entirely in how they interpret writes to the ROM window
// as bank-select commands.
type MemoryBankController interface {
	Read(addr uint16) uint8
	Write(addr uint16, value uint8)
	// RAM returns the external RAM backing store, for battery-backed
	// persistence across Reset.
	RAM() []byte
}

// romOnly is the trivial MBC for cartridges with no bank switching at all
// (cartridge type 0x00): bank N is always bank 1, and there is no
// switchable external RAM.
type romOnly struct {
	rom []byte
}

func newROMOnly(rom []byte) *romOnly {
	// pad to 32 KiB so bank-1 reads are always in range even for the
	// (nonconformant) case of a short image.
	if len(rom) < 0x8000 {
		padded := make([]byte, 0x8000)
		copy(padded, rom)
		rom = padded
	}
	return &romOnly{rom: rom}
}

func (m *romOnly) Read(addr uint16) uint8 {
	if addr <= 0x7FFF {
		return m.rom[addr]
	}
	return 0xFF // no external RAM
}

func (m *romOnly) Write(addr uint16, value uint8) {
	// ROM-only cartridges ignore all writes to the cartridge window.
}

func (m *romOnly) RAM() []byte { return nil }

// mbc1 implements the MBC1 banking scheme described in spec.md §4.1:
// a 5-bit ROM-bank selector, a 2-bit upper-bits register shared between
// the ROM bank-2 and the RAM bank number depending on mode, and a mode
// latch that picks which of those two uses applies.
type mbc1 struct {
	rom []byte
	ram []byte

	romBanks int

	ramEnabled bool
	selector   uint8 // 5 bits, 0x2000-0x3FFF
	upperBits  uint8 // 2 bits, 0x4000-0x5FFF
	ramMode    bool  // 0x6000-0x7FFF
}

func newMBC1(rom []byte, h Header) *mbc1 {
	return &mbc1{
		rom:      rom,
		ram:      make([]byte, h.RAMSize),
		romBanks: h.ROMBanks,
		selector: 1,
	}
}

func (m *mbc1) romBank() int {
	sel := m.selector & 0x1F
	if sel == 0 {
		sel = 1
	}
	bank := int(m.upperBits)<<5 | int(sel)
	return bank & (m.romBanks - 1)
}

func (m *mbc1) Read(addr uint16) uint8 {
	switch {
	case addr <= 0x3FFF:
		// Upper-bits shifting into fixed-bank selection only matters for
		// >=1MiB carts in RAM-banking mode; left unimplemented per
		// spec.md §4.1's explicit allowance ("implementers may leave
		// that edge case until needed").
		return m.rom[addr]
	case addr <= 0x7FFF:
		bank := m.romBank()
		off := bank*0x4000 + int(addr-0x4000)
		if off >= len(m.rom) {
			return 0xFF
		}
		return m.rom[off]
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !m.ramEnabled || len(m.ram) == 0 {
			return 0xFF
		}
		bank := 0
		if m.ramMode {
			bank = int(m.upperBits)
		}
		off := bank*0x2000 + int(addr-0xA000)
		if off >= len(m.ram) {
			return 0xFF
		}
		return m.ram[off]
	}
	return 0xFF
}

func (m *mbc1) Write(addr uint16, value uint8) {
	switch {
	case addr <= 0x1FFF:
		m.ramEnabled = value&0x0F == 0x0A
	case addr <= 0x3FFF:
		sel := value & 0x1F
		if sel == 0 {
			sel = 1
		}
		m.selector = sel
	case addr <= 0x5FFF:
		m.upperBits = value & 0x03
	case addr <= 0x7FFF:
		m.ramMode = value&0x01 != 0
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !m.ramEnabled || len(m.ram) == 0 {
			return
		}
		bank := 0
		if m.ramMode {
			bank = int(m.upperBits)
		}
		off := bank*0x2000 + int(addr-0xA000)
		if off < len(m.ram) {
			m.ram[off] = value
		}
	}
}

func (m *mbc1) RAM() []byte { return m.ram }
