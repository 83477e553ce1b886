// Package cartridge owns the ROM image and optional battery-backed
// external RAM, and services reads/writes in the 0x0000-0x7FFF and
// 0xA000-0xBFFF bus windows per the cartridge's memory-bank-controller
// variant.
package cartridge

// Cartridge parses a ROM header and dispatches reads/writes to the
// appropriate MemoryBankController.
type Cartridge struct {
	header Header
	mbc    MemoryBankController
}

// Load parses rom's header and constructs the matching MBC. It returns
// ErrLoadFailed for a short/malformed image and ErrUnsupportedCartridge
// for a recognized-but-unimplemented MBC variant (anything beyond
// ROM-only and MBC1, per spec.md's stated mandatory coverage).
func Load(rom []byte) (*Cartridge, error) {
	h, err := parseHeader(rom)
	if err != nil {
		return nil, err
	}

	var mbc MemoryBankController
	switch h.Type {
	case TypeROM:
		mbc = newROMOnly(rom)
	case TypeMBC1, TypeMBC1RAM, TypeMBC1RAMBattery:
		mbc = newMBC1(rom, h)
	default:
		return nil, ErrUnsupportedCartridge
	}

	return &Cartridge{header: h, mbc: mbc}, nil
}

// Header returns the parsed cartridge header.
func (c *Cartridge) Header() Header { return c.header }

// IsCGB reports whether the cartridge declares CGB support or requirement.
func (c *Cartridge) IsCGB() bool {
	return c.header.Mode == ModeSupportsCGB || c.header.Mode == ModeCGBOnly
}

// Read routes a bus read in the cartridge's two windows to the MBC.
func (c *Cartridge) Read(addr uint16) uint8 {
	return c.mbc.Read(addr)
}

// Write routes a bus write in the cartridge's two windows to the MBC.
func (c *Cartridge) Write(addr uint16, value uint8) {
	c.mbc.Write(addr, value)
}

// ExternalRAM returns the battery-backed RAM array, for persistence across
// a Reset. Returns nil for cartridges with no RAM.
func (c *Cartridge) ExternalRAM() []byte {
	return c.mbc.RAM()
}
