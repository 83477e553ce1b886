package cartridge

import (
	"fmt"
	"strings"
)

// Mode describes a cartridge's Game Boy Color compatibility, decoded from
// the CGB flag byte at 0x0143.
type Mode uint8

const (
	ModeDMGOnly Mode = iota
	ModeSupportsCGB
	ModeCGBOnly
)

// Type is the cartridge-type byte at 0x0147, which selects the MBC
// variant.
type Type uint8

const (
	TypeROM            Type = 0x00
	TypeMBC1           Type = 0x01
	TypeMBC1RAM        Type = 0x02
	TypeMBC1RAMBattery Type = 0x03
	TypeMBC2           Type = 0x05
	TypeMBC2Battery    Type = 0x06
	TypeMBC3           Type = 0x11
	TypeMBC3RAM        Type = 0x12
	TypeMBC3RAMBattery Type = 0x13
	TypeMBC5           Type = 0x19
	TypeMBC5RAM        Type = 0x1A
	TypeMBC5RAMBattery Type = 0x1B
)

// HasBattery reports whether this cartridge type has battery-backed RAM
// that should persist across a Reset.
func (t Type) HasBattery() bool {
	switch t {
	case TypeMBC1RAMBattery, TypeMBC2Battery, TypeMBC3RAMBattery, TypeMBC5RAMBattery:
		return true
	}
	return false
}

var ramSizeBytes = map[uint8]int{
	0x00: 0,
	0x02: 8 * 1024,
	0x03: 32 * 1024,
	0x04: 128 * 1024,
	0x05: 64 * 1024,
}

// Header is the parsed cartridge header living at ROM offset 0x0100.
type Header struct {
	Title       string
	Mode        Mode
	Type        Type
	ROMBanks    int
	ROMSize     int
	RAMSize     int
	HeaderCksum uint8
}

// ErrLoadFailed is returned when the ROM image is too short to contain a
// header.
var ErrLoadFailed = fmt.Errorf("load-failed")

// ErrUnsupportedCartridge is returned for a recognized-but-unimplemented
// MBC variant.
var ErrUnsupportedCartridge = fmt.Errorf("unsupported-cartridge")

// parseHeader reads the fixed-offset fields of the cartridge header out of
// rom. rom must be at least 0x150 bytes.
func parseHeader(rom []byte) (Header, error) {
	if len(rom) < 0x150 {
		return Header{}, ErrLoadFailed
	}

	h := Header{
		Title: strings.TrimRight(string(rom[0x134:0x143]), "\x00"),
		Type:  Type(rom[0x147]),
	}

	switch rom[0x143] {
	case 0x80:
		h.Mode = ModeSupportsCGB
	case 0xC0:
		h.Mode = ModeCGBOnly
	default:
		h.Mode = ModeDMGOnly
	}

	romSizeCode := rom[0x148]
	h.ROMBanks = 2 << romSizeCode
	h.ROMSize = h.ROMBanks * 16 * 1024

	h.RAMSize = ramSizeBytes[rom[0x149]]
	h.HeaderCksum = rom[0x14D]

	return h, nil
}
