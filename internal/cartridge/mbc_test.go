package cartridge

import "testing"

// mbc1ROM builds a 256 KiB (16-bank) MBC1+RAM+BATTERY image with bank 3's
// first byte set to a recognizable marker, so bank switching can be
// observed.
func mbc1ROM() []byte {
	const banks = 16
	rom := make([]byte, banks*0x4000)
	rom[0x147] = byte(TypeMBC1RAMBattery)
	rom[0x148] = 0x03 // 2<<3 = 16 banks
	rom[0x149] = 0x02 // 8 KiB RAM
	for b := 0; b < banks; b++ {
		rom[b*0x4000] = byte(b) // bank marker at its own offset 0
	}
	return rom
}

func TestLoad_RejectsShortImage(t *testing.T) {
	_, err := Load(make([]byte, 0x10))
	if err != ErrLoadFailed {
		t.Fatalf("Load(short image) = %v, want ErrLoadFailed", err)
	}
}

func TestLoad_RejectsUnsupportedMBC(t *testing.T) {
	rom := make([]byte, 0x8000)
	rom[0x147] = byte(TypeMBC3) // recognized but not implemented
	_, err := Load(rom)
	if err != ErrUnsupportedCartridge {
		t.Fatalf("Load(MBC3) = %v, want ErrUnsupportedCartridge", err)
	}
}

func TestMBC1_ROMBankSwitch(t *testing.T) {
	c, err := Load(mbc1ROM())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	// Bank 0 is always fixed at 0x0000-0x3FFF.
	if got := c.Read(0x0000); got != 0 {
		t.Errorf("fixed bank 0 read = %#02x, want 0x00", got)
	}

	// Selector defaults to bank 1.
	if got := c.Read(0x4000); got != 1 {
		t.Errorf("default switchable bank read = %#02x, want 0x01 (bank 1)", got)
	}

	c.Write(0x2000, 0x05) // select ROM bank 5
	if got := c.Read(0x4000); got != 5 {
		t.Errorf("after selecting bank 5, read = %#02x, want 0x05", got)
	}

	// Selecting bank 0 coerces to bank 1.
	c.Write(0x2000, 0x00)
	if got := c.Read(0x4000); got != 1 {
		t.Errorf("selecting bank 0 = %#02x, want coerced to bank 1", got)
	}
}

func TestMBC1_ExternalRAMGatedByEnable(t *testing.T) {
	c, err := Load(mbc1ROM())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	c.Write(0xA000, 0x77) // RAM not yet enabled, write dropped
	if got := c.Read(0xA000); got != 0xFF {
		t.Errorf("RAM read before enable = %#02x, want 0xFF", got)
	}

	c.Write(0x0000, 0x0A) // enable external RAM
	c.Write(0xA000, 0x77)
	if got := c.Read(0xA000); got != 0x77 {
		t.Errorf("RAM read after enable = %#02x, want 0x77", got)
	}

	c.Write(0x0000, 0x00) // disable again
	if got := c.Read(0xA000); got != 0xFF {
		t.Errorf("RAM read after disable = %#02x, want 0xFF", got)
	}
}

func TestMBC1_RAMPersistsAcrossExternalRAMHandle(t *testing.T) {
	c, err := Load(mbc1ROM())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	c.Write(0x0000, 0x0A)
	c.Write(0xA000, 0x55)

	ram := c.ExternalRAM()
	if ram == nil || ram[0] != 0x55 {
		t.Fatalf("ExternalRAM()[0] = %v, want 0x55", ram)
	}
}
