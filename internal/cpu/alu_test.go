package cpu

import "testing"

func TestAdd8_HalfCarryAndCarry(t *testing.T) {
	var c CPU
	got := c.add8(0x0F, 0x01, false)
	if got != 0x10 {
		t.Errorf("add8(0x0F,0x01) = %#02x, want 0x10", got)
	}
	if !c.HalfCarry() {
		t.Errorf("expected HalfCarry set crossing the low nibble")
	}
	if c.Carry() {
		t.Errorf("expected Carry clear, no byte overflow")
	}

	got = c.add8(0xFF, 0x01, false)
	if got != 0x00 {
		t.Errorf("add8(0xFF,0x01) = %#02x, want 0x00", got)
	}
	if !c.Zero() || !c.Carry() || !c.HalfCarry() {
		t.Errorf("expected Zero, Carry, HalfCarry all set on 0xFF+0x01, got F=%#08b", c.F)
	}
}

func TestAdd8_WithCarryIn(t *testing.T) {
	var c CPU
	c.setC(true)
	got := c.add8(0x01, 0x01, true)
	if got != 0x03 {
		t.Errorf("ADC 0x01+0x01+carry = %#02x, want 0x03", got)
	}
}

func TestSub8_Borrow(t *testing.T) {
	var c CPU
	got := c.sub8(0x00, 0x01, false)
	if got != 0xFF {
		t.Errorf("sub8(0x00,0x01) = %#02x, want 0xFF", got)
	}
	if !c.Carry() || !c.HalfCarry() || !c.Subtract() {
		t.Errorf("expected Carry, HalfCarry, Subtract all set on a borrowing subtraction, got F=%#08b", c.F)
	}
}

func TestCp8_LeavesAUnchanged(t *testing.T) {
	var c CPU
	c.A = 0x10
	c.cp8(c.A, 0x10)
	if c.A != 0x10 {
		t.Errorf("cp8 must not mutate A, got %#02x", c.A)
	}
	if !c.Zero() {
		t.Errorf("expected Zero set comparing equal values")
	}
}

func TestIncDec8_HalfCarryChain(t *testing.T) {
	var c CPU
	// INC (HL) chain: 0x0E -> 0x0F -> 0x10 must set HalfCarry only on the
	// 0x0F -> 0x10 step.
	v := uint8(0x0E)
	v = c.inc8(v)
	if c.HalfCarry() {
		t.Errorf("inc8(0x0E) should not set HalfCarry, F=%#08b", c.F)
	}
	v = c.inc8(v)
	if !c.HalfCarry() || v != 0x10 {
		t.Errorf("inc8(0x0F) = %#02x, HalfCarry=%v; want 0x10, HalfCarry=true", v, c.HalfCarry())
	}
}

func TestDec8_ZeroAndHalfCarry(t *testing.T) {
	var c CPU
	v := c.dec8(0x01)
	if v != 0x00 || !c.Zero() {
		t.Errorf("dec8(0x01) = %#02x, Zero=%v; want 0x00, Zero=true", v, c.Zero())
	}
	v = c.dec8(0x00)
	if v != 0xFF || !c.HalfCarry() {
		t.Errorf("dec8(0x00) = %#02x, HalfCarry=%v; want 0xFF, HalfCarry=true", v, c.HalfCarry())
	}
}

func TestDAA_AfterAddition(t *testing.T) {
	var c CPU
	// 0x45 + 0x38 = 0x7D in binary, which should DAA-correct to 0x83 in BCD.
	c.A = c.add8(0x45, 0x38, false)
	c.daa()
	if c.A != 0x83 {
		t.Errorf("DAA after 0x45+0x38 = %#02x, want 0x83", c.A)
	}
	if c.Carry() {
		t.Errorf("expected no carry out of this correction")
	}
}

func TestDAA_AfterSubtraction(t *testing.T) {
	var c CPU
	// 0x50 - 0x15 = 0x3B with a half-borrow, DAA should correct to 0x35.
	c.A = c.sub8(0x50, 0x15, false)
	c.daa()
	if c.A != 0x35 {
		t.Errorf("DAA after 0x50-0x15 = %#02x, want 0x35", c.A)
	}
}

func TestAddHL16_Carry(t *testing.T) {
	var c CPU
	c.SetHL(0xFFFF)
	c.addHL16(0x0001)
	if c.HL() != 0x0000 {
		t.Errorf("HL = %#04x, want 0x0000", c.HL())
	}
	if !c.Carry() || !c.HalfCarry() {
		t.Errorf("expected Carry and HalfCarry set on HL overflow, got F=%#08b", c.F)
	}
}
