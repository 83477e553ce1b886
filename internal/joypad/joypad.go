// Package joypad emulates the eight-button input matrix exposed at 0xFF00,
// composing whichever row the game selected with the current button state
// and raising the Joypad interrupt on a 1->0 transition of the composite
// byte.
package joypad

import "github.com/mkaminski/gbcore/pkg/bits"

// Button identifies one physical button. The values match the bit position
// within the action/direction nibble the hardware exposes.
type Button uint8

const (
	ButtonA      Button = 0
	ButtonB      Button = 1
	ButtonSelect Button = 2
	ButtonStart  Button = 3
	ButtonRight  Button = 4
	ButtonLeft   Button = 5
	ButtonUp     Button = 6
	ButtonDown   Button = 7
)

// State is the joypad's observable register plus the raw button state,
// read by the host (writer) and the core (reader) from possibly different
// goroutines; callers needing cross-thread safety should serialize access
// through a single mutex, as described for the host handshake.
type State struct {
	// select_ stores bits 5/4 written by the game: 0 selects that row.
	select_ uint8
	// pressed is a bitmask over Button, 1 = currently held.
	pressed uint8
}

// New returns a State with no row selected and no buttons held.
func New() *State {
	return &State{select_: 0x30}
}

// WriteSelect stores bits 5/4 of a write to 0xFF00; the rest is ignored.
func (s *State) WriteSelect(v uint8) {
	s.select_ = v & 0x30
}

// Read composes the selected row(s) as active-low: a 0 bit means pressed.
func (s *State) Read() uint8 {
	row := uint8(0x0F)
	if !bits.Test(s.select_, 5) { // action buttons selected
		row &= ^(s.pressed & 0x0F)
	}
	if !bits.Test(s.select_, 4) { // direction buttons selected
		row &= ^((s.pressed >> 4) & 0x0F)
	}
	return s.select_ | 0xC0 | row
}

// Set updates a single button's held state and reports whether the
// composite active-low byte made a 1->0 transition on a currently selected
// line, which is the condition that raises the Joypad interrupt.
func (s *State) Set(b Button, pressed bool) bool {
	before := s.Read()
	if pressed {
		s.pressed |= 1 << b
	} else {
		s.pressed &^= 1 << b
	}
	after := s.Read()
	// falling edge on any bit of the composed nibble
	return before&^after&0x0F != 0
}

// Any reports whether at least one button is currently held.
func (s *State) Any() bool {
	return s.pressed != 0
}
