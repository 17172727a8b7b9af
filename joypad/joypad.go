// Package joypad models the DMG's 8-button input state and the P1
// register's select/readback logic.
package joypad

import "github.com/tambler/gbcore/bit"

// Button identifies one of the eight physical inputs.
type Button uint8

const (
	Right Button = iota
	Left
	Up
	Down
	A
	B
	Select
	Start
)

// isDpad reports whether the button belongs to the directional pad.
func (btn Button) isDpad() bool {
	return btn <= Down
}

// bitIndex returns the button's position within its own nibble (dpad or
// buttons), per spec: Right=0, Left=1, Up=2, Down=3 and A=0, B=1,
// Select=2, Start=3.
func (btn Button) bitIndex() uint8 {
	if btn.isDpad() {
		return uint8(btn)
	}
	return uint8(btn - A)
}

// Joypad tracks button state and the P1 selection bits.
type Joypad struct {
	selectBits uint8 // raw bits 4-5 as last written to P1

	dpad    uint8 // bits 0-3, 0 = pressed
	buttons uint8 // bits 0-3, 0 = pressed

	// RequestInterrupt is called on every press. Wired by the MMU.
	RequestInterrupt func()
}

// New returns a Joypad with no buttons pressed and no group selected.
func New() *Joypad {
	return &Joypad{dpad: 0x0F, buttons: 0x0F, selectBits: 0x30}
}

// Read returns the P1 register value: bits 6-7 high, bits 4-5 reflect the
// current selection, bits 0-3 the selected group's state (0 = pressed).
func (j *Joypad) Read() uint8 {
	selectDpad := !bit.IsSet(4, j.selectBits)
	selectButtons := !bit.IsSet(5, j.selectBits)

	nibble := uint8(0x0F)
	switch {
	case selectDpad && selectButtons:
		nibble = j.dpad & j.buttons
	case selectDpad:
		nibble = j.dpad
	case selectButtons:
		nibble = j.buttons
	}

	return 0xC0 | j.selectBits | nibble
}

// Write updates the selection bits from a P1 write. Bit 5 = 0 selects the
// button group, bit 4 = 0 selects the d-pad group.
func (j *Joypad) Write(value uint8) {
	j.selectBits = value & 0x30
}

// Press marks a button as held, raising the joypad interrupt.
func (j *Joypad) Press(btn Button) {
	idx := btn.bitIndex()
	if btn.isDpad() {
		j.dpad = bit.Reset(idx, j.dpad)
	} else {
		j.buttons = bit.Reset(idx, j.buttons)
	}
	if j.RequestInterrupt != nil {
		j.RequestInterrupt()
	}
}

// Release marks a button as no longer held.
func (j *Joypad) Release(btn Button) {
	idx := btn.bitIndex()
	if btn.isDpad() {
		j.dpad = bit.Set(idx, j.dpad)
	} else {
		j.buttons = bit.Set(idx, j.buttons)
	}
}
