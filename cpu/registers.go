// Package cpu implements the SM83 CPU core: its register file, ALU flag
// rules, the full unprefixed and CB-prefixed instruction set, and
// interrupt servicing.
package cpu

// Flag bit masks within F, the low byte of AF. F's low nibble is
// always zero; only the top four bits carry meaning.
const (
	FlagZ uint8 = 0x80 // zero
	FlagN uint8 = 0x40 // subtract
	FlagH uint8 = 0x20 // half-carry
	FlagC uint8 = 0x10 // carry
)

// Registers holds the SM83's eight 8-bit registers plus SP and PC. A/F,
// B/C, D/E and H/L are also addressable as the paired 16-bit registers
// AF, BC, DE and HL.
type Registers struct {
	A, F uint8
	B, C uint8
	D, E uint8
	H, L uint8

	SP, PC uint16
}

func (r *Registers) AF() uint16 { return uint16(r.A)<<8 | uint16(r.F) }
func (r *Registers) BC() uint16 { return uint16(r.B)<<8 | uint16(r.C) }
func (r *Registers) DE() uint16 { return uint16(r.D)<<8 | uint16(r.E) }
func (r *Registers) HL() uint16 { return uint16(r.H)<<8 | uint16(r.L) }

func (r *Registers) SetAF(v uint16) {
	r.A = uint8(v >> 8)
	r.F = uint8(v) & 0xF0
}

func (r *Registers) SetBC(v uint16) {
	r.B = uint8(v >> 8)
	r.C = uint8(v)
}

func (r *Registers) SetDE(v uint16) {
	r.D = uint8(v >> 8)
	r.E = uint8(v)
}

func (r *Registers) SetHL(v uint16) {
	r.H = uint8(v >> 8)
	r.L = uint8(v)
}

// SetFlag sets or clears the given flag bit, leaving the others untouched.
func (r *Registers) SetFlag(mask uint8, on bool) {
	if on {
		r.F |= mask
	} else {
		r.F &^= mask
	}
	r.F &= 0xF0
}

// Flag reports whether the given flag bit is set.
func (r *Registers) Flag(mask uint8) bool {
	return r.F&mask != 0
}
