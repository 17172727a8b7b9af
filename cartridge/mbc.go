// Package cartridge implements ROM header parsing and the three memory bank
// controller variants this emulator supports: NoMBC, MBC1 and MBC3 (with
// real-time clock). Each MBC owns its ROM/RAM byte slices and bank-select
// state, and is addressed through the common MBC interface.
package cartridge

import "time"

// MBC is the common contract every memory bank controller satisfies.
// addr is always in 0x0000..=0x7FFF (ROM window) or 0xA000..=0xBFFF (RAM/RTC
// window); the MMU never routes other addresses here.
type MBC interface {
	ReadByte(addr uint16) uint8
	WriteByte(addr uint16, value uint8)
}

// New constructs the MBC variant described by h, wrapping romData.
func New(h Header, romData []byte) (MBC, error) {
	switch h.Kind {
	case KindNoMBC:
		return newNoMBC(romData), nil
	case KindMBC1:
		return newMBC1(romData, h.RAMBankCount), nil
	case KindMBC3:
		return newMBC3(romData, h.RAMBankCount, h.HasRTC, time.Now), nil
	default:
		panic("cartridge: unknown MBC kind")
	}
}

// noMBC is a fixed 32 KiB ROM (+ optional 8 KiB RAM) with no bank switching.
type noMBC struct {
	rom []byte
	ram []byte
}

func newNoMBC(rom []byte) *noMBC {
	return &noMBC{rom: rom, ram: make([]byte, 0x2000)}
}

func (m *noMBC) ReadByte(a uint16) uint8 {
	switch {
	case a <= 0x7FFF:
		if int(a) < len(m.rom) {
			return m.rom[a]
		}
		return 0xFF
	case a >= 0xA000 && a <= 0xBFFF:
		return m.ram[a-0xA000]
	default:
		return 0xFF
	}
}

func (m *noMBC) WriteByte(a uint16, v uint8) {
	if a >= 0xA000 && a <= 0xBFFF {
		m.ram[a-0xA000] = v
	}
	// writes to the ROM window are silently ignored: no banking hardware to drive.
}
