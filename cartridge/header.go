package cartridge

import (
	"fmt"
	"strings"
)

const (
	titleAddress         = 0x0134
	titleEnd             = 0x0143
	cgbFlagAddress       = 0x0143
	cartridgeTypeAddress = 0x0147
	romSizeAddress       = 0x0148
	ramSizeAddress       = 0x0149
	headerChecksumAddr   = 0x014D
)

// Kind identifies which memory bank controller a cartridge type byte maps to.
type Kind uint8

const (
	KindNoMBC Kind = iota
	KindMBC1
	KindMBC3
)

// Header holds the parsed metadata from a ROM's 0x0100-0x014F header block.
type Header struct {
	Title          string
	CartridgeType  uint8
	Kind           Kind
	HasRAM         bool
	HasBattery     bool
	HasRTC         bool
	RAMBankCount   int
	HeaderChecksum uint8
}

// ParseHeader reads and validates the header fields of a raw ROM image.
// It returns an error for truncated images, or cartridge types / RAM-size
// codes this emulator does not support.
func ParseHeader(rom []byte) (Header, error) {
	if len(rom) < 0x150 {
		return Header{}, fmt.Errorf("cartridge: ROM too short to contain a header (%d bytes)", len(rom))
	}

	h := Header{
		Title:          cleanTitle(rom[titleAddress:titleEnd]),
		CartridgeType:  rom[cartridgeTypeAddress],
		HeaderChecksum: rom[headerChecksumAddr],
	}

	switch h.CartridgeType {
	case 0x00:
		h.Kind = KindNoMBC
	case 0x01, 0x02, 0x03:
		h.Kind = KindMBC1
		h.HasRAM = h.CartridgeType != 0x01
		h.HasBattery = h.CartridgeType == 0x03
	case 0x0F, 0x10, 0x11, 0x12, 0x13:
		h.Kind = KindMBC3
		h.HasRTC = h.CartridgeType == 0x0F || h.CartridgeType == 0x10
		h.HasRAM = h.CartridgeType == 0x10 || h.CartridgeType == 0x12 || h.CartridgeType == 0x13
		h.HasBattery = h.CartridgeType == 0x0F || h.CartridgeType == 0x10 || h.CartridgeType == 0x13
	default:
		return Header{}, fmt.Errorf("cartridge: unsupported cartridge type 0x%02X", h.CartridgeType)
	}

	banks, err := ramBankCount(rom[ramSizeAddress])
	if err != nil {
		return Header{}, err
	}
	h.RAMBankCount = banks

	return h, nil
}

// ramBankCount maps the header's RAM-size code to a count of 8 KiB banks.
func ramBankCount(code uint8) (int, error) {
	switch code {
	case 0x00:
		return 0, nil
	case 0x02:
		return 1, nil
	case 0x03:
		return 4, nil
	case 0x04:
		return 16, nil
	case 0x05:
		return 64, nil
	default:
		return 0, fmt.Errorf("cartridge: undefined RAM-size code 0x%02X", code)
	}
}

// cleanTitle converts a raw title block into a printable string: NUL bytes
// become the field terminator, trailing padding is trimmed.
func cleanTitle(raw []byte) string {
	n := len(raw)
	for i, b := range raw {
		if b == 0 {
			n = i
			break
		}
	}
	return strings.TrimSpace(string(raw[:n]))
}
