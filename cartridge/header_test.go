package cartridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeHeaderROM(cartType, ramSize byte, title string) []byte {
	rom := make([]byte, 0x150)
	copy(rom[titleAddress:titleEnd], title)
	rom[cartridgeTypeAddress] = cartType
	rom[ramSizeAddress] = ramSize
	return rom
}

func TestParseHeaderNoMBC(t *testing.T) {
	rom := makeHeaderROM(0x00, 0x00, "TETRIS")
	h, err := ParseHeader(rom)
	require.NoError(t, err)
	assert.Equal(t, KindNoMBC, h.Kind)
	assert.Equal(t, "TETRIS", h.Title)
}

func TestParseHeaderMBC1(t *testing.T) {
	rom := makeHeaderROM(0x03, 0x02, "ZELDA")
	h, err := ParseHeader(rom)
	require.NoError(t, err)
	assert.Equal(t, KindMBC1, h.Kind)
	assert.True(t, h.HasBattery)
	assert.Equal(t, 1, h.RAMBankCount)
}

func TestParseHeaderMBC3WithRTC(t *testing.T) {
	rom := makeHeaderROM(0x10, 0x03, "POKEMON")
	h, err := ParseHeader(rom)
	require.NoError(t, err)
	assert.Equal(t, KindMBC3, h.Kind)
	assert.True(t, h.HasRTC)
	assert.Equal(t, 4, h.RAMBankCount)
}

func TestParseHeaderRAMSize64Banks(t *testing.T) {
	rom := makeHeaderROM(0x13, 0x05, "MEGAMAN")
	h, err := ParseHeader(rom)
	require.NoError(t, err)
	assert.Equal(t, 64, h.RAMBankCount)
}

func TestParseHeaderUnsupportedCartridgeType(t *testing.T) {
	rom := makeHeaderROM(0xFF, 0x00, "BAD")
	_, err := ParseHeader(rom)
	assert.Error(t, err)
}

func TestParseHeaderUndefinedRAMSize(t *testing.T) {
	rom := makeHeaderROM(0x03, 0x01, "BAD")
	_, err := ParseHeader(rom)
	assert.Error(t, err)
}

func TestParseHeaderTruncatedROM(t *testing.T) {
	_, err := ParseHeader(make([]byte, 0x10))
	assert.Error(t, err)
}
