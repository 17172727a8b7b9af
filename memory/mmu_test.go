package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tambler/gbcore/addr"
	"github.com/tambler/gbcore/cartridge"
	"github.com/tambler/gbcore/joypad"
	"github.com/tambler/gbcore/ppu"
	"github.com/tambler/gbcore/serial"
	"github.com/tambler/gbcore/timer"
)

func newTestMMU(t *testing.T) *MMU {
	t.Helper()
	rom := make([]byte, 0x8000)
	h, err := cartridge.ParseHeader(rom)
	require.NoError(t, err)
	cart, err := cartridge.New(h, rom)
	require.NoError(t, err)
	return New(cart, ppu.New(), timer.New(), joypad.New(), serial.New(nil))
}

func TestWRAMEchoMirror(t *testing.T) {
	m := newTestMMU(t)
	m.WriteByte(0xC010, 0x42)
	assert.Equal(t, uint8(0x42), m.ReadByte(0xE010))

	m.WriteByte(0xE020, 0x99)
	assert.Equal(t, uint8(0x99), m.ReadByte(0xC020))
}

func TestUnmappedOAMGapReadsFF(t *testing.T) {
	m := newTestMMU(t)
	assert.Equal(t, uint8(0xFF), m.ReadByte(0xFEA5))
}

func TestIFReadForcesUpperBitsHigh(t *testing.T) {
	m := newTestMMU(t)
	m.WriteByte(addr.IF, 0x01)
	assert.Equal(t, uint8(0xE1), m.ReadByte(addr.IF))
}

func TestTimerInterruptReachesIF(t *testing.T) {
	m := newTestMMU(t)
	m.WriteByte(addr.IE, 0xFF)
	m.Timer.Write(addr.TAC, 0x05) // enabled, freq=16
	m.Timer.Write(addr.TMA, 0)
	for i := 0; i < 256; i++ {
		m.Tick(16)
	}
	assert.NotZero(t, m.PendingInterrupts()&(1<<addr.TimerInterrupt.Bit()), "expected timer interrupt pending after TIMA overflow")
}

func TestDMACopiesFromSourcePageToOAM(t *testing.T) {
	m := newTestMMU(t)
	for i := uint16(0); i < 0xA0; i++ {
		m.WriteByte(0xC100+i, uint8(i))
	}
	m.WriteByte(addr.DMA, 0xC1)

	for i := uint16(0); i < 0xA0; i++ {
		assert.Equal(t, uint8(i), m.PPU.ReadOAM(addr.OAMStart+i))
	}
}

func TestClearInterruptClearsOnlyThatBit(t *testing.T) {
	m := newTestMMU(t)
	m.requestInterrupt(addr.VBlankInterrupt)
	m.requestInterrupt(addr.TimerInterrupt)
	m.ClearInterrupt(addr.VBlankInterrupt)

	assert.Zero(t, m.ifReg&(1<<addr.VBlankInterrupt.Bit()), "VBlank bit should be cleared")
	assert.NotZero(t, m.ifReg&(1<<addr.TimerInterrupt.Bit()), "Timer bit should remain set")
}

func TestJoypadPressReachesIF(t *testing.T) {
	m := newTestMMU(t)
	m.WriteByte(addr.IE, 0xFF)
	m.Joypad.Press(joypad.Start)
	assert.NotZero(t, m.PendingInterrupts()&(1<<addr.JoypadInterrupt.Bit()), "expected joypad interrupt pending after Press")
}
