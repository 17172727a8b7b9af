package cartridge

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func makeROM(size int, fill func(rom []byte)) []byte {
	rom := make([]byte, size)
	if fill != nil {
		fill(rom)
	}
	return rom
}

func TestNoMBCDirectIndexing(t *testing.T) {
	rom := makeROM(0x8000, func(rom []byte) { rom[0x4000] = 0xAB })
	m := newNoMBC(rom)

	assert.Equal(t, uint8(0xAB), m.ReadByte(0x4000))
	assert.Zero(t, m.ReadByte(0xA000), "fresh RAM should read 0")

	m.WriteByte(0xA001, 0x42)
	assert.Equal(t, uint8(0x42), m.ReadByte(0xA001))
}

func TestMBC1RAMDisabledReturnsFF(t *testing.T) {
	rom := makeROM(0x8000, nil)
	m := newMBC1(rom, 1)

	assert.Equal(t, uint8(0xFF), m.ReadByte(0xA000), "disabled RAM should read 0xFF")

	m.WriteByte(0x0000, 0x0A) // enable
	m.WriteByte(0xA000, 0x55)
	assert.Equal(t, uint8(0x55), m.ReadByte(0xA000))

	m.WriteByte(0x0000, 0x00) // disable
	assert.Equal(t, uint8(0xFF), m.ReadByte(0xA000))
}

func TestMBC1ROMBankZeroMapsToOne(t *testing.T) {
	rom := makeROM(0x4000*3, func(rom []byte) {
		rom[0x4000] = 1 // bank 1
		rom[0x8000] = 2 // bank 2
	})
	m := newMBC1(rom, 0)

	m.WriteByte(0x2000, 0x00) // requests bank 0, should map to 1
	assert.Equal(t, uint8(1), m.ReadByte(0x4000), "bank 0 should alias to bank 1")

	m.WriteByte(0x2000, 0x02)
	assert.Equal(t, uint8(2), m.ReadByte(0x4000))
}

func TestMBC1AdvancedModeRAMBanking(t *testing.T) {
	rom := makeROM(0x4000*4, nil)
	m := newMBC1(rom, 4)

	m.WriteByte(0x0000, 0x0A)
	m.WriteByte(0x6000, 0x01) // advanced mode
	m.WriteByte(0x4000, 0x02) // ram bank 2
	m.WriteByte(0xA010, 0x99)

	m.WriteByte(0x4000, 0x00) // switch to ram bank 0
	assert.NotEqual(t, uint8(0x99), m.ReadByte(0xA010), "bank 0 should not alias bank 2's data")

	m.WriteByte(0x4000, 0x02)
	assert.Equal(t, uint8(0x99), m.ReadByte(0xA010), "bank 2 data lost")
}

func TestMBC3RTCLatchOnlyOnTransition(t *testing.T) {
	rom := makeROM(0x4000*2, nil)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := start
	now := func() time.Time { return tick }

	m := newMBC3(rom, 1, true, now)
	m.WriteByte(0x0000, 0x0A) // enable
	m.WriteByte(0x4000, rtcSeconds)

	tick = start.Add(5 * time.Second)
	m.WriteByte(0x6000, 0x00)
	m.WriteByte(0x6000, 0x01) // 0->1 transition latches
	assert.Equal(t, uint8(5), m.ReadByte(0xA000))

	tick = start.Add(50 * time.Second)
	// writing 0x01 again (already 1, not a transition) must not re-latch
	m.WriteByte(0x6000, 0x01)
	assert.Equal(t, uint8(5), m.ReadByte(0xA000), "latch should not update without a 0->1 transition")

	m.WriteByte(0x6000, 0x00)
	m.WriteByte(0x6000, 0x01)
	assert.Equal(t, uint8(50), m.ReadByte(0xA000), "expected latched seconds after a fresh transition")
}

func TestMBC3RTCHaltFreezesClock(t *testing.T) {
	rom := makeROM(0x4000*2, nil)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := start
	now := func() time.Time { return tick }

	m := newMBC3(rom, 1, true, now)
	m.WriteByte(0x0000, 0x0A)
	m.WriteByte(0x4000, rtcDayHigh)
	m.WriteByte(0xA000, dayHighHaltBit) // halt

	tick = start.Add(time.Hour)
	m.WriteByte(0x4000, rtcSeconds)
	m.WriteByte(0x6000, 0x00)
	m.WriteByte(0x6000, 0x01)
	assert.Zero(t, m.ReadByte(0xA000), "halted clock must not advance")
}
