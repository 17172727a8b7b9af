// Package memory implements the DMG address bus: it decodes the full
// 16-bit address space and routes each access to the cartridge, PPU,
// timer, joypad, serial port or one of the flat RAM regions, and fans
// every peripheral's interrupt request into the shared IF register.
package memory

import (
	"github.com/tambler/gbcore/addr"
	"github.com/tambler/gbcore/cartridge"
	"github.com/tambler/gbcore/joypad"
	"github.com/tambler/gbcore/ppu"
	"github.com/tambler/gbcore/serial"
	"github.com/tambler/gbcore/timer"
)

const (
	wramSize = 0x2000
	hramSize = 0x7F
	oamDMALength = 0xA0
)

// MMU is the DMG memory bus. It owns WRAM/HRAM directly and holds
// references to the peripherals that own the rest of the map.
type MMU struct {
	Cart   cartridge.MBC
	PPU    *ppu.PPU
	Timer  *timer.Timer
	Joypad *joypad.Joypad
	Serial *serial.Port

	wram [wramSize]byte
	hram [hramSize]byte

	audio [addr.WaveEnd - addr.AudioStart + 1]byte // 0xFF10-0xFF3F, unimplemented synthesis

	ifReg uint8
	ieReg uint8
}

// New wires an MMU around the given cartridge and peripherals, fanning
// each one's interrupt requests into the shared IF register.
func New(cart cartridge.MBC, p *ppu.PPU, t *timer.Timer, j *joypad.Joypad, s *serial.Port) *MMU {
	m := &MMU{Cart: cart, PPU: p, Timer: t, Joypad: j, Serial: s}

	p.RequestInterrupt = m.requestInterrupt
	t.RequestInterrupt = func() { m.requestInterrupt(addr.TimerInterrupt) }
	j.RequestInterrupt = func() { m.requestInterrupt(addr.JoypadInterrupt) }
	if s != nil {
		s.RequestInterrupt = func() { m.requestInterrupt(addr.SerialInterrupt) }
	}

	return m
}

func (m *MMU) requestInterrupt(i addr.Interrupt) {
	m.ifReg |= 1 << i.Bit()
}

// PendingInterrupts returns the bits common to IF and IE: the interrupts
// that are both requested and enabled.
func (m *MMU) PendingInterrupts() uint8 {
	return m.ifReg & m.ieReg & 0x1F
}

// ClearInterrupt clears i's bit in IF, called once the CPU services it.
func (m *MMU) ClearInterrupt(i addr.Interrupt) {
	m.ifReg &^= 1 << i.Bit()
}

// ReadByte reads a single byte from the full 16-bit address space.
func (m *MMU) ReadByte(a uint16) uint8 {
	switch {
	case a <= 0x7FFF:
		return m.Cart.ReadByte(a)
	case a >= addr.VRAMStart && a <= addr.VRAMEnd:
		return m.PPU.ReadVRAM(a)
	case a >= 0xA000 && a <= 0xBFFF:
		return m.Cart.ReadByte(a)
	case a >= 0xC000 && a <= 0xDFFF:
		return m.wram[a-0xC000]
	case a >= 0xE000 && a <= 0xFDFF:
		return m.wram[a-0xE000]
	case a >= addr.OAMStart && a <= addr.OAMEnd:
		return m.PPU.ReadOAM(a)
	case a >= 0xFEA0 && a <= 0xFEFF:
		return 0xFF
	case a == addr.P1:
		return m.Joypad.Read()
	case a == addr.SB || a == addr.SC:
		return m.Serial.Read(a)
	case a == addr.DIV || a == addr.TIMA || a == addr.TMA || a == addr.TAC:
		return m.Timer.Read(a)
	case a == addr.IF:
		return 0xE0 | m.ifReg
	case a >= addr.AudioStart && a <= addr.WaveEnd:
		return m.audio[a-addr.AudioStart]
	case a == addr.DMA:
		return 0xFF
	case a >= addr.LCDC && a <= addr.WX:
		return m.PPU.ReadRegister(a)
	case a >= 0xFF4C && a <= 0xFF7F:
		return 0xFF // unmapped I/O
	case a >= 0xFF80 && a <= 0xFFFE:
		return m.hram[a-0xFF80]
	case a == addr.IE:
		return m.ieReg
	default:
		return 0xFF
	}
}

// WriteByte writes a single byte to the full 16-bit address space.
func (m *MMU) WriteByte(a uint16, v uint8) {
	switch {
	case a <= 0x7FFF:
		m.Cart.WriteByte(a, v)
	case a >= addr.VRAMStart && a <= addr.VRAMEnd:
		m.PPU.WriteVRAM(a, v)
	case a >= 0xA000 && a <= 0xBFFF:
		m.Cart.WriteByte(a, v)
	case a >= 0xC000 && a <= 0xDFFF:
		m.wram[a-0xC000] = v
	case a >= 0xE000 && a <= 0xFDFF:
		m.wram[a-0xE000] = v
	case a >= addr.OAMStart && a <= addr.OAMEnd:
		m.PPU.WriteOAM(a, v)
	case a >= 0xFEA0 && a <= 0xFEFF:
		// unmapped; writes ignored
	case a == addr.P1:
		m.Joypad.Write(v)
	case a == addr.SB || a == addr.SC:
		m.Serial.Write(a, v)
	case a == addr.DIV || a == addr.TIMA || a == addr.TMA || a == addr.TAC:
		m.Timer.Write(a, v)
	case a == addr.IF:
		m.ifReg = v & 0x1F
	case a >= addr.AudioStart && a <= addr.WaveEnd:
		m.audio[a-addr.AudioStart] = v
	case a == addr.DMA:
		m.doDMA(v)
	case a >= addr.LCDC && a <= addr.WX:
		m.PPU.WriteRegister(a, v)
	case a >= 0xFF4C && a <= 0xFF7F:
		// unmapped I/O; ignored
	case a >= 0xFF80 && a <= 0xFFFE:
		m.hram[a-0xFF80] = v
	case a == addr.IE:
		m.ieReg = v
	}
}

// doDMA performs the synchronous 160-byte OAM transfer from source page
// (v << 8) triggered by a DMA register write. Real hardware takes 160
// M-cycles and blocks most bus access during the copy; this emulator
// does not model that stall.
func (m *MMU) doDMA(v uint8) {
	src := uint16(v) << 8
	for i := uint16(0); i < oamDMALength; i++ {
		m.PPU.WriteOAM(addr.OAMStart+i, m.ReadByte(src+i))
	}
}

// ReadWord reads a little-endian 16-bit value.
func (m *MMU) ReadWord(a uint16) uint16 {
	lo := uint16(m.ReadByte(a))
	hi := uint16(m.ReadByte(a + 1))
	return lo | hi<<8
}

// WriteWord writes a little-endian 16-bit value.
func (m *MMU) WriteWord(a uint16, v uint16) {
	m.WriteByte(a, uint8(v))
	m.WriteByte(a+1, uint8(v>>8))
}

// Tick advances the PPU and timer by cycles T-cycles, keeping the video
// and timing subsystems in lockstep with CPU execution.
func (m *MMU) Tick(cycles int) {
	m.PPU.Tick(cycles)
	m.Timer.Tick(cycles)
}
