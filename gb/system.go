// Package gb wires the cartridge, CPU, memory bus, PPU, timer, joypad and
// serial port together into a runnable DMG system.
package gb

import (
	"fmt"
	"log/slog"

	"github.com/tambler/gbcore/cartridge"
	"github.com/tambler/gbcore/cpu"
	"github.com/tambler/gbcore/joypad"
	"github.com/tambler/gbcore/memory"
	"github.com/tambler/gbcore/ppu"
	"github.com/tambler/gbcore/serial"
	"github.com/tambler/gbcore/timer"
)

const cyclesPerFrame = 70224

// System is the root emulator: one CPU, one bus, and the peripherals
// hanging off it.
type System struct {
	cpu    *cpu.CPU
	mmu    *memory.MMU
	ppu    *ppu.PPU
	timer  *timer.Timer
	joypad *joypad.Joypad
	serial *serial.Port

	header cartridge.Header
}

// New builds a System from a raw ROM image, using sink to receive bytes
// written over the serial port (nil discards them).
func New(rom []byte, sink serial.Sink) (*System, error) {
	header, err := cartridge.ParseHeader(rom)
	if err != nil {
		return nil, fmt.Errorf("gb: %w", err)
	}

	mbc, err := cartridge.New(header, rom)
	if err != nil {
		return nil, fmt.Errorf("gb: %w", err)
	}

	s := &System{
		ppu:    ppu.New(),
		timer:  timer.New(),
		joypad: joypad.New(),
		serial: serial.New(sink),
		header: header,
	}
	s.mmu = memory.New(mbc, s.ppu, s.timer, s.joypad, s.serial)
	s.cpu = cpu.New(s.mmu)

	slog.Info("loaded cartridge", "title", header.Title, "kind", header.Kind, "ram_banks", header.RAMBankCount)

	return s, nil
}

// Header returns the cartridge's parsed header.
func (s *System) Header() cartridge.Header {
	return s.header
}

// Tick executes one CPU instruction (or one idle halted cycle) and
// advances the PPU/timer in lockstep, returning the T-cycle cost.
func (s *System) Tick() int {
	cycles := s.cpu.Step()
	s.mmu.Tick(cycles)
	return cycles
}

// RunFrame runs instructions until at least one full frame (70224
// T-cycles) worth of time has passed.
func (s *System) RunFrame() {
	total := 0
	for total < cyclesPerFrame {
		total += s.Tick()
	}
}

// PixelData returns the last published frame as 160*144*4 RGBA8888 bytes.
func (s *System) PixelData() []byte {
	return s.ppu.PixelData()
}

// OnButtonPress marks btn held and raises the joypad interrupt.
func (s *System) OnButtonPress(btn joypad.Button) {
	s.joypad.Press(btn)
}

// OnButtonRelease marks btn released.
func (s *System) OnButtonRelease(btn joypad.Button) {
	s.joypad.Release(btn)
}
