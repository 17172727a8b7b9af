package testrom

import (
	"fmt"

	"github.com/tambler/gbcore/addr"
	"github.com/tambler/gbcore/cpu"
)

// flatBus is a 64KB address space with no pending interrupts, matching
// what the single-step corpus assumes: each vector exercises exactly one
// instruction fetch/execute cycle in isolation.
type flatBus struct {
	mem [0x10000]byte
}

func (b *flatBus) ReadByte(a uint16) uint8     { return b.mem[a] }
func (b *flatBus) WriteByte(a uint16, v uint8) { b.mem[a] = v }

func (b *flatBus) ReadWord(a uint16) uint16 {
	return uint16(b.mem[a]) | uint16(b.mem[a+1])<<8
}

func (b *flatBus) WriteWord(a uint16, v uint16) {
	b.mem[a] = uint8(v)
	b.mem[a+1] = uint8(v >> 8)
}

func (b *flatBus) PendingInterrupts() uint8        { return 0 }
func (b *flatBus) ClearInterrupt(i addr.Interrupt) {}

func loadState(c *cpu.CPU, bus *flatBus, s State) {
	c.Reg.PC = s.PC
	c.Reg.SP = s.SP
	c.Reg.SetAF(uint16(s.A)<<8 | uint16(s.F))
	c.Reg.SetBC(uint16(s.B)<<8 | uint16(s.C))
	c.Reg.SetDE(uint16(s.D)<<8 | uint16(s.E))
	c.Reg.SetHL(uint16(s.H)<<8 | uint16(s.L))
	c.SetIME(s.IME != 0)

	for _, e := range s.RAM {
		bus.mem[uint16(e[0])] = uint8(e[1])
	}
}

// Run executes a vector's single instruction and returns a description of
// every post-state field that didn't match, or nil if it's a full match.
func Run(v Vector) []string {
	bus := &flatBus{}
	c := cpu.New(bus)
	loadState(c, bus, v.Initial)

	c.Step()

	var mismatches []string
	check := func(field string, got, want uint16) {
		if got != want {
			mismatches = append(mismatches, fmt.Sprintf("%s = %#04x, want %#04x", field, got, want))
		}
	}

	check("PC", c.Reg.PC, v.Final.PC)
	check("SP", c.Reg.SP, v.Final.SP)
	check("A", uint16(c.Reg.A), uint16(v.Final.A))
	check("B", uint16(c.Reg.B), uint16(v.Final.B))
	check("C", uint16(c.Reg.C), uint16(v.Final.C))
	check("D", uint16(c.Reg.D), uint16(v.Final.D))
	check("E", uint16(c.Reg.E), uint16(v.Final.E))
	check("F", uint16(c.Reg.F), uint16(v.Final.F))
	check("H", uint16(c.Reg.H), uint16(v.Final.H))
	check("L", uint16(c.Reg.L), uint16(v.Final.L))

	gotIME := uint16(0)
	if c.IME() {
		gotIME = 1
	}
	check("IME", gotIME, uint16(v.Final.IME))

	for _, e := range v.Final.RAM {
		addr16 := uint16(e[0])
		want := uint8(e[1])
		if got := bus.mem[addr16]; got != want {
			mismatches = append(mismatches, fmt.Sprintf("RAM[%#04x] = %#02x, want %#02x", addr16, got, want))
		}
	}

	return mismatches
}
