// Package ppu implements the DMG picture processing unit: VRAM/OAM storage,
// the OAM/VRAM/HBlank/VBlank mode state machine, and the background/window/
// sprite scanline renderer that produces a 160x144 RGBA8888 framebuffer.
package ppu

import (
	"github.com/tambler/gbcore/addr"
	"github.com/tambler/gbcore/bit"
)

// Mode is the PPU's current rendering stage, matching STAT bits 1-0.
type Mode uint8

const (
	HBlank Mode = 0
	VBlank Mode = 1
	OAMScan Mode = 2
	VRAMTransfer Mode = 3
)

const (
	Width  = 160
	Height = 144

	oamCycles    = 80
	vramCycles   = 172
	hblankCycles = 204
	scanlineCycles = oamCycles + vramCycles + hblankCycles // 456
	vblankLines    = 10
	frameCycles    = scanlineCycles * (Height + vblankLines) // 70224
)

// LCDC bit positions.
const (
	lcdcEnable        = 7
	lcdcWindowTileMap = 6
	lcdcWindowEnable  = 5
	lcdcTileData      = 4
	lcdcBGTileMap     = 3
	lcdcSpriteSize    = 2
	lcdcSpriteEnable  = 1
	lcdcBGEnable      = 0
)

// STAT bit positions.
const (
	statLYCIrq    = 6
	statOAMIrq    = 5
	statVBlankIrq = 4
	statHBlankIrq = 3
	statLYCEqual  = 2
)

// PPU holds VRAM/OAM storage, register state and the two framebuffers
// (working `frame`, published `display`).
type PPU struct {
	vram [0x2000]byte
	oam  [0xA0]byte

	lcdc, stat, scy, scx, ly, lyc, bgp, obp0, obp1, wy, wx uint8

	mode       Mode
	modeClock  int
	windowLine int

	frame, display [Width * Height * 4]byte
	bgIndex        [Width * Height]uint8 // color index 0-3 of the last BG/window pixel drawn, for sprite priority

	// RequestInterrupt is called by the PPU to raise VBlank/LCDSTAT. Wired
	// by the MMU.
	RequestInterrupt func(addr.Interrupt)
}

// New returns a PPU reset to its post-power-on VBlank state.
func New() *PPU {
	return &PPU{mode: VBlank, ly: 0}
}

func (p *PPU) lcdEnabled() bool {
	return bit.IsSet(lcdcEnable, p.lcdc)
}

// Tick advances the PPU's mode state machine by cycles T-cycles, rendering
// a scanline when the VRAM->HBlank transition occurs.
func (p *PPU) Tick(cycles int) {
	if !p.lcdEnabled() {
		return
	}

	p.modeClock += cycles

	switch p.mode {
	case OAMScan:
		if p.modeClock >= oamCycles {
			p.modeClock -= oamCycles
			p.setMode(VRAMTransfer)
		}
	case VRAMTransfer:
		if p.modeClock >= vramCycles {
			p.modeClock -= vramCycles
			p.renderScanline()
			p.setMode(HBlank)
		}
	case HBlank:
		if p.modeClock >= hblankCycles {
			p.modeClock -= hblankCycles
			p.setLY(p.ly + 1)
			if p.ly == Height {
				p.setMode(VBlank)
				p.publishFrame()
				p.windowLine = 0
				p.requestIrq(addr.VBlankInterrupt)
				p.maybeStatIrq(statVBlankIrq)
			} else {
				p.setMode(OAMScan)
				p.maybeStatIrq(statOAMIrq)
			}
		}
	case VBlank:
		if p.modeClock >= scanlineCycles {
			p.modeClock -= scanlineCycles
			if p.ly == Height+vblankLines-1 {
				p.setLY(0)
				p.setMode(OAMScan)
				p.maybeStatIrq(statOAMIrq)
			} else {
				p.setLY(p.ly + 1)
			}
		}
	}
}

func (p *PPU) requestIrq(i addr.Interrupt) {
	if p.RequestInterrupt != nil {
		p.RequestInterrupt(i)
	}
}

func (p *PPU) maybeStatIrq(bitIdx uint8) {
	if bit.IsSet(bitIdx, p.stat) {
		p.requestIrq(addr.LCDSTATInterrupt)
	}
}

// setMode updates STAT bits 1-0 and the current mode.
func (p *PPU) setMode(m Mode) {
	p.mode = m
	p.stat = (p.stat &^ 0x03) | uint8(m)
}

// setLY updates LY and performs the LYC comparison, which can raise
// LCDSTAT independently of mode transitions.
func (p *PPU) setLY(line int) {
	p.ly = uint8(line)
	if p.ly == p.lyc {
		p.stat = bit.Set(statLYCEqual, p.stat)
		if bit.IsSet(statLYCIrq, p.stat) {
			p.requestIrq(addr.LCDSTATInterrupt)
		}
	} else {
		p.stat = bit.Reset(statLYCEqual, p.stat)
	}
}

// publishFrame atomically copies the working buffer into the one exposed
// to the host.
func (p *PPU) publishFrame() {
	p.display = p.frame
}

// PixelData returns the last published frame as 160*144*4 RGBA8888 bytes,
// top-left origin, row-major.
func (p *PPU) PixelData() []byte {
	return p.display[:]
}

// ReadVRAM reads a byte from 0x8000-0x9FFF.
func (p *PPU) ReadVRAM(address uint16) uint8 {
	return p.vram[address-addr.VRAMStart]
}

// WriteVRAM writes a byte to 0x8000-0x9FFF.
func (p *PPU) WriteVRAM(address uint16, value uint8) {
	p.vram[address-addr.VRAMStart] = value
}

// ReadOAM reads a byte from 0xFE00-0xFE9F.
func (p *PPU) ReadOAM(address uint16) uint8 {
	return p.oam[address-addr.OAMStart]
}

// WriteOAM writes a byte to 0xFE00-0xFE9F.
func (p *PPU) WriteOAM(address uint16, value uint8) {
	p.oam[address-addr.OAMStart] = value
}

// ReadRegister reads one of the LCDC..WX PPU registers (all of
// 0xFF40-0xFF4B except DMA, which the MMU owns directly).
func (p *PPU) ReadRegister(address uint16) uint8 {
	switch address {
	case addr.LCDC:
		return p.lcdc
	case addr.STAT:
		if !p.lcdEnabled() {
			return p.stat &^ 0x03
		}
		return p.stat
	case addr.SCY:
		return p.scy
	case addr.SCX:
		return p.scx
	case addr.LY:
		return p.ly
	case addr.LYC:
		return p.lyc
	case addr.BGP:
		return p.bgp
	case addr.OBP0:
		return p.obp0
	case addr.OBP1:
		return p.obp1
	case addr.WY:
		return p.wy
	case addr.WX:
		return p.wx
	default:
		return 0xFF
	}
}

// WriteRegister writes one of the LCDC..WX PPU registers.
func (p *PPU) WriteRegister(address uint16, value uint8) {
	switch address {
	case addr.LCDC:
		wasEnabled := p.lcdEnabled()
		p.lcdc = value
		nowEnabled := p.lcdEnabled()
		if wasEnabled && !nowEnabled {
			p.mode = HBlank
			p.modeClock = 0
			p.setLY(0)
		} else if !wasEnabled && nowEnabled {
			p.mode = OAMScan
			p.modeClock = 0
			p.setLY(0)
			p.windowLine = 0
		}
	case addr.STAT:
		p.stat = (p.stat & 0x07) | (value &^ 0x07)
	case addr.SCY:
		p.scy = value
	case addr.SCX:
		p.scx = value
	case addr.LY:
		// LY is read-only on real hardware; writes are ignored.
	case addr.LYC:
		p.lyc = value
		p.setLY(int(p.ly))
	case addr.BGP:
		p.bgp = value
	case addr.OBP0:
		p.obp0 = value
	case addr.OBP1:
		p.obp1 = value
	case addr.WY:
		p.wy = value
	case addr.WX:
		p.wx = value
	}
}
