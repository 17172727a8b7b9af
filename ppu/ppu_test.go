package ppu

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tambler/gbcore/addr"
)

func TestComposePixelsMatchesKnownVectors(t *testing.T) {
	cases := []struct {
		low, high uint8
		want      uint16
	}{
		{0x3C, 0x7E, 0b0010111111111000},
		{0x42, 0x42, 0b0011000000001100},
		{0x7E, 0x5E, 0b0011011111111100},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ComposePixels(c.low, c.high))
	}
}

func TestModeCyclesOAMVRAMHBlankThenNextLine(t *testing.T) {
	p := New()
	assert.Equal(t, VBlank, p.mode, "expected PPU to power on mid-VBlank before first enable tick")

	p.WriteRegister(addr.LCDC, 0x80) // LCD on only

	p.mode = OAMScan
	p.modeClock = 0
	p.ly = 0

	p.Tick(oamCycles)
	assert.Equal(t, VRAMTransfer, p.mode)

	p.Tick(vramCycles)
	assert.Equal(t, HBlank, p.mode)

	p.Tick(hblankCycles)
	assert.Equal(t, OAMScan, p.mode)
	assert.Equal(t, uint8(1), p.ly)
}

func TestFullFrameTakes70224CyclesAndFiresVBlank(t *testing.T) {
	p := New()
	p.WriteRegister(addr.LCDC, 0x80)
	p.mode = OAMScan
	p.modeClock = 0
	p.ly = 0

	fired := 0
	p.RequestInterrupt = func(i addr.Interrupt) {
		if i == addr.VBlankInterrupt {
			fired++
		}
	}

	remaining := frameCycles
	for remaining > 0 {
		step := 4
		if step > remaining {
			step = remaining
		}
		p.Tick(step)
		remaining -= step
	}

	assert.Equal(t, 1, fired, "vblank should fire exactly once per frame")
	assert.Zero(t, p.ly, "ly should wrap to 0 after a full frame")
}

func TestLYCEqualRaisesStatWhenEnabled(t *testing.T) {
	p := New()
	p.WriteRegister(addr.LYC, 5)
	p.WriteRegister(addr.STAT, 1<<statLYCIrq)

	fired := 0
	p.RequestInterrupt = func(i addr.Interrupt) {
		if i == addr.LCDSTATInterrupt {
			fired++
		}
	}

	p.setLY(5)
	assert.Equal(t, 1, fired, "expected one LCDSTAT irq on LY=LYC")
	assert.NotZero(t, p.ReadRegister(addr.STAT)&(1<<statLYCEqual), "expected LYC-equal bit set in STAT")
}

func TestDisablingLCDResetsLYAndMode(t *testing.T) {
	p := New()
	p.WriteRegister(addr.LCDC, 0x80)
	p.ly = 80
	p.mode = VRAMTransfer

	p.WriteRegister(addr.LCDC, 0x00)

	assert.Zero(t, p.ly, "ly should reset after LCD disable")
	assert.Equal(t, HBlank, p.mode)
}

func TestDrawBackgroundUsesBGP(t *testing.T) {
	p := New()
	p.WriteRegister(addr.LCDC, 0x91) // LCD on, BG on, unsigned tile data, map 0x9800
	p.WriteRegister(addr.BGP, 0xE4)  // identity palette: 3,2,1,0

	// Tile 0 at VRAM 0x8000: a row that is all color index 3.
	p.WriteVRAM(0x8000, 0xFF)
	p.WriteVRAM(0x8001, 0xFF)
	// Tile map entry (0,0) -> tile 0. Map defaults to zero already.

	p.ly = 0
	p.renderScanline()

	assert.Equal(t, uint8(3), p.bgIndex[0])
	assert.Equal(t, rgba[Black], [4]byte(p.frame[0:4]))
}

func TestSpriteColorZeroIsTransparent(t *testing.T) {
	p := New()
	p.WriteRegister(addr.LCDC, 0x83) // LCD on, BG on, sprites on
	p.WriteRegister(addr.OBP0, 0xE4)

	// Tile 1 all-zero bitplanes -> every pixel is color index 0.
	p.WriteVRAM(0x8010, 0x00)
	p.WriteVRAM(0x8011, 0x00)

	p.oam[0] = 16 // Y=0
	p.oam[1] = 8  // X=0
	p.oam[2] = 1  // tile 1
	p.oam[3] = 0  // flags

	p.ly = 0
	p.frame[0], p.frame[1], p.frame[2], p.frame[3] = 0x11, 0x22, 0x33, 0x44
	p.drawSprites()

	assert.Equal(t, uint8(0x11), p.frame[0], "sprite with color index 0 should not overwrite background pixel")
}
