package ppu

import "github.com/tambler/gbcore/bit"

// renderScanline draws row p.ly of the working framebuffer: background,
// then window (if enabled), then sprites, per LCDC bits 0/1/5.
func (p *PPU) renderScanline() {
	if bit.IsSet(lcdcBGEnable, p.lcdc) {
		p.drawBackground()
		if bit.IsSet(lcdcWindowEnable, p.lcdc) {
			p.drawWindow()
		}
	} else {
		p.clearBGRow()
	}

	if bit.IsSet(lcdcSpriteEnable, p.lcdc) {
		p.drawSprites()
	}
}

func (p *PPU) clearBGRow() {
	row := int(p.ly) * Width
	for x := 0; x < Width; x++ {
		p.setPixel(row+x, White)
		p.bgIndex[row+x] = 0
	}
}

// tileDataBase and tileMapBase resolve the two LCDC-selected addressing
// choices shared by background and window.
func (p *PPU) tileDataBase() (base uint16, signed bool) {
	if bit.IsSet(lcdcTileData, p.lcdc) {
		return 0x8000, false
	}
	return 0x9000, true
}

func (p *PPU) bgTileMapBase() uint16 {
	if bit.IsSet(lcdcBGTileMap, p.lcdc) {
		return 0x9C00
	}
	return 0x9800
}

func (p *PPU) windowTileMapBase() uint16 {
	if bit.IsSet(lcdcWindowTileMap, p.lcdc) {
		return 0x9C00
	}
	return 0x9800
}

// tileRowAddress resolves the VRAM address of a tile row given a tile
// index byte read from a tile map, honoring signed/unsigned addressing.
func tileRowAddress(base uint16, signed bool, tileIndex uint8, rowInTile int) uint16 {
	var tileOffset int
	if signed {
		tileOffset = int(int8(tileIndex)) * 16
	} else {
		tileOffset = int(tileIndex) * 16
	}
	return uint16(int(base) + tileOffset + rowInTile*2)
}

func (p *PPU) drawBackground() {
	row := int(p.ly) * Width
	tileDataBase, signed := p.tileDataBase()
	mapBase := p.bgTileMapBase()

	bgY := (int(p.ly) + int(p.scy)) & 0xFF
	tileRow := bgY / 8
	rowInTile := bgY % 8

	for x := 0; x < Width; x++ {
		bgX := (x + int(p.scx)) & 0xFF
		tileCol := bgX / 8
		colInTile := bgX % 8

		tileIndex := p.ReadVRAM(mapBase + uint16(tileRow*32+tileCol))
		tileAddr := tileRowAddress(tileDataBase, signed, tileIndex, rowInTile)
		low := p.ReadVRAM(tileAddr)
		high := p.ReadVRAM(tileAddr + 1)

		colorIdx := pixelColorIndex(low, high, uint8(7-colInTile))
		p.setPixel(row+x, applyPalette(p.bgp, colorIdx))
		p.bgIndex[row+x] = colorIdx
	}
}

func (p *PPU) drawWindow() {
	if p.ly < p.wy {
		return
	}
	wx := int(p.wx) - 7
	if wx >= Width {
		return
	}

	row := int(p.ly) * Width
	tileDataBase, signed := p.tileDataBase()
	mapBase := p.windowTileMapBase()

	tileRow := p.windowLine / 8
	rowInTile := p.windowLine % 8

	drew := false
	for x := 0; x < Width; x++ {
		if x < wx {
			continue
		}
		winX := x - wx
		tileCol := winX / 8
		colInTile := winX % 8

		tileIndex := p.ReadVRAM(mapBase + uint16(tileRow*32+tileCol))
		tileAddr := tileRowAddress(tileDataBase, signed, tileIndex, rowInTile)
		low := p.ReadVRAM(tileAddr)
		high := p.ReadVRAM(tileAddr + 1)

		colorIdx := pixelColorIndex(low, high, uint8(7-colInTile))
		p.setPixel(row+x, applyPalette(p.bgp, colorIdx))
		p.bgIndex[row+x] = colorIdx
		drew = true
	}

	if drew {
		p.windowLine++
	}
}

// sprite is the decoded form of one 4-byte OAM entry.
type sprite struct {
	y, x  int
	tile  uint8
	flags uint8
}

func (p *PPU) spriteAt(index int) sprite {
	base := uint16(index * 4)
	return sprite{
		y:     int(p.oam[base]) - 16,
		x:     int(p.oam[base+1]) - 8,
		tile:  p.oam[base+2],
		flags: p.oam[base+3],
	}
}

// drawSprites selects up to 10 sprites intersecting the current scanline
// (in OAM order) and composites them; priority between overlapping sprites
// is OAM index alone (no X-coordinate comparison), plus the BG-priority flag.
func (p *PPU) drawSprites() {
	height := 8
	if bit.IsSet(lcdcSpriteSize, p.lcdc) {
		height = 16
	}

	row := int(p.ly) * Width
	selected := make([]sprite, 0, 10)
	for i := 0; i < 40 && len(selected) < 10; i++ {
		s := p.spriteAt(i)
		if int(p.ly) >= s.y && int(p.ly) < s.y+height {
			selected = append(selected, s)
		}
	}

	// Draw in reverse selection order so the first-selected (highest
	// priority) sprite's pixels are painted last and win ties.
	for i := len(selected) - 1; i >= 0; i-- {
		p.drawSprite(selected[i], height, row)
	}
}

func (p *PPU) drawSprite(s sprite, height, row int) {
	flipY := bit.IsSet(6, s.flags)
	flipX := bit.IsSet(5, s.flags)
	behindBG := bit.IsSet(7, s.flags)
	palette := p.obp0
	if bit.IsSet(4, s.flags) {
		palette = p.obp1
	}

	tile := s.tile
	if height == 16 {
		tile &= 0xFE
	}

	lineInSprite := int(p.ly) - s.y
	if flipY {
		lineInSprite = height - 1 - lineInSprite
	}

	tileAddr := uint16(0x8000) + uint16(tile)*16 + uint16(lineInSprite*2)
	low := p.ReadVRAM(tileAddr)
	high := p.ReadVRAM(tileAddr + 1)

	for px := 0; px < 8; px++ {
		x := s.x + px
		if x < 0 || x >= Width {
			continue
		}

		bitpos := 7 - px
		if flipX {
			bitpos = px
		}
		colorIdx := pixelColorIndex(low, high, uint8(bitpos))
		if colorIdx == 0 {
			continue // sprite color 0 is always transparent
		}
		if behindBG && p.bgIndex[row+x] != 0 {
			continue
		}

		p.setPixel(row+x, applyPalette(palette, colorIdx))
	}
}

func (p *PPU) setPixel(index int, c Color) {
	px := rgba[c]
	copy(p.frame[index*4:index*4+4], px[:])
}
