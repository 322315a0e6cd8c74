package ppu

import "GoBA/internal/io"

// spriteSizeTable[shape][size] gives (width, height) in pixels. Shape 3 is
// reserved/invalid on real hardware and degenerates to 8x8 in every slot.
var spriteSizeTable = [4][4][2]int{
	{{8, 8}, {16, 16}, {32, 32}, {64, 64}},
	{{16, 8}, {32, 8}, {32, 16}, {64, 32}},
	{{8, 16}, {8, 32}, {16, 32}, {32, 64}},
	{{8, 8}, {8, 8}, {8, 8}, {8, 8}},
}

const (
	objVRAMBase   = 0x10000
	objPaletteOff = 0x200
)

// renderSprites rasterizes scanline y of the 128-entry OAM table in
// reverse index order, so a lower OAM index wins ties at the same x
// (spec §4.3).
func (p *PPU) renderSprites(y int) {
	for x := 0; x < ScreenWidth; x++ {
		p.layerColor[layerOBJ][x] = transparent
		p.layerPriority[layerOBJ][x] = 4
	}
	if !p.LayerEnable[4] {
		return
	}
	dispcnt := p.dispcnt()
	oneDMapping := dispcnt&0x40 != 0

	for i := 127; i >= 0; i-- {
		oa := i * 8
		a0 := uint16(p.OAM[oa]) | uint16(p.OAM[oa+1])<<8
		a1 := uint16(p.OAM[oa+2]) | uint16(p.OAM[oa+3])<<8
		a2 := uint16(p.OAM[oa+4]) | uint16(p.OAM[oa+5])<<8

		if (a0>>8)&3 == 2 { // disabled (affine-disable bit pattern)
			continue
		}

		sy := int(a0 & 0xFF)
		if sy >= 160 {
			sy -= 256
		}
		shape := (a0 >> 14) & 3
		size := (a1 >> 14) & 3
		dims := spriteSizeTable[shape][size]
		w, h := dims[0], dims[1]

		if y < sy || y >= sy+h {
			continue
		}

		sx := int(a1 & 0x1FF)
		if sx >= 240 {
			sx -= 512
		}
		hFlip := a1&0x1000 != 0
		vFlip := a1&0x2000 != 0
		tileNum := int(a2 & 0x3FF)
		priority := uint8((a2 >> 10) & 3)
		palBank := int((a2 >> 12) & 0xF)
		colorMode8bpp := a0&0x2000 != 0

		spriteLine := y - sy
		if vFlip {
			spriteLine = h - 1 - spriteLine
		}

		for px := 0; px < w; px++ {
			scx := sx + px
			if scx < 0 || scx >= ScreenWidth {
				continue
			}
			if p.layerPriority[layerOBJ][scx] < priority {
				continue
			}
			tilePX := px
			if hFlip {
				tilePX = w - 1 - px
			}
			tileRow := spriteLine / 8
			tileCol := tilePX / 8
			pixelX := tilePX % 8
			pixelY := spriteLine % 8

			tilesPerRow := 2
			if !colorMode8bpp {
				tilesPerRow = 1
			}
			var tileIndex int
			if oneDMapping {
				tileIndex = tileNum + tileRow*(w/8)*tilesPerRow + tileCol*tilesPerRow
			} else {
				tileIndex = tileNum + tileCol*tilesPerRow + tileRow*32
			}

			var colorIndex uint8
			var found bool
			if colorMode8bpp {
				off := tileIndex*32 + pixelY*8 + pixelX
				if objVRAMBase+off < VRAMSize {
					colorIndex = p.VRAM[objVRAMBase+off]
					found = colorIndex != 0
				}
			} else {
				off := tileIndex*32 + pixelY*4 + pixelX/2
				if objVRAMBase+off < VRAMSize {
					b := p.VRAM[objVRAMBase+off]
					if pixelX&1 != 0 {
						colorIndex = b >> 4
					} else {
						colorIndex = b & 0xF
					}
					found = colorIndex != 0
				}
			}
			if !found {
				continue
			}

			var paletteOffset uint32
			if colorMode8bpp {
				paletteOffset = objPaletteOff + uint32(colorIndex)*2
			} else {
				paletteOffset = objPaletteOff + uint32(palBank)*32 + uint32(colorIndex)*2
			}
			p.layerColor[layerOBJ][scx] = p.paletteColor16(paletteOffset)
			p.layerPriority[layerOBJ][scx] = priority
		}
	}
}

// objEnabled reports DISPCNT bit 12, the master OBJ-layer enable.
func (p *PPU) objEnabled() bool {
	return p.get16(io.RegDISPCNT)&0x1000 != 0
}
