package ppu

import "GoBA/internal/io"

var screenSizeWH = [4][2]int{{256, 256}, {512, 256}, {256, 512}, {512, 512}}

// getBGPixel samples one tile-mode background at (x,y) and returns a BGR555
// color, or transparent if the palette index is 0 (spec §4.3).
func (p *PPU) getBGPixel(bg, x, y int) uint16 {
	bgc := p.get16(uint32(io.RegBG0CNT + bg*2))
	charBase := uint32((bgc>>2)&3) * 0x4000
	screenBase := uint32((bgc>>8)&0x1F) * 0x800
	colorMode8bpp := bgc&0x80 != 0
	screenSize := (bgc >> 14) & 3

	hofs := int(p.get16(uint32(io.RegBG0HOFS+bg*4)) & 0x1FF)
	vofs := int(p.get16(uint32(io.RegBG0VOFS+bg*4)) & 0x1FF)

	wh := screenSizeWH[screenSize]
	w, h := wh[0], wh[1]
	px := mod(x+hofs, w)
	py := mod(y+vofs, h)
	tx, ty := px/8, py/8
	pixelX, pixelY := px%8, py%8

	screenBlock := 0
	if w == 512 {
		screenBlock += tx / 32
		tx %= 32
	}
	if h == 512 {
		mul := 1
		if w == 512 {
			mul = 2
		}
		screenBlock += (ty / 32) * mul
		ty %= 32
	}

	tileAddr := screenBase + uint32(screenBlock)*0x800 + uint32(ty*32+tx)*2
	entry := uint16(p.VRAM[tileAddr]) | uint16(p.VRAM[tileAddr+1])<<8
	tileNum := entry & 0x3FF
	hFlip := entry&0x400 != 0
	vFlip := entry&0x800 != 0
	palBank := (entry >> 12) & 0xF

	if hFlip {
		pixelX = 7 - pixelX
	}
	if vFlip {
		pixelY = 7 - pixelY
	}

	if colorMode8bpp {
		tileOffset := uint32(tileNum)*64 + uint32(pixelY*8+pixelX)
		colorIndex := p.VRAM[charBase+tileOffset]
		if colorIndex == 0 {
			return transparent
		}
		return p.paletteColor16(uint32(colorIndex) * 2)
	}

	tileOffset := uint32(tileNum)*32 + uint32(pixelY*4+pixelX/2)
	b := p.VRAM[charBase+tileOffset]
	var colorIndex uint8
	if pixelX&1 != 0 {
		colorIndex = b >> 4
	} else {
		colorIndex = b & 0xF
	}
	if colorIndex == 0 {
		return transparent
	}
	return p.paletteColor16(uint32(palBank)*32 + uint32(colorIndex)*2)
}

func (p *PPU) paletteColor16(offset uint32) uint16 {
	return uint16(p.Palette[offset]) | uint16(p.Palette[offset+1])<<8
}

func mod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}

// renderMode3 draws the 16bpp bitmap mode directly from VRAM into BG2's
// layer slot.
func (p *PPU) renderMode3(y int) {
	if !p.LayerEnable[2] {
		return
	}
	base := uint32(y * ScreenWidth * 2)
	for x := 0; x < ScreenWidth; x++ {
		addr := base + uint32(x*2)
		color := uint16(p.VRAM[addr]) | uint16(p.VRAM[addr+1])<<8
		p.layerColor[layerBG2][x] = color
		p.layerPriority[layerBG2][x] = 0
	}
}

// renderMode4 draws the 8bpp paletted bitmap mode (two pages) into BG2's
// layer slot.
func (p *PPU) renderMode4(y int) {
	if !p.LayerEnable[2] {
		return
	}
	dispcnt := p.dispcnt()
	page := uint32(0)
	if dispcnt&0x10 != 0 {
		page = 0xA000
	}
	base := page + uint32(y*ScreenWidth)
	for x := 0; x < ScreenWidth; x++ {
		index := p.VRAM[base+uint32(x)]
		if index == 0 {
			continue
		}
		p.layerColor[layerBG2][x] = p.paletteColor16(uint32(index) * 2)
		p.layerPriority[layerBG2][x] = 0
	}
}

func (p *PPU) bgPriority(bg int) uint8 {
	return uint8(p.get16(uint32(io.RegBG0CNT+bg*2)) & 3)
}

// renderMode0 draws up to four tile backgrounds, each into its own layer
// slot, gated by DISPCNT's per-background enable bits (bits 8-11) and the
// host-side per-layer enable toggle.
func (p *PPU) renderMode0(y int) {
	dispcnt := p.dispcnt()
	for bg := 0; bg < 4; bg++ {
		if dispcnt&(0x100<<uint(bg)) == 0 || !p.LayerEnable[bg] {
			continue
		}
		priority := p.bgPriority(bg)
		for x := 0; x < ScreenWidth; x++ {
			c := p.getBGPixel(bg, x, y)
			if c == transparent {
				continue
			}
			p.layerColor[bg][x] = c
			p.layerPriority[bg][x] = priority
		}
	}
}
