package ppu

import "GoBA/internal/io"

// compositeOrder is the winner-selection order for equal priority: lower
// index wins (spec §4.3), so BG0 beats BG1 beats ... beats OBJ, and the
// backdrop only shows through when nothing else wrote a pixel.
var compositeOrder = [5]int{layerBG0, layerBG1, layerBG2, layerBG3, layerOBJ}

// RenderScanline draws one visible scanline into the framebuffer: mode
// dispatch, sprite pass, 6-layer priority composite, BGR555->RGB24, and
// the active palette filter (spec §4.3).
func (p *PPU) RenderScanline(y int) {
	dispcnt := p.get16(io.RegDISPCNT)
	mode := dispcnt & 7

	for l := 0; l < numLayers; l++ {
		for x := 0; x < ScreenWidth; x++ {
			p.layerColor[l][x] = transparent
			p.layerPriority[l][x] = 4
		}
	}
	backdrop := p.paletteColor16(0)
	for x := 0; x < ScreenWidth; x++ {
		p.layerColor[layerBD][x] = backdrop
		p.layerPriority[layerBD][x] = 4
	}

	switch mode {
	case 0:
		p.renderMode0(y)
	case 3:
		p.renderMode3(y)
	case 4:
		p.renderMode4(y)
	default:
		// Modes 1/2/5 (affine/rotation-scaling) are not modeled; the
		// scanline falls back to the backdrop color.
	}

	if p.objEnabled() {
		p.renderSprites(y)
	}

	rowBase := y * ScreenWidth * 3
	for x := 0; x < ScreenWidth; x++ {
		color := p.layerColor[layerBD][x]
		bestPriority := p.layerPriority[layerBD][x]
		for _, l := range compositeOrder {
			if p.layerColor[l][x] != transparent && p.layerPriority[l][x] < bestPriority {
				bestPriority = p.layerPriority[l][x]
				color = p.layerColor[l][x]
			}
		}
		r, g, b := rgb15to24(color)
		r, g, b = p.applyPaletteFilter(r, g, b)
		off := rowBase + x*3
		p.Framebuffer[off] = r
		p.Framebuffer[off+1] = g
		p.Framebuffer[off+2] = b
	}
}
