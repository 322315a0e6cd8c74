package ppu

// Named palette filters, carried over from the emulator this core was
// distilled from: "gba" passes colors through unchanged, the rest quantize
// into a 4-entry replacement ramp by luminance.
var namedPalettes = map[string][4][3]uint8{
	"original_gameboy": {{155, 188, 15}, {139, 172, 15}, {48, 98, 48}, {15, 56, 15}},
	"gba_sp":           {{248, 248, 248}, {176, 176, 176}, {104, 104, 104}, {32, 32, 32}},
	"pink_dreams":      {{255, 218, 233}, {255, 145, 175}, {199, 80, 120}, {99, 30, 60}},
	"ocean_blue":       {{224, 248, 255}, {128, 200, 248}, {48, 128, 200}, {16, 56, 128}},
	"amber_glow":       {{255, 224, 168}, {248, 176, 88}, {192, 112, 32}, {96, 48, 0}},
}

// rgb15to24 converts a BGR555 color to 8-bit-per-channel RGB.
func rgb15to24(c uint16) (r, g, b uint8) {
	r = uint8((c & 0x1F) << 3)
	g = uint8(((c >> 5) & 0x1F) << 3)
	b = uint8(((c >> 10) & 0x1F) << 3)
	return
}

// applyPaletteFilter replaces (r,g,b) with the active filter's quantized
// entry, selected by luminance, or passes it through unchanged for "gba"
// or an unrecognized name.
func (p *PPU) applyPaletteFilter(r, g, b uint8) (uint8, uint8, uint8) {
	ramp, ok := namedPalettes[p.PaletteFilter]
	if p.PaletteFilter == "gba" || !ok {
		return r, g, b
	}
	luminance := (int(r)*299 + int(g)*587 + int(b)*114) / 1000
	index := luminance / 64
	if index > 3 {
		index = 3
	}
	entry := ramp[index]
	return entry[0], entry[1], entry[2]
}
