package ppu

import (
	"testing"

	"GoBA/internal/io"
)

// fakeIOBus gives a PPU access to a real IORegs block without needing a
// full bus, satisfying interfaces.BusInterface.
type fakeIOBus struct {
	regs *io.IORegs
}

func (f *fakeIOBus) GetIORegsPtr() *io.IORegs { return f.regs }

func newTestPPU() (*PPU, *io.IORegs) {
	regs := io.NewIORegs()
	p := New(&fakeIOBus{regs: regs})
	return p, regs
}

// TestPaletteByteWriteDuplicatesHalfword ports spec §8's boundary case:
// writing a halfword then a single byte-store to the same halfword
// duplicates the stored byte into both halves.
func TestPaletteByteWriteDuplicatesHalfword(t *testing.T) {
	p, _ := newTestPPU()
	const addr = 0x10
	p.Palette[addr] = 0x34
	p.Palette[addr+1] = 0x12 // simulates a prior halfword write of 0x1234

	p.WritePaletteRAM8(addr, 0xAB)

	if p.Palette[addr] != 0xAB || p.Palette[addr+1] != 0xAB {
		t.Fatalf("palette halfword = %02X%02X, want ABAB", p.Palette[addr+1], p.Palette[addr])
	}
}

func TestVRAMMirror(t *testing.T) {
	p, _ := newTestPPU()
	p.WriteVRAM8(0x00018000, 0x55)
	if got := p.ReadVRAM8(0x00010000); got != 0x55 {
		t.Fatalf("VRAM mirror: read at 0x10000 = %#x, want 0x55 (written via mirror at 0x18000)", got)
	}
}

// TestGetBGPixelSingleTile renders one 4bpp tile through a minimal BG0
// setup and checks the resulting BGR555 color converts to (248,248,248).
func TestGetBGPixelSingleTile(t *testing.T) {
	p, regs := newTestPPU()
	// Char base 0, screen base index 1 (0x800), 4bpp, 256x256 — distinct
	// blocks so the screen entry and tile pixel data don't overlap.
	regs.Set16(io.RegBG0CNT, 1<<8)
	regs.Set16(io.RegBG0HOFS, 0)
	regs.Set16(io.RegBG0VOFS, 0)

	// Screen entry for tile (0,0): tile 0, no flip, palette bank 0.
	p.VRAM[0x800] = 0x00
	p.VRAM[0x801] = 0x00
	// Tile 0's first pixel row: every nibble is color index 1.
	for i := uint32(0); i < 4; i++ {
		p.VRAM[i] = 0x11
	}
	// Palette bank 0, color index 1: white (0x7FFF).
	p.Palette[2] = 0xFF
	p.Palette[3] = 0x7F

	for x := 0; x < 8; x++ {
		color := p.getBGPixel(0, x, 0)
		r, g, b := rgb15to24(color)
		if r != 248 || g != 248 || b != 248 {
			t.Fatalf("pixel (%d,0) = (%d,%d,%d), want (248,248,248)", x, r, g, b)
		}
	}
}

// TestRenderMode3BluePixel checks mode 3's direct bitmap path against a
// pure-blue BGR555 source pixel.
func TestRenderMode3BluePixel(t *testing.T) {
	p, regs := newTestPPU()
	regs.Set16(io.RegDISPCNT, 3) // mode 3
	const blue = 0x7C00
	for x := 0; x < ScreenWidth; x++ {
		addr := uint32(x * 2)
		p.VRAM[addr] = byte(blue & 0xFF)
		p.VRAM[addr+1] = byte(blue >> 8)
	}

	p.RenderScanline(0)

	r, g, b := p.Framebuffer[0], p.Framebuffer[1], p.Framebuffer[2]
	if r != 0 || g != 0 || b != 248 {
		t.Fatalf("mode 3 blue pixel = (%d,%d,%d), want (0,0,248)", r, g, b)
	}
}

func TestApplyPaletteFilterPassesThroughGBA(t *testing.T) {
	p, _ := newTestPPU()
	p.PaletteFilter = "gba"
	r, g, b := p.applyPaletteFilter(10, 20, 30)
	if r != 10 || g != 20 || b != 30 {
		t.Fatalf("gba filter altered color: got (%d,%d,%d)", r, g, b)
	}
}

func TestApplyPaletteFilterQuantizes(t *testing.T) {
	p, _ := newTestPPU()
	p.PaletteFilter = "gba_sp"
	r, g, b := p.applyPaletteFilter(255, 255, 255)
	want := namedPalettes["gba_sp"][3]
	if r != want[0] || g != want[1] || b != want[2] {
		t.Fatalf("gba_sp filter of white = (%d,%d,%d), want %v", r, g, b, want)
	}
}
