// Package ppu implements the GBA picture processing unit (component C3):
// palette/VRAM/OAM storage, modes 0/3/4 rendering, sprite rasterization,
// 6-layer compositing, and the named palette filters.
package ppu

import (
	"GoBA/internal/interfaces"
	"GoBA/internal/io"
)

const (
	ScreenWidth  = 240
	ScreenHeight = 160

	PaletteSize = 0x400
	VRAMSize    = 0x18000
	OAMSize     = 0x400

	numLayers = 6 // BG0, BG1, BG2, BG3, OBJ, backdrop
	layerBG0  = 0
	layerBG1  = 1
	layerBG2  = 2
	layerBG3  = 3
	layerOBJ  = 4
	layerBD   = 5

	transparent = 0x8000
)

// PPU owns its own Palette/VRAM/OAM storage directly, rather than routing
// through the shared I/O register block; it reads DISPCNT/BGxCNT/scroll
// registers from the bus's I/O block since those remain bus-owned state.
type PPU struct {
	bus interfaces.BusInterface

	Palette [PaletteSize]byte
	VRAM    [VRAMSize]byte
	OAM     [OAMSize]byte

	// Framebuffer: ScreenWidth*ScreenHeight*3 bytes, RGB24, row-major.
	Framebuffer []byte

	layerColor    [numLayers][ScreenWidth]uint16
	layerPriority [numLayers][ScreenWidth]uint8
	LayerEnable   [8]bool

	PaletteFilter string
}

func New(bus interfaces.BusInterface) *PPU {
	p := &PPU{
		bus:           bus,
		Framebuffer:   make([]byte, ScreenWidth*ScreenHeight*3),
		PaletteFilter: "gba",
	}
	for i := range p.LayerEnable {
		p.LayerEnable[i] = true
	}
	return p
}

func (p *PPU) SetBus(bus interfaces.BusInterface) { p.bus = bus }

// ReadPaletteRAM8/WritePaletteRAM8: byte writes duplicate into both halves
// of the aligned halfword, matching GBA palette RAM's halfword-only write
// path (spec §4.1).
func (p *PPU) ReadPaletteRAM8(addr uint32) uint8 {
	return p.Palette[addr&(PaletteSize-1)]
}

func (p *PPU) WritePaletteRAM8(addr uint32, value uint8) {
	x := addr & (PaletteSize - 2)
	p.Palette[x] = value
	p.Palette[x+1] = value
}

// ReadVRAM8/WriteVRAM8 apply the 17-bit window with the upper-32KB mirror
// (spec §4.1): addresses 0x18000-0x1FFFF fold back into the last 32KB.
func (p *PPU) ReadVRAM8(addr uint32) uint8 {
	return p.VRAM[vramOffset(addr)]
}

func (p *PPU) WriteVRAM8(addr uint32, value uint8) {
	o := vramOffset(addr)
	x := o &^ 1
	p.VRAM[x] = value
	p.VRAM[x+1] = value
}

func vramOffset(addr uint32) uint32 {
	o := addr & 0x1FFFF
	if o >= VRAMSize {
		o -= 0x8000
	}
	return o
}

func (p *PPU) ReadOAM8(addr uint32) uint8 {
	return p.OAM[addr&(OAMSize-1)]
}

func (p *PPU) WriteOAM8(addr uint32, value uint8) {
	p.OAM[addr&(OAMSize-1)] = value
}

func (p *PPU) dispcnt() uint16       { return p.get16(io.RegDISPCNT) }
func (p *PPU) get16(r uint32) uint16 { return p.bus.GetIORegsPtr().Get16(r) }
