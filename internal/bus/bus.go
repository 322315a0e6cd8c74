// Package bus implements the GBA memory map (component C1): a single
// region-dispatch keyed on the high byte of the address, with mirroring,
// alignment, and the palette/VRAM widened-store behavior spec §4.1 names.
package bus

import (
	"GoBA/internal/cartridge"
	"GoBA/internal/io"
	"GoBA/internal/memory"
	"GoBA/internal/ppu"
	"GoBA/util/dbg"
)

// Region tags, high byte of a 32-bit address (spec §3).
const (
	regionBIOS  = 0x00
	regionEWRAM = 0x02
	regionIWRAM = 0x03
	regionIO    = 0x04
	regionPal   = 0x05
	regionVRAM  = 0x06
	regionOAM   = 0x07
	regionROM0  = 0x08
	regionROM0H = 0x09
	regionROM1  = 0x0A
	regionROM1H = 0x0B
	regionROM2  = 0x0C
	regionROM2H = 0x0D
	regionSRAM  = 0x0E
)

// romWindowMask collapses the three 32 MiB wait-state mirrors (08/09,
// 0A/0B, 0C/0D) onto the same underlying ROM image.
const romWindowMask = 0x01FFFFFF

// Bus connects the CPU to every memory-mapped component: BIOS/EWRAM/IWRAM
// backing stores, the shared I/O register block, the PPU's own
// palette/VRAM/OAM storage, and the cartridge.
type Bus struct {
	BIOS  *memory.BIOS
	EWRAM *memory.EWRAM
	IWRAM *memory.IWRAM

	IORegs *io.IORegs

	PPU       *ppu.PPU
	Cartridge *cartridge.Cartridge

	CycleCount uint64
}

// NewBus wires up a Bus from its already-constructed components.
func NewBus(bios *memory.BIOS, ewram *memory.EWRAM, iwram *memory.IWRAM, p *ppu.PPU, cart *cartridge.Cartridge, ioRegs *io.IORegs) *Bus {
	return &Bus{
		BIOS:      bios,
		EWRAM:     ewram,
		IWRAM:     iwram,
		PPU:       p,
		Cartridge: cart,
		IORegs:    ioRegs,
	}
}

// GetIORegsPtr satisfies interfaces.BusInterface so the PPU can read shared
// display registers (DISPCNT, BGxCNT, scroll) without importing this
// package.
func (b *Bus) GetIORegsPtr() *io.IORegs { return b.IORegs }

// Read8 dispatches a byte read by the address's high byte (spec §4.1).
func (b *Bus) Read8(addr uint32) uint8 {
	switch (addr >> 24) & 0xFF {
	case regionBIOS:
		return b.BIOS.Read8(addr & 0x3FFF)
	case regionEWRAM:
		return b.EWRAM.Read8(addr & 0x3FFFF)
	case regionIWRAM:
		return b.IWRAM.Read8(addr & 0x7FFF)
	case regionIO:
		return b.IORegs.GetReg(addr & 0x3FF)
	case regionPal:
		return b.PPU.ReadPaletteRAM8(addr & 0x3FF)
	case regionVRAM:
		return b.PPU.ReadVRAM8(addr & 0x1FFFF)
	case regionOAM:
		return b.PPU.ReadOAM8(addr & 0x3FF)
	case regionROM0, regionROM0H, regionROM1, regionROM1H, regionROM2, regionROM2H:
		return b.Cartridge.ReadROM8(addr & romWindowMask)
	case regionSRAM:
		return b.Cartridge.ReadSRAM8(addr & 0xFFFF)
	default:
		return 0xFF
	}
}

// Write8 dispatches a byte write. Palette/VRAM writes widen into the
// aligned halfword (spec §4.1); BIOS/ROM are read-only.
func (b *Bus) Write8(addr uint32, value uint8) {
	switch (addr >> 24) & 0xFF {
	case regionBIOS:
		// Read-only.
	case regionEWRAM:
		b.EWRAM.Write8(addr&0x3FFFF, value)
	case regionIWRAM:
		b.IWRAM.Write8(addr&0x7FFF, value)
	case regionIO:
		b.IORegs.SetReg(addr&0x3FF, value)
	case regionPal:
		b.PPU.WritePaletteRAM8(addr&0x3FF, value)
	case regionVRAM:
		b.PPU.WriteVRAM8(addr&0x1FFFF, value)
	case regionOAM:
		b.PPU.WriteOAM8(addr&0x3FF, value)
	case regionROM0, regionROM0H, regionROM1, regionROM1H, regionROM2, regionROM2H:
		// Read-only.
	case regionSRAM:
		b.Cartridge.WriteSRAM8(addr&0xFFFF, value)
	default:
		dbg.Printf("bus: unhandled 8-bit write to %08X\n", addr)
	}
}

// Read16 forces halfword alignment and combines two bytes little-endian.
func (b *Bus) Read16(addr uint32) uint16 {
	addr &^= 1
	lo := uint16(b.Read8(addr))
	hi := uint16(b.Read8(addr + 1))
	return lo | hi<<8
}

// Write16 forces halfword alignment.
func (b *Bus) Write16(addr uint32, value uint16) {
	addr &^= 1
	b.Write8(addr, uint8(value))
	b.Write8(addr+1, uint8(value>>8))
}

// Read32 forces word alignment and combines four bytes little-endian. The
// misaligned-word rotate (spec §3/§8) is applied by the CPU's ARM LDR path
// (execARM_SingleDataTransfer), not here, since the rotate amount depends
// on the *original* unaligned address the CPU requested. The Thumb word
// loads return the aligned word without a rotate.
func (b *Bus) Read32(addr uint32) uint32 {
	addr &^= 3
	b0 := uint32(b.Read8(addr))
	b1 := uint32(b.Read8(addr + 1))
	b2 := uint32(b.Read8(addr + 2))
	b3 := uint32(b.Read8(addr + 3))
	return b0 | b1<<8 | b2<<16 | b3<<24
}

// Write32 forces word alignment.
func (b *Bus) Write32(addr uint32, value uint32) {
	addr &^= 3
	b.Write8(addr, uint8(value))
	b.Write8(addr+1, uint8(value>>8))
	b.Write8(addr+2, uint8(value>>16))
	b.Write8(addr+3, uint8(value>>24))
}

// IO16 and SetIO16 are the `io_read16`/`io_write16` shortcut named in spec
// §4.1, operating on register offsets from the I/O base rather than full
// bus addresses. The scheduler itself reads and writes its I/O registers
// through the shared io.IORegs block, not through these.
func (b *Bus) IO16(reg uint32) uint16          { return b.IORegs.Get16(reg) }
func (b *Bus) SetIO16(reg uint32, value uint16) { b.IORegs.Set16(reg, value) }
