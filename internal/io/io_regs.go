// Package io models the GBA's 1 KiB memory-mapped I/O register block.
// Hardware treats this block as halfword-oriented; byte accesses are
// supported for the bus's uniform byte-at-a-time path but the canonical
// read/write API is 16-bit.
package io

// Named register offsets (from the 0x04000000 base), per spec §3/§4.
const (
	RegDISPCNT  = 0x0000
	RegDISPSTAT = 0x0004
	RegVCOUNT   = 0x0006
	RegBG0CNT   = 0x0008
	RegBG1CNT   = 0x000A
	RegBG2CNT   = 0x000C
	RegBG3CNT   = 0x000E
	RegBG0HOFS  = 0x0010
	RegBG0VOFS  = 0x0012
	RegBG1HOFS  = 0x0014
	RegBG1VOFS  = 0x0016
	RegBG2HOFS  = 0x0018
	RegBG2VOFS  = 0x001A
	RegBG3HOFS  = 0x001C
	RegBG3VOFS  = 0x001E
	RegKEYINPUT = 0x0130
	RegIE       = 0x0200
	RegIF       = 0x0202
	RegIME      = 0x0208
)

// DISPSTAT bit positions.
const (
	DispstatVBlankFlag  = 1 << 0
	DispstatHBlankFlag  = 1 << 1
	DispstatVCountFlag  = 1 << 2
	DispstatVBlankIRQ   = 1 << 3
	DispstatHBlankIRQ   = 1 << 4
	DispstatVCountIRQ   = 1 << 5
	DispstatVCountShift = 8
)

// Size is the size of the I/O register block.
const Size = 0x400

// IORegs is the raw byte-addressable I/O register block.
type IORegs struct {
	regs [Size]byte
}

func NewIORegs() *IORegs {
	return &IORegs{}
}

func (i *IORegs) GetReg(addr uint32) uint8 {
	return i.regs[addr%Size]
}

func (i *IORegs) SetReg(addr uint32, value uint8) {
	i.regs[addr%Size] = value
}

func (i *IORegs) SizeBytes() uint32 {
	return Size
}

// Get16 reads a halfword register, aligning the address down to even.
func (i *IORegs) Get16(addr uint32) uint16 {
	addr &^= 1
	lo := uint16(i.GetReg(addr))
	hi := uint16(i.GetReg(addr + 1))
	return lo | (hi << 8)
}

// Set16 writes a halfword register, aligning the address down to even.
func (i *IORegs) Set16(addr uint32, value uint16) {
	addr &^= 1
	i.SetReg(addr, uint8(value&0xFF))
	i.SetReg(addr+1, uint8(value>>8))
}

// Bytes exposes the raw backing array for save-state serialization.
func (i *IORegs) Bytes() []byte {
	return i.regs[:]
}

// LoadBytes restores the raw backing array from a save-state blob.
func (i *IORegs) LoadBytes(data []byte) {
	copy(i.regs[:], data)
}
