package memory

import (
	"encoding/binary"
	"os"
)

// BIOS represents the GBA's internal Boot ROM. It is read-only memory.
type BIOS struct {
	data []byte
}

// NewBIOS returns a synthesized BIOS image for when no real dump is
// supplied (spec §6): a handful of well-known entry words (reset vector,
// the two instructions a IRQ/SWI return sequence expects to find at
// 0x80/0x84) rather than raw zeroes, since guest code occasionally probes
// these without ever truly executing BIOS code.
func NewBIOS() *BIOS {
	data := make([]byte, BIOS_SIZE)
	binary.LittleEndian.PutUint32(data[0x00:], 0xEA00001E)
	binary.LittleEndian.PutUint32(data[0x80:], 0xE3A00302)
	binary.LittleEndian.PutUint32(data[0x84:], 0xE12FFF10)
	return &BIOS{data: data}
}

// LoadBIOS reads a 16 KiB raw BIOS image from path. The file is optional at
// the host level; callers fall back to NewBIOS on error.
func LoadBIOS(path string) (*BIOS, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	data := make([]byte, BIOS_SIZE)
	copy(data, raw)
	return &BIOS{data: data}, nil
}

func (b *BIOS) Read8(addr uint32) byte {
	if int(addr) >= len(b.data) {
		return 0
	}
	return b.data[addr]
}

func (b *BIOS) ReadHalfWord(addr uint32) uint16 {
	addr &^= 1
	lo := uint16(b.Read8(addr))
	hi := uint16(b.Read8(addr + 1))
	return lo | (hi << 8)
}

func (b *BIOS) ReadWord(addr uint32) uint32 {
	addr &^= 3
	b0 := uint32(b.Read8(addr))
	b1 := uint32(b.Read8(addr + 1))
	b2 := uint32(b.Read8(addr + 2))
	b3 := uint32(b.Read8(addr + 3))
	return b0 | (b1 << 8) | (b2 << 16) | (b3 << 24)
}

// Write8 is a no-op: BIOS is read-only.
func (b *BIOS) Write8(addr uint32, value byte) {}
