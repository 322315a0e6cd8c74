// Package cartridge models the Game Pak: ROM (read-only, power-of-two
// padded) and Save RAM (battery-backed, persisted to a sibling file).
package cartridge

import (
	"os"
	"path/filepath"
	"strings"

	"GoBA/util/dbg"
)

const (
	SRAMSize = 64 * 1024

	// MaxROMSize is the largest usable cartridge image (spec §6).
	MaxROMSize = 32 * 1024 * 1024

	titleOffset = 0xA0
	titleLength = 12
	headerMagic = 0xB2
	magicByte   = 0x96
)

// Cartridge holds the loaded ROM image and its battery-backed SRAM.
type Cartridge struct {
	ROM      []byte
	SRAM     [SRAMSize]byte
	Title    string
	savePath string
}

// Load reads a ROM file from path, zero-pads it up to the next power of two
// (spec §4.1/§6), recovers the embedded title string, and attempts to load a
// sibling ".sav" file into SRAM if one exists.
func Load(path string) (*Cartridge, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	padded := padToPowerOfTwo(data)
	c := &Cartridge{
		ROM:      padded,
		Title:    extractTitle(padded),
		savePath: savePathFor(path),
	}

	if saved, err := os.ReadFile(c.savePath); err == nil {
		n := copy(c.SRAM[:], saved)
		if n < SRAMSize {
			dbg.Printf("Cartridge: sibling save file shorter than SRAM (%d bytes)\n", n)
		}
	}
	return c, nil
}

// SaveSRAM persists SRAM to the sibling ".sav" file (spec §5/§6). Called on
// clean shutdown.
func (c *Cartridge) SaveSRAM() error {
	if c.savePath == "" {
		return nil
	}
	return os.WriteFile(c.savePath, c.SRAM[:], 0o644)
}

func savePathFor(romPath string) string {
	ext := filepath.Ext(romPath)
	return strings.TrimSuffix(romPath, ext) + ".sav"
}

func padToPowerOfTwo(data []byte) []byte {
	size := len(data)
	if size == 0 {
		size = 1
	}
	p := 1
	for p < size {
		p <<= 1
	}
	if p > MaxROMSize {
		p = MaxROMSize
	}
	padded := make([]byte, p)
	copy(padded, data)
	return padded
}

func extractTitle(rom []byte) string {
	if len(rom) < titleOffset+titleLength {
		return ""
	}
	raw := rom[titleOffset : titleOffset+titleLength]
	return strings.TrimRight(string(raw), "\x00")
}

// HasValidHeader reports whether byte 0xB2 matches the known header magic
// (0x96). Informational only — not required to run (spec §6).
func (c *Cartridge) HasValidHeader() bool {
	return len(c.ROM) > headerMagic && c.ROM[headerMagic] == magicByte
}

// ReadROM8 reads a byte from the Game Pak ROM window (0x08000000-0x0DFFFFFF,
// mirrored across three wait-state pairs). Out-of-range reads return 0xFF.
func (c *Cartridge) ReadROM8(offset uint32) uint8 {
	if int(offset) >= len(c.ROM) {
		return 0xFF
	}
	return c.ROM[offset]
}

func (c *Cartridge) ReadSRAM8(addr uint32) uint8 {
	return c.SRAM[addr%SRAMSize]
}

func (c *Cartridge) WriteSRAM8(addr uint32, value uint8) {
	c.SRAM[addr%SRAMSize] = value
}
