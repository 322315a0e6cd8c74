// Package interfaces holds the minimal cross-package contracts needed to
// break an import cycle: the PPU needs to read shared I/O registers that
// live on the bus, but the bus owns a concrete *ppu.PPU, so the PPU can't
// import the bus package directly.
package interfaces

import "GoBA/internal/io"

// BusInterface is the view of the bus visible to the PPU.
type BusInterface interface {
	GetIORegsPtr() *io.IORegs
}
