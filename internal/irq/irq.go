// Package irq implements the interrupt and keypad controller (component
// C4): IE/IF/IME gating and the 10-bit keypad latch. Interrupt sources
// (VBlank/HBlank/VCount) are requested by the scheduler, which alone knows
// scanline timing; this package only owns the IE/IF/IME bookkeeping and
// keypad state those requests and the CPU's `check_irq` read back.
package irq

import "GoBA/internal/io"

// Interrupt source bits, as stored in IE/IF (spec §4.4).
const (
	SourceVBlank uint16 = 1 << 0
	SourceHBlank uint16 = 1 << 1
	SourceVCount uint16 = 1 << 2
)

// Key bitmask, spec §6: "1" means released.
const (
	KeyA      uint16 = 1 << 0
	KeyB      uint16 = 1 << 1
	KeySelect uint16 = 1 << 2
	KeyStart  uint16 = 1 << 3
	KeyRight  uint16 = 1 << 4
	KeyLeft   uint16 = 1 << 5
	KeyUp     uint16 = 1 << 6
	KeyDown   uint16 = 1 << 7
	KeyR      uint16 = 1 << 8
	KeyL      uint16 = 1 << 9

	allKeysReleased uint16 = 0x3FF
)

// Controller owns IE/IF/IME gating (backed by the shared I/O register
// block) and the keypad latch.
type Controller struct {
	regs *io.IORegs
	keys uint16
}

// New returns a Controller with every key released, mirrored into
// KEYINPUT immediately.
func New(regs *io.IORegs) *Controller {
	c := &Controller{regs: regs, keys: allKeysReleased}
	c.regs.Set16(io.RegKEYINPUT, c.keys)
	return c
}

// Pending reports whether IME, IE & IF together request an interrupt
// (spec §4.2/§4.4). Satisfies cpu.IRQLines.
func (c *Controller) Pending() bool {
	ime := c.regs.Get16(io.RegIME)
	ie := c.regs.Get16(io.RegIE)
	iff := c.regs.Get16(io.RegIF)
	return ime != 0 && ie&iff != 0
}

// Request ORs one or more source bits into IF. The scheduler calls this
// only after checking the corresponding DISPSTAT enable bit.
func (c *Controller) Request(sources uint16) {
	c.regs.Set16(io.RegIF, c.regs.Get16(io.RegIF)|sources)
}

// KeyDown clears bits in the latch (pressed) and mirrors the result to
// KEYINPUT.
func (c *Controller) KeyDown(mask uint16) {
	c.keys &^= mask
	c.regs.Set16(io.RegKEYINPUT, c.keys)
}

// KeyUp sets bits in the latch (released) and mirrors the result to
// KEYINPUT.
func (c *Controller) KeyUp(mask uint16) {
	c.keys |= mask
	c.regs.Set16(io.RegKEYINPUT, c.keys)
}

// Keys returns the current raw latch value.
func (c *Controller) Keys() uint16 { return c.keys }

// Reset restores the keypad latch to all-released, matching the
// GBAEmulator reset sequence (spec §4.5 / original_source reset()).
func (c *Controller) Reset() {
	c.keys = allKeysReleased
	c.regs.Set16(io.RegKEYINPUT, c.keys)
}
