// Package scheduler implements the scanline-driven frame loop (component
// C5): it advances the CPU a fixed cycle quantum per scanline, asks the
// PPU to render visible lines, raises VBlank/HBlank/VCount interrupts, and
// emits one frame every 228 scanlines.
package scheduler

import (
	"GoBA/internal/cpu"
	"GoBA/internal/io"
	"GoBA/internal/irq"
	"GoBA/internal/ppu"
)

// Timing constants, spec §2/§4.5.
const (
	CyclesPerScanline = 1232
	ScanlinesPerFrame = 228
	VisibleScanlines  = 160
)

// CheatApplier is the once-per-VBlank cheat hook (spec §4.5/§6).
type CheatApplier interface {
	ApplyCheats()
}

// RewindRecorder captures a frame-boundary snapshot on every frame wrap
// (spec §5).
type RewindRecorder interface {
	UpdateRewind()
}

// turboFrameMultiplier is how many frames RunFrame drives per call while
// Turbo is set, matching original_source's turbo toggle (emu.py:578-580)
// letting the host loop burn through frames with no frame-pacing delay.
const turboFrameMultiplier = 4

// Scheduler drives one GBA frame at a time.
type Scheduler struct {
	CPU *cpu.CPU
	PPU *ppu.PPU

	regs *io.IORegs
	irq  *irq.Controller

	Cheats CheatApplier
	Rewind RewindRecorder

	// Paused and Turbo are plain fields the host flips between RunFrame
	// calls (spec §5/emu.py's self.paused/self.turbo), not config baked in
	// at construction time.
	Paused bool
	Turbo  bool

	scanline int
}

// New wires a Scheduler to its CPU, PPU, shared I/O registers, and
// interrupt controller.
func New(c *cpu.CPU, p *ppu.PPU, regs *io.IORegs, irqCtrl *irq.Controller) *Scheduler {
	return &Scheduler{CPU: c, PPU: p, regs: regs, irq: irqCtrl}
}

// Scanline returns the current scanline index (0..227).
func (s *Scheduler) Scanline() int { return s.scanline }

// Reset zeroes the scanline counter, matching GBAEmulator.reset.
func (s *Scheduler) Reset() { s.scanline = 0 }

// StepScanline runs the CPU for one scanline's cycle budget, then performs
// the scanline-boundary bookkeeping: VCOUNT update, rendering, HBlank/
// VBlank/VCount flag-and-IRQ raising, cheat application at VBlank entry,
// and frame-wrap rewind capture (spec §4.5).
func (s *Scheduler) StepScanline() {
	if s.Paused {
		return
	}

	consumed := 0
	for consumed < CyclesPerScanline {
		consumed += s.CPU.Step()
	}

	s.regs.Set16(io.RegVCOUNT, uint16(s.scanline))
	ds := s.regs.Get16(io.RegDISPSTAT)

	switch {
	case s.scanline < VisibleScanlines:
		s.PPU.RenderScanline(s.scanline)
		ds |= io.DispstatHBlankFlag
		if ds&io.DispstatHBlankIRQ != 0 {
			s.irq.Request(irq.SourceHBlank)
		}
	case s.scanline == VisibleScanlines:
		ds |= io.DispstatVBlankFlag
		if ds&io.DispstatVBlankIRQ != 0 {
			s.irq.Request(irq.SourceVBlank)
		}
		if s.Cheats != nil {
			s.Cheats.ApplyCheats()
		}
	}

	vcountTarget := (ds >> io.DispstatVCountShift) & 0xFF
	if uint16(s.scanline) == vcountTarget {
		ds |= io.DispstatVCountFlag
		if ds&io.DispstatVCountIRQ != 0 {
			s.irq.Request(irq.SourceVCount)
		}
	} else {
		ds &^= io.DispstatVCountFlag
	}
	s.regs.Set16(io.RegDISPSTAT, ds)

	s.scanline++
	if s.scanline >= ScanlinesPerFrame {
		s.scanline = 0
		s.regs.Set16(io.RegVCOUNT, 0)
		ds &^= io.DispstatVBlankFlag
		s.regs.Set16(io.RegDISPSTAT, ds)
		if s.Rewind != nil {
			s.Rewind.UpdateRewind()
		}
	}
}

// RunFrame drives all 228 scanlines of one frame, or does nothing while
// Paused. While Turbo is set it drives turboFrameMultiplier frames back to
// back instead of one, standing in for the real-time frame-pacing skip the
// original's UI loop performs around its own run_frame call.
func (s *Scheduler) RunFrame() {
	if s.Paused {
		return
	}

	frames := 1
	if s.Turbo {
		frames = turboFrameMultiplier
	}
	for f := 0; f < frames; f++ {
		for i := 0; i < ScanlinesPerFrame; i++ {
			s.StepScanline()
		}
	}
}
