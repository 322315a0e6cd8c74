package scheduler

import (
	"testing"

	"GoBA/internal/bus"
	"GoBA/internal/cartridge"
	"GoBA/internal/cpu"
	"GoBA/internal/io"
	"GoBA/internal/irq"
	"GoBA/internal/memory"
	"GoBA/internal/ppu"
)

func newTestMachine() (*Scheduler, *io.IORegs, *irq.Controller) {
	bios := memory.NewBIOS()
	ewram := memory.NewEWRAM()
	iwram := memory.NewIWRAM()
	regs := io.NewIORegs()
	gpu := ppu.New(nil)
	cart := &cartridge.Cartridge{ROM: make([]byte, 0x1000)}
	memBus := bus.NewBus(bios, ewram, iwram, gpu, cart, regs)
	gpu.SetBus(memBus)

	irqCtrl := irq.New(regs)
	core := cpu.NewCPU(memBus, irqCtrl)
	core.Reset()

	return New(core, gpu, regs, irqCtrl), regs, irqCtrl
}

// TestRunFrameWraps checks that after one full frame, the scanline counter
// and VCOUNT both return to 0 (spec §4.5).
func TestRunFrameWraps(t *testing.T) {
	s, regs, _ := newTestMachine()
	s.RunFrame()

	if s.Scanline() != 0 {
		t.Fatalf("scanline after one frame = %d, want 0", s.Scanline())
	}
	if got := regs.Get16(io.RegVCOUNT); got != 0 {
		t.Fatalf("VCOUNT after one frame = %d, want 0", got)
	}
}

// TestVBlankFlagClearsOnWrap checks the VBlank DISPSTAT flag, raised at
// scanline 160, is cleared again once the frame wraps past 228.
func TestVBlankFlagClearsOnWrap(t *testing.T) {
	s, regs, _ := newTestMachine()
	for i := 0; i < VisibleScanlines+1; i++ {
		s.StepScanline()
	}
	if regs.Get16(io.RegDISPSTAT)&io.DispstatVBlankFlag == 0 {
		t.Fatal("VBlank flag not set at scanline 160")
	}
	for s.Scanline() != 0 {
		s.StepScanline()
	}
	if regs.Get16(io.RegDISPSTAT)&io.DispstatVBlankFlag != 0 {
		t.Fatal("VBlank flag still set after frame wrap")
	}
}

type countingCheats struct{ calls int }

func (c *countingCheats) ApplyCheats() { c.calls++ }

func TestCheatsAppliedOnceAtVBlank(t *testing.T) {
	s, _, _ := newTestMachine()
	cheats := &countingCheats{}
	s.Cheats = cheats
	s.RunFrame()
	if cheats.calls != 1 {
		t.Fatalf("ApplyCheats called %d times in one frame, want 1", cheats.calls)
	}
}

type countingRewind struct{ calls int }

func (r *countingRewind) UpdateRewind() { r.calls++ }

func TestRewindCapturedOnFrameWrap(t *testing.T) {
	s, _, _ := newTestMachine()
	rewind := &countingRewind{}
	s.Rewind = rewind
	s.RunFrame()
	if rewind.calls != 1 {
		t.Fatalf("UpdateRewind called %d times in one frame, want 1", rewind.calls)
	}
}

// TestPausedSkipsFrame checks the host-flippable Paused flag (spec §5) stops
// both RunFrame and StepScanline from advancing the scanline counter.
func TestPausedSkipsFrame(t *testing.T) {
	s, _, _ := newTestMachine()
	s.Paused = true
	s.RunFrame()
	if s.Scanline() != 0 {
		t.Fatalf("scanline after paused RunFrame = %d, want 0", s.Scanline())
	}
	s.StepScanline()
	if s.Scanline() != 0 {
		t.Fatalf("scanline after paused StepScanline = %d, want 0", s.Scanline())
	}
}

// TestTurboRunsMultipleFrames checks the Turbo flag (spec §5) drives more
// than one frame's worth of rewind captures per RunFrame call.
func TestTurboRunsMultipleFrames(t *testing.T) {
	s, _, _ := newTestMachine()
	rewind := &countingRewind{}
	s.Rewind = rewind
	s.Turbo = true
	s.RunFrame()
	if rewind.calls != turboFrameMultiplier {
		t.Fatalf("UpdateRewind called %d times under turbo, want %d", rewind.calls, turboFrameMultiplier)
	}
}
