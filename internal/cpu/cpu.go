// Package cpu implements the ARM7TDMI interpreter: pipeline, decode,
// execute, flags, mode banking, and exceptions (component C2).
package cpu

// Bus is the memory-access contract the CPU needs; internal/bus.Bus
// satisfies it structurally.
type Bus interface {
	Read8(uint32) uint8
	Write8(uint32, uint8)
	Read16(uint32) uint16
	Write16(uint32, uint16)
	Read32(uint32) uint32
	Write32(uint32, uint32)
}

// IRQLines is the contract the CPU needs from the interrupt controller to
// decide whether to take an IRQ exception.
type IRQLines interface {
	// Pending reports whether IME, IE & IF together request an interrupt.
	Pending() bool
}

// CPU is the ARM7TDMI interpreter. Step executes exactly one instruction
// (or one IRQ/halt tick) and returns the number of cycles it consumed,
// never zero (spec §4.2).
type CPU struct {
	Regs *Registers
	bus  Bus
	irq  IRQLines

	pipeline      [2]uint32
	pipelineValid bool
	halted        bool
	cycles        uint64
}

func NewCPU(bus Bus, irq IRQLines) *CPU {
	c := &CPU{Regs: NewRegisters(), bus: bus, irq: irq}
	return c
}

// Reset re-initializes registers and flushes the pipeline from the
// cartridge entry point (0x08000000) that NewRegisters sets.
func (c *CPU) Reset() {
	c.Regs = NewRegisters()
	c.halted = false
	c.FlushPipeline()
}

// FlushPipeline discards the prefetched instructions, realigns PC to the
// current instruction width, and refills both pipeline slots, advancing PC
// by 4 or 8 in total (spec §4.2, §8 Pipeline contract).
func (c *CPU) FlushPipeline() {
	c.pipelineValid = false
	if c.Regs.IsThumb() {
		c.Regs.R[15] &^= 1
		c.pipeline[0] = uint32(c.bus.Read16(c.Regs.R[15]))
		c.Regs.R[15] += 2
		c.pipeline[1] = uint32(c.bus.Read16(c.Regs.R[15]))
		c.Regs.R[15] += 2
	} else {
		c.Regs.R[15] &^= 3
		c.pipeline[0] = c.bus.Read32(c.Regs.R[15])
		c.Regs.R[15] += 4
		c.pipeline[1] = c.bus.Read32(c.Regs.R[15])
		c.Regs.R[15] += 4
	}
	c.pipelineValid = true
}

// fetch returns the oldest pipelined instruction, shifts the newer one
// down, and refills the vacated slot from the current PC.
func (c *CPU) fetch() uint32 {
	instr := c.pipeline[0]
	c.pipeline[0] = c.pipeline[1]
	if c.Regs.IsThumb() {
		c.pipeline[1] = uint32(c.bus.Read16(c.Regs.R[15]))
		c.Regs.R[15] += 2
	} else {
		c.pipeline[1] = c.bus.Read32(c.Regs.R[15])
		c.Regs.R[15] += 4
	}
	return instr
}

// checkIRQ examines IME/IE/IF and, if an interrupt is pending and not
// masked, transitions into IRQ mode: banks r14/SPSR, clears Thumb, sets
// PC=0x18, flushes the pipeline, and clears the halted flag (spec §4.2,
// §4.4).
func (c *CPU) checkIRQ() bool {
	if c.Regs.IsIRQDisabled() {
		return false
	}
	if c.irq == nil || !c.irq.Pending() {
		return false
	}
	savedCPSR := c.Regs.CPSR
	wasThumb := c.Regs.IsThumb()
	// lr = pc - (2 if thumb else 4) + 4: the ARM case cancels out to pc
	// unchanged; only the Thumb case carries a net +2 (spec §4.4).
	returnPC := c.Regs.R[15]
	if wasThumb {
		returnPC += 2
	}

	c.Regs.SetMode(IRQMode)
	c.Regs.SetSPSR(savedCPSR)
	c.Regs.SetIRQDisabled(true)
	c.Regs.SetThumbState(false)
	c.Regs.SetReg(14, returnPC)
	c.Regs.R[15] = 0x18
	c.FlushPipeline()
	c.halted = false
	return true
}

// Step executes one instruction and returns the cycle count consumed.
func (c *CPU) Step() int {
	c.checkIRQ()

	if c.halted {
		return 1
	}
	if !c.pipelineValid {
		c.FlushPipeline()
	}

	c.cycles = 0
	instr := c.fetch()
	if c.Regs.IsThumb() {
		c.executeThumb(uint16(instr))
	} else {
		c.executeARM(instr)
	}
	if c.cycles == 0 {
		return 1
	}
	return int(c.cycles)
}

func (c *CPU) tick(n uint64) { c.cycles += n }

// Halt suspends fetch until the next IRQ clears it. Reserved for future SWI
// Halt hooks (spec §4.2); never set by the current decode tables.
func (c *CPU) Halt() { c.halted = true }

func (c *CPU) IsHalted() bool { return c.halted }

// SetHalted restores the halted flag from a save state.
func (c *CPU) SetHalted(halted bool) { c.halted = halted }

// setLogicFlags applies the common MOVS/AND-family flag path: N,Z from the
// result, C from the shifter, V untouched.
func (c *CPU) setLogicFlags(result uint32, shifterCarry bool) {
	c.Regs.SetNZ(result)
	c.Regs.SetFlagC(shifterCarry)
}

// setArithmeticFlags applies the common ADD/SUB-family flag path.
func (c *CPU) setArithmeticFlags(result uint32, carry, overflow bool) {
	c.Regs.SetNZ(result)
	c.Regs.SetFlagC(carry)
	c.Regs.SetFlagV(overflow)
}
