package cpu

import "GoBA/util/convert"

// ARM data-processing opcodes (bits 24:21).
const (
	dpAND = 0x0
	dpEOR = 0x1
	dpSUB = 0x2
	dpRSB = 0x3
	dpADD = 0x4
	dpADC = 0x5
	dpSBC = 0x6
	dpRSC = 0x7
	dpTST = 0x8
	dpTEQ = 0x9
	dpCMP = 0xA
	dpCMN = 0xB
	dpORR = 0xC
	dpMOV = 0xD
	dpBIC = 0xE
	dpMVN = 0xF
)

// execARM_DataProcessingOrBX handles the ARM 00-group: BX is a specific
// encoding within the same decode bucket as data processing (its mid-field
// bits fall outside the coarse 12-bit table key, so it is recognized here
// by full-instruction comparison, same as the reference interpreter does).
func execARM_DataProcessingOrBX(c *CPU, instr uint32) {
	if instr&0x0FFFFFF0 == 0x012FFF10 {
		execARM_BX(c, instr)
		return
	}
	execARM_DataProcessing(c, instr)
}

func execARM_BX(c *CPU, instr uint32) {
	rm := instr & 0xF
	addr := c.Regs.GetReg(uint8(rm))
	c.Regs.SetThumbState(addr&1 != 0)
	c.Regs.R[15] = addr &^ 1
	c.FlushPipeline()
	c.tick(3)
}

func execARM_DataProcessing(c *CPU, instr uint32) {
	immediate := instr&0x02000000 != 0
	setFlags := instr&0x00100000 != 0
	opcode := (instr >> 21) & 0xF
	rn := uint8((instr >> 16) & 0xF)
	rd := uint8((instr >> 12) & 0xF)

	op1 := c.Regs.GetReg(rn)
	if rn == 15 {
		op1 += 4
	}
	carry := c.Regs.GetFlagC()

	var op2 uint32
	if immediate {
		imm := instr & 0xFF
		rotate := ((instr >> 8) & 0xF) * 2
		op2, carry = barrelShift(ShiftROR, imm, rotate, carry, false)
	} else {
		rm := uint8(instr & 0xF)
		shiftType := (instr >> 5) & 3
		var amount uint32
		isRRX := false
		if instr&0x10 != 0 {
			// Shift amount taken from the bottom byte of a register.
			rs := uint8((instr >> 8) & 0xF)
			amount = c.Regs.GetReg(rs) & 0xFF
		} else {
			amount = (instr >> 7) & 0x1F
			isRRX = shiftType == ShiftROR && amount == 0
		}
		val := c.Regs.GetReg(rm)
		if rm == 15 {
			val += 4
		}
		op2, carry = barrelShift(shiftType, val, amount, carry, isRRX)
	}

	var result uint32
	writesDest := true
	isArithmetic := false
	var carryOut, overflow bool

	switch opcode {
	case dpAND:
		result = op1 & op2
	case dpEOR:
		result = op1 ^ op2
	case dpSUB:
		result, carryOut, overflow = subWithCarry(op1, op2, 1)
		isArithmetic = true
	case dpRSB:
		result, carryOut, overflow = subWithCarry(op2, op1, 1)
		isArithmetic = true
	case dpADD:
		result, carryOut, overflow = addWithCarry(op1, op2, 0)
		isArithmetic = true
	case dpADC:
		result, carryOut, overflow = addWithCarry(op1, op2, boolToBit(c.Regs.GetFlagC()))
		isArithmetic = true
	case dpSBC:
		result, carryOut, overflow = subWithCarry(op1, op2, boolToBit(c.Regs.GetFlagC()))
		isArithmetic = true
	case dpRSC:
		result, carryOut, overflow = subWithCarry(op2, op1, boolToBit(c.Regs.GetFlagC()))
		isArithmetic = true
	case dpTST:
		result = op1 & op2
		writesDest = false
	case dpTEQ:
		result = op1 ^ op2
		writesDest = false
	case dpCMP:
		result, carryOut, overflow = subWithCarry(op1, op2, 1)
		isArithmetic = true
		writesDest = false
	case dpCMN:
		result, carryOut, overflow = addWithCarry(op1, op2, 0)
		isArithmetic = true
		writesDest = false
	case dpORR:
		result = op1 | op2
	case dpMOV:
		result = op2
	case dpBIC:
		result = op1 &^ op2
	case dpMVN:
		result = ^op2
	}

	if setFlags {
		c.Regs.SetNZ(result)
		if isArithmetic {
			c.Regs.SetFlagC(carryOut)
			c.Regs.SetFlagV(overflow)
		} else {
			c.Regs.SetFlagC(carry)
		}
	}

	if writesDest {
		c.Regs.SetReg(rd, result)
		if rd == 15 {
			// Writing r15 with S set restores CPSR from the current mode's
			// SPSR, the privileged "return from exception via MOVS pc,lr"
			// idiom (spec §4.2).
			if setFlags {
				spsr := c.Regs.GetSPSR()
				mode := uint8(spsr & 0x1F)
				c.Regs.SetMode(mode)
				c.Regs.CPSR = spsr
			}
			c.FlushPipeline()
		}
	}
	c.tick(1)
}

func boolToBit(b bool) uint32 {
	return uint32(convert.BoolToInt(b))
}

func execARM_Multiply(c *CPU, instr uint32) {
	accumulate := instr&0x00200000 != 0
	setFlags := instr&0x00100000 != 0
	rd := uint8((instr >> 16) & 0xF)
	rn := uint8((instr >> 12) & 0xF)
	rs := uint8((instr >> 8) & 0xF)
	rm := uint8(instr & 0xF)

	result := c.Regs.GetReg(rm) * c.Regs.GetReg(rs)
	if accumulate {
		result += c.Regs.GetReg(rn)
	}
	c.Regs.SetReg(rd, result)
	if setFlags {
		c.Regs.SetNZ(result)
	}
	c.tick(2)
}

func execARM_SingleDataTransfer(c *CPU, instr uint32) {
	immediate := instr&0x02000000 == 0
	preIndexed := instr&0x01000000 != 0
	addUp := instr&0x00800000 != 0
	byteTransfer := instr&0x00400000 != 0
	writeback := instr&0x00200000 != 0
	load := instr&0x00100000 != 0
	rn := uint8((instr >> 16) & 0xF)
	rd := uint8((instr >> 12) & 0xF)

	base := c.Regs.GetReg(rn)
	if rn == 15 {
		base += 4
	}

	var offset uint32
	if immediate {
		offset = instr & 0xFFF
	} else {
		rm := uint8(instr & 0xF)
		shiftType := (instr >> 5) & 3
		amount := (instr >> 7) & 0x1F
		isRRX := shiftType == ShiftROR && amount == 0
		offset, _ = barrelShift(shiftType, c.Regs.GetReg(rm), amount, c.Regs.GetFlagC(), isRRX)
	}

	addr := base
	if preIndexed {
		if addUp {
			addr = base + offset
		} else {
			addr = base - offset
		}
	}

	if load {
		if byteTransfer {
			c.Regs.SetReg(rd, uint32(c.bus.Read8(addr)))
		} else {
			value := c.bus.Read32(addr &^ 3)
			rotate := (addr & 3) * 8
			if rotate != 0 {
				value = (value >> rotate) | (value << (32 - rotate))
			}
			c.Regs.SetReg(rd, value)
		}
		if rd == 15 {
			c.FlushPipeline()
		}
		c.tick(3)
	} else {
		value := c.Regs.GetReg(rd)
		if rd == 15 {
			value += 4
		}
		if byteTransfer {
			c.bus.Write8(addr, uint8(value))
		} else {
			c.bus.Write32(addr&^3, value)
		}
		c.tick(2)
	}

	if !preIndexed {
		if addUp {
			addr = base + offset
		} else {
			addr = base - offset
		}
		c.Regs.SetReg(rn, addr)
	} else if writeback {
		c.Regs.SetReg(rn, addr)
	}
}

// execARM_BlockDataTransfer implements LDM/STM. Per spec §9's Open
// Questions, writeback follows the canonical sequence: compute the start
// address from up/down and pre/post, iterate the register list low-to-high
// regardless of direction, and set the written-back base to base±count*4 —
// not the buggy up/down interaction the source exhibited.
func execARM_BlockDataTransfer(c *CPU, instr uint32) {
	preIndexed := instr&0x01000000 != 0
	addUp := instr&0x00800000 != 0
	writeback := instr&0x00200000 != 0
	load := instr&0x00100000 != 0
	rn := uint8((instr >> 16) & 0xF)
	regList := instr & 0xFFFF

	base := c.Regs.GetReg(rn)
	count := 0
	for x := 0; x < 16; x++ {
		if regList&(1<<uint(x)) != 0 {
			count++
		}
	}

	// Empty register list: transfer only r15 with a fixed offset of 64
	// (spec §4.2, §8 Boundary cases).
	emptyList := regList == 0
	if emptyList {
		regList = 1 << 15
		count = 1
	}

	var start uint32
	var writebackValue uint32
	if addUp {
		if preIndexed {
			start = base + 4
		} else {
			start = base
		}
		if emptyList {
			writebackValue = base + 64
		} else {
			writebackValue = base + uint32(count)*4
		}
	} else {
		if preIndexed {
			start = base - uint32(count)*4
		} else {
			start = base - uint32(count)*4 + 4
		}
		if emptyList {
			writebackValue = base - 64
		} else {
			writebackValue = base - uint32(count)*4
		}
	}

	addr := start
	for x := 0; x < 16; x++ {
		if regList&(1<<uint(x)) == 0 {
			continue
		}
		reg := uint8(x)
		if load {
			c.Regs.SetReg(reg, c.bus.Read32(addr&^3))
			if reg == 15 {
				c.FlushPipeline()
			}
		} else {
			value := c.Regs.GetReg(reg)
			if reg == 15 {
				value += 4
			}
			c.bus.Write32(addr&^3, value)
		}
		addr += 4
	}

	if writeback {
		c.Regs.SetReg(rn, writebackValue)
	}
	c.tick(uint64(count) + 2)
}

// execARM_Branch implements B/BL: 24-bit signed offset shifted left by 2;
// BL saves pc-4 into r14 (the pipeline has already advanced pc by 8 past
// the branch instruction's address, so pc-4 is the instruction's address+4,
// the canonical "return to the instruction after the branch" value).
func execARM_Branch(c *CPU, instr uint32) {
	link := instr&0x01000000 != 0
	offset := instr & 0x00FFFFFF
	if offset&0x00800000 != 0 {
		offset |= 0xFF000000
	}
	offset <<= 2
	if link {
		c.Regs.SetReg(14, c.Regs.R[15]-4)
	}
	c.Regs.R[15] += offset
	c.FlushPipeline()
	c.tick(3)
}

func execARM_SWI(c *CPU, instr uint32) {
	oldCPSR := c.Regs.CPSR
	c.Regs.SetMode(SVCMode)
	c.Regs.SetSPSR(oldCPSR)
	lr := c.Regs.R[15] - 4
	if c.Regs.IsThumb() {
		lr = c.Regs.R[15] - 2
	}
	c.Regs.SetReg(14, lr)
	c.Regs.SetIRQDisabled(true)
	c.Regs.SetThumbState(false)
	c.Regs.R[15] = 0x08
	c.FlushPipeline()
	c.tick(3)
}
