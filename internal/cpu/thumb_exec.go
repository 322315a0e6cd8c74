package cpu

// Thumb ALU opcodes (bits 9:6 of a format-4 instruction).
const (
	thAND = 0x0
	thEOR = 0x1
	thLSL = 0x2
	thLSR = 0x3
	thASR = 0x4
	thADC = 0x5
	thSBC = 0x6
	thROR = 0x7
	thTST = 0x8
	thNEG = 0x9
	thCMP = 0xA
	thCMN = 0xB
	thORR = 0xC
	thMUL = 0xD
	thBIC = 0xE
	thMVN = 0xF
)

// execThumb_Shift implements format 1: LSL/LSR/ASR Rd, Rs, #offset.
func execThumb_Shift(c *CPU, instr uint16) {
	op := (instr >> 11) & 3
	offset := uint32((instr >> 6) & 0x1F)
	rs := uint8((instr >> 3) & 7)
	rd := uint8(instr & 7)

	v := c.Regs.GetReg(rs)
	carry := c.Regs.GetFlagC()
	var result uint32
	switch op {
	case 0:
		result, carry = barrelShift(ShiftLSL, v, offset, carry, false)
	case 1:
		result, carry = barrelShift(ShiftLSR, v, offset, carry, false)
	case 2:
		result, carry = barrelShift(ShiftASR, v, offset, carry, false)
	default:
		result = v
	}
	c.Regs.SetReg(rd, result)
	c.Regs.SetNZ(result)
	c.Regs.SetFlagC(carry)
	c.tick(1)
}

// execThumb_AddSub implements format 2: ADD/SUB Rd, Rs, Rn|#imm3.
func execThumb_AddSub(c *CPU, instr uint16) {
	immediate := instr&0x0400 != 0
	subtract := instr&0x0200 != 0
	rnOrImm := uint32((instr >> 6) & 7)
	rs := uint8((instr >> 3) & 7)
	rd := uint8(instr & 7)

	op1 := c.Regs.GetReg(rs)
	var op2 uint32
	if immediate {
		op2 = rnOrImm
	} else {
		op2 = c.Regs.GetReg(uint8(rnOrImm))
	}

	var result uint32
	var carry, overflow bool
	if subtract {
		result, carry, overflow = subWithCarry(op1, op2, 1)
	} else {
		result, carry, overflow = addWithCarry(op1, op2, 0)
	}
	c.Regs.SetReg(rd, result)
	c.Regs.SetNZ(result)
	c.Regs.SetFlagC(carry)
	c.Regs.SetFlagV(overflow)
	c.tick(1)
}

// execThumb_ImmOp implements format 3: MOV/CMP/ADD/SUB Rd, #imm8.
func execThumb_ImmOp(c *CPU, instr uint16) {
	op := (instr >> 11) & 3
	rd := uint8((instr >> 8) & 7)
	imm := uint32(instr & 0xFF)

	switch op {
	case 0: // MOV
		c.Regs.SetReg(rd, imm)
		c.Regs.SetNZ(imm)
	case 1: // CMP
		result, carry, overflow := subWithCarry(c.Regs.GetReg(rd), imm, 1)
		c.Regs.SetNZ(result)
		c.Regs.SetFlagC(carry)
		c.Regs.SetFlagV(overflow)
	case 2: // ADD
		result, carry, overflow := addWithCarry(c.Regs.GetReg(rd), imm, 0)
		c.Regs.SetReg(rd, result)
		c.Regs.SetNZ(result)
		c.Regs.SetFlagC(carry)
		c.Regs.SetFlagV(overflow)
	case 3: // SUB
		result, carry, overflow := subWithCarry(c.Regs.GetReg(rd), imm, 1)
		c.Regs.SetReg(rd, result)
		c.Regs.SetNZ(result)
		c.Regs.SetFlagC(carry)
		c.Regs.SetFlagV(overflow)
	}
	c.tick(1)
}

// execThumb_ALU implements format 4: the 16 two-register ALU ops, most of
// which share the trailing NZ/C-set-and-tick(1) tail; TST/CMP/CMN return
// early without writing rd (spec §4.2, matching the ARM TST/CMP/CMN family).
func execThumb_ALU(c *CPU, instr uint16) {
	op := (instr >> 6) & 0xF
	rs := uint8((instr >> 3) & 7)
	rd := uint8(instr & 7)
	op1 := c.Regs.GetReg(rd)
	op2 := c.Regs.GetReg(rs)
	carry := c.Regs.GetFlagC()
	var result uint32
	var overflow bool

	switch op {
	case thAND:
		result = op1 & op2
	case thEOR:
		result = op1 ^ op2
	case thLSL:
		result, carry = barrelShift(ShiftLSL, op1, op2&0xFF, carry, false)
	case thLSR:
		result, carry = barrelShift(ShiftLSR, op1, op2&0xFF, carry, false)
	case thASR:
		result, carry = barrelShift(ShiftASR, op1, op2&0xFF, carry, false)
	case thADC:
		result, carry, overflow = addWithCarry(op1, op2, boolToBit(c.Regs.GetFlagC()))
		c.Regs.SetFlagV(overflow)
	case thSBC:
		result, carry, overflow = subWithCarry(op1, op2, boolToBit(c.Regs.GetFlagC()))
		c.Regs.SetFlagV(overflow)
	case thROR:
		result, carry = barrelShift(ShiftROR, op1, op2&0xFF, carry, false)
	case thTST:
		result = op1 & op2
		c.Regs.SetNZ(result)
		c.tick(1)
		return
	case thNEG:
		result, carry, overflow = subWithCarry(0, op2, 1)
		c.Regs.SetFlagV(overflow)
	case thCMP:
		result, carry, overflow = subWithCarry(op1, op2, 1)
		c.Regs.SetNZ(result)
		c.Regs.SetFlagC(carry)
		c.Regs.SetFlagV(overflow)
		c.tick(1)
		return
	case thCMN:
		result, carry, overflow = addWithCarry(op1, op2, 0)
		c.Regs.SetNZ(result)
		c.Regs.SetFlagC(carry)
		c.Regs.SetFlagV(overflow)
		c.tick(1)
		return
	case thORR:
		result = op1 | op2
	case thMUL:
		result = op1 * op2
	case thBIC:
		result = op1 &^ op2
	case thMVN:
		result = ^op2
	}

	c.Regs.SetReg(rd, result)
	c.Regs.SetNZ(result)
	c.Regs.SetFlagC(carry)
	c.tick(1)
}

// execThumb_HiReg implements format 5: ADD/CMP/MOV/BX over r0-r15 (rd, rs
// extended into r8-r15 by the h1/h2 bits).
func execThumb_HiReg(c *CPU, instr uint16) {
	op := (instr >> 8) & 3
	h1 := instr&0x80 != 0
	h2 := instr&0x40 != 0
	rs := uint8((instr>>3)&7) + hiRegOffset(h2)
	rd := uint8(instr&7) + hiRegOffset(h1)

	switch op {
	case 0: // ADD
		result := c.Regs.GetReg(rd) + c.Regs.GetReg(rs)
		c.Regs.SetReg(rd, result)
		if rd == 15 {
			c.FlushPipeline()
		}
	case 1: // CMP
		result, carry, overflow := subWithCarry(c.Regs.GetReg(rd), c.Regs.GetReg(rs), 1)
		c.Regs.SetNZ(result)
		c.Regs.SetFlagC(carry)
		c.Regs.SetFlagV(overflow)
	case 2: // MOV
		c.Regs.SetReg(rd, c.Regs.GetReg(rs))
		if rd == 15 {
			c.FlushPipeline()
		}
	case 3: // BX / BLX
		addr := c.Regs.GetReg(rs)
		c.Regs.SetThumbState(addr&1 != 0)
		c.Regs.R[15] = addr &^ 1
		c.FlushPipeline()
	}
	c.tick(1)
}

func hiRegOffset(set bool) uint8 {
	if set {
		return 8
	}
	return 0
}

// execThumb_PCLoad implements format 6: LDR Rd, [PC, #imm8*4], with PC
// word-aligned down before the offset is applied.
func execThumb_PCLoad(c *CPU, instr uint16) {
	rd := uint8((instr >> 8) & 7)
	offset := uint32(instr&0xFF) * 4
	base := (c.Regs.R[15] - 2) &^ 3
	c.Regs.SetReg(rd, c.bus.Read32(base+offset))
	c.tick(3)
}

// execThumb_RegOffset implements format 7: LDR/STR{B} Rd, [Rb, Ro].
func execThumb_RegOffset(c *CPU, instr uint16) {
	load := instr&0x0800 != 0
	byteTransfer := instr&0x0400 != 0
	ro := uint8((instr >> 6) & 7)
	rb := uint8((instr >> 3) & 7)
	rd := uint8(instr & 7)
	addr := c.Regs.GetReg(rb) + c.Regs.GetReg(ro)

	if load {
		if byteTransfer {
			c.Regs.SetReg(rd, uint32(c.bus.Read8(addr)))
		} else {
			c.Regs.SetReg(rd, c.bus.Read32(addr))
		}
		c.tick(3)
	} else {
		if byteTransfer {
			c.bus.Write8(addr, uint8(c.Regs.GetReg(rd)))
		} else {
			c.bus.Write32(addr, c.Regs.GetReg(rd))
		}
		c.tick(2)
	}
}

// execThumb_SignExtend implements format 8: STRH / LDRSB / LDRH / LDRSH,
// Rd, [Rb, Ro]. The h/s bit combination follows the ARM halfword/
// sign-extended reference encoding, not the source's conflated STRH path
// (spec §9 Open Questions).
func execThumb_SignExtend(c *CPU, instr uint16) {
	h := instr&0x0800 != 0
	s := instr&0x0400 != 0
	ro := uint8((instr >> 6) & 7)
	rb := uint8((instr >> 3) & 7)
	rd := uint8(instr & 7)
	addr := c.Regs.GetReg(rb) + c.Regs.GetReg(ro)

	switch {
	case !h && !s: // STRH
		c.bus.Write16(addr, uint16(c.Regs.GetReg(rd)))
		c.tick(2)
	case !h && s: // LDRSB
		v := uint32(c.bus.Read8(addr))
		if v&0x80 != 0 {
			v |= 0xFFFFFF00
		}
		c.Regs.SetReg(rd, v)
		c.tick(3)
	case h && !s: // LDRH
		c.Regs.SetReg(rd, uint32(c.bus.Read16(addr)))
		c.tick(3)
	default: // LDRSH
		v := uint32(c.bus.Read16(addr))
		if v&0x8000 != 0 {
			v |= 0xFFFF0000
		}
		c.Regs.SetReg(rd, v)
		c.tick(3)
	}
}

// execThumb_ImmOffset implements format 9: LDR/STR{B} Rd, [Rb, #imm5].
func execThumb_ImmOffset(c *CPU, instr uint16) {
	byteTransfer := instr&0x1000 != 0
	load := instr&0x0800 != 0
	offset := uint32((instr >> 6) & 0x1F)
	if !byteTransfer {
		offset *= 4
	}
	rb := uint8((instr >> 3) & 7)
	rd := uint8(instr & 7)
	addr := c.Regs.GetReg(rb) + offset

	if load {
		if byteTransfer {
			c.Regs.SetReg(rd, uint32(c.bus.Read8(addr)))
		} else {
			c.Regs.SetReg(rd, c.bus.Read32(addr))
		}
		c.tick(3)
	} else {
		if byteTransfer {
			c.bus.Write8(addr, uint8(c.Regs.GetReg(rd)))
		} else {
			c.bus.Write32(addr, c.Regs.GetReg(rd))
		}
		c.tick(2)
	}
}

// execThumb_Halfword implements format 10: LDRH/STRH Rd, [Rb, #imm5*2].
func execThumb_Halfword(c *CPU, instr uint16) {
	load := instr&0x0800 != 0
	offset := uint32((instr>>6)&0x1F) * 2
	rb := uint8((instr >> 3) & 7)
	rd := uint8(instr & 7)
	addr := c.Regs.GetReg(rb) + offset

	if load {
		c.Regs.SetReg(rd, uint32(c.bus.Read16(addr)))
		c.tick(3)
	} else {
		c.bus.Write16(addr, uint16(c.Regs.GetReg(rd)))
		c.tick(2)
	}
}

// execThumb_SPRelative implements format 11: LDR/STR Rd, [SP, #imm8*4].
func execThumb_SPRelative(c *CPU, instr uint16) {
	load := instr&0x0800 != 0
	rd := uint8((instr >> 8) & 7)
	offset := uint32(instr&0xFF) * 4
	addr := c.Regs.GetReg(13) + offset

	if load {
		c.Regs.SetReg(rd, c.bus.Read32(addr))
		c.tick(3)
	} else {
		c.bus.Write32(addr, c.Regs.GetReg(rd))
		c.tick(2)
	}
}

// execThumb_LoadAddr implements format 12: ADD Rd, PC|SP, #imm8*4.
func execThumb_LoadAddr(c *CPU, instr uint16) {
	useSP := instr&0x0800 != 0
	rd := uint8((instr >> 8) & 7)
	offset := uint32(instr&0xFF) * 4

	var result uint32
	if useSP {
		result = c.Regs.GetReg(13) + offset
	} else {
		result = ((c.Regs.R[15] - 2) &^ 3) + offset
	}
	c.Regs.SetReg(rd, result)
	c.tick(1)
}

// execThumb_SPOffset implements format 13: ADD SP, #+/-imm7*4.
func execThumb_SPOffset(c *CPU, instr uint16) {
	negative := instr&0x80 != 0
	offset := uint32(instr&0x7F) * 4
	sp := c.Regs.GetReg(13)
	if negative {
		sp -= offset
	} else {
		sp += offset
	}
	c.Regs.SetReg(13, sp)
	c.tick(1)
}

// execThumb_PushPop implements format 14: PUSH/POP {Rlist, LR|PC}.
func execThumb_PushPop(c *CPU, instr uint16) {
	load := instr&0x0800 != 0
	includePCLR := instr&0x0100 != 0
	regList := instr & 0xFF

	count := 0
	for x := 0; x < 8; x++ {
		if regList&(1<<uint(x)) != 0 {
			count++
		}
	}
	if includePCLR {
		count++
	}

	if load {
		addr := c.Regs.GetReg(13)
		for x := 0; x < 8; x++ {
			if regList&(1<<uint(x)) != 0 {
				c.Regs.SetReg(uint8(x), c.bus.Read32(addr))
				addr += 4
			}
		}
		if includePCLR {
			c.Regs.R[15] = c.bus.Read32(addr) &^ 1
			addr += 4
			c.FlushPipeline()
		}
		c.Regs.SetReg(13, addr)
	} else {
		addr := c.Regs.GetReg(13) - uint32(count)*4
		c.Regs.SetReg(13, addr)
		for x := 0; x < 8; x++ {
			if regList&(1<<uint(x)) != 0 {
				c.bus.Write32(addr, c.Regs.GetReg(uint8(x)))
				addr += 4
			}
		}
		if includePCLR {
			c.bus.Write32(addr, c.Regs.GetReg(14))
		}
	}
	c.tick(uint64(count) + 2)
}

// execThumb_Multiple implements format 15: STMIA/LDMIA Rb!, {Rlist} over
// the low 8 registers.
func execThumb_Multiple(c *CPU, instr uint16) {
	load := instr&0x0800 != 0
	rb := uint8((instr >> 8) & 7)
	regList := instr & 0xFF

	addr := c.Regs.GetReg(rb)
	count := 0
	baseIncluded := false
	for x := 0; x < 8; x++ {
		if regList&(1<<uint(x)) != 0 {
			count++
			if uint8(x) == rb {
				baseIncluded = true
			}
			if load {
				c.Regs.SetReg(uint8(x), c.bus.Read32(addr))
			} else {
				c.bus.Write32(addr, c.Regs.GetReg(uint8(x)))
			}
			addr += 4
		}
	}
	if !(load && baseIncluded) {
		c.Regs.SetReg(rb, addr)
	}
	c.tick(uint64(count) + 2)
}

// execThumb_CondBranch implements format 16: Bcc #signed-offset8 (x2).
func execThumb_CondBranch(c *CPU, instr uint16) {
	cond := uint32((instr >> 8) & 0xF)
	offset := int32(int8(instr & 0xFF))
	if !checkCondition(c.Regs, cond) {
		c.tick(1)
		return
	}
	c.Regs.R[15] = uint32(int32(c.Regs.R[15]) + offset*2)
	c.FlushPipeline()
	c.tick(3)
}

// execThumb_SWI handles the Thumb SWI encoding folded into format 16's
// cond==0xF slot.
func execThumb_SWI(c *CPU, instr uint16) {
	oldCPSR := c.Regs.CPSR
	c.Regs.SetMode(SVCMode)
	c.Regs.SetSPSR(oldCPSR)
	lr := c.Regs.R[15] - 2
	c.Regs.SetReg(14, lr)
	c.Regs.SetIRQDisabled(true)
	c.Regs.SetThumbState(false)
	c.Regs.R[15] = 0x08
	c.FlushPipeline()
	c.tick(3)
}

// execThumb_Branch implements format 18: unconditional B #signed-offset11 (x2).
func execThumb_Branch(c *CPU, instr uint16) {
	offset := signExtend(uint32(instr&0x7FF), 11) << 1
	c.Regs.R[15] = uint32(int32(c.Regs.R[15]) + offset)
	c.FlushPipeline()
	c.tick(3)
}

// execThumb_LongBranch implements format 19: the two-instruction BL
// sequence. The first half fills LR with PC + (offset<<12); the second
// computes the target from LR + (offset<<1) and sets LR to the return
// address with bit 0 set (marking Thumb state on return via BX).
func execThumb_LongBranch(c *CPU, instr uint16) {
	high := instr&0x0800 != 0
	offset := uint32(instr & 0x7FF)

	if !high {
		signed := signExtend(offset, 11)
		c.Regs.SetReg(14, uint32(int32(c.Regs.R[15])+(signed<<12)))
		c.tick(1)
		return
	}

	returnAddr := c.Regs.R[15] - 2
	target := (c.Regs.GetReg(14) + (offset << 1)) &^ 1
	c.Regs.R[15] = target
	c.Regs.SetReg(14, returnAddr|1)
	c.FlushPipeline()
	c.tick(3)
}

// signExtend sign-extends the low `bits` bits of v into a signed 32-bit value.
func signExtend(v uint32, bits uint) int32 {
	shift := 32 - bits
	return int32(v<<shift) >> shift
}
