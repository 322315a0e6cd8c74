package cpu

// thumbHandler executes one decoded Thumb instruction group.
type thumbHandler func(c *CPU, instr uint16)

// thumbTable is a 1024-entry dispatch table indexed by the top 10 bits of
// the instruction, built once at init (spec §9 Design Notes) instead of the
// mask-and-compare chain a literal transliteration would use.
var thumbTable [1024]thumbHandler

func thumbTableIndex(instr uint16) uint16 {
	return instr >> 6
}

func init() {
	for i := range thumbTable {
		instr := uint16(i) << 6
		thumbTable[i] = classifyThumb(instr)
	}
}

func classifyThumb(instr uint16) thumbHandler {
	switch {
	case instr&0xE000 == 0x0000:
		if instr&0x1800 == 0x1800 {
			return execThumb_AddSub
		}
		return execThumb_Shift
	case instr&0xE000 == 0x2000:
		return execThumb_ImmOp
	case instr&0xFC00 == 0x4000:
		return execThumb_ALU
	case instr&0xFC00 == 0x4400:
		return execThumb_HiReg
	case instr&0xF800 == 0x4800:
		return execThumb_PCLoad
	case instr&0xF200 == 0x5000:
		return execThumb_RegOffset
	case instr&0xF200 == 0x5200:
		return execThumb_SignExtend
	case instr&0xE000 == 0x6000:
		return execThumb_ImmOffset
	case instr&0xF000 == 0x8000:
		return execThumb_Halfword
	case instr&0xF000 == 0x9000:
		return execThumb_SPRelative
	case instr&0xF000 == 0xA000:
		return execThumb_LoadAddr
	case instr&0xFF00 == 0xB000:
		return execThumb_SPOffset
	case instr&0xF600 == 0xB400:
		return execThumb_PushPop
	case instr&0xF000 == 0xC000:
		return execThumb_Multiple
	case instr&0xF000 == 0xD000:
		if instr&0x0F00 == 0x0F00 {
			return execThumb_SWI
		}
		return execThumb_CondBranch
	case instr&0xF800 == 0xE000:
		return execThumb_Branch
	case instr&0xF000 == 0xF000:
		return execThumb_LongBranch
	default:
		return execThumb_Undefined
	}
}

func (c *CPU) executeThumb(instr uint16) {
	thumbTable[thumbTableIndex(instr)](c, instr)
}

func execThumb_Undefined(c *CPU, instr uint16) {
	c.tick(1)
}
