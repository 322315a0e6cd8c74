package cpu

// armHandler executes one decoded ARM instruction group.
type armHandler func(c *CPU, instr uint32)

// armTable is a 4096-entry dispatch table indexed by bits 27:20 (the 8 bits
// that name the instruction group) concatenated with bits 7:4 (4 bits that
// disambiguate multiply from data-processing within the 00 group), built
// once at init rather than decoded via a repeated mask-and-compare chain
// on every instruction (spec §9 Design Notes).
var armTable [4096]armHandler

func armTableIndex(instr uint32) uint32 {
	hi8 := (instr >> 20) & 0xFF
	lo4 := (instr >> 4) & 0xF
	return (hi8 << 4) | lo4
}

func init() {
	for i := range armTable {
		hi8 := uint32(i >> 4)
		lo4 := uint32(i & 0xF)
		nibble := hi8 >> 4 // bits 27:24

		switch {
		case nibble == 0xF:
			armTable[i] = execARM_SWI
		case nibble <= 0x3:
			// bits 27:26 == 00: multiply, BX, or data processing.
			if (hi8>>2) == 0 && lo4 == 0b1001 {
				armTable[i] = execARM_Multiply
			} else {
				armTable[i] = execARM_DataProcessingOrBX
			}
		case nibble >= 0x4 && nibble <= 0x7:
			armTable[i] = execARM_SingleDataTransfer
		case nibble == 0x8 || nibble == 0x9:
			armTable[i] = execARM_BlockDataTransfer
		case nibble == 0xA || nibble == 0xB:
			armTable[i] = execARM_Branch
		default:
			armTable[i] = execARM_Undefined
		}
	}
}

// executeARM evaluates the condition field and, if it passes, dispatches
// through armTable. A failing condition consumes 1 cycle with no side
// effects (spec §4.2).
func (c *CPU) executeARM(instr uint32) {
	cond := (instr >> 28) & 0xF
	if !checkCondition(c.Regs, cond) {
		c.tick(1)
		return
	}
	armTable[armTableIndex(instr)](c, instr)
}

func execARM_Undefined(c *CPU, instr uint32) {
	c.tick(1)
}
