package cpu

// Shift types as encoded in bits 6:5 of a shifted register operand, and in
// the fixed value 3 (ROR) used for rotated immediates.
const (
	ShiftLSL = 0
	ShiftLSR = 1
	ShiftASR = 2
	ShiftROR = 3
)

// barrelShift applies one of the four ARM shift types to v by amount,
// returning the shifted value and the resulting carry-out. carryIn is the
// current C flag, needed for LSL/LSR/ASR #0 passthrough and for RRX.
//
// Edge cases (spec §4.2, §8 Boundary cases) are handled per type:
//   - LSL #0: value unchanged, carry unchanged.
//   - LSL by 1..31: normal shift.
//   - LSL by 32: result 0, carry = bit 0 of v.
//   - LSL by >32: result 0, carry = false.
//   - LSR #0 (from an immediate shift encoding): treated as LSR #32.
//   - LSR by 1..31: normal shift.
//   - LSR by 32: result 0, carry = bit 31 of v.
//   - LSR by >32: result 0, carry = false.
//   - ASR #0: treated as ASR #32.
//   - ASR by >=32: result all-sign-bits, carry = bit 31 of v.
//   - ROR #0 (from an immediate shift encoding) is RRX: 33-bit rotate
//     through carry, shifting in carryIn at bit 31 and shifting bit 0 out
//     to the new carry.
//   - ROR by a nonzero amount is taken mod 32; amount==0 after the mod
//     leaves v unchanged with carry = bit 31 of v (matches a literal ROR #32
//     i.e. no rotation at all).
func barrelShift(shiftType uint32, v uint32, amount uint32, carryIn bool, isRRX bool) (uint32, bool) {
	switch shiftType {
	case ShiftLSL:
		switch {
		case amount == 0:
			return v, carryIn
		case amount < 32:
			carry := (v>>(32-amount))&1 == 1
			return v << amount, carry
		case amount == 32:
			return 0, v&1 == 1
		default:
			return 0, false
		}
	case ShiftLSR:
		if amount == 0 {
			amount = 32
		}
		switch {
		case amount < 32:
			carry := (v>>(amount-1))&1 == 1
			return v >> amount, carry
		case amount == 32:
			return 0, v&0x80000000 != 0
		default:
			return 0, false
		}
	case ShiftASR:
		if amount == 0 {
			amount = 32
		}
		if amount >= 32 {
			if v&0x80000000 != 0 {
				return 0xFFFFFFFF, true
			}
			return 0, false
		}
		carry := (v>>(amount-1))&1 == 1
		result := uint32(int32(v) >> amount)
		return result, carry
	case ShiftROR:
		if isRRX {
			carryOut := v&1 == 1
			result := v >> 1
			if carryIn {
				result |= 0x80000000
			}
			return result, carryOut
		}
		amount &= 31
		if amount == 0 {
			return v, v&0x80000000 != 0
		}
		carry := (v>>(amount-1))&1 == 1
		result := (v >> amount) | (v << (32 - amount))
		return result, carry
	}
	return v, carryIn
}

// addWithCarry is the unified flag primitive spec §4.2/§8 names: sum, carry
// out, and signed overflow for a 32-bit add with carry-in.
func addWithCarry(a, b uint32, carryIn uint32) (sum uint32, carryOut bool, overflow bool) {
	wide := uint64(a) + uint64(b) + uint64(carryIn)
	sum = uint32(wide)
	carryOut = wide > 0xFFFFFFFF
	overflow = ((a^sum)&(b^sum))&0x80000000 != 0
	return
}

// subWithCarry computes a subtract as add-with-carry on ~b (spec §4.2).
func subWithCarry(a, b uint32, carryIn uint32) (uint32, bool, bool) {
	return addWithCarry(a, ^b, carryIn)
}
