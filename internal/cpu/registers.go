package cpu

import (
	"fmt"
)

// ARM7TDMI CPU operating modes (low 5 bits of CPSR).
const (
	USRMode = 0b10000
	FIQMode = 0b10001
	IRQMode = 0b10010
	SVCMode = 0b10011
	ABTMode = 0b10111
	UNDMode = 0b11011
	SYSMode = 0b11111
)

// bank categories: every privileged mode except USR/SYS gets its own r13/r14
// and SPSR; USR and SYS share one bank. FIQ additionally banks r8-r12.
const (
	bankUSR = iota
	bankFIQ
	bankSVC
	bankABT
	bankIRQ
	bankUND
	numBanks
)

func bankOf(mode uint8) int {
	switch mode {
	case FIQMode:
		return bankFIQ
	case SVCMode:
		return bankSVC
	case ABTMode:
		return bankABT
	case IRQMode:
		return bankIRQ
	case UNDMode:
		return bankUND
	default: // USR, SYS
		return bankUSR
	}
}

// Registers models the ARM7TDMI register file as a fixed-size table of
// banks plus a "current view" r[0..15], matching the design note that
// banked state is swapped in and out on mode change rather than looked up
// dynamically on every access.
type Registers struct {
	R [16]uint32 // current view; R[15] holds the raw PC (no read-ahead bias)

	CPSR uint32

	bankR13 [numBanks]uint32
	bankR14 [numBanks]uint32
	spsr    [numBanks]uint32 // spsr[bankUSR] is unused (USR/SYS have none)

	usrR8_12 [5]uint32 // r8..r12 backing store while not in FIQ mode
	fiqR8_12 [5]uint32 // r8..r12 backing store while in FIQ mode
}

// NewRegisters returns a register file reset to the post-power-on state:
// Supervisor mode, ARM state, IRQ and FIQ disabled, PC at the cartridge
// entry point. The BIOS boot sequence is not modeled (spec Non-goals: no
// BIOS HLE), so execution starts directly at the Game Pak ROM base.
func NewRegisters() *Registers {
	r := &Registers{}
	r.CPSR = uint32(SVCMode) | (1 << 6) | (1 << 7)
	r.R[15] = 0x08000000
	return r
}

// Snapshot is the serializable copy of a register file used by save states
// (spec §5): every general register, CPSR, every banked r13/r14 and SPSR,
// and the FIQ-shadowed r8-r12.
type Snapshot struct {
	R        [16]uint32
	CPSR     uint32
	BankR13  [numBanks]uint32
	BankR14  [numBanks]uint32
	SPSR     [numBanks]uint32
	UsrR8_12 [5]uint32
	FiqR8_12 [5]uint32
}

// Snapshot captures the full register file, banked slots included.
func (r *Registers) Snapshot() Snapshot {
	return Snapshot{
		R: r.R, CPSR: r.CPSR,
		BankR13: r.bankR13, BankR14: r.bankR14, SPSR: r.spsr,
		UsrR8_12: r.usrR8_12, FiqR8_12: r.fiqR8_12,
	}
}

// Restore replaces the entire register file from a Snapshot.
func (r *Registers) Restore(s Snapshot) {
	r.R = s.R
	r.CPSR = s.CPSR
	r.bankR13 = s.BankR13
	r.bankR14 = s.BankR14
	r.spsr = s.SPSR
	r.usrR8_12 = s.UsrR8_12
	r.fiqR8_12 = s.FiqR8_12
}

func (r *Registers) GetMode() uint8 { return uint8(r.CPSR & 0x1F) }

// SetMode swaps banked r13/r14 (and r8-r12 for FIQ) into the current view
// for the new mode, and updates CPSR's mode field.
func (r *Registers) SetMode(mode uint8) {
	oldMode := r.GetMode()
	if oldMode == mode {
		return
	}
	oldBank := bankOf(oldMode)
	newBank := bankOf(mode)

	if oldBank != newBank {
		r.bankR13[oldBank] = r.R[13]
		r.bankR14[oldBank] = r.R[14]
		r.R[13] = r.bankR13[newBank]
		r.R[14] = r.bankR14[newBank]
	}

	wasFIQ := oldMode == FIQMode
	isFIQ := mode == FIQMode
	if wasFIQ != isFIQ {
		if wasFIQ {
			copy(r.fiqR8_12[:], r.R[8:13])
			copy(r.R[8:13], r.usrR8_12[:])
		} else {
			copy(r.usrR8_12[:], r.R[8:13])
			copy(r.R[8:13], r.fiqR8_12[:])
		}
	}

	r.CPSR = (r.CPSR &^ 0x1F) | uint32(mode)
}

// GetReg returns the raw value of r0-r15 with no PC read-ahead bias.
// Decode/execute code that needs the architectural PC-as-operand value
// (+8 ARM / +4 Thumb) must add the bias itself, per spec §3.
func (r *Registers) GetReg(n uint8) uint32 { return r.R[n] }

func (r *Registers) SetReg(n uint8, value uint32) { r.R[n] = value }

// GetSPSR returns the SPSR banked for the current mode; 0 in USR/SYS mode
// where no SPSR exists.
func (r *Registers) GetSPSR() uint32 {
	bank := bankOf(r.GetMode())
	if bank == bankUSR {
		return 0
	}
	return r.spsr[bank]
}

// SetSPSR writes the SPSR banked for the current mode; a no-op in USR/SYS.
func (r *Registers) SetSPSR(value uint32) {
	bank := bankOf(r.GetMode())
	if bank == bankUSR {
		return
	}
	r.spsr[bank] = value
}

func (r *Registers) IsThumb() bool { return (r.CPSR>>5)&1 == 1 }

func (r *Registers) SetThumbState(thumb bool) {
	if thumb {
		r.CPSR |= 1 << 5
	} else {
		r.CPSR &^= 1 << 5
	}
}

func (r *Registers) IsFIQDisabled() bool { return (r.CPSR>>6)&1 == 1 }

func (r *Registers) SetFIQDisabled(disabled bool) {
	if disabled {
		r.CPSR |= 1 << 6
	} else {
		r.CPSR &^= 1 << 6
	}
}

func (r *Registers) IsIRQDisabled() bool { return (r.CPSR>>7)&1 == 1 }

func (r *Registers) SetIRQDisabled(disabled bool) {
	if disabled {
		r.CPSR |= 1 << 7
	} else {
		r.CPSR &^= 1 << 7
	}
}

func (r *Registers) GetFlagN() bool { return (r.CPSR>>31)&1 == 1 }
func (r *Registers) GetFlagZ() bool { return (r.CPSR>>30)&1 == 1 }
func (r *Registers) GetFlagC() bool { return (r.CPSR>>29)&1 == 1 }
func (r *Registers) GetFlagV() bool { return (r.CPSR>>28)&1 == 1 }

func (r *Registers) setFlagBit(bit uint, set bool) {
	if set {
		r.CPSR |= 1 << bit
	} else {
		r.CPSR &^= 1 << bit
	}
}

func (r *Registers) SetFlagN(set bool) { r.setFlagBit(31, set) }
func (r *Registers) SetFlagZ(set bool) { r.setFlagBit(30, set) }
func (r *Registers) SetFlagC(set bool) { r.setFlagBit(29, set) }
func (r *Registers) SetFlagV(set bool) { r.setFlagBit(28, set) }

// SetNZ sets N and Z from a 32-bit result, the common MOVS/logical path.
func (r *Registers) SetNZ(result uint32) {
	r.SetFlagN(result&0x80000000 != 0)
	r.SetFlagZ(result == 0)
}

func (r *Registers) String() string {
	modeStr := map[uint8]string{
		USRMode: "USR", FIQMode: "FIQ", IRQMode: "IRQ", SVCMode: "SVC",
		ABTMode: "ABT", UNDMode: "UND", SYSMode: "SYS",
	}[r.GetMode()]
	if modeStr == "" {
		modeStr = fmt.Sprintf("?%02X?", r.GetMode())
	}
	thumbState := "ARM"
	if r.IsThumb() {
		thumbState = "THUMB"
	}
	return fmt.Sprintf(
		"R0 =%08X R1 =%08X R2 =%08X R3 =%08X R4 =%08X R5 =%08X R6 =%08X R7 =%08X\n"+
			"R8 =%08X R9 =%08X R10=%08X R11=%08X R12=%08X SP =%08X LR =%08X PC =%08X\n"+
			"CPSR=%08X (%s %s N:%t Z:%t C:%t V:%t)",
		r.R[0], r.R[1], r.R[2], r.R[3], r.R[4], r.R[5], r.R[6], r.R[7],
		r.R[8], r.R[9], r.R[10], r.R[11], r.R[12], r.R[13], r.R[14], r.R[15],
		r.CPSR, modeStr, thumbState,
		r.GetFlagN(), r.GetFlagZ(), r.GetFlagC(), r.GetFlagV(),
	)
}
