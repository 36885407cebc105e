// Completion: 100% - Instruction implementation complete
package main

// Conditional and unconditional jumps. Every jump whose target is not yet
// known emits the near form with a fixed-width 32-bit placeholder
// displacement, so the later patch never shifts any already-emitted byte.

// JumpCondition selects a condition code for Jcc/SETcc.
type JumpCondition int

const (
	JumpEqual          JumpCondition = iota // JE/JZ - equal/zero
	JumpNotEqual                            // JNE/JNZ - not equal/not zero
	JumpGreater                             // JG/JNLE - greater (signed)
	JumpGreaterOrEqual                      // JGE/JNL - greater or equal (signed)
	JumpLess                                // JL/JNGE - less (signed)
	JumpLessOrEqual                         // JLE/JNG - less or equal (signed)
	JumpAbove                               // JA/JNBE - above (unsigned)
	JumpAboveOrEqual                        // JAE/JNB - above or equal (unsigned)
	JumpBelow                               // JB/JNAE - below (unsigned)
	JumpBelowOrEqual                        // JBE/JNA - below or equal (unsigned)
)

func (c JumpCondition) String() string {
	switch c {
	case JumpEqual:
		return "e"
	case JumpNotEqual:
		return "ne"
	case JumpGreater:
		return "g"
	case JumpGreaterOrEqual:
		return "ge"
	case JumpLess:
		return "l"
	case JumpLessOrEqual:
		return "le"
	case JumpAbove:
		return "a"
	case JumpAboveOrEqual:
		return "ae"
	case JumpBelow:
		return "b"
	case JumpBelowOrEqual:
		return "be"
	default:
		return "?"
	}
}

// Negate flips a condition, turning "branch into the then-arm" into
// "branch past it".
func (c JumpCondition) Negate() JumpCondition {
	switch c {
	case JumpEqual:
		return JumpNotEqual
	case JumpNotEqual:
		return JumpEqual
	case JumpGreater:
		return JumpLessOrEqual
	case JumpGreaterOrEqual:
		return JumpLess
	case JumpLess:
		return JumpGreaterOrEqual
	case JumpLessOrEqual:
		return JumpGreater
	case JumpAbove:
		return JumpBelowOrEqual
	case JumpAboveOrEqual:
		return JumpBelow
	case JumpBelow:
		return JumpAboveOrEqual
	case JumpBelowOrEqual:
		return JumpAbove
	default:
		return c
	}
}

var jccOpcodes = map[JumpCondition]uint8{
	JumpEqual:          0x84,
	JumpNotEqual:       0x85,
	JumpGreater:        0x8F,
	JumpGreaterOrEqual: 0x8D,
	JumpLess:           0x8C,
	JumpLessOrEqual:    0x8E,
	JumpAbove:          0x87,
	JumpAboveOrEqual:   0x83,
	JumpBelow:          0x82,
	JumpBelowOrEqual:   0x86,
}

// JumpConditional generates Jcc with a known 32-bit displacement
// (relative to the end of the instruction).
func (o *Out) JumpConditional(cond JumpCondition, offset int32) {
	opcode, ok := jccOpcodes[cond]
	if !ok {
		return
	}

	o.trace("j%v %d", cond, offset)
	o.Write(0x0F)
	o.Write(opcode)
	o.Write4(uint32(offset))
}

// JumpUnconditional generates JMP rel32 with a known displacement.
func (o *Out) JumpUnconditional(offset int32) {
	o.trace("jmp %d", offset)
	o.Write(0xE9)
	o.Write4(uint32(offset))
}

// JumpConditionalForward emits Jcc with a zeroed placeholder displacement
// and returns the logical offset of the placeholder for later patching.
func (o *Out) JumpConditionalForward(cond JumpCondition) int {
	opcode, ok := jccOpcodes[cond]
	if !ok {
		return -1
	}

	o.trace("j%v <forward>", cond)
	o.Write(0x0F)
	o.Write(opcode)
	patchAt := o.Position()
	o.Write4(0)
	return patchAt
}

// JumpForward emits JMP rel32 with a zeroed placeholder displacement and
// returns the logical offset of the placeholder.
func (o *Out) JumpForward() int {
	o.trace("jmp <forward>")
	o.Write(0xE9)
	patchAt := o.Position()
	o.Write4(0)
	return patchAt
}

// PatchJump resolves a placeholder emitted by one of the Forward forms:
// the displacement is relative to the end of the 4-byte placeholder.
func (o *Out) PatchJump(patchAt, target int) {
	o.buf.Patch32(patchAt, uint32(int32(target-(patchAt+4))))
}

// JumpBackward generates JMP rel32 to an already-bound target.
func (o *Out) JumpBackward(target int) {
	// Displacement is measured from the end of the 5-byte instruction.
	o.JumpUnconditional(int32(target - (o.Position() + 5)))
}

// JumpConditionalBackward generates Jcc rel32 to an already-bound target.
func (o *Out) JumpConditionalBackward(cond JumpCondition, target int) {
	// 6-byte instruction: 0x0F, opcode, rel32.
	o.JumpConditional(cond, int32(target-(o.Position()+6)))
}
