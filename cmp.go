// Completion: 100% - Instruction implementation complete
package main

// CmpRegToReg generates CMP reg1, reg2 (64-bit).
func (o *Out) CmpRegToReg(reg1, reg2 string) {
	r1, ok1 := GetRegister(reg1)
	r2, ok2 := GetRegister(reg2)
	if !ok1 || !ok2 {
		return
	}

	o.trace("cmp %s, %s", reg1, reg2)
	o.rexAlways(r2.Encoding, r1.Encoding)
	o.Write(0x39)
	o.Write(modrmReg(r2.Encoding, r1.Encoding))
}

// CmpRegToImm generates CMP reg, imm using the imm8 form when it fits.
func (o *Out) CmpRegToImm(reg string, imm int64) {
	r, ok := GetRegister(reg)
	if !ok {
		return
	}

	o.trace("cmp %s, %d", reg, imm)
	o.rexAlways(0, r.Encoding)
	if imm >= -128 && imm <= 127 {
		o.Write(0x83)
		o.Write(modrm(3, 7, r.Encoding))
		o.Write(uint8(imm))
	} else {
		o.Write(0x81)
		o.Write(modrm(3, 7, r.Encoding))
		o.Write4(uint32(imm))
	}
}

// setccOpcodes maps a jump condition to its SETcc opcode (0x0F-prefixed).
var setccOpcodes = map[JumpCondition]uint8{
	JumpEqual:          0x94,
	JumpNotEqual:       0x95,
	JumpGreater:        0x9F,
	JumpGreaterOrEqual: 0x9D,
	JumpLess:           0x9C,
	JumpLessOrEqual:    0x9E,
	JumpAbove:          0x97,
	JumpAboveOrEqual:   0x93,
	JumpBelow:          0x92,
	JumpBelowOrEqual:   0x96,
}

// SetConditionToRax materializes the last comparison's condition as 0/1
// in RAX: SETcc al followed by a zero-extending MOVZX.
func (o *Out) SetConditionToRax(cond JumpCondition) {
	opcode, ok := setccOpcodes[cond]
	if !ok {
		return
	}

	o.trace("set%v al", cond)
	o.Write(0x0F)
	o.Write(opcode)
	o.Write(0xC0) // ModR/M for AL
	o.MovzxByteToQword("rax", "rax")
}
