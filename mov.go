// Completion: 100% - Instruction implementation complete
package main

// MOV forms used by the generator: register shuffles, immediate loads and
// frame-pointer-relative loads/stores for stack slots.

// MovRegToReg generates MOV dst, src for 64-bit GP registers.
func (o *Out) MovRegToReg(dst, src string) {
	dstReg, dstOk := GetRegister(dst)
	srcReg, srcOk := GetRegister(src)
	if !dstOk || !srcOk {
		return
	}

	o.trace("mov %s, %s", dst, src)
	o.rexAlways(srcReg.Encoding, dstReg.Encoding)
	o.Write(0x89)
	o.Write(modrmReg(srcReg.Encoding, dstReg.Encoding))
}

// MovImmToReg loads a 64-bit immediate. Values outside the sign-extended
// 32-bit range use the movabs form (0xB8+r), everything else the shorter
// MOV r/m64, imm32.
func (o *Out) MovImmToReg(dst string, imm int64) {
	dstReg, dstOk := GetRegister(dst)
	if !dstOk {
		return
	}

	o.trace("mov %s, %d", dst, imm)
	if imm < -0x80000000 || imm > 0x7FFFFFFF {
		rex := uint8(rexBase | rexW)
		if dstReg.Encoding >= 8 {
			rex |= rexB
		}
		o.Write(rex)
		o.Write(0xB8 | (dstReg.Encoding & 7))
		o.Write8u(uint64(imm))
		return
	}

	o.rexAlways(0, dstReg.Encoding)
	o.Write(0xC7)
	o.Write(modrmReg(0, dstReg.Encoding))
	o.Write4(uint32(imm))
}

// MovMemToReg generates MOV dst, [base+disp].
func (o *Out) MovMemToReg(dst, base string, disp int32) {
	dstReg, dstOk := GetRegister(dst)
	baseReg, baseOk := GetRegister(base)
	if !dstOk || !baseOk {
		return
	}

	o.trace("mov %s, [%s%+d]", dst, base, disp)
	o.rexAlways(dstReg.Encoding, baseReg.Encoding)
	o.Write(0x8B)
	o.memOperand(dstReg.Encoding, baseReg, disp)
}

// MovRegToMem generates MOV [base+disp], src.
func (o *Out) MovRegToMem(src, base string, disp int32) {
	srcReg, srcOk := GetRegister(src)
	baseReg, baseOk := GetRegister(base)
	if !srcOk || !baseOk {
		return
	}

	o.trace("mov [%s%+d], %s", base, disp, src)
	o.rexAlways(srcReg.Encoding, baseReg.Encoding)
	o.Write(0x89)
	o.memOperand(srcReg.Encoding, baseReg, disp)
}

// MovzxByteToQword zero-extends an 8-bit register into a 64-bit one,
// normalizing a SETcc result to 0/1.
func (o *Out) MovzxByteToQword(dst, src string) {
	dstReg, dstOk := GetRegister(dst)
	srcReg, srcOk := GetRegister(src)
	if !dstOk || !srcOk {
		return
	}

	o.trace("movzx %s, %s", dst, src)
	o.rexAlways(dstReg.Encoding, srcReg.Encoding)
	o.Write(0x0F)
	o.Write(0xB6)
	o.Write(modrmReg(dstReg.Encoding, srcReg.Encoding))
}
