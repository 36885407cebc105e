// Completion: 100% - Instruction implementation complete
package main

// AddRegToReg generates ADD dst, src (64-bit).
func (o *Out) AddRegToReg(dst, src string) {
	dstReg, dstOk := GetRegister(dst)
	srcReg, srcOk := GetRegister(src)
	if !dstOk || !srcOk {
		return
	}

	o.trace("add %s, %s", dst, src)
	o.rexAlways(srcReg.Encoding, dstReg.Encoding)
	o.Write(0x01)
	o.Write(modrmReg(srcReg.Encoding, dstReg.Encoding))
}

// AddImmToReg generates ADD dst, imm using the imm8 form when it fits.
func (o *Out) AddImmToReg(dst string, imm int64) {
	dstReg, dstOk := GetRegister(dst)
	if !dstOk {
		return
	}

	o.trace("add %s, %d", dst, imm)
	o.rexAlways(0, dstReg.Encoding)
	if imm >= -128 && imm <= 127 {
		o.Write(0x83)
		o.Write(modrmReg(0, dstReg.Encoding))
		o.Write(uint8(imm))
	} else {
		o.Write(0x81)
		o.Write(modrmReg(0, dstReg.Encoding))
		o.Write4(uint32(imm))
	}
}
