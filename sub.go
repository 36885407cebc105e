// Completion: 100% - Instruction implementation complete
package main

// SubRegFromReg generates SUB dst, src (64-bit).
func (o *Out) SubRegFromReg(dst, src string) {
	dstReg, dstOk := GetRegister(dst)
	srcReg, srcOk := GetRegister(src)
	if !dstOk || !srcOk {
		return
	}

	o.trace("sub %s, %s", dst, src)
	o.rexAlways(srcReg.Encoding, dstReg.Encoding)
	o.Write(0x29)
	o.Write(modrmReg(srcReg.Encoding, dstReg.Encoding))
}

// SubImmFromReg generates SUB dst, imm using the imm8 form when it fits.
func (o *Out) SubImmFromReg(dst string, imm int64) {
	dstReg, dstOk := GetRegister(dst)
	if !dstOk {
		return
	}

	o.trace("sub %s, %d", dst, imm)
	o.rexAlways(0, dstReg.Encoding)
	if imm >= -128 && imm <= 127 {
		o.Write(0x83)
		o.Write(modrm(3, 5, dstReg.Encoding))
		o.Write(uint8(imm))
	} else {
		o.Write(0x81)
		o.Write(modrm(3, 5, dstReg.Encoding))
		o.Write4(uint32(imm))
	}
}

// NegReg generates NEG dst (two's complement negate).
func (o *Out) NegReg(dst string) {
	dstReg, dstOk := GetRegister(dst)
	if !dstOk {
		return
	}

	o.trace("neg %s", dst)
	o.rexAlways(0, dstReg.Encoding)
	o.Write(0xF7)
	o.Write(modrm(3, 3, dstReg.Encoding))
}
