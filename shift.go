// Completion: 100% - Instruction implementation complete
package main

// ShlRegByImm generates SHL dst, imm8. Used by the strength-reduction
// peephole for multiplications by powers of two.
func (o *Out) ShlRegByImm(dst string, count uint8) {
	dstReg, dstOk := GetRegister(dst)
	if !dstOk {
		return
	}

	o.trace("shl %s, %d", dst, count)
	o.rexAlways(0, dstReg.Encoding)
	if count == 1 {
		o.Write(0xD1)
		o.Write(modrm(3, 4, dstReg.Encoding))
		return
	}
	o.Write(0xC1)
	o.Write(modrm(3, 4, dstReg.Encoding))
	o.Write(count)
}

// SarRegByImm generates SAR dst, imm8 (arithmetic right shift).
func (o *Out) SarRegByImm(dst string, count uint8) {
	dstReg, dstOk := GetRegister(dst)
	if !dstOk {
		return
	}

	o.trace("sar %s, %d", dst, count)
	o.rexAlways(0, dstReg.Encoding)
	if count == 1 {
		o.Write(0xD1)
		o.Write(modrm(3, 7, dstReg.Encoding))
		return
	}
	o.Write(0xC1)
	o.Write(modrm(3, 7, dstReg.Encoding))
	o.Write(count)
}
