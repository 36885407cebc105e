// Completion: 100% - Instruction implementation complete
package main

// MulRegByReg generates IMUL dst, src (64-bit signed multiply).
func (o *Out) MulRegByReg(dst, src string) {
	dstReg, dstOk := GetRegister(dst)
	srcReg, srcOk := GetRegister(src)
	if !dstOk || !srcOk {
		return
	}

	o.trace("imul %s, %s", dst, src)
	o.rexAlways(dstReg.Encoding, srcReg.Encoding)
	o.Write(0x0F)
	o.Write(0xAF)
	o.Write(modrmReg(dstReg.Encoding, srcReg.Encoding))
}
