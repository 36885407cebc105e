// Completion: 100% - Instruction implementation complete
package main

// IncReg generates INC dst (64-bit).
func (o *Out) IncReg(dst string) {
	dstReg, dstOk := GetRegister(dst)
	if !dstOk {
		return
	}

	o.trace("inc %s", dst)
	o.rexAlways(0, dstReg.Encoding)
	o.Write(0xFF)
	o.Write(modrm(3, 0, dstReg.Encoding))
}

// DecReg generates DEC dst (64-bit).
func (o *Out) DecReg(dst string) {
	dstReg, dstOk := GetRegister(dst)
	if !dstOk {
		return
	}

	o.trace("dec %s", dst)
	o.rexAlways(0, dstReg.Encoding)
	o.Write(0xFF)
	o.Write(modrm(3, 1, dstReg.Encoding))
}
