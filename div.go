// Completion: 100% - Instruction implementation complete
package main

// Cqo sign-extends RAX into RDX:RAX ahead of a signed divide.
func (o *Out) Cqo() {
	o.trace("cqo")
	o.Write(0x48)
	o.Write(0x99)
}

// IDivReg generates IDIV src: RDX:RAX / src, quotient in RAX and
// remainder in RDX. The caller is responsible for the preceding CQO.
func (o *Out) IDivReg(src string) {
	srcReg, srcOk := GetRegister(src)
	if !srcOk {
		return
	}

	o.trace("idiv %s", src)
	o.rexAlways(0, srcReg.Encoding)
	o.Write(0xF7)
	o.Write(modrm(3, 7, srcReg.Encoding))
}
