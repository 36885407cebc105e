// Completion: 100% - Instruction implementation complete
package main

// PushReg generates PUSH reg (64-bit, no REX.W needed).
func (o *Out) PushReg(reg string) {
	regInfo, regOk := GetRegister(reg)
	if !regOk {
		return
	}

	o.trace("push %s", reg)
	if regInfo.Encoding >= 8 {
		o.Write(0x41)
		o.Write(0x50 + (regInfo.Encoding & 7))
	} else {
		o.Write(0x50 + regInfo.Encoding)
	}
}

// PopReg generates POP reg.
func (o *Out) PopReg(reg string) {
	regInfo, regOk := GetRegister(reg)
	if !regOk {
		return
	}

	o.trace("pop %s", reg)
	if regInfo.Encoding >= 8 {
		o.Write(0x41)
		o.Write(0x58 + (regInfo.Encoding & 7))
	} else {
		o.Write(0x58 + regInfo.Encoding)
	}
}
