// Completion: 100% - Instruction implementation complete
package main

import "fmt"

// Scalar double-precision forms. Floating expressions keep their result
// in xmm0 with xmm1 as the scratch right operand, mirroring rax/rcx on
// the integer side.

func xmmEncoding(name string) (uint8, bool) {
	var n int
	if _, err := fmt.Sscanf(name, "xmm%d", &n); err != nil || n < 0 || n > 15 {
		return 0, false
	}
	return uint8(n), true
}

// sseOp emits prefix REX? 0F op modrm for an xmm,xmm operation.
func (o *Out) sseOp(prefix, op uint8, dst, src string) {
	dstNum, dstOk := xmmEncoding(dst)
	srcNum, srcOk := xmmEncoding(src)
	if !dstOk || !srcOk {
		return
	}

	o.Write(prefix)
	if dstNum >= 8 || srcNum >= 8 {
		rex := uint8(rexBase)
		if dstNum >= 8 {
			rex |= rexR
		}
		if srcNum >= 8 {
			rex |= rexB
		}
		o.Write(rex)
	}
	o.Write(0x0F)
	o.Write(op)
	o.Write(modrmReg(dstNum, srcNum))
}

// MovsdXmmToXmm generates MOVSD dst, src.
func (o *Out) MovsdXmmToXmm(dst, src string) {
	o.trace("movsd %s, %s", dst, src)
	o.sseOp(0xF2, 0x10, dst, src)
}

// AddsdXmm generates ADDSD dst, src.
func (o *Out) AddsdXmm(dst, src string) {
	o.trace("addsd %s, %s", dst, src)
	o.sseOp(0xF2, 0x58, dst, src)
}

// SubsdXmm generates SUBSD dst, src.
func (o *Out) SubsdXmm(dst, src string) {
	o.trace("subsd %s, %s", dst, src)
	o.sseOp(0xF2, 0x5C, dst, src)
}

// MulsdXmm generates MULSD dst, src.
func (o *Out) MulsdXmm(dst, src string) {
	o.trace("mulsd %s, %s", dst, src)
	o.sseOp(0xF2, 0x59, dst, src)
}

// DivsdXmm generates DIVSD dst, src.
func (o *Out) DivsdXmm(dst, src string) {
	o.trace("divsd %s, %s", dst, src)
	o.sseOp(0xF2, 0x5E, dst, src)
}

// Ucomisd generates UCOMISD reg1, reg2 (unordered compare, sets flags).
func (o *Out) Ucomisd(reg1, reg2 string) {
	o.trace("ucomisd %s, %s", reg1, reg2)
	o.sseOp(0x66, 0x2E, reg1, reg2)
}

// MovqRegToXmm moves 64 raw bits from a GP register into an XMM register.
func (o *Out) MovqRegToXmm(dst, src string) {
	srcReg, srcOk := GetRegister(src)
	dstNum, dstOk := xmmEncoding(dst)
	if !srcOk || !dstOk {
		return
	}

	o.trace("movq %s, %s", dst, src)
	o.Write(0x66)
	rex := uint8(rexBase | rexW)
	if dstNum >= 8 {
		rex |= rexR
	}
	if srcReg.Encoding >= 8 {
		rex |= rexB
	}
	o.Write(rex)
	o.Write(0x0F)
	o.Write(0x6E)
	o.Write(modrmReg(dstNum, srcReg.Encoding))
}

// MovqXmmToReg moves 64 raw bits from an XMM register into a GP register.
func (o *Out) MovqXmmToReg(dst, src string) {
	dstReg, dstOk := GetRegister(dst)
	srcNum, srcOk := xmmEncoding(src)
	if !dstOk || !srcOk {
		return
	}

	o.trace("movq %s, %s", dst, src)
	o.Write(0x66)
	rex := uint8(rexBase | rexW)
	if srcNum >= 8 {
		rex |= rexR
	}
	if dstReg.Encoding >= 8 {
		rex |= rexB
	}
	o.Write(rex)
	o.Write(0x0F)
	o.Write(0x7E)
	o.Write(modrmReg(srcNum, dstReg.Encoding))
}

// Cvtsi2sd converts a signed 64-bit integer to double.
func (o *Out) Cvtsi2sd(dst, src string) {
	srcReg, srcOk := GetRegister(src)
	dstNum, dstOk := xmmEncoding(dst)
	if !srcOk || !dstOk {
		return
	}

	o.trace("cvtsi2sd %s, %s", dst, src)
	o.Write(0xF2)
	rex := uint8(rexBase | rexW)
	if dstNum >= 8 {
		rex |= rexR
	}
	if srcReg.Encoding >= 8 {
		rex |= rexB
	}
	o.Write(rex)
	o.Write(0x0F)
	o.Write(0x2A)
	o.Write(modrmReg(dstNum, srcReg.Encoding))
}

// Cvttsd2si converts a double to a signed 64-bit integer, truncating.
func (o *Out) Cvttsd2si(dst, src string) {
	dstReg, dstOk := GetRegister(dst)
	srcNum, srcOk := xmmEncoding(src)
	if !dstOk || !srcOk {
		return
	}

	o.trace("cvttsd2si %s, %s", dst, src)
	o.Write(0xF2)
	rex := uint8(rexBase | rexW)
	if dstReg.Encoding >= 8 {
		rex |= rexR
	}
	if srcNum >= 8 {
		rex |= rexB
	}
	o.Write(rex)
	o.Write(0x0F)
	o.Write(0x2C)
	o.Write(modrmReg(dstReg.Encoding, srcNum))
}

// MovsdXmmToMem generates MOVSD [base+disp], src (spilling a float).
func (o *Out) MovsdXmmToMem(src, base string, disp int32) {
	srcNum, srcOk := xmmEncoding(src)
	baseReg, baseOk := GetRegister(base)
	if !srcOk || !baseOk {
		return
	}

	o.trace("movsd [%s%+d], %s", base, disp, src)
	o.Write(0xF2)
	if srcNum >= 8 || baseReg.Encoding >= 8 {
		rex := uint8(rexBase)
		if srcNum >= 8 {
			rex |= rexR
		}
		if baseReg.Encoding >= 8 {
			rex |= rexB
		}
		o.Write(rex)
	}
	o.Write(0x0F)
	o.Write(0x11)
	o.memOperand(srcNum, baseReg, disp)
}

// MovsdMemToXmm generates MOVSD dst, [base+disp] (reloading a float).
func (o *Out) MovsdMemToXmm(dst, base string, disp int32) {
	dstNum, dstOk := xmmEncoding(dst)
	baseReg, baseOk := GetRegister(base)
	if !dstOk || !baseOk {
		return
	}

	o.trace("movsd %s, [%s%+d]", dst, base, disp)
	o.Write(0xF2)
	if dstNum >= 8 || baseReg.Encoding >= 8 {
		rex := uint8(rexBase)
		if dstNum >= 8 {
			rex |= rexR
		}
		if baseReg.Encoding >= 8 {
			rex |= rexB
		}
		o.Write(rex)
	}
	o.Write(0x0F)
	o.Write(0x10)
	o.memOperand(dstNum, baseReg, disp)
}
