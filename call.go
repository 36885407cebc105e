// Completion: 100% - Instruction implementation complete
package main

// callInstructionLength is the size of CALL rel32: one opcode byte plus
// the 32-bit displacement. Fixup math depends on it.
const callInstructionLength = 5

// CallRelative generates CALL rel32 with a known displacement (relative
// to the end of the instruction).
func (o *Out) CallRelative(offset int32) {
	o.trace("call %d", offset)
	o.Write(0xE8)
	o.Write4(uint32(offset))
}

// CallToOffset generates a call to an already-emitted function at the
// given logical offset.
func (o *Out) CallToOffset(target int) {
	o.CallRelative(int32(target - (o.Position() + callInstructionLength)))
}

// CallForward emits CALL rel32 with a zeroed placeholder displacement and
// returns the logical offset of the opcode byte, the call site recorded
// by the function fixup table.
func (o *Out) CallForward() int {
	o.trace("call <forward>")
	site := o.Position()
	o.Write(0xE8)
	o.Write4(0)
	return site
}

// PatchCall resolves a placeholder emitted by CallForward. site is the
// offset of the opcode byte; the patched displacement is
// target - (site + 5).
func (o *Out) PatchCall(site, target int) {
	o.buf.Patch32(site+1, uint32(int32(target-(site+callInstructionLength))))
}
