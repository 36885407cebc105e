// Completion: 100% - Instruction implementation complete
package main

// Linux syscall numbers used by generated code.
const (
	sysExit = 60
)

// Syscall generates the SYSCALL instruction.
func (o *Out) Syscall() {
	o.trace("syscall")
	o.Write(0x0F)
	o.Write(0x05)
}

// ExitWithRax generates the Linux exit sequence with the status taken
// from RAX: mov rdi, rax; mov rax, 60; syscall.
func (o *Out) ExitWithRax() {
	o.MovRegToReg("rdi", "rax")
	o.MovImmToReg("rax", sysExit)
	o.Syscall()
}

// ExitWithCode generates the Linux exit sequence with a constant status.
func (o *Out) ExitWithCode(code int64) {
	o.MovImmToReg("rdi", code)
	o.MovImmToReg("rax", sysExit)
	o.Syscall()
}
