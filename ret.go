// Completion: 100% - Instruction implementation complete
package main

// Ret generates RET.
func (o *Out) Ret() {
	o.trace("ret")
	o.Write(0xC3)
}
