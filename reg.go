// Completion: 100% - Utility module complete
package main

// Register definitions for x86-64

type Register struct {
	Name     string
	Size     int   // Size in bits
	Encoding uint8 // Encoding for instruction generation
}

var x86_64Registers = map[string]Register{
	// 64-bit general purpose registers
	"rax": {Name: "rax", Size: 64, Encoding: 0},
	"rcx": {Name: "rcx", Size: 64, Encoding: 1},
	"rdx": {Name: "rdx", Size: 64, Encoding: 2},
	"rbx": {Name: "rbx", Size: 64, Encoding: 3},
	"rsp": {Name: "rsp", Size: 64, Encoding: 4},
	"rbp": {Name: "rbp", Size: 64, Encoding: 5},
	"rsi": {Name: "rsi", Size: 64, Encoding: 6},
	"rdi": {Name: "rdi", Size: 64, Encoding: 7},
	"r8":  {Name: "r8", Size: 64, Encoding: 8},
	"r9":  {Name: "r9", Size: 64, Encoding: 9},
	"r10": {Name: "r10", Size: 64, Encoding: 10},
	"r11": {Name: "r11", Size: 64, Encoding: 11},
	"r12": {Name: "r12", Size: 64, Encoding: 12},
	"r13": {Name: "r13", Size: 64, Encoding: 13},
	"r14": {Name: "r14", Size: 64, Encoding: 14},
	"r15": {Name: "r15", Size: 64, Encoding: 15},

	// 8-bit registers (low byte)
	"al": {Name: "al", Size: 8, Encoding: 0},
	"cl": {Name: "cl", Size: 8, Encoding: 1},
	"dl": {Name: "dl", Size: 8, Encoding: 2},
	"bl": {Name: "bl", Size: 8, Encoding: 3},

	// SSE XMM registers (scalar float64 math)
	"xmm0":  {Name: "xmm0", Size: 128, Encoding: 0},
	"xmm1":  {Name: "xmm1", Size: 128, Encoding: 1},
	"xmm2":  {Name: "xmm2", Size: 128, Encoding: 2},
	"xmm3":  {Name: "xmm3", Size: 128, Encoding: 3},
	"xmm4":  {Name: "xmm4", Size: 128, Encoding: 4},
	"xmm5":  {Name: "xmm5", Size: 128, Encoding: 5},
	"xmm6":  {Name: "xmm6", Size: 128, Encoding: 6},
	"xmm7":  {Name: "xmm7", Size: 128, Encoding: 7},
	"xmm8":  {Name: "xmm8", Size: 128, Encoding: 8},
	"xmm9":  {Name: "xmm9", Size: 128, Encoding: 9},
	"xmm10": {Name: "xmm10", Size: 128, Encoding: 10},
	"xmm11": {Name: "xmm11", Size: 128, Encoding: 11},
	"xmm12": {Name: "xmm12", Size: 128, Encoding: 12},
	"xmm13": {Name: "xmm13", Size: 128, Encoding: 13},
	"xmm14": {Name: "xmm14", Size: 128, Encoding: 14},
	"xmm15": {Name: "xmm15", Size: 128, Encoding: 15},
}

// GetRegister returns register info for the given register name
func GetRegister(regName string) (Register, bool) {
	reg, ok := x86_64Registers[regName]
	return reg, ok
}

// IsRegister checks if a string is a valid x86-64 register name
func IsRegister(name string) bool {
	_, ok := x86_64Registers[name]
	return ok
}

// VariableRegisterPool is the fixed pool handed out to variables, in
// allocation order. All of them are in the caller-saved set below, so a
// call site preserves every live variable automatically.
var VariableRegisterPool = [...]string{"rbx", "r12", "r13", "r14", "r15"}

// CallerSavedRegisters is the fixed set saved and restored around every
// emitted call instruction.
var CallerSavedRegisters = [...]string{"rbx", "r12", "r13", "r14", "r15"}

// ArgumentRegisters carries the first six integer arguments, in order.
var ArgumentRegisters = [...]string{"rdi", "rsi", "rdx", "rcx", "r8", "r9"}
