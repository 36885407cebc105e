// Completion: 100% - Predictor hook points stubbed, no code emitted
package main

// gggx.go - GGGX predictor hooks
//
// The GGGX heuristic predictor is a separate subsystem; code generation
// only exposes the hook points it would instrument. The stubs emit
// nothing so generated code is byte-identical with the predictor absent.

type GGGXHooks struct {
	enabled bool
}

func NewGGGXHooks() *GGGXHooks {
	return &GGGXHooks{}
}

// BeforeFunction runs before a function's prologue is emitted.
func (g *GGGXHooks) BeforeFunction(o *Out, name string) {
	if !g.enabled {
		return
	}
}

// AfterFunction runs after a function's epilogue is emitted.
func (g *GGGXHooks) AfterFunction(o *Out, name string) {
	if !g.enabled {
		return
	}
}
