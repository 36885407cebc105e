// Completion: 100% - Loop context stack tests
package main

import "testing"

func TestLoopStackNesting(t *testing.T) {
	ls := NewLoopStack()
	if ls.Current() != nil {
		t.Fatal("Current() non-nil outside any loop")
	}

	if err := ls.Push(100); err != nil {
		t.Fatalf("Push: %v", err)
	}
	if err := ls.Push(200); err != nil {
		t.Fatalf("Push: %v", err)
	}

	inner := ls.Current()
	inner.AddBreak(210)
	inner.AddContinue(220)

	ctx := ls.Pop()
	if ctx.startOffset != 200 {
		t.Errorf("popped startOffset = %d, want 200", ctx.startOffset)
	}
	if len(ctx.breakSites) != 1 || ctx.breakSites[0] != 210 {
		t.Errorf("breakSites = %v, want [210]", ctx.breakSites)
	}
	if len(ctx.continueSites) != 1 || ctx.continueSites[0] != 220 {
		t.Errorf("continueSites = %v, want [220]", ctx.continueSites)
	}

	if ls.Current().startOffset != 100 {
		t.Error("outer loop not current after inner pop")
	}
}

func TestLoopDepthLimit(t *testing.T) {
	ls := NewLoopStack()
	for i := 0; i < maxLoopDepth; i++ {
		if err := ls.Push(i); err != nil {
			t.Fatalf("Push %d: %v", i, err)
		}
	}
	err := ls.Push(0)
	if err == nil {
		t.Fatal("push past the depth limit succeeded")
	}
	if err.Category != CategoryResource {
		t.Errorf("error category = %v, want resource", err.Category)
	}
}
