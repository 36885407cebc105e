// Completion: 100% - Loop context stack complete
package main

// loop.go - break/continue targets
//
// Each active loop pushes a context: continue jumps back to the recorded
// start offset, break emits a forward jump whose placeholder lands on the
// context's exit list and is patched when the loop finishes. Using either
// statement with no active loop is a fatal compilation error.

// maxLoopDepth bounds nesting so a pathological input cannot grow the
// stack without limit.
const maxLoopDepth = 64

// LoopContext is one active loop. break and continue both emit forward
// placeholders; the loop's closer patches breaks to the exit offset and
// continues to the re-check offset (the condition for while, the post
// statement for for), which is not yet emitted while the body is being
// generated.
type LoopContext struct {
	startOffset   int   // offset of the condition re-check
	breakSites    []int // placeholder offsets awaiting the exit address
	continueSites []int // placeholder offsets awaiting the re-check address
}

// LoopStack tracks the actively nested loops, innermost last.
type LoopStack struct {
	frames []LoopContext
}

func NewLoopStack() *LoopStack {
	return &LoopStack{}
}

// Push opens a loop whose continue target is startOffset.
func (ls *LoopStack) Push(startOffset int) *CompilerError {
	if len(ls.frames) >= maxLoopDepth {
		return errorf(CategoryResource, "loop nesting exceeds %d levels", maxLoopDepth)
	}
	ls.frames = append(ls.frames, LoopContext{startOffset: startOffset})
	return nil
}

// Pop closes the innermost loop and returns it so the generator can patch
// its break sites to the now-known exit offset.
func (ls *LoopStack) Pop() LoopContext {
	ctx := ls.frames[len(ls.frames)-1]
	ls.frames = ls.frames[:len(ls.frames)-1]
	return ctx
}

// Current returns the innermost loop, or nil outside any loop.
func (ls *LoopStack) Current() *LoopContext {
	if len(ls.frames) == 0 {
		return nil
	}
	return &ls.frames[len(ls.frames)-1]
}

// AddBreak records a break placeholder on the innermost loop.
func (lc *LoopContext) AddBreak(patchAt int) {
	lc.breakSites = append(lc.breakSites, patchAt)
}

// AddContinue records a continue placeholder on the innermost loop.
func (lc *LoopContext) AddContinue(patchAt int) {
	lc.continueSites = append(lc.continueSites, patchAt)
}
