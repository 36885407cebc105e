// Completion: 100% - Label binding and fixup resolution complete
package main

// label.go - Labels and deferred patches
//
// A label is an id bound, at most once, to a logical byte offset. A fixup
// records a placeholder already emitted at some offset with a fixed width;
// once the label is bound (or at finalize, for labels bound late) the
// placeholder is back-patched in place. Placeholders are always emitted at
// their final width, so patching never moves a byte.

// Label patch widths.
const (
	Fixup8  = 1
	Fixup16 = 2
	Fixup32 = 4
	Fixup64 = 8
)

// LabelFixup is one pending patch: a placeholder of Width bytes at Offset
// waiting for the label's address. Relative fixups encode
// target - (offset + width), the x86 rel8/rel32 convention; absolute
// fixups store the raw target.
type LabelFixup struct {
	Offset   int
	LabelID  int
	Width    int
	Relative bool
}

type labelState struct {
	bound  bool
	offset int
}

// LabelManager owns label ids, bindings, and the pending-fixup list for
// one compilation.
type LabelManager struct {
	labels []labelState
	fixups []LabelFixup
}

func NewLabelManager() *LabelManager {
	return &LabelManager{}
}

// NewLabel allocates an unbound label id.
func (lm *LabelManager) NewLabel() int {
	lm.labels = append(lm.labels, labelState{})
	return len(lm.labels) - 1
}

// Bind fixes a label to a logical offset. Binding twice is a defect in
// the generator, not a user error.
func (lm *LabelManager) Bind(id, offset int) *CompilerError {
	if id < 0 || id >= len(lm.labels) {
		return errorf(CategoryInternal, "bind of unknown label %d", id)
	}
	if lm.labels[id].bound {
		return errorf(CategoryInternal, "label %d bound twice", id)
	}
	lm.labels[id] = labelState{bound: true, offset: offset}
	return nil
}

// AddFixup records a placeholder at offset awaiting the label's address.
func (lm *LabelManager) AddFixup(id, offset, width int, relative bool) *CompilerError {
	if id < 0 || id >= len(lm.labels) {
		return errorf(CategoryInternal, "fixup for unknown label %d", id)
	}
	switch width {
	case Fixup8, Fixup16, Fixup32, Fixup64:
	default:
		return errorf(CategoryInternal, "fixup width %d is not 1/2/4/8", width)
	}
	lm.fixups = append(lm.fixups, LabelFixup{
		Offset:   offset,
		LabelID:  id,
		Width:    width,
		Relative: relative,
	})
	return nil
}

// Resolve patches every pending fixup. An unbound label at this point is
// a fatal internal error: all forward references must resolve before the
// buffer is finalized.
func (lm *LabelManager) Resolve(buf *SegmentedBuffer) *CompilerError {
	for _, f := range lm.fixups {
		l := lm.labels[f.LabelID]
		if !l.bound {
			return errorf(CategoryInternal, "unresolved fixup: label %d never bound", f.LabelID)
		}

		value := int64(l.offset)
		if f.Relative {
			value = int64(l.offset - (f.Offset + f.Width))
		}

		switch f.Width {
		case Fixup8:
			buf.PatchByte(f.Offset, byte(value))
		case Fixup16:
			buf.PatchByte(f.Offset, byte(value))
			buf.PatchByte(f.Offset+1, byte(value>>8))
		case Fixup32:
			buf.Patch32(f.Offset, uint32(value))
		case Fixup64:
			buf.Patch64(f.Offset, uint64(value))
		}
	}
	lm.fixups = lm.fixups[:0]
	return nil
}

// Pending reports how many fixups are still waiting.
func (lm *LabelManager) Pending() int {
	return len(lm.fixups)
}
