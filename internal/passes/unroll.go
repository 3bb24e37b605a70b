package passes

import (
	"fmt"

	"fullfuck/internal/ir"
)

// LoopUnroller replaces counted loops whose whole body is a single Add or
// Subtract with the body repeated inline. The unrolled run is guarded by a
// SkipNext so a zero accumulator still skips it, and closed by a Barrier so
// the coalescer does not merge it with the instructions that follow.
type LoopUnroller struct{}

// NewLoopUnroller constructs the pass.
func NewLoopUnroller() *LoopUnroller {
	return &LoopUnroller{}
}

// Name implements the Pass interface.
func (u *LoopUnroller) Name() string {
	return "loop-unroll"
}

// Run rewrites prog.Tokens in place.
func (u *LoopUnroller) Run(prog *ir.Program) error {
	if prog == nil {
		return fmt.Errorf("loop unrolling requires a non-nil program")
	}
	prog.Tokens = Unroll(prog.Tokens)
	return nil
}

// Unroll returns tokens with every trivial counted loop expanded.
func Unroll(tokens []ir.Token) []ir.Token {
	out := make([]ir.Token, 0, len(tokens))
	for i := 0; i < len(tokens); {
		count, ok := trivialLoop(tokens, i)
		if !ok {
			out = append(out, tokens[i])
			i++
			continue
		}
		open, body := tokens[i], tokens[i+1]
		i += 3
		if count == 0 {
			continue
		}
		outer := ir.Token{LoopID: open.LoopID, Layer: open.Layer - 1, Offset: open.Offset}
		skip := outer
		skip.Kind = ir.SkipNext
		out = append(out, skip)
		body.Layer = outer.Layer
		for n := 0; n < int(count); n++ {
			out = append(out, body)
		}
		barrier := outer
		barrier.Kind = ir.Barrier
		out = append(out, barrier)
	}
	return out
}

// trivialLoop matches OpenLoop, Add|Subtract, EndLoop at i and returns the
// literal bound. Infinite and conditional loops have no iteration count to
// unroll against and are left alone.
func trivialLoop(tokens []ir.Token, i int) (uint8, bool) {
	if i+2 >= len(tokens) {
		return 0, false
	}
	open, body, end := tokens[i], tokens[i+1], tokens[i+2]
	if open.Kind != ir.OpenLoop || !body.Kind.IsAdditive() || end.Kind != ir.EndLoop {
		return 0, false
	}
	if open.LoopID != end.LoopID {
		return 0, false
	}
	return open.Bound.Counted()
}
