package passes

import (
	"fmt"

	"fullfuck/internal/ir"
)

// cellModulus is the wraparound of the 8-bit accumulator.
const cellModulus = 256

// Coalescer merges runs of Add and Subtract into a single weighted operation
// carrying the net change.
type Coalescer struct{}

// NewCoalescer constructs the pass.
func NewCoalescer() *Coalescer {
	return &Coalescer{}
}

// Name implements the Pass interface.
func (c *Coalescer) Name() string {
	return "coalesce"
}

// Run fills prog.Weighted from prog.Tokens.
func (c *Coalescer) Run(prog *ir.Program) error {
	if prog == nil {
		return fmt.Errorf("coalescing requires a non-nil program")
	}
	prog.Weighted = Coalesce(prog.Tokens)
	return nil
}

// Coalesce collapses every run of additive tokens into one weighted token of
// the run's net sign. Runs that net to zero modulo the cell width vanish.
// Every other token is passed through with weight one.
func Coalesce(tokens []ir.Token) []ir.WeightedToken {
	out := make([]ir.WeightedToken, 0, len(tokens))
	var (
		acc  int
		last ir.Token
	)
	flush := func() {
		if acc == 0 {
			return
		}
		tok := last
		magnitude := acc
		tok.Kind = ir.Add
		if acc < 0 {
			tok.Kind = ir.Subtract
			magnitude = -acc
		}
		acc = 0
		if weight := magnitude % cellModulus; weight != 0 {
			out = append(out, ir.WeightedToken{Token: tok, Weight: uint8(weight)})
		}
	}
	for _, tok := range tokens {
		switch tok.Kind {
		case ir.Add:
			acc++
			last = tok
		case ir.Subtract:
			acc--
			last = tok
		default:
			flush()
			out = append(out, ir.WeightedToken{Token: tok, Weight: 1})
		}
	}
	flush()
	return out
}
