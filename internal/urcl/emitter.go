package urcl

import (
	"errors"
	"fmt"
	"strings"

	"fullfuck/internal/ir"
)

// ErrLoopUnderflow is returned when an EndLoop has no open loop to close.
var ErrLoopUnderflow = errors.New("loop end without open loop")

const (
	// Accumulator is the working register.
	Accumulator = "R1"
	// counterBase is added to the nesting depth to pick a loop counter
	// register, so the outermost loop counts in R2.
	counterBase = 1
	// dataBits is the cell width the coalescer wraps at.
	dataBits = 8
)

// Options controls code generation.
type Options struct {
	// OmitHalt drops the trailing HLT so the program falls through into
	// whatever code is placed after it.
	OmitHalt bool
	// Header prepends BITS and MINREG directives.
	Header bool
}

// Emit renders the weighted stream of prog as URCL source. Lines are joined
// with a newline and no trailing newline is added.
func Emit(prog *ir.Program, opts Options) (string, error) {
	if prog == nil {
		return "", fmt.Errorf("no program available to emit")
	}
	weighted := prog.Weighted
	if weighted == nil {
		weighted = ir.Unit(prog.Tokens)
	}

	g := &generator{maxReg: 1}
	for _, wt := range weighted {
		if err := g.emitToken(wt); err != nil {
			return "", err
		}
	}
	if !opts.OmitHalt {
		g.line("HLT")
	}

	lines := g.lines
	if opts.Header {
		header := []string{
			fmt.Sprintf("BITS %d", dataBits),
			fmt.Sprintf("MINREG %d", g.maxReg),
		}
		lines = append(header, lines...)
	}
	return strings.Join(lines, "\n"), nil
}

type generator struct {
	lines  []string
	loops  []ir.Bound
	maxReg int
}

func (g *generator) line(format string, args ...interface{}) {
	g.lines = append(g.lines, fmt.Sprintf(format, args...))
}

func (g *generator) emitToken(wt ir.WeightedToken) error {
	switch wt.Kind {
	case ir.SkipNext:
		g.line("BRZ ~+2 %s", Accumulator)
	case ir.Add:
		g.line("ADD %s %s %d", Accumulator, Accumulator, wt.Weight)
	case ir.Subtract:
		g.line("SUB %s %s %d", Accumulator, Accumulator, wt.Weight)
	case ir.OpenLoop:
		g.openLoop(wt.Token)
	case ir.EndLoop:
		return g.endLoop(wt.Token)
	case ir.Input:
		g.line("IN %s %s", Accumulator, wt.Port)
	case ir.Output:
		g.line("OUT %s %s", wt.Port, Accumulator)
	case ir.LoopCounter:
		g.line("MOV %s %s", Accumulator, g.counter(wt.Layer))
	case ir.Push:
		g.line("PSH %s", Accumulator)
	case ir.Pop:
		g.line("POP %s", Accumulator)
	case ir.Number, ir.Barrier:
		// Consumed upstream.
	default:
		return fmt.Errorf("cannot emit token %v", wt.Kind)
	}
	return nil
}

func (g *generator) openLoop(tok ir.Token) {
	g.loops = append(g.loops, tok.Bound)
	start := loopLabel(tok.LoopID)
	if tok.Bound.IsInfinite() {
		g.line("%s", start)
		return
	}
	reg := g.counter(tok.Layer)
	g.line("BRZ %s_e %s", start, Accumulator)
	if n, ok := tok.Bound.Counted(); ok {
		g.line("MOV %s %d", reg, n)
	} else {
		g.line("MOV %s %s", reg, Accumulator)
	}
	g.line("%s", start)
}

func (g *generator) endLoop(tok ir.Token) error {
	if len(g.loops) == 0 {
		return fmt.Errorf("loop %d: %w", tok.LoopID, ErrLoopUnderflow)
	}
	bound := g.loops[len(g.loops)-1]
	g.loops = g.loops[:len(g.loops)-1]

	start := loopLabel(tok.LoopID)
	if bound.IsInfinite() {
		g.line("JMP %s", start)
		return nil
	}
	reg := g.counter(tok.Layer)
	g.line("DEC %s %s", reg, reg)
	g.line("BNZ %s %s", start, reg)
	g.line("%s_e", start)
	return nil
}

// counter returns the register holding the loop counter at the given depth.
func (g *generator) counter(layer int) string {
	n := layer + counterBase
	if n > g.maxReg {
		g.maxReg = n
	}
	return fmt.Sprintf("R%d", n)
}

func loopLabel(id int) string {
	return fmt.Sprintf(".loop%d", id)
}
