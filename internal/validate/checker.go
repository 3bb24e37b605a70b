package validate

import (
	"fmt"

	"fullfuck/internal/diag"
	"fullfuck/internal/frontend"
	"fullfuck/internal/ir"
)

// CheckProgram lints a source buffer. Compilation tolerates everything
// reported here except a stray loop close; lint turns the silent cases
// (unclosed loops, escapes cut off by end of input) into errors and keeps the
// lexer's dropped-byte warnings.
func CheckProgram(src []byte, reporter *diag.Reporter) error {
	if reporter == nil {
		return fmt.Errorf("no reporter provided for validation")
	}

	res, err := frontend.Lex(src, reporter)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	c := &checker{reporter: reporter, end: len(src)}
	c.checkUnclosedLoops(res)
	c.checkPendingEscape(res)
	c.checkTokens(res.Tokens)
	if c.errCount > 0 {
		return fmt.Errorf("validation failed with %d issue(s)", c.errCount)
	}
	return nil
}

type checker struct {
	reporter *diag.Reporter
	errCount int
	end      int
}

func (c *checker) checkUnclosedLoops(res *frontend.LexResult) {
	if len(res.OpenLoops) == 0 {
		return
	}
	open := make(map[int]bool, len(res.OpenLoops))
	for _, id := range res.OpenLoops {
		open[id] = true
	}
	for _, tok := range res.Tokens {
		if tok.Kind == ir.OpenLoop && open[tok.LoopID] {
			c.error(tok.Offset, "loop %d is never closed", tok.LoopID)
		}
	}
}

func (c *checker) checkPendingEscape(res *frontend.LexResult) {
	if res.Mode == frontend.Normal {
		return
	}
	c.error(c.end, "input ends inside %s", res.Mode)
}

func (c *checker) checkTokens(tokens []ir.Token) {
	for i, tok := range tokens {
		switch tok.Kind {
		case ir.LoopCounter:
			if tok.Layer == 0 {
				c.reporter.WarnAt(tok.Offset, "loop counter read outside any loop has no effect")
			}
		case ir.Number:
			if i+1 == len(tokens) || !consumesNumber(tokens[i+1].Kind) {
				c.reporter.WarnAt(tok.Offset, "numeric literal 0x%02X is not used by a loop or port", tok.Value)
			}
		}
	}
}

func consumesNumber(kind ir.Kind) bool {
	switch kind {
	case ir.OpenLoop, ir.Input, ir.Output:
		return true
	}
	return false
}

func (c *checker) error(offset int, format string, args ...any) {
	c.errCount++
	c.reporter.ErrorAt(offset, format, args...)
}
