package frontend

import (
	"errors"
	"fmt"

	"fullfuck/internal/diag"
	"fullfuck/internal/ir"
)

// ErrUnbalancedLoop is returned when a loop close has no matching open.
var ErrUnbalancedLoop = errors.New("loop close without matching open")

// Mode is the state of the lexer between two bytes.
type Mode int

const (
	Normal Mode = iota
	// LiteralStart follows the 0 escape and expects the high nibble.
	LiteralStart
	// LiteralNibble holds the high nibble and expects the low one.
	LiteralNibble
	// ConditionalPrefix follows ? and applies to exactly one byte.
	ConditionalPrefix
	// StringCapture buffers a port name until the closing %.
	StringCapture
	// StringJustClosed decides whether the captured name is read or written.
	StringJustClosed
)

var modeNames = [...]string{
	Normal:            "normal",
	LiteralStart:      "numeric literal",
	LiteralNibble:     "numeric literal",
	ConditionalPrefix: "conditional prefix",
	StringCapture:     "port name",
	StringJustClosed:  "port name",
}

func (m Mode) String() string {
	if m >= 0 && int(m) < len(modeNames) {
		return modeNames[m]
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// LexResult is the output of Lex. Depth, OpenLoops and Mode describe the state
// at the end of input; a well-formed program ends at depth zero in Normal mode.
type LexResult struct {
	Tokens    []ir.Token
	Depth     int
	OpenLoops []int
	Mode      Mode
}

// Lex converts the source bytes into a token stream in a single scan. Bytes
// that do not form an instruction are dropped; escapes that cannot be
// completed are reported as warnings. The only fatal condition is a loop close
// with no open loop.
func Lex(src []byte, reporter *diag.Reporter) (*LexResult, error) {
	l := &lexer{reporter: reporter}
	for off, b := range src {
		next, tok, err := l.step(off, b)
		if err != nil {
			return nil, err
		}
		l.mode = next
		if tok != nil {
			l.emit(*tok)
		}
	}
	open := make([]int, len(l.stack))
	copy(open, l.stack)
	return &LexResult{
		Tokens:    l.tokens,
		Depth:     l.depth,
		OpenLoops: open,
		Mode:      l.mode,
	}, nil
}

type lexer struct {
	reporter *diag.Reporter
	mode     Mode
	tokens   []ir.Token
	prev     *ir.Token

	nibble byte
	name   []byte

	lastID int
	depth  int
	stack  []int
}

// step is the transition function: it returns the mode for the next byte and
// at most one token to emit.
func (l *lexer) step(off int, b byte) (Mode, *ir.Token, error) {
	switch l.mode {
	case LiteralStart:
		if v, ok := hexValue(b); ok {
			l.nibble = v
			return LiteralNibble, nil, nil
		}
		return l.normal(off, b)
	case LiteralNibble:
		if v, ok := hexValue(b); ok {
			tok := l.token(ir.Number, off)
			tok.Value = l.nibble<<4 | v
			return Normal, &tok, nil
		}
		l.reporter.WarnAt(off, "incomplete numeric literal dropped")
		return l.normal(off, b)
	case ConditionalPrefix:
		return l.conditional(off, b)
	case StringCapture:
		if b == '%' {
			return StringJustClosed, nil, nil
		}
		l.name = append(l.name, b)
		return StringCapture, nil, nil
	case StringJustClosed:
		return l.namedPort(off, b)
	default:
		return l.normal(off, b)
	}
}

func (l *lexer) normal(off int, b byte) (Mode, *ir.Token, error) {
	var tok ir.Token
	switch b {
	case '+':
		tok = l.token(ir.Add, off)
	case '-':
		tok = l.token(ir.Subtract, off)
	case '$':
		tok = l.token(ir.LoopCounter, off)
	case '[':
		bound := ir.Infinite
		if l.prevIs(ir.Number) {
			bound = ir.Count(l.prev.Value)
		}
		tok = l.openLoop(off, bound)
	case ']':
		if len(l.stack) == 0 {
			l.reporter.ErrorAt(off, "%v", ErrUnbalancedLoop)
			return Normal, nil, fmt.Errorf("byte %d: %w", off, ErrUnbalancedLoop)
		}
		tok = l.token(ir.EndLoop, off)
		tok.LoopID = l.stack[len(l.stack)-1]
		l.stack = l.stack[:len(l.stack)-1]
		l.depth--
	case '<', '>':
		kind := ir.Input
		if b == '>' {
			kind = ir.Output
		}
		tok = l.token(kind, off)
		tok.Port = ir.DefaultPort
		if l.prevIs(ir.Number) {
			tok.Port = ir.NumericPort(l.prev.Value)
		}
	case '0':
		// The escape hides whatever preceded it from [ < and >.
		l.prev = nil
		return LiteralStart, nil, nil
	case '?':
		return ConditionalPrefix, nil, nil
	case '%':
		l.name = l.name[:0]
		return StringCapture, nil, nil
	default:
		if _, ok := hexValue(b); ok {
			l.reporter.WarnAt(off, "hex digit %q outside a numeric literal ignored", b)
		}
		return Normal, nil, nil
	}
	return Normal, &tok, nil
}

func (l *lexer) conditional(off int, b byte) (Mode, *ir.Token, error) {
	var tok ir.Token
	switch b {
	case '<':
		tok = l.token(ir.Pop, off)
	case '>':
		tok = l.token(ir.Push, off)
	case '[':
		tok = l.openLoop(off, ir.Conditional)
	default:
		l.reporter.WarnAt(off, "byte %q after conditional prefix dropped", b)
		return Normal, nil, nil
	}
	return Normal, &tok, nil
}

func (l *lexer) namedPort(off int, b byte) (Mode, *ir.Token, error) {
	var kind ir.Kind
	switch b {
	case '<':
		kind = ir.Input
	case '>':
		kind = ir.Output
	default:
		l.reporter.WarnAt(off, "port name %q not followed by < or >, dropped", l.name)
		return Normal, nil, nil
	}
	tok := l.token(kind, off)
	tok.Port = ir.NamedPort(string(l.name))
	return Normal, &tok, nil
}

func (l *lexer) openLoop(off int, bound ir.Bound) ir.Token {
	l.lastID++
	l.depth++
	l.stack = append(l.stack, l.lastID)
	tok := l.token(ir.OpenLoop, off)
	tok.Bound = bound
	return tok
}

// token tags a new token with the innermost open loop and the current depth.
func (l *lexer) token(kind ir.Kind, off int) ir.Token {
	id := 0
	if n := len(l.stack); n > 0 {
		id = l.stack[n-1]
	}
	return ir.Token{Kind: kind, LoopID: id, Layer: l.depth, Offset: off}
}

func (l *lexer) emit(tok ir.Token) {
	l.tokens = append(l.tokens, tok)
	l.prev = &l.tokens[len(l.tokens)-1]
}

func (l *lexer) prevIs(kind ir.Kind) bool {
	return l.prev != nil && l.prev.Kind == kind
}

func hexValue(b byte) (byte, bool) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', true
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10, true
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10, true
	}
	return 0, false
}
