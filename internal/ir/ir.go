package ir

import "strconv"

// Program is the pipeline-scoped state handed from stage to stage. The lexer
// fills Tokens, the optimization passes rewrite Tokens and produce Weighted,
// and the code generator consumes Weighted.
type Program struct {
	Name     string
	Tokens   []Token
	Weighted []WeightedToken
}

// Kind discriminates tokens.
type Kind int

const (
	Add Kind = iota
	Subtract
	OpenLoop
	EndLoop
	Output
	Input
	LoopCounter
	Push
	Pop
	Number

	// SkipNext and Barrier are only inserted by the loop unroller.
	SkipNext
	Barrier
)

var kindNames = [...]string{
	Add:         "Add",
	Subtract:    "Subtract",
	OpenLoop:    "OpenLoop",
	EndLoop:     "EndLoop",
	Output:      "Output",
	Input:       "Input",
	LoopCounter: "LoopCounter",
	Push:        "Push",
	Pop:         "Pop",
	Number:      "Number",
	SkipNext:    "SkipNext",
	Barrier:     "Barrier",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// IsAdditive reports whether the kind changes the accumulator by one.
func (k Kind) IsAdditive() bool {
	return k == Add || k == Subtract
}

// Token is a lexed instruction. Values that belong to a token travel with it:
// Number carries Value, OpenLoop carries Bound and Input/Output carry Port.
type Token struct {
	Kind   Kind
	LoopID int
	Layer  int
	Offset int

	Value byte
	Bound Bound
	Port  Port
}

// Bound is the repetition count of a loop.
type Bound struct {
	kind  boundKind
	count uint8
}

type boundKind uint8

const (
	infiniteBound boundKind = iota
	conditionalBound
	countedBound
)

var (
	// Infinite marks a loop without a static bound.
	Infinite = Bound{kind: infiniteBound}
	// Conditional marks a loop whose bound is the accumulator at loop entry.
	Conditional = Bound{kind: conditionalBound}
)

// Count returns a bound of exactly n iterations.
func Count(n uint8) Bound {
	return Bound{kind: countedBound, count: n}
}

// IsInfinite reports whether the loop has no static bound.
func (b Bound) IsInfinite() bool { return b.kind == infiniteBound }

// IsConditional reports whether the bound is supplied at runtime.
func (b Bound) IsConditional() bool { return b.kind == conditionalBound }

// Counted returns the literal iteration count, if any.
func (b Bound) Counted() (uint8, bool) {
	return b.count, b.kind == countedBound
}

// Equal reports whether two bounds are identical.
func (b Bound) Equal(o Bound) bool { return b == o }

func (b Bound) String() string {
	switch b.kind {
	case infiniteBound:
		return "inf"
	case conditionalBound:
		return "cond"
	default:
		return strconv.Itoa(int(b.count))
	}
}

// DefaultPort is the text port used by I/O instructions without a name.
const DefaultPort Port = "%TEXT"

// Port is the operand naming an I/O port in the target ISA.
type Port string

// NumericPort returns the port addressed by a numeric literal.
func NumericPort(n byte) Port {
	return Port(strconv.Itoa(int(n)))
}

// NamedPort returns the port spelled by a %name% escape.
func NamedPort(name string) Port {
	return Port("%" + name)
}

// WeightedToken is a token repeated Weight times. Only the additive kinds
// carry a weight other than one.
type WeightedToken struct {
	Token
	Weight uint8
}

// Unit wraps every token with weight one.
func Unit(tokens []Token) []WeightedToken {
	out := make([]WeightedToken, 0, len(tokens))
	for _, tok := range tokens {
		out = append(out, WeightedToken{Token: tok, Weight: 1})
	}
	return out
}

// Expand turns a weighted stream back into unit tokens.
func Expand(weighted []WeightedToken) []Token {
	var out []Token
	for _, wt := range weighted {
		n := 1
		if wt.Kind.IsAdditive() {
			n = int(wt.Weight)
		}
		for i := 0; i < n; i++ {
			out = append(out, wt.Token)
		}
	}
	return out
}
