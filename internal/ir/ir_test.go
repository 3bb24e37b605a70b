package ir

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBoundSentinelsAreDistinct(t *testing.T) {
	if !Infinite.IsInfinite() || Infinite.IsConditional() {
		t.Fatalf("Infinite misclassified: %v", Infinite)
	}
	if !Conditional.IsConditional() || Conditional.IsInfinite() {
		t.Fatalf("Conditional misclassified: %v", Conditional)
	}
	if n, ok := Count(0).Counted(); !ok || n != 0 {
		t.Fatalf("Count(0).Counted() = %d, %v", n, ok)
	}
	if _, ok := Infinite.Counted(); ok {
		t.Fatalf("Infinite must not report a count")
	}
	if Count(255) == Infinite || Count(0) == Conditional {
		t.Fatalf("counted bounds must not compare equal to sentinels")
	}
}

func TestPorts(t *testing.T) {
	if got := NumericPort(65); got != "65" {
		t.Fatalf("NumericPort(65) = %q", got)
	}
	if got := NamedPort("GPIO"); got != "%GPIO" {
		t.Fatalf("NamedPort(GPIO) = %q", got)
	}
}

func TestExpandUnitRoundTrip(t *testing.T) {
	weighted := []WeightedToken{
		{Token: Token{Kind: Add}, Weight: 3},
		{Token: Token{Kind: Output, Port: DefaultPort}, Weight: 1},
		{Token: Token{Kind: Subtract}, Weight: 2},
	}
	want := []Token{
		{Kind: Add}, {Kind: Add}, {Kind: Add},
		{Kind: Output, Port: DefaultPort},
		{Kind: Subtract}, {Kind: Subtract},
	}
	if diff := cmp.Diff(want, Expand(weighted)); diff != "" {
		t.Fatalf("Expand mismatch (-want +got):\n%s", diff)
	}
	if got := len(Unit(want)); got != len(want) {
		t.Fatalf("Unit length = %d, want %d", got, len(want))
	}
}

func TestDumpTokens(t *testing.T) {
	prog := &Program{
		Name: "demo.ff",
		Tokens: []Token{
			{Kind: Number, Value: 0x41},
			{Kind: OpenLoop, LoopID: 1, Layer: 1, Bound: Count(0x41)},
			{Kind: EndLoop, LoopID: 1, Layer: 1},
			{Kind: Input, Port: NumericPort(0x41)},
		},
	}
	var buf bytes.Buffer
	Dump(prog, &buf)
	out := buf.String()
	for _, want := range []string{"program demo.ff", "value=0x41", "bound=65", "port=65"} {
		if !strings.Contains(out, want) {
			t.Errorf("dump missing %q:\n%s", want, out)
		}
	}
}

func TestKindString(t *testing.T) {
	if got := LoopCounter.String(); got != "LoopCounter" {
		t.Fatalf("LoopCounter.String() = %q", got)
	}
	if got := Kind(99).String(); got != "Kind(99)" {
		t.Fatalf("Kind(99).String() = %q", got)
	}
}
