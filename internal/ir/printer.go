package ir

import (
	"fmt"
	"io"
)

// Dump writes a simple human-readable representation of the program. The
// weighted stream is printed when present, the raw token stream otherwise.
func Dump(prog *Program, w io.Writer) {
	if prog == nil {
		fmt.Fprintln(w, "<nil program>")
		return
	}
	name := prog.Name
	if name == "" {
		name = "<input>"
	}
	fmt.Fprintf(w, "program %s\n", name)
	if prog.Weighted != nil {
		fmt.Fprintln(w, "  weighted:")
		for _, wt := range prog.Weighted {
			fmt.Fprintf(w, "    %s x%d\n", describe(wt.Token), wt.Weight)
		}
		return
	}
	fmt.Fprintln(w, "  tokens:")
	for _, tok := range prog.Tokens {
		fmt.Fprintf(w, "    %s\n", describe(tok))
	}
}

func describe(tok Token) string {
	base := fmt.Sprintf("%-11s id=%d layer=%d", tok.Kind, tok.LoopID, tok.Layer)
	switch tok.Kind {
	case Number:
		return fmt.Sprintf("%s value=0x%02X", base, tok.Value)
	case OpenLoop:
		return fmt.Sprintf("%s bound=%s", base, tok.Bound)
	case Input, Output:
		return fmt.Sprintf("%s port=%s", base, tok.Port)
	default:
		return base
	}
}
