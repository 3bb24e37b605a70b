package validate

import (
	"bytes"
	"strings"
	"testing"

	"fullfuck/internal/diag"
)

func TestValidateAcceptsWellFormedProgram(t *testing.T) {
	diagStr, err := runValidation(t, "041<[+>]010[$>]")
	if err != nil {
		t.Fatalf("expected success, got error %v with diagnostics %s", err, diagStr)
	}
	if diagStr != "" {
		t.Fatalf("expected no diagnostics, got %q", diagStr)
	}
}

func TestValidateRejectsUnclosedLoop(t *testing.T) {
	diagStr, err := runValidation(t, "+[[-]")
	if err == nil {
		t.Fatalf("expected unclosed loop to fail")
	}
	if !strings.Contains(diagStr, "prog.ff:1:2: error: loop 1 is never closed") {
		t.Fatalf("expected unclosed loop diagnostic, got %q", diagStr)
	}
}

func TestValidateRejectsStrayClose(t *testing.T) {
	diagStr, err := runValidation(t, "+]")
	if err == nil {
		t.Fatalf("expected stray close to fail")
	}
	if !strings.Contains(diagStr, "loop close without matching open") {
		t.Fatalf("expected unbalanced diagnostic, got %q", diagStr)
	}
}

func TestValidateRejectsDanglingEscapes(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{src: "+?", want: "inside conditional prefix"},
		{src: "%NAME", want: "inside port name"},
		{src: "%NAME%", want: "inside port name"},
		{src: "+04", want: "inside numeric literal"},
	}
	for _, tc := range tests {
		diagStr, err := runValidation(t, tc.src)
		if err == nil {
			t.Fatalf("%q: expected dangling escape to fail", tc.src)
		}
		if !strings.Contains(diagStr, tc.want) {
			t.Fatalf("%q: expected %q diagnostic, got %q", tc.src, tc.want, diagStr)
		}
	}
}

func TestValidateWarnings(t *testing.T) {
	diagStr, err := runValidation(t, "$+005+?x")
	if err != nil {
		t.Fatalf("warnings must not fail validation: %v", err)
	}
	for _, want := range []string{
		"loop counter read outside any loop",
		"numeric literal 0x05 is not used",
		"after conditional prefix dropped",
	} {
		if !strings.Contains(diagStr, want) {
			t.Errorf("expected warning %q, got %q", want, diagStr)
		}
	}
}

func TestValidateRequiresReporter(t *testing.T) {
	if err := CheckProgram([]byte("+"), nil); err == nil {
		t.Fatalf("expected error without reporter")
	}
}

func runValidation(t *testing.T, src string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	reporter := diag.NewReporter(&buf, "text")
	reporter.SetSource("prog.ff", []byte(src))
	err := CheckProgram([]byte(src), reporter)
	return buf.String(), err
}
