package diag

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
)

// Severity classifies a diagnostic.
type Severity int

const (
	Warning Severity = iota
	Error
)

func (s Severity) String() string {
	if s == Error {
		return "error"
	}
	return "warning"
}

// Pos is a resolved location inside a source buffer. Offset is the byte offset,
// Line and Column are 1-based. A zero Pos means "no position".
type Pos struct {
	Offset int
	Line   int
	Column int
}

// IsValid reports whether the position points into a source buffer.
func (p Pos) IsValid() bool {
	return p.Line > 0
}

// Diagnostic is a single message produced while compiling a program.
type Diagnostic struct {
	Severity Severity
	File     string
	Pos      Pos
	Message  string
}

// Reporter collects diagnostics and writes them to an output stream in either
// plain text or JSON lines.
type Reporter struct {
	w        io.Writer
	format   string
	file     string
	lines    []int
	diags    []Diagnostic
	errCount int
}

// NewReporter returns a reporter writing to w. format is "text" or "json";
// anything else falls back to text.
func NewReporter(w io.Writer, format string) *Reporter {
	if w == nil {
		w = io.Discard
	}
	if format != "json" {
		format = "text"
	}
	return &Reporter{w: w, format: format}
}

// SetSource registers the buffer positions refer to so byte offsets can be
// resolved to line and column numbers.
func (r *Reporter) SetSource(name string, src []byte) {
	if r == nil {
		return
	}
	r.file = name
	r.lines = r.lines[:0]
	r.lines = append(r.lines, 0)
	for i, b := range src {
		if b == '\n' {
			r.lines = append(r.lines, i+1)
		}
	}
}

// Position resolves a byte offset against the registered source.
func (r *Reporter) Position(offset int) Pos {
	if r == nil || len(r.lines) == 0 || offset < 0 {
		return Pos{}
	}
	line := sort.Search(len(r.lines), func(i int) bool { return r.lines[i] > offset })
	return Pos{
		Offset: offset,
		Line:   line,
		Column: offset - r.lines[line-1] + 1,
	}
}

// Errorf reports an error without position.
func (r *Reporter) Errorf(format string, args ...interface{}) {
	r.report(Error, -1, fmt.Sprintf(format, args...))
}

// ErrorAt reports an error at the given byte offset.
func (r *Reporter) ErrorAt(offset int, format string, args ...interface{}) {
	r.report(Error, offset, fmt.Sprintf(format, args...))
}

// WarnAt reports a warning at the given byte offset.
func (r *Reporter) WarnAt(offset int, format string, args ...interface{}) {
	r.report(Warning, offset, fmt.Sprintf(format, args...))
}

func (r *Reporter) report(sev Severity, offset int, msg string) {
	if r == nil {
		return
	}
	d := Diagnostic{
		Severity: sev,
		File:     r.file,
		Message:  msg,
	}
	if offset >= 0 {
		d.Pos = r.Position(offset)
	}
	if sev == Error {
		r.errCount++
	}
	r.diags = append(r.diags, d)
	r.write(d)
}

func (r *Reporter) write(d Diagnostic) {
	if r.format == "json" {
		rec := jsonDiagnostic{
			Severity: d.Severity.String(),
			File:     d.File,
			Message:  d.Message,
		}
		if d.Pos.IsValid() {
			rec.Line = d.Pos.Line
			rec.Column = d.Pos.Column
			rec.Offset = d.Pos.Offset
		}
		data, err := json.Marshal(rec)
		if err != nil {
			return
		}
		fmt.Fprintln(r.w, string(data))
		return
	}
	prefix := d.File
	if d.Pos.IsValid() {
		if prefix == "" {
			prefix = "<input>"
		}
		prefix = fmt.Sprintf("%s:%d:%d", prefix, d.Pos.Line, d.Pos.Column)
	}
	if prefix != "" {
		fmt.Fprintf(r.w, "%s: %s: %s\n", prefix, d.Severity, d.Message)
		return
	}
	fmt.Fprintf(r.w, "%s: %s\n", d.Severity, d.Message)
}

type jsonDiagnostic struct {
	Severity string `json:"severity"`
	File     string `json:"file,omitempty"`
	Line     int    `json:"line,omitempty"`
	Column   int    `json:"column,omitempty"`
	Offset   int    `json:"offset,omitempty"`
	Message  string `json:"message"`
}

// HasErrors reports whether any error-level diagnostic was recorded.
func (r *Reporter) HasErrors() bool {
	return r != nil && r.errCount > 0
}

// Diagnostics returns every diagnostic reported so far.
func (r *Reporter) Diagnostics() []Diagnostic {
	if r == nil {
		return nil
	}
	return append([]Diagnostic(nil), r.diags...)
}
