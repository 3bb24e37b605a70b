// Package compiler wires the lexer, the optimization passes and the URCL
// generator into a single byte-buffer-in, text-out call.
package compiler

import (
	"fmt"

	"fullfuck/internal/diag"
	"fullfuck/internal/frontend"
	"fullfuck/internal/ir"
	"fullfuck/internal/passes"
	"fullfuck/internal/urcl"
)

// DefaultOptLevel runs both optimization passes.
const DefaultOptLevel = 2

// Options configures a compilation.
type Options struct {
	Name     string
	OmitHalt bool
	Header   bool
	OptLevel int
	Reporter *diag.Reporter
}

// DefaultOptions returns the options used when the caller only cares about
// the halt flag.
func DefaultOptions() Options {
	return Options{OptLevel: DefaultOptLevel}
}

// Compile translates src into URCL. Any failure aborts the whole compilation
// and no partial output is returned.
func Compile(src []byte, opts Options) (string, error) {
	prog, err := Build(src, opts)
	if err != nil {
		return "", err
	}
	out, err := urcl.Emit(prog, urcl.Options{OmitHalt: opts.OmitHalt, Header: opts.Header})
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}
	return out, nil
}

// Build lexes src and runs the passes selected by opts.OptLevel, returning the
// program the code generator would consume.
func Build(src []byte, opts Options) (*ir.Program, error) {
	res, err := frontend.Lex(src, opts.Reporter)
	if err != nil {
		return nil, fmt.Errorf("lex: %w", err)
	}
	prog := &ir.Program{Name: opts.Name, Tokens: res.Tokens}
	if err := passes.ForLevel(opts.OptLevel).Run(prog); err != nil {
		return nil, err
	}
	return prog, nil
}
