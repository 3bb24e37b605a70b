package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"fullfuck/internal/compiler"
	"fullfuck/internal/diag"
	"fullfuck/internal/frontend"
	"fullfuck/internal/ir"
	"fullfuck/internal/validate"
)

var (
	stdin  io.Reader = os.Stdin
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		printGlobalUsage()
		return fmt.Errorf("missing command")
	}

	switch args[0] {
	case "compile":
		return runCompile(args[1:])
	case "lint":
		return runLint(args[1:])
	default:
		printGlobalUsage()
		return fmt.Errorf("unknown command: %s", args[0])
	}
}

func runCompile(args []string) error {
	fs := flag.NewFlagSet("compile", flag.ContinueOnError)
	fs.SetOutput(stderr)

	emit := fs.String("emit", "urcl", "output format (tokens|ir|urcl)")
	output := fs.String("o", "", "output file path (stdout when omitted)")
	noHalt := fs.Bool("no-hlt", false, "omit the trailing HLT so the program falls through")
	header := fs.Bool("header", false, "prepend BITS and MINREG directives")
	optLevel := fs.Int("O", compiler.DefaultOptLevel, "optimization level (0: none, 1: coalesce, 2: unroll and coalesce)")
	diagFormat := fs.String("diag-format", "text", "diagnostic output format (text|json)")

	inputs, err := parseInterleaved(fs, args)
	if err != nil {
		return err
	}

	switch len(inputs) {
	case 1:
	case 2:
		if *output != "" {
			return fmt.Errorf("output given both with -o and as a positional argument")
		}
		*output = inputs[1]
	default:
		fs.Usage()
		return fmt.Errorf("compile command requires one source file and an optional output file")
	}
	if *optLevel < 0 {
		return fmt.Errorf("optimization level must be >= 0 (got %d)", *optLevel)
	}

	reporter := diag.NewReporter(stderr, *diagFormat)
	src, err := frontend.LoadSource(frontend.LoadConfig{Source: inputs[0], Stdin: stdin}, reporter)
	if err != nil {
		return err
	}

	opts := compiler.Options{
		Name:     inputs[0],
		OmitHalt: *noHalt,
		Header:   *header,
		OptLevel: *optLevel,
		Reporter: reporter,
	}

	switch *emit {
	case "tokens":
		res, err := frontend.Lex(src, reporter)
		if err != nil {
			return err
		}
		return emitProgram(&ir.Program{Name: opts.Name, Tokens: res.Tokens}, *output)
	case "ir":
		prog, err := compiler.Build(src, opts)
		if err != nil {
			return err
		}
		return emitProgram(prog, *output)
	case "urcl":
		text, err := compiler.Compile(src, opts)
		if err != nil {
			return err
		}
		return withOutputWriter(*output, func(w io.Writer) error {
			_, err := io.WriteString(w, text)
			return err
		})
	default:
		return fmt.Errorf("unknown emit format: %s", *emit)
	}
}

// parseInterleaved parses flags that may appear before, between or after the
// positional arguments, so "compile in.ff out.urcl --no-hlt" works too.
func parseInterleaved(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		if fs.NArg() == 0 {
			return positional, nil
		}
		positional = append(positional, fs.Arg(0))
		args = fs.Args()[1:]
	}
}

func printGlobalUsage() {
	fmt.Fprintf(stderr, "FullFuck to URCL compiler\n\n")
	fmt.Fprintf(stderr, "Usage:\n")
	fmt.Fprintf(stderr, "  fullfuck <command> [options]\n\n")
	fmt.Fprintf(stderr, "Commands:\n")
	fmt.Fprintf(stderr, "  compile    Compile a FullFuck program to URCL (or dump tokens / IR)\n")
	fmt.Fprintf(stderr, "  lint       Report unclosed loops, dangling escapes and dropped bytes\n")
}

func runLint(args []string) error {
	fs := flag.NewFlagSet("lint", flag.ContinueOnError)
	fs.SetOutput(stderr)

	diagFormat := fs.String("diag-format", "text", "diagnostic output format (text|json)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("lint requires exactly one source file")
	}

	reporter := diag.NewReporter(stderr, *diagFormat)
	src, err := frontend.LoadSource(frontend.LoadConfig{Source: fs.Arg(0), Stdin: stdin}, reporter)
	if err != nil {
		return err
	}
	return validate.CheckProgram(src, reporter)
}

func emitProgram(prog *ir.Program, outputPath string) error {
	if prog == nil {
		return fmt.Errorf("no program available to emit")
	}
	return withOutputWriter(outputPath, func(w io.Writer) error {
		ir.Dump(prog, w)
		return nil
	})
}

func withOutputWriter(path string, fn func(io.Writer) error) error {
	w, cleanup, err := outputWriter(path)
	if err != nil {
		return err
	}
	if cleanup == nil {
		return fn(w)
	}
	err = fn(w)
	if closeErr := cleanup(); err == nil && closeErr != nil {
		err = closeErr
	}
	return err
}

func outputWriter(path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return stdout, nil, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}
