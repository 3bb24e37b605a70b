package frontend

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"fullfuck/internal/diag"
)

// LoadConfig configures where the program source is read from. Source is a
// file path, or "-" for standard input.
type LoadConfig struct {
	Source string
	Stdin  io.Reader
}

// LoadSource reads the whole program into memory and registers it with the
// reporter so later diagnostics carry line and column numbers.
func LoadSource(cfg LoadConfig, reporter *diag.Reporter) ([]byte, error) {
	if cfg.Source == "" {
		return nil, fmt.Errorf("no source file was provided")
	}

	var (
		data []byte
		err  error
		name string
	)
	if cfg.Source == "-" {
		in := cfg.Stdin
		if in == nil {
			in = os.Stdin
		}
		name = "<stdin>"
		data, err = io.ReadAll(in)
	} else {
		name = displayName(cfg.Source)
		data, err = os.ReadFile(cfg.Source)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}

	reporter.SetSource(name, data)
	return data, nil
}

func displayName(path string) string {
	cleaned := filepath.Clean(path)
	if cwd, err := os.Getwd(); err == nil {
		if rel, err := filepath.Rel(cwd, cleaned); err == nil && !filepath.IsAbs(rel) && len(rel) < len(cleaned) {
			return rel
		}
	}
	return cleaned
}
