package passes

import (
	"fmt"

	"fullfuck/internal/ir"
)

// Pass is a single transformation over the program.
type Pass interface {
	Name() string
	Run(prog *ir.Program) error
}

// Manager runs passes in registration order.
type Manager struct {
	passes []Pass
}

// NewManager returns an empty pass manager.
func NewManager() *Manager {
	return &Manager{}
}

// Add appends a pass to the pipeline.
func (m *Manager) Add(p Pass) {
	m.passes = append(m.passes, p)
}

// Names lists the registered passes.
func (m *Manager) Names() []string {
	names := make([]string, 0, len(m.passes))
	for _, p := range m.passes {
		names = append(names, p.Name())
	}
	return names
}

// Run executes every pass, stopping at the first failure.
func (m *Manager) Run(prog *ir.Program) error {
	if prog == nil {
		return fmt.Errorf("pass manager requires a non-nil program")
	}
	for _, p := range m.passes {
		if err := p.Run(prog); err != nil {
			return fmt.Errorf("%s: %w", p.Name(), err)
		}
	}
	return nil
}

// ForLevel builds the default pipeline for an optimization level. Level 0
// runs nothing, level 1 coalesces additive runs, level 2 and above also
// unrolls trivial counted loops first.
func ForLevel(level int) *Manager {
	m := NewManager()
	if level >= 2 {
		m.Add(NewLoopUnroller())
	}
	if level >= 1 {
		m.Add(NewCoalescer())
	}
	return m
}
