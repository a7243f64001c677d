package system

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// DryRunner records commands instead of executing them. If W is set, each
// command is also printed to it as a shell line.
type DryRunner struct {
	W io.Writer

	// Outputs maps a program name to the text Output returns for it.
	// Programs without an entry produce empty output.
	Outputs map[string]string

	mu       sync.Mutex
	commands []Command
}

// Run records cmd.
func (r *DryRunner) Run(_ context.Context, cmd Command) error {
	r.record(cmd)
	return nil
}

// Output records cmd and returns the canned output for its program.
func (r *DryRunner) Output(_ context.Context, cmd Command) (string, error) {
	r.record(cmd)
	return r.Outputs[cmd.Program], nil
}

// Commands returns the commands recorded so far, in order.
func (r *DryRunner) Commands() []Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Command(nil), r.commands...)
}

func (r *DryRunner) record(cmd Command) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands = append(r.commands, cmd)
	if r.W != nil {
		fmt.Fprintln(r.W, cmd.String())
	}
}
