package cli

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/forumone/f1-ext-install/pkg/system"
)

// stepHooks prints a header as each installer step starts and reports
// failed steps.
type stepHooks struct {
	w io.Writer
}

func (h *stepHooks) OnStepStart(_ context.Context, step string) {
	printStep(h.w, step)
}

func (h *stepHooks) OnStepComplete(_ context.Context, step string, d time.Duration, err error) {
	if err != nil {
		printError(h.w, "%s failed after %s", step, d.Round(time.Millisecond))
	}
}

// commandHooks keeps a tally of commands for the debug log. Failures reach
// the user through the step hook and the returned error, not here.
type commandHooks struct {
	logger *log.Logger

	mu     sync.Mutex
	ran    int
	failed int
}

func (h *commandHooks) OnCommandStart(context.Context, string, []string) {}

func (h *commandHooks) OnCommandComplete(_ context.Context, program string, args []string, d time.Duration, err error) {
	h.mu.Lock()
	h.ran++
	if err != nil {
		h.failed++
	}
	ran, failed := h.ran, h.failed
	h.mu.Unlock()

	if err != nil {
		h.logger.Debug("command failed", "cmd", system.NewCommand(program, args...).String(),
			"elapsed", d.Round(time.Millisecond))
	}
	h.logger.Debug("commands", "ran", ran, "failed", failed)
}
