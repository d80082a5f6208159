// Package progress prints single-line progress counters for the batch tools
// when they run in a terminal.
package progress

import (
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/term"
)

// Counter rewrites one status line per update. Output is suppressed when the
// writer is not a terminal so piped logs stay clean.
type Counter struct {
	mu      sync.Mutex
	w       io.Writer
	enabled bool
	active  bool
}

// New returns a Counter writing to w. It is only enabled when w is an
// *os.File attached to a terminal.
func New(w io.Writer) *Counter {
	enabled := false
	if f, ok := w.(*os.File); ok {
		enabled = term.IsTerminal(int(f.Fd()))
	}
	return &Counter{w: w, enabled: enabled}
}

// Enabled reports whether updates are written.
func (c *Counter) Enabled() bool {
	return c.enabled
}

// Update prints "stage: done/total (pct%)" over the previous line.
func (c *Counter) Update(stage string, done, total int) {
	if !c.enabled || total <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	pct := done * 100 / total
	fmt.Fprintf(c.w, "\r\033[K%s: %d/%d (%d%%)", stage, done, total, pct)
	c.active = true
}

// Done ends the status line.
func (c *Counter) Done() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active {
		fmt.Fprintln(c.w)
		c.active = false
	}
}
