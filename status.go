package talonbridge

import "sync"

// StatusCell is a mutex-guarded task summary shared between the editor's
// task runner and the response pipeline. It is created by the process that
// owns the editor state and passed explicitly to whoever needs it; keeping
// it out of package state stops the display layer and the protocol from
// coupling through a hidden global.
type StatusCell struct {
	mu      sync.Mutex
	summary *string
}

// Set replaces the current summary.
func (c *StatusCell) Set(summary string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := summary
	c.summary = &s
}

// Clear removes the current summary.
func (c *StatusCell) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.summary = nil
}

// Summary returns a copy of the current summary, or nil when no task is
// running.
func (c *StatusCell) Summary() *string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.summary == nil {
		return nil
	}
	s := *c.summary
	return &s
}
