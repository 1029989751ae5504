// Package signalcoord centralizes the shell's single piece of global state:
// whether an interrupt (SIGINT) has been delivered since the last time it
// was cleared. The parser never consults it; the executor consults it
// between chain nodes, between pipeline stages, and between for-loop
// iterations (see internal/executor and internal/forloop).
package signalcoord

import (
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
)

// Coordinator owns the process-wide interrupt flag and the signal channel
// feeding it. Re-architected from the source's bare global per the
// "Global mutable state" design note: callers get an explicit object
// instead of a package-level variable.
type Coordinator struct {
	ch    chan os.Signal
	flag  atomic.Bool
	armed atomic.Bool
}

// New creates a Coordinator and installs the SIGINT handler.
func New() *Coordinator {
	c := &Coordinator{ch: make(chan os.Signal, 1)}
	signal.Notify(c.ch, syscall.SIGINT)
	c.armed.Store(true)
	go c.run()
	return c
}

func (c *Coordinator) run() {
	for range c.ch {
		if c.armed.Load() {
			c.flag.Store(true)
		}
	}
}

// Received reports whether SIGINT has arrived since the last Clear.
func (c *Coordinator) Received() bool {
	return c.flag.Load()
}

// Clear resets the flag, typically once per top-level line dispatched
// to the executor.
func (c *Coordinator) Clear() {
	c.flag.Store(false)
}

// Stop removes the SIGINT handler, restoring default disposition for
// this process; after it, the flag is no longer set by SIGINT.
func (c *Coordinator) Stop() {
	c.armed.Store(false)
	signal.Stop(c.ch)
}

// ResetChildDisposition restores default SIGINT handling, undoing the
// Notify installed by New. A re-exec'd worker (internal/workerexec)
// calls this through RaiseSelf right before re-raising the signal
// against itself, since its own Coordinator would otherwise just catch
// the signal and set the flag rather than letting it terminate the
// process.
func ResetChildDisposition() {
	signal.Reset(syscall.SIGINT)
}

// RaiseSelf re-raises SIGINT against the current process after
// restoring default disposition, so that a parent's os/exec Wait()
// observes signal-death uniformly (§5 "Cancellation"). Called by a
// re-exec'd worker (internal/workerexec) that observed the interrupt
// flag while running its assigned pipeline stage or for-loop body.
func RaiseSelf() {
	ResetChildDisposition()
	_ = syscall.Kill(syscall.Getpid(), syscall.SIGINT)
}
